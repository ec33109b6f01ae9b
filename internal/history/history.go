// Package history remembers recently asked questions per case so they can be
// recalled in the question input.
package history

import (
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Store keeps up to perCase questions for each of the most recently used cases.
type Store struct {
	cache   *lru.Cache[string, []string]
	perCase int
}

// New returns a store holding at most cases case histories of perCase entries.
func New(cases, perCase int) (*Store, error) {
	if perCase < 1 {
		perCase = 1
	}
	cache, err := lru.New[string, []string](cases)
	if err != nil {
		return nil, err
	}
	return &Store{cache: cache, perCase: perCase}, nil
}

// Record appends question to the history of caseID. Blank questions are
// ignored and a repeated question moves to the end instead of duplicating.
func (s *Store) Record(caseID, question string) {
	q := strings.TrimSpace(question)
	if q == "" {
		return
	}
	prev, _ := s.cache.Get(caseID)
	next := make([]string, 0, len(prev)+1)
	for _, p := range prev {
		if p != q {
			next = append(next, p)
		}
	}
	next = append(next, q)
	if len(next) > s.perCase {
		next = next[len(next)-s.perCase:]
	}
	s.cache.Add(caseID, next)
}

// Recent returns the questions for caseID, oldest first.
func (s *Store) Recent(caseID string) []string {
	qs, _ := s.cache.Peek(caseID)
	return append([]string(nil), qs...)
}

// Cursor walks one case's history from newest to oldest.
type Cursor struct {
	items []string
	pos   int
}

// Cursor starts a walk over the history of caseID.
func (s *Store) Cursor(caseID string) *Cursor {
	items := s.Recent(caseID)
	return &Cursor{items: items, pos: len(items)}
}

// Prev steps to an older question. ok is false when there is none.
func (c *Cursor) Prev() (string, bool) {
	if c.pos == 0 {
		return "", false
	}
	c.pos--
	return c.items[c.pos], true
}

// Next steps to a newer question. Past the newest it reports false so the
// caller can restore what the user was typing.
func (c *Cursor) Next() (string, bool) {
	if c.pos >= len(c.items)-1 {
		c.pos = len(c.items)
		return "", false
	}
	c.pos++
	return c.items[c.pos], true
}
