// Package session holds the per-session client state: the active case, its
// asset catalog, the selected asset and the current question/answer.
//
// Every asynchronous request is started through a ticket (LoadTicket or
// AskTicket) and its result is committed back with that ticket. A result is
// applied only when its ticket is still current, so completions may arrive in
// any order without overwriting state established by a newer action.
package session

import (
	"sync"

	"go.uber.org/zap"

	"github.com/jask/casedesk/internal/citation"
	"github.com/jask/casedesk/internal/model"
	"github.com/jask/casedesk/internal/preview"
)

// Session is the state container for one client session. Each field is
// written only by the operations in case.go, assets.go, query.go and
// selection.go.
type Session struct {
	mu  sync.Mutex
	log *zap.Logger

	// case context
	caseID string
	epoch  uint64

	// asset catalog
	assets    []model.Asset
	assetsErr error
	loading   bool

	// selection, by name; resolved against assets on read
	selected    string
	hasSelected bool

	// query dispatcher
	question  string
	seq       uint64
	answer    Answer
	citations []model.Chunk
}

// New returns an empty session. A nil logger is replaced with a no-op one.
func New(log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	return &Session{log: log.Named("session")}
}

// Snapshot is a consistent, read-only view of the session for rendering.
type Snapshot struct {
	CaseID        string
	Epoch         uint64
	Assets        []model.Asset
	AssetsErr     error
	AssetsLoading bool
	Selected      *model.Asset
	Modality      preview.Modality
	Question      string
	Answer        Answer
	Citations     []model.Chunk
	CitationRows  []string
}

// Snapshot copies the current state under a single lock so the catalog and
// the selection always agree.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		CaseID:        s.caseID,
		Epoch:         s.epoch,
		Assets:        append([]model.Asset(nil), s.assets...),
		AssetsErr:     s.assetsErr,
		AssetsLoading: s.loading,
		Question:      s.question,
		Answer:        s.answer,
		Citations:     append([]model.Chunk(nil), s.citations...),
		CitationRows:  citation.Rows(s.citations),
	}
	if a, ok := s.selectedLocked(); ok {
		snap.Selected = &a
		snap.Modality = preview.Classify(a.Name)
	}
	return snap
}
