package session

import (
	"errors"
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
	"go.uber.org/zap"

	"github.com/jask/casedesk/internal/model"
)

// ErrNotInCatalog is returned when selecting an asset the loaded catalog does
// not contain.
var ErrNotInCatalog = errors.New("asset not in catalog")

// maxHintDistance bounds the edit distance for the "did you mean" hint.
const maxHintDistance = 3

// Select makes the catalog entry called name the previewed asset. Selecting a
// name that is not in the catalog leaves the selection unchanged.
func (s *Session) Select(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.lookupLocked(name); !ok {
		err := fmt.Errorf("select %q: %w", name, ErrNotInCatalog)
		if hint := s.closestLocked(name); hint != "" {
			err = fmt.Errorf("select %q (closest %q): %w", name, hint, ErrNotInCatalog)
		}
		s.log.Warn("selection inconsistency", zap.String("case_id", s.caseID), zap.Error(err))
		return err
	}
	s.selected, s.hasSelected = name, true
	return nil
}

// Clear drops the selection.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected, s.hasSelected = "", false
}

// Selected returns the selected asset as it appears in the current catalog.
func (s *Session) Selected() (model.Asset, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedLocked()
}

func (s *Session) selectedLocked() (model.Asset, bool) {
	if !s.hasSelected {
		return model.Asset{}, false
	}
	return s.lookupLocked(s.selected)
}

// reconcileLocked keeps the selection only if its name survived the catalog
// replacement. Callers hold s.mu and have just replaced s.assets.
func (s *Session) reconcileLocked() {
	if !s.hasSelected {
		return
	}
	if _, ok := s.lookupLocked(s.selected); !ok {
		s.log.Debug("selection dropped by catalog reload", zap.String("asset", s.selected))
		s.selected, s.hasSelected = "", false
	}
}

func (s *Session) lookupLocked(name string) (model.Asset, bool) {
	for _, a := range s.assets {
		if a.Name == name {
			return a, true
		}
	}
	return model.Asset{}, false
}

func (s *Session) closestLocked(name string) string {
	best, bestDist := "", maxHintDistance+1
	lower := strings.ToLower(name)
	for _, a := range s.assets {
		d := levenshtein.ComputeDistance(lower, strings.ToLower(a.Name))
		if d < bestDist {
			best, bestDist = a.Name, d
		}
	}
	return best
}
