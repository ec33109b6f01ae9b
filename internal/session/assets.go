package session

import (
	"go.uber.org/zap"

	"github.com/jask/casedesk/internal/model"
)

// Refresh issues another catalog load for the active case at the current
// epoch. Loads sharing an epoch are all accepted; the last one to commit wins.
func (s *Session) Refresh() LoadTicket {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loading = true
	return LoadTicket{CaseID: s.caseID, Epoch: s.epoch}
}

// CommitAssets replaces the catalog with assets if t is still current and
// reconciles the selection against it. It reports whether the result was
// applied; stale results are dropped without touching any state.
func (s *Session) CommitAssets(t LoadTicket, assets []model.Asset) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t.Epoch != s.epoch {
		s.log.Debug("stale asset list discarded",
			zap.String("case_id", t.CaseID), zap.Uint64("epoch", t.Epoch), zap.Uint64("current", s.epoch))
		return false
	}
	s.assets = append([]model.Asset{}, assets...)
	s.assetsErr = nil
	s.loading = false
	s.reconcileLocked()
	return true
}

// FailAssets records a failed load for t: the catalog becomes empty with err
// attached. Stale failures are dropped like stale results.
func (s *Session) FailAssets(t LoadTicket, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t.Epoch != s.epoch {
		s.log.Debug("stale asset failure discarded",
			zap.String("case_id", t.CaseID), zap.Uint64("epoch", t.Epoch), zap.Error(err))
		return false
	}
	s.log.Warn("asset list failed", zap.String("case_id", t.CaseID), zap.Error(err))
	s.assets = nil
	s.assetsErr = err
	s.loading = false
	s.reconcileLocked()
	return true
}

// Assets returns a copy of the current catalog.
func (s *Session) Assets() []model.Asset {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Asset(nil), s.assets...)
}

// AssetsErr returns the error of the last committed load, if it failed.
func (s *Session) AssetsErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.assetsErr
}
