package session

import "go.uber.org/zap"

// LoadTicket tags an asset-listing request with the epoch active when it was
// issued.
type LoadTicket struct {
	CaseID string
	Epoch  uint64
}

// SetCase makes id the active case. Any string is accepted. It advances the
// asset-load epoch, empties the catalog, clears the selection and returns the ticket for the
// catalog load the caller must now issue.
func (s *Session) SetCase(id string) LoadTicket {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.caseID = id
	s.epoch++
	s.assets, s.assetsErr = nil, nil
	s.selected, s.hasSelected = "", false
	s.loading = true
	s.log.Debug("case changed", zap.String("case_id", id), zap.Uint64("epoch", s.epoch))
	return LoadTicket{CaseID: id, Epoch: s.epoch}
}

// CaseID returns the active case, regardless of loads still in flight.
func (s *Session) CaseID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.caseID
}

// Epoch returns the current asset-load epoch.
func (s *Session) Epoch() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.epoch
}
