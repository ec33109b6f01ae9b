package session

import (
	"errors"

	"go.uber.org/zap"

	"github.com/jask/casedesk/internal/model"
)

// ErrAnswerFailed stands in when a question fails without a reported cause.
var ErrAnswerFailed = errors.New("question failed")

// AnswerState tracks where the current answer is in its lifecycle.
type AnswerState int

const (
	AnswerNone AnswerState = iota
	AnswerPending
	AnswerReady
	AnswerFailed
)

func (s AnswerState) String() string {
	switch s {
	case AnswerPending:
		return "pending"
	case AnswerReady:
		return "ready"
	case AnswerFailed:
		return "failed"
	default:
		return "none"
	}
}

// Answer is the displayed result of the latest question.
type Answer struct {
	State    AnswerState
	Text     string
	CaseID   string
	Question string
	Err      error
}

// AskTicket tags a question request with the case and sequence number it was
// issued under.
type AskTicket struct {
	CaseID   string
	Question string
	Seq      uint64
}

// Ask records question against the active case, marks the answer pending and
// returns the ticket for the request the caller must now issue.
func (s *Session) Ask(question string) AskTicket {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	s.question = question
	s.answer = Answer{State: AnswerPending, CaseID: s.caseID, Question: question}
	s.log.Debug("question issued", zap.String("case_id", s.caseID), zap.Uint64("seq", s.seq))
	return AskTicket{CaseID: s.caseID, Question: question, Seq: s.seq}
}

// current reports whether t is the newest question and still belongs to the
// active case.
func (s *Session) current(t AskTicket) bool {
	return t.Seq == s.seq && t.CaseID == s.caseID
}

// CommitAnswer applies a backend answer for t if t is still current.
func (s *Session) CommitAnswer(t AskTicket, text string, citations []model.Chunk) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.current(t) {
		s.log.Debug("stale answer discarded",
			zap.String("case_id", t.CaseID), zap.Uint64("seq", t.Seq),
			zap.String("active_case", s.caseID), zap.Uint64("latest_seq", s.seq))
		return false
	}
	s.answer = Answer{State: AnswerReady, Text: text, CaseID: t.CaseID, Question: t.Question}
	s.citations = append([]model.Chunk{}, citations...)
	return true
}

// FailAnswer marks the answer for t as failed and empties the citations, if t
// is still current.
func (s *Session) FailAnswer(t AskTicket, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.current(t) {
		s.log.Debug("stale answer failure discarded", zap.Uint64("seq", t.Seq), zap.Error(err))
		return false
	}
	if err == nil {
		err = ErrAnswerFailed
	}
	s.log.Warn("question failed", zap.String("case_id", t.CaseID), zap.Uint64("seq", t.Seq), zap.Error(err))
	s.answer = Answer{State: AnswerFailed, CaseID: t.CaseID, Question: t.Question, Err: err}
	s.citations = nil
	return true
}

// Question returns the last question asked.
func (s *Session) Question() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.question
}

// Answer returns the current answer.
func (s *Session) Answer() Answer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.answer
}

// Citations returns a copy of the citations of the current answer.
func (s *Session) Citations() []model.Chunk {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Chunk(nil), s.citations...)
}
