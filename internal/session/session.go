package session

import (
	"sync"
	"time"

	"match-service/internal/clock"
	"match-service/internal/models"
)

// Session is the runtime-only state of one active match. It is owned
// and mutated by the orchestrator exclusively and never shared across
// matches. Everything behind mu must be touched before any I/O so two
// near-simultaneous submissions cannot both pass the answered check.
type Session struct {
	MatchID      string
	Participant1 string
	Participant2 string
	Questions    []models.Question

	mu            sync.Mutex
	index         int
	questionStart time.Time
	answered      map[string]struct{}
	pending       map[string]*models.Answer
	scores        map[string]int
	ended         bool

	ticker   clock.Ticker
	tickStop chan struct{}
	deadline clock.Timer
}

func New(matchID, participant1, participant2 string, questions []models.Question) *Session {
	scores := map[string]int{participant1: 0}
	if participant2 != "" {
		scores[participant2] = 0
	}
	return &Session{
		MatchID:      matchID,
		Participant1: participant1,
		Participant2: participant2,
		Questions:    questions,
		answered:     make(map[string]struct{}),
		pending:      make(map[string]*models.Answer),
		scores:       scores,
		ended:        true, // no question live until BeginQuestion
	}
}

// HasParticipant reports whether the id belongs to this match.
func (s *Session) HasParticipant(participantID string) bool {
	return participantID != "" &&
		(participantID == s.Participant1 || participantID == s.Participant2)
}

// ExpectedAnswers is how many answers close the live question early.
func (s *Session) ExpectedAnswers() int {
	if s.Participant2 == "" {
		return 1
	}
	return 2
}

// AddPoints applies points to a participant's running total and
// returns the new total. The session is the authoritative score while
// the match is live.
func (s *Session) AddPoints(participantID string, points int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scores[participantID] += points
	return s.scores[participantID]
}

// Scores returns a copy of the running totals.
func (s *Session) Scores() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]int, len(s.scores))
	for k, v := range s.scores {
		out[k] = v
	}
	return out
}

// BeginQuestion resets per-question bookkeeping and records the
// authoritative server start time for question index.
func (s *Session) BeginQuestion(index int, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.index = index
	s.questionStart = now
	s.answered = make(map[string]struct{})
	s.pending = make(map[string]*models.Answer)
	s.ended = false
}

// TryMarkAnswered claims the single answer slot for a participant on
// question index. Returns false on duplicates, when no question is
// live, or when index is not the live question — a submission that
// stalled across a question boundary must not claim the next slot.
func (s *Session) TryMarkAnswered(participantID string, index int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended || s.index != index {
		return false
	}
	if _, dup := s.answered[participantID]; dup {
		return false
	}
	s.answered[participantID] = struct{}{}
	return true
}

// UnmarkAnswered releases a claim when the persistence write failed
// before any score was applied. A stale index is a no-op.
func (s *Session) UnmarkAnswered(participantID string, index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.index != index {
		return
	}
	delete(s.answered, participantID)
}

func (s *Session) RecordPending(a *models.Answer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[a.ParticipantID] = a
}

func (s *Session) AnsweredCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.answered)
}

// TryEnd flips the ended flag exactly once per question. The deadline
// timer and the early-completion path race here; the loser is a no-op.
func (s *Session) TryEnd() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return false
	}
	s.ended = true
	return true
}

func (s *Session) Index() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index
}

func (s *Session) QuestionStart() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.questionStart
}

// Live reports whether a question is currently accepting answers.
func (s *Session) Live() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.ended
}

// LiveQuestion returns the question currently accepting answers and
// its index, read under one lock so the pair is consistent.
func (s *Session) LiveQuestion() (*models.Question, int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended || s.index < 0 || s.index >= len(s.Questions) {
		return nil, 0, false
	}
	return &s.Questions[s.index], s.index, true
}

// CurrentQuestion returns the live question, or nil when the index is
// out of range.
func (s *Session) CurrentQuestion() *models.Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.index < 0 || s.index >= len(s.Questions) {
		return nil
	}
	return &s.Questions[s.index]
}

// Remaining computes the time left on the live question from the
// server clock, clamped into [0, limit].
func (s *Session) Remaining(now time.Time, limit time.Duration) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return 0
	}
	left := limit - now.Sub(s.questionStart)
	if left < 0 {
		return 0
	}
	if left > limit {
		return limit
	}
	return left
}

// SetTimers installs the periodic tick and hard deadline handles,
// stopping any previous pair first.
func (s *Session) SetTimers(ticker clock.Ticker, tickStop chan struct{}, deadline clock.Timer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopTimersLocked()
	s.ticker = ticker
	s.tickStop = tickStop
	s.deadline = deadline
}

// StopTimers cancels both the tick and the deadline. Safe to call
// repeatedly.
func (s *Session) StopTimers() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopTimersLocked()
}

func (s *Session) stopTimersLocked() {
	if s.ticker != nil {
		s.ticker.Stop()
		s.ticker = nil
	}
	if s.tickStop != nil {
		close(s.tickStop)
		s.tickStop = nil
	}
	if s.deadline != nil {
		s.deadline.Stop()
		s.deadline = nil
	}
}
