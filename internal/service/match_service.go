package service

import (
	"context"
	"log"
	"time"

	"match-service/internal/apperr"
	"match-service/internal/clock"
	"match-service/internal/events"
	"match-service/internal/models"
	"match-service/internal/scoring"
	"match-service/internal/session"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
)

// Options are the timing knobs of the question cycle.
type Options struct {
	QuestionsPerMatch int
	QuestionTimeLimit time.Duration
	TickInterval      time.Duration
	InterQuestionGap  time.Duration
}

func DefaultOptions() Options {
	return Options{
		QuestionsPerMatch: 5,
		QuestionTimeLimit: 10 * time.Second,
		TickInterval:      100 * time.Millisecond,
		InterQuestionGap:  2 * time.Second,
	}
}

// MatchService drives a match through
// waiting -> active -> per-question cycles -> completed/cancelled.
// It owns the session registry and both per-question timers; all
// mutation of live state funnels through its methods.
type MatchService struct {
	Matches  MatchStore
	Answers  AnswerStore
	Selector QuestionSelector

	registry    *session.Registry
	broadcaster events.Broadcaster
	publisher   SystemPublisher
	clk         clock.Clock
	rule        scoring.Rule
	opts        Options
}

func NewMatchService(
	matches MatchStore,
	answers AnswerStore,
	selector QuestionSelector,
	registry *session.Registry,
	broadcaster events.Broadcaster,
	publisher SystemPublisher,
	clk clock.Clock,
	rule scoring.Rule,
	opts Options,
) *MatchService {
	return &MatchService{
		Matches:     matches,
		Answers:     answers,
		Selector:    selector,
		registry:    registry,
		broadcaster: broadcaster,
		publisher:   publisher,
		clk:         clk,
		rule:        rule,
		opts:        opts,
	}
}

func (s *MatchService) Registry() *session.Registry { return s.registry }

// Start loads the question list, flips the match to active, creates
// the session and begins question 0. A theme pool smaller than N
// aborts the start and leaves the match waiting.
func (s *MatchService) Start(ctx context.Context, matchID string) error {
	match, err := s.Matches.FindByID(ctx, matchID)
	if err != nil {
		return apperr.Wrap(apperr.KindNotFound, "MATCH_NOT_FOUND", "match not found", err)
	}
	if match.Status != models.StatusWaiting {
		return apperr.Conflict("MATCH_NOT_WAITING", "match already started or finished")
	}

	questions, err := s.Selector.SelectForMatch(ctx, match.ThemeID, s.opts.QuestionsPerMatch)
	if err != nil {
		s.broadcaster.Emit(matchID, events.ErrorEvent{
			Message: "not enough questions for this theme",
			Code:    "INSUFFICIENT_QUESTIONS",
		})
		return apperr.Wrap(apperr.KindValidation, "INSUFFICIENT_QUESTIONS", "theme pool too small", err)
	}

	if err := s.Matches.Update(ctx, matchID, bson.M{"status": models.StatusActive}); err != nil {
		return apperr.Internal("activating match", err)
	}
	match.Status = models.StatusActive

	sess := session.New(matchID, match.Participant1, match.Participant2, questions)
	s.registry.Put(sess)

	s.broadcaster.Emit(matchID, events.MatchStarted{
		Match:         match,
		FirstQuestion: events.ViewOf(&questions[0]),
		ServerTime:    s.clk.Now(),
	})
	s.publish("match.started", map[string]interface{}{"match_id": matchID, "theme_id": match.ThemeID})

	s.beginQuestion(matchID, 0)
	return nil
}

// beginQuestion arms the per-question cycle: bookkeeping reset, the
// 10 Hz countdown tick and the authoritative deadline timer.
func (s *MatchService) beginQuestion(matchID string, index int) {
	sess, ok := s.registry.Get(matchID)
	if !ok {
		// Match was cancelled during the inter-question gap.
		return
	}
	if index >= len(sess.Questions) {
		return
	}
	q := &sess.Questions[index]
	now := s.clk.Now()
	sess.BeginQuestion(index, now)

	s.broadcaster.Emit(matchID, events.QuestionStarted{
		Question:      events.ViewOf(q),
		QuestionIndex: index,
		TimeLimitMs:   s.opts.QuestionTimeLimit.Milliseconds(),
		ServerTime:    now,
	})

	ticker := s.clk.NewTicker(s.opts.TickInterval)
	stop := make(chan struct{})
	go s.tickLoop(matchID, sess, ticker, stop)

	deadline := s.clk.AfterFunc(s.opts.QuestionTimeLimit, func() {
		s.EndQuestion(matchID)
	})
	sess.SetTimers(ticker, stop, deadline)
}

func (s *MatchService) tickLoop(matchID string, sess *session.Session, ticker clock.Ticker, stop chan struct{}) {
	for {
		select {
		case <-stop:
			return
		case <-ticker.C():
			remaining := sess.Remaining(s.clk.Now(), s.opts.QuestionTimeLimit)
			s.broadcaster.Emit(matchID, events.CountdownTick{
				TimeRemainingMs: remaining.Milliseconds(),
				ServerTime:      s.clk.Now(),
			})
			if remaining <= 0 {
				return
			}
		}
	}
}

// SubmitAnswer validates and scores one submission. The uniqueness
// claim happens synchronously before any storage I/O; the answer
// record is persisted before the score is applied so a storage failure
// cannot leave a scored-but-unrecorded answer.
func (s *MatchService) SubmitAnswer(ctx context.Context, matchID, participantID string, selectedIndex int, clientReportedMs int64) error {
	sess, ok := s.registry.Get(matchID)
	if !ok {
		return apperr.NotFound("MATCH_NOT_ACTIVE", "no live session for match")
	}
	if !sess.HasParticipant(participantID) {
		return apperr.Validation("NOT_A_PARTICIPANT", "participant does not belong to this match")
	}
	if !models.ValidOptionIndex(selectedIndex) {
		return apperr.Validation("OPTION_OUT_OF_RANGE", "selected option index must be 0-3")
	}
	q, index, live := sess.LiveQuestion()
	if !live {
		return apperr.Conflict("NO_LIVE_QUESTION", "no question is accepting answers")
	}

	// Atomic claim of the one answer slot per (participant, question).
	// The claim carries the index so a submission that stalls across a
	// question boundary cannot take the next question's slot.
	if !sess.TryMarkAnswered(participantID, index) {
		return apperr.Conflict("ALREADY_ANSWERED", "participant already answered this question")
	}

	now := s.clk.Now()
	responseTime := now.Sub(sess.QuestionStart())

	// Client-reported latency is advisory only. Log when it disagrees
	// wildly with the server measurement; never use it for scoring.
	if clientReportedMs < 0 || clientReportedMs > 2*s.opts.QuestionTimeLimit.Milliseconds() {
		log.Printf("match %s: implausible client latency %dms from %s (server %dms)",
			matchID, clientReportedMs, participantID, responseTime.Milliseconds())
	}

	correct := selectedIndex == q.CorrectIndex
	points := s.rule.Score(responseTime, s.opts.QuestionTimeLimit, correct, q.DifficultyMultiplier())

	idx := selectedIndex
	answer := &models.Answer{
		ID:             uuid.NewString(),
		MatchID:        matchID,
		ParticipantID:  participantID,
		QuestionID:     q.ID,
		SelectedIndex:  &idx,
		IsCorrect:      correct,
		ResponseTimeMs: responseTime.Milliseconds(),
		AnsweredAt:     now,
	}
	if err := s.Answers.Create(ctx, answer); err != nil {
		// Nothing scored yet; release the claim so the participant may retry.
		sess.UnmarkAnswered(participantID, index)
		return apperr.Internal("persisting answer", err)
	}
	sess.RecordPending(answer)
	sess.AddPoints(participantID, points)

	scores := sess.Scores()
	update := bson.M{
		"score1": scores[sess.Participant1],
	}
	if sess.Participant2 != "" {
		update["score2"] = scores[sess.Participant2]
	}
	if err := s.Matches.Update(ctx, matchID, update); err != nil {
		// Memory stays authoritative; divergence is logged, not rolled back.
		log.Printf("match %s: score persist failed after answer commit: %v", matchID, err)
	}

	s.broadcaster.Emit(matchID, events.ParticipantAnswered{
		ParticipantID: participantID,
		HasAnswered:   true,
	})

	if sess.AnsweredCount() >= sess.ExpectedAnswers() {
		s.EndQuestion(matchID)
	}
	return nil
}

// EndQuestion closes the live question. Idempotent: the early
// completion path and the deadline timer both land here and only the
// first caller does any work.
func (s *MatchService) EndQuestion(matchID string) {
	sess, ok := s.registry.Get(matchID)
	if !ok {
		return
	}
	if !sess.TryEnd() {
		return
	}
	sess.StopTimers()

	index := sess.Index()
	q := &sess.Questions[index]
	s.broadcaster.Emit(matchID, events.QuestionEnded{
		CorrectAnswerIndex: q.CorrectIndex,
		Scores:             sess.Scores(),
	})

	next := index + 1
	ctx := context.Background()
	if err := s.Matches.Update(ctx, matchID, bson.M{"current_question_index": next}); err != nil {
		log.Printf("match %s: persisting question index %d: %v", matchID, next, err)
	}

	if next >= len(sess.Questions) {
		s.complete(ctx, matchID, sess)
		return
	}
	s.clk.AfterFunc(s.opts.InterQuestionGap, func() {
		s.beginQuestion(matchID, next)
	})
}

// complete settles the winner, emits the final snapshot and deletes
// the match plus its answers. No history survives completion.
func (s *MatchService) complete(ctx context.Context, matchID string, sess *session.Session) {
	scores := sess.Scores()
	score1 := scores[sess.Participant1]
	score2 := scores[sess.Participant2]

	var winner string
	switch {
	case score1 > score2:
		winner = sess.Participant1
	case score2 > score1 && sess.Participant2 != "":
		winner = sess.Participant2
	}

	completedAt := s.clk.Now()
	if err := s.Matches.MarkCompleted(ctx, matchID, winner, score1, score2, completedAt); err != nil {
		log.Printf("match %s: persisting completion: %v", matchID, err)
	}

	match, err := s.Matches.FindByID(ctx, matchID)
	if err != nil {
		match = &models.Match{
			ID: matchID, Participant1: sess.Participant1, Participant2: sess.Participant2,
			Status: models.StatusCompleted, Winner: winner,
			Score1: score1, Score2: score2, CompletedAt: completedAt,
		}
	}

	var winnerPtr *string
	if winner != "" {
		winnerPtr = &winner
	}
	s.broadcaster.Emit(matchID, events.MatchCompleted{
		Match:       match,
		FinalScores: scores,
		Winner:      winnerPtr,
	})
	s.publish("match.completed", map[string]interface{}{
		"match_id": matchID, "winner": winner, "score1": score1, "score2": score2,
	})

	s.registry.Delete(matchID)

	if err := s.Answers.DeleteByMatch(ctx, matchID); err != nil {
		log.Printf("match %s: deleting answers: %v", matchID, err)
	}
	if err := s.Matches.Delete(ctx, matchID); err != nil {
		log.Printf("match %s: deleting match record: %v", matchID, err)
	}
}

// Cancel tears a match down at any point before completion. No winner
// is computed.
func (s *MatchService) Cancel(ctx context.Context, matchID, reason string) error {
	match, err := s.Matches.FindByID(ctx, matchID)
	if err != nil {
		return apperr.Wrap(apperr.KindNotFound, "MATCH_NOT_FOUND", "match not found", err)
	}
	if !match.CanTransitionTo(models.StatusCancelled) {
		return apperr.Conflict("MATCH_FINISHED", "match already completed")
	}

	if sess, ok := s.registry.Get(matchID); ok {
		sess.TryEnd()
		sess.StopTimers()
		s.registry.Delete(matchID)
	}

	if err := s.Matches.Update(ctx, matchID, bson.M{"status": models.StatusCancelled}); err != nil {
		return apperr.Internal("cancelling match", err)
	}

	s.broadcaster.Emit(matchID, events.ErrorEvent{Message: reason, Code: "MATCH_CANCELLED"})
	s.publish("match.cancelled", map[string]interface{}{"match_id": matchID, "reason": reason})
	return nil
}

// SyncState rebuilds the full snapshot for a reconnecting client.
// Remaining time is always recomputed from the stored question start,
// never from anything client-held, and lands in [0, limit].
func (s *MatchService) SyncState(ctx context.Context, matchID, participantID string) (*events.StateSync, error) {
	match, err := s.Matches.FindByID(ctx, matchID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindNotFound, "MATCH_NOT_FOUND", "match not found", err)
	}
	if !match.HasParticipant(participantID) {
		return nil, apperr.Validation("NOT_A_PARTICIPANT", "participant does not belong to this match")
	}

	snapshot := &events.StateSync{Match: match}
	sess, ok := s.registry.Get(matchID)
	if !ok {
		return snapshot, nil
	}
	if q := sess.CurrentQuestion(); q != nil && sess.Live() {
		view := events.ViewOf(q)
		remaining := sess.Remaining(s.clk.Now(), s.opts.QuestionTimeLimit).Milliseconds()
		snapshot.CurrentQuestion = &view
		snapshot.TimeRemainingMs = &remaining
	}
	return snapshot, nil
}

// DisconnectParticipant notifies the room that a socket dropped. The
// match keeps running on server timers; the opponent plays on.
func (s *MatchService) DisconnectParticipant(matchID, participantID string) {
	if _, ok := s.registry.Get(matchID); !ok {
		return
	}
	s.broadcaster.Emit(matchID, events.OpponentDisconnected{ParticipantID: participantID})
}

func (s *MatchService) publish(eventType string, payload interface{}) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(eventType, payload); err != nil {
		log.Printf("publishing %s: %v", eventType, err)
	}
}
