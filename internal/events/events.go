package events

import (
	"time"

	"match-service/internal/models"
)

type EventType string

const (
	TypeCreated              EventType = "created"
	TypeJoined               EventType = "joined"
	TypeOpponentJoined       EventType = "opponent-joined"
	TypeMatchStarted         EventType = "match-started"
	TypeQuestionStarted      EventType = "question-started"
	TypeCountdownTick        EventType = "countdown-tick"
	TypeParticipantAnswered  EventType = "participant-answered"
	TypeQuestionEnded        EventType = "question-ended"
	TypeMatchCompleted       EventType = "match-completed"
	TypeStateSync            EventType = "state-sync"
	TypeError                EventType = "error"
	TypeRateLimited          EventType = "rate-limited"
	TypeOpponentDisconnected EventType = "opponent-disconnected"
)

// Event is the closed set of outbound payloads. Everything the service
// pushes to a match room goes through Broadcaster.Emit as one of these.
type Event interface {
	Type() EventType
}

// Broadcaster delivers an event to every socket subscribed to a match
// room. The core never touches connections directly.
type Broadcaster interface {
	Emit(matchID string, e Event)
}

// QuestionView is the client-safe projection of a question: the
// correct index is withheld while the question is live.
type QuestionView struct {
	ID         string   `json:"id"`
	Text       string   `json:"text"`
	Options    []string `json:"options"`
	Difficulty string   `json:"difficulty"`
}

func ViewOf(q *models.Question) QuestionView {
	return QuestionView{ID: q.ID, Text: q.Text, Options: q.Options, Difficulty: q.Difficulty}
}

type Created struct {
	MatchID string        `json:"matchId"`
	Match   *models.Match `json:"match"`
}

func (Created) Type() EventType { return TypeCreated }

type Joined struct {
	MatchID string        `json:"matchId"`
	Match   *models.Match `json:"match"`
}

func (Joined) Type() EventType { return TypeJoined }

type OpponentJoined struct {
	Match    *models.Match `json:"match"`
	Opponent string        `json:"opponent"`
}

func (OpponentJoined) Type() EventType { return TypeOpponentJoined }

type MatchStarted struct {
	Match         *models.Match `json:"match"`
	FirstQuestion QuestionView  `json:"firstQuestion"`
	ServerTime    time.Time     `json:"serverTime"`
}

func (MatchStarted) Type() EventType { return TypeMatchStarted }

type QuestionStarted struct {
	Question      QuestionView `json:"question"`
	QuestionIndex int          `json:"questionIndex"`
	TimeLimitMs   int64        `json:"timeLimitMs"`
	ServerTime    time.Time    `json:"serverTime"`
}

func (QuestionStarted) Type() EventType { return TypeQuestionStarted }

type CountdownTick struct {
	TimeRemainingMs int64     `json:"timeRemainingMs"`
	ServerTime      time.Time `json:"serverTime"`
}

func (CountdownTick) Type() EventType { return TypeCountdownTick }

// ParticipantAnswered intentionally carries no answer content so the
// opponent cannot learn the selected option.
type ParticipantAnswered struct {
	ParticipantID string `json:"participantId"`
	HasAnswered   bool   `json:"hasAnswered"`
}

func (ParticipantAnswered) Type() EventType { return TypeParticipantAnswered }

type QuestionEnded struct {
	CorrectAnswerIndex int            `json:"correctAnswerIndex"`
	Scores             map[string]int `json:"scores"`
}

func (QuestionEnded) Type() EventType { return TypeQuestionEnded }

type MatchCompleted struct {
	Match       *models.Match  `json:"match"`
	FinalScores map[string]int `json:"finalScores"`
	Winner      *string        `json:"winner"`
}

func (MatchCompleted) Type() EventType { return TypeMatchCompleted }

type StateSync struct {
	Match           *models.Match `json:"match"`
	CurrentQuestion *QuestionView `json:"currentQuestion,omitempty"`
	TimeRemainingMs *int64        `json:"timeRemainingMs,omitempty"`
}

func (StateSync) Type() EventType { return TypeStateSync }

type ErrorEvent struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

func (ErrorEvent) Type() EventType { return TypeError }

type RateLimited struct {
	EventType string `json:"eventType"`
	Message   string `json:"message"`
}

func (RateLimited) Type() EventType { return TypeRateLimited }

// OpponentDisconnected tells the remaining participant their opponent's
// socket dropped. The match keeps running on server timers.
type OpponentDisconnected struct {
	ParticipantID string `json:"participantId"`
}

func (OpponentDisconnected) Type() EventType { return TypeOpponentDisconnected }
