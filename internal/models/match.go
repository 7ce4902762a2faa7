package models

import "time"

type MatchStatus string

const (
	StatusWaiting   MatchStatus = "waiting"
	StatusActive    MatchStatus = "active"
	StatusCompleted MatchStatus = "completed"
	StatusCancelled MatchStatus = "cancelled"
)

type Match struct {
	ID                   string      `bson:"_id,omitempty" json:"id"`
	Participant1         string      `bson:"participant1" json:"participant1"`
	Participant2         string      `bson:"participant2,omitempty" json:"participant2,omitempty"`
	ThemeID              string      `bson:"theme_id" json:"theme_id"`
	Status               MatchStatus `bson:"status" json:"status"`
	Winner               string      `bson:"winner,omitempty" json:"winner,omitempty"`
	Score1               int         `bson:"score1" json:"score1"`
	Score2               int         `bson:"score2" json:"score2"`
	CurrentQuestionIndex int         `bson:"current_question_index" json:"current_question_index"`
	CreatedAt            time.Time   `bson:"created_at" json:"created_at"`
	CompletedAt          time.Time   `bson:"completed_at,omitempty" json:"completed_at,omitempty"`
}

// CanTransitionTo enforces the one-way lifecycle
// waiting -> active -> {completed, cancelled}.
func (m *Match) CanTransitionTo(next MatchStatus) bool {
	switch m.Status {
	case StatusWaiting:
		return next == StatusActive || next == StatusCancelled
	case StatusActive:
		return next == StatusCompleted || next == StatusCancelled
	default:
		return false
	}
}

func (m *Match) HasParticipant(participantID string) bool {
	return participantID != "" && (m.Participant1 == participantID || m.Participant2 == participantID)
}
