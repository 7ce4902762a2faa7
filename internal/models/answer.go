package models

import "time"

type Answer struct {
	ID             string    `bson:"_id,omitempty" json:"id"`
	MatchID        string    `bson:"match_id" json:"match_id"`
	ParticipantID  string    `bson:"participant_id" json:"participant_id"`
	QuestionID     string    `bson:"question_id" json:"question_id"`
	SelectedIndex  *int      `bson:"selected_index,omitempty" json:"selected_index,omitempty"`
	IsCorrect      bool      `bson:"is_correct" json:"is_correct"`
	ResponseTimeMs int64     `bson:"response_time_ms" json:"response_time_ms"`
	AnsweredAt     time.Time `bson:"answered_at" json:"answered_at"`
}
