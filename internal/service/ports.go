package service

import (
	"context"
	"time"

	"match-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
)

// Storage ports consumed by the matchmaker and the orchestrator. The
// mongo repositories satisfy them; tests substitute in-memory fakes.

type MatchStore interface {
	Create(ctx context.Context, match *models.Match) error
	FindByID(ctx context.Context, id string) (*models.Match, error)
	Update(ctx context.Context, id string, update bson.M) error
	Delete(ctx context.Context, id string) error
	FindWaitingByTheme(ctx context.Context, themeID, excludeParticipant string) (*models.Match, error)
	ClaimSecondSlot(ctx context.Context, matchID, participantID string) (*models.Match, error)
	MarkCompleted(ctx context.Context, id, winner string, score1, score2 int, completedAt time.Time) error
}

type AnswerStore interface {
	Create(ctx context.Context, answer *models.Answer) error
	DeleteByMatch(ctx context.Context, matchID string) error
}

type ThemeStore interface {
	FindByID(ctx context.Context, id string) (*models.Theme, error)
}

// QuestionSelector yields the fixed question list for a match.
type QuestionSelector interface {
	SelectForMatch(ctx context.Context, themeID string, count int) ([]models.Question, error)
}

// SystemPublisher pushes lifecycle events to the message broker for
// other services. Optional; a nil publisher is skipped.
type SystemPublisher interface {
	Publish(eventType string, payload interface{}) error
}
