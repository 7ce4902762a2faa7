package service

import (
	"context"
	"errors"
	"log"
	"time"

	"match-service/internal/apperr"
	"match-service/internal/clock"
	"match-service/internal/events"
	"match-service/internal/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
)

type JoinRole string

const (
	RoleCreated JoinRole = "created"
	RoleJoined  JoinRole = "joined"
)

// MatchStarter is the slice of the orchestrator the matchmaker needs.
type MatchStarter interface {
	Start(ctx context.Context, matchID string) error
}

// MatchmakerService pairs a joining participant with a compatible
// waiting match or opens a new one. The second slot is filled with a
// single conditional update at the storage boundary; there is no lock
// around the lookup, so a lost race falls back to creating a match.
type MatchmakerService struct {
	Matches MatchStore
	Themes  ThemeStore

	starter     MatchStarter
	broadcaster events.Broadcaster
	publisher   SystemPublisher
	clk         clock.Clock
	startDelay  time.Duration
}

func NewMatchmakerService(
	matches MatchStore,
	themes ThemeStore,
	starter MatchStarter,
	broadcaster events.Broadcaster,
	publisher SystemPublisher,
	clk clock.Clock,
	startDelay time.Duration,
) *MatchmakerService {
	return &MatchmakerService{
		Matches:     matches,
		Themes:      themes,
		starter:     starter,
		broadcaster: broadcaster,
		publisher:   publisher,
		clk:         clk,
		startDelay:  startDelay,
	}
}

// JoinOrCreate is the single matchmaking entry point. When a second
// participant is claimed the orchestrator is scheduled to start the
// match after a short delay so both clients can finish subscribing.
func (s *MatchmakerService) JoinOrCreate(ctx context.Context, themeID, participantID string) (*models.Match, JoinRole, error) {
	if participantID == "" {
		return nil, "", apperr.Validation("MISSING_PARTICIPANT", "participant id is required")
	}
	theme, err := s.Themes.FindByID(ctx, themeID)
	if err != nil {
		return nil, "", apperr.Internal("looking up theme", err)
	}
	if theme == nil {
		return nil, "", apperr.NotFound("THEME_NOT_FOUND", "theme does not exist")
	}
	if !theme.IsActive {
		return nil, "", apperr.Validation("THEME_INACTIVE", "theme is not open for matches")
	}

	waiting, err := s.Matches.FindWaitingByTheme(ctx, themeID, participantID)
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, "", apperr.Internal("finding waiting match", err)
	}

	if waiting != nil {
		claimed, err := s.Matches.ClaimSecondSlot(ctx, waiting.ID, participantID)
		switch {
		case err == nil:
			s.broadcaster.Emit(claimed.ID, events.OpponentJoined{
				Match:    claimed,
				Opponent: participantID,
			})
			s.publish("match.joined", map[string]interface{}{
				"match_id": claimed.ID, "participant_id": participantID,
			})
			s.scheduleStart(claimed.ID)
			return claimed, RoleJoined, nil
		case errors.Is(err, mongo.ErrNoDocuments):
			// Lost the claim race; open a fresh match instead.
		default:
			return nil, "", apperr.Internal("claiming second slot", err)
		}
	}

	match := &models.Match{
		ID:           uuid.NewString(),
		Participant1: participantID,
		ThemeID:      themeID,
		Status:       models.StatusWaiting,
		CreatedAt:    s.clk.Now(),
	}
	if err := s.Matches.Create(ctx, match); err != nil {
		return nil, "", apperr.Internal("creating match", err)
	}
	s.publish("match.created", map[string]interface{}{
		"match_id": match.ID, "theme_id": themeID, "participant_id": participantID,
	})
	return match, RoleCreated, nil
}

func (s *MatchmakerService) scheduleStart(matchID string) {
	s.clk.AfterFunc(s.startDelay, func() {
		if err := s.starter.Start(context.Background(), matchID); err != nil {
			log.Printf("match %s: start failed: %v", matchID, err)
		}
	})
}

func (s *MatchmakerService) publish(eventType string, payload interface{}) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(eventType, payload); err != nil {
		log.Printf("publishing %s: %v", eventType, err)
	}
}
