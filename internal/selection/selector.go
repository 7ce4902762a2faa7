package selection

import (
	"context"
	"fmt"

	"match-service/internal/models"

	"github.com/samber/lo"
)

// QuestionSource is the slice of the question store the selector needs.
type QuestionSource interface {
	FindRandomByTheme(ctx context.Context, themeID string, count int) ([]models.Question, error)
	CountByTheme(ctx context.Context, themeID string) (int64, error)
}

// Selector draws the fixed ordered question list for a match.
type Selector struct {
	questions QuestionSource
}

func NewSelector(questions QuestionSource) *Selector {
	return &Selector{questions: questions}
}

// SelectForMatch returns exactly count playable questions for the
// theme. A pool with fewer than count questions is an error; the match
// must not start on a short list.
func (s *Selector) SelectForMatch(ctx context.Context, themeID string, count int) ([]models.Question, error) {
	drawn, err := s.questions.FindRandomByTheme(ctx, themeID, count)
	if err != nil {
		return nil, fmt.Errorf("drawing questions for theme %s: %w", themeID, err)
	}

	playable := lo.Filter(drawn, func(q models.Question, _ int) bool { return q.Valid() })
	if len(playable) < count {
		return nil, fmt.Errorf("theme %s has %d playable questions, need %d", themeID, len(playable), count)
	}
	return playable[:count], nil
}

// ValidatePool reports whether a theme can host a match of count
// questions without drawing anything.
func (s *Selector) ValidatePool(ctx context.Context, themeID string, count int) (bool, int64, error) {
	n, err := s.questions.CountByTheme(ctx, themeID)
	if err != nil {
		return false, 0, err
	}
	return n >= int64(count), n, nil
}
