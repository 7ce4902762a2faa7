package selection

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"match-service/internal/models"

	"github.com/stretchr/testify/require"
)

type stubSource struct {
	questions []models.Question
	count     int64
	err       error
}

func (s *stubSource) FindRandomByTheme(_ context.Context, _ string, count int) ([]models.Question, error) {
	if s.err != nil {
		return nil, s.err
	}
	if count > len(s.questions) {
		count = len(s.questions)
	}
	return s.questions[:count], nil
}

func (s *stubSource) CountByTheme(_ context.Context, _ string) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	return s.count, nil
}

func playableQuestions(n int) []models.Question {
	qs := make([]models.Question, n)
	for i := range qs {
		qs[i] = models.Question{
			ID:           fmt.Sprintf("q%d", i),
			ThemeID:      "science",
			Text:         "t",
			Options:      []string{"a", "b", "c", "d"},
			CorrectIndex: 0,
			Difficulty:   "easy",
		}
	}
	return qs
}

func TestSelectForMatchReturnsExactCount(t *testing.T) {
	req := require.New(t)
	sel := NewSelector(&stubSource{questions: playableQuestions(8)})

	got, err := sel.SelectForMatch(context.Background(), "science", 5)
	req.NoError(err)
	req.Len(got, 5)
}

func TestSelectForMatchShortPool(t *testing.T) {
	req := require.New(t)
	sel := NewSelector(&stubSource{questions: playableQuestions(3)})

	_, err := sel.SelectForMatch(context.Background(), "science", 5)
	req.Error(err)
}

func TestSelectForMatchDropsMalformedQuestions(t *testing.T) {
	req := require.New(t)
	qs := playableQuestions(5)
	qs[2].Options = []string{"only", "two"}
	qs[4].CorrectIndex = 9
	sel := NewSelector(&stubSource{questions: qs})

	// Five drawn, only three playable: the match must not start.
	_, err := sel.SelectForMatch(context.Background(), "science", 5)
	req.Error(err)
	req.Contains(err.Error(), "3 playable")
}

func TestSelectForMatchSourceError(t *testing.T) {
	req := require.New(t)
	sel := NewSelector(&stubSource{err: errors.New("mongo down")})

	_, err := sel.SelectForMatch(context.Background(), "science", 5)
	req.Error(err)
}

func TestValidatePool(t *testing.T) {
	req := require.New(t)
	sel := NewSelector(&stubSource{count: 4})

	ok, n, err := sel.ValidatePool(context.Background(), "science", 5)
	req.NoError(err)
	req.False(ok)
	req.Equal(int64(4), n)

	sel = NewSelector(&stubSource{count: 12})
	ok, n, err = sel.ValidatePool(context.Background(), "science", 5)
	req.NoError(err)
	req.True(ok)
	req.Equal(int64(12), n)
}
