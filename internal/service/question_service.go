package service

import (
	"context"

	"match-service/internal/apperr"
	"match-service/internal/models"
	"match-service/internal/repository"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
)

type QuestionService struct {
	Repo *repository.QuestionRepository
}

func NewQuestionService(repo *repository.QuestionRepository) *QuestionService {
	return &QuestionService{Repo: repo}
}

func (s *QuestionService) ListByTheme(ctx context.Context, themeID string) ([]models.Question, error) {
	return s.Repo.FindByTheme(ctx, themeID)
}

func (s *QuestionService) GetQuestion(ctx context.Context, id string) (*models.Question, error) {
	return s.Repo.FindByID(ctx, id)
}

func (s *QuestionService) CreateQuestion(ctx context.Context, question *models.Question) error {
	if !question.Valid() {
		return apperr.Validation("INVALID_QUESTION", "question needs text, four options and a correct index 0-3")
	}
	if question.ID == "" {
		question.ID = uuid.NewString()
	}
	return s.Repo.Create(ctx, question)
}

func (s *QuestionService) UpdateQuestion(ctx context.Context, id string, update bson.M) error {
	return s.Repo.Update(ctx, id, update)
}

func (s *QuestionService) DeleteQuestion(ctx context.Context, id string) error {
	return s.Repo.Delete(ctx, id)
}
