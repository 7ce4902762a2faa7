package service

import (
	"context"

	"match-service/internal/models"
	"match-service/internal/repository"
)

type AnswerService struct {
	Repo *repository.AnswerRepository
}

func NewAnswerService(repo *repository.AnswerRepository) *AnswerService {
	return &AnswerService{Repo: repo}
}

func (s *AnswerService) GetAnswersByMatch(ctx context.Context, matchID string) ([]models.Answer, error) {
	return s.Repo.FindByMatch(ctx, matchID)
}
