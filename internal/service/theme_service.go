package service

import (
	"context"

	"match-service/internal/models"
	"match-service/internal/repository"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
)

type ThemeService struct {
	Repo *repository.ThemeRepository
}

func NewThemeService(repo *repository.ThemeRepository) *ThemeService {
	return &ThemeService{Repo: repo}
}

func (s *ThemeService) GetTheme(ctx context.Context, id string) (*models.Theme, error) {
	return s.Repo.FindByID(ctx, id)
}

func (s *ThemeService) ListActiveThemes(ctx context.Context) ([]models.Theme, error) {
	return s.Repo.FindActive(ctx)
}

func (s *ThemeService) CreateTheme(ctx context.Context, theme *models.Theme) error {
	if theme.ID == "" {
		theme.ID = uuid.NewString()
	}
	theme.IsActive = true
	return s.Repo.Create(ctx, theme)
}

func (s *ThemeService) UpdateTheme(ctx context.Context, id string, update bson.M) error {
	return s.Repo.Update(ctx, id, update)
}

func (s *ThemeService) DeleteTheme(ctx context.Context, id string) error {
	return s.Repo.Delete(ctx, id)
}
