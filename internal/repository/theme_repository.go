package repository

import (
	"context"

	"match-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type ThemeRepository struct {
	Col *mongo.Collection
}

func NewThemeRepository(db *mongo.Database) *ThemeRepository {
	return &ThemeRepository{Col: db.Collection("themes")}
}

func (r *ThemeRepository) FindByID(ctx context.Context, id string) (*models.Theme, error) {
	var theme models.Theme
	err := r.Col.FindOne(ctx, bson.M{"_id": id}).Decode(&theme)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &theme, nil
}

func (r *ThemeRepository) FindActive(ctx context.Context) ([]models.Theme, error) {
	cur, err := r.Col.Find(ctx, bson.M{"is_active": true})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var themes []models.Theme
	for cur.Next(ctx) {
		var theme models.Theme
		if err := cur.Decode(&theme); err != nil {
			return nil, err
		}
		themes = append(themes, theme)
	}
	return themes, nil
}

func (r *ThemeRepository) Create(ctx context.Context, theme *models.Theme) error {
	_, err := r.Col.InsertOne(ctx, theme)
	return err
}

func (r *ThemeRepository) Update(ctx context.Context, id string, update bson.M) error {
	_, err := r.Col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": update})
	return err
}

func (r *ThemeRepository) Delete(ctx context.Context, id string) error {
	_, err := r.Col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"is_active": false}})
	return err
}
