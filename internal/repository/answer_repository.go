package repository

import (
	"context"

	"match-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type AnswerRepository struct {
	Col *mongo.Collection
}

func NewAnswerRepository(db *mongo.Database) *AnswerRepository {
	return &AnswerRepository{Col: db.Collection("answers")}
}

func (r *AnswerRepository) Create(ctx context.Context, answer *models.Answer) error {
	_, err := r.Col.InsertOne(ctx, answer)
	return err
}

func (r *AnswerRepository) FindByMatch(ctx context.Context, matchID string) ([]models.Answer, error) {
	cur, err := r.Col.Find(ctx, bson.M{"match_id": matchID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var answers []models.Answer
	for cur.Next(ctx) {
		var a models.Answer
		if err := cur.Decode(&a); err != nil {
			return nil, err
		}
		answers = append(answers, a)
	}
	return answers, nil
}

// DeleteByMatch removes every answer of a match. Called on completion;
// no history is retained past that point.
func (r *AnswerRepository) DeleteByMatch(ctx context.Context, matchID string) error {
	_, err := r.Col.DeleteMany(ctx, bson.M{"match_id": matchID})
	return err
}
