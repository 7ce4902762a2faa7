package repository

import (
	"context"
	"time"

	"match-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MatchRepository struct {
	Col *mongo.Collection
}

func NewMatchRepository(db *mongo.Database) *MatchRepository {
	return &MatchRepository{Col: db.Collection("matches")}
}

func (r *MatchRepository) Create(ctx context.Context, match *models.Match) error {
	_, err := r.Col.InsertOne(ctx, match)
	return err
}

func (r *MatchRepository) FindByID(ctx context.Context, id string) (*models.Match, error) {
	var match models.Match
	err := r.Col.FindOne(ctx, bson.M{"_id": id}).Decode(&match)
	if err != nil {
		return nil, err
	}
	return &match, nil
}

func (r *MatchRepository) Update(ctx context.Context, id string, update bson.M) error {
	_, err := r.Col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": update})
	return err
}

func (r *MatchRepository) Delete(ctx context.Context, id string) error {
	_, err := r.Col.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// FindWaitingByTheme returns a waiting match for the theme that was not
// opened by the requester, or mongo.ErrNoDocuments.
func (r *MatchRepository) FindWaitingByTheme(ctx context.Context, themeID, excludeParticipant string) (*models.Match, error) {
	filter := bson.M{
		"theme_id":     themeID,
		"status":       models.StatusWaiting,
		"participant1": bson.M{"$ne": excludeParticipant},
		"participant2": bson.M{"$in": bson.A{nil, ""}},
	}
	var match models.Match
	err := r.Col.FindOne(ctx, filter, options.FindOne().SetSort(bson.D{{Key: "created_at", Value: 1}})).Decode(&match)
	if err != nil {
		return nil, err
	}
	return &match, nil
}

// ClaimSecondSlot fills participant2 with a single conditional update:
// the filter only matches while the slot is still empty, so concurrent
// joiners cannot double-claim. A lost race surfaces as
// mongo.ErrNoDocuments.
func (r *MatchRepository) ClaimSecondSlot(ctx context.Context, matchID, participantID string) (*models.Match, error) {
	filter := bson.M{
		"_id":          matchID,
		"status":       models.StatusWaiting,
		"participant2": bson.M{"$in": bson.A{nil, ""}},
	}
	update := bson.M{"$set": bson.M{"participant2": participantID}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var match models.Match
	err := r.Col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&match)
	if err != nil {
		return nil, err
	}
	return &match, nil
}

// MarkCompleted persists the terminal snapshot of a match.
func (r *MatchRepository) MarkCompleted(ctx context.Context, id, winner string, score1, score2 int, completedAt time.Time) error {
	return r.Update(ctx, id, bson.M{
		"status":       models.StatusCompleted,
		"winner":       winner,
		"score1":       score1,
		"score2":       score2,
		"completed_at": completedAt,
	})
}
