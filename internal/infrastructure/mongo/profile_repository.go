package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/testimonioya/feedback-services/api/internal/plan"
)

// ProfileRepository resolves user plans from the profiles collection.
type ProfileRepository struct {
	collection *mongo.Collection
}

// NewProfileRepository creates a new Mongo-backed profile repository.
func NewProfileRepository(db *mongo.Database, collectionName string) *ProfileRepository {
	return &ProfileRepository{collection: db.Collection(collectionName)}
}

// TierForUser returns the user's current tier. A user without a profile
// document is on the free tier; that is not an error.
func (r *ProfileRepository) TierForUser(ctx context.Context, userID string) (plan.Tier, error) {
	var doc ProfileDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": userID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return plan.TierFree, nil
	}
	if err != nil {
		return plan.TierFree, err
	}
	return plan.ParseTier(doc.Plan), nil
}
