package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/testimonioya/feedback-services/api/internal/public/domain"
)

// EndpointRepository implements the public application.EndpointRepository.
type EndpointRepository struct {
	collection *mongo.Collection
}

// NewEndpointRepository creates a new Mongo-backed endpoint repository.
func NewEndpointRepository(db *mongo.Database, collectionName string) *EndpointRepository {
	return &EndpointRepository{collection: db.Collection(collectionName)}
}

// FindBySlug returns the endpoint with the given slug, or nil when no
// endpoint matches.
func (r *EndpointRepository) FindBySlug(ctx context.Context, slug string) (*domain.Endpoint, error) {
	var doc EndpointDocument
	err := r.collection.FindOne(ctx, bson.M{"slug": slug}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	endpoint := mapEndpointDocument(doc)
	return &endpoint, nil
}

// IncrementViews bumps the endpoint view counter by one.
func (r *EndpointRepository) IncrementViews(ctx context.Context, endpointID string) error {
	objectID, err := primitive.ObjectIDFromHex(endpointID)
	if err != nil {
		return fmt.Errorf("invalid endpoint id %q: %w", endpointID, err)
	}
	_, err = r.collection.UpdateOne(ctx,
		bson.M{"_id": objectID},
		bson.M{"$inc": bson.M{"viewsCount": 1}},
	)
	return err
}
