package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/testimonioya/feedback-services/api/internal/public/domain"
)

// TenantRepository implements the public application.TenantRepository.
type TenantRepository struct {
	collection *mongo.Collection
}

// NewTenantRepository creates a new Mongo-backed tenant repository.
func NewTenantRepository(db *mongo.Database, collectionName string) *TenantRepository {
	return &TenantRepository{collection: db.Collection(collectionName)}
}

// FindByID returns the tenant, or nil when it does not exist.
func (r *TenantRepository) FindByID(ctx context.Context, id string) (*domain.Tenant, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	var doc TenantDocument
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	tenant := mapTenantDocument(doc)
	return &tenant, nil
}
