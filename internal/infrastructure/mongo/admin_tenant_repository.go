package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	admindomain "github.com/testimonioya/feedback-services/api/internal/admin/domain"
)

// AdminTenantRepository implements the admin application.TenantRepository.
type AdminTenantRepository struct {
	collection *mongo.Collection
}

// NewAdminTenantRepository creates a new Mongo-backed admin tenant repository.
func NewAdminTenantRepository(db *mongo.Database, collectionName string) *AdminTenantRepository {
	return &AdminTenantRepository{collection: db.Collection(collectionName)}
}

// FindByID returns the tenant, or nil when it does not exist.
func (r *AdminTenantRepository) FindByID(ctx context.Context, id string) (*admindomain.Tenant, error) {
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
	tenant := mapAdminTenantDocument(doc)
	return &tenant, nil
}

// FindByUser returns all tenants owned by the user, newest first.
func (r *AdminTenantRepository) FindByUser(ctx context.Context, userID string) ([]admindomain.Tenant, error) {
	cursor, err := r.collection.Find(ctx,
		bson.M{"userId": userID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	tenants := make([]admindomain.Tenant, 0)
	for cursor.Next(ctx) {
		var doc TenantDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		tenants = append(tenants, mapAdminTenantDocument(doc))
	}
	return tenants, cursor.Err()
}

// UpdateSettings persists the mutable settings fields of a tenant.
func (r *AdminTenantRepository) UpdateSettings(ctx context.Context, tenant *admindomain.Tenant) error {
	objectID, err := primitive.ObjectIDFromHex(tenant.ID)
	if err != nil {
		return fmt.Errorf("invalid tenant id %q: %w", tenant.ID, err)
	}

	now := time.Now().UTC()
	update := bson.M{"$set": bson.M{
		"name":                tenant.Name,
		"brandColor":          tenant.BrandColor,
		"defaultLanguage":     tenant.DefaultLanguage,
		"welcomeMessage":      tenant.WelcomeMessage,
		"googleReviewsUrl":    tenant.GoogleReviewsURL,
		"googleNpsThreshold":  tenant.GoogleNPSThreshold,
		"googleStarThreshold": tenant.GoogleStarThreshold,
		"useUnifiedFlow":      tenant.UseUnifiedFlow,
		"useRecoveryFlow":     tenant.UseRecoveryFlow,
		"allowAudio":          tenant.AllowAudio,
		"allowVideo":          tenant.AllowVideo,
		"updatedAt":           now,
	}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("tenant %s not found", tenant.ID)
	}
	tenant.UpdatedAt = now
	return nil
}
