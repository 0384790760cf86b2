package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	admindomain "github.com/testimonioya/feedback-services/api/internal/admin/domain"
)

// AdminEndpointRepository implements the admin application.EndpointRepository.
type AdminEndpointRepository struct {
	collection *mongo.Collection
}

// NewAdminEndpointRepository creates a new Mongo-backed admin endpoint repository.
func NewAdminEndpointRepository(db *mongo.Database, collectionName string) *AdminEndpointRepository {
	return &AdminEndpointRepository{collection: db.Collection(collectionName)}
}

// FindByTenant returns all endpoints of a tenant, newest first.
func (r *AdminEndpointRepository) FindByTenant(ctx context.Context, tenantID string) ([]admindomain.Endpoint, error) {
	tenantObjectID, err := primitive.ObjectIDFromHex(tenantID)
	if err != nil {
		return nil, fmt.Errorf("invalid tenant id %q: %w", tenantID, err)
	}
	cursor, err := r.collection.Find(ctx,
		bson.M{"tenantId": tenantObjectID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	endpoints := make([]admindomain.Endpoint, 0)
	for cursor.Next(ctx) {
		var doc EndpointDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		endpoints = append(endpoints, mapAdminEndpointDocument(doc))
	}
	return endpoints, cursor.Err()
}

// FindByID returns the endpoint, or nil when it does not exist.
func (r *AdminEndpointRepository) FindByID(ctx context.Context, id string) (*admindomain.Endpoint, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	var doc EndpointDocument
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	endpoint := mapAdminEndpointDocument(doc)
	return &endpoint, nil
}

// Create stores a new endpoint and writes the generated id back.
func (r *AdminEndpointRepository) Create(ctx context.Context, endpoint *admindomain.Endpoint) error {
	tenantObjectID, err := primitive.ObjectIDFromHex(endpoint.TenantID)
	if err != nil {
		return fmt.Errorf("invalid tenant id %q: %w", endpoint.TenantID, err)
	}
	doc := EndpointDocument{
		ID:                primitive.NewObjectID(),
		TenantID:          tenantObjectID,
		Slug:              endpoint.Slug,
		Name:              endpoint.Name,
		Kind:              endpoint.Kind,
		Active:            endpoint.Active,
		Message:           endpoint.Message,
		PromoterThreshold: endpoint.PromoterThreshold,
		PassiveThreshold:  endpoint.PassiveThreshold,
		AskGoogleReview:   endpoint.AskGoogleReview,
		GoogleReviewsURL:  endpoint.GoogleReviewsURL,
		CreatedAt:         endpoint.CreatedAt,
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return err
	}
	endpoint.ID = doc.ID.Hex()
	return nil
}

// Update persists the mutable fields of an endpoint. Counters are never
// written from here; they only move through $inc on the public side.
func (r *AdminEndpointRepository) Update(ctx context.Context, endpoint *admindomain.Endpoint) error {
	objectID, err := primitive.ObjectIDFromHex(endpoint.ID)
	if err != nil {
		return fmt.Errorf("invalid endpoint id %q: %w", endpoint.ID, err)
	}
	update := bson.M{"$set": bson.M{
		"name":                 endpoint.Name,
		"active":               endpoint.Active,
		"message":              endpoint.Message,
		"npsThresholdPromoter": endpoint.PromoterThreshold,
		"npsThresholdPassive":  endpoint.PassiveThreshold,
		"askGoogleReview":      endpoint.AskGoogleReview,
		"googleReviewsUrl":     endpoint.GoogleReviewsURL,
	}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("endpoint %s not found", endpoint.ID)
	}
	return nil
}
