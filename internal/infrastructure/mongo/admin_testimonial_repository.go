package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/testimonioya/feedback-services/api/internal/admin/application"
	admindomain "github.com/testimonioya/feedback-services/api/internal/admin/domain"
)

// AdminTestimonialRepository implements the admin application.TestimonialRepository.
type AdminTestimonialRepository struct {
	collection *mongo.Collection
}

// NewAdminTestimonialRepository creates a new Mongo-backed testimonial repository.
func NewAdminTestimonialRepository(db *mongo.Database, collectionName string) *AdminTestimonialRepository {
	return &AdminTestimonialRepository{collection: db.Collection(collectionName)}
}

// FindByTenant returns the tenant's testimonials, newest first.
func (r *AdminTestimonialRepository) FindByTenant(ctx context.Context, tenantID string, filter application.TestimonialFilter, paging application.Paging) ([]admindomain.Testimonial, error) {
	tenantObjectID, err := primitive.ObjectIDFromHex(tenantID)
	if err != nil {
		return nil, fmt.Errorf("invalid tenant id %q: %w", tenantID, err)
	}

	mongoFilter := bson.M{"tenantId": tenantObjectID}
	if filter.Status != "" {
		mongoFilter["status"] = filter.Status
	}
	if filter.Source != "" {
		mongoFilter["source"] = filter.Source
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((paging.Page - 1) * paging.Limit)).
		SetLimit(int64(paging.Limit))
	cursor, err := r.collection.Find(ctx, mongoFilter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	testimonials := make([]admindomain.Testimonial, 0)
	for cursor.Next(ctx) {
		var doc TestimonialDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		testimonials = append(testimonials, mapAdminTestimonialDocument(doc))
	}
	return testimonials, cursor.Err()
}

// FindByID returns the testimonial, or nil when it does not exist.
func (r *AdminTestimonialRepository) FindByID(ctx context.Context, id string) (*admindomain.Testimonial, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	var doc TestimonialDocument
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	testimonial := mapAdminTestimonialDocument(doc)
	return &testimonial, nil
}

// UpdateStatus applies a moderation decision and returns the updated
// testimonial. Featured is only touched when the caller sent it.
func (r *AdminTestimonialRepository) UpdateStatus(ctx context.Context, id string, status admindomain.ModerationStatus, featured *bool) (*admindomain.Testimonial, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid testimonial id %q: %w", id, err)
	}

	set := bson.M{"status": string(status)}
	if featured != nil {
		set["isFeatured"] = *featured
	}

	var doc TestimonialDocument
	err = r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("testimonial %s not found", id)
	}
	if err != nil {
		return nil, err
	}
	testimonial := mapAdminTestimonialDocument(doc)
	return &testimonial, nil
}
