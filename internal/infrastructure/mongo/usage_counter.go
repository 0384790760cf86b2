package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/testimonioya/feedback-services/api/internal/plan"
)

// UsageCounter implements plan.UsageCounter with count queries over the
// testimonial, response, endpoint and tenant collections.
type UsageCounter struct {
	testimonials *mongo.Collection
	responses    *mongo.Collection
	endpoints    *mongo.Collection
	tenants      *mongo.Collection
}

// NewUsageCounter creates a counter over the given collections.
func NewUsageCounter(db *mongo.Database, testimonials, responses, endpoints, tenants string) *UsageCounter {
	return &UsageCounter{
		testimonials: db.Collection(testimonials),
		responses:    db.Collection(responses),
		endpoints:    db.Collection(endpoints),
		tenants:      db.Collection(tenants),
	}
}

// CountTenantResources counts records of one resource kind for a tenant.
// A non-zero since narrows the count to records created at or after it.
func (c *UsageCounter) CountTenantResources(ctx context.Context, tenantID string, resource plan.Resource, since time.Time) (int, error) {
	tenantObjectID, err := primitive.ObjectIDFromHex(tenantID)
	if err != nil {
		return 0, fmt.Errorf("invalid tenant id %q: %w", tenantID, err)
	}

	var collection *mongo.Collection
	switch resource {
	case plan.ResourceTestimonials:
		collection = c.testimonials
	case plan.ResourceNPSResponses:
		collection = c.responses
	case plan.ResourceEndpoints:
		collection = c.endpoints
	default:
		return 0, fmt.Errorf("uncountable resource %q", resource)
	}

	filter := bson.M{"tenantId": tenantObjectID}
	if !since.IsZero() {
		filter["createdAt"] = bson.M{"$gte": since}
	}
	count, err := collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

// CountOwnerTenants counts how many tenants a user owns.
func (c *UsageCounter) CountOwnerTenants(ctx context.Context, userID string) (int, error) {
	count, err := c.tenants.CountDocuments(ctx, bson.M{"userId": userID})
	if err != nil {
		return 0, err
	}
	return int(count), nil
}
