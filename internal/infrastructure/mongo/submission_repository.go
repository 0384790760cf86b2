package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/testimonioya/feedback-services/api/internal/public/application"
	"github.com/testimonioya/feedback-services/api/internal/public/domain"
)

// SubmissionRepository persists accepted submissions. When transactions are
// enabled the response, derived entity and counter bump commit or roll back
// together; on standalone deployments without a replica set the writes run in
// the same order without a session, which can at worst leave an unbumped
// counter behind a crash, never an orphaned derived entity.
type SubmissionRepository struct {
	client          *mongo.Client
	responses       *mongo.Collection
	testimonials    *mongo.Collection
	cases           *mongo.Collection
	endpoints       *mongo.Collection
	useTransactions bool
}

// NewSubmissionRepository creates a new Mongo-backed submission repository.
func NewSubmissionRepository(client *mongo.Client, db *mongo.Database, responses, testimonials, cases, endpoints string, useTransactions bool) *SubmissionRepository {
	return &SubmissionRepository{
		client:          client,
		responses:       db.Collection(responses),
		testimonials:    db.Collection(testimonials),
		cases:           db.Collection(cases),
		endpoints:       db.Collection(endpoints),
		useTransactions: useTransactions,
	}
}

// CreateSubmission stores one feedback response, its derived testimonial or
// recovery case if any, and bumps the endpoint submission counter. Generated
// ids are written back onto the domain objects.
func (r *SubmissionRepository) CreateSubmission(ctx context.Context, write *application.SubmissionWrite) error {
	responseDoc, err := r.buildResponseDocument(write.Response)
	if err != nil {
		return err
	}

	var testimonialDoc *TestimonialDocument
	if write.Testimonial != nil {
		doc, err := buildTestimonialDocument(write.Testimonial)
		if err != nil {
			return err
		}
		testimonialDoc = &doc
	}

	var caseDoc *RecoveryCaseDocument
	if write.Case != nil {
		write.Case.ResponseID = responseDoc.ID.Hex()
		doc, err := buildCaseDocument(write.Case, responseDoc.ID)
		if err != nil {
			return err
		}
		caseDoc = &doc
	}

	endpointObjectID, err := primitive.ObjectIDFromHex(write.EndpointID)
	if err != nil {
		return fmt.Errorf("invalid endpoint id %q: %w", write.EndpointID, err)
	}

	apply := func(ctx context.Context) error {
		if _, err := r.responses.InsertOne(ctx, responseDoc); err != nil {
			return fmt.Errorf("insert response: %w", err)
		}
		if testimonialDoc != nil {
			if _, err := r.testimonials.InsertOne(ctx, testimonialDoc); err != nil {
				return fmt.Errorf("insert testimonial: %w", err)
			}
		}
		if caseDoc != nil {
			if _, err := r.cases.InsertOne(ctx, caseDoc); err != nil {
				return fmt.Errorf("insert recovery case: %w", err)
			}
		}
		if _, err := r.endpoints.UpdateOne(ctx,
			bson.M{"_id": endpointObjectID},
			bson.M{"$inc": bson.M{"submissionsCount": 1}},
		); err != nil {
			return fmt.Errorf("bump endpoint counter: %w", err)
		}
		return nil
	}

	if err := r.run(ctx, apply); err != nil {
		return err
	}

	write.Response.ID = responseDoc.ID.Hex()
	if testimonialDoc != nil {
		write.Testimonial.ID = testimonialDoc.ID.Hex()
	}
	if caseDoc != nil {
		write.Case.ID = caseDoc.ID.Hex()
	}
	return nil
}

// CreateTestimonial stores one direct-form testimonial and bumps the endpoint
// submission counter.
func (r *SubmissionRepository) CreateTestimonial(ctx context.Context, endpointID string, testimonial *domain.Testimonial) error {
	doc, err := buildTestimonialDocument(testimonial)
	if err != nil {
		return err
	}
	endpointObjectID, err := primitive.ObjectIDFromHex(endpointID)
	if err != nil {
		return fmt.Errorf("invalid endpoint id %q: %w", endpointID, err)
	}

	apply := func(ctx context.Context) error {
		if _, err := r.testimonials.InsertOne(ctx, doc); err != nil {
			return fmt.Errorf("insert testimonial: %w", err)
		}
		if _, err := r.endpoints.UpdateOne(ctx,
			bson.M{"_id": endpointObjectID},
			bson.M{"$inc": bson.M{"submissionsCount": 1}},
		); err != nil {
			return fmt.Errorf("bump endpoint counter: %w", err)
		}
		return nil
	}

	if err := r.run(ctx, apply); err != nil {
		return err
	}
	testimonial.ID = doc.ID.Hex()
	return nil
}

func (r *SubmissionRepository) run(ctx context.Context, apply func(ctx context.Context) error) error {
	if !r.useTransactions {
		return apply(ctx)
	}
	session, err := r.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, apply(sc)
	})
	return err
}

func (r *SubmissionRepository) buildResponseDocument(response *domain.FeedbackResponse) (ResponseDocument, error) {
	tenantObjectID, err := primitive.ObjectIDFromHex(response.TenantID)
	if err != nil {
		return ResponseDocument{}, fmt.Errorf("invalid tenant id %q: %w", response.TenantID, err)
	}
	endpointObjectID, err := primitive.ObjectIDFromHex(response.EndpointID)
	if err != nil {
		return ResponseDocument{}, fmt.Errorf("invalid endpoint id %q: %w", response.EndpointID, err)
	}
	return ResponseDocument{
		ID:            primitive.NewObjectID(),
		TenantID:      tenantObjectID,
		EndpointID:    endpointObjectID,
		Score:         response.Score,
		Category:      string(response.Category),
		Feedback:      response.Feedback,
		CustomerName:  response.CustomerName,
		CustomerEmail: response.CustomerEmail,
		CreatedAt:     response.CreatedAt,
	}, nil
}

func buildTestimonialDocument(testimonial *domain.Testimonial) (TestimonialDocument, error) {
	tenantObjectID, err := primitive.ObjectIDFromHex(testimonial.TenantID)
	if err != nil {
		return TestimonialDocument{}, fmt.Errorf("invalid tenant id %q: %w", testimonial.TenantID, err)
	}
	return TestimonialDocument{
		ID:            primitive.NewObjectID(),
		TenantID:      tenantObjectID,
		CustomerName:  testimonial.CustomerName,
		CustomerEmail: testimonial.CustomerEmail,
		Text:          testimonial.Text,
		Rating:        testimonial.Rating,
		Status:        string(testimonial.Status),
		Source:        string(testimonial.Source),
		Featured:      testimonial.Featured,
		CreatedAt:     testimonial.CreatedAt,
	}, nil
}

func buildCaseDocument(recoveryCase *domain.RecoveryCase, responseID primitive.ObjectID) (RecoveryCaseDocument, error) {
	tenantObjectID, err := primitive.ObjectIDFromHex(recoveryCase.TenantID)
	if err != nil {
		return RecoveryCaseDocument{}, fmt.Errorf("invalid tenant id %q: %w", recoveryCase.TenantID, err)
	}
	messages := make([]MessageDocument, 0, len(recoveryCase.Messages))
	for _, m := range recoveryCase.Messages {
		messages = append(messages, MessageDocument{
			Role:      string(m.Role),
			Text:      m.Text,
			CreatedAt: m.CreatedAt,
		})
	}
	return RecoveryCaseDocument{
		ID:            primitive.NewObjectID(),
		TenantID:      tenantObjectID,
		ResponseID:    responseID,
		Status:        string(recoveryCase.Status),
		CustomerName:  recoveryCase.CustomerName,
		CustomerEmail: recoveryCase.CustomerEmail,
		Messages:      messages,
		ResolvedScore: recoveryCase.ResolvedScore,
		CreatedAt:     recoveryCase.CreatedAt,
		UpdatedAt:     recoveryCase.UpdatedAt,
	}, nil
}
