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

// AdminCaseRepository implements the admin application.CaseRepository,
// joining the originating response's score and feedback into each case.
type AdminCaseRepository struct {
	cases     *mongo.Collection
	responses *mongo.Collection
}

// NewAdminCaseRepository creates a new Mongo-backed admin case repository.
func NewAdminCaseRepository(db *mongo.Database, cases, responses string) *AdminCaseRepository {
	return &AdminCaseRepository{
		cases:     db.Collection(cases),
		responses: db.Collection(responses),
	}
}

// FindByTenant returns the tenant's cases, most recently active first.
func (r *AdminCaseRepository) FindByTenant(ctx context.Context, tenantID string, filter application.CaseFilter, paging application.Paging) ([]admindomain.Case, error) {
	tenantObjectID, err := primitive.ObjectIDFromHex(tenantID)
	if err != nil {
		return nil, fmt.Errorf("invalid tenant id %q: %w", tenantID, err)
	}

	mongoFilter := bson.M{"tenantId": tenantObjectID}
	if filter.Status != "" {
		mongoFilter["status"] = filter.Status
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "updatedAt", Value: -1}}).
		SetSkip(int64((paging.Page - 1) * paging.Limit)).
		SetLimit(int64(paging.Limit))
	cursor, err := r.cases.Find(ctx, mongoFilter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	docs := make([]RecoveryCaseDocument, 0)
	for cursor.Next(ctx) {
		var doc RecoveryCaseDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}

	responseMap, err := r.loadResponseMap(ctx, docs)
	if err != nil {
		return nil, err
	}

	cases := make([]admindomain.Case, 0, len(docs))
	for _, doc := range docs {
		cases = append(cases, mapAdminCaseDocument(doc, responseMap[doc.ResponseID]))
	}
	return cases, nil
}

// FindByID returns the case with its response join, or nil when it does not
// exist.
func (r *AdminCaseRepository) FindByID(ctx context.Context, id string) (*admindomain.Case, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	var doc RecoveryCaseDocument
	err = r.cases.FindOne(ctx, bson.M{"_id": objectID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	responseMap, err := r.loadResponseMap(ctx, []RecoveryCaseDocument{doc})
	if err != nil {
		return nil, err
	}
	adminCase := mapAdminCaseDocument(doc, responseMap[doc.ResponseID])
	return &adminCase, nil
}

// loadResponseMap batch-fetches the responses behind a page of cases. A case
// whose response is missing still lists; it just lacks the score join.
func (r *AdminCaseRepository) loadResponseMap(ctx context.Context, docs []RecoveryCaseDocument) (map[primitive.ObjectID]*ResponseDocument, error) {
	ids := make([]primitive.ObjectID, 0, len(docs))
	for _, doc := range docs {
		if !doc.ResponseID.IsZero() {
			ids = append(ids, doc.ResponseID)
		}
	}
	responseMap := make(map[primitive.ObjectID]*ResponseDocument, len(ids))
	if len(ids) == 0 {
		return responseMap, nil
	}

	cursor, err := r.responses.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var doc ResponseDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		response := doc
		responseMap[doc.ID] = &response
	}
	return responseMap, cursor.Err()
}
