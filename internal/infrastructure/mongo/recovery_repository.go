package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/testimonioya/feedback-services/api/internal/public/domain"
)

// RecoveryCaseRepository implements the public application.CaseRepository.
//
// Appends go through a single conditional FindOneAndUpdate whose filter
// re-checks the closed status and the message cap, so concurrent replies from
// both parties serialize on the document and can never push the thread past
// the cap. A lost race surfaces as the domain error the loser would have seen
// on a fresh read.
type RecoveryCaseRepository struct {
	collection *mongo.Collection
}

// NewRecoveryCaseRepository creates a new Mongo-backed case repository.
func NewRecoveryCaseRepository(db *mongo.Database, collectionName string) *RecoveryCaseRepository {
	return &RecoveryCaseRepository{collection: db.Collection(collectionName)}
}

// FindByID returns the case, or nil when it does not exist.
func (r *RecoveryCaseRepository) FindByID(ctx context.Context, id string) (*domain.RecoveryCase, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	var doc RecoveryCaseDocument
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	recoveryCase := mapCaseDocument(doc)
	return &recoveryCase, nil
}

// AppendMessage atomically appends one message if the case is not closed and
// the thread is under the cap, flipping an open case to in_progress in the
// same write. Returns the updated case.
func (r *RecoveryCaseRepository) AppendMessage(ctx context.Context, caseID string, msg domain.Message) (*domain.RecoveryCase, error) {
	objectID, err := primitive.ObjectIDFromHex(caseID)
	if err != nil {
		return nil, domain.ErrCaseNotFound
	}

	filter := bson.M{
		"_id":    objectID,
		"status": bson.M{"$ne": string(domain.CaseClosed)},
		"$expr":  bson.M{"$lt": bson.A{bson.M{"$size": "$messages"}, domain.MaxCaseMessages}},
	}
	messageDoc := MessageDocument{
		Role:      string(msg.Role),
		Text:      msg.Text,
		CreatedAt: msg.CreatedAt,
	}
	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"messages": bson.M{"$concatArrays": bson.A{"$messages", bson.A{messageDoc}}},
			"status": bson.M{"$cond": bson.A{
				bson.M{"$eq": bson.A{"$status", string(domain.CaseOpen)}},
				string(domain.CaseInProgress),
				"$status",
			}},
			"updatedAt": msg.CreatedAt,
		}}},
	}

	var doc RecoveryCaseDocument
	err = r.collection.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, r.classifyRejection(ctx, objectID)
	}
	if err != nil {
		return nil, err
	}
	recoveryCase := mapCaseDocument(doc)
	return &recoveryCase, nil
}

// UpdateStatus applies a status change unless the case is already closed.
func (r *RecoveryCaseRepository) UpdateStatus(ctx context.Context, caseID string, status domain.CaseStatus) (*domain.RecoveryCase, error) {
	objectID, err := primitive.ObjectIDFromHex(caseID)
	if err != nil {
		return nil, domain.ErrCaseNotFound
	}

	now := time.Now().UTC()
	var doc RecoveryCaseDocument
	err = r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": objectID, "status": bson.M{"$ne": string(domain.CaseClosed)}},
		bson.M{"$set": bson.M{"status": string(status), "updatedAt": now}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, r.classifyRejection(ctx, objectID)
	}
	if err != nil {
		return nil, err
	}
	recoveryCase := mapCaseDocument(doc)
	return &recoveryCase, nil
}

// classifyRejection distinguishes why a conditional write matched nothing:
// the case is gone, closed, or at the message cap.
func (r *RecoveryCaseRepository) classifyRejection(ctx context.Context, objectID primitive.ObjectID) error {
	var doc RecoveryCaseDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.ErrCaseNotFound
	}
	if err != nil {
		return err
	}
	if domain.CaseStatus(doc.Status) == domain.CaseClosed {
		return domain.ErrCaseClosed
	}
	if len(doc.Messages) >= domain.MaxCaseMessages {
		return domain.ErrMessageLimitReached
	}
	return domain.ErrCaseNotFound
}
