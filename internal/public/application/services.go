package application

import (
	"context"

	"github.com/testimonioya/feedback-services/api/internal/plan"
	"github.com/testimonioya/feedback-services/api/internal/public/domain"
)

// TenantRepository reads tenant profiles for the public context.
type TenantRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Tenant, error)
}

// EndpointRepository resolves shareable entry points by slug. FindBySlug
// returns nil when no endpoint matches; the services map both a missing and
// an inactive endpoint to the same neutral error.
type EndpointRepository interface {
	FindBySlug(ctx context.Context, slug string) (*domain.Endpoint, error)
	IncrementViews(ctx context.Context, endpointID string) error
}

// SubmissionWrite is the unit persisted for one accepted submission: the
// feedback response, at most one derived entity, and the endpoint counter
// bump, applied within a single logical transaction. Repositories fill in
// the generated ids.
type SubmissionWrite struct {
	EndpointID  string
	Response    *domain.FeedbackResponse
	Testimonial *domain.Testimonial
	Case        *domain.RecoveryCase
}

// SubmissionRepository persists submission writes atomically: a partial
// failure must never leave a derived entity without its parent response nor
// a bumped counter without the response.
type SubmissionRepository interface {
	CreateSubmission(ctx context.Context, write *SubmissionWrite) error
	CreateTestimonial(ctx context.Context, endpointID string, testimonial *domain.Testimonial) error
}

// CaseRepository handles recovery-case reads and serialized appends. The
// append is conditional on the case being non-closed and under the message
// cap, so concurrent replies from both parties are retained in accept order
// and can never exceed the cap.
type CaseRepository interface {
	FindByID(ctx context.Context, id string) (*domain.RecoveryCase, error)
	AppendMessage(ctx context.Context, caseID string, msg domain.Message) (*domain.RecoveryCase, error)
	UpdateStatus(ctx context.Context, caseID string, status domain.CaseStatus) (*domain.RecoveryCase, error)
}

// QuotaChecker is the quota guard port. Check never returns an error: count
// failures fail open inside the guard.
type QuotaChecker interface {
	Check(ctx context.Context, tenantID, userID string, resource plan.Resource) plan.Result
}

// PlanReader resolves the owner's effective tier, re-read per call.
type PlanReader interface {
	TierForUser(ctx context.Context, userID string) (plan.Tier, error)
}

// ReplyTokenVerifier checks a customer reply token and returns the case id
// and email it was scoped to.
type ReplyTokenVerifier interface {
	VerifyReplyToken(tokenString string) (caseID, email string, err error)
}

// EndpointView is the public read model for an entry point: what the form
// needs to render, nothing that leaks tenant configuration.
type EndpointView struct {
	Endpoint *domain.Endpoint
	Tenant   *domain.Tenant
	Branded  bool
}

// Outcome reports what one accepted submission produced, with enough data
// for the thank-you screen to run the Google redirect decision.
type Outcome struct {
	ResponseID         string
	TestimonialID      string
	CaseID             string
	Category           domain.Category
	TestimonialCreated bool
	CaseCreated        bool
	GoogleRedirectURL  string
}

// SubmitFeedbackCommand is one unified-link NPS submission.
type SubmitFeedbackCommand struct {
	Slug          string
	Score         int
	Feedback      string
	CustomerName  string
	CustomerEmail string
	Rating        int
}

// SubmitTestimonialCommand is one classic collection-link submission.
type SubmitTestimonialCommand struct {
	Slug          string
	CustomerName  string
	CustomerEmail string
	Text          string
	Rating        int
}

// SubmissionService orchestrates inbound submissions end to end.
type SubmissionService interface {
	ResolveEndpoint(ctx context.Context, slug string) (*EndpointView, error)
	SubmitFeedback(ctx context.Context, cmd SubmitFeedbackCommand) (*Outcome, error)
	SubmitTestimonial(ctx context.Context, cmd SubmitTestimonialCommand) (*Outcome, error)
}

// RecoveryService is the conversation engine over recovery cases, with the
// two authorization tracks kept deliberately separate.
type RecoveryService interface {
	BusinessReply(ctx context.Context, caseID, actingUserID, text string) (*domain.RecoveryCase, error)
	CustomerReply(ctx context.Context, caseID, tokenString, text string) (*domain.RecoveryCase, error)
	SetStatus(ctx context.Context, caseID, actingUserID string, status domain.CaseStatus) (*domain.RecoveryCase, error)
	CaseForCustomer(ctx context.Context, caseID, tokenString string) (*domain.RecoveryCase, error)
}
