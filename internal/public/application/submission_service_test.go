package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/testimonioya/feedback-services/api/internal/plan"
	"github.com/testimonioya/feedback-services/api/internal/public/domain"
)

type fakeTenantRepo struct {
	tenants map[string]*domain.Tenant
	err     error
}

func (f *fakeTenantRepo) FindByID(ctx context.Context, id string) (*domain.Tenant, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.tenants[id], nil
}

type fakeEndpointRepo struct {
	endpoints map[string]*domain.Endpoint
	viewBumps []string
}

func (f *fakeEndpointRepo) FindBySlug(ctx context.Context, slug string) (*domain.Endpoint, error) {
	return f.endpoints[slug], nil
}

func (f *fakeEndpointRepo) IncrementViews(ctx context.Context, endpointID string) error {
	f.viewBumps = append(f.viewBumps, endpointID)
	return nil
}

type fakeSubmissionRepo struct {
	writes       []*SubmissionWrite
	testimonials []*domain.Testimonial
	err          error
}

func (f *fakeSubmissionRepo) CreateSubmission(ctx context.Context, write *SubmissionWrite) error {
	if f.err != nil {
		return f.err
	}
	write.Response.ID = "resp-1"
	if write.Testimonial != nil {
		write.Testimonial.ID = "testimonial-1"
	}
	if write.Case != nil {
		write.Case.ID = "case-1"
	}
	f.writes = append(f.writes, write)
	return nil
}

func (f *fakeSubmissionRepo) CreateTestimonial(ctx context.Context, endpointID string, testimonial *domain.Testimonial) error {
	if f.err != nil {
		return f.err
	}
	testimonial.ID = "testimonial-1"
	f.testimonials = append(f.testimonials, testimonial)
	return nil
}

type fakePlanReader struct {
	tier plan.Tier
	err  error
}

func (f *fakePlanReader) TierForUser(ctx context.Context, userID string) (plan.Tier, error) {
	return f.tier, f.err
}

// fakeQuota answers per resource; unlisted resources are allowed.
type fakeQuota struct {
	denied map[plan.Resource]bool
}

func (f *fakeQuota) Check(ctx context.Context, tenantID, userID string, resource plan.Resource) plan.Result {
	if f.denied[resource] {
		return plan.Result{Allowed: false, Current: 10, Limit: 10}
	}
	return plan.Result{Allowed: true, Limit: plan.Unlimited}
}

type submissionFixture struct {
	tenants     *fakeTenantRepo
	endpoints   *fakeEndpointRepo
	submissions *fakeSubmissionRepo
	plans       *fakePlanReader
	quotas      *fakeQuota
	service     SubmissionService
}

func newSubmissionFixture(t *testing.T) *submissionFixture {
	t.Helper()

	tenant := &domain.Tenant{
		ID:               "tenant-1",
		UserID:           "user-1",
		Name:             "Café Aurora",
		UseRecoveryFlow:  true,
		GoogleReviewsURL: "https://g.page/r/aurora/review",
	}
	fx := &submissionFixture{
		tenants: &fakeTenantRepo{tenants: map[string]*domain.Tenant{"tenant-1": tenant}},
		endpoints: &fakeEndpointRepo{endpoints: map[string]*domain.Endpoint{
			"aurora-feedback": {
				ID:              "endpoint-1",
				TenantID:        "tenant-1",
				Slug:            "aurora-feedback",
				Kind:            domain.EndpointUnified,
				Active:          true,
				AskGoogleReview: true,
			},
			"aurora-testimonios": {
				ID:       "endpoint-2",
				TenantID: "tenant-1",
				Slug:     "aurora-testimonios",
				Kind:     domain.EndpointCollection,
				Active:   true,
			},
		}},
		submissions: &fakeSubmissionRepo{},
		plans:       &fakePlanReader{tier: plan.TierPremium},
		quotas:      &fakeQuota{denied: map[plan.Resource]bool{}},
	}
	fx.service = NewSubmissionService(fx.tenants, fx.endpoints, fx.submissions, fx.plans, fx.quotas, nil)
	return fx
}

func feedbackCommand(score int) SubmitFeedbackCommand {
	return SubmitFeedbackCommand{
		Slug:          "aurora-feedback",
		Score:         score,
		Feedback:      "some honest feedback",
		CustomerName:  "Ana",
		CustomerEmail: "ana@example.com",
	}
}

func TestSubmitFeedbackPromoterCreatesTestimonial(t *testing.T) {
	fx := newSubmissionFixture(t)

	outcome, err := fx.service.SubmitFeedback(context.Background(), feedbackCommand(10))
	require.NoError(t, err)

	assert.Equal(t, domain.CategoryPromoter, outcome.Category)
	assert.True(t, outcome.TestimonialCreated)
	assert.False(t, outcome.CaseCreated)
	assert.Equal(t, "https://g.page/r/aurora/review", outcome.GoogleRedirectURL)

	require.Len(t, fx.submissions.writes, 1)
	write := fx.submissions.writes[0]
	require.NotNil(t, write.Testimonial)
	assert.Equal(t, domain.SourceNPS, write.Testimonial.Source)
	assert.Equal(t, domain.TestimonialPending, write.Testimonial.Status)
	assert.Equal(t, domain.MaxRating, write.Testimonial.Rating)
	assert.Nil(t, write.Case)
}

func TestSubmitFeedbackAnonymousPromoterDegradesToResponseOnly(t *testing.T) {
	fx := newSubmissionFixture(t)

	cmd := feedbackCommand(10)
	cmd.CustomerName = ""

	outcome, err := fx.service.SubmitFeedback(context.Background(), cmd)
	require.NoError(t, err)

	assert.False(t, outcome.TestimonialCreated, "an unattributable promoter produces no testimonial")
	require.Len(t, fx.submissions.writes, 1)
	assert.Nil(t, fx.submissions.writes[0].Testimonial)
}

func TestSubmitFeedbackPassiveCreatesNothingDerived(t *testing.T) {
	fx := newSubmissionFixture(t)

	outcome, err := fx.service.SubmitFeedback(context.Background(), feedbackCommand(7))
	require.NoError(t, err)

	assert.Equal(t, domain.CategoryPassive, outcome.Category)
	assert.False(t, outcome.TestimonialCreated)
	assert.False(t, outcome.CaseCreated)
	assert.Empty(t, outcome.GoogleRedirectURL)
}

func TestSubmitFeedbackDetractorOpensRecoveryCase(t *testing.T) {
	fx := newSubmissionFixture(t)

	outcome, err := fx.service.SubmitFeedback(context.Background(), feedbackCommand(2))
	require.NoError(t, err)

	assert.Equal(t, domain.CategoryDetractor, outcome.Category)
	assert.True(t, outcome.CaseCreated)
	assert.Equal(t, "case-1", outcome.CaseID)
	assert.Empty(t, outcome.GoogleRedirectURL)

	require.Len(t, fx.submissions.writes, 1)
	write := fx.submissions.writes[0]
	require.NotNil(t, write.Case)
	assert.Equal(t, domain.CaseOpen, write.Case.Status)
	require.Len(t, write.Case.Messages, 1)
	assert.Equal(t, domain.RoleCustomer, write.Case.Messages[0].Role)
}

func TestSubmitFeedbackDetractorRequiresFeedbackText(t *testing.T) {
	fx := newSubmissionFixture(t)

	cmd := feedbackCommand(2)
	cmd.Feedback = "   "

	_, err := fx.service.SubmitFeedback(context.Background(), cmd)
	assert.True(t, domain.IsValidationError(err))
	assert.Empty(t, fx.submissions.writes)
}

func TestSubmitFeedbackDetractorWithoutRecoveryFlagSkipsCase(t *testing.T) {
	fx := newSubmissionFixture(t)
	fx.tenants.tenants["tenant-1"].UseRecoveryFlow = false

	outcome, err := fx.service.SubmitFeedback(context.Background(), feedbackCommand(2))
	require.NoError(t, err)

	assert.False(t, outcome.CaseCreated, "tenant opted out of recovery")
	require.Len(t, fx.submissions.writes, 1)
	assert.Nil(t, fx.submissions.writes[0].Case)
}

func TestSubmitFeedbackRequiresUnifiedPlan(t *testing.T) {
	fx := newSubmissionFixture(t)
	fx.plans.tier = plan.TierPro

	_, err := fx.service.SubmitFeedback(context.Background(), feedbackCommand(10))
	assert.ErrorIs(t, err, domain.ErrUpgradeRequired)
	assert.Empty(t, fx.submissions.writes)
}

func TestSubmitFeedbackPlanReadFailureBehavesAsFree(t *testing.T) {
	fx := newSubmissionFixture(t)
	fx.plans.err = errors.New("profile store down")

	_, err := fx.service.SubmitFeedback(context.Background(), feedbackCommand(10))
	assert.ErrorIs(t, err, domain.ErrUpgradeRequired)
}

func TestSubmitFeedbackQuotaDegradesDerivedEntitiesOnly(t *testing.T) {
	// Over the NPS cap the response is still recorded, but no testimonial
	// and no recovery case come out of it.
	fx := newSubmissionFixture(t)
	fx.quotas.denied[plan.ResourceNPSResponses] = true

	outcome, err := fx.service.SubmitFeedback(context.Background(), feedbackCommand(10))
	require.NoError(t, err)
	assert.False(t, outcome.TestimonialCreated)
	require.Len(t, fx.submissions.writes, 1)
	assert.NotNil(t, fx.submissions.writes[0].Response)
	assert.Nil(t, fx.submissions.writes[0].Testimonial)

	outcome, err = fx.service.SubmitFeedback(context.Background(), feedbackCommand(1))
	require.NoError(t, err)
	assert.False(t, outcome.CaseCreated)
	require.Len(t, fx.submissions.writes, 2)
	assert.Nil(t, fx.submissions.writes[1].Case)
}

func TestSubmitFeedbackTestimonialQuotaSkipsTestimonialOnly(t *testing.T) {
	fx := newSubmissionFixture(t)
	fx.quotas.denied[plan.ResourceTestimonials] = true

	outcome, err := fx.service.SubmitFeedback(context.Background(), feedbackCommand(10))
	require.NoError(t, err)

	assert.False(t, outcome.TestimonialCreated)
	require.Len(t, fx.submissions.writes, 1)
	assert.NotNil(t, fx.submissions.writes[0].Response, "the score itself is always recorded")
}

func TestSubmitFeedbackValidatesScoreRange(t *testing.T) {
	fx := newSubmissionFixture(t)

	for _, score := range []int{-1, 11} {
		_, err := fx.service.SubmitFeedback(context.Background(), feedbackCommand(score))
		assert.True(t, domain.IsValidationError(err), "score %d", score)
	}
}

func TestSubmitFeedbackRejectsCollectionEndpoint(t *testing.T) {
	fx := newSubmissionFixture(t)

	cmd := feedbackCommand(10)
	cmd.Slug = "aurora-testimonios"

	_, err := fx.service.SubmitFeedback(context.Background(), cmd)
	assert.ErrorIs(t, err, domain.ErrEndpointUnavailable)
}

func TestSubmitFeedbackInactiveEndpointLooksMissing(t *testing.T) {
	fx := newSubmissionFixture(t)
	fx.endpoints.endpoints["aurora-feedback"].Active = false

	_, err := fx.service.SubmitFeedback(context.Background(), feedbackCommand(10))
	assert.ErrorIs(t, err, domain.ErrEndpointUnavailable)
}

func TestSubmitFeedbackInvalidEmailRejected(t *testing.T) {
	fx := newSubmissionFixture(t)

	cmd := feedbackCommand(10)
	cmd.CustomerEmail = "not-an-email"

	_, err := fx.service.SubmitFeedback(context.Background(), cmd)
	assert.True(t, domain.IsValidationError(err))
}

func TestSubmitTestimonialHappyPath(t *testing.T) {
	fx := newSubmissionFixture(t)

	outcome, err := fx.service.SubmitTestimonial(context.Background(), SubmitTestimonialCommand{
		Slug:         "aurora-testimonios",
		CustomerName: "Ana",
		Text:         "excellent service",
		Rating:       5,
	})
	require.NoError(t, err)

	assert.True(t, outcome.TestimonialCreated)
	assert.Equal(t, "https://g.page/r/aurora/review", outcome.GoogleRedirectURL)
	require.Len(t, fx.submissions.testimonials, 1)
	assert.Equal(t, domain.SourceForm, fx.submissions.testimonials[0].Source)
	assert.Equal(t, domain.TestimonialPending, fx.submissions.testimonials[0].Status)
}

func TestSubmitTestimonialQuotaBlocksOutright(t *testing.T) {
	fx := newSubmissionFixture(t)
	fx.quotas.denied[plan.ResourceTestimonials] = true

	_, err := fx.service.SubmitTestimonial(context.Background(), SubmitTestimonialCommand{
		Slug:         "aurora-testimonios",
		CustomerName: "Ana",
		Text:         "excellent service",
		Rating:       5,
	})
	assert.ErrorIs(t, err, domain.ErrQuotaExceeded)
	assert.Empty(t, fx.submissions.testimonials)
}

func TestSubmitTestimonialValidation(t *testing.T) {
	fx := newSubmissionFixture(t)

	tests := []struct {
		name string
		cmd  SubmitTestimonialCommand
	}{
		{name: "missing name", cmd: SubmitTestimonialCommand{Slug: "aurora-testimonios", Text: "good", Rating: 5}},
		{name: "missing text", cmd: SubmitTestimonialCommand{Slug: "aurora-testimonios", CustomerName: "Ana", Rating: 5}},
		{name: "rating too low", cmd: SubmitTestimonialCommand{Slug: "aurora-testimonios", CustomerName: "Ana", Text: "good", Rating: 0}},
		{name: "rating too high", cmd: SubmitTestimonialCommand{Slug: "aurora-testimonios", CustomerName: "Ana", Text: "good", Rating: 6}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := fx.service.SubmitTestimonial(context.Background(), tt.cmd)
			assert.True(t, domain.IsValidationError(err))
		})
	}
}

func TestSubmitTestimonialRejectsUnifiedEndpoint(t *testing.T) {
	fx := newSubmissionFixture(t)

	_, err := fx.service.SubmitTestimonial(context.Background(), SubmitTestimonialCommand{
		Slug:         "aurora-feedback",
		CustomerName: "Ana",
		Text:         "good",
		Rating:       5,
	})
	assert.ErrorIs(t, err, domain.ErrEndpointUnavailable)
}

func TestResolveEndpointBumpsViews(t *testing.T) {
	fx := newSubmissionFixture(t)

	view, err := fx.service.ResolveEndpoint(context.Background(), "aurora-feedback")
	require.NoError(t, err)

	assert.Equal(t, "endpoint-1", view.Endpoint.ID)
	assert.Equal(t, "Café Aurora", view.Tenant.Name)
	assert.False(t, view.Branded, "premium removes branding")
	assert.Equal(t, []string{"endpoint-1"}, fx.endpoints.viewBumps)
}

func TestResolveEndpointFreeTierShowsBranding(t *testing.T) {
	fx := newSubmissionFixture(t)
	fx.plans.tier = plan.TierFree

	view, err := fx.service.ResolveEndpoint(context.Background(), "aurora-feedback")
	require.NoError(t, err)
	assert.True(t, view.Branded)
}

func TestResolveEndpointUnknownSlug(t *testing.T) {
	fx := newSubmissionFixture(t)

	_, err := fx.service.ResolveEndpoint(context.Background(), "no-such-slug")
	assert.ErrorIs(t, err, domain.ErrEndpointUnavailable)
}

func TestSubmitFeedbackFrozenClock(t *testing.T) {
	fx := newSubmissionFixture(t)
	svc, ok := fx.service.(*submissionService)
	require.True(t, ok)
	frozen := time.Date(2026, time.June, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return frozen }

	_, err := fx.service.SubmitFeedback(context.Background(), feedbackCommand(2))
	require.NoError(t, err)

	write := fx.submissions.writes[0]
	assert.Equal(t, frozen, write.Response.CreatedAt)
	require.NotNil(t, write.Case)
	assert.Equal(t, frozen, write.Case.CreatedAt)
}
