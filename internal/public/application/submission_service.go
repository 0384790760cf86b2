package application

import (
	"context"
	"fmt"
	"log"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/testimonioya/feedback-services/api/internal/plan"
	"github.com/testimonioya/feedback-services/api/internal/public/domain"
)

// NewSubmissionService wires the submission router over its ports.
func NewSubmissionService(tenants TenantRepository, endpoints EndpointRepository, submissions SubmissionRepository, plans PlanReader, quotas QuotaChecker, logger *log.Logger) SubmissionService {
	return &submissionService{
		tenants:     tenants,
		endpoints:   endpoints,
		submissions: submissions,
		plans:       plans,
		quotas:      quotas,
		logger:      logger,
		now:         time.Now,
	}
}

type submissionService struct {
	tenants     TenantRepository
	endpoints   EndpointRepository
	submissions SubmissionRepository
	plans       PlanReader
	quotas      QuotaChecker
	logger      *log.Logger
	now         func() time.Time
}

// ResolveEndpoint loads an active endpoint with its tenant for form display
// and bumps the view counter. The counter bump is best effort: a failed
// increment never hides the form.
func (s *submissionService) ResolveEndpoint(ctx context.Context, slug string) (*EndpointView, error) {
	endpoint, tenant, err := s.resolve(ctx, slug)
	if err != nil {
		return nil, err
	}

	if err := s.endpoints.IncrementViews(ctx, endpoint.ID); err != nil && s.logger != nil {
		s.logger.Printf("view counter increment failed for endpoint %s: %v", endpoint.ID, err)
	}

	tier := s.tierForUser(ctx, tenant.UserID)
	return &EndpointView{
		Endpoint: endpoint,
		Tenant:   tenant,
		Branded:  !plan.HasFeature(tier, plan.FeatureNoBranding),
	}, nil
}

// SubmitFeedback handles one unified-link NPS submission: validate, gate,
// classify, persist response plus at most one derived entity, and compute
// the redirect hint for the thank-you screen.
func (s *submissionService) SubmitFeedback(ctx context.Context, cmd SubmitFeedbackCommand) (*Outcome, error) {
	endpoint, tenant, err := s.resolve(ctx, cmd.Slug)
	if err != nil {
		return nil, err
	}
	if endpoint.Kind != domain.EndpointUnified {
		return nil, domain.ErrEndpointUnavailable
	}

	tier := s.tierForUser(ctx, tenant.UserID)
	if !plan.HasFeature(tier, plan.FeatureUnifiedFlow) {
		return nil, domain.ErrUpgradeRequired
	}

	if cmd.Score < domain.MinScore || cmd.Score > domain.MaxScore {
		return nil, domain.NewValidationError("score", "score must be between 0 and 10")
	}

	feedback := strings.TrimSpace(cmd.Feedback)
	if utf8.RuneCountInString(feedback) > domain.MaxFeedbackLength {
		return nil, domain.NewValidationError("feedback", "feedback text is too long")
	}
	name, err := normalizeName(cmd.CustomerName)
	if err != nil {
		return nil, err
	}
	email, err := normalizeEmail(cmd.CustomerEmail)
	if err != nil {
		return nil, err
	}

	promoterThreshold, passiveThreshold := endpoint.Thresholds()
	category := domain.Classify(cmd.Score, promoterThreshold, passiveThreshold)

	switch category {
	case domain.CategoryPromoter:
		// A promoter headed for a public testimonial must be attributable.
		// Without name and text the submission degrades to an NPS record.
	case domain.CategoryDetractor:
		if feedback == "" {
			return nil, domain.NewValidationError("feedback", "feedback text is required")
		}
	}

	now := s.now().UTC()
	response := &domain.FeedbackResponse{
		TenantID:      tenant.ID,
		EndpointID:    endpoint.ID,
		Score:         cmd.Score,
		Category:      category,
		Feedback:      feedback,
		CustomerName:  name,
		CustomerEmail: email,
		CreatedAt:     now,
	}

	write := &SubmissionWrite{EndpointID: endpoint.ID, Response: response}

	// The NPS quota applies to the response itself; a tenant over this cap
	// keeps collecting scores but produces no derived entities.
	npsQuota := s.quotas.Check(ctx, tenant.ID, tenant.UserID, plan.ResourceNPSResponses)

	// Exactly one of {testimonial, recovery case, neither} per response.
	switch {
	case category == domain.CategoryPromoter && name != "" && feedback != "":
		testimonialQuota := s.quotas.Check(ctx, tenant.ID, tenant.UserID, plan.ResourceTestimonials)
		if npsQuota.Allowed && testimonialQuota.Allowed {
			write.Testimonial = &domain.Testimonial{
				TenantID:      tenant.ID,
				CustomerName:  name,
				CustomerEmail: email,
				Text:          feedback,
				Rating:        domain.DeriveRating(cmd.Score, cmd.Rating),
				Status:        domain.TestimonialPending,
				Source:        domain.SourceNPS,
				CreatedAt:     now,
			}
		}
	case category == domain.CategoryDetractor && tenant.UseRecoveryFlow && plan.HasFeature(tier, plan.FeatureRecoveryFlow):
		if npsQuota.Allowed {
			write.Case = domain.NewRecoveryCase(response, now)
		}
	}

	if err := s.submissions.CreateSubmission(ctx, write); err != nil {
		return nil, fmt.Errorf("persist submission: %w", err)
	}

	redirectURL := ""
	if endpoint.AskGoogleReview {
		configured := endpoint.GoogleReviewsURL
		if strings.TrimSpace(configured) == "" {
			configured = tenant.GoogleReviewsURL
		}
		redirectURL = domain.GoogleRedirectForNPS(category, cmd.Score, tenant.NPSRedirectThreshold(), configured)
	}

	outcome := &Outcome{
		ResponseID:         response.ID,
		Category:           category,
		TestimonialCreated: write.Testimonial != nil,
		CaseCreated:        write.Case != nil,
		GoogleRedirectURL:  redirectURL,
	}
	if write.Testimonial != nil {
		outcome.TestimonialID = write.Testimonial.ID
	}
	if write.Case != nil {
		outcome.CaseID = write.Case.ID
	}
	return outcome, nil
}

// SubmitTestimonial handles the classic collection-link form. This path is
// testimonial-producing, so the monthly testimonial quota blocks it outright.
func (s *submissionService) SubmitTestimonial(ctx context.Context, cmd SubmitTestimonialCommand) (*Outcome, error) {
	endpoint, tenant, err := s.resolve(ctx, cmd.Slug)
	if err != nil {
		return nil, err
	}
	if endpoint.Kind != domain.EndpointCollection {
		return nil, domain.ErrEndpointUnavailable
	}

	name, err := normalizeName(cmd.CustomerName)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, domain.NewValidationError("customerName", "customer name is required")
	}
	text := strings.TrimSpace(cmd.Text)
	if text == "" {
		return nil, domain.NewValidationError("text", "testimonial text is required")
	}
	if utf8.RuneCountInString(text) > domain.MaxFeedbackLength {
		return nil, domain.NewValidationError("text", "testimonial text is too long")
	}
	if cmd.Rating < domain.MinRating || cmd.Rating > domain.MaxRating {
		return nil, domain.NewValidationError("rating", "rating must be between 1 and 5")
	}
	email, err := normalizeEmail(cmd.CustomerEmail)
	if err != nil {
		return nil, err
	}

	quota := s.quotas.Check(ctx, tenant.ID, tenant.UserID, plan.ResourceTestimonials)
	if !quota.Allowed {
		return nil, domain.ErrQuotaExceeded
	}

	testimonial := &domain.Testimonial{
		TenantID:      tenant.ID,
		CustomerName:  name,
		CustomerEmail: email,
		Text:          text,
		Rating:        cmd.Rating,
		Status:        domain.TestimonialPending,
		Source:        domain.SourceForm,
		CreatedAt:     s.now().UTC(),
	}
	if err := s.submissions.CreateTestimonial(ctx, endpoint.ID, testimonial); err != nil {
		return nil, fmt.Errorf("persist testimonial: %w", err)
	}

	return &Outcome{
		TestimonialID:      testimonial.ID,
		TestimonialCreated: true,
		GoogleRedirectURL:  domain.GoogleRedirectForRating(cmd.Rating, tenant.StarRedirectThreshold(), tenant.GoogleReviewsURL),
	}, nil
}

// resolve loads an endpoint by slug and its owning tenant. Missing and
// inactive endpoints are indistinguishable to the caller.
func (s *submissionService) resolve(ctx context.Context, slug string) (*domain.Endpoint, *domain.Tenant, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, nil, domain.ErrEndpointUnavailable
	}

	endpoint, err := s.endpoints.FindBySlug(ctx, slug)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve endpoint %q: %w", slug, err)
	}
	if endpoint == nil || !endpoint.Active {
		return nil, nil, domain.ErrEndpointUnavailable
	}

	tenant, err := s.tenants.FindByID(ctx, endpoint.TenantID)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve tenant %s: %w", endpoint.TenantID, err)
	}
	if tenant == nil {
		return nil, nil, domain.ErrEndpointUnavailable
	}
	return endpoint, tenant, nil
}

// tierForUser re-reads the plan, treating any read failure as free.
func (s *submissionService) tierForUser(ctx context.Context, userID string) plan.Tier {
	tier, err := s.plans.TierForUser(ctx, userID)
	if err != nil {
		if s.logger != nil {
			s.logger.Printf("plan lookup failed for user %s: %v", userID, err)
		}
		return plan.TierFree
	}
	return tier
}

func normalizeName(value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if utf8.RuneCountInString(trimmed) > domain.MaxCustomerNameLength {
		return "", domain.NewValidationError("customerName", "name is too long")
	}
	return trimmed, nil
}

func normalizeEmail(value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", nil
	}
	if len(trimmed) > domain.MaxEmailLength {
		return "", domain.NewValidationError("customerEmail", "email is too long")
	}
	if _, err := mail.ParseAddress(trimmed); err != nil {
		return "", domain.NewValidationError("customerEmail", "email is not valid")
	}
	return trimmed, nil
}
