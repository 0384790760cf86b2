package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	admindomain "github.com/testimonioya/feedback-services/api/internal/admin/domain"
	"github.com/testimonioya/feedback-services/api/internal/plan"
)

const (
	endpointKindCollection = "collection"
	endpointKindUnified    = "unified"

	maxEndpointNameLength = 80
)

type endpointService struct {
	repo   EndpointRepository
	guard  ownerGuard
	plans  PlanReader
	quotas QuotaChecker
	now    func() time.Time
}

// NewEndpointService builds the endpoint management service.
func NewEndpointService(repo EndpointRepository, tenants TenantRepository, plans PlanReader, quotas QuotaChecker) EndpointService {
	return &endpointService{
		repo:   repo,
		guard:  ownerGuard{tenants: tenants},
		plans:  plans,
		quotas: quotas,
		now:    time.Now,
	}
}

func (s *endpointService) List(ctx context.Context, tenantID, actingUserID string) ([]admindomain.Endpoint, error) {
	if _, err := s.guard.tenantOwnedBy(ctx, tenantID, actingUserID); err != nil {
		return nil, err
	}
	return s.repo.FindByTenant(ctx, tenantID)
}

func (s *endpointService) Create(ctx context.Context, tenantID, actingUserID string, cmd CreateEndpointCommand) (*admindomain.Endpoint, error) {
	if _, err := s.guard.tenantOwnedBy(ctx, tenantID, actingUserID); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(cmd.Name)
	if name == "" {
		return nil, fmt.Errorf("endpoint name is required")
	}
	if len(name) > maxEndpointNameLength {
		return nil, fmt.Errorf("endpoint name is too long")
	}

	kind := strings.TrimSpace(cmd.Kind)
	switch kind {
	case endpointKindCollection:
	case endpointKindUnified:
		tier, err := s.plans.TierForUser(ctx, actingUserID)
		if err != nil {
			tier = plan.TierFree
		}
		if !plan.HasFeature(tier, plan.FeatureUnifiedFlow) {
			return nil, ErrUpgradeRequired
		}
	default:
		return nil, fmt.Errorf("invalid endpoint kind: %s", kind)
	}

	promoter, passive, err := validateThresholds(cmd.PromoterThreshold, cmd.PassiveThreshold)
	if err != nil {
		return nil, err
	}
	reviewsURL, err := admindomain.NewReviewsURL(cmd.GoogleReviewsURL)
	if err != nil {
		return nil, err
	}

	if quota := s.quotas.Check(ctx, tenantID, actingUserID, plan.ResourceEndpoints); !quota.Allowed {
		return nil, ErrQuotaExceeded
	}

	endpoint := &admindomain.Endpoint{
		TenantID:          tenantID,
		Slug:              generateSlug(name),
		Name:              name,
		Kind:              kind,
		Active:            true,
		Message:           strings.TrimSpace(cmd.Message),
		PromoterThreshold: promoter,
		PassiveThreshold:  passive,
		AskGoogleReview:   cmd.AskGoogleReview,
		GoogleReviewsURL:  reviewsURL.String(),
		CreatedAt:         s.now().UTC(),
	}
	if err := s.repo.Create(ctx, endpoint); err != nil {
		return nil, fmt.Errorf("create endpoint: %w", err)
	}
	return endpoint, nil
}

func (s *endpointService) Update(ctx context.Context, endpointID, actingUserID string, cmd UpdateEndpointCommand) (*admindomain.Endpoint, error) {
	endpoint, err := s.repo.FindByID(ctx, endpointID)
	if err != nil {
		return nil, fmt.Errorf("load endpoint %s: %w", endpointID, err)
	}
	if endpoint == nil {
		return nil, ErrNotFound
	}
	if _, err := s.guard.tenantOwnedBy(ctx, endpoint.TenantID, actingUserID); err != nil {
		return nil, err
	}

	if cmd.Name != nil {
		name := strings.TrimSpace(*cmd.Name)
		if name == "" {
			return nil, fmt.Errorf("endpoint name is required")
		}
		if len(name) > maxEndpointNameLength {
			return nil, fmt.Errorf("endpoint name is too long")
		}
		endpoint.Name = name
	}
	if cmd.Active != nil {
		endpoint.Active = *cmd.Active
	}
	if cmd.Message != nil {
		endpoint.Message = strings.TrimSpace(*cmd.Message)
	}
	if cmd.PromoterThreshold != nil || cmd.PassiveThreshold != nil {
		promoter := endpoint.PromoterThreshold
		passive := endpoint.PassiveThreshold
		if cmd.PromoterThreshold != nil {
			promoter = *cmd.PromoterThreshold
		}
		if cmd.PassiveThreshold != nil {
			passive = *cmd.PassiveThreshold
		}
		promoter, passive, err = validateThresholds(promoter, passive)
		if err != nil {
			return nil, err
		}
		endpoint.PromoterThreshold = promoter
		endpoint.PassiveThreshold = passive
	}
	if cmd.AskGoogleReview != nil {
		endpoint.AskGoogleReview = *cmd.AskGoogleReview
	}
	if cmd.GoogleReviewsURL != nil {
		reviewsURL, err := admindomain.NewReviewsURL(*cmd.GoogleReviewsURL)
		if err != nil {
			return nil, err
		}
		endpoint.GoogleReviewsURL = reviewsURL.String()
	}

	if err := s.repo.Update(ctx, endpoint); err != nil {
		return nil, fmt.Errorf("update endpoint %s: %w", endpointID, err)
	}
	return endpoint, nil
}

// validateThresholds checks a promoter/passive pair. Zeroes mean "use the
// NPS defaults" and pass through unchanged.
func validateThresholds(promoter, passive int) (int, int, error) {
	if promoter == 0 && passive == 0 {
		return 0, 0, nil
	}
	if promoter < 1 || promoter > 10 {
		return 0, 0, fmt.Errorf("promoter threshold must be between 1 and 10")
	}
	if passive < 1 || passive > promoter {
		return 0, 0, fmt.Errorf("passive threshold must be between 1 and the promoter threshold")
	}
	return promoter, passive, nil
}

// generateSlug derives a URL slug from the link name plus a short random
// suffix so renames never collide.
func generateSlug(name string) string {
	lowered := strings.ToLower(strings.TrimSpace(name))
	var b strings.Builder
	lastDash := true
	for _, r := range lowered {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	slug := strings.Trim(b.String(), "-")
	suffix := strings.Split(uuid.NewString(), "-")[0]
	if slug == "" {
		return suffix
	}
	const maxBase = 40
	if len(slug) > maxBase {
		slug = slug[:maxBase]
	}
	return slug + "-" + suffix
}
