package application

import (
	"context"
	"fmt"
	"strings"

	admindomain "github.com/testimonioya/feedback-services/api/internal/admin/domain"
	"github.com/testimonioya/feedback-services/api/internal/plan"
)

type tenantService struct {
	repo   TenantRepository
	plans  PlanReader
	quotas QuotaChecker
	guard  ownerGuard
}

// NewTenantService builds the settings/usage service.
func NewTenantService(repo TenantRepository, plans PlanReader, quotas QuotaChecker) TenantService {
	return &tenantService{
		repo:   repo,
		plans:  plans,
		quotas: quotas,
		guard:  ownerGuard{tenants: repo},
	}
}

func (s *tenantService) ListForUser(ctx context.Context, actingUserID string) ([]admindomain.Tenant, error) {
	return s.repo.FindByUser(ctx, actingUserID)
}

func (s *tenantService) Settings(ctx context.Context, tenantID, actingUserID string) (*admindomain.Tenant, error) {
	return s.guard.tenantOwnedBy(ctx, tenantID, actingUserID)
}

func (s *tenantService) UpdateSettings(ctx context.Context, tenantID, actingUserID string, cmd UpdateSettingsCommand) (*admindomain.Tenant, error) {
	tenant, err := s.guard.tenantOwnedBy(ctx, tenantID, actingUserID)
	if err != nil {
		return nil, err
	}

	if cmd.Name != nil {
		name := strings.TrimSpace(*cmd.Name)
		if name == "" {
			return nil, fmt.Errorf("business name is required")
		}
		tenant.Name = name
	}
	if cmd.BrandColor != nil {
		color, err := admindomain.NewBrandColor(*cmd.BrandColor)
		if err != nil {
			return nil, err
		}
		tenant.BrandColor = color.String()
	}
	if cmd.DefaultLanguage != nil {
		tenant.DefaultLanguage = strings.TrimSpace(*cmd.DefaultLanguage)
	}
	if cmd.WelcomeMessage != nil {
		tenant.WelcomeMessage = strings.TrimSpace(*cmd.WelcomeMessage)
	}
	if cmd.GoogleReviewsURL != nil {
		reviewsURL, err := admindomain.NewReviewsURL(*cmd.GoogleReviewsURL)
		if err != nil {
			return nil, err
		}
		tenant.GoogleReviewsURL = reviewsURL.String()
	}
	if cmd.GoogleNPSThreshold != nil {
		if *cmd.GoogleNPSThreshold < 0 || *cmd.GoogleNPSThreshold > 10 {
			return nil, fmt.Errorf("NPS threshold must be between 0 and 10")
		}
		tenant.GoogleNPSThreshold = *cmd.GoogleNPSThreshold
	}
	if cmd.GoogleStarThreshold != nil {
		if *cmd.GoogleStarThreshold < 1 || *cmd.GoogleStarThreshold > 5 {
			return nil, fmt.Errorf("star threshold must be between 1 and 5")
		}
		tenant.GoogleStarThreshold = *cmd.GoogleStarThreshold
	}

	// Flow toggles are feature-gated: enabling one requires the plan to
	// carry it right now, not at some point in the past.
	if cmd.UseUnifiedFlow != nil || cmd.UseRecoveryFlow != nil || cmd.AllowAudio != nil || cmd.AllowVideo != nil {
		tier, err := s.plans.TierForUser(ctx, actingUserID)
		if err != nil {
			tier = plan.TierFree
		}
		if cmd.UseUnifiedFlow != nil {
			if *cmd.UseUnifiedFlow && !plan.HasFeature(tier, plan.FeatureUnifiedFlow) {
				return nil, ErrUpgradeRequired
			}
			tenant.UseUnifiedFlow = *cmd.UseUnifiedFlow
		}
		if cmd.UseRecoveryFlow != nil {
			if *cmd.UseRecoveryFlow && !plan.HasFeature(tier, plan.FeatureRecoveryFlow) {
				return nil, ErrUpgradeRequired
			}
			tenant.UseRecoveryFlow = *cmd.UseRecoveryFlow
		}
		if cmd.AllowAudio != nil {
			if *cmd.AllowAudio && !plan.HasFeature(tier, plan.FeatureAudio) {
				return nil, ErrUpgradeRequired
			}
			tenant.AllowAudio = *cmd.AllowAudio
		}
		if cmd.AllowVideo != nil {
			if *cmd.AllowVideo && !plan.HasFeature(tier, plan.FeatureVideo) {
				return nil, ErrUpgradeRequired
			}
			tenant.AllowVideo = *cmd.AllowVideo
		}
	}

	if err := s.repo.UpdateSettings(ctx, tenant); err != nil {
		return nil, fmt.Errorf("update tenant %s settings: %w", tenantID, err)
	}
	return tenant, nil
}

// Usage reports current consumption against the owner's plan for the
// dashboard usage panel.
func (s *tenantService) Usage(ctx context.Context, tenantID, actingUserID string) ([]admindomain.Usage, error) {
	if _, err := s.guard.tenantOwnedBy(ctx, tenantID, actingUserID); err != nil {
		return nil, err
	}

	resources := []plan.Resource{
		plan.ResourceTestimonials,
		plan.ResourceNPSResponses,
		plan.ResourceEndpoints,
		plan.ResourceTenants,
	}
	usage := make([]admindomain.Usage, 0, len(resources))
	for _, resource := range resources {
		result := s.quotas.Check(ctx, tenantID, actingUserID, resource)
		usage = append(usage, admindomain.Usage{
			Resource: string(resource),
			Current:  result.Current,
			Limit:    result.Limit,
		})
	}
	return usage, nil
}
