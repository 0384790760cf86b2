package application

import (
	"context"
	"fmt"

	admindomain "github.com/testimonioya/feedback-services/api/internal/admin/domain"
)

type testimonialService struct {
	repo  TestimonialRepository
	guard ownerGuard
}

// NewTestimonialService builds the moderation service.
func NewTestimonialService(repo TestimonialRepository, tenants TenantRepository) TestimonialService {
	return &testimonialService{repo: repo, guard: ownerGuard{tenants: tenants}}
}

func (s *testimonialService) List(ctx context.Context, tenantID, actingUserID string, filter TestimonialFilter, paging Paging) ([]admindomain.Testimonial, error) {
	if _, err := s.guard.tenantOwnedBy(ctx, tenantID, actingUserID); err != nil {
		return nil, err
	}
	return s.repo.FindByTenant(ctx, tenantID, filter, normalizePaging(paging))
}

func (s *testimonialService) Moderate(ctx context.Context, testimonialID, actingUserID string, cmd ModerateCommand) (*admindomain.Testimonial, error) {
	testimonial, err := s.repo.FindByID(ctx, testimonialID)
	if err != nil {
		return nil, fmt.Errorf("load testimonial %s: %w", testimonialID, err)
	}
	if testimonial == nil {
		return nil, ErrNotFound
	}
	if _, err := s.guard.tenantOwnedBy(ctx, testimonial.TenantID, actingUserID); err != nil {
		return nil, err
	}

	status, err := admindomain.NewModerationStatus(cmd.Status)
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateStatus(ctx, testimonialID, status, cmd.Featured)
	if err != nil {
		return nil, fmt.Errorf("moderate testimonial %s: %w", testimonialID, err)
	}
	return updated, nil
}
