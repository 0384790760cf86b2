package application

import (
	"context"
	"fmt"

	admindomain "github.com/testimonioya/feedback-services/api/internal/admin/domain"
)

type caseService struct {
	repo  CaseRepository
	guard ownerGuard
}

// NewCaseService builds the dashboard case service.
func NewCaseService(repo CaseRepository, tenants TenantRepository) CaseService {
	return &caseService{repo: repo, guard: ownerGuard{tenants: tenants}}
}

func (s *caseService) List(ctx context.Context, tenantID, actingUserID string, filter CaseFilter, paging Paging) ([]admindomain.Case, error) {
	if _, err := s.guard.tenantOwnedBy(ctx, tenantID, actingUserID); err != nil {
		return nil, err
	}
	return s.repo.FindByTenant(ctx, tenantID, filter, normalizePaging(paging))
}

func (s *caseService) Detail(ctx context.Context, caseID, actingUserID string) (*admindomain.Case, error) {
	recoveryCase, err := s.repo.FindByID(ctx, caseID)
	if err != nil {
		return nil, fmt.Errorf("load case %s: %w", caseID, err)
	}
	if recoveryCase == nil {
		return nil, ErrNotFound
	}
	if _, err := s.guard.tenantOwnedBy(ctx, recoveryCase.TenantID, actingUserID); err != nil {
		return nil, err
	}
	return recoveryCase, nil
}

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

func normalizePaging(paging Paging) Paging {
	if paging.Page < 1 {
		paging.Page = 1
	}
	if paging.Limit < 1 {
		paging.Limit = defaultPageLimit
	}
	if paging.Limit > maxPageLimit {
		paging.Limit = maxPageLimit
	}
	return paging
}
