package application

import (
	"context"
	"fmt"

	admindomain "github.com/testimonioya/feedback-services/api/internal/admin/domain"
	"github.com/testimonioya/feedback-services/api/internal/plan"
)

// QuotaChecker is the quota guard port for dashboard-side creations.
type QuotaChecker interface {
	Check(ctx context.Context, tenantID, userID string, resource plan.Resource) plan.Result
}

// PlanReader resolves the owner's effective tier, re-read per call.
type PlanReader interface {
	TierForUser(ctx context.Context, userID string) (plan.Tier, error)
}

// ownerGuard centralizes the ownership re-verification every privileged
// dashboard call performs against tenant records.
type ownerGuard struct {
	tenants TenantRepository
}

// tenantOwnedBy loads the tenant and confirms the acting user owns it.
func (g ownerGuard) tenantOwnedBy(ctx context.Context, tenantID, actingUserID string) (*admindomain.Tenant, error) {
	tenant, err := g.tenants.FindByID(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("load tenant %s: %w", tenantID, err)
	}
	if tenant == nil {
		return nil, ErrNotFound
	}
	if tenant.UserID != actingUserID {
		return nil, ErrUnauthorized
	}
	return tenant, nil
}
