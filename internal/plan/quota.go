package plan

import (
	"context"
	"log"
	"time"
)

// Resource identifies a quota-limited resource kind.
type Resource string

const (
	ResourceTestimonials Resource = "testimonials"
	ResourceNPSResponses Resource = "nps_responses"
	ResourceEndpoints    Resource = "collection_endpoints"
	ResourceTenants      Resource = "tenants"
)

// ProfileReader resolves the effective tier of a user. The plan must be
// re-read on every privileged operation; callers never supply it themselves.
type ProfileReader interface {
	TierForUser(ctx context.Context, userID string) (Tier, error)
}

// UsageCounter counts existing records for quota comparison. A zero `since`
// means an all-time count (endpoints and tenants are not month-scoped).
type UsageCounter interface {
	CountTenantResources(ctx context.Context, tenantID string, resource Resource, since time.Time) (int, error)
	CountOwnerTenants(ctx context.Context, userID string) (int, error)
}

// Result is the outcome of one quota check.
type Result struct {
	Allowed bool
	Current int
	Limit   int
}

// Guard evaluates per-tenant usage against the owner's plan limits.
//
// The check is a read, not a reservation: under concurrent submissions right
// at a limit a small overshoot is possible and accepted. Count failures fail
// open so a transient read error never blocks a customer-facing submission;
// the failure is logged for operators.
type Guard struct {
	profiles ProfileReader
	usage    UsageCounter
	location *time.Location
	logger   *log.Logger
	now      func() time.Time
}

// NewGuard builds a Guard. The location determines the calendar-month window
// boundary; nil falls back to UTC.
func NewGuard(profiles ProfileReader, usage UsageCounter, location *time.Location, logger *log.Logger) *Guard {
	if location == nil {
		location = time.UTC
	}
	return &Guard{
		profiles: profiles,
		usage:    usage,
		location: location,
		logger:   logger,
		now:      time.Now,
	}
}

// Check evaluates whether the tenant may create one more record of the given
// resource kind right now. Evaluated fresh on every creation attempt.
func (g *Guard) Check(ctx context.Context, tenantID, userID string, resource Resource) Result {
	tier, err := g.profiles.TierForUser(ctx, userID)
	if err != nil {
		// Most-restrictive fallback: an unreadable profile behaves as free.
		g.logf("plan lookup failed for user %s: %v", userID, err)
		tier = TierFree
	}

	limit := limitFor(tier, resource)
	if IsUnlimited(limit) {
		return Result{Allowed: true, Current: 0, Limit: Unlimited}
	}

	current, err := g.count(ctx, tenantID, userID, resource)
	if err != nil {
		g.logf("usage count failed for tenant %s resource %s: %v", tenantID, resource, err)
		return Result{Allowed: true, Current: 0, Limit: limit}
	}

	return Result{Allowed: current < limit, Current: current, Limit: limit}
}

func (g *Guard) count(ctx context.Context, tenantID, userID string, resource Resource) (int, error) {
	switch resource {
	case ResourceTenants:
		return g.usage.CountOwnerTenants(ctx, userID)
	case ResourceTestimonials, ResourceNPSResponses:
		return g.usage.CountTenantResources(ctx, tenantID, resource, g.startOfMonth())
	default:
		return g.usage.CountTenantResources(ctx, tenantID, resource, time.Time{})
	}
}

// startOfMonth returns the first instant of the current calendar month in
// the guard's location.
func (g *Guard) startOfMonth() time.Time {
	now := g.now().In(g.location)
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, g.location)
}

func (g *Guard) logf(format string, args ...any) {
	if g.logger != nil {
		g.logger.Printf(format, args...)
	}
}

func limitFor(tier Tier, resource Resource) int {
	limits := LimitsFor(tier)
	switch resource {
	case ResourceTestimonials:
		return limits.TestimonialsPerMonth
	case ResourceNPSResponses:
		return limits.NPSPerMonth
	case ResourceEndpoints:
		return limits.CollectionEndpoints
	case ResourceTenants:
		return limits.MaxTenants
	default:
		return 0
	}
}
