package application

import (
	"context"

	admindomain "github.com/testimonioya/feedback-services/api/internal/admin/domain"
)

// TenantRepository exposes admin reads and settings writes on tenants.
type TenantRepository interface {
	FindByID(ctx context.Context, id string) (*admindomain.Tenant, error)
	FindByUser(ctx context.Context, userID string) ([]admindomain.Tenant, error)
	UpdateSettings(ctx context.Context, tenant *admindomain.Tenant) error
}

// CaseRepository lists recovery cases for the dashboard.
type CaseRepository interface {
	FindByTenant(ctx context.Context, tenantID string, filter CaseFilter, paging Paging) ([]admindomain.Case, error)
	FindByID(ctx context.Context, id string) (*admindomain.Case, error)
}

// TestimonialRepository exposes moderation operations.
type TestimonialRepository interface {
	FindByTenant(ctx context.Context, tenantID string, filter TestimonialFilter, paging Paging) ([]admindomain.Testimonial, error)
	FindByID(ctx context.Context, id string) (*admindomain.Testimonial, error)
	UpdateStatus(ctx context.Context, id string, status admindomain.ModerationStatus, featured *bool) (*admindomain.Testimonial, error)
}

// EndpointRepository exposes endpoint management for the dashboard.
type EndpointRepository interface {
	FindByTenant(ctx context.Context, tenantID string) ([]admindomain.Endpoint, error)
	FindByID(ctx context.Context, id string) (*admindomain.Endpoint, error)
	Create(ctx context.Context, endpoint *admindomain.Endpoint) error
	Update(ctx context.Context, endpoint *admindomain.Endpoint) error
}

// CaseFilter narrows the case list.
type CaseFilter struct {
	Status string
}

// TestimonialFilter narrows the testimonial list.
type TestimonialFilter struct {
	Status string
	Source string
}

// Paging controls pagination.
type Paging struct {
	Page  int
	Limit int
}

// CaseService describes dashboard case use-cases. Every operation takes the
// acting user and re-verifies tenant ownership; nothing is cached.
type CaseService interface {
	List(ctx context.Context, tenantID, actingUserID string, filter CaseFilter, paging Paging) ([]admindomain.Case, error)
	Detail(ctx context.Context, caseID, actingUserID string) (*admindomain.Case, error)
}

// TestimonialService describes moderation use-cases.
type TestimonialService interface {
	List(ctx context.Context, tenantID, actingUserID string, filter TestimonialFilter, paging Paging) ([]admindomain.Testimonial, error)
	Moderate(ctx context.Context, testimonialID, actingUserID string, cmd ModerateCommand) (*admindomain.Testimonial, error)
}

// EndpointService describes endpoint management use-cases.
type EndpointService interface {
	List(ctx context.Context, tenantID, actingUserID string) ([]admindomain.Endpoint, error)
	Create(ctx context.Context, tenantID, actingUserID string, cmd CreateEndpointCommand) (*admindomain.Endpoint, error)
	Update(ctx context.Context, endpointID, actingUserID string, cmd UpdateEndpointCommand) (*admindomain.Endpoint, error)
}

// TenantService describes settings and usage use-cases.
type TenantService interface {
	ListForUser(ctx context.Context, actingUserID string) ([]admindomain.Tenant, error)
	Settings(ctx context.Context, tenantID, actingUserID string) (*admindomain.Tenant, error)
	UpdateSettings(ctx context.Context, tenantID, actingUserID string, cmd UpdateSettingsCommand) (*admindomain.Tenant, error)
	Usage(ctx context.Context, tenantID, actingUserID string) ([]admindomain.Usage, error)
}

// ModerateCommand updates a testimonial's moderation state.
type ModerateCommand struct {
	Status   string
	Featured *bool
}

// CreateEndpointCommand creates a new shareable link.
type CreateEndpointCommand struct {
	Name              string
	Kind              string
	Message           string
	PromoterThreshold int
	PassiveThreshold  int
	AskGoogleReview   bool
	GoogleReviewsURL  string
}

// UpdateEndpointCommand mutates an existing link. Nil pointers leave the
// field unchanged.
type UpdateEndpointCommand struct {
	Name              *string
	Active            *bool
	Message           *string
	PromoterThreshold *int
	PassiveThreshold  *int
	AskGoogleReview   *bool
	GoogleReviewsURL  *string
}

// UpdateSettingsCommand mutates tenant settings. Nil pointers leave the
// field unchanged.
type UpdateSettingsCommand struct {
	Name                *string
	BrandColor          *string
	DefaultLanguage     *string
	WelcomeMessage      *string
	GoogleReviewsURL    *string
	GoogleNPSThreshold  *int
	GoogleStarThreshold *int
	UseUnifiedFlow      *bool
	UseRecoveryFlow     *bool
	AllowAudio          *bool
	AllowVideo          *bool
}
