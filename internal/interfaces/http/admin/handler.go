package admin

import (
	"context"
	"log"

	"github.com/go-chi/chi/v5"

	adminapp "github.com/testimonioya/feedback-services/api/internal/admin/application"
	publicapp "github.com/testimonioya/feedback-services/api/internal/public/application"
)

// CaseReplyNotifier tells the customer a business reply landed on their case.
// Delivery is best effort and must never block or fail the reply itself.
type CaseReplyNotifier interface {
	NotifyBusinessReply(ctx context.Context, caseID, customerEmail string)
}

// Handler wires dashboard HTTP endpoints to application services. Case
// replies and status changes go through the same recovery engine the public
// side uses; the dashboard only adds the ownership track.
type Handler struct {
	logger       *log.Logger
	tenants      adminapp.TenantService
	cases        adminapp.CaseService
	testimonials adminapp.TestimonialService
	endpoints    adminapp.EndpointService
	recovery     publicapp.RecoveryService
	notifier     CaseReplyNotifier
}

// Config provides dependencies for Handler.
type Config struct {
	Logger       *log.Logger
	Tenants      adminapp.TenantService
	Cases        adminapp.CaseService
	Testimonials adminapp.TestimonialService
	Endpoints    adminapp.EndpointService
	Recovery     publicapp.RecoveryService
	Notifier     CaseReplyNotifier
}

// NewHandler constructs a dashboard HTTP handler set.
func NewHandler(cfg Config) *Handler {
	return &Handler{
		logger:       cfg.Logger,
		tenants:      cfg.Tenants,
		cases:        cfg.Cases,
		testimonials: cfg.Testimonials,
		endpoints:    cfg.Endpoints,
		recovery:     cfg.Recovery,
		notifier:     cfg.Notifier,
	}
}

// Register mounts dashboard routes onto router. The caller wraps the whole
// subtree in the session auth middleware.
func (h *Handler) Register(r chi.Router) {
	r.Get("/tenants", h.tenantListHandler())
	r.Get("/tenants/{tenantID}/settings", h.settingsHandler())
	r.Patch("/tenants/{tenantID}/settings", h.settingsUpdateHandler())
	r.Get("/tenants/{tenantID}/usage", h.usageHandler())

	r.Get("/tenants/{tenantID}/cases", h.caseListHandler())
	r.Get("/cases/{id}", h.caseDetailHandler())
	r.Post("/cases/{id}/replies", h.caseReplyHandler())
	r.Patch("/cases/{id}/status", h.caseStatusHandler())

	r.Get("/tenants/{tenantID}/testimonials", h.testimonialListHandler())
	r.Patch("/testimonials/{id}", h.testimonialModerateHandler())

	r.Get("/tenants/{tenantID}/endpoints", h.endpointListHandler())
	r.Post("/tenants/{tenantID}/endpoints", h.endpointCreateHandler())
	r.Patch("/endpoints/{id}", h.endpointUpdateHandler())
}
