package domain

import "time"

// EndpointKind distinguishes the two shareable entry points: the classic
// collection link (direct testimonial form) and the unified NPS link.
type EndpointKind string

const (
	EndpointCollection EndpointKind = "collection"
	EndpointUnified    EndpointKind = "unified"
)

// Endpoint is a slug-addressed entry point owned by one tenant. Anonymous
// traffic resolves tenants strictly through the slug, never through any
// client-side "current business" state.
type Endpoint struct {
	ID          string
	TenantID    string
	Slug        string
	Name        string
	Kind        EndpointKind
	Active      bool
	Views       int
	Submissions int
	Message     string

	// Unified-link settings. Zero thresholds mean the NPS defaults apply.
	PromoterThreshold int
	PassiveThreshold  int
	AskGoogleReview   bool
	GoogleReviewsURL  string

	CreatedAt time.Time
}

// Thresholds returns the endpoint's classification thresholds, applying the
// standard NPS defaults where the endpoint does not configure its own.
func (e *Endpoint) Thresholds() (promoter, passive int) {
	promoter = e.PromoterThreshold
	passive = e.PassiveThreshold
	if promoter <= 0 || promoter > MaxScore {
		promoter = DefaultPromoterThreshold
	}
	if passive <= 0 || passive > promoter {
		passive = DefaultPassiveThreshold
		if passive > promoter {
			passive = promoter
		}
	}
	return promoter, passive
}
