package domain

import "time"

// Endpoint is the dashboard view of a collection or unified link, with its
// traffic counters.
type Endpoint struct {
	ID                string
	TenantID          string
	Slug              string
	Name              string
	Kind              string
	Active            bool
	Views             int
	Submissions       int
	Message           string
	PromoterThreshold int
	PassiveThreshold  int
	AskGoogleReview   bool
	GoogleReviewsURL  string
	CreatedAt         time.Time
}
