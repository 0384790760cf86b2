package domain

import "time"

// Tenant is one business profile. The subscription plan lives on the owning
// user, not here; a user's tenants share one plan.
type Tenant struct {
	ID                  string
	UserID              string
	Name                string
	Slug                string
	BrandColor          string
	DefaultLanguage     string
	WelcomeMessage      string
	GoogleReviewsURL    string
	GoogleNPSThreshold  int
	GoogleStarThreshold int
	UseUnifiedFlow      bool
	UseRecoveryFlow     bool
	AllowAudio          bool
	AllowVideo          bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// NPSRedirectThreshold returns the configured NPS threshold for the Google
// redirect, falling back to the standard default.
func (t *Tenant) NPSRedirectThreshold() int {
	if t.GoogleNPSThreshold >= MinScore && t.GoogleNPSThreshold > 0 {
		return t.GoogleNPSThreshold
	}
	return DefaultGoogleNPSThreshold
}

// StarRedirectThreshold returns the configured star-rating threshold for the
// Google redirect, falling back to the default.
func (t *Tenant) StarRedirectThreshold() int {
	if t.GoogleStarThreshold >= MinRating && t.GoogleStarThreshold <= MaxRating {
		return t.GoogleStarThreshold
	}
	return DefaultGoogleStarThreshold
}
