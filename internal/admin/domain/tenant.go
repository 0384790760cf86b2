package domain

import "time"

// Tenant is the settings view of a business profile.
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

// Usage reports one resource's consumption against its plan limit, as shown
// on the dashboard. Limit carries the plan package's Unlimited sentinel.
type Usage struct {
	Resource string
	Current  int
	Limit    int
}
