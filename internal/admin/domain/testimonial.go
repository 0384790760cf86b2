package domain

import "time"

// Testimonial is the admin-managed moderation view.
type Testimonial struct {
	ID            string
	TenantID      string
	CustomerName  string
	CustomerEmail string
	Text          string
	Rating        int
	Status        ModerationStatus
	Source        string
	Featured      bool
	CreatedAt     time.Time
}
