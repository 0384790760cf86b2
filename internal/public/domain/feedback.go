package domain

import "time"

// Input length caps for anonymous submissions.
const (
	MaxFeedbackLength     = 2000
	MaxCustomerNameLength = 120
	MaxEmailLength        = 254
)

// Star-rating bounds for testimonials.
const (
	MinRating = 1
	MaxRating = 5

	// DefaultDerivedRating is used for an NPS-derived testimonial when the
	// promoter neither scored 9+ nor picked a star rating themselves.
	DefaultDerivedRating = 4
)

// FeedbackResponse is one customer NPS submission. Immutable once created:
// the category is computed exactly once from the score and the endpoint's
// thresholds at creation time and never recomputed.
type FeedbackResponse struct {
	ID            string
	TenantID      string
	EndpointID    string
	Score         int
	Category      Category
	Feedback      string
	CustomerName  string
	CustomerEmail string
	CreatedAt     time.Time
}

// TestimonialStatus is the moderation state of a testimonial.
type TestimonialStatus string

const (
	TestimonialPending  TestimonialStatus = "pending"
	TestimonialApproved TestimonialStatus = "approved"
	TestimonialRejected TestimonialStatus = "rejected"
)

// TestimonialSource tags how a testimonial entered the system.
type TestimonialSource string

const (
	SourceForm     TestimonialSource = "form"
	SourceNPS      TestimonialSource = "nps"
	SourceManual   TestimonialSource = "manual"
	SourceWhatsApp TestimonialSource = "whatsapp"
)

// Testimonial is a candidate for public display, created from the direct
// form or derived from a promoter-category feedback response. Moderation
// happens on the business dashboard.
type Testimonial struct {
	ID            string
	TenantID      string
	CustomerName  string
	CustomerEmail string
	Text          string
	Rating        int
	Status        TestimonialStatus
	Source        TestimonialSource
	Featured      bool
	CreatedAt     time.Time
}

// DeriveRating converts a promoter submission into a star rating: a 9-10
// score is a five-star testimonial, otherwise the customer's own pick wins,
// otherwise the conservative default.
func DeriveRating(score, chosen int) int {
	if score >= DefaultPromoterThreshold {
		return MaxRating
	}
	if chosen >= MinRating && chosen <= MaxRating {
		return chosen
	}
	return DefaultDerivedRating
}
