package domain

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// ModerationStatus is the validated moderation state of a testimonial.
type ModerationStatus string

const (
	ModerationPending  ModerationStatus = "pending"
	ModerationApproved ModerationStatus = "approved"
	ModerationRejected ModerationStatus = "rejected"
)

// NewModerationStatus validates a requested moderation state.
func NewModerationStatus(value string) (ModerationStatus, error) {
	switch ModerationStatus(strings.TrimSpace(value)) {
	case ModerationPending:
		return ModerationPending, nil
	case ModerationApproved:
		return ModerationApproved, nil
	case ModerationRejected:
		return ModerationRejected, nil
	}
	return "", fmt.Errorf("invalid moderation status: %s", value)
}

func (s ModerationStatus) String() string {
	return string(s)
}

var brandColorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// BrandColor is a hex color used on public forms.
type BrandColor string

// NewBrandColor validates a hex color; empty keeps the tenant default.
func NewBrandColor(value string) (BrandColor, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", nil
	}
	if !brandColorPattern.MatchString(trimmed) {
		return "", fmt.Errorf("invalid brand color: %s", trimmed)
	}
	return BrandColor(strings.ToLower(trimmed)), nil
}

func (c BrandColor) String() string {
	return string(c)
}

// ReviewsURL is a validated absolute https URL for the Google redirect.
type ReviewsURL string

// NewReviewsURL validates the configured Google Reviews URL; empty clears it.
func NewReviewsURL(value string) (ReviewsURL, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", nil
	}
	parsed, err := url.Parse(trimmed)
	if err != nil || parsed.Scheme != "https" || parsed.Host == "" {
		return "", fmt.Errorf("reviews URL must be an absolute https URL")
	}
	return ReviewsURL(trimmed), nil
}

func (u ReviewsURL) String() string {
	return string(u)
}
