package domain

import "strings"

// Defaults for the post-submission Google Reviews redirect.
const (
	DefaultGoogleNPSThreshold  = 9
	DefaultGoogleStarThreshold = 4
)

// GoogleRedirectForNPS decides whether the thank-you screen of an NPS
// submission may offer the configured Google Reviews link. Returns "" when
// no redirect should be offered. Purely advisory to the presentation layer;
// the feedback is recorded either way.
func GoogleRedirectForNPS(category Category, score, npsThreshold int, configuredURL string) string {
	url := strings.TrimSpace(configuredURL)
	if url == "" {
		return ""
	}
	if category != CategoryPromoter {
		return ""
	}
	if npsThreshold <= 0 {
		npsThreshold = DefaultGoogleNPSThreshold
	}
	if score < npsThreshold {
		return ""
	}
	return url
}

// GoogleRedirectForRating is the legacy direct-form variant: the chosen star
// rating must meet the tenant's configured star threshold.
func GoogleRedirectForRating(rating, starThreshold int, configuredURL string) string {
	url := strings.TrimSpace(configuredURL)
	if url == "" {
		return ""
	}
	if starThreshold <= 0 {
		starThreshold = DefaultGoogleStarThreshold
	}
	if rating < starThreshold {
		return ""
	}
	return url
}
