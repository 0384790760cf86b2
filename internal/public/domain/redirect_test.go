package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGoogleRedirectForNPS(t *testing.T) {
	const url = "https://g.page/r/demo/review"

	tests := []struct {
		name      string
		category  Category
		score     int
		threshold int
		url       string
		want      string
	}{
		{name: "promoter at threshold redirects", category: CategoryPromoter, score: 9, threshold: 9, url: url, want: url},
		{name: "promoter above threshold redirects", category: CategoryPromoter, score: 10, threshold: 9, url: url, want: url},
		{name: "promoter below threshold stays", category: CategoryPromoter, score: 8, threshold: 9, url: url, want: ""},
		{name: "passive never redirects", category: CategoryPassive, score: 10, threshold: 9, url: url, want: ""},
		{name: "detractor never redirects", category: CategoryDetractor, score: 10, threshold: 9, url: url, want: ""},
		{name: "no url configured", category: CategoryPromoter, score: 10, threshold: 9, url: "  ", want: ""},
		{name: "zero threshold uses default", category: CategoryPromoter, score: 9, threshold: 0, url: url, want: url},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GoogleRedirectForNPS(tt.category, tt.score, tt.threshold, tt.url))
		})
	}
}

func TestGoogleRedirectForRating(t *testing.T) {
	const url = "https://g.page/r/demo/review"

	assert.Equal(t, url, GoogleRedirectForRating(4, 4, url))
	assert.Equal(t, url, GoogleRedirectForRating(5, 4, url))
	assert.Equal(t, "", GoogleRedirectForRating(3, 4, url))
	assert.Equal(t, "", GoogleRedirectForRating(5, 4, ""))
	assert.Equal(t, url, GoogleRedirectForRating(4, 0, url), "zero threshold uses default")
}

func TestTenantRedirectThresholdDefaults(t *testing.T) {
	tenant := &Tenant{}
	assert.Equal(t, DefaultGoogleNPSThreshold, tenant.NPSRedirectThreshold())
	assert.Equal(t, DefaultGoogleStarThreshold, tenant.StarRedirectThreshold())

	tenant = &Tenant{GoogleNPSThreshold: 8, GoogleStarThreshold: 5}
	assert.Equal(t, 8, tenant.NPSRedirectThreshold())
	assert.Equal(t, 5, tenant.StarRedirectThreshold())

	tenant = &Tenant{GoogleStarThreshold: 9}
	assert.Equal(t, DefaultGoogleStarThreshold, tenant.StarRedirectThreshold(), "out-of-scale star threshold falls back")
}
