package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTier(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Tier
	}{
		{name: "free", input: "free", want: TierFree},
		{name: "pro", input: "pro", want: TierPro},
		{name: "premium", input: "premium", want: TierPremium},
		{name: "mixed case", input: "  Premium ", want: TierPremium},
		{name: "unknown maps to free", input: "enterprise", want: TierFree},
		{name: "empty maps to free", input: "", want: TierFree},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseTier(tt.input))
		})
	}
}

func TestLimitsForUnknownTierFallsBackToFree(t *testing.T) {
	assert.Equal(t, LimitsFor(TierFree), LimitsFor(Tier("whatever")))
}

func TestTierLimits(t *testing.T) {
	free := LimitsFor(TierFree)
	assert.Equal(t, 10, free.TestimonialsPerMonth)
	assert.Equal(t, 50, free.NPSPerMonth)
	assert.Equal(t, 1, free.CollectionEndpoints)
	assert.Equal(t, 1, free.MaxTenants)
	assert.False(t, free.HasUnifiedFlow)
	assert.False(t, free.HasRecoveryFlow)

	pro := LimitsFor(TierPro)
	assert.True(t, IsUnlimited(pro.TestimonialsPerMonth))
	assert.Equal(t, 500, pro.NPSPerMonth)
	assert.True(t, pro.HasNPS)
	assert.False(t, pro.HasUnifiedFlow, "unified flow stays premium-only")

	premium := LimitsFor(TierPremium)
	assert.True(t, IsUnlimited(premium.NPSPerMonth))
	assert.Equal(t, 5, premium.MaxTenants)
	assert.True(t, premium.HasUnifiedFlow)
	assert.True(t, premium.HasRecoveryFlow)
}

func TestHasFeature(t *testing.T) {
	tests := []struct {
		tier    Tier
		feature Feature
		want    bool
	}{
		{TierFree, FeatureNPS, false},
		{TierFree, FeatureNoBranding, false},
		{TierPro, FeatureNPS, true},
		{TierPro, FeatureRecoveryFlow, false},
		{TierPro, FeatureNoBranding, true},
		{TierPremium, FeatureUnifiedFlow, true},
		{TierPremium, FeatureRecoveryFlow, true},
		{TierPremium, FeatureAPI, true},
		{TierPremium, Feature("unknown"), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.tier)+"/"+string(tt.feature), func(t *testing.T) {
			assert.Equal(t, tt.want, HasFeature(tt.tier, tt.feature))
		})
	}
}
