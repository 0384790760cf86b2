// Package plan maps subscription tiers to feature flags and usage limits,
// and enforces per-tenant monthly quotas against them.
package plan

import "strings"

// Tier identifies a subscription tier. The plan is stored on the owning
// user's profile, not on the tenant: all tenants of one user share a plan.
type Tier string

const (
	TierFree    Tier = "free"
	TierPro     Tier = "pro"
	TierPremium Tier = "premium"
)

// Unlimited marks a numeric limit with no cap.
const Unlimited = -1

// Limits is the fixed policy record for one tier.
type Limits struct {
	TestimonialsPerMonth int
	NPSPerMonth          int
	CollectionEndpoints  int
	MaxTenants           int
	HasAudio             bool
	HasVideo             bool
	HasNPS               bool
	HasUnifiedFlow       bool
	HasRecoveryFlow      bool
	HasAnalytics         bool
	HasAPI               bool
	RemovesBranding      bool
}

var tierLimits = map[Tier]Limits{
	TierFree: {
		TestimonialsPerMonth: 10,
		NPSPerMonth:          50,
		CollectionEndpoints:  1,
		MaxTenants:           1,
	},
	TierPro: {
		TestimonialsPerMonth: Unlimited,
		NPSPerMonth:          500,
		CollectionEndpoints:  Unlimited,
		MaxTenants:           1,
		HasAudio:             true,
		HasVideo:             true,
		HasNPS:               true,
		RemovesBranding:      true,
	},
	TierPremium: {
		TestimonialsPerMonth: Unlimited,
		NPSPerMonth:          Unlimited,
		CollectionEndpoints:  Unlimited,
		MaxTenants:           5,
		HasAudio:             true,
		HasVideo:             true,
		HasNPS:               true,
		HasUnifiedFlow:       true,
		HasRecoveryFlow:      true,
		HasAnalytics:         true,
		HasAPI:               true,
		RemovesBranding:      true,
	},
}

// LimitsFor returns the policy for a tier. An unknown tier falls back to the
// free tier so that a corrupt or missing profile never unlocks paid features.
func LimitsFor(tier Tier) Limits {
	if limits, ok := tierLimits[tier]; ok {
		return limits
	}
	return tierLimits[TierFree]
}

// ParseTier normalises a stored plan string. Unknown values map to free.
func ParseTier(value string) Tier {
	switch Tier(strings.ToLower(strings.TrimSpace(value))) {
	case TierPro:
		return TierPro
	case TierPremium:
		return TierPremium
	default:
		return TierFree
	}
}

// Feature names a gated boolean capability.
type Feature string

const (
	FeatureAudio        Feature = "audio"
	FeatureVideo        Feature = "video"
	FeatureNPS          Feature = "nps"
	FeatureUnifiedFlow  Feature = "unified_flow"
	FeatureRecoveryFlow Feature = "recovery_flow"
	FeatureAnalytics    Feature = "analytics"
	FeatureAPI          Feature = "api"
	FeatureNoBranding   Feature = "no_branding"
)

// HasFeature reports whether the tier includes the named feature.
func HasFeature(tier Tier, feature Feature) bool {
	limits := LimitsFor(tier)
	switch feature {
	case FeatureAudio:
		return limits.HasAudio
	case FeatureVideo:
		return limits.HasVideo
	case FeatureNPS:
		return limits.HasNPS
	case FeatureUnifiedFlow:
		return limits.HasUnifiedFlow
	case FeatureRecoveryFlow:
		return limits.HasRecoveryFlow
	case FeatureAnalytics:
		return limits.HasAnalytics
	case FeatureAPI:
		return limits.HasAPI
	case FeatureNoBranding:
		return limits.RemovesBranding
	default:
		return false
	}
}

// IsUnlimited reports whether a numeric limit carries the Unlimited sentinel.
func IsUnlimited(limit int) bool {
	return limit == Unlimited
}
