package entitlements

import (
	"strings"

	"github.com/TimKoenig/FolioDesk/app/models"
)

// Normalize maps arbitrary tier input (checkout requests, webhook metadata)
// to a canonical tier constant. Unknown values fall back to FREE.
func Normalize(tier string) string {
	switch strings.ToUpper(strings.TrimSpace(tier)) {
	case models.TierStarter:
		return models.TierStarter
	case models.TierPro:
		return models.TierPro
	case models.TierEnterprise:
		return models.TierEnterprise
	default:
		return models.TierFree
	}
}

// Rank orders tiers so callers can compare plan levels.
func Rank(tier string) int {
	switch Normalize(tier) {
	case models.TierEnterprise:
		return 3
	case models.TierPro:
		return 2
	case models.TierStarter:
		return 1
	default:
		return 0
	}
}

// IsPaid reports whether the tier is above the free plan.
func IsPaid(tier string) bool {
	return Rank(tier) > 0
}

// NormalizeBillingMode maps input to "payment" or "subscription"; anything
// else falls back to one-time payment.
func NormalizeBillingMode(mode string) string {
	if strings.ToLower(strings.TrimSpace(mode)) == models.BillingModeSubscription {
		return models.BillingModeSubscription
	}
	return models.BillingModePayment
}
