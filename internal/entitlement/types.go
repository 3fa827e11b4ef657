package entitlement

import "errors"

// Tier is the caller's subscription tier.
type Tier string

const (
	TierFree Tier = "free"
	TierPlus Tier = "plus"
	TierPro  Tier = "pro"
)

// Status is the remote subscription-status response.
type Status struct {
	Tier Tier

	// DaysRemaining is nil for tiers without an expiry (free), and
	// negative once the subscription has lapsed.
	DaysRemaining *int
}

// Expired reports whether the subscription has lapsed.
func (s Status) Expired() bool {
	return s.DaysRemaining != nil && *s.DaysRemaining < 0
}

var (
	// ErrEntitlementExpired means the subscription has lapsed. Blocking:
	// the remedy is an upgrade, not a retry.
	ErrEntitlementExpired = errors.New("subscription expired")

	// ErrLimitReached means the tier's usage cap is exhausted. Blocking,
	// same remedy as expiry.
	ErrLimitReached = errors.New("subscription limit reached")
)

// UpgradeRequired reports whether err is one of the two entitlement
// conditions whose remedy is an upgrade prompt rather than a retry.
func UpgradeRequired(err error) bool {
	return errors.Is(err, ErrEntitlementExpired) || errors.Is(err, ErrLimitReached)
}
