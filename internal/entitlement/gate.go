package entitlement

import "context"

// tierLimits caps the questions per session by tier.
var tierLimits = map[Tier]int{
	TierFree: 2,
	TierPlus: 10,
	TierPro:  25,
}

// StatusSource supplies the current subscription status.
type StatusSource interface {
	Status(ctx context.Context) (Status, error)
}

// Gate is the read-only entitlement policy check. Session configuration
// and batch loading consult it; it never mutates anything.
type Gate struct {
	source StatusSource
}

// NewGate creates a Gate on the given status source.
func NewGate(source StatusSource) *Gate {
	return &Gate{source: source}
}

// MaxQuestions returns the per-session question cap for a tier.
// Unknown tiers get the free cap.
func (g *Gate) MaxQuestions(tier Tier) int {
	if n, ok := tierLimits[tier]; ok {
		return n
	}
	return tierLimits[TierFree]
}

// ClampCount bounds a requested question count to the tier's cap.
// Requests above the cap are clamped, never silently exceeded.
func (g *Gate) ClampCount(tier Tier, requested int) int {
	maxQ := g.MaxQuestions(tier)
	if requested > maxQ {
		return maxQ
	}
	if requested < 1 {
		return 1
	}
	return requested
}

// CheckEntitlement fetches the live status and returns the caller's
// tier, or an entitlement error when the subscription cannot support a
// new session. ErrEntitlementExpired and ErrLimitReached pass through
// from the status source; expiry is also derived from a negative
// days-remaining value.
func (g *Gate) CheckEntitlement(ctx context.Context) (Tier, error) {
	status, err := g.source.Status(ctx)
	if err != nil {
		return "", err
	}
	if status.Expired() {
		return "", ErrEntitlementExpired
	}
	return status.Tier, nil
}
