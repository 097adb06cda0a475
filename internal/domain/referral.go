package domain

import "fmt"

// ─── Referral Attrition ─────────────────────────────────────────────────────
// Raw referral clicks decay to confirmed activations through a fixed
// four-stage chain. Every stage floors, and the order matters: reordering
// the stages changes the result through truncation.

// EarningsPerActivation is the fixed bonus per activated referral.
const EarningsPerActivation = 5.0 // $5

// Attrition is the deterministic drop-off from total referral clicks to
// activated referrals.
type Attrition struct {
	Total     int64 `json:"total"`     // raw referral clicks
	Adjusted  int64 `json:"adjusted"`  // ⌊total × 0.4⌋
	Stage1    int64 `json:"stage1"`    // ⌊adjusted × 2/3⌋
	Stage2    int64 `json:"stage2"`    // ⌊stage1 × 2/3⌋
	Activated int64 `json:"activated"` // ⌊stage2 × 0.95⌋
}

// Attrite applies the attrition chain to a total referral count.
func Attrite(total int64) Attrition {
	a := Attrition{Total: total}
	a.Adjusted = int64(float64(total) * 0.4)
	a.Stage1 = a.Adjusted * 2 / 3
	a.Stage2 = a.Stage1 * 2 / 3
	a.Activated = int64(float64(a.Stage2) * 0.95)
	return a
}

// Earnings returns the referral earnings implied by the activation count.
// The value is a full recomputation from the total — f(total) — so
// reprocessing the same total is idempotent.
func (a Attrition) Earnings() float64 {
	return float64(a.Activated) * EarningsPerActivation
}

// ─── Share Gating ───────────────────────────────────────────────────────────

// ShareDecision is the outcome of evaluating a share attempt.
type ShareDecision int

const (
	// ShareCounted: the share proceeds and counts toward referrals.
	ShareCounted ShareDecision = iota
	// ShareUncounted: the share proceeds but enqueues no referrals.
	ShareUncounted
	// ShareNeedsActivation: blocked until the account is activated.
	ShareNeedsActivation
	// ShareNeedsUpgrade: blocked until the account is upgraded.
	ShareNeedsUpgrade
)

func (d ShareDecision) String() string {
	switch d {
	case ShareCounted:
		return "counted"
	case ShareUncounted:
		return "uncounted"
	case ShareNeedsActivation:
		return "needs-activation"
	case ShareNeedsUpgrade:
		return "needs-upgrade"
	}
	return "unknown"
}

// Share gating thresholds.
const (
	// FreeShareLimit is the count up to which sharing is unconditional.
	FreeShareLimit = 14
	// ActivationShareGate is the share count at which a non-activated
	// account is gated, when the configured activation threshold applies.
	ActivationShareGate = 10
	// ShareCap is the logical cap beyond which shares still count but
	// enqueue no new referrals.
	ShareCap = 10000
)

// ShareGate is the input to the share-gating decision table.
type ShareGate struct {
	Upgraded            bool    // upgraded-account flag present
	Activated           bool    // activation flag present
	HasEarnings         bool    // referral earnings already recorded
	ShareCount          int64   // shares recorded so far
	ActivationThreshold float64 // configured "activate account" threshold
}

// Decide evaluates the single decision table:
//
//	activation threshold > 10, not activated, count ≥ 10  → needs activation
//	upgraded                                              → counted
//	count ≤ free limit                                    → counted
//	has referral earnings                                 → needs upgrade
//	otherwise                                             → uncounted
//
// Free sharing early, paywall after, activation gate in between.
func (g ShareGate) Decide() ShareDecision {
	if g.ActivationThreshold > 10 && !g.Activated && g.ShareCount >= ActivationShareGate {
		return ShareNeedsActivation
	}
	if g.Upgraded {
		return ShareCounted
	}
	if g.ShareCount <= FreeShareLimit {
		return ShareCounted
	}
	if g.HasEarnings {
		return ShareNeedsUpgrade
	}
	return ShareUncounted
}

// ─── Share Message ──────────────────────────────────────────────────────────

const (
	appName       = "REMO-TASK"
	appPackage    = "com.example.remotask"
	appMarketLink = "https://play.google.com/store/apps/details?id=" + appPackage
)

// ShareMessage renders the referral invitation text for a code.
func ShareMessage(code string) string {
	return fmt.Sprintf("Join %s using my referral code: %s\n\nEarn money by training AI!\n\n%s",
		appName, code, appMarketLink)
}
