package domain

import (
	"context"
	"time"
)

// ─── Service Interfaces ─────────────────────────────────────────────────────
// These interfaces define boundaries between layers.
// Infrastructure implements them; application layer depends on them.

// LedgerStore is the single gateway to persisted user state. Every
// component reads and writes through it; none bypasses it.
//
// Reads are lenient by contract: a missing or malformed record comes back
// as its zero value, never as an error. Only I/O failures surface.
type LedgerStore interface {
	// Balance is the user's withdrawable earnings. Never negative by
	// construction: withdrawal validates amount ≤ balance before debit.
	Balance() (float64, error)
	SetBalance(v float64) error

	// Transactions returns all withdrawal transactions in append order.
	Transactions() ([]Transaction, error)
	AppendTransaction(tx Transaction) error
	// SetTransactionStatus records the one status transition of a
	// transaction. Implementations store the new status as-is; the
	// terminality rule is enforced by the settlement engine.
	SetTransactionStatus(id string, status TxStatus) error

	// Presence flags (set or absent — there is no "false" value).
	HasFlag(name string) (bool, error)
	SetFlag(name string) error
	ClearFlag(name string) error

	// Integer counters (share count, total referrals).
	Counter(name string) (int64, error)
	SetCounter(name string, v int64) error

	// Monetary scalars (referral earnings, credited referral earnings).
	Float(name string) (float64, error)
	SetFloat(name string, v float64) error

	// Pending-effect envelopes, keyed by kind. At most one per kind.
	PendingEffect(kind EffectKind) (PendingEffect, bool, error)
	PutPendingEffect(e PendingEffect) error
	DeletePendingEffect(kind EffectKind) error

	// ReferralCode returns the persisted code, or "" if none yet.
	ReferralCode() (string, error)
	SetReferralCode(code string) error
}

// PaymentGateway abstracts the mobile-money payment provider (PayHero
// STK push). The production implementation is a simulation with fixed
// latency and weighted random outcomes; a real gateway client would slot
// in behind the same methods.
type PaymentGateway interface {
	// STKPush initiates a payment prompt on the user's phone and
	// returns the checkout request id to poll.
	STKPush(ctx context.Context, phone string, amount float64, reference string) (string, error)

	// PollStatus polls the checkout until a terminal outcome or the
	// attempt cap. It returns nil on confirmed payment, or one of
	// ErrPaymentCancelled, ErrPaymentFailed, ErrPollTimeout.
	PollStatus(ctx context.Context, checkoutID string) error
}

// Clock supplies the current time. The daemon uses the wall clock; tests
// pin specific instants (settlement days, maturation deadlines).
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to the Clock interface.
type ClockFunc func() time.Time

// Now implements Clock.
func (f ClockFunc) Now() time.Time { return f() }
