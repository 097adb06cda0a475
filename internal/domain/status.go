package domain

import (
	"fmt"
	"time"
)

// ─── Notification Status Projection ─────────────────────────────────────────
// Every screen that shows the notification bell derives its state from the
// same tri-state projection. It is a pure function of the ledger — the
// projector holds no state of its own.

// AccountStatus is the derived notification state.
type AccountStatus string

const (
	// StatusActivated: the activation flag is present (green bell).
	StatusActivated AccountStatus = "Activated"
	// StatusFailedPending: no activation, but a failed withdrawal exists
	// (red bell).
	StatusFailedPending AccountStatus = "FailedPending"
	// StatusClear: nothing to notify (no bell).
	StatusClear AccountStatus = "Clear"
)

// ProjectStatus derives the notification state. Precedence is fixed:
// Activated wins over FailedPending wins over Clear.
func ProjectStatus(activated bool, txs []Transaction) AccountStatus {
	if activated {
		return StatusActivated
	}
	for _, tx := range txs {
		if tx.Status == TxFailed {
			return StatusFailedPending
		}
	}
	return StatusClear
}

// ─── Settlement Calendar ────────────────────────────────────────────────────
// Withdrawals settle on fixed calendar days. The predicate gates every
// settlement pass; on any other day a pass is a no-op no matter how many
// transactions are pending.

// IsSettlementDay reports whether t falls on a payment day
// (the 1st or 15th of the month, local time).
func IsSettlementDay(t time.Time) bool {
	d := t.Day()
	return d == 1 || d == 15
}

// NextSettlementDay returns the next payment date strictly after the
// current day, with a human label like "15th (in 3 days)".
func NextSettlementDay(now time.Time) (time.Time, string) {
	day := now.Day()
	year, month, _ := now.Date()

	if day < 15 {
		next := time.Date(year, month, 15, 0, 0, 0, 0, now.Location())
		return next, fmt.Sprintf("15th (in %d days)", 15-day)
	}
	next := time.Date(year, month+1, 1, 0, 0, 0, 0, now.Location())
	daysInMonth := time.Date(year, month+1, 0, 0, 0, 0, 0, now.Location()).Day()
	return next, fmt.Sprintf("1st (in %d days)", daysInMonth-day+1)
}
