// Package domain contains pure business types with ZERO infrastructure imports.
// This is the innermost ring of clean architecture — it depends on nothing.
package domain

import (
	"fmt"
	"math/rand"
	"time"
)

// ─── Transaction Types ──────────────────────────────────────────────────────

// TxStatus is the lifecycle state of a withdrawal transaction.
// Pending is the only non-terminal state: a settlement pass moves it to
// Completed or Failed, and neither ever changes again.
type TxStatus string

const (
	TxPending   TxStatus = "Pending"
	TxCompleted TxStatus = "Completed"
	TxFailed    TxStatus = "Failed"
)

// Terminal reports whether the status can no longer change.
func (s TxStatus) Terminal() bool {
	return s == TxCompleted || s == TxFailed
}

// Transaction is one withdrawal request in the ledger.
type Transaction struct {
	ID      string   `json:"id"`
	Date    string   `json:"date"` // dd/mm/yyyy
	Amount  float64  `json:"amount"`
	Status  TxStatus `json:"status"`
	Method  string   `json:"method,omitempty"`
	Account string   `json:"account,omitempty"` // destination details, display form
}

// PlaceholderDate fills transactions recovered with a missing date.
const PlaceholderDate = "--/--/----"

// NormalizeTransactions rebuilds structured transactions from the four
// parallel arrays of a loosely-typed store. The ID list is authoritative;
// shorter companion arrays are padded with defaults (status Pending,
// amount 0, placeholder date). Callers must never assume the arrays were
// consistent to begin with.
func NormalizeTransactions(ids, dates []string, amounts []float64, statuses []TxStatus) []Transaction {
	txs := make([]Transaction, 0, len(ids))
	for i, id := range ids {
		tx := Transaction{
			ID:     id,
			Date:   PlaceholderDate,
			Status: TxPending,
		}
		if i < len(dates) && dates[i] != "" {
			tx.Date = dates[i]
		}
		if i < len(amounts) {
			tx.Amount = amounts[i]
		}
		if i < len(statuses) && statuses[i] != "" {
			tx.Status = statuses[i]
		}
		txs = append(txs, tx)
	}
	return txs
}

// NewTransactionID generates a withdrawal transaction id in the
// TXN<millis><4-digit> wire format.
func NewTransactionID(now time.Time) string {
	suffix := rand.Intn(9000) + 1000
	return fmt.Sprintf("TXN%d%d", now.UnixMilli(), suffix)
}

// FormatLedgerDate renders a time as the dd/mm/yyyy ledger date.
func FormatLedgerDate(t time.Time) string {
	return fmt.Sprintf("%02d/%02d/%04d", t.Day(), int(t.Month()), t.Year())
}

// ─── Payment Methods ────────────────────────────────────────────────────────

// PaymentMethod identifies a withdrawal destination type.
type PaymentMethod string

const (
	MethodPayPal PaymentMethod = "PayPal"
	MethodBank   PaymentMethod = "Bank Transfer"
	MethodMPesa  PaymentMethod = "M-Pesa"
	MethodSkrill PaymentMethod = "Skrill"
)

// KnownMethod reports whether m is one of the supported payment methods.
func KnownMethod(m PaymentMethod) bool {
	switch m {
	case MethodPayPal, MethodBank, MethodMPesa, MethodSkrill:
		return true
	}
	return false
}

// ─── Delayed Effects ────────────────────────────────────────────────────────

// EffectKind names a category of delayed numeric effect.
type EffectKind string

const (
	EffectReferrals EffectKind = "referrals"
	EffectEarnings  EffectKind = "earnings"
)

// PendingEffect is a durable envelope holding an accumulated amount that
// becomes visible only once its deadline passes. Multiple schedules before
// the deadline coalesce: amounts add, the deadline never moves.
type PendingEffect struct {
	Kind     EffectKind `json:"kind"`
	Amount   float64    `json:"amount"`
	Deadline time.Time  `json:"deadline"`
}

// Due reports whether the effect may be matured at the given instant.
func (e PendingEffect) Due(now time.Time) bool {
	return !now.Before(e.Deadline) && e.Amount > 0
}

// ─── Ledger Keys ────────────────────────────────────────────────────────────
// Named records in the ledger store. Counters are integers, floats are
// monetary, flags are presence-only (set or absent, never false).

const (
	CounterShareCount     = "share_count"
	CounterTotalReferrals = "total_referrals"

	FloatReferralEarnings  = "referral_earnings"
	FloatCreditedReferrals = "credited_referral_earnings"

	FlagActivated = "activated"
	FlagUpgraded  = "upgrade"
)

// ─── Referral Code ──────────────────────────────────────────────────────────

const referralCodeChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// ReferralCodeLength is the fixed length of a user referral code.
const ReferralCodeLength = 8

// NewReferralCode generates an 8-character uppercase alphanumeric code.
// The code is generated once per user and immutable thereafter; callers
// persist it through the ledger store.
func NewReferralCode() string {
	b := make([]byte, ReferralCodeLength)
	for i := range b {
		b[i] = referralCodeChars[rand.Intn(len(referralCodeChars))]
	}
	return string(b)
}

// ValidReferralCode reports whether s has the shape of a referral code.
func ValidReferralCode(s string) bool {
	if len(s) != ReferralCodeLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < 'A' || c > 'Z') && (c < '0' || c > '9') {
			return false
		}
	}
	return true
}
