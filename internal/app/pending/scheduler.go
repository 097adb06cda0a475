// Package pending implements the delayed-effect scheduler: numeric effects
// (new referrals, new earnings) are held in durable envelopes and become
// visible only once a fixed delay has elapsed.
//
// Maturation is lazy. Nothing fires at the deadline — an effect is applied
// the first time TryMature runs after it, which happens on screen loads
// and on the optional poll tick. If no caller ever shows up, the envelope
// simply waits.
package pending

import (
	"fmt"
	"time"

	"github.com/remotask-app/remotask/internal/domain"
)

// DefaultDelay is how long a scheduled effect stays invisible.
const DefaultDelay = 2 * time.Hour

// ApplyFunc applies a matured amount to its permanent counter.
type ApplyFunc func(amount float64) error

// Scheduler coalesces and matures pending effects against a ledger store.
type Scheduler struct {
	store domain.LedgerStore
	delay time.Duration
}

// New creates a scheduler with the given maturation delay
// (DefaultDelay when d <= 0).
func New(store domain.LedgerStore, d time.Duration) *Scheduler {
	if d <= 0 {
		d = DefaultDelay
	}
	return &Scheduler{store: store, delay: d}
}

// Schedule adds amount to the pending envelope for kind. If no envelope
// exists the deadline is now + delay; if one exists the amount accumulates
// under the existing deadline — the deadline is never pushed out.
func (s *Scheduler) Schedule(kind domain.EffectKind, amount float64, now time.Time) error {
	if amount <= 0 {
		return nil
	}

	e, found, err := s.store.PendingEffect(kind)
	if err != nil {
		return fmt.Errorf("read pending %s: %w", kind, err)
	}
	if !found {
		e = domain.PendingEffect{
			Kind:     kind,
			Deadline: now.Add(s.delay),
		}
	}
	e.Amount += amount

	if err := s.store.PutPendingEffect(e); err != nil {
		return fmt.Errorf("write pending %s: %w", kind, err)
	}
	return nil
}

// TryMature applies the envelope for kind when its deadline has passed:
// the accumulated amount goes through apply, the envelope is deleted, and
// the amount is returned. With no envelope, or before the deadline, it is
// a no-op returning 0 — safe to call from any screen at any time.
func (s *Scheduler) TryMature(kind domain.EffectKind, now time.Time, apply ApplyFunc) (float64, error) {
	e, found, err := s.store.PendingEffect(kind)
	if err != nil {
		return 0, fmt.Errorf("read pending %s: %w", kind, err)
	}
	if !found || !e.Due(now) {
		return 0, nil
	}

	if err := apply(e.Amount); err != nil {
		return 0, fmt.Errorf("apply pending %s: %w", kind, err)
	}
	if err := s.store.DeletePendingEffect(kind); err != nil {
		return 0, fmt.Errorf("clear pending %s: %w", kind, err)
	}
	return e.Amount, nil
}

// Peek returns the current envelope for kind without maturing it.
func (s *Scheduler) Peek(kind domain.EffectKind) (domain.PendingEffect, bool, error) {
	return s.store.PendingEffect(kind)
}
