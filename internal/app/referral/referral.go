// Package referral implements the referral engine: share gating, pending
// referral enqueueing, and the attrition-based earnings recomputation that
// runs when pending referrals mature.
package referral

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/remotask-app/remotask/internal/app/pending"
	"github.com/remotask-app/remotask/internal/domain"
)

// Service drives the referral lifecycle against the ledger store.
type Service struct {
	store               domain.LedgerStore
	sched               *pending.Scheduler
	activationThreshold float64

	// intn is rand.Intn in production; tests pin it.
	intn func(n int) int
}

// New creates a referral service. activationThreshold is the configured
// "activate account" amount that arms the share gate.
func New(store domain.LedgerStore, sched *pending.Scheduler, activationThreshold float64) *Service {
	return &Service{
		store:               store,
		sched:               sched,
		activationThreshold: activationThreshold,
		intn:                rand.Intn,
	}
}

// ─── Referral Code ──────────────────────────────────────────────────────────

// Code returns the user's referral code, generating and persisting it on
// first use. Once stored the code never changes.
func (s *Service) Code() (string, error) {
	code, err := s.store.ReferralCode()
	if err != nil {
		return "", fmt.Errorf("read referral code: %w", err)
	}
	if code != "" {
		return code, nil
	}
	code = domain.NewReferralCode()
	if err := s.store.SetReferralCode(code); err != nil {
		return "", fmt.Errorf("store referral code: %w", err)
	}
	// The store keeps the first write; re-read in case another caller won.
	return s.store.ReferralCode()
}

// ─── Sharing ────────────────────────────────────────────────────────────────

// ShareResult is the outcome of a share attempt.
type ShareResult struct {
	Decision domain.ShareDecision `json:"decision"`
	Message  string               `json:"message,omitempty"` // invitation text when the share proceeds
	Enqueued int64                `json:"enqueued"`          // pending referrals added
}

// HandleShare evaluates the share gate and, when the share proceeds,
// records it. A counted share below the cap enqueues 1–2 pending
// referrals; an uncounted share still increments the share counter but
// enqueues nothing. Blocked decisions change no state.
func (s *Service) HandleShare(now time.Time) (ShareResult, error) {
	gate, err := s.gate()
	if err != nil {
		return ShareResult{}, err
	}

	res := ShareResult{Decision: gate.Decide()}
	if res.Decision == domain.ShareNeedsActivation || res.Decision == domain.ShareNeedsUpgrade {
		return res, nil
	}

	count := gate.ShareCount + 1
	if err := s.store.SetCounter(domain.CounterShareCount, count); err != nil {
		return res, fmt.Errorf("increment share count: %w", err)
	}

	if res.Decision == domain.ShareCounted && count <= domain.ShareCap {
		n := int64(s.intn(2) + 1) // 1 or 2
		if err := s.sched.Schedule(domain.EffectReferrals, float64(n), now); err != nil {
			return res, err
		}
		res.Enqueued = n
	}

	code, err := s.Code()
	if err != nil {
		return res, err
	}
	res.Message = domain.ShareMessage(code)
	return res, nil
}

func (s *Service) gate() (domain.ShareGate, error) {
	upgraded, err := s.store.HasFlag(domain.FlagUpgraded)
	if err != nil {
		return domain.ShareGate{}, fmt.Errorf("read upgrade flag: %w", err)
	}
	activated, err := s.store.HasFlag(domain.FlagActivated)
	if err != nil {
		return domain.ShareGate{}, fmt.Errorf("read activation flag: %w", err)
	}
	earnings, err := s.store.Float(domain.FloatReferralEarnings)
	if err != nil {
		return domain.ShareGate{}, fmt.Errorf("read referral earnings: %w", err)
	}
	count, err := s.store.Counter(domain.CounterShareCount)
	if err != nil {
		return domain.ShareGate{}, fmt.Errorf("read share count: %w", err)
	}
	return domain.ShareGate{
		Upgraded:            upgraded,
		Activated:           activated,
		HasEarnings:         earnings > 0,
		ShareCount:          count,
		ActivationThreshold: s.activationThreshold,
	}, nil
}

// ─── Maturation ─────────────────────────────────────────────────────────────

// TryMatureReferrals folds any due pending referrals into the total and
// recomputes earnings through the attrition chain. Earnings are a pure
// function of the total, so only the delta over what was already credited
// gets scheduled toward the balance — reprocessing never double-counts.
func (s *Service) TryMatureReferrals(now time.Time) (int64, error) {
	matured, err := s.sched.TryMature(domain.EffectReferrals, now, func(amount float64) error {
		total, err := s.store.Counter(domain.CounterTotalReferrals)
		if err != nil {
			return fmt.Errorf("read total referrals: %w", err)
		}
		total += int64(amount)
		if err := s.store.SetCounter(domain.CounterTotalReferrals, total); err != nil {
			return fmt.Errorf("store total referrals: %w", err)
		}

		earnings := domain.Attrite(total).Earnings()
		if err := s.store.SetFloat(domain.FloatReferralEarnings, earnings); err != nil {
			return fmt.Errorf("store referral earnings: %w", err)
		}

		credited, err := s.store.Float(domain.FloatCreditedReferrals)
		if err != nil {
			return fmt.Errorf("read credited earnings: %w", err)
		}
		if delta := earnings - credited; delta > 0 {
			if err := s.sched.Schedule(domain.EffectEarnings, delta, now); err != nil {
				return err
			}
			if err := s.store.SetFloat(domain.FloatCreditedReferrals, earnings); err != nil {
				return fmt.Errorf("store credited earnings: %w", err)
			}
		}
		return nil
	})
	return int64(matured), err
}

// TryMatureEarnings credits any due pending earnings to the balance.
func (s *Service) TryMatureEarnings(now time.Time) (float64, error) {
	return s.sched.TryMature(domain.EffectEarnings, now, func(amount float64) error {
		balance, err := s.store.Balance()
		if err != nil {
			return fmt.Errorf("read balance: %w", err)
		}
		if err := s.store.SetBalance(balance + amount); err != nil {
			return fmt.Errorf("credit balance: %w", err)
		}
		return nil
	})
}

// ─── Stats ──────────────────────────────────────────────────────────────────

// Stats is the referral screen's view of the ledger.
type Stats struct {
	Code             string           `json:"code"`
	ShareCount       int64            `json:"share_count"`
	Attrition        domain.Attrition `json:"attrition"`
	ReferralEarnings float64          `json:"referral_earnings"`
	PendingReferrals float64          `json:"pending_referrals"`
	PendingEarnings  float64          `json:"pending_earnings"`
}

// Stats assembles the current referral figures. It does not mature
// anything; callers run the lazy sync first.
func (s *Service) Stats() (Stats, error) {
	code, err := s.Code()
	if err != nil {
		return Stats{}, err
	}
	count, err := s.store.Counter(domain.CounterShareCount)
	if err != nil {
		return Stats{}, fmt.Errorf("read share count: %w", err)
	}
	total, err := s.store.Counter(domain.CounterTotalReferrals)
	if err != nil {
		return Stats{}, fmt.Errorf("read total referrals: %w", err)
	}
	earnings, err := s.store.Float(domain.FloatReferralEarnings)
	if err != nil {
		return Stats{}, fmt.Errorf("read referral earnings: %w", err)
	}

	st := Stats{
		Code:             code,
		ShareCount:       count,
		Attrition:        domain.Attrite(total),
		ReferralEarnings: earnings,
	}
	if e, found, err := s.sched.Peek(domain.EffectReferrals); err != nil {
		return Stats{}, err
	} else if found {
		st.PendingReferrals = e.Amount
	}
	if e, found, err := s.sched.Peek(domain.EffectEarnings); err != nil {
		return Stats{}, err
	} else if found {
		st.PendingEarnings = e.Amount
	}
	return st, nil
}
