// Package core is the façade over the ledger subsystems. Every surface
// (HTTP API, CLI) goes through it, and every read entry point first runs
// the lazy sync — matured effects and due settlements are applied by the
// act of looking, never by a background job the user depends on.
package core

import (
	"context"
	"fmt"
	"time"

	"github.com/remotask-app/remotask/internal/app/activation"
	"github.com/remotask-app/remotask/internal/app/referral"
	"github.com/remotask-app/remotask/internal/app/settlement"
	"github.com/remotask-app/remotask/internal/domain"
	"github.com/remotask-app/remotask/internal/infra/observability"
)

// Core wires the ledger subsystems behind one surface-facing API.
type Core struct {
	store      domain.LedgerStore
	referrals  *referral.Service
	settlement *settlement.Engine
	activation *activation.Flow
	clock      domain.Clock
}

// New assembles a core over the given collaborators.
func New(store domain.LedgerStore, r *referral.Service, s *settlement.Engine, a *activation.Flow, clock domain.Clock) *Core {
	if clock == nil {
		clock = domain.ClockFunc(time.Now)
	}
	return &Core{
		store:      store,
		referrals:  r,
		settlement: s,
		activation: a,
		clock:      clock,
	}
}

// ─── Lazy Sync ──────────────────────────────────────────────────────────────

// Sync runs one lazy pass: mature due referrals, mature due earnings,
// settle due withdrawals. Safe to call on every request and on a timer —
// each step is idempotent.
func (c *Core) Sync() error {
	now := c.clock.Now()

	matured, err := c.referrals.TryMatureReferrals(now)
	if err != nil {
		return fmt.Errorf("mature referrals: %w", err)
	}
	if matured > 0 {
		observability.ReferralsMatured.Add(float64(matured))
	}

	credited, err := c.referrals.TryMatureEarnings(now)
	if err != nil {
		return fmt.Errorf("mature earnings: %w", err)
	}
	if credited > 0 {
		observability.EarningsCredited.Add(credited)
	}

	res, err := c.settlement.RunSettlementPass(now)
	if err != nil {
		return fmt.Errorf("settlement pass: %w", err)
	}
	if res.Completed > 0 {
		observability.SettlementsResolved.WithLabelValues("completed").Add(float64(res.Completed))
	}
	if res.Failed > 0 {
		observability.SettlementsResolved.WithLabelValues("failed").Add(float64(res.Failed))
	}

	if balance, err := c.store.Balance(); err == nil {
		observability.Balance.Set(balance)
	}
	return nil
}

// ─── Read Surfaces ──────────────────────────────────────────────────────────

// Summary is the dashboard view.
type Summary struct {
	Balance   float64              `json:"balance"`
	Status    domain.AccountStatus `json:"status"`
	Referrals referral.Stats       `json:"referrals"`
	Schedule  settlement.Schedule  `json:"schedule"`
}

// Summary runs the lazy sync and assembles the dashboard figures.
func (c *Core) Summary() (Summary, error) {
	if err := c.Sync(); err != nil {
		return Summary{}, err
	}

	balance, err := c.store.Balance()
	if err != nil {
		return Summary{}, fmt.Errorf("read balance: %w", err)
	}
	status, err := c.Status()
	if err != nil {
		return Summary{}, err
	}
	stats, err := c.referrals.Stats()
	if err != nil {
		return Summary{}, err
	}
	return Summary{
		Balance:   balance,
		Status:    status,
		Referrals: stats,
		Schedule:  settlement.PaymentSchedule(c.clock.Now()),
	}, nil
}

// Status projects the notification tri-state from the ledger. Callers
// wanting fresh figures run Sync first; Summary does.
func (c *Core) Status() (domain.AccountStatus, error) {
	activated, err := c.store.HasFlag(domain.FlagActivated)
	if err != nil {
		return "", fmt.Errorf("read activation flag: %w", err)
	}
	txs, err := c.store.Transactions()
	if err != nil {
		return "", fmt.Errorf("list transactions: %w", err)
	}
	return domain.ProjectStatus(activated, txs), nil
}

// Transactions runs the lazy sync and lists withdrawals, optionally
// filtered by status ("" means all).
func (c *Core) Transactions(status domain.TxStatus) ([]domain.Transaction, error) {
	if err := c.Sync(); err != nil {
		return nil, err
	}
	txs, err := c.store.Transactions()
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	if status == "" {
		return txs, nil
	}
	filtered := txs[:0:0]
	for _, tx := range txs {
		if tx.Status == status {
			filtered = append(filtered, tx)
		}
	}
	return filtered, nil
}

// ReferralStats runs the lazy sync and returns the referral view.
func (c *Core) ReferralStats() (referral.Stats, error) {
	if err := c.Sync(); err != nil {
		return referral.Stats{}, err
	}
	return c.referrals.Stats()
}

// ─── Write Surfaces ─────────────────────────────────────────────────────────

// Share runs the lazy sync and handles one share attempt.
func (c *Core) Share() (referral.ShareResult, error) {
	if err := c.Sync(); err != nil {
		return referral.ShareResult{}, err
	}
	res, err := c.referrals.HandleShare(c.clock.Now())
	if err != nil {
		return res, err
	}
	observability.Shares.WithLabelValues(res.Decision.String()).Inc()
	return res, nil
}

// Withdraw runs the lazy sync and submits a withdrawal request.
func (c *Core) Withdraw(req settlement.WithdrawalRequest) (domain.Transaction, error) {
	if err := c.Sync(); err != nil {
		return domain.Transaction{}, err
	}
	tx, err := c.settlement.RequestWithdrawal(req, c.clock.Now())
	if err != nil {
		if domain.IsValidation(err) {
			observability.WithdrawalsRejected.Inc()
		}
		return domain.Transaction{}, err
	}
	observability.Withdrawals.WithLabelValues(tx.Method).Inc()
	if balance, berr := c.store.Balance(); berr == nil {
		observability.Balance.Set(balance)
	}
	return tx, nil
}

// Activate runs the activation payment flow for phone.
func (c *Core) Activate(ctx context.Context, phone string) error {
	err := c.activation.Activate(ctx, phone)
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	observability.Activations.WithLabelValues(outcome).Inc()
	return err
}
