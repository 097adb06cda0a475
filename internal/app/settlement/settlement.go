// Package settlement implements withdrawal requests and the payment-day
// settlement pass. Withdrawals debit immediately and enter the ledger as
// Pending; on the 1st and 15th a pass resolves every pending transaction
// to Completed or Failed-with-refund. Passes run lazily, triggered by
// reads, so a day can pass unobserved — the next read settles it.
package settlement

import (
	"fmt"
	"strings"
	"time"

	"github.com/remotask-app/remotask/internal/domain"
)

// Engine drives withdrawals and settlement against the ledger store.
type Engine struct {
	store   domain.LedgerStore
	minimum float64
}

// New creates a settlement engine. minimum is the configured minimum
// withdrawal amount.
func New(store domain.LedgerStore, minimum float64) *Engine {
	return &Engine{store: store, minimum: minimum}
}

// ─── Withdrawal Requests ────────────────────────────────────────────────────

// WithdrawalRequest is a user withdrawal submission. Which detail fields
// are required depends on the method.
type WithdrawalRequest struct {
	Amount      float64              `json:"amount"`
	Method      domain.PaymentMethod `json:"method"`
	Email       string               `json:"email,omitempty"`        // PayPal, Skrill
	Phone       string               `json:"phone,omitempty"`        // M-Pesa
	BankName    string               `json:"bank_name,omitempty"`    // Bank Transfer
	BankAccount string               `json:"bank_account,omitempty"` // Bank Transfer
}

// RequestWithdrawal validates the request, debits the balance, and appends
// the transaction as Pending. On a settlement day the new transaction
// settles in the same call — completed when the activation flag is
// present, failed with an immediate refund otherwise. Off settlement days
// it waits Pending for the next pass.
func (e *Engine) RequestWithdrawal(req WithdrawalRequest, now time.Time) (domain.Transaction, error) {
	account, err := e.validate(req)
	if err != nil {
		return domain.Transaction{}, err
	}

	balance, err := e.store.Balance()
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("read balance: %w", err)
	}
	if req.Amount > balance {
		return domain.Transaction{}, domain.ErrInsufficientBalance
	}

	if err := e.store.SetBalance(balance - req.Amount); err != nil {
		return domain.Transaction{}, fmt.Errorf("debit balance: %w", err)
	}

	tx := domain.Transaction{
		ID:      domain.NewTransactionID(now),
		Date:    domain.FormatLedgerDate(now),
		Amount:  req.Amount,
		Status:  domain.TxPending,
		Method:  string(req.Method),
		Account: account,
	}
	if err := e.store.AppendTransaction(tx); err != nil {
		return domain.Transaction{}, fmt.Errorf("append transaction: %w", err)
	}

	if !domain.IsSettlementDay(now) {
		return tx, nil
	}
	if _, err := e.RunSettlementPass(now); err != nil {
		return tx, err
	}
	txs, err := e.store.Transactions()
	if err != nil {
		return tx, fmt.Errorf("reload transactions: %w", err)
	}
	for _, settled := range txs {
		if settled.ID == tx.ID {
			return settled, nil
		}
	}
	return tx, nil
}

// validate checks the request and returns the display form of the
// destination account.
func (e *Engine) validate(req WithdrawalRequest) (string, error) {
	if req.Amount <= 0 {
		return "", domain.Validationf("amount", "enter a valid amount")
	}
	if req.Amount < e.minimum {
		return "", domain.Validationf("amount", "minimum withdrawal is $%.0f", e.minimum)
	}
	if req.Method == "" {
		return "", domain.ErrNoPaymentMethod
	}
	if !domain.KnownMethod(req.Method) {
		return "", domain.ErrUnknownMethod
	}

	switch req.Method {
	case domain.MethodPayPal, domain.MethodSkrill:
		if !validEmail(req.Email) {
			return "", domain.Validationf("email", "enter a valid email address")
		}
		return req.Email, nil
	case domain.MethodMPesa:
		if strings.TrimSpace(req.Phone) == "" {
			return "", domain.Validationf("phone", "enter a phone number")
		}
		return req.Phone, nil
	case domain.MethodBank:
		if strings.TrimSpace(req.BankName) == "" {
			return "", domain.Validationf("bank_name", "enter a bank name")
		}
		if strings.TrimSpace(req.BankAccount) == "" {
			return "", domain.Validationf("bank_account", "enter an account number")
		}
		return req.BankName + " " + req.BankAccount, nil
	}
	return "", domain.ErrUnknownMethod
}

// validEmail requires an '@' before the final '.', with non-empty
// segments on each side of both.
func validEmail(s string) bool {
	at := strings.Index(s, "@")
	dot := strings.LastIndex(s, ".")
	return at > 0 && dot > at+1 && dot < len(s)-1
}

// ─── Settlement Pass ────────────────────────────────────────────────────────

// PassResult summarizes one settlement pass.
type PassResult struct {
	Completed int     `json:"completed"`
	Failed    int     `json:"failed"`
	Refunded  float64 `json:"refunded"`
}

// RunSettlementPass resolves pending withdrawals. Off settlement days it
// is a no-op. On a settlement day every Pending transaction goes to
// Completed when the activation flag is present, else to Failed with an
// immediate refund. Terminal statuses never change. When any status
// changed and the flag was present, the flag is cleared — activation is
// spent by the settlement it unlocked.
func (e *Engine) RunSettlementPass(now time.Time) (PassResult, error) {
	var res PassResult
	if !domain.IsSettlementDay(now) {
		return res, nil
	}

	activated, err := e.store.HasFlag(domain.FlagActivated)
	if err != nil {
		return res, fmt.Errorf("read activation flag: %w", err)
	}
	txs, err := e.store.Transactions()
	if err != nil {
		return res, fmt.Errorf("list transactions: %w", err)
	}

	for _, tx := range txs {
		if tx.Status.Terminal() {
			continue
		}
		if activated {
			if err := e.store.SetTransactionStatus(tx.ID, domain.TxCompleted); err != nil {
				return res, fmt.Errorf("complete %s: %w", tx.ID, err)
			}
			res.Completed++
			continue
		}
		if err := e.store.SetTransactionStatus(tx.ID, domain.TxFailed); err != nil {
			return res, fmt.Errorf("fail %s: %w", tx.ID, err)
		}
		balance, err := e.store.Balance()
		if err != nil {
			return res, fmt.Errorf("read balance: %w", err)
		}
		if err := e.store.SetBalance(balance + tx.Amount); err != nil {
			return res, fmt.Errorf("refund %s: %w", tx.ID, err)
		}
		res.Failed++
		res.Refunded += tx.Amount
	}

	if activated && res.Completed+res.Failed > 0 {
		if err := e.store.ClearFlag(domain.FlagActivated); err != nil {
			return res, fmt.Errorf("clear activation flag: %w", err)
		}
	}
	return res, nil
}

// ─── Schedule Display ───────────────────────────────────────────────────────

// Schedule is the payment-day view for the summary screen.
type Schedule struct {
	SettlementDay bool   `json:"settlement_day"`
	NextPayment   string `json:"next_payment"` // e.g. "15th (in 3 days)"
}

// PaymentSchedule reports whether now is a settlement day and labels the
// next one.
func PaymentSchedule(now time.Time) Schedule {
	_, label := domain.NextSettlementDay(now)
	return Schedule{
		SettlementDay: domain.IsSettlementDay(now),
		NextPayment:   label,
	}
}
