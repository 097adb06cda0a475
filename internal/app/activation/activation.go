// Package activation orchestrates the account activation payment: a KES
// activation fee is pushed to the user's phone through the payment
// gateway, polled to a terminal outcome, and on confirmation the
// activation flag is set in the ledger.
package activation

import (
	"context"
	"fmt"
	"strings"

	"github.com/remotask-app/remotask/internal/domain"
)

// FeeKES is the fixed account activation fee.
const FeeKES = 100.0

// Flow runs the activation payment against a gateway and the ledger.
type Flow struct {
	store   domain.LedgerStore
	gateway domain.PaymentGateway
}

// New creates an activation flow.
func New(store domain.LedgerStore, gateway domain.PaymentGateway) *Flow {
	return &Flow{store: store, gateway: gateway}
}

// NormalizePhone canonicalizes a user-entered phone number: spaces,
// hyphens and a leading plus are stripped, a leading zero is dropped.
// Fewer than 9 remaining digits is invalid.
func NormalizePhone(s string) (string, error) {
	r := strings.NewReplacer(" ", "", "-", "", "+", "")
	p := r.Replace(strings.TrimSpace(s))
	p = strings.TrimPrefix(p, "0")
	if len(p) < 9 {
		return "", domain.ErrInvalidPhone
	}
	for i := 0; i < len(p); i++ {
		if p[i] < '0' || p[i] > '9' {
			return "", domain.ErrInvalidPhone
		}
	}
	return p, nil
}

// Activate pushes the activation fee to phone and waits for the payment
// to resolve. On confirmation the activation flag is set. Already
// activated accounts return immediately.
func (f *Flow) Activate(ctx context.Context, phone string) error {
	activated, err := f.store.HasFlag(domain.FlagActivated)
	if err != nil {
		return fmt.Errorf("read activation flag: %w", err)
	}
	if activated {
		return nil
	}

	normalized, err := NormalizePhone(phone)
	if err != nil {
		return err
	}

	checkoutID, err := f.gateway.STKPush(ctx, normalized, FeeKES, "account activation")
	if err != nil {
		return fmt.Errorf("activation push: %w", err)
	}
	if err := f.gateway.PollStatus(ctx, checkoutID); err != nil {
		return fmt.Errorf("activation payment: %w", err)
	}

	if err := f.store.SetFlag(domain.FlagActivated); err != nil {
		return fmt.Errorf("set activation flag: %w", err)
	}
	return nil
}
