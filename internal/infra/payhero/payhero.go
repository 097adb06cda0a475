// Package payhero simulates the PayHero mobile-money gateway used for
// account activation. Pushes and status queries resolve after a fixed
// latency with weighted random outcomes; a real client would implement
// the same domain.PaymentGateway interface.
package payhero

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/remotask-app/remotask/internal/domain"
)

// Simulation timing defaults.
const (
	DefaultLatency      = 2 * time.Second
	DefaultPollInterval = 5 * time.Second
	DefaultMaxAttempts  = 12
)

// Outcome weights. Pushes succeed 90% of the time; a pushed payment
// confirms 60%, stays pending 20%, is cancelled 10%, fails 10%.
const (
	pushSuccessRate = 0.90
	querySuccess    = 0.60
	queryPending    = 0.80 // cumulative
	queryCancelled  = 0.90 // cumulative
)

// Gateway is the simulated PayHero client.
type Gateway struct {
	latency      time.Duration
	pollInterval time.Duration
	maxAttempts  int

	// rng returns a uniform float in [0,1); tests pin it.
	rng func() float64
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithLatency overrides the simulated network latency.
func WithLatency(d time.Duration) Option {
	return func(g *Gateway) { g.latency = d }
}

// WithPollInterval overrides the status polling interval.
func WithPollInterval(d time.Duration) Option {
	return func(g *Gateway) { g.pollInterval = d }
}

// WithMaxAttempts overrides the polling attempt cap.
func WithMaxAttempts(n int) Option {
	return func(g *Gateway) { g.maxAttempts = n }
}

// WithRand overrides the outcome source.
func WithRand(rng func() float64) Option {
	return func(g *Gateway) { g.rng = rng }
}

// New creates a simulated gateway.
func New(opts ...Option) *Gateway {
	g := &Gateway{
		latency:      DefaultLatency,
		pollInterval: DefaultPollInterval,
		maxAttempts:  DefaultMaxAttempts,
		rng:          rand.Float64,
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

var _ domain.PaymentGateway = (*Gateway)(nil)

// STKPush initiates a payment prompt on the user's phone. After the
// simulated latency it returns a checkout request id, or ErrPushDeclined
// for the unlucky 10%.
func (g *Gateway) STKPush(ctx context.Context, phone string, amount float64, reference string) (string, error) {
	if err := g.sleep(ctx, g.latency); err != nil {
		return "", err
	}
	if g.rng() >= pushSuccessRate {
		return "", fmt.Errorf("stk push to %s: %w", phone, domain.ErrPushDeclined)
	}
	return "ws_CO_" + uuid.NewString(), nil
}

// QueryStatus resolves one weighted status check: nil on confirmed
// payment, errStillPending while unresolved, or a terminal sentinel.
func (g *Gateway) QueryStatus(ctx context.Context, checkoutID string) error {
	if err := g.sleep(ctx, g.latency); err != nil {
		return err
	}
	r := g.rng()
	switch {
	case r < querySuccess:
		return nil
	case r < queryPending:
		return errStillPending
	case r < queryCancelled:
		return domain.ErrPaymentCancelled
	default:
		return domain.ErrPaymentFailed
	}
}

var errStillPending = fmt.Errorf("payment still pending")

// PollStatus polls the checkout until a terminal outcome, the attempt
// cap, or context cancellation.
func (g *Gateway) PollStatus(ctx context.Context, checkoutID string) error {
	for attempt := 0; attempt < g.maxAttempts; attempt++ {
		if attempt > 0 {
			if err := g.sleep(ctx, g.pollInterval); err != nil {
				return err
			}
		}
		err := g.QueryStatus(ctx, checkoutID)
		if err == errStillPending {
			continue
		}
		return err
	}
	return domain.ErrPollTimeout
}

func (g *Gateway) sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
