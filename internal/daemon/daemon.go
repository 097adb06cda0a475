package daemon

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/remotask-app/remotask/internal/api"
	"github.com/remotask-app/remotask/internal/app/activation"
	"github.com/remotask-app/remotask/internal/app/core"
	"github.com/remotask-app/remotask/internal/app/pending"
	"github.com/remotask-app/remotask/internal/app/referral"
	"github.com/remotask-app/remotask/internal/app/settlement"
	"github.com/remotask-app/remotask/internal/domain"
	"github.com/remotask-app/remotask/internal/infra/memstore"
	"github.com/remotask-app/remotask/internal/infra/payhero"
	"github.com/remotask-app/remotask/internal/infra/sqlite"
)

// Daemon is the long-running remotask process: the HTTP API plus the
// optional background maturation ticker.
type Daemon struct {
	cfg   Config
	core  *core.Core
	close func() error
}

// BuildCore assembles the core façade from configuration. The returned
// close func releases the underlying store (a no-op for the in-memory
// store).
func BuildCore(cfg Config) (*core.Core, func() error, error) {
	var store domain.LedgerStore
	closeFn := func() error { return nil }

	if cfg.Storage.InMemory {
		store = memstore.New()
	} else {
		db, err := sqlite.Open(cfg.Storage.Dir)
		if err != nil {
			return nil, nil, fmt.Errorf("open ledger store: %w", err)
		}
		store = db
		closeFn = db.Close
	}

	sched := pending.New(store, cfg.ReferralDelay())
	gateway := payhero.New(
		payhero.WithLatency(cfg.GatewayLatency()),
		payhero.WithPollInterval(cfg.GatewayPoll()),
		payhero.WithMaxAttempts(cfg.Payments.MaxAttempts),
	)

	c := core.New(
		store,
		referral.New(store, sched, cfg.Referral.ActivationThreshold),
		settlement.New(store, cfg.Withdrawal.Minimum),
		activation.New(store, gateway),
		domain.ClockFunc(time.Now),
	)
	return c, closeFn, nil
}

// New builds a daemon from configuration.
func New(cfg Config) (*Daemon, error) {
	c, closeFn, err := BuildCore(cfg)
	if err != nil {
		return nil, err
	}
	return &Daemon{cfg: cfg, core: c, close: closeFn}, nil
}

// Run serves the API until ctx is cancelled, then shuts down cleanly.
func (d *Daemon) Run(ctx context.Context) error {
	defer d.close()

	srv := api.NewServer(d.core)
	if d.cfg.API.EnableMetrics {
		srv.EnableMetrics()
	}

	httpSrv := &http.Server{
		Addr:    d.cfg.Addr(),
		Handler: srv.Handler(),
	}

	// Catch-up pass before serving: a pay day or maturation deadline may
	// have passed while the daemon was down.
	if err := d.core.Sync(); err != nil {
		log.Printf("startup sync: %v", err)
	}

	if poll := d.cfg.MaturationPoll(); poll > 0 {
		go d.pollLoop(ctx, poll)
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("remotask listening on %s", d.cfg.Addr())
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// pollLoop runs the lazy sync on a timer, mirroring the referral
// screen's polling. Maturation stays correct without it — the loop just
// makes effects land promptly while nobody is looking.
func (d *Daemon) pollLoop(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := d.core.Sync(); err != nil {
				log.Printf("maturation poll: %v", err)
			}
		}
	}
}
