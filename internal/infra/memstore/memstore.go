// Package memstore is a volatile in-memory ledger store for tests and
// --memory mode. It deliberately mimics the loose shape of the original
// browser storage — transactions live as four parallel slices — and relies
// on domain.NormalizeTransactions to enforce the record invariant on every
// read, so padding behavior is exercised the same way the durable store's
// schema defaults are.
package memstore

import (
	"sync"

	"github.com/remotask-app/remotask/internal/domain"
)

// Store is an in-memory domain.LedgerStore.
type Store struct {
	mu sync.Mutex

	balance  float64
	counters map[string]int64
	floats   map[string]float64
	flags    map[string]bool
	effects  map[domain.EffectKind]domain.PendingEffect
	code     string

	// Parallel transaction arrays, id list authoritative.
	txIDs      []string
	txDates    []string
	txAmounts  []float64
	txStatuses []domain.TxStatus
	txMethods  map[string]string
	txAccounts map[string]string
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		counters:   make(map[string]int64),
		floats:     make(map[string]float64),
		flags:      make(map[string]bool),
		effects:    make(map[domain.EffectKind]domain.PendingEffect),
		txMethods:  make(map[string]string),
		txAccounts: make(map[string]string),
	}
}

// ─── Balance ────────────────────────────────────────────────────────────────

func (s *Store) Balance() (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.balance, nil
}

func (s *Store) SetBalance(v float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balance = v
	return nil
}

// ─── Scalars ────────────────────────────────────────────────────────────────

func (s *Store) Counter(name string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counters[name], nil
}

func (s *Store) SetCounter(name string, v int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counters[name] = v
	return nil
}

func (s *Store) Float(name string) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.floats[name], nil
}

func (s *Store) SetFloat(name string, v float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.floats[name] = v
	return nil
}

// ─── Flags ──────────────────────────────────────────────────────────────────

func (s *Store) HasFlag(name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flags[name], nil
}

func (s *Store) SetFlag(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flags[name] = true
	return nil
}

func (s *Store) ClearFlag(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.flags, name)
	return nil
}

// ─── Transactions ───────────────────────────────────────────────────────────

func (s *Store) Transactions() ([]domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	txs := domain.NormalizeTransactions(s.txIDs, s.txDates, s.txAmounts, s.txStatuses)
	for i := range txs {
		txs[i].Method = s.txMethods[txs[i].ID]
		txs[i].Account = s.txAccounts[txs[i].ID]
	}
	return txs, nil
}

func (s *Store) AppendTransaction(tx domain.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.txIDs = append(s.txIDs, tx.ID)
	s.txDates = append(s.txDates, tx.Date)
	s.txAmounts = append(s.txAmounts, tx.Amount)
	s.txStatuses = append(s.txStatuses, tx.Status)
	if tx.Method != "" {
		s.txMethods[tx.ID] = tx.Method
	}
	if tx.Account != "" {
		s.txAccounts[tx.ID] = tx.Account
	}
	return nil
}

func (s *Store) SetTransactionStatus(id string, status domain.TxStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, txID := range s.txIDs {
		if txID != id {
			continue
		}
		// Pad the status slice up to this index before writing, the
		// same way the normalizer would.
		for len(s.txStatuses) <= i {
			s.txStatuses = append(s.txStatuses, domain.TxPending)
		}
		s.txStatuses[i] = status
		return nil
	}
	return domain.ErrTransactionNotFound
}

// TruncateStatuses drops trailing statuses, recreating the inconsistent
// parallel-array shape the normalizer must repair. Test hook only.
func (s *Store) TruncateStatuses(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n < len(s.txStatuses) {
		s.txStatuses = s.txStatuses[:n]
	}
}

// ─── Pending Effects ────────────────────────────────────────────────────────

func (s *Store) PendingEffect(kind domain.EffectKind) (domain.PendingEffect, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.effects[kind]
	return e, ok, nil
}

func (s *Store) PutPendingEffect(e domain.PendingEffect) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.effects[e.Kind] = e
	return nil
}

func (s *Store) DeletePendingEffect(kind domain.EffectKind) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.effects, kind)
	return nil
}

// ─── Referral Code ──────────────────────────────────────────────────────────

func (s *Store) ReferralCode() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.code, nil
}

func (s *Store) SetReferralCode(code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.code == "" {
		s.code = code
	}
	return nil
}
