// Ledger store operations. Reads are lenient by contract: a missing row
// comes back as the zero value, never as an error (domain.LedgerStore).
package sqlite

import (
	"database/sql"
	"time"

	"github.com/remotask-app/remotask/internal/domain"
)

const balanceKey = "balance"

// ─── Balance ────────────────────────────────────────────────────────────────

// Balance returns the user's withdrawable earnings.
func (db *DB) Balance() (float64, error) {
	return db.Float(balanceKey)
}

// SetBalance stores the balance.
func (db *DB) SetBalance(v float64) error {
	return db.SetFloat(balanceKey, v)
}

// ─── Monetary Scalars ───────────────────────────────────────────────────────

// Float returns a monetary scalar, 0 when absent.
func (db *DB) Float(name string) (float64, error) {
	var v float64
	err := db.db.QueryRow(`SELECT value FROM monetary WHERE name = ?`, name).Scan(&v)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	return v, err
}

// SetFloat upserts a monetary scalar.
func (db *DB) SetFloat(name string, v float64) error {
	_, err := db.db.Exec(`
		INSERT INTO monetary (name, value) VALUES (?, ?)
		ON CONFLICT(name) DO UPDATE SET value = excluded.value
	`, name, v)
	return err
}

// ─── Counters ───────────────────────────────────────────────────────────────

// Counter returns an integer counter, 0 when absent.
func (db *DB) Counter(name string) (int64, error) {
	var v int64
	err := db.db.QueryRow(`SELECT value FROM counters WHERE name = ?`, name).Scan(&v)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	return v, err
}

// SetCounter upserts an integer counter.
func (db *DB) SetCounter(name string, v int64) error {
	_, err := db.db.Exec(`
		INSERT INTO counters (name, value) VALUES (?, ?)
		ON CONFLICT(name) DO UPDATE SET value = excluded.value
	`, name, v)
	return err
}

// ─── Flags ──────────────────────────────────────────────────────────────────

// HasFlag reports whether a presence flag is set.
func (db *DB) HasFlag(name string) (bool, error) {
	var count int
	err := db.db.QueryRow(`SELECT COUNT(*) FROM flags WHERE name = ?`, name).Scan(&count)
	return count > 0, err
}

// SetFlag sets a presence flag. Setting an already-set flag is a no-op.
func (db *DB) SetFlag(name string) error {
	_, err := db.db.Exec(`INSERT OR IGNORE INTO flags (name) VALUES (?)`, name)
	return err
}

// ClearFlag removes a presence flag. Clearing an absent flag is a no-op.
func (db *DB) ClearFlag(name string) error {
	_, err := db.db.Exec(`DELETE FROM flags WHERE name = ?`, name)
	return err
}

// ─── Transactions ───────────────────────────────────────────────────────────

// Transactions returns all withdrawal transactions in append order.
// Missing fields default at the schema level (status Pending, amount 0,
// placeholder date), so every returned record is complete.
func (db *DB) Transactions() ([]domain.Transaction, error) {
	rows, err := db.db.Query(`
		SELECT id, date, amount, status, method, account
		FROM transactions ORDER BY pos
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txs []domain.Transaction
	for rows.Next() {
		var tx domain.Transaction
		var status string
		if err := rows.Scan(&tx.ID, &tx.Date, &tx.Amount, &status, &tx.Method, &tx.Account); err != nil {
			return nil, err
		}
		tx.Status = domain.TxStatus(status)
		if tx.Status == "" {
			tx.Status = domain.TxPending
		}
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}

// AppendTransaction adds a withdrawal transaction to the ledger.
func (db *DB) AppendTransaction(tx domain.Transaction) error {
	date := tx.Date
	if date == "" {
		date = domain.PlaceholderDate
	}
	status := tx.Status
	if status == "" {
		status = domain.TxPending
	}
	_, err := db.db.Exec(`
		INSERT INTO transactions (id, date, amount, status, method, account)
		VALUES (?, ?, ?, ?, ?, ?)
	`, tx.ID, date, tx.Amount, string(status), tx.Method, tx.Account)
	return err
}

// SetTransactionStatus records a transaction's status transition.
func (db *DB) SetTransactionStatus(id string, status domain.TxStatus) error {
	res, err := db.db.Exec(`UPDATE transactions SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrTransactionNotFound
	}
	return nil
}

// ─── Pending Effects ────────────────────────────────────────────────────────

// PendingEffect returns the envelope for a kind, with a found flag.
func (db *DB) PendingEffect(kind domain.EffectKind) (domain.PendingEffect, bool, error) {
	var amount float64
	var deadlineMs int64
	err := db.db.QueryRow(`
		SELECT amount, deadline_ms FROM pending_effects WHERE kind = ?
	`, string(kind)).Scan(&amount, &deadlineMs)
	if err == sql.ErrNoRows {
		return domain.PendingEffect{}, false, nil
	}
	if err != nil {
		return domain.PendingEffect{}, false, err
	}
	return domain.PendingEffect{
		Kind:     kind,
		Amount:   amount,
		Deadline: time.UnixMilli(deadlineMs),
	}, true, nil
}

// PutPendingEffect upserts the envelope for its kind.
func (db *DB) PutPendingEffect(e domain.PendingEffect) error {
	_, err := db.db.Exec(`
		INSERT INTO pending_effects (kind, amount, deadline_ms)
		VALUES (?, ?, ?)
		ON CONFLICT(kind) DO UPDATE SET
			amount      = excluded.amount,
			deadline_ms = excluded.deadline_ms
	`, string(e.Kind), e.Amount, e.Deadline.UnixMilli())
	return err
}

// DeletePendingEffect removes the envelope for a kind; absent is a no-op.
func (db *DB) DeletePendingEffect(kind domain.EffectKind) error {
	_, err := db.db.Exec(`DELETE FROM pending_effects WHERE kind = ?`, string(kind))
	return err
}

// ─── Referral Code ──────────────────────────────────────────────────────────

// ReferralCode returns the persisted code, or "" if none yet.
func (db *DB) ReferralCode() (string, error) {
	var code string
	err := db.db.QueryRow(`SELECT value FROM profile WHERE name = 'referral_code'`).Scan(&code)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return code, err
}

// SetReferralCode persists the code once; later writes are ignored so
// the code stays immutable.
func (db *DB) SetReferralCode(code string) error {
	_, err := db.db.Exec(`
		INSERT OR IGNORE INTO profile (name, value) VALUES ('referral_code', ?)
	`, code)
	return err
}
