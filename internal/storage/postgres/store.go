// Package postgres implements the storage interfaces on PostgreSQL via
// database/sql and lib/pq.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/soumydip/minibank/internal/interfaces"
	"github.com/soumydip/minibank/internal/models"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Open connects to the database and verifies the connection.
func Open(ctx context.Context, databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(20)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Migrate creates the schema when it does not exist yet.
func (s *Store) Migrate(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS accounts (
		id            TEXT PRIMARY KEY,
		name          TEXT NOT NULL,
		email         TEXT NOT NULL,
		mobile        TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		balance       NUMERIC NOT NULL DEFAULT 0 CHECK (balance >= 0),
		pin_ref       TEXT NOT NULL DEFAULT '',
		created_at    TIMESTAMPTZ NOT NULL,
		CONSTRAINT accounts_email_key  UNIQUE (email),
		CONSTRAINT accounts_mobile_key UNIQUE (mobile)
	);
	CREATE TABLE IF NOT EXISTS ledger_entries (
		id         TEXT PRIMARY KEY,
		account_id TEXT NOT NULL REFERENCES accounts(id),
		kind       TEXT NOT NULL CHECK (kind IN ('Deposit', 'Withdraw')),
		amount     NUMERIC NOT NULL CHECK (amount > 0),
		created_at TIMESTAMPTZ NOT NULL
	);
	CREATE INDEX IF NOT EXISTS ledger_entries_account_idx
		ON ledger_entries (account_id, created_at DESC, id DESC);
	CREATE TABLE IF NOT EXISTS pins (
		id         TEXT NOT NULL,
		account_id TEXT PRIMARY KEY REFERENCES accounts(id),
		hash       TEXT NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	);`

	_, err := s.db.ExecContext(ctx, schema)
	return err
}

func (s *Store) CreateAccount(ctx context.Context, acct models.Account) error {
	const query = `INSERT INTO accounts (id, name, email, mobile, password_hash, balance, pin_ref, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := s.db.ExecContext(ctx, query,
		acct.ID, acct.Name, acct.Email, acct.Mobile, acct.PasswordHash, acct.Balance, acct.PINRef, acct.CreatedAt)
	return mapUniqueViolation(err)
}

// mapUniqueViolation translates a pq unique_violation into the matching
// domain error so handlers can report which field collided.
func mapUniqueViolation(err error) error {
	pqErr, ok := err.(*pq.Error)
	if !ok || pqErr.Code != "23505" {
		return err
	}
	switch pqErr.Constraint {
	case "accounts_email_key":
		return models.ErrEmailTaken
	case "accounts_mobile_key":
		return models.ErrMobileTaken
	}
	return err
}

func (s *Store) AccountByID(ctx context.Context, id string) (models.Account, error) {
	return s.accountWhere(ctx, "id", id)
}

func (s *Store) AccountByEmail(ctx context.Context, email string) (models.Account, error) {
	return s.accountWhere(ctx, "email", email)
}

func (s *Store) AccountByMobile(ctx context.Context, mobile string) (models.Account, error) {
	return s.accountWhere(ctx, "mobile", mobile)
}

func (s *Store) accountWhere(ctx context.Context, column, value string) (models.Account, error) {
	query := fmt.Sprintf(`SELECT id, name, email, mobile, password_hash, balance, pin_ref, created_at
	FROM accounts WHERE %s = $1`, column)

	var acct models.Account
	err := s.db.QueryRowContext(ctx, query, value).Scan(
		&acct.ID, &acct.Name, &acct.Email, &acct.Mobile, &acct.PasswordHash,
		&acct.Balance, &acct.PINRef, &acct.CreatedAt)
	if err == sql.ErrNoRows {
		return models.Account{}, models.ErrAccountNotFound
	}
	if err != nil {
		return models.Account{}, err
	}
	return acct, nil
}

func (s *Store) LinkPIN(ctx context.Context, accountID, pinID string) error {
	const query = `UPDATE accounts SET pin_ref = $1 WHERE id = $2`

	res, err := s.db.ExecContext(ctx, query, pinID, accountID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return models.ErrAccountNotFound
	}
	return nil
}

// ApplyDelta runs the conditional balance update and the entry insert in
// one database transaction. The UPDATE both checks the sufficiency
// precondition and applies the mutation in a single statement, so two
// concurrent withdrawals can never both pass the check against a stale
// balance.
func (s *Store) ApplyDelta(ctx context.Context, entry models.LedgerEntry) (decimal.Decimal, error) {
	const updateQuery = `UPDATE accounts SET balance = balance + $1
	WHERE id = $2 AND balance + $1 >= 0
	RETURNING balance`
	const insertQuery = `INSERT INTO ledger_entries (id, account_id, kind, amount, created_at)
	VALUES ($1, $2, $3, $4, $5)`

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return decimal.Zero, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	var balance decimal.Decimal
	err = tx.QueryRowContext(ctx, updateQuery, entry.Delta(), entry.AccountID).Scan(&balance)
	if err == sql.ErrNoRows {
		// The guard rejected the row. Tell an unknown account apart
		// from an overdraw.
		var exists bool
		err = tx.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM accounts WHERE id = $1)`, entry.AccountID).Scan(&exists)
		if err != nil {
			return decimal.Zero, err
		}
		if !exists {
			err = models.ErrAccountNotFound
		} else {
			err = models.ErrInsufficientFunds
		}
		return decimal.Zero, err
	}
	if err != nil {
		return decimal.Zero, err
	}

	if _, err = tx.ExecContext(ctx, insertQuery,
		entry.ID, entry.AccountID, entry.Kind, entry.Amount, entry.CreatedAt); err != nil {
		return decimal.Zero, err
	}

	if err = tx.Commit(); err != nil {
		return decimal.Zero, err
	}
	return balance, nil
}

func (s *Store) EntriesByAccount(ctx context.Context, accountID string) ([]models.LedgerEntry, error) {
	const query = `SELECT id, account_id, kind, amount, created_at FROM ledger_entries
	WHERE account_id = $1
	ORDER BY created_at DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.LedgerEntry
	for rows.Next() {
		var entry models.LedgerEntry
		if err := rows.Scan(&entry.ID, &entry.AccountID, &entry.Kind, &entry.Amount, &entry.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *Store) SavePIN(ctx context.Context, pin models.PIN) error {
	const query = `INSERT INTO pins (id, account_id, hash, updated_at)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (account_id) DO UPDATE SET hash = EXCLUDED.hash, updated_at = EXCLUDED.updated_at`

	_, err := s.db.ExecContext(ctx, query, pin.ID, pin.AccountID, pin.Hash, pin.UpdatedAt)
	return err
}

func (s *Store) PINByAccount(ctx context.Context, accountID string) (models.PIN, error) {
	const query = `SELECT id, account_id, hash, updated_at FROM pins WHERE account_id = $1`

	var pin models.PIN
	err := s.db.QueryRowContext(ctx, query, accountID).Scan(&pin.ID, &pin.AccountID, &pin.Hash, &pin.UpdatedAt)
	if err == sql.ErrNoRows {
		return models.PIN{}, models.ErrPINNotFound
	}
	if err != nil {
		return models.PIN{}, err
	}
	return pin, nil
}

var (
	_ interfaces.AccountStore = (*Store)(nil)
	_ interfaces.LedgerStore  = (*Store)(nil)
	_ interfaces.PINStore     = (*Store)(nil)
)
