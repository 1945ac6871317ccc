package interfaces

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/soumydip/minibank/internal/models"
)

// LedgerStore is the append-only log of balance-affecting events plus the
// single mutation primitive the ledger service is allowed to use.
type LedgerStore interface {
	// ApplyDelta atomically adjusts the account balance by entry.Delta()
	// and appends the entry, as one indivisible unit. It fails with
	// models.ErrInsufficientFunds and no effect when the resulting
	// balance would be negative, and with models.ErrAccountNotFound when
	// the account does not exist. Returns the new balance.
	ApplyDelta(ctx context.Context, entry models.LedgerEntry) (decimal.Decimal, error)

	// EntriesByAccount returns the account's entries ordered newest
	// first (CreatedAt descending, ID descending on ties).
	EntriesByAccount(ctx context.Context, accountID string) ([]models.LedgerEntry, error)
}
