package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryKind labels a ledger entry as one of the two balance-affecting
// operations.
type EntryKind string

const (
	KindDeposit  EntryKind = "Deposit"
	KindWithdraw EntryKind = "Withdraw"
)

// Valid reports whether k is one of the known kinds.
func (k EntryKind) Valid() bool {
	return k == KindDeposit || k == KindWithdraw
}

// LedgerEntry is a single immutable ledger record for an account.
// Amount is always positive; the kind carries the sign. Entries are
// append-only: once written they are never mutated or deleted.
type LedgerEntry struct {
	ID        string          // unique identifier
	AccountID string          // which account this entry belongs to
	Kind      EntryKind       // Deposit or Withdraw
	Amount    decimal.Decimal // always > 0
	CreatedAt time.Time       // timestamp
}

// Delta returns the signed balance effect of the entry.
func (e LedgerEntry) Delta() decimal.Decimal {
	if e.Kind == KindWithdraw {
		return e.Amount.Neg()
	}
	return e.Amount
}
