package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account holds a user's identity and current balance.
// Balance is never negative at any committed state; the only path
// allowed to change it is the ledger service.
type Account struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Email        string          `json:"email"`
	Mobile       string          `json:"mobile"`
	PasswordHash string          `json:"-"`
	Balance      decimal.Decimal `json:"balance"`
	PINRef       string          `json:"-"` // empty when no PIN is set
	CreatedAt    time.Time       `json:"created_at"`
}

// HasPIN reports whether a secondary PIN credential is linked.
func (a Account) HasPIN() bool {
	return a.PINRef != ""
}
