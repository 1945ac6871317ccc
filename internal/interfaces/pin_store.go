package interfaces

import (
	"context"

	"github.com/soumydip/minibank/internal/models"
)

// PINStore persists the hashed secondary credential, one per account.
type PINStore interface {
	// SavePIN inserts or replaces the account's PIN record.
	SavePIN(ctx context.Context, pin models.PIN) error

	// PINByAccount returns models.ErrPINNotFound when no PIN is set.
	PINByAccount(ctx context.Context, accountID string) (models.PIN, error)
}
