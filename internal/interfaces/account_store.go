package interfaces

import (
	"context"

	"github.com/soumydip/minibank/internal/models"
)

// AccountStore holds account identities and balances. Balance mutation is
// deliberately absent here; it only happens through LedgerStore.ApplyDelta.
type AccountStore interface {
	CreateAccount(ctx context.Context, acct models.Account) error
	AccountByID(ctx context.Context, id string) (models.Account, error)
	AccountByEmail(ctx context.Context, email string) (models.Account, error)
	AccountByMobile(ctx context.Context, mobile string) (models.Account, error)

	// LinkPIN records the account's PIN reference.
	LinkPIN(ctx context.Context, accountID, pinID string) error
}
