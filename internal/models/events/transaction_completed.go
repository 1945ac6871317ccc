package events

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/soumydip/minibank/internal/models"
)

// TransactionCompleted is emitted after a deposit or withdrawal has been
// committed. Consumers must treat it as informational; the ledger store
// remains the source of truth.
type TransactionCompleted struct {
	EntryID    string           `json:"entry_id"`
	AccountID  string           `json:"account_id"`
	Kind       models.EntryKind `json:"kind"`
	Amount     decimal.Decimal  `json:"amount"`
	NewBalance decimal.Decimal  `json:"new_balance"`
	OccurredAt time.Time        `json:"occurred_at"`
}
