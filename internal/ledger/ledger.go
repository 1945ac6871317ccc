// Package ledger is the only path permitted to change an account's
// balance. Every successful mutation produces exactly one ledger entry,
// and the balance never goes negative at any committed state.
package ledger

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/soumydip/minibank/internal/interfaces"
	"github.com/soumydip/minibank/internal/models"
	"github.com/soumydip/minibank/internal/models/events"
)

// Receipt is the result of a successful deposit or withdrawal.
type Receipt struct {
	EntryID    string
	Kind       models.EntryKind
	Amount     decimal.Decimal
	NewBalance decimal.Decimal
	Timestamp  time.Time
}

// Ledger validates and applies balance operations against the stores.
type Ledger struct {
	accounts  interfaces.AccountStore
	store     interfaces.LedgerStore
	publisher interfaces.EventPublisher // nil disables event publishing
	logger    *zap.Logger

	muMap map[string]*sync.Mutex // per-account locks
	mapMu sync.Mutex             // protects muMap itself
}

func New(accounts interfaces.AccountStore, store interfaces.LedgerStore, publisher interfaces.EventPublisher, logger *zap.Logger) *Ledger {
	return &Ledger{
		accounts:  accounts,
		store:     store,
		publisher: publisher,
		logger:    logger,
		muMap:     make(map[string]*sync.Mutex),
	}
}

func (l *Ledger) accountLock(accountID string) *sync.Mutex {
	l.mapMu.Lock()
	defer l.mapMu.Unlock()

	if _, exists := l.muMap[accountID]; !exists {
		l.muMap[accountID] = &sync.Mutex{}
	}
	return l.muMap[accountID]
}

// Deposit increments the account balance and records a Deposit entry.
func (l *Ledger) Deposit(ctx context.Context, accountID string, amount decimal.Decimal) (Receipt, error) {
	return l.apply(ctx, accountID, models.KindDeposit, amount)
}

// Withdraw decrements the account balance and records a Withdraw entry.
// When the balance is smaller than amount it fails with
// models.ErrInsufficientFunds and nothing is written.
func (l *Ledger) Withdraw(ctx context.Context, accountID string, amount decimal.Decimal) (Receipt, error) {
	return l.apply(ctx, accountID, models.KindWithdraw, amount)
}

// apply serializes the mutation per account on top of the store's own
// atomic conditional update. Validation happens before any write is
// attempted, so a rejected call has no partial effect.
func (l *Ledger) apply(ctx context.Context, accountID string, kind models.EntryKind, amount decimal.Decimal) (Receipt, error) {
	if accountID == "" {
		return Receipt{}, models.ErrAccountNotFound
	}
	if amount.Cmp(decimal.Zero) <= 0 {
		return Receipt{}, models.ErrInvalidAmount
	}

	mu := l.accountLock(accountID)
	mu.Lock()
	defer mu.Unlock()

	entry := models.LedgerEntry{
		ID:        uuid.New().String(),
		AccountID: accountID,
		Kind:      kind,
		Amount:    amount,
		CreatedAt: time.Now().UTC(),
	}

	balance, err := l.store.ApplyDelta(ctx, entry)
	if err != nil {
		return Receipt{}, err
	}

	l.publish(ctx, entry, balance)

	return Receipt{
		EntryID:    entry.ID,
		Kind:       kind,
		Amount:     amount,
		NewBalance: balance,
		Timestamp:  entry.CreatedAt,
	}, nil
}

// publish emits the committed event. The mutation has already committed,
// so a broker failure is logged and swallowed rather than reported as an
// operation failure.
func (l *Ledger) publish(ctx context.Context, entry models.LedgerEntry, balance decimal.Decimal) {
	if l.publisher == nil {
		return
	}
	event := events.TransactionCompleted{
		EntryID:    entry.ID,
		AccountID:  entry.AccountID,
		Kind:       entry.Kind,
		Amount:     entry.Amount,
		NewBalance: balance,
		OccurredAt: entry.CreatedAt,
	}
	if err := l.publisher.Publish(ctx, event); err != nil {
		l.logger.Warn("publish transaction event failed",
			zap.String("entry_id", entry.ID),
			zap.Error(err))
	}
}

// GetBalance returns the account's current balance.
func (l *Ledger) GetBalance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	acct, err := l.accounts.AccountByID(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}
	return acct.Balance, nil
}

// GetHistory returns the account's entries newest first. An account with
// zero transactions is reported as models.ErrNoHistory rather than an
// empty success.
func (l *Ledger) GetHistory(ctx context.Context, accountID string) ([]models.LedgerEntry, error) {
	if _, err := l.accounts.AccountByID(ctx, accountID); err != nil {
		return nil, err
	}
	entries, err := l.store.EntriesByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, models.ErrNoHistory
	}
	return entries, nil
}
