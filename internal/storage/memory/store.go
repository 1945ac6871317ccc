// Package memory is an in-memory implementation of the storage
// interfaces. It backs tests and local runs without a database; one mutex
// makes every store operation atomic, which is what gives ApplyDelta its
// check-and-mutate guarantee here.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/soumydip/minibank/internal/interfaces"
	"github.com/soumydip/minibank/internal/models"
)

type Store struct {
	mu       sync.Mutex
	accounts map[string]models.Account // keyed by account ID
	entries  []models.LedgerEntry      // append-only
	pins     map[string]models.PIN     // keyed by account ID
}

func NewStore() *Store {
	return &Store{
		accounts: make(map[string]models.Account),
		pins:     make(map[string]models.PIN),
	}
}

func (s *Store) CreateAccount(ctx context.Context, acct models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.accounts[acct.ID] = acct
	return nil
}

func (s *Store) AccountByID(ctx context.Context, id string) (models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acct, ok := s.accounts[id]
	if !ok {
		return models.Account{}, models.ErrAccountNotFound
	}
	return acct, nil
}

func (s *Store) AccountByEmail(ctx context.Context, email string) (models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, acct := range s.accounts {
		if acct.Email == email {
			return acct, nil
		}
	}
	return models.Account{}, models.ErrAccountNotFound
}

func (s *Store) AccountByMobile(ctx context.Context, mobile string) (models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, acct := range s.accounts {
		if acct.Mobile == mobile {
			return acct, nil
		}
	}
	return models.Account{}, models.ErrAccountNotFound
}

func (s *Store) LinkPIN(ctx context.Context, accountID, pinID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	acct, ok := s.accounts[accountID]
	if !ok {
		return models.ErrAccountNotFound
	}
	acct.PINRef = pinID
	s.accounts[accountID] = acct
	return nil
}

// ApplyDelta mutates the balance and appends the entry under one lock, so
// no caller can observe the balance changed without its entry or vice
// versa. A withdrawal that would drive the balance negative leaves both
// untouched.
func (s *Store) ApplyDelta(ctx context.Context, entry models.LedgerEntry) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acct, ok := s.accounts[entry.AccountID]
	if !ok {
		return decimal.Zero, models.ErrAccountNotFound
	}

	next := acct.Balance.Add(entry.Delta())
	if next.IsNegative() {
		return decimal.Zero, models.ErrInsufficientFunds
	}

	acct.Balance = next
	s.accounts[entry.AccountID] = acct
	s.entries = append(s.entries, entry)
	return next, nil
}

func (s *Store) EntriesByAccount(ctx context.Context, accountID string) ([]models.LedgerEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []models.LedgerEntry
	for _, e := range s.entries {
		if e.AccountID == accountID {
			result = append(result, e)
		}
	}

	// Newest first, entry ID breaks CreatedAt ties.
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID > result[j].ID
	})
	return result, nil
}

func (s *Store) SavePIN(ctx context.Context, pin models.PIN) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pins[pin.AccountID] = pin
	return nil
}

func (s *Store) PINByAccount(ctx context.Context, accountID string) (models.PIN, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pin, ok := s.pins[accountID]
	if !ok {
		return models.PIN{}, models.ErrPINNotFound
	}
	return pin, nil
}

// Compile-time checks: Store implements every storage interface.
var (
	_ interfaces.AccountStore = (*Store)(nil)
	_ interfaces.LedgerStore  = (*Store)(nil)
	_ interfaces.PINStore     = (*Store)(nil)
)
