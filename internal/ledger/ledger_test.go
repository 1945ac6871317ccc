package ledger_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/soumydip/minibank/internal/ledger"
	"github.com/soumydip/minibank/internal/models"
	"github.com/soumydip/minibank/internal/storage/memory"
)

// capturePublisher records published events; failing simulates a broker
// outage.
type capturePublisher struct {
	mu      sync.Mutex
	events  []any
	failing bool
}

func (p *capturePublisher) Publish(ctx context.Context, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failing {
		return errors.New("broker unavailable")
	}
	p.events = append(p.events, event)
	return nil
}

func newTestLedger(t *testing.T, balance int64) (*ledger.Ledger, *memory.Store, string) {
	t.Helper()
	store := memory.NewStore()
	acct := models.Account{
		ID:        "acct-1",
		Name:      "Test User",
		Balance:   decimal.NewFromInt(balance),
		CreatedAt: time.Now().UTC(),
	}
	if err := store.CreateAccount(context.Background(), acct); err != nil {
		t.Fatalf("seed account: %v", err)
	}
	return ledger.New(store, store, nil, zap.NewNop()), store, acct.ID
}

func TestDeposit(t *testing.T) {
	svc, store, id := newTestLedger(t, 0)
	ctx := context.Background()

	rcpt, err := svc.Deposit(ctx, id, decimal.NewFromInt(25))
	if err != nil {
		t.Fatalf("Deposit: %v", err)
	}
	if !rcpt.NewBalance.Equal(decimal.NewFromInt(25)) {
		t.Errorf("new balance = %s, want 25", rcpt.NewBalance)
	}
	if rcpt.Kind != models.KindDeposit {
		t.Errorf("kind = %q, want Deposit", rcpt.Kind)
	}
	if rcpt.EntryID == "" {
		t.Error("receipt has no entry id")
	}

	entries, err := store.EntriesByAccount(ctx, id)
	if err != nil {
		t.Fatalf("EntriesByAccount: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want exactly 1", len(entries))
	}
	if !entries[0].Amount.Equal(decimal.NewFromInt(25)) || entries[0].Kind != models.KindDeposit {
		t.Errorf("entry = %s %s, want Deposit 25", entries[0].Kind, entries[0].Amount)
	}
}

func TestDepositRejectsBadInput(t *testing.T) {
	svc, store, id := newTestLedger(t, 100)
	ctx := context.Background()

	cases := []struct {
		name    string
		account string
		amount  decimal.Decimal
		wantErr error
	}{
		{"zero amount", id, decimal.Zero, models.ErrInvalidAmount},
		{"negative amount", id, decimal.NewFromInt(-5), models.ErrInvalidAmount},
		{"unknown account", "nope", decimal.NewFromInt(5), models.ErrAccountNotFound},
		{"empty account", "", decimal.NewFromInt(5), models.ErrAccountNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Deposit(ctx, tc.account, tc.amount); !errors.Is(err, tc.wantErr) {
				t.Errorf("err = %v, want %v", err, tc.wantErr)
			}
		})
	}

	// Rejected calls must leave no trace.
	if entries, _ := store.EntriesByAccount(ctx, id); len(entries) != 0 {
		t.Errorf("rejected deposits wrote %d entries", len(entries))
	}
	if balance, _ := svc.GetBalance(ctx, id); !balance.Equal(decimal.NewFromInt(100)) {
		t.Errorf("balance = %s, want unchanged 100", balance)
	}
}

func TestWithdrawInsufficientFunds(t *testing.T) {
	svc, store, id := newTestLedger(t, 100)
	ctx := context.Background()

	_, err := svc.Withdraw(ctx, id, decimal.NewFromInt(150))
	if !errors.Is(err, models.ErrInsufficientFunds) {
		t.Fatalf("err = %v, want ErrInsufficientFunds", err)
	}

	if balance, _ := svc.GetBalance(ctx, id); !balance.Equal(decimal.NewFromInt(100)) {
		t.Errorf("balance = %s, want 100 after failed withdrawal", balance)
	}
	if entries, _ := store.EntriesByAccount(ctx, id); len(entries) != 0 {
		t.Errorf("failed withdrawal produced %d entries", len(entries))
	}
}

// TestDepositWithdrawSequence walks the canonical scenario: a failed
// overdraw leaves everything alone, then each successful operation moves
// the balance and appends exactly one entry, newest first in history.
func TestDepositWithdrawSequence(t *testing.T) {
	svc, _, id := newTestLedger(t, 100)
	ctx := context.Background()

	if _, err := svc.Withdraw(ctx, id, decimal.NewFromInt(150)); !errors.Is(err, models.ErrInsufficientFunds) {
		t.Fatalf("overdraw err = %v, want ErrInsufficientFunds", err)
	}

	rcpt, err := svc.Withdraw(ctx, id, decimal.NewFromInt(40))
	if err != nil {
		t.Fatalf("Withdraw(40): %v", err)
	}
	if !rcpt.NewBalance.Equal(decimal.NewFromInt(60)) {
		t.Errorf("balance after withdraw = %s, want 60", rcpt.NewBalance)
	}

	rcpt, err = svc.Deposit(ctx, id, decimal.NewFromInt(25))
	if err != nil {
		t.Fatalf("Deposit(25): %v", err)
	}
	if !rcpt.NewBalance.Equal(decimal.NewFromInt(85)) {
		t.Errorf("balance after deposit = %s, want 85", rcpt.NewBalance)
	}

	history, err := svc.GetHistory(ctx, id)
	if err != nil {
		t.Fatalf("GetHistory: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("history has %d entries, want 2", len(history))
	}
	if history[0].Kind != models.KindDeposit || !history[0].Amount.Equal(decimal.NewFromInt(25)) {
		t.Errorf("history[0] = %s %s, want Deposit 25", history[0].Kind, history[0].Amount)
	}
	if history[1].Kind != models.KindWithdraw || !history[1].Amount.Equal(decimal.NewFromInt(40)) {
		t.Errorf("history[1] = %s %s, want Withdraw 40", history[1].Kind, history[1].Amount)
	}
}

func TestGetHistoryEmpty(t *testing.T) {
	svc, _, id := newTestLedger(t, 0)

	if _, err := svc.GetHistory(context.Background(), id); !errors.Is(err, models.ErrNoHistory) {
		t.Errorf("err = %v, want ErrNoHistory", err)
	}
	if _, err := svc.GetHistory(context.Background(), "nope"); !errors.Is(err, models.ErrAccountNotFound) {
		t.Errorf("unknown account err = %v, want ErrAccountNotFound", err)
	}
}

// TestConcurrentWithdrawals races two withdrawals of the full balance;
// exactly one may pass the sufficiency check.
func TestConcurrentWithdrawals(t *testing.T) {
	svc, store, id := newTestLedger(t, 100)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Withdraw(ctx, id, decimal.NewFromInt(100))
		}(i)
	}
	wg.Wait()

	var ok, insufficient int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, models.ErrInsufficientFunds):
			insufficient++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ok != 1 || insufficient != 1 {
		t.Fatalf("got %d successes and %d insufficient-funds, want 1 and 1", ok, insufficient)
	}

	if balance, _ := svc.GetBalance(ctx, id); !balance.IsZero() {
		t.Errorf("final balance = %s, want 0", balance)
	}
	if entries, _ := store.EntriesByAccount(ctx, id); len(entries) != 1 {
		t.Errorf("got %d entries, want 1", len(entries))
	}
}

// TestConcurrentMixedOperations hammers one account and checks the
// committed state stays consistent: balance never negative, entry count
// matches success count.
func TestConcurrentMixedOperations(t *testing.T) {
	svc, store, id := newTestLedger(t, 0)
	ctx := context.Background()

	const workers = 20
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				svc.Deposit(ctx, id, decimal.NewFromInt(10))
			} else {
				svc.Withdraw(ctx, id, decimal.NewFromInt(10))
			}
		}(i)
	}
	wg.Wait()

	balance, err := svc.GetBalance(ctx, id)
	if err != nil {
		t.Fatalf("GetBalance: %v", err)
	}
	if balance.IsNegative() {
		t.Fatalf("balance went negative: %s", balance)
	}

	entries, _ := store.EntriesByAccount(ctx, id)
	sum := decimal.Zero
	for _, e := range entries {
		sum = sum.Add(e.Delta())
	}
	if !sum.Equal(balance) {
		t.Errorf("entry deltas sum to %s but balance is %s", sum, balance)
	}
}

func TestPublishesCompletedEvents(t *testing.T) {
	store := memory.NewStore()
	pub := &capturePublisher{}
	acct := models.Account{ID: "acct-1", Balance: decimal.NewFromInt(50)}
	if err := store.CreateAccount(context.Background(), acct); err != nil {
		t.Fatal(err)
	}
	svc := ledger.New(store, store, pub, zap.NewNop())
	ctx := context.Background()

	if _, err := svc.Deposit(ctx, acct.ID, decimal.NewFromInt(5)); err != nil {
		t.Fatalf("Deposit: %v", err)
	}
	if _, err := svc.Withdraw(ctx, acct.ID, decimal.NewFromInt(200)); err == nil {
		t.Fatal("overdraw unexpectedly succeeded")
	}
	if len(pub.events) != 1 {
		t.Fatalf("published %d events, want 1 (failures must not publish)", len(pub.events))
	}

	// A broker outage must not fail the ledger operation itself.
	pub.failing = true
	if _, err := svc.Deposit(ctx, acct.ID, decimal.NewFromInt(5)); err != nil {
		t.Fatalf("Deposit with failing publisher: %v", err)
	}
}
