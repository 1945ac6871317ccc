package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/soumydip/minibank/internal/models"
)

// CreatePIN sets the account's PIN for the first time. An account that
// already has one must go through UpdatePIN or ResetPIN instead.
func (s *Service) CreatePIN(ctx context.Context, accountID, pin string) error {
	acct, err := s.accounts.AccountByID(ctx, accountID)
	if err != nil {
		return err
	}
	if acct.HasPIN() {
		return models.ErrPINExists
	}
	return s.storePIN(ctx, accountID, pin)
}

// VerifyPIN compares the supplied PIN against the stored hash.
func (s *Service) VerifyPIN(ctx context.Context, accountID, pin string) error {
	rec, err := s.pins.PINByAccount(ctx, accountID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(rec.Hash), []byte(pin)) != nil {
		return models.ErrPINMismatch
	}
	return nil
}

// UpdatePIN replaces the PIN after the old one verifies.
func (s *Service) UpdatePIN(ctx context.Context, accountID, oldPIN, newPIN string) error {
	if err := s.VerifyPIN(ctx, accountID, oldPIN); err != nil {
		return err
	}
	return s.storePIN(ctx, accountID, newPIN)
}

// ResetPIN replaces or creates the PIN after the caller proves knowledge
// of the account's email address.
func (s *Service) ResetPIN(ctx context.Context, accountID, email, newPIN string) error {
	acct, err := s.accounts.AccountByID(ctx, accountID)
	if err != nil {
		return err
	}
	if acct.Email != email {
		return models.ErrEmailNoMatch
	}
	return s.storePIN(ctx, accountID, newPIN)
}

func (s *Service) storePIN(ctx context.Context, accountID, pin string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	rec := models.PIN{
		ID:        uuid.New().String(),
		AccountID: accountID,
		Hash:      string(hash),
		UpdatedAt: time.Now().UTC(),
	}
	if err := s.pins.SavePIN(ctx, rec); err != nil {
		return err
	}

	// Keep the account's reference current; an existing link is simply
	// overwritten on update/reset.
	return s.accounts.LinkPIN(ctx, accountID, rec.ID)
}
