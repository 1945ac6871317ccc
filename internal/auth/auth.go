// Package auth resolves caller credentials to account identities. It
// issues and verifies bearer tokens and manages the optional PIN
// credential. Passwords and PINs are bcrypt-hashed at rest and never
// logged or returned.
package auth

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/soumydip/minibank/internal/interfaces"
	"github.com/soumydip/minibank/internal/models"
)

const tokenTTL = 30 * 24 * time.Hour

var (
	emailRe  = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	mobileRe = regexp.MustCompile(`^[0-9]{10,15}$`)
)

// ValidationError reports which registration field was rejected.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Service is the auth gate over the account and PIN stores.
type Service struct {
	accounts interfaces.AccountStore
	pins     interfaces.PINStore
	secret   []byte
}

func NewService(accounts interfaces.AccountStore, pins interfaces.PINStore, jwtSecret string) *Service {
	return &Service{
		accounts: accounts,
		pins:     pins,
		secret:   []byte(jwtSecret),
	}
}

// RegisterParams are the raw registration inputs.
type RegisterParams struct {
	Name     string
	Email    string
	Password string
	Mobile   string
}

func (p RegisterParams) validate() error {
	if len(p.Name) < 5 {
		return &ValidationError{Field: "name", Reason: "must be at least 5 characters long"}
	}
	if !emailRe.MatchString(p.Email) {
		return &ValidationError{Field: "email", Reason: "must be a valid email address"}
	}
	if len(p.Password) < 8 {
		return &ValidationError{Field: "password", Reason: "must be at least 8 characters long"}
	}
	if !mobileRe.MatchString(p.Mobile) {
		return &ValidationError{Field: "mobile", Reason: "must be 10 to 15 digits"}
	}
	return nil
}

// Register creates an account with a zero balance and returns it with a
// signed token. Email and mobile must be unused.
func (s *Service) Register(ctx context.Context, p RegisterParams) (models.Account, string, error) {
	if err := p.validate(); err != nil {
		return models.Account{}, "", err
	}

	if _, err := s.accounts.AccountByEmail(ctx, p.Email); err == nil {
		return models.Account{}, "", models.ErrEmailTaken
	} else if !errors.Is(err, models.ErrAccountNotFound) {
		return models.Account{}, "", err
	}
	if _, err := s.accounts.AccountByMobile(ctx, p.Mobile); err == nil {
		return models.Account{}, "", models.ErrMobileTaken
	} else if !errors.Is(err, models.ErrAccountNotFound) {
		return models.Account{}, "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(p.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.Account{}, "", err
	}

	acct := models.Account{
		ID:           uuid.New().String(),
		Name:         p.Name,
		Email:        p.Email,
		Mobile:       p.Mobile,
		PasswordHash: string(hash),
		Balance:      decimal.Zero,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.accounts.CreateAccount(ctx, acct); err != nil {
		return models.Account{}, "", err
	}

	token, err := s.issueToken(acct)
	if err != nil {
		return models.Account{}, "", err
	}
	return acct, token, nil
}

// Login verifies the password and returns a fresh token. Unknown email
// and wrong password are reported identically.
func (s *Service) Login(ctx context.Context, email, password string) (models.Account, string, error) {
	acct, err := s.accounts.AccountByEmail(ctx, email)
	if errors.Is(err, models.ErrAccountNotFound) {
		return models.Account{}, "", models.ErrInvalidCredentials
	}
	if err != nil {
		return models.Account{}, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(password)); err != nil {
		return models.Account{}, "", models.ErrInvalidCredentials
	}

	token, err := s.issueToken(acct)
	if err != nil {
		return models.Account{}, "", err
	}
	return acct, token, nil
}

// Authenticate resolves a bearer token to its account.
func (s *Service) Authenticate(ctx context.Context, token string) (models.Account, error) {
	if token == "" {
		return models.Account{}, models.ErrUnauthorized
	}

	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return models.Account{}, models.ErrUnauthorized
	}

	return s.accounts.AccountByID(ctx, claims.Subject)
}

func (s *Service) issueToken(acct models.Account) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   acct.ID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}
