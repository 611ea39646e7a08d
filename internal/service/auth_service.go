package service

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"wcmap/api/internal/ids"
	"wcmap/api/internal/models"
	"wcmap/api/internal/repository"
	"wcmap/api/internal/security"
)

const credentialMaxLen = 120

type AccountStore interface {
	Create(ctx context.Context, account models.Account) error
	FindByEmail(ctx context.Context, email string) (models.Account, error)
}

type SessionStore interface {
	Create(ctx context.Context, session models.Session) error
	FindAccountByToken(ctx context.Context, token string) (models.Account, models.Session, error)
	Delete(ctx context.Context, token string) error
}

// AuthService is the session authority: it registers accounts, exchanges
// credentials for opaque bearer tokens, and resolves tokens back to an
// identity with a privilege tier.
type AuthService struct {
	accounts        AccountStore
	sessions        SessionStore
	superAdminEmail string
	sessionTTL      time.Duration
	log             zerolog.Logger
}

func NewAuthService(accounts AccountStore, sessions SessionStore, superAdminEmail string, sessionTTL time.Duration, log zerolog.Logger) *AuthService {
	return &AuthService{
		accounts:        accounts,
		sessions:        sessions,
		superAdminEmail: strings.TrimSpace(strings.ToLower(superAdminEmail)),
		sessionTTL:      sessionTTL,
		log:             log,
	}
}

func (s *AuthService) Register(ctx context.Context, email, password string) (models.Account, error) {
	if err := validateCredential(email, "Email is required."); err != nil {
		return models.Account{}, err
	}
	if err := validateCredential(password, "Password is required."); err != nil {
		return models.Account{}, err
	}

	passwordHash, err := security.HashPassword(password)
	if err != nil {
		return models.Account{}, err
	}

	account := models.Account{
		ID:           ids.New(),
		Email:        normalizeEmail(email),
		PasswordHash: passwordHash,
	}

	if err := s.accounts.Create(ctx, account); err != nil {
		return models.Account{}, err
	}
	return account, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, models.Identity, error) {
	if err := validateCredential(email, "Email is required."); err != nil {
		return "", models.Identity{}, err
	}
	if err := validateCredential(password, "Password is required."); err != nil {
		return "", models.Identity{}, err
	}

	account, err := s.accounts.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return "", models.Identity{}, ErrInvalidCredentials
		}
		return "", models.Identity{}, err
	}

	if !security.VerifyPassword(password, account.PasswordHash) {
		return "", models.Identity{}, ErrInvalidCredentials
	}

	token, err := security.NewSessionToken()
	if err != nil {
		return "", models.Identity{}, err
	}

	if err := s.sessions.Create(ctx, models.Session{Token: token, AccountID: account.ID}); err != nil {
		return "", models.Identity{}, err
	}

	return token, s.identityFor(account), nil
}

// Resolve maps a bearer token to an identity. A missing or invalid token
// is not an error: the caller is simply anonymous.
func (s *AuthService) Resolve(ctx context.Context, token string) (models.Identity, bool, error) {
	if token == "" {
		return models.Identity{}, false, nil
	}

	account, session, err := s.sessions.FindAccountByToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return models.Identity{}, false, nil
		}
		return models.Identity{}, false, err
	}

	if s.sessionTTL > 0 && time.Since(session.CreatedAt) > s.sessionTTL {
		if err := s.sessions.Delete(ctx, token); err != nil {
			s.log.Warn().Err(err).Msg("drop expired session failed")
		}
		return models.Identity{}, false, nil
	}

	return s.identityFor(account), true, nil
}

// Logout is idempotent; revoking an already absent token succeeds.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, token)
}

func (s *AuthService) identityFor(account models.Account) models.Identity {
	privilege := models.PrivilegeMember
	if account.IsAdmin {
		privilege = models.PrivilegeAdmin
		if s.superAdminEmail != "" && account.Email == s.superAdminEmail {
			privilege = models.PrivilegeSuperAdmin
		}
	}
	return models.Identity{Account: account, Privilege: privilege}
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}

func validateCredential(value, requiredMessage string) error {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" || utf8.RuneCountInString(trimmed) > credentialMaxLen {
		return validationError(requiredMessage)
	}
	return nil
}
