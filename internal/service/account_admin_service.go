package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"wcmap/api/internal/models"
	"wcmap/api/internal/security"
)

type AccountAdminStore interface {
	List(ctx context.Context) ([]models.Account, error)
	GetByID(ctx context.Context, id string) (models.Account, error)
	UpdatePasswordHash(ctx context.Context, id string, passwordHash string) error
	UpdateRole(ctx context.Context, id string, isAdmin bool) error
	DeleteCascade(ctx context.Context, id string) error
}

// AccountAdminService covers account moderation. Ordinary admins reset
// passwords and delete member accounts; only the configured super-admin
// manages admin membership or removes other admins.
type AccountAdminService struct {
	accounts AccountAdminStore
	log      zerolog.Logger
}

func NewAccountAdminService(accounts AccountAdminStore, log zerolog.Logger) *AccountAdminService {
	return &AccountAdminService{
		accounts: accounts,
		log:      log,
	}
}

func (s *AccountAdminService) List(ctx context.Context) ([]models.Account, error) {
	return s.accounts.List(ctx)
}

func (s *AccountAdminService) ResetPassword(ctx context.Context, accountID string, newPassword string) error {
	if strings.TrimSpace(newPassword) == "" || utf8.RuneCountInString(newPassword) > credentialMaxLen {
		return validationError("Password is required.")
	}

	passwordHash, err := security.HashPassword(newPassword)
	if err != nil {
		return err
	}

	return s.accounts.UpdatePasswordHash(ctx, accountID, passwordHash)
}

// SetRole promotes or demotes an account. Super-admin only, and the
// super-admin cannot demote themself.
func (s *AccountAdminService) SetRole(ctx context.Context, caller models.Identity, accountID string, makeAdmin bool) error {
	if !caller.IsSuperAdmin() {
		return ErrForbidden
	}
	if caller.Account.ID == accountID && !makeAdmin {
		return validationError("Cannot demote your own account.")
	}

	return s.accounts.UpdateRole(ctx, accountID, makeAdmin)
}

// Delete removes an account with its sessions and requests. Callers can
// never delete themselves, and only the super-admin may delete another
// admin.
func (s *AccountAdminService) Delete(ctx context.Context, caller models.Identity, accountID string) error {
	if caller.Account.ID == accountID {
		return validationError("Cannot delete your own account.")
	}

	target, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return err
	}
	if target.IsAdmin && !caller.IsSuperAdmin() {
		return validationError("Cannot delete another admin.")
	}

	return s.accounts.DeleteCascade(ctx, accountID)
}
