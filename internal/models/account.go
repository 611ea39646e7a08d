package models

import "time"

// Privilege is the tier resolved for a request, derived once from the
// session token and the configured super-admin email.
type Privilege string

const (
	PrivilegeAnonymous  Privilege = "anonymous"
	PrivilegeMember     Privilege = "member"
	PrivilegeAdmin      Privilege = "admin"
	PrivilegeSuperAdmin Privilege = "superadmin"
)

type Account struct {
	ID           string
	Email        string
	PasswordHash string
	IsAdmin      bool
	CreatedAt    time.Time
}

type Session struct {
	Token     string
	AccountID string
	CreatedAt time.Time
}

// Identity is a resolved account plus its privilege tier.
type Identity struct {
	Account   Account
	Privilege Privilege
}

func (i Identity) IsAdmin() bool {
	return i.Privilege == PrivilegeAdmin || i.Privilege == PrivilegeSuperAdmin
}

func (i Identity) IsSuperAdmin() bool {
	return i.Privilege == PrivilegeSuperAdmin
}
