package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"wcmap/api/internal/models"
)

var ErrSessionNotFound = errors.New("session not found")

type SessionRepository struct {
	db DB
}

func NewSessionRepository(db DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(ctx context.Context, session models.Session) error {
	const query = `
		INSERT INTO sessions (token, account_id, created_at)
		VALUES ($1, $2, NOW())
	`

	_, err := r.db.Exec(ctx, query, session.Token, session.AccountID)
	return err
}

// FindAccountByToken resolves a bearer token to its owning account in a
// single join.
func (r *SessionRepository) FindAccountByToken(ctx context.Context, token string) (models.Account, models.Session, error) {
	const query = `
		SELECT a.id, a.email, a.password_hash, a.is_admin, a.created_at,
		       s.token, s.account_id, s.created_at
		FROM sessions s
		JOIN accounts a ON a.id = s.account_id
		WHERE s.token = $1
	`

	row := r.db.QueryRow(ctx, query, token)
	var (
		account models.Account
		session models.Session
	)
	if err := row.Scan(
		&account.ID,
		&account.Email,
		&account.PasswordHash,
		&account.IsAdmin,
		&account.CreatedAt,
		&session.Token,
		&session.AccountID,
		&session.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Account{}, models.Session{}, ErrSessionNotFound
		}
		return models.Account{}, models.Session{}, err
	}
	return account, session, nil
}

// Delete is idempotent: removing an absent token is not an error.
func (r *SessionRepository) Delete(ctx context.Context, token string) error {
	const query = `DELETE FROM sessions WHERE token = $1`

	_, err := r.db.Exec(ctx, query, token)
	return err
}

func (r *SessionRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	const query = `DELETE FROM sessions WHERE created_at < $1`

	cmd, err := r.db.Exec(ctx, query, cutoff)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}
