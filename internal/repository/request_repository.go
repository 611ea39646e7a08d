package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"wcmap/api/internal/models"
)

var ErrRequestNotFound = errors.New("request not found")

type RequestRepository struct {
	db DB
}

func NewRequestRepository(db DB) *RequestRepository {
	return &RequestRepository{db: db}
}

func (r *RequestRepository) Create(ctx context.Context, request models.Request) error {
	const query = `
		INSERT INTO location_requests (id, account_id, name, description, lat, lng, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
	`

	_, err := r.db.Exec(ctx, query,
		request.ID,
		request.AccountID,
		request.Name,
		request.Description,
		request.Lat,
		request.Lng,
		request.Status,
	)
	return err
}

func (r *RequestRepository) ListPending(ctx context.Context) ([]models.RequestWithRequester, error) {
	const query = `
		SELECT rq.id, rq.account_id, rq.name, rq.description, rq.lat, rq.lng, rq.status, rq.created_at,
		       COALESCE(a.email, '') AS requester_email
		FROM location_requests rq
		LEFT JOIN accounts a ON a.id = rq.account_id
		WHERE rq.status = 'pending'
		ORDER BY rq.created_at DESC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []models.RequestWithRequester
	for rows.Next() {
		var request models.RequestWithRequester
		if err := rows.Scan(
			&request.ID,
			&request.AccountID,
			&request.Name,
			&request.Description,
			&request.Lat,
			&request.Lng,
			&request.Status,
			&request.CreatedAt,
			&request.RequesterEmail,
		); err != nil {
			return nil, err
		}
		requests = append(requests, request)
	}
	return requests, rows.Err()
}

func (r *RequestRepository) ListByAccount(ctx context.Context, accountID string) ([]models.Request, error) {
	const query = `
		SELECT id, account_id, name, description, lat, lng, status, created_at
		FROM location_requests
		WHERE account_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []models.Request
	for rows.Next() {
		var request models.Request
		if err := rows.Scan(
			&request.ID,
			&request.AccountID,
			&request.Name,
			&request.Description,
			&request.Lat,
			&request.Lng,
			&request.Status,
			&request.CreatedAt,
		); err != nil {
			return nil, err
		}
		requests = append(requests, request)
	}
	return requests, rows.Err()
}

// GetPending loads a request only while it is still pending. Terminal
// rows report not-found so callers cannot probe their state.
func (r *RequestRepository) GetPending(ctx context.Context, id string) (models.Request, error) {
	const query = `
		SELECT id, account_id, name, description, lat, lng, status, created_at
		FROM location_requests
		WHERE id = $1 AND status = 'pending'
	`

	row := r.db.QueryRow(ctx, query, id)
	var request models.Request
	if err := row.Scan(
		&request.ID,
		&request.AccountID,
		&request.Name,
		&request.Description,
		&request.Lat,
		&request.Lng,
		&request.Status,
		&request.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Request{}, ErrRequestNotFound
		}
		return models.Request{}, err
	}
	return request, nil
}

// UpdateOwnedPending edits a request in place, but only while the caller
// owns it and it has not been moderated yet.
func (r *RequestRepository) UpdateOwnedPending(ctx context.Context, id string, accountID string, name string, description *string, lat, lng float64) error {
	const query = `
		UPDATE location_requests
		SET name = $3, description = $4, lat = $5, lng = $6
		WHERE id = $1 AND account_id = $2 AND status = 'pending'
	`

	cmd, err := r.db.Exec(ctx, query, id, accountID, name, description, lat, lng)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrRequestNotFound
	}
	return nil
}

// DeleteOwned withdraws a non-approved request. Approved requests are
// permanent history and stay.
func (r *RequestRepository) DeleteOwned(ctx context.Context, id string, accountID string) error {
	const query = `
		DELETE FROM location_requests
		WHERE id = $1 AND account_id = $2 AND status IN ('pending', 'rejected')
	`

	cmd, err := r.db.Exec(ctx, query, id, accountID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrRequestNotFound
	}
	return nil
}

// Approve inserts the new location and flips the request to approved in
// one transaction. Both writes succeed or neither does; a request that
// lost the race to another moderator reports not-found.
func (r *RequestRepository) Approve(ctx context.Context, requestID string, location models.Location) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO locations (id, name, description, lat, lng, created_at)
		 VALUES ($1, $2, $3, $4, $5, NOW())`,
		location.ID,
		location.Name,
		location.Description,
		location.Lat,
		location.Lng,
	)
	if err != nil {
		return err
	}

	cmd, err := tx.Exec(ctx,
		`UPDATE location_requests SET status = 'approved' WHERE id = $1 AND status = 'pending'`,
		requestID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrRequestNotFound
	}

	return tx.Commit(ctx)
}

func (r *RequestRepository) Reject(ctx context.Context, id string) error {
	const query = `
		UPDATE location_requests SET status = 'rejected'
		WHERE id = $1 AND status = 'pending'
	`

	cmd, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrRequestNotFound
	}
	return nil
}
