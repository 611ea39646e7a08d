package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"wcmap/api/internal/models"
)

var ErrLocationNotFound = errors.New("location not found")

type LocationRepository struct {
	db DB
}

func NewLocationRepository(db DB) *LocationRepository {
	return &LocationRepository{db: db}
}

// ListApproved returns all locations with their aggregate rating, newest
// first. Locations without ratings report an average of 0.0.
func (r *LocationRepository) ListApproved(ctx context.Context) ([]models.LocationSummary, error) {
	const query = `
		SELECT l.id, l.name, l.description, l.lat, l.lng, l.created_at,
		       COALESCE(ROUND(AVG(rt.score)::numeric, 1), 0) AS avg_rating,
		       COUNT(rt.id) AS rating_count
		FROM locations l
		LEFT JOIN ratings rt ON rt.location_id = l.id
		GROUP BY l.id
		ORDER BY l.created_at DESC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []models.LocationSummary
	for rows.Next() {
		var summary models.LocationSummary
		if err := rows.Scan(
			&summary.ID,
			&summary.Name,
			&summary.Description,
			&summary.Lat,
			&summary.Lng,
			&summary.CreatedAt,
			&summary.AvgRating,
			&summary.RatingCount,
		); err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}
	return summaries, rows.Err()
}

func (r *LocationRepository) Exists(ctx context.Context, id string) (bool, error) {
	const query = `SELECT 1 FROM locations WHERE id = $1`

	var one int
	if err := r.db.QueryRow(ctx, query, id).Scan(&one); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// UpdateFields applies a partial update; nil fields keep the stored
// value. Coordinates are immutable after creation.
func (r *LocationRepository) UpdateFields(ctx context.Context, id string, name *string, description *string) error {
	const query = `
		UPDATE locations
		SET name = COALESCE($2, name),
		    description = COALESCE($3, description)
		WHERE id = $1
	`

	cmd, err := r.db.Exec(ctx, query, id, name, description)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrLocationNotFound
	}
	return nil
}

// DeleteCascade removes the location and all its ratings in one
// transaction.
func (r *LocationRepository) DeleteCascade(ctx context.Context, id string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM ratings WHERE location_id = $1`, id); err != nil {
		return err
	}

	cmd, err := tx.Exec(ctx, `DELETE FROM locations WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrLocationNotFound
	}

	return tx.Commit(ctx)
}
