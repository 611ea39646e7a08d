package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"wcmap/api/internal/models"
)

var ErrRatingNotFound = errors.New("rating not found")

type RatingRepository struct {
	db DB
}

func NewRatingRepository(db DB) *RatingRepository {
	return &RatingRepository{db: db}
}

func (r *RatingRepository) Create(ctx context.Context, rating models.Rating) error {
	const query = `
		INSERT INTO ratings (id, location_id, account_id, score, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
	`

	_, err := r.db.Exec(ctx, query,
		rating.ID,
		rating.LocationID,
		rating.AccountID,
		rating.Score,
		rating.Comment,
	)
	return err
}

func (r *RatingRepository) GetByID(ctx context.Context, id string) (models.Rating, error) {
	const query = `
		SELECT id, location_id, account_id, score, comment, created_at
		FROM ratings WHERE id = $1
	`

	row := r.db.QueryRow(ctx, query, id)
	var rating models.Rating
	if err := row.Scan(
		&rating.ID,
		&rating.LocationID,
		&rating.AccountID,
		&rating.Score,
		&rating.Comment,
		&rating.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Rating{}, ErrRatingNotFound
		}
		return models.Rating{}, err
	}
	return rating, nil
}

func (r *RatingRepository) ListForLocation(ctx context.Context, locationID string) ([]models.Rating, error) {
	const query = `
		SELECT id, location_id, account_id, score, comment, created_at
		FROM ratings
		WHERE location_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query, locationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ratings []models.Rating
	for rows.Next() {
		var rating models.Rating
		if err := rows.Scan(
			&rating.ID,
			&rating.LocationID,
			&rating.AccountID,
			&rating.Score,
			&rating.Comment,
			&rating.CreatedAt,
		); err != nil {
			return nil, err
		}
		ratings = append(ratings, rating)
	}
	return ratings, rows.Err()
}

// ListAllWithLocation is the moderation view: every rating joined with
// the name of the location it belongs to, newest first.
func (r *RatingRepository) ListAllWithLocation(ctx context.Context) ([]models.RatingWithLocation, error) {
	const query = `
		SELECT rt.id, rt.location_id, rt.account_id, rt.score, rt.comment, rt.created_at,
		       l.name AS location_name
		FROM ratings rt
		JOIN locations l ON l.id = rt.location_id
		ORDER BY rt.created_at DESC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ratings []models.RatingWithLocation
	for rows.Next() {
		var rating models.RatingWithLocation
		if err := rows.Scan(
			&rating.ID,
			&rating.LocationID,
			&rating.AccountID,
			&rating.Score,
			&rating.Comment,
			&rating.CreatedAt,
			&rating.LocationName,
		); err != nil {
			return nil, err
		}
		ratings = append(ratings, rating)
	}
	return ratings, rows.Err()
}

func (r *RatingRepository) Update(ctx context.Context, id string, score int, comment *string) error {
	const query = `UPDATE ratings SET score = $2, comment = $3 WHERE id = $1`

	cmd, err := r.db.Exec(ctx, query, id, score, comment)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrRatingNotFound
	}
	return nil
}

func (r *RatingRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM ratings WHERE id = $1`

	cmd, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrRatingNotFound
	}
	return nil
}
