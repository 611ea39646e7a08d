package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"wcmap/api/internal/config"
	"wcmap/api/internal/ids"
	"wcmap/api/internal/security"
)

type seedLocation struct {
	name        string
	description string
	lat         float64
	lng         float64
}

var seedLocations = []seedLocation{
	{"Aliados Metro Restrooms", "Clean, central, and easy access near Avenida dos Aliados.", 41.1499, -8.6108},
	{"Ribeira Public Facilities", "Busy during peak hours, stocked and well-maintained.", 41.1412, -8.611},
	{"Aveiro Canal Restrooms", "Close to the canals, quick stop for visitors.", 40.6406, -8.6538},
	{"Cais do Sodre Facilities", "Busy but reliable restroom access near the waterfront.", 38.7076, -9.1447},
}

var seedScores = []struct {
	location int
	score    int
	comment  string
}{
	{0, 5, "Sparkling clean and easy to find."},
	{0, 4, "Great lighting, a little busy."},
	{1, 3, "Decent, could use more supplies."},
	{2, 4, "Nice and modern."},
}

// Seed upserts the configured super-admin account and, when the locations
// table is empty, inserts the starter locations with a few ownerless
// ratings. Seed locations are the only ones without an originating
// request.
func Seed(ctx context.Context, db DB, cfg config.SecurityConfig, logger zerolog.Logger) error {
	if cfg.SuperAdminEmail != "" && cfg.SuperAdminPassword != "" {
		if err := seedSuperAdmin(ctx, db, cfg); err != nil {
			return err
		}
	}

	var count int
	if err := db.QueryRow(ctx, `SELECT COUNT(*) FROM locations`).Scan(&count); err != nil {
		return fmt.Errorf("seed check: %w", err)
	}
	if count > 0 {
		return nil
	}

	locationIDs := make([]string, len(seedLocations))
	for i, loc := range seedLocations {
		locationIDs[i] = ids.New()
		_, err := db.Exec(ctx,
			`INSERT INTO locations (id, name, description, lat, lng) VALUES ($1, $2, $3, $4, $5)`,
			locationIDs[i], loc.name, loc.description, loc.lat, loc.lng,
		)
		if err != nil {
			return fmt.Errorf("seed location %q: %w", loc.name, err)
		}
	}

	for _, r := range seedScores {
		_, err := db.Exec(ctx,
			`INSERT INTO ratings (id, location_id, account_id, score, comment) VALUES ($1, $2, NULL, $3, $4)`,
			ids.New(), locationIDs[r.location], r.score, r.comment,
		)
		if err != nil {
			return fmt.Errorf("seed rating: %w", err)
		}
	}

	logger.Info().Int("locations", len(seedLocations)).Msg("seeded starter data")
	return nil
}

func seedSuperAdmin(ctx context.Context, db DB, cfg config.SecurityConfig) error {
	email := strings.TrimSpace(strings.ToLower(cfg.SuperAdminEmail))

	var id string
	err := db.QueryRow(ctx, `SELECT id FROM accounts WHERE email = $1`, email).Scan(&id)
	if err == nil {
		// Account exists; make sure it still has the admin flag.
		_, err = db.Exec(ctx, `UPDATE accounts SET is_admin = TRUE WHERE id = $1`, id)
		return err
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("look up super-admin: %w", err)
	}

	passwordHash, err := security.HashPassword(cfg.SuperAdminPassword)
	if err != nil {
		return fmt.Errorf("hash super-admin password: %w", err)
	}

	_, err = db.Exec(ctx,
		`INSERT INTO accounts (id, email, password_hash, is_admin) VALUES ($1, $2, $3, TRUE)
		 ON CONFLICT (email) DO UPDATE SET is_admin = TRUE`,
		ids.New(), email, passwordHash,
	)
	if err != nil {
		return fmt.Errorf("seed super-admin: %w", err)
	}
	return nil
}
