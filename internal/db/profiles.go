package db

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"pledge/internal/models"
	"pledge/internal/store"
)

const profileColumns = `user_id, email, first_name, last_name, institution, institution_id,
	campus_code, batch_year, roll_number, major, is_hostelite, societies, ghost_mode,
	created_at, updated_at`

// UpsertProfile creates or updates a public profile keyed on the auth
// provider's user id.
func (d *DB) UpsertProfile(ctx context.Context, p *models.Profile) error {
	query := `
		INSERT INTO public_profiles (user_id, email, first_name, last_name, institution,
			institution_id, campus_code, batch_year, roll_number, major, is_hostelite,
			societies, ghost_mode)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (user_id) DO UPDATE SET
			email = EXCLUDED.email,
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			institution = EXCLUDED.institution,
			institution_id = EXCLUDED.institution_id,
			campus_code = EXCLUDED.campus_code,
			batch_year = EXCLUDED.batch_year,
			roll_number = EXCLUDED.roll_number,
			major = EXCLUDED.major,
			is_hostelite = EXCLUDED.is_hostelite,
			societies = EXCLUDED.societies,
			ghost_mode = EXCLUDED.ghost_mode,
			updated_at = NOW()
		RETURNING created_at, updated_at
	`

	return d.Pool.QueryRow(ctx, query,
		p.UserID,
		p.Email,
		p.FirstName,
		p.LastName,
		p.Institution,
		p.InstitutionID,
		p.CampusCode,
		p.BatchYear,
		p.RollNumber,
		p.Major,
		p.IsHostelite,
		p.Societies,
		p.GhostMode,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
}

// GetProfileByUserID retrieves a profile by the auth provider's user id.
func (d *DB) GetProfileByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM public_profiles WHERE user_id = $1`
	return d.scanProfile(d.Pool.QueryRow(ctx, query, userID))
}

// GetProfileByEmail retrieves a profile by email, case-insensitively.
func (d *DB) GetProfileByEmail(ctx context.Context, email string) (*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM public_profiles WHERE lower(email) = lower($1)`
	return d.scanProfile(d.Pool.QueryRow(ctx, query, email))
}

// GetProfilesByUserIDs retrieves profiles for a set of user ids.
func (d *DB) GetProfilesByUserIDs(ctx context.Context, userIDs []uuid.UUID) ([]models.Profile, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	query := `SELECT ` + profileColumns + ` FROM public_profiles WHERE user_id = ANY($1)`
	rows, err := d.Pool.Query(ctx, query, userIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []models.Profile
	for rows.Next() {
		var p models.Profile
		if err := scanProfileFields(rows, &p); err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}

	return profiles, rows.Err()
}

func (d *DB) scanProfile(row pgx.Row) (*models.Profile, error) {
	var p models.Profile
	err := scanProfileFields(row, &p)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func scanProfileFields(row pgx.Row, p *models.Profile) error {
	return row.Scan(
		&p.UserID,
		&p.Email,
		&p.FirstName,
		&p.LastName,
		&p.Institution,
		&p.InstitutionID,
		&p.CampusCode,
		&p.BatchYear,
		&p.RollNumber,
		&p.Major,
		&p.IsHostelite,
		&p.Societies,
		&p.GhostMode,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
}
