package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	domain "github.com/RocketSloth/LabBuddy/internal/domain/profiles"
)

type ProfileRepository struct {
	db *sql.DB
}

func NewProfileRepository(db *sql.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// Upsert insert/update profile, satu row per user
func (r *ProfileRepository) Upsert(ctx context.Context, p *domain.Profile) error {
	const q = `
INSERT INTO profiles (user_id, age, sex, ethnicity, location, updated_at)
VALUES ($1,$2,$3,$4,$5,$6)
ON CONFLICT (user_id) DO UPDATE SET
  age=EXCLUDED.age, sex=EXCLUDED.sex, ethnicity=EXCLUDED.ethnicity,
  location=EXCLUDED.location, updated_at=EXCLUDED.updated_at;
`
	updated := p.UpdatedAt
	if updated.IsZero() {
		updated = time.Now()
	}
	_, err := r.db.ExecContext(ctx, q, stringOrDash(p.UserID), p.Age, p.Sex, p.Ethnicity, p.Location, updated)
	return err
}

func (r *ProfileRepository) Get(ctx context.Context, user string) (*domain.Profile, error) {
	const q = `
SELECT user_id, age, sex, ethnicity, location, updated_at
FROM profiles
WHERE user_id=$1 LIMIT 1;
`
	row := r.db.QueryRowContext(ctx, q, user)
	var p domain.Profile
	if err := row.Scan(&p.UserID, &p.Age, &p.Sex, &p.Ethnicity, &p.Location, &p.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}
