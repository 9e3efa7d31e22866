package postgres

import (
	"context"
	"database/sql"
	"time"

	domain "github.com/RocketSloth/LabBuddy/internal/domain/checkins"
)

type CheckinRepository struct {
	db *sql.DB
}

func NewCheckinRepository(db *sql.DB) *CheckinRepository {
	return &CheckinRepository{db: db}
}

// Save inserts one check-in; pq has no LastInsertId, so the id comes back
// through RETURNING
func (r *CheckinRepository) Save(ctx context.Context, c *domain.DailyCheck) error {
	const q = `
INSERT INTO daily_checks
  (user_id, check_date, sleep_hours, exercise_hours, water_intake, feeling, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7)
RETURNING id;
`
	created := c.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	return r.db.QueryRowContext(ctx, q,
		stringOrDash(c.UserID), c.CheckDate, c.SleepHours, c.ExerciseHours, c.WaterIntake, c.Feeling, created,
	).Scan(&c.ID)
}

func (r *CheckinRepository) ListByUser(ctx context.Context, user string, limit int) ([]*domain.DailyCheck, error) {
	if limit <= 0 {
		limit = 90
	}
	const q = `
SELECT id, user_id, check_date, sleep_hours, exercise_hours, water_intake, feeling, created_at
FROM daily_checks
WHERE user_id=$1
ORDER BY check_date DESC, id DESC
LIMIT $2;
`
	rows, err := r.db.QueryContext(ctx, q, user, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.DailyCheck
	for rows.Next() {
		var c domain.DailyCheck
		if err := rows.Scan(&c.ID, &c.UserID, &c.CheckDate, &c.SleepHours, &c.ExerciseHours, &c.WaterIntake, &c.Feeling, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}
