package mysql

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

func (r *CheckinRepository) Save(ctx context.Context, c *domain.DailyCheck) error {
	const q = `
INSERT INTO daily_checks
  (user_id, check_date, sleep_hours, exercise_hours, water_intake, feeling, created_at)
VALUES (?,?,?,?,?,?,?);
`
	created := c.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	res, err := r.db.ExecContext(ctx, q,
		stringOrDash(c.UserID), c.CheckDate, c.SleepHours, c.ExerciseHours, c.WaterIntake, c.Feeling, created,
	)
	if err != nil {
		return err
	}
	if id, err := res.LastInsertId(); err == nil {
		c.ID = id
	}
	return nil
}

func (r *CheckinRepository) ListByUser(ctx context.Context, user string, limit int) ([]*domain.DailyCheck, error) {
	if limit <= 0 {
		limit = 90
	}
	const q = `
SELECT id, user_id, check_date, sleep_hours, exercise_hours, water_intake, feeling, created_at
FROM daily_checks
WHERE user_id=?
ORDER BY check_date DESC, id DESC
LIMIT ?;
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
