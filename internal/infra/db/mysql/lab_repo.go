package mysql

import (
	"context"
	"database/sql"
	"errors"
	"time"

	domain "github.com/RocketSloth/LabBuddy/internal/domain/labs"
)

type LabRepository struct {
	db *sql.DB
}

func NewLabRepository(db *sql.DB) *LabRepository {
	return &LabRepository{db: db}
}

// Save insert/update lab record
func (r *LabRepository) Save(ctx context.Context, l *domain.Lab) error {
	const q = `
INSERT INTO labs
  (id, user_id, test_type, test_result, test_unit, test_date, created_at)
VALUES (?,?,?,?,?,?,?)
ON DUPLICATE KEY UPDATE
  test_type=VALUES(test_type), test_result=VALUES(test_result),
  test_unit=VALUES(test_unit), test_date=VALUES(test_date);
`
	created := l.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	_, err := r.db.ExecContext(ctx, q,
		l.ID, stringOrDash(l.UserID), stringOrDash(l.TestType), l.TestResult, l.TestUnit, l.TestDate, created,
	)
	return err
}

// Get by ID + user
func (r *LabRepository) Get(ctx context.Context, user string, id domain.LabID) (*domain.Lab, error) {
	const q = `
SELECT id, user_id, test_type, test_result, test_unit, test_date, created_at
FROM labs
WHERE user_id=? AND id=? LIMIT 1;
`
	row := r.db.QueryRowContext(ctx, q, user, id)
	var l domain.Lab
	if err := row.Scan(&l.ID, &l.UserID, &l.TestType, &l.TestResult, &l.TestUnit, &l.TestDate, &l.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &l, nil
}

// ListByUser semua lab per user, newest test first
func (r *LabRepository) ListByUser(ctx context.Context, user string) ([]*domain.Lab, error) {
	const q = `
SELECT id, user_id, test_type, test_result, test_unit, test_date, created_at
FROM labs
WHERE user_id=?
ORDER BY test_date DESC, created_at DESC;
`
	return r.list(ctx, q, user)
}

// ListByType semua lab per user untuk satu test type, date ascending
func (r *LabRepository) ListByType(ctx context.Context, user string, testType string) ([]*domain.Lab, error) {
	const q = `
SELECT id, user_id, test_type, test_result, test_unit, test_date, created_at
FROM labs
WHERE user_id=? AND test_type=?
ORDER BY test_date ASC;
`
	return r.list(ctx, q, user, testType)
}

func (r *LabRepository) list(ctx context.Context, q string, args ...any) ([]*domain.Lab, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Lab
	for rows.Next() {
		var l domain.Lab
		if err := rows.Scan(&l.ID, &l.UserID, &l.TestType, &l.TestResult, &l.TestUnit, &l.TestDate, &l.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &l)
	}
	return out, rows.Err()
}

// Delete hapus 1 lab
func (r *LabRepository) Delete(ctx context.Context, user string, id domain.LabID) error {
	const q = `DELETE FROM labs WHERE user_id=? AND id=?;`
	res, err := r.db.ExecContext(ctx, q, user, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
