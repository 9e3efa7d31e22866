package mysql

import (
	"context"
	"database/sql"
	"errors"
	"time"

	domain "github.com/RocketSloth/LabBuddy/internal/domain/analysis"
)

type AnalysisRepository struct {
	db *sql.DB
}

func NewAnalysisRepository(db *sql.DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

// Create inserts the initial processing row
func (r *AnalysisRepository) Create(ctx context.Context, a *domain.Analysis) error {
	const q = `
INSERT INTO analyses (id, user_id, status, result, created_at)
VALUES (?,?,?,?,?);
`
	created := a.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	_, err := r.db.ExecContext(ctx, q, a.ID, stringOrDash(a.UserID), a.Status, a.Result, created)
	return err
}

// SetResult writes the single terminal transition. The WHERE clause only
// matches rows still processing, which is what makes the status monotonic.
func (r *AnalysisRepository) SetResult(ctx context.Context, user string, id domain.AnalysisID, status domain.Status, result string) error {
	const q = `
UPDATE analyses SET status=?, result=?
WHERE user_id=? AND id=? AND status='processing';
`
	res, err := r.db.ExecContext(ctx, q, status, result, user, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// either missing or already terminal; look to tell them apart
		existing, gerr := r.Get(ctx, user, id)
		if gerr != nil {
			return gerr
		}
		if existing.Status.Terminal() {
			return domain.ErrTerminal
		}
		return domain.ErrNotFound
	}
	return nil
}

// Get by ID + user
func (r *AnalysisRepository) Get(ctx context.Context, user string, id domain.AnalysisID) (*domain.Analysis, error) {
	const q = `
SELECT id, user_id, status, result, created_at
FROM analyses
WHERE user_id=? AND id=? LIMIT 1;
`
	row := r.db.QueryRowContext(ctx, q, user, id)

	var a domain.Analysis
	if err := row.Scan(&a.ID, &a.UserID, &a.Status, &a.Result, &a.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// LatestByUser returns the newest record, created_at then id descending so
// same-second submissions still order deterministically
func (r *AnalysisRepository) LatestByUser(ctx context.Context, user string) (*domain.Analysis, error) {
	const q = `
SELECT id, user_id, status, result, created_at
FROM analyses
WHERE user_id=?
ORDER BY created_at DESC, id DESC
LIMIT 1;
`
	row := r.db.QueryRowContext(ctx, q, user)

	var a domain.Analysis
	if err := row.Scan(&a.ID, &a.UserID, &a.Status, &a.Result, &a.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// Paginate returns a page of analyses ordered by created_at desc
func (r *AnalysisRepository) Paginate(ctx context.Context, user string, page, pageSize int) ([]*domain.Analysis, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	const q = `
SELECT id, user_id, status, result, created_at
FROM analyses
WHERE user_id=?
ORDER BY created_at DESC, id DESC
LIMIT ? OFFSET ?;
`
	rows, err := r.db.QueryContext(ctx, q, user, pageSize, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Analysis
	for rows.Next() {
		var a domain.Analysis
		if err := rows.Scan(&a.ID, &a.UserID, &a.Status, &a.Result, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}
