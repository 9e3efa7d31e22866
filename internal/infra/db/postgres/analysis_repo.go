package postgres

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

func (r *AnalysisRepository) Create(ctx context.Context, a *domain.Analysis) error {
	const q = `
INSERT INTO analyses (id, user_id, status, result, created_at)
VALUES ($1,$2,$3,$4,$5);
`
	created := a.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	_, err := r.db.ExecContext(ctx, q, a.ID, stringOrDash(a.UserID), a.Status, a.Result, created)
	return err
}

// SetResult only matches rows still processing, keeping the status monotonic
func (r *AnalysisRepository) SetResult(ctx context.Context, user string, id domain.AnalysisID, status domain.Status, result string) error {
	const q = `
UPDATE analyses SET status=$1, result=$2
WHERE user_id=$3 AND id=$4 AND status='processing';
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

func (r *AnalysisRepository) Get(ctx context.Context, user string, id domain.AnalysisID) (*domain.Analysis, error) {
	const q = `
SELECT id, user_id, status, result, created_at
FROM analyses
WHERE user_id=$1 AND id=$2 LIMIT 1;
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

func (r *AnalysisRepository) LatestByUser(ctx context.Context, user string) (*domain.Analysis, error) {
	const q = `
SELECT id, user_id, status, result, created_at
FROM analyses
WHERE user_id=$1
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
WHERE user_id=$1
ORDER BY created_at DESC, id DESC
LIMIT $2 OFFSET $3;
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
