package postgres

import (
	"context"
	"database/sql"

	domain "github.com/RocketSloth/LabBuddy/internal/domain/labs"
)

// CatalogRepository reads the standard_lab_info reference table
type CatalogRepository struct {
	db *sql.DB
}

func NewCatalogRepository(db *sql.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

func (r *CatalogRepository) List(ctx context.Context) ([]*domain.StandardLab, error) {
	const q = `SELECT standard_test, standard_unit FROM standard_lab_info ORDER BY standard_test;`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.StandardLab
	for rows.Next() {
		var s domain.StandardLab
		if err := rows.Scan(&s.Test, &s.Unit); err != nil {
			return nil, err
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}

func (r *CatalogRepository) UnitFor(ctx context.Context, test string) (string, error) {
	const q = `SELECT standard_unit FROM standard_lab_info WHERE standard_test=$1 LIMIT 1;`
	var unit string
	if err := r.db.QueryRowContext(ctx, q, test).Scan(&unit); err != nil {
		return "", err
	}
	return unit, nil
}
