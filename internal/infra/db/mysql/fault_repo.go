package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	domain "github.com/RocketSloth/LabBuddy/internal/domain/faults"
)

type FaultRepository struct {
	db *sql.DB
}

func NewFaultRepository(db *sql.DB) *FaultRepository { return &FaultRepository{db: db} }

func (r *FaultRepository) Save(ctx context.Context, f *domain.Fault) error {
	const q = `
INSERT INTO analysis_faults
  (user_id, analysis_id, phase, message, details_json, created_at)
VALUES (?,?,?,?,?,?)
`
	user := stringOrDash(f.UserID)
	analysis := stringOrDash(f.AnalysisID)
	phase := stringOrDash(f.Phase)
	msg := f.Message
	if strings.TrimSpace(msg) == "" {
		msg = "-"
	}
	details := f.DetailsJSON
	if strings.TrimSpace(details) == "" {
		details = "{}"
	} else {
		// ensure valid json; if invalid, wrap as string field
		var js any
		if json.Unmarshal([]byte(details), &js) != nil {
			b, _ := json.Marshal(map[string]string{"raw": details})
			details = string(b)
		}
	}
	created := f.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	_, err := r.db.ExecContext(ctx, q, user, analysis, phase, msg, details, created)
	return err
}

func (r *FaultRepository) ListByAnalysis(ctx context.Context, user string, analysisID string, limit int) ([]*domain.Fault, error) {
	if limit <= 0 {
		limit = 20
	}
	const q = `
SELECT id, user_id, analysis_id, phase, message, details_json, created_at
FROM analysis_faults
WHERE user_id = ? AND analysis_id = ?
ORDER BY created_at DESC, id DESC
LIMIT ?;`
	rows, err := r.db.QueryContext(ctx, q, user, analysisID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.Fault
	for rows.Next() {
		var f domain.Fault
		if err := rows.Scan(&f.ID, &f.UserID, &f.AnalysisID, &f.Phase, &f.Message, &f.DetailsJSON, &f.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &f)
	}
	return out, rows.Err()
}
