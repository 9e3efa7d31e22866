package mysql

import (
	"context"
	"database/sql"
	"time"

	domain "github.com/RocketSloth/LabBuddy/internal/domain/medications"
)

type MedicationRepository struct {
	db *sql.DB
}

func NewMedicationRepository(db *sql.DB) *MedicationRepository {
	return &MedicationRepository{db: db}
}

func (r *MedicationRepository) Save(ctx context.Context, m *domain.Medication) error {
	const q = `
INSERT INTO medications (user_id, name, dosage, frequency, created_at)
VALUES (?,?,?,?,?);
`
	created := m.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	res, err := r.db.ExecContext(ctx, q, stringOrDash(m.UserID), stringOrDash(m.Name), m.Dosage, m.Frequency, created)
	if err != nil {
		return err
	}
	if id, err := res.LastInsertId(); err == nil {
		m.ID = id
	}
	return nil
}

func (r *MedicationRepository) ListByUser(ctx context.Context, user string) ([]*domain.Medication, error) {
	const q = `
SELECT id, user_id, name, dosage, frequency, created_at
FROM medications
WHERE user_id=?
ORDER BY created_at DESC, id DESC;
`
	rows, err := r.db.QueryContext(ctx, q, user)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Medication
	for rows.Next() {
		var m domain.Medication
		if err := rows.Scan(&m.ID, &m.UserID, &m.Name, &m.Dosage, &m.Frequency, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}

func (r *MedicationRepository) Delete(ctx context.Context, user string, id int64) error {
	const q = `DELETE FROM medications WHERE user_id=? AND id=?;`
	res, err := r.db.ExecContext(ctx, q, user, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
