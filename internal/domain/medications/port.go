package medications

import "context"

// Repository port
type Repository interface {
	Save(ctx context.Context, m *Medication) error
	ListByUser(ctx context.Context, user string) ([]*Medication, error)
	Delete(ctx context.Context, user string, id int64) error
}
