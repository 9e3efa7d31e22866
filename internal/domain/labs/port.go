package labs

import "context"

// Repository port (interface untuk persistence)
type Repository interface {
	Save(ctx context.Context, l *Lab) error
	Get(ctx context.Context, user string, id LabID) (*Lab, error)
	ListByUser(ctx context.Context, user string) ([]*Lab, error)
	ListByType(ctx context.Context, user string, testType string) ([]*Lab, error)
	Delete(ctx context.Context, user string, id LabID) error
}

// Catalog port for the standard test reference table
type Catalog interface {
	List(ctx context.Context) ([]*StandardLab, error)
	UnitFor(ctx context.Context, test string) (string, error)
}
