package profiles

import "context"

// Repository port
type Repository interface {
	Upsert(ctx context.Context, p *Profile) error
	Get(ctx context.Context, user string) (*Profile, error)
}
