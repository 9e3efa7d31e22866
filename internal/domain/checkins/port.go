package checkins

import "context"

// Repository port
type Repository interface {
	Save(ctx context.Context, c *DailyCheck) error
	ListByUser(ctx context.Context, user string, limit int) ([]*DailyCheck, error)
}
