package analysis

import "context"

// Repository port (interface untuk persistence)
type Repository interface {
	Create(ctx context.Context, a *Analysis) error
	// SetResult writes the single terminal transition. Implementations must
	// refuse to touch a row that is already terminal and return ErrTerminal.
	SetResult(ctx context.Context, user string, id AnalysisID, status Status, result string) error
	Get(ctx context.Context, user string, id AnalysisID) (*Analysis, error)
	LatestByUser(ctx context.Context, user string) (*Analysis, error)
	Paginate(ctx context.Context, user string, page, pageSize int) ([]*Analysis, error)
}
