package reports

import "context"

// ArtifactStore port (interface untuk penyimpanan export)
type ArtifactStore interface {
	Upload(ctx context.Context, localPath, key string) (string, error)
	UploadAndCleanup(ctx context.Context, localPath, key string) (string, error)
}

// Export is the outcome of one report build.
type Export struct {
	URL  string `json:"url"`
	Key  string `json:"key"`
	Rows int    `json:"rows"`
}
