package reports

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/RocketSloth/LabBuddy/internal/application"
	domanalysis "github.com/RocketSloth/LabBuddy/internal/domain/analysis"
	domlabs "github.com/RocketSloth/LabBuddy/internal/domain/labs"
	domain "github.com/RocketSloth/LabBuddy/internal/domain/reports"
)

// Service builds shareable CSV exports of a user's labs and uploads them to
// the artifact store, returning the download URL.
type Service struct {
	Labs      domlabs.Repository
	Analyses  domanalysis.Repository
	Artifacts domain.ArtifactStore
	Clock     application.Clock
}

// Export renders labs (and the latest completed narrative, when present) to a
// temp CSV, uploads it, and cleans up the local file.
func (s *Service) Export(ctx context.Context, user string) (*domain.Export, error) {
	labs, err := s.Labs.ListByUser(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("list labs: %w", err)
	}
	if len(labs) == 0 {
		return nil, fmt.Errorf("no labs to export")
	}

	f, err := os.CreateTemp("", "labbuddy-export-*.csv")
	if err != nil {
		return nil, err
	}
	path := f.Name()

	w := csv.NewWriter(f)
	_ = w.Write([]string{"test_type", "test_result", "test_unit", "test_date"})
	for _, l := range labs {
		_ = w.Write([]string{l.TestType, l.TestResult, l.TestUnit, l.TestDate})
	}

	// append the newest narrative as a trailing row, like the printable view did
	if latest, err := s.Analyses.LatestByUser(ctx, user); err == nil && latest.Status == domanalysis.StatusComplete {
		_ = w.Write([]string{})
		_ = w.Write([]string{"analysis", latest.Result, "", latest.CreatedAt.Format("2006-01-02")})
	}

	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		os.Remove(path)
		return nil, fmt.Errorf("write export: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return nil, err
	}

	key := fmt.Sprintf("%s/exports/%s-%s", user, s.Clock.Now().Format("20060102"), uuid.New().String()[:8]+filepath.Ext(path))
	url, err := s.Artifacts.UploadAndCleanup(ctx, path, key)
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("upload export: %w", err)
	}

	return &domain.Export{URL: url, Key: key, Rows: len(labs)}, nil
}
