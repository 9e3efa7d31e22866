package labs

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/RocketSloth/LabBuddy/internal/application"
	domain "github.com/RocketSloth/LabBuddy/internal/domain/labs"
)

// Service implements use-cases untuk Lab records
type Service struct {
	Repo    domain.Repository
	Catalog domain.Catalog
	Clock   application.Clock
}

//
// ==== USE CASES ====
//

// Command untuk create lab
type CreateLabCommand struct {
	UserID     string
	TestType   string
	TestResult string
	TestUnit   string
	TestDate   string
}

// Create validates and saves one lab row. When the unit is omitted it is
// autofilled from the standard catalog, matching the entry form behavior.
func (s *Service) Create(ctx context.Context, cmd CreateLabCommand) (*domain.Lab, error) {
	if cmd.UserID == "" || cmd.TestType == "" || cmd.TestResult == "" || cmd.TestDate == "" {
		return nil, fmt.Errorf("user_id, test_type, test_result and test_date are required")
	}
	unit := cmd.TestUnit
	if unit == "" && s.Catalog != nil {
		if u, err := s.Catalog.UnitFor(ctx, cmd.TestType); err == nil {
			unit = u
		}
	}
	l := &domain.Lab{
		ID:         domain.LabID(uuid.New().String()),
		UserID:     cmd.UserID,
		TestType:   cmd.TestType,
		TestResult: cmd.TestResult,
		TestUnit:   unit,
		TestDate:   cmd.TestDate,
		CreatedAt:  s.Clock.Now(),
	}
	if err := s.Repo.Save(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

// Update rewrites an existing lab in place
func (s *Service) Update(ctx context.Context, user string, id domain.LabID, cmd CreateLabCommand) (*domain.Lab, error) {
	existing, err := s.Repo.Get(ctx, user, id)
	if err != nil {
		return nil, err
	}
	if cmd.TestType != "" {
		existing.TestType = cmd.TestType
	}
	if cmd.TestResult != "" {
		existing.TestResult = cmd.TestResult
	}
	if cmd.TestUnit != "" {
		existing.TestUnit = cmd.TestUnit
	}
	if cmd.TestDate != "" {
		existing.TestDate = cmd.TestDate
	}
	if err := s.Repo.Save(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// Get ambil 1 lab by id
func (s *Service) Get(ctx context.Context, user string, id domain.LabID) (*domain.Lab, error) {
	return s.Repo.Get(ctx, user, id)
}

// List ambil semua lab per user; filter substring opsional per field
func (s *Service) List(ctx context.Context, user, filterField, filterTerm string) ([]*domain.Lab, error) {
	all, err := s.Repo.ListByUser(ctx, user)
	if err != nil {
		return nil, err
	}
	if filterTerm == "" {
		return all, nil
	}
	term := strings.ToLower(filterTerm)
	var out []*domain.Lab
	for _, l := range all {
		var v string
		switch filterField {
		case "test_date":
			v = l.TestDate
		case "test_result":
			v = l.TestResult
		default:
			v = l.TestType
		}
		if strings.Contains(strings.ToLower(v), term) {
			out = append(out, l)
		}
	}
	return out, nil
}

// Delete hapus 1 lab
func (s *Service) Delete(ctx context.Context, user string, id domain.LabID) error {
	return s.Repo.Delete(ctx, user, id)
}

// Types returns the standard test catalog for suggestion dropdowns
func (s *Service) Types(ctx context.Context) ([]*domain.StandardLab, error) {
	return s.Catalog.List(ctx)
}

// Import parses a CSV lab export and bulk-saves the rows
func (s *Service) Import(ctx context.Context, user string, res *domain.ImportResult) (int, error) {
	saved := 0
	for _, l := range res.Labs {
		l.ID = domain.LabID(uuid.New().String())
		l.UserID = user
		l.CreatedAt = s.Clock.Now()
		if l.TestUnit == "" && s.Catalog != nil {
			if u, err := s.Catalog.UnitFor(ctx, l.TestType); err == nil {
				l.TestUnit = u
			}
		}
		if err := s.Repo.Save(ctx, l); err != nil {
			return saved, fmt.Errorf("import row %d: %w", saved+1, err)
		}
		saved++
	}
	return saved, nil
}

// Trends builds the date-ascending numeric series for one test type, the
// server-side version of what the charts page used to compute per render.
// Non-numeric results are skipped.
func (s *Service) Trends(ctx context.Context, user, testType string) (*domain.TrendSeries, error) {
	if testType == "" {
		return nil, fmt.Errorf("test_type is required")
	}
	rows, err := s.Repo.ListByType(ctx, user, testType)
	if err != nil {
		return nil, err
	}

	series := &domain.TrendSeries{TestType: testType}
	for _, l := range rows {
		v, err := strconv.ParseFloat(strings.TrimSpace(l.TestResult), 64)
		if err != nil {
			continue
		}
		series.Points = append(series.Points, domain.TrendPoint{
			Date:   l.TestDate,
			Result: v,
			Unit:   l.TestUnit,
		})
		if series.Unit == "" {
			series.Unit = l.TestUnit
		}
	}
	sort.Slice(series.Points, func(i, j int) bool { return series.Points[i].Date < series.Points[j].Date })

	for i, p := range series.Points {
		if i == 0 || p.Result < series.Min {
			series.Min = p.Result
		}
		if i == 0 || p.Result > series.Max {
			series.Max = p.Result
		}
	}
	return series, nil
}
