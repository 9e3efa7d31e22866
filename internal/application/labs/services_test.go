package labs

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RocketSloth/LabBuddy/internal/application"
	domain "github.com/RocketSloth/LabBuddy/internal/domain/labs"
)

type memLabRepo struct {
	labs map[domain.LabID]*domain.Lab
}

func newMemLabRepo() *memLabRepo {
	return &memLabRepo{labs: map[domain.LabID]*domain.Lab{}}
}

func (r *memLabRepo) Save(_ context.Context, l *domain.Lab) error {
	cp := *l
	r.labs[l.ID] = &cp
	return nil
}

func (r *memLabRepo) Get(_ context.Context, user string, id domain.LabID) (*domain.Lab, error) {
	l, ok := r.labs[id]
	if !ok || l.UserID != user {
		return nil, domain.ErrNotFound
	}
	cp := *l
	return &cp, nil
}

func (r *memLabRepo) ListByUser(_ context.Context, user string) ([]*domain.Lab, error) {
	var out []*domain.Lab
	for _, l := range r.labs {
		if l.UserID == user {
			cp := *l
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memLabRepo) ListByType(_ context.Context, user, testType string) ([]*domain.Lab, error) {
	var out []*domain.Lab
	for _, l := range r.labs {
		if l.UserID == user && l.TestType == testType {
			cp := *l
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memLabRepo) Delete(_ context.Context, user string, id domain.LabID) error {
	l, ok := r.labs[id]
	if !ok || l.UserID != user {
		return domain.ErrNotFound
	}
	delete(r.labs, id)
	return nil
}

type memCatalog struct{ units map[string]string }

func (c *memCatalog) List(_ context.Context) ([]*domain.StandardLab, error) {
	var out []*domain.StandardLab
	for test, unit := range c.units {
		out = append(out, &domain.StandardLab{Test: test, Unit: unit})
	}
	return out, nil
}

func (c *memCatalog) UnitFor(_ context.Context, test string) (string, error) {
	u, ok := c.units[test]
	if !ok {
		return "", domain.ErrNotFound
	}
	return u, nil
}

func newLabService(repo *memLabRepo) *Service {
	return &Service{
		Repo:    repo,
		Catalog: &memCatalog{units: map[string]string{"Glucose": "mg/dL", "HDL": "mg/dL"}},
		Clock:   application.SystemClock{},
	}
}

func TestCreateAutofillsUnitFromCatalog(t *testing.T) {
	svc := newLabService(newMemLabRepo())

	l, err := svc.Create(context.Background(), CreateLabCommand{
		UserID: "user-1", TestType: "Glucose", TestResult: "110", TestDate: "2026-08-01",
	})
	require.NoError(t, err)
	assert.Equal(t, "mg/dL", l.TestUnit)
	assert.NotEmpty(t, l.ID)

	// an explicit unit wins over the catalog
	l, err = svc.Create(context.Background(), CreateLabCommand{
		UserID: "user-1", TestType: "Glucose", TestResult: "6.1", TestUnit: "mmol/L", TestDate: "2026-08-02",
	})
	require.NoError(t, err)
	assert.Equal(t, "mmol/L", l.TestUnit)

	// unknown types simply stay unitless
	l, err = svc.Create(context.Background(), CreateLabCommand{
		UserID: "user-1", TestType: "Homocysteine", TestResult: "9", TestDate: "2026-08-02",
	})
	require.NoError(t, err)
	assert.Empty(t, l.TestUnit)
}

func TestCreateRequiredFields(t *testing.T) {
	svc := newLabService(newMemLabRepo())
	_, err := svc.Create(context.Background(), CreateLabCommand{UserID: "user-1", TestType: "Glucose"})
	assert.Error(t, err)
}

func TestListFilters(t *testing.T) {
	repo := newMemLabRepo()
	svc := newLabService(repo)
	seed := []CreateLabCommand{
		{UserID: "user-1", TestType: "Glucose", TestResult: "110", TestDate: "2026-08-01"},
		{UserID: "user-1", TestType: "HDL", TestResult: "58", TestDate: "2026-08-01"},
		{UserID: "user-2", TestType: "Glucose", TestResult: "95", TestDate: "2026-08-01"},
	}
	for _, cmd := range seed {
		_, err := svc.Create(context.Background(), cmd)
		require.NoError(t, err)
	}

	all, err := svc.List(context.Background(), "user-1", "", "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	// case-insensitive substring on test type
	got, err := svc.List(context.Background(), "user-1", "test_type", "gluc")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Glucose", got[0].TestType)

	got, err = svc.List(context.Background(), "user-1", "test_result", "58")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestMissingLabIsDomainNotFound(t *testing.T) {
	svc := newLabService(newMemLabRepo())

	_, err := svc.Get(context.Background(), "user-1", "no-such-id")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = svc.Delete(context.Background(), "user-1", "no-such-id")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateKeepsUnsetFields(t *testing.T) {
	repo := newMemLabRepo()
	svc := newLabService(repo)
	l, err := svc.Create(context.Background(), CreateLabCommand{
		UserID: "user-1", TestType: "Glucose", TestResult: "110", TestDate: "2026-08-01",
	})
	require.NoError(t, err)

	got, err := svc.Update(context.Background(), "user-1", l.ID, CreateLabCommand{TestResult: "104"})
	require.NoError(t, err)
	assert.Equal(t, "104", got.TestResult)
	assert.Equal(t, "Glucose", got.TestType)
	assert.Equal(t, "2026-08-01", got.TestDate)
}

func TestTrendsSortsAndBounds(t *testing.T) {
	repo := newMemLabRepo()
	svc := newLabService(repo)
	seed := []CreateLabCommand{
		{UserID: "user-1", TestType: "Glucose", TestResult: "118", TestDate: "2026-03-10"},
		{UserID: "user-1", TestType: "Glucose", TestResult: "104", TestDate: "2026-07-02"},
		{UserID: "user-1", TestType: "Glucose", TestResult: "borderline", TestDate: "2026-05-01"}, // non-numeric, skipped
		{UserID: "user-1", TestType: "Glucose", TestResult: "96", TestDate: "2026-01-15"},
		{UserID: "user-1", TestType: "HDL", TestResult: "58", TestDate: "2026-01-15"}, // other type
	}
	for _, cmd := range seed {
		_, err := svc.Create(context.Background(), cmd)
		require.NoError(t, err)
	}

	series, err := svc.Trends(context.Background(), "user-1", "Glucose")
	require.NoError(t, err)
	require.Len(t, series.Points, 3)

	dates := make([]string, 0, 3)
	for _, p := range series.Points {
		dates = append(dates, p.Date)
	}
	assert.Equal(t, []string{"2026-01-15", "2026-03-10", "2026-07-02"}, dates)
	assert.Equal(t, 96.0, series.Min)
	assert.Equal(t, 118.0, series.Max)
	assert.Equal(t, "mg/dL", series.Unit)
}

func TestImportAssignsOwnershipAndUnits(t *testing.T) {
	repo := newMemLabRepo()
	svc := newLabService(repo)

	parsed, err := domain.ParseCSV(strings.NewReader(
		"test,value,date\nGlucose,110,2026-08-01\nHDL,58,08/15/2026\n"))
	require.NoError(t, err)
	require.Len(t, parsed.Labs, 2)

	n, err := svc.Import(context.Background(), "user-1", parsed)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	got, err := svc.List(context.Background(), "user-1", "", "")
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, l := range got {
		assert.Equal(t, "user-1", l.UserID)
		assert.NotEmpty(t, l.ID)
		assert.Equal(t, "mg/dL", l.TestUnit) // autofilled from the catalog
	}
}
