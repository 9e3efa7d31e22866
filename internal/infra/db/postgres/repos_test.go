package postgres

import (
	"testing"

	domanalysis "github.com/RocketSloth/LabBuddy/internal/domain/analysis"
	domcheckins "github.com/RocketSloth/LabBuddy/internal/domain/checkins"
	"github.com/RocketSloth/LabBuddy/internal/domain/faults"
	domlabs "github.com/RocketSloth/LabBuddy/internal/domain/labs"
	dommeds "github.com/RocketSloth/LabBuddy/internal/domain/medications"
	domprofiles "github.com/RocketSloth/LabBuddy/internal/domain/profiles"
)

// the driver switch in cmd/api picks this package wholesale, so every port
// needs a postgres implementation, not just the two hot tables
var (
	_ domanalysis.Repository = (*AnalysisRepository)(nil)
	_ domlabs.Repository     = (*LabRepository)(nil)
	_ domlabs.Catalog        = (*CatalogRepository)(nil)
	_ faults.Repository      = (*FaultRepository)(nil)
	_ domcheckins.Repository = (*CheckinRepository)(nil)
	_ dommeds.Repository     = (*MedicationRepository)(nil)
	_ domprofiles.Repository = (*ProfileRepository)(nil)
)

func TestConstructorsAcceptNilDB(t *testing.T) {
	if NewAnalysisRepository(nil) == nil ||
		NewLabRepository(nil) == nil ||
		NewCatalogRepository(nil) == nil ||
		NewFaultRepository(nil) == nil ||
		NewCheckinRepository(nil) == nil ||
		NewMedicationRepository(nil) == nil ||
		NewProfileRepository(nil) == nil {
		t.Fatal("constructor returned nil")
	}
}
