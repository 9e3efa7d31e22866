package httpserver

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	appanalysis "github.com/RocketSloth/LabBuddy/internal/application/analysis"
	appcheckins "github.com/RocketSloth/LabBuddy/internal/application/checkins"
	applabs "github.com/RocketSloth/LabBuddy/internal/application/labs"
	appmeds "github.com/RocketSloth/LabBuddy/internal/application/medications"
	approfiles "github.com/RocketSloth/LabBuddy/internal/application/profiles"
	appreports "github.com/RocketSloth/LabBuddy/internal/application/reports"
	domai "github.com/RocketSloth/LabBuddy/internal/domain/ai"
	domanalysis "github.com/RocketSloth/LabBuddy/internal/domain/analysis"
	domlabs "github.com/RocketSloth/LabBuddy/internal/domain/labs"
	domprofiles "github.com/RocketSloth/LabBuddy/internal/domain/profiles"
	"github.com/RocketSloth/LabBuddy/internal/middleware"
)

// Deps bundles the services the router exposes
type Deps struct {
	Analyses    *appanalysis.Service
	Watcher     *appanalysis.Watcher
	Labs        *applabs.Service
	Checkins    *appcheckins.Service
	Medications *appmeds.Service
	Profiles    *approfiles.Service
	Reports     *appreports.Service

	// user id -> API key; empty map disables auth
	APIKeys map[string]string
	Health  map[string]middleware.HealthChecker
}

type Router struct {
	deps Deps
}

func NewRouter(deps Deps) http.Handler {
	r := &Router{deps: deps}
	mux := chi.NewRouter()

	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}))
	mux.Use(middleware.LoggingMiddleware)
	mux.Use(middleware.MetricsMiddleware)
	if len(deps.APIKeys) > 0 {
		mux.Use(middleware.APIKeyAuth(deps.APIKeys))
	}
	// after auth so the bucket key includes the authenticated user
	mux.Use(middleware.RateLimitMiddleware(100, 25))

	mux.Get("/health", middleware.HealthHandler(deps.Health))
	mux.Get("/ready", middleware.ReadinessHandler)
	mux.Get("/live", middleware.LivenessHandler)
	mux.Get("/metrics", middleware.MetricsHandler)

	mux.Route("/v1/{user}", func(rt chi.Router) {
		rt.Use(middleware.RequireOwnUser(func(req *http.Request) string {
			return chi.URLParam(req, "user")
		}))

		rt.Post("/analyses", r.wrap(r.handleSubmitAnalysis))
		rt.Get("/analyses", r.wrap(r.handleListAnalyses))
		rt.Get("/analyses/latest", r.wrap(r.handleLatestAnalysis))
		rt.Get("/analyses/{id}", r.wrap(r.handleGetAnalysis))
		rt.Get("/analyses/{id}/wait", r.wrap(r.handleWaitAnalysis))
		rt.Get("/analyses/{id}/faults", r.wrap(r.handleAnalysisFaults))

		rt.Post("/labs", r.wrap(r.handleCreateLab))
		rt.Get("/labs", r.wrap(r.handleListLabs))
		rt.Get("/labs/types", r.wrap(r.handleLabTypes))
		rt.Get("/labs/trends", r.wrap(r.handleLabTrends))
		rt.Post("/labs/import", r.wrap(r.handleImportLabs))
		rt.Get("/labs/{id}", r.wrap(r.handleGetLab))
		rt.Put("/labs/{id}", r.wrap(r.handleUpdateLab))
		rt.Delete("/labs/{id}", r.wrap(r.handleDeleteLab))

		rt.Post("/checkins", r.wrap(r.handleCreateCheckin))
		rt.Get("/checkins", r.wrap(r.handleListCheckins))

		rt.Post("/medications", r.wrap(r.handleCreateMedication))
		rt.Get("/medications", r.wrap(r.handleListMedications))
		rt.Delete("/medications/{id}", r.wrap(r.handleDeleteMedication))

		rt.Get("/profile", r.wrap(r.handleGetProfile))
		rt.Put("/profile", r.wrap(r.handleUpsertProfile))

		rt.Post("/reports/export", r.wrap(r.handleExportReport))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

// badRequestError marks handler-level input errors so wrap maps them to 400
type badRequestError struct{ msg string }

func (e badRequestError) Error() string { return e.msg }

func badRequestf(format string, args ...any) error {
	return badRequestError{msg: fmt.Sprintf(format, args...)}
}

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			var br badRequestError
			switch {
			case errors.As(err, &br):
				http.Error(w, br.msg, http.StatusBadRequest)
			case errors.Is(err, domanalysis.ErrInvalidRequest):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, sql.ErrNoRows),
				errors.Is(err, domanalysis.ErrNotFound),
				errors.Is(err, domlabs.ErrNotFound),
				errors.Is(err, domprofiles.ErrNotFound):
				http.Error(w, "not found", http.StatusNotFound)
			case errors.Is(err, domai.ErrQuotaExceeded):
				http.Error(w, "ai quota exceeded", http.StatusTooManyRequests)
			case errors.Is(err, appanalysis.ErrWaitTimeout):
				http.Error(w, err.Error(), http.StatusGatewayTimeout)
			default:
				http.Error(w, err.Error(), http.StatusInternalServerError)
			}
		}
	}
}

func writeJSON(w http.ResponseWriter, v any) error {
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(v)
}

//
// ==== ANALYSES ====
//

// POST /v1/{user}/analyses
// Body: {"observations": [{"test_type","result"}], "follow_up_question"?, "prior_narrative"?}
// Returns {"id": "..."} immediately; the narrative is produced out-of-band.
func (r *Router) handleSubmitAnalysis(w http.ResponseWriter, req *http.Request) error {
	user := chi.URLParam(req, "user")
	if err := middleware.ValidateUserID(user); err != nil {
		return badRequestf("%v", err)
	}

	var body struct {
		Observations     []domanalysis.Observation `json:"observations"`
		FollowUpQuestion string                    `json:"follow_up_question"`
		PriorNarrative   string                    `json:"prior_narrative"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return badRequestf("invalid request body: %v", err)
	}

	middleware.IncrementAnalyses()
	id, err := r.deps.Analyses.Submit(req.Context(), domanalysis.Request{
		UserID:           user,
		Observations:     body.Observations,
		FollowUpQuestion: body.FollowUpQuestion,
		PriorNarrative:   body.PriorNarrative,
	})
	if err != nil {
		middleware.IncrementAnalysesFailed()
		return err
	}

	return writeJSON(w, map[string]any{"id": id, "status": domanalysis.StatusProcessing})
}

// GET /v1/{user}/analyses?page=&page_size=
func (r *Router) handleListAnalyses(w http.ResponseWriter, req *http.Request) error {
	user := chi.URLParam(req, "user")
	page, _ := strconv.Atoi(req.URL.Query().Get("page"))
	size, _ := strconv.Atoi(req.URL.Query().Get("page_size"))

	list, err := r.deps.Analyses.Paginate(req.Context(), user, page, middleware.ValidatePageSize(size))
	if err != nil {
		return err
	}
	return writeJSON(w, list)
}

// GET /v1/{user}/analyses/latest
func (r *Router) handleLatestAnalysis(w http.ResponseWriter, req *http.Request) error {
	user := chi.URLParam(req, "user")
	a, err := r.deps.Analyses.Latest(req.Context(), user)
	if err != nil {
		return err
	}
	return writeJSON(w, a)
}

// GET /v1/{user}/analyses/{id} — the poll read
func (r *Router) handleGetAnalysis(w http.ResponseWriter, req *http.Request) error {
	user := chi.URLParam(req, "user")
	id := chi.URLParam(req, "id")
	if err := middleware.ValidateAnalysisID(id); err != nil {
		return badRequestf("%v", err)
	}

	a, err := r.deps.Analyses.Get(req.Context(), user, domanalysis.AnalysisID(id))
	if err != nil {
		return err
	}
	return writeJSON(w, a)
}

// GET /v1/{user}/analyses/{id}/wait — server-side long-poll over the watcher
func (r *Router) handleWaitAnalysis(w http.ResponseWriter, req *http.Request) error {
	user := chi.URLParam(req, "user")
	id := chi.URLParam(req, "id")
	if err := middleware.ValidateAnalysisID(id); err != nil {
		return badRequestf("%v", err)
	}

	a, err := r.deps.Watcher.Await(req.Context(), user, domanalysis.AnalysisID(id))
	if err != nil {
		return err
	}
	return writeJSON(w, a)
}

// GET /v1/{user}/analyses/{id}/faults?limit=
func (r *Router) handleAnalysisFaults(w http.ResponseWriter, req *http.Request) error {
	user := chi.URLParam(req, "user")
	id := chi.URLParam(req, "id")
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))

	list, err := r.deps.Analyses.ListFaults(req.Context(), user, id, middleware.ValidateLimit(limit))
	if err != nil {
		return err
	}
	return writeJSON(w, list)
}

//
// ==== LABS ====
//

// POST /v1/{user}/labs
func (r *Router) handleCreateLab(w http.ResponseWriter, req *http.Request) error {
	user := chi.URLParam(req, "user")

	var body struct {
		TestType   string `json:"test_type"`
		TestResult string `json:"test_result"`
		TestUnit   string `json:"test_unit"`
		TestDate   string `json:"test_date"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return badRequestf("invalid request body: %v", err)
	}
	if err := middleware.ValidateTestType(body.TestType); err != nil {
		return badRequestf("%v", err)
	}
	if err := middleware.ValidateDate(body.TestDate); err != nil {
		return badRequestf("%v", err)
	}

	l, err := r.deps.Labs.Create(req.Context(), applabs.CreateLabCommand{
		UserID:     user,
		TestType:   body.TestType,
		TestResult: body.TestResult,
		TestUnit:   body.TestUnit,
		TestDate:   body.TestDate,
	})
	if err != nil {
		return err
	}
	return writeJSON(w, l)
}

// GET /v1/{user}/labs?filter_field=&filter_term=
func (r *Router) handleListLabs(w http.ResponseWriter, req *http.Request) error {
	user := chi.URLParam(req, "user")
	field := req.URL.Query().Get("filter_field")
	term := req.URL.Query().Get("filter_term")

	list, err := r.deps.Labs.List(req.Context(), user, field, term)
	if err != nil {
		return err
	}
	return writeJSON(w, list)
}

// GET /v1/{user}/labs/types
func (r *Router) handleLabTypes(w http.ResponseWriter, req *http.Request) error {
	list, err := r.deps.Labs.Types(req.Context())
	if err != nil {
		return err
	}
	return writeJSON(w, list)
}

// GET /v1/{user}/labs/trends?test_type=
func (r *Router) handleLabTrends(w http.ResponseWriter, req *http.Request) error {
	user := chi.URLParam(req, "user")
	testType := req.URL.Query().Get("test_type")
	if err := middleware.ValidateTestType(testType); err != nil {
		return badRequestf("%v", err)
	}

	series, err := r.deps.Labs.Trends(req.Context(), user, testType)
	if err != nil {
		return err
	}
	return writeJSON(w, series)
}

// POST /v1/{user}/labs/import — CSV body
func (r *Router) handleImportLabs(w http.ResponseWriter, req *http.Request) error {
	user := chi.URLParam(req, "user")

	parsed, err := domlabs.ParseCSV(req.Body)
	if err != nil {
		return badRequestf("%v", err)
	}

	saved, err := r.deps.Labs.Import(req.Context(), user, parsed)
	if err != nil {
		return err
	}
	return writeJSON(w, map[string]any{"imported": saved, "skipped": parsed.Skipped})
}

// GET /v1/{user}/labs/{id}
func (r *Router) handleGetLab(w http.ResponseWriter, req *http.Request) error {
	user := chi.URLParam(req, "user")
	id := chi.URLParam(req, "id")

	l, err := r.deps.Labs.Get(req.Context(), user, domlabs.LabID(id))
	if err != nil {
		return err
	}
	return writeJSON(w, l)
}

// PUT /v1/{user}/labs/{id}
func (r *Router) handleUpdateLab(w http.ResponseWriter, req *http.Request) error {
	user := chi.URLParam(req, "user")
	id := chi.URLParam(req, "id")

	var body struct {
		TestType   string `json:"test_type"`
		TestResult string `json:"test_result"`
		TestUnit   string `json:"test_unit"`
		TestDate   string `json:"test_date"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return badRequestf("invalid request body: %v", err)
	}

	l, err := r.deps.Labs.Update(req.Context(), user, domlabs.LabID(id), applabs.CreateLabCommand{
		TestType:   body.TestType,
		TestResult: body.TestResult,
		TestUnit:   body.TestUnit,
		TestDate:   body.TestDate,
	})
	if err != nil {
		return err
	}
	return writeJSON(w, l)
}

// DELETE /v1/{user}/labs/{id}
func (r *Router) handleDeleteLab(w http.ResponseWriter, req *http.Request) error {
	user := chi.URLParam(req, "user")
	id := chi.URLParam(req, "id")

	if err := r.deps.Labs.Delete(req.Context(), user, domlabs.LabID(id)); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

//
// ==== CHECK-INS ====
//

// POST /v1/{user}/checkins
func (r *Router) handleCreateCheckin(w http.ResponseWriter, req *http.Request) error {
	user := chi.URLParam(req, "user")

	var body struct {
		CheckDate     string  `json:"check_date"`
		SleepHours    float64 `json:"sleep_hours"`
		ExerciseHours float64 `json:"exercise_hours"`
		WaterIntake   float64 `json:"water_intake"`
		Feeling       int     `json:"feeling"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return badRequestf("invalid request body: %v", err)
	}
	if err := middleware.ValidateDate(body.CheckDate); err != nil {
		return badRequestf("%v", err)
	}

	c, err := r.deps.Checkins.Create(req.Context(), appcheckins.CreateCheckCommand{
		UserID:        user,
		CheckDate:     body.CheckDate,
		SleepHours:    body.SleepHours,
		ExerciseHours: body.ExerciseHours,
		WaterIntake:   body.WaterIntake,
		Feeling:       body.Feeling,
	})
	if err != nil {
		return err
	}
	return writeJSON(w, c)
}

// GET /v1/{user}/checkins?limit=
func (r *Router) handleListCheckins(w http.ResponseWriter, req *http.Request) error {
	user := chi.URLParam(req, "user")
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))

	list, err := r.deps.Checkins.List(req.Context(), user, middleware.ValidateLimit(limit))
	if err != nil {
		return err
	}
	return writeJSON(w, list)
}

//
// ==== MEDICATIONS ====
//

// POST /v1/{user}/medications
func (r *Router) handleCreateMedication(w http.ResponseWriter, req *http.Request) error {
	user := chi.URLParam(req, "user")

	var body struct {
		Name      string `json:"name"`
		Dosage    string `json:"dosage"`
		Frequency string `json:"frequency"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return badRequestf("invalid request body: %v", err)
	}
	if body.Name == "" {
		return badRequestf("name is required")
	}

	m, err := r.deps.Medications.Create(req.Context(), user, body.Name, body.Dosage, body.Frequency)
	if err != nil {
		return err
	}
	return writeJSON(w, m)
}

// GET /v1/{user}/medications
func (r *Router) handleListMedications(w http.ResponseWriter, req *http.Request) error {
	user := chi.URLParam(req, "user")
	list, err := r.deps.Medications.List(req.Context(), user)
	if err != nil {
		return err
	}
	return writeJSON(w, list)
}

// DELETE /v1/{user}/medications/{id}
func (r *Router) handleDeleteMedication(w http.ResponseWriter, req *http.Request) error {
	user := chi.URLParam(req, "user")
	id, err := strconv.ParseInt(chi.URLParam(req, "id"), 10, 64)
	if err != nil {
		return badRequestf("invalid medication id")
	}

	if err := r.deps.Medications.Delete(req.Context(), user, id); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

//
// ==== PROFILE ====
//

// GET /v1/{user}/profile
func (r *Router) handleGetProfile(w http.ResponseWriter, req *http.Request) error {
	user := chi.URLParam(req, "user")
	p, err := r.deps.Profiles.Get(req.Context(), user)
	if err != nil {
		return err
	}
	return writeJSON(w, p)
}

// PUT /v1/{user}/profile
func (r *Router) handleUpsertProfile(w http.ResponseWriter, req *http.Request) error {
	user := chi.URLParam(req, "user")

	var body struct {
		Age       int    `json:"age"`
		Sex       string `json:"sex"`
		Ethnicity string `json:"ethnicity"`
		Location  string `json:"location"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return badRequestf("invalid request body: %v", err)
	}
	if body.Age <= 0 || body.Sex == "" || body.Ethnicity == "" || body.Location == "" {
		return badRequestf("age, sex, ethnicity and location are required")
	}

	p := &domprofiles.Profile{
		UserID:    user,
		Age:       body.Age,
		Sex:       body.Sex,
		Ethnicity: body.Ethnicity,
		Location:  body.Location,
	}
	if err := r.deps.Profiles.Upsert(req.Context(), p); err != nil {
		return err
	}
	return writeJSON(w, p)
}

//
// ==== REPORTS ====
//

// POST /v1/{user}/reports/export
func (r *Router) handleExportReport(w http.ResponseWriter, req *http.Request) error {
	user := chi.URLParam(req, "user")
	if r.deps.Reports == nil {
		return fmt.Errorf("report export is not configured")
	}

	exp, err := r.deps.Reports.Export(req.Context(), user)
	if err != nil {
		return err
	}
	return writeJSON(w, exp)
}
