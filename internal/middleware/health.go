package middleware

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"time"
)

// HealthChecker is one dependency probe
type HealthChecker interface {
	Check(ctx context.Context) error
}

// DatabaseHealthChecker pings the records database
type DatabaseHealthChecker struct {
	DB *sql.DB
}

func (d *DatabaseHealthChecker) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return d.DB.PingContext(ctx)
}

// HealthHandler runs every registered probe and reports ok or degraded.
// A degraded response carries the failing probe's error text.
func HealthHandler(checkers map[string]HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		status := "ok"
		checks := map[string]string{}
		for name, checker := range checkers {
			if err := checker.Check(ctx); err != nil {
				status = "degraded"
				checks[name] = err.Error()
			} else {
				checks[name] = "ok"
			}
		}

		code := http.StatusOK
		if status != "ok" {
			code = http.StatusServiceUnavailable
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		json.NewEncoder(w).Encode(map[string]any{
			"status": status,
			"time":   time.Now().UTC(),
			"checks": checks,
		})
	}
}

// ReadinessHandler answers readiness probes
func ReadinessHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ready"})
}

// LivenessHandler answers liveness probes
func LivenessHandler(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("ok"))
}
