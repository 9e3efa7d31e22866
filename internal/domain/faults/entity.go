package faults

import "time"

// Fault represents a persisted failure entry for one analysis lifecycle
type Fault struct {
	ID          int64     `json:"id"`
	UserID      string    `json:"user_id"`
	AnalysisID  string    `json:"analysis_id"`
	Phase       string    `json:"phase,omitempty"` // dispatch | save | other
	Message     string    `json:"message"`
	DetailsJSON string    `json:"details_json,omitempty"` // raw JSON string
	CreatedAt   time.Time `json:"created_at"`
}
