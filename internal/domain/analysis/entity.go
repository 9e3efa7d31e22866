package analysis

import (
	"time"
)

// ID tipe untuk Analysis
type AnalysisID string

// Status enum
type Status string

const (
	StatusProcessing Status = "processing"
	StatusComplete   Status = "complete"
	StatusError      Status = "error"
)

// Terminal reports whether no further status transitions are permitted.
func (s Status) Terminal() bool {
	return s == StatusComplete || s == StatusError
}

// Aggregate Root: Analysis
// One row per submitted request; written once at creation (processing) and once
// more by the dispatch goroutine when the provider call resolves.
type Analysis struct {
	ID        AnalysisID `json:"id"`
	UserID    string     `json:"user_id"`
	Status    Status     `json:"status"`
	Result    string     `json:"result,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}
