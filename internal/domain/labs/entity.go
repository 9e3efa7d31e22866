package labs

import (
	"errors"
	"time"
)

// ErrNotFound indicates no lab row exists for the given user and id.
var ErrNotFound = errors.New("lab not found")

// ID tipe untuk Lab
type LabID string

// Lab is one recorded test result. TestResult stays a string because panels
// mix numeric values with qualitative ones ("negative", "trace").
type Lab struct {
	ID         LabID     `json:"id"`
	UserID     string    `json:"user_id"`
	TestType   string    `json:"test_type"`
	TestResult string    `json:"test_result"`
	TestUnit   string    `json:"test_unit,omitempty"`
	TestDate   string    `json:"test_date"` // YYYY-MM-DD
	CreatedAt  time.Time `json:"created_at"`
}

// StandardLab is one catalog entry used for test-type suggestions and unit autofill.
type StandardLab struct {
	Test string `json:"standard_test"`
	Unit string `json:"standard_unit"`
}

// TrendPoint is one chartable sample of a single test type.
type TrendPoint struct {
	Date   string  `json:"date"` // YYYY-MM-DD
	Result float64 `json:"result"`
	Unit   string  `json:"unit,omitempty"`
}

// TrendSeries is the per-test-type series the charts consume, date ascending.
type TrendSeries struct {
	TestType string       `json:"test_type"`
	Points   []TrendPoint `json:"points"`
	Min      float64      `json:"min"`
	Max      float64      `json:"max"`
	Unit     string       `json:"unit,omitempty"`
}
