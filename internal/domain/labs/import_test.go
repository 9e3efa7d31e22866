package labs

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCSVHeaderAliases(t *testing.T) {
	csv := "Test,Value,Units,Collected\nGlucose,110,mg/dL,2026-08-01\nHDL,58,mg/dL,08/15/2026\n"
	res, err := ParseCSV(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, res.Labs, 2)
	assert.Zero(t, res.Skipped)

	assert.Equal(t, "Glucose", res.Labs[0].TestType)
	assert.Equal(t, "110", res.Labs[0].TestResult)
	assert.Equal(t, "mg/dL", res.Labs[0].TestUnit)
	assert.Equal(t, "2026-08-01", res.Labs[0].TestDate)

	// US-style dates are canonicalized
	assert.Equal(t, "2026-08-15", res.Labs[1].TestDate)
}

func TestParseCSVSkipsBadRows(t *testing.T) {
	csv := strings.Join([]string{
		"test_type,test_result,test_date",
		"Glucose,110,2026-08-01",
		",58,2026-08-01",          // no test type
		"HDL,,2026-08-01",         // no result
		"LDL,95,sometime in july", // unparseable date
		"A1C,5.4,2026-08-02",
	}, "\n")
	res, err := ParseCSV(strings.NewReader(csv))
	require.NoError(t, err)
	assert.Len(t, res.Labs, 2)
	assert.Equal(t, 3, res.Skipped)
}

func TestParseCSVRejectsUnknownHeader(t *testing.T) {
	_, err := ParseCSV(strings.NewReader("foo,bar\n1,2\n"))
	assert.Error(t, err)

	// a result column alone is not enough either
	_, err = ParseCSV(strings.NewReader("value,date\n110,2026-08-01\n"))
	assert.Error(t, err)
}

func TestParseCSVEmptyInput(t *testing.T) {
	_, err := ParseCSV(strings.NewReader(""))
	assert.Error(t, err)
}

func TestNormalizeDate(t *testing.T) {
	cases := map[string]string{
		"2026-08-01":           "2026-08-01",
		"08/01/2026":           "2026-08-01",
		"8/1/2026":             "2026-08-01",
		"01-Aug-2026":          "2026-08-01",
		"2026-08-01T10:00:00Z": "2026-08-01",
		"yesterday":            "",
		"":                     "",
	}
	for in, want := range cases {
		assert.Equal(t, want, normalizeDate(in), "input %q", in)
	}
}
