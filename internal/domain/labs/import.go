package labs

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"
)

// ImportResult summarizes one bulk import parse.
type ImportResult struct {
	Labs    []*Lab
	Skipped int
}

// header aliases seen across common lab export formats
var importColumns = map[string]string{
	"test_type":   "test_type",
	"test":        "test_type",
	"type":        "test_type",
	"test_result": "test_result",
	"result":      "test_result",
	"value":       "test_result",
	"test_unit":   "test_unit",
	"unit":        "test_unit",
	"units":       "test_unit",
	"test_date":   "test_date",
	"date":        "test_date",
	"collected":   "test_date",
}

// ParseCSV reads a lab export with a header row and returns the parseable rows.
// Rows missing a test type, result, or date are skipped rather than failing the
// whole file; a file whose header has no recognizable columns is an error.
func ParseCSV(r io.Reader) (*ImportResult, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	idx := map[string]int{}
	for i, col := range header {
		key := strings.ToLower(strings.TrimSpace(col))
		if canonical, ok := importColumns[key]; ok {
			if _, dup := idx[canonical]; !dup {
				idx[canonical] = i
			}
		}
	}
	if _, ok := idx["test_type"]; !ok {
		return nil, fmt.Errorf("csv header has no test type column")
	}
	if _, ok := idx["test_result"]; !ok {
		return nil, fmt.Errorf("csv header has no result column")
	}

	field := func(rec []string, name string) string {
		i, ok := idx[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	out := &ImportResult{}
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// malformed line, keep going
			out.Skipped++
			continue
		}
		l := &Lab{
			TestType:   field(rec, "test_type"),
			TestResult: field(rec, "test_result"),
			TestUnit:   field(rec, "test_unit"),
			TestDate:   normalizeDate(field(rec, "test_date")),
		}
		if l.TestType == "" || l.TestResult == "" || l.TestDate == "" {
			out.Skipped++
			continue
		}
		out.Labs = append(out.Labs, l)
	}
	return out, nil
}

// normalizeDate accepts the date layouts lab exports actually use and
// canonicalizes to YYYY-MM-DD. Unparseable dates return "".
func normalizeDate(s string) string {
	if s == "" {
		return ""
	}
	layouts := []string{"2006-01-02", "01/02/2006", "1/2/2006", "02-Jan-2006", time.RFC3339}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return ""
}
