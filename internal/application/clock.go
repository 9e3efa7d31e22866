package application

import "time"

// Clock interface supaya gampang ditest
type Clock interface {
	Now() time.Time
}

// SystemClock implementasi default. Semua timestamp disimpan UTC; date
// strings like test_date are compared lexicographically so the zone matters.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }
