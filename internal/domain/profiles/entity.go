package profiles

import (
	"errors"
	"time"
)

// ErrNotFound indicates no profile row exists for the user.
var ErrNotFound = errors.New("profile not found")

// Profile holds the subject attributes used to contextualize analysis prompts.
type Profile struct {
	UserID    string    `json:"user_id"`
	Age       int       `json:"age"`
	Sex       string    `json:"sex"`
	Ethnicity string    `json:"ethnicity,omitempty"`
	Location  string    `json:"location,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Complete reports whether the fields needed for a seed prompt are present.
func (p *Profile) Complete() bool {
	return p != nil && p.Age > 0 && p.Sex != ""
}
