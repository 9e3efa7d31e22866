package medications

import "time"

// Medication is one entry on the user's current medication list
type Medication struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Dosage    string    `json:"dosage,omitempty"`
	Frequency string    `json:"frequency,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
