package checkins

import "time"

// DailyCheck is one wellness check-in; one row per user per day is the
// expectation but duplicates are not rejected here.
type DailyCheck struct {
	ID            int64     `json:"id"`
	UserID        string    `json:"user_id"`
	CheckDate     string    `json:"check_date"` // YYYY-MM-DD
	SleepHours    float64   `json:"sleep_hours"`
	ExerciseHours float64   `json:"exercise_hours"`
	WaterIntake   float64   `json:"water_intake"` // liters
	Feeling       int       `json:"feeling"`      // 1-10
	CreatedAt     time.Time `json:"created_at"`
}
