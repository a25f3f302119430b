package entity

import (
	"time"
)

// EducationWindow is a coach-configured recurring time range that marks
// intersecting timeslots as education sessions.
type EducationWindow struct {
	ID        int64          `json:"id" db:"id"`
	Weekdays  []time.Weekday `json:"weekdays" db:"weekdays"`
	StartTime Clock          `json:"start_time" db:"start_time"`
	EndTime   Clock          `json:"end_time" db:"end_time"`
	Active    bool           `json:"active" db:"active"`
	CreatedAt time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt time.Time      `json:"updated_at" db:"updated_at"`
}

// Covers reports whether a slot starting at start on the given weekday falls
// inside this window.
func (w *EducationWindow) Covers(day time.Weekday, start Clock) bool {
	for _, d := range w.Weekdays {
		if d == day {
			return w.StartTime <= start && start < w.EndTime
		}
	}
	return false
}
