package entity

import (
	"time"
)

type Timeslot struct {
	ID          int64     `json:"id" db:"id"`
	FacilityID  int64     `json:"facility_id" db:"facility_id"`
	Date        time.Time `json:"date" db:"date"`
	StartTime   Clock     `json:"start_time" db:"start_time"`
	EndTime     Clock     `json:"end_time" db:"end_time"`
	Capacity    int       `json:"capacity" db:"capacity"`
	Occupancy   int       `json:"occupancy" db:"occupancy"`
	IsEducation bool      `json:"is_education" db:"is_education"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// StartAt returns the full session start timestamp.
func (t *Timeslot) StartAt() time.Time {
	return t.StartTime.On(t.Date)
}

// EndAt returns the full session end timestamp.
func (t *Timeslot) EndAt() time.Time {
	return t.EndTime.On(t.Date)
}

func (t *Timeslot) IsFull() bool {
	return t.Occupancy >= t.Capacity
}

// Overlaps reports whether two slots intersect as half-open [start, end)
// intervals on the same date.
func (t *Timeslot) Overlaps(other *Timeslot) bool {
	if !sameDay(t.Date, other.Date) {
		return false
	}
	return t.StartTime < other.EndTime && t.EndTime > other.StartTime
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
