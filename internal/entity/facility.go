package entity

import (
	"time"
)

// Facility is a bookable pool. Open and close hours are kept as raw strings
// and parsed at generation time, a facility with bad hours must not break
// anything but its own slot generation.
type Facility struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	OpenTime  string    `json:"open_time" db:"open_time"`
	CloseTime string    `json:"close_time" db:"close_time"`
	Capacity  int       `json:"capacity" db:"capacity"`
	Active    bool      `json:"active" db:"active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
