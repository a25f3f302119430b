package entity

import (
	"time"
)

// Holiday is a non-bookable calendar date. Fixed holidays are seeded by
// migration and cannot be removed; custom ones are administrator-managed.
type Holiday struct {
	ID          int64     `json:"id" db:"id"`
	Date        time.Time `json:"date" db:"date"`
	Description string    `json:"description" db:"description"`
	Fixed       bool      `json:"fixed" db:"fixed"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
