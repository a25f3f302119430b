package entity

import (
	"time"
)

type ReservationStatus string

const (
	ReservationStatusConfirmed ReservationStatus = "confirmed"
	ReservationStatusCancelled ReservationStatus = "cancelled"
	ReservationStatusCompleted ReservationStatus = "completed"
	ReservationStatusNoShow    ReservationStatus = "no_show"
)

type Reservation struct {
	ID         int64             `json:"id" db:"id"`
	MemberID   int64             `json:"member_id" db:"member_id"`
	TimeslotID int64             `json:"timeslot_id" db:"timeslot_id"`
	PackageID  int64             `json:"package_id" db:"package_id"`
	Status     ReservationStatus `json:"status" db:"status"`
	CreatedAt  time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at" db:"updated_at"`
}

// MissedReservation is a confirmed reservation whose session has already
// ended, joined with its timeslot for the no-show sweep.
type MissedReservation struct {
	ReservationID int64     `json:"reservation_id"`
	MemberID      int64     `json:"member_id"`
	TimeslotID    int64     `json:"timeslot_id"`
	FacilityID    int64     `json:"facility_id"`
	Date          time.Time `json:"date"`
	EndTime       Clock     `json:"end_time"`
}
