package entity

import (
	"time"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

// MemberPackage is a member's prepaid entitlement with a remaining-session
// balance. FacilityID is nil when the package is valid at any facility.
type MemberPackage struct {
	ID                int64         `json:"id" db:"id"`
	MemberID          int64         `json:"member_id" db:"member_id"`
	PackageTypeID     int64         `json:"package_type_id" db:"package_type_id"`
	FacilityID        *int64        `json:"facility_id,omitempty" db:"facility_id"`
	RemainingSessions int           `json:"remaining_sessions" db:"remaining_sessions"`
	Active            bool          `json:"active" db:"active"`
	PaymentStatus     PaymentStatus `json:"payment_status" db:"payment_status"`
	CreatedAt         time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at" db:"updated_at"`
}

// PackageType is the entitlement template. Read-only for the booking engine.
type PackageType struct {
	ID               int64     `json:"id" db:"id"`
	Name             string    `json:"name" db:"name"`
	AllowedStart     Clock     `json:"allowed_start" db:"allowed_start"`
	AllowedEnd       Clock     `json:"allowed_end" db:"allowed_end"`
	EducationOnly    bool      `json:"education_only" db:"education_only"`
	RequiresSwimming bool      `json:"requires_swimming" db:"requires_swimming"`
	TotalSessions    int       `json:"total_sessions" db:"total_sessions"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
}

// AllowsSlot reports whether a slot's [start, end) fits inside the type's
// allowed time-of-day window.
func (t *PackageType) AllowsSlot(start, end Clock) bool {
	return start >= t.AllowedStart && end <= t.AllowedEnd
}
