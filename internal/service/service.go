package service

import (
	"context"
	"time"

	"github.com/poolpass/pool-booking/internal/entity"
)

// SwimAbilityChecker is the external member-directory capability check. A
// failed check must not silently permit booking, callers wrap its errors.
type SwimAbilityChecker interface {
	HasSwimAbility(ctx context.Context, memberID int64) (bool, error)
}

// EventPublisher is the narrow notification collaborator. Implementations
// deliver reservation lifecycle events to whoever listens downstream.
type EventPublisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
}

// HolidayCache is the key-value cache behind the holiday calendar. Get must
// return an error on a miss.
type HolidayCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Incr(ctx context.Context, key string) error
}

// CreateReservationRequest carries a booking attempt.
type CreateReservationRequest struct {
	MemberID   int64 `json:"member_id" binding:"required"`
	TimeslotID int64 `json:"timeslot_id" binding:"required"`
	PackageID  int64 `json:"package_id" binding:"required"`
}

// AvailableTimeslotsRequest scopes the availability listing to one member,
// package, facility and date.
type AvailableTimeslotsRequest struct {
	MemberID   int64
	PackageID  int64
	FacilityID int64
	Date       time.Time
}

// SweepResult reports one run of the missed-reservation sweep.
type SweepResult struct {
	Found  int `json:"found"`
	Swept  int `json:"swept"`
	Failed int `json:"failed"`
}

// GenerationResult reports one run of the timeslot generator.
type GenerationResult struct {
	FacilitiesProcessed int `json:"facilities_processed"`
	FacilitiesSkipped   int `json:"facilities_skipped"`
	SlotsCreated        int `json:"slots_created"`
}

type BookingService interface {
	CreateReservation(ctx context.Context, req *CreateReservationRequest) (*entity.Reservation, error)
	CancelReservation(ctx context.Context, reservationID, memberID int64) error
	MarkCompleted(ctx context.Context, reservationID int64) error
	MarkNoShow(ctx context.Context, reservationID int64) error
	SweepMissedReservations(ctx context.Context) (*SweepResult, error)
	ListAvailableTimeslots(ctx context.Context, req *AvailableTimeslotsRequest) ([]*entity.Timeslot, error)

	GetReservation(ctx context.Context, id int64) (*entity.Reservation, error)
	GetMemberReservations(ctx context.Context, memberID int64) ([]*entity.Reservation, error)
}

type TimeslotService interface {
	GenerateTimeslots(ctx context.Context) (*GenerationResult, error)
	// EnsureMinimumAvailability triggers a full generation pass only when
	// some active facility has a day without slots in the near lookahead.
	EnsureMinimumAvailability(ctx context.Context) (*GenerationResult, error)
}

// CreateWindowRequest creates an education window.
type CreateWindowRequest struct {
	Weekdays  []time.Weekday `json:"weekdays" binding:"required"`
	StartTime entity.Clock   `json:"start_time"`
	EndTime   entity.Clock   `json:"end_time"`
	Active    *bool          `json:"active"`
}

// UpdateWindowRequest is a partial update: nil fields keep their value.
type UpdateWindowRequest struct {
	Weekdays  []time.Weekday `json:"weekdays"`
	StartTime *entity.Clock  `json:"start_time"`
	EndTime   *entity.Clock  `json:"end_time"`
	Active    *bool          `json:"active"`
}

type EducationService interface {
	// ResolveEducation reports whether a slot starting at start on date is an
	// education session.
	ResolveEducation(ctx context.Context, date time.Time, start entity.Clock) (bool, error)
	// Snapshot returns the active window set for in-memory evaluation across
	// many slots.
	Snapshot(ctx context.Context) (WindowSet, error)

	CreateWindow(ctx context.Context, req *CreateWindowRequest) (*entity.EducationWindow, error)
	GetWindow(ctx context.Context, id int64) (*entity.EducationWindow, error)
	ListWindows(ctx context.Context) ([]*entity.EducationWindow, error)
	UpdateWindow(ctx context.Context, id int64, req *UpdateWindowRequest) (*entity.EducationWindow, error)
	DeleteWindow(ctx context.Context, id int64) error
}

type HolidayService interface {
	IsHoliday(ctx context.Context, date time.Time) (bool, error)
	DatesInRange(ctx context.Context, from, to time.Time) ([]time.Time, error)

	ListInRange(ctx context.Context, from, to time.Time) ([]*entity.Holiday, error)
	AddCustom(ctx context.Context, date time.Time, description string) (*entity.Holiday, error)
	RemoveCustom(ctx context.Context, id int64) error
}

type CheckInService interface {
	IssueToken(ctx context.Context, reservationID, memberID int64) (string, error)
	// ConsumeToken verifies the token, requires the caller to be the embedded
	// member and the current time to lie inside the session window, then
	// completes the reservation.
	ConsumeToken(ctx context.Context, tokenStr string, memberID int64) error
}
