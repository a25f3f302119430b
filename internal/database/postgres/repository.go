package repository

import (
	"context"
	"time"

	"github.com/poolpass/pool-booking/internal/entity"
)

type TimeslotRepository interface {
	// Basic operations
	Create(ctx context.Context, slot *entity.Timeslot) error
	GetByID(ctx context.Context, id int64) (*entity.Timeslot, error)
	GetByFacilityAndDate(ctx context.Context, facilityID int64, date time.Time) ([]*entity.Timeslot, error)

	// Generator support
	ExistingStartKeys(ctx context.Context, facilityID int64, from, to time.Time) (map[string]struct{}, error)
	CountByFacilityAndDate(ctx context.Context, facilityID int64, date time.Time) (int, error)
}

type ReservationRepository interface {
	// CreateConfirmed commits the reservation insert together with the
	// occupancy and balance updates in one transaction.
	CreateConfirmed(ctx context.Context, res *entity.Reservation) error
	// Cancel reverses the counters and flips the status in one transaction.
	Cancel(ctx context.Context, id int64) error
	// TransitionStatus moves a reservation from one status to another,
	// rejecting any other starting status.
	TransitionStatus(ctx context.Context, id int64, from, to entity.ReservationStatus) error

	GetByID(ctx context.Context, id int64) (*entity.Reservation, error)
	GetByMemberID(ctx context.Context, memberID int64) ([]*entity.Reservation, error)
	HasConfirmed(ctx context.Context, memberID, timeslotID int64) (bool, error)
	// ConfirmedSlotsByMemberAndDate returns the timeslots of the member's
	// confirmed reservations on the given date, for overlap checks.
	ConfirmedSlotsByMemberAndDate(ctx context.Context, memberID int64, date time.Time) ([]*entity.Timeslot, error)
	// GetMissed returns confirmed reservations whose session end has passed.
	GetMissed(ctx context.Context, now time.Time) ([]*entity.MissedReservation, error)
}

type PackageRepository interface {
	GetByID(ctx context.Context, id int64) (*entity.MemberPackage, error)
	GetByMemberID(ctx context.Context, memberID int64) ([]*entity.MemberPackage, error)
	GetTypeByID(ctx context.Context, id int64) (*entity.PackageType, error)
}

type FacilityRepository interface {
	GetByID(ctx context.Context, id int64) (*entity.Facility, error)
	GetActive(ctx context.Context) ([]*entity.Facility, error)
}

type EducationWindowRepository interface {
	Create(ctx context.Context, window *entity.EducationWindow) error
	GetByID(ctx context.Context, id int64) (*entity.EducationWindow, error)
	GetActive(ctx context.Context) ([]*entity.EducationWindow, error)
	GetAll(ctx context.Context) ([]*entity.EducationWindow, error)
	Update(ctx context.Context, window *entity.EducationWindow) error
	Delete(ctx context.Context, id int64) error
}

type HolidayRepository interface {
	Create(ctx context.Context, holiday *entity.Holiday) error
	GetByID(ctx context.Context, id int64) (*entity.Holiday, error)
	GetByDate(ctx context.Context, date time.Time) (*entity.Holiday, error)
	GetInRange(ctx context.Context, from, to time.Time) ([]*entity.Holiday, error)
	Delete(ctx context.Context, id int64) error
}
