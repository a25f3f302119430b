package entity

import "errors"

var (
	// Not-found errors
	ErrTimeslotNotFound        = errors.New("timeslot not found")
	ErrReservationNotFound     = errors.New("reservation not found")
	ErrPackageNotFound         = errors.New("member package not found")
	ErrPackageTypeNotFound     = errors.New("package type not found")
	ErrFacilityNotFound        = errors.New("facility not found")
	ErrEducationWindowNotFound = errors.New("education window not found")
	ErrHolidayNotFound         = errors.New("holiday not found")

	// Booking rule violations
	ErrTimeslotFull           = errors.New("timeslot has no free capacity")
	ErrPackageNotOwned        = errors.New("package does not belong to this member")
	ErrPackageInactive        = errors.New("package is not active")
	ErrPackageExhausted       = errors.New("package has no remaining sessions")
	ErrPackageUnpaid          = errors.New("package payment is not completed")
	ErrWrongFacility          = errors.New("package is restricted to another facility")
	ErrOutsideTypeWindow      = errors.New("timeslot is outside the package's allowed hours")
	ErrEducationOnly          = errors.New("package allows education sessions only")
	ErrSwimAbilityRequired    = errors.New("member has no verified swim ability")
	ErrOutsideBookingHorizon  = errors.New("timeslot is not yet within the booking horizon")
	ErrTimeslotStarted        = errors.New("timeslot has already started")
	ErrOverlappingReservation = errors.New("member has an overlapping reservation")
	ErrDuplicateReservation   = errors.New("member already booked this timeslot")

	// Cancellation and lifecycle violations
	ErrReservationNotOwned  = errors.New("reservation does not belong to this member")
	ErrReservationNotActive = errors.New("reservation is not confirmed")
	ErrTooLateToCancel      = errors.New("too late to cancel this reservation")

	// Check-in violations
	ErrTokenInvalid        = errors.New("check-in token is invalid")
	ErrTokenNotYetValid    = errors.New("check-in token is not valid yet")
	ErrTokenExpired        = errors.New("check-in token has expired")
	ErrOutsideEntryWindow  = errors.New("current time is outside the session entry window")
	ErrTokenMemberMismatch = errors.New("check-in token was issued to another member")

	// Registry violations
	ErrInvalidTimeRange = errors.New("start time must be before end time")
	ErrEmptyWeekdays    = errors.New("at least one weekday is required")
	ErrFixedHoliday     = errors.New("date is a fixed holiday")

	// Storage errors
	ErrConcurrentUpdate = errors.New("concurrent update detected")
)
