package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	repository "github.com/poolpass/pool-booking/internal/database/postgres"
	"github.com/poolpass/pool-booking/internal/entity"
	"github.com/poolpass/pool-booking/pkg/mq"
)

type bookingService struct {
	reservationRepo repository.ReservationRepository
	timeslotRepo    repository.TimeslotRepository
	packageRepo     repository.PackageRepository
	swimChecker     SwimAbilityChecker
	publisher       EventPublisher

	horizon      time.Duration
	cancelCutoff time.Duration

	now func() time.Time
}

// NewBookingService creates the booking engine. publisher may be nil when
// notifications are disabled.
func NewBookingService(
	reservationRepo repository.ReservationRepository,
	timeslotRepo repository.TimeslotRepository,
	packageRepo repository.PackageRepository,
	swimChecker SwimAbilityChecker,
	publisher EventPublisher,
	horizon time.Duration,
	cancelCutoff time.Duration,
) BookingService {
	return &bookingService{
		reservationRepo: reservationRepo,
		timeslotRepo:    timeslotRepo,
		packageRepo:     packageRepo,
		swimChecker:     swimChecker,
		publisher:       publisher,
		horizon:         horizon,
		cancelCutoff:    cancelCutoff,
		now:             time.Now,
	}
}

// CreateReservation validates the booking fail-fast and commits it. The
// occupancy increment, balance decrement and reservation insert happen in one
// repository transaction that re-checks capacity and balance under row locks.
func (s *bookingService) CreateReservation(ctx context.Context, req *CreateReservationRequest) (*entity.Reservation, error) {
	slot, err := s.timeslotRepo.GetByID(ctx, req.TimeslotID)
	if err != nil {
		return nil, err
	}
	if slot.IsFull() {
		return nil, entity.ErrTimeslotFull
	}

	pkg, pkgType, err := s.validPackage(ctx, req.MemberID, req.PackageID)
	if err != nil {
		return nil, err
	}

	if err := s.slotEligible(slot, pkg, pkgType); err != nil {
		return nil, err
	}

	if pkgType.RequiresSwimming {
		able, err := s.swimChecker.HasSwimAbility(ctx, req.MemberID)
		if err != nil {
			return nil, fmt.Errorf("%w: swim ability check failed: %w", entity.ErrSwimAbilityRequired, err)
		}
		if !able {
			return nil, entity.ErrSwimAbilityRequired
		}
	}

	if err := s.withinBookingWindow(slot); err != nil {
		return nil, err
	}

	if err := s.noConflicts(ctx, req.MemberID, slot); err != nil {
		return nil, err
	}

	reservation := &entity.Reservation{
		MemberID:   req.MemberID,
		TimeslotID: req.TimeslotID,
		PackageID:  req.PackageID,
		Status:     entity.ReservationStatusConfirmed,
	}

	if err := s.reservationRepo.CreateConfirmed(ctx, reservation); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"reservation_id": reservation.ID,
		"member_id":      reservation.MemberID,
		"timeslot_id":    reservation.TimeslotID,
		"package_id":     reservation.PackageID,
	}).Info("Reservation created")

	s.publish(ctx, mq.KeyReservationCreated, reservation)

	return reservation, nil
}

// validPackage loads the package and its type and runs the ownership, state
// and balance checks.
func (s *bookingService) validPackage(ctx context.Context, memberID, packageID int64) (*entity.MemberPackage, *entity.PackageType, error) {
	pkg, err := s.packageRepo.GetByID(ctx, packageID)
	if err != nil {
		return nil, nil, err
	}
	if pkg.MemberID != memberID {
		return nil, nil, entity.ErrPackageNotOwned
	}
	// Balance before active: a package switched off by spending its last
	// session must report exhaustion, not inactivity.
	if pkg.RemainingSessions <= 0 {
		return nil, nil, entity.ErrPackageExhausted
	}
	if !pkg.Active {
		return nil, nil, entity.ErrPackageInactive
	}
	if pkg.PaymentStatus != entity.PaymentStatusCompleted {
		return nil, nil, entity.ErrPackageUnpaid
	}

	pkgType, err := s.packageRepo.GetTypeByID(ctx, pkg.PackageTypeID)
	if err != nil {
		return nil, nil, err
	}

	return pkg, pkgType, nil
}

// slotEligible checks the facility restriction and the package type's
// time-of-day and education constraints against one slot.
func (s *bookingService) slotEligible(slot *entity.Timeslot, pkg *entity.MemberPackage, pkgType *entity.PackageType) error {
	if pkg.FacilityID != nil && *pkg.FacilityID != slot.FacilityID {
		return entity.ErrWrongFacility
	}
	if !pkgType.AllowsSlot(slot.StartTime, slot.EndTime) {
		return entity.ErrOutsideTypeWindow
	}
	if pkgType.EducationOnly && !slot.IsEducation {
		return entity.ErrEducationOnly
	}
	return nil
}

// withinBookingWindow applies the two temporal predicates separately: the
// session must not have started, and it must already be inside the booking
// horizon.
func (s *bookingService) withinBookingWindow(slot *entity.Timeslot) error {
	now := s.now()
	start := slot.StartAt()

	if !start.After(now) {
		return entity.ErrTimeslotStarted
	}
	if start.Sub(now) > s.horizon {
		return entity.ErrOutsideBookingHorizon
	}
	return nil
}

// noConflicts rejects duplicate bookings of the same slot and any confirmed
// reservation overlapping the slot's [start, end) on the same date.
func (s *bookingService) noConflicts(ctx context.Context, memberID int64, slot *entity.Timeslot) error {
	existing, err := s.reservationRepo.ConfirmedSlotsByMemberAndDate(ctx, memberID, slot.Date)
	if err != nil {
		return fmt.Errorf("failed to check conflicting reservations: %w", err)
	}
	for _, other := range existing {
		if other.ID == slot.ID {
			return entity.ErrDuplicateReservation
		}
		if other.Overlaps(slot) {
			return entity.ErrOverlappingReservation
		}
	}

	dup, err := s.reservationRepo.HasConfirmed(ctx, memberID, slot.ID)
	if err != nil {
		return fmt.Errorf("failed to check duplicate reservation: %w", err)
	}
	if dup {
		return entity.ErrDuplicateReservation
	}
	return nil
}

// CancelReservation cancels a confirmed reservation owned by the member,
// refusing inside the cutoff window. The repository reverses both counters
// and reactivates an exhausted package in the same transaction.
func (s *bookingService) CancelReservation(ctx context.Context, reservationID, memberID int64) error {
	reservation, err := s.reservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		return err
	}
	if reservation.MemberID != memberID {
		return entity.ErrReservationNotOwned
	}
	if reservation.Status != entity.ReservationStatusConfirmed {
		return entity.ErrReservationNotActive
	}

	slot, err := s.timeslotRepo.GetByID(ctx, reservation.TimeslotID)
	if err != nil {
		return err
	}
	if slot.StartAt().Sub(s.now()) <= s.cancelCutoff {
		return entity.ErrTooLateToCancel
	}

	if err := s.reservationRepo.Cancel(ctx, reservationID); err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"reservation_id": reservationID,
		"member_id":      memberID,
	}).Info("Reservation cancelled")

	s.publish(ctx, mq.KeyReservationCancelled, reservation)

	return nil
}

// MarkCompleted transitions a confirmed reservation to completed.
func (s *bookingService) MarkCompleted(ctx context.Context, reservationID int64) error {
	return s.reservationRepo.TransitionStatus(ctx, reservationID,
		entity.ReservationStatusConfirmed, entity.ReservationStatusCompleted)
}

// MarkNoShow transitions a confirmed reservation to no-show.
func (s *bookingService) MarkNoShow(ctx context.Context, reservationID int64) error {
	return s.reservationRepo.TransitionStatus(ctx, reservationID,
		entity.ReservationStatusConfirmed, entity.ReservationStatusNoShow)
}

// SweepMissedReservations marks every confirmed reservation whose session has
// ended as no-show. Individual failures are logged and skipped so the sweep
// completes for the remaining rows.
func (s *bookingService) SweepMissedReservations(ctx context.Context) (*SweepResult, error) {
	missed, err := s.reservationRepo.GetMissed(ctx, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to get missed reservations: %w", err)
	}

	result := &SweepResult{Found: len(missed)}
	for _, m := range missed {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		err := s.reservationRepo.TransitionStatus(ctx, m.ReservationID,
			entity.ReservationStatusConfirmed, entity.ReservationStatusNoShow)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"reservation_id": m.ReservationID,
				"member_id":      m.MemberID,
			}).Errorf("Failed to mark reservation as no-show: %v", err)
			result.Failed++
			continue
		}
		result.Swept++
	}

	logrus.Infof("Missed-reservation sweep completed: %d found, %d swept, %d failed",
		result.Found, result.Swept, result.Failed)
	return result, nil
}

// ListAvailableTimeslots returns the facility's slots on the given date that
// pass every booking rule for this member and package except the final
// commit.
func (s *bookingService) ListAvailableTimeslots(ctx context.Context, req *AvailableTimeslotsRequest) ([]*entity.Timeslot, error) {
	pkg, pkgType, err := s.validPackage(ctx, req.MemberID, req.PackageID)
	if err != nil {
		return nil, err
	}

	if pkgType.RequiresSwimming {
		able, err := s.swimChecker.HasSwimAbility(ctx, req.MemberID)
		if err != nil {
			return nil, fmt.Errorf("%w: swim ability check failed: %w", entity.ErrSwimAbilityRequired, err)
		}
		if !able {
			return nil, entity.ErrSwimAbilityRequired
		}
	}

	slots, err := s.timeslotRepo.GetByFacilityAndDate(ctx, req.FacilityID, req.Date)
	if err != nil {
		return nil, err
	}

	booked, err := s.reservationRepo.ConfirmedSlotsByMemberAndDate(ctx, req.MemberID, req.Date)
	if err != nil {
		return nil, fmt.Errorf("failed to check conflicting reservations: %w", err)
	}

	available := make([]*entity.Timeslot, 0, len(slots))
	for _, slot := range slots {
		if slot.IsFull() {
			continue
		}
		if s.slotEligible(slot, pkg, pkgType) != nil {
			continue
		}
		if s.withinBookingWindow(slot) != nil {
			continue
		}
		if conflicts(slot, booked) {
			continue
		}
		available = append(available, slot)
	}

	return available, nil
}

func conflicts(slot *entity.Timeslot, booked []*entity.Timeslot) bool {
	for _, other := range booked {
		if other.ID == slot.ID || other.Overlaps(slot) {
			return true
		}
	}
	return false
}

func (s *bookingService) GetReservation(ctx context.Context, id int64) (*entity.Reservation, error) {
	return s.reservationRepo.GetByID(ctx, id)
}

func (s *bookingService) GetMemberReservations(ctx context.Context, memberID int64) ([]*entity.Reservation, error) {
	return s.reservationRepo.GetByMemberID(ctx, memberID)
}

// publish sends a lifecycle event when a publisher is configured. Publish
// failures are logged, they never fail the operation.
func (s *bookingService) publish(ctx context.Context, key string, reservation *entity.Reservation) {
	if s.publisher == nil {
		return
	}
	payload := map[string]any{
		"reservation_id": reservation.ID,
		"member_id":      reservation.MemberID,
		"timeslot_id":    reservation.TimeslotID,
		"package_id":     reservation.PackageID,
	}
	if err := s.publisher.PublishJSON(ctx, key, payload); err != nil {
		logrus.Errorf("Failed to publish %s event: %v", key, err)
	}
}
