package repository

import (
	"errors"

	"github.com/lib/pq"

	"github.com/poolpass/pool-booking/internal/entity"
)

// Postgres error codes that make the whole operation safe to retry from
// validation: serialization failure, deadlock, lock not available.
var retryableCodes = map[pq.ErrorCode]bool{
	"40001": true,
	"40P01": true,
	"55P03": true,
}

const uniqueViolation pq.ErrorCode = "23505"

// mapTxError translates low-level transaction failures into the domain
// taxonomy. Unique-constraint hits on the confirmed-reservation index are the
// concurrency backstop for duplicate bookings.
func mapTxError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	if retryableCodes[pqErr.Code] {
		return entity.ErrConcurrentUpdate
	}
	if pqErr.Code == uniqueViolation {
		switch pqErr.Constraint {
		case "idx_reservations_member_slot_confirmed":
			return entity.ErrDuplicateReservation
		case "timeslots_facility_date_start_key":
			return ErrSlotExists
		}
	}
	return err
}

// ErrSlotExists signals that an identically keyed timeslot was inserted
// concurrently. The generator treats it as already-generated, not a failure.
var ErrSlotExists = errors.New("timeslot already exists")
