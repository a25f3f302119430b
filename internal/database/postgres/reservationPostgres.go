package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/poolpass/pool-booking/internal/entity"
)

type reservationRepository struct {
	db *sql.DB
}

func NewReservationRepository(db *sql.DB) ReservationRepository {
	return &reservationRepository{db: db}
}

// CreateConfirmed commits the reservation with transaction to ensure data
// consistency: the timeslot and package rows are locked, the capacity and
// balance checks re-run under the lock, and all three writes commit together.
// Two racers against the same slot or package serialize on the row locks; the
// loser re-reads exhausted state and fails cleanly.
func (r *reservationRepository) CreateConfirmed(ctx context.Context, res *entity.Reservation) error {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{
		Isolation: sql.LevelReadCommitted,
	})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var occupancy, capacity int
	query := `SELECT occupancy, capacity FROM timeslots WHERE id = $1 FOR UPDATE`
	err = tx.QueryRowContext(ctx, query, res.TimeslotID).Scan(&occupancy, &capacity)
	if err == sql.ErrNoRows {
		return entity.ErrTimeslotNotFound
	}
	if err != nil {
		return mapTxError(err)
	}
	if occupancy >= capacity {
		return entity.ErrTimeslotFull
	}

	var remaining int
	var active bool
	query = `SELECT remaining_sessions, active FROM member_packages WHERE id = $1 FOR UPDATE`
	err = tx.QueryRowContext(ctx, query, res.PackageID).Scan(&remaining, &active)
	if err == sql.ErrNoRows {
		return entity.ErrPackageNotFound
	}
	if err != nil {
		return mapTxError(err)
	}
	if !active {
		return entity.ErrPackageInactive
	}
	if remaining <= 0 {
		return entity.ErrPackageExhausted
	}

	now := time.Now()
	query = `
		INSERT INTO reservations (member_id, timeslot_id, package_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err = tx.QueryRowContext(ctx, query,
		res.MemberID,
		res.TimeslotID,
		res.PackageID,
		entity.ReservationStatusConfirmed,
		now,
		now,
	).Scan(&res.ID)
	if err != nil {
		return mapTxError(err)
	}

	query = `UPDATE timeslots SET occupancy = occupancy + 1, updated_at = $1 WHERE id = $2`
	if _, err := tx.ExecContext(ctx, query, now, res.TimeslotID); err != nil {
		return mapTxError(err)
	}

	// Active was checked under the lock above, so rewriting it here can only
	// switch off a package that just spent its last session.
	query = `
		UPDATE member_packages
		SET remaining_sessions = remaining_sessions - 1,
		    active = remaining_sessions - 1 > 0,
		    updated_at = $1
		WHERE id = $2
	`
	if _, err := tx.ExecContext(ctx, query, now, res.PackageID); err != nil {
		return mapTxError(err)
	}

	if err := tx.Commit(); err != nil {
		return mapTxError(err)
	}

	res.Status = entity.ReservationStatusConfirmed
	res.CreatedAt = now
	res.UpdatedAt = now
	return nil
}

// Cancel flips the reservation to cancelled and reverses both counters in one
// transaction. A package that was switched off after exhausting its balance
// comes back active as long as it is paid.
func (r *reservationRepository) Cancel(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{
		Isolation: sql.LevelReadCommitted,
	})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var res entity.Reservation
	query := `SELECT member_id, timeslot_id, package_id, status FROM reservations WHERE id = $1 FOR UPDATE`
	err = tx.QueryRowContext(ctx, query, id).Scan(&res.MemberID, &res.TimeslotID, &res.PackageID, &res.Status)
	if err == sql.ErrNoRows {
		return entity.ErrReservationNotFound
	}
	if err != nil {
		return mapTxError(err)
	}
	if res.Status != entity.ReservationStatusConfirmed {
		return entity.ErrReservationNotActive
	}

	now := time.Now()
	query = `UPDATE reservations SET status = $1, updated_at = $2 WHERE id = $3`
	if _, err := tx.ExecContext(ctx, query, entity.ReservationStatusCancelled, now, id); err != nil {
		return mapTxError(err)
	}

	query = `UPDATE timeslots SET occupancy = GREATEST(occupancy - 1, 0), updated_at = $1 WHERE id = $2`
	if _, err := tx.ExecContext(ctx, query, now, res.TimeslotID); err != nil {
		return mapTxError(err)
	}

	query = `
		UPDATE member_packages
		SET remaining_sessions = remaining_sessions + 1,
		    active = CASE WHEN payment_status = 'completed' THEN TRUE ELSE active END,
		    updated_at = $1
		WHERE id = $2
	`
	if _, err := tx.ExecContext(ctx, query, now, res.PackageID); err != nil {
		return mapTxError(err)
	}

	if err := tx.Commit(); err != nil {
		return mapTxError(err)
	}

	return nil
}

// TransitionStatus moves a reservation from one lifecycle status to another,
// rejecting any other starting status under the row lock.
func (r *reservationRepository) TransitionStatus(ctx context.Context, id int64, from, to entity.ReservationStatus) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var current entity.ReservationStatus
	query := `SELECT status FROM reservations WHERE id = $1 FOR UPDATE`
	err = tx.QueryRowContext(ctx, query, id).Scan(&current)
	if err == sql.ErrNoRows {
		return entity.ErrReservationNotFound
	}
	if err != nil {
		return mapTxError(err)
	}
	if current != from {
		return entity.ErrReservationNotActive
	}

	query = `UPDATE reservations SET status = $1, updated_at = $2 WHERE id = $3`
	if _, err := tx.ExecContext(ctx, query, to, time.Now(), id); err != nil {
		return mapTxError(err)
	}

	if err := tx.Commit(); err != nil {
		return mapTxError(err)
	}

	return nil
}

func (r *reservationRepository) GetByID(ctx context.Context, id int64) (*entity.Reservation, error) {
	query := `
		SELECT id, member_id, timeslot_id, package_id, status, created_at, updated_at
		FROM reservations
		WHERE id = $1
	`

	var res entity.Reservation
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&res.ID,
		&res.MemberID,
		&res.TimeslotID,
		&res.PackageID,
		&res.Status,
		&res.CreatedAt,
		&res.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, entity.ErrReservationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reservation: %w", err)
	}

	return &res, nil
}

func (r *reservationRepository) GetByMemberID(ctx context.Context, memberID int64) ([]*entity.Reservation, error) {
	query := `
		SELECT id, member_id, timeslot_id, package_id, status, created_at, updated_at
		FROM reservations
		WHERE member_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to query reservations by member: %w", err)
	}
	defer rows.Close()

	var reservations []*entity.Reservation
	for rows.Next() {
		var res entity.Reservation
		err := rows.Scan(
			&res.ID,
			&res.MemberID,
			&res.TimeslotID,
			&res.PackageID,
			&res.Status,
			&res.CreatedAt,
			&res.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reservation: %w", err)
		}
		reservations = append(reservations, &res)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reservations: %w", err)
	}

	return reservations, nil
}

func (r *reservationRepository) HasConfirmed(ctx context.Context, memberID, timeslotID int64) (bool, error) {
	query := `
		SELECT COUNT(*) FROM reservations
		WHERE member_id = $1 AND timeslot_id = $2 AND status = 'confirmed'
	`
	var count int
	err := r.db.QueryRowContext(ctx, query, memberID, timeslotID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check existing reservation: %w", err)
	}
	return count > 0, nil
}

func (r *reservationRepository) ConfirmedSlotsByMemberAndDate(ctx context.Context, memberID int64, date time.Time) ([]*entity.Timeslot, error) {
	query := `
		SELECT
			t.id, t.facility_id, t.date, t.start_time, t.end_time, t.capacity,
			t.occupancy, t.is_education, t.created_at, t.updated_at
		FROM reservations r
		JOIN timeslots t ON r.timeslot_id = t.id
		WHERE r.member_id = $1 AND r.status = 'confirmed' AND t.date = $2
		ORDER BY t.start_time
	`

	rows, err := r.db.QueryContext(ctx, query, memberID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to query confirmed slots: %w", err)
	}
	defer rows.Close()

	var slots []*entity.Timeslot
	for rows.Next() {
		var slot entity.Timeslot
		err := rows.Scan(
			&slot.ID,
			&slot.FacilityID,
			&slot.Date,
			&slot.StartTime,
			&slot.EndTime,
			&slot.Capacity,
			&slot.Occupancy,
			&slot.IsEducation,
			&slot.CreatedAt,
			&slot.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan confirmed slot: %w", err)
		}
		slots = append(slots, &slot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating confirmed slots: %w", err)
	}

	return slots, nil
}

// GetMissed returns confirmed reservations whose session end is already in
// the past, joined with their timeslots for the no-show sweep.
func (r *reservationRepository) GetMissed(ctx context.Context, now time.Time) ([]*entity.MissedReservation, error) {
	query := `
		SELECT r.id, r.member_id, r.timeslot_id, t.facility_id, t.date, t.end_time
		FROM reservations r
		JOIN timeslots t ON r.timeslot_id = t.id
		WHERE r.status = 'confirmed'
		  AND (t.date + t.end_time::time) < $1
		ORDER BY t.date, t.end_time
	`

	rows, err := r.db.QueryContext(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("failed to query missed reservations: %w", err)
	}
	defer rows.Close()

	var missed []*entity.MissedReservation
	for rows.Next() {
		var m entity.MissedReservation
		err := rows.Scan(
			&m.ReservationID,
			&m.MemberID,
			&m.TimeslotID,
			&m.FacilityID,
			&m.Date,
			&m.EndTime,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan missed reservation: %w", err)
		}
		missed = append(missed, &m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating missed reservations: %w", err)
	}

	return missed, nil
}
