package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/poolpass/pool-booking/internal/entity"
)

type timeslotRepository struct {
	db *sql.DB
}

func NewTimeslotRepository(db *sql.DB) TimeslotRepository {
	return &timeslotRepository{db: db}
}

// Create inserts a new timeslot. The unique (facility, date, start) key is
// the backstop against concurrent generator runs, duplicates surface as
// ErrSlotExists.
func (r *timeslotRepository) Create(ctx context.Context, slot *entity.Timeslot) error {
	query := `
		INSERT INTO timeslots (
			facility_id, date, start_time, end_time, capacity, occupancy,
			is_education, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`

	now := time.Now()
	err := r.db.QueryRowContext(ctx, query,
		slot.FacilityID,
		slot.Date,
		slot.StartTime,
		slot.EndTime,
		slot.Capacity,
		slot.Occupancy,
		slot.IsEducation,
		now,
		now,
	).Scan(&slot.ID)

	if err != nil {
		return mapTxError(err)
	}

	slot.CreatedAt = now
	slot.UpdatedAt = now
	return nil
}

func (r *timeslotRepository) GetByID(ctx context.Context, id int64) (*entity.Timeslot, error) {
	query := `
		SELECT
			id, facility_id, date, start_time, end_time, capacity, occupancy,
			is_education, created_at, updated_at
		FROM timeslots
		WHERE id = $1
	`

	var slot entity.Timeslot
	err := r.db.QueryRowContext(ctx, query, id).Scan(
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

	if err == sql.ErrNoRows {
		return nil, entity.ErrTimeslotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get timeslot: %w", err)
	}

	return &slot, nil
}

func (r *timeslotRepository) GetByFacilityAndDate(ctx context.Context, facilityID int64, date time.Time) ([]*entity.Timeslot, error) {
	query := `
		SELECT
			id, facility_id, date, start_time, end_time, capacity, occupancy,
			is_education, created_at, updated_at
		FROM timeslots
		WHERE facility_id = $1 AND date = $2
		ORDER BY start_time
	`

	rows, err := r.db.QueryContext(ctx, query, facilityID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to query timeslots: %w", err)
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
			return nil, fmt.Errorf("failed to scan timeslot: %w", err)
		}
		slots = append(slots, &slot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating timeslots: %w", err)
	}

	return slots, nil
}

// ExistingStartKeys returns "date|start" keys for every slot of the facility
// inside [from, to], fetched once per generation run instead of per-slot
// queries.
func (r *timeslotRepository) ExistingStartKeys(ctx context.Context, facilityID int64, from, to time.Time) (map[string]struct{}, error) {
	query := `
		SELECT date, start_time
		FROM timeslots
		WHERE facility_id = $1 AND date BETWEEN $2 AND $3
	`

	rows, err := r.db.QueryContext(ctx, query, facilityID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query existing slot keys: %w", err)
	}
	defer rows.Close()

	keys := make(map[string]struct{})
	for rows.Next() {
		var date time.Time
		var start entity.Clock
		if err := rows.Scan(&date, &start); err != nil {
			return nil, fmt.Errorf("failed to scan slot key: %w", err)
		}
		keys[SlotKey(date, start)] = struct{}{}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating slot keys: %w", err)
	}

	return keys, nil
}

func (r *timeslotRepository) CountByFacilityAndDate(ctx context.Context, facilityID int64, date time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM timeslots WHERE facility_id = $1 AND date = $2`
	var count int
	err := r.db.QueryRowContext(ctx, query, facilityID, date).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count timeslots: %w", err)
	}
	return count, nil
}

// SlotKey is the generator's dedup key for one slot within a facility.
func SlotKey(date time.Time, start entity.Clock) string {
	return date.Format("2006-01-02") + "|" + start.String()
}
