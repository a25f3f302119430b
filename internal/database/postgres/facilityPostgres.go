package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/poolpass/pool-booking/internal/entity"
)

type facilityRepository struct {
	db *sql.DB
}

func NewFacilityRepository(db *sql.DB) FacilityRepository {
	return &facilityRepository{db: db}
}

func (r *facilityRepository) GetByID(ctx context.Context, id int64) (*entity.Facility, error) {
	query := `
		SELECT id, name, open_time, close_time, capacity, active, created_at, updated_at
		FROM facilities
		WHERE id = $1
	`

	var f entity.Facility
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&f.ID,
		&f.Name,
		&f.OpenTime,
		&f.CloseTime,
		&f.Capacity,
		&f.Active,
		&f.CreatedAt,
		&f.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, entity.ErrFacilityNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get facility: %w", err)
	}

	return &f, nil
}

func (r *facilityRepository) GetActive(ctx context.Context) ([]*entity.Facility, error) {
	query := `
		SELECT id, name, open_time, close_time, capacity, active, created_at, updated_at
		FROM facilities
		WHERE active = TRUE
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query active facilities: %w", err)
	}
	defer rows.Close()

	var facilities []*entity.Facility
	for rows.Next() {
		var f entity.Facility
		err := rows.Scan(
			&f.ID,
			&f.Name,
			&f.OpenTime,
			&f.CloseTime,
			&f.Capacity,
			&f.Active,
			&f.CreatedAt,
			&f.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan facility: %w", err)
		}
		facilities = append(facilities, &f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating facilities: %w", err)
	}

	return facilities, nil
}
