package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/poolpass/pool-booking/internal/entity"
)

type holidayRepository struct {
	db *sql.DB
}

func NewHolidayRepository(db *sql.DB) HolidayRepository {
	return &holidayRepository{db: db}
}

func (r *holidayRepository) Create(ctx context.Context, holiday *entity.Holiday) error {
	query := `
		INSERT INTO holidays (date, description, fixed, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	now := time.Now()
	err := r.db.QueryRowContext(ctx, query,
		holiday.Date,
		holiday.Description,
		holiday.Fixed,
		now,
	).Scan(&holiday.ID)

	if err != nil {
		return fmt.Errorf("failed to create holiday: %w", err)
	}

	holiday.CreatedAt = now
	return nil
}

func (r *holidayRepository) GetByID(ctx context.Context, id int64) (*entity.Holiday, error) {
	query := `SELECT id, date, description, fixed, created_at FROM holidays WHERE id = $1`

	var h entity.Holiday
	err := r.db.QueryRowContext(ctx, query, id).Scan(&h.ID, &h.Date, &h.Description, &h.Fixed, &h.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, entity.ErrHolidayNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get holiday: %w", err)
	}

	return &h, nil
}

func (r *holidayRepository) GetByDate(ctx context.Context, date time.Time) (*entity.Holiday, error) {
	query := `SELECT id, date, description, fixed, created_at FROM holidays WHERE date = $1`

	var h entity.Holiday
	err := r.db.QueryRowContext(ctx, query, date).Scan(&h.ID, &h.Date, &h.Description, &h.Fixed, &h.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, entity.ErrHolidayNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get holiday by date: %w", err)
	}

	return &h, nil
}

func (r *holidayRepository) GetInRange(ctx context.Context, from, to time.Time) ([]*entity.Holiday, error) {
	query := `
		SELECT id, date, description, fixed, created_at
		FROM holidays
		WHERE date BETWEEN $1 AND $2
		ORDER BY date
	`

	rows, err := r.db.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query holidays: %w", err)
	}
	defer rows.Close()

	var holidays []*entity.Holiday
	for rows.Next() {
		var h entity.Holiday
		if err := rows.Scan(&h.ID, &h.Date, &h.Description, &h.Fixed, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan holiday: %w", err)
		}
		holidays = append(holidays, &h)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating holidays: %w", err)
	}

	return holidays, nil
}

func (r *holidayRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM holidays WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete holiday: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return entity.ErrHolidayNotFound
	}

	return nil
}
