package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/poolpass/pool-booking/internal/entity"
)

type educationWindowRepository struct {
	db *sql.DB
}

func NewEducationWindowRepository(db *sql.DB) EducationWindowRepository {
	return &educationWindowRepository{db: db}
}

func weekdaysToArray(days []time.Weekday) pq.Int64Array {
	arr := make(pq.Int64Array, 0, len(days))
	for _, d := range days {
		arr = append(arr, int64(d))
	}
	return arr
}

func arrayToWeekdays(arr pq.Int64Array) []time.Weekday {
	days := make([]time.Weekday, 0, len(arr))
	for _, d := range arr {
		days = append(days, time.Weekday(d))
	}
	return days
}

func (r *educationWindowRepository) Create(ctx context.Context, window *entity.EducationWindow) error {
	query := `
		INSERT INTO education_windows (weekdays, start_time, end_time, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	now := time.Now()
	err := r.db.QueryRowContext(ctx, query,
		weekdaysToArray(window.Weekdays),
		window.StartTime,
		window.EndTime,
		window.Active,
		now,
		now,
	).Scan(&window.ID)

	if err != nil {
		return fmt.Errorf("failed to create education window: %w", err)
	}

	window.CreatedAt = now
	window.UpdatedAt = now
	return nil
}

func (r *educationWindowRepository) GetByID(ctx context.Context, id int64) (*entity.EducationWindow, error) {
	query := `
		SELECT id, weekdays, start_time, end_time, active, created_at, updated_at
		FROM education_windows
		WHERE id = $1
	`

	var window entity.EducationWindow
	var days pq.Int64Array
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&window.ID,
		&days,
		&window.StartTime,
		&window.EndTime,
		&window.Active,
		&window.CreatedAt,
		&window.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, entity.ErrEducationWindowNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get education window: %w", err)
	}

	window.Weekdays = arrayToWeekdays(days)
	return &window, nil
}

func (r *educationWindowRepository) GetActive(ctx context.Context) ([]*entity.EducationWindow, error) {
	return r.query(ctx, `
		SELECT id, weekdays, start_time, end_time, active, created_at, updated_at
		FROM education_windows
		WHERE active = TRUE
		ORDER BY id
	`)
}

func (r *educationWindowRepository) GetAll(ctx context.Context) ([]*entity.EducationWindow, error) {
	return r.query(ctx, `
		SELECT id, weekdays, start_time, end_time, active, created_at, updated_at
		FROM education_windows
		ORDER BY id
	`)
}

func (r *educationWindowRepository) query(ctx context.Context, query string) ([]*entity.EducationWindow, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query education windows: %w", err)
	}
	defer rows.Close()

	var windows []*entity.EducationWindow
	for rows.Next() {
		var window entity.EducationWindow
		var days pq.Int64Array
		err := rows.Scan(
			&window.ID,
			&days,
			&window.StartTime,
			&window.EndTime,
			&window.Active,
			&window.CreatedAt,
			&window.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan education window: %w", err)
		}
		window.Weekdays = arrayToWeekdays(days)
		windows = append(windows, &window)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating education windows: %w", err)
	}

	return windows, nil
}

func (r *educationWindowRepository) Update(ctx context.Context, window *entity.EducationWindow) error {
	query := `
		UPDATE education_windows
		SET weekdays = $1, start_time = $2, end_time = $3, active = $4, updated_at = $5
		WHERE id = $6
	`

	result, err := r.db.ExecContext(ctx, query,
		weekdaysToArray(window.Weekdays),
		window.StartTime,
		window.EndTime,
		window.Active,
		time.Now(),
		window.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update education window: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return entity.ErrEducationWindowNotFound
	}

	return nil
}

func (r *educationWindowRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM education_windows WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete education window: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return entity.ErrEducationWindowNotFound
	}

	return nil
}
