package postgres

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/poolpass/pool-booking/config"

	_ "github.com/lib/pq"
)

func NewPostgresDB(cfg *config.DatabaseConfig) (*sql.DB, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("Successfully connected to PostgreSQL")
	return db, nil
}

func RunMigrations(db *sql.DB) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS facilities (
			id SERIAL PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			open_time VARCHAR(10) NOT NULL,
			close_time VARCHAR(10) NOT NULL,
			capacity INTEGER NOT NULL,
			active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS timeslots (
			id SERIAL PRIMARY KEY,
			facility_id INTEGER NOT NULL REFERENCES facilities(id),
			date DATE NOT NULL,
			start_time VARCHAR(5) NOT NULL,
			end_time VARCHAR(5) NOT NULL,
			capacity INTEGER NOT NULL,
			occupancy INTEGER NOT NULL DEFAULT 0,
			is_education BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			CONSTRAINT timeslots_occupancy_check CHECK (occupancy >= 0 AND occupancy <= capacity),
			CONSTRAINT timeslots_facility_date_start_key UNIQUE (facility_id, date, start_time)
		)`,

		`CREATE TABLE IF NOT EXISTS package_types (
			id SERIAL PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			allowed_start VARCHAR(5) NOT NULL,
			allowed_end VARCHAR(5) NOT NULL,
			education_only BOOLEAN NOT NULL DEFAULT FALSE,
			requires_swimming BOOLEAN NOT NULL DEFAULT FALSE,
			total_sessions INTEGER NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS member_packages (
			id SERIAL PRIMARY KEY,
			member_id INTEGER NOT NULL,
			package_type_id INTEGER NOT NULL REFERENCES package_types(id),
			facility_id INTEGER REFERENCES facilities(id),
			remaining_sessions INTEGER NOT NULL,
			active BOOLEAN NOT NULL DEFAULT FALSE,
			payment_status VARCHAR(20) NOT NULL DEFAULT 'pending',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			CONSTRAINT member_packages_balance_check CHECK (remaining_sessions >= 0)
		)`,

		`CREATE TABLE IF NOT EXISTS reservations (
			id SERIAL PRIMARY KEY,
			member_id INTEGER NOT NULL,
			timeslot_id INTEGER NOT NULL REFERENCES timeslots(id),
			package_id INTEGER NOT NULL REFERENCES member_packages(id),
			status VARCHAR(20) NOT NULL DEFAULT 'confirmed',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS education_windows (
			id SERIAL PRIMARY KEY,
			weekdays INTEGER[] NOT NULL,
			start_time VARCHAR(5) NOT NULL,
			end_time VARCHAR(5) NOT NULL,
			active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS holidays (
			id SERIAL PRIMARY KEY,
			date DATE NOT NULL UNIQUE,
			description VARCHAR(255) NOT NULL,
			fixed BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		// One confirmed reservation per (member, timeslot)
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_reservations_member_slot_confirmed
			ON reservations(member_id, timeslot_id) WHERE status = 'confirmed'`,

		`CREATE INDEX IF NOT EXISTS idx_timeslots_facility_date ON timeslots(facility_id, date)`,
		`CREATE INDEX IF NOT EXISTS idx_reservations_member_id ON reservations(member_id)`,
		`CREATE INDEX IF NOT EXISTS idx_reservations_timeslot_id ON reservations(timeslot_id)`,
		`CREATE INDEX IF NOT EXISTS idx_reservations_status ON reservations(status)`,
		`CREATE INDEX IF NOT EXISTS idx_member_packages_member_id ON member_packages(member_id)`,
		`CREATE INDEX IF NOT EXISTS idx_holidays_date ON holidays(date)`,
	}

	for _, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("failed to execute migration: %v", err)
		}
	}

	// Fixed recurring holidays, seeded once per year by ops tooling; the
	// first of January is always present.
	seed := `INSERT INTO holidays (date, description, fixed)
		VALUES (DATE_TRUNC('year', CURRENT_DATE), 'New Year', TRUE)
		ON CONFLICT (date) DO NOTHING`
	if _, err := db.Exec(seed); err != nil {
		return fmt.Errorf("failed to seed fixed holidays: %v", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}
