package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/poolpass/pool-booking/internal/entity"
)

type packageRepository struct {
	db *sql.DB
}

func NewPackageRepository(db *sql.DB) PackageRepository {
	return &packageRepository{db: db}
}

func (r *packageRepository) GetByID(ctx context.Context, id int64) (*entity.MemberPackage, error) {
	query := `
		SELECT
			id, member_id, package_type_id, facility_id, remaining_sessions,
			active, payment_status, created_at, updated_at
		FROM member_packages
		WHERE id = $1
	`

	var pkg entity.MemberPackage
	var facilityID sql.NullInt64
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&pkg.ID,
		&pkg.MemberID,
		&pkg.PackageTypeID,
		&facilityID,
		&pkg.RemainingSessions,
		&pkg.Active,
		&pkg.PaymentStatus,
		&pkg.CreatedAt,
		&pkg.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, entity.ErrPackageNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get member package: %w", err)
	}

	if facilityID.Valid {
		pkg.FacilityID = &facilityID.Int64
	}
	return &pkg, nil
}

func (r *packageRepository) GetByMemberID(ctx context.Context, memberID int64) ([]*entity.MemberPackage, error) {
	query := `
		SELECT
			id, member_id, package_type_id, facility_id, remaining_sessions,
			active, payment_status, created_at, updated_at
		FROM member_packages
		WHERE member_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to query member packages: %w", err)
	}
	defer rows.Close()

	var packages []*entity.MemberPackage
	for rows.Next() {
		var pkg entity.MemberPackage
		var facilityID sql.NullInt64
		err := rows.Scan(
			&pkg.ID,
			&pkg.MemberID,
			&pkg.PackageTypeID,
			&facilityID,
			&pkg.RemainingSessions,
			&pkg.Active,
			&pkg.PaymentStatus,
			&pkg.CreatedAt,
			&pkg.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan member package: %w", err)
		}
		if facilityID.Valid {
			pkg.FacilityID = &facilityID.Int64
		}
		packages = append(packages, &pkg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating member packages: %w", err)
	}

	return packages, nil
}

func (r *packageRepository) GetTypeByID(ctx context.Context, id int64) (*entity.PackageType, error) {
	query := `
		SELECT
			id, name, allowed_start, allowed_end, education_only,
			requires_swimming, total_sessions, created_at
		FROM package_types
		WHERE id = $1
	`

	var pt entity.PackageType
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&pt.ID,
		&pt.Name,
		&pt.AllowedStart,
		&pt.AllowedEnd,
		&pt.EducationOnly,
		&pt.RequiresSwimming,
		&pt.TotalSessions,
		&pt.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, entity.ErrPackageTypeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get package type: %w", err)
	}

	return &pt, nil
}
