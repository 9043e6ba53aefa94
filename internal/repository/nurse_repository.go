package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/triage-service/internal/domain"
)

// NurseRepository handles persistence for nurses.
type NurseRepository interface {
	Create(ctx context.Context, nurse *domain.Nurse) error
	Update(ctx context.Context, nurse *domain.Nurse) error
	GetByID(ctx context.Context, id string) (*domain.Nurse, error)
	ListByShift(ctx context.Context, shift domain.NurseShift) ([]*domain.Nurse, error)
}

type nurseRepository struct {
	pool *pgxpool.Pool
}

// NewNurseRepository constructs the repository.
func NewNurseRepository(pool *pgxpool.Pool) NurseRepository {
	return &nurseRepository{pool: pool}
}

func (r *nurseRepository) Create(ctx context.Context, nurse *domain.Nurse) error {
	const query = `
        INSERT INTO nurses (id, email, name, password_hash, status, area, shift, license_number, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`
	_, err := r.pool.Exec(ctx, query,
		nurse.ID,
		nurse.Email,
		nurse.Name,
		nurse.PasswordHash,
		nurse.Status,
		nurse.Area,
		nurse.Shift,
		nurse.LicenseNumber,
		nurse.CreatedAt,
		nurse.UpdatedAt,
	)
	return err
}

func (r *nurseRepository) Update(ctx context.Context, nurse *domain.Nurse) error {
	const query = `
        UPDATE nurses SET name=$1, status=$2, area=$3, shift=$4, license_number=$5, updated_at=NOW()
        WHERE id=$6`
	cmd, err := r.pool.Exec(ctx, query,
		nurse.Name,
		nurse.Status,
		nurse.Area,
		nurse.Shift,
		nurse.LicenseNumber,
		nurse.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *nurseRepository) GetByID(ctx context.Context, id string) (*domain.Nurse, error) {
	const query = nurseSelect + ` WHERE id=$1`
	return scanNurse(r.pool.QueryRow(ctx, query, id))
}

func (r *nurseRepository) ListByShift(ctx context.Context, shift domain.NurseShift) ([]*domain.Nurse, error) {
	const query = nurseSelect + ` WHERE shift=$1 ORDER BY name ASC`
	rows, err := r.pool.Query(ctx, query, shift)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.Nurse
	for rows.Next() {
		nurse, err := scanNurse(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, nurse)
	}
	return result, rows.Err()
}

const nurseSelect = `
        SELECT id, email, name, password_hash, status, area, shift, license_number, created_at, updated_at
        FROM nurses`

func scanNurse(row rowScanner) (*domain.Nurse, error) {
	var (
		id, email, name, passwordHash, area, licenseNumber string
		status                                             domain.AccountStatus
		shift                                              domain.NurseShift
		createdAt, updatedAt                               time.Time
	)
	if err := row.Scan(
		&id,
		&email,
		&name,
		&passwordHash,
		&status,
		&area,
		&shift,
		&licenseNumber,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}
	person, err := domain.PersonFromPersistence(id, email, name, domain.RoleNurse, status, createdAt, updatedAt)
	if err != nil {
		return nil, err
	}
	person.PasswordHash = passwordHash
	return domain.NurseFromPersistence(person, area, shift, licenseNumber)
}
