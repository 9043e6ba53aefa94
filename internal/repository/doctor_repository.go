package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/triage-service/internal/domain"
)

// DoctorFilter defines query params for doctor listing.
type DoctorFilter struct {
	Specialty *string
	Available *bool
	Status    *domain.AccountStatus
	Limit     int
	Offset    int
}

// DoctorRepository handles persistence for doctors. GetByUserID covers
// doctor records keyed by the underlying account id.
type DoctorRepository interface {
	Create(ctx context.Context, doctor *domain.Doctor) error
	Update(ctx context.Context, doctor *domain.Doctor) error
	GetByID(ctx context.Context, id string) (*domain.Doctor, error)
	GetByUserID(ctx context.Context, userID string) (*domain.Doctor, error)
	GetByEmail(ctx context.Context, email string) (*domain.Doctor, error)
	List(ctx context.Context, filter DoctorFilter) ([]*domain.Doctor, error)
}

type doctorRepository struct {
	pool *pgxpool.Pool
}

// NewDoctorRepository instantiates the repository.
func NewDoctorRepository(pool *pgxpool.Pool) DoctorRepository {
	return &doctorRepository{pool: pool}
}

func (r *doctorRepository) Create(ctx context.Context, doctor *domain.Doctor) error {
	const query = `
        INSERT INTO doctors (id, user_id, email, name, password_hash, status, specialty, license_number,
            available, current_patient_load, max_patient_load, created_at, updated_at)
        VALUES ($1,$1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`
	_, err := r.pool.Exec(ctx, query,
		doctor.ID,
		doctor.Email,
		doctor.Name,
		doctor.PasswordHash,
		doctor.Status,
		doctor.Specialty,
		doctor.LicenseNumber,
		doctor.Available,
		doctor.CurrentPatientLoad,
		doctor.MaxPatientLoad,
		doctor.CreatedAt,
		doctor.UpdatedAt,
	)
	return err
}

func (r *doctorRepository) Update(ctx context.Context, doctor *domain.Doctor) error {
	const query = `
        UPDATE doctors SET name=$1, status=$2, specialty=$3, license_number=$4, available=$5,
            current_patient_load=$6, max_patient_load=$7, updated_at=NOW()
        WHERE id=$8`
	cmd, err := r.pool.Exec(ctx, query,
		doctor.Name,
		doctor.Status,
		doctor.Specialty,
		doctor.LicenseNumber,
		doctor.Available,
		doctor.CurrentPatientLoad,
		doctor.MaxPatientLoad,
		doctor.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *doctorRepository) GetByID(ctx context.Context, id string) (*domain.Doctor, error) {
	return r.fetchSingle(ctx, "id=$1", id)
}

func (r *doctorRepository) GetByUserID(ctx context.Context, userID string) (*domain.Doctor, error) {
	return r.fetchSingle(ctx, "user_id=$1", userID)
}

func (r *doctorRepository) GetByEmail(ctx context.Context, email string) (*domain.Doctor, error) {
	return r.fetchSingle(ctx, "email=$1", email)
}

func (r *doctorRepository) fetchSingle(ctx context.Context, clause string, arg any) (*domain.Doctor, error) {
	query := fmt.Sprintf(`
        SELECT id, email, name, password_hash, status, specialty, license_number,
               available, current_patient_load, max_patient_load, created_at, updated_at
        FROM doctors WHERE %s`, clause)
	return scanDoctor(r.pool.QueryRow(ctx, query, arg))
}

func (r *doctorRepository) List(ctx context.Context, filter DoctorFilter) ([]*domain.Doctor, error) {
	base := `SELECT id, email, name, password_hash, status, specialty, license_number,
                    available, current_patient_load, max_patient_load, created_at, updated_at
             FROM doctors`
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Specialty != nil {
		args = append(args, *filter.Specialty)
		clauses = append(clauses, fmt.Sprintf("specialty=$%d", len(args)))
	}
	if filter.Available != nil {
		args = append(args, *filter.Available)
		clauses = append(clauses, fmt.Sprintf("available=$%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY name ASC LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.Doctor
	for rows.Next() {
		doctor, err := scanDoctor(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, doctor)
	}
	return result, rows.Err()
}

func scanDoctor(row rowScanner) (*domain.Doctor, error) {
	var (
		id, email, name, passwordHash, specialty, licenseNumber string
		status                                                  domain.AccountStatus
		available                                               bool
		currentLoad, maxLoad                                    int
		createdAt, updatedAt                                    time.Time
	)
	if err := row.Scan(
		&id,
		&email,
		&name,
		&passwordHash,
		&status,
		&specialty,
		&licenseNumber,
		&available,
		&currentLoad,
		&maxLoad,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}
	person, err := domain.PersonFromPersistence(id, email, name, domain.RoleDoctor, status, createdAt, updatedAt)
	if err != nil {
		return nil, err
	}
	person.PasswordHash = passwordHash
	return domain.DoctorFromPersistence(person, specialty, licenseNumber, available, currentLoad, maxLoad)
}
