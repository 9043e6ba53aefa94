package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/triage-service/internal/domain"
)

// PatientFilter captures triage board search parameters.
type PatientFilter struct {
	Statuses         []domain.PatientStatus
	Priorities       []domain.Priority
	AssignedDoctorID *string
	AssignedNurseID  *string
	Unassigned       *bool
	Limit            int
	Offset           int
}

// PatientRepository encapsulates patient persistence. Patients are never
// physically deleted; discharge is a status transition.
type PatientRepository interface {
	Create(ctx context.Context, patient *domain.Patient) error
	Update(ctx context.Context, patient *domain.Patient) error
	GetByID(ctx context.Context, id string) (*domain.Patient, error)
	ListByDoctor(ctx context.Context, doctorID string) ([]*domain.Patient, error)
	ListWithFilter(ctx context.Context, filter PatientFilter) ([]*domain.Patient, error)
}

type patientRepository struct {
	pool     *pgxpool.Pool
	comments CommentRepository
}

// NewPatientRepository instantiates the repository.
func NewPatientRepository(pool *pgxpool.Pool, comments CommentRepository) PatientRepository {
	return &patientRepository{pool: pool, comments: comments}
}

func (r *patientRepository) Create(ctx context.Context, patient *domain.Patient) error {
	rec := patient.Snapshot()
	const query = `
        INSERT INTO patients (id, name, age, gender, symptoms, vitals, priority, manual_priority,
            status, process, process_details, assigned_doctor_id, assigned_doctor_name,
            assigned_nurse_id, arrival_time, treatment_start_time, discharge_time, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)`
	_, err := r.pool.Exec(ctx, query,
		rec.ID,
		rec.Name,
		rec.Age,
		rec.Gender,
		rec.Symptoms,
		rec.Vitals,
		rec.Priority,
		priorityPtr(rec.ManualPriority),
		rec.Status,
		rec.Process,
		rec.ProcessDetails,
		nullable(rec.AssignedDoctorID),
		nullable(rec.AssignedDoctorName),
		nullable(rec.AssignedNurseID),
		rec.ArrivalTime,
		rec.TreatmentStartTime,
		rec.DischargeTime,
		rec.CreatedAt,
		rec.UpdatedAt,
	)
	return err
}

func (r *patientRepository) Update(ctx context.Context, patient *domain.Patient) error {
	rec := patient.Snapshot()
	const query = `
        UPDATE patients SET symptoms=$1, vitals=$2, priority=$3, manual_priority=$4, status=$5,
            process=$6, process_details=$7, assigned_doctor_id=$8, assigned_doctor_name=$9,
            assigned_nurse_id=$10, treatment_start_time=$11, discharge_time=$12, updated_at=NOW()
        WHERE id=$13`
	cmd, err := r.pool.Exec(ctx, query,
		rec.Symptoms,
		rec.Vitals,
		rec.Priority,
		priorityPtr(rec.ManualPriority),
		rec.Status,
		rec.Process,
		rec.ProcessDetails,
		nullable(rec.AssignedDoctorID),
		nullable(rec.AssignedDoctorName),
		nullable(rec.AssignedNurseID),
		rec.TreatmentStartTime,
		rec.DischargeTime,
		rec.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *patientRepository) GetByID(ctx context.Context, id string) (*domain.Patient, error) {
	const query = `
        SELECT id, name, age, gender, symptoms, vitals, priority, manual_priority, status,
               process, process_details, assigned_doctor_id, assigned_doctor_name, assigned_nurse_id,
               arrival_time, treatment_start_time, discharge_time, created_at, updated_at
        FROM patients WHERE id=$1`
	rec, err := r.scanPatient(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}
	comments, err := r.comments.ListByPatient(ctx, rec.ID)
	if err != nil {
		return nil, err
	}
	for _, c := range comments {
		rec.Comments = append(rec.Comments, *c)
	}
	return domain.PatientFromRecord(*rec)
}

func (r *patientRepository) ListByDoctor(ctx context.Context, doctorID string) ([]*domain.Patient, error) {
	return r.ListWithFilter(ctx, PatientFilter{AssignedDoctorID: &doctorID, Limit: 200})
}

func (r *patientRepository) ListWithFilter(ctx context.Context, filter PatientFilter) ([]*domain.Patient, error) {
	base := `SELECT id, name, age, gender, symptoms, vitals, priority, manual_priority, status,
                    process, process_details, assigned_doctor_id, assigned_doctor_name, assigned_nurse_id,
                    arrival_time, treatment_start_time, discharge_time, created_at, updated_at
             FROM patients`
	clauses := []string{"1=1"}
	args := []any{}

	if filter.AssignedDoctorID != nil {
		args = append(args, *filter.AssignedDoctorID)
		clauses = append(clauses, fmt.Sprintf("assigned_doctor_id=$%d", len(args)))
	}
	if filter.AssignedNurseID != nil {
		args = append(args, *filter.AssignedNurseID)
		clauses = append(clauses, fmt.Sprintf("assigned_nurse_id=$%d", len(args)))
	}
	if filter.Unassigned != nil && *filter.Unassigned {
		clauses = append(clauses, "assigned_doctor_id IS NULL")
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.Priorities) > 0 {
		placeholders := make([]string, len(filter.Priorities))
		for i, pr := range filter.Priorities {
			args = append(args, int(pr))
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("COALESCE(manual_priority, priority) IN (%s)", strings.Join(placeholders, ",")))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY COALESCE(manual_priority, priority) ASC, arrival_time ASC LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.Patient
	for rows.Next() {
		rec, err := r.scanPatient(rows)
		if err != nil {
			return nil, err
		}
		patient, err := domain.PatientFromRecord(*rec)
		if err != nil {
			return nil, err
		}
		result = append(result, patient)
	}
	return result, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *patientRepository) scanPatient(row rowScanner) (*domain.PatientRecord, error) {
	var (
		rec            domain.PatientRecord
		manualPriority *int
		doctorID       *string
		doctorName     *string
		nurseID        *string
	)
	if err := row.Scan(
		&rec.ID,
		&rec.Name,
		&rec.Age,
		&rec.Gender,
		&rec.Symptoms,
		&rec.Vitals,
		&rec.Priority,
		&manualPriority,
		&rec.Status,
		&rec.Process,
		&rec.ProcessDetails,
		&doctorID,
		&doctorName,
		&nurseID,
		&rec.ArrivalTime,
		&rec.TreatmentStartTime,
		&rec.DischargeTime,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if manualPriority != nil {
		p := domain.Priority(*manualPriority)
		rec.ManualPriority = &p
	}
	if doctorID != nil {
		rec.AssignedDoctorID = *doctorID
	}
	if doctorName != nil {
		rec.AssignedDoctorName = *doctorName
	}
	if nurseID != nil {
		rec.AssignedNurseID = *nurseID
	}
	return &rec, nil
}

func priorityPtr(p *domain.Priority) *int {
	if p == nil {
		return nil
	}
	v := int(*p)
	return &v
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
