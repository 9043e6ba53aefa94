package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/triage-service/internal/domain"
)

// VitalsRepository stores the historical vitals measurements per patient.
type VitalsRepository interface {
	Create(ctx context.Context, record *domain.VitalsRecord) error
	ListByPatient(ctx context.Context, patientID string) ([]domain.VitalsRecord, error)
	ListByPatientAndRange(ctx context.Context, patientID string, from, to time.Time) ([]domain.VitalsRecord, error)
}

type vitalsRepository struct {
	pool *pgxpool.Pool
}

// NewVitalsRepository builds the repository.
func NewVitalsRepository(pool *pgxpool.Pool) VitalsRepository {
	return &vitalsRepository{pool: pool}
}

func (r *vitalsRepository) Create(ctx context.Context, record *domain.VitalsRecord) error {
	const query = `
        INSERT INTO vitals_history (id, patient_id, vitals, recorded_by, recorded_at)
        VALUES ($1,$2,$3,$4,$5)`
	_, err := r.pool.Exec(ctx, query,
		record.ID,
		record.PatientID,
		record.Vitals,
		record.RecordedBy,
		record.RecordedAt,
	)
	return err
}

func (r *vitalsRepository) ListByPatient(ctx context.Context, patientID string) ([]domain.VitalsRecord, error) {
	const query = `
        SELECT id, patient_id, vitals, recorded_by, recorded_at
        FROM vitals_history WHERE patient_id=$1 ORDER BY recorded_at ASC`
	return r.list(ctx, query, patientID)
}

func (r *vitalsRepository) ListByPatientAndRange(ctx context.Context, patientID string, from, to time.Time) ([]domain.VitalsRecord, error) {
	const query = `
        SELECT id, patient_id, vitals, recorded_by, recorded_at
        FROM vitals_history WHERE patient_id=$1 AND recorded_at >= $2 AND recorded_at <= $3
        ORDER BY recorded_at ASC`
	return r.list(ctx, query, patientID, from, to)
}

func (r *vitalsRepository) list(ctx context.Context, query string, args ...any) ([]domain.VitalsRecord, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.VitalsRecord
	for rows.Next() {
		var record domain.VitalsRecord
		if err := rows.Scan(
			&record.ID,
			&record.PatientID,
			&record.Vitals,
			&record.RecordedBy,
			&record.RecordedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, record)
	}
	return result, rows.Err()
}
