package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/triage-service/internal/domain"
)

// AuditRepository stores the append-only audit trail.
type AuditRepository interface {
	Create(ctx context.Context, record *domain.AuditRecord) error
	ListByPatient(ctx context.Context, patientID string) ([]domain.AuditRecord, error)
	ListByDateRange(ctx context.Context, from, to time.Time) ([]domain.AuditRecord, error)
}

type auditRepository struct {
	pool *pgxpool.Pool
}

// NewAuditRepository builds the repository.
func NewAuditRepository(pool *pgxpool.Pool) AuditRepository {
	return &auditRepository{pool: pool}
}

func (r *auditRepository) Create(ctx context.Context, record *domain.AuditRecord) error {
	const query = `
        INSERT INTO audit_log (id, user_id, action, patient_id, details, occurred_at)
        VALUES ($1,$2,$3,$4,$5,$6)`
	_, err := r.pool.Exec(ctx, query,
		record.ID,
		record.UserID,
		record.Action,
		record.PatientID,
		record.Details,
		record.Timestamp,
	)
	return err
}

func (r *auditRepository) ListByPatient(ctx context.Context, patientID string) ([]domain.AuditRecord, error) {
	const query = `
        SELECT id, user_id, action, patient_id, details, occurred_at
        FROM audit_log WHERE patient_id=$1 ORDER BY occurred_at ASC`
	return r.list(ctx, query, patientID)
}

func (r *auditRepository) ListByDateRange(ctx context.Context, from, to time.Time) ([]domain.AuditRecord, error) {
	const query = `
        SELECT id, user_id, action, patient_id, details, occurred_at
        FROM audit_log WHERE occurred_at >= $1 AND occurred_at <= $2 ORDER BY occurred_at ASC`
	return r.list(ctx, query, from, to)
}

func (r *auditRepository) list(ctx context.Context, query string, args ...any) ([]domain.AuditRecord, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.AuditRecord
	for rows.Next() {
		var record domain.AuditRecord
		if err := rows.Scan(
			&record.ID,
			&record.UserID,
			&record.Action,
			&record.PatientID,
			&record.Details,
			&record.Timestamp,
		); err != nil {
			return nil, err
		}
		result = append(result, record)
	}
	return result, rows.Err()
}
