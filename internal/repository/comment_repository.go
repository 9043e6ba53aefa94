package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/triage-service/internal/domain"
)

// CommentRepository stores clinical notes.
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.PatientComment) error
	Update(ctx context.Context, comment *domain.PatientComment) error
	GetByID(ctx context.Context, id string) (*domain.PatientComment, error)
	ListByPatient(ctx context.Context, patientID string) ([]*domain.PatientComment, error)
	ListByAuthor(ctx context.Context, authorID string) ([]*domain.PatientComment, error)
}

type commentRepository struct {
	pool *pgxpool.Pool
}

// NewCommentRepository builds the repository.
func NewCommentRepository(pool *pgxpool.Pool) CommentRepository {
	return &commentRepository{pool: pool}
}

func (r *commentRepository) Create(ctx context.Context, comment *domain.PatientComment) error {
	const query = `
        INSERT INTO patient_comments (id, patient_id, author_id, author_name, author_role, content, comment_type, created_at, is_edited, edited_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`
	_, err := r.pool.Exec(ctx, query,
		comment.ID,
		comment.PatientID,
		comment.AuthorID,
		comment.AuthorName,
		comment.AuthorRole,
		comment.Content,
		comment.Type,
		comment.CreatedAt,
		comment.IsEdited,
		comment.EditedAt,
	)
	return err
}

func (r *commentRepository) Update(ctx context.Context, comment *domain.PatientComment) error {
	const query = `
        UPDATE patient_comments SET content=$1, is_edited=$2, edited_at=$3
        WHERE id=$4`
	_, err := r.pool.Exec(ctx, query, comment.Content, comment.IsEdited, comment.EditedAt, comment.ID)
	return err
}

func (r *commentRepository) GetByID(ctx context.Context, id string) (*domain.PatientComment, error) {
	const query = commentSelect + ` WHERE id=$1`
	var comment domain.PatientComment
	if err := r.pool.QueryRow(ctx, query, id).Scan(commentFields(&comment)...); err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) ListByPatient(ctx context.Context, patientID string) ([]*domain.PatientComment, error) {
	const query = commentSelect + ` WHERE patient_id=$1 ORDER BY created_at ASC`
	return r.list(ctx, query, patientID)
}

func (r *commentRepository) ListByAuthor(ctx context.Context, authorID string) ([]*domain.PatientComment, error) {
	const query = commentSelect + ` WHERE author_id=$1 ORDER BY created_at DESC`
	return r.list(ctx, query, authorID)
}

const commentSelect = `
        SELECT id, patient_id, author_id, author_name, author_role, content, comment_type, created_at, is_edited, edited_at
        FROM patient_comments`

func commentFields(c *domain.PatientComment) []any {
	return []any{
		&c.ID,
		&c.PatientID,
		&c.AuthorID,
		&c.AuthorName,
		&c.AuthorRole,
		&c.Content,
		&c.Type,
		&c.CreatedAt,
		&c.IsEdited,
		&c.EditedAt,
	}
}

func (r *commentRepository) list(ctx context.Context, query string, arg any) ([]*domain.PatientComment, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.PatientComment
	for rows.Next() {
		var comment domain.PatientComment
		if err := rows.Scan(commentFields(&comment)...); err != nil {
			return nil, err
		}
		result = append(result, &comment)
	}
	return result, rows.Err()
}
