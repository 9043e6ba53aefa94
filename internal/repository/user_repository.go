package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/triage-service/internal/domain"
)

// UserRepository defines persistence access for staff accounts shared by
// every role. Doctors and nurses carry the same identity shape plus their
// profile tables.
type UserRepository interface {
	Create(ctx context.Context, person *domain.Person) error
	Update(ctx context.Context, person *domain.Person) error
	GetByID(ctx context.Context, id string) (*domain.Person, error)
	GetByEmail(ctx context.Context, email string) (*domain.Person, error)
	ListByRole(ctx context.Context, role domain.Role) ([]domain.Person, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

func (r *userRepository) Create(ctx context.Context, person *domain.Person) error {
	const query = `
        INSERT INTO users (id, email, name, password_hash, role, status, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`
	_, err := r.pool.Exec(ctx, query,
		person.ID,
		person.Email,
		person.Name,
		person.PasswordHash,
		person.Role,
		person.Status,
		person.CreatedAt,
		person.UpdatedAt,
	)
	return err
}

func (r *userRepository) Update(ctx context.Context, person *domain.Person) error {
	const query = `
        UPDATE users SET email=$1, name=$2, password_hash=$3, role=$4, status=$5, updated_at=NOW()
        WHERE id=$6`
	cmd, err := r.pool.Exec(ctx, query,
		person.Email,
		person.Name,
		person.PasswordHash,
		person.Role,
		person.Status,
		person.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.Person, error) {
	const query = userSelect + ` WHERE id=$1`
	return scanPerson(r.pool.QueryRow(ctx, query, id))
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.Person, error) {
	const query = userSelect + ` WHERE email=$1`
	return scanPerson(r.pool.QueryRow(ctx, query, email))
}

func (r *userRepository) ListByRole(ctx context.Context, role domain.Role) ([]domain.Person, error) {
	const query = userSelect + ` WHERE role=$1 ORDER BY name ASC`
	rows, err := r.pool.Query(ctx, query, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Person
	for rows.Next() {
		person, err := scanPerson(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *person)
	}
	return result, rows.Err()
}

const userSelect = `
        SELECT id, email, name, password_hash, role, status, created_at, updated_at
        FROM users`

func scanPerson(row rowScanner) (*domain.Person, error) {
	var person domain.Person
	if err := row.Scan(
		&person.ID,
		&person.Email,
		&person.Name,
		&person.PasswordHash,
		&person.Role,
		&person.Status,
		&person.CreatedAt,
		&person.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &person, nil
}
