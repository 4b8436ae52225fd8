package repository

import (
	"context"
	"database/sql"
	"errors"

	"auth-control-plane/internal/db"
	"auth-control-plane/internal/identity/domain"
)

type PostgresRepository struct {
	conn *sql.DB
}

// NewPostgresRepository returns an identity repository backed by the given db.
func NewPostgresRepository(conn *sql.DB) *PostgresRepository {
	return &PostgresRepository{conn: conn}
}

const identityColumns = "id, username, password_hash, mfa_enrolled, status, created_at, updated_at"

// GetByID returns the identity for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Identity, error) {
	row := r.conn.QueryRowContext(ctx,
		"SELECT "+identityColumns+" FROM identities WHERE id = $1", id)
	return scanIdentity(row)
}

// GetByUsername returns the identity for username, or nil if not found.
func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*domain.Identity, error) {
	row := r.conn.QueryRowContext(ctx,
		"SELECT "+identityColumns+" FROM identities WHERE username = $1", username)
	return scanIdentity(row)
}

// Create persists the identity. The identity must have ID set.
func (r *PostgresRepository) Create(ctx context.Context, i *domain.Identity) error {
	_, err := r.conn.ExecContext(ctx,
		`INSERT INTO identities (id, username, password_hash, mfa_enrolled, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		i.ID, i.Username, i.PasswordHash, i.MFAEnrolled, string(i.Status), i.CreatedAt, i.UpdatedAt)
	return db.Classify(err)
}

func scanIdentity(row *sql.Row) (*domain.Identity, error) {
	var i domain.Identity
	var status string
	err := row.Scan(&i.ID, &i.Username, &i.PasswordHash, &i.MFAEnrolled, &status, &i.CreatedAt, &i.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, db.Classify(err)
	}
	i.Status = domain.Status(status)
	return &i, nil
}
