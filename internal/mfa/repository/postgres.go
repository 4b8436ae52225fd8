package repository

import (
	"context"
	"database/sql"
	"errors"

	"auth-control-plane/internal/db"
	"auth-control-plane/internal/mfa/domain"
)

type PostgresRepository struct {
	conn *sql.DB
}

// NewPostgresRepository returns a challenge repository backed by the given db.
func NewPostgresRepository(conn *sql.DB) *PostgresRepository {
	return &PostgresRepository{conn: conn}
}

const challengeColumns = "id, identity_id, device, ip_address, expires_at, created_at"

func (r *PostgresRepository) Create(ctx context.Context, c *domain.Challenge) (*domain.Challenge, error) {
	row := r.conn.QueryRowContext(ctx,
		`INSERT INTO mfa_challenges (id, identity_id, device, ip_address, expires_at, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+challengeColumns,
		c.ID, c.IdentityID, c.Device, c.IPAddress, c.ExpiresAt, c.CreatedAt)
	return scanChallenge(row)
}

// Consume deletes the challenge and returns it. DELETE ... RETURNING makes the
// fetch-and-remove a single statement, so only one caller can ever win.
func (r *PostgresRepository) Consume(ctx context.Context, id string) (*domain.Challenge, error) {
	row := r.conn.QueryRowContext(ctx,
		`DELETE FROM mfa_challenges WHERE id = $1 RETURNING `+challengeColumns, id)
	return scanChallenge(row)
}

// SweepExpired deletes challenges whose redemption window has passed.
func (r *PostgresRepository) SweepExpired(ctx context.Context) (int64, error) {
	res, err := r.conn.ExecContext(ctx,
		`DELETE FROM mfa_challenges WHERE expires_at <= now()`)
	if err != nil {
		return 0, db.Classify(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, db.Classify(err)
	}
	return n, nil
}

func scanChallenge(row *sql.Row) (*domain.Challenge, error) {
	var c domain.Challenge
	err := row.Scan(&c.ID, &c.IdentityID, &c.Device, &c.IPAddress, &c.ExpiresAt, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, db.Classify(err)
	}
	return &c, nil
}
