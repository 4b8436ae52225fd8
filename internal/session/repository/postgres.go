package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"auth-control-plane/internal/db"
	"auth-control-plane/internal/session/domain"
)

type PostgresRepository struct {
	conn *sql.DB
}

// NewPostgresRepository returns a session repository backed by the given db.
func NewPostgresRepository(conn *sql.DB) *PostgresRepository {
	return &PostgresRepository{conn: conn}
}

const sessionColumns = "id, identity_id, refresh_jti, prev_refresh_jti, refresh_token_hash, device, ip_address, expires_at, revoked_at, last_seen_at, created_at"

// Create persists the session. The partial unique index on live refresh_jti
// turns a duplicate into db.ErrConflict.
func (r *PostgresRepository) Create(ctx context.Context, s *domain.Session) error {
	_, err := r.conn.ExecContext(ctx,
		`INSERT INTO sessions (id, identity_id, refresh_jti, prev_refresh_jti, refresh_token_hash, device, ip_address, expires_at, revoked_at, last_seen_at, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		s.ID, s.IdentityID, s.RefreshJti, s.PrevRefreshJti, s.RefreshTokenHash, s.Device, s.IPAddress,
		s.ExpiresAt, timeToNull(s.RevokedAt), timeToNull(s.LastSeenAt), s.CreatedAt)
	return db.Classify(err)
}

// GetByRefreshJti returns the newest session whose current or rotated-away
// jti is jti, or nil if none. Revoked rows are returned too; the caller
// decides what a dead session means (renewal reuse detection needs to see
// both the revoked and the rotated-away case).
func (r *PostgresRepository) GetByRefreshJti(ctx context.Context, jti string) (*domain.Session, error) {
	row := r.conn.QueryRowContext(ctx,
		"SELECT "+sessionColumns+` FROM sessions
		 WHERE refresh_jti = $1 OR prev_refresh_jti = $1
		 ORDER BY created_at DESC LIMIT 1`, jti)
	return scanSession(row)
}

// Rotate performs the compare-and-swap: one UPDATE conditioned on the old jti
// still being live. The old jti is kept as the session's previous jti so a
// later presentation of it is provably a replay. No matched row → ErrNotFound;
// unique-index rejection of the new jti → ErrConflict.
func (r *PostgresRepository) Rotate(ctx context.Context, oldJti, newJti, newHash string, newExpiry time.Time) (*domain.Session, error) {
	row := r.conn.QueryRowContext(ctx,
		`UPDATE sessions
		 SET refresh_jti = $2, prev_refresh_jti = refresh_jti, refresh_token_hash = $3, expires_at = $4
		 WHERE refresh_jti = $1 AND revoked_at IS NULL AND expires_at > now()
		 RETURNING `+sessionColumns,
		oldJti, newJti, newHash, newExpiry)
	s, err := scanSession(row)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, db.ErrNotFound
	}
	return s, nil
}

// Revoke marks the session holding jti revoked. Idempotent by construction:
// updating zero rows is success.
func (r *PostgresRepository) Revoke(ctx context.Context, jti string) error {
	_, err := r.conn.ExecContext(ctx,
		`UPDATE sessions SET revoked_at = $2 WHERE refresh_jti = $1 AND revoked_at IS NULL`,
		jti, time.Now().UTC())
	return db.Classify(err)
}

// RevokeAllByIdentity revokes every live session of the identity ("log out everywhere").
func (r *PostgresRepository) RevokeAllByIdentity(ctx context.Context, identityID string) error {
	_, err := r.conn.ExecContext(ctx,
		`UPDATE sessions SET revoked_at = $2 WHERE identity_id = $1 AND revoked_at IS NULL`,
		identityID, time.Now().UTC())
	return db.Classify(err)
}

// UpdateLastSeen sets the session's last-seen timestamp.
func (r *PostgresRepository) UpdateLastSeen(ctx context.Context, id string, at time.Time) error {
	_, err := r.conn.ExecContext(ctx,
		`UPDATE sessions SET last_seen_at = $2 WHERE id = $1`, id, at)
	return db.Classify(err)
}

// SweepExpired marks expired live sessions revoked and reports how many.
func (r *PostgresRepository) SweepExpired(ctx context.Context) (int64, error) {
	res, err := r.conn.ExecContext(ctx,
		`UPDATE sessions SET revoked_at = now() WHERE revoked_at IS NULL AND expires_at <= now()`)
	if err != nil {
		return 0, db.Classify(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, db.Classify(err)
	}
	return n, nil
}

func timeToNull(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func scanSession(row *sql.Row) (*domain.Session, error) {
	var s domain.Session
	var revokedAt, lastSeenAt sql.NullTime
	err := row.Scan(&s.ID, &s.IdentityID, &s.RefreshJti, &s.PrevRefreshJti, &s.RefreshTokenHash,
		&s.Device, &s.IPAddress, &s.ExpiresAt, &revokedAt, &lastSeenAt, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, db.Classify(err)
	}
	if revokedAt.Valid {
		s.RevokedAt = &revokedAt.Time
	}
	if lastSeenAt.Valid {
		s.LastSeenAt = &lastSeenAt.Time
	}
	return &s, nil
}
