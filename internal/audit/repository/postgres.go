package repository

import (
	"context"
	"database/sql"

	"auth-control-plane/internal/audit/domain"
	"auth-control-plane/internal/db"
)

type PostgresRepository struct {
	conn *sql.DB
}

// NewPostgresRepository returns an audit repository backed by the given db.
func NewPostgresRepository(conn *sql.DB) *PostgresRepository {
	return &PostgresRepository{conn: conn}
}

// Create appends the audit entry. The entry must have ID set.
func (r *PostgresRepository) Create(ctx context.Context, e *domain.Entry) error {
	_, err := r.conn.ExecContext(ctx,
		`INSERT INTO audit_entries (id, actor_id, action, ip_address, device, detail, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		e.ID, e.ActorID, e.Action, e.IPAddress, e.Device, e.Detail, e.CreatedAt)
	return db.Classify(err)
}

// ListByActor returns audit entries for the actor, newest first, paginated.
func (r *PostgresRepository) ListByActor(ctx context.Context, actorID string, limit, offset int32) ([]*domain.Entry, error) {
	rows, err := r.conn.QueryContext(ctx,
		`SELECT id, actor_id, action, ip_address, device, detail, created_at
		 FROM audit_entries WHERE actor_id = $1
		 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		actorID, limit, offset)
	if err != nil {
		return nil, db.Classify(err)
	}
	defer rows.Close()

	var out []*domain.Entry
	for rows.Next() {
		var e domain.Entry
		if err := rows.Scan(&e.ID, &e.ActorID, &e.Action, &e.IPAddress, &e.Device, &e.Detail, &e.CreatedAt); err != nil {
			return nil, db.Classify(err)
		}
		out = append(out, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, db.Classify(err)
	}
	return out, nil
}
