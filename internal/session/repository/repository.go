package repository

import (
	"context"
	"time"

	"auth-control-plane/internal/session/domain"
)

// Repository defines persistence for sessions. All cross-request coordination
// (uniqueness of live renewal jtis, atomic rotation) lives here; callers never
// lock over session rows themselves.
type Repository interface {
	// Create inserts a new live session. A second live session with the same
	// refresh jti fails with db.ErrConflict.
	Create(ctx context.Context, s *domain.Session) error
	// GetByRefreshJti returns the session holding the given renewal jti
	// (live or revoked), or nil if none exists.
	GetByRefreshJti(ctx context.Context, jti string) (*domain.Session, error)
	// Rotate atomically retires oldJti and activates newJti with the new token
	// hash and expiry under the same session row. Returns db.ErrNotFound when
	// oldJti is not held by a live session, db.ErrConflict when newJti is
	// already taken. Of two concurrent rotations of one jti, exactly one wins.
	Rotate(ctx context.Context, oldJti, newJti, newHash string, newExpiry time.Time) (*domain.Session, error)
	// Revoke marks the session holding jti revoked. Idempotent: a missing or
	// already-revoked session is success.
	Revoke(ctx context.Context, jti string) error
	// RevokeAllByIdentity revokes every live session of the identity.
	RevokeAllByIdentity(ctx context.Context, identityID string) error
	// UpdateLastSeen records renewal activity on the session.
	UpdateLastSeen(ctx context.Context, id string, at time.Time) error
	// SweepExpired marks expired-but-unrevoked sessions revoked and returns
	// how many rows changed. Safe to run concurrently with everything else.
	SweepExpired(ctx context.Context) (int64, error)
}
