package domain

import "time"

// Session binds one authenticated device/origin to an identity via the
// current renewal credential's jti. Rotation replaces the jti and token hash
// under the same session row; revocation is a flag so the audit trail keeps
// the row.
type Session struct {
	ID               string
	IdentityID       string
	RefreshJti       string // current renewal credential jti; unique among live sessions
	PrevRefreshJti   string // jti rotated away by the last renewal; proves replay of a stale token
	RefreshTokenHash string // SHA-256 hash of the current renewal token
	Device           string
	IPAddress        string
	ExpiresAt        time.Time
	RevokedAt        *time.Time // nil when not revoked
	LastSeenAt       *time.Time
	CreatedAt        time.Time
}

// Live reports whether the session is usable for renewal at the given time:
// not revoked and not expired.
func (s *Session) Live(now time.Time) bool {
	return s != nil && s.RevokedAt == nil && s.ExpiresAt.After(now)
}
