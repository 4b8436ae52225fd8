package domain

import "time"

// Challenge is the server-side half of an issued MFA challenge reference.
// The opaque reference handed to the caller is the challenge ID; completing
// the second factor consumes the row, binding completion to the original
// login attempt's identity, device, and origin.
type Challenge struct {
	ID         string
	IdentityID string
	Device     string
	IPAddress  string
	ExpiresAt  time.Time
	CreatedAt  time.Time
}

// Expired reports whether the challenge can no longer be redeemed.
func (c *Challenge) Expired(now time.Time) bool {
	return c == nil || !c.ExpiresAt.After(now)
}
