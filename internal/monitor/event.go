// Package monitor delivers authentication alerts to the external monitoring
// collaborator: audit-write failures and renewal-token reuse. Delivery is
// best-effort and never gates an authentication operation.
package monitor

import "time"

// Event types emitted by the authentication core.
const (
	EventAuditWriteFailure = "audit_write_failure"
	EventRenewalReuse      = "renewal_reuse_detected"
)

// Event is one monitoring alert.
type Event struct {
	IdentityID string    `json:"identityId,omitempty"`
	SessionID  string    `json:"sessionId,omitempty"`
	EventType  string    `json:"eventType"`
	Source     string    `json:"source"`
	Detail     string    `json:"detail,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}
