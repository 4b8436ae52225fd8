package domain

import "time"

// Audit actions recorded by the authentication core.
const (
	ActionLoginSuccess        = "login_success"
	ActionLoginFailure        = "login_failure"
	ActionMFAChallengeIssued  = "mfa_challenge_issued"
	ActionMFAChallengeFailed  = "mfa_challenge_failed"
	ActionTokenRenewed        = "token_renewed"
	ActionRenewalReuse        = "renewal_reuse_detected"
	ActionLogout              = "logout"
	ActionLogoutAll           = "logout_all"
)

// Entry is one immutable audit record. Entries are append-only; nothing in
// the core mutates or deletes them.
type Entry struct {
	ID        string
	ActorID   string // identity id, or "unknown" when the lookup failed
	Action    string
	IPAddress string
	Device    string
	Detail    string
	CreatedAt time.Time
}
