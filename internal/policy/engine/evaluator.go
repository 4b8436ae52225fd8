package engine

import (
	"context"

	identitydomain "auth-control-plane/internal/identity/domain"
)

// MFAResult holds the result of login MFA policy evaluation.
type MFAResult struct {
	MFARequired bool
}

// Evaluator decides whether a login attempt must complete a second factor
// before credentials are issued.
type Evaluator interface {
	// EvaluateMFA evaluates login policy for the identity. alwaysRequire is the
	// deployment-wide override that forces MFA regardless of enrollment.
	EvaluateMFA(ctx context.Context, identity *identitydomain.Identity, alwaysRequire bool) (MFAResult, error)
}
