package engine

import (
	"context"
	"fmt"
	"log"

	"github.com/open-policy-agent/opa/v1/ast"
	"github.com/open-policy-agent/opa/v1/rego"

	identitydomain "auth-control-plane/internal/identity/domain"
)

const loginPolicyQuery = "data.authcp.login.mfa_required"

// Default Rego policy: an enrolled identity (or the deployment-wide override)
// must complete a second factor at login.
const defaultRegoPolicy = `package authcp.login

default mfa_required = false

mfa_required if {
	input.always
}

mfa_required if {
	input.identity.mfa_enrolled
}
`

// OPAEvaluator evaluates login MFA policy using OPA Rego.
type OPAEvaluator struct {
	policies []string
}

// NewOPAEvaluator returns an OPA-based policy evaluator. Custom policy modules
// replace the built-in default; pass none to use the default alone.
func NewOPAEvaluator(policies ...string) *OPAEvaluator {
	return &OPAEvaluator{policies: policies}
}

// HealthCheck verifies that the in-process OPA Rego engine can compile and
// evaluate the active policy set. Returns nil on success.
func (e *OPAEvaluator) HealthCheck(ctx context.Context) error {
	input := map[string]interface{}{
		"always": false,
		"identity": map[string]interface{}{
			"id":           "",
			"mfa_enrolled": false,
			"status":       "",
		},
	}
	_, err := e.eval(ctx, input)
	return err
}

// EvaluateMFA evaluates login MFA policy for the identity. Evaluation failure
// falls back to requiring MFA for enrolled identities so a broken policy never
// weakens the gate.
func (e *OPAEvaluator) EvaluateMFA(ctx context.Context, identity *identitydomain.Identity, alwaysRequire bool) (MFAResult, error) {
	input := map[string]interface{}{
		"always": alwaysRequire,
		"identity": map[string]interface{}{
			"id":           "",
			"mfa_enrolled": false,
			"status":       "",
		},
	}
	if identity != nil {
		input["identity"] = map[string]interface{}{
			"id":           identity.ID,
			"mfa_enrolled": identity.MFAEnrolled,
			"status":       string(identity.Status),
		}
	}

	required, err := e.eval(ctx, input)
	if err != nil {
		log.Printf("policy: evaluation failed: %v, using enrollment fallback", err)
		fallback := alwaysRequire || (identity != nil && identity.MFAEnrolled)
		return MFAResult{MFARequired: fallback}, nil
	}
	return MFAResult{MFARequired: required}, nil
}

func (e *OPAEvaluator) eval(ctx context.Context, input map[string]interface{}) (bool, error) {
	modules := make(map[string]string)
	for i, policy := range e.policies {
		if policy == "" {
			continue
		}
		modules[fmt.Sprintf("policy_%d.rego", i)] = policy
	}
	if len(modules) == 0 {
		modules["policy_0.rego"] = defaultRegoPolicy
	}

	compiler, err := ast.CompileModules(modules)
	if err != nil {
		return false, fmt.Errorf("compile policies: %w", err)
	}

	q := rego.New(
		rego.Query(loginPolicyQuery),
		rego.Compiler(compiler),
		rego.Input(input),
	)
	rs, err := q.Eval(ctx)
	if err != nil {
		return false, fmt.Errorf("eval policies: %w", err)
	}
	if len(rs) == 0 || len(rs[0].Expressions) == 0 {
		return false, fmt.Errorf("policy query returned no result")
	}
	v, ok := rs[0].Expressions[0].Value.(bool)
	if !ok {
		return false, fmt.Errorf("policy query returned non-boolean")
	}
	return v, nil
}
