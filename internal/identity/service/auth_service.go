package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"auth-control-plane/internal/audit"
	auditdomain "auth-control-plane/internal/audit/domain"
	"auth-control-plane/internal/db"
	identitydomain "auth-control-plane/internal/identity/domain"
	mfadomain "auth-control-plane/internal/mfa/domain"
	"auth-control-plane/internal/monitor"
	"auth-control-plane/internal/policy/engine"
	"auth-control-plane/internal/security"
	sessiondomain "auth-control-plane/internal/session/domain"
)

// Sentinel errors for the auth service; the handler maps them to HTTP codes.
// ErrUnauthorized carries one message for every credential failure so callers
// cannot tell an unknown username from a wrong password.
var (
	ErrUnauthorized = errors.New("invalid username or password")
)

// AuthResult holds the outcome of Login, Renew, or CompleteMFA. When
// RequiresMFA is set the token fields are empty and MFAChallenge carries the
// opaque reference to hand back on the completion call.
type AuthResult struct {
	AccessToken      string
	RenewalToken     string
	AccessExpiresAt  time.Time
	RenewalExpiresAt time.Time
	RequiresMFA      bool
	MFAChallenge     string
	IdentityID       string
}

// IdentityRepo is the minimal identity repository needed by the auth service.
type IdentityRepo interface {
	GetByUsername(ctx context.Context, username string) (*identitydomain.Identity, error)
}

// SessionRepo is the minimal session repository needed by the auth service.
type SessionRepo interface {
	Create(ctx context.Context, s *sessiondomain.Session) error
	GetByRefreshJti(ctx context.Context, jti string) (*sessiondomain.Session, error)
	Rotate(ctx context.Context, oldJti, newJti, newHash string, newExpiry time.Time) (*sessiondomain.Session, error)
	Revoke(ctx context.Context, jti string) error
	RevokeAllByIdentity(ctx context.Context, identityID string) error
	UpdateLastSeen(ctx context.Context, id string, at time.Time) error
}

// ChallengeRepo is the minimal MFA challenge repository needed by the auth service.
type ChallengeRepo interface {
	Create(ctx context.Context, c *mfadomain.Challenge) (*mfadomain.Challenge, error)
	Consume(ctx context.Context, id string) (*mfadomain.Challenge, error)
}

// AuthService orchestrates login, credential renewal, MFA completion, and logout.
type AuthService struct {
	identityRepo  IdentityRepo
	sessionRepo   SessionRepo
	challengeRepo ChallengeRepo
	policy        engine.Evaluator
	auditLog      audit.Logger
	emitter       monitor.Emitter
	hasher        *security.Hasher
	tokens        *security.TokenProvider
	challengeTTL  time.Duration
	mfaAlways     bool
}

// NewAuthService returns an AuthService with the given dependencies.
func NewAuthService(
	identityRepo IdentityRepo,
	sessionRepo SessionRepo,
	challengeRepo ChallengeRepo,
	policy engine.Evaluator,
	auditLog audit.Logger,
	emitter monitor.Emitter,
	hasher *security.Hasher,
	tokens *security.TokenProvider,
	challengeTTL time.Duration,
	mfaAlways bool,
) *AuthService {
	return &AuthService{
		identityRepo:  identityRepo,
		sessionRepo:   sessionRepo,
		challengeRepo: challengeRepo,
		policy:        policy,
		auditLog:      auditLog,
		emitter:       emitter,
		hasher:        hasher,
		tokens:        tokens,
		challengeTTL:  challengeTTL,
		mfaAlways:     mfaAlways,
	}
}

// Login authenticates with username/password. Enrolled identities (or any
// identity when the deployment override is set) get an MFA challenge instead
// of credentials; everyone else gets an access/renewal pair and a session.
// Failure responses never distinguish an unknown username from a bad password
// or a disabled identity; only the audit trail records which it was.
func (s *AuthService) Login(ctx context.Context, username, password, device, ip string) (*AuthResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		s.auditLog.Record(ctx, audit.UnknownActor, auditdomain.ActionLoginFailure, ip, device, "unknown-user")
		return nil, ErrUnauthorized
	}
	ident, err := s.identityRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if ident == nil {
		s.auditLog.Record(ctx, audit.UnknownActor, auditdomain.ActionLoginFailure, ip, device, "unknown-user")
		return nil, ErrUnauthorized
	}
	if ident.Status != identitydomain.StatusActive {
		s.auditLog.Record(ctx, ident.ID, auditdomain.ActionLoginFailure, ip, device, "identity-disabled")
		return nil, ErrUnauthorized
	}
	if err := s.hasher.Compare(ident.PasswordHash, []byte(password)); err != nil {
		s.auditLog.Record(ctx, ident.ID, auditdomain.ActionLoginFailure, ip, device, "bad-credentials")
		return nil, ErrUnauthorized
	}

	decision, err := s.policy.EvaluateMFA(ctx, ident, s.mfaAlways)
	if err != nil {
		return nil, err
	}
	if decision.MFARequired {
		now := time.Now().UTC()
		challenge, err := s.challengeRepo.Create(ctx, &mfadomain.Challenge{
			ID:         uuid.New().String(),
			IdentityID: ident.ID,
			Device:     device,
			IPAddress:  ip,
			ExpiresAt:  now.Add(s.challengeTTL),
			CreatedAt:  now,
		})
		if err != nil {
			return nil, err
		}
		s.auditLog.Record(ctx, ident.ID, auditdomain.ActionMFAChallengeIssued, ip, device, "")
		return &AuthResult{
			RequiresMFA:  true,
			MFAChallenge: challenge.ID,
			IdentityID:   ident.ID,
		}, nil
	}

	result, err := s.issueCredentials(ctx, ident.ID, device, ip)
	if err != nil {
		return nil, err
	}
	s.auditLog.Record(ctx, ident.ID, auditdomain.ActionLoginSuccess, ip, device, "")
	return result, nil
}

// CompleteMFA redeems a challenge reference issued by Login. The challenge is
// single use, time bounded, and bound to the device and origin of the login
// attempt that issued it; anything else is the same generic failure.
func (s *AuthService) CompleteMFA(ctx context.Context, challengeRef, device, ip string) (*AuthResult, error) {
	if strings.TrimSpace(challengeRef) == "" {
		s.auditLog.Record(ctx, audit.UnknownActor, auditdomain.ActionMFAChallengeFailed, ip, device, "missing-reference")
		return nil, ErrUnauthorized
	}
	challenge, err := s.challengeRepo.Consume(ctx, challengeRef)
	if err != nil {
		return nil, err
	}
	if challenge == nil {
		s.auditLog.Record(ctx, audit.UnknownActor, auditdomain.ActionMFAChallengeFailed, ip, device, "unknown-challenge")
		return nil, ErrUnauthorized
	}
	if challenge.Expired(time.Now().UTC()) {
		s.auditLog.Record(ctx, challenge.IdentityID, auditdomain.ActionMFAChallengeFailed, ip, device, "expired-challenge")
		return nil, ErrUnauthorized
	}
	// Completion must come from the same device and origin as the login
	// attempt that issued the challenge. Consume already burned the row, so
	// a mismatch costs the caller the challenge.
	if challenge.Device != device || challenge.IPAddress != ip {
		s.auditLog.Record(ctx, challenge.IdentityID, auditdomain.ActionMFAChallengeFailed, ip, device, "binding-mismatch")
		return nil, ErrUnauthorized
	}

	result, err := s.issueCredentials(ctx, challenge.IdentityID, device, ip)
	if err != nil {
		return nil, err
	}
	s.auditLog.Record(ctx, challenge.IdentityID, auditdomain.ActionLoginSuccess, ip, device, "mfa")
	return result, nil
}

// Renew validates the renewal token, rotates the backing session atomically,
// and returns a fresh access/renewal pair. Only a renewal credential enters
// this path: an access token shares the signing key but not the token_use
// claim, and its subject must never drive a revocation decision. A token that
// matches a session's rotated-away jti is provably a stale-token replay, and
// every session of that identity is revoked in response.
func (s *AuthService) Renew(ctx context.Context, renewalToken, device, ip string) (*AuthResult, error) {
	_, jti, ok := s.tokens.RenewalClaims(renewalToken)
	if !ok {
		return nil, ErrUnauthorized
	}

	sess, err := s.sessionRepo.GetByRefreshJti(ctx, jti)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	switch {
	case sess == nil:
		// No session, current or past, ever carried this jti. The token
		// proves nothing about rotation, so there is nothing to escalate.
		return nil, ErrUnauthorized
	case sess.RefreshJti != jti:
		// Matched on the session's previous jti: this exact token was
		// rotated away, so someone is replaying it.
		if err := s.sessionRepo.RevokeAllByIdentity(ctx, sess.IdentityID); err != nil {
			return nil, err
		}
		s.auditLog.Record(ctx, sess.IdentityID, auditdomain.ActionRenewalReuse, ip, device, "rotated-token-replayed")
		monitor.EmitAsync(s.emitter, ctx, &monitor.Event{
			IdentityID: sess.IdentityID,
			SessionID:  sess.ID,
			EventType:  monitor.EventRenewalReuse,
			Source:     "auth-service",
			Detail:     "rotated-token-replayed",
			CreatedAt:  now,
		})
		return nil, ErrUnauthorized
	case sess.RevokedAt != nil:
		s.auditLog.Record(ctx, sess.IdentityID, auditdomain.ActionRenewalReuse, ip, device, "revoked-session")
		return nil, ErrUnauthorized
	case !sess.Live(now):
		return nil, ErrUnauthorized
	case sess.RefreshTokenHash != "" && !security.RenewalTokenHashEqual(renewalToken, sess.RefreshTokenHash):
		return nil, ErrUnauthorized
	}

	rotated, newRenewal, renewalExp, err := s.rotate(ctx, jti, sess.IdentityID)
	if errors.Is(err, db.ErrConflict) {
		// Lost the jti uniqueness race to an unrelated session; a fresh
		// token gets a fresh jti, so one retry settles it.
		rotated, newRenewal, renewalExp, err = s.rotate(ctx, jti, sess.IdentityID)
	}
	if errors.Is(err, db.ErrNotFound) {
		// A concurrent rotation of the same jti won. This presentation is
		// stale now, but it raced rather than replayed.
		return nil, ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}
	_ = s.sessionRepo.UpdateLastSeen(ctx, rotated.ID, now)

	accessToken, _, accessExp, err := s.tokens.IssueAccess(sess.IdentityID)
	if err != nil {
		return nil, err
	}
	s.auditLog.Record(ctx, sess.IdentityID, auditdomain.ActionTokenRenewed, ip, device, "")
	return &AuthResult{
		AccessToken:      accessToken,
		RenewalToken:     newRenewal,
		AccessExpiresAt:  accessExp,
		RenewalExpiresAt: renewalExp,
		IdentityID:       sess.IdentityID,
	}, nil
}

// Logout revokes the session behind the renewal token. An invalid token, or
// an access token, is a silent no-op so logout never leaks whether a token
// was live.
func (s *AuthService) Logout(ctx context.Context, renewalToken, device, ip string) error {
	subject, jti, ok := s.tokens.RenewalClaims(renewalToken)
	if !ok {
		return nil
	}
	if err := s.sessionRepo.Revoke(ctx, jti); err != nil {
		return err
	}
	s.auditLog.Record(ctx, subject, auditdomain.ActionLogout, ip, device, "")
	return nil
}

// LogoutAll revokes every session of the renewal token's subject.
func (s *AuthService) LogoutAll(ctx context.Context, renewalToken, device, ip string) error {
	subject, _, ok := s.tokens.RenewalClaims(renewalToken)
	if !ok {
		return nil
	}
	if err := s.sessionRepo.RevokeAllByIdentity(ctx, subject); err != nil {
		return err
	}
	s.auditLog.Record(ctx, subject, auditdomain.ActionLogoutAll, ip, device, "")
	return nil
}

// issueCredentials mints an access/renewal pair and persists the session that
// anchors the renewal token.
func (s *AuthService) issueCredentials(ctx context.Context, identityID, device, ip string) (*AuthResult, error) {
	renewalToken, jti, renewalExp, err := s.tokens.IssueRenewal(identityID)
	if err != nil {
		return nil, err
	}
	accessToken, _, accessExp, err := s.tokens.IssueAccess(identityID)
	if err != nil {
		return nil, err
	}
	sess := &sessiondomain.Session{
		ID:               uuid.New().String(),
		IdentityID:       identityID,
		RefreshJti:       jti,
		RefreshTokenHash: security.HashRenewalToken(renewalToken),
		Device:           device,
		IPAddress:        ip,
		ExpiresAt:        renewalExp,
		CreatedAt:        time.Now().UTC(),
	}
	if err := s.sessionRepo.Create(ctx, sess); err != nil {
		return nil, err
	}
	return &AuthResult{
		AccessToken:      accessToken,
		RenewalToken:     renewalToken,
		AccessExpiresAt:  accessExp,
		RenewalExpiresAt: renewalExp,
		IdentityID:       identityID,
	}, nil
}

// rotate issues a fresh renewal token and swaps it into the session in one
// conditional update.
func (s *AuthService) rotate(ctx context.Context, oldJti, identityID string) (*sessiondomain.Session, string, time.Time, error) {
	newRenewal, newJti, renewalExp, err := s.tokens.IssueRenewal(identityID)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	rotated, err := s.sessionRepo.Rotate(ctx, oldJti, newJti, security.HashRenewalToken(newRenewal), renewalExp)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return rotated, newRenewal, renewalExp, nil
}
