package security

import (
	"testing"
	"time"
)

func TestTokenProvider_IssueAndValidateAccess(t *testing.T) {
	p, err := NewTestTokenProvider()
	if err != nil {
		t.Fatalf("NewTestTokenProvider: %v", err)
	}
	token, jti, expiresAt, err := p.IssueAccess("identity-1")
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	if token == "" || jti == "" {
		t.Fatal("expected non-empty token and jti")
	}
	if !expiresAt.After(time.Now()) {
		t.Error("expiry should be in the future")
	}
	if !p.Validate(token) {
		t.Error("freshly issued access token should validate")
	}
	sub, ok := p.Subject(token)
	if !ok || sub != "identity-1" {
		t.Errorf("Subject = %q, %v; want identity-1, true", sub, ok)
	}
	id, ok := p.UniqueID(token)
	if !ok || id != jti {
		t.Errorf("UniqueID = %q, %v; want %q, true", id, ok, jti)
	}
}

func TestTokenProvider_RenewalOutlivesAccess(t *testing.T) {
	p, err := NewTestTokenProvider()
	if err != nil {
		t.Fatalf("NewTestTokenProvider: %v", err)
	}
	_, _, accessExp, err := p.IssueAccess("identity-1")
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	renewal, _, renewalExp, err := p.IssueRenewal("identity-1")
	if err != nil {
		t.Fatalf("IssueRenewal: %v", err)
	}
	if !accessExp.Before(renewalExp) {
		t.Errorf("access expiry %v should be before renewal expiry %v", accessExp, renewalExp)
	}
	if !p.Validate(renewal) {
		t.Error("freshly issued renewal token should validate")
	}
}

func TestTokenProvider_RenewalClaims(t *testing.T) {
	p, err := NewTestTokenProvider()
	if err != nil {
		t.Fatalf("NewTestTokenProvider: %v", err)
	}

	renewal, jti, _, err := p.IssueRenewal("identity-1")
	if err != nil {
		t.Fatalf("IssueRenewal: %v", err)
	}
	sub, got, ok := p.RenewalClaims(renewal)
	if !ok || sub != "identity-1" || got != jti {
		t.Errorf("RenewalClaims = %q, %q, %v; want identity-1, %q, true", sub, got, ok, jti)
	}

	// An access token shares the key, issuer, and audience but carries a
	// different use claim. It must not pass as a renewal credential.
	access, _, _, err := p.IssueAccess("identity-1")
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	if !p.Validate(access) {
		t.Fatal("access token should validate as a bearer token")
	}
	if _, _, ok := p.RenewalClaims(access); ok {
		t.Error("access token must not yield renewal claims")
	}

	if _, _, ok := p.RenewalClaims("garbage"); ok {
		t.Error("malformed input must not yield renewal claims")
	}
}

func TestTokenProvider_JTIUnique(t *testing.T) {
	p, err := NewTestTokenProvider()
	if err != nil {
		t.Fatalf("NewTestTokenProvider: %v", err)
	}
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		_, jti, _, err := p.IssueAccess("identity-1")
		if err != nil {
			t.Fatalf("IssueAccess: %v", err)
		}
		if seen[jti] {
			t.Fatalf("duplicate jti %q", jti)
		}
		seen[jti] = true
	}
}

func TestTokenProvider_ExpiredTokenFailsValidation(t *testing.T) {
	// Zero TTL puts exp at issuance time; with zero leeway the token is
	// already invalid at its exp instant.
	p, err := NewTestTokenProviderTTL(0, 0)
	if err != nil {
		t.Fatalf("NewTestTokenProviderTTL: %v", err)
	}
	token, _, _, err := p.IssueAccess("identity-1")
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	if p.Validate(token) {
		t.Error("token at/after its expiry must not validate")
	}
	if _, ok := p.Subject(token); ok {
		t.Error("Subject must not be extractable from an expired token")
	}
	if _, ok := p.UniqueID(token); ok {
		t.Error("UniqueID must not be extractable from an expired token")
	}
}

func TestTokenProvider_ExpiryOfExpiredToken(t *testing.T) {
	p, err := NewTestTokenProviderTTL(-time.Hour, -time.Hour)
	if err != nil {
		t.Fatalf("NewTestTokenProviderTTL: %v", err)
	}
	token, _, expiresAt, err := p.IssueAccess("identity-1")
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	got, err := p.Expiry(token)
	if err != nil {
		t.Fatalf("Expiry: %v", err)
	}
	if got.Unix() != expiresAt.Unix() {
		t.Errorf("Expiry = %v, want %v", got, expiresAt)
	}
	if !got.Before(time.Now()) {
		t.Error("claimed expiry should be in the past")
	}
}

func TestTokenProvider_MalformedInput(t *testing.T) {
	p, err := NewTestTokenProvider()
	if err != nil {
		t.Fatalf("NewTestTokenProvider: %v", err)
	}
	for _, in := range []string{"", "garbage", "a.b.c", "eyJhbGciOiJub25lIn0.e30."} {
		if p.Validate(in) {
			t.Errorf("Validate(%q) = true, want false", in)
		}
		if _, ok := p.Subject(in); ok {
			t.Errorf("Subject(%q) should not succeed", in)
		}
	}
	if _, err := p.Expiry("garbage"); err == nil {
		t.Error("Expiry of malformed input should fail")
	}
}

func TestTokenProvider_IssuerAudienceMismatch(t *testing.T) {
	signer, err := ParsePrivateKey(testPrivateKeyPEM)
	if err != nil {
		t.Fatalf("ParsePrivateKey: %v", err)
	}
	pub, err := ParsePublicKey(testPublicKeyPEM)
	if err != nil {
		t.Fatalf("ParsePublicKey: %v", err)
	}
	issuing := NewTokenProvider(signer, pub, "other-issuer", "other-audience", time.Minute, time.Hour)
	verifying := NewTokenProvider(signer, pub, "test-issuer", "test-audience", time.Minute, time.Hour)

	token, _, _, err := issuing.IssueAccess("identity-1")
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	if !issuing.Validate(token) {
		t.Error("issuing provider should accept its own token")
	}
	if verifying.Validate(token) {
		t.Error("token with foreign iss/aud must not validate")
	}
}
