package security

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/rand"
	"crypto/rsa"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken is returned when a token is malformed or invalid.
	ErrInvalidToken = errors.New("invalid token")
)

// Token use values carried in the token_use claim. Access and renewal
// credentials share key, issuer, and audience, so the claim is the only thing
// keeping an access token out of the renewal and logout paths.
const (
	UseAccess  = "access"
	UseRenewal = "renewal"
)

// Claims holds the JWT claims carried by both access and renewal credentials:
// sub (identity id), jti (unique token id), iat, exp, iss, aud, token_use.
type Claims struct {
	Use string `json:"token_use,omitempty"`
	jwt.RegisteredClaims
}

// TokenProvider issues and validates access and renewal credentials as JWTs
// signed with RS256 or ES256 (private/public key). Credentials are stateless:
// validity is decided by signature and expiry alone; revocation awareness
// lives in the session store, keyed by the renewal credential's jti.
//
// The provider is immutable after construction and safe for concurrent use.
type TokenProvider struct {
	privateKey crypto.Signer
	publicKey  crypto.PublicKey
	issuer     string
	audience   string
	accessTTL  time.Duration
	renewalTTL time.Duration
}

// NewTokenProvider returns a TokenProvider that signs with the given private key (RS256 or ES256).
// issuer and audience are set on claims and checked on every validation.
func NewTokenProvider(privateKey crypto.Signer, publicKey crypto.PublicKey, issuer, audience string, accessTTL, renewalTTL time.Duration) *TokenProvider {
	return &TokenProvider{
		privateKey: privateKey,
		publicKey:  publicKey,
		issuer:     issuer,
		audience:   audience,
		accessTTL:  accessTTL,
		renewalTTL: renewalTTL,
	}
}

// IssueAccess issues a short-lived access credential for the given identity.
// Returns the signed token, its jti, and its expiry.
func (p *TokenProvider) IssueAccess(identityID string) (token, jti string, expiresAt time.Time, err error) {
	return p.issue(identityID, UseAccess, p.accessTTL)
}

// IssueRenewal issues a long-lived renewal credential for the given identity.
// Returns the signed token, its jti (to be tracked by the session store), and its expiry.
func (p *TokenProvider) IssueRenewal(identityID string) (token, jti string, expiresAt time.Time, err error) {
	return p.issue(identityID, UseRenewal, p.renewalTTL)
}

func (p *TokenProvider) issue(identityID, use string, ttl time.Duration) (string, string, time.Time, error) {
	jti, err := generateJTI()
	if err != nil {
		return "", "", time.Time{}, err
	}
	now := time.Now().UTC()
	expiresAt := now.Add(ttl)
	claims := Claims{
		Use: use,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   identityID,
			Issuer:    p.issuer,
			Audience:  jwt.ClaimStrings{p.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	var method jwt.SigningMethod
	switch p.privateKey.Public().(type) {
	case *rsa.PublicKey:
		method = jwt.SigningMethodRS256
	case *ecdsa.PublicKey:
		method = jwt.SigningMethodES256
	default:
		return "", "", time.Time{}, ErrInvalidToken
	}
	signed, err := jwt.NewWithClaims(method, claims).SignedString(p.privateKey)
	if err != nil {
		return "", "", time.Time{}, err
	}
	return signed, jti, expiresAt, nil
}

// Validate reports whether the token's signature, issuer, audience, and expiry
// all check out. Malformed input returns false, never an error or panic.
// Expiry is exact with zero leeway: a token is invalid at and after its exp instant.
func (p *TokenProvider) Validate(tokenString string) bool {
	_, err := p.parseVerified(tokenString)
	return err == nil
}

// Subject returns the identity id claimed by the token, but only when the
// token would pass Validate.
func (p *TokenProvider) Subject(tokenString string) (string, bool) {
	claims, err := p.parseVerified(tokenString)
	if err != nil {
		return "", false
	}
	return claims.Subject, true
}

// UniqueID returns the token's jti, but only when the token would pass Validate.
func (p *TokenProvider) UniqueID(tokenString string) (string, bool) {
	claims, err := p.parseVerified(tokenString)
	if err != nil {
		return "", false
	}
	return claims.ID, true
}

// RenewalClaims returns the subject and jti of a valid renewal credential.
// Access credentials and invalid tokens return ok false: an access token must
// never reach a session-revoking path on the strength of its signature alone.
func (p *TokenProvider) RenewalClaims(tokenString string) (subject, jti string, ok bool) {
	claims, err := p.parseVerified(tokenString)
	if err != nil || claims.Use != UseRenewal {
		return "", "", false
	}
	return claims.Subject, claims.ID, true
}

// Expiry returns the token's claimed expiry even when it has already passed.
// The signature is not checked; callers needing "still valid" must use Validate.
func (p *TokenProvider) Expiry(tokenString string) (time.Time, error) {
	var claims Claims
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, &claims); err != nil {
		return time.Time{}, ErrInvalidToken
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, ErrInvalidToken
	}
	return claims.ExpiresAt.Time, nil
}

func (p *TokenProvider) parseVerified(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); ok {
			return p.publicKey, nil
		}
		if _, ok := token.Method.(*jwt.SigningMethodECDSA); ok {
			return p.publicKey, nil
		}
		return nil, ErrInvalidToken
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Issuer != p.issuer {
		return nil, ErrInvalidToken
	}
	audOk := false
	for _, a := range claims.Audience {
		if a == p.audience {
			audOk = true
			break
		}
	}
	if !audOk {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func generateJTI() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
