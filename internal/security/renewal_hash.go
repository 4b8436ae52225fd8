package security

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// HashRenewalToken returns a SHA-256 hash of the renewal token string, hex-encoded.
// The session store keeps this hash instead of the raw token.
func HashRenewalToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return hex.EncodeToString(h[:])
}

// RenewalTokenHashEqual performs constant-time comparison of the provided token's
// hash with the stored hash. Returns true only if they match.
func RenewalTokenHashEqual(providedToken, storedHash string) bool {
	providedHash := HashRenewalToken(providedToken)
	return subtle.ConstantTimeCompare([]byte(providedHash), []byte(storedHash)) == 1
}
