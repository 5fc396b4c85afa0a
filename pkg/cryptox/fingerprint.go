// Package cryptox holds small helpers for handling credentials safely.
package cryptox

import (
	"crypto/sha256"
	"encoding/base64"
)

// fingerprintLen is long enough to tell tokens apart in logs without making
// the fingerprint a usable lookup key.
const fingerprintLen = 12

// FingerprintToken returns a short, deterministic SHA-256 fingerprint of a
// token so logs can show which credential was used without revealing it.
// The empty token has an empty fingerprint.
func FingerprintToken(token string) string {
	if token == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(token))
	return base64.RawURLEncoding.EncodeToString(sum[:])[:fingerprintLen]
}
