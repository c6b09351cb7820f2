package service

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/danurwenda/identity-service/pkg/constant"
)

// HashSourceAddress derives a one-way stand-in for the caller's network
// address. The raw address is never persisted; the hash still supports
// equality-based rate-limit grouping.
func HashSourceAddress(ip string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(ip)))
	return hex.EncodeToString(sum[:])
}

// DeviceFingerprint derives a non-reversible fingerprint from the
// client-supplied headers.
func DeviceFingerprint(userAgent, acceptLanguage, acceptEncoding string) string {
	sum := sha256.Sum256([]byte(userAgent + "|" + acceptLanguage + "|" + acceptEncoding))
	return hex.EncodeToString(sum[:])
}

// NewSessionToken returns an opaque unguessable token with 256 bits of
// entropy.
func NewSessionToken() (string, error) {
	buf := make([]byte, constant.SessionTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
