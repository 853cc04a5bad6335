package auth

import (
	"crypto/subtle"
	"strings"
)

// ParseBearer extracts the credential from an Authorization header value.
// The header must be exactly two whitespace-separated fields with a
// case-insensitive "bearer" scheme. Any other shape (missing header, wrong
// scheme, extra segments) yields no token rather than an error.
func ParseBearer(header string) (token string, ok bool) {
	fields := strings.Fields(header)
	if len(fields) != 2 {
		return "", false
	}
	if !strings.EqualFold(fields[0], "bearer") {
		return "", false
	}
	return fields[1], true
}

// StaticBearerAuthenticator validates the legacy pre-shared bearer secret.
// No claims, no expiry: a request either carries the exact secret or it
// does not, and callers report the failure generically in either case.
//
// The comparison is constant-time. The previous deployment compared with
// plain string equality; hardening it here changes timing only, not the
// accept/reject contract.
type StaticBearerAuthenticator struct {
	secret []byte
}

// NewStaticBearerAuthenticator creates an authenticator for the given
// pre-shared secret.
func NewStaticBearerAuthenticator(secret string) *StaticBearerAuthenticator {
	return &StaticBearerAuthenticator{secret: []byte(secret)}
}

// Validate reports whether the Authorization header value carries the
// configured secret.
func (a *StaticBearerAuthenticator) Validate(header string) bool {
	token, ok := ParseBearer(header)
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), a.secret) == 1
}

// Identity returns the identity assigned to bearer-authenticated requests.
// The legacy path carries no claims, so the identity is a fixed principal
// with no scopes.
func (a *StaticBearerAuthenticator) Identity() *Identity {
	return &Identity{Principal: "bearer", Method: MethodBearer}
}
