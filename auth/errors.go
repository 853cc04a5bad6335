package auth

import "errors"

// Sentinel errors for key handling, issuance, and verification.
//
// The verifier errors are ordered by check: a token that is both expired and
// issued by the wrong party fails with ErrIssuerMismatch, because issuer is
// checked before expiry. Only the middleware's generic UNAUTHORIZED response
// ever reaches the caller; these exist for logs and tests.
var (
	// Key material errors
	ErrInvalidKey = errors.New("auth: invalid key material")

	// Issuance errors
	ErrInvalidClaims = errors.New("auth: invalid claims")

	// Verification errors, in check order
	ErrTokenMalformed   = errors.New("auth: token malformed")
	ErrInvalidSignature = errors.New("auth: invalid token signature")
	ErrIssuerMismatch   = errors.New("auth: issuer mismatch")
	ErrAudienceMismatch = errors.New("auth: audience mismatch")
	ErrTokenExpired     = errors.New("auth: token expired")

	// Boundary errors
	ErrMissingCredentials = errors.New("auth: missing credentials")
)
