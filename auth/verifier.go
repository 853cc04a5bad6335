package auth

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// VerifierConfig holds the expectations checked against every presented
// token. Immutable after construction.
type VerifierConfig struct {
	// Issuer is the exact iss claim a token must carry.
	Issuer string

	// Audience is the audience a token's aud claim must contain.
	Audience string
}

// Verifier validates signed tokens against a fixed public key, issuer, and
// audience. Construct once at process start; safe for concurrent use by any
// number of request handlers without synchronization.
type Verifier struct {
	config VerifierConfig
	key    *rsa.PublicKey
	parser *jwt.Parser
	now    func() time.Time
}

// NewVerifier creates a verifier from a PEM-encoded RSA public key.
// Only RS256 tokens are accepted.
func NewVerifier(config VerifierConfig, publicPEM string) (*Verifier, error) {
	if strings.TrimSpace(config.Issuer) == "" {
		return nil, fmt.Errorf("%w: issuer is required", ErrInvalidClaims)
	}
	if strings.TrimSpace(config.Audience) == "" {
		return nil, fmt.Errorf("%w: audience is required", ErrInvalidClaims)
	}

	key, err := ParsePublicKey(publicPEM)
	if err != nil {
		return nil, err
	}

	// Claims validation is disabled in the parser so expiry is checked
	// manually, after issuer and audience.
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)

	return &Verifier{config: config, key: key, parser: parser, now: time.Now}, nil
}

// Verify validates token and returns its claims. Checks run in a fixed
// order: well-formedness, signature, issuer, audience, expiry. Verification
// is a pure function of (config, token, clock) and has no side effects.
func (v *Verifier) Verify(token string) (*Claims, error) {
	var parsed tokenClaims
	_, err := v.parser.ParseWithClaims(token, &parsed, func(*jwt.Token) (any, error) {
		return v.key, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, fmt.Errorf("%w: %v", ErrTokenMalformed, err)
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
		default:
			return nil, fmt.Errorf("%w: %v", ErrTokenMalformed, err)
		}
	}

	if parsed.Issuer != v.config.Issuer {
		return nil, fmt.Errorf("%w: token issued by %q", ErrIssuerMismatch, parsed.Issuer)
	}

	if !containsAudience(parsed.Audience, v.config.Audience) {
		return nil, ErrAudienceMismatch
	}

	if parsed.ExpiresAt == nil || !v.now().Before(parsed.ExpiresAt.Time) {
		return nil, ErrTokenExpired
	}

	claims := &Claims{
		Subject:   parsed.Subject,
		Issuer:    parsed.Issuer,
		Audience:  v.config.Audience,
		Scopes:    splitScopes(parsed.Scope),
		ExpiresAt: parsed.ExpiresAt.Time,
	}
	if parsed.IssuedAt != nil {
		claims.IssuedAt = parsed.IssuedAt.Time
	}
	return claims, nil
}

// containsAudience reports whether the aud claim (string or list on the
// wire) contains the expected audience.
func containsAudience(audiences jwt.ClaimStrings, target string) bool {
	for _, aud := range audiences {
		if aud == target {
			return true
		}
	}
	return false
}
