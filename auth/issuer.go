package auth

import (
	"crypto/rsa"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// IssuerConfig configures token issuance.
type IssuerConfig struct {
	// Issuer is the iss claim stamped on every token. Required.
	Issuer string

	// Audience is the aud claim stamped on every token. Required.
	Audience string
}

// Issuer mints RS256-signed tokens. It is an administrative/test-tooling
// component: issuance runs rarely and never on the request path.
type Issuer struct {
	config IssuerConfig
	key    *rsa.PrivateKey
	now    func() time.Time
}

// NewIssuer creates an issuer from an unencrypted PEM-encoded RSA private
// key. Returns ErrInvalidClaims when issuer or audience is empty and
// ErrInvalidKey when the key cannot be parsed.
func NewIssuer(config IssuerConfig, privatePEM string) (*Issuer, error) {
	if strings.TrimSpace(config.Issuer) == "" {
		return nil, fmt.Errorf("%w: issuer is required", ErrInvalidClaims)
	}
	if strings.TrimSpace(config.Audience) == "" {
		return nil, fmt.Errorf("%w: audience is required", ErrInvalidClaims)
	}

	key, err := ParsePrivateKey(privatePEM)
	if err != nil {
		return nil, err
	}

	return &Issuer{config: config, key: key, now: time.Now}, nil
}

// tokenClaims is the wire shape of issued claims. The scope claim is
// space-delimited in first-seen order.
type tokenClaims struct {
	Scope string `json:"scope,omitempty"`
	jwt.RegisteredClaims
}

// Issue signs a token for subject with the given scopes and lifetime.
// Expiry is issuance time plus lifetime; a negative lifetime produces an
// already-expired token, which the test fixtures rely on.
func (i *Issuer) Issue(subject string, scopes []string, lifetime time.Duration) (string, error) {
	issuedAt := i.now()

	claims := tokenClaims{
		Scope: joinScopes(scopes),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    i.config.Issuer,
			Audience:  jwt.ClaimStrings{i.config.Audience},
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(lifetime)),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(i.key)
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, nil
}
