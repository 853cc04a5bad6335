package auth

import "time"

// Method indicates how a request was authenticated.
type Method string

const (
	MethodJWT    Method = "jwt"
	MethodBearer Method = "bearer"
)

// Identity is the authenticated principal attached to a request after the
// boundary middleware accepts it.
type Identity struct {
	// Principal is the authenticated subject.
	Principal string

	// Scopes are the permission tags carried by the credential.
	Scopes []string

	// Method is how the credential was validated.
	Method Method

	// IssuedAt and ExpiresAt mirror the token claims. Zero for the legacy
	// bearer path.
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// HasScope reports whether the identity carries the given scope.
func (id *Identity) HasScope(scope string) bool {
	for _, s := range id.Scopes {
		if s == scope {
			return true
		}
	}
	return false
}

// IdentityFromClaims builds the request identity from verified claims.
func IdentityFromClaims(claims *Claims) *Identity {
	return &Identity{
		Principal: claims.Subject,
		Scopes:    claims.Scopes,
		Method:    MethodJWT,
		IssuedAt:  claims.IssuedAt,
		ExpiresAt: claims.ExpiresAt,
	}
}
