package auth

import (
	"strings"
	"time"
)

// Claims are the validated contents of a signed token, returned by the
// verifier for downstream authorization decisions.
type Claims struct {
	// Subject is the identity the token was issued to.
	Subject string

	// Issuer is the party that signed the token.
	Issuer string

	// Audience is the service the token is intended for.
	Audience string

	// Scopes are the granted permission tags, duplicates collapsed,
	// first-seen order preserved.
	Scopes []string

	// IssuedAt is when the token was minted.
	IssuedAt time.Time

	// ExpiresAt is when the token stops being valid. Always after IssuedAt
	// for tokens minted with a positive lifetime.
	ExpiresAt time.Time
}

// HasScope reports whether the claims carry the given scope.
func (c *Claims) HasScope(scope string) bool {
	for _, s := range c.Scopes {
		if s == scope {
			return true
		}
	}
	return false
}

// NormalizeScopes trims, drops empties, and collapses duplicate scopes
// while preserving first-seen order. The serialized form of a scope set is
// therefore stable for a given input order, matching the comma-split order
// the provisioning tool accepts.
func NormalizeScopes(scopes []string) []string {
	seen := make(map[string]struct{}, len(scopes))
	out := make([]string, 0, len(scopes))
	for _, s := range scopes {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// ParseScopeList splits a comma-separated scope list into normalized scopes.
func ParseScopeList(s string) []string {
	return NormalizeScopes(strings.Split(s, ","))
}

// joinScopes serializes scopes into the space-delimited scope claim form.
func joinScopes(scopes []string) string {
	return strings.Join(NormalizeScopes(scopes), " ")
}

// splitScopes parses a space-delimited scope claim.
func splitScopes(claim string) []string {
	return NormalizeScopes(strings.Fields(claim))
}
