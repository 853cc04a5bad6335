package auth

import (
	"errors"
	"testing"
	"time"
)

func TestNewIssuerValidation(t *testing.T) {
	keys, _ := testKeyPairs(t)

	if _, err := NewIssuer(IssuerConfig{Issuer: "", Audience: testAudience}, keys.PrivatePEM); !errors.Is(err, ErrInvalidClaims) {
		t.Errorf("empty issuer error = %v, want ErrInvalidClaims", err)
	}
	if _, err := NewIssuer(IssuerConfig{Issuer: testIssuer, Audience: "  "}, keys.PrivatePEM); !errors.Is(err, ErrInvalidClaims) {
		t.Errorf("blank audience error = %v, want ErrInvalidClaims", err)
	}
	if _, err := NewIssuer(IssuerConfig{Issuer: testIssuer, Audience: testAudience}, "not a key"); !errors.Is(err, ErrInvalidKey) {
		t.Errorf("bad key error = %v, want ErrInvalidKey", err)
	}
}

func TestIssueUniqueTokenIDs(t *testing.T) {
	keys, _ := testKeyPairs(t)
	iss := newTestIssuer(t, keys)

	a, err := iss.Issue("alice", []string{"read"}, time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	b, err := iss.Issue("alice", []string{"read"}, time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if a == b {
		t.Error("two tokens with identical claims are byte-identical; jti should differ")
	}
}

func TestIssueEmptyScopes(t *testing.T) {
	keys, _ := testKeyPairs(t)
	iss := newTestIssuer(t, keys)
	v := newTestVerifier(t, keys)

	token, err := iss.Issue("alice", nil, time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	claims, err := v.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if len(claims.Scopes) != 0 {
		t.Errorf("Scopes = %v, want none", claims.Scopes)
	}
}
