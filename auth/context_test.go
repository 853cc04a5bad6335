package auth

import (
	"context"
	"testing"
)

func TestIdentityContextRoundTrip(t *testing.T) {
	id := &Identity{Principal: "alice", Method: MethodJWT, Scopes: []string{"read"}}
	ctx := WithIdentity(context.Background(), id)

	if got := IdentityFromContext(ctx); got != id {
		t.Errorf("IdentityFromContext = %v, want %v", got, id)
	}
	if got := PrincipalFromContext(ctx); got != "alice" {
		t.Errorf("PrincipalFromContext = %q, want %q", got, "alice")
	}
}

func TestIdentityContextEmpty(t *testing.T) {
	ctx := context.Background()
	if got := IdentityFromContext(ctx); got != nil {
		t.Errorf("IdentityFromContext = %v, want nil", got)
	}
	if got := PrincipalFromContext(ctx); got != "" {
		t.Errorf("PrincipalFromContext = %q, want empty", got)
	}
}
