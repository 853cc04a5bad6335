package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const testBearerSecret = "legacy-shared-secret-of-decent-length"

func newBoundary(t *testing.T, bearer *StaticBearerAuthenticator) (*Middleware, *Issuer) {
	t.Helper()
	keys, _ := testKeyPairs(t)
	iss := newTestIssuer(t, keys)
	v := newTestVerifier(t, keys)
	return NewMiddleware(v, bearer, nil, nil), iss
}

// captureHandler records the identity the middleware injected.
func captureHandler(captured **Identity) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*captured = IdentityFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func doRequest(t *testing.T, h http.Handler, authorization string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/mcp", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestMiddlewareValidJWT(t *testing.T) {
	mw, iss := newBoundary(t, nil)

	token, err := iss.Issue("alice", []string{"read", "write"}, time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	var captured *Identity
	rec := doRequest(t, mw.Wrap(captureHandler(&captured)), "Bearer "+token)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if captured == nil {
		t.Fatal("no identity injected")
	}
	if captured.Principal != "alice" {
		t.Errorf("Principal = %q, want %q", captured.Principal, "alice")
	}
	if captured.Method != MethodJWT {
		t.Errorf("Method = %q, want %q", captured.Method, MethodJWT)
	}
	if !captured.HasScope("write") {
		t.Error("identity missing write scope")
	}
}

func TestMiddlewareBearerFallback(t *testing.T) {
	mw, _ := newBoundary(t, NewStaticBearerAuthenticator(testBearerSecret))

	var captured *Identity
	rec := doRequest(t, mw.Wrap(captureHandler(&captured)), "Bearer "+testBearerSecret)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if captured == nil || captured.Method != MethodBearer {
		t.Errorf("identity = %+v, want bearer method", captured)
	}
}

func TestMiddlewareRejections(t *testing.T) {
	tests := []struct {
		name          string
		bearer        *StaticBearerAuthenticator
		authorization string
	}{
		{"missing header", nil, ""},
		{"wrong scheme", nil, "Basic something"},
		{"garbage token no fallback", nil, "Bearer not-a-jwt"},
		{"garbage token with fallback", NewStaticBearerAuthenticator(testBearerSecret), "Bearer not-the-secret"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mw, _ := newBoundary(t, tt.bearer)

			var captured *Identity
			rec := doRequest(t, mw.Wrap(captureHandler(&captured)), tt.authorization)

			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
			}
			if captured != nil {
				t.Error("handler ran despite rejection")
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q, want application/json", ct)
			}

			var resp ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("unmarshal body: %v", err)
			}
			if resp.Error.Code != "UNAUTHORIZED" {
				t.Errorf("code = %q, want UNAUTHORIZED", resp.Error.Code)
			}
			if resp.Error.Message != "authentication required" {
				t.Errorf("message = %q, want %q", resp.Error.Message, "authentication required")
			}
		})
	}
}

// The response body must not vary with the failure kind.
func TestMiddlewareUniformRejectionBody(t *testing.T) {
	mw, iss := newBoundary(t, nil)
	expired, err := iss.Issue("alice", nil, -time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	handler := mw.Wrap(captureHandler(new(*Identity)))
	bodies := map[string]string{}
	for name, header := range map[string]string{
		"missing":   "",
		"malformed": "Bearer zzz",
		"expired":   "Bearer " + expired,
	} {
		rec := doRequest(t, handler, header)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: status = %d, want 401", name, rec.Code)
		}
		bodies[name] = rec.Body.String()
	}
	if bodies["missing"] != bodies["malformed"] || bodies["malformed"] != bodies["expired"] {
		t.Errorf("rejection bodies differ by failure kind: %v", bodies)
	}
}

func TestMiddlewareJWTWinsOverBearer(t *testing.T) {
	mw, iss := newBoundary(t, NewStaticBearerAuthenticator(testBearerSecret))

	token, err := iss.Issue("alice", []string{"read"}, time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	var captured *Identity
	rec := doRequest(t, mw.Wrap(captureHandler(&captured)), "Bearer "+token)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if captured == nil || captured.Method != MethodJWT {
		t.Errorf("identity = %+v, want jwt method", captured)
	}
}
