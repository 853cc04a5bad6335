package auth

import (
	"encoding/json"
	"net/http"

	"github.com/projectmcp/bigquery-mcp/observe"
)

// Middleware is the request-boundary authentication stage. It replaces
// per-handler auth checks with a single pipeline step that runs before any
// tool handler: JWT verification first, then the static bearer fallback
// when one is configured.
type Middleware struct {
	verifier *Verifier
	bearer   *StaticBearerAuthenticator
	logger   observe.Logger
	metrics  observe.AuthMetrics
}

// NewMiddleware creates the boundary middleware. verifier is required;
// bearer may be nil to disable the legacy path.
func NewMiddleware(verifier *Verifier, bearer *StaticBearerAuthenticator, logger observe.Logger, metrics observe.AuthMetrics) *Middleware {
	if logger == nil {
		logger = observe.NopLogger()
	}
	if metrics == nil {
		metrics = observe.NopAuthMetrics()
	}
	return &Middleware{
		verifier: verifier,
		bearer:   bearer,
		logger:   logger,
		metrics:  metrics,
	}
}

// Wrap returns a handler that authenticates the request before invoking
// next. Every failure produces the same UNAUTHORIZED envelope; the distinct
// error kinds are only logged.
func (m *Middleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		identity, err := m.authenticate(r.Header.Get("Authorization"))
		if err != nil {
			m.metrics.RecordAuth(ctx, "", false)
			m.logger.Warn(ctx, "authentication failed",
				observe.Field{Key: "reason", Value: err.Error()},
				observe.Field{Key: "remote_addr", Value: r.RemoteAddr},
			)
			writeUnauthorized(w)
			return
		}

		m.metrics.RecordAuth(ctx, string(identity.Method), true)
		next.ServeHTTP(w, r.WithContext(WithIdentity(ctx, identity)))
	})
}

// authenticate validates the Authorization header value. The JWT path wins
// when it succeeds; otherwise the presented credential gets one chance
// against the static secret before the JWT failure is reported.
func (m *Middleware) authenticate(header string) (*Identity, error) {
	token, ok := ParseBearer(header)
	if !ok {
		return nil, ErrMissingCredentials
	}

	claims, err := m.verifier.Verify(token)
	if err == nil {
		return IdentityFromClaims(claims), nil
	}

	if m.bearer != nil && m.bearer.Validate(header) {
		return m.bearer.Identity(), nil
	}
	return nil, err
}

// ErrorResponse is the structured error envelope returned to callers.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody carries the machine-readable code and operator message.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeUnauthorized emits the single generic auth failure response. The
// message never varies by failure kind.
func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(ErrorResponse{
		Error: ErrorBody{Code: "UNAUTHORIZED", Message: "authentication required"},
	})
}
