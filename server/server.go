package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/projectmcp/bigquery-mcp/auth"
	"github.com/projectmcp/bigquery-mcp/cache"
	"github.com/projectmcp/bigquery-mcp/config"
	"github.com/projectmcp/bigquery-mcp/health"
	"github.com/projectmcp/bigquery-mcp/observe"
)

const (
	serviceName     = "bigquery-mcp"
	mcpEndpoint     = "/mcp"
	shutdownTimeout = 10 * time.Second
)

// Options carries everything the server needs at construction.
type Options struct {
	Settings config.Settings
	Version  string

	Backend  Backend
	Verifier *auth.Verifier

	// Bearer may be nil when the pre-shared secret fallback is disabled.
	Bearer *auth.StaticBearerAuthenticator

	Observer *observe.Observer

	// Checkers feed the readiness endpoint.
	Checkers []health.Checker
}

// Server is the assembled HTTP process: the authenticated MCP endpoint plus
// health and metrics endpoints on the same listener.
type Server struct {
	settings config.Settings
	backend  Backend

	logger  observe.Logger
	metrics observe.ToolMetrics
	tracer  *observe.ToolTracer
	cache   *cache.Memory

	httpServer *http.Server
}

// New wires the MCP server, the auth boundary, and the operational
// endpoints into a single handler.
func New(opts Options) (*Server, error) {
	if opts.Backend == nil {
		return nil, errors.New("server: backend is required")
	}
	if opts.Verifier == nil {
		return nil, errors.New("server: verifier is required")
	}
	if opts.Observer == nil {
		return nil, errors.New("server: observer is required")
	}

	metrics, err := observe.NewMetrics(opts.Observer.Meter())
	if err != nil {
		return nil, fmt.Errorf("server: build metrics: %w", err)
	}

	s := &Server{
		settings: opts.Settings,
		backend:  opts.Backend,
		logger:   opts.Observer.Logger(),
		metrics:  metrics,
		tracer:   observe.NewToolTracer(opts.Observer.Tracer()),
		cache:    cache.NewMemory(opts.Settings.MetadataCacheTTL),
	}

	m := mcpserver.NewMCPServer(serviceName, opts.Version,
		mcpserver.WithToolCapabilities(false),
		mcpserver.WithRecovery(),
	)
	s.registerTools(m)

	streamable := mcpserver.NewStreamableHTTPServer(m,
		mcpserver.WithEndpointPath(mcpEndpoint),
	)

	boundary := auth.NewMiddleware(opts.Verifier, opts.Bearer, s.logger, metrics)

	agg := health.NewAggregator(opts.Checkers...)

	mux := http.NewServeMux()
	mux.Handle(mcpEndpoint, boundary.Wrap(streamable))
	mux.Handle("/metrics", promhttp.Handler())
	health.RegisterHandlers(mux, agg)

	s.httpServer = &http.Server{
		Addr:              opts.Settings.Addr(),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info(ctx, "server listening",
		observe.Field{Key: "addr", Value: s.httpServer.Addr},
		observe.Field{Key: "endpoint", Value: mcpEndpoint},
	)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		s.logger.Info(context.Background(), "server shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server: shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}

// cached serves fn's result through the metadata cache. Results are stored
// serialized so hits skip re-marshalling entirely.
func (s *Server) cached(ctx context.Context, key string, fn func(ctx context.Context) (any, error)) (any, error) {
	if data, ok := s.cache.Get(ctx, key); ok {
		return json.RawMessage(data), nil
	}

	payload, err := fn(ctx)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, key, data)
	return json.RawMessage(data), nil
}
