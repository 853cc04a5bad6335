// Command bigquery-mcp serves BigQuery tools over an authenticated MCP
// endpoint.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"

	"github.com/projectmcp/bigquery-mcp/auth"
	"github.com/projectmcp/bigquery-mcp/bigquery"
	"github.com/projectmcp/bigquery-mcp/config"
	"github.com/projectmcp/bigquery-mcp/health"
	"github.com/projectmcp/bigquery-mcp/observe"
	"github.com/projectmcp/bigquery-mcp/secret"
	"github.com/projectmcp/bigquery-mcp/server"
)

var version = "dev"

type cli struct {
	Host string `help:"Listen host." env:"HOST" default:"0.0.0.0"`
	Port int    `help:"Listen port." env:"PORT" default:"8080"`

	ProjectID       string `help:"GCP project ID." env:"GCP_PROJECT_ID" required:""`
	CredentialsFile string `help:"Service account JSON key path." env:"GOOGLE_APPLICATION_CREDENTIALS"`

	JWTIssuer        string `help:"Required token issuer." env:"JWT_ISSUER" required:""`
	JWTAudience      string `help:"Required token audience." env:"JWT_AUDIENCE" required:""`
	JWTPublicKeyPath string `help:"Token verification key PEM path." env:"JWT_PUBLIC_KEY_PATH" default:"credentials/public_key.pem"`

	BearerToken string `help:"Legacy pre-shared bearer secret, or a secretref. Empty disables the fallback." env:"BEARER_TOKEN"`

	LogLevel        string  `help:"Log level (debug|info|warn|error)." env:"LOG_LEVEL" default:"info"`
	MetricExporter  string  `help:"Metric exporter (otlp|prometheus|stdout|none)." env:"METRIC_EXPORTER" default:"prometheus"`
	TraceExporter   string  `help:"Trace exporter (otlp|stdout|none)." env:"TRACE_EXPORTER" default:"none"`
	TraceSampleRate float64 `help:"Fraction of traces sampled." env:"TRACE_SAMPLE_RATE" default:"1.0"`

	QueryConcurrency int           `help:"Maximum simultaneous BigQuery queries." env:"QUERY_CONCURRENCY" default:"8"`
	MetadataCacheTTL time.Duration `help:"Dataset/table metadata cache TTL. Zero disables caching." env:"METADATA_CACHE_TTL" default:"30s"`

	Version kong.VersionFlag `help:"Print version and exit."`
}

func main() {
	var flags cli
	kong.Parse(&flags,
		kong.Name("bigquery-mcp"),
		kong.Description("JWT-authenticated MCP server exposing BigQuery tools."),
		kong.Vars{"version": version},
	)

	if err := run(&flags); err != nil {
		fmt.Fprintf(os.Stderr, "bigquery-mcp: %v\n", err)
		os.Exit(1)
	}
}

func run(flags *cli) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	settings := flags.settings()
	if err := settings.Resolve(ctx, secret.NewResolver()); err != nil {
		return err
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	observer, err := observe.NewObserver(ctx, observe.Config{
		ServiceName:     "bigquery-mcp",
		Version:         version,
		LogLevel:        settings.LogLevel,
		MetricExporter:  settings.MetricExporter,
		TraceExporter:   settings.TraceExporter,
		TraceSampleRate: settings.TraceSampleRate,
	})
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = observer.Shutdown(shutdownCtx)
	}()

	publicPEM, err := settings.ReadPublicKey()
	if err != nil {
		return err
	}
	verifier, err := auth.NewVerifier(auth.VerifierConfig{
		Issuer:   settings.JWTIssuer,
		Audience: settings.JWTAudience,
	}, publicPEM)
	if err != nil {
		return err
	}

	var bearer *auth.StaticBearerAuthenticator
	if settings.BearerToken != "" {
		bearer = auth.NewStaticBearerAuthenticator(settings.BearerToken)
	}

	client, err := bigquery.NewClient(ctx, bigquery.ClientConfig{
		ProjectID:            settings.GCPProjectID,
		CredentialsFile:      settings.GoogleApplicationCredentials,
		MaxConcurrentQueries: settings.QueryConcurrency,
	}, observer.Logger())
	if err != nil {
		return err
	}
	defer client.Close()

	srv, err := server.New(server.Options{
		Settings: settings,
		Version:  version,
		Backend:  client,
		Verifier: verifier,
		Bearer:   bearer,
		Observer: observer,
		Checkers: []health.Checker{bigquery.NewHealthChecker(client)},
	})
	if err != nil {
		return err
	}

	return srv.Run(ctx)
}

func (c *cli) settings() config.Settings {
	s := config.Defaults()
	s.Host = c.Host
	s.Port = c.Port
	s.GCPProjectID = c.ProjectID
	s.GoogleApplicationCredentials = c.CredentialsFile
	s.JWTIssuer = c.JWTIssuer
	s.JWTAudience = c.JWTAudience
	s.JWTPublicKeyPath = c.JWTPublicKeyPath
	s.BearerToken = c.BearerToken
	s.LogLevel = c.LogLevel
	s.MetricExporter = c.MetricExporter
	s.TraceExporter = c.TraceExporter
	s.TraceSampleRate = c.TraceSampleRate
	s.QueryConcurrency = c.QueryConcurrency
	s.MetadataCacheTTL = c.MetadataCacheTTL
	return s
}
