// Package observe provides the telemetry stack for the BigQuery MCP server:
// a structured JSON logger with credential redaction, OpenTelemetry metrics
// for tool executions and authentication outcomes, and tracing around tool
// calls. Exporters (otlp, prometheus, stdout) are selected at startup.
package observe
