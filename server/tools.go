package server

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/projectmcp/bigquery-mcp/auth"
	"github.com/projectmcp/bigquery-mcp/bigquery"
	"github.com/projectmcp/bigquery-mcp/observe"
)

// Tool argument bounds, matching the published tool contract.
const (
	defaultMaxResults = 1000
	maxMaxResults     = 10000
	defaultTimeoutSec = 30.0
	minTimeoutSec     = 1.0
	maxTimeoutSec     = 300.0
	maxListResults    = 1000
)

// toolFunc is an inner tool implementation: a shaped payload or a backend
// error carrying an envelope code.
type toolFunc func(ctx context.Context, req mcp.CallToolRequest) (any, error)

// registerTools adds the five BigQuery tools to the MCP server.
func (s *Server) registerTools(m *mcpserver.MCPServer) {
	m.AddTool(mcp.NewTool("execute_query",
		mcp.WithDescription("Execute a SQL query on BigQuery and return rows, schema, and job statistics."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("SQL query to execute on BigQuery"),
		),
		mcp.WithNumber("max_results",
			mcp.DefaultNumber(defaultMaxResults),
			mcp.Min(1),
			mcp.Max(maxMaxResults),
			mcp.Description("Maximum number of rows to return"),
		),
		mcp.WithNumber("timeout",
			mcp.DefaultNumber(defaultTimeoutSec),
			mcp.Min(minTimeoutSec),
			mcp.Max(maxTimeoutSec),
			mcp.Description("Query timeout in seconds"),
		),
	), s.adapt("execute_query", s.executeQuery))

	m.AddTool(mcp.NewTool("list_datasets",
		mcp.WithDescription("List BigQuery datasets in the configured project."),
		mcp.WithNumber("max_results",
			mcp.Min(1),
			mcp.Max(maxListResults),
			mcp.Description("Maximum number of datasets to return per page"),
		),
		mcp.WithString("page_token",
			mcp.Description("Token for retrieving the next page of results"),
		),
	), s.adapt("list_datasets", s.listDatasets))

	m.AddTool(mcp.NewTool("get_dataset_info",
		mcp.WithDescription("Get detailed metadata for a BigQuery dataset."),
		mcp.WithString("dataset_id",
			mcp.Required(),
			mcp.Description("The dataset ID"),
		),
	), s.adapt("get_dataset_info", s.getDatasetInfo))

	m.AddTool(mcp.NewTool("list_tables",
		mcp.WithDescription("List tables in a BigQuery dataset."),
		mcp.WithString("dataset_id",
			mcp.Required(),
			mcp.Description("The dataset ID"),
		),
		mcp.WithNumber("max_results",
			mcp.Min(1),
			mcp.Max(maxListResults),
			mcp.Description("Maximum number of tables to return per page"),
		),
		mcp.WithString("page_token",
			mcp.Description("Token for retrieving the next page of results"),
		),
	), s.adapt("list_tables", s.listTables))

	m.AddTool(mcp.NewTool("get_table_info",
		mcp.WithDescription("Get detailed metadata and schema for a BigQuery table."),
		mcp.WithString("dataset_id",
			mcp.Required(),
			mcp.Description("The dataset ID"),
		),
		mcp.WithString("table_id",
			mcp.Required(),
			mcp.Description("The table ID"),
		),
	), s.adapt("get_table_info", s.getTableInfo))
}

// adapt wraps an inner tool implementation with tracing, metrics, logging,
// and envelope shaping.
func (s *Server) adapt(name string, fn toolFunc) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		principal := auth.PrincipalFromContext(ctx)
		ctx, span := s.tracer.StartTool(ctx, name, principal)

		start := time.Now()
		payload, err := fn(ctx, req)
		duration := time.Since(start)

		s.tracer.EndTool(span, err)
		s.metrics.RecordTool(ctx, name, duration, err)

		logger := s.logger.With(
			observe.Field{Key: "tool", Value: name},
			observe.Field{Key: "principal", Value: principal},
		)

		if err != nil {
			logger.Error(ctx, "tool execution failed",
				observe.Field{Key: "duration_ms", Value: duration.Milliseconds()},
				observe.Field{Key: "error", Value: err.Error()},
			)
			var argErr *argumentError
			if errors.As(err, &argErr) {
				return mcp.NewToolResultError(argErr.Error()), nil
			}
			return envelopeResult(bigquery.CodeOf(err), err.Error())
		}

		logger.Info(ctx, "tool execution completed",
			observe.Field{Key: "duration_ms", Value: duration.Milliseconds()},
		)
		return jsonResult(payload)
	}
}

func (s *Server) executeQuery(ctx context.Context, req mcp.CallToolRequest) (any, error) {
	query, err := req.RequireString("query")
	if err != nil || strings.TrimSpace(query) == "" {
		return nil, argErrorf("query is required")
	}

	maxResults := req.GetInt("max_results", defaultMaxResults)
	if maxResults < 1 || maxResults > maxMaxResults {
		return nil, argErrorf("max_results must be between 1 and %d", maxMaxResults)
	}

	timeoutSec := req.GetFloat("timeout", defaultTimeoutSec)
	if timeoutSec < minTimeoutSec || timeoutSec > maxTimeoutSec {
		return nil, argErrorf("timeout must be between %g and %g seconds", minTimeoutSec, maxTimeoutSec)
	}

	return s.backend.ExecuteQuery(ctx, query, maxResults, time.Duration(timeoutSec*float64(time.Second)))
}

func (s *Server) listDatasets(ctx context.Context, req mcp.CallToolRequest) (any, error) {
	maxResults := req.GetInt("max_results", 0)
	if maxResults < 0 || maxResults > maxListResults {
		return nil, argErrorf("max_results must be between 1 and %d", maxListResults)
	}
	pageToken := req.GetString("page_token", "")

	key := fmt.Sprintf("list_datasets:%d:%s", maxResults, pageToken)
	return s.cached(ctx, key, func(ctx context.Context) (any, error) {
		return s.backend.ListDatasets(ctx, maxResults, pageToken)
	})
}

func (s *Server) getDatasetInfo(ctx context.Context, req mcp.CallToolRequest) (any, error) {
	datasetID, err := req.RequireString("dataset_id")
	if err != nil || datasetID == "" {
		return nil, argErrorf("dataset_id is required")
	}

	return s.cached(ctx, "get_dataset_info:"+datasetID, func(ctx context.Context) (any, error) {
		return s.backend.GetDatasetInfo(ctx, datasetID)
	})
}

func (s *Server) listTables(ctx context.Context, req mcp.CallToolRequest) (any, error) {
	datasetID, err := req.RequireString("dataset_id")
	if err != nil || datasetID == "" {
		return nil, argErrorf("dataset_id is required")
	}
	maxResults := req.GetInt("max_results", 0)
	if maxResults < 0 || maxResults > maxListResults {
		return nil, argErrorf("max_results must be between 1 and %d", maxListResults)
	}
	pageToken := req.GetString("page_token", "")

	key := fmt.Sprintf("list_tables:%s:%d:%s", datasetID, maxResults, pageToken)
	return s.cached(ctx, key, func(ctx context.Context) (any, error) {
		return s.backend.ListTables(ctx, datasetID, maxResults, pageToken)
	})
}

func (s *Server) getTableInfo(ctx context.Context, req mcp.CallToolRequest) (any, error) {
	datasetID, err := req.RequireString("dataset_id")
	if err != nil || datasetID == "" {
		return nil, argErrorf("dataset_id is required")
	}
	tableID, err := req.RequireString("table_id")
	if err != nil || tableID == "" {
		return nil, argErrorf("table_id is required")
	}

	key := fmt.Sprintf("get_table_info:%s:%s", datasetID, tableID)
	return s.cached(ctx, key, func(ctx context.Context) (any, error) {
		return s.backend.GetTableInfo(ctx, datasetID, tableID)
	})
}
