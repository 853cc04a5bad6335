package server

import (
	"context"
	"time"

	"github.com/projectmcp/bigquery-mcp/bigquery"
)

// Backend is the BigQuery operation surface the tools call.
// *bigquery.Client implements it; tests substitute fakes.
type Backend interface {
	ExecuteQuery(ctx context.Context, query string, maxResults int, timeout time.Duration) (*bigquery.QueryResult, error)
	ListDatasets(ctx context.Context, maxResults int, pageToken string) (*bigquery.DatasetList, error)
	GetDatasetInfo(ctx context.Context, datasetID string) (*bigquery.DatasetInfo, error)
	ListTables(ctx context.Context, datasetID string, maxResults int, pageToken string) (*bigquery.TableList, error)
	GetTableInfo(ctx context.Context, datasetID, tableID string) (*bigquery.TableInfo, error)
}

var _ Backend = (*bigquery.Client)(nil)
