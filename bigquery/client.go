package bigquery

import (
	"context"
	"fmt"
	"time"

	bq "cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/projectmcp/bigquery-mcp/observe"
	"github.com/projectmcp/bigquery-mcp/resilience"
)

// ClientConfig configures the BigQuery wrapper.
type ClientConfig struct {
	// ProjectID is the GCP project every operation runs against. Required.
	ProjectID string

	// CredentialsFile is the service account JSON key path. Empty uses
	// application default credentials.
	CredentialsFile string

	// MaxConcurrentQueries caps simultaneous query jobs. Default: 8.
	MaxConcurrentQueries int
}

// Client wraps the BigQuery SDK with the tool operation surface.
// Safe for concurrent use.
type Client struct {
	bq      *bq.Client
	project string
	logger  observe.Logger
	retry   *resilience.Retry
	limiter *resilience.Limiter
}

// NewClient connects to BigQuery.
func NewClient(ctx context.Context, cfg ClientConfig, logger observe.Logger) (*Client, error) {
	if cfg.ProjectID == "" {
		return nil, fmt.Errorf("bigquery: project ID is required")
	}
	if cfg.MaxConcurrentQueries < 1 {
		cfg.MaxConcurrentQueries = 8
	}
	if logger == nil {
		logger = observe.NopLogger()
	}

	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	client, err := bq.NewClient(ctx, cfg.ProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("bigquery: create client: %w", err)
	}

	logger.Info(ctx, "bigquery client initialized", observe.Field{Key: "project", Value: cfg.ProjectID})

	return &Client{
		bq:      client,
		project: cfg.ProjectID,
		logger:  logger,
		retry:   resilience.NewRetry(resilience.RetryConfig{RetryIf: isTransient}),
		limiter: resilience.NewLimiter(int64(cfg.MaxConcurrentQueries)),
	}, nil
}

// Close releases the underlying SDK client.
func (c *Client) Close() error { return c.bq.Close() }

// ProjectID returns the configured project.
func (c *Client) ProjectID() string { return c.project }

// ExecuteQuery runs a SQL query and returns at most maxResults shaped rows
// along with schema and job statistics. The timeout bounds the whole job;
// hitting it fails the call rather than returning partial results.
func (c *Client) ExecuteQuery(ctx context.Context, query string, maxResults int, timeout time.Duration) (*QueryResult, error) {
	var result *QueryResult

	err := c.limiter.Do(ctx, func(ctx context.Context) error {
		return resilience.WithTimeout(ctx, timeout, func(ctx context.Context) error {
			var err error
			result, err = c.runQuery(ctx, query, maxResults)
			return err
		})
	})
	if err != nil {
		c.logger.Error(ctx, "query failed", observe.Field{Key: "error", Value: err.Error()})
		if _, ok := err.(*Error); !ok {
			err = newError(CodeQueryExecution, "failed to execute query", err)
		}
		return nil, err
	}
	return result, nil
}

func (c *Client) runQuery(ctx context.Context, query string, maxResults int) (*QueryResult, error) {
	q := c.bq.Query(query)

	job, err := q.Run(ctx)
	if err != nil {
		return nil, newError(CodeQueryExecution, "failed to start query", err)
	}
	status, err := job.Wait(ctx)
	if err != nil {
		return nil, newError(CodeQueryExecution, "failed to execute query", err)
	}
	if err := status.Err(); err != nil {
		return nil, newError(CodeQueryExecution, "query failed", err)
	}

	it, err := job.Read(ctx)
	if err != nil {
		return nil, newError(CodeQueryExecution, "failed to read query results", err)
	}

	rows := make([]map[string]any, 0)
	for maxResults <= 0 || len(rows) < maxResults {
		var row []bq.Value
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, newError(CodeQueryExecution, "failed to read query results", err)
		}
		rows = append(rows, rowValues(it.Schema, row))
	}

	stats := QueryStatistics{TotalRows: it.TotalRows}
	if js := job.LastStatus(); js != nil && js.Statistics != nil {
		stats.TotalBytesProcessed = js.Statistics.TotalBytesProcessed
		if qs, ok := js.Statistics.Details.(*bq.QueryStatistics); ok {
			stats.TotalBytesBilled = qs.TotalBytesBilled
			stats.CacheHit = qs.CacheHit
			stats.NumDMLAffectedRows = qs.NumDMLAffectedRows
		}
	}

	c.logger.Info(ctx, "query executed",
		observe.Field{Key: "rows", Value: len(rows)},
		observe.Field{Key: "bytes_processed", Value: stats.TotalBytesProcessed},
	)

	return &QueryResult{
		Rows:       rows,
		Schema:     schemaFields(it.Schema),
		Statistics: stats,
		TotalRows:  it.TotalRows,
	}, nil
}

// ListDatasets lists datasets in the project, one page per call.
func (c *Client) ListDatasets(ctx context.Context, maxResults int, pageToken string) (*DatasetList, error) {
	if maxResults <= 0 {
		maxResults = 100
	}

	var list *DatasetList
	err := c.retry.Execute(ctx, func(ctx context.Context) error {
		it := c.bq.Datasets(ctx)
		pager := iterator.NewPager(it, maxResults, pageToken)

		var datasets []*bq.Dataset
		nextToken, err := pager.NextPage(&datasets)
		if err != nil {
			return err
		}

		items := make([]DatasetListItem, 0, len(datasets))
		for _, ds := range datasets {
			items = append(items, DatasetListItem{
				DatasetID:     ds.DatasetID,
				FullDatasetID: ds.ProjectID + "." + ds.DatasetID,
			})
		}
		list = &DatasetList{Datasets: items, NextPageToken: nextToken}
		return nil
	})
	if err != nil {
		return nil, newError(CodeListDatasets, "failed to list datasets", err)
	}
	return list, nil
}

// GetDatasetInfo fetches detailed metadata for one dataset.
func (c *Client) GetDatasetInfo(ctx context.Context, datasetID string) (*DatasetInfo, error) {
	var info *DatasetInfo
	err := c.retry.Execute(ctx, func(ctx context.Context) error {
		md, err := c.bq.Dataset(datasetID).Metadata(ctx)
		if err != nil {
			return err
		}
		info = &DatasetInfo{
			DatasetID:                datasetID,
			Project:                  c.project,
			Location:                 md.Location,
			Description:              md.Description,
			Created:                  formatTime(md.CreationTime),
			Modified:                 formatTime(md.LastModifiedTime),
			DefaultTableExpirationMS: md.DefaultTableExpiration.Milliseconds(),
			Labels:                   labelsOrEmpty(md.Labels),
			AccessEntries:            len(md.Access),
		}
		return nil
	})
	if err != nil {
		return nil, newError(CodeGetDatasetInfo, fmt.Sprintf("failed to get dataset %s", datasetID), err)
	}
	return info, nil
}

// ListTables lists tables in a dataset, one page per call.
func (c *Client) ListTables(ctx context.Context, datasetID string, maxResults int, pageToken string) (*TableList, error) {
	if maxResults <= 0 {
		maxResults = 100
	}

	var list *TableList
	err := c.retry.Execute(ctx, func(ctx context.Context) error {
		it := c.bq.Dataset(datasetID).Tables(ctx)
		pager := iterator.NewPager(it, maxResults, pageToken)

		var tables []*bq.Table
		nextToken, err := pager.NextPage(&tables)
		if err != nil {
			return err
		}

		items := make([]TableListItem, 0, len(tables))
		for _, t := range tables {
			items = append(items, TableListItem{
				TableID:     t.TableID,
				FullTableID: t.ProjectID + "." + t.DatasetID + "." + t.TableID,
			})
		}
		list = &TableList{Tables: items, NextPageToken: nextToken}
		return nil
	})
	if err != nil {
		return nil, newError(CodeListTables, fmt.Sprintf("failed to list tables in %s", datasetID), err)
	}
	return list, nil
}

// GetTableInfo fetches detailed metadata and schema for one table.
func (c *Client) GetTableInfo(ctx context.Context, datasetID, tableID string) (*TableInfo, error) {
	var info *TableInfo
	err := c.retry.Execute(ctx, func(ctx context.Context) error {
		md, err := c.bq.Dataset(datasetID).Table(tableID).Metadata(ctx)
		if err != nil {
			return err
		}

		info = &TableInfo{
			TableID:     tableID,
			DatasetID:   datasetID,
			Project:     c.project,
			TableType:   string(md.Type),
			Created:     formatTime(md.CreationTime),
			Modified:    formatTime(md.LastModifiedTime),
			NumRows:     md.NumRows,
			NumBytes:    md.NumBytes,
			Description: md.Description,
			Schema:      schemaFields(md.Schema),
			Labels:      labelsOrEmpty(md.Labels),
		}
		if tp := md.TimePartitioning; tp != nil {
			info.Partitioning = &TimePartitioning{
				Type:         string(tp.Type),
				Field:        tp.Field,
				ExpirationMS: tp.Expiration.Milliseconds(),
			}
		}
		if cl := md.Clustering; cl != nil {
			info.Clustering = &Clustering{Fields: cl.Fields}
		}
		return nil
	})
	if err != nil {
		return nil, newError(CodeGetTableInfo, fmt.Sprintf("failed to get table %s.%s", datasetID, tableID), err)
	}
	return info, nil
}

// labelsOrEmpty never returns nil so the JSON shape stays stable.
func labelsOrEmpty(labels map[string]string) map[string]string {
	if labels == nil {
		return map[string]string{}
	}
	return labels
}
