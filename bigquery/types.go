package bigquery

// SchemaField describes one column of a result set or table.
type SchemaField struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Mode        string `json:"mode"`
	Description string `json:"description,omitempty"`
}

// QueryStatistics summarizes a completed query job.
type QueryStatistics struct {
	TotalRows           uint64 `json:"total_rows"`
	TotalBytesProcessed int64  `json:"total_bytes_processed"`
	TotalBytesBilled    int64  `json:"total_bytes_billed"`
	CacheHit            bool   `json:"cache_hit"`
	NumDMLAffectedRows  int64  `json:"num_dml_affected_rows"`
}

// QueryResult is the shaped output of ExecuteQuery.
type QueryResult struct {
	Rows       []map[string]any `json:"rows"`
	Schema     []SchemaField    `json:"schema"`
	Statistics QueryStatistics  `json:"statistics"`
	TotalRows  uint64           `json:"total_rows"`
}

// DatasetListItem identifies one dataset in a listing.
type DatasetListItem struct {
	DatasetID     string `json:"dataset_id"`
	FullDatasetID string `json:"full_dataset_id"`
}

// DatasetList is a page of datasets.
type DatasetList struct {
	Datasets      []DatasetListItem `json:"datasets"`
	NextPageToken string            `json:"next_page_token,omitempty"`
}

// DatasetInfo is the detailed metadata of one dataset.
type DatasetInfo struct {
	DatasetID                string            `json:"dataset_id"`
	Project                  string            `json:"project"`
	Location                 string            `json:"location"`
	Description              string            `json:"description,omitempty"`
	Created                  string            `json:"created,omitempty"`
	Modified                 string            `json:"modified,omitempty"`
	DefaultTableExpirationMS int64             `json:"default_table_expiration_ms"`
	Labels                   map[string]string `json:"labels"`
	AccessEntries            int               `json:"access_entries"`
}

// TableListItem identifies one table in a listing.
type TableListItem struct {
	TableID     string `json:"table_id"`
	FullTableID string `json:"full_table_id"`
}

// TableList is a page of tables.
type TableList struct {
	Tables        []TableListItem `json:"tables"`
	NextPageToken string          `json:"next_page_token,omitempty"`
}

// TimePartitioning describes a table's time partitioning, if any.
type TimePartitioning struct {
	Type         string `json:"type"`
	Field        string `json:"field,omitempty"`
	ExpirationMS int64  `json:"expiration_ms"`
}

// Clustering describes a table's clustering fields, if any.
type Clustering struct {
	Fields []string `json:"fields"`
}

// TableInfo is the detailed metadata of one table.
type TableInfo struct {
	TableID      string            `json:"table_id"`
	DatasetID    string            `json:"dataset_id"`
	Project      string            `json:"project"`
	TableType    string            `json:"table_type"`
	Created      string            `json:"created,omitempty"`
	Modified     string            `json:"modified,omitempty"`
	NumRows      uint64            `json:"num_rows"`
	NumBytes     int64             `json:"num_bytes"`
	Description  string            `json:"description,omitempty"`
	Schema       []SchemaField     `json:"schema"`
	Partitioning *TimePartitioning `json:"partitioning"`
	Clustering   *Clustering       `json:"clustering"`
	Labels       map[string]string `json:"labels"`
}
