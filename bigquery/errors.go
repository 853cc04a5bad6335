package bigquery

import (
	"errors"
	"fmt"

	"google.golang.org/api/googleapi"
)

// Error codes surfaced to tool callers in the error envelope.
const (
	CodeQueryExecution = "QUERY_EXECUTION_ERROR"
	CodeListDatasets   = "LIST_DATASETS_ERROR"
	CodeGetDatasetInfo = "GET_DATASET_INFO_ERROR"
	CodeListTables     = "LIST_TABLES_ERROR"
	CodeGetTableInfo   = "GET_TABLE_INFO_ERROR"
	CodeInternal       = "INTERNAL_ERROR"
)

// Error is a failed BigQuery operation with its envelope code.
type Error struct {
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("bigquery: %s: %v", e.Message, e.Err)
	}
	return "bigquery: " + e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// newError wraps err with a code and operator message.
func newError(code, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// CodeOf extracts the envelope code from err, defaulting to INTERNAL_ERROR
// for anything that is not a *Error.
func CodeOf(err error) string {
	var bqErr *Error
	if errors.As(err, &bqErr) {
		return bqErr.Code
	}
	return CodeInternal
}

// isTransient reports whether err is worth retrying: server-side failures
// and rate limiting, never client errors.
func isTransient(err error) bool {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Code >= 500 || apiErr.Code == 429
}
