// Package bigquery wraps the Google Cloud BigQuery SDK with the small
// operation surface the MCP tools expose: query execution plus dataset and
// table listing and inspection. Result shaping matches the tool contract
// exactly; all heavy lifting stays in the SDK.
package bigquery
