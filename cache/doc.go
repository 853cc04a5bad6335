// Package cache provides a TTL cache for BigQuery metadata tool results.
// Dataset and table metadata changes rarely relative to how often agents
// ask for it; a short TTL absorbs repeat lookups without staleness risk on
// query results, which are never cached.
package cache
