// Package resilience wraps BigQuery calls with timeouts, retries, and a
// concurrency cap. Query timeouts are caller-bounded per request; retries
// apply only to transient backend errors; the limiter keeps a slow backend
// from absorbing every handler goroutine.
package resilience
