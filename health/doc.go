// Package health provides liveness and readiness checks for the server.
// Checkers run concurrently under a shared deadline; readiness reflects the
// worst individual status.
package health
