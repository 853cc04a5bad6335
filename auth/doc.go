// Package auth implements the authentication boundary of the BigQuery MCP
// server: RSA key-pair generation, JWT issuance and verification, and the
// legacy static bearer-token fallback.
//
// Verification distinguishes malformed tokens, bad signatures, issuer and
// audience mismatches, and expiry internally. The HTTP middleware collapses
// all of them into a single UNAUTHORIZED response so untrusted callers
// cannot probe which check failed.
package auth
