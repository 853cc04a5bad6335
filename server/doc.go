// Package server assembles the MCP server: tool registration, the
// authenticated HTTP boundary, health endpoints, and the metrics endpoint.
//
// Tool handlers never fail the transport. Backend failures are shaped into
// an {error: {code, message}} payload and returned as the tool result, the
// same contract downstream agents already handle.
package server
