package server

import (
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/projectmcp/bigquery-mcp/auth"
)

// jsonResult serializes a tool payload into a text result.
func jsonResult(payload any) (*mcp.CallToolResult, error) {
	if raw, ok := payload.(json.RawMessage); ok {
		return mcp.NewToolResultText(string(raw)), nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(data)), nil
}

// envelopeResult shapes a backend failure into the error envelope payload.
// The envelope is the tool's result, not a transport failure.
func envelopeResult(code, message string) (*mcp.CallToolResult, error) {
	return jsonResult(auth.ErrorResponse{
		Error: auth.ErrorBody{Code: code, Message: message},
	})
}
