package server

import "fmt"

// argumentError marks a caller mistake in tool arguments. It is surfaced
// as a plain MCP error result rather than a backend error envelope.
type argumentError struct {
	msg string
}

func (e *argumentError) Error() string { return e.msg }

func argErrorf(format string, args ...any) error {
	return &argumentError{msg: fmt.Sprintf(format, args...)}
}
