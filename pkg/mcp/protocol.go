package mcp

import (
	"bytes"
	"encoding/json"
	"fmt"
)

const ProtocolVersion = "2024-11-05"

// ParseError is returned for input that is not a JSON-RPC 2.0 message
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse JSON-RPC request: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ParseRequest parses a JSON-RPC request
func ParseRequest(data []byte) (*JSONRPCRequest, error) {
	var req JSONRPCRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, &ParseError{Err: err}
	}

	if req.JSONRPC != "2.0" {
		return nil, &ParseError{Err: fmt.Errorf("invalid JSON-RPC version: %q", req.JSONRPC)}
	}

	return &req, nil
}

// IsNotification reports whether the request carries no id and so expects no reply
func (r *JSONRPCRequest) IsNotification() bool {
	id := bytes.TrimSpace(r.ID)
	return len(id) == 0 || bytes.Equal(id, []byte("null"))
}

// CreateResponse creates a JSON-RPC response
func CreateResponse(id json.RawMessage, result interface{}) *JSONRPCResponse {
	return &JSONRPCResponse{
		JSONRPC: "2.0",
		ID:      responseID(id),
		Result:  result,
	}
}

// CreateErrorResponse creates a JSON-RPC error response
func CreateErrorResponse(id json.RawMessage, code int, message string, data interface{}) *JSONRPCResponse {
	return &JSONRPCResponse{
		JSONRPC: "2.0",
		ID:      responseID(id),
		Error: &JSONRPCError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// responses to unidentifiable requests carry an explicit null id
func responseID(id json.RawMessage) json.RawMessage {
	if len(bytes.TrimSpace(id)) == 0 {
		return json.RawMessage("null")
	}
	return id
}

// Standard JSON-RPC error codes
const (
	ErrCodeParseError     = -32700
	ErrCodeInvalidRequest = -32600
	ErrCodeMethodNotFound = -32601
	ErrCodeInvalidParams  = -32602
	ErrCodeInternalError  = -32603
)

// MCP-specific error codes
const (
	ErrCodeToolNotFound     = -32001
	ErrCodeResourceNotFound = -32002
	ErrCodeExecutionError   = -32003
)

// SerializeResponse serializes a JSON-RPC response to JSON
func SerializeResponse(resp *JSONRPCResponse) ([]byte, error) {
	return json.Marshal(resp)
}

// ValidateRequest validates a JSON-RPC request
func ValidateRequest(req *JSONRPCRequest) error {
	if req.JSONRPC != "2.0" {
		return fmt.Errorf("invalid JSON-RPC version")
	}
	if req.Method == "" {
		return fmt.Errorf("method is required")
	}
	return nil
}
