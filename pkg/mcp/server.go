package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
)

// HandlerFunc is a function that handles an MCP request
type HandlerFunc func(ctx context.Context, params json.RawMessage) (interface{}, error)

// Server is an MCP protocol server
type Server struct {
	transport *StdioTransport
	mu        sync.RWMutex
	handlers  map[string]HandlerFunc
	info      ServerInfo
	caps      ServerCapabilities
}

// NewServer creates a new MCP server on stdin and stdout
func NewServer(name, version string) *Server {
	return NewServerWithTransport(name, version, NewStdioTransport())
}

// NewServerWithTransport creates a server bound to the given transport
func NewServerWithTransport(name, version string, transport *StdioTransport) *Server {
	s := &Server{
		transport: transport,
		handlers:  make(map[string]HandlerFunc),
		info: ServerInfo{
			Name:    name,
			Version: version,
		},
		caps: ServerCapabilities{
			Tools:     make(map[string]interface{}),
			Resources: make(map[string]interface{}),
		},
	}
	s.handlers["initialize"] = s.HandleInitialize
	s.handlers["ping"] = func(context.Context, json.RawMessage) (interface{}, error) {
		return struct{}{}, nil
	}
	return s
}

// SetHandler registers a handler for a method
func (s *Server) SetHandler(method string, handler HandlerFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[method] = handler
}

// SetCapabilities sets server capabilities
func (s *Server) SetCapabilities(caps ServerCapabilities) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.caps = caps
}

// HandleInitialize handles the initialize request
func (s *Server) HandleInitialize(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var req InitializeRequest
	if len(params) > 0 {
		if err := json.Unmarshal(params, &req); err != nil {
			return nil, fmt.Errorf("failed to parse initialize request: %w", err)
		}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return InitializeResponse{
		ProtocolVersion: ProtocolVersion,
		Capabilities:    s.caps,
		ServerInfo:      s.info,
	}, nil
}

// Run reads requests until the input ends or ctx is cancelled. Requests are
// handled concurrently; Run returns once every in-flight request has replied.
func (s *Server) Run(ctx context.Context) error {
	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		req, err := s.transport.ReadMessage()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			var parseErr *ParseError
			if errors.As(err, &parseErr) {
				s.write(CreateErrorResponse(nil, ErrCodeParseError, parseErr.Error(), nil))
				continue
			}
			return err
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			if resp := s.HandleRequest(ctx, req); resp != nil {
				s.write(resp)
			}
		}()
	}
}

func (s *Server) write(resp *JSONRPCResponse) {
	if err := s.transport.WriteMessage(resp); err != nil {
		s.transport.WriteError(err)
	}
}

// HandleMessage decodes and handles one raw message. It returns nil when no
// reply is due.
func (s *Server) HandleMessage(ctx context.Context, data []byte) *JSONRPCResponse {
	req, err := ParseRequest(data)
	if err != nil {
		return CreateErrorResponse(nil, ErrCodeParseError, err.Error(), nil)
	}
	return s.HandleRequest(ctx, req)
}

// HandleRequest dispatches req to its handler. Notifications are executed
// but get no response.
func (s *Server) HandleRequest(ctx context.Context, req *JSONRPCRequest) *JSONRPCResponse {
	if err := ValidateRequest(req); err != nil {
		if req.IsNotification() {
			return nil
		}
		return CreateErrorResponse(req.ID, ErrCodeInvalidRequest, err.Error(), nil)
	}

	s.mu.RLock()
	handler, exists := s.handlers[req.Method]
	s.mu.RUnlock()

	if req.IsNotification() {
		if exists {
			_, _ = handler(ctx, req.Params)
		}
		return nil
	}

	if !exists {
		return CreateErrorResponse(req.ID, ErrCodeMethodNotFound,
			fmt.Sprintf("method not found: %s", req.Method), nil)
	}

	result, err := handler(ctx, req.Params)
	if err != nil {
		var rpcErr *JSONRPCError
		if errors.As(err, &rpcErr) {
			return CreateErrorResponse(req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		}
		return CreateErrorResponse(req.ID, ErrCodeInternalError, err.Error(), nil)
	}

	return CreateResponse(req.ID, result)
}
