package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/pgElephant/RetailMCP/internal/resources"
	"github.com/pgElephant/RetailMCP/pkg/mcp"
)

// setupResourceHandlers sets up resource-related MCP handlers
func (s *Server) setupResourceHandlers() {
	s.mcpServer.SetHandler("resources/list", s.handleListResources)
	s.mcpServer.SetHandler("resources/read", s.handleReadResource)
}

// handleListResources handles the resources/list request
func (s *Server) handleListResources(ctx context.Context, params json.RawMessage) (interface{}, error) {
	definitions := s.resources.ListResources()

	mcpDefs := make([]mcp.ResourceDefinition, len(definitions))
	for i, def := range definitions {
		mcpDefs[i] = mcp.ResourceDefinition{
			URI:         def.URI,
			Name:        def.Name,
			Description: def.Description,
			MimeType:    def.MimeType,
		}
	}

	return mcp.ListResourcesResponse{Resources: mcpDefs}, nil
}

// handleReadResource handles the resources/read request
func (s *Server) handleReadResource(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var req mcp.ReadResourceRequest
	if err := json.Unmarshal(params, &req); err != nil {
		return nil, mcp.NewError(mcp.ErrCodeInvalidParams, fmt.Sprintf("failed to parse read resource request: %v", err))
	}

	resp, err := s.resources.HandleResource(ctx, req.URI)
	if err != nil {
		var notFound *resources.ResourceNotFoundError
		if errors.As(err, &notFound) {
			return nil, mcp.NewError(mcp.ErrCodeResourceNotFound, err.Error())
		}
		s.logger.Error("Resource read failed", err, map[string]interface{}{"uri": req.URI})
		return nil, mcp.NewError(mcp.ErrCodeExecutionError, fmt.Sprintf("failed to read resource %s: %v", req.URI, err))
	}

	mcpContents := make([]mcp.ResourceContent, len(resp.Contents))
	for i, content := range resp.Contents {
		mcpContents[i] = mcp.ResourceContent{
			URI:      content.URI,
			MimeType: content.MimeType,
			Text:     content.Text,
		}
	}

	return mcp.ReadResourceResponse{Contents: mcpContents}, nil
}
