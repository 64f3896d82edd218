package server

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pgElephant/RetailMCP/internal/middleware"
	"github.com/pgElephant/RetailMCP/internal/tools"
	"github.com/pgElephant/RetailMCP/pkg/mcp"
)

// setupToolHandlers sets up tool-related MCP handlers
func (s *Server) setupToolHandlers() {
	s.mcpServer.SetHandler("tools/list", s.handleListTools)
	s.mcpServer.SetHandler("tools/call", s.handleCallTool)
}

// handleListTools handles the tools/list request
func (s *Server) handleListTools(ctx context.Context, params json.RawMessage) (interface{}, error) {
	definitions := s.toolRegistry.GetAllDefinitions()

	mcpTools := make([]mcp.ToolDefinition, len(definitions))
	for i, def := range definitions {
		mcpTools[i] = mcp.ToolDefinition{
			Name:        def.Name,
			Description: def.Description,
			InputSchema: def.InputSchema,
		}
	}

	return mcp.ListToolsResponse{Tools: mcpTools}, nil
}

// handleCallTool handles the tools/call request
func (s *Server) handleCallTool(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var req mcp.CallToolRequest
	if err := json.Unmarshal(params, &req); err != nil {
		return nil, mcp.NewError(mcp.ErrCodeInvalidParams, fmt.Sprintf("failed to parse call tool request: %v", err))
	}

	mcpReq := &middleware.MCPRequest{
		Method: "tools/call",
		Params: map[string]interface{}{
			"name":      req.Name,
			"arguments": req.Arguments,
		},
	}
	if id := GetRequestID(ctx); id != "" {
		mcpReq.Metadata = map[string]interface{}{"request_id": id}
	}

	resp, err := s.middleware.Execute(ctx, mcpReq, func(ctx context.Context) (*middleware.MCPResponse, error) {
		return s.executeTool(ctx, req.Name, req.Arguments)
	})
	if err != nil {
		return nil, err
	}
	return toolResponse(resp), nil
}

// executeTool executes a tool and returns the response
func (s *Server) executeTool(ctx context.Context, toolName string, arguments map[string]interface{}) (*middleware.MCPResponse, error) {
	tool := s.toolRegistry.GetTool(toolName)
	if tool == nil {
		return middleware.TextResponse(fmt.Sprintf("Error: Tool not found: %s", toolName), true), nil
	}

	if arguments == nil {
		arguments = map[string]interface{}{}
	}
	result, err := tool.Execute(ctx, arguments)
	if err != nil {
		return nil, err
	}

	return formatToolResult(result), nil
}

// formatToolResult formats a tool result as an MCP response
func formatToolResult(result *tools.ToolResult) *middleware.MCPResponse {
	if !result.Success {
		return formatToolError(result)
	}

	resp := middleware.TextResponse(result.Text, false)
	resp.Metadata = result.Metadata
	return resp
}

// formatToolError formats a tool error as an MCP response
func formatToolError(result *tools.ToolResult) *middleware.MCPResponse {
	errorText := "Unknown error"
	errorMetadata := make(map[string]interface{})

	if result.Error != nil {
		errorText = result.Error.Message
		errorMetadata["message"] = result.Error.Message
		if result.Error.Code != "" {
			errorMetadata["code"] = result.Error.Code
		}
		if result.Error.Details != nil {
			errorMetadata["details"] = result.Error.Details
		}
	}

	resp := middleware.TextResponse("Error: "+errorText, true)
	resp.Metadata = errorMetadata
	return resp
}

func toolResponse(resp *middleware.MCPResponse) mcp.ToolResult {
	content := make([]mcp.ContentBlock, len(resp.Content))
	for i, block := range resp.Content {
		content[i] = mcp.ContentBlock{Type: block.Type, Text: block.Text}
	}
	result := mcp.ToolResult{Content: content, IsError: resp.IsError}
	if len(resp.Metadata) > 0 {
		result.Metadata = resp.Metadata
	}
	return result
}
