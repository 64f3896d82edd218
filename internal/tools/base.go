package tools

import (
	"fmt"
	"math"
	"reflect"
)

// Error codes carried by failed tool results
const (
	CodeValidation           = "VALIDATION_ERROR"
	CodePoolUnavailable      = "POOL_UNAVAILABLE"
	CodePoolExhausted        = "POOL_EXHAUSTED"
	CodeSecurityContext      = "SECURITY_CONTEXT"
	CodeEmbeddingUnavailable = "EMBEDDING_UNAVAILABLE"
	CodeEmbeddingFailed      = "EMBEDDING_FAILED"
	CodeSchema               = "SCHEMA_ERROR"
	CodeExecution            = "EXECUTION_ERROR"
)

// ToolResult represents the result of tool execution. Text is what the
// caller reads on success.
type ToolResult struct {
	Success  bool                   `json:"success"`
	Text     string                 `json:"text,omitempty"`
	Error    *ToolError             `json:"error,omitempty"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// ToolError represents a tool execution error
type ToolError struct {
	Message string      `json:"message"`
	Code    string      `json:"code,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

// BaseTool provides common functionality for tools
type BaseTool struct {
	name        string
	description string
	inputSchema map[string]interface{}
}

// NewBaseTool creates a new base tool
func NewBaseTool(name, description string, inputSchema map[string]interface{}) *BaseTool {
	return &BaseTool{
		name:        name,
		description: description,
		inputSchema: inputSchema,
	}
}

// Name returns the tool name
func (b *BaseTool) Name() string {
	return b.name
}

// Description returns the tool description
func (b *BaseTool) Description() string {
	return b.description
}

// InputSchema returns the input schema
func (b *BaseTool) InputSchema() map[string]interface{} {
	return b.inputSchema
}

// ValidateParams validates parameters against the schema
func (b *BaseTool) ValidateParams(params map[string]interface{}, schema map[string]interface{}) (bool, []string) {
	var errors []string

	// Check required fields
	if required, ok := schema["required"].([]interface{}); ok {
		for _, req := range required {
			if reqStr, ok := req.(string); ok {
				if v, exists := params[reqStr]; !exists || v == nil {
					errors = append(errors, fmt.Sprintf("Missing required parameter: %s", reqStr))
				}
			}
		}
	}

	// Validate parameter types
	if properties, ok := schema["properties"].(map[string]interface{}); ok {
		for key, value := range params {
			if value == nil {
				continue
			}
			if propSchema, exists := properties[key]; exists {
				if propMap, ok := propSchema.(map[string]interface{}); ok {
					if typeError := validateType(value, propMap); typeError != "" {
						errors = append(errors, fmt.Sprintf("Invalid type for %s: %s", key, typeError))
					}
				}
			}
		}
	}

	return len(errors) == 0, errors
}

func validateType(value interface{}, schema map[string]interface{}) string {
	schemaType, ok := schema["type"].(string)
	if !ok {
		return ""
	}

	valueType := reflect.TypeOf(value).Kind()

	switch schemaType {
	case "string":
		if valueType != reflect.String {
			return "expected string"
		}
	case "number":
		if _, ok := toFloat(value); !ok {
			return "expected number"
		}
	case "integer":
		f, ok := toFloat(value)
		if !ok || f != math.Trunc(f) {
			return "expected integer"
		}
	case "boolean":
		if valueType != reflect.Bool {
			return "expected boolean"
		}
	case "array":
		if valueType != reflect.Slice && valueType != reflect.Array {
			return "expected array"
		}
		if items, ok := schema["items"].(map[string]interface{}); ok {
			rv := reflect.ValueOf(value)
			for i := 0; i < rv.Len(); i++ {
				if msg := validateType(rv.Index(i).Interface(), items); msg != "" {
					return fmt.Sprintf("item %d: %s", i, msg)
				}
			}
		}
	case "object":
		if valueType != reflect.Map {
			return "expected object"
		}
	}

	// Validate enum
	if enum, ok := schema["enum"].([]interface{}); ok {
		found := false
		for _, e := range enum {
			if reflect.DeepEqual(value, e) {
				found = true
				break
			}
		}
		if !found {
			return fmt.Sprintf("must be one of: %v", enum)
		}
	}

	// Validate number constraints
	if schemaType == "number" || schemaType == "integer" {
		val, _ := toFloat(value)
		if min, ok := toFloat(schema["minimum"]); ok && val < min {
			return fmt.Sprintf("must be >= %g", min)
		}
		if max, ok := toFloat(schema["maximum"]); ok && val > max {
			return fmt.Sprintf("must be <= %g", max)
		}
	}

	return ""
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// Success creates a success result
func Success(text string, metadata map[string]interface{}) *ToolResult {
	return &ToolResult{
		Success:  true,
		Text:     text,
		Metadata: metadata,
	}
}

// Error creates an error result
func Error(message, code string, details interface{}) *ToolResult {
	return &ToolResult{
		Success: false,
		Error: &ToolError{
			Message: message,
			Code:    code,
			Details: details,
		},
	}
}
