package tools

import (
	"errors"
	"fmt"
	"math"

	"github.com/pgElephant/RetailMCP/internal/database"
	"github.com/pgElephant/RetailMCP/internal/results"
	"github.com/pgElephant/RetailMCP/internal/retail"
)

func stringParam(params map[string]interface{}, key string) string {
	s, _ := params[key].(string)
	return s
}

// limitParam reads a row limit and bounds it to [1, database.MaxRows]. The
// bound is applied before converting so huge values cannot wrap.
func limitParam(params map[string]interface{}, key string, def int) int {
	f, ok := toFloat(params[key])
	if !ok || math.IsNaN(f) {
		return database.ClampLimit(def)
	}
	if f >= database.MaxRows {
		return database.MaxRows
	}
	if f < 1 {
		return 1
	}
	return int(f)
}

func floatParam(params map[string]interface{}, key string, def float64) float64 {
	if f, ok := toFloat(params[key]); ok {
		return f
	}
	return def
}

func stringSliceParam(params map[string]interface{}, key string) []string {
	switch v := params[key].(type) {
	case []string:
		return v
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func invalidParams(errs []string) *ToolResult {
	return Error("Invalid parameters", CodeValidation, map[string]interface{}{"errors": errs})
}

// storeFailure maps an error returned by the store to a tool result
func storeFailure(action string, err error) *ToolResult {
	var (
		bindErr *database.SecurityBindError
		verr    *retail.ValidationError
	)
	switch {
	case errors.As(err, &verr):
		return Error(verr.Message, CodeValidation, map[string]interface{}{"invalid": verr.Invalid})
	case errors.Is(err, database.ErrPoolUnavailable):
		return Error(fmt.Sprintf("%s: %v", action, err), CodePoolUnavailable, nil)
	case errors.Is(err, database.ErrPoolExhausted):
		return Error(fmt.Sprintf("%s: %v. Try again shortly.", action, err), CodePoolExhausted, nil)
	case errors.As(err, &bindErr):
		return Error(fmt.Sprintf("%s: %v", action, err), CodeSecurityContext, nil)
	}
	return Error(fmt.Sprintf("%s: %v", action, err), CodeExecution, nil)
}

// envelopeResult renders an envelope behind a heading line
func envelopeResult(heading string, env *results.Envelope) *ToolResult {
	return Success(heading+"\n"+env.String(), map[string]interface{}{
		"row_count":    env.RowCount,
		"query_failed": env.Failed(),
	})
}
