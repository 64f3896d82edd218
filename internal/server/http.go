package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/pgElephant/RetailMCP/internal/metrics"
	"github.com/pgElephant/RetailMCP/pkg/mcp"
)

const (
	healthTimeout   = 5 * time.Second
	shutdownTimeout = 30 * time.Second
)

// Handler returns the HTTP surface: POST /mcp, GET /health and GET /metrics
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()
	router.Use(RequestIDMiddleware)
	router.Use(MetricsMiddleware)

	router.HandleFunc("/mcp", s.handleMCP).Methods(http.MethodPost)

	if s.config.Server.EnableHealthCheck == nil || *s.config.Server.EnableHealthCheck {
		router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	}
	if s.config.Server.EnableMetrics == nil || *s.config.Server.EnableMetrics {
		router.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)
	}

	return router
}

// handleMCP serves one JSON-RPC message. The caller's headers travel with the
// request context so identity resolution can read them.
func (s *Server) handleMCP(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.config.Server.GetMaxRequestSize()))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge,
				mcp.CreateErrorResponse(nil, mcp.ErrCodeInvalidRequest, "request body too large", nil))
			return
		}
		writeJSON(w, http.StatusBadRequest,
			mcp.CreateErrorResponse(nil, mcp.ErrCodeParseError, fmt.Sprintf("failed to read request body: %v", err), nil))
		return
	}

	ctx := mcp.WithHeaders(r.Context(), r.Header)
	resp := s.mcpServer.HandleMessage(ctx, body)
	if resp == nil {
		w.WriteHeader(http.StatusAccepted)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	if err := s.pool.Ping(ctx); err != nil {
		s.logger.Warn("Health check failed", map[string]interface{}{
			"error":      err.Error(),
			"request_id": GetRequestID(r.Context()),
		})
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// ListenAndServe serves HTTP on addr until ctx is cancelled, then drains
// in-flight requests.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting retail MCP server", map[string]interface{}{
			"transport": "http",
			"addr":      addr,
			"tools":     s.toolRegistry.GetAllToolNames(),
		})
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}
