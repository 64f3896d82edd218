package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pgElephant/RetailMCP/internal/config"
	"github.com/pgElephant/RetailMCP/internal/database"
	"github.com/pgElephant/RetailMCP/internal/embedding"
	"github.com/pgElephant/RetailMCP/internal/identity"
	"github.com/pgElephant/RetailMCP/internal/logging"
	"github.com/pgElephant/RetailMCP/internal/metrics"
	"github.com/pgElephant/RetailMCP/internal/retail"
	"github.com/pgElephant/RetailMCP/internal/server"
)

func main() {
	var (
		stdio      = flag.Bool("stdio", false, "Serve MCP over stdin/stdout instead of HTTP")
		rlsUserID  = flag.String("rls-user-id", "", "Row-level security user id for every request")
		configPath = flag.String("config", "", "Path to mcp-config.json")
		httpAddr   = flag.String("http-addr", "", "HTTP listen address (overrides config)")
	)
	flag.Parse()

	if err := run(*stdio, *rlsUserID, *configPath, *httpAddr); err != nil {
		fmt.Fprintf(os.Stderr, "retail-mcp: %v\n", err)
		os.Exit(1)
	}
}

func run(stdio bool, rlsUserID, configPath, httpAddr string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfgMgr := config.NewConfigManager()
	cfg, err := cfgMgr.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := logging.NewLogger(&cfg.Logging, stdio)

	db, err := database.Open(ctx, &cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := metrics.RegisterPool(db.GetPoolStats); err != nil {
		logger.Warn("Pool metrics unavailable", map[string]interface{}{"error": err.Error()})
	}

	embedder := embedding.NewEmbedder(&cfg.Embedding)
	if !embedder.Available() {
		logger.Warn("Embedding service not configured; semantic search is disabled", nil)
	}

	srv, err := server.New(server.Options{
		Config:   cfg,
		Logger:   logger,
		Pool:     db,
		Store:    retail.NewStore(db, logger),
		Embedder: embedder,
		Identity: identity.NewResolver(&cfg.Security, rlsUserID, logger),
	})
	if err != nil {
		db.Close()
		return err
	}
	defer func() {
		if err := srv.Stop(); err != nil {
			logger.Error("Error stopping server", err, nil)
		}
	}()

	if stdio {
		err = srv.Start(ctx)
	} else {
		if httpAddr == "" {
			httpAddr = cfg.Server.GetHTTPAddr()
		}
		err = srv.ListenAndServe(ctx, httpAddr)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
