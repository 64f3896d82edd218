package server

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/pgElephant/RetailMCP/internal/config"
	"github.com/pgElephant/RetailMCP/internal/database"
	"github.com/pgElephant/RetailMCP/internal/embedding"
	"github.com/pgElephant/RetailMCP/internal/identity"
	"github.com/pgElephant/RetailMCP/internal/logging"
	"github.com/pgElephant/RetailMCP/internal/middleware"
	"github.com/pgElephant/RetailMCP/internal/resources"
	"github.com/pgElephant/RetailMCP/internal/tools"
	"github.com/pgElephant/RetailMCP/pkg/mcp"
)

// Pool is the connection pool as the server sees it. *database.Database
// implements it.
type Pool interface {
	Ping(ctx context.Context) error
	GetPoolStats() *database.PoolStats
	Close()
}

// Options wires the server to its collaborators. Pool and Store are required.
type Options struct {
	Config    *config.ServerConfig
	Logger    *logging.Logger
	Pool      Pool
	Store     tools.RetailStore
	Embedder  embedding.Embedder
	Identity  identity.Resolver
	Transport *mcp.StdioTransport
	Now       func() time.Time
}

// Server is the main MCP server
type Server struct {
	mcpServer    *mcp.Server
	pool         Pool
	config       *config.ServerConfig
	logger       *logging.Logger
	middleware   *middleware.Manager
	toolRegistry *tools.ToolRegistry
	resources    *resources.Manager
	stopOnce     sync.Once
}

// New creates a new server
func New(opts Options) (*Server, error) {
	if opts.Pool == nil || opts.Store == nil {
		return nil, errors.New("server requires a pool and a store")
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.GetDefaultConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	embedder := opts.Embedder
	if embedder == nil {
		embedder = &embedding.NullEmbedder{}
	}
	resolver := opts.Identity
	if resolver == nil {
		resolver = identity.NewResolver(&cfg.Security, "", logger)
	}
	transport := opts.Transport
	if transport == nil {
		transport = mcp.NewStdioTransport()
	}

	mcpServer := mcp.NewServerWithTransport(cfg.Server.GetName(), cfg.Server.GetVersion(), transport)

	mwManager := middleware.NewManager(logger)
	setupBuiltInMiddleware(mwManager, cfg, logger)

	toolRegistry := tools.NewToolRegistry(logger)
	tools.RegisterAllTools(toolRegistry, tools.Dependencies{
		Store:    opts.Store,
		Embedder: embedder,
		Identity: resolver,
		Features: &cfg.Features,
		Logger:   logger,
		Now:      opts.Now,
	})
	removeDisabledTools(toolRegistry, &cfg.Features, logger)

	resourcesManager := resources.NewManager(
		resources.NewSchemaResource(opts.Store, resolver),
		resources.NewPoolResource(opts.Pool.GetPoolStats),
	)

	s := &Server{
		mcpServer:    mcpServer,
		pool:         opts.Pool,
		config:       cfg,
		logger:       logger,
		middleware:   mwManager,
		toolRegistry: toolRegistry,
		resources:    resourcesManager,
	}

	s.setupHandlers()

	return s, nil
}

func (s *Server) setupHandlers() {
	s.setupToolHandlers()
	s.setupResourceHandlers()

	s.mcpServer.SetCapabilities(mcp.ServerCapabilities{
		Tools:     make(map[string]interface{}),
		Resources: make(map[string]interface{}),
		Logging:   make(map[string]interface{}),
	})
}

// Start serves MCP over the stdio transport until input ends or ctx is done.
// A blocked read does not hold up cancellation.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("Starting retail MCP server", map[string]interface{}{
		"transport": "stdio",
		"tools":     s.toolRegistry.GetAllToolNames(),
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.mcpServer.Run(ctx)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop closes the connection pool. Only the first call has an effect.
func (s *Server) Stop() error {
	s.stopOnce.Do(func() {
		s.logger.Info("Stopping retail MCP server", nil)
		s.pool.Close()
	})
	return nil
}
