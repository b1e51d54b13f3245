package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/99designs/gqlgen/graphql"
	"github.com/99designs/gqlgen/graphql/handler"
	"github.com/99designs/gqlgen/graphql/handler/extension"
	"github.com/99designs/gqlgen/graphql/handler/transport"
	"github.com/99designs/gqlgen/graphql/playground"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"go.uber.org/zap"

	"github.com/hmans/shelf/internal/catalogcore"
	"github.com/hmans/shelf/internal/config"
	"github.com/hmans/shelf/internal/graph"
)

var (
	servePort  int
	serveWatch bool
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"s"},
	Short:   "Start the GraphQL server",
	Long: `Start an HTTP server that serves the GraphQL API.

The server exposes:
  - GraphQL endpoint at /graphql (POST)
  - GraphQL Playground at /graphql (GET) for interactive queries
  - Health check at /health

Examples:
  # Start server on the configured port (default 22880)
  shelf serve

  # Start server on a custom port
  shelf serve --port 3000

  # Seed the catalog from a file
  shelf serve --seed books.yml

  # Reseed whenever the seed file changes (discards API changes)
  shelf serve --seed books.yml --watch`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("port") {
			cfg.Server.Port = servePort
		}
		if serveWatch {
			if cfg.Catalog.Seed == "" {
				return fmt.Errorf("--watch requires a seed file")
			}
			if err := core.Watch(nil); err != nil {
				return fmt.Errorf("failed to watch seed file: %w", err)
			}
		}
		return runServer()
	},
}

// newGraphQLHandler creates the GraphQL HTTP handler for the given catalog.
func newGraphQLHandler(c *catalogcore.Core, cfg *config.Config, log *zap.Logger) *handler.Server {
	srv := handler.New(graph.NewExecutableSchema(graph.Config{
		Resolvers: &graph.Resolver{Core: c},
	}))
	srv.AddTransport(transport.Options{})
	srv.AddTransport(transport.POST{})

	if cfg.GraphQL.Introspection {
		srv.Use(extension.Introspection{})
	}

	srv.SetErrorPresenter(func(ctx context.Context, err error) *gqlerror.Error {
		gqlErr := graphql.DefaultErrorPresenter(ctx, err)
		log.Debug("graphql error",
			zap.String("message", gqlErr.Message),
			zap.String("path", gqlErr.Path.String()),
		)
		return gqlErr
	})
	srv.SetRecoverFunc(func(ctx context.Context, r any) error {
		log.Error("panic in resolver", zap.Any("panic", r), zap.Stack("stack"))
		return gqlerror.Errorf("internal system error")
	})

	return srv
}

// newRouter sets up the HTTP routes.
func newRouter(c *catalogcore.Core, srv http.Handler, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(log))

	// GraphQL endpoint - POST runs operations, GET serves the playground
	r.POST("/graphql", gin.WrapH(srv))
	r.GET("/graphql", gin.WrapH(playground.Handler("Shelf GraphQL", "/graphql")))

	r.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{
			"status":     "ok",
			"books":      len(c.Books()),
			"authors":    len(c.Authors()),
			"categories": len(c.Categories()),
		})
	})

	return r
}

// requestLogger logs every request once it has been handled.
func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

func runServer() error {
	if !cfg.Log.Development {
		gin.SetMode(gin.ReleaseMode)
	}

	router := newRouter(core, newGraphQLHandler(core, cfg, logger), logger)

	// Create HTTP server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Set up signal handling with context
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)

	go func() {
		logger.Info("server started",
			zap.String("graphql", fmt.Sprintf("http://localhost:%d/graphql", cfg.Server.Port)),
			zap.Bool("introspection", cfg.GraphQL.Introspection),
		)
		serverErr <- server.ListenAndServe()
	}()

	// Wait for shutdown signal or server error
	select {
	case err := <-serverErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		logger.Info("server stopped")
	}

	return nil
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", config.DefaultPort, "Port to listen on (overrides config)")
	serveCmd.Flags().BoolVarP(&serveWatch, "watch", "w", false, "Reseed the catalog when the seed file changes")
	rootCmd.AddCommand(serveCmd)
}
