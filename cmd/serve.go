package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/foomo/contentserver-booknav/mcp"
)

var (
	serveStdio bool
	serveHTTP  string
)

func init() {
	serveCmd.Flags().BoolVar(&serveStdio, "stdio", true, "Run in stdio mode")
	serveCmd.Flags().StringVar(&serveHTTP, "http", "", "HTTP server address (e.g., ':8080'), overrides server.http_addr")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the navigation tools over MCP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer func() { _ = a.close() }()

		s := mcp.NewServer(nil, a.service)

		addr := a.cfg.Server.HTTPAddr
		if serveHTTP != "" {
			addr = serveHTTP
		}
		if addr != "" {
			return serveHTTPServer(cmd.Context(), a, s, addr)
		}

		if !serveStdio {
			a.logger.Info("no http address given, falling back to stdio")
		}
		a.logger.Info("starting MCP server in stdio mode")
		return server.ServeStdio(s)
	},
}

func serveHTTPServer(ctx context.Context, a *app, s *server.MCPServer, addr string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	endpoint := a.cfg.Server.Endpoint
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mcp.NewMcpHTTPSSEServer(a.logger.Named("sse"), s, a.service, endpoint, nil),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		a.logger.Info("starting MCP server", zap.String("addr", addr), zap.String("endpoint", endpoint))
		errs <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errs:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		a.logger.Info("shutting down MCP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	}
}
