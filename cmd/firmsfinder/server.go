package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/kalambet/firmsfinder/internal/gateway"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the client routes as JSON on localhost (foreground)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer()
	},
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve directory search over MCP (stdio transport)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMCP()
	},
}

func runServer() error {
	fmt.Fprintf(os.Stderr, "firmsfinder version %s\n", version)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()
	slog.SetDefault(a.logger)

	addr := fmt.Sprintf("127.0.0.1:%d", a.cfg.Server.Port)
	healthClient := &http.Client{Timeout: 2 * time.Second}
	if resp, err := healthClient.Get("http://" + addr + "/health"); err == nil {
		resp.Body.Close()
		printWarning("firmsfinder is already running on port %d", a.cfg.Server.Port)
		return fmt.Errorf("server already running on port %d", a.cfg.Server.Port)
	}

	srv := &http.Server{
		Addr: addr,
		Handler: gateway.NewHandler(gateway.Deps{
			Views:    a.views,
			Sessions: a.sessions,
			Auth:     a.auth,
			Logger:   a.logger,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		fmt.Fprintf(os.Stderr, "firmsfinder listening on %s\n", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		fmt.Fprintln(os.Stderr, "shutting down...")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func runMCP() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()
	slog.SetDefault(a.logger)

	mcpSrv := gateway.NewMCPServer(gateway.MCPDeps{
		Views:    a.views,
		Sessions: a.sessions,
		Version:  version,
	})
	slog.Info("MCP server started (stdio transport)")
	if err := server.NewStdioServer(mcpSrv).Listen(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}
