package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mhaddaou/docchat/internal/adapters/driven/auth/static"
	"github.com/mhaddaou/docchat/internal/adapters/driving/httpapi"
	"github.com/mhaddaou/docchat/internal/adapters/driving/watcher"
	"github.com/mhaddaou/docchat/internal/logger"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Long: `Starts the docchat HTTP API.

Clients authenticate with a bearer token from the [auth.tokens] table
in the config file. Answers to /chat/chat stream as server-sent
events. When [inbox] is enabled, files dropped into the inbox
directory as <owner>/<session>/<file> are ingested automatically.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	app, err := buildApp(cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	if len(cfg.Auth.Tokens) == 0 {
		logger.Warn("No auth tokens configured; every request will be rejected")
	}
	auth, err := static.NewAuthenticator(cfg.Auth.Tokens)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	pingBackends(ctx, app)

	server := httpapi.NewServer(cfg.Server.Addr, auth, app.chat, app.ingest, app.sessions)
	if err := server.Start(); err != nil {
		return err
	}

	var inbox *watcher.Watcher
	if cfg.Inbox.Enabled {
		inbox, err = watcher.New(cfg.Inbox.Dir, app.ingest)
		if err != nil {
			return fmt.Errorf("starting inbox watcher: %w", err)
		}
		inbox.Start(ctx)
		logger.Info("Watching inbox %s", cfg.Inbox.Dir)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-stop:
		logger.Info("Received %s, shutting down", sig)
	case <-ctx.Done():
	}

	if inbox != nil {
		if err := inbox.Close(); err != nil {
			logger.Warn("Closing inbox watcher: %v", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// pingBackends verifies the model backends before accepting traffic.
// Failures are logged, not fatal: a backend may come up after us.
func pingBackends(ctx context.Context, app *app) {
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := app.embedder.Ping(pingCtx); err != nil {
		logger.Warn("Embedding backend %s unreachable: %v", app.embedder.ModelName(), err)
	}
	if err := app.llm.Ping(pingCtx); err != nil {
		logger.Warn("Generation backend %s unreachable: %v", app.llm.ModelName(), err)
	}
}
