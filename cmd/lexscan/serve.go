package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/lexscan/internal/config"
	"github.com/nao1215/lexscan/internal/server"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP compliance API",
		Long: `Serve exposes the checker over HTTP.

  GET  /health                          liveness
  GET  /api/config/status               lexicon readiness
  GET  /api/stats                       checker metrics
  POST /api/articles/check-compliance   {"title": "...", "content": "..."}

Requests under /api need the API key as "Authorization: Bearer <key>",
"X-API-Key: <key>" or "?api_key=<key>". With --allow-no-auth (the default)
clients on the loopback interface need no key.

Examples:
  # Listen on the default loopback address
  lexscan serve

  # Listen on all interfaces with a key from the environment
  LEXSCAN_API_KEY=secret lexscan serve --listen :8899 --allow-no-auth=false`,
		Args: cobra.NoArgs,
		RunE: runServeCmd,
	}

	cmd.Flags().String("listen", config.DefaultListenAddr, "Listen address")
	cmd.Flags().String("api-key", "", "API key clients must send (prefer LEXSCAN_API_KEY)")
	cmd.Flags().Bool("allow-no-auth", true, "Admit loopback clients without an API key")
	cmd.Flags().Duration("request-timeout", config.DefaultRequestTimeout, "Timeout for each request")

	return cmd
}

func runServeCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := setupLogger(cfg, cmd.ErrOrStderr())

	if cfg.APIKey == "" && !cfg.AllowNoAuth {
		logger.Warn("no API key configured and loopback access disabled; every /api request will be rejected")
	}

	srv := server.New(server.Config{
		Checker:        newChecker(cfg, logger),
		ListenAddr:     cfg.ListenAddr,
		APIKey:         cfg.APIKey,
		AllowNoAuth:    cfg.AllowNoAuth,
		RequestTimeout: cfg.RequestTimeout,
		Logger:         logger,
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(cmd.OutOrStdout(), "lexscan API listening on %s\n", cfg.ListenAddr)
	return srv.Serve(ctx)
}
