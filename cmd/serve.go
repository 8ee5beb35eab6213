package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"docchat/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP and WebSocket server",
	Long: `Starts the docchat HTTP server: REST endpoints for ingestion and
querying, and a WebSocket chat at /ws with a bounded per-connection
conversation history.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		provider, err := newProvider(cfg)
		if err != nil {
			// The query endpoints still work without a model.
			fmt.Fprintf(os.Stderr, "Warning: %v; /api/ask and /ws are disabled\n", err)
			provider = nil
		}
		eng := newEngine(cfg, provider)

		cat, err := openCatalog(cfg)
		if err != nil {
			return fmt.Errorf("opening catalog: %w", err)
		}
		defer cat.Close()

		port := cfg.Server.Port
		if servePort != 0 {
			port = servePort
		}
		srv := server.New(server.Config{
			Port:         port,
			AllowAll:     cfg.Server.AllowAll,
			HistoryTurns: cfg.HistoryTurns,
		}, eng, cat)

		errCh := make(chan error, 1)
		go func() {
			if err := srv.Start(); err != nil && err != http.ErrServerClosed {
				errCh <- err
			}
		}()

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-errCh:
			return err
		case <-stop:
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "override the configured port")
	rootCmd.AddCommand(serveCmd)
}
