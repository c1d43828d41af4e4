package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/born-ml/lppool/internal/server"
)

func newServeCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the pooling HTTP server",
		Long: `Serve forward and backward passes over HTTP.

Endpoints:
  GET  /health        backend status
  POST /v1/forward    {"input": tensor, "params": {...}}
  POST /v1/backward   {"input", "grad_output", "output"?, "params"?}
  GET  /metrics       Prometheus metrics

Request params override the configured pool defaults field by field.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sc := a.cfg.Server
			if cmd.Flags().Changed("host") {
				sc.Host, _ = cmd.Flags().GetString("host")
			}
			if cmd.Flags().Changed("port") {
				sc.Port, _ = cmd.Flags().GetInt("port")
			}
			if cmd.Flags().Changed("max-body-size") {
				sc.MaxBodyMB, _ = cmd.Flags().GetInt("max-body-size")
			}
			if cmd.Flags().Changed("shutdown-timeout") {
				sc.ShutdownTimeout, _ = cmd.Flags().GetInt("shutdown-timeout")
			}

			backend, release, err := a.newBackend()
			if err != nil {
				return err
			}
			defer release()

			srv, err := server.NewServer(server.Config{
				Backend:      backend,
				Defaults:     a.cfg.ToParams(),
				MaxBodyBytes: sc.MaxBodyBytes(),
			})
			if err != nil {
				return fmt.Errorf("failed to initialize server: %w", err)
			}

			mux := http.NewServeMux()
			srv.SetupRoutes(mux)

			httpServer := &http.Server{
				Addr:              sc.Addr(),
				Handler:           mux,
				ReadHeaderTimeout: 5 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				slog.Info("Starting lppool server", "addr", httpServer.Addr, "backend", backend.Name())
				if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				if err != nil {
					return fmt.Errorf("server error: %w", err)
				}
				return nil
			case <-ctx.Done():
				slog.Info("Received shutdown signal")
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), sc.ShutdownGrace())
			defer cancel()

			slog.Info("Starting graceful shutdown", "timeout", sc.ShutdownGrace())
			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutdown: %w", err)
			}
			slog.Info("Graceful shutdown completed")
			return nil
		},
	}
	cmd.Flags().StringP("host", "H", "localhost", "server host")
	cmd.Flags().IntP("port", "p", 8080, "server port")
	cmd.Flags().Int("max-body-size", 32, "maximum request body size in MB")
	cmd.Flags().Int("shutdown-timeout", 10, "shutdown timeout in seconds")
	return cmd
}
