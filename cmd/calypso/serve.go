package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/calypso/internal/core"
	"github.com/JonMunkholm/calypso/internal/web"
)

func newServeCmd(rt *runtime) *cobra.Command {
	var (
		host string
		port int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the drag-and-drop page on a local port",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("host") {
				rt.cfg.Server.Host = host
			}
			if cmd.Flags().Changed("port") {
				rt.cfg.Server.Port = port
			}
			if err := rt.cfg.Validate(); err != nil {
				return err
			}

			slog.Info("configuration loaded",
				"addr", rt.cfg.Server.Addr(),
				"calypso", rt.client.BaseURL(),
				"rate_limit_enabled", rt.cfg.Rate.Enabled,
				"require_api_key", rt.cfg.Security.RequireAPIKey,
			)

			rt.app.Session.Notifications.Subscribe(func(n core.Notification) {
				slog.Info("notification", "kind", n.Kind, "message", n.Message)
			})

			server := web.NewServer(rt.app, rt.cfg)

			errCh := make(chan error, 1)
			go func() {
				errCh <- server.Start()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-cmd.Context().Done():
			}

			slog.Info("shutting down...")

			// Stop accepting requests, then wait for in-flight gestures
			shutdownCtx, cancel := context.WithTimeout(context.Background(), rt.cfg.Server.ShutdownTimeout)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				slog.Warn("gestures did not complete in time", "error", err)
				return err
			}
			slog.Info("server stopped")
			return nil
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "interface to bind (env SERVER_HOST)")
	cmd.Flags().IntVar(&port, "port", 0, "port to listen on (env SERVER_PORT)")
	return cmd
}
