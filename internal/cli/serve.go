package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	resourceconsole "github.com/rflorenc/resource-console"
	"github.com/rflorenc/resource-console/internal/api"
	"github.com/rflorenc/resource-console/internal/config"
	"github.com/rflorenc/resource-console/internal/console"
	"github.com/rflorenc/resource-console/internal/logging"
	"github.com/rflorenc/resource-console/internal/platform"
)

const shutdownTimeout = 5 * time.Second

// reapInterval checks for idle sessions a few times per idle period, at most
// once a minute.
func reapInterval(idle time.Duration) time.Duration {
	if iv := idle / 4; iv < time.Minute {
		return iv
	}
	return time.Minute
}

func newServeCmd(f *rootFlags, info BuildInfo) *cobra.Command {
	var listen string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the browser console and its HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := f.load(func(c *config.Config) {
				if listen != "" {
					c.Listen = listen
				}
			})
			if err != nil {
				return err
			}
			return serve(cmd, cfg, info)
		},
	}
	cmd.Flags().StringVarP(&listen, "listen", "l", "", "listen address (overrides config)")
	return cmd
}

func serve(cmd *cobra.Command, cfg *config.Config, info BuildInfo) error {
	logger := newLogger(cfg)
	reg, err := cfg.Registry()
	if err != nil {
		return err
	}
	target, err := cfg.Target()
	if err != nil {
		return err
	}
	client := platform.NewClient(target, platform.WithLogger(logging.Component(logger, "client")))

	// Verify connectivity early; the console still starts when the API is down.
	kind, err := reg.Describe(cfg.Console.DefaultKind)
	if err != nil {
		return err
	}
	if err := client.Ping(cmd.Context(), kind.APIPath); err != nil {
		logger.Warn("ping failed", "url", target.URL(kind.APIPath), "error", err)
	} else {
		logger.Info("ping ok", "url", target.URL(kind.APIPath))
	}

	webFS, err := fs.Sub(resourceconsole.WebFS, "web")
	if err != nil {
		return fmt.Errorf("embedded web FS: %w", err)
	}

	server := &api.Server{
		Sessions:    api.NewSessionStore(nil),
		Registry:    reg,
		DefaultKind: cfg.Console.DefaultKind,
		Logger:      logging.Component(logger, "api"),
		NewConsole: func() *console.Console {
			return console.New(reg, client,
				console.WithLogger(logging.Component(logger, "console")),
				console.WithNotifyDelay(cfg.Console.NotifyDelay),
			)
		},
	}

	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           api.NewRouter(server, webFS),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go server.Sessions.RunReaper(ctx, reapInterval(cfg.Console.SessionIdle), cfg.Console.SessionIdle, func(ids []string) {
		logger.Info("idle sessions evicted", "count", len(ids))
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	fmt.Fprintf(cmd.OutOrStdout(), "Resource Console %s starting on %s\n", info.Version, cfg.Listen)
	fmt.Fprintf(cmd.OutOrStdout(), "Remote API: %s\n", target.BaseURL)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
