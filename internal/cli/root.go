// Package cli implements the console command-line interface.
package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/rflorenc/resource-console/internal/config"
	"github.com/rflorenc/resource-console/internal/console"
	"github.com/rflorenc/resource-console/internal/logging"
	"github.com/rflorenc/resource-console/internal/platform"
)

// Exit codes.
const (
	ExitSuccess = 0
	ExitFailure = 1
)

// BuildInfo is stamped into the binary at link time.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configPath string
	apiURL     string
	logLevel   string
}

// NewRootCmd creates the top-level "console" command with global flags
// and all subcommands registered.
func NewRootCmd(info BuildInfo) *cobra.Command {
	f := &rootFlags{}
	root := &cobra.Command{
		Use:   "console",
		Short: "Operator console for a remote resource API",
		Long:  "console serves the browser console for users and products, and runs the\nsame operations headless from the command line.",
		// Do not print usage on errors returned by subcommands.
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVarP(&f.configPath, "config", "c", "", "path to YAML config file")
	root.PersistentFlags().StringVar(&f.apiURL, "api-url", "", "remote API base URL (overrides config)")
	root.PersistentFlags().StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(newServeCmd(f, info))
	root.AddCommand(newKindsCmd(f))
	root.AddCommand(newListCmd(f))
	root.AddCommand(newPutCmd(f))
	root.AddCommand(newDeleteCmd(f))
	root.AddCommand(newVersionCmd(info))

	return root
}

// load reads the config file and environment, applies flag overrides, then
// validates. Priority: flags > ENV > YAML > defaults.
func (f *rootFlags) load(overrides ...func(*config.Config)) (*config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, err
	}
	if f.apiURL != "" {
		cfg.API.BaseURL = f.apiURL
	}
	if f.logLevel != "" {
		cfg.Log.Level = f.logLevel
	}
	for _, o := range overrides {
		o(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger builds the process logger. The log section was checked by
// Validate, so a failure here falls back to the defaults.
func newLogger(cfg *config.Config) *slog.Logger {
	logger, err := logging.New(logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		logger, _ = logging.New(logging.Options{})
	}
	return logger
}

// openConsole builds a console against the configured API and loads kind.
func (f *rootFlags) openConsole(ctx context.Context, kind string) (*console.Console, error) {
	cfg, err := f.load()
	if err != nil {
		return nil, err
	}
	reg, err := cfg.Registry()
	if err != nil {
		return nil, err
	}
	target, err := cfg.Target()
	if err != nil {
		return nil, err
	}
	logger := newLogger(cfg)
	client := platform.NewClient(target, platform.WithLogger(logging.Component(logger, "client")))
	c := console.New(reg, client,
		console.WithLogger(logging.Component(logger, "console")),
		console.WithNotifyDelay(cfg.Console.NotifyDelay),
	)
	if err := c.SelectKind(ctx, kind); err != nil {
		return nil, outcome(c, err)
	}
	return c, nil
}

// outcome folds the console's current notification into err, so the operator
// sees the same message the browser console would show.
func outcome(c *console.Console, err error) error {
	if err == nil {
		return nil
	}
	if n := c.Notification(); n != nil && n.Severity == console.SeverityError {
		return fmt.Errorf("%s: %w", n.Message, err)
	}
	return err
}

// report prints the success notification, or returns the failure.
func report(cmd *cobra.Command, c *console.Console, err error) error {
	if err != nil {
		return outcome(c, err)
	}
	n := c.Notification()
	switch {
	case n == nil:
	case n.Severity == console.SeverityError:
		// the write succeeded but the follow-up load did not
		fmt.Fprintln(cmd.ErrOrStderr(), n.Message)
	default:
		fmt.Fprintln(cmd.OutOrStdout(), n.Message)
	}
	return nil
}
