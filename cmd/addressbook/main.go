package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"addressbook/internal/api"
	"addressbook/internal/config"
	"addressbook/internal/engine"
	"addressbook/internal/logging"
)

var (
	// Global flags
	configPath string
	baseURL    string
	timeout    time.Duration
	verbose    bool

	// Resolved in PersistentPreRunE
	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "addressbook",
	Short: "Terminal client for the contacts address book",
	Long: `addressbook talks to the contacts backend over its REST API.

Run without arguments to start the interactive card view: search as you type,
switch between all contacts and favorites, edit contacts and their phone
numbers, emails, social accounts and addresses, and import or export
spreadsheets.

Every subcommand is also usable from scripts.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path := configPath
		if path == "" {
			path = config.DefaultPath()
		}
		c, err := config.Load(path)
		if err != nil {
			return err
		}
		if baseURL != "" {
			c.API.BaseURL = baseURL
		}
		if timeout > 0 {
			c.API.Timeout = timeout.String()
		}
		if err := c.Validate(); err != nil {
			return fmt.Errorf("invalid config %s: %w", path, err)
		}
		cfg = c
		configPath = path

		// The interactive mode owns the terminal.
		interactive := cmd == cmd.Root()
		logger, err = logging.New(c.Logging, logging.Options{Verbose: verbose, Interactive: interactive})
		if err != nil {
			return err
		}
		logging.For(logger, logging.CategoryBoot).Debug("config resolved",
			zap.String("path", path),
			zap.String("base_url", c.API.BaseURL),
			zap.Duration("timeout", c.GetTimeout()),
		)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runInteractive,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: $XDG_CONFIG_HOME/addressbook/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "Backend URL (or set "+config.EnvBaseURL+")")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "Request timeout (default from config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	rootCmd.AddCommand(
		listCmd,
		showCmd,
		searchCmd,
		statsCmd,
		addCmd,
		editCmd,
		deleteCmd,
		favoriteCmd,
		unfavoriteCmd,
		exportCmd,
		importCmd,
		templateCmd,
	)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		// Engine failures were already shown as a toast.
		var shown *shownError
		if !errors.As(err, &shown) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		stop()
		os.Exit(1)
	}
}

// shownError marks an error the user has already seen.
type shownError struct{ err error }

func (e *shownError) Error() string { return e.err.Error() }
func (e *shownError) Unwrap() error { return e.err }

func shown(err error) error {
	if err == nil {
		return nil
	}
	return &shownError{err: err}
}

func newClient() *api.Client {
	return api.NewClient(cfg.API.BaseURL,
		api.WithTimeout(cfg.GetTimeout()),
		api.WithUserAgent(cfg.API.UserAgent),
		api.WithLogger(logging.For(logger, logging.CategoryAPI)),
	)
}

func newEngine(client *api.Client, notifier engine.Notifier) *engine.Engine {
	return engine.New(client,
		engine.WithNotifier(notifier),
		engine.WithLogger(logging.For(logger, logging.CategorySync)),
		engine.WithImportLogger(logging.For(logger, logging.CategoryImport)),
		engine.WithTimeout(cfg.GetTimeout()),
	)
}

// commandContext returns the command's context, which carries the signal
// handling set up in main.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
