// Package main provides the CLI entrypoint for syssound.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/syssound/internal/config"
	"github.com/jmylchreest/syssound/internal/platform"
)

// Build-time variables (set via ldflags)
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

// closeTimeout bounds how long the CLI waits for sounds to finish on exit.
const closeTimeout = 30 * time.Second

// Global configuration and state
var (
	cfg        *config.Config
	globalOpts struct {
		verbose    bool
		configPath string
		backend    string
	}
	logger *slog.Logger
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "syssound",
	Short: "Play short system sounds and alerts",
	Long: `syssound registers short sound files with the system sound service and
plays them fire-and-forget, as alerts, or while waiting for completion.

On macOS builds with cgo the native System Sound Services are used. Elsewhere
sounds are decoded and played in-process, alerts fall back to the system
beeper and screen flashes use the terminal or a desktop notification.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildTime),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogger()

		var err error
		cfg, err = config.LoadConfig(globalOpts.configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if globalOpts.backend != "" {
			if !slices.Contains(config.ValidBackends(), config.Backend(globalOpts.backend)) {
				return fmt.Errorf("invalid backend %q, must be one of: %v", globalOpts.backend, config.ValidBackends())
			}
			cfg.Backend = globalOpts.backend
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&globalOpts.verbose, "verbose", "v", false,
		"Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&globalOpts.configPath, "config", "",
		"Path to config file (default: ~/.config/syssound/config.toml)")
	rootCmd.PersistentFlags().StringVar(&globalOpts.backend, "backend", "",
		"Sound backend (auto, native, beep; default from config)")
}

// setupLogger configures the global slog logger.
func setupLogger() {
	level := slog.LevelWarn
	if globalOpts.verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	// Log to stderr so stdout is clean for output
	handler := slog.NewTextHandler(os.Stderr, opts)
	logger = slog.New(handler)
	slog.SetDefault(logger)
}

// openService creates the configured sound service.
func openService() (platform.Service, error) {
	svc, err := platform.New(cfg, logger)
	if err != nil {
		return nil, err
	}
	logger.Debug("sound service ready", "backend", platform.Name(config.Backend(cfg.Backend)))
	return svc, nil
}

// closeService releases svc, waiting up to timeout for sounds still playing.
func closeService(svc platform.Service, timeout time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := svc.Close(ctx); err != nil {
		logger.Warn("sound service did not shut down cleanly", "error", err)
	}
}
