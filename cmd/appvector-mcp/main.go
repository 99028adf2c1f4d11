package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/bobmcallan/appvector-mcp/internal/app"
	common "github.com/bobmcallan/appvector-mcp/internal/common"
	"github.com/bobmcallan/appvector-mcp/internal/config"
	"github.com/bobmcallan/appvector-mcp/internal/server"
	"github.com/bobmcallan/appvector-mcp/internal/telemetry"
)

// options holds the parsed command-line flags.
type options struct {
	configFiles []string
	port        int
	host        string
	showVersion bool
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           config.ServerName,
		Short:         "MCP server exposing the AppVector analytics API as tools",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.showVersion {
				fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", config.ServerName, config.GetFullVersion())
				return nil
			}
			return run(cmd, opts)
		},
	}

	root.Flags().StringArrayVarP(&opts.configFiles, "config", "c", nil, "Configuration file path (can be specified multiple times)")
	root.Flags().IntVarP(&opts.port, "port", "p", 0, "Server port (overrides config)")
	root.Flags().StringVar(&opts.host, "host", "", "Server host (overrides config)")
	root.Flags().BoolVar(&opts.showVersion, "version", false, "Print version information")

	return root
}

// loadConfig resolves config files, applies flag overrides and validates.
func loadConfig(opts *options) (*config.Config, []string, error) {
	files := opts.configFiles
	if len(files) == 0 {
		for _, path := range configSearchPaths() {
			if _, err := os.Stat(path); err == nil {
				files = append(files, path)
				break
			}
		}
	}

	cfg, err := config.LoadFromFiles(files...)
	if err != nil {
		return nil, files, err
	}

	// CLI flags take highest priority
	config.ApplyFlagOverrides(cfg, opts.port, opts.host)

	if issues := cfg.Validate(); len(issues) > 0 {
		return nil, files, &configIssues{issues: issues}
	}
	return cfg, files, nil
}

type configIssues struct {
	issues []string
}

func (e *configIssues) Error() string {
	return fmt.Sprintf("%d configuration issue(s)", len(e.issues))
}

func run(cmd *cobra.Command, opts *options) error {
	cfg, files, err := loadConfig(opts)
	if err != nil {
		var ci *configIssues
		if errors.As(err, &ci) {
			stderr := cmd.ErrOrStderr()
			fmt.Fprintln(stderr, "")
			fmt.Fprintln(stderr, "Configuration error: mandatory fields are missing or invalid:")
			fmt.Fprintln(stderr, "")
			for _, issue := range ci.issues {
				fmt.Fprintf(stderr, "  - %s\n", issue)
			}
			fmt.Fprintln(stderr, "")
			fmt.Fprintln(stderr, "See config/appvector-mcp.toml.example for the available settings.")
			fmt.Fprintln(stderr, "Values can be set via TOML file, APPVECTOR_* environment variables, or CLI flags.")
			fmt.Fprintln(stderr, "")
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "failed to load configuration: %v\n", err)
		return err
	}

	logger := common.NewLoggerFromConfig(cfg.Logging)

	logger.Info().
		Int("port", cfg.Server.Port).
		Str("host", cfg.Server.Host).
		Str("api_url", cfg.Upstream.BaseURL).
		Str("routes", cfg.Upstream.Routes).
		Str("config_files", fmt.Sprintf("%v", files)).
		Msg("configuration loaded")

	shutdownTelemetry := telemetry.ShutdownFunc(telemetry.Noop)
	if cfg.Telemetry.Enabled {
		shutdownTelemetry, err = telemetry.Init(cmd.Context(), telemetry.FromConfig(cfg.Telemetry))
		if err != nil {
			logger.Error().Str("error", err.Error()).Msg("failed to initialize telemetry")
			return err
		}
		logger.Info().Bool("stdout", cfg.Telemetry.Stdout).Msg("telemetry enabled")
	}

	application, err := app.New(cfg, logger)
	if err != nil {
		logger.Error().Str("error", err.Error()).Msg("failed to initialize application")
		return err
	}

	srv := server.New(application)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	var serveErr error
	select {
	case <-stop:
		logger.Info().Msg("shutdown signal received")
	case serveErr = <-errCh:
		if serveErr != nil {
			logger.Error().Str("error", serveErr.Error()).Msg("server failed")
		}
	}

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Str("error", err.Error()).Msg("server shutdown failed")
	}
	if err := application.Close(); err != nil {
		logger.Error().Str("error", err.Error()).Msg("application shutdown failed")
	}
	if err := shutdownTelemetry(ctx); err != nil {
		logger.Warn().Str("error", err.Error()).Msg("telemetry shutdown failed")
	}

	logger.Info().Msg("server stopped")
	return serveErr
}

// configSearchPaths returns TOML files to auto-discover (first match wins).
// Binary-relative paths are tried first, with CWD and Docker fallbacks after.
func configSearchPaths() []string {
	candidates := []string{
		"appvector-mcp.toml",
		"config/appvector-mcp.toml",
		"docker/appvector-mcp.toml",
	}

	exe, err := os.Executable()
	if err != nil {
		return candidates
	}
	binDir := filepath.Dir(exe)

	paths := []string{
		filepath.Join(binDir, "appvector-mcp.toml"),
		filepath.Join(binDir, "config", "appvector-mcp.toml"),
	}
	paths = append(paths, candidates...)

	seen := make(map[string]bool, len(paths))
	deduped := make([]string, 0, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			abs = p
		}
		if seen[abs] {
			continue
		}
		seen[abs] = true
		deduped = append(deduped, p)
	}
	return deduped
}
