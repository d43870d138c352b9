// Package main is the entry point for netmeter. Without a subcommand it runs
// the Bubble Tea dashboard; subcommands cover scripted use.
package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/j-veylop/netmeter/internal/app"
	"github.com/j-veylop/netmeter/internal/config"
	"github.com/j-veylop/netmeter/internal/logger"
	"github.com/j-veylop/netmeter/internal/services"
	"github.com/j-veylop/netmeter/internal/ui/tabs/history"
	"github.com/j-veylop/netmeter/internal/ui/tabs/info"
	"github.com/j-veylop/netmeter/internal/ui/tabs/profiles"
	"github.com/j-veylop/netmeter/internal/ui/tabs/usage"
	"github.com/j-veylop/netmeter/internal/version"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var refresh time.Duration

	root := &cobra.Command{
		Use:   "netmeter",
		Short: "Captive portal usage monitor",
		Long: `netmeter logs in to the captive portal with stored profiles and reports
traffic, quota and time until renewal.

Environment variables (also read from .env):
  PORTAL_URL, PORTAL_TIMEOUT, PORTAL_INSECURE, PORTAL_USER_AGENT
  PROFILES_PATH, HISTORY_PATH, DATABASE_PATH, LOG_PATH, LOG_LEVEL
  REFRESH_INTERVAL, QUOTA_WARN_PERCENT`,
		Version:       version.GetVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(refresh, cmd.Flags().Changed("refresh"))
		},
	}
	root.SetVersionTemplate(version.Info() + "\n")
	root.Flags().DurationVar(&refresh, "refresh", 0, "auto fetch interval for the selected profile (0 disables)")

	root.AddCommand(
		newFetchCmd(),
		newHistoryCmd(),
		newProfilesCmd(),
		newVersionCmd(),
	)
	return root
}

// setup loads configuration and starts logging. CLI commands log to stderr
// unless a log file is configured explicitly; the TUI always logs to a file.
func setup(toFile bool) (*config.Config, io.Closer, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if !toFile && os.Getenv("LOG_PATH") == "" {
		logger.SetOutput(os.Stderr, cfg.LogLevel)
		return cfg, nopCloser{}, nil
	}

	closer, err := logger.Init(cfg.LogPath, cfg.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return cfg, closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// withManager runs fn with a started service manager and tears it down after.
func withManager(toFile bool, fn func(cfg *config.Config, mgr *services.Manager) error) error {
	cfg, logCloser, err := setup(toFile)
	if err != nil {
		return err
	}
	defer func() { _ = logCloser.Close() }()

	mgr, err := services.NewManager(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	defer func() {
		if closeErr := mgr.Close(); closeErr != nil {
			logger.Warn("error closing services", "error", closeErr)
		}
	}()

	return fn(cfg, mgr)
}

func runTUI(refresh time.Duration, refreshSet bool) error {
	return withManager(true, func(cfg *config.Config, mgr *services.Manager) error {
		if refreshSet {
			cfg.RefreshInterval = refresh
		}

		model := app.NewModel(mgr, app.Options{
			RefreshInterval: cfg.RefreshInterval,
			FetchTimeout:    cfg.PortalTimeout,
		})

		state := model.GetState()
		commands := model.GetCommands()
		model.SetTabs([]app.Tab{
			usage.New(state, commands, mgr.WarnPercent()),
			profiles.New(state, commands),
			history.New(state, mgr),
			info.New(state, cfg),
		})

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigChan)

		p := tea.NewProgram(
			model,
			tea.WithAltScreen(),
			tea.WithMouseCellMotion(),
		)

		go func() {
			if _, ok := <-sigChan; ok {
				p.Send(tea.Quit())
			}
		}()

		logger.Info("starting TUI", "version", version.GetVersion(), "profiles", len(mgr.Profiles()))
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("error running TUI: %w", err)
		}
		return nil
	})
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.Info())
		},
	}
}
