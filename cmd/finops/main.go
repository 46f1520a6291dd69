// Package main is the entry point for the Warehouse FinOps TUI.
// It loads configuration, starts the services and runs either the
// Bubble Tea program or one of the batch subcommands.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jessevdk/go-flags"

	"github.com/j-veylop/warehouse-finops-tui/internal/app"
	"github.com/j-veylop/warehouse-finops-tui/internal/config"
	"github.com/j-veylop/warehouse-finops-tui/internal/dashboards"
	"github.com/j-veylop/warehouse-finops-tui/internal/logger"
	"github.com/j-veylop/warehouse-finops-tui/internal/period"
	"github.com/j-veylop/warehouse-finops-tui/internal/services"
	"github.com/j-veylop/warehouse-finops-tui/internal/ui/styles"
	"github.com/j-veylop/warehouse-finops-tui/internal/ui/tabs/dashboard"
	"github.com/j-veylop/warehouse-finops-tui/internal/ui/tabs/info"
	"github.com/j-veylop/warehouse-finops-tui/internal/version"
)

func main() {
	opts := &options{}
	parser := newParser(opts)

	if _, err := parser.Parse(); err != nil {
		if flags.WroteHelp(err) {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if opts.Version {
		fmt.Println(version.Info())
		return
	}

	// A subcommand already ran from Parse.
	if parser.Active != nil {
		return
	}

	if err := runTUI(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// runTUI contains the interactive application, separated for cleaner error handling.
func runTUI() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// The TUI owns the terminal: logs go to LOG_FILE or nowhere.
	closer, err := logger.Setup(logger.Options{Level: cfg.LogLevel, File: cfg.LogFile, Output: io.Discard})
	if err != nil {
		return err
	}
	defer closer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svcManager, err := services.NewManager(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	defer func() {
		if closeErr := svcManager.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: error closing services: %v\n", closeErr)
		}
	}()

	theme := svcManager.Dashboards().Theme
	styles.ApplyTheme(theme.PrimaryColor, theme.Palette)

	model := app.NewModel(svcManager, period.PresetForDays(cfg.DefaultRangeDays))

	// Tabs share the application state; their order matches app.TabID.
	state := model.GetState()
	model.SetTabs([]app.Tab{
		dashboard.New(state, dashboards.ViewOverview, theme),
		dashboard.New(state, dashboards.ViewUser, theme),
		dashboard.New(state, dashboards.ViewWarehouse, theme),
		info.New(state, cfg, svcManager.Source(), svcManager),
	})

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
