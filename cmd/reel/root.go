package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/reel/internal/config"
	"github.com/mmcdole/reel/internal/tui"
	"github.com/mmcdole/reel/internal/tui/components"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	configPath string
	verbose    bool
	ephemeral  bool

	// Set by PersistentPreRunE for every command
	cfg    *config.Config
	logger *slog.Logger
)

// rootCmd starts the browser when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "reel",
	Short: "Browse movies and keep a list of favorites",
	Long: `Reel is a terminal movie browser backed by TMDB.
Favorites are kept locally and survive restarts.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, logger, err = loadConfig()
		if err != nil {
			return err
		}
		logger.Info("starting reel", "version", Version, "command", cmd.Name())
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(cmd.Context())
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fatal("Error", err)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default is the OS config directory)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&ephemeral, "ephemeral", false, "Keep favorites and listings in memory only")
}

func runTUI(ctx context.Context) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return errors.New("the browser needs an interactive terminal; see 'reel --help' for scriptable commands")
	}

	if !cfg.IsConfigured() {
		return runSetupFlow(ctx, cfg)
	}

	a, err := openApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	model := tui.NewModel(a.favorites, a.catalog, a.search, tui.Options{
		DefaultCategory: cfg.DefaultCategory(),
		DefaultView:     components.ParseViewMode(cfg.UI.DefaultView),
		GridColumns:     cfg.UI.GridColumns,
		ImageURL:        a.client.ImageURL,
	}, logger)
	defer model.Close()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	logger.Info("starting TUI")

	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	logger.Info("shutting down")
	return nil
}
