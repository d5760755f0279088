// Package main is the entry point for the todolist application.
package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/hy4ri/todolist/internal/api"
	"github.com/hy4ri/todolist/internal/config"
	"github.com/hy4ri/todolist/internal/logging"
	"github.com/hy4ri/todolist/internal/store"
	"github.com/hy4ri/todolist/internal/tui"
)

const version = "0.1.0"

// Flags shared by every subcommand.
var (
	configPath string
	startView  string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "todolist",
		Short: "Terminal todo list with projects and dated tasks",
		Long: `todolist - Terminal todo list with projects and dated tasks

Tasks live in a document store: a local directory by default, or a
todolist document server started with 'todolist serve'.

Run 'todolist init' to create a config file at ~/.config/todolist/config.yaml.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if startView != "" {
				cfg.UI.StartView = startView
			}
			return runApp(cmd.Context(), cfg)
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/todolist/config.yaml)")
	root.Flags().StringVar(&startView, "view", "", "start view: inbox, today, next_7 or a projectId")

	root.AddCommand(
		newInitCmd(),
		newServeCmd(),
		newListCmd(),
		newTokenCmd(),
		newVersionCmd(),
	)
	return root
}

func loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFrom(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// openGateway returns the gateway selected by the config and a function
// releasing it. The local store also follows writes from other processes.
func openGateway(ctx context.Context, cfg *config.Config) (api.Gateway, func() error, error) {
	switch cfg.Gateway.Mode {
	case config.GatewayRemote:
		token, err := config.GetToken()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read token: %w", err)
		}
		return api.NewClient(cfg.Gateway.URL, token), func() error { return nil }, nil
	default:
		dir, err := cfg.StoreDir()
		if err != nil {
			return nil, nil, err
		}
		st, err := store.Open(dir)
		if err != nil {
			return nil, nil, err
		}
		if err := st.Watch(ctx, store.DefaultWatchDelay); err != nil {
			// Still usable, only writes from other processes go unnoticed.
			logging.Log.Warn("store watcher unavailable", "dir", dir, "err", err)
		}
		return st, st.Close, nil
	}
}

// runApp starts the main TUI application.
func runApp(ctx context.Context, cfg *config.Config) error {
	logPath, err := cfg.LogPath()
	if err != nil {
		return err
	}
	logFile, err := logging.Init(logPath, cfg.Log.Level)
	if err != nil {
		return err
	}
	defer logFile.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	gw, closeGateway, err := openGateway(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeGateway()

	logging.Log.Info("starting", "mode", cfg.Gateway.Mode, "user", cfg.User.ID)

	app := tui.New(gw, cfg)
	defer app.Close()

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}
