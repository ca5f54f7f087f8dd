package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"path"
	"syscall"

	"github.com/pyama86/incident-dashboard/handler"
	"github.com/spf13/cobra"
)

var (
	configPath string
)

var rootCmd = &cobra.Command{
	Use:          "incident-dashboard",
	Short:        "incident-dashboard is a live terminal dashboard for the incident handler",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run()
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// デフォルトはホームディレクトリの incident-dashboard.toml
	home, err := os.UserHomeDir()
	if err != nil {
		slog.Error("Failed to get user home directory", slog.Any("error", err))
		os.Exit(1)
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", path.Join(home, "incident-dashboard.toml"), "config file path")
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	slog.Info("Dashboard starting")
	if err := handler.Handle(ctx, configPath); err != nil {
		return err
	}
	return nil
}
