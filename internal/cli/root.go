// Package cli wires the StockLens components behind cobra commands.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"StockLens/internal/config"
	"StockLens/internal/logger"
)

// Version is overridden at build time with -ldflags "-X StockLens/internal/cli.Version=...".
var Version = "dev"

// RootOptions holds the persistent flags shared by every command.
type RootOptions struct {
	ConfigPath string
	LogLevel   string
}

// load reads and validates the configuration and builds the logger. A
// non-empty provider replaces the configured data provider.
func (o *RootOptions) load(provider string) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return nil, nil, err
	}
	if provider != "" {
		cfg.DataSource.Provider = provider
	}
	if o.LogLevel != "" {
		cfg.Log.Level = o.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, logger.New(cfg.Log.Level, cfg.Log.Format), nil
}

func NewRootCmd() *cobra.Command {
	ro := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "stocklens",
		Short:         "Technical indicators for daily stock prices",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&ro.ConfigPath, "config", defaultConfigPath(), "Path to config file (optional)")
	cmd.PersistentFlags().StringVar(&ro.LogLevel, "log-level", "", "Log level: debug|info|warn|error (overrides config)")

	cmd.AddCommand(
		newServeCmd(ro),
		newAnalyzeCmd(ro),
		newExportCmd(ro),
	)

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "stocklens "+Version)
		},
	})

	return cmd
}

func defaultConfigPath() string {
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		return v
	}
	return "configs/config.yaml"
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
