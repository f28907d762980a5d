package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/listbot/internal/cli"
	"github.com/aretw0/listbot/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "listbot",
	Short: "listbot turns pasted item lists into sorted, filtered, compared or expanded results",
	Long: `listbot is a chat bot for item lists with 5-digit IDs and (Nx) quantities.
It runs on Telegram, over HTTP, as an MCP tool server or in the console.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to a YAML configuration file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("store", "", "Session store: memory, file or redis")
}

// loadConfig reads the configuration file and environment, then applies the flags.
func loadConfig(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, err
	}

	overrides := map[string]any{}
	if cmd.Flags().Changed("log-level") {
		level, _ := cmd.Flags().GetString("log-level")
		overrides["log_level"] = level
	}
	if cmd.Flags().Changed("store") {
		store, _ := cmd.Flags().GetString("store")
		overrides["store"] = map[string]any{"backend": store}
	}
	if len(overrides) > 0 {
		if err := config.Decode(overrides, cfg); err != nil {
			return nil, nil, err
		}
		if err := cfg.Validate(); err != nil {
			return nil, nil, err
		}
	}

	return cfg, cli.NewLogger(cfg), nil
}
