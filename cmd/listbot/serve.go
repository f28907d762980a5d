package main

import (
	"github.com/aretw0/listbot/internal/cli"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Starts the HTTP API with its OpenAPI document and Prometheus metrics.
With --telegram the bot runs in the same process, sharing sessions and metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		addr := cfg.HTTP.Addr
		if cmd.Flags().Changed("addr") {
			addr, _ = cmd.Flags().GetString("addr")
		}
		withTelegram, _ := cmd.Flags().GetBool("telegram")

		app, err := cli.NewApp(cfg, logger)
		if err != nil {
			return err
		}
		defer app.Close()

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		return cli.RunServe(ctx, app, cfg, cli.ServeOptions{Addr: addr, Telegram: withTelegram})
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("addr", "a", "", "Address to listen on (default from http.addr)")
	serveCmd.Flags().Bool("telegram", false, "Also run the Telegram bot")
}
