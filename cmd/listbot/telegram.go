package main

import (
	"github.com/aretw0/listbot/internal/cli"
	"github.com/spf13/cobra"
)

var telegramCmd = &cobra.Command{
	Use:   "telegram",
	Short: "Run the Telegram bot",
	Long: `Runs the bot on Telegram using long polling.
The token is read from LISTBOT_TELEGRAM_TOKEN or telegram.token in the configuration file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("banners") {
			cfg.Telegram.BannerDir, _ = cmd.Flags().GetString("banners")
		}

		app, err := cli.NewApp(cfg, logger)
		if err != nil {
			return err
		}
		defer app.Close()

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		return cli.RunTelegram(ctx, app, cfg.Telegram)
	},
}

func init() {
	rootCmd.AddCommand(telegramCmd)
	telegramCmd.Flags().String("banners", "", "Directory holding the mode banner images")
}
