package main

import (
	"github.com/aretw0/listbot/internal/cli"
	"github.com/aretw0/listbot/pkg/runner"
	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the bot from the console",
	Long: `Starts a console session against the same router the Telegram bot uses.

Lines starting with "/" are commands, "#N" presses button N of the last keyboard,
and a blank line ends a multi-line message.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		sessionID, _ := cmd.Flags().GetString("session")
		plain, _ := cmd.Flags().GetBool("plain")

		app, err := cli.NewApp(cfg, logger)
		if err != nil {
			return err
		}
		defer app.Close()

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		out := cmd.OutOrStdout()
		return cli.RunChat(ctx, app, cli.ChatOptions{
			SessionID: sessionID,
			Plain:     plain || !runner.IsTerminal(out),
			In:        cmd.InOrStdin(),
			Out:       out,
		})
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().StringP("session", "s", runner.DefaultSessionID, "Session ID to use")
	chatCmd.Flags().Bool("plain", false, "Disable the banner and markdown rendering")
}
