package main

import (
	"strings"

	"github.com/aretw0/listbot/internal/cli"
	"github.com/aretw0/listbot/pkg/listops"
	"github.com/spf13/cobra"
)

func opNames() []string {
	names := make([]string, 0, len(listops.Ops))
	for _, op := range listops.Ops {
		names = append(names, string(op))
	}
	return names
}

var transformCmd = &cobra.Command{
	Use:   "transform <op> [file...]",
	Short: "Run one list operation on files or stdin",
	Long: `Runs one operation (` + strings.Join(opNames(), ", ") + `) and prints the result.
Without files the list is read from stdin. compare takes two files; "-" reads one of them from stdin.`,
	Example: `  listbot transform sort < inventory.txt
  listbot transform compare mine.txt theirs.txt`,
	Args:      cobra.MinimumNArgs(1),
	ValidArgs: opNames(),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		app, err := cli.NewApp(cfg, logger)
		if err != nil {
			return err
		}
		defer app.Close()

		return cli.RunTransform(app, cli.TransformOptions{
			Op:           args[0],
			Files:        args[1:],
			MaxInputSize: cfg.Limits.MaxInputSize,
			In:           cmd.InOrStdin(),
			Out:          cmd.OutOrStdout(),
		})
	},
}

func init() {
	rootCmd.AddCommand(transformCmd)
}
