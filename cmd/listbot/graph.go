package main

import (
	"fmt"

	"github.com/aretw0/listbot/internal/presentation/graph"
	"github.com/aretw0/listbot/pkg/ports"
	"github.com/spf13/cobra"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Print the mode diagram as Mermaid",
	Long: `Prints how commands and buttons move a session between modes, as a Mermaid flowchart.
With --session the diagram highlights where that session currently is.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sessionID, _ := cmd.Flags().GetString("session")
		if sessionID == "" {
			fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(nil))
			return nil
		}

		return withStore(cmd, func(store ports.SessionStore) error {
			s, err := store.Load(cmd.Context(), sessionID)
			if err != nil {
				return fmt.Errorf("error loading session '%s': %w", sessionID, err)
			}
			fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(&graph.Overlay{Mode: s.Mode, Pending: len(s.Pending)}))
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().StringP("session", "s", "", "Highlight the position of this session")
}
