package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zzptax/zzptax/internal/adapters/outbound/tui"
)

func newHistoryCmd() *cobra.Command {
	var (
		jsonOutput bool
		last       int
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded calculations",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, err := loadService(cmd)
			if err != nil {
				return err
			}
			entries, err := svc.History()
			if err != nil {
				return err
			}
			if last > 0 && len(entries) > last {
				entries = entries[len(entries)-last:]
			}

			if jsonOutput {
				return renderJSON(cmd, entries)
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderHistory(entries))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output history as JSON")
	cmd.Flags().IntVar(&last, "last", 0, "Show only the most recent N entries")

	return cmd
}
