package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zzptax/zzptax/internal/adapters/outbound/tui"
)

func newCategorizeCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "categorize <description>",
		Short: "Suggest an expense category for a bank transaction",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, err := loadService(cmd)
			if err != nil {
				return err
			}
			description := strings.Join(args, " ")
			match := svc.Categorize(description)
			if jsonOutput {
				return renderJSON(cmd, match)
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderCategory(description, match))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output result as JSON")

	return cmd
}
