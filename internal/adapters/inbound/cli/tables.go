package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zzptax/zzptax/internal/adapters/outbound/tui"
	"github.com/zzptax/zzptax/internal/application"
)

func newTablesCmd() *cobra.Command {
	var (
		year       int
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "tables",
		Short: "Show the tax tables in use",
		Long:  "Show the configured tax tables, including the tax owed below each bracket as derived from the table.",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, err := loadService(cmd)
			if err != nil {
				return err
			}

			tables := svc.Tables()
			if year != 0 {
				t, err := svc.Table(year)
				if err != nil {
					return err
				}
				tables = []application.TableReport{*t}
			}

			if jsonOutput {
				return renderJSON(cmd, tables)
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderTables(tables))
			return nil
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "Show only this year")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output tables as JSON")

	return cmd
}
