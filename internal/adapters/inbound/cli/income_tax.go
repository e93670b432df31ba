package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zzptax/zzptax/internal/adapters/outbound/tui"
	"github.com/zzptax/zzptax/internal/application"
)

func newIncomeTaxCmd() *cobra.Command {
	var (
		req        application.IncomeTaxRequest
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:     "income-tax",
		Short:   "Compute income tax and social contributions for a year",
		Example: `  zzptax income-tax --income 60000 --year 2025`,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, err := loadService(cmd)
			if err != nil {
				return err
			}
			report, err := svc.IncomeTax(req)
			if err != nil {
				return err
			}
			if jsonOutput {
				return renderJSON(cmd, report)
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderIncomeTax(report))
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Income, "income", "", "Taxable profit for the year")
	cmd.Flags().IntVar(&req.Year, "year", 0, "Tax year")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output result as JSON")
	_ = cmd.MarkFlagRequired("income")
	_ = cmd.MarkFlagRequired("year")

	return cmd
}
