package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zzptax/zzptax/internal/adapters/outbound/tui"
	"github.com/zzptax/zzptax/internal/application"
)

func newMileageCmd() *cobra.Command {
	var (
		req        application.MileageRequest
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "mileage",
		Short: "Compute the deduction for business kilometres",
		Long: "Compute the deduction for business kilometres driven with a private car. " +
			"Pass --annual-km to check the running total for the year against the annual limit.",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, err := loadService(cmd)
			if err != nil {
				return err
			}
			report, err := svc.Mileage(req)
			if err != nil {
				return err
			}
			if jsonOutput {
				return renderJSON(cmd, report)
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderMileage(report))
			return nil
		},
	}

	cmd.Flags().StringVar(&req.DistanceKm, "km", "", "Distance in km")
	cmd.Flags().IntVar(&req.Year, "year", 0, "Tax year")
	cmd.Flags().StringVar(&req.AnnualKm, "annual-km", "", "Business km this year including this trip")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output result as JSON")
	_ = cmd.MarkFlagRequired("km")
	_ = cmd.MarkFlagRequired("year")

	return cmd
}
