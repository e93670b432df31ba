package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/zzptax/zzptax/internal/adapters/outbound/tui"
	"github.com/zzptax/zzptax/internal/application"
	"github.com/zzptax/zzptax/internal/domain/btw"
)

func newBTWCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "btw",
		Short: "BTW (VAT) calculations",
	}
	cmd.AddCommand(newBTWDueCmd())
	cmd.AddCommand(newBTWExtractCmd())
	cmd.AddCommand(newBTWPeriodCmd())
	return cmd
}

func newBTWDueCmd() *cobra.Command {
	var (
		req        application.BTWRequest
		rate       int
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "due",
		Short: "Compute the net BTW for a period",
		Long:  "Compute output VAT on sales, input VAT on purchases and the balance to pay or reclaim.",
		Example: `  zzptax btw due --sales 50000 --purchases 12000
  zzptax btw due --sales "€ 8.250,00" --purchases 0 --rate 9`,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, err := loadService(cmd)
			if err != nil {
				return err
			}
			req.Rate = &rate
			report, err := svc.BTWDue(req)
			if err != nil {
				return err
			}
			if jsonOutput {
				return renderJSON(cmd, report)
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderBTW(report))
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Sales, "sales", "", "Net revenue excluding VAT")
	cmd.Flags().StringVar(&req.Purchases, "purchases", "0", "Net deductible purchases excluding VAT")
	cmd.Flags().IntVar(&rate, "rate", int(btw.Rate21), "VAT rate in percent (0, 9 or 21)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output result as JSON")
	_ = cmd.MarkFlagRequired("sales")

	return cmd
}

func newBTWExtractCmd() *cobra.Command {
	var (
		req        application.GrossRequest
		rate       int
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract the BTW contained in a gross amount",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, err := loadService(cmd)
			if err != nil {
				return err
			}
			req.Rate = &rate
			report, err := svc.VATFromGross(req)
			if err != nil {
				return err
			}
			if jsonOutput {
				return renderJSON(cmd, report)
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderGross(report))
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Gross, "gross", "", "Amount including VAT")
	cmd.Flags().IntVar(&rate, "rate", int(btw.Rate21), "VAT rate in percent (0, 9 or 21)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output result as JSON")
	_ = cmd.MarkFlagRequired("gross")

	return cmd
}

func newBTWPeriodCmd() *cobra.Command {
	var (
		year, quarter int
		jsonOutput    bool
	)

	cmd := &cobra.Command{
		Use:   "period",
		Short: "Show a quarterly filing period and its deadline",
		Long:  "Show the dates of a BTW quarter. Without flags the current quarter is shown.",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, err := loadService(cmd)
			if err != nil {
				return err
			}

			current := btw.PeriodFor(time.Now())
			if year == 0 {
				year = current.Year
			}
			if quarter == 0 {
				quarter = current.Quarter
			}

			report, err := svc.BTWPeriod(year, quarter)
			if err != nil {
				return err
			}
			if jsonOutput {
				return renderJSON(cmd, report)
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderPeriod(report))
			return nil
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "Year (defaults to the current year)")
	cmd.Flags().IntVar(&quarter, "quarter", 0, "Quarter 1-4 (defaults to the current quarter)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output result as JSON")

	return cmd
}
