package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zzptax/zzptax/internal/adapters/outbound/tui"
	"github.com/zzptax/zzptax/internal/application"
)

func newIBANCmd() *cobra.Command {
	var (
		jsonOutput bool
		strict     bool
	)

	cmd := &cobra.Command{
		Use:   "iban <iban>...",
		Short: "Validate Dutch IBANs",
		Long:  "Check the format and MOD-97 checksum of one or more Dutch IBANs. Quote IBANs that contain spaces.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, err := loadService(cmd)
			if err != nil {
				return err
			}

			reports := make([]application.IBANReport, 0, len(args))
			invalid := 0
			for _, a := range args {
				r := svc.CheckIBAN(a)
				if !r.Valid {
					invalid++
				}
				reports = append(reports, r)
			}

			if jsonOutput {
				if err := renderJSON(cmd, reports); err != nil {
					return err
				}
			} else {
				fmt.Fprint(cmd.OutOrStdout(), tui.RenderIBANs(reports))
			}

			if strict && invalid > 0 {
				return fmt.Errorf("%d of %d IBANs are invalid", invalid, len(reports))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output results as JSON")
	cmd.Flags().BoolVar(&strict, "strict", false, "Exit with an error when any IBAN is invalid")

	return cmd
}
