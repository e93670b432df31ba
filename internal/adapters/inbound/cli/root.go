package cli

import (
	"fmt"
	"path/filepath"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/zzptax/zzptax/internal/adapters/outbound/config"
	"github.com/zzptax/zzptax/internal/adapters/outbound/gitinfo"
	"github.com/zzptax/zzptax/internal/adapters/outbound/history"
	"github.com/zzptax/zzptax/internal/application"
)

var (
	version = "dev"
	commit  = "none"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "zzptax",
		Short: "Tax calculations for Dutch freelancers",
		Long: "zzptax validates IBANs and computes BTW, income tax, social contributions and mileage deductions " +
			"from versioned tax tables.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().String("path", ".", "Directory holding .zzptax.yaml and the .zzptax/ history")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newIBANCmd())
	cmd.AddCommand(newBTWCmd())
	cmd.AddCommand(newIncomeTaxCmd())
	cmd.AddCommand(newMileageCmd())
	cmd.AddCommand(newCategorizeCmd())
	cmd.AddCommand(newTablesCmd())
	cmd.AddCommand(newHistoryCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newMCPCmd())
	return cmd
}

// NewRootCmdForTest returns the root command for testing.
func NewRootCmdForTest() *cobra.Command {
	return newRootCmd()
}

func Execute() error {
	return newRootCmd().Execute()
}

// loadService builds the calculation service for the --path directory.
func loadService(cmd *cobra.Command) (*application.CalcService, string, error) {
	path, err := cmd.Flags().GetString("path")
	if err != nil {
		return nil, "", err
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, "", fmt.Errorf("resolving path: %w", err)
	}

	svc, err := application.LoadCalcService(config.New(), gitinfo.New(), history.New(), absPath)
	if err != nil {
		return nil, "", err
	}
	return svc, absPath, nil
}

func renderJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
