package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/zzptax/zzptax/internal/adapters/inbound/httpapi"
	"github.com/zzptax/zzptax/internal/logger"
)

func newServeCmd() *cobra.Command {
	var (
		envFile string
		addr    string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: "Start the JSON API. Settings are read from the environment (ZZPTAX_ADDR, LOG_LEVEL, " +
			"RATE_LIMIT_RPS, RATE_LIMIT_BURST), optionally seeded from a .env file.",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, warnings := httpapi.LoadSettings(envFile)
			if addr != "" {
				settings.Addr = addr
			}

			log := logger.New(settings.LogLevel, cmd.ErrOrStderr())
			for _, w := range warnings {
				log.Warn(w)
			}

			svc, dir, err := loadService(cmd)
			if err != nil {
				return err
			}
			log.Info("tax tables loaded", "dir", dir, "years", svc.SupportedYears(), "revision", svc.Revision())

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return httpapi.NewServer(svc, log, settings).ListenAndServe(ctx, settings.Addr)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", ".env", "Optional .env file with server settings")
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides ZZPTAX_ADDR)")

	return cmd
}
