package main

import (
	"github.com/spf13/cobra"

	"expensetracker/internal/cli"
	httpserver "expensetracker/internal/http"
	"expensetracker/internal/log"
	"expensetracker/internal/services"
)

func serveCmd() *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the ledger as a local JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("port") {
				appConfig.Port = port
			}
			ctx := cmd.Context()

			l, cleanup, err := cli.OpenLedger(ctx, appConfig, logger)
			if err != nil {
				return err
			}
			svc := services.NewLedgerService(l, cleanup)
			defer func() {
				if err := svc.Close(); err != nil {
					logger.Warn("Failed to close ledger", log.FieldError, err)
				}
			}()

			srv := httpserver.NewServer(":"+appConfig.Port, svc, logger)
			return srv.Run(ctx)
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "listen port (default: port from config)")
	return cmd
}
