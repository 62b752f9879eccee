package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"expensetracker/internal/cli"
	"expensetracker/internal/config"
	"expensetracker/internal/ledger"
	"expensetracker/internal/log"
)

var (
	cfgFile   string
	logLevel  string
	logFormat string
	version   = "dev"

	appConfig *config.Config
	logger    *log.Logger
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "tracker",
		Short: "Personal expense and income ledger",
		Long: `tracker records expenses and incomes, filters and summarizes them,
and exports the expense list as a PDF report, an XLSX workbook or a
Google Sheets tab.`,
		SilenceUsage:      true,
		PersistentPreRunE: initConfig,
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.config/tracker/config.yaml)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format (text, json)")

	root.AddCommand(expenseCmd())
	root.AddCommand(incomeCmd())
	root.AddCommand(summaryCmd())
	root.AddCommand(chartCmd())
	root.AddCommand(exportCmd())
	root.AddCommand(serveCmd())
	root.AddCommand(versionCmd())
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, cli.FormatError(err.Error()))
		os.Exit(1)
	}
}

// initConfig loads .env, the config file and env overrides, then applies
// the logging flags on top.
func initConfig(cmd *cobra.Command, _ []string) error {
	cli.LoadEnvFile()

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if cmd.Flags().Changed("log-format") {
		cfg.LogFormat = logFormat
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	l, err := cli.SetupLogger(cfg, log.ComponentApp)
	if err != nil {
		return fmt.Errorf("setup logging: %w", err)
	}
	appConfig, logger = cfg, l
	return nil
}

// withLedger opens the ledger for the duration of fn.
func withLedger(ctx context.Context, fn func(*ledger.Ledger) error, opts ...ledger.Option) error {
	l, cleanup, err := cli.OpenLedger(ctx, appConfig, logger, opts...)
	if err != nil {
		return err
	}
	defer func() {
		if err := cleanup(); err != nil {
			logger.Warn("Failed to close backend", log.FieldError, err)
		}
	}()
	return fn(l)
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		// no config needed
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "tracker", version)
		},
	}
}
