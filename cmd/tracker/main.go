package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tracker/internal/backend"
	"tracker/internal/cli"
	"tracker/internal/config"
	applog "tracker/internal/log"
)

var rootCmd = &cobra.Command{
	Use:           "tracker",
	Short:         "Personal finance tracker",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

// app is what every subcommand needs once configuration is resolved.
type app struct {
	cfg     *config.Config
	logger  *applog.Logger
	kind    backend.BackendType
	backend *backend.BackendResult
}

func (a *app) close() {
	if err := a.backend.Cleanup(); err != nil {
		a.logger.Error("Cleanup failed", applog.FieldError, err)
	}
}

// bootstrap loads configuration, sets up logging and opens the backend.
func bootstrap(ctx context.Context, cmd *cobra.Command) (*app, error) {
	cli.LoadEnvFile()

	cfg, err := cli.LoadAndValidateConfig(cmd.Flags())
	if err != nil {
		return nil, err
	}
	logger, err := cli.SetupLogger(cfg)
	if err != nil {
		return nil, err
	}

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	result, err := backend.NewFactory(logger.Logger.With(applog.FieldComponent, applog.ComponentBackend)).CreateBackend(ctx, backendCfg)
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, logger: logger, kind: backendCfg.Type, backend: result}, nil
}

func init() {
	config.RegisterFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(addWeeklyCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
