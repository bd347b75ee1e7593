package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"tracker/internal/cli"
	apphttp "tracker/internal/http"
	applog "tracker/internal/log"
)

const shutdownTimeout = 30 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web UI",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := bootstrap(cmd.Context(), cmd)
		if err != nil {
			return err
		}

		srv := apphttp.NewServer(apphttp.Options{
			Addr:           ":" + a.cfg.Port,
			Store:          a.backend.Store,
			Ledger:         a.backend.Ledger,
			CurrencySymbol: a.cfg.CurrencySymbol,
			CORSOrigins:    a.cfg.CORSOrigins,
			Logger:         a.logger.WithComponent(applog.ComponentHTTP),
		})

		// Configure server timeouts and limits
		srv.ReadTimeout = 10 * time.Second
		srv.WriteTimeout = 45 * time.Second
		srv.IdleTimeout = 60 * time.Second
		srv.MaxHeaderBytes = 1 << 16 // 64KB

		_, done := cli.GracefulShutdown(a.logger.Logger, shutdownTimeout, func(ctx context.Context) {
			if err := srv.Shutdown(ctx); err != nil {
				a.logger.Error("Server shutdown error", applog.FieldError, err)
			}
			a.close()
		})

		a.logger.Info("Starting tracker server",
			"port", a.cfg.Port,
			"backend", a.kind,
			"amqp_enabled", a.cfg.AMQPURL != "")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("Server error", applog.FieldError, err, "port", a.cfg.Port)
			a.close()
			return err
		}

		<-done
		a.logger.Info("Server stopped gracefully")
		return nil
	},
}
