package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/suchnamemuchuser/bc-thesis-web/internal/api"
	"github.com/suchnamemuchuser/bc-thesis-web/internal/health"
)

func newServeCmd(ov *overrides) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long:  "Serve windows, charts and the plan over HTTP until SIGINT or SIGTERM.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd.ErrOrStderr(), *ov)
			if err != nil {
				return err
			}
			defer a.close()

			store, err := a.planStore()
			if err != nil {
				return err
			}
			httpCfg, err := loadHTTPConfig(a.logger)
			if err != nil {
				return err
			}

			srv := api.NewServer(api.Config{
				Addr:       httpCfg.Addr,
				Auth:       httpCfg.Auth,
				TrustProxy: httpCfg.TrustProxy,
				MaxTargets: httpCfg.MaxTargets,
			}, api.Deps{
				Planner: a.planner,
				Store:   store,
				Site:    a.site,
				Checker: health.NewChecker(map[string]health.Pinger{"plan_db": store}, a.logger),
			}, a.logger)

			// Graceful shutdown on SIGINT/SIGTERM.
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errc := make(chan error, 1)
			go func() {
				a.logger.Info("starting server", "addr", httpCfg.Addr, "site", a.site.Name)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errc <- err
				}
			}()

			select {
			case err := <-errc:
				return err
			case <-ctx.Done():
			}
			a.logger.Info("shutting down server...")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.HTTPServer().Shutdown(shutdownCtx); err != nil {
				return err
			}

			a.logger.Info("server stopped")
			return nil
		},
	}
}
