package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"expenses/internal/backend"
	"expenses/internal/cli"
	apphttp "expenses/internal/http"
	"expenses/internal/log"
)

const shutdownTimeout = 30 * time.Second

func newServeCommand(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the web page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tr, err := a.tracker(cmd.Context(), backend.SQLiteBackend, false)
			if err != nil {
				return err
			}
			if addr == "" {
				addr = ":" + a.cfg.Port
			}
			logger := a.logger.WithComponent(log.ComponentHTTP)

			srv := apphttp.NewServer(addr, tr,
				apphttp.WithReadyCheck(apphttp.ReadyFunc(a.result.ReadyCheck)),
				apphttp.WithLogger(a.logger),
			)

			ctx, done := cli.GracefulShutdown(logger, shutdownTimeout, func(ctx context.Context) {
				if err := srv.Shutdown(ctx); err != nil {
					logger.Error("HTTP server shutdown failed", log.FieldError, err)
				}
			})

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				logger.Info("HTTP server listening",
					"addr", addr,
					"parser", tr.CanParse(),
					log.FieldOperation, log.OpStartup)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})
			g.Go(func() error {
				<-gctx.Done()
				if ctx.Err() != nil {
					<-done
				}
				return nil
			})
			if err := g.Wait(); err != nil {
				logger.Error("HTTP server stopped", log.FieldError, err)
				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				_ = srv.Shutdown(shutdownCtx)
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default :PORT)")
	return cmd
}
