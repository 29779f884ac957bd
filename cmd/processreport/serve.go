package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"process-report/internal/config"
	"process-report/internal/handler"
	"process-report/internal/logger"
	"process-report/internal/render"
	"process-report/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func serveCmd(cfg *config.Config) *cobra.Command {
	var shutdownTimeout time.Duration
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web workspace",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger.Init(cfg.Log)
			if cfg.Log.Level != "debug" {
				gin.SetMode(gin.ReleaseMode)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx, cfg, true)
			if err != nil {
				return err
			}
			defer a.close()

			html, err := render.NewHTML()
			if err != nil {
				return err
			}
			auth := service.NewAuthService(cfg.Auth)
			if auth.Enabled() {
				logger.Info("auth.enabled")
			}

			srv := &http.Server{
				Addr: cfg.Addr(),
				Handler: handler.NewRouter(handler.Deps{
					Orchestrator: a.orch,
					Form:         a.form,
					Exporter:     a.exporter,
					Auth:         auth,
					HTML:         html,
				}),
				ReadHeaderTimeout: 10 * time.Second,
				// open event streams end with the signal context
				BaseContext: func(net.Listener) context.Context { return ctx },
			}

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				logger.Info("server starting", "addr", srv.Addr, "history", len(a.history.List()))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})
			g.Go(func() error {
				<-gctx.Done()
				logger.Info("server shutting down")
				sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				if err := srv.Shutdown(sctx); err != nil {
					logger.Error("graceful shutdown failed", "err", err)
					return srv.Close()
				}
				return nil
			})
			return g.Wait()
		},
	}
	cmd.Flags().DurationVar(&shutdownTimeout, "shutdown-timeout", 10*time.Second, "time allowed for in-flight requests on shutdown")
	return cmd
}
