package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/cadport/pkg/cli/config"
	controller "github.com/m-mizutani/cadport/pkg/controller/http"
	"github.com/m-mizutani/cadport/pkg/domain/types"
)

func cmdServe(fileCfg *config.File) *cli.Command {
	var (
		serverCfg   config.Server
		pipelineCfg pipelineConfig
	)

	flags := append(serverCfg.Flags(), pipelineCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Before:  withFile(fileCfg),
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			logger.Info("Starting "+types.ServiceName+" server",
				slog.String("addr", serverCfg.Addr),
				slog.String("portal", pipelineCfg.portal.URL),
			)

			p, err := pipelineCfg.build(ctx)
			if err != nil {
				return err
			}
			defer p.close()

			// Create HTTP server with options
			server, err := controller.NewServer(
				ctx,
				p.sessions,
				p.search,
				p.library,
				controller.WithAddr(serverCfg.Addr),
				controller.WithMetricsHandler(p.metrics.Handler()),
			)
			if err != nil {
				return goerr.Wrap(err, "failed to create HTTP server")
			}

			// Start server in goroutine
			go func() {
				logger.Info("HTTP server starting", slog.String("addr", serverCfg.Addr))
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Error("HTTP server error", slog.Any("error", err))
				}
			}()

			// Wait for interrupt signal
			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

			select {
			case <-ctx.Done():
				logger.Info("Context cancelled, shutting down...")
			case sig := <-sigChan:
				logger.Info("Signal received, shutting down...", slog.Any("signal", sig))
			}

			// Graceful shutdown
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shutdown server gracefully")
			}

			logger.Info("Server shutdown complete")
			return nil
		},
	}
}
