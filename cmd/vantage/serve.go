package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/aretw0/vantage"
	"github.com/aretw0/vantage/internal/presentation/tui"
	httpAdapter "github.com/aretw0/vantage/pkg/adapters/http"
	"github.com/aretw0/vantage/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Serves transform caches as JSON and the entity graph as Mermaid over HTTP.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setupEnv(cmd)
		if err != nil {
			return err
		}
		defer env.Close()
		logger := env.Logger

		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			env.Config.HTTP.Addr = addr
		}
		if cmd.Flags().Changed("metrics") {
			env.Config.HTTP.Metrics, _ = cmd.Flags().GetBool("metrics")
		}

		hooks := observability.LoggingHooks(logger)
		handlerOpts := []httpAdapter.Option{httpAdapter.WithLogger(logger)}
		if env.Config.HTTP.Metrics {
			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
			metrics, err := observability.NewMetrics(reg)
			if err != nil {
				return err
			}
			hooks = observability.Aggregate(hooks, metrics.Hooks())
			handlerOpts = append(handlerOpts, httpAdapter.WithMetricsHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
		}

		resolver, err := env.NewResolver(vantage.WithLifecycleHooks(hooks))
		if err != nil {
			return err
		}

		srv := &http.Server{
			Addr:              env.Config.HTTP.Addr,
			Handler:           httpAdapter.NewHandler(resolver, env.Timeline, handlerOpts...),
			ReadHeaderTimeout: env.Config.HTTP.ReadTimeout,
			ReadTimeout:       env.Config.HTTP.ReadTimeout,
		}

		tui.PrintBanner(cmd.ErrOrStderr())

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)
		go func() {
			logger.Info("Starting Vantage Server", "addr", srv.Addr, "source", env.Source(), "metrics", env.Config.HTTP.Metrics)
			serverErrors <- srv.ListenAndServe()
		}()

		// Blocking main and waiting for shutdown.
		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err

		case <-cmd.Context().Done():
			logger.Info("Start shutdown...")

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				logger.Error("Graceful shutdown did not complete", "timeout", 5*time.Second, "error", err)
				return srv.Close()
			}
			logger.Info("Vantage Server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Address to listen on (default from config, :8080)")
	serveCmd.Flags().Bool("metrics", false, "Expose Prometheus metrics on /metrics")
}
