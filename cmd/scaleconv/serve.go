package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/cwbudde/scaleconv/internal/config"
	"github.com/cwbudde/scaleconv/plugin/scaleconv"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	var (
		configPath string
		listen     string
		duration   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Process blocks at real-time pace and expose Prometheus metrics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if listen != "" {
				cfg.Metrics.Listen = listen
			}
			if cfg.Metrics.Listen == "" {
				return errors.New("serve: no metrics listen address (set metrics.listen or --listen)")
			}

			logger, err := root.newLogger(cmd.ErrOrStderr(), cfg.Logging)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if duration > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, duration)
				defer cancel()
			}

			return serve(ctx, cfg, logger)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "scaleconv.yaml", "path to the YAML run configuration")
	cmd.Flags().StringVar(&listen, "listen", "", "metrics listen address (overrides config)")
	cmd.Flags().DurationVar(&duration, "duration", 0, "stop after this long (0 runs until interrupted)")

	return cmd
}

func serve(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	p, err := newPipeline(cfg, logger, scaleconv.NewMetrics(reg))
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	mux.Handle(cfg.Metrics.Path, promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	srv := &http.Server{
		Addr:              cfg.Metrics.Listen,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("metrics server listening",
			slog.String("addr", cfg.Metrics.Listen),
			slog.String("path", cfg.Metrics.Path),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	interval := blockInterval(cfg)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Info("processing started",
		slog.Int("streams", len(cfg.Streams)),
		slog.Int("block_size", cfg.BlockSize),
		slog.Duration("interval", interval),
	)

	var runErr error

loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case err := <-errCh:
			runErr = fmt.Errorf("serve: metrics server: %w", err)
			break loop
		case <-ticker.C:
			p.step()
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil && runErr == nil {
		runErr = fmt.Errorf("serve: shutdown: %w", err)
	}

	logger.Info("processing stopped", slog.Int("blocks", p.blocks))

	return runErr
}

// blockInterval is the wall-clock duration of one block at the fastest
// stream's sample rate.
func blockInterval(cfg *config.Config) time.Duration {
	rate := 0.0
	for _, s := range cfg.Streams {
		rate = max(rate, s.SampleRate)
	}

	return time.Duration(float64(cfg.BlockSize) / rate * float64(time.Second))
}
