package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/cwbudde/algo-vecmath/cpu"
	"github.com/spf13/cobra"

	"github.com/cwbudde/scaleconv/internal/config"
)

type rootOptions struct {
	logLevel  string
	logFormat string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "scaleconv",
		Short:         "Per-channel scale/offset processor for multi-stream acquisition",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error); overrides config")
	cmd.PersistentFlags().StringVar(&opts.logFormat, "log-format", "", "log format (text, json); overrides config")

	cmd.AddCommand(
		newParamsCmd(),
		newRunCmd(opts),
		newServeCmd(opts),
	)

	return cmd
}

// newLogger builds the slog logger from the config section, with flag
// overrides applied.
func (o *rootOptions) newLogger(w io.Writer, cfg config.LoggingConfig) (*slog.Logger, error) {
	if o.logLevel != "" {
		cfg.Level = o.logLevel
	}
	if o.logFormat != "" {
		cfg.Format = o.logFormat
	}
	if cfg.Level == "" {
		cfg.Level = "info"
	}
	if cfg.Format == "" {
		cfg.Format = "text"
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}

	lvl, _ := cfg.SlogLevel()
	hopts := &slog.HandlerOptions{Level: lvl}

	var h slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		h = slog.NewJSONHandler(w, hopts)
	} else {
		h = slog.NewTextHandler(w, hopts)
	}

	logger := slog.New(h)
	logger.Debug("cpu features", slog.Any("features", cpu.DetectFeatures()))

	return logger, nil
}
