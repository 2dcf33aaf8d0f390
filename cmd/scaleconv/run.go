package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cwbudde/scaleconv/internal/config"
)

func newRunCmd(root *rootOptions) *cobra.Command {
	var (
		configPath string
		blocks     int
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Process test tones through the configured streams and report the result",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("blocks") {
				cfg.Blocks = max(blocks, 1)
			}

			logger, err := root.newLogger(cmd.ErrOrStderr(), cfg.Logging)
			if err != nil {
				return err
			}

			p, err := newPipeline(cfg, logger, nil)
			if err != nil {
				return err
			}

			for range cfg.Blocks - 1 {
				p.step()
			}

			reports, err := p.stepAndMeasure()
			if err != nil {
				return err
			}

			return writeReport(cmd.OutOrStdout(), reports, p.blocks)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "scaleconv.yaml", "path to the YAML run configuration")
	cmd.Flags().IntVar(&blocks, "blocks", 0, "number of blocks to process (overrides config)")

	return cmd
}

func writeReport(w io.Writer, reports []channelReport, blocks int) error {
	fmt.Fprintf(w, "processed %d blocks; last block:\n\n", blocks)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "STREAM\tCH\tACTIVE\tDC IN\tAMP IN\tDC OUT\tAMP OUT\t")

	for _, r := range reports {
		active := "no"
		if r.enabled && r.selected {
			active = "yes"
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%.6g\t%.6g\t%.6g\t%.6g\t\n",
			r.stream, r.channel, active,
			r.before.DC, r.before.ToneAmplitude,
			r.after.DC, r.after.ToneAmplitude,
		)
	}

	return tw.Flush()
}
