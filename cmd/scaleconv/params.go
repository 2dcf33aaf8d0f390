package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cwbudde/scaleconv/plugin/scaleconv"
)

func newParamsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "params",
		Short: "List the processor's stream-scoped parameters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tKIND\tDEFAULT\tRANGE\tDESCRIPTION")

			for _, p := range scaleconv.Parameters() {
				def, rng := "-", "-"
				switch p.Kind {
				case scaleconv.KindFloat:
					def = fmt.Sprintf("%g", p.Default)
					rng = fmt.Sprintf("[%g, %g] step %g", p.Min, p.Max, p.Step)
				case scaleconv.KindBool:
					def = fmt.Sprintf("%t", p.Default != 0)
				case scaleconv.KindChannelMask:
					def = "all"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", p.Name, p.Kind, def, rng, p.Description)
			}

			return tw.Flush()
		},
	}
}
