package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/unijord/wavecut/pkg/vcd"
)

func newHeaderCmd() *cobra.Command {
	var signals []string
	cmd := &cobra.Command{
		Use:   "header trace.vcd",
		Short: "List the signal declarations of a trace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			trace, err := vcd.OpenTrace(args[0])
			if err != nil {
				return err
			}
			defer trace.Close()

			r, err := trace.NewReader()
			if err != nil {
				return err
			}
			defer r.Close()

			var table *vcd.SymbolTable
			if len(signals) > 0 {
				table, err = vcd.ResolveHeader(r, signals)
			} else {
				table, err = vcd.ScanHeader(r)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "trace:  %s\n", trace.Path())
			fmt.Fprintf(out, "digest: %s\n", table.DigestString())
			if !table.Complete() {
				fmt.Fprintln(out, "warning: $enddefinitions not found")
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tKIND\tWIDTH")
			for _, d := range table.Declarations() {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", d.ID, d.Name, d.Kind, d.Width)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			for _, name := range table.Missing(signals) {
				fmt.Fprintf(out, "missing: %s\n", name)
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVarP(&signals, "signals", "s", nil, "only resolve these signals, comma separated")
	return cmd
}
