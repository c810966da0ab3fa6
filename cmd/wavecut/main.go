// wavecut extracts signals from VCD waveform traces and splits them into
// per-state segments.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type rootOptions struct {
	logLevel string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "wavecut",
		Short: "Extract and segment signals from VCD traces",
		Long: `wavecut reads Value Change Dump traces produced by HDL simulations,
samples the requested signals, aligns them to a common length and splits
the rows by the value of a state signal.

Commands:
  run      extract, align, derive and segment
  header   list the declarations of a trace`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	cmd.AddCommand(newRunCmd(opts), newHeaderCmd())
	return cmd
}

// logger writes text logs to w at the configured level.
func (o *rootOptions) logger(w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(o.logLevel))); err != nil {
		return nil, fmt.Errorf("invalid log level %q", o.logLevel)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), nil
}
