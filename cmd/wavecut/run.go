package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/unijord/wavecut/pkg/pipeline"
)

type runOptions struct {
	configPath   string
	signals      []string
	partitionKey string
	decimation   int
	budget       int
	format       string
	outDir       string
}

func newRunCmd(root *rootOptions) *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run [trace.vcd]",
		Short: "Extract, align and segment the configured signals",
		Long: `Run reads the trace twice: once to resolve the requested signals in the
header, once to sample their values. The aligned rows are split by the
partition key and each segment is summarized.

The trace argument overrides the trace path of the config file. Without a
config file, --signals is required.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.config(cmd, args)
			if err != nil {
				return err
			}
			logger, err := root.logger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			res, err := pipeline.Run(cmd.Context(), cfg, pipeline.WithLogger(logger))
			if err != nil {
				return err
			}

			var outputs []string
			if opts.outDir != "" {
				outputs, err = pipeline.WriteOutputs(opts.outDir, res, nil)
				if err != nil {
					return fmt.Errorf("write outputs: %w", err)
				}
			}

			switch opts.format {
			case "json":
				return writeJSON(cmd.OutOrStdout(), newReport(res, cfg, outputs))
			default:
				return writeTable(cmd.OutOrStdout(), newReport(res, cfg, outputs))
			}
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.configPath, "config", "c", "", "run configuration (JSON or YAML)")
	f.StringSliceVarP(&opts.signals, "signals", "s", nil, "signals to extract, comma separated")
	f.StringVarP(&opts.partitionKey, "key", "k", "", "partition key signal (default state_select)")
	f.IntVarP(&opts.decimation, "decimation", "d", 0, "keep one snapshot every N timestamps (default 10)")
	f.IntVar(&opts.budget, "budget", -1, "maximum number of snapshots, 0 for no limit (default 100000)")
	f.StringVarP(&opts.format, "format", "f", "table", "output format (table, json)")
	f.StringVarP(&opts.outDir, "out", "o", "", "write Arrow IPC files to this directory")
	return cmd
}

// config loads the config file, if any, and applies the flags on top.
func (o *runOptions) config(cmd *cobra.Command, args []string) (*pipeline.Config, error) {
	if o.format != "table" && o.format != "json" {
		return nil, fmt.Errorf("unknown format %q", o.format)
	}

	cfg := &pipeline.Config{}
	if o.configPath != "" {
		loaded, err := pipeline.LoadConfig(o.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if len(args) == 1 {
		cfg.Trace = args[0]
	}
	if cmd.Flags().Changed("signals") {
		cfg.Signals = o.signals
	}
	if o.partitionKey != "" {
		cfg.PartitionKey = o.partitionKey
	}
	if o.decimation > 0 {
		cfg.Decimation = o.decimation
	}
	if o.budget >= 0 {
		budget := o.budget
		cfg.SampleBudget = &budget
	}

	if cfg.Trace == "" {
		return nil, errors.New("no trace given: pass a path or set trace in the config")
	}
	return cfg, nil
}
