package pipeline

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/unijord/wavecut/pkg/segment"
	"github.com/unijord/wavecut/pkg/series"
	"github.com/unijord/wavecut/pkg/vcd"
)

// RunOption configures Run.
type RunOption func(*runOptions)

type runOptions struct {
	logger   *slog.Logger
	compiler []CompilerOption
}

// WithLogger sets the logger for the run and the decoder.
func WithLogger(l *slog.Logger) RunOption {
	return func(o *runOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithCompilerOptions passes options to the expression compiler.
func WithCompilerOptions(opts ...CompilerOption) RunOption {
	return func(o *runOptions) {
		o.compiler = append(o.compiler, opts...)
	}
}

// Run extracts the configured signals from the trace, aligns them, computes
// derived columns, splits the rows by state and evaluates the summaries.
// Requested signals absent from the trace are reported in Result.Missing and
// logged; only I/O failures and expression errors abort the run.
func Run(ctx context.Context, cfg *Config, opts ...RunOption) (*Result, error) {
	o := runOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	logger := o.logger

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Trace == "" {
		return nil, ErrNoTrace
	}
	labels, err := cfg.LabelSet()
	if err != nil {
		return nil, err
	}
	decoderOpts, err := cfg.DecoderOptions()
	if err != nil {
		return nil, err
	}
	decoderOpts = append(decoderOpts, vcd.WithLogger(logger))

	res := &Result{RunID: uuid.NewString(), Trace: cfg.Trace}
	logger = logger.With("run_id", res.RunID)

	trace, err := vcd.OpenTrace(cfg.Trace)
	if err != nil {
		return nil, err
	}
	defer trace.Close()

	wanted := cfg.Wanted()
	var sampler *series.Sampler
	table, stats, err := vcd.Parse(ctx, trace, wanted, func(t *vcd.SymbolTable) vcd.Sink {
		sampler = series.NewSampler(t)
		return sampler
	}, decoderOpts...)
	if err != nil {
		return nil, err
	}

	res.Digest = table.DigestString()
	res.Declared = table.Declarations()
	res.Missing = table.Missing(wanted)
	res.Stats = stats
	if !table.Complete() {
		logger.Warn("[pipeline]", "message", "$enddefinitions not found, trace body was not decoded",
			"trace", cfg.Trace, "lines", stats.Lines)
	}
	for _, name := range res.Missing {
		logger.Warn("[pipeline]", "message", "signal not declared in trace", "signal", name)
	}

	extracted := sampler.Extracted()
	res.Lengths = extracted.Lengths()
	aligned := series.Reconcile(extracted)
	res.Aligned = aligned
	logger.Info("[pipeline]", "message", "series aligned",
		"signals", len(aligned.Names()), "rows", aligned.Len(),
		"markers", stats.Markers, "snapshots", stats.Snapshots)

	compiled, err := NewCompiler(o.compiler...).Compile(cfg, aligned.Names())
	if err != nil {
		return nil, err
	}
	exec := NewExecutor(compiled)
	if err := exec.Derive(ctx, aligned); err != nil {
		return nil, err
	}
	if cfg.HasDerived() {
		logger.Debug("[pipeline]", "message", "derived columns", "columns", exec.Pipeline().DerivedNames())
	}

	res.Segments = segment.Split(aligned, cfg.Key(), labels)
	if res.Segments.Fallback {
		logger.Warn("[pipeline]", "message", "partition key not extracted, using a single segment",
			"key", cfg.Key(), "label", labels.Default().Name)
	}
	if res.Segments.Unlabeled > 0 {
		logger.Warn("[pipeline]", "message", "rows with unknown state dropped",
			"key", cfg.Key(), "rows", res.Segments.Unlabeled)
	}

	res.Summaries = make(map[string]map[string]float64, len(res.Segments.Segments))
	for i := range res.Segments.Segments {
		seg := &res.Segments.Segments[i]
		summary, err := exec.Summarize(seg)
		if err != nil {
			return nil, err
		}
		res.Summaries[seg.Name()] = summary
		logger.Debug("[pipeline]", "message", "segment", "label", seg.Name(), "rows", seg.Len())
	}

	logger.Info("[pipeline]", "message", "run complete",
		"segments", len(res.Segments.Segments), "digest", res.Digest)
	return res, nil
}
