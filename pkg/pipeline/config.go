package pipeline

import (
	"errors"
	"fmt"

	wcel "github.com/unijord/wavecut/pkg/cel"
	"github.com/unijord/wavecut/pkg/segment"
	"github.com/unijord/wavecut/pkg/series"
	"github.com/unijord/wavecut/pkg/vcd"
)

// DefaultPartitionKey is the signal whose value selects the segment.
const DefaultPartitionKey = "state_select"

var (
	// ErrNoSignals is returned when Signals is empty.
	ErrNoSignals = errors.New("pipeline must request at least one signal")
	// ErrEmptySignalName is returned when a requested signal name is empty.
	ErrEmptySignalName = errors.New("signal name cannot be empty")
	// ErrDuplicateSignal is returned when a signal is requested twice.
	ErrDuplicateSignal = errors.New("duplicate signal name")
	// ErrEmptyColumnName is returned when a derived column or summary has an empty name.
	ErrEmptyColumnName = errors.New("column name cannot be empty")
	// ErrEmptyColumnExpr is returned when a derived column or summary has an empty expression.
	ErrEmptyColumnExpr = errors.New("column expression cannot be empty")
	// ErrDuplicateColumnName is returned when two columns share a name.
	ErrDuplicateColumnName = errors.New("duplicate column name")
	// ErrReservedColumnName is returned when a derived column shadows a signal or the time column.
	ErrReservedColumnName = errors.New("column name is reserved")
	// ErrInvalidDecimation is returned for a negative decimation.
	ErrInvalidDecimation = errors.New("decimation must not be negative")
	// ErrInvalidSampleBudget is returned for a negative sample budget.
	ErrInvalidSampleBudget = errors.New("sample_budget must not be negative")
	// ErrNoTrace is returned by Run when no trace path is configured.
	ErrNoTrace = errors.New("trace path is required")
)

// Config describes one extraction run.
type Config struct {
	// Trace is the path of the VCD file, optionally gzip-compressed.
	Trace string `json:"trace,omitempty"`

	// Signals are the base names to extract, without bit ranges.
	Signals []string `json:"signals"`

	// PartitionKey names the signal used for segmentation.
	// Empty means DefaultPartitionKey.
	PartitionKey string `json:"partition_key,omitempty"`

	// Labels maps partition key values (as decimal strings) to state names.
	// Empty means segment.DefaultLabels.
	Labels map[string]string `json:"labels,omitempty"`

	// Encodings overrides the signed/unsigned interpretation per signal.
	// Signals not listed use the built-in table.
	Encodings map[string]string `json:"encodings,omitempty"`

	// ExpectedMax declares plausible upper bounds for unsigned signals.
	// The partition key defaults to the largest label value.
	ExpectedMax map[string]int64 `json:"expected_max,omitempty"`

	// Decimation keeps one snapshot every N timestamp markers. 0 means the default.
	Decimation int `json:"decimation,omitempty"`

	// SampleBudget caps the number of snapshots. Nil means the default, 0 disables it.
	SampleBudget *int `json:"sample_budget,omitempty"`

	// Derived columns are CEL expressions evaluated per row. Each signal is
	// an int variable, earlier derived columns are double variables.
	Derived []Column `json:"derived,omitempty"`

	// Summaries are CEL expressions evaluated per segment. Each signal is a
	// list(int), each derived column a list(double).
	Summaries []Column `json:"summaries,omitempty"`
}

// Column is a named CEL expression.
type Column struct {
	Name string `json:"name"`
	Expr string `json:"expr"`
}

// Validate checks if the configuration is structurally valid.
func (c *Config) Validate() error {
	if len(c.Signals) == 0 {
		return ErrNoSignals
	}
	signals := make(map[string]bool, len(c.Signals))
	for i, name := range c.Signals {
		if name == "" {
			return fmt.Errorf("signals[%d]: %w", i, ErrEmptySignalName)
		}
		if signals[name] {
			return fmt.Errorf("signals[%d]: %w: %q", i, ErrDuplicateSignal, name)
		}
		signals[name] = true
	}

	if c.Decimation < 0 {
		return ErrInvalidDecimation
	}
	if c.SampleBudget != nil && *c.SampleBudget < 0 {
		return ErrInvalidSampleBudget
	}

	for name, enc := range c.Encodings {
		if _, err := vcd.ParseEncoding(enc); err != nil {
			return fmt.Errorf("encodings[%q]: %w", name, err)
		}
	}

	if _, err := c.LabelSet(); err != nil {
		return err
	}

	derived := make(map[string]bool, len(c.Derived))
	for i, col := range c.Derived {
		if err := validateColumn(col); err != nil {
			return fmt.Errorf("derived[%d]: %w", i, err)
		}
		if signals[col.Name] || col.Name == series.TimeColumn || col.Name == RowsVar || col.Name == LabelVar {
			return fmt.Errorf("derived[%d]: %w: %q", i, ErrReservedColumnName, col.Name)
		}
		if derived[col.Name] {
			return fmt.Errorf("derived[%d]: %w: %q", i, ErrDuplicateColumnName, col.Name)
		}
		derived[col.Name] = true
	}

	summaries := make(map[string]bool, len(c.Summaries))
	for i, col := range c.Summaries {
		if err := validateColumn(col); err != nil {
			return fmt.Errorf("summaries[%d]: %w", i, err)
		}
		if summaries[col.Name] {
			return fmt.Errorf("summaries[%d]: %w: %q", i, ErrDuplicateColumnName, col.Name)
		}
		summaries[col.Name] = true
	}

	return nil
}

func validateColumn(col Column) error {
	if col.Name == "" {
		return ErrEmptyColumnName
	}
	if col.Expr == "" {
		return fmt.Errorf("%q: %w", col.Name, ErrEmptyColumnExpr)
	}
	if !wcel.ValidIdentifier(col.Name) {
		return fmt.Errorf("%w: %q", wcel.ErrInvalidIdentifier, col.Name)
	}
	return nil
}

// Key returns the effective partition key.
func (c *Config) Key() string {
	if c.PartitionKey == "" {
		return DefaultPartitionKey
	}
	return c.PartitionKey
}

// LabelSet returns the effective label enumeration.
func (c *Config) LabelSet() (segment.Labels, error) {
	if len(c.Labels) == 0 {
		return segment.DefaultLabels, nil
	}
	return segment.ParseLabels(c.Labels)
}

// EncodingTable returns the built-in unsigned set with the configured overrides applied.
func (c *Config) EncodingTable() vcd.EncodingTable {
	table := vcd.NewEncodingTable(vcd.DefaultUnsigned...)
	for name, tag := range c.Encodings {
		enc, err := vcd.ParseEncoding(tag)
		if err != nil {
			continue
		}
		table[name] = enc
	}
	return table
}

// Wanted returns the signals to resolve: the requested ones plus the
// partition key when it was not requested explicitly.
func (c *Config) Wanted() []string {
	key := c.Key()
	for _, name := range c.Signals {
		if name == key {
			return c.Signals
		}
	}
	return append(append(make([]string, 0, len(c.Signals)+1), c.Signals...), key)
}

// DecoderOptions translates the sampling settings into decoder options.
func (c *Config) DecoderOptions() ([]vcd.DecoderOption, error) {
	labels, err := c.LabelSet()
	if err != nil {
		return nil, err
	}
	opts := []vcd.DecoderOption{
		vcd.WithEncodings(c.EncodingTable()),
		vcd.WithExpectedMax(c.Key(), labels.Max()),
	}
	if c.Decimation > 0 {
		opts = append(opts, vcd.WithDecimation(c.Decimation))
	}
	if c.SampleBudget != nil {
		opts = append(opts, vcd.WithSampleBudget(*c.SampleBudget))
	}
	for name, limit := range c.ExpectedMax {
		opts = append(opts, vcd.WithExpectedMax(name, limit))
	}
	return opts, nil
}

// HasDerived returns true if derived columns are configured.
func (c *Config) HasDerived() bool {
	return len(c.Derived) > 0
}

// HasSummaries returns true if summaries are configured.
func (c *Config) HasSummaries() bool {
	return len(c.Summaries) > 0
}
