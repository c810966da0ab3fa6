package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfig_JSON(t *testing.T) {
	doc := []byte(`{
		"trace": "/data/tb.vcd",
		"signals": ["x", "y", "state_select"],
		"labels": {"0": "NORMAL", "3": "FLOW"},
		"encodings": {"x": "unsigned"},
		"decimation": 5,
		"sample_budget": 0,
		"derived": [{"name": "amp", "expr": "hypot(x, y)"}],
		"summaries": [{"name": "peak", "expr": "maxDouble(amp)"}]
	}`)

	cfg, err := ParseConfig(doc, FormatJSON)
	require.NoError(t, err)

	assert.Equal(t, "/data/tb.vcd", cfg.Trace)
	assert.Equal(t, []string{"x", "y", "state_select"}, cfg.Signals)
	assert.Equal(t, map[string]string{"0": "NORMAL", "3": "FLOW"}, cfg.Labels)
	assert.Equal(t, 5, cfg.Decimation)
	require.NotNil(t, cfg.SampleBudget)
	assert.Equal(t, 0, *cfg.SampleBudget)
	assert.Equal(t, []Column{{Name: "amp", Expr: "hypot(x, y)"}}, cfg.Derived)
	assert.Equal(t, []Column{{Name: "peak", Expr: "maxDouble(amp)"}}, cfg.Summaries)
}

func TestParseConfig_YAML(t *testing.T) {
	doc := []byte(`
trace: tb.vcd
signals: [x, y]
partition_key: mode
labels:
  0: IDLE
  1: BUSY
expected_max:
  mode: 1
derived:
  - name: amp
    expr: hypot(x, y)
`)

	cfg, err := ParseConfig(doc, FormatYAML)
	require.NoError(t, err)

	assert.Equal(t, "mode", cfg.Key())
	assert.Equal(t, map[string]string{"0": "IDLE", "1": "BUSY"}, cfg.Labels)
	assert.Equal(t, map[string]int64{"mode": 1}, cfg.ExpectedMax)

	labels, err := cfg.LabelSet()
	require.NoError(t, err)
	assert.Equal(t, "IDLE", labels.Default().Name)
}

func TestParseConfig_Rejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "not json", doc: `{signals:`},
		{name: "missing signals", doc: `{"trace": "a.vcd"}`},
		{name: "empty signals", doc: `{"signals": []}`},
		{name: "unknown field", doc: `{"signals": ["a"], "colour": "red"}`},
		{name: "bad encoding", doc: `{"signals": ["a"], "encodings": {"a": "gray"}}`},
		{name: "negative decimation", doc: `{"signals": ["a"], "decimation": -1}`},
		{name: "fractional budget", doc: `{"signals": ["a"], "sample_budget": 1.5}`},
		{name: "label key not integer", doc: `{"signals": ["a"], "labels": {"x": "NORMAL"}}`},
		{name: "derived bad name", doc: `{"signals": ["a"], "derived": [{"name": "a.b", "expr": "1.0"}]}`},
		{name: "duplicate label name", doc: `{"signals": ["a"], "labels": {"0": "A", "1": "A"}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.doc), FormatJSON)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestParseConfig_YAMLRejects(t *testing.T) {
	_, err := ParseConfig([]byte("signals: [a\n"), FormatYAML)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = ParseConfig([]byte("signals: a\n"), FormatYAML)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, FormatYAML, FormatFromPath("run.yaml"))
	assert.Equal(t, FormatYAML, FormatFromPath("RUN.YML"))
	assert.Equal(t, FormatJSON, FormatFromPath("run.json"))
	assert.Equal(t, FormatJSON, FormatFromPath("run"))
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte("trace: traces/tb.vcd\nsignals: [a]\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "traces", "tb.vcd"), cfg.Trace)

	abs := filepath.Join(dir, "abs.json")
	require.NoError(t, os.WriteFile(abs, []byte(`{"trace": "/x/tb.vcd", "signals": ["a"]}`), 0o644))
	cfg, err = LoadConfig(abs)
	require.NoError(t, err)
	assert.Equal(t, "/x/tb.vcd", cfg.Trace)
}

func TestLoadConfig_Missing(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
