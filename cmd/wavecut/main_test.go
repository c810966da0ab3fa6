package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTrace = `$scope module tb $end
$var reg 4 ! a [3:0] $end
$var reg 4 " b [3:0] $end
$var reg 3 % state_select [2:0] $end
$upscope $end
$enddefinitions $end
b0011 !
b1100 "
b000 %
#0
b0101 !
#10
b011 %
b1111 "
#20
b0000 !
#30
b000 %
#40
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestRunCommand_JSON(t *testing.T) {
	dir := t.TempDir()
	trace := writeFile(t, dir, "tb.vcd", testTrace)
	cfg := writeFile(t, dir, "run.yaml", `signals: [a, b, state_select]
decimation: 1
summaries:
  - name: a_max
    expr: max(a)
  - name: rows
    expr: _rows
`)

	out, _, err := execute(t, "run", "--config", cfg, "--format", "json", trace)
	require.NoError(t, err)

	var got struct {
		RunID    string `json:"run_id"`
		Rows     int    `json:"rows"`
		Segments []struct {
			Label     string              `json:"label"`
			Value     int64               `json:"value"`
			Rows      int                 `json:"rows"`
			Summaries map[string]*float64 `json:"summaries"`
		} `json:"segments"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))

	assert.NotEmpty(t, got.RunID)
	assert.Equal(t, 5, got.Rows)
	require.Len(t, got.Segments, 2)
	assert.Equal(t, "NORMAL", got.Segments[0].Label)
	assert.Equal(t, 3, got.Segments[0].Rows)
	require.NotNil(t, got.Segments[0].Summaries["a_max"])
	assert.Equal(t, 5.0, *got.Segments[0].Summaries["a_max"])
	assert.Equal(t, "FLOW", got.Segments[1].Label)
	assert.Equal(t, int64(3), got.Segments[1].Value)
	assert.Equal(t, 2.0, *got.Segments[1].Summaries["rows"])
}

func TestRunCommand_TableWithFlags(t *testing.T) {
	dir := t.TempDir()
	trace := writeFile(t, dir, "tb.vcd", testTrace)
	outDir := filepath.Join(dir, "out")

	out, _, err := execute(t, "run", "--signals", "a,ghost", "-d", "1", "--out", outDir, trace)
	require.NoError(t, err)

	assert.Contains(t, out, "missing: ghost")
	assert.Contains(t, out, "NORMAL")
	assert.Contains(t, out, "FLOW")
	assert.Contains(t, out, "wrote "+filepath.Join(outDir, "aligned.arrow"))
	assert.FileExists(t, filepath.Join(outDir, "aligned.arrow"))
	assert.DirExists(t, filepath.Join(outDir, "state=FLOW"))
}

func TestRunCommand_Errors(t *testing.T) {
	dir := t.TempDir()
	trace := writeFile(t, dir, "tb.vcd", testTrace)

	_, _, err := execute(t, "run", "--signals", "a")
	assert.ErrorContains(t, err, "no trace given")

	_, _, err = execute(t, "run", "--signals", "a", "--format", "xml", trace)
	assert.ErrorContains(t, err, "unknown format")

	_, _, err = execute(t, "run", trace)
	assert.Error(t, err, "no signals requested")

	_, _, err = execute(t, "run", "--signals", "a", "--log-level", "loud", trace)
	assert.ErrorContains(t, err, "invalid log level")
}

func TestHeaderCommand(t *testing.T) {
	trace := writeFile(t, t.TempDir(), "tb.vcd", testTrace)

	out, _, err := execute(t, "header", trace)
	require.NoError(t, err)
	assert.Contains(t, out, "digest: ")
	for _, name := range []string{"a", "b", "state_select"} {
		assert.Contains(t, out, name)
	}

	out, _, err = execute(t, "header", "--signals", "a,nope", trace)
	require.NoError(t, err)
	assert.Contains(t, out, "missing: nope")
	assert.False(t, strings.Contains(out, "state_select"))
}
