package vcd

import (
	"bytes"
	"compress/gzip"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTrace(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func gzipped(t *testing.T, src string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(src))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestTrace_IndependentPasses(t *testing.T) {
	src := trace("#0", "b0101 !")
	tr, err := OpenTrace(writeTrace(t, "waves.vcd", []byte(src)))
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, tr.Close()) })

	assert.False(t, tr.Compressed())
	assert.Equal(t, int64(len(src)), tr.Size())

	for i := 0; i < 2; i++ {
		r, err := tr.NewReader()
		require.NoError(t, err)
		got, err := io.ReadAll(r)
		require.NoError(t, err)
		require.NoError(t, r.Close())
		assert.Equal(t, src, string(got))
	}
}

func TestTrace_Gzip(t *testing.T) {
	src := trace("#0", "b0101 !")
	tr, err := OpenTrace(writeTrace(t, "waves.vcd.gz", gzipped(t, src)))
	require.NoError(t, err)
	defer tr.Close()

	assert.True(t, tr.Compressed())
	r, err := tr.NewReader()
	require.NoError(t, err)
	defer r.Close()
	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, src, string(got))
}

func TestTrace_EmptyFile(t *testing.T) {
	tr, err := OpenTrace(writeTrace(t, "empty.vcd", nil))
	require.NoError(t, err)
	defer tr.Close()

	table, _, err := Parse(context.Background(), tr, []string{"a"}, func(*SymbolTable) Sink {
		return SinkFunc(func(Tick, *SignalState) {})
	})
	require.NoError(t, err)
	assert.Equal(t, 0, table.Len())
	assert.False(t, table.Complete())
}

func TestTrace_MissingFile(t *testing.T) {
	_, err := OpenTrace(filepath.Join(t.TempDir(), "nope.vcd"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestTrace_Closed(t *testing.T) {
	tr, err := OpenTrace(writeTrace(t, "waves.vcd", []byte(trace("#0"))))
	require.NoError(t, err)
	require.NoError(t, tr.Close())
	require.NoError(t, tr.Close())

	_, err = tr.NewReader()
	assert.ErrorIs(t, err, ErrTraceClosed)
}

func TestParse_BothPasses(t *testing.T) {
	src := trace("#0", "b1010 !", "b1010 \"", "#10")
	tr, err := OpenTrace(writeTrace(t, "waves.vcd.gz", gzipped(t, src)))
	require.NoError(t, err)
	defer tr.Close()

	rec, sink := recorder("!", "\"")
	table, stats, err := Parse(context.Background(), tr, []string{"a", "b"},
		func(*SymbolTable) Sink { return sink },
		WithDecimation(1), WithEncodings(NewEncodingTable("a")), WithLogger(quiet))
	require.NoError(t, err)

	assert.Equal(t, 2, table.Len())
	assert.Equal(t, 2, stats.Snapshots)
	assert.Equal(t, []int64{10}, rec.values["!"])
	assert.Equal(t, []int64{-6}, rec.values["\""])
}
