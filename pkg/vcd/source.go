package vcd

import (
	"bytes"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"github.com/edsrzf/mmap-go"
)

var (
	// ErrTraceClosed is returned when reading from a closed Trace.
	ErrTraceClosed = errors.New("trace is closed")
)

var gzipMagic = []byte{0x1f, 0x8b}

// Trace is a read-only, memory-mapped trace file. Every call to NewReader
// starts an independent forward pass from the first byte, so the header and
// body scans never buffer the file on the heap. Gzip-compressed traces
// (e.g. waves.vcd.gz) are detected by their magic number and inflated per pass.
type Trace struct {
	path     string
	fd       *os.File
	mmapData mmap.MMap
	size     int64
	gzipped  bool
	closed   atomic.Bool
}

// OpenTrace maps the file at path for reading.
func OpenTrace(path string) (*Trace, error) {
	fd, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open trace: %w", err)
	}
	info, err := fd.Stat()
	if err != nil {
		_ = fd.Close()
		return nil, fmt.Errorf("stat trace: %w", err)
	}

	t := &Trace{path: path, fd: fd, size: info.Size()}
	// mapping an empty file fails on most platforms.
	if t.size == 0 {
		return t, nil
	}

	data, err := mmap.Map(fd, mmap.RDONLY, 0)
	if err != nil {
		_ = fd.Close()
		return nil, fmt.Errorf("mmap error: %w", err)
	}
	t.mmapData = data
	t.gzipped = bytes.HasPrefix(data, gzipMagic)
	return t, nil
}

// Path returns the file path the trace was opened from.
func (t *Trace) Path() string {
	return t.path
}

// Size returns the on-disk size in bytes.
func (t *Trace) Size() int64 {
	return t.size
}

// Compressed reports whether the trace is gzip-compressed.
func (t *Trace) Compressed() bool {
	return t.gzipped
}

// NewReader returns a reader positioned at the start of the trace.
// The caller must close it before closing the Trace.
func (t *Trace) NewReader() (io.ReadCloser, error) {
	if t.closed.Load() {
		return nil, ErrTraceClosed
	}
	src := bytes.NewReader(t.mmapData)
	if !t.gzipped {
		return io.NopCloser(src), nil
	}
	zr, err := gzip.NewReader(src)
	if err != nil {
		return nil, fmt.Errorf("open gzip trace: %w", err)
	}
	return zr, nil
}

// Close unmaps and closes the file. It is safe to call more than once.
func (t *Trace) Close() error {
	if !t.closed.CompareAndSwap(false, true) {
		return nil
	}
	if t.mmapData != nil {
		if err := t.mmapData.Unmap(); err != nil {
			_ = t.fd.Close()
			return fmt.Errorf("unmap error: %w", err)
		}
	}
	if err := t.fd.Close(); err != nil {
		return fmt.Errorf("file close error: %w", err)
	}
	return nil
}
