package pipeline

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/unijord/wavecut/pkg/segment"
)

// Schema metadata keys written to every exported file.
const (
	MetaRunID  = "wavecut.run_id"
	MetaDigest = "wavecut.header_digest"
	MetaLabel  = "wavecut.label"
	MetaValue  = "wavecut.label_value"
)

// AlignedFile is the name of the file holding every aligned row.
const AlignedFile = "aligned.arrow"

// withMetadata returns rec under a schema carrying md. The caller must
// Release the result.
func withMetadata(rec arrow.Record, md arrow.Metadata) arrow.Record {
	schema := arrow.NewSchema(rec.Schema().Fields(), &md)
	return array.NewRecord(schema, rec.Columns(), rec.NumRows())
}

// WriteIPC writes rec as an Arrow IPC file.
func WriteIPC(w io.Writer, rec arrow.Record, mem memory.Allocator) error {
	if mem == nil {
		mem = memory.DefaultAllocator
	}
	fw, err := ipc.NewFileWriter(w, ipc.WithSchema(rec.Schema()), ipc.WithAllocator(mem))
	if err != nil {
		return fmt.Errorf("arrow writer: %w", err)
	}
	if err := fw.Write(rec); err != nil {
		_ = fw.Close()
		return fmt.Errorf("arrow write: %w", err)
	}
	return fw.Close()
}

func writeIPCFile(path string, rec arrow.Record, mem memory.Allocator) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteIPC(f, rec, mem); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// WriteOutputs exports the aligned table and one file per segment under dir:
//
//	dir/aligned.arrow
//	dir/state=<label>/part-<run id>.arrow
//
// It returns the written paths.
func WriteOutputs(dir string, res *Result, mem memory.Allocator) ([]string, error) {
	if mem == nil {
		mem = memory.DefaultAllocator
	}
	var paths []string

	rec := res.Record(mem)
	tagged := withMetadata(rec, arrow.NewMetadata(
		[]string{MetaRunID, MetaDigest},
		[]string{res.RunID, res.Digest},
	))
	rec.Release()
	path := filepath.Join(dir, AlignedFile)
	err := writeIPCFile(path, tagged, mem)
	tagged.Release()
	if err != nil {
		return paths, err
	}
	paths = append(paths, path)

	for i := range res.Segments.Segments {
		seg := &res.Segments.Segments[i]
		path, err := writeSegment(dir, res, seg, mem)
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeSegment(dir string, res *Result, seg *segment.Segment, mem memory.Allocator) (string, error) {
	rec := seg.Record(mem)
	defer rec.Release()
	tagged := withMetadata(rec, arrow.NewMetadata(
		[]string{MetaRunID, MetaDigest, MetaLabel, MetaValue},
		[]string{res.RunID, res.Digest, seg.Name(), strconv.FormatInt(seg.Label.Value, 10)},
	))
	defer tagged.Release()

	path := filepath.Join(dir, PartitionPath(seg.Name()), "part-"+res.RunID+".arrow")
	if err := writeIPCFile(path, tagged, mem); err != nil {
		return "", fmt.Errorf("segment %s: %w", seg.Name(), err)
	}
	return path, nil
}
