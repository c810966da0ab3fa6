package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/unijord/wavecut/pkg/pipeline"
	"github.com/unijord/wavecut/pkg/vcd"
)

type report struct {
	RunID     string          `json:"run_id"`
	Trace     string          `json:"trace"`
	Digest    string          `json:"header_digest"`
	Key       string          `json:"partition_key"`
	Missing   []string        `json:"missing,omitempty"`
	Lengths   map[string]int  `json:"lengths"`
	Rows      int             `json:"rows"`
	Stats     vcd.Stats       `json:"stats"`
	Fallback  bool            `json:"fallback"`
	Unlabeled int             `json:"unlabeled"`
	Segments  []segmentReport `json:"segments"`
	Outputs   []string        `json:"outputs,omitempty"`

	// summary names in config order
	summaries []string
}

type segmentReport struct {
	Label     string              `json:"label"`
	Value     int64               `json:"value"`
	Rows      int                 `json:"rows"`
	Summaries map[string]*float64 `json:"summaries,omitempty"`
}

func newReport(res *pipeline.Result, cfg *pipeline.Config, outputs []string) report {
	r := report{
		RunID:     res.RunID,
		Trace:     res.Trace,
		Digest:    res.Digest,
		Key:       cfg.Key(),
		Missing:   res.Missing,
		Lengths:   res.Lengths,
		Rows:      res.Aligned.Len(),
		Stats:     res.Stats,
		Fallback:  res.Segments.Fallback,
		Unlabeled: res.Segments.Unlabeled,
		Outputs:   outputs,
	}
	for _, s := range cfg.Summaries {
		r.summaries = append(r.summaries, s.Name)
	}
	for _, seg := range res.Segments.Segments {
		sr := segmentReport{Label: seg.Name(), Value: seg.Label.Value, Rows: seg.Len()}
		if values := res.Summaries[seg.Name()]; len(values) > 0 {
			sr.Summaries = make(map[string]*float64, len(values))
			for name, v := range values {
				// JSON has no NaN
				if math.IsNaN(v) || math.IsInf(v, 0) {
					sr.Summaries[name] = nil
					continue
				}
				sr.Summaries[name] = &v
			}
		}
		r.Segments = append(r.Segments, sr)
	}
	return r
}

func writeJSON(w io.Writer, r report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

func writeTable(w io.Writer, r report) error {
	fmt.Fprintf(w, "run:     %s\n", r.RunID)
	fmt.Fprintf(w, "trace:   %s (header %s)\n", r.Trace, r.Digest)
	fmt.Fprintf(w, "samples: %d rows from %d markers", r.Rows, r.Stats.Markers)
	if r.Stats.BudgetHit {
		fmt.Fprint(w, " (budget reached)")
	}
	fmt.Fprintln(w)
	if len(r.Missing) > 0 {
		fmt.Fprintf(w, "missing: %s\n", strings.Join(r.Missing, ", "))
	}
	if r.Fallback {
		fmt.Fprintf(w, "partition key %s not extracted, single segment\n", r.Key)
	}
	if r.Unlabeled > 0 {
		fmt.Fprintf(w, "unlabeled rows dropped: %d\n", r.Unlabeled)
	}
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	header := append([]string{"LABEL", "VALUE", "ROWS"}, upper(r.summaries)...)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, seg := range r.Segments {
		cells := []string{seg.Label, fmt.Sprint(seg.Value), fmt.Sprint(seg.Rows)}
		for _, name := range r.summaries {
			cells = append(cells, formatValue(seg.Summaries[name]))
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	for _, path := range r.Outputs {
		fmt.Fprintf(w, "wrote %s\n", path)
	}
	return nil
}

func upper(names []string) []string {
	out := slices.Clone(names)
	for i, n := range out {
		out[i] = strings.ToUpper(n)
	}
	return out
}

func formatValue(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.6g", *v)
}
