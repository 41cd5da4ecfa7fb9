package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/agentstation/linksync"
	"github.com/agentstation/linksync/internal/cmd/emoji"
	"github.com/agentstation/linksync/internal/cmd/table"
	"github.com/agentstation/linksync/pkg/links"
)

// View selects which part of a report is rendered.
type View string

const (
	// ViewReport renders the whole run.
	ViewReport View = "report"
	// ViewBatch renders only the batched candidates.
	ViewBatch View = "batch"
)

// FormatReport renders a run. Table formats print titled sections; JSON and
// YAML print the report itself, or just the batch for ViewBatch.
func FormatReport(w io.Writer, format Format, view View, r *linksync.Report) error {
	if !format.IsTable() {
		var data any = r
		if view == ViewBatch {
			data = batchOrEmpty(r.Batch)
		}
		return NewFormatter(format).Format(w, data)
	}

	wide := format == FormatWide
	sections := []struct {
		title string
		data  table.Data
		show  bool
	}{
		{title: "summary", data: table.SummaryToTableData(r), show: view == ViewReport},
		{title: "candidates", data: table.BatchToTableData(r.Batch), show: len(r.Batch) > 0 && (view == ViewBatch || !r.WritePhase)},
		{title: "write_backs", data: table.OutcomesToTableData(r.Outcomes, wide), show: view == ViewReport && r.WritePhase},
		{title: "skipped_rows", data: table.SkipsToTableData(r.Skips), show: wide && len(r.Skips) > 0},
	}

	formatter := &TableFormatter{}
	first := true
	for _, s := range sections {
		if !s.show {
			continue
		}
		if !first {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		first = false
		if _, err := fmt.Fprintln(w, Title(s.title)); err != nil {
			return err
		}
		if err := formatter.Format(w, s.data); err != nil {
			return err
		}
	}
	if view == ViewBatch && len(r.Batch) == 0 {
		_, err := fmt.Fprintln(w, "No candidates: every catalog link is already in the knowledge base.")
		return err
	}
	return nil
}

// Summary returns the one-line outcome of a run for status messages.
func Summary(r *linksync.Report) string {
	var b strings.Builder
	symbol := emoji.Success
	if r.Failed > 0 || r.WriteError != "" {
		symbol = emoji.Error
	} else if r.Skipped() > 0 {
		symbol = emoji.Warning
	}

	fmt.Fprintf(&b, "%s %d candidates, %d batched", symbol, r.Candidates, len(r.Batch))
	if r.WritePhase {
		fmt.Fprintf(&b, ", %d written, %d failed", r.Written, r.Failed)
	}
	if n := r.Skipped(); n > 0 {
		fmt.Fprintf(&b, ", %d rows skipped", n)
	}
	if r.WriteError != "" {
		fmt.Fprintf(&b, ", not written: %s", r.WriteError)
	}
	return b.String()
}

func batchOrEmpty(batch []links.Record) []links.Record {
	if batch == nil {
		return []links.Record{}
	}
	return batch
}
