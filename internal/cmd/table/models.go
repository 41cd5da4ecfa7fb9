// Package table converts run results into rows for table output.
package table

import (
	"slices"
	"strconv"
	"time"

	"github.com/agentstation/linksync"
	"github.com/agentstation/linksync/internal/cmd/emoji"
	"github.com/agentstation/linksync/pkg/links"
	"github.com/agentstation/linksync/pkg/writeback"
)

// Align represents column alignment in tables.
type Align int

const (
	// AlignDefault uses the default alignment (skip).
	AlignDefault Align = iota
	// AlignLeft aligns content to the left.
	AlignLeft
	// AlignCenter centers content.
	AlignCenter
	// AlignRight aligns content to the right.
	AlignRight
)

// Data represents table formatting data.
type Data struct {
	Headers         []string
	Rows            [][]string
	ColumnAlignment []Align // Optional: column alignment
}

// BatchToTableData lists batched candidates.
func BatchToTableData(batch []links.Record) Data {
	rows := make([][]string, 0, len(batch))
	for i, c := range batch {
		rows = append(rows, []string{strconv.Itoa(i + 1), c.ExternalID, c.LocalID})
	}
	return Data{
		Headers:         []string{"#", "Item", "Local ID"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignRight, AlignLeft, AlignLeft},
	}
}

// OutcomesToTableData lists write-back outcomes. Wide adds the stage and
// timing. The failure reason is shown when wide or when any outcome failed.
func OutcomesToTableData(outcomes []writeback.Outcome, wide bool) Data {
	reason := wide || slices.ContainsFunc(outcomes, writeback.Outcome.Failed)

	headers := []string{"", "Item", "Local ID", "Status", "Action"}
	if wide {
		headers = append(headers, "Stage", "Elapsed")
	}
	if reason {
		headers = append(headers, "Reason")
	}

	rows := make([][]string, 0, len(outcomes))
	for _, o := range outcomes {
		row := []string{
			statusSymbol(o),
			o.Candidate.ExternalID,
			o.Candidate.LocalID,
			string(o.Status),
			dash(o.Action),
		}
		if wide {
			row = append(row, string(o.Stage), o.Elapsed.Round(time.Millisecond).String())
		}
		if reason {
			row = append(row, dash(o.Reason))
		}
		rows = append(rows, row)
	}
	return Data{Headers: headers, Rows: rows}
}

// SkipsToTableData lists rows dropped during normalization.
func SkipsToTableData(skips []links.Skip) Data {
	rows := make([][]string, 0, len(skips))
	for _, s := range skips {
		rows = append(rows, []string{s.Source, strconv.Itoa(s.Index), s.Reason})
	}
	return Data{
		Headers:         []string{"Source", "Row", "Reason"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignRight, AlignLeft},
	}
}

// SummaryToTableData renders the run counters as a two-column table.
func SummaryToTableData(r *linksync.Report) Data {
	mode := "write"
	switch {
	case r.DryRun:
		mode = "dry-run"
	case !r.WritePhase:
		mode = "candidates only"
	}
	limit := "unlimited"
	if r.Limit > 0 {
		limit = strconv.Itoa(r.Limit)
	}

	rows := [][]string{
		{"Run", r.RunID},
		{"Mode", mode},
		{"Catalog pairs", strconv.Itoa(r.Stats.CatalogPairs)},
		{"Knowledge-base pairs", strconv.Itoa(r.Stats.KnowledgeBasePairs)},
		{"Already linked", strconv.Itoa(r.Stats.Matched)},
		{"Skipped rows", strconv.Itoa(r.Skipped())},
		{"Candidates", strconv.Itoa(r.Candidates)},
		{"Batched", strconv.Itoa(len(r.Batch)) + " (limit " + limit + ")"},
	}
	if r.WritePhase {
		rows = append(rows,
			[]string{"Written", strconv.Itoa(r.Written)},
			[]string{"Failed", strconv.Itoa(r.Failed)},
		)
	}
	rows = append(rows, []string{"Duration", r.Duration().Round(time.Millisecond).String()})

	return Data{
		Headers:         []string{"Property", "Value"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignRight},
	}
}

func statusSymbol(o writeback.Outcome) string {
	switch {
	case o.Failed():
		return emoji.Error
	case !o.Changed:
		return emoji.Unchanged
	default:
		return emoji.Success
	}
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
