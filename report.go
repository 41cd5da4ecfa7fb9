package linksync

import (
	"time"

	"github.com/agentstation/linksync/pkg/errors"
	"github.com/agentstation/linksync/pkg/links"
	"github.com/agentstation/linksync/pkg/reconcile"
	"github.com/agentstation/linksync/pkg/writeback"
)

// Report describes one run.
type Report struct {
	RunID      string    `json:"run_id" yaml:"run_id"`
	StartedAt  time.Time `json:"started_at" yaml:"started_at"`
	FinishedAt time.Time `json:"finished_at" yaml:"finished_at"`
	DryRun     bool      `json:"dry_run" yaml:"dry_run"`
	// WritePhase is true when candidates were dispatched to the remote.
	WritePhase bool `json:"write_phase" yaml:"write_phase"`

	Stats      reconcile.Stats `json:"stats" yaml:"stats"`
	Skips      []links.Skip    `json:"skips,omitempty" yaml:"skips,omitempty"`
	Candidates int             `json:"candidates" yaml:"candidates"`

	Batch   []links.Record `json:"batch" yaml:"batch"`
	Limit   int            `json:"limit" yaml:"limit"`
	Dropped int            `json:"dropped" yaml:"dropped"`

	Outcomes []writeback.Outcome `json:"outcomes,omitempty" yaml:"outcomes,omitempty"`
	Written  int                 `json:"written" yaml:"written"`
	Failed   int                 `json:"failed" yaml:"failed"`

	// WriteError explains why a run with candidates did not write, e.g. a
	// rejected login.
	WriteError string `json:"write_error,omitempty" yaml:"write_error,omitempty"`
	writeErr   error
}

// Duration returns how long the run took.
func (r *Report) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Skipped returns the number of rows dropped during normalization.
func (r *Report) Skipped() int {
	return len(r.Skips)
}

// Err joins the reason the write phase could not start and the errors of
// every failed write-back, or returns nil.
func (r *Report) Err() error {
	return errors.Join(r.writeErr, writeback.Errors(r.Outcomes))
}

// WriteErr returns why the write phase could not start, or nil.
func (r *Report) WriteErr() error {
	return r.writeErr
}
