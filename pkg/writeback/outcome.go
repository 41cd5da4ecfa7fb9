package writeback

import (
	"time"

	"github.com/agentstation/linksync/pkg/errors"
	"github.com/agentstation/linksync/pkg/links"
)

// Status is the terminal state of a candidate.
type Status string

const (
	StatusWritten Status = "written"
	StatusFailed  Status = "failed"
)

// Stage is where a candidate was when it terminated.
type Stage string

const (
	StageWaiting    Stage = "waiting"
	StageFetching   Stage = "fetching"
	StageClaiming   Stage = "claiming"
	StagePersisting Stage = "persisting"
	StageDone       Stage = "done"
)

// Outcome is the result of writing one candidate back.
type Outcome struct {
	Candidate links.Record `json:"candidate" yaml:"candidate"`
	Status    Status       `json:"status" yaml:"status"`
	Stage     Stage        `json:"stage" yaml:"stage"`
	// Action is what the upsert did: added, replaced or unchanged.
	Action string `json:"action,omitempty" yaml:"action,omitempty"`
	// Changed is false for an idempotent no-op.
	Changed   bool          `json:"changed" yaml:"changed"`
	Reason    string        `json:"reason,omitempty" yaml:"reason,omitempty"`
	Elapsed   time.Duration `json:"elapsed" yaml:"elapsed"`
	Timestamp time.Time     `json:"timestamp" yaml:"timestamp"`

	Err error `json:"-" yaml:"-"`
}

// Failed reports whether the candidate was not written.
func (o Outcome) Failed() bool {
	return o.Status == StatusFailed
}

// Count returns how many outcomes were written and failed.
func Count(outcomes []Outcome) (written, failed int) {
	for _, o := range outcomes {
		if o.Failed() {
			failed++
		} else {
			written++
		}
	}
	return written, failed
}

// Errors joins the errors of every failed outcome, or returns nil.
func Errors(outcomes []Outcome) error {
	var errs []error
	for _, o := range outcomes {
		if o.Failed() && o.Err != nil {
			errs = append(errs, o.Err)
		}
	}
	return errors.Join(errs...)
}
