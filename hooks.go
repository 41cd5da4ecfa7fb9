package linksync

import (
	"sync"

	"github.com/agentstation/linksync/pkg/writeback"
)

// Hook function types for run events
type (
	// CandidatesHook is called once per run with the batch about to be written
	CandidatesHook func(report *Report)

	// OutcomeHook is called when a candidate reaches its terminal state
	OutcomeHook func(outcome writeback.Outcome)
)

// hooks manages run callbacks
type hooks struct {
	mu           sync.RWMutex
	onCandidates []CandidatesHook
	onOutcome    []OutcomeHook
}

func newHooks() *hooks {
	return &hooks{}
}

// OnCandidates registers a callback run after reconciliation, before any write
func (s *Syncer) OnCandidates(fn CandidatesHook) {
	s.hooks.mu.Lock()
	defer s.hooks.mu.Unlock()
	s.hooks.onCandidates = append(s.hooks.onCandidates, fn)
}

// OnOutcome registers a callback for every write-back outcome
func (s *Syncer) OnOutcome(fn OutcomeHook) {
	s.hooks.mu.Lock()
	defer s.hooks.mu.Unlock()
	s.hooks.onOutcome = append(s.hooks.onOutcome, fn)
}

func (h *hooks) candidates(r *Report) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, fn := range h.onCandidates {
		fn(r)
	}
}

func (h *hooks) outcome(o writeback.Outcome) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, fn := range h.onOutcome {
		fn(o)
	}
}
