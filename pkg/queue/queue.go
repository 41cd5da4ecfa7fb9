// Package queue turns reconciliation candidates into the bounded batch
// written during one run.
package queue

import "github.com/agentstation/linksync/pkg/links"

// Unlimited disables the batch cap.
const Unlimited = 0

// Batch is the ordered, deduplicated set of candidates for one run.
type Batch struct {
	items   []links.Record
	dropped int
	limit   int
}

// Enqueue deduplicates candidates by key, keeping first occurrences, and
// keeps at most limit of them in input order. A limit of Unlimited (or any
// non-positive value) keeps every distinct candidate.
func Enqueue(candidates []links.Record, limit int) *Batch {
	if limit < 0 {
		limit = Unlimited
	}

	seen := make(map[links.Key]struct{}, len(candidates))
	b := &Batch{items: make([]links.Record, 0), limit: limit}

	for _, c := range candidates {
		key := c.Key()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		if limit != Unlimited && len(b.items) >= limit {
			b.dropped++
			continue
		}
		b.items = append(b.items, c)
	}
	return b
}

// Items returns a copy of the batched candidates in dispatch order.
func (b *Batch) Items() []links.Record {
	out := make([]links.Record, len(b.items))
	copy(out, b.items)
	return out
}

// Len returns the number of batched candidates.
func (b *Batch) Len() int {
	return len(b.items)
}

// Dropped returns the number of distinct candidates left out by the cap.
func (b *Batch) Dropped() int {
	return b.dropped
}

// Truncated reports whether the cap left candidates out.
func (b *Batch) Truncated() bool {
	return b.dropped > 0
}

// Limit returns the cap the batch was built with.
func (b *Batch) Limit() int {
	return b.limit
}
