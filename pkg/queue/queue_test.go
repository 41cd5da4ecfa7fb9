package queue_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agentstation/linksync/pkg/links"
	"github.com/agentstation/linksync/pkg/queue"
)

func records(n int) []links.Record {
	out := make([]links.Record, n)
	for i := range out {
		out[i] = links.Record{ExternalID: fmt.Sprintf("Q%d", i+1), LocalID: fmt.Sprintf("works/%d", i+1)}
	}
	return out
}

func TestEnqueueDeduplicatesStable(t *testing.T) {
	in := []links.Record{
		{ExternalID: "Q9", LocalID: "creators/3"},
		{ExternalID: "Q1", LocalID: "works/1"},
		{ExternalID: "Q9", LocalID: "creators/3"},
	}

	b := queue.Enqueue(in, 10)

	assert.Equal(t, []links.Record{
		{ExternalID: "Q9", LocalID: "creators/3"},
		{ExternalID: "Q1", LocalID: "works/1"},
	}, b.Items())
	assert.False(t, b.Truncated())
}

func TestEnqueueCap(t *testing.T) {
	tests := []struct {
		name    string
		n       int
		limit   int
		want    int
		dropped int
	}{
		{name: "under cap", n: 3, limit: 10, want: 3},
		{name: "at cap", n: 10, limit: 10, want: 10},
		{name: "over cap", n: 25, limit: 10, want: 10, dropped: 15},
		{name: "cap of one", n: 5, limit: 1, want: 1, dropped: 4},
		{name: "unlimited", n: 25, limit: queue.Unlimited, want: 25},
		{name: "negative treated as unlimited", n: 4, limit: -3, want: 4},
		{name: "empty", n: 0, limit: 10, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := records(tt.n)
			b := queue.Enqueue(in, tt.limit)

			assert.Equal(t, tt.want, b.Len())
			assert.Equal(t, tt.dropped, b.Dropped())
			assert.Equal(t, in[:tt.want], b.Items(), "must keep the earliest candidates")
		})
	}
}

func TestEnqueueCapCountsDistinct(t *testing.T) {
	in := []links.Record{
		{ExternalID: "Q1", LocalID: "works/1"},
		{ExternalID: "Q1", LocalID: "works/1"},
		{ExternalID: "Q2", LocalID: "works/2"},
		{ExternalID: "Q3", LocalID: "works/3"},
		{ExternalID: "Q3", LocalID: "works/3"},
	}

	b := queue.Enqueue(in, 2)

	assert.Equal(t, []links.Record{
		{ExternalID: "Q1", LocalID: "works/1"},
		{ExternalID: "Q2", LocalID: "works/2"},
	}, b.Items())
	assert.Equal(t, 1, b.Dropped())
}

func TestItemsReturnsCopy(t *testing.T) {
	b := queue.Enqueue(records(2), 10)
	items := b.Items()
	items[0].ExternalID = "mutated"

	assert.Equal(t, "Q1", b.Items()[0].ExternalID)
}
