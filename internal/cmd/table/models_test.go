package table

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/agentstation/linksync/pkg/links"
	"github.com/agentstation/linksync/pkg/writeback"
)

func TestOutcomesToTableData(t *testing.T) {
	written := writeback.Outcome{
		Candidate: links.Record{ExternalID: "Q1", LocalID: "works/1"},
		Status:    writeback.StatusWritten,
		Stage:     writeback.StageDone,
		Action:    "added",
		Elapsed:   1500 * time.Millisecond,
	}
	failed := writeback.Outcome{
		Candidate: links.Record{ExternalID: "Q2", LocalID: "works/2"},
		Status:    writeback.StatusFailed,
		Stage:     writeback.StageFetching,
		Reason:    "item with ID Q2 not found",
	}

	tests := []struct {
		name     string
		outcomes []writeback.Outcome
		wide     bool
		headers  []string
		last     []string
	}{
		{
			name:     "all written",
			outcomes: []writeback.Outcome{written},
			headers:  []string{"", "Item", "Local ID", "Status", "Action"},
			last:     []string{"works/1", "written", "added"},
		},
		{
			name:     "failure adds reason",
			outcomes: []writeback.Outcome{written, failed},
			headers:  []string{"", "Item", "Local ID", "Status", "Action", "Reason"},
			last:     []string{"works/2", "failed", "-", "item with ID Q2 not found"},
		},
		{
			name:     "wide",
			outcomes: []writeback.Outcome{written, failed},
			wide:     true,
			headers:  []string{"", "Item", "Local ID", "Status", "Action", "Stage", "Elapsed", "Reason"},
			last:     []string{"works/2", "failed", "-", "fetching", "0s", "item with ID Q2 not found"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := OutcomesToTableData(tt.outcomes, tt.wide)
			assert.Equal(t, tt.headers, data.Headers)
			assert.Len(t, data.Rows, len(tt.outcomes))
			for _, row := range data.Rows {
				assert.Len(t, row, len(tt.headers))
			}
			last := data.Rows[len(data.Rows)-1]
			assert.Equal(t, tt.last, last[2:])
		})
	}
}
