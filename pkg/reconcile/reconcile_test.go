package reconcile_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agentstation/linksync/pkg/links"
	"github.com/agentstation/linksync/pkg/reconcile"
)

func rec(ext, local string) links.Record {
	return links.Record{ExternalID: ext, LocalID: local}
}

func TestReconcile(t *testing.T) {
	tests := []struct {
		name    string
		catalog []links.Record
		kb      []links.Record
		want    []links.Record
	}{
		{
			name:    "missing work is a candidate",
			catalog: []links.Record{rec("Q1", "works/10"), rec("Q2", "works/11")},
			kb:      []links.Record{rec("Q1", "works/10")},
			want:    []links.Record{rec("Q2", "works/11")},
		},
		{
			name:    "duplicate catalog pair yields one candidate",
			catalog: []links.Record{rec("Q9", "creators/3"), rec("Q9", "creators/3")},
			kb:      nil,
			want:    []links.Record{rec("Q9", "creators/3")},
		},
		{
			name:    "empty catalog",
			catalog: nil,
			kb:      []links.Record{rec("Q1", "works/1")},
			want:    []links.Record{},
		},
		{
			name:    "empty knowledge base keeps catalog order",
			catalog: []links.Record{rec("Q3", "works/3"), rec("Q1", "works/1"), rec("Q2", "works/2")},
			kb:      []links.Record{},
			want:    []links.Record{rec("Q3", "works/3"), rec("Q1", "works/1"), rec("Q2", "works/2")},
		},
		{
			name:    "same item with a different local id is still a candidate",
			catalog: []links.Record{rec("Q5", "works/50")},
			kb:      []links.Record{rec("Q5", "works/51")},
			want:    []links.Record{rec("Q5", "works/50")},
		},
		{
			name:    "knowledge-base only rows are ignored",
			catalog: []links.Record{rec("Q1", "works/1")},
			kb:      []links.Record{rec("Q1", "works/1"), rec("Q77", "works/77")},
			want:    []links.Record{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, reconcile.Reconcile(tt.catalog, tt.kb))
		})
	}
}

func TestReconcileIsPure(t *testing.T) {
	catalog := []links.Record{rec("Q1", "works/1"), rec("Q2", "works/2"), rec("Q2", "works/2")}
	kb := []links.Record{rec("Q1", "works/1")}

	first := reconcile.Reconcile(catalog, kb)
	second := reconcile.Reconcile(catalog, kb)

	assert.Equal(t, first, second)
	assert.Len(t, catalog, 3, "input must not be modified")
}

// TestReconcileSetDifference checks the result against a brute-force
// difference for random inputs in random order.
func TestReconcileSetDifference(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	pool := make([]links.Record, 0, 20)
	for i := 0; i < 20; i++ {
		pool = append(pool, rec("Q"+string(rune('A'+i)), "works/"+string(rune('a'+i%5))))
	}

	for iter := 0; iter < 200; iter++ {
		catalog := pick(r, pool, r.Intn(30))
		kb := pick(r, pool, r.Intn(30))

		got := reconcile.Reconcile(catalog, kb)

		inKB := map[links.Key]bool{}
		for _, x := range kb {
			inKB[x.Key()] = true
		}
		want := map[links.Key]bool{}
		for _, x := range catalog {
			if !inKB[x.Key()] {
				want[x.Key()] = true
			}
		}

		gotSet := map[links.Key]bool{}
		for _, x := range got {
			assert.False(t, gotSet[x.Key()], "duplicate candidate %v", x)
			gotSet[x.Key()] = true
		}
		assert.Equal(t, want, gotSet)
	}
}

func pick(r *rand.Rand, pool []links.Record, n int) []links.Record {
	out := make([]links.Record, n)
	for i := range out {
		out[i] = pool[r.Intn(len(pool))]
	}
	return out
}

func TestCompare(t *testing.T) {
	catalog := []links.Record{rec("Q1", "works/1"), rec("Q2", "works/2"), rec("Q2", "works/2")}
	kb := []links.Record{rec("Q1", "works/1"), rec("Q3", "works/3")}

	assert.Equal(t, reconcile.Stats{
		CatalogPairs:       2,
		KnowledgeBasePairs: 2,
		Matched:            1,
		Missing:            1,
	}, reconcile.Compare(catalog, kb))
}
