// Package reconcile computes write-back candidates: catalog links that have
// no matching link in the knowledge base.
//
// The join is a left-anti-join on links.Key. Both inputs are expected to be
// normalized with the same rules; no fuzzy matching is attempted.
package reconcile

import "github.com/agentstation/linksync/pkg/links"

// Reconcile returns the distinct catalog records whose key is absent from the
// knowledge base, in catalog input order. A record repeated in catalog is
// returned once, at its first position.
func Reconcile(catalog, knowledgeBase []links.Record) []links.Record {
	known := keySet(knowledgeBase)
	seen := make(map[links.Key]struct{}, len(catalog))
	candidates := make([]links.Record, 0)

	for _, rec := range catalog {
		key := rec.Key()
		if _, ok := known[key]; ok {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		candidates = append(candidates, rec)
	}
	return candidates
}

// Stats summarizes the overlap between the two sides.
type Stats struct {
	CatalogPairs       int `json:"catalog_pairs" yaml:"catalog_pairs"`
	KnowledgeBasePairs int `json:"knowledge_base_pairs" yaml:"knowledge_base_pairs"`
	Matched            int `json:"matched" yaml:"matched"`
	Missing            int `json:"missing" yaml:"missing"`
}

// Compare counts distinct keys on each side and how many catalog keys are
// already present in the knowledge base.
func Compare(catalog, knowledgeBase []links.Record) Stats {
	cat := keySet(catalog)
	kb := keySet(knowledgeBase)

	stats := Stats{CatalogPairs: len(cat), KnowledgeBasePairs: len(kb)}
	for key := range cat {
		if _, ok := kb[key]; ok {
			stats.Matched++
		}
	}
	stats.Missing = stats.CatalogPairs - stats.Matched
	return stats
}

func keySet(records []links.Record) map[links.Key]struct{} {
	set := make(map[links.Key]struct{}, len(records))
	for _, rec := range records {
		set[rec.Key()] = struct{}{}
	}
	return set
}
