// Package links defines the link records compared by the reconciler and the
// normalizer that turns heterogeneous extracted rows into them.
//
// Records are compared on Key, a struct with named fields. Two sources that
// assemble their columns in different orders still produce equal keys.
package links

import "fmt"

// Record is one cross-reference between a knowledge-base item and a catalog entry.
type Record struct {
	// ExternalID is the knowledge-base item identifier, e.g. "Q42".
	ExternalID string `json:"external_id" yaml:"external_id"`
	// LocalID is the catalog identifier prefixed by entity type, e.g. "works/10".
	LocalID string `json:"local_id" yaml:"local_id"`
}

// Key is the comparison key of a Record.
type Key struct {
	ExternalID string
	LocalID    string
}

// Key returns the comparison key for the record.
func (r Record) Key() Key {
	return Key{ExternalID: r.ExternalID, LocalID: r.LocalID}
}

// String implements fmt.Stringer.
func (r Record) String() string {
	return fmt.Sprintf("%s=%s", r.ExternalID, r.LocalID)
}

// Row is a raw extracted row. Values may be strings, numbers or
// {"value": ...} envelopes, and rows may carry columns that are ignored.
type Row map[string]any

// FieldMap names the row columns holding each side of a link.
type FieldMap struct {
	External string
	Local    string
}

// Skip records a row dropped during normalization.
type Skip struct {
	Source string `json:"source" yaml:"source"`
	Index  int    `json:"index" yaml:"index"`
	Reason string `json:"reason" yaml:"reason"`
}
