// Package wikibase reads and writes knowledge-base items through the
// Wikibase Action API and models the small part of an item the write-back
// executor needs: string-valued claims grouped by property.
package wikibase

import "slices"

// RankNormal is the rank given to claims added by UpsertClaim.
const RankNormal = "normal"

// Claim is one statement on an item. Only string datavalues (external
// identifiers) carry a Value; other statements are kept untouched.
type Claim struct {
	// ID is the statement GUID. Empty for claims not yet saved.
	ID       string `json:"id,omitempty" yaml:"id,omitempty"`
	Property string `json:"property" yaml:"property"`
	Value    string `json:"value" yaml:"value"`
	Rank     string `json:"rank,omitempty" yaml:"rank,omitempty"`

	// qualifiers and references as read, sent back verbatim on save
	extra statementExtra
}

// Item is a knowledge-base item with its claims and the revision it was read at.
type Item struct {
	ID        string             `json:"id" yaml:"id"`
	LastRevID int64              `json:"lastrevid" yaml:"lastrevid"`
	Claims    map[string][]Claim `json:"claims" yaml:"claims"`

	pending []pendingClaim
}

type pendingClaim struct {
	property string
	index    int
}

// Change describes what UpsertClaim did to the item data.
type Change int

const (
	// Unchanged means a claim with the same value already existed.
	Unchanged Change = iota
	// Replaced means the first claim of the property got the new value.
	Replaced
	// Added means the property had no claim and one was appended.
	Added
)

// String implements fmt.Stringer.
func (c Change) String() string {
	switch c {
	case Replaced:
		return "replaced"
	case Added:
		return "added"
	default:
		return "unchanged"
	}
}

// Changed reports whether the item data was altered.
func (c Change) Changed() bool {
	return c != Unchanged
}

// NewItem returns an empty item.
func NewItem(id string) *Item {
	return &Item{ID: id, Claims: map[string][]Claim{}}
}

// UpsertClaim sets value on property and marks a changed claim for saving.
//
// An existing claim with the same value is left as is and nothing is marked,
// so saving the item afterwards is a null edit. Otherwise the
// first claim of the property has its value replaced, leaving any further
// claims alone. A property with no claims gets a new one. Applying the same
// upsert twice never leaves two claims with that value.
func (it *Item) UpsertClaim(property, value string) Change {
	if it.Claims == nil {
		it.Claims = map[string][]Claim{}
	}
	claims := it.Claims[property]

	if slices.ContainsFunc(claims, func(c Claim) bool { return c.Value == value }) {
		return Unchanged
	}

	if len(claims) > 0 {
		claims[0].Value = value
		it.mark(property, 0)
		return Replaced
	}

	it.Claims[property] = append(claims, Claim{Property: property, Value: value, Rank: RankNormal})
	it.mark(property, len(it.Claims[property])-1)
	return Added
}

func (it *Item) mark(property string, index int) {
	p := pendingClaim{property: property, index: index}
	if !slices.Contains(it.pending, p) {
		it.pending = append(it.pending, p)
	}
}

// Pending returns the claims changed by UpsertClaim since the item was read,
// in the order they were changed.
func (it *Item) Pending() []Claim {
	out := make([]Claim, 0, len(it.pending))
	for _, p := range it.pending {
		claims := it.Claims[p.property]
		if p.index < len(claims) {
			out = append(out, claims[p.index])
		}
	}
	return out
}

// ClearPending forgets touched claims, typically after a successful save.
func (it *Item) ClearPending() {
	it.pending = nil
}

// Values returns the string values of property in claim order.
func (it *Item) Values(property string) []string {
	claims := it.Claims[property]
	out := make([]string, 0, len(claims))
	for _, c := range claims {
		out = append(out, c.Value)
	}
	return out
}
