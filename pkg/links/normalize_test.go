package links_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/linksync/pkg/links"
)

var fields = links.FieldMap{External: "wikidata_id", Local: "acmi_id"}

func TestNormalizeNamedFields(t *testing.T) {
	// Column order and extra columns must not matter.
	rows := []links.Row{
		{"acmi_id": "works/10", "wikidata_id": "Q1"},
		{"wikidata_id": "Q2", "extra": 99, "acmi_id": "works/11"},
	}

	records, skips := links.Normalize("catalog", rows, fields)

	assert.Empty(t, skips)
	assert.Equal(t, []links.Record{
		{ExternalID: "Q1", LocalID: "works/10"},
		{ExternalID: "Q2", LocalID: "works/11"},
	}, records)
}

func TestNormalizeCanonicalizesBothSides(t *testing.T) {
	catalog, _ := links.Normalize("catalog", []links.Row{
		{"wikidata_id": "q42", "acmi_id": " Works/7 "},
	}, fields)
	kb, _ := links.Normalize("knowledge-base", []links.Row{
		{
			"wikidata_id": map[string]any{"type": "uri", "value": "http://www.wikidata.org/entity/Q42"},
			"acmi_id":     map[string]any{"type": "literal", "value": "works/7"},
		},
	}, fields)

	require.Len(t, catalog, 1)
	require.Len(t, kb, 1)
	assert.Equal(t, catalog[0].Key(), kb[0].Key())
}

func TestNormalizeSkipsMalformedRows(t *testing.T) {
	rows := []links.Row{
		{"wikidata_id": "Q1"},
		{"acmi_id": "works/2"},
		{"wikidata_id": "  ", "acmi_id": "works/3"},
		{"wikidata_id": "Q4", "acmi_id": "works/"},
		{"wikidata_id": []string{"Q5"}, "acmi_id": "works/5"},
		{"wikidata_id": "Q6", "acmi_id": "works/6"},
	}

	records, skips := links.Normalize("catalog", rows, fields)

	assert.Equal(t, []links.Record{{ExternalID: "Q6", LocalID: "works/6"}}, records)
	require.Len(t, skips, 5)
	assert.Equal(t, 0, skips[0].Index)
	assert.Contains(t, skips[0].Reason, "acmi_id is missing")
	assert.Contains(t, skips[1].Reason, "wikidata_id is missing")
	assert.Contains(t, skips[2].Reason, "wikidata_id is empty")
	assert.Contains(t, skips[3].Reason, "acmi_id is empty")
	assert.Contains(t, skips[4].Reason, "unsupported type")
	for _, s := range skips {
		assert.Equal(t, "catalog", s.Source)
	}
}

func TestNormalizeNumericValues(t *testing.T) {
	records, skips := links.Normalize("catalog", []links.Row{
		{"wikidata_id": "Q3", "acmi_id": map[string]any{"value": "creators/12"}},
		{"wikidata_id": "Q8", "acmi_id": float64(12)},
	}, fields)

	assert.Empty(t, skips)
	assert.Equal(t, "creators/12", records[0].LocalID)
	assert.Equal(t, "12", records[1].LocalID)
}

func TestCanonicalExternalID(t *testing.T) {
	tests := map[string]string{
		"Q42":                                "Q42",
		"q42":                                "Q42",
		" Q42 ":                              "Q42",
		"http://www.wikidata.org/entity/Q42": "Q42",
		"https://www.wikidata.org/wiki/Q42/": "Q42",
		"":                                   "",
	}
	for in, want := range tests {
		assert.Equal(t, want, links.CanonicalExternalID(in), "input %q", in)
	}
}

func TestCanonicalLocalID(t *testing.T) {
	tests := map[string]string{
		"works/10":       "works/10",
		" Works/10 ":     "works/10",
		"CREATORS/ 3":    "creators/3",
		"works/":         "",
		"no-prefix":      "no-prefix",
		"works/Mixed-Id": "works/Mixed-Id",
	}
	for in, want := range tests {
		assert.Equal(t, want, links.CanonicalLocalID(in), "input %q", in)
	}
}
