package links

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/agentstation/linksync/pkg/errors"
)

// Normalize converts rows into records using the columns named in fields.
// Rows missing either column, or whose value canonicalizes to empty, are
// dropped and reported as skips; the remaining rows keep their input order.
func Normalize(source string, rows []Row, fields FieldMap) ([]Record, []Skip) {
	records := make([]Record, 0, len(rows))
	var skips []Skip

	for i, row := range rows {
		rec, err := normalizeRow(source, i, row, fields)
		if err != nil {
			skips = append(skips, Skip{Source: source, Index: i, Reason: err.Error()})
			continue
		}
		records = append(records, rec)
	}
	return records, skips
}

func normalizeRow(source string, index int, row Row, fields FieldMap) (Record, error) {
	external, err := field(source, index, row, fields.External)
	if err != nil {
		return Record{}, err
	}
	local, err := field(source, index, row, fields.Local)
	if err != nil {
		return Record{}, err
	}

	rec := Record{
		ExternalID: CanonicalExternalID(external),
		LocalID:    CanonicalLocalID(local),
	}
	if rec.ExternalID == "" {
		return Record{}, &errors.MalformedRecordError{Source: source, Index: index, Field: fields.External, Reason: "is empty"}
	}
	if rec.LocalID == "" {
		return Record{}, &errors.MalformedRecordError{Source: source, Index: index, Field: fields.Local, Reason: "is empty"}
	}
	return rec, nil
}

func field(source string, index int, row Row, name string) (string, error) {
	raw, ok := row[name]
	if !ok || raw == nil {
		return "", &errors.MalformedRecordError{Source: source, Index: index, Field: name, Reason: "is missing"}
	}
	value, ok := scalar(raw)
	if !ok {
		return "", &errors.MalformedRecordError{Source: source, Index: index, Field: name, Reason: fmt.Sprintf("has unsupported type %T", raw)}
	}
	return value, nil
}

// scalar unwraps {"value": x} envelopes and renders scalars as strings.
func scalar(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case fmt.Stringer:
		return t.String(), true
	case map[string]any:
		inner, ok := t["value"]
		if !ok {
			return "", false
		}
		return scalar(inner)
	case Row:
		return scalar(map[string]any(t))
	default:
		return "", false
	}
}

// CanonicalExternalID reduces an entity URI to its bare identifier and
// upper-cases it, so "http://www.wikidata.org/entity/q42" becomes "Q42".
func CanonicalExternalID(id string) string {
	id = strings.TrimSpace(id)
	id = strings.TrimRight(id, "/")
	if i := strings.LastIndex(id, "/"); i >= 0 {
		id = id[i+1:]
	}
	return strings.ToUpper(strings.TrimSpace(id))
}

// CanonicalLocalID trims the identifier and lower-cases its entity-type
// prefix, so " Works/10 " becomes "works/10".
func CanonicalLocalID(id string) string {
	id = strings.TrimSpace(id)
	prefix, rest, found := strings.Cut(id, "/")
	if !found {
		return id
	}
	rest = strings.TrimSpace(rest)
	if rest == "" {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(prefix)) + "/" + rest
}
