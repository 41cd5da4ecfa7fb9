// Package catalog reads the catalog side of the reconciliation: a checkout
// of per-work JSON documents, each listing the knowledge-base identifiers of
// the work and its primary creators.
package catalog

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/agentstation/linksync/pkg/constants"
	"github.com/agentstation/linksync/pkg/errors"
	"github.com/agentstation/linksync/pkg/links"
	"github.com/agentstation/linksync/pkg/logging"
)

// referenceSource is the external_references source name for knowledge-base links.
const referenceSource = "Wikidata"

// Entity-type prefixes of local identifiers.
const (
	PrefixWorks    = "works"
	PrefixCreators = "creators"
)

// Scanner extracts link rows from a directory of work documents.
type Scanner struct {
	// Dir holds one <id>.json document per work.
	Dir string
}

// NewScanner creates a scanner for dir, defaulting to the works directory
// of the standard checkout.
func NewScanner(dir string) *Scanner {
	if dir == "" {
		dir = constants.DefaultWorksDir
	}
	return &Scanner{Dir: dir}
}

// Rows reads every *.json document in lexical filename order and returns one
// row per knowledge-base reference. Rows carry the columns
// constants.ColumnExternalID and constants.ColumnLocalID; a reference whose
// local side cannot be built is emitted without it and dropped later by the
// normalizer. An unreadable directory or an invalid document fails the scan.
func (s *Scanner) Rows(ctx context.Context) ([]links.Row, error) {
	files, err := s.files()
	if err != nil {
		return nil, errors.NewSourceUnavailableError(constants.SourceCatalog, s.Dir, err)
	}

	rows := make([]links.Row, 0, len(files))
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, errors.NewSourceUnavailableError(constants.SourceCatalog, s.Dir, err)
		}

		data, err := os.ReadFile(path) //nolint:gosec // paths come from listing Dir
		if err != nil {
			return nil, errors.NewSourceUnavailableError(constants.SourceCatalog, s.Dir, errors.WrapIO("read", path, err))
		}
		if !gjson.ValidBytes(data) {
			return nil, errors.NewSourceUnavailableError(constants.SourceCatalog, s.Dir,
				&errors.ParseError{Format: "json", File: path, Message: "invalid document"})
		}
		rows = append(rows, Extract(gjson.ParseBytes(data))...)
	}

	logging.FromContext(ctx).Debug().
		Str("dir", s.Dir).
		Int("documents", len(files)).
		Int("rows", len(rows)).
		Msg("Scanned catalog documents")
	return rows, nil
}

func (s *Scanner) files() ([]string, error) {
	info, err := os.Stat(s.Dir)
	if err != nil {
		return nil, errors.WrapIO("stat", s.Dir, err)
	}
	if !info.IsDir() {
		return nil, errors.NewValidationError("dir", s.Dir, "is not a directory")
	}

	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return nil, errors.WrapIO("list", s.Dir, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		files = append(files, filepath.Join(s.Dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// Extract returns the link rows of one work document: one per knowledge-base
// external reference of the work and one per primary creator with a
// knowledge-base identifier.
func Extract(doc gjson.Result) []links.Row {
	var rows []links.Row
	id := doc.Get("id")

	if refs := doc.Get("external_references"); refs.IsArray() {
		refs.ForEach(func(_, ref gjson.Result) bool {
			if ref.Get("source.name").String() != referenceSource {
				return true
			}
			row := links.Row{constants.ColumnExternalID: ref.Get("source_identifier").Value()}
			if local := prefixed(PrefixWorks, id); local != "" {
				row[constants.ColumnLocalID] = local
			}
			rows = append(rows, row)
			return true
		})
	}

	if creators := doc.Get("creators_primary"); creators.IsArray() {
		creators.ForEach(func(_, c gjson.Result) bool {
			external := c.Get("creator_wikidata_id")
			if external.String() == "" {
				return true
			}
			row := links.Row{constants.ColumnExternalID: external.Value()}
			if local := prefixed(PrefixCreators, c.Get("creator_id")); local != "" {
				row[constants.ColumnLocalID] = local
			}
			rows = append(rows, row)
			return true
		})
	}
	return rows
}

func prefixed(prefix string, id gjson.Result) string {
	if !id.Exists() || id.Type == gjson.Null {
		return ""
	}
	s := strings.TrimSpace(id.String())
	if s == "" {
		return ""
	}
	return prefix + "/" + s
}
