package sparql

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/linksync/pkg/constants"
	"github.com/agentstation/linksync/pkg/errors"
	"github.com/agentstation/linksync/pkg/links"
)

const sampleResults = `{
  "head": {"vars": ["acmi_id", "wikidata_id"]},
  "results": {"bindings": [
    {"acmi_id": {"type": "literal", "value": "works/10"},
     "wikidata_id": {"type": "uri", "value": "http://www.wikidata.org/entity/Q42"}},
    {"acmi_id": {"type": "literal", "value": "creators/3"},
     "wikidata_id": {"type": "uri", "value": "http://www.wikidata.org/entity/Q9"}}
  ]}
}`

func TestQuery(t *testing.T) {
	var gotQuery, gotFormat, gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("query")
		gotFormat = r.URL.Query().Get("format")
		gotUA = r.UserAgent()
		w.Header().Set("Content-Type", "application/sparql-results+json")
		_, _ = w.Write([]byte(sampleResults))
	}))
	defer srv.Close()

	c, err := NewClient(Config{Endpoint: srv.URL, UserAgent: "linksync-test/1.0"})
	require.NoError(t, err)

	rows, err := c.Query(context.Background(), constants.DefaultLinksQuery)
	require.NoError(t, err)

	assert.Equal(t, constants.DefaultLinksQuery, gotQuery)
	assert.Equal(t, "json", gotFormat)
	assert.Equal(t, "linksync-test/1.0", gotUA)
	assert.Equal(t, []links.Row{
		{"acmi_id": "works/10", "wikidata_id": "http://www.wikidata.org/entity/Q42"},
		{"acmi_id": "creators/3", "wikidata_id": "http://www.wikidata.org/entity/Q9"},
	}, rows)

	records, skips := links.Normalize(constants.SourceKnowledgeBase, rows, links.FieldMap{
		External: constants.ColumnExternalID,
		Local:    constants.ColumnLocalID,
	})
	assert.Empty(t, skips)
	assert.Equal(t, []links.Record{
		{ExternalID: "Q42", LocalID: "works/10"},
		{ExternalID: "Q9", LocalID: "creators/3"},
	}, records)
}

func TestQueryEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"head":{"vars":[]},"results":{"bindings":[]}}`))
	}))
	defer srv.Close()

	c, err := NewClient(Config{Endpoint: srv.URL})
	require.NoError(t, err)

	rows, err := c.Query(context.Background(), "select * where {}")
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestQueryFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "query timeout", http.StatusInternalServerError)
			},
		},
		{
			name: "throttled",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusTooManyRequests)
			},
		},
		{
			name: "malformed json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"results": [`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			c, err := NewClient(Config{Endpoint: srv.URL})
			require.NoError(t, err)

			rows, err := c.Query(context.Background(), "select * where {}")
			assert.Nil(t, rows)
			require.Error(t, err)
			assert.True(t, errors.IsSourceUnavailable(err))

			var srcErr *errors.SourceUnavailableError
			require.True(t, errors.As(err, &srcErr))
			assert.Equal(t, constants.SourceKnowledgeBase, srcErr.Source)
		})
	}
}

func TestQueryUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	endpoint := srv.URL
	srv.Close()

	c, err := NewClient(Config{Endpoint: endpoint})
	require.NoError(t, err)

	_, err = c.Query(context.Background(), "select * where {}")
	assert.True(t, errors.IsSourceUnavailable(err))
}

func TestNewClientInvalidEndpoint(t *testing.T) {
	_, err := NewClient(Config{Endpoint: "::not a url"})
	assert.Error(t, err)

	c, err := NewClient(Config{})
	require.NoError(t, err)
	assert.Equal(t, constants.DefaultSPARQLEndpoint, c.Endpoint())
}

func TestQueryRequiresText(t *testing.T) {
	c, err := NewClient(Config{})
	require.NoError(t, err)
	_, err = c.Query(context.Background(), "")
	assert.True(t, errors.IsValidationError(err))
}

func TestSource(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("query")
		_, _ = w.Write([]byte(sampleResults))
	}))
	defer srv.Close()

	c, err := NewClient(Config{Endpoint: srv.URL})
	require.NoError(t, err)

	rows, err := NewSource(c, "").Rows(context.Background())
	require.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.Equal(t, constants.DefaultLinksQuery, gotQuery)
}
