// Package constants provides shared constants used throughout the linksync codebase.
// This includes remote endpoints, the write-back property and summary, throttle
// and batch defaults, timeouts and file permissions.
package constants

import "time"

// Remote endpoint defaults
const (
	// DefaultSPARQLEndpoint is the knowledge-base query service
	DefaultSPARQLEndpoint = "https://query.wikidata.org/sparql"

	// DefaultWikibaseAPI is the Action API used for item reads and writes
	DefaultWikibaseAPI = "https://www.wikidata.org/w/api.php"

	// DefaultUserAgent identifies the bot to the remote services
	DefaultUserAgent = "ACMIsyncbot/1.0 (https://www.wikidata.org/wiki/User:Pxxlhxslxn)"

	// DefaultCatalogRepoURL is the git repository holding the catalog documents
	DefaultCatalogRepoURL = "https://github.com/ACMILabs/acmi-api.git"

	// DefaultCatalogCheckout is where the catalog repository is cloned to
	DefaultCatalogCheckout = "acmi-api"

	// DefaultWorksDir is the works document directory relative to the working directory
	DefaultWorksDir = "acmi-api/app/json/works"

	// DefaultCredentialsFile is the bot login file looked up in the working directory
	DefaultCredentialsFile = "bot_login.json"
)

// Write-back defaults
const (
	// CatalogProperty is the knowledge-base property holding the catalog identifier
	CatalogProperty = "P7003"

	// WriteSummary is the edit summary attached to every write-back
	WriteSummary = "added ACMI public identifier."

	// DefaultWriteInterval is the minimum spacing between two write dispatches
	DefaultWriteInterval = 4 * time.Second

	// DefaultBatchLimit caps the number of write-backs per run while the bot is validated
	DefaultBatchLimit = 10
)

// DefaultLinksQuery selects every item carrying a catalog identifier.
const DefaultLinksQuery = `
  select ?acmi_id ?wikidata_id where
   {?wikidata_id wdt:P7003 ?acmi_id;
    service wikibase:label { bd:serviceParam wikibase:language "en" }
    }`

// Source and column names
const (
	// SourceCatalog names the catalog side in logs and errors
	SourceCatalog = "catalog"

	// SourceKnowledgeBase names the knowledge-base side in logs and errors
	SourceKnowledgeBase = "knowledge-base"

	// ColumnExternalID is the row column carrying the knowledge-base identifier
	ColumnExternalID = "wikidata_id"

	// ColumnLocalID is the row column carrying the prefixed catalog identifier
	ColumnLocalID = "acmi_id"
)

// Timeout constants define various timeout durations used in the application
const (
	// DefaultHTTPTimeout is the standard timeout for HTTP requests to remote APIs
	DefaultHTTPTimeout = 30 * time.Second

	// QueryTimeout bounds a single SPARQL query; the endpoint can be slow
	QueryTimeout = 120 * time.Second

	// ShutdownTimeout is how long the CLI waits for cleanup after an error
	ShutdownTimeout = 5 * time.Second
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)
