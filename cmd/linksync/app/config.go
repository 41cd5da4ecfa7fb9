package app

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/linksync/internal/appcontext"
	"github.com/agentstation/linksync/internal/cmd/globals"
	"github.com/agentstation/linksync/internal/validation"
	"github.com/agentstation/linksync/pkg/constants"
	"github.com/agentstation/linksync/pkg/errors"
)

// EnvPrefix prefixes every configuration environment variable,
// e.g. LINKSYNC_WORKS_DIR.
const EnvPrefix = "LINKSYNC"

// Config holds the application configuration loaded from various sources
// including config files, environment variables, and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Output  string

	// Config file
	ConfigFile string

	// Catalog source
	WorksDir string `validate:"required"`
	Clone    bool
	RepoURL  string `validate:"required,url"`
	Checkout string `validate:"required"`
	Branch   string

	// Remote services
	SPARQLEndpoint string `validate:"required,url"`
	WikibaseAPI    string `validate:"required,url"`
	UserAgent      string `validate:"required"`

	// Write policy
	CredentialsFile string
	BatchLimit      int           `validate:"gte=0"`
	Interval        time.Duration `validate:"gte=0"`
	Property        string        `validate:"required"`
	Summary         string        `validate:"required"`
	MetricsFile     string

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (applied later with UpdateFromFlags)
// 2. Environment variables (LINKSYNC_*)
// 3. .env files
// 4. Config file (path, or ~/.linksync.yaml / ./.linksync.yaml)
// 5. Defaults
func LoadConfig(path string) (*Config, error) {
	// Load .env files first (before Viper env binding)
	loadEnvFiles()

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	setDefaults(v)

	// The unprefixed logging variables are honoured as well
	_ = v.BindEnv("log_level", EnvPrefix+"_LOG_LEVEL", "LOG_LEVEL")
	_ = v.BindEnv("log_format", EnvPrefix+"_LOG_FORMAT", "LOG_FORMAT")
	_ = v.BindEnv("log_output", EnvPrefix+"_LOG_OUTPUT", "LOG_OUTPUT")

	if path == "" {
		path = os.Getenv(EnvPrefix + "_CONFIG")
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.NewConfigError("config", "reading "+path, err)
		}
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".linksync")

		// A missing default config file is fine, a broken one is not
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, errors.NewConfigError("config", "reading "+v.ConfigFileUsed(), err)
			}
		}
	}

	config := &Config{
		Verbose: v.GetBool("verbose"),
		Quiet:   v.GetBool("quiet"),
		NoColor: v.GetBool("no_color"),
		Output:  v.GetString("output"),

		ConfigFile: v.ConfigFileUsed(),

		WorksDir: v.GetString("works_dir"),
		Clone:    v.GetBool("clone"),
		RepoURL:  v.GetString("repo_url"),
		Checkout: v.GetString("checkout"),
		Branch:   v.GetString("branch"),

		SPARQLEndpoint: v.GetString("sparql_endpoint"),
		WikibaseAPI:    v.GetString("wikibase_api"),
		UserAgent:      v.GetString("user_agent"),

		CredentialsFile: v.GetString("credentials"),
		BatchLimit:      v.GetInt("batch_limit"),
		Interval:        v.GetDuration("interval"),
		Property:        v.GetString("property"),
		Summary:         v.GetString("summary"),
		MetricsFile:     v.GetString("metrics_file"),

		LogLevel:  v.GetString("log_level"),
		LogFormat: v.GetString("log_format"),
		LogOutput: v.GetString("log_output"),
	}

	if err := validation.Struct(config); err != nil {
		return nil, errors.NewConfigError("config", "invalid configuration", err)
	}
	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("works_dir", constants.DefaultWorksDir)
	v.SetDefault("repo_url", constants.DefaultCatalogRepoURL)
	v.SetDefault("checkout", constants.DefaultCatalogCheckout)
	v.SetDefault("branch", "")
	v.SetDefault("sparql_endpoint", constants.DefaultSPARQLEndpoint)
	v.SetDefault("wikibase_api", constants.DefaultWikibaseAPI)
	v.SetDefault("user_agent", constants.DefaultUserAgent)
	v.SetDefault("credentials", constants.DefaultCredentialsFile)
	v.SetDefault("batch_limit", constants.DefaultBatchLimit)
	v.SetDefault("interval", constants.DefaultWriteInterval)
	v.SetDefault("property", constants.CatalogProperty)
	v.SetDefault("summary", constants.WriteSummary)
	v.SetDefault("log_format", "auto")
	v.SetDefault("log_output", "stderr")
}

// UpdateFromFlags updates config values from the parsed global flags.
// This should be called after cobra parses flags to ensure flag
// values take precedence over config file and env vars.
func (c *Config) UpdateFromFlags(flags *globals.Flags) {
	c.Verbose = flags.Verbose
	c.Quiet = flags.Quiet
	c.NoColor = c.NoColor || flags.NoColor
	if flags.Output != "" {
		c.Output = flags.Output
	}
	c.LogLevel = flags.Level(c.LogLevel)
}

// Settings returns the run settings described by the configuration.
func (c *Config) Settings() appcontext.Settings {
	return appcontext.Settings{
		WorksDir:        c.WorksDir,
		Clone:           c.Clone,
		RepoURL:         c.RepoURL,
		Checkout:        c.Checkout,
		Branch:          c.Branch,
		Write:           true,
		CredentialsFile: c.CredentialsFile,
		BatchLimit:      c.BatchLimit,
		Interval:        c.Interval,
		MetricsFile:     c.MetricsFile,
	}
}

// loadEnvFiles loads environment variables from .env files.
// Variables already set in the environment are never overridden.
func loadEnvFiles() {
	for _, envFile := range []string{".env", ".env.local"} {
		_ = godotenv.Load(envFile)
	}
}
