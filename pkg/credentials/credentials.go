// Package credentials loads the bot account used by the write phase.
//
// The login file holds {"user": ..., "pass": ..., "sentry": ...}; the
// LINKSYNC_USER, LINKSYNC_PASSWORD and LINKSYNC_SENTRY_DSN environment
// variables override it, and either source alone is enough.
package credentials

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/agentstation/linksync/internal/validation"
	"github.com/agentstation/linksync/pkg/errors"
)

// Environment variables read by Load.
const (
	EnvUser     = "LINKSYNC_USER"
	EnvPassword = "LINKSYNC_PASSWORD"
	EnvSentry   = "LINKSYNC_SENTRY_DSN"
)

// Credentials is a bot login.
type Credentials struct {
	User     string `mapstructure:"user" validate:"required"`
	Password string `mapstructure:"pass" validate:"required"`
	// ErrorTracking is an error-reporting DSN carried with the login. It is
	// read for compatibility with existing login files and not used.
	ErrorTracking string `mapstructure:"sentry"`
}

// String implements fmt.Stringer without revealing the password.
func (c Credentials) String() string {
	return fmt.Sprintf("%s:%s", c.User, strings.Repeat("*", min(len(c.Password), 8)))
}

// Load reads credentials from path (JSON or YAML, chosen by extension) and
// the environment. A missing path is not an error when the environment
// supplies the login. Every failure satisfies errors.IsCredentialsMissing.
func Load(path string) (*Credentials, error) {
	v := viper.New()
	_ = v.BindEnv("user", EnvUser)
	_ = v.BindEnv("pass", EnvPassword)
	_ = v.BindEnv("sentry", EnvSentry)

	if path != "" {
		if err := readFile(v, path); err != nil {
			return nil, fmt.Errorf("%w: %w", errors.ErrCredentialsMissing, err)
		}
	}

	var c Credentials
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrCredentialsMissing, errors.WrapParse("credentials", path, err))
	}
	c.User = strings.TrimSpace(c.User)

	if err := validation.Struct(c); err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrCredentialsMissing, err)
	}
	return &c, nil
}

func readFile(v *viper.Viper, path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.WrapIO("stat", path, err)
	}

	v.SetConfigFile(path)
	if filepath.Ext(path) == "" {
		v.SetConfigType("json")
	}
	if err := v.ReadInConfig(); err != nil {
		return errors.WrapParse(configType(path), path, err)
	}
	return nil
}

func configType(path string) string {
	if ext := strings.TrimPrefix(filepath.Ext(path), "."); ext != "" {
		return ext
	}
	return "json"
}
