package credentials

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/linksync/pkg/errors"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv(EnvUser, "")
	t.Setenv(EnvPassword, "")
	t.Setenv(EnvSentry, "")
	os.Unsetenv(EnvUser)
	os.Unsetenv(EnvPassword)
	os.Unsetenv(EnvSentry)
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		body    string
		env     map[string]string
		want    *Credentials
		missing bool
	}{
		{
			name: "json login file",
			file: "bot_login.json",
			body: `{"user": "Bot@sync", "pass": "secret", "sentry": "https://key@sentry.example/1"}`,
			want: &Credentials{User: "Bot@sync", Password: "secret", ErrorTracking: "https://key@sentry.example/1"},
		},
		{
			name: "yaml login file",
			file: "bot_login.yaml",
			body: "user: Bot\npass: secret\n",
			want: &Credentials{User: "Bot", Password: "secret"},
		},
		{
			name: "file without extension is json",
			file: "bot_login",
			body: `{"user": "Bot", "pass": "secret"}`,
			want: &Credentials{User: "Bot", Password: "secret"},
		},
		{
			name: "environment overrides file",
			file: "bot_login.json",
			body: `{"user": "Bot", "pass": "old"}`,
			env:  map[string]string{EnvPassword: "new"},
			want: &Credentials{User: "Bot", Password: "new"},
		},
		{
			name: "environment alone",
			env:  map[string]string{EnvUser: "EnvBot", EnvPassword: "secret"},
			want: &Credentials{User: "EnvBot", Password: "secret"},
		},
		{
			name:    "missing password",
			file:    "bot_login.json",
			body:    `{"user": "Bot"}`,
			missing: true,
		},
		{
			name:    "malformed file",
			file:    "bot_login.json",
			body:    `{"user": `,
			missing: true,
		},
		{
			name:    "nothing configured",
			missing: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			path := filepath.Join(t.TempDir(), "absent.json")
			if tt.file != "" {
				path = writeFile(t, tt.file, tt.body)
			}

			got, err := Load(path)
			if tt.missing {
				require.Error(t, err)
				assert.True(t, errors.IsCredentialsMissing(err))
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadEmptyPath(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvUser, "Bot")
	t.Setenv(EnvPassword, "secret")

	got, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "Bot", got.User)
}

func TestStringHidesPassword(t *testing.T) {
	c := Credentials{User: "Bot", Password: "hunter2"}
	assert.Equal(t, "Bot:*******", c.String())
	assert.NotContains(t, c.String(), "hunter2")
}
