package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv(SecretEnvVar, "whsec_ZnJvbS1lbnY=")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, DefaultListen, cfg.Webhook.Listen)
	assert.Equal(t, DefaultPath, cfg.Webhook.Path)
	assert.Equal(t, DefaultStoragePath, cfg.Storage.Path)
	assert.Equal(t, DefaultLogLevel, cfg.Log.Level)
	assert.Equal(t, "whsec_ZnJvbS1lbnY=", cfg.Webhook.Secret, "secret falls back to the environment")
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
log:
  level: DEBUG
webhook:
  listen: "0.0.0.0:9999"
  path: /hooks/users
  secret: whsec_aW5saW5l
  max_body_size: 64KB
storage:
  path: /var/lib/usergate/users.db
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "DEBUG", cfg.Log.Level)
	assert.Equal(t, "0.0.0.0:9999", cfg.Webhook.Listen)
	assert.Equal(t, "/hooks/users", cfg.Webhook.Path)
	assert.Equal(t, "whsec_aW5saW5l", cfg.Webhook.Secret)
	assert.Equal(t, "/var/lib/usergate/users.db", cfg.Storage.Path)
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("TEST_USERGATE_SECRET", "whsec_ZXhwYW5kZWQ=")

	path := writeConfig(t, `
webhook:
  secret: ${TEST_USERGATE_SECRET}
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "whsec_ZXhwYW5kZWQ=", cfg.Webhook.Secret)
}

func TestLoad_UnsetEnvExpandsEmpty(t *testing.T) {
	t.Setenv(SecretEnvVar, "")

	path := writeConfig(t, `
webhook:
  secret: ${TEST_USERGATE_UNSET_VAR}
`)

	// Missing secret is not a startup failure; verification reports it
	// per request.
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Empty(t, cfg.Webhook.Secret)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "bad yaml", content: "webhook: ["},
		{name: "path without slash", content: "webhook:\n  path: no-slash"},
		{name: "bad max_body_size", content: "webhook:\n  max_body_size: lots"},
		{name: "negative max_body_size", content: "webhook:\n  max_body_size: \"-1\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	assert.Error(t, err)
}

func TestParseMaxBodySize(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{in: "", want: 0},
		{in: "1048576", want: 1048576},
		{in: "1MB", want: 1048576},
		{in: "64KB", want: 65536},
		{in: "1GB", want: 1073741824},
		{in: "junk", wantErr: true},
		{in: "0", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMaxBodySize(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
