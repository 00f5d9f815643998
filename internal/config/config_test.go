package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadMissingDefault(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), false)
	require.NoError(t, err)
	assert.Equal(t, "gemini", cfg.AI.Provider)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.NoError(t, cfg.Validate())

	_, err = Load(filepath.Join(t.TempDir(), "nope.yaml"), true)
	assert.Error(t, err)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
ai:
  provider: openai
  model: gpt-4o
  timeout: 45s
diagnostics:
  driver: mysql
  host: db
  port: 3306
  user: blast
  password: secret
  name: blast
`)
	cfg, err := Load(path, true)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "openai", cfg.AI.Provider)
	assert.Equal(t, 45*time.Second, cfg.AI.Timeout)
	assert.Equal(t, "API_KEY", cfg.AI.APIKeyEnv, "unset keys keep defaults")
	assert.Equal(t, "blast:secret@tcp(db:3306)/blast?parseTime=true&charset=utf8mb4&loc=UTC", cfg.MySQLDSN())
	assert.NoError(t, cfg.Validate())
}

func TestLoadBadYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "server: [1, 2"), true)
	assert.Error(t, err)
}

func TestCredential(t *testing.T) {
	t.Setenv("BLAST_TEST_KEY", "from-env")

	cfg := Default()
	cfg.AI.APIKeyEnv = "BLAST_TEST_KEY"
	assert.Equal(t, "from-env", cfg.Credential())

	cfg.AI.APIKey = "explicit"
	assert.Equal(t, "explicit", cfg.Credential())

	cfg.AI.APIKey = ""
	cfg.AI.APIKeyEnv = ""
	assert.Empty(t, cfg.Credential())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		want   string
	}{
		{"unknown provider", func(c *Config) { c.AI.Provider = "anthropic" }, "ai.provider"},
		{"azure without deployment", func(c *Config) { c.AI.Provider = "azure"; c.AI.Azure.Endpoint = "https://x" }, "ai.azure"},
		{"unknown driver", func(c *Config) { c.Diagnostics.Driver = "sqlite" }, "diagnostics.driver"},
		{"unknown exporter", func(c *Config) { c.Telemetry.TraceExporter = "jaeger" }, "telemetry.traceExporter"},
		{"quarantine without bucket", func(c *Config) { c.Quarantine.Enabled = true; c.Quarantine.Endpoint = "minio:9000" }, "quarantine"},
		{"quarantine without diagnostics", func(c *Config) {
			c.Quarantine.Enabled = true
			c.Quarantine.Endpoint = "minio:9000"
			c.Quarantine.BucketName = "blast-quarantine"
		}, "requires diagnostics.driver"},
		{"max tokens overflow", func(c *Config) { c.AI.MaxTokens = math.MaxInt32 + 1 }, "ai.maxTokens"},
		{"negative max tokens", func(c *Config) { c.AI.MaxTokens = -1 }, "ai.maxTokens"},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "server.port"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestPostgresDSN(t *testing.T) {
	cfg := Default()
	cfg.Diagnostics.Host = "pg"
	cfg.Diagnostics.Port = 5432
	cfg.Diagnostics.User = "u"
	cfg.Diagnostics.Password = "p"
	cfg.Diagnostics.Name = "blast"
	assert.Equal(t, "host=pg port=5432 user=u password=p dbname=blast sslmode=disable", cfg.PostgresDSN())
}
