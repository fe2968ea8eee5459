package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0:8000", cfg.GetServerAddr())
	assert.Equal(t, "Senior Portfolio Manager - Area A", cfg.Agent.Supervisors["SUP-9988"])
	assert.Equal(t, "Compliance Officer - Area B", cfg.Agent.Supervisors["SUP-1122"])
	assert.Equal(t, []string{"buy", "sell", "trade", "allocate", "invest"}, cfg.Agent.RiskKeywords)
	assert.Equal(t, 20*time.Millisecond, cfg.Agent.TokenDelay)

	limit, err := cfg.Agent.UploadLimit()
	require.NoError(t, err)
	assert.Equal(t, int64(10_000_000), limit)
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mock.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9000
agent:
  supervisors:
    SUP-0001: Head of Risk
  token_delay: 0s
`), 0o600))

	t.Setenv("MOCKAGENT_LOG_LEVEL", "debug")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "Head of Risk", cfg.Agent.Supervisors["SUP-0001"])
	assert.Zero(t, cfg.Agent.TokenDelay)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server: ServerConfig{Port: 8000, Mode: "debug"},
			Log:    LogConfig{Level: "info", Format: "json", Output: "stdout"},
			JWT:    JWTConfig{Secret: "0123456789abcdef0123456789abcdef"},
			Agent: AgentConfig{
				Supervisors:   map[string]string{"SUP-9988": "PM"},
				ChunkSize:     1000,
				RiskThreshold: 2,
			},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "bad port", mutate: func(c *Config) { c.Server.Port = 0 }, wantErr: true},
		{name: "bad mode", mutate: func(c *Config) { c.Server.Mode = "prod" }, wantErr: true},
		{name: "short secret", mutate: func(c *Config) { c.JWT.Secret = "short" }, wantErr: true},
		{name: "file without path", mutate: func(c *Config) { c.Log.Output = "file" }, wantErr: true},
		{name: "no supervisors", mutate: func(c *Config) { c.Agent.Supervisors = nil }, wantErr: true},
		{name: "overlap too large", mutate: func(c *Config) { c.Agent.ChunkOverlap = 1000 }, wantErr: true},
		{name: "bad upload size", mutate: func(c *Config) { c.Agent.MaxUploadSize = "lots" }, wantErr: true},
		{name: "metrics port", mutate: func(c *Config) { c.Observability = ObservabilityConfig{EnableMetrics: true} }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// chdir changes the working directory for the test and restores it on
// cleanup (equivalent to testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
