package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, DefaultCSVPath, cfg.Source.CSVPath)
	assert.Equal(t, ';', cfg.DelimiterRune())
	assert.Equal(t, DriverSQLite, cfg.Store.Driver)
	assert.Equal(t, DefaultDBPath, cfg.Store.DataSourceName())
	assert.Equal(t, 1, cfg.Store.MaxOpenConns)
	assert.Equal(t, DefaultProgressEvery, cfg.ProgressEvery)
}

func TestLoadConfigYAMLThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "obras.yaml")
	content := `
source:
  csv_path: data/obras.csv
store:
  path: from-yaml.db
  query_timeout: 5s
progress_every: 10
log_format: json
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("OBRAS_DB_PATH", "from-env.db")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "data/obras.csv", cfg.Source.CSVPath)
	assert.Equal(t, "from-env.db", cfg.Store.Path)
	assert.Equal(t, 5*time.Second, cfg.Store.QueryTimeout)
	assert.Equal(t, 10, cfg.ProgressEvery)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoadConfigPostgres(t *testing.T) {
	t.Setenv("OBRAS_DB_DRIVER", "postgres")
	t.Setenv("POSTGRES_USER", "obras")
	t.Setenv("POSTGRES_PASSWORD", "secret")
	t.Setenv("POSTGRES_DB", "obras_urbanas")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, DriverPostgres, cfg.Store.Driver)
	assert.Equal(t,
		"host=localhost port=5432 user=obras password=secret dbname=obras_urbanas sslmode=disable",
		cfg.Store.DataSourceName())
	assert.Equal(t, 10, cfg.Store.MaxOpenConns)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "multi char delimiter", mutate: func(c *Config) { c.Source.Delimiter = ";;" }, wantErr: true},
		{name: "unknown driver", mutate: func(c *Config) { c.Store.Driver = "oracle" }, wantErr: true},
		{name: "postgres without settings", mutate: func(c *Config) { c.Store.Driver = DriverPostgres }, wantErr: true},
		{name: "bad log format", mutate: func(c *Config) { c.LogFormat = "xml" }, wantErr: true},
		{name: "negative progress", mutate: func(c *Config) { c.ProgressEvery = -1 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Config{}
			c.applyDefaults()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
