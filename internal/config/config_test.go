package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "http://127.0.0.1:8000/api", cfg.Backend.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, "Agriculture Report", cfg.Export.ReportTitle)
	assert.Equal(t, "reports", cfg.Export.OutputDir)
	assert.True(t, cfg.Security.RateLimit.Enabled)
	// The write window must cover the whole export budget or slow
	// downloads get cut off mid-stream.
	assert.GreaterOrEqual(t, cfg.Server.WriteTimeout, cfg.Server.ExportTimeout)

	require.NoError(t, cfg.validate())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		expectError bool
	}{
		{name: "defaults are valid", mutate: func(c *Config) {}},
		{name: "zero port", mutate: func(c *Config) { c.Server.Port = 0 }, expectError: true},
		{name: "port out of range", mutate: func(c *Config) { c.Server.Port = 70000 }, expectError: true},
		{name: "zero read timeout", mutate: func(c *Config) { c.Server.ReadTimeout = 0 }, expectError: true},
		{name: "zero write timeout", mutate: func(c *Config) { c.Server.WriteTimeout = 0 }, expectError: true},
		{name: "missing backend url", mutate: func(c *Config) { c.Backend.BaseURL = "" }, expectError: true},
		{name: "export timeout beyond write timeout", mutate: func(c *Config) { c.Server.WriteTimeout = 30 * time.Second }, expectError: true},
		{name: "no allowed origins", mutate: func(c *Config) { c.Security.AllowedOrigins = nil }, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_Validate_NormalizesLogging(t *testing.T) {
	cfg := Default()
	cfg.Logging.Format = "text"
	cfg.Logging.Output = "syslog"
	cfg.Logging.FilePath = ""

	require.NoError(t, cfg.validate())

	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "stdout", cfg.Logging.Output)
	assert.Equal(t, "logs/app.log", cfg.Logging.FilePath)
}

func TestMergeConfigs_EnvTakesPrecedence(t *testing.T) {
	fileCfg := *Default()
	fileCfg.Server.Port = 9000
	fileCfg.Backend.BaseURL = "http://file-backend:8000/api"
	fileCfg.Export.ReportTitle = "File Title"

	envCfg := Config{}
	envCfg.Server.Port = 8081

	merged := mergeConfigs(fileCfg, envCfg)

	// Env value wins where set, file value fills the gaps.
	assert.Equal(t, 8081, merged.Server.Port)
	assert.Equal(t, "http://file-backend:8000/api", merged.Backend.BaseURL)
	assert.Equal(t, "File Title", merged.Export.ReportTitle)
}
