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
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadValidConfig(t *testing.T) {
	path := writeConfig(t, `
nomgen:
  output_dir: "out/rust"
  protocols: ["modbus", "IEC104", "modbus"]
  schemas:
    - "schemas/dnp3.yaml"
  workers: 4
  rule_args:
    enabled: true
  log:
    level: "debug"
    format: "json"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "out/rust", cfg.OutputDir)
	assert.Equal(t, []string{"modbus", "iec104"}, cfg.Protocols)
	assert.Equal(t, []string{"schemas/dnp3.yaml"}, cfg.Schemas)
	assert.Equal(t, 4, cfg.Workers)
	assert.True(t, cfg.RuleArgs.Enabled)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "generated", cfg.OutputDir)
	assert.Empty(t, cfg.Protocols)
	assert.Equal(t, 0, cfg.Workers)
	assert.False(t, cfg.RuleArgs.Enabled)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.False(t, cfg.Log.Outputs.File.Enabled)
	assert.Equal(t, 100, cfg.Log.Outputs.File.Rotation.MaxSizeMB)
	assert.Equal(t, 30, cfg.Log.Outputs.File.Rotation.MaxAgeDays)
	assert.Equal(t, 5, cfg.Log.Outputs.File.Rotation.MaxBackups)
	assert.True(t, cfg.Log.Outputs.File.Rotation.Compress)
}

func TestLoadEnvOverride(t *testing.T) {
	path := writeConfig(t, `
nomgen:
  output_dir: "from-file"
`)
	t.Setenv("NOMGEN_OUTPUT_DIR", "from-env")
	t.Setenv("NOMGEN_LOG_LEVEL", "warn")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.OutputDir)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}

func TestValidateAndApplyDefaults(t *testing.T) {
	valid := func() GlobalConfig {
		return GlobalConfig{
			OutputDir: "out",
			Log:       LogConfig{Level: "info", Format: "text"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*GlobalConfig)
		wantErr string
	}{
		{"valid", func(*GlobalConfig) {}, ""},
		{"invalid level", func(c *GlobalConfig) { c.Log.Level = "trace" }, "invalid log level"},
		{"invalid format", func(c *GlobalConfig) { c.Log.Format = "xml" }, "invalid log format"},
		{"file without path", func(c *GlobalConfig) { c.Log.Outputs.File.Enabled = true }, "log.outputs.file.path"},
		{"empty output", func(c *GlobalConfig) { c.OutputDir = "" }, "output_dir"},
		{"negative workers", func(c *GlobalConfig) { c.Workers = -1 }, "invalid workers"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.ValidateAndApplyDefaults()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
