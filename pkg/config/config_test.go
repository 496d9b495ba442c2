package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alantheprice/outreach/pkg/utils"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, ProviderOpenAI, cfg.Provider)
	assert.Equal(t, "gpt-4o", cfg.Model)
	assert.Equal(t, 1.0, cfg.Temperature)
	assert.Equal(t, 4095, cfg.MaxTokens)
	assert.Equal(t, 45*time.Second, cfg.Timeout())
	assert.Equal(t, 70, cfg.ScoreThreshold)
	assert.Equal(t, 3, cfg.RepairAttempts)
	assert.Equal(t, 3, cfg.RegenerateAttempts)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "outreach-jobs", cfg.KafkaTopic)
	assert.Equal(t, "outreach-events", cfg.RedisChannel)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FileKeepsDefaultsForMissingFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"model":"gpt-4o-mini","temperature":0,"score_threshold":80}`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", cfg.Model)
	assert.Equal(t, 0.0, cfg.Temperature)
	assert.Equal(t, 80, cfg.ScoreThreshold)
	assert.Equal(t, 4095, cfg.MaxTokens)
	assert.Equal(t, path, cfg.Path())
}

func TestLoad_SearchesWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", t.TempDir())
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".outreach"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".outreach", "config.json"), []byte(`{"port":9090}`), 0644))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"model":"from-file"}`), 0644))
	t.Setenv("OUTREACH_MODEL", "from-env")
	t.Setenv("OUTREACH_REPAIR_ATTEMPTS", "5")
	t.Setenv("OUTREACH_TEMPERATURE", "0.4")
	t.Setenv("OUTREACH_KAFKA_BROKERS", "k1:9092, k2:9092,")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Model)
	assert.Equal(t, 5, cfg.RepairAttempts)
	assert.Equal(t, 0.4, cfg.Temperature)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.True(t, utils.HasCategory(err, utils.CategoryConfiguration))

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{`), 0644))
	_, err = Load(bad)
	require.Error(t, err)

	t.Setenv("HOME", t.TempDir())
	t.Setenv("OUTREACH_PORT", "eighty")
	_, err = Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OUTREACH_PORT")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"provider", func(c *Config) { c.Provider = "x" }, "provider"},
		{"temperature", func(c *Config) { c.Temperature = 3 }, "temperature"},
		{"threshold", func(c *Config) { c.ScoreThreshold = 101 }, "score_threshold"},
		{"repair attempts", func(c *Config) { c.RepairAttempts = 0 }, "repair_attempts"},
		{"kafka brokers", func(c *Config) { c.Dispatch = DispatchKafka }, "kafka_brokers"},
		{"dispatch", func(c *Config) { c.Dispatch = "carrier" }, "dispatch"},
		{"port", func(c *Config) { c.Port = 0 }, "port"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			result := cfg.Check()
			require.False(t, result.IsValid())
			assert.Equal(t, tt.field, result.Errors[0].Field)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")
	cfg := DefaultConfig()
	cfg.ScorerURL = "http://scorer.local/score"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://scorer.local/score", loaded.ScorerURL)
}
