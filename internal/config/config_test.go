package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	histerrors "github.com/YuminosukeSato/histgbm/pkg/errors"
)

func TestDefaults(t *testing.T) {
	cfg, err := LoadBytes(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), *cfg)
	assert.Equal(t, 0.1, cfg.Booster.LearningRate)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoadYAML(t *testing.T) {
	content := []byte(`
data:
  train: in/train.csv
  test_raw: in/test_raw.csv
  validation_fraction: 0.2
  seed: 7
booster:
  learning_rate: 0.05
  max_depth: 5
  rounds: 200
  reuse_training_edges: true
training:
  early_stopping_rounds: 5
  time_limit: 90s
features:
  encode_categories: true
log:
  level: debug
  format: json
`)
	path := filepath.Join(t.TempDir(), "histgbm.yaml")
	require.NoError(t, os.WriteFile(path, content, 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "in/train.csv", cfg.Data.Train)
	assert.Equal(t, "data/test.csv", cfg.Data.Test, "unset keys keep defaults")
	assert.Equal(t, 0.2, cfg.Data.ValidationFraction)
	assert.Equal(t, int64(7), cfg.Data.Seed)
	assert.Equal(t, 0.05, cfg.Booster.LearningRate)
	assert.Equal(t, 5, cfg.Booster.MaxDepth)
	assert.Equal(t, 200, cfg.Booster.NumRounds)
	assert.Equal(t, 32, cfg.Booster.NumBins)
	assert.True(t, cfg.Booster.ReuseTrainingEdges)
	assert.Equal(t, "in/test_raw.csv", cfg.Data.TestRaw)
	assert.Equal(t, 5, cfg.Training.EarlyStoppingRounds)
	assert.Equal(t, 90*time.Second, cfg.Training.TimeLimit)
	assert.Equal(t, 10, cfg.Training.LogPeriod)
	assert.True(t, cfg.Features.EncodeCategories)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("HISTGBM_BOOSTER_MAX_DEPTH", "6")
	t.Setenv("HISTGBM_SERVER_PORT", "9090")
	t.Setenv("HISTGBM_DATA_MODEL_DIR", "/tmp/models")
	t.Setenv("HISTGBM_TRAINING_TIME_LIMIT", "2m")

	cfg, err := LoadBytes([]byte("booster:\n  max_depth: 2\n"))
	require.NoError(t, err)
	assert.Equal(t, 6, cfg.Booster.MaxDepth)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "/tmp/models", cfg.Data.ModelDir)
	assert.Equal(t, 2*time.Minute, cfg.Training.TimeLimit)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		param  string
	}{
		{"learning rate", func(c *Config) { c.Booster.LearningRate = -1 }, "learning_rate"},
		{"validation fraction", func(c *Config) { c.Data.ValidationFraction = 1 }, "data.validation_fraction"},
		{"model dir", func(c *Config) { c.Data.ModelDir = "" }, "data.model_dir"},
		{"time limit", func(c *Config) { c.Training.TimeLimit = -time.Second }, "training.time_limit"},
		{"early stopping", func(c *Config) { c.Training.EarlyStoppingRounds = -1 }, "training.early_stopping_rounds"},
		{"port", func(c *Config) { c.Server.Port = 70000 }, "server.port"},
		{"log format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			var valErr *histerrors.ValidationError
			require.True(t, histerrors.As(err, &valErr))
			assert.Equal(t, tt.param, valErr.ParamName)
		})
	}

	cfg := Default()
	cfg.Log.Level = "loud"
	assert.Error(t, cfg.Validate())
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = LoadBytes([]byte("booster: [unclosed"))
	assert.Error(t, err)

	_, err = LoadBytes([]byte("booster:\n  num_bins: 0\n"))
	assert.Error(t, err)
}
