// Package config loads histgbm settings from defaults, an optional YAML file
// and HISTGBM_* environment variables.
package config

import (
	"math"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	histerrors "github.com/YuminosukeSato/histgbm/pkg/errors"
	"github.com/YuminosukeSato/histgbm/pkg/log"
	"github.com/YuminosukeSato/histgbm/sklearn/histgbm"
)

// EnvPrefix starts every environment override, e.g.
// HISTGBM_BOOSTER_LEARNING_RATE -> booster.learning_rate.
const EnvPrefix = "HISTGBM_"

const maxConfigFileSize = 1024 * 1024

// Config is the complete runtime configuration.
type Config struct {
	Data     DataConfig     `koanf:"data"`
	Booster  histgbm.Params `koanf:"booster"`
	Training TrainingConfig `koanf:"training"`
	Features FeaturesConfig `koanf:"features"`
	Server   ServerConfig   `koanf:"server"`
	Log      LogConfig      `koanf:"log"`
}

// DataConfig locates inputs and outputs.
type DataConfig struct {
	Train   string `koanf:"train"`
	Raw     string `koanf:"raw"`
	Test    string `koanf:"test"`
	TestRaw string `koanf:"test_raw"`
	Output  string `koanf:"output"`

	ModelDir string `koanf:"model_dir"`

	// ValidationFraction of the training records is held out for
	// evaluation; 0 trains on everything and evaluates on the test set.
	ValidationFraction float64 `koanf:"validation_fraction"`
	Seed               int64   `koanf:"seed"`
}

// TrainingConfig controls the boosting loop around the booster parameters.
type TrainingConfig struct {
	// LogPeriod logs the training loss every LogPeriod rounds; 0 disables it.
	LogPeriod           int `koanf:"log_period"`
	EarlyStoppingRounds int `koanf:"early_stopping_rounds"`

	// TimeLimit caps the training time of each target, e.g. "30s"; 0 means no limit.
	TimeLimit time.Duration `koanf:"time_limit"`
}

// FeaturesConfig selects the feature encoding.
type FeaturesConfig struct {
	EncodeCategories bool `koanf:"encode_categories"`
}

// ServerConfig configures the prediction service.
type ServerConfig struct {
	Host string `koanf:"host"`
	Port int    `koanf:"port"`

	// Classes, when positive, adds each prediction rounded and clamped to
	// [0, Classes-1] to service responses.
	Classes int `koanf:"classes"`
}

// LogConfig configures the process logger.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Data: DataConfig{
			Train:    "data/train.csv",
			Test:     "data/test.csv",
			Output:   "predictions.csv",
			ModelDir: "models",
			Seed:     42,
		},
		Booster: histgbm.DefaultParams(),
		Training: TrainingConfig{
			LogPeriod: 10,
		},
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads the YAML file at path, when path is non-empty, and then applies
// environment overrides on top of Default.
//
// Precedence (highest first):
//  1. HISTGBM_<SECTION>_<FIELD> environment variables
//  2. the YAML file
//  3. Default()
func Load(path string) (*Config, error) {
	var content []byte
	if path != "" {
		info, err := os.Stat(path)
		if err != nil {
			return nil, histerrors.Wrapf(err, "stat config file %s", path)
		}
		if info.Size() > maxConfigFileSize {
			return nil, histerrors.NewValidationError("config", "file exceeds 1MB", info.Size())
		}
		content, err = os.ReadFile(path)
		if err != nil {
			return nil, histerrors.Wrapf(err, "read config file %s", path)
		}
	}
	return LoadBytes(content)
}

// LoadBytes is Load for YAML already in memory.
func LoadBytes(content []byte) (*Config, error) {
	k := koanf.New(".")

	if len(content) > 0 {
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, histerrors.Wrap(err, "parse config")
		}
	}

	// HISTGBM_BOOSTER_MAX_DEPTH -> booster.max_depth. The section is the
	// first word; field names keep their underscores.
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		parts := strings.SplitN(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", 2)
		if len(parts) == 1 {
			return parts[0]
		}
		return parts[0] + "." + parts[1]
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, histerrors.Wrap(err, "load environment")
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, histerrors.Wrap(err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if err := c.Booster.Validate(); err != nil {
		return err
	}
	if f := c.Data.ValidationFraction; math.IsNaN(f) || f < 0 || f >= 1 {
		return histerrors.NewValidationError("data.validation_fraction", "must be in [0, 1)", f)
	}
	if c.Training.LogPeriod < 0 {
		return histerrors.NewValidationError("training.log_period", "must be non-negative", c.Training.LogPeriod)
	}
	if c.Training.EarlyStoppingRounds < 0 {
		return histerrors.NewValidationError("training.early_stopping_rounds", "must be non-negative", c.Training.EarlyStoppingRounds)
	}
	if c.Training.TimeLimit < 0 {
		return histerrors.NewValidationError("training.time_limit", "must be non-negative", c.Training.TimeLimit)
	}
	if c.Data.ModelDir == "" {
		return histerrors.NewValidationError("data.model_dir", "must not be empty", c.Data.ModelDir)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return histerrors.NewValidationError("server.port", "must be in [0, 65535]", c.Server.Port)
	}
	if c.Server.Classes < 0 {
		return histerrors.NewValidationError("server.classes", "must be non-negative", c.Server.Classes)
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "json", "console":
	default:
		return histerrors.NewValidationError("log.format", "must be json or console", c.Log.Format)
	}
	return nil
}
