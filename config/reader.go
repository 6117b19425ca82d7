package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"

	"github.com/cvlab/powerline-pose/logging"
	"github.com/cvlab/powerline-pose/utils"
)

// Environment variables overriding file values.
const (
	EnvPosesRoot         = "POSES_ROOT"
	EnvIntrinsicsFile    = "INTRINSICS_FILE"
	EnvDatasetFolder     = "DATASET_FOLDER"
	EnvImagesRoot        = "IMAGES_ROOT"
	EnvAnnotationsFolder = "ANNOTATIONS_FOLDER"
	EnvRainFallRate      = "RAIN_FALLRATE"
	EnvSequenceSeparator = "SEQUENCE_SEPARATOR"
	EnvLogLevel          = "LOG_LEVEL"
)

// Read loads path on top of DefaultConfig, then applies a .env file found next to it and the
// environment. A missing file is not an error; a malformed one is.
func Read(path string, logger logging.Logger) (*Config, error) {
	cfg := DefaultConfig()
	cfg.path = path

	if path != "" {
		//nolint:gosec
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			logger.Debugf("no config at %s, using defaults", path)
		case err != nil:
			return nil, errors.Wrapf(err, "read config %q", path)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, errors.Wrapf(err, "failed to decode config %q", path)
			}
			logger.Debugf("loaded config from %s", path)
		}
		loadEnvFile(filepath.Join(filepath.Dir(path), ".env"), logger)
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadEnvFile reads KEY=VALUE lines into the environment. Variables already set win.
func loadEnvFile(path string, logger logging.Logger) {
	//nolint:gosec
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	logger.Debugf("loading .env from %s", path)
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, val, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		val = strings.Trim(strings.TrimSpace(val), `"'`)
		if os.Getenv(key) == "" {
			//nolint:errcheck
			os.Setenv(key, val)
		}
	}
}

func (c *Config) applyEnvOverrides() error {
	for env, field := range map[string]*string{
		EnvPosesRoot:         &c.PosesRoot,
		EnvIntrinsicsFile:    &c.IntrinsicsFile,
		EnvDatasetFolder:     &c.DatasetFolder,
		EnvImagesRoot:        &c.ImagesRoot,
		EnvAnnotationsFolder: &c.AnnotationsFolder,
		EnvSequenceSeparator: &c.SequenceSeparator,
		EnvLogLevel:          &c.LogLevel,
	} {
		if v := os.Getenv(env); v != "" {
			*field = v
		}
	}
	if v := os.Getenv(EnvRainFallRate); v != "" {
		rate, err := cast.ToFloat64E(v)
		if err != nil {
			return utils.NewInvalidArgumentError("%s=%q is not a number", EnvRainFallRate, v)
		}
		c.Simulation.RainFallRate = rate
	}
	return nil
}
