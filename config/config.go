// Package config defines the configuration of the dataset preparation tools.
package config

import (
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/cvlab/powerline-pose/logging"
	"github.com/cvlab/powerline-pose/utils"
)

// SimModeSteps drives the simulation with per-frame values.
const SimModeSteps = "steps"

// Config holds the paths and dataset settings used by every command.
type Config struct {
	PosesRoot         string `yaml:"poses_root" json:"poses_root"`
	IntrinsicsFile    string `yaml:"intrinsics_file" json:"intrinsics_file"`
	DatasetFolder     string `yaml:"dataset_folder" json:"dataset_folder"`
	ImagesRoot        string `yaml:"images_root" json:"images_root"`
	AnnotationsFolder string `yaml:"annotations_folder" json:"annotations_folder"`
	// SequenceSeparator joins recording date and camera in sequence folder names.
	SequenceSeparator string `yaml:"sequence_separator" json:"sequence_separator"`
	LogLevel          string `yaml:"log_level" json:"log_level"`

	Camera     CameraConfig     `yaml:"camera" json:"camera"`
	Simulation SimulationConfig `yaml:"simulation" json:"simulation"`

	path string
}

// CameraConfig describes the sensor and its placement in the simulated scene.
type CameraConfig struct {
	Hz          int        `yaml:"hz" json:"hz"`
	CCDSize     [2]int     `yaml:"ccd_wh" json:"ccd_wh"`
	PixelSizeUM float64    `yaml:"ccd_pixsize" json:"ccd_pixsize"`
	ImageSize   [2]int     `yaml:"wh" json:"wh"`
	FocalMM     float64    `yaml:"focal" json:"focal"`
	Gain        float64    `yaml:"gain" json:"gain"`
	FNumber     float64    `yaml:"f_number" json:"f_number"`
	FocusPlaneM float64    `yaml:"focus_plane" json:"focus_plane"`
	ExposureMS  float64    `yaml:"exposure" json:"exposure"`
	Position    [3]float64 `yaml:"pos" json:"pos"`
	LookAt      [3]float64 `yaml:"lookat" json:"lookat"`
	Up          [3]float64 `yaml:"up" json:"up"`
}

// SimulationConfig holds the per-frame simulation parameters.
type SimulationConfig struct {
	Mode string `yaml:"mode" json:"mode"`
	// RainFallRate in mm/h, applied to every frame.
	RainFallRate float64 `yaml:"rain_fallrate" json:"rain_fallrate"`
}

// DefaultConfig returns the settings of the reference camera.
func DefaultConfig() *Config {
	return &Config{
		SequenceSeparator: "_",
		LogLevel:          "info",
		Camera: CameraConfig{
			Hz:          6,
			CCDSize:     [2]int{4096, 3000},
			PixelSizeUM: 4.65,
			ImageSize:   [2]int{4096, 3000},
			FocalMM:     6,
			Gain:        20,
			FNumber:     6.0,
			FocusPlaneM: 100_000_000.0,
			ExposureMS:  2,
			Position:    [3]float64{1.5, 1.5, 0.3},
			LookAt:      [3]float64{1.5, 1.5, -1},
			Up:          [3]float64{0, 1, 0},
		},
		Simulation: SimulationConfig{
			Mode:         SimModeSteps,
			RainFallRate: 10,
		},
	}
}

// Path is the file the config was loaded from, if any.
func (c *Config) Path() string {
	return c.path
}

// SensorWidthMM is the physical width of the CCD.
func (c *Config) SensorWidthMM() float64 {
	return c.Camera.PixelSizeUM * float64(c.Camera.CCDSize[0]) * 1e-3
}

// ImagesDir is where sequence folders are listed from; it defaults to the dataset folder.
func (c *Config) ImagesDir() string {
	if c.ImagesRoot != "" {
		return c.ImagesRoot
	}
	return c.DatasetFolder
}

// Validate returns every problem found in the config.
func (c *Config) Validate() error {
	var errs error
	if c.SequenceSeparator == "" {
		errs = multierr.Append(errs, utils.NewInvalidArgumentError("sequence_separator must not be empty"))
	}
	if _, err := logging.LevelFromString(c.LogLevel); err != nil {
		errs = multierr.Append(errs, utils.NewInvalidArgumentError("log_level: %v", err))
	}
	if c.Camera.Hz <= 0 {
		errs = multierr.Append(errs, utils.NewInvalidArgumentError("camera.hz must be positive, got %d", c.Camera.Hz))
	}
	if c.Camera.CCDSize[0] <= 0 || c.Camera.CCDSize[1] <= 0 {
		errs = multierr.Append(errs, utils.NewInvalidArgumentError("camera.ccd_wh must be positive, got %v", c.Camera.CCDSize))
	}
	if c.Camera.PixelSizeUM <= 0 {
		errs = multierr.Append(errs, utils.NewInvalidArgumentError("camera.ccd_pixsize must be positive, got %v", c.Camera.PixelSizeUM))
	}
	if c.Simulation.Mode != SimModeSteps {
		errs = multierr.Append(errs, utils.NewInvalidArgumentError("unsupported simulation mode %q", c.Simulation.Mode))
	}
	if c.Simulation.RainFallRate < 0 {
		errs = multierr.Append(errs, utils.NewInvalidArgumentError("simulation.rain_fallrate must not be negative"))
	}
	return errors.Wrap(errs, "invalid config")
}

// NewLogger returns a logger at the configured level.
func (c *Config) NewLogger(name string) logging.Logger {
	logger := logging.NewLogger(name)
	if level, err := logging.LevelFromString(c.LogLevel); err == nil {
		logger.SetLevel(level)
	}
	return logger
}
