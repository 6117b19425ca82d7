package dataset

import (
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/cvlab/powerline-pose/config"
	"github.com/cvlab/powerline-pose/intrinsics"
	"github.com/cvlab/powerline-pose/logging"
	"github.com/cvlab/powerline-pose/utils"
)

const frameGlob = "*.png"

// Settings is the simulator configuration of a dataset. Sequence entries are merged over the
// top-level values by the simulator.
type Settings struct {
	CamHz         int        `yaml:"cam_hz"`
	CamCCDWH      [2]int     `yaml:"cam_CCD_WH,flow"`
	CamCCDPixSize float64    `yaml:"cam_CCD_pixsize"`
	CamWH         [2]int     `yaml:"cam_WH,flow"`
	CamFocal      float64    `yaml:"cam_focal"`
	CamGain       float64    `yaml:"cam_gain"`
	CamFNumber    float64    `yaml:"cam_f_number"`
	CamFocusPlane float64    `yaml:"cam_focus_plane"`
	CamExposure   float64    `yaml:"cam_exposure"`
	CamPos        [3]float64 `yaml:"cam_pos,flow"`
	CamLookAt     [3]float64 `yaml:"cam_lookat,flow"`
	CamUp         [3]float64 `yaml:"cam_up,flow"`

	Sequences map[string]SequenceSettings `yaml:"sequences"`
}

// SequenceSettings overrides the camera focal length and drives the simulation per frame.
type SequenceSettings struct {
	CamFocal float64  `yaml:"cam_focal"`
	SimMode  string   `yaml:"sim_mode"`
	SimSteps SimSteps `yaml:"sim_steps"`
}

// SimSteps holds one value per frame, in timestamp order.
type SimSteps struct {
	// CamMotion in km/h.
	CamMotion []float64 `yaml:"cam_motion,flow"`
	// RainFallRate in mm/h.
	RainFallRate []float64 `yaml:"rain_fallrate,flow"`
}

// A MotionEstimator computes per-frame camera speeds of a recording.
type MotionEstimator interface {
	CameraMotionVelocities(recording string, timestamps []int64) ([]float64, error)
}

// Builder assembles Settings from the dataset folder.
type Builder struct {
	cfg        *config.Config
	intrinsics *intrinsics.Registry
	motion     MotionEstimator
	logger     logging.Logger
}

// NewBuilder returns a Builder.
func NewBuilder(
	cfg *config.Config,
	registry *intrinsics.Registry,
	motion MotionEstimator,
	logger logging.Logger,
) *Builder {
	return &Builder{cfg: cfg, intrinsics: registry, motion: motion, logger: logger}
}

// Build lists the sequences of the dataset folder and computes their settings.
func (b *Builder) Build() (*Settings, error) {
	cam := b.cfg.Camera
	settings := &Settings{
		CamHz:         cam.Hz,
		CamCCDWH:      cam.CCDSize,
		CamCCDPixSize: cam.PixelSizeUM,
		CamWH:         cam.ImageSize,
		CamFocal:      cam.FocalMM,
		CamGain:       cam.Gain,
		CamFNumber:    cam.FNumber,
		CamFocusPlane: cam.FocusPlaneM,
		CamExposure:   cam.ExposureMS,
		CamPos:        cam.Position,
		CamLookAt:     cam.LookAt,
		CamUp:         cam.Up,
		Sequences:     map[string]SequenceSettings{},
	}

	sequences, err := listSequences(b.cfg.DatasetFolder)
	if err != nil {
		return nil, err
	}
	if len(sequences) == 0 {
		b.logger.Warnf("no sequences found in %s", b.cfg.DatasetFolder)
	}

	var errs error
	for _, sequence := range sequences {
		seq, err := b.buildSequence(sequence)
		if err != nil {
			errs = multierr.Append(errs, errors.Wrapf(err, "sequence %q", sequence))
			continue
		}
		settings.Sequences[sequence] = seq
	}
	if errs != nil {
		return nil, errs
	}
	return settings, nil
}

func (b *Builder) buildSequence(sequence string) (SequenceSettings, error) {
	recording := RecordingName(sequence, b.cfg.SequenceSeparator)
	timestamps, err := FrameTimestamps(filepath.Join(b.cfg.DatasetFolder, sequence, "rgb"))
	if err != nil {
		return SequenceSettings{}, err
	}

	motion, err := b.motion.CameraMotionVelocities(recording, timestamps)
	if err != nil {
		return SequenceSettings{}, err
	}

	k := b.intrinsics.Lookup(recording, true)
	focal := intrinsics.FocalLengthMM(k, b.cfg.SensorWidthMM(), b.cfg.Camera.CCDSize[0])
	b.logger.Debugw("sequence settings", "sequence", sequence, "recording", recording,
		"frames", len(timestamps), "cam_focal", focal)

	return SequenceSettings{
		CamFocal: focal,
		SimMode:  b.cfg.Simulation.Mode,
		SimSteps: SimSteps{
			CamMotion:    motion,
			RainFallRate: lo.Times(len(timestamps), func(int) float64 { return b.cfg.Simulation.RainFallRate }),
		},
	}, nil
}

// FrameTimestamps returns the sorted timestamps of the frames in dir, taken from the file names.
func FrameTimestamps(dir string) ([]int64, error) {
	frames, err := filepath.Glob(filepath.Join(dir, frameGlob))
	if err != nil {
		return nil, errors.Wrapf(err, "list frames in %q", dir)
	}
	timestamps := make([]int64, 0, len(frames))
	for _, frame := range frames {
		stem := strings.TrimSuffix(filepath.Base(frame), filepath.Ext(frame))
		ts, err := strconv.ParseInt(stem, 10, 64)
		if err != nil {
			return nil, utils.NewInvalidArgumentError("frame %q is not named by its timestamp", frame)
		}
		timestamps = append(timestamps, ts)
	}
	slices.Sort(timestamps)
	return timestamps, nil
}

// WriteYAML encodes s to w.
func (s *Settings) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return errors.Wrap(err, "Error while Marshaling YAML file")
	}
	return enc.Close()
}

// WriteFile writes s as YAML to path.
func (s *Settings) WriteFile(path string) error {
	//nolint:gosec
	outfile, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := s.WriteYAML(outfile); err != nil {
		return multierr.Combine(err, outfile.Close())
	}
	return outfile.Close()
}
