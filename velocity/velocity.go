// Package velocity estimates per-frame camera speeds from recorded poses.
package velocity

import (
	"slices"

	"github.com/pkg/errors"

	"github.com/cvlab/powerline-pose/logging"
	"github.com/cvlab/powerline-pose/pose"
	"github.com/cvlab/powerline-pose/utils"
)

// DefaultSpeedKmh stands in for any speed that cannot be measured.
const DefaultSpeedKmh = 60.0

const (
	secondsPerNano = 1e-9
	msToKmh        = 3.6
)

// Estimator turns frame timestamps of a recording into camera speeds.
type Estimator struct {
	poses  pose.Source
	calc   *pose.Calculator
	logger logging.Logger
}

// NewEstimator returns an Estimator reading poses from poses.
func NewEstimator(poses pose.Source, calc *pose.Calculator, logger logging.Logger) *Estimator {
	return &Estimator{poses: poses, calc: calc, logger: logger}
}

// CameraMotionVelocities returns one speed in km/h per timestamp (nanoseconds). Timestamps are
// processed in ascending order and the result follows that order. The speed into the first frame
// repeats the first measured interval.
//
// Unknown poses and degenerate intervals fall back to DefaultSpeedKmh; only pose read failures are
// returned as errors.
func (e *Estimator) CameraMotionVelocities(recording string, timestamps []int64) ([]float64, error) {
	switch len(timestamps) {
	case 0:
		return []float64{}, nil
	case 1:
		return []float64{DefaultSpeedKmh}, nil
	}

	sorted := slices.Clone(timestamps)
	slices.Sort(sorted)

	poses := make([]*pose.CameraPose, len(sorted))
	for i, ts := range sorted {
		cp, err := e.poses.Pose(recording, ts)
		if err != nil {
			return nil, errors.Wrapf(err, "recording %q frame %d", recording, ts)
		}
		if cp == nil {
			e.logger.Debugw("pose unknown", "recording", recording, "timestamp", ts)
		}
		poses[i] = cp
	}

	raw := make([]float64, len(sorted)-1)
	for i := range raw {
		elapsed := float64(sorted[i+1]-sorted[i]) * secondsPerNano
		var displacement float64
		if poses[i] != nil && poses[i+1] != nil {
			displacement = e.calc.Distance(*poses[i], *poses[i+1])
		}
		raw[i] = displacement / elapsed * msToKmh
	}

	velocities := SubstituteDefaults(raw)
	e.logger.Debugf("recording %q: %d velocities", recording, len(velocities)+1)
	return append([]float64{velocities[0]}, velocities...), nil
}

// SubstituteDefaults returns a copy of velocities with every zero or non-finite value replaced by
// DefaultSpeedKmh.
func SubstituteDefaults(velocities []float64) []float64 {
	out := make([]float64, len(velocities))
	for i, v := range velocities {
		if v == 0 || !utils.IsFinite(v) {
			v = DefaultSpeedKmh
		}
		out[i] = v
	}
	return out
}
