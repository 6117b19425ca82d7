package intrinsics

import (
	"encoding/json"
	"io"
	"os"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"gonum.org/v1/gonum/mat"

	"github.com/cvlab/powerline-pose/logging"
	"github.com/cvlab/powerline-pose/utils"
)

// Registry maps recording names to calibrated intrinsics. It is loaded once and only read
// afterwards.
type Registry struct {
	byRecording map[string]PinholeCameraIntrinsics
	logger      logging.Logger
}

// NewRegistry returns a registry over the given table.
func NewRegistry(byRecording map[string]PinholeCameraIntrinsics, logger logging.Logger) *Registry {
	table := make(map[string]PinholeCameraIntrinsics, len(byRecording))
	for k, v := range byRecording {
		table[k] = v
	}
	return &Registry{byRecording: table, logger: logger}
}

// LoadRegistry reads a JSON object of recording name to intrinsics. An empty path gives an empty
// registry, so every lookup falls back to Default.
func LoadRegistry(path string, logger logging.Logger) (*Registry, error) {
	if path == "" {
		return NewRegistry(nil, logger), nil
	}
	//nolint:gosec
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, utils.NewMissingResourceError("intrinsics file", path)
		}
		return nil, errors.Wrap(err, "error opening intrinsics file")
	}
	defer f.Close()

	byteValue, err := io.ReadAll(f)
	if err != nil {
		return nil, errors.Wrap(err, "error reading intrinsics file")
	}
	table := map[string]PinholeCameraIntrinsics{}
	if err := json.Unmarshal(byteValue, &table); err != nil {
		return nil, errors.Wrapf(err, "error parsing intrinsics file %q", path)
	}

	var errs error
	for recording, params := range table {
		if err := params.CheckValid(); err != nil {
			errs = multierr.Append(errs, errors.Wrapf(err, "recording %q", recording))
		}
	}
	if errs != nil {
		return nil, errs
	}
	logger.Debugf("loaded intrinsics for %d recordings from %s", len(table), path)
	return NewRegistry(table, logger), nil
}

// Len is the number of calibrated recordings.
func (r *Registry) Len() int {
	return len(r.byRecording)
}

// Intrinsics returns the parameters of a recording and whether they were calibrated.
func (r *Registry) Intrinsics(recording string) (PinholeCameraIntrinsics, bool) {
	params, ok := r.byRecording[recording]
	if !ok {
		return Default, false
	}
	return params, true
}

// Lookup returns a fresh intrinsic matrix for recording. An empty recording yields the default
// matrix; an unknown one also does, with a warning when warn is set.
func (r *Registry) Lookup(recording string, warn bool) *mat.Dense {
	if recording == "" {
		return Default.Matrix()
	}
	params, ok := r.Intrinsics(recording)
	if !ok && warn {
		r.logger.Warnf("intrinsics matrix not found for recording %s, resorting to the default one", recording)
	}
	return params.Matrix()
}
