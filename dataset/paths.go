// Package dataset assembles the simulation settings of a rendered dataset.
package dataset

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/cvlab/powerline-pose/utils"
)

// Paths locates the inputs of every sequence of a dataset.
type Paths struct {
	Sequences []string          `yaml:"sequences"`
	Images    map[string]string `yaml:"images"`
	// Calib is empty for every sequence; calibration comes from the intrinsics registry.
	Calib map[string]*string `yaml:"calib"`
	Depth map[string]string  `yaml:"depth"`
}

// ResolvePaths treats every sub-directory of imagesRoot as a sequence whose frames live under
// datasetRoot/<sequence>/rgb and depth maps under datasetRoot/<sequence>/depth.
func ResolvePaths(imagesRoot, datasetRoot string) (*Paths, error) {
	sequences, err := listSequences(imagesRoot)
	if err != nil {
		return nil, err
	}
	if len(sequences) == 0 {
		return nil, errors.Wrap(utils.ErrMissingResource, "there are no valid sequence folders in the dataset root")
	}

	paths := &Paths{
		Sequences: sequences,
		Images:    make(map[string]string, len(sequences)),
		Calib:     make(map[string]*string, len(sequences)),
		Depth:     make(map[string]string, len(sequences)),
	}
	for _, s := range sequences {
		paths.Images[s] = filepath.Join(datasetRoot, s, "rgb")
		paths.Calib[s] = nil
		paths.Depth[s] = filepath.Join(datasetRoot, s, "depth")
	}
	return paths, nil
}

// listSequences returns the names of the sub-directories of root, sorted.
func listSequences(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, utils.NewMissingResourceError("dataset folder", root)
		}
		return nil, errors.Wrapf(err, "list sequences in %q", root)
	}
	return lo.FilterMap(entries, func(entry os.DirEntry, _ int) (string, bool) {
		return entry.Name(), entry.IsDir()
	}), nil
}

// RecordingName maps a sequence folder name to its recording by replacing the last separator with
// a path separator: "2021-06-01_cam0" becomes "2021-06-01/cam0" for separator "_".
func RecordingName(sequence, separator string) string {
	if separator == "" {
		return sequence
	}
	idx := strings.LastIndex(sequence, separator)
	if idx < 0 {
		return sequence
	}
	return sequence[:idx] + "/" + sequence[idx+len(separator):]
}
