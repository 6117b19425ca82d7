package pose

import (
	"encoding/csv"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/spf13/cast"
	"go.uber.org/multierr"

	"github.com/cvlab/powerline-pose/utils"
)

const poseRecordFields = 6

// A Source looks up the pose of a recording at a frame timestamp. A nil pose with a nil error means
// the pose is unknown.
type Source interface {
	Pose(recording string, timestamp int64) (*CameraPose, error)
}

// FileStore reads poses laid out as <Root>/<recording>/<timestamp>_pose.csv.
type FileStore struct {
	Root string
}

// NewFileStore returns a FileStore rooted at root.
func NewFileStore(root string) *FileStore {
	return &FileStore{Root: root}
}

// Path returns where the pose of the given frame is expected.
func (fst *FileStore) Path(recording string, timestamp int64) string {
	return filepath.Join(fst.Root, filepath.FromSlash(recording), fmt.Sprintf("%d_pose.csv", timestamp))
}

// Pose reads the pose for a frame. A missing file is not an error; an unreadable or malformed one is.
func (fst *FileStore) Pose(recording string, timestamp int64) (*CameraPose, error) {
	path := fst.Path(recording, timestamp)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "stat pose file %q", path)
	}
	cp, err := ParsePoseFile(path)
	if err != nil {
		return nil, err
	}
	return &cp, nil
}

// ParsePoseFile reads the first record of a pose file: lat, lon, alt, yaw, pitch, roll with angles
// in degrees.
func ParsePoseFile(path string) (CameraPose, error) {
	//nolint:gosec
	f, err := os.Open(path)
	if err != nil {
		return CameraPose{}, errors.Wrapf(err, "open pose file %q", path)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	record, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return CameraPose{}, utils.NewInvalidArgumentError("pose file %q is empty", path)
		}
		return CameraPose{}, errors.Wrapf(err, "read pose file %q", path)
	}
	cp, err := ParsePoseRecord(record)
	if err != nil {
		return CameraPose{}, errors.Wrapf(err, "pose file %q", path)
	}
	return cp, nil
}

// ParsePoseRecord converts six decimal fields into a CameraPose.
func ParsePoseRecord(fields []string) (CameraPose, error) {
	if len(fields) != poseRecordFields {
		return CameraPose{}, utils.NewInvalidArgumentError("pose record has %d fields, expected %d", len(fields), poseRecordFields)
	}
	var values [poseRecordFields]float64
	for i, field := range fields {
		v, err := cast.ToFloat64E(strings.TrimSpace(field))
		if err != nil {
			return CameraPose{}, utils.NewInvalidArgumentError("pose field %d: %v", i, err)
		}
		values[i] = v
	}
	return NewCameraPose(values[0], values[1], values[2], values[3], values[4], values[5]), nil
}

// FormatPoseRecord is the inverse of ParsePoseRecord.
func FormatPoseRecord(cp CameraPose) []string {
	deg := cp.Rotation.InDegrees()
	values := []float64{cp.Position.Lat, cp.Position.Lon, cp.Position.Altitude, deg.Yaw, deg.Pitch, deg.Roll}
	return lo.Map(values, func(v float64, _ int) string {
		return strconv.FormatFloat(v, 'f', -1, 64)
	})
}

// WritePoseFile writes cp as a single pose record, creating parent directories as needed.
func WritePoseFile(path string, cp CameraPose) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return errors.Wrap(err, "create pose directory")
	}
	//nolint:gosec
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create pose file %q", path)
	}
	defer func() {
		err = multierr.Combine(err, f.Close())
	}()

	w := csv.NewWriter(f)
	if err := w.Write(FormatPoseRecord(cp)); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}
