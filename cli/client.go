package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/cvlab/powerline-pose/config"
	"github.com/cvlab/powerline-pose/dataset"
	"github.com/cvlab/powerline-pose/geodesy"
	"github.com/cvlab/powerline-pose/logging"
	"github.com/cvlab/powerline-pose/pose"
	"github.com/cvlab/powerline-pose/utils"
	"github.com/cvlab/powerline-pose/velocity"
)

// powerlineEnv holds the services built once per command.
type powerlineEnv struct {
	conf      *config.Config
	logger    logging.Logger
	poses     *pose.FileStore
	calc      *pose.Calculator
	estimator *velocity.Estimator
}

func newPowerlineEnv(c *cli.Context) (*powerlineEnv, error) {
	logger := logging.NewLogger("powerline")
	if c.Bool(flagDebug) {
		logger.SetLevel(logging.DEBUG)
	}

	conf, err := config.Read(c.String(flagConfig), logger)
	if err != nil {
		return nil, err
	}
	if !c.Bool(flagDebug) {
		level, err := logging.LevelFromString(conf.LogLevel)
		if err != nil {
			return nil, err
		}
		logger.SetLevel(level)
	}
	logging.ReplaceGlobal(logger)

	projector, err := geodesy.NewProjector()
	if err != nil {
		return nil, err
	}
	store := pose.NewFileStore(conf.PosesRoot)
	calc := pose.NewCalculator(projector)

	return &powerlineEnv{
		conf:      conf,
		logger:    logger,
		poses:     store,
		calc:      calc,
		estimator: velocity.NewEstimator(store, calc, logger.Sublogger("velocity")),
	}, nil
}

// recordingTimestamps reads the recording argument and the timestamps either from the remaining
// arguments or from the frames of --sequence.
func (env *powerlineEnv) recordingTimestamps(c *cli.Context) (string, []int64, error) {
	if sequence := c.String(flagSequence); sequence != "" {
		recording := dataset.RecordingName(sequence, env.conf.SequenceSeparator)
		if c.Args().Present() {
			recording = c.Args().First()
		}
		timestamps, err := dataset.FrameTimestamps(filepath.Join(env.conf.DatasetFolder, sequence, "rgb"))
		return recording, timestamps, err
	}

	if !c.Args().Present() {
		return "", nil, utils.NewInvalidArgumentError("a recording is required")
	}
	args := c.Args().Slice()
	timestamps := make([]int64, 0, len(args)-1)
	for _, arg := range args[1:] {
		ts, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return "", nil, utils.NewInvalidArgumentError("timestamp %q is not an integer", arg)
		}
		timestamps = append(timestamps, ts)
	}
	return args[0], timestamps, nil
}

func parsePoseFlag(c *cli.Context, flag string) (pose.CameraPose, error) {
	cp, err := pose.ParsePoseRecord(strings.Split(c.String(flag), ","))
	if err != nil {
		return pose.CameraPose{}, errors.Wrapf(err, "--%s", flag)
	}
	return cp, nil
}

func printf(w io.Writer, format string, a ...interface{}) {
	//nolint:errcheck
	fmt.Fprintf(w, format+"\n", a...)
}
