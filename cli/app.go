// Package cli contains the powerline command line tool.
package cli

import (
	"io"

	"github.com/urfave/cli/v2"
)

// Flags.
const (
	flagConfig        = "config"
	flagDebug         = "debug"
	flagOutput        = "output"
	flagReference     = "reference"
	flagCurrent       = "current"
	flagConvention    = "convention"
	flagCableSelector = "cable-selector"
	flagMaxPoleHeight = "max-pole-height"
	flagSequence      = "sequence"
)

var app = &cli.App{
	Name:            "powerline",
	Usage:           "prepare power line datasets from recorded camera poses",
	HideHelpCommand: true,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    flagConfig,
			Aliases: []string{"c"},
			Usage:   "load configuration from `FILE`",
			Value:   "powerline.yaml",
		},
		&cli.BoolFlag{
			Name:    flagDebug,
			Aliases: []string{"vvv"},
			Usage:   "enable debug logging",
		},
	},
	Commands: []*cli.Command{
		{
			Name:      "velocities",
			Usage:     "estimate per-frame camera speeds of a recording",
			ArgsUsage: "<recording> [timestamp...]",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  flagSequence,
					Usage: "read timestamps from the frames of a dataset `SEQUENCE` instead of the arguments",
				},
			},
			Action: VelocitiesAction,
		},
		{
			Name:      "plot",
			Usage:     "plot the velocity profile of a recording",
			ArgsUsage: "<recording> [timestamp...]",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  flagSequence,
					Usage: "read timestamps from the frames of a dataset `SEQUENCE` instead of the arguments",
				},
				&cli.StringFlag{
					Name:     flagOutput,
					Aliases:  []string{"o"},
					Usage:    "write the chart to `FILE` (png, svg or pdf)",
					Required: true,
				},
			},
			Action: PlotAction,
		},
		{
			Name:  "relpose",
			Usage: "relative rotation and translation between two poses",
			UsageText: "powerline relpose --reference lat,lon,alt,yaw,pitch,roll --current lat,lon,alt,yaw,pitch,roll " +
				"[--convention xyz|frd]",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     flagReference,
					Usage:    "reference pose as six comma separated values, angles in degrees",
					Required: true,
				},
				&cli.StringFlag{
					Name:     flagCurrent,
					Usage:    "current pose as six comma separated values, angles in degrees",
					Required: true,
				},
				&cli.StringFlag{
					Name:  flagConvention,
					Usage: "quaternion convention of the relative rotation (xyz or frd)",
					Value: "xyz",
				},
			},
			Action: RelativePoseAction,
		},
		{
			Name:  "annotations",
			Usage: "summarize the annotation exports of the annotations folder",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  flagCableSelector,
					Usage: "cables to count (visible, inferred or all)",
					Value: "all",
				},
				&cli.Float64Flag{
					Name:  flagMaxPoleHeight,
					Usage: "only count poles up to this height in pixels, 0 for all",
				},
			},
			Action: AnnotationsAction,
		},
		{
			Name:   "sequences",
			Usage:  "list the sequences of the dataset and their folders",
			Action: SequencesAction,
		},
		{
			Name:  "settings",
			Usage: "generate the simulation settings of the dataset",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    flagOutput,
					Aliases: []string{"o"},
					Usage:   "write the settings to `FILE` instead of stdout",
				},
			},
			Action: SettingsAction,
		},
	},
}

// NewApp returns a new app with the CLI API, Writer set to out, and ErrWriter
// set to errOut.
func NewApp(out, errOut io.Writer) *cli.App {
	app.Writer = out
	app.ErrWriter = errOut
	return app
}
