package cli

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/cvlab/powerline-pose/annotations"
	"github.com/cvlab/powerline-pose/dataset"
	"github.com/cvlab/powerline-pose/intrinsics"
)

// AnnotationsAction prints one row per annotated image of the annotations folder.
func AnnotationsAction(c *cli.Context) error {
	env, err := newPowerlineEnv(c)
	if err != nil {
		return err
	}
	selector, err := annotations.ParseCableSelector(c.String(flagCableSelector))
	if err != nil {
		return err
	}
	parser := annotations.NewParser(env.poses, env.logger.Sublogger("annotations"))
	images, err := parser.ParseFolder(env.conf.AnnotationsFolder)
	if err != nil {
		return errors.Wrap(err, "could not parse annotations")
	}

	maxHeight := c.Float64(flagMaxPoleHeight)
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Image", "Exclusions", "Poles", "Cables", "Cable length (px)", "Pose"})
	for i := range images {
		img := &images[i]
		cables, err := img.Cables(selector)
		if err != nil {
			return err
		}
		poles := img.AllPoles()
		if maxHeight > 0 {
			poles = img.Poles(maxHeight)
		}
		var length float64
		for _, cable := range cables {
			length += cable.Length()
		}
		poseInfo := "unknown"
		if img.Pose != nil {
			poseInfo = img.Pose.String()
		}
		t.AppendRow(table.Row{img.ImagePath, len(img.ExclusionZones), len(poles), len(cables),
			fmt.Sprintf("%.1f", length), poseInfo})
	}
	t.AppendFooter(table.Row{fmt.Sprintf("%d images", len(images))})
	printf(c.App.Writer, "%s", t.Render())
	return nil
}

// SequencesAction prints the folders of every dataset sequence.
func SequencesAction(c *cli.Context) error {
	env, err := newPowerlineEnv(c)
	if err != nil {
		return err
	}
	paths, err := dataset.ResolvePaths(env.conf.ImagesDir(), env.conf.DatasetFolder)
	if err != nil {
		return err
	}
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Sequence", "Recording", "Images", "Depth"})
	for _, s := range paths.Sequences {
		t.AppendRow(table.Row{s, dataset.RecordingName(s, env.conf.SequenceSeparator), paths.Images[s], paths.Depth[s]})
	}
	printf(c.App.Writer, "%s", t.Render())
	return nil
}

// SettingsAction generates the simulation settings YAML.
func SettingsAction(c *cli.Context) error {
	env, err := newPowerlineEnv(c)
	if err != nil {
		return err
	}
	registry, err := intrinsics.LoadRegistry(env.conf.IntrinsicsFile, env.logger.Sublogger("intrinsics"))
	if err != nil {
		return err
	}
	builder := dataset.NewBuilder(env.conf, registry, env.estimator, env.logger.Sublogger("dataset"))
	settings, err := builder.Build()
	if err != nil {
		return errors.Wrap(err, "could not build settings")
	}

	if output := c.String(flagOutput); output != "" {
		if err := settings.WriteFile(output); err != nil {
			return err
		}
		printf(c.App.Writer, "settings for %d sequences written to %s", len(settings.Sequences), output)
		return nil
	}
	return settings.WriteYAML(c.App.Writer)
}
