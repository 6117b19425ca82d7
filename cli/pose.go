package cli

import (
	"fmt"
	"slices"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/cvlab/powerline-pose/pose"
	"github.com/cvlab/powerline-pose/spatialmath"
	"github.com/cvlab/powerline-pose/velocity"
)

// VelocitiesAction prints the estimated speed of every frame of a recording.
func VelocitiesAction(c *cli.Context) error {
	env, err := newPowerlineEnv(c)
	if err != nil {
		return err
	}
	recording, timestamps, err := env.recordingTimestamps(c)
	if err != nil {
		return err
	}
	velocities, err := env.estimator.CameraMotionVelocities(recording, timestamps)
	if err != nil {
		return errors.Wrap(err, "could not estimate velocities")
	}
	if len(velocities) == 0 {
		printf(c.App.Writer, "no frames for recording %q", recording)
		return nil
	}

	sorted := slices.Clone(timestamps)
	slices.Sort(sorted)

	t := table.NewWriter()
	t.AppendHeader(table.Row{"#", "Timestamp", "Velocity (km/h)"})
	for i, v := range velocities {
		t.AppendRow(table.Row{i, sorted[i], fmt.Sprintf("%.2f", v)})
	}
	summary, err := velocity.Summarize(velocities)
	if err != nil {
		return err
	}
	t.AppendFooter(table.Row{"", "mean / median", fmt.Sprintf("%.2f / %.2f", summary.Mean, summary.Median)})
	printf(c.App.Writer, "Velocities for %q:", recording)
	printf(c.App.Writer, "%s", t.Render())
	return nil
}

// PlotAction writes a chart of the velocity profile of a recording.
func PlotAction(c *cli.Context) error {
	env, err := newPowerlineEnv(c)
	if err != nil {
		return err
	}
	recording, timestamps, err := env.recordingTimestamps(c)
	if err != nil {
		return err
	}
	velocities, err := env.estimator.CameraMotionVelocities(recording, timestamps)
	if err != nil {
		return errors.Wrap(err, "could not estimate velocities")
	}
	sorted := slices.Clone(timestamps)
	slices.Sort(sorted)

	output := c.String(flagOutput)
	if err := velocity.WritePlot(output, recording, sorted, velocities); err != nil {
		return err
	}
	printf(c.App.Writer, "velocity plot written to %s", output)
	return nil
}

// RelativePoseAction prints the rotation and translation from --reference to --current.
func RelativePoseAction(c *cli.Context) error {
	env, err := newPowerlineEnv(c)
	if err != nil {
		return err
	}
	conv, err := spatialmath.ParseConvention(c.String(flagConvention))
	if err != nil {
		return err
	}
	reference, err := parsePoseFlag(c, flagReference)
	if err != nil {
		return err
	}
	current, err := parsePoseFlag(c, flagCurrent)
	if err != nil {
		return err
	}

	q, err := pose.RelativeRotation(reference, current, conv)
	if err != nil {
		return err
	}
	rot := spatialmath.QuaternionToRotationMatrix(q)
	tr := env.calc.RelativeTranslation(reference, current)

	t := table.NewWriter()
	t.AppendHeader(table.Row{"Quantity", "Value"})
	t.AppendRow(table.Row{"Rotation (" + conv.String() + ")",
		fmt.Sprintf("W:%.6f, X:%.6f, Y:%.6f, Z:%.6f", q.Real, q.Imag, q.Jmag, q.Kmag)})
	for i := 0; i < 3; i++ {
		t.AppendRow(table.Row{fmt.Sprintf("Rotation row %d", i),
			fmt.Sprintf("%.6f, %.6f, %.6f", rot.At(i, 0), rot.At(i, 1), rot.At(i, 2))})
	}
	t.AppendRow(table.Row{"Translation (m)", fmt.Sprintf("Right:%.3f, Down:%.3f, Forward:%.3f", tr.X, tr.Y, tr.Z)})
	t.AppendRow(table.Row{"Distance (m)", fmt.Sprintf("%.3f", tr.Norm())})
	t.AppendRow(table.Row{"Great circle (m)",
		fmt.Sprintf("%.3f", reference.Position.GreatCircleDistance(current.Position))})
	t.AppendRow(table.Row{"Bearing (deg)", fmt.Sprintf("%.3f", reference.Position.BearingTo(current.Position))})
	printf(c.App.Writer, "%s", t.Render())
	return nil
}
