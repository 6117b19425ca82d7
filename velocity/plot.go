package velocity

import (
	"fmt"

	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// WritePlot renders the velocity profile of a recording to path. The image format follows the
// file extension (png, svg, pdf, ...). Timestamps are shown as seconds from the first frame.
func WritePlot(path, recording string, timestamps []int64, velocities []float64) error {
	if len(timestamps) != len(velocities) {
		return errors.Errorf("have %d timestamps but %d velocities", len(timestamps), len(velocities))
	}
	if len(timestamps) == 0 {
		return errors.New("nothing to plot")
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s - Camera Motion", recording)
	p.X.Label.Text = "Time (s)"
	p.Y.Label.Text = "Velocity (km/h)"

	pts := make(plotter.XYs, len(timestamps))
	for i, ts := range timestamps {
		pts[i] = plotter.XY{X: float64(ts-timestamps[0]) * secondsPerNano, Y: velocities[i]}
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	line.Width = vg.Points(1)
	p.Add(line, plotter.NewGrid())

	if err := p.Save(14*vg.Inch, 6*vg.Inch, path); err != nil {
		return errors.Wrapf(err, "save velocity plot %q", path)
	}
	return nil
}
