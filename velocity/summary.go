package velocity

import (
	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"
)

// Summary describes a velocity profile.
type Summary struct {
	Count  int
	Min    float64
	Max    float64
	Mean   float64
	Median float64
	StdDev float64
	P90    float64
}

// Summarize computes Summary statistics of velocities.
func Summarize(velocities []float64) (Summary, error) {
	if len(velocities) == 0 {
		return Summary{}, errors.New("no velocities to summarize")
	}
	data := stats.Float64Data(velocities)

	var (
		s   = Summary{Count: len(velocities)}
		err error
	)
	if s.Min, err = data.Min(); err != nil {
		return Summary{}, err
	}
	if s.Max, err = data.Max(); err != nil {
		return Summary{}, err
	}
	if s.Mean, err = data.Mean(); err != nil {
		return Summary{}, err
	}
	if s.Median, err = data.Median(); err != nil {
		return Summary{}, err
	}
	if s.StdDev, err = data.StandardDeviation(); err != nil {
		return Summary{}, err
	}
	if s.P90, err = data.Percentile(90); err != nil {
		return Summary{}, err
	}
	return s, nil
}
