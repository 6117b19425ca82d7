package velocity

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"go.viam.com/test"

	"github.com/cvlab/powerline-pose/geodesy"
	"github.com/cvlab/powerline-pose/logging"
	"github.com/cvlab/powerline-pose/pose"
)

const second = int64(1e9)

func newTestEstimator(t *testing.T) (*Estimator, *pose.FileStore) {
	t.Helper()
	store := pose.NewFileStore(t.TempDir())
	calc := pose.NewCalculator(geodesy.MustProjector())
	return NewEstimator(store, calc, logging.NewTestLogger(t)), store
}

func writePose(t *testing.T, store *pose.FileStore, recording string, ts int64, lat float64) {
	t.Helper()
	cp := pose.NewCameraPose(lat, 6.565, 500, 0, 0, 0)
	test.That(t, pose.WritePoseFile(store.Path(recording, ts), cp), test.ShouldBeNil)
}

func TestSingleAndEmpty(t *testing.T) {
	est, _ := newTestEstimator(t)

	v, err := est.CameraMotionVelocities("rec", []int64{100})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, v, test.ShouldResemble, []float64{DefaultSpeedKmh})

	v, err = est.CameraMotionVelocities("rec", nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, v, test.ShouldBeEmpty)
}

func TestMeasuredVelocity(t *testing.T) {
	est, store := newTestEstimator(t)
	writePose(t, store, "rec", 0, 46.520)
	writePose(t, store, "rec", second, 46.521)

	v, err := est.CameraMotionVelocities("rec", []int64{0, second})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, v, test.ShouldHaveLength, 2)
	test.That(t, v[0], test.ShouldAlmostEqual, 111.16*3.6, 0.5)
	test.That(t, v[1], test.ShouldEqual, v[0])
}

func TestUnsortedTimestamps(t *testing.T) {
	est, store := newTestEstimator(t)
	writePose(t, store, "rec", 0, 46.520)
	writePose(t, store, "rec", second, 46.521)
	writePose(t, store, "rec", 3*second, 46.523)

	v, err := est.CameraMotionVelocities("rec", []int64{3 * second, 0, second})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, v, test.ShouldHaveLength, 3)
	test.That(t, v[0], test.ShouldAlmostEqual, 400.2, 0.5)
	test.That(t, v[1], test.ShouldAlmostEqual, 400.2, 0.5)
	test.That(t, v[2], test.ShouldAlmostEqual, 400.2, 0.5)
}

func TestDegenerateIntervals(t *testing.T) {
	t.Run("both poses missing", func(t *testing.T) {
		est, _ := newTestEstimator(t)
		v, err := est.CameraMotionVelocities("rec", []int64{0, second})
		test.That(t, err, test.ShouldBeNil)
		test.That(t, v, test.ShouldResemble, []float64{DefaultSpeedKmh, DefaultSpeedKmh})
	})

	t.Run("one pose missing", func(t *testing.T) {
		est, store := newTestEstimator(t)
		writePose(t, store, "rec", 0, 46.520)
		writePose(t, store, "rec", 2*second, 46.522)

		v, err := est.CameraMotionVelocities("rec", []int64{0, second, 2 * second})
		test.That(t, err, test.ShouldBeNil)
		test.That(t, v, test.ShouldResemble, []float64{DefaultSpeedKmh, DefaultSpeedKmh, DefaultSpeedKmh})
	})

	t.Run("equal timestamps", func(t *testing.T) {
		est, store := newTestEstimator(t)
		writePose(t, store, "rec", 5, 46.520)

		v, err := est.CameraMotionVelocities("rec", []int64{5, 5})
		test.That(t, err, test.ShouldBeNil)
		test.That(t, v, test.ShouldResemble, []float64{DefaultSpeedKmh, DefaultSpeedKmh})
	})
}

func TestMalformedPoseFails(t *testing.T) {
	est, store := newTestEstimator(t)
	writePose(t, store, "rec", 0, 46.520)
	test.That(t, os.WriteFile(store.Path("rec", second), []byte("garbage\n"), 0o600), test.ShouldBeNil)

	_, err := est.CameraMotionVelocities("rec", []int64{0, second})
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, `recording "rec"`)
}

func TestSubstituteDefaults(t *testing.T) {
	in := []float64{0, 12.5, math.NaN(), math.Inf(1), math.Inf(-1), -3}
	out := SubstituteDefaults(in)
	test.That(t, out, test.ShouldResemble, []float64{60, 12.5, 60, 60, 60, -3})
	test.That(t, in[0], test.ShouldEqual, 0.0)
	test.That(t, math.IsNaN(in[2]), test.ShouldBeTrue)
	test.That(t, SubstituteDefaults(nil), test.ShouldBeEmpty)
}

func TestSummarize(t *testing.T) {
	s, err := Summarize([]float64{10, 20, 30, 40})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, s.Count, test.ShouldEqual, 4)
	test.That(t, s.Min, test.ShouldEqual, 10.0)
	test.That(t, s.Max, test.ShouldEqual, 40.0)
	test.That(t, s.Mean, test.ShouldAlmostEqual, 25)
	test.That(t, s.Median, test.ShouldAlmostEqual, 25)
	test.That(t, s.StdDev, test.ShouldAlmostEqual, math.Sqrt(125), 1e-9)

	_, err = Summarize(nil)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestWritePlot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rec.png")
	err := WritePlot(path, "rec", []int64{0, second, 2 * second}, []float64{50, 60, 55})
	test.That(t, err, test.ShouldBeNil)
	info, err := os.Stat(path)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, info.Size(), test.ShouldBeGreaterThan, 0)

	test.That(t, WritePlot(path, "rec", []int64{0}, nil), test.ShouldNotBeNil)
	test.That(t, WritePlot(path, "rec", nil, nil), test.ShouldNotBeNil)
}
