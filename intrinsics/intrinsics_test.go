package intrinsics

import (
	"os"
	"path/filepath"
	"testing"

	"go.viam.com/test"
	"gonum.org/v1/gonum/mat"

	"github.com/cvlab/powerline-pose/logging"
	"github.com/cvlab/powerline-pose/utils"
)

func TestCheckValid(t *testing.T) {
	var nilParams *PinholeCameraIntrinsics
	test.That(t, nilParams.CheckValid(), test.ShouldBeError)

	params := Default
	test.That(t, params.CheckValid(), test.ShouldBeNil)

	params.Fx = 0
	err := params.CheckValid()
	test.That(t, err, test.ShouldBeError)
	test.That(t, err.Error(), test.ShouldContainSubstring, "Invalid focal length Fx")

	params = Default
	params.Ppy = -1
	test.That(t, params.CheckValid().Error(), test.ShouldContainSubstring, "Ppy")
}

func TestMatrix(t *testing.T) {
	k := Default.Matrix()
	test.That(t, k.At(0, 0), test.ShouldEqual, 2392.403520)
	test.That(t, k.At(1, 1), test.ShouldEqual, 2394.356632)
	test.That(t, k.At(0, 2), test.ShouldEqual, 2042.665689)
	test.That(t, k.At(1, 2), test.ShouldEqual, 1485.345314)
	test.That(t, k.At(2, 2), test.ShouldEqual, 1.0)
	test.That(t, k.At(1, 0), test.ShouldEqual, 0.0)
}

func TestPointToPixel(t *testing.T) {
	params := PinholeCameraIntrinsics{Fx: 100, Fy: 100, Ppx: 50, Ppy: 40}
	x, y := params.PointToPixel(1, -1, 10)
	test.That(t, x, test.ShouldEqual, 60.0)
	test.That(t, y, test.ShouldEqual, 30.0)

	x, y = params.PointToPixel(1, 1, 0)
	test.That(t, x, test.ShouldEqual, -1.0)
	test.That(t, y, test.ShouldEqual, -1.0)
}

func TestFocalLengthMM(t *testing.T) {
	k := NewIntrinsicMatrix(2000, 2200, 0, 0)
	test.That(t, FocalLengthMM(k, 19.0464, 4096), test.ShouldAlmostEqual, 2100*19.0464/4096)
}

func TestRegistry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "intrinsics.json")
	content := `{"2021-06-01/cam0": {"fx": 2400, "fy": 2410, "ppx": 2048, "ppy": 1500}}`
	test.That(t, os.WriteFile(path, []byte(content), 0o600), test.ShouldBeNil)

	logger, logs := logging.NewObservedTestLogger(t)
	reg, err := LoadRegistry(path, logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, reg.Len(), test.ShouldEqual, 1)

	t.Run("known recording", func(t *testing.T) {
		k := reg.Lookup("2021-06-01/cam0", true)
		test.That(t, k.At(0, 0), test.ShouldEqual, 2400.0)
		test.That(t, k.At(1, 2), test.ShouldEqual, 1500.0)
		test.That(t, logs.FilterMessageSnippet("not found").Len(), test.ShouldEqual, 0)
	})

	t.Run("empty recording", func(t *testing.T) {
		test.That(t, mat.Equal(reg.Lookup("", true), Default.Matrix()), test.ShouldBeTrue)
		test.That(t, logs.FilterMessageSnippet("not found").Len(), test.ShouldEqual, 0)
	})

	t.Run("unknown recording", func(t *testing.T) {
		test.That(t, mat.Equal(reg.Lookup("other/cam1", false), Default.Matrix()), test.ShouldBeTrue)
		test.That(t, logs.FilterMessageSnippet("not found").Len(), test.ShouldEqual, 0)

		test.That(t, mat.Equal(reg.Lookup("other/cam1", true), Default.Matrix()), test.ShouldBeTrue)
		test.That(t, logs.FilterMessageSnippet("other/cam1").Len(), test.ShouldEqual, 1)
	})

	t.Run("lookup returns a copy", func(t *testing.T) {
		k := reg.Lookup("", false)
		k.Set(0, 0, -1)
		test.That(t, reg.Lookup("", false).At(0, 0), test.ShouldEqual, Default.Fx)
	})
}

func TestLoadRegistryErrors(t *testing.T) {
	logger := logging.NewTestLogger(t)

	reg, err := LoadRegistry("", logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, reg.Len(), test.ShouldEqual, 0)

	_, err = LoadRegistry(filepath.Join(t.TempDir(), "missing.json"), logger)
	test.That(t, utils.IsMissingResource(err), test.ShouldBeTrue)

	bad := filepath.Join(t.TempDir(), "bad.json")
	test.That(t, os.WriteFile(bad, []byte(`{"rec": {"fx": -1, "fy": 1}}`), 0o600), test.ShouldBeNil)
	_, err = LoadRegistry(bad, logger)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, `recording "rec"`)

	garbled := filepath.Join(t.TempDir(), "garbled.json")
	test.That(t, os.WriteFile(garbled, []byte(`[1, 2`), 0o600), test.ShouldBeNil)
	_, err = LoadRegistry(garbled, logger)
	test.That(t, err.Error(), test.ShouldContainSubstring, "error parsing intrinsics file")
}
