package annotations

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/golang/geo/r2"
	"go.viam.com/test"

	"github.com/cvlab/powerline-pose/logging"
	"github.com/cvlab/powerline-pose/pose"
	"github.com/cvlab/powerline-pose/utils"
)

const firstExport = `<?xml version="1.0" encoding="utf-8"?>
<annotations>
  <version>1.1</version>
  <image id="0" name="export/images/2021-06-01/cam0/1622548800000000000.png" width="4096" height="3000">
    <box label="Exclusion" occluded="0" xtl="10" ytl="20" xbr="110" ybr="70"></box>
    <box label="Tower" occluded="0" xtl="500" ytl="100" xbr="600" ybr="900"></box>
    <box label="Stick" occluded="0" xtl="1000" ytl="400" xbr="1020" ybr="500"></box>
    <box label="Tree" occluded="0" xtl="0" ytl="0" xbr="1" ybr="1"></box>
    <polyline label="Cable visible" occluded="0" points="0,0;3,4;6,8"></polyline>
    <polyline label="Cable inferred" occluded="0" points="10,10;10,20"></polyline>
    <polyline label="Road" occluded="0" points="1,1;2,2"></polyline>
  </image>
</annotations>`

const secondExport = `<annotations>
  <image id="1" name="2021-06-01/cam0/frame.png"></image>
</annotations>`

func writeExports(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		test.That(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600), test.ShouldBeNil)
	}
	return dir
}

func TestFixImagePath(t *testing.T) {
	for _, tc := range []struct {
		in, out string
	}{
		{"2021-06-01/cam0/1.png", "2021-06-01/cam0/1.png"},
		{"export/images/2021-06-01/cam0/1.png", "2021-06-01/cam0/1.png"},
		{"/abs/export/2021-06-01/cam0/1.png", "2021-06-01/cam0/1.png"},
	} {
		got, err := FixImagePath(tc.in)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, got, test.ShouldEqual, tc.out)
	}

	_, err := FixImagePath("cam0/1.png")
	test.That(t, utils.IsInvalidArgument(err), test.ShouldBeTrue)
}

func TestSelectors(t *testing.T) {
	lt, err := LineTypeFromSelector("visible")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, lt, test.ShouldEqual, LineVisibleCable)
	lt, err = LineTypeFromSelector("all")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, lt, test.ShouldEqual, LineVisibleOrInferred)
	_, err = LineTypeFromSelector("inferred")
	test.That(t, utils.IsInvalidArgument(err), test.ShouldBeTrue)

	cs, err := ParseCableSelector("inferred")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cs, test.ShouldEqual, SelectInferred)
	_, err = ParseCableSelector("some")
	test.That(t, utils.IsInvalidArgument(err), test.ShouldBeTrue)
	test.That(t, err.Error(), test.ShouldContainSubstring, `"some"`)

	_, err = ParsePoleType("Tree")
	test.That(t, utils.IsInvalidArgument(err), test.ShouldBeTrue)
	test.That(t, PoleStick.String(), test.ShouldEqual, "Stick")
}

func TestCableLine(t *testing.T) {
	cl := CableLine{Points: []r2.Point{{X: 0, Y: 0}, {X: 3, Y: 4}, {X: 6, Y: 8}}, Type: LineVisibleOrInferred}
	test.That(t, cl.Length(), test.ShouldAlmostEqual, 10)
	test.That(t, cl.IsVisibleOrInferred(), test.ShouldBeTrue)
	test.That(t, cl.IsVisible(), test.ShouldBeFalse)
	test.That(t, CableLine{}.Length(), test.ShouldEqual, 0.0)

	_, err := parsePoints("1,2;3")
	test.That(t, utils.IsInvalidArgument(err), test.ShouldBeTrue)
}

func TestParseFolder(t *testing.T) {
	dir := writeExports(t, map[string]string{
		"a.xml":     firstExport,
		"b.xml":     secondExport,
		".DS_Store": "binary junk",
	})
	poseRoot := t.TempDir()
	store := pose.NewFileStore(poseRoot)
	want := pose.NewCameraPose(46.52, 6.565, 500, 0, 0, 0)
	test.That(t, pose.WritePoseFile(store.Path("2021-06-01/cam0", 1622548800000000000), want), test.ShouldBeNil)

	images, err := ParseFolder(dir, store, logging.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, images, test.ShouldHaveLength, 2)

	first := images[0]
	test.That(t, first.ImagePath, test.ShouldEqual, "2021-06-01/cam0/1622548800000000000.png")
	test.That(t, first.Recording(), test.ShouldEqual, "2021-06-01/cam0")
	ts, err := first.FrameTimestamp()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, ts, test.ShouldEqual, int64(1622548800000000000))

	test.That(t, first.ExclusionZones, test.ShouldHaveLength, 1)
	test.That(t, first.ExclusionZones[0].Width(), test.ShouldEqual, 100.0)
	test.That(t, first.ExclusionZones[0].Height(), test.ShouldEqual, 50.0)

	test.That(t, first.AllPoles(), test.ShouldHaveLength, 2)
	test.That(t, first.PowerlinePoles[0].IsTower(), test.ShouldBeTrue)
	test.That(t, first.PowerlinePoles[0].Center(), test.ShouldResemble, r2.Point{X: 550, Y: 500})
	test.That(t, first.Poles(200), test.ShouldHaveLength, 1)
	test.That(t, first.Poles(200)[0].IsStick(), test.ShouldBeTrue)

	test.That(t, first.CableLines, test.ShouldHaveLength, 2)
	test.That(t, first.VisibleCables(), test.ShouldHaveLength, 1)
	test.That(t, first.VisibleCables()[0].Length(), test.ShouldAlmostEqual, 10)
	inferred, err := first.Cables(SelectInferred)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, inferred, test.ShouldHaveLength, 1)
	all, err := first.Cables(SelectAll)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, all, test.ShouldHaveLength, 2)
	_, err = first.Cables(CableSelector(9))
	test.That(t, utils.IsInvalidArgument(err), test.ShouldBeTrue)

	test.That(t, first.Pose, test.ShouldNotBeNil)
	test.That(t, first.Pose.Position, test.ShouldResemble, want.Position)

	second := images[1]
	test.That(t, second.Pose, test.ShouldBeNil)
	test.That(t, second.CableLines, test.ShouldBeEmpty)
	_, err = second.FrameTimestamp()
	test.That(t, utils.IsInvalidArgument(err), test.ShouldBeTrue)
}

func TestParseFolderWithoutPoses(t *testing.T) {
	dir := writeExports(t, map[string]string{"a.xml": firstExport})
	images, err := NewParser(nil, logging.NewTestLogger(t)).ParseFolder(dir)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, images, test.ShouldHaveLength, 1)
	test.That(t, images[0].Pose, test.ShouldBeNil)
}

func TestParseFolderErrors(t *testing.T) {
	logger := logging.NewTestLogger(t)

	_, err := ParseFolder(filepath.Join(t.TempDir(), "missing"), nil, logger)
	test.That(t, utils.IsMissingResource(err), test.ShouldBeTrue)

	dir := writeExports(t, map[string]string{
		"a.xml": "<annotations><image",
		"b.xml": `<annotations><image name="x.png"/></annotations>`,
		"c.xml": firstExport,
	})
	_, err = ParseFolder(dir, nil, logger)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "a.xml")
	test.That(t, err.Error(), test.ShouldContainSubstring, "b.xml")
	test.That(t, err.Error(), test.ShouldNotContainSubstring, "c.xml")
}
