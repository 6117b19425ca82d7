package spatialmath

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
	"gonum.org/v1/gonum/num/quat"
)

func TestZeroRotationIsIdentity(t *testing.T) {
	zero := NewEulerRotationFromDegrees(0, 0, 0)
	test.That(t, QuaternionAlmostEqual(zero.QuaternionXYZ(), IdentityQuaternion, 1e-12), test.ShouldBeTrue)
	test.That(t, QuaternionAlmostEqual(zero.QuaternionFRD(), IdentityQuaternion, 1e-12), test.ShouldBeTrue)
}

func TestFromDegrees(t *testing.T) {
	er := NewEulerRotationFromDegrees(90, -45, 180)
	test.That(t, er.Yaw, test.ShouldAlmostEqual, math.Pi/2)
	test.That(t, er.Pitch, test.ShouldAlmostEqual, -math.Pi/4)
	test.That(t, er.Roll, test.ShouldAlmostEqual, math.Pi)

	back := er.InDegrees()
	test.That(t, back.Yaw, test.ShouldAlmostEqual, 90.0)
	test.That(t, back.Pitch, test.ShouldAlmostEqual, -45.0)
	test.That(t, back.Roll, test.ShouldAlmostEqual, 180.0)
}

func TestFromDirection(t *testing.T) {
	t.Run("forward", func(t *testing.T) {
		er := EulerRotationFromDirection(r3.Vector{X: 0, Y: 0, Z: 1})
		test.That(t, er.Yaw, test.ShouldAlmostEqual, 0)
		test.That(t, er.Pitch, test.ShouldAlmostEqual, 0)
		test.That(t, er.Roll, test.ShouldAlmostEqual, 0)
	})
	t.Run("right and unnormalized", func(t *testing.T) {
		er := EulerRotationFromDirection(r3.Vector{X: 5, Y: 0, Z: 0})
		test.That(t, er.Yaw, test.ShouldAlmostEqual, math.Pi/2)
		test.That(t, er.Pitch, test.ShouldAlmostEqual, 0)
	})
	t.Run("positive up component gives negative pitch", func(t *testing.T) {
		er := EulerRotationFromDirection(r3.Vector{X: 0, Y: 1, Z: 1})
		test.That(t, er.Yaw, test.ShouldAlmostEqual, 0)
		test.That(t, er.Pitch, test.ShouldAlmostEqual, -math.Pi/4)
	})
	t.Run("vertical direction stays finite", func(t *testing.T) {
		er := EulerRotationFromDirection(r3.Vector{X: 0, Y: -2, Z: 0})
		test.That(t, math.IsNaN(er.Yaw), test.ShouldBeFalse)
		test.That(t, er.Pitch, test.ShouldAlmostEqual, math.Pi/2, 1e-6)
		test.That(t, er.Roll, test.ShouldEqual, 0)
	})
}

func TestXYZQuaternionRoundTripsThroughDirection(t *testing.T) {
	forward := r3.Vector{X: 0, Y: 0, Z: 1}
	for _, degrees := range [][3]float64{{30, 10, 0}, {-120, -35, 15}, {170, 60, -80}, {0, -89, 45}} {
		er := NewEulerRotationFromDegrees(degrees[0], degrees[1], degrees[2])
		direction := RotateVector(er.QuaternionXYZ(), forward)
		recovered := EulerRotationFromDirection(direction)
		test.That(t, recovered.Yaw, test.ShouldAlmostEqual, er.Yaw, 1e-9)
		test.That(t, recovered.Pitch, test.ShouldAlmostEqual, er.Pitch, 1e-9)
	}
}

func TestXYZElementalRotations(t *testing.T) {
	half := math.Sqrt(2) / 2

	yaw := NewEulerRotationFromDegrees(90, 0, 0).QuaternionXYZ()
	test.That(t, QuaternionAlmostEqual(yaw, quat.Number{Real: half, Jmag: half}, 1e-12), test.ShouldBeTrue)

	pitch := NewEulerRotationFromDegrees(0, 90, 0).QuaternionXYZ()
	test.That(t, QuaternionAlmostEqual(pitch, quat.Number{Real: half, Imag: half}, 1e-12), test.ShouldBeTrue)

	roll := NewEulerRotationFromDegrees(0, 0, 90).QuaternionXYZ()
	test.That(t, QuaternionAlmostEqual(roll, quat.Number{Real: half, Kmag: half}, 1e-12), test.ShouldBeTrue)
}

func TestFRDQuaternion(t *testing.T) {
	forward := r3.Vector{X: 1, Y: 0, Z: 0}

	// yawing right by 90 degrees points the nose east
	east := RotateVector(NewEulerRotationFromDegrees(90, 0, 0).QuaternionFRD(), forward)
	test.That(t, east.X, test.ShouldAlmostEqual, 0)
	test.That(t, east.Y, test.ShouldAlmostEqual, 1)
	test.That(t, east.Z, test.ShouldAlmostEqual, 0)

	// pitching up by 30 degrees lifts the nose, i.e. negative down
	up := RotateVector(NewEulerRotationFromDegrees(0, 30, 0).QuaternionFRD(), forward)
	test.That(t, up.X, test.ShouldAlmostEqual, math.Cos(math.Pi/6))
	test.That(t, up.Z, test.ShouldAlmostEqual, -0.5)

	q := NewEulerRotationFromDegrees(33, -12, 71).QuaternionFRD()
	test.That(t, quat.Abs(q), test.ShouldAlmostEqual, 1)
}

func TestConventionsDiffer(t *testing.T) {
	er := NewEulerRotationFromDegrees(40, 20, 10)
	test.That(t, OrientationAlmostEqual(er.QuaternionXYZ(), er.QuaternionFRD(), 1e-6), test.ShouldBeFalse)
}

func TestEulerRotationIsComparable(t *testing.T) {
	seen := map[EulerRotation]int{}
	seen[NewEulerRotationFromDegrees(10, 20, 30)]++
	seen[NewEulerRotationFromDegrees(10, 20, 30)]++
	test.That(t, seen, test.ShouldHaveLength, 1)
}
