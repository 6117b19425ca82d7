package spatialmath

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/num/quat"

	"github.com/cvlab/powerline-pose/utils"
)

// represent a 45 degree rotation around the x axis
var (
	th   = math.Pi / 4.
	q45x = quat.Number{Real: math.Cos(th / 2.), Imag: math.Sin(th / 2.)}
)

func TestAxisAngleToQuat(t *testing.T) {
	aa := &R4AA{th, 3., 0., 0.}
	test.That(t, QuaternionAlmostEqual(aa.ToQuat(), q45x, 1e-12), test.ShouldBeTrue)
	test.That(t, aa.RX, test.ShouldAlmostEqual, 1)

	test.That(t, QuaternionFromRotationVector(r3.Vector{}), test.ShouldResemble, IdentityQuaternion)
	test.That(t, QuaternionAlmostEqual(QuaternionFromRotationVector(r3.Vector{X: th}), q45x, 1e-12), test.ShouldBeTrue)

	r4 := R3ToR4(r3.Vector{X: 0, Y: -2, Z: 0})
	test.That(t, r4.Theta, test.ShouldAlmostEqual, 2)
	test.That(t, r4.RY, test.ShouldAlmostEqual, -1)
	test.That(t, r4.ToR3().Y, test.ShouldAlmostEqual, -2)
}

func TestQuaternionDivide(t *testing.T) {
	q := NewEulerRotationFromDegrees(12, 34, 56).QuaternionXYZ()
	test.That(t, QuaternionAlmostEqual(QuaternionDivide(q, q), IdentityQuaternion, 1e-12), test.ShouldBeTrue)

	// (a / b) * b == a
	a := NewEulerRotationFromDegrees(-70, 5, 0).QuaternionFRD()
	rel := QuaternionDivide(a, q)
	test.That(t, QuaternionAlmostEqual(quat.Mul(rel, q), a, 1e-12), test.ShouldBeTrue)
}

func TestRotationMatrixMatchesRotateVector(t *testing.T) {
	q := NewEulerRotationFromDegrees(25, -40, 75).QuaternionFRD()
	m := QuaternionToRotationMatrix(q)
	v := r3.Vector{X: 1.5, Y: -2, Z: 0.25}

	byMatrix := MatrixTimesVector(m, v)
	byQuat := RotateVector(q, v)
	test.That(t, byMatrix.X, test.ShouldAlmostEqual, byQuat.X)
	test.That(t, byMatrix.Y, test.ShouldAlmostEqual, byQuat.Y)
	test.That(t, byMatrix.Z, test.ShouldAlmostEqual, byQuat.Z)

	test.That(t, mat.Det(m), test.ShouldAlmostEqual, 1)

	// scaling the quaternion does not change the rotation
	scaled := QuaternionToRotationMatrix(quat.Scale(3, q))
	test.That(t, mat.EqualApprox(m, scaled, 1e-12), test.ShouldBeTrue)
}

func TestRotationMatrixIdentity(t *testing.T) {
	m := QuaternionToRotationMatrix(IdentityQuaternion)
	test.That(t, mat.Equal(m, mat.NewDense(3, 3, []float64{1, 0, 0, 0, 1, 0, 0, 0, 1})), test.ShouldBeTrue)
}

func TestConventionTable(t *testing.T) {
	for tag, want := range map[string]Convention{"xyz": ConventionXYZ, "frd": ConventionFRD} {
		conv, err := ParseConvention(tag)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, conv, test.ShouldEqual, want)
		test.That(t, conv.String(), test.ShouldEqual, tag)
	}

	_, err := ParseConvention("ned")
	test.That(t, utils.IsInvalidArgument(err), test.ShouldBeTrue)
	test.That(t, err.Error(), test.ShouldContainSubstring, "ned")

	er := NewEulerRotationFromDegrees(1, 2, 3)
	q, err := ConventionFRD.Quaternion(er)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, q, test.ShouldResemble, er.QuaternionFRD())

	_, err = Convention(7).Quaternion(er)
	test.That(t, utils.IsInvalidArgument(err), test.ShouldBeTrue)
	test.That(t, Convention(7).String(), test.ShouldEqual, "unknown")
}
