package pose

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/num/quat"

	"github.com/cvlab/powerline-pose/geodesy"
	"github.com/cvlab/powerline-pose/spatialmath"
)

// RelativeRotation returns the orientation of current relative to reference, current / reference,
// in the given convention.
//
// Both orientations are taken as-is in their own local tangent planes. The result is only
// meaningful when the two poses are close enough that those planes are effectively parallel; no
// distance check is made.
func RelativeRotation(reference, current CameraPose, conv spatialmath.Convention) (quat.Number, error) {
	refQuat, err := conv.Quaternion(reference.Rotation)
	if err != nil {
		return quat.Number{}, err
	}
	curQuat, err := conv.Quaternion(current.Rotation)
	if err != nil {
		return quat.Number{}, err
	}
	return spatialmath.QuaternionDivide(curQuat, refQuat), nil
}

// RelativeRotationMatrix is RelativeRotation expressed as a 3x3 rotation matrix.
func RelativeRotationMatrix(reference, current CameraPose, conv spatialmath.Convention) (*mat.Dense, error) {
	q, err := RelativeRotation(reference, current, conv)
	if err != nil {
		return nil, err
	}
	return spatialmath.QuaternionToRotationMatrix(q), nil
}

// Calculator computes displacements between poses. It only reads its projector and can be shared.
type Calculator struct {
	proj *geodesy.Projector
}

// NewCalculator returns a Calculator using the given projector.
func NewCalculator(proj *geodesy.Projector) *Calculator {
	return &Calculator{proj: proj}
}

// RelativeTranslation returns the displacement from reference to current in metres, in the
// reference camera's body frame ordered (right, down, forward).
func (c *Calculator) RelativeTranslation(reference, current CameraPose) r3.Vector {
	earthDiff := current.Position.ToGeocentricXYZ(c.proj).Sub(reference.Position.ToGeocentricXYZ(c.proj))
	ned := spatialmath.MatrixTimesVector(geodesy.EarthToNED(reference.Position), earthDiff)

	toBody := spatialmath.QuaternionToRotationMatrix(quat.Inv(reference.Rotation.QuaternionFRD()))
	return FRDToRDF(spatialmath.MatrixTimesVector(toBody, ned))
}

// Distance is the norm of RelativeTranslation.
func (c *Calculator) Distance(reference, current CameraPose) float64 {
	return c.RelativeTranslation(reference, current).Norm()
}

// FRDToRDF reorders a (forward, right, down) vector as (right, down, forward).
func FRDToRDF(v r3.Vector) r3.Vector {
	return r3.Vector{X: v.Y, Y: v.Z, Z: v.X}
}
