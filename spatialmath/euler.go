package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"

	"github.com/cvlab/powerline-pose/utils"
)

// minHorizontalNorm floors the horizontal projection of a direction so nearly vertical headings
// do not divide by zero.
const minHorizontalNorm = 1e-8

var (
	// worldUp is the "up" axis of the world frame used by direction based rotations (index 1).
	worldUp = r3.Vector{X: 0, Y: 1, Z: 0}
	axisX   = r3.Vector{X: 1, Y: 0, Z: 0}
	axisZ   = r3.Vector{X: 0, Y: 0, Z: 1}
)

// EulerRotation is a yaw/pitch/roll orientation in radians. It is a comparable value and can be
// used as a map key.
type EulerRotation struct {
	Yaw   float64 `json:"yaw"`
	Pitch float64 `json:"pitch"`
	Roll  float64 `json:"roll"`
}

// NewEulerRotationFromDegrees builds an EulerRotation from angles given in degrees.
func NewEulerRotationFromDegrees(yaw, pitch, roll float64) EulerRotation {
	return EulerRotation{
		Yaw:   utils.DegToRad(yaw),
		Pitch: utils.DegToRad(pitch),
		Roll:  utils.DegToRad(roll),
	}
}

// EulerRotationFromDirection derives yaw and pitch from a heading vector, with Y as the world up
// axis and Z as forward. The vector does not need to be unit length.
//
// Roll cannot be observed from a direction alone and is always 0; callers that need it must set
// it themselves.
func EulerRotationFromDirection(direction r3.Vector) EulerRotation {
	unit := direction.Normalize()

	horizontal := unit.Sub(worldUp.Mul(unit.Dot(worldUp)))
	horizontalNorm := math.Max(horizontal.Norm(), minHorizontalNorm)
	unitHorizontal := horizontal.Mul(1 / horizontalNorm)

	// the projection norm is always positive; pitch takes the sign of the negated Y component
	return EulerRotation{
		Yaw:   math.Atan2(unitHorizontal.X, unitHorizontal.Z),
		Pitch: math.Atan2(-unit.Y, horizontalNorm),
		Roll:  0,
	}
}

// InDegrees returns the same angles expressed in degrees.
func (er EulerRotation) InDegrees() EulerRotation {
	return EulerRotation{
		Yaw:   utils.RadToDeg(er.Yaw),
		Pitch: utils.RadToDeg(er.Pitch),
		Roll:  utils.RadToDeg(er.Roll),
	}
}

// QuaternionXYZ composes the world-relative orientation: yaw about the world Y axis, then pitch
// about the X axis as rotated by yaw, then roll about the Z axis as rotated by yaw and pitch.
func (er EulerRotation) QuaternionXYZ() quat.Number {
	yawQuat := QuaternionFromRotationVector(worldUp.Mul(er.Yaw))

	pitchAxis := RotateVector(yawQuat, axisX)
	pitchQuat := QuaternionFromRotationVector(pitchAxis.Mul(er.Pitch))

	rollAxis := RotateVector(pitchQuat, RotateVector(yawQuat, axisZ))
	rollQuat := QuaternionFromRotationVector(rollAxis.Mul(er.Roll))

	return quat.Mul(rollQuat, quat.Mul(pitchQuat, yawQuat))
}

// QuaternionFRD returns the body forward-right-down orientation from the aerospace roll-pitch-yaw
// half angle product. It is not interchangeable with QuaternionXYZ.
func (er EulerRotation) QuaternionFRD() quat.Number {
	cr, sr := math.Cos(er.Roll/2), math.Sin(er.Roll/2)
	cp, sp := math.Cos(er.Pitch/2), math.Sin(er.Pitch/2)
	cy, sy := math.Cos(er.Yaw/2), math.Sin(er.Yaw/2)

	return quat.Number{
		Real: cr*cp*cy + sr*sp*sy,
		Imag: sr*cp*cy - cr*sp*sy,
		Jmag: cr*sp*cy + sr*cp*sy,
		Kmag: cr*cp*sy - sr*sp*cy,
	}
}
