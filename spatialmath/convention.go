package spatialmath

import (
	"gonum.org/v1/gonum/num/quat"

	"github.com/cvlab/powerline-pose/utils"
)

// Convention names the axis convention a quaternion was built in. Quaternions from different
// conventions must never be combined.
type Convention int

const (
	// ConventionXYZ is the world-relative yaw(Y) / pitch(X) / roll(Z) composition.
	ConventionXYZ Convention = iota
	// ConventionFRD is the body forward-right-down aerospace convention.
	ConventionFRD
)

var conventionNames = map[Convention]string{
	ConventionXYZ: "xyz",
	ConventionFRD: "frd",
}

var conventionQuaternions = map[Convention]func(EulerRotation) quat.Number{
	ConventionXYZ: EulerRotation.QuaternionXYZ,
	ConventionFRD: EulerRotation.QuaternionFRD,
}

// ParseConvention maps a convention tag ("xyz" or "frd") to its Convention.
func ParseConvention(tag string) (Convention, error) {
	for conv, name := range conventionNames {
		if name == tag {
			return conv, nil
		}
	}
	return 0, utils.NewInvalidArgumentError("invalid coordinate system: %q", tag)
}

func (c Convention) String() string {
	if name, ok := conventionNames[c]; ok {
		return name
	}
	return "unknown"
}

// Quaternion returns er expressed in the convention c.
func (c Convention) Quaternion(er EulerRotation) (quat.Number, error) {
	build, ok := conventionQuaternions[c]
	if !ok {
		return quat.Number{}, utils.NewInvalidArgumentError("invalid coordinate system: %d", int(c))
	}
	return build(er), nil
}
