// Package pose holds camera poses and the relative rotation/translation math between them.
package pose

import (
	"fmt"
	"math"

	"github.com/cvlab/powerline-pose/geodesy"
	"github.com/cvlab/powerline-pose/spatialmath"
)

// CameraPose is the geodetic position and orientation of a camera at one frame.
type CameraPose struct {
	Position geodesy.GeoPosition       `json:"position"`
	Rotation spatialmath.EulerRotation `json:"rotation"`
}

// NewCameraPose builds a pose from a position and orientation angles given in degrees.
func NewCameraPose(lat, lon, altitude, yaw, pitch, roll float64) CameraPose {
	return CameraPose{
		Position: geodesy.GeoPosition{Lat: lat, Lon: lon, Altitude: altitude},
		Rotation: spatialmath.NewEulerRotationFromDegrees(yaw, pitch, roll),
	}
}

// IsComplete reports whether the pose has a usable horizontal position.
func (cp CameraPose) IsComplete() bool {
	return !math.IsNaN(cp.Position.Lat) && !math.IsNaN(cp.Position.Lon)
}

func (cp CameraPose) String() string {
	deg := cp.Rotation.InDegrees()
	return fmt.Sprintf("%s yaw=%.3f pitch=%.3f roll=%.3f", cp.Position, deg.Yaw, deg.Pitch, deg.Roll)
}
