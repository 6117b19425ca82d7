// Package intrinsics holds pinhole camera intrinsics and the per-recording intrinsics table.
package intrinsics

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// ErrNoIntrinsics is when a camera does not have intrinsics parameters or other parameters.
var ErrNoIntrinsics = errors.New("camera intrinsic parameters are not available")

// NewNoIntrinsicsError is used when the intriniscs are not defined.
func NewNoIntrinsicsError(msg string) error {
	return errors.Wrap(ErrNoIntrinsics, msg)
}

// PinholeCameraIntrinsics holds the focal lengths and principal point of a pinhole camera, in pixels.
type PinholeCameraIntrinsics struct {
	Fx  float64 `json:"fx"`
	Fy  float64 `json:"fy"`
	Ppx float64 `json:"ppx"`
	Ppy float64 `json:"ppy"`
}

// Default is used for recordings without calibrated intrinsics.
var Default = PinholeCameraIntrinsics{
	Fx:  2392.403520,
	Fy:  2394.356632,
	Ppx: 2042.665689,
	Ppy: 1485.345314,
}

// CheckValid checks if the fields for PinholeCameraIntrinsics have valid inputs.
func (params *PinholeCameraIntrinsics) CheckValid() error {
	if params == nil {
		return NewNoIntrinsicsError("Intrinsics do not exist")
	}
	if params.Fx <= 0 {
		return NewNoIntrinsicsError(fmt.Sprintf("Invalid focal length Fx = %#v", params.Fx))
	}
	if params.Fy <= 0 {
		return NewNoIntrinsicsError(fmt.Sprintf("Invalid focal length Fy = %#v", params.Fy))
	}
	if params.Ppx < 0 {
		return NewNoIntrinsicsError(fmt.Sprintf("Invalid principal X point Ppx = %#v", params.Ppx))
	}
	if params.Ppy < 0 {
		return NewNoIntrinsicsError(fmt.Sprintf("Invalid principal Y point Ppy = %#v", params.Ppy))
	}
	return nil
}

// Matrix returns the 3x3 intrinsic matrix K.
func (params *PinholeCameraIntrinsics) Matrix() *mat.Dense {
	return NewIntrinsicMatrix(params.Fx, params.Fy, params.Ppx, params.Ppy)
}

// NewIntrinsicMatrix builds K from focal lengths and the optical center, measured from the top-left
// corner.
func NewIntrinsicMatrix(fx, fy, x0, y0 float64) *mat.Dense {
	return mat.NewDense(3, 3, []float64{
		fx, 0, x0,
		0, fy, y0,
		0, 0, 1,
	})
}

// PointToPixel projects a 3D point in the camera frame to a pixel in the image plane.
func (params *PinholeCameraIntrinsics) PointToPixel(x, y, z float64) (float64, float64) {
	if z != 0. {
		xPx := math.Round((x/z)*params.Fx + params.Ppx)
		yPx := math.Round((y/z)*params.Fy + params.Ppy)
		return xPx, yPx
	}
	// points at zero depth land outside any image
	return -1.0, -1.0
}

// FocalLengthMM converts the mean pixel focal length of K to millimetres on a sensor of the given
// width.
func FocalLengthMM(k mat.Matrix, sensorWidthMM float64, imageWidthPx int) float64 {
	meanPx := (k.At(0, 0) + k.At(1, 1)) / 2
	return meanPx * sensorWidthMM / float64(imageWidthPx)
}
