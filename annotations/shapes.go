package annotations

import (
	"strings"

	"github.com/golang/geo/r2"
	"github.com/spf13/cast"

	"github.com/cvlab/powerline-pose/utils"
)

// LineType classifies an annotated polyline.
type LineType int

const (
	// LineVisibleCable is a cable seen in the image.
	LineVisibleCable LineType = iota
	// LineInferredCable is a cable whose position was inferred by the annotator.
	LineInferredCable
	// LineNotCable is any other polyline.
	LineNotCable
	// LineVisibleOrInferred marks merged cable continuations.
	LineVisibleOrInferred
)

var lineLabels = map[string]LineType{
	"Cable visible":  LineVisibleCable,
	"Cable inferred": LineInferredCable,
}

var lineSelectors = map[string]LineType{
	"visible": LineVisibleCable,
	"all":     LineVisibleOrInferred,
}

// ParseLineType maps a polyline label to its LineType.
func ParseLineType(label string) LineType {
	if lt, ok := lineLabels[label]; ok {
		return lt
	}
	return LineNotCable
}

// LineTypeFromSelector maps "visible" or "all" to a LineType.
func LineTypeFromSelector(selector string) (LineType, error) {
	if lt, ok := lineSelectors[selector]; ok {
		return lt, nil
	}
	return 0, utils.NewInvalidArgumentError("invalid selector %q", selector)
}

// CableLine is an annotated polyline over a cable, in pixel coordinates.
type CableLine struct {
	Points []r2.Point
	Type   LineType
}

// IsVisible reports whether the cable was seen in the image.
func (cl CableLine) IsVisible() bool {
	return cl.Type == LineVisibleCable
}

// IsInferred reports whether the cable position was inferred.
func (cl CableLine) IsInferred() bool {
	return cl.Type == LineInferredCable
}

// IsVisibleOrInferred reports whether the line is any kind of cable.
func (cl CableLine) IsVisibleOrInferred() bool {
	return cl.Type == LineVisibleCable || cl.Type == LineInferredCable || cl.Type == LineVisibleOrInferred
}

// Length is the summed length of the polyline segments in pixels.
func (cl CableLine) Length() float64 {
	var length float64
	for i := 1; i < len(cl.Points); i++ {
		length += cl.Points[i].Sub(cl.Points[i-1]).Norm()
	}
	return length
}

// parsePoints reads "x,y;x,y;..." into points.
func parsePoints(s string) ([]r2.Point, error) {
	pairs := strings.Split(s, ";")
	points := make([]r2.Point, 0, len(pairs))
	for _, pair := range pairs {
		xy := strings.Split(pair, ",")
		if len(xy) != 2 {
			return nil, utils.NewInvalidArgumentError("malformed point %q", pair)
		}
		x, err := cast.ToFloat64E(strings.TrimSpace(xy[0]))
		if err != nil {
			return nil, utils.NewInvalidArgumentError("malformed point %q: %v", pair, err)
		}
		y, err := cast.ToFloat64E(strings.TrimSpace(xy[1]))
		if err != nil {
			return nil, utils.NewInvalidArgumentError("malformed point %q: %v", pair, err)
		}
		points = append(points, r2.Point{X: x, Y: y})
	}
	return points, nil
}

// ExclusionZone is an image region to be ignored.
type ExclusionZone struct {
	Rect r2.Rect
}

// Height in pixels.
func (ez ExclusionZone) Height() float64 {
	return ez.Rect.Y.Length()
}

// Width in pixels.
func (ez ExclusionZone) Width() float64 {
	return ez.Rect.X.Length()
}

// PoleType is the kind of structure carrying the cables.
type PoleType int

const (
	// PoleTower is a lattice tower.
	PoleTower PoleType = iota
	// PoleStick is a single pole.
	PoleStick
)

var poleLabels = map[string]PoleType{
	"Tower": PoleTower,
	"Stick": PoleStick,
}

// ParsePoleType maps a box label to its PoleType.
func ParsePoleType(label string) (PoleType, error) {
	if pt, ok := poleLabels[label]; ok {
		return pt, nil
	}
	return 0, utils.NewInvalidArgumentError("unexpected powerline pole label %q", label)
}

func (pt PoleType) String() string {
	for label, t := range poleLabels {
		if t == pt {
			return label
		}
	}
	return "unknown"
}

// PowerlinePole is an annotated bounding box around a tower or stick.
type PowerlinePole struct {
	Rect r2.Rect
	Type PoleType
}

// IsTower reports whether the pole is a tower.
func (pp PowerlinePole) IsTower() bool {
	return pp.Type == PoleTower
}

// IsStick reports whether the pole is a stick.
func (pp PowerlinePole) IsStick() bool {
	return pp.Type == PoleStick
}

// Height in pixels.
func (pp PowerlinePole) Height() float64 {
	return pp.Rect.Y.Length()
}

// Width in pixels.
func (pp PowerlinePole) Width() float64 {
	return pp.Rect.X.Length()
}

// Center of the bounding box as (x, y).
func (pp PowerlinePole) Center() r2.Point {
	return pp.Rect.Center()
}
