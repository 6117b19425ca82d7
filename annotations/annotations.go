// Package annotations reads CVAT XML exports of power line annotations.
package annotations

import (
	"encoding/xml"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/spf13/cast"
	"go.uber.org/multierr"

	"github.com/cvlab/powerline-pose/logging"
	"github.com/cvlab/powerline-pose/pose"
	"github.com/cvlab/powerline-pose/utils"
)

const (
	exclusionLabel = "Exclusion"
	ignoredFile    = ".DS_Store"

	// image names are kept as <recording date>/<camera>/<frame>.<ext>
	imagePathComponents = 3
)

// CableSelector picks a subset of the cables of an image.
type CableSelector int

const (
	// SelectVisible keeps visible cables.
	SelectVisible CableSelector = iota
	// SelectInferred keeps inferred cables.
	SelectInferred
	// SelectAll keeps every cable.
	SelectAll
)

var cableSelectors = map[string]CableSelector{
	"visible":  SelectVisible,
	"inferred": SelectInferred,
	"all":      SelectAll,
}

var cableSelectorFilters = map[CableSelector]func(CableLine) bool{
	SelectVisible:  CableLine.IsVisible,
	SelectInferred: CableLine.IsInferred,
	SelectAll:      CableLine.IsVisibleOrInferred,
}

// ParseCableSelector maps "visible", "inferred" or "all" to a CableSelector.
func ParseCableSelector(selector string) (CableSelector, error) {
	if cs, ok := cableSelectors[selector]; ok {
		return cs, nil
	}
	return 0, utils.NewInvalidArgumentError("unknown cable selector %q", selector)
}

// ImageAnnotations is everything annotated on one frame.
type ImageAnnotations struct {
	ImagePath      string
	ExclusionZones []ExclusionZone
	PowerlinePoles []PowerlinePole
	CableLines     []CableLine
	Pose           *pose.CameraPose
}

// VisibleCables returns the cables seen in the image.
func (ia *ImageAnnotations) VisibleCables() []CableLine {
	return lo.Filter(ia.CableLines, func(cl CableLine, _ int) bool {
		return cl.IsVisible()
	})
}

// Poles returns the poles no taller than maxHeight pixels.
func (ia *ImageAnnotations) Poles(maxHeight float64) []PowerlinePole {
	return lo.Filter(ia.PowerlinePoles, func(pp PowerlinePole, _ int) bool {
		return pp.Height() <= maxHeight
	})
}

// AllPoles returns every annotated pole.
func (ia *ImageAnnotations) AllPoles() []PowerlinePole {
	return ia.PowerlinePoles
}

// Cables returns the cables matching selector.
func (ia *ImageAnnotations) Cables(selector CableSelector) ([]CableLine, error) {
	keep, ok := cableSelectorFilters[selector]
	if !ok {
		return nil, utils.NewInvalidArgumentError("unknown cable selector %d", int(selector))
	}
	return lo.Filter(ia.CableLines, func(cl CableLine, _ int) bool {
		return keep(cl)
	}), nil
}

// FrameTimestamp is the frame timestamp encoded in the image file name.
func (ia *ImageAnnotations) FrameTimestamp() (int64, error) {
	stem := strings.TrimSuffix(path.Base(ia.ImagePath), path.Ext(ia.ImagePath))
	ts, err := strconv.ParseInt(stem, 10, 64)
	if err != nil {
		return 0, utils.NewInvalidArgumentError("image %q has no frame timestamp", ia.ImagePath)
	}
	return ts, nil
}

// Recording is the directory of the image, e.g. "2021-06-01/cam0".
func (ia *ImageAnnotations) Recording() string {
	return path.Dir(ia.ImagePath)
}

type xmlAnnotations struct {
	XMLName xml.Name   `xml:"annotations"`
	Images  []xmlImage `xml:"image"`
}

type xmlImage struct {
	Name      string        `xml:"name,attr"`
	Boxes     []xmlBox      `xml:"box"`
	Polylines []xmlPolyline `xml:"polyline"`
}

type xmlBox struct {
	Label string `xml:"label,attr"`
	XTL   string `xml:"xtl,attr"`
	YTL   string `xml:"ytl,attr"`
	XBR   string `xml:"xbr,attr"`
	YBR   string `xml:"ybr,attr"`
}

type xmlPolyline struct {
	Label  string `xml:"label,attr"`
	Points string `xml:"points,attr"`
}

func (b xmlBox) rect() (r2.Rect, error) {
	var corners [4]float64
	for i, attr := range []string{b.XTL, b.YTL, b.XBR, b.YBR} {
		v, err := cast.ToFloat64E(attr)
		if err != nil {
			return r2.Rect{}, utils.NewInvalidArgumentError("box %q has malformed corner %q", b.Label, attr)
		}
		corners[i] = v
	}
	return r2.RectFromPoints(r2.Point{X: corners[0], Y: corners[1]}, r2.Point{X: corners[2], Y: corners[3]}), nil
}

// Parser turns annotation folders into ImageAnnotations.
type Parser struct {
	poses  pose.Source
	logger logging.Logger
}

// NewParser returns a parser attaching poses from poses. A nil source leaves every Pose unset.
func NewParser(poses pose.Source, logger logging.Logger) *Parser {
	return &Parser{poses: poses, logger: logger}
}

// ParseFolder reads every annotation file of folder, in name order, and returns their images
// concatenated. Failures of individual files are collected and returned together.
func (p *Parser) ParseFolder(folder string) ([]ImageAnnotations, error) {
	if _, err := os.Stat(folder); err != nil {
		if os.IsNotExist(err) {
			return nil, utils.NewMissingResourceError("annotations folder", folder)
		}
		return nil, errors.Wrapf(err, "annotations folder %q", folder)
	}
	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, errors.Wrapf(err, "list annotations folder %q", folder)
	}

	var (
		images []ImageAnnotations
		errs   error
	)
	for _, entry := range entries {
		if entry.IsDir() || entry.Name() == ignoredFile {
			continue
		}
		fileImages, err := p.ParseFile(filepath.Join(folder, entry.Name()))
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		images = append(images, fileImages...)
	}
	if errs != nil {
		return nil, errs
	}
	p.logger.Debugw("parsed annotations", "folder", folder, "images", len(images))
	return images, nil
}

// ParseFile reads a single annotation file.
func (p *Parser) ParseFile(filename string) ([]ImageAnnotations, error) {
	//nolint:gosec
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "read annotations %q", filename)
	}
	var doc xmlAnnotations
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrapf(err, "parse annotations %q", filename)
	}

	images := make([]ImageAnnotations, 0, len(doc.Images))
	for _, img := range doc.Images {
		ia, err := p.parseImage(img)
		if err != nil {
			return nil, errors.Wrapf(err, "annotations %q", filename)
		}
		images = append(images, ia)
	}
	return images, nil
}

func (p *Parser) parseImage(img xmlImage) (ImageAnnotations, error) {
	imagePath, err := FixImagePath(img.Name)
	if err != nil {
		return ImageAnnotations{}, err
	}
	ia := ImageAnnotations{ImagePath: imagePath}

	for _, box := range img.Boxes {
		switch box.Label {
		case exclusionLabel:
			rect, err := box.rect()
			if err != nil {
				return ImageAnnotations{}, err
			}
			ia.ExclusionZones = append(ia.ExclusionZones, ExclusionZone{Rect: rect})
		default:
			poleType, err := ParsePoleType(box.Label)
			if err != nil {
				p.logger.Debugw("skipping box", "image", img.Name, "label", box.Label)
				continue
			}
			rect, err := box.rect()
			if err != nil {
				return ImageAnnotations{}, err
			}
			ia.PowerlinePoles = append(ia.PowerlinePoles, PowerlinePole{Rect: rect, Type: poleType})
		}
	}

	for _, polyline := range img.Polylines {
		lineType := ParseLineType(polyline.Label)
		if lineType == LineNotCable {
			continue
		}
		points, err := parsePoints(polyline.Points)
		if err != nil {
			return ImageAnnotations{}, errors.Wrapf(err, "image %q", img.Name)
		}
		ia.CableLines = append(ia.CableLines, CableLine{Points: points, Type: lineType})
	}

	if ia.Pose, err = p.lookupPose(&ia); err != nil {
		return ImageAnnotations{}, err
	}
	return ia, nil
}

func (p *Parser) lookupPose(ia *ImageAnnotations) (*pose.CameraPose, error) {
	if p.poses == nil {
		return nil, nil
	}
	ts, err := ia.FrameTimestamp()
	if err != nil {
		p.logger.Debugw("no pose for image without timestamp", "image", ia.ImagePath)
		return nil, nil
	}
	return p.poses.Pose(ia.Recording(), ts)
}

// FixImagePath keeps the last three components of an exported image name, dropping whatever
// directory prefix the annotation tool recorded.
func FixImagePath(name string) (string, error) {
	parts := lo.Filter(strings.Split(filepath.ToSlash(name), "/"), func(part string, _ int) bool {
		return part != "" && part != "."
	})
	if len(parts) < imagePathComponents {
		return "", utils.NewInvalidArgumentError("invalid image path %q", name)
	}
	return path.Join(parts[len(parts)-imagePathComponents:]...), nil
}

// ParseFolder is NewParser(poses, logger).ParseFolder(folder).
func ParseFolder(folder string, poses pose.Source, logger logging.Logger) ([]ImageAnnotations, error) {
	return NewParser(poses, logger).ParseFolder(folder)
}
