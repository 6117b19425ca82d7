// Package geodesy converts WGS84 geodetic positions to the cartesian frames used by pose math.
package geodesy

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"

	"github.com/cvlab/powerline-pose/utils"
)

// CRS is a coordinate reference system identified by its EPSG code.
type CRS int

const (
	// WGS84 is geodetic latitude/longitude in degrees with ellipsoidal height in metres (EPSG:4326).
	WGS84 CRS = 4326
	// Geocentric is the earth-centered earth-fixed cartesian frame in metres (EPSG:4978).
	Geocentric CRS = 4978
	// WebMercator is spherical pseudo-Mercator in metres (EPSG:3857).
	WebMercator CRS = 3857
)

func (c CRS) String() string {
	return fmt.Sprintf("EPSG:%d", int(c))
}

// WGS84 ellipsoid.
const (
	semiMajorAxis = 6378137.0
	flattening    = 1 / 298.257223563
	eccentricity2 = flattening * (2 - flattening)

	maxInverseIterations = 20
	inverseTolerance     = 1e-14
)

type transformFunc func(x, y, z float64) (float64, float64, float64)

type crsPair struct {
	from, to CRS
}

var transforms = map[crsPair]transformFunc{
	{WGS84, Geocentric}:  geodeticToGeocentric,
	{Geocentric, WGS84}:  geocentricToGeodetic,
	{WGS84, WebMercator}: geodeticToMercator,
	{WebMercator, WGS84}: mercatorToGeodetic,
}

// A Transformer converts coordinates from one CRS to another. Geodetic coordinates are always given
// in (latitude, longitude, height) order.
type Transformer struct {
	from, to CRS
	fn       transformFunc
}

// NewTransformer returns a transformer between two supported reference systems.
func NewTransformer(from, to CRS) (Transformer, error) {
	fn, ok := transforms[crsPair{from, to}]
	if !ok {
		return Transformer{}, utils.NewInvalidArgumentError("unsupported transformation %s -> %s", from, to)
	}
	return Transformer{from: from, to: to, fn: fn}, nil
}

// Transform converts a single coordinate triple.
func (t Transformer) Transform(x, y, z float64) (float64, float64, float64) {
	return t.fn(x, y, z)
}

func (t Transformer) String() string {
	return fmt.Sprintf("%s -> %s", t.from, t.to)
}

func geodeticToGeocentric(lat, lon, h float64) (float64, float64, float64) {
	phi, lambda := utils.DegToRad(lat), utils.DegToRad(lon)
	sinPhi, cosPhi := math.Sincos(phi)
	sinLambda, cosLambda := math.Sincos(lambda)

	n := primeVerticalRadius(sinPhi)
	return (n + h) * cosPhi * cosLambda,
		(n + h) * cosPhi * sinLambda,
		(n*(1-eccentricity2) + h) * sinPhi
}

func geocentricToGeodetic(x, y, z float64) (float64, float64, float64) {
	lambda := math.Atan2(y, x)
	p := math.Hypot(x, y)

	phi := math.Atan2(z, p*(1-eccentricity2))
	var h float64
	for i := 0; i < maxInverseIterations; i++ {
		sinPhi, cosPhi := math.Sincos(phi)
		n := primeVerticalRadius(sinPhi)
		h = p*cosPhi + z*sinPhi - utils.Square(semiMajorAxis)/n
		next := math.Atan2(z, p*(1-eccentricity2*n/(n+h)))
		if utils.Float64AlmostEqual(next, phi, inverseTolerance) {
			phi = next
			break
		}
		phi = next
	}
	sinPhi, cosPhi := math.Sincos(phi)
	h = p*cosPhi + z*sinPhi - utils.Square(semiMajorAxis)/primeVerticalRadius(sinPhi)

	return utils.RadToDeg(phi), utils.RadToDeg(lambda), h
}

func primeVerticalRadius(sinPhi float64) float64 {
	return semiMajorAxis / math.Sqrt(1-eccentricity2*utils.Square(sinPhi))
}

func geodeticToMercator(lat, lon, h float64) (float64, float64, float64) {
	p := project.WGS84.ToMercator(orb.Point{lon, lat})
	return p.X(), p.Y(), h
}

func mercatorToGeodetic(x, y, h float64) (float64, float64, float64) {
	p := project.Mercator.ToWGS84(orb.Point{x, y})
	return p.Lat(), p.Lon(), h
}
