package geodesy

import (
	"fmt"
	"math"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	geo "github.com/kellydunn/golang-geo"
	"gonum.org/v1/gonum/mat"

	"github.com/cvlab/powerline-pose/utils"
)

// GeoPosition is a WGS84 point: latitude and longitude in degrees, altitude in metres above the
// ellipsoid. Ranges are not validated.
type GeoPosition struct {
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	Altitude float64 `json:"altitude"`
}

func (gp GeoPosition) String() string {
	return fmt.Sprintf("(%.7f, %.7f, %.3fm)", gp.Lat, gp.Lon, gp.Altitude)
}

// ToGeocentricXYZ returns the earth-centered earth-fixed coordinates of gp in metres.
func (gp GeoPosition) ToGeocentricXYZ(p *Projector) r3.Vector {
	x, y, z := p.toGeocentric.Transform(gp.Lat, gp.Lon, gp.Altitude)
	return r3.Vector{X: x, Y: y, Z: z}
}

// FromXYZ converts earth-centered earth-fixed coordinates back to a geodetic position.
func FromXYZ(p *Projector, x, y, z float64) GeoPosition {
	lat, lon, alt := p.fromGeocentric.Transform(x, y, z)
	return GeoPosition{Lat: lat, Lon: lon, Altitude: alt}
}

// ToMercator returns the Web-Mercator easting and northing of gp.
func (gp GeoPosition) ToMercator(p *Projector) r2.Point {
	x, y, _ := p.toMercator.Transform(gp.Lat, gp.Lon, gp.Altitude)
	return r2.Point{X: x, Y: y}
}

// FromMercator converts a Web-Mercator point to a geodetic position at the given altitude.
func FromMercator(p *Projector, pt r2.Point, altitude float64) GeoPosition {
	lat, lon, alt := p.fromMercator.Transform(pt.X, pt.Y, altitude)
	return GeoPosition{Lat: lat, Lon: lon, Altitude: alt}
}

// Point returns gp as a geo.Point, dropping the altitude.
func (gp GeoPosition) Point() *geo.Point {
	return geo.NewPoint(gp.Lat, gp.Lon)
}

// GreatCircleDistance returns the haversine distance to other in metres, ignoring altitude.
func (gp GeoPosition) GreatCircleDistance(other GeoPosition) float64 {
	return gp.Point().GreatCircleDistance(other.Point()) * 1000
}

// BearingTo returns the initial bearing to other in degrees, clockwise from north in [-180, 180].
func (gp GeoPosition) BearingTo(other GeoPosition) float64 {
	return gp.Point().BearingTo(other.Point())
}

// EarthToNED returns the rotation taking geocentric displacement vectors to the north-east-down
// tangent plane at origin.
func EarthToNED(origin GeoPosition) *mat.Dense {
	sinLat, cosLat := math.Sincos(utils.DegToRad(origin.Lat))
	sinLon, cosLon := math.Sincos(utils.DegToRad(origin.Lon))
	return mat.NewDense(3, 3, []float64{
		-sinLat * cosLon, -sinLat * sinLon, cosLat,
		-sinLon, cosLon, 0,
		-cosLat * cosLon, -cosLat * sinLon, -sinLat,
	})
}
