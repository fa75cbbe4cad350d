package geo

import (
	"fmt"
	"math"
)

const (
	// EarthRadiusFt is the mean Earth radius in feet. All path-relative
	// distances in this module are expressed in feet.
	EarthRadiusFt = 20_902_231.0

	// FeetPerMeter converts meter based source data into feet.
	FeetPerMeter = 3.28084

	// FeetPerKilometer converts kilometers into feet.
	FeetPerKilometer = 3280.84
)

// Point is a geographic coordinate in decimal degrees.
type Point struct {
	Latitude  float64 `json:"latitude" yaml:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" yaml:"longitude" validate:"gte=-180,lte=180"`
}

// Validate reports whether the point lies within the valid coordinate ranges.
func (p Point) Validate() error {
	if math.IsNaN(p.Latitude) || math.IsNaN(p.Longitude) {
		return fmt.Errorf("invalid coordinates: NaN in (%v, %v)", p.Latitude, p.Longitude)
	}
	if p.Latitude < -90 || p.Latitude > 90 {
		return fmt.Errorf("invalid latitude %f: must be within [-90, 90]", p.Latitude)
	}
	if p.Longitude < -180 || p.Longitude > 180 {
		return fmt.Errorf("invalid longitude %f: must be within [-180, 180]", p.Longitude)
	}
	return nil
}

// Equal reports whether both coordinates are identical.
func (p Point) Equal(other Point) bool {
	return p.Latitude == other.Latitude && p.Longitude == other.Longitude
}

func (p Point) String() string {
	return fmt.Sprintf("%.6f,%.6f", p.Latitude, p.Longitude)
}

// UnitVector returns the point as a vector on the unit sphere.
func (p Point) UnitVector() Vec3 {
	lat := Radians(p.Latitude)
	lon := Radians(p.Longitude)
	return Vec3{
		X: math.Cos(lat) * math.Cos(lon),
		Y: math.Cos(lat) * math.Sin(lon),
		Z: math.Sin(lat),
	}
}

// Radians converts degrees to radians.
func Radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Degrees converts radians to degrees.
func Degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}
