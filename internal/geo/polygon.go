package geo

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

const (
	// DefaultSearchWidthFt is the distance either side of the path centerline covered by the search area.
	DefaultSearchWidthFt = 2000.0

	// DefaultSearchExtensionFt is how far the search area extends past each site.
	DefaultSearchExtensionFt = 1000.0
)

// SearchPolygon returns the rectangle of ±widthFt around the great-circle path from
// start to end, extended by extensionFt past both ends. The ring is closed and in
// orb's [lon, lat] order.
func SearchPolygon(start, end Point, widthFt, extensionFt float64) orb.Polygon {
	forward := Bearing(start, end)
	reverse := math.Mod(forward+180, 360)
	left := math.Mod(forward+270, 360)
	right := math.Mod(forward+90, 360)

	extStart := Destination(start, reverse, extensionFt)
	extEnd := Destination(end, forward, extensionFt)

	corners := []Point{
		Destination(extStart, left, widthFt),
		Destination(extEnd, left, widthFt),
		Destination(extEnd, right, widthFt),
		Destination(extStart, right, widthFt),
	}

	ring := make(orb.Ring, 0, len(corners)+1)
	for _, c := range corners {
		ring = append(ring, c.OrbPoint())
	}
	ring = append(ring, ring[0])

	return orb.Polygon{ring}
}

// Contains reports whether p lies inside the polygon.
func Contains(poly orb.Polygon, p Point) bool {
	return planar.PolygonContains(poly, p.OrbPoint())
}

// OrbPoint converts the point to orb's [lon, lat] representation.
func (p Point) OrbPoint() orb.Point {
	return orb.Point{p.Longitude, p.Latitude}
}

// FromOrbPoint converts an orb [lon, lat] point.
func FromOrbPoint(p orb.Point) Point {
	return Point{Latitude: p.Lat(), Longitude: p.Lon()}
}
