package geo

import "math"

// Distance returns the great-circle (haversine) distance between two points in feet.
func Distance(p1, p2 Point) float64 {
	if p1.Equal(p2) {
		return 0
	}

	lat1 := Radians(p1.Latitude)
	lat2 := Radians(p2.Latitude)
	dLat := lat2 - lat1
	dLon := Radians(p2.Longitude - p1.Longitude)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusFt * c
}

// Bearing returns the initial bearing from p1 to p2 in degrees, within [0, 360).
func Bearing(p1, p2 Point) float64 {
	lat1 := Radians(p1.Latitude)
	lat2 := Radians(p2.Latitude)
	dLon := Radians(p2.Longitude - p1.Longitude)

	y := math.Sin(dLon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLon)

	return math.Mod(Degrees(math.Atan2(y, x))+360, 360)
}

// Destination returns the point reached from start after travelling distFt feet
// along the given initial bearing (degrees).
func Destination(start Point, bearing, distFt float64) Point {
	lat1 := Radians(start.Latitude)
	lon1 := Radians(start.Longitude)
	brng := Radians(bearing)
	delta := distFt / EarthRadiusFt

	lat2 := math.Asin(math.Sin(lat1)*math.Cos(delta) + math.Cos(lat1)*math.Sin(delta)*math.Cos(brng))
	lon2 := lon1 + math.Atan2(math.Sin(brng)*math.Sin(delta)*math.Cos(lat1),
		math.Cos(delta)-math.Sin(lat1)*math.Sin(lat2))

	return Point{
		Latitude:  Degrees(lat2),
		Longitude: math.Mod(Degrees(lon2)+540, 360) - 180,
	}
}

// Intermediate returns the point at fraction f (0..1) along the great circle from p1 to p2.
func Intermediate(p1, p2 Point, f float64) Point {
	if p1.Equal(p2) {
		return p1
	}

	delta := Distance(p1, p2) / EarthRadiusFt
	a := math.Sin((1-f)*delta) / math.Sin(delta)
	b := math.Sin(f*delta) / math.Sin(delta)

	v1 := p1.UnitVector()
	v2 := p2.UnitVector()
	x := a*v1.X + b*v2.X
	y := a*v1.Y + b*v2.Y
	z := a*v1.Z + b*v2.Z

	return Point{
		Latitude:  Degrees(math.Atan2(z, math.Sqrt(x*x+y*y))),
		Longitude: Degrees(math.Atan2(y, x)),
	}
}
