package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistance(t *testing.T) {
	a := Point{Latitude: 40.0, Longitude: -80.0}
	b := Point{Latitude: 40.1, Longitude: -80.0}

	// 0.1 degree of latitude on the mean-radius sphere
	assert.InDelta(t, 36481, Distance(a, b), 5)
	assert.Equal(t, 0.0, Distance(a, a))
	assert.InDelta(t, Distance(a, b), Distance(b, a), 1e-9)
}

func TestBearing(t *testing.T) {
	a := Point{Latitude: 40.0, Longitude: -80.0}

	assert.InDelta(t, 0, Bearing(a, Point{Latitude: 40.1, Longitude: -80.0}), 1e-6)
	assert.InDelta(t, 180, Bearing(a, Point{Latitude: 39.9, Longitude: -80.0}), 1e-6)
	assert.InDelta(t, 90, Bearing(a, Point{Latitude: 40.0, Longitude: -79.9}), 0.1)
}

func TestDestination_RoundTrip(t *testing.T) {
	start := Point{Latitude: 43.5, Longitude: -75.2}
	for _, bearing := range []float64{0, 45, 90, 135, 180, 270} {
		dest := Destination(start, bearing, 10_000)
		assert.InDelta(t, 10_000, Distance(start, dest), 0.5, "bearing %v", bearing)
	}
}

func TestIntermediate(t *testing.T) {
	a := Point{Latitude: 40.0, Longitude: -80.0}
	b := Point{Latitude: 40.1, Longitude: -79.9}

	mid := Intermediate(a, b, 0.5)
	assert.InDelta(t, Distance(a, mid), Distance(mid, b), 0.5)
	assert.InDelta(t, a.Latitude, Intermediate(a, b, 0).Latitude, 1e-9)
	assert.InDelta(t, b.Longitude, Intermediate(a, b, 1).Longitude, 1e-9)
}

func TestUnitVector(t *testing.T) {
	v := Point{Latitude: 12.3, Longitude: -45.6}.UnitVector()
	assert.InDelta(t, 1, v.Norm(), 1e-12)

	north := Point{Latitude: 90}.UnitVector()
	assert.InDelta(t, 1, north.Z, 1e-12)
}

func TestVec3_Cross(t *testing.T) {
	x := Vec3{X: 1}
	y := Vec3{Y: 1}
	assert.Equal(t, Vec3{Z: 1}, x.Cross(y))
	assert.Equal(t, Vec3{Z: -1}, y.Cross(x))
}

func TestPoint_Validate(t *testing.T) {
	require.NoError(t, Point{Latitude: 90, Longitude: -180}.Validate())
	assert.Error(t, Point{Latitude: 91}.Validate())
	assert.Error(t, Point{Longitude: 180.5}.Validate())
}

func TestParseCoordinate(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{in: "-80.125", want: -80.125},
		{in: "40-26-46.0 N", want: 40.446111},
		{in: "80-30-00 W", want: -80.5},
		{in: `40°26'46"N`, want: 40.446111},
		{in: "33°52'S", want: -33.866667},
		{in: "12-61-00 N", wantErr: true},
		{in: "40-26-46", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseCoordinate(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.InDelta(t, tt.want, got, 1e-6, tt.in)
	}
}

func TestParsePoint(t *testing.T) {
	p, err := ParsePoint("40-00-00 N", "80-00-00 W")
	require.NoError(t, err)
	assert.Equal(t, Point{Latitude: 40, Longitude: -80}, p)

	_, err = ParsePoint("95.0", "0")
	assert.Error(t, err)
}

func TestSearchPolygon(t *testing.T) {
	a := Point{Latitude: 40.0, Longitude: -80.0}
	b := Point{Latitude: 40.1, Longitude: -80.0}

	poly := SearchPolygon(a, b, DefaultSearchWidthFt, DefaultSearchExtensionFt)
	require.Len(t, poly, 1)
	require.Len(t, poly[0], 5)
	assert.Equal(t, poly[0][0], poly[0][4])

	assert.True(t, Contains(poly, Intermediate(a, b, 0.5)))
	assert.True(t, Contains(poly, Destination(a, 180, 500)), "inside the extension past site A")
	assert.True(t, Contains(poly, Destination(Intermediate(a, b, 0.5), 90, 1900)))
	assert.False(t, Contains(poly, Destination(Intermediate(a, b, 0.5), 90, 2500)))
	assert.False(t, Contains(poly, Destination(b, 0, 1500)))
}
