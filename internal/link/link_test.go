package link

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roman-kulish/los-clearance/internal/geo"
)

func testPath(t *testing.T) *Path {
	t.Helper()

	a := Site{ID: "A", Position: geo.Point{Latitude: 40.0, Longitude: -80.0}, GroundElevationFt: 100, AntennaCenterlineFt: 50}
	b := Site{ID: "B", Position: geo.Point{Latitude: 40.1, Longitude: -80.0}, GroundElevationFt: 200, AntennaCenterlineFt: 30}

	p, err := NewPath(a, b, 11)
	require.NoError(t, err)
	return p
}

func TestNewPath(t *testing.T) {
	p := testPath(t)

	assert.Equal(t, "A-B", p.ID())
	assert.InDelta(t, 36481, p.TotalLengthFt(), 5)
	assert.Equal(t, 11.0, p.FrequencyGHz())
	assert.Equal(t, 150.0, p.SiteA().EffectiveHeightFt())
	assert.Equal(t, 230.0, p.SiteB().EffectiveHeightFt())
}

func TestNewPath_Degenerate(t *testing.T) {
	a := Site{ID: "A", Position: geo.Point{Latitude: 40, Longitude: -80}}
	b := Site{ID: "B", Position: geo.Point{Latitude: 40, Longitude: -80}}

	_, err := NewPath(a, b, 11)
	require.Error(t, err)

	var degenerate *DegeneratePathError
	require.True(t, errors.As(err, &degenerate))
	assert.Equal(t, "A", degenerate.SiteA)
	assert.Equal(t, "B", degenerate.SiteB)
}

func TestNewPath_InvalidInput(t *testing.T) {
	a := Site{ID: "A", Position: geo.Point{Latitude: 40, Longitude: -80}}
	b := Site{ID: "B", Position: geo.Point{Latitude: 40.1, Longitude: -80}}

	_, err := NewPath(a, b, 0)
	assert.ErrorIs(t, err, ErrInvalidFrequency)

	_, err = NewPath(a, Site{ID: "B", Position: geo.Point{Latitude: 91}}, 11)
	assert.Error(t, err)
}

func TestPath_StraightHeightFt(t *testing.T) {
	p := testPath(t)

	assert.InDelta(t, 150, p.StraightHeightFt(0), 1e-9)
	assert.InDelta(t, 190, p.StraightHeightFt(p.TotalLengthFt()/2), 1e-9)
	assert.InDelta(t, 230, p.StraightHeightFt(p.TotalLengthFt()), 1e-9)
}

func TestPath_Project(t *testing.T) {
	p := testPath(t)
	mid := geo.Intermediate(p.SiteA().Position, p.SiteB().Position, 0.5)

	east := geo.Destination(mid, 90, 1000)
	west := geo.Destination(mid, 270, 1000)

	pe := p.Project(east)
	pw := p.Project(west)

	// the path runs north, so east is on the right hand side
	assert.InDelta(t, -1000, pe.PerpendicularOffsetFt, 5)
	assert.InDelta(t, 1000, pw.PerpendicularOffsetFt, 5)
	assert.Equal(t, -1, pe.Side())
	assert.Equal(t, 1, pw.Side())

	assert.InDelta(t, p.TotalLengthFt()/2, pe.DistanceAlongFt, 5)
	assert.False(t, pe.Clamped())
}

func TestPath_ProjectOnLine(t *testing.T) {
	p := testPath(t)

	pa := p.Project(p.SiteA().Position)
	assert.Equal(t, 0.0, pa.PerpendicularOffsetFt)
	assert.Equal(t, 0, pa.Side())
	assert.Equal(t, 0.0, pa.DistanceAlongFt)

	assert.Equal(t, 0, Projection{}.Side())
	assert.Equal(t, 1, Projection{PerpendicularOffsetFt: 1e-9}.Side())
	assert.Equal(t, -1, Projection{PerpendicularOffsetFt: -1e-9}.Side())
}

func TestPath_ProjectSymmetry(t *testing.T) {
	p := testPath(t)
	r := p.Reverse()

	points := []geo.Point{
		{Latitude: 40.03, Longitude: -79.99},
		{Latitude: 40.07, Longitude: -80.02},
		{Latitude: 40.05, Longitude: -80.0005},
	}

	for _, pt := range points {
		fwd := p.Project(pt)
		rev := r.Project(pt)

		assert.InDelta(t, fwd.PerpendicularOffsetFt, -rev.PerpendicularOffsetFt, 1e-3, pt.String())
		assert.InDelta(t, p.TotalLengthFt(), fwd.DistanceAlongFt+rev.DistanceAlongFt, 1e-3, pt.String())
	}
}

func TestPath_ProjectClamping(t *testing.T) {
	p := testPath(t)

	before := geo.Destination(p.SiteA().Position, 180, 1000)
	beyond := geo.Destination(p.SiteB().Position, 0, 1000)

	pb := p.Project(before)
	assert.True(t, pb.Clamped())
	assert.Less(t, pb.Ratio, 0.0)
	assert.Equal(t, 0.0, pb.DistanceAlongFt)

	pf := p.Project(beyond)
	assert.True(t, pf.Clamped())
	assert.Greater(t, pf.Ratio, 1.0)
	assert.Equal(t, p.TotalLengthFt(), pf.DistanceAlongFt)

	assert.Equal(t, p.TotalLengthFt(), p.DistanceAlong(beyond))
}
