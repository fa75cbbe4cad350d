package clearance

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roman-kulish/los-clearance/internal/geo"
	"github.com/roman-kulish/los-clearance/internal/link"
	"github.com/roman-kulish/los-clearance/internal/propagation"
	"github.com/roman-kulish/los-clearance/internal/terrain"
)

type fixture struct {
	path    *link.Path
	profile *terrain.Profile
	mid     geo.Point
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	a := link.Site{ID: "A", Position: geo.Point{Latitude: 40.0, Longitude: -80.0}, GroundElevationFt: 1000, AntennaCenterlineFt: 50}
	b := link.Site{ID: "B", Position: geo.Point{Latitude: 40.1, Longitude: -80.0}, GroundElevationFt: 1000, AntennaCenterlineFt: 50}

	path, err := link.NewPath(a, b, 11)
	require.NoError(t, err)

	profile, err := terrain.NewUniformProfile([]float64{1000, 1000, 1000, 1000, 1000}, path.TotalLengthFt())
	require.NoError(t, err)

	return fixture{
		path:    path,
		profile: profile,
		mid:     geo.Intermediate(a.Position, b.Position, 0.5),
	}
}

func TestCalculator_AnalyzeOnPath(t *testing.T) {
	f := newFixture(t)
	c := NewCalculator(propagation.NewModel())

	o := Obstruction{ID: "T1", Position: f.mid, HubHeightFt: 50, RotorRadiusFt: 30}

	r, err := c.Analyze(o, f.path, f.profile)
	require.NoError(t, err)

	assert.Equal(t, "T1", r.ObstructionID)
	assert.InDelta(t, f.path.TotalLengthFt()/2, r.DistanceAlongFt, 1)
	assert.InDelta(t, 0, r.PerpendicularOffsetFt, 10)
	assert.InDelta(t, 1000, r.GroundElevationFt, 1e-9)
	assert.InDelta(t, 1050, r.CenterHeightFt, 1e-9)
	assert.InDelta(t, 1050, r.StraightLOSFt, 1e-9)
	assert.InDelta(t, -30, r.VerticalStraightClearanceFt, 1e-9)

	// the rotor sphere reaches through the LOS line
	assert.Less(t, r.StraightClearanceFt, 0.0)
	assert.Less(t, r.CurvedClearanceFt, 0.0)
	assert.False(t, r.HasLOSClearance)
	assert.Equal(t, "blocks LOS", r.Status())

	assert.InDelta(t, r.StraightLOSFt-r.EarthBulgeFt, r.CurvedLOSFt, 1e-9)
	assert.InDelta(t, r.CurvedClearanceFt-r.FresnelRadiusFt, r.FresnelClearanceFt, 1e-9)
	assert.Greater(t, r.FresnelRadiusFt, 0.0)
}

func TestCalculator_AnalyzeSlopedOffPath(t *testing.T) {
	// A at 1000+50 ft, B at 1200+100 ft; path length 36,481.3 ft
	a := link.Site{ID: "A", Position: geo.Point{Latitude: 40.0, Longitude: -80.0}, GroundElevationFt: 1000, AntennaCenterlineFt: 50}
	b := link.Site{ID: "B", Position: geo.Point{Latitude: 40.1, Longitude: -80.0}, GroundElevationFt: 1200, AntennaCenterlineFt: 100}
	path, err := link.NewPath(a, b, 11)
	require.NoError(t, err)

	profile, err := terrain.NewUniformProfile([]float64{900, 900}, path.TotalLengthFt())
	require.NoError(t, err)

	// quarter point, 300 ft west (left of a northbound path)
	pos := geo.Destination(geo.Intermediate(a.Position, b.Position, 0.25), 270, 300)
	o := Obstruction{ID: "T5", Position: pos, HubHeightFt: 300, RotorRadiusFt: 150}

	tests := []struct {
		name  string
		k     float64
		bulge float64
		// hypot(300, |LOS - 1200|) - 150
		straight, curved, fresnel float64
	}{
		// 9120.3 * 27360.9 / (2 * 20,902,231) = 5.969
		{"geometric earth", 1, 5.969, 162.5, 164.22, 139.48},
		// 5.969 * 3/4 = 4.477
		{"standard atmosphere", 4.0 / 3.0, 4.477, 162.5, 163.78, 139.04},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCalculator(propagation.NewModel(propagation.WithKFactor(tt.k)))

			r, err := c.Analyze(o, path, profile)
			require.NoError(t, err)

			assert.InDelta(t, 9120.3, r.DistanceAlongFt, 0.1)
			assert.InDelta(t, 300, r.PerpendicularOffsetFt, 0.1)
			assert.Equal(t, 1, r.PathSide)

			// 1050 + 250 / 4
			assert.InDelta(t, 1112.5, r.StraightLOSFt, 1e-3)
			assert.InDelta(t, 1200, r.CenterHeightFt, 1e-9)
			assert.InDelta(t, tt.bulge, r.EarthBulgeFt, 1e-3)
			assert.InDelta(t, 1112.5-tt.bulge, r.CurvedLOSFt, 1e-3)

			// 17.32 * sqrt(2.780 * 8.340 / (11 * 11.119)) m = 24.74 ft
			assert.InDelta(t, 24.74, r.FresnelRadiusFt, 0.01)

			assert.InDelta(t, tt.straight, r.StraightClearanceFt, 0.1)
			assert.InDelta(t, tt.curved, r.CurvedClearanceFt, 0.1)
			assert.InDelta(t, tt.fresnel, r.FresnelClearanceFt, 0.1)
			assert.InDelta(t, 1112.5-1200-150, r.VerticalStraightClearanceFt, 1e-3)
			assert.Equal(t, "clear", r.Status())
		})
	}
}

func TestCalculator_AnalyzeFarOff(t *testing.T) {
	f := newFixture(t)
	c := NewCalculator(propagation.NewModel())

	o := Obstruction{ID: "T2", Position: geo.Destination(f.mid, 90, 5000), HubHeightFt: 300, RotorRadiusFt: 150}

	r, err := c.Analyze(o, f.path, f.profile)
	require.NoError(t, err)

	assert.InDelta(t, -5000, r.PerpendicularOffsetFt, 5)
	assert.Equal(t, -1, r.PathSide)

	want := math.Hypot(r.PerpendicularOffsetFt, 1300-r.StraightLOSFt) - 150
	assert.InDelta(t, want, r.StraightClearanceFt, 1e-9)
	assert.Greater(t, r.FresnelClearanceFt, 4000.0)
	assert.True(t, r.HasFresnelClearance)
	assert.Equal(t, "clear", r.Status())
}

func TestCalculator_AnalyzeIdempotent(t *testing.T) {
	f := newFixture(t)
	c := NewCalculator(propagation.NewModel())

	o := Obstruction{ID: "T3", Position: geo.Destination(f.mid, 45, 800), HubHeightFt: 262, RotorRadiusFt: 164}

	r1, err := c.Analyze(o, f.path, f.profile)
	require.NoError(t, err)
	r2, err := c.Analyze(o, f.path, f.profile)
	require.NoError(t, err)

	assert.Equal(t, r1, r2)
}

func TestCalculator_AnalyzeClamped(t *testing.T) {
	var buf bytes.Buffer
	f := newFixture(t)
	c := NewCalculator(propagation.NewModel(), WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))

	o := Obstruction{ID: "T4", Position: geo.Destination(f.path.SiteA().Position, 180, 1000), HubHeightFt: 100, RotorRadiusFt: 50}

	r, err := c.Analyze(o, f.path, f.profile)
	require.NoError(t, err)

	assert.True(t, r.Clamped)
	assert.Equal(t, 0.0, r.DistanceAlongFt)
	assert.Equal(t, 0.0, r.FresnelRadiusFt)
	assert.Contains(t, buf.String(), "obstruction projection out of range")
	assert.Contains(t, buf.String(), "obstruction=T4")
}

func TestCalculator_AnalyzeSearchArea(t *testing.T) {
	f := newFixture(t)
	area := geo.SearchPolygon(f.path.SiteA().Position, f.path.SiteB().Position, geo.DefaultSearchWidthFt, geo.DefaultSearchExtensionFt)
	c := NewCalculator(propagation.NewModel(), WithSearchArea(area))

	near, err := c.Analyze(Obstruction{ID: "near", Position: geo.Destination(f.mid, 270, 1500), HubHeightFt: 1}, f.path, f.profile)
	require.NoError(t, err)
	far, err := c.Analyze(Obstruction{ID: "far", Position: geo.Destination(f.mid, 270, 3000), HubHeightFt: 1}, f.path, f.profile)
	require.NoError(t, err)

	assert.True(t, near.InSearchArea)
	assert.False(t, far.InSearchArea)
	assert.Equal(t, 1, near.PathSide)
}

func TestObstruction_Validate(t *testing.T) {
	valid := Obstruction{ID: "T1", Position: geo.Point{Latitude: 40, Longitude: -80}, HubHeightFt: 100, RotorRadiusFt: 50}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		modify func(o *Obstruction)
		field  string
	}{
		{"missing id", func(o *Obstruction) { o.ID = "" }, "ID"},
		{"negative hub", func(o *Obstruction) { o.HubHeightFt = -1 }, "HubHeightFt"},
		{"negative rotor", func(o *Obstruction) { o.RotorRadiusFt = -5 }, "RotorRadiusFt"},
		{"nan rotor", func(o *Obstruction) { o.RotorRadiusFt = math.NaN() }, "RotorRadiusFt"},
		{"latitude out of range", func(o *Obstruction) { o.Position.Latitude = 95 }, "Position.Latitude"},
		{"infinite longitude", func(o *Obstruction) { o.Position.Longitude = math.Inf(1) }, "Position.Longitude"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := valid
			tt.modify(&o)

			err := o.Validate()
			require.Error(t, err)

			var ve *ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestCalculator_AnalyzeAll(t *testing.T) {
	var buf bytes.Buffer
	f := newFixture(t)
	c := NewCalculator(propagation.NewModel(),
		WithWorkers(4),
		WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))

	obstructions := []Obstruction{
		{ID: "T1", Position: geo.Destination(f.mid, 90, 1000), HubHeightFt: 200, RotorRadiusFt: 100},
		{ID: "bad", Position: geo.Destination(f.mid, 90, 2000), HubHeightFt: -10, RotorRadiusFt: 100},
		{ID: "T2", Position: geo.Destination(f.mid, 270, 3000), HubHeightFt: 200, RotorRadiusFt: 100},
		{ID: "T3", Position: geo.Destination(f.mid, 90, 4000), HubHeightFt: 200, RotorRadiusFt: 100},
	}

	batch, err := c.AnalyzeAll(context.Background(), obstructions, f.path, f.profile)
	require.NoError(t, err)

	assert.Equal(t, 4, batch.Total)
	require.Len(t, batch.Results, 3)
	assert.Equal(t, "T1", batch.Results[0].ObstructionID)
	assert.Equal(t, "T2", batch.Results[1].ObstructionID)
	assert.Equal(t, "T3", batch.Results[2].ObstructionID)

	require.Len(t, batch.Rejected, 1)
	assert.Equal(t, "bad", batch.Rejected[0].ObstructionID)
	assert.Contains(t, buf.String(), "1 of 4 turbines could not be analyzed due to invalid data")

	// parallel and sequential analysis agree
	sequential, err := NewCalculator(propagation.NewModel()).AnalyzeAll(context.Background(), obstructions, f.path, f.profile)
	require.NoError(t, err)
	assert.Equal(t, batch.Results, sequential.Results)
}

func TestCalculator_AnalyzeAllCancelled(t *testing.T) {
	f := newFixture(t)
	c := NewCalculator(propagation.NewModel())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.AnalyzeAll(ctx, []Obstruction{{ID: "T1", Position: f.mid}}, f.path, f.profile)
	assert.ErrorIs(t, err, context.Canceled)
}
