package propagation

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roman-kulish/los-clearance/internal/geo"
	"github.com/roman-kulish/los-clearance/internal/link"
)

func testPath(t *testing.T) *link.Path {
	t.Helper()

	a := link.Site{ID: "A", Position: geo.Point{Latitude: 40.0, Longitude: -80.0}, GroundElevationFt: 100, AntennaCenterlineFt: 50}
	b := link.Site{ID: "B", Position: geo.Point{Latitude: 40.1, Longitude: -80.0}, GroundElevationFt: 100, AntennaCenterlineFt: 50}

	p, err := link.NewPath(a, b, 11)
	require.NoError(t, err)
	return p
}

func TestModel_BulgeAt(t *testing.T) {
	m := NewModel()
	total := 36481.0

	assert.Equal(t, 0.0, m.BulgeAt(0, total))
	assert.Equal(t, 0.0, m.BulgeAt(total, total))
	assert.InDelta(t, 7.96, m.BulgeAt(total/2, total), 0.01)
	assert.Equal(t, 0.0, m.BulgeAt(100, 0))

	// monotonic towards the midpoint and symmetric around it
	prev := 0.0
	for d := 1000.0; d <= total/2; d += 1000 {
		b := m.BulgeAt(d, total)
		assert.Greater(t, b, prev)
		assert.InDelta(t, b, m.BulgeAt(total-d, total), 1e-9)
		prev = b
	}
}

func TestModel_KFactor(t *testing.T) {
	total := 36481.0

	geometric := NewModel()
	standard := NewModel(WithKFactor(StandardAtmosphereKFactor))

	assert.InDelta(t, geometric.BulgeAt(total/2, total)*3/4, standard.BulgeAt(total/2, total), 1e-9)
	assert.InDelta(t, geo.EarthRadiusFt*4/3, standard.EffectiveRadiusFt(), 1e-6)

	fallback := NewModel(WithKFactor(0))
	assert.Equal(t, DefaultKFactor, fallback.KFactor())
}

func TestModel_EarthRadiusOverride(t *testing.T) {
	m := NewModel(WithEarthRadius(1000))
	assert.Equal(t, 25.0*75/2000, m.BulgeAt(25, 100))
	assert.Equal(t, m.BulgeAt(25, 100), Bulge(25, 100, 1000))
}

func TestModel_CurvedLOSHeight(t *testing.T) {
	m := NewModel()
	p := testPath(t)
	mid := p.TotalLengthFt() / 2

	assert.InDelta(t, 150, m.StraightLOSHeight(mid, p), 1e-9)
	assert.InDelta(t, 150-m.BulgeAt(mid, p.TotalLengthFt()), m.CurvedLOSHeight(mid, p), 1e-9)
	assert.InDelta(t, 150, m.CurvedLOSHeight(0, p), 1e-9)
	assert.InDelta(t, 150, m.CurvedLOSHeight(p.TotalLengthFt(), p), 1e-9)
}

func TestModel_FresnelRadius(t *testing.T) {
	m := NewModel()

	assert.InDelta(t, 27.09, m.FresnelRadius(5, 5, 11), 0.01)
	assert.Equal(t, 0.0, m.FresnelRadius(0, 10, 11))
	assert.Equal(t, 0.0, m.FresnelRadius(10, 0, 11))

	// the zone is widest at the midpoint
	assert.Greater(t, m.FresnelRadius(5, 5, 11), m.FresnelRadius(2, 8, 11))
	// and narrows with frequency
	assert.Greater(t, m.FresnelRadius(5, 5, 6), m.FresnelRadius(5, 5, 11))
}

func TestModel_FresnelRadiusDegenerate(t *testing.T) {
	var buf bytes.Buffer
	m := NewModel(WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))

	assert.Equal(t, 0.0, m.FresnelRadius(0, 0, 11))
	assert.Contains(t, buf.String(), "zero length path")

	buf.Reset()
	assert.Equal(t, 0.0, m.FresnelRadius(5, 5, 0))
	assert.Contains(t, buf.String(), "invalid frequency")

	buf.Reset()
	assert.Equal(t, 0.0, m.FresnelRadius(-1, 5, 11))
	assert.Contains(t, buf.String(), "invalid fresnel distances")
}

func TestModel_FresnelRadiusAlong(t *testing.T) {
	m := NewModel()
	p := testPath(t)

	half := p.TotalLengthFt() / 2 / geo.FeetPerKilometer
	assert.InDelta(t, m.FresnelRadius(half, half, 11), m.FresnelRadiusAlong(p.TotalLengthFt()/2, p), 1e-9)
	assert.Equal(t, 0.0, m.FresnelRadiusAlong(0, p))
}
