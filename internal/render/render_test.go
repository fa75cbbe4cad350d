package render

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roman-kulish/los-clearance/internal/clearance"
	"github.com/roman-kulish/los-clearance/internal/geo"
	"github.com/roman-kulish/los-clearance/internal/link"
	"github.com/roman-kulish/los-clearance/internal/propagation"
	"github.com/roman-kulish/los-clearance/internal/terrain"
)

func testInput(t *testing.T) *Input {
	t.Helper()

	a := link.Site{ID: "A", Position: geo.Point{Latitude: 40.0, Longitude: -80.0}, GroundElevationFt: 1000, AntennaCenterlineFt: 150}
	b := link.Site{ID: "B", Position: geo.Point{Latitude: 40.1, Longitude: -80.0}, GroundElevationFt: 1000, AntennaCenterlineFt: 150}
	path, err := link.NewPath(a, b, 11)
	require.NoError(t, err)

	profile, err := terrain.NewUniformProfile([]float64{1000, 1020, 1040, 1020, 1000}, path.TotalLengthFt())
	require.NoError(t, err)

	return &Input{
		Path:    path,
		Model:   propagation.NewModel(),
		Profile: profile,
		Results: []clearance.Result{
			{ObstructionID: "T1", DistanceAlongFt: 18000, PerpendicularOffsetFt: 1200, GroundElevationFt: 1040,
				CenterHeightFt: 300, RotorRadiusFt: 150, FresnelClearanceFt: 900, CurvedClearanceFt: 1000,
				HasLOSClearance: true, HasEarthClearance: true, HasFresnelClearance: true},
			{ObstructionID: "T2", DistanceAlongFt: 9000, PerpendicularOffsetFt: -40, GroundElevationFt: 1010,
				CenterHeightFt: 300, RotorRadiusFt: 150, FresnelClearanceFt: -120, CurvedClearanceFt: -100},
		},
	}
}

func TestNewRenderer(t *testing.T) {
	r, err := NewRenderer(Config{})
	require.NoError(t, err)
	assert.Equal(t, defaultWidth, r.config.Width)
	assert.Equal(t, geo.DefaultSearchWidthFt, r.config.SearchWidthFt)

	_, err = NewRenderer(Config{Theme: "rainbow"})
	assert.Error(t, err)

	_, err = NewRenderer(Config{Width: -1})
	assert.Error(t, err)
}

func TestRenderProfile(t *testing.T) {
	r, err := NewRenderer(Config{Width: 400, Height: 200})
	require.NoError(t, err)

	img, err := r.RenderProfile(testInput(t))
	require.NoError(t, err)

	b := r.config.BorderConfig
	assert.Equal(t, image.Rect(0, 0, 400+b.Left+b.Right, 200+b.Top+b.Bottom), img.Bounds())

	// bottom of the plot area is filled with terrain
	got := img.RGBAAt(b.Left+200, b.Top+198)
	assert.InDelta(t, terrainColor.R, got.R, 2)
	assert.InDelta(t, terrainColor.G, got.G, 2)
	assert.InDelta(t, terrainColor.B, got.B, 2)

	// the corner outside the plot stays background
	assert.Equal(t, color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, img.RGBAAt(img.Bounds().Max.X-1, img.Bounds().Max.Y-1))
}

func TestRenderPlan(t *testing.T) {
	r, err := NewRenderer(Config{Width: 400, Height: 200, Theme: ThermalTheme})
	require.NoError(t, err)

	in := testInput(t)
	img, err := r.RenderPlan(in)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, img, ImagePNG))

	decoded, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, img.Bounds(), decoded.Bounds())
}

func TestRender_RequiresPath(t *testing.T) {
	r, err := NewRenderer(Config{})
	require.NoError(t, err)

	_, err = r.RenderProfile(&Input{})
	assert.Error(t, err)

	_, err = r.RenderPlan(&Input{Path: testInput(t).Path})
	assert.Error(t, err)
}

func TestClearanceScale(t *testing.T) {
	s := NewClearanceScale("", 1000)

	assert.Equal(t, IntrudingColor, s.Color(-1))
	assert.Equal(t, InvalidClearanceColor, s.Color(math.NaN()))
	assert.Equal(t, s.Color(1000), s.Color(5000), "clearances above the maximum are clamped")
	assert.NotEqual(t, s.Color(0), s.Color(1000))
}

func TestNiceStep(t *testing.T) {
	tests := []struct {
		span, desired, want float64
	}{
		{span: 36481, desired: 10, want: 5000},
		{span: 1000, desired: 5, want: 200},
		{span: 90, desired: 10, want: 10},
		{span: 0, desired: 10, want: 1},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, niceStep(tt.span, tt.desired), 1e-9, "span %v", tt.span)
	}
}

func TestParseImageFormat(t *testing.T) {
	f, err := ParseImageFormat("JPG")
	require.NoError(t, err)
	assert.Equal(t, ImageJPEG, f)

	_, err = ParseImageFormat("gif")
	assert.Error(t, err)
}

func TestFormatDistance(t *testing.T) {
	assert.Equal(t, "1,500 ft", formatDistance(1500))
	assert.Equal(t, "3 mi", formatDistance(3*feetPerMile))
}
