// Package render draws an analysed path as raster images: a side elevation
// profile with terrain, line of sight and Fresnel zone, and a plan view of
// obstructions around the path.
package render

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"math"

	"github.com/roman-kulish/los-clearance/internal/clearance"
	"github.com/roman-kulish/los-clearance/internal/geo"
	"github.com/roman-kulish/los-clearance/internal/link"
	"github.com/roman-kulish/los-clearance/internal/propagation"
	"github.com/roman-kulish/los-clearance/internal/terrain"
)

const (
	defaultWidth    = 1600
	defaultHeight   = 600
	defaultFontSize = 11.0

	// Default border sizes in pixels
	defaultTopBorder    = 80
	defaultLeftBorder   = 90
	defaultBottomBorder = 40
	defaultRightBorder  = 30

	// samples per pixel column used for the LOS and Fresnel curves
	curveStepPx = 4
)

// BorderConfig defines the sizes of white space around the plot area
type BorderConfig struct {
	Top    int // Space for the title
	Left   int // Space for the vertical scale
	Bottom int // Space for the distance scale
	Right  int // Right padding
}

// Config holds the image options shared by both views
type Config struct {
	Width    int        // Plot area width in pixels
	Height   int        // Plot area height in pixels
	FontSize float64    // Font size in points
	Theme    ColorTheme // Gradient for the plan view clearance scale

	// SearchWidthFt is the half width of the plan view search band.
	SearchWidthFt float64

	BorderConfig BorderConfig
}

// Input is the analysed path to draw.
type Input struct {
	Path    *link.Path
	Model   *propagation.Model
	Profile *terrain.Profile
	Results []clearance.Result
}

func (in *Input) validate() error {
	switch {
	case in == nil || in.Path == nil:
		return errors.New("path is required")
	case in.Model == nil:
		return errors.New("propagation model is required")
	}
	return nil
}

// Renderer draws path images
type Renderer struct {
	config Config
}

// NewRenderer creates a new renderer, zero config values are replaced with
// defaults.
func NewRenderer(config Config) (*Renderer, error) {
	if config.Width < 0 || config.Height < 0 {
		return nil, fmt.Errorf("invalid image size %dx%d", config.Width, config.Height)
	}
	if !ValidTheme(config.Theme) {
		return nil, fmt.Errorf("unknown color theme: %s", config.Theme)
	}

	if config.Width == 0 {
		config.Width = defaultWidth
	}
	if config.Height == 0 {
		config.Height = defaultHeight
	}
	if config.FontSize == 0 {
		config.FontSize = defaultFontSize
	}
	if config.SearchWidthFt <= 0 {
		config.SearchWidthFt = geo.DefaultSearchWidthFt
	}
	if config.BorderConfig.Top == 0 {
		config.BorderConfig.Top = defaultTopBorder
	}
	if config.BorderConfig.Left == 0 {
		config.BorderConfig.Left = defaultLeftBorder
	}
	if config.BorderConfig.Bottom == 0 {
		config.BorderConfig.Bottom = defaultBottomBorder
	}
	if config.BorderConfig.Right == 0 {
		config.BorderConfig.Right = defaultRightBorder
	}

	return &Renderer{config: config}, nil
}

func (r *Renderer) newImage() (*image.RGBA, image.Rectangle) {
	b := r.config.BorderConfig
	img := image.NewRGBA(image.Rect(0, 0, r.config.Width+b.Left+b.Right, r.config.Height+b.Top+b.Bottom))
	draw.Draw(img, img.Bounds(), image.NewUniform(backgroundColor), image.Point{}, draw.Src)

	return img, image.Rect(b.Left, b.Top, b.Left+r.config.Width, b.Top+r.config.Height)
}

// RenderProfile draws the side elevation of the path: ground and
// vegetation, the straight and curved line of sight, the first Fresnel zone
// around the curved line and every obstruction at its distance along the
// path.
func (r *Renderer) RenderProfile(in *Input) (*image.RGBA, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	img, area := r.newImage()
	length := in.Path.TotalLengthFt()
	a, b := in.Path.SiteA(), in.Path.SiteB()

	lo := math.Min(a.GroundElevationFt, b.GroundElevationFt)
	hi := math.Max(a.EffectiveHeightFt(), b.EffectiveHeightFt())
	if in.Profile.Len() > 0 {
		lo = math.Min(lo, in.Profile.MinGroundFt())
		hi = math.Max(hi, in.Profile.MaxSurfaceFt())
	}
	for _, res := range in.Results {
		lo = math.Min(lo, res.GroundElevationFt)
		hi = math.Max(hi, res.GroundElevationFt+res.CenterHeightFt+res.RotorRadiusFt)
	}
	lo, hi = padded(lo, hi, 0.05, 10)

	x := axis{min: 0, max: length, px: area.Dx()}
	y := axis{min: lo, max: hi, px: area.Dy(), inverted: true}
	c := newCanvas(img, area)

	r.drawTerrain(c, in, x, y)

	// Fresnel envelope around the curved LOS
	var upper, lower, curved []point
	for px := 0; px <= area.Dx(); px += curveStepPx {
		d := length * float64(px) / float64(area.Dx())
		h := in.Model.CurvedLOSHeight(d, in.Path)
		f := in.Model.FresnelRadiusAlong(d, in.Path)

		upper = append(upper, point{x.pos(d), y.pos(h + f)})
		lower = append(lower, point{x.pos(d), y.pos(h - f)})
		curved = append(curved, point{x.pos(d), y.pos(h)})
	}
	band := append(upper, reversed(lower)...)
	c.fillPolygon(band, fresnelColor)

	c.line(
		point{x.pos(0), y.pos(a.EffectiveHeightFt())},
		point{x.pos(length), y.pos(b.EffectiveHeightFt())},
		1, straightColor)
	c.polyline(curved, 2, losColor)

	for _, res := range in.Results {
		if res.Clamped {
			continue
		}

		col, ok := statusColors[res.Status()]
		if !ok {
			col = InvalidClearanceColor
		}

		px := x.pos(res.DistanceAlongFt)
		ground := res.GroundElevationFt
		hub := ground + res.CenterHeightFt

		c.line(point{px, y.pos(ground)}, point{px, y.pos(hub)}, 2, col)
		c.line(point{px, y.pos(hub - res.RotorRadiusFt)}, point{px, y.pos(hub + res.RotorRadiusFt)}, 5, col)
	}

	ann, err := newAnnotator(r.config.FontSize)
	if err != nil {
		return nil, fmt.Errorf("creating annotator: %w", err)
	}
	defer ann.Close()

	ann.attach(img)
	ann.drawFrame(img, area)

	if err = ann.drawXScale(img, area, x, formatDistance); err != nil {
		return nil, fmt.Errorf("drawing distance scale: %w", err)
	}
	if err = ann.drawYScale(img, area, y, formatFeet); err != nil {
		return nil, fmt.Errorf("drawing height scale: %w", err)
	}
	if err = ann.drawLines(r.title(in, "elevation profile"), area.Min.X, 0); err != nil {
		return nil, fmt.Errorf("drawing title: %w", err)
	}

	return img, nil
}

func (r *Renderer) drawTerrain(c *canvas, in *Input, x, y axis) {
	samples := in.Profile.Samples()
	if len(samples) == 0 {
		return
	}

	bottom := y.pos(y.min)
	ground := make([]point, 0, len(samples)+2)
	surface := make([]point, 0, len(samples)*2)
	for _, s := range samples {
		ground = append(ground, point{x.pos(s.DistanceFt), y.pos(s.GroundElevationFt)})
		surface = append(surface, point{x.pos(s.DistanceFt), y.pos(s.SurfaceFt())})
	}

	// vegetation first, the ground polygon covers everything below it
	c.fillPolygon(append(surface, reversed(ground)...), vegetationColor)

	ground = append(ground,
		point{x.pos(samples[len(samples)-1].DistanceFt), bottom},
		point{x.pos(samples[0].DistanceFt), bottom},
	)
	c.fillPolygon(ground, terrainColor)
}

// RenderPlan draws the top down view of the path: the search band, the
// first Fresnel zone width and each obstruction as a circle of its rotor
// radius colored by its Fresnel clearance. Positive offsets are drawn above
// the path line.
func (r *Renderer) RenderPlan(in *Input) (*image.RGBA, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	img, area := r.newImage()
	length := in.Path.TotalLengthFt()

	half := r.config.SearchWidthFt
	for _, res := range in.Results {
		half = math.Max(half, math.Abs(res.PerpendicularOffsetFt)+res.RotorRadiusFt)
	}
	half *= 1.1

	x := axis{min: 0, max: length, px: area.Dx()}
	y := axis{min: -half, max: half, px: area.Dy(), inverted: true}
	c := newCanvas(img, area)

	c.fillPolygon([]point{
		{x.pos(0), y.pos(r.config.SearchWidthFt)},
		{x.pos(length), y.pos(r.config.SearchWidthFt)},
		{x.pos(length), y.pos(-r.config.SearchWidthFt)},
		{x.pos(0), y.pos(-r.config.SearchWidthFt)},
	}, searchAreaColor)

	var upper, lower []point
	for px := 0; px <= area.Dx(); px += curveStepPx {
		d := length * float64(px) / float64(area.Dx())
		f := in.Model.FresnelRadiusAlong(d, in.Path)

		upper = append(upper, point{x.pos(d), y.pos(f)})
		lower = append(lower, point{x.pos(d), y.pos(-f)})
	}
	c.fillPolygon(append(upper, reversed(lower)...), fresnelColor)
	c.line(point{x.pos(0), y.pos(0)}, point{x.pos(length), y.pos(0)}, 2, losColor)

	scale := NewClearanceScale(r.config.Theme, r.config.SearchWidthFt)

	ann, err := newAnnotator(r.config.FontSize)
	if err != nil {
		return nil, fmt.Errorf("creating annotator: %w", err)
	}
	defer ann.Close()
	ann.attach(img)

	for _, res := range in.Results {
		center := point{x.pos(res.DistanceAlongFt), y.pos(res.PerpendicularOffsetFt)}
		radius := float32(math.Max(float64(y.scale(res.RotorRadiusFt)), 3))
		c.circle(center, radius, scale.Color(res.FresnelClearanceFt))

		if err = ann.drawString(res.ObstructionID, area.Min.X+int(center.X+radius)+2, area.Min.Y+int(center.Y)-2, axisColor); err != nil {
			return nil, fmt.Errorf("drawing obstruction label: %w", err)
		}
	}

	ann.drawFrame(img, area)

	if err = ann.drawXScale(img, area, x, formatDistance); err != nil {
		return nil, fmt.Errorf("drawing distance scale: %w", err)
	}
	if err = ann.drawYScale(img, area, y, formatFeet); err != nil {
		return nil, fmt.Errorf("drawing offset scale: %w", err)
	}
	if err = ann.drawLines(r.title(in, "plan view"), area.Min.X, 0); err != nil {
		return nil, fmt.Errorf("drawing title: %w", err)
	}

	return img, nil
}

func (r *Renderer) title(in *Input, view string) []string {
	a, b := in.Path.SiteA(), in.Path.SiteB()

	return []string{
		fmt.Sprintf("Path %s %s", in.Path.ID(), view),
		fmt.Sprintf("Length: %s (%.2f mi); %.2f GHz; K=%.2f",
			formatFeet(in.Path.TotalLengthFt()),
			in.Path.TotalLengthFt()/feetPerMile,
			in.Path.FrequencyGHz(), in.Model.KFactor()),
		fmt.Sprintf("%s: %s + %s AGL; %s: %s + %s AGL; %d obstructions",
			a.ID, formatFeet(a.GroundElevationFt), formatFeet(a.AntennaCenterlineFt),
			b.ID, formatFeet(b.GroundElevationFt), formatFeet(b.AntennaCenterlineFt),
			len(in.Results)),
	}
}

func reversed(pts []point) []point {
	out := make([]point, len(pts))
	for i, p := range pts {
		out[len(pts)-1-i] = p
	}
	return out
}
