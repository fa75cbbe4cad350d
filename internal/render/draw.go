package render

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/vector"
)

// canvas draws anti-aliased shapes into the plot area of an image. Shape
// coordinates are plot pixels with the origin at the top left of the area.
type canvas struct {
	img  *image.RGBA
	area image.Rectangle
	z    *vector.Rasterizer
}

type point struct {
	X, Y float32
}

func newCanvas(img *image.RGBA, area image.Rectangle) *canvas {
	return &canvas{
		img:  img,
		area: area,
		z:    vector.NewRasterizer(area.Dx(), area.Dy()),
	}
}

func (c *canvas) flush(col color.Color) {
	c.z.Draw(c.img, c.area, image.NewUniform(col), image.Point{})
	c.z.Reset(c.area.Dx(), c.area.Dy())
}

// fillPolygon fills a closed polygon.
func (c *canvas) fillPolygon(pts []point, col color.Color) {
	if len(pts) < 3 {
		return
	}

	c.z.MoveTo(pts[0].X, pts[0].Y)
	for _, p := range pts[1:] {
		c.z.LineTo(p.X, p.Y)
	}
	c.z.ClosePath()
	c.flush(col)
}

// polyline strokes consecutive segments with the given width.
func (c *canvas) polyline(pts []point, width float32, col color.Color) {
	for i := 1; i < len(pts); i++ {
		c.segment(pts[i-1], pts[i], width)
	}
	c.flush(col)
}

func (c *canvas) line(a, b point, width float32, col color.Color) {
	c.segment(a, b, width)
	c.flush(col)
}

func (c *canvas) segment(a, b point, width float32) {
	dx, dy := b.X-a.X, b.Y-a.Y
	n := float32(math.Hypot(float64(dx), float64(dy)))
	if n == 0 {
		return
	}

	// half width normal to the segment
	nx, ny := -dy/n*width/2, dx/n*width/2

	c.z.MoveTo(a.X+nx, a.Y+ny)
	c.z.LineTo(b.X+nx, b.Y+ny)
	c.z.LineTo(b.X-nx, b.Y-ny)
	c.z.LineTo(a.X-nx, a.Y-ny)
	c.z.ClosePath()
}

// circle fills a circle approximated by a 32 sided polygon.
func (c *canvas) circle(center point, radius float32, col color.Color) {
	const sides = 32

	pts := make([]point, sides)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / sides
		pts[i] = point{
			X: center.X + radius*float32(math.Cos(a)),
			Y: center.Y + radius*float32(math.Sin(a)),
		}
	}
	c.fillPolygon(pts, col)
}

// axis maps a data range onto a pixel extent.
type axis struct {
	min, max float64
	px       int
	inverted bool
}

func (a axis) pos(v float64) float32 {
	f := (v - a.min) / (a.max - a.min)
	if a.inverted {
		f = 1 - f
	}
	return float32(f * float64(a.px))
}

// scale converts a length in data units into pixels.
func (a axis) scale(v float64) float32 {
	return float32(v / (a.max - a.min) * float64(a.px))
}

// padded widens [lo, hi] by a fraction of the span, with at least minPad on
// each side.
func padded(lo, hi, fraction, minPad float64) (float64, float64) {
	pad := math.Max((hi-lo)*fraction, minPad)
	return lo - pad, hi + pad
}
