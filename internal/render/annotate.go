package render

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/dustin/go-humanize"
	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	dpi            = 96.0
	tickMarkLength = 5
	pixelsPerLabel = 120.0
	lineSpacing    = 1.3
	feetPerMile    = 5280.0
)

type annotator struct {
	context  *freetype.Context
	fontFace font.Face
}

func newAnnotator(fontSize float64) (*annotator, error) {
	parsedFont, err := freetype.ParseFont(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parsing font: %w", err)
	}

	ctx := freetype.NewContext()
	ctx.SetDPI(dpi)
	ctx.SetFont(parsedFont)
	ctx.SetFontSize(fontSize)
	ctx.SetHinting(font.HintingNone)
	ctx.SetSrc(image.NewUniform(axisColor))

	return &annotator{
		context: ctx,
		fontFace: truetype.NewFace(parsedFont, &truetype.Options{
			Size:    fontSize,
			DPI:     dpi,
			Hinting: font.HintingNone,
		}),
	}, nil
}

func (a *annotator) Close() error {
	if a.fontFace != nil {
		return a.fontFace.Close()
	}
	return nil
}

func (a *annotator) attach(img *image.RGBA) {
	a.context.SetClip(img.Bounds())
	a.context.SetDst(img)
}

func (a *annotator) fontHeight() int {
	metrics := a.fontFace.Metrics()
	return (metrics.Ascent + metrics.Descent).Round()
}

func (a *annotator) drawString(s string, x, y int, col color.Color) error {
	a.context.SetSrc(image.NewUniform(col))
	_, err := a.context.DrawString(s, freetype.Pt(x, y))
	return err
}

// drawXScale draws distance ticks below the plot area.
func (a *annotator) drawXScale(img *image.RGBA, area image.Rectangle, x axis, format func(float64) string) error {
	step := niceStep(x.max-x.min, float64(area.Dx())/pixelsPerLabel)
	textY := area.Max.Y + tickMarkLength + a.fontHeight()

	for v := math.Ceil(x.min/step) * step; v <= x.max; v += step {
		px := area.Min.X + int(x.pos(v))

		for y := area.Max.Y; y < area.Max.Y+tickMarkLength; y++ {
			img.Set(px, y, axisColor)
		}

		label := format(v)
		width := font.MeasureString(a.fontFace, label).Round()
		if err := a.drawString(label, px-width/2, textY, axisColor); err != nil {
			return fmt.Errorf("drawing distance label: %w", err)
		}
	}
	return nil
}

// drawYScale draws height or offset ticks left of the plot area.
func (a *annotator) drawYScale(img *image.RGBA, area image.Rectangle, y axis, format func(float64) string) error {
	step := niceStep(y.max-y.min, float64(area.Dy())/pixelsPerLabel*1.5)
	metrics := a.fontFace.Metrics()

	for v := math.Ceil(y.min/step) * step; v <= y.max; v += step {
		py := area.Min.Y + int(y.pos(v))

		for x := area.Min.X - tickMarkLength; x < area.Min.X; x++ {
			img.Set(x, py, axisColor)
		}

		label := format(v)
		width := font.MeasureString(a.fontFace, label).Round()
		textY := py + a.fontHeight()/2 - metrics.Descent.Round()
		if err := a.drawString(label, area.Min.X-tickMarkLength-3-width, textY, axisColor); err != nil {
			return fmt.Errorf("drawing height label: %w", err)
		}
	}
	return nil
}

// drawFrame outlines the plot area.
func (a *annotator) drawFrame(img *image.RGBA, area image.Rectangle) {
	for x := area.Min.X; x <= area.Max.X; x++ {
		img.Set(x, area.Min.Y, axisColor)
		img.Set(x, area.Max.Y, axisColor)
	}
	for y := area.Min.Y; y <= area.Max.Y; y++ {
		img.Set(area.Min.X, y, axisColor)
		img.Set(area.Max.X, y, axisColor)
	}
}

// drawLines writes lines of text starting at the top left corner (x, y).
func (a *annotator) drawLines(lines []string, x, y int) error {
	step := int(math.Ceil(float64(a.fontHeight()) * lineSpacing))
	for _, s := range lines {
		y += step
		if err := a.drawString(s, x, y, axisColor); err != nil {
			return fmt.Errorf("drawing text: %w", err)
		}
	}
	return nil
}

// niceStep returns a 1, 2 or 5 times power of ten step giving roughly
// the desired number of intervals over span.
func niceStep(span, desired float64) float64 {
	if !(span > 0) {
		return 1
	}
	desired = math.Max(desired, 1)

	rough := span / desired
	magnitude := math.Pow(10, math.Floor(math.Log10(rough)))

	for _, m := range []float64{1, 2, 5, 10} {
		if step := m * magnitude; step >= rough {
			return step
		}
	}
	return 10 * magnitude
}

// formatDistance labels distances along the path, switching to miles for
// long paths.
func formatDistance(ft float64) string {
	if math.Abs(ft) >= 2*feetPerMile {
		return humanize.FtoaWithDigits(ft/feetPerMile, 2) + " mi"
	}
	return humanize.Comma(int64(math.Round(ft))) + " ft"
}

func formatFeet(ft float64) string {
	return humanize.Comma(int64(math.Round(ft))) + " ft"
}
