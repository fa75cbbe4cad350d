package render

import (
	"image/color"
	"math"
)

const (
	ClassicTheme   ColorTheme = "classic"
	GrayscaleTheme ColorTheme = "grayscale"
	ThermalTheme   ColorTheme = "thermal"
	MarineTheme    ColorTheme = "marine"
)

const defaultScaleSize = 256

// ColorTheme names a gradient used for the clearance scale.
type ColorTheme string

var (
	// InvalidClearanceColor is used for results without a finite clearance.
	InvalidClearanceColor color.Color = color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}

	// IntrudingColor marks obstructions with a negative clearance.
	IntrudingColor color.Color = color.RGBA{R: 0xd0, A: 0xff}

	backgroundColor = color.White
	axisColor       = color.Black
	terrainColor    = color.RGBA{R: 0x9c, G: 0x7a, B: 0x54, A: 0xff}
	vegetationColor = color.RGBA{R: 0x4c, G: 0x99, B: 0x3c, A: 0xff}
	losColor        = color.RGBA{R: 0x00, G: 0x55, B: 0xcc, A: 0xff}
	straightColor   = color.RGBA{R: 0x99, G: 0x99, B: 0x99, A: 0xff}
	fresnelColor    = color.RGBA{R: 0xff, G: 0xd7, B: 0x00, A: 0x60}
	searchAreaColor = color.RGBA{R: 0xff, G: 0xaa, B: 0x00, A: 0x28}
)

// statusColors colors obstructions by verdict in the profile view.
var statusColors = map[string]color.Color{
	"clear":             color.RGBA{R: 0x2e, G: 0xb8, B: 0x2e, A: 0xff},
	"in Fresnel zone":   color.RGBA{R: 0xe6, G: 0xb8, B: 0x00, A: 0xff},
	"blocks curved LOS": color.RGBA{R: 0xff, G: 0x80, B: 0x00, A: 0xff},
	"blocks LOS":        IntrudingColor,
}

// ClearanceScale maps a clearance in feet onto a gradient. Small clearances
// are "hot", clearances at or above the scale maximum are "cold".
type ClearanceScale struct {
	colorMap []color.Color
	maxFt    float64
}

// NewClearanceScale precomputes the gradient for clearances in [0, maxFt].
func NewClearanceScale(theme ColorTheme, maxFt float64) *ClearanceScale {
	if !(maxFt > 0) {
		maxFt = 1
	}

	fn := GetColorTheme(theme)
	cs := &ClearanceScale{
		colorMap: make([]color.Color, defaultScaleSize),
		maxFt:    maxFt,
	}
	for i := range cs.colorMap {
		cs.colorMap[i] = fn(1 - float64(i)/float64(defaultScaleSize-1))
	}
	return cs
}

// Color returns the scale color for clearanceFt.
func (cs *ClearanceScale) Color(clearanceFt float64) color.Color {
	switch {
	case math.IsNaN(clearanceFt) || math.IsInf(clearanceFt, 0):
		return InvalidClearanceColor
	case clearanceFt < 0:
		return IntrudingColor
	}

	index := int(math.Min(clearanceFt, cs.maxFt) / cs.maxFt * float64(len(cs.colorMap)-1))
	return cs.colorMap[index]
}

// HSV represents a color in HSV color space
type HSV struct {
	H float64 // Hue [0-360]
	S float64 // Saturation [0-1]
	V float64 // Value [0-1]
}

// RGB converts HSV color space to RGB
func (hsv HSV) RGB() color.Color {
	h, s, v := hsv.H, hsv.S, hsv.V

	if s <= 0.0 {
		rgb := uint8(v * 255)
		return color.RGBA{R: rgb, G: rgb, B: rgb, A: 0xff}
	}

	// Normalize hue to [0-6]
	h = math.Mod(h, 360) / 60
	i := math.Floor(h)
	f := h - i

	p := v * (1 - s)
	q := v * (1 - s*f)
	t := v * (1 - s*(1-f))

	var r, g, b float64

	switch int(i) {
	case 0:
		r, g, b = v, t, p
	case 1:
		r, g, b = q, v, p
	case 2:
		r, g, b = p, v, t
	case 3:
		r, g, b = p, q, v
	case 4:
		r, g, b = t, p, v
	default:
		r, g, b = v, p, q
	}

	return color.RGBA{R: uint8(r * 255), G: uint8(g * 255), B: uint8(b * 255), A: 0xff}
}

// trafficLight runs green -> yellow -> red, the default for clearances.
func trafficLight(v float64) color.Color {
	v = math.Max(0, math.Min(1, v))
	return HSV{H: 120 - v*120, S: 0.85, V: 0.9}.RGB()
}

// GetColorTheme returns predefined color themes. Input is normalized to
// [0, 1], 1 being the hottest.
func GetColorTheme(theme ColorTheme) func(float64) color.Color {
	switch theme {
	case ClassicTheme: // Blue -> Red
		return func(v float64) color.Color {
			return HSV{H: 240 - (v * 240), S: 0.9 + (v * 0.1), V: 0.9}.RGB()
		}

	case GrayscaleTheme: // White -> Black
		return func(v float64) color.Color {
			g := uint8((1 - math.Pow(v, 0.7)) * 220)
			return color.RGBA{R: g, G: g, B: g, A: 0xff}
		}

	case ThermalTheme: // Yellow -> Red -> Dark red
		return func(v float64) color.Color {
			if v < 0.5 {
				return color.RGBA{R: 255, G: uint8((1 - v*2) * 220), A: 0xff}
			}
			return color.RGBA{R: uint8(255 - (v-0.5)*2*120), A: 0xff}
		}

	case MarineTheme: // Cyan -> Deep Blue
		return func(v float64) color.Color {
			return HSV{H: 180 + (v * 60), S: 0.4 + (v * 0.6), V: 1.0 - (v * 0.5)}.RGB()
		}

	default:
		return trafficLight
	}
}

// ValidTheme reports whether theme names a known gradient. The empty
// theme selects the default.
func ValidTheme(theme ColorTheme) bool {
	switch theme {
	case "", ClassicTheme, GrayscaleTheme, ThermalTheme, MarineTheme:
		return true
	}
	return false
}
