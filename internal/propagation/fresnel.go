package propagation

import (
	"log/slog"
	"math"

	"github.com/roman-kulish/los-clearance/internal/geo"
)

// fresnelConstant yields the first zone radius in meters for distances in
// kilometers and frequency in GHz.
const fresnelConstant = 17.32

// FresnelRadius returns the first Fresnel zone radius in feet at a point d1Km
// from one end and d2Km from the other.
//
// Degenerate input (zero total distance, negative distances or a non-positive
// frequency) is logged and yields 0.
func (m *Model) FresnelRadius(d1Km, d2Km, frequencyGHz float64) float64 {
	total := d1Km + d2Km

	switch {
	case math.IsNaN(total) || d1Km < 0 || d2Km < 0:
		m.logger.Warn("invalid fresnel distances",
			slog.Float64("d1Km", d1Km),
			slog.Float64("d2Km", d2Km))
		return 0
	case total == 0:
		m.logger.Warn("fresnel radius requested on a zero length path")
		return 0
	case !(frequencyGHz > 0):
		m.logger.Warn("invalid frequency for fresnel radius", slog.Float64("frequencyGHz", frequencyGHz))
		return 0
	}

	radiusM := fresnelConstant * math.Sqrt(d1Km*d2Km/(frequencyGHz*total))
	return radiusM * geo.FeetPerMeter
}
