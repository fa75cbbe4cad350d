package propagation

import (
	"io"
	"log/slog"

	"github.com/roman-kulish/los-clearance/internal/geo"
	"github.com/roman-kulish/los-clearance/internal/link"
)

const (
	// DefaultKFactor is the effective Earth radius factor. A value of 1 models
	// the true geometric Earth; 4/3 is the usual standard atmosphere value.
	DefaultKFactor = 1.0

	// StandardAtmosphereKFactor is the 4/3 Earth model used in many path studies.
	StandardAtmosphereKFactor = 4.0 / 3.0
)

// WithEarthRadius overrides the Earth radius in feet
func WithEarthRadius(radiusFt float64) func(m *Model) {
	return func(m *Model) {
		m.earthRadiusFt = radiusFt
	}
}

// WithKFactor sets the refraction K-factor applied to the Earth radius
func WithKFactor(k float64) func(m *Model) {
	return func(m *Model) {
		m.kFactor = k
	}
}

// WithLogger sets the logger for the model
func WithLogger(logger *slog.Logger) func(m *Model) {
	return func(m *Model) {
		m.logger = logger.With(slog.String("component", "propagation"))
	}
}

// Model computes Earth curvature and Fresnel zone geometry along a path.
// It holds no per-path state and is safe for concurrent use.
type Model struct {
	earthRadiusFt float64
	kFactor       float64
	logger        *slog.Logger
}

// NewModel creates a new Model with a discard logger
func NewModel(options ...func(m *Model)) *Model {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil)) // nil logger

	m := Model{
		earthRadiusFt: geo.EarthRadiusFt,
		kFactor:       DefaultKFactor,
		logger:        logger,
	}

	for _, option := range options {
		option(&m)
	}

	if !(m.kFactor > 0) {
		m.logger.Warn("invalid k-factor, falling back to default", slog.Float64("kFactor", m.kFactor))
		m.kFactor = DefaultKFactor
	}
	if !(m.earthRadiusFt > 0) {
		m.logger.Warn("invalid earth radius, falling back to default", slog.Float64("earthRadiusFt", m.earthRadiusFt))
		m.earthRadiusFt = geo.EarthRadiusFt
	}

	return &m
}

// EffectiveRadiusFt is the Earth radius scaled by the K-factor.
func (m *Model) EffectiveRadiusFt() float64 {
	return m.earthRadiusFt * m.kFactor
}

func (m *Model) KFactor() float64 {
	return m.kFactor
}

// StraightLOSHeight is the straight line RF height at distanceAlongFt.
func (m *Model) StraightLOSHeight(distanceAlongFt float64, path *link.Path) float64 {
	return path.StraightHeightFt(distanceAlongFt)
}

// CurvedLOSHeight is the straight line height lowered by the Earth bulge.
func (m *Model) CurvedLOSHeight(distanceAlongFt float64, path *link.Path) float64 {
	return path.StraightHeightFt(distanceAlongFt) - m.BulgeAt(distanceAlongFt, path.TotalLengthFt())
}

// FresnelRadiusAlong is the first Fresnel zone radius in feet at distanceAlongFt.
func (m *Model) FresnelRadiusAlong(distanceAlongFt float64, path *link.Path) float64 {
	d1 := distanceAlongFt / geo.FeetPerKilometer
	d2 := (path.TotalLengthFt() - distanceAlongFt) / geo.FeetPerKilometer
	return m.FresnelRadius(d1, d2, path.FrequencyGHz())
}
