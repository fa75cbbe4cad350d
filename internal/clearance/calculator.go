package clearance

import (
	"io"
	"log/slog"
	"math"

	"github.com/paulmach/orb"

	"github.com/roman-kulish/los-clearance/internal/geo"
	"github.com/roman-kulish/los-clearance/internal/link"
	"github.com/roman-kulish/los-clearance/internal/propagation"
	"github.com/roman-kulish/los-clearance/internal/terrain"
)

// WithLogger sets the logger for the calculator
func WithLogger(logger *slog.Logger) func(c *Calculator) {
	return func(c *Calculator) {
		c.logger = logger
	}
}

// WithSearchArea flags results whose obstruction lies inside poly
func WithSearchArea(poly orb.Polygon) func(c *Calculator) {
	return func(c *Calculator) {
		c.searchArea = poly
	}
}

// WithWorkers sets how many obstructions AnalyzeAll evaluates in parallel
func WithWorkers(n int) func(c *Calculator) {
	return func(c *Calculator) {
		c.workers = n
	}
}

// Calculator evaluates obstructions against a path. It keeps no state between
// calls, so repeated analysis of the same input yields identical results.
type Calculator struct {
	model      *propagation.Model
	searchArea orb.Polygon
	workers    int
	logger     *slog.Logger
}

// NewCalculator creates a new Calculator with a discard logger
func NewCalculator(model *propagation.Model, options ...func(c *Calculator)) *Calculator {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil)) // nil logger

	c := Calculator{
		model:   model,
		workers: 1,
		logger:  logger,
	}

	for _, option := range options {
		option(&c)
	}

	if c.model == nil {
		c.model = propagation.NewModel(propagation.WithLogger(c.logger))
	}

	return &c
}

// Analyze computes the clearance of a single obstruction. It returns a
// *ValidationError when the obstruction record is malformed; negative
// clearance is a valid outcome and not an error.
func (c *Calculator) Analyze(o Obstruction, path *link.Path, profile *terrain.Profile) (Result, error) {
	if err := o.Validate(); err != nil {
		return Result{}, err
	}

	proj := path.Project(o.Position)
	if proj.Clamped() {
		w := &OutOfRangeWarning{
			ObstructionID: o.ID,
			PathID:        path.ID(),
			RawDistanceFt: proj.Ratio * path.TotalLengthFt(),
			TotalLengthFt: path.TotalLengthFt(),
		}
		c.logger.Warn("obstruction projection out of range",
			slog.String("obstruction", o.ID),
			slog.String("path", path.ID()),
			slog.Float64("distanceFt", w.RawDistanceFt),
			slog.Any("warning", w))
	}

	along := proj.DistanceAlongFt
	perp := proj.PerpendicularOffsetFt

	ground := profile.GroundAt(along)
	center := ground + o.HubHeightFt

	bulge := c.model.BulgeAt(along, path.TotalLengthFt())
	straight := c.model.StraightLOSHeight(along, path)
	curved := straight - bulge

	straightClearance := math.Hypot(perp, math.Abs(straight-center)) - o.RotorRadiusFt
	curvedClearance := math.Hypot(perp, math.Abs(curved-center)) - o.RotorRadiusFt

	fresnelRadius := c.model.FresnelRadius(
		along/geo.FeetPerKilometer,
		(path.TotalLengthFt()-along)/geo.FeetPerKilometer,
		path.FrequencyGHz(),
	)
	fresnelClearance := curvedClearance - fresnelRadius

	r := Result{
		ObstructionID:         o.ID,
		DistanceAlongFt:       along,
		PerpendicularOffsetFt: perp,
		StraightClearanceFt:   straightClearance,
		CurvedClearanceFt:     curvedClearance,
		FresnelClearanceFt:    fresnelClearance,
		FresnelRadiusFt:       fresnelRadius,

		GroundElevationFt: ground,
		CenterHeightFt:    center,
		RotorRadiusFt:     o.RotorRadiusFt,
		StraightLOSFt:     straight,
		CurvedLOSFt:       curved,
		EarthBulgeFt:      bulge,

		VerticalStraightClearanceFt: straight - center - o.RotorRadiusFt,
		VerticalCurvedClearanceFt:   curved - center - o.RotorRadiusFt,

		PathSide: proj.Side(),
		Clamped:  proj.Clamped(),

		HasLOSClearance:     straightClearance > 0,
		HasEarthClearance:   curvedClearance > 0,
		HasFresnelClearance: fresnelClearance > 0,
	}

	if len(c.searchArea) > 0 {
		r.InSearchArea = geo.Contains(c.searchArea, o.Position)
	}

	return r, nil
}
