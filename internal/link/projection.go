package link

import (
	"math"

	"github.com/roman-kulish/los-clearance/internal/geo"
)

// Projection is the position of a point relative to a path.
type Projection struct {
	// DistanceAlongFt is the distance from site A to the foot of the
	// perpendicular, clamped to [0, TotalLengthFt].
	DistanceAlongFt float64

	// PerpendicularOffsetFt is the signed distance from the path line.
	// Positive values lie left of the A→B direction, negative values right.
	PerpendicularOffsetFt float64

	// Ratio is the unclamped projection ratio. Values outside [0, 1] mean the
	// point projects beyond one of the sites.
	Ratio float64
}

// Clamped reports whether DistanceAlongFt had to be clamped to the path bounds.
func (p Projection) Clamped() bool {
	return p.Ratio < 0 || p.Ratio > 1
}

// Side is +1 for points left of the path, -1 for points right of it and 0
// for points on the path line.
func (p Projection) Side() int {
	switch {
	case p.PerpendicularOffsetFt > 0:
		return 1
	case p.PerpendicularOffsetFt < 0:
		return -1
	}
	return 0
}

// Project computes the path-relative position of pt.
//
// Both the path and the point are mapped onto the unit sphere and projected
// onto the straight chord between the sites. This planar approximation holds
// for link lengths of up to a few tens of miles.
func (p *Path) Project(pt geo.Point) Projection {
	v := pt.UnitVector().Sub(p.origin)

	ratio := p.chord.Dot(v) / p.chordNorm2
	along := math.Max(0, math.Min(1, ratio)) * p.totalLengthFt

	cross := p.chord.Cross(v)
	offset := cross.Norm() / math.Sqrt(p.chordNorm2) * geo.EarthRadiusFt
	if offset != 0 && cross.Z <= 0 {
		offset = -offset
	}

	return Projection{
		DistanceAlongFt:       along,
		PerpendicularOffsetFt: offset,
		Ratio:                 ratio,
	}
}

// DistanceAlong returns the clamped distance from site A to the projection of pt.
func (p *Path) DistanceAlong(pt geo.Point) float64 {
	return p.Project(pt).DistanceAlongFt
}

// PerpendicularOffset returns the signed distance of pt from the path line.
func (p *Path) PerpendicularOffset(pt geo.Point) float64 {
	return p.Project(pt).PerpendicularOffsetFt
}
