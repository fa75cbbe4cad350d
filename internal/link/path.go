package link

import (
	"fmt"
	"math"

	"github.com/roman-kulish/los-clearance/internal/geo"
)

// Path is a microwave link between a donor (A) and a recipient (B) site.
// It is immutable once constructed; use NewPath to build one.
type Path struct {
	siteA         Site
	siteB         Site
	frequencyGHz  float64
	totalLengthFt float64

	// chord from A to B on the unit sphere, cached for projections
	origin     geo.Vec3
	chord      geo.Vec3
	chordNorm2 float64
}

// NewPath validates both sites and derives the great-circle length of the link.
// It returns a *DegeneratePathError when the sites coincide.
func NewPath(a, b Site, frequencyGHz float64) (*Path, error) {
	if err := a.Validate(); err != nil {
		return nil, fmt.Errorf("validating site A: %w", err)
	}
	if err := b.Validate(); err != nil {
		return nil, fmt.Errorf("validating site B: %w", err)
	}
	if !(frequencyGHz > 0) || math.IsInf(frequencyGHz, 0) {
		return nil, fmt.Errorf("path %s: %w: %v GHz", pathID(a.ID, b.ID), ErrInvalidFrequency, frequencyGHz)
	}

	origin := a.Position.UnitVector()
	chord := b.Position.UnitVector().Sub(origin)
	length := geo.Distance(a.Position, b.Position)

	if length <= 0 || chord.Norm() == 0 {
		return nil, &DegeneratePathError{SiteA: a.ID, SiteB: b.ID}
	}

	return &Path{
		siteA:         a,
		siteB:         b,
		frequencyGHz:  frequencyGHz,
		totalLengthFt: length,
		origin:        origin,
		chord:         chord,
		chordNorm2:    chord.Dot(chord),
	}, nil
}

// ID identifies the path by its site IDs.
func (p *Path) ID() string {
	return pathID(p.siteA.ID, p.siteB.ID)
}

func (p *Path) SiteA() Site {
	return p.siteA
}

func (p *Path) SiteB() Site {
	return p.siteB
}

func (p *Path) FrequencyGHz() float64 {
	return p.frequencyGHz
}

// TotalLengthFt is the great-circle distance between both sites in feet.
func (p *Path) TotalLengthFt() float64 {
	return p.totalLengthFt
}

// Reverse returns the same link seen from site B.
func (p *Path) Reverse() *Path {
	r, _ := NewPath(p.siteB, p.siteA, p.frequencyGHz) // sites were validated already
	return r
}

// StraightHeightFt linearly interpolates the RF height between both antennas
// at the given distance from site A, ignoring Earth curvature.
func (p *Path) StraightHeightFt(distanceAlongFt float64) float64 {
	ha := p.siteA.EffectiveHeightFt()
	hb := p.siteB.EffectiveHeightFt()
	return ha + (hb-ha)*(distanceAlongFt/p.totalLengthFt)
}
