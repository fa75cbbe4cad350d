package terrain

import (
	"errors"
	"fmt"
	"math"
	"slices"
)

var (
	// ErrUnorderedSamples is returned when profile distances are not strictly increasing.
	ErrUnorderedSamples = errors.New("profile distances must be strictly increasing")

	// ErrProfileMismatch is returned when a profile does not span the path it is used with.
	ErrProfileMismatch = errors.New("profile does not span the path")
)

// Sample is one point of an elevation profile.
type Sample struct {
	DistanceFt         float64 `json:"distanceFt"`
	GroundElevationFt  float64 `json:"groundElevationFt"`
	VegetationHeightFt float64 `json:"vegetationHeightFt,omitempty"`
}

// SurfaceFt is the top of whatever covers the ground at this sample.
func (s Sample) SurfaceFt() float64 {
	return s.GroundElevationFt + s.VegetationHeightFt
}

// Profile is an ordered, read-only terrain profile measured from site A.
// The zero value is an empty profile on which every lookup returns 0.
type Profile struct {
	samples []Sample
}

// NewProfile validates and copies samples into a Profile.
func NewProfile(samples []Sample) (*Profile, error) {
	for i, s := range samples {
		for _, v := range []float64{s.DistanceFt, s.GroundElevationFt, s.VegetationHeightFt} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("sample %d: value is not a finite number", i)
			}
		}
		if s.DistanceFt < 0 {
			return nil, fmt.Errorf("sample %d: negative distance %.2f", i, s.DistanceFt)
		}
		if s.VegetationHeightFt < 0 {
			return nil, fmt.Errorf("sample %d: negative vegetation height %.2f", i, s.VegetationHeightFt)
		}
		if i > 0 && s.DistanceFt <= samples[i-1].DistanceFt {
			return nil, fmt.Errorf("sample %d at %.2f ft: %w", i, s.DistanceFt, ErrUnorderedSamples)
		}
	}

	return &Profile{samples: slices.Clone(samples)}, nil
}

// NewUniformProfile spreads elevations evenly over totalLengthFt.
func NewUniformProfile(elevationsFt []float64, totalLengthFt float64) (*Profile, error) {
	if len(elevationsFt) > 1 && !(totalLengthFt > 0) {
		return nil, fmt.Errorf("invalid profile length %.2f ft", totalLengthFt)
	}

	samples := make([]Sample, len(elevationsFt))
	step := 0.0
	if len(elevationsFt) > 1 {
		step = totalLengthFt / float64(len(elevationsFt)-1)
	}
	for i, e := range elevationsFt {
		samples[i] = Sample{DistanceFt: float64(i) * step, GroundElevationFt: e}
	}

	return NewProfile(samples)
}

func (p *Profile) Len() int {
	if p == nil {
		return 0
	}
	return len(p.samples)
}

// Samples returns a copy of the profile samples.
func (p *Profile) Samples() []Sample {
	if p == nil {
		return nil
	}
	return slices.Clone(p.samples)
}

// LengthFt is the distance of the last sample.
func (p *Profile) LengthFt() float64 {
	if p.Len() == 0 {
		return 0
	}
	return p.samples[len(p.samples)-1].DistanceFt
}

// Covers checks that the profile runs from site A to a path end at
// lengthFt, allowing one average sample step of slack at either end.
func (p *Profile) Covers(lengthFt float64) error {
	if p.Len() < 2 {
		return fmt.Errorf("%d samples over %.1f ft: %w", p.Len(), lengthFt, ErrProfileMismatch)
	}

	first, last := p.samples[0].DistanceFt, p.LengthFt()
	step := (last - first) / float64(p.Len()-1)
	if first > step || math.Abs(last-lengthFt) > step {
		return fmt.Errorf("samples span %.1f to %.1f ft, path is %.1f ft: %w", first, last, lengthFt, ErrProfileMismatch)
	}
	return nil
}

// GroundAt interpolates the ground elevation at distanceFt from site A.
// Distances outside the profile take the value of the nearest end sample.
func (p *Profile) GroundAt(distanceFt float64) float64 {
	return p.interpolate(distanceFt, func(s Sample) float64 { return s.GroundElevationFt })
}

// SurfaceAt interpolates ground plus vegetation height at distanceFt.
func (p *Profile) SurfaceAt(distanceFt float64) float64 {
	return p.interpolate(distanceFt, Sample.SurfaceFt)
}

// MaxSurfaceFt is the highest ground plus vegetation value in the profile.
func (p *Profile) MaxSurfaceFt() float64 {
	if p.Len() == 0 {
		return 0
	}
	m := math.Inf(-1)
	for _, s := range p.samples {
		m = math.Max(m, s.SurfaceFt())
	}
	return m
}

// MinGroundFt is the lowest ground value in the profile.
func (p *Profile) MinGroundFt() float64 {
	if p.Len() == 0 {
		return 0
	}
	m := math.Inf(1)
	for _, s := range p.samples {
		m = math.Min(m, s.GroundElevationFt)
	}
	return m
}

func (p *Profile) interpolate(distanceFt float64, value func(Sample) float64) float64 {
	n := p.Len()
	switch {
	case n == 0:
		return 0
	case n == 1 || distanceFt <= p.samples[0].DistanceFt:
		return value(p.samples[0])
	case distanceFt >= p.samples[n-1].DistanceFt:
		return value(p.samples[n-1])
	}

	// index of the first sample at or beyond distanceFt
	i, found := slices.BinarySearchFunc(p.samples, distanceFt, func(s Sample, d float64) int {
		switch {
		case s.DistanceFt < d:
			return -1
		case s.DistanceFt > d:
			return 1
		}
		return 0
	})
	if found {
		return value(p.samples[i])
	}

	lo, hi := p.samples[i-1], p.samples[i]
	f := (distanceFt - lo.DistanceFt) / (hi.DistanceFt - lo.DistanceFt)
	return value(lo) + (value(hi)-value(lo))*f
}
