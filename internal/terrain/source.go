package terrain

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/roman-kulish/los-clearance/internal/geo"
	"github.com/roman-kulish/los-clearance/internal/link"
)

const (
	// DefaultProfileSamples is the number of points sampled along a path.
	DefaultProfileSamples = 100

	// DefaultFetchConcurrency bounds parallel lookups against an ElevationSource.
	DefaultFetchConcurrency = 8
)

// ElevationSource returns the ground elevation in feet above sea level.
type ElevationSource interface {
	Elevation(ctx context.Context, p geo.Point) (float64, error)
}

// VegetationSource is optionally implemented by an ElevationSource that also
// knows the canopy height above ground in feet.
type VegetationSource interface {
	VegetationHeight(ctx context.Context, p geo.Point) (float64, error)
}

// ElevationFunc adapts a function to the ElevationSource interface.
type ElevationFunc func(ctx context.Context, p geo.Point) (float64, error)

func (f ElevationFunc) Elevation(ctx context.Context, p geo.Point) (float64, error) {
	return f(ctx, p)
}

// BuildProfile samples the source at n evenly spaced points along the great
// circle between both sites of the path.
func BuildProfile(ctx context.Context, path *link.Path, source ElevationSource, n int) (*Profile, error) {
	if n < 2 {
		n = DefaultProfileSamples
	}

	vegetation, _ := source.(VegetationSource)
	a, b := path.SiteA().Position, path.SiteB().Position
	step := path.TotalLengthFt() / float64(n-1)

	samples := make([]Sample, n)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(DefaultFetchConcurrency)

	for i := range samples {
		g.Go(func() error {
			f := float64(i) / float64(n-1)
			pt := geo.Intermediate(a, b, f)

			elevation, err := source.Elevation(ctx, pt)
			if err != nil {
				return fmt.Errorf("fetching elevation at %s: %w", pt, err)
			}

			s := Sample{DistanceFt: float64(i) * step, GroundElevationFt: elevation}
			if vegetation != nil {
				if s.VegetationHeightFt, err = vegetation.VegetationHeight(ctx, pt); err != nil {
					return fmt.Errorf("fetching vegetation height at %s: %w", pt, err)
				}
			}

			samples[i] = s
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("building profile for path %s: %w", path.ID(), err)
	}

	return NewProfile(samples)
}
