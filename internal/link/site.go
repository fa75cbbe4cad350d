package link

import (
	"fmt"
	"math"

	"github.com/roman-kulish/los-clearance/internal/geo"
)

// Site is one end of a microwave link.
type Site struct {
	ID                  string    `json:"id" yaml:"id"`
	Position            geo.Point `json:"position" yaml:"position"`
	GroundElevationFt   float64   `json:"groundElevationFt" yaml:"groundElevationFt"`
	AntennaCenterlineFt float64   `json:"antennaCenterlineFt" yaml:"antennaCenterlineFt"`
}

// EffectiveHeightFt is the RF height of the antenna above sea level.
func (s Site) EffectiveHeightFt() float64 {
	return s.GroundElevationFt + s.AntennaCenterlineFt
}

// Validate checks position ranges and that both heights are finite.
func (s Site) Validate() error {
	if err := s.Position.Validate(); err != nil {
		return fmt.Errorf("site %s: %w", s.ID, err)
	}
	for name, v := range map[string]float64{
		"ground elevation":   s.GroundElevationFt,
		"antenna centerline": s.AntennaCenterlineFt,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("site %s: %s is not a finite number", s.ID, name)
		}
	}
	return nil
}
