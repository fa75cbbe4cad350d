package terrain

import (
	"math"

	"github.com/roman-kulish/los-clearance/internal/link"
	"github.com/roman-kulish/los-clearance/internal/propagation"
)

// Clearance describes the RF path above a single profile sample.
type Clearance struct {
	Sample

	CurvedLOSHeightFt  float64 `json:"curvedLosHeightFt"`
	FresnelRadiusFt    float64 `json:"fresnelRadiusFt"`
	ClearanceFt        float64 `json:"clearanceFt"`
	FresnelClearanceFt float64 `json:"fresnelClearanceFt"`
}

// ScanResult summarises terrain and vegetation clearance along a path.
type ScanResult struct {
	// Worst is the sample with the least clearance to the curved LOS.
	Worst Clearance `json:"worst"`
	// WorstFresnel is the sample intruding deepest into the Fresnel zone.
	WorstFresnel Clearance `json:"worstFresnel"`

	Obstructed        bool `json:"obstructed"`
	FresnelIntrusions int  `json:"fresnelIntrusions"`
}

// Scan walks the profile and measures the vertical clearance between the
// curved line of sight and the ground plus vegetation at every sample. The
// end samples sit under the antennas and are skipped.
func Scan(profile *Profile, path *link.Path, model *propagation.Model) (ScanResult, bool) {
	var (
		res   ScanResult
		found bool
	)

	res.Worst.ClearanceFt = math.Inf(1)
	res.WorstFresnel.FresnelClearanceFt = math.Inf(1)

	total := path.TotalLengthFt()
	for _, s := range profile.Samples() {
		if s.DistanceFt <= 0 || s.DistanceFt >= total {
			continue
		}

		c := Clearance{
			Sample:            s,
			CurvedLOSHeightFt: model.CurvedLOSHeight(s.DistanceFt, path),
			FresnelRadiusFt:   model.FresnelRadiusAlong(s.DistanceFt, path),
		}
		c.ClearanceFt = c.CurvedLOSHeightFt - s.SurfaceFt()
		c.FresnelClearanceFt = c.ClearanceFt - c.FresnelRadiusFt

		if c.ClearanceFt < 0 {
			res.Obstructed = true
		}
		if c.FresnelClearanceFt < 0 {
			res.FresnelIntrusions++
		}
		if c.ClearanceFt < res.Worst.ClearanceFt {
			res.Worst = c
		}
		if c.FresnelClearanceFt < res.WorstFresnel.FresnelClearanceFt {
			res.WorstFresnel = c
		}
		found = true
	}

	if !found {
		return ScanResult{}, false
	}
	return res, true
}
