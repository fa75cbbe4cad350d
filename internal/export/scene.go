// Package export writes an analysed path and its obstructions as map
// overlays (KML for Google Earth, GeoJSON for web maps).
package export

import (
	"github.com/paulmach/orb"

	"github.com/roman-kulish/los-clearance/internal/clearance"
	"github.com/roman-kulish/los-clearance/internal/geo"
	"github.com/roman-kulish/los-clearance/internal/link"
)

// Turbine is an obstruction together with its analysis result, if any.
type Turbine struct {
	clearance.Obstruction
	Result *clearance.Result
}

// Status returns the result verdict, or "not analyzed" for rejected records.
func (t Turbine) Status() string {
	if t.Result == nil {
		return "not analyzed"
	}
	return t.Result.Status()
}

// Scene is everything drawn on a map for one path.
type Scene struct {
	Path       *link.Path
	Turbines   []Turbine
	SearchArea orb.Polygon
}

// NewScene joins obstructions with their results by ID. Obstructions with an
// invalid position are left out since they cannot be placed on a map.
func NewScene(path *link.Path, obstructions []clearance.Obstruction, results []clearance.Result, searchArea orb.Polygon) *Scene {
	byID := make(map[string]*clearance.Result, len(results))
	for i := range results {
		byID[results[i].ObstructionID] = &results[i]
	}

	s := &Scene{Path: path, SearchArea: searchArea}
	for _, o := range obstructions {
		if o.Position.Validate() != nil {
			continue
		}
		s.Turbines = append(s.Turbines, Turbine{Obstruction: o, Result: byID[o.ID]})
	}
	return s
}

// turbineTopFt is the absolute rotor tip height, using the analysed ground
// elevation when available.
func turbineTopFt(t Turbine) float64 {
	var ground float64
	if t.Result != nil {
		ground = t.Result.GroundElevationFt
	}
	return ground + t.TopHeightFt()
}

func metersFromFeet(ft float64) float64 {
	return ft / geo.FeetPerMeter
}
