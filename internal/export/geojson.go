package export

import (
	"fmt"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/roman-kulish/los-clearance/internal/link"
)

// FeatureCollection returns the scene as GeoJSON features: the path line,
// both sites, the search area and one point per turbine. Heights in
// properties are in feet.
func FeatureCollection(s *Scene) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	a, b := s.Path.SiteA(), s.Path.SiteB()

	line := geojson.NewFeature(orb.LineString{a.Position.OrbPoint(), b.Position.OrbPoint()})
	line.ID = s.Path.ID()
	line.Properties["kind"] = "path"
	line.Properties["frequency_ghz"] = s.Path.FrequencyGHz()
	line.Properties["total_length_ft"] = s.Path.TotalLengthFt()
	fc.Append(line)

	fc.Append(siteFeature("site_a", a))
	fc.Append(siteFeature("site_b", b))

	if len(s.SearchArea) > 0 {
		area := geojson.NewFeature(s.SearchArea)
		area.Properties["kind"] = "search_area"
		fc.Append(area)
	}

	for _, t := range s.Turbines {
		f := geojson.NewFeature(t.Position.OrbPoint())
		f.ID = t.ID
		f.Properties["kind"] = "turbine"
		f.Properties["status"] = t.Status()
		f.Properties["hub_height_ft"] = t.HubHeightFt
		f.Properties["rotor_radius_ft"] = t.RotorRadiusFt
		if t.Metadata.ProjectName != "" {
			f.Properties["project_name"] = t.Metadata.ProjectName
		}
		if r := t.Result; r != nil {
			f.Properties["distance_along_path_ft"] = r.DistanceAlongFt
			f.Properties["distance_from_path_ft"] = r.PerpendicularOffsetFt
			f.Properties["clearance_curved_ft"] = r.CurvedClearanceFt
			f.Properties["clearance_fresnel_ft"] = r.FresnelClearanceFt
			f.Properties["in_search_area"] = r.InSearchArea
		}
		fc.Append(f)
	}

	return fc
}

func siteFeature(role string, s link.Site) *geojson.Feature {
	f := geojson.NewFeature(s.Position.OrbPoint())
	f.ID = s.ID
	f.Properties["kind"] = role
	f.Properties["elevation_ft"] = s.GroundElevationFt
	f.Properties["antenna_cl_ft"] = s.AntennaCenterlineFt
	return f
}

// SaveGeoJSON writes the scene to a GeoJSON file.
func SaveGeoJSON(filename string, s *Scene) error {
	data, err := FeatureCollection(s).MarshalJSON()
	if err != nil {
		return fmt.Errorf("marshaling GeoJSON: %w", err)
	}
	if err = os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("writing GeoJSON file: %w", err)
	}
	return nil
}
