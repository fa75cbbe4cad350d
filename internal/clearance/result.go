package clearance

// Result is the clearance of one obstruction against one path. Positive
// clearances mean the obstruction is clear, negative values mean it intrudes.
type Result struct {
	ObstructionID         string  `json:"turbine_id"`
	DistanceAlongFt       float64 `json:"distance_along_path_ft"`
	PerpendicularOffsetFt float64 `json:"distance_from_path_ft"`
	StraightClearanceFt   float64 `json:"clearance_straight_ft"`
	CurvedClearanceFt     float64 `json:"clearance_curved_ft"`
	FresnelClearanceFt    float64 `json:"clearance_fresnel_ft"`
	FresnelRadiusFt       float64 `json:"fresnel_radius_ft"`

	GroundElevationFt float64 `json:"ground_elevation_ft"`
	CenterHeightFt    float64 `json:"turbine_center_height_ft"`
	RotorRadiusFt     float64 `json:"rotor_radius_ft"`
	StraightLOSFt     float64 `json:"path_height_straight_ft"`
	CurvedLOSFt       float64 `json:"path_height_curved_ft"`
	EarthBulgeFt      float64 `json:"earth_curvature_bulge_ft"`

	// vertical only clearances between the rotor tip and the LOS line
	VerticalStraightClearanceFt float64 `json:"vertical_clearance_straight_ft"`
	VerticalCurvedClearanceFt   float64 `json:"vertical_clearance_curved_ft"`

	// +1 left of A→B, -1 right, 0 on the path line
	PathSide     int  `json:"path_side"`
	Clamped      bool `json:"clamped,omitempty"`
	InSearchArea bool `json:"in_search_area"`

	HasLOSClearance     bool `json:"has_los_clearance"`
	HasEarthClearance   bool `json:"has_earth_clearance"`
	HasFresnelClearance bool `json:"has_fresnel_clearance"`
}

// Status is a short human readable verdict for the result.
func (r Result) Status() string {
	switch {
	case !r.HasLOSClearance:
		return "blocks LOS"
	case !r.HasEarthClearance:
		return "blocks curved LOS"
	case !r.HasFresnelClearance:
		return "in Fresnel zone"
	}
	return "clear"
}
