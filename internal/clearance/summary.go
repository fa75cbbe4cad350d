package clearance

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	// MinProximityThresholdFt is the floor of the derived proximity threshold.
	MinProximityThresholdFt = 2000.0

	// proximityMargin is applied over the farthest obstruction offset.
	proximityMargin = 1.1

	withinKeyPrefix = "turbines_within_"
	withinKeySuffix = "ft"
)

// Closest identifies the obstruction nearest to the path or its Fresnel zone.
type Closest struct {
	ObstructionID string
	// ClearanceFt is signed; negative means the obstruction intrudes.
	ClearanceFt float64
}

// DistanceFt is the unsigned clearance.
func (c Closest) DistanceFt() float64 {
	return math.Abs(c.ClearanceFt)
}

type closestJSON struct {
	TurbineID   *string  `json:"turbine_id"`
	DistanceFt  *float64 `json:"distance_ft"`
	ClearanceFt *float64 `json:"clearance_ft,omitempty"`
}

func (c *Closest) MarshalJSON() ([]byte, error) {
	if c == nil {
		return json.Marshal(closestJSON{})
	}
	d := c.DistanceFt()
	return json.Marshal(closestJSON{TurbineID: &c.ObstructionID, DistanceFt: &d, ClearanceFt: &c.ClearanceFt})
}

func (c *Closest) UnmarshalJSON(data []byte) error {
	var v closestJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if v.TurbineID != nil {
		c.ObstructionID = *v.TurbineID
	}
	switch {
	case v.ClearanceFt != nil:
		c.ClearanceFt = *v.ClearanceFt
	case v.DistanceFt != nil:
		c.ClearanceFt = *v.DistanceFt
	}
	return nil
}

// Summary reduces a set of results to the facts reported per path.
type Summary struct {
	// WithinThreshold lists obstructions whose perpendicular offset is at most ThresholdFt.
	WithinThreshold []string
	ThresholdFt     float64

	ClosestToPath    *Closest
	ClosestToFresnel *Closest
}

// DynamicThreshold derives a proximity threshold from the data: 10% over the
// farthest obstruction offset, but never less than MinProximityThresholdFt.
func DynamicThreshold(results []Result) float64 {
	farthest := 0.0
	for _, r := range results {
		if off := math.Abs(r.PerpendicularOffsetFt); !math.IsNaN(off) {
			farthest = math.Max(farthest, off)
		}
	}
	return math.Max(farthest*proximityMargin, MinProximityThresholdFt)
}

// Summarize reduces results. A thresholdFt of zero or less selects
// DynamicThreshold.
func Summarize(results []Result, thresholdFt float64) Summary {
	if !(thresholdFt > 0) {
		thresholdFt = DynamicThreshold(results)
	}

	s := Summary{
		WithinThreshold: []string{},
		ThresholdFt:     thresholdFt,
	}

	for _, r := range results {
		if math.Abs(r.PerpendicularOffsetFt) <= thresholdFt {
			s.WithinThreshold = append(s.WithinThreshold, r.ObstructionID)
		}
		s.ClosestToPath = closer(s.ClosestToPath, r.ObstructionID, r.CurvedClearanceFt)
		s.ClosestToFresnel = closer(s.ClosestToFresnel, r.ObstructionID, r.FresnelClearanceFt)
	}

	return s
}

func closer(current *Closest, id string, clearanceFt float64) *Closest {
	if math.IsNaN(clearanceFt) || math.IsInf(clearanceFt, 0) {
		return current
	}
	if current == nil || math.Abs(clearanceFt) < current.DistanceFt() {
		return &Closest{ObstructionID: id, ClearanceFt: clearanceFt}
	}
	return current
}

// WithinKey is the JSON key listing obstructions near the path,
// e.g. turbines_within_2000ft.
func (s Summary) WithinKey() string {
	return withinKeyPrefix + strconv.Itoa(int(s.ThresholdFt)) + withinKeySuffix
}

// Fields returns the summary as the flat key set stored in analysis_results.
func (s Summary) Fields() map[string]any {
	within := s.WithinThreshold
	if within == nil {
		within = []string{}
	}
	return map[string]any{
		s.WithinKey():                within,
		"search_distance_ft":         s.ThresholdFt,
		"closest_turbine_to_path":    s.ClosestToPath,
		"closest_turbine_to_fresnel": s.ClosestToFresnel,
	}
}

func (s Summary) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Fields())
}

func (s *Summary) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*s = Summary{}

	if v, ok := raw["search_distance_ft"]; ok {
		if err := json.Unmarshal(v, &s.ThresholdFt); err != nil {
			return fmt.Errorf("decoding search_distance_ft: %w", err)
		}
	}

	for _, key := range []string{"closest_turbine_to_path", "closest_turbine_to_fresnel"} {
		v, ok := raw[key]
		if !ok || string(v) == "null" {
			continue
		}
		c := new(Closest)
		if err := json.Unmarshal(v, c); err != nil {
			return fmt.Errorf("decoding %s: %w", key, err)
		}
		if c.ObstructionID == "" {
			continue
		}
		if key == "closest_turbine_to_path" {
			s.ClosestToPath = c
		} else {
			s.ClosestToFresnel = c
		}
	}

	key := s.WithinKey()
	if _, ok := raw[key]; !ok {
		// fall back to any turbines_within_<n>ft key
		for k := range raw {
			if strings.HasPrefix(k, withinKeyPrefix) && strings.HasSuffix(k, withinKeySuffix) {
				key = k
				break
			}
		}
	}
	if v, ok := raw[key]; ok {
		if err := json.Unmarshal(v, &s.WithinThreshold); err != nil {
			return fmt.Errorf("decoding %s: %w", key, err)
		}
	}

	return nil
}
