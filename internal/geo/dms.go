package geo

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var dmsSeparators = regexp.MustCompile(`[°'"′″\-\s]+`)

// ParseCoordinate parses a single latitude or longitude value. It accepts plain
// decimal degrees ("-80.125") and degrees-minutes-seconds with a hemisphere
// letter, either dash separated ("40-26-46.0 N") or symbol separated (40°26'46"N).
func ParseCoordinate(s string) (float64, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return 0, fmt.Errorf("empty coordinate")
	}

	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v, nil
	}

	hemisphere := s[len(s)-1]
	sign := 1.0
	switch hemisphere {
	case 'N', 'E':
	case 'S', 'W':
		sign = -1
	default:
		return 0, fmt.Errorf("invalid coordinate %q: missing hemisphere", s)
	}

	var parts []string
	for _, p := range dmsSeparators.Split(strings.TrimSpace(s[:len(s)-1]), -1) {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 || len(parts) > 3 {
		return 0, fmt.Errorf("invalid DMS coordinate %q", s)
	}

	var value float64
	for i, scale := range []float64{1, 60, 3600}[:len(parts)] {
		v, err := strconv.ParseFloat(parts[i], 64)
		if err != nil {
			return 0, fmt.Errorf("invalid DMS component %q in %q: %w", parts[i], s, err)
		}
		if v < 0 || (i > 0 && v >= 60) {
			return 0, fmt.Errorf("DMS component %q out of range in %q", parts[i], s)
		}
		value += v / scale
	}

	return sign * value, nil
}

// ParsePoint parses a latitude/longitude pair and validates the result.
func ParsePoint(lat, lon string) (Point, error) {
	var p Point
	var err error
	if p.Latitude, err = ParseCoordinate(lat); err != nil {
		return Point{}, fmt.Errorf("parsing latitude: %w", err)
	}
	if p.Longitude, err = ParseCoordinate(lon); err != nil {
		return Point{}, fmt.Errorf("parsing longitude: %w", err)
	}
	if err = p.Validate(); err != nil {
		return Point{}, err
	}
	return p, nil
}
