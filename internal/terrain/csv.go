package terrain

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ReadCSV parses a profile with the columns distance_ft, ground_ft and an
// optional vegetation_ft. A leading header row is skipped.
func ReadCSV(r io.Reader) (*Profile, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	var samples []Sample
	for line := 1; ; line++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading profile: %w", err)
		}

		if len(record) < 2 || len(record) > 3 {
			return nil, fmt.Errorf("line %d: expected 2 or 3 columns, got %d", line, len(record))
		}

		values := make([]float64, len(record))
		for i, field := range record {
			if values[i], err = strconv.ParseFloat(strings.TrimSpace(field), 64); err != nil {
				break
			}
		}
		if err != nil {
			if line == 1 {
				continue // header
			}
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		s := Sample{DistanceFt: values[0], GroundElevationFt: values[1]}
		if len(values) == 3 {
			s.VegetationHeightFt = values[2]
		}
		samples = append(samples, s)
	}

	return NewProfile(samples)
}

// LoadCSV reads a profile from a file.
func LoadCSV(path string) (*Profile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening profile: %w", err)
	}
	defer f.Close()

	return ReadCSV(f)
}
