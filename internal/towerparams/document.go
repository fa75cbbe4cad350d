// Package towerparams reads and updates tower_parameters.json documents,
// the exchange format holding both sites of a link, its general
// parameters, nearby turbines and the analysis results.
package towerparams

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/roman-kulish/los-clearance/internal/clearance"
	"github.com/roman-kulish/los-clearance/internal/geo"
	"github.com/roman-kulish/los-clearance/internal/link"
)

const (
	// DefaultFrequencyGHz is used when general_parameters.frequency_ghz is absent.
	DefaultFrequencyGHz = 11.0

	// DefaultTotalHeightM is assumed for turbines without a total height.
	DefaultTotalHeightM = 100.0

	// DefaultRotorDiameterM is assumed for turbines without a rotor diameter.
	DefaultRotorDiameterM = 100.0
)

// Site is a site_A / site_B entry.
type Site struct {
	SiteID        string     `json:"site_id"`
	Latitude      Coordinate `json:"latitude"`
	Longitude     Coordinate `json:"longitude"`
	ElevationFt   Number     `json:"elevation_ft"`
	AntennaCLFt   Number     `json:"antenna_cl_ft"`
	TowerHeightFt Number     `json:"tower_height_ft,omitzero"`
	AzimuthDeg    Number     `json:"azimuth_deg,omitzero"`
}

// Link converts the entry into a link site.
func (s Site) Link(fallbackID string) (link.Site, error) {
	id := s.SiteID
	if id == "" {
		id = fallbackID
	}

	if !s.Latitude.Set || !s.Longitude.Set {
		return link.Site{}, fmt.Errorf("site %s: missing coordinates", id)
	}

	site := link.Site{
		ID:                  id,
		Position:            geo.Point{Latitude: s.Latitude.Value, Longitude: s.Longitude.Value},
		GroundElevationFt:   s.ElevationFt.Or(0),
		AntennaCenterlineFt: s.AntennaCLFt.Or(0),
	}
	if err := site.Validate(); err != nil {
		return link.Site{}, err
	}

	return site, nil
}

// GeneralParameters holds link wide settings.
type GeneralParameters struct {
	LinkID       string `json:"link_id,omitempty"`
	LinkName     string `json:"link_name,omitempty"`
	FrequencyGHz Number `json:"frequency_ghz"`
	PathLengthMi Number `json:"path_length_mi,omitzero"`
}

// Document is a parsed tower_parameters.json. Keys it does not model are
// kept verbatim and written back unchanged.
type Document struct {
	SiteA    Site
	SiteB    Site
	General  GeneralParameters
	Turbines []Turbine

	raw map[string]json.RawMessage
}

// Parse decodes a tower parameters document.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc.raw); err != nil {
		return nil, fmt.Errorf("error decoding tower parameters: %w", err)
	}

	for key, dst := range map[string]any{
		"site_A":             &doc.SiteA,
		"site_B":             &doc.SiteB,
		"general_parameters": &doc.General,
	} {
		v, ok := doc.raw[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(v, dst); err != nil {
			return nil, fmt.Errorf("error decoding %s: %w", key, err)
		}
	}

	if v, ok := doc.raw["turbines"]; ok {
		turbines, err := parseTurbines(v)
		if err != nil {
			return nil, fmt.Errorf("error decoding turbines: %w", err)
		}
		doc.Turbines = turbines
	}

	return &doc, nil
}

// parseTurbines decodes each entry on its own. An entry that is not an
// object becomes a placeholder without coordinates so that analysis rejects
// and counts it. Entries without an id are named after their index.
func parseTurbines(data json.RawMessage) ([]Turbine, error) {
	var entries []json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}

	turbines := make([]Turbine, len(entries))
	for i, entry := range entries {
		var t Turbine
		if err := json.Unmarshal(entry, &t); err != nil {
			t = Turbine{ID: t.ID}
		}
		if t.ID == "" {
			t.ID = fmt.Sprintf("turbines[%d]", i)
		}
		turbines[i] = t
	}
	return turbines, nil
}

// Load reads a tower parameters document from disk.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading tower parameters: %w", err)
	}
	return Parse(data)
}

// FrequencyGHz returns the link frequency, defaulting to DefaultFrequencyGHz.
func (d *Document) FrequencyGHz() float64 {
	f := d.General.FrequencyGHz.Or(DefaultFrequencyGHz)
	if math.IsNaN(f) || f <= 0 {
		return DefaultFrequencyGHz
	}
	return f
}

// Path builds the link described by the document. It returns a
// *link.DegeneratePathError when both sites share a position.
func (d *Document) Path() (*link.Path, error) {
	a, err := d.SiteA.Link("A")
	if err != nil {
		return nil, fmt.Errorf("site_A: %w", err)
	}
	b, err := d.SiteB.Link("B")
	if err != nil {
		return nil, fmt.Errorf("site_B: %w", err)
	}
	return link.NewPath(a, b, d.FrequencyGHz())
}

// Obstructions converts all turbines to obstructions in feet. Records with
// missing or malformed fields are passed through with NaN values and are
// rejected during analysis.
func (d *Document) Obstructions() []clearance.Obstruction {
	out := make([]clearance.Obstruction, len(d.Turbines))
	for i, t := range d.Turbines {
		out[i] = t.Obstruction()
	}
	return out
}

// Raw returns the undecoded value of a top level key.
func (d *Document) Raw(key string) (json.RawMessage, bool) {
	v, ok := d.raw[key]
	return v, ok
}
