package export

import (
	"fmt"
	"image/color"
	"io"
	"maps"
	"math"
	"os"
	"slices"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/twpayne/go-kml"

	"github.com/roman-kulish/los-clearance/internal/link"
)

var (
	pathColor       = color.RGBA{R: 0x00, G: 0x66, B: 0xff, A: 0xff}
	searchAreaColor = color.RGBA{R: 0xff, G: 0xaa, B: 0x00, A: 0x40}

	statusColors = map[string]color.RGBA{
		"clear":             {R: 0x2e, G: 0xb8, B: 0x2e, A: 0xff},
		"in Fresnel zone":   {R: 0xff, G: 0xd7, B: 0x00, A: 0xff},
		"blocks curved LOS": {R: 0xff, G: 0x80, B: 0x00, A: 0xff},
		"blocks LOS":        {R: 0xe0, G: 0x10, B: 0x10, A: 0xff},
		"not analyzed":      {R: 0x80, G: 0x80, B: 0x80, A: 0xff},
	}
)

func styleID(status string) string {
	return "turbine-" + strings.ReplaceAll(status, " ", "-")
}

// KML builds the KML document for the scene. Heights are absolute, in meters.
func KML(s *Scene) *kml.CompoundElement {
	pathStyle := kml.SharedStyle("path",
		kml.LineStyle(kml.Color(pathColor), kml.Width(3)),
	)
	areaStyle := kml.SharedStyle("search-area",
		kml.LineStyle(kml.Color(searchAreaColor), kml.Width(1)),
		kml.PolyStyle(kml.Color(searchAreaColor)),
	)

	doc := []kml.Element{
		kml.Name(s.Path.ID()),
		kml.Description(fmt.Sprintf("%.1f GHz link, %s ft", s.Path.FrequencyGHz(), humanize.Commaf(roundFt(s.Path.TotalLengthFt())))),
		pathStyle,
		areaStyle,
	}

	turbineStyles := make(map[string]*kml.SharedElement, len(statusColors))
	for _, status := range slices.Sorted(maps.Keys(statusColors)) {
		st := kml.SharedStyle(styleID(status),
			kml.IconStyle(kml.Color(statusColors[status]), kml.Scale(1.1)),
		)
		turbineStyles[status] = st
		doc = append(doc, st)
	}

	a, b := s.Path.SiteA(), s.Path.SiteB()
	doc = append(doc,
		kml.Folder(
			kml.Name("Path"),
			kml.Placemark(
				kml.Name(s.Path.ID()),
				kml.StyleURL(pathStyle.URL()),
				kml.LineString(
					kml.AltitudeMode(kml.AltitudeModeAbsolute),
					kml.Coordinates(siteCoordinate(a), siteCoordinate(b)),
				),
			),
			sitePlacemark(a),
			sitePlacemark(b),
		),
	)

	if len(s.SearchArea) > 0 {
		coords := make([]kml.Coordinate, 0, len(s.SearchArea[0]))
		for _, p := range s.SearchArea[0] {
			coords = append(coords, kml.Coordinate{Lon: p.Lon(), Lat: p.Lat()})
		}
		doc = append(doc, kml.Placemark(
			kml.Name("Search area"),
			kml.StyleURL(areaStyle.URL()),
			kml.Polygon(
				kml.Tessellate(true),
				kml.OuterBoundaryIs(kml.LinearRing(kml.Coordinates(coords...))),
			),
		))
	}

	turbines := []kml.Element{kml.Name("Turbines")}
	for _, t := range s.Turbines {
		turbines = append(turbines, kml.Placemark(
			kml.Name(t.ID),
			kml.Description(turbineDescription(t)),
			kml.StyleURL(turbineStyles[t.Status()].URL()),
			kml.Point(
				kml.AltitudeMode(kml.AltitudeModeAbsolute),
				kml.Extrude(true),
				kml.Coordinates(kml.Coordinate{
					Lon: t.Position.Longitude,
					Lat: t.Position.Latitude,
					Alt: metersFromFeet(turbineTopFt(t)),
				}),
			),
		))
	}
	doc = append(doc, kml.Folder(turbines...))

	return kml.KML(kml.Document(doc...))
}

// WriteKML writes the scene as an indented KML document.
func WriteKML(w io.Writer, s *Scene) error {
	if err := KML(s).WriteIndent(w, "", "  "); err != nil {
		return fmt.Errorf("writing KML: %w", err)
	}
	return nil
}

// SaveKML writes the scene to a file.
func SaveKML(filename string, s *Scene) (err error) {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("creating KML file: %w", err)
	}
	defer func() {
		if cErr := f.Close(); cErr != nil && err == nil {
			err = cErr
		}
	}()

	return WriteKML(f, s)
}

func sitePlacemark(s link.Site) kml.Element {
	return kml.Placemark(
		kml.Name(s.ID),
		kml.Description(fmt.Sprintf("Ground %s ft, antenna %s ft AGL",
			humanize.Commaf(roundFt(s.GroundElevationFt)), humanize.Commaf(roundFt(s.AntennaCenterlineFt)))),
		kml.Point(
			kml.AltitudeMode(kml.AltitudeModeAbsolute),
			kml.Extrude(true),
			kml.Coordinates(siteCoordinate(s)),
		),
	)
}

func siteCoordinate(s link.Site) kml.Coordinate {
	return kml.Coordinate{
		Lon: s.Position.Longitude,
		Lat: s.Position.Latitude,
		Alt: metersFromFeet(s.EffectiveHeightFt()),
	}
}

func turbineDescription(t Turbine) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Status: %s\n", t.Status())
	fmt.Fprintf(&sb, "Hub height: %.0f ft, rotor radius: %.0f ft\n", t.HubHeightFt, t.RotorRadiusFt)
	if m := t.Metadata; m.ProjectName != "" || m.Model != "" {
		fmt.Fprintf(&sb, "%s %s %s\n", m.ProjectName, m.Manufacturer, m.Model)
	}
	if r := t.Result; r != nil {
		fmt.Fprintf(&sb, "Distance along path: %s ft\n", humanize.Commaf(roundFt(r.DistanceAlongFt)))
		fmt.Fprintf(&sb, "Distance from path: %s ft\n", humanize.Commaf(roundFt(r.PerpendicularOffsetFt)))
		fmt.Fprintf(&sb, "Curved LOS clearance: %.1f ft\n", r.CurvedClearanceFt)
		fmt.Fprintf(&sb, "Fresnel clearance: %.1f ft", r.FresnelClearanceFt)
	}
	return strings.TrimSpace(sb.String())
}

func roundFt(v float64) float64 {
	return math.Round(v*10) / 10
}
