package towerparams

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/roman-kulish/los-clearance/internal/clearance"
	"github.com/roman-kulish/los-clearance/internal/geo"
)

// Turbine is one entry of the turbines list. Turbine databases use two
// naming schemes (e.g. latitude / ylat), both are accepted. Heights are in meters.
type Turbine struct {
	ID             string
	Latitude       Number
	Longitude      Number
	TotalHeightM   Number
	HubHeightM     Number
	RotorDiameterM Number
	ProjectName    string
	Manufacturer   string
	Model          string
	CapacityKW     Number

	raw map[string]json.RawMessage
}

var turbineAliases = struct {
	id, latitude, longitude, totalHeight, hubHeight, rotorDiameter []string
	projectName, manufacturer, model, capacity                    []string
}{
	id:            []string{"id", "case_id"},
	latitude:      []string{"latitude", "ylat"},
	longitude:     []string{"longitude", "xlong"},
	totalHeight:   []string{"total_height_m", "t_ttlh"},
	hubHeight:     []string{"hub_height_m", "t_hh"},
	rotorDiameter: []string{"rotor_diameter_m", "t_rd"},
	projectName:   []string{"project_name", "p_name"},
	manufacturer:  []string{"manufacturer", "t_manu"},
	model:         []string{"model", "t_model"},
	capacity:      []string{"capacity_kw", "t_cap"},
}

func (t *Turbine) UnmarshalJSON(data []byte) error {
	*t = Turbine{}
	if err := json.Unmarshal(data, &t.raw); err != nil {
		return err
	}

	a := turbineAliases
	t.ID = t.text(a.id)
	t.ProjectName = t.text(a.projectName)
	t.Manufacturer = t.text(a.manufacturer)
	t.Model = t.text(a.model)

	for _, f := range []struct {
		dst  *Number
		keys []string
	}{
		{&t.Latitude, a.latitude},
		{&t.Longitude, a.longitude},
		{&t.TotalHeightM, a.totalHeight},
		{&t.HubHeightM, a.hubHeight},
		{&t.RotorDiameterM, a.rotorDiameter},
		{&t.CapacityKW, a.capacity},
	} {
		if err := t.number(f.dst, f.keys); err != nil {
			return fmt.Errorf("turbine %s: %w", t.ID, err)
		}
	}

	return nil
}

// text returns the first non-empty alias value.
func (t *Turbine) text(keys []string) string {
	for _, k := range keys {
		if s := text(t.raw[k]); s != "" {
			return s
		}
	}
	return ""
}

// number decodes the first alias that carries a value.
func (t *Turbine) number(dst *Number, keys []string) error {
	for _, k := range keys {
		v, ok := t.raw[k]
		if !ok {
			continue
		}
		var n Number
		if err := json.Unmarshal(v, &n); err != nil {
			return fmt.Errorf("field %s: %w", k, err)
		}
		if n.Set {
			*dst = n
			return nil
		}
	}
	return nil
}

// RotorRadiusFt is half the rotor diameter in feet.
func (t Turbine) RotorRadiusFt() float64 {
	return t.RotorDiameterM.Or(DefaultRotorDiameterM) * geo.FeetPerMeter / 2
}

// HubHeightFt is the hub height in feet, derived from the total height
// when the database has no hub height.
func (t Turbine) HubHeightFt() float64 {
	if t.HubHeightM.Set {
		return t.HubHeightM.Value * geo.FeetPerMeter
	}
	return t.TotalHeightM.Or(DefaultTotalHeightM)*geo.FeetPerMeter - t.RotorRadiusFt()
}

// Obstruction converts the turbine into feet. Missing coordinates become NaN.
func (t Turbine) Obstruction() clearance.Obstruction {
	return clearance.Obstruction{
		ID: t.ID,
		Position: geo.Point{
			Latitude:  t.Latitude.Or(math.NaN()),
			Longitude: t.Longitude.Or(math.NaN()),
		},
		HubHeightFt:   t.HubHeightFt(),
		RotorRadiusFt: t.RotorRadiusFt(),
		Metadata: clearance.Metadata{
			ProjectName:   t.ProjectName,
			Manufacturer:  t.Manufacturer,
			Model:         t.Model,
			CapacityKW:    finiteOr(t.CapacityKW, 0),
			TotalHeightFt: finiteOr(t.TotalHeightM, DefaultTotalHeightM) * geo.FeetPerMeter,
		},
	}
}

func finiteOr(n Number, def float64) float64 {
	v := n.Or(def)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return def
	}
	return v
}
