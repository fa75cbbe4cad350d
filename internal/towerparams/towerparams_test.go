package towerparams

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roman-kulish/los-clearance/internal/clearance"
	"github.com/roman-kulish/los-clearance/internal/geo"
	"github.com/roman-kulish/los-clearance/internal/link"
	"github.com/roman-kulish/los-clearance/internal/propagation"
)

func loadTestdata(t *testing.T) *Document {
	t.Helper()

	doc, err := Load(filepath.Join("testdata", "tower_parameters.json"))
	require.NoError(t, err)
	return doc
}

func TestNumber_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		in    string
		want  float64
		set   bool
		isNaN bool
	}{
		{`12.5`, 12.5, true, false},
		{`"12.5"`, 12.5, true, false},
		{`" 7 "`, 7, true, false},
		{`null`, 0, false, false},
		{`""`, 0, false, false},
		{`"abc"`, 0, true, true},
		{`true`, 0, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var n Number
			require.NoError(t, json.Unmarshal([]byte(tt.in), &n))
			assert.Equal(t, tt.set, n.Set)
			if tt.isNaN {
				assert.True(t, math.IsNaN(n.Value))
				return
			}
			assert.Equal(t, tt.want, n.Value)
		})
	}
}

func TestCoordinate_UnmarshalJSON(t *testing.T) {
	var c Coordinate
	require.NoError(t, json.Unmarshal([]byte(`"40-26-46.0 N"`), &c))
	assert.InDelta(t, 40.446111, c.Value, 1e-6)
	assert.Equal(t, "40-26-46.0 N", c.Text)

	require.NoError(t, json.Unmarshal([]byte(`-80.5`), &c))
	assert.Equal(t, -80.5, c.Value)
	assert.Empty(t, c.Text)

	require.NoError(t, json.Unmarshal([]byte(`"nowhere"`), &c))
	assert.True(t, c.Set)
	assert.True(t, math.IsNaN(c.Value))
}

func TestDocument_Path(t *testing.T) {
	doc := loadTestdata(t)

	assert.Equal(t, 11.0, doc.FrequencyGHz())
	assert.Equal(t, "L-100", doc.General.LinkID)

	p, err := doc.Path()
	require.NoError(t, err)

	assert.Equal(t, "DONOR-1-RECIP-2", p.ID())
	assert.InDelta(t, 40.0, p.SiteA().Position.Latitude, 1e-9)
	assert.InDelta(t, -80.0, p.SiteB().Position.Longitude, 1e-9)
	assert.Equal(t, 1050.0, p.SiteA().EffectiveHeightFt())
	assert.Equal(t, 1050.0, p.SiteB().EffectiveHeightFt())
	assert.InDelta(t, 36481, p.TotalLengthFt(), 5)
}

func TestDocument_PathDegenerate(t *testing.T) {
	doc, err := Parse([]byte(`{
		"site_A": {"site_id": "X", "latitude": 40, "longitude": -80},
		"site_B": {"site_id": "Y", "latitude": "40-00-00 N", "longitude": "80-00-00 W"}
	}`))
	require.NoError(t, err)

	_, err = doc.Path()
	var degenerate *link.DegeneratePathError
	assert.True(t, errors.As(err, &degenerate))
	assert.Equal(t, DefaultFrequencyGHz, doc.FrequencyGHz())
}

func TestDocument_Obstructions(t *testing.T) {
	doc := loadTestdata(t)

	obs := doc.Obstructions()
	require.Len(t, obs, 3)

	t1 := obs[0]
	assert.Equal(t, "T1", t1.ID)
	assert.InDelta(t, 100*geo.FeetPerMeter, t1.HubHeightFt, 1e-9)
	assert.InDelta(t, 50*geo.FeetPerMeter, t1.RotorRadiusFt, 1e-9)
	assert.Equal(t, "Ridge Wind", t1.Metadata.ProjectName)
	require.NoError(t, t1.Validate())

	// hub height derived from total height minus rotor radius
	t2 := obs[1]
	assert.Equal(t, "3045512", t2.ID)
	assert.InDelta(t, 40.06, t2.Position.Latitude, 1e-12)
	assert.InDelta(t, 40*geo.FeetPerMeter, t2.RotorRadiusFt, 1e-9)
	assert.InDelta(t, 120.5*geo.FeetPerMeter-40*geo.FeetPerMeter, t2.HubHeightFt, 1e-9)
	assert.Equal(t, "Vestas", t2.Metadata.Manufacturer)
	assert.Equal(t, 2000.0, t2.Metadata.CapacityKW)
	require.NoError(t, t2.Validate())

	broken := obs[2]
	assert.Equal(t, "broken", broken.ID)
	var ve *clearance.ValidationError
	require.True(t, errors.As(broken.Validate(), &ve))
	assert.Equal(t, "broken", ve.ObstructionID)
}

func TestParse_MalformedTurbineEntries(t *testing.T) {
	doc, err := Parse([]byte(`{
		"site_A": {"site_id": "A", "latitude": 40, "longitude": -80},
		"site_B": {"site_id": "B", "latitude": 40.1, "longitude": -80},
		"turbines": [
			{"id": "T1", "latitude": 40.05, "longitude": -79.99, "hub_height_m": 100, "rotor_diameter_m": 100},
			"garbage",
			[1, 2],
			null,
			{"id": "T3", "latitude": 40.07, "longitude": -80.01, "hub_height_m": 90, "rotor_diameter_m": 80}
		]
	}`))
	require.NoError(t, err)

	obs := doc.Obstructions()
	require.Len(t, obs, 5)
	assert.Equal(t, []string{"T1", "turbines[1]", "turbines[2]", "turbines[3]", "T3"},
		[]string{obs[0].ID, obs[1].ID, obs[2].ID, obs[3].ID, obs[4].ID})

	require.NoError(t, obs[0].Validate())
	require.NoError(t, obs[4].Validate())
	for _, o := range obs[1:4] {
		var ve *clearance.ValidationError
		require.True(t, errors.As(o.Validate(), &ve), o.ID)
		assert.Equal(t, o.ID, ve.ObstructionID)
	}

	p, err := doc.Path()
	require.NoError(t, err)

	batch, err := clearance.NewCalculator(propagation.NewModel()).AnalyzeAll(context.Background(), obs, p, nil)
	require.NoError(t, err)
	assert.Equal(t, 5, batch.Total)
	require.Len(t, batch.Results, 2)
	assert.Equal(t, "T1", batch.Results[0].ObstructionID)
	assert.Equal(t, "T3", batch.Results[1].ObstructionID)
	assert.Len(t, batch.Rejected, 3)
}

func TestParse_TurbinesNotAList(t *testing.T) {
	_, err := Parse([]byte(`{"turbines": {"id": "T1"}}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "turbines")
}

func TestWriteAnalysisResults(t *testing.T) {
	src, err := os.ReadFile(filepath.Join("testdata", "tower_parameters.json"))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "tower_parameters.json")
	require.NoError(t, os.WriteFile(path, src, 0o644))

	results := []clearance.Result{
		{ObstructionID: "T1", PerpendicularOffsetFt: 800, CurvedClearanceFt: 120, FresnelClearanceFt: 90},
		{ObstructionID: "3045512", PerpendicularOffsetFt: -2600, CurvedClearanceFt: 2500, FresnelClearanceFt: 2470},
	}
	summary := clearance.Summarize(results, 0)

	require.NoError(t, WriteAnalysisResults(path, summary, results))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var out map[string]map[string]any
	var top map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &top))
	assert.Contains(t, top, "fresnel_parameters")
	assert.Contains(t, top, "turbines")

	out = map[string]map[string]any{}
	for _, key := range []string{"analysis_results", "site_A"} {
		var section map[string]any
		require.NoError(t, json.Unmarshal(top[key], &section))
		out[key] = section
	}

	ar := out["analysis_results"]
	assert.Equal(t, "keep me", ar["notes"])
	assert.NotContains(t, ar, "turbines_within_1500ft")
	assert.Equal(t, []any{"T1", "3045512"}, ar["turbines_within_2860ft"])
	assert.InDelta(t, 2860, ar["search_distance_ft"], 1e-6)
	assert.Len(t, ar["turbine_analysis"], 2)

	// sites are written back untouched
	assert.Equal(t, "40-00-00.0 N", out["site_A"]["latitude"])

	doc, err := Load(path)
	require.NoError(t, err)
	res, ok, err := doc.AnalysisResults()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "T1", res.Summary.ClosestToPath.ObstructionID)
	assert.Equal(t, []string{"T1", "3045512"}, res.Summary.WithinThreshold)
	require.Len(t, res.TurbineAnalysis, 2)
	assert.Equal(t, results[1].PerpendicularOffsetFt, res.TurbineAnalysis[1].PerpendicularOffsetFt)
}

func TestWriteAnalysisResults_NewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tower_parameters.json")

	require.NoError(t, WriteAnalysisResults(path, clearance.Summarize(nil, 0), nil))

	doc, err := Load(path)
	require.NoError(t, err)

	res, ok, err := doc.AnalysisResults()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 2000.0, res.Summary.ThresholdFt)
	assert.Empty(t, res.TurbineAnalysis)
	assert.Empty(t, doc.Turbines)
}
