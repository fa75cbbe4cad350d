package towerparams

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/roman-kulish/los-clearance/internal/clearance"
)

const analysisResultsKey = "analysis_results"

// AnalysisResults is the analysis_results section of the document.
type AnalysisResults struct {
	Summary         clearance.Summary
	TurbineAnalysis []clearance.Result
}

// AnalysisResults decodes a previously written analysis_results section.
func (d *Document) AnalysisResults() (*AnalysisResults, bool, error) {
	raw, ok := d.raw[analysisResultsKey]
	if !ok {
		return nil, false, nil
	}

	var res AnalysisResults
	if err := json.Unmarshal(raw, &res.Summary); err != nil {
		return nil, true, fmt.Errorf("error decoding %s: %w", analysisResultsKey, err)
	}

	var section struct {
		TurbineAnalysis []clearance.Result `json:"turbine_analysis"`
	}
	if err := json.Unmarshal(raw, &section); err != nil {
		return nil, true, fmt.Errorf("error decoding turbine_analysis: %w", err)
	}
	res.TurbineAnalysis = section.TurbineAnalysis

	return &res, true, nil
}

// SetAnalysisResults stores the summary and per turbine results in the
// analysis_results section. Other keys of the section are preserved, stale
// turbines_within_<n>ft lists from earlier runs are dropped.
func (d *Document) SetAnalysisResults(summary clearance.Summary, results []clearance.Result) error {
	section := map[string]json.RawMessage{}
	if raw, ok := d.raw[analysisResultsKey]; ok {
		if err := json.Unmarshal(raw, &section); err != nil {
			return fmt.Errorf("error decoding %s: %w", analysisResultsKey, err)
		}
	}

	for k := range section {
		if strings.HasPrefix(k, "turbines_within_") {
			delete(section, k)
		}
	}

	if results == nil {
		results = []clearance.Result{}
	}

	fields := summary.Fields()
	fields["turbine_analysis"] = results

	for k, v := range fields {
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("error encoding %s: %w", k, err)
		}
		section[k] = data
	}

	data, err := json.Marshal(section)
	if err != nil {
		return fmt.Errorf("error encoding %s: %w", analysisResultsKey, err)
	}

	if d.raw == nil {
		d.raw = map[string]json.RawMessage{}
	}
	d.raw[analysisResultsKey] = data
	return nil
}

// MarshalJSON encodes the document as it was loaded, including keys this
// package does not model, with the current analysis results.
func (d *Document) MarshalJSON() ([]byte, error) {
	if d.raw == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(d.raw)
}

// Save writes the document to path through a temporary file.
func (d *Document) Save(path string) (err error) {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("error encoding tower parameters: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".tower_parameters-*.json")
	if err != nil {
		return fmt.Errorf("error creating temporary file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(append(data, '\n')); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("error writing tower parameters: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("error writing tower parameters: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("error replacing tower parameters: %w", err)
	}

	return nil
}

// WriteAnalysisResults loads the document at path, replaces its analysis
// results and writes it back. A missing file is created with empty sections.
func WriteAnalysisResults(path string, summary clearance.Summary, results []clearance.Result) error {
	doc, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		doc, err = Parse([]byte(`{"site_A": {}, "site_B": {}, "general_parameters": {}, "turbines": []}`))
	}
	if err != nil {
		return err
	}

	if err = doc.SetAnalysisResults(summary, results); err != nil {
		return err
	}
	return doc.Save(path)
}
