package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/paulmach/orb"

	"github.com/roman-kulish/los-clearance/internal/clearance"
	"github.com/roman-kulish/los-clearance/internal/export"
	"github.com/roman-kulish/los-clearance/internal/geo"
	"github.com/roman-kulish/los-clearance/internal/link"
	"github.com/roman-kulish/los-clearance/internal/propagation"
	"github.com/roman-kulish/los-clearance/internal/storage"
	"github.com/roman-kulish/los-clearance/internal/terrain"
	"github.com/roman-kulish/los-clearance/internal/towerparams"
)

const dbFile = "clearance_runs.sqlite"

// Inputs names the files of a single analysis
type Inputs struct {
	TowerParameters string // tower_parameters.json
	ProfileCSV      string // optional elevation profile
}

// Report is the content of the results JSON file
type Report struct {
	RunUUID  string                       `json:"run_uuid,omitempty"`
	PathID   string                       `json:"path_id"`
	LengthFt float64                      `json:"path_length_ft"`
	KFactor  float64                      `json:"k_factor"`
	Summary  clearance.Summary            `json:"summary"`
	Results  []clearance.Result           `json:"turbine_analysis"`
	Rejected []*clearance.ValidationError `json:"rejected,omitempty"`
	Terrain  *terrain.ScanResult          `json:"terrain,omitempty"`
}

func Run(ctx context.Context, config *Config, inputs Inputs, logger *slog.Logger) error {
	doc, err := towerparams.Load(inputs.TowerParameters)
	if err != nil {
		return fmt.Errorf("loading tower parameters: %w", err)
	}

	path, err := doc.Path()
	if err != nil {
		var degenerate *link.DegeneratePathError
		if errors.As(err, &degenerate) {
			return fmt.Errorf("site %s and site %s are at the same position, the path has zero length and cannot be analyzed: %w",
				degenerate.SiteA, degenerate.SiteB, err)
		}
		return fmt.Errorf("building path: %w", err)
	}

	model := propagation.NewModel(
		propagation.WithEarthRadius(float64(config.Analysis.EarthRadiusFt)),
		propagation.WithKFactor(config.Analysis.KFactor),
		propagation.WithLogger(logger),
	)

	profile, err := loadProfile(ctx, path, inputs.ProfileCSV, config.Analysis.ProfileSamples)
	if err != nil {
		return fmt.Errorf("loading elevation profile: %w", err)
	}

	a, b := path.SiteA(), path.SiteB()
	area := geo.SearchPolygon(a.Position, b.Position,
		float64(config.Analysis.SearchWidthFt), float64(config.Analysis.SearchExtensionFt))

	logger.Info("analyzing path",
		slog.String("path", path.ID()),
		slog.String("length", humanize.Commaf(float64(int64(path.TotalLengthFt())))+" ft"),
		slog.Float64("frequencyGHz", path.FrequencyGHz()),
		slog.Float64("kFactor", model.KFactor()),
		slog.Int("turbines", len(doc.Turbines)),
		slog.Int("profileSamples", profile.Len()))

	calculator := clearance.NewCalculator(model,
		clearance.WithLogger(logger),
		clearance.WithSearchArea(area),
		clearance.WithWorkers(config.Analysis.Workers),
	)

	obstructions := doc.Obstructions()
	batch, err := calculator.AnalyzeAll(ctx, obstructions, path, profile)
	if err != nil {
		return err
	}

	summary := clearance.Summarize(batch.Results, float64(config.Analysis.ProximityThresholdFt))
	report := Report{
		PathID:   path.ID(),
		LengthFt: path.TotalLengthFt(),
		KFactor:  model.KFactor(),
		Summary:  summary,
		Results:  batch.Results,
		Rejected: batch.Rejected,
	}

	if scan, ok := terrain.Scan(profile, path, model); ok {
		report.Terrain = &scan
		logTerrain(ctx, logger, scan)
	}

	logSummary(logger, batch, summary)

	if !config.Storage.Disabled {
		if report.RunUUID, err = storeRun(ctx, config, path, profile, batch, summary); err != nil {
			return fmt.Errorf("storing run: %w", err)
		}
		logger.Info("stored analysis run", slog.String("uuid", report.RunUUID))
	}

	return writeOutputs(config, inputs, doc, path, obstructions, area, &report, logger)
}

// loadProfile reads the profile CSV, or builds a profile interpolated
// between the site ground elevations when none is given.
func loadProfile(ctx context.Context, path *link.Path, csvPath string, samples int) (*terrain.Profile, error) {
	if csvPath != "" {
		profile, err := terrain.LoadCSV(csvPath)
		if err != nil {
			return nil, err
		}
		if err = profile.Covers(path.TotalLengthFt()); err != nil {
			return nil, fmt.Errorf("profile %s for path %s: %w", csvPath, path.ID(), err)
		}
		return profile, nil
	}

	a, b := path.SiteA(), path.SiteB()
	length := path.TotalLengthFt()

	flat := terrain.ElevationFunc(func(_ context.Context, p geo.Point) (float64, error) {
		f := geo.Distance(a.Position, p) / length
		return a.GroundElevationFt + (b.GroundElevationFt-a.GroundElevationFt)*f, nil
	})
	return terrain.BuildProfile(ctx, path, flat, samples)
}

func storeRun(ctx context.Context, config *Config, path *link.Path, profile *terrain.Profile, batch *clearance.Batch, summary clearance.Summary) (string, error) {
	dir := config.Storage.DataDirectory
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating storage directory '%s': %w", dir, err)
	}

	store := storage.NewSqliteStore(filepath.Join(dir, dbFile))
	defer store.Close()

	run := storage.Run{
		SiteA:         path.SiteA(),
		SiteB:         path.SiteB(),
		FrequencyGHz:  path.FrequencyGHz(),
		TotalLengthFt: path.TotalLengthFt(),
		KFactor:       config.Analysis.KFactor,
	}

	runID, err := store.CreateRun(ctx, &run, config.Analysis)
	if err != nil {
		return "", err
	}

	steps := []struct {
		msg string
		fn  func() error
	}{
		{"storing results", func() error { return store.StoreResults(ctx, runID, batch.Results) }},
		{"storing rejections", func() error { return store.StoreRejections(ctx, runID, batch.Rejected) }},
		{"storing profile", func() error { return store.StoreProfile(ctx, runID, profile) }},
		{"storing summary", func() error { return store.StoreSummary(ctx, runID, summary) }},
	}
	for _, s := range steps {
		if err = s.fn(); err != nil {
			return "", fmt.Errorf("%s: %w", s.msg, err)
		}
	}

	return run.UUID, nil
}

func writeOutputs(config *Config, inputs Inputs, doc *towerparams.Document, path *link.Path, obstructions []clearance.Obstruction, area orb.Polygon, report *Report, logger *slog.Logger) error {
	out := config.Output
	if err := os.MkdirAll(out.Directory, 0o755); err != nil {
		return fmt.Errorf("creating output directory '%s': %w", out.Directory, err)
	}

	if out.ResultsJSON != "" {
		filename := filepath.Join(out.Directory, out.ResultsJSON)
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding results: %w", err)
		}
		if err = os.WriteFile(filename, append(data, '\n'), 0o644); err != nil {
			return fmt.Errorf("writing results: %w", err)
		}
		logger.Info("wrote results", slog.String("destination", filename))
	}

	scene := export.NewScene(path, obstructions, report.Results, area)
	if out.KML != "" {
		filename := filepath.Join(out.Directory, out.KML)
		if err := export.SaveKML(filename, scene); err != nil {
			return err
		}
		logger.Info("wrote KML", slog.String("destination", filename))
	}
	if out.GeoJSON != "" {
		filename := filepath.Join(out.Directory, out.GeoJSON)
		if err := export.SaveGeoJSON(filename, scene); err != nil {
			return err
		}
		logger.Info("wrote GeoJSON", slog.String("destination", filename))
	}

	if out.WriteBack {
		if err := doc.SetAnalysisResults(report.Summary, report.Results); err != nil {
			return fmt.Errorf("updating analysis results: %w", err)
		}
		if err := doc.Save(inputs.TowerParameters); err != nil {
			return err
		}
		logger.Info("updated tower parameters", slog.String("destination", inputs.TowerParameters))
	}

	return nil
}

func logSummary(logger *slog.Logger, batch *clearance.Batch, summary clearance.Summary) {
	var blocked, fresnel int
	for _, r := range batch.Results {
		switch {
		case !r.HasEarthClearance:
			blocked++
		case !r.HasFresnelClearance:
			fresnel++
		}
	}

	attrs := []any{
		slog.Group("stats",
			slog.Int("analyzed", len(batch.Results)),
			slog.Int("rejected", len(batch.Rejected)),
			slog.Int("blocking", blocked),
			slog.Int("inFresnelZone", fresnel),
			slog.Int(summary.WithinKey(), len(summary.WithinThreshold)),
		),
	}
	if c := summary.ClosestToPath; c != nil {
		attrs = append(attrs, slog.String("closestToPath", fmt.Sprintf("%s (%s ft)", c.ObstructionID, humanize.Commaf(round1(c.ClearanceFt)))))
	}
	if c := summary.ClosestToFresnel; c != nil {
		attrs = append(attrs, slog.String("closestToFresnel", fmt.Sprintf("%s (%s ft)", c.ObstructionID, humanize.Commaf(round1(c.ClearanceFt)))))
	}

	logger.Info("analysis complete", attrs...)
}

func logTerrain(ctx context.Context, logger *slog.Logger, scan terrain.ScanResult) {
	level := slog.LevelInfo
	if scan.Obstructed || scan.FresnelIntrusions > 0 {
		level = slog.LevelWarn
	}

	logger.Log(ctx, level, "terrain clearance",
		slog.Bool("obstructed", scan.Obstructed),
		slog.Int("fresnelIntrusions", scan.FresnelIntrusions),
		slog.Float64("worstClearanceFt", round1(scan.Worst.ClearanceFt)),
		slog.Float64("worstDistanceFt", round1(scan.Worst.DistanceFt)))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
