package app

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"os"

	"github.com/roman-kulish/los-clearance/internal/propagation"
	"github.com/roman-kulish/los-clearance/internal/render"
	"github.com/roman-kulish/los-clearance/internal/storage"
)

func Run(ctx context.Context, config *Config, logger *slog.Logger) error {
	if _, err := os.Stat(config.DBPath); err != nil && os.IsNotExist(err) {
		return fmt.Errorf("database file '%s' does not exist: %w", config.DBPath, err)
	}

	store := storage.NewSqliteStore(config.DBPath)
	defer store.Close()

	return renderRun(ctx, store, config, logger)
}

func renderRun(ctx context.Context, store storage.Store, config *Config, logger *slog.Logger) error {
	var (
		run *storage.Run
		err error
	)
	if config.RunUUID != "" {
		run, err = store.RunByUUID(ctx, config.RunUUID)
	} else {
		run, err = store.Run(ctx, config.RunID)
	}
	if err != nil {
		return fmt.Errorf("loading run: %w", err)
	}

	path, err := run.Path()
	if err != nil {
		return fmt.Errorf("rebuilding path: %w", err)
	}

	results, err := store.Results(ctx, run.ID)
	if err != nil {
		return fmt.Errorf("loading results: %w", err)
	}

	profile, err := store.Profile(ctx, run.ID)
	if err != nil {
		return fmt.Errorf("loading profile: %w", err)
	}

	logger.Info("loaded run",
		slog.Group("run",
			slog.Int64("id", run.ID),
			slog.String("uuid", run.UUID),
			slog.String("path", path.ID()),
			slog.String("created", run.CreatedAt.Local().Format("2006-01-02 15:04:05")),
			slog.Int("results", len(results)),
			slog.Int("profileSamples", profile.Len()),
		))

	renderer, err := render.NewRenderer(render.Config{
		Width:  config.Width,
		Height: config.Height,
		Theme:  config.Theme,
	})
	if err != nil {
		return fmt.Errorf("creating renderer: %w", err)
	}

	in := &render.Input{
		Path:    path,
		Model:   propagation.NewModel(propagation.WithKFactor(run.KFactor), propagation.WithLogger(logger)),
		Profile: profile,
		Results: results,
	}

	views := map[View]func(*render.Input) (*image.RGBA, error){
		ViewProfile: renderer.RenderProfile,
		ViewPlan:    renderer.RenderPlan,
	}

	for _, view := range []View{ViewProfile, ViewPlan} {
		filename, ok := config.OutputFiles()[view]
		if !ok {
			continue
		}

		logger.Info("rendering view",
			slog.Group("image",
				slog.String("view", string(view)),
				slog.String("destination", filename),
				slog.String("format", string(config.Format)),
			))

		img, err := views[view](in)
		if err != nil {
			return fmt.Errorf("rendering %s view: %w", view, err)
		}
		if err = render.Save(filename, img, config.Format); err != nil {
			return err
		}
	}

	return nil
}
