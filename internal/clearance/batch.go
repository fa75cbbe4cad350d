package clearance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/roman-kulish/los-clearance/internal/link"
	"github.com/roman-kulish/los-clearance/internal/terrain"
)

// Batch is the outcome of analysing a set of obstructions.
type Batch struct {
	// Results are in input order, rejected obstructions omitted.
	Results []Result
	// Rejected lists the obstructions that failed validation.
	Rejected []*ValidationError
	// Total is the number of obstructions submitted.
	Total int
}

// AnalyzeAll analyses every obstruction against the path. Invalid records are
// logged and collected in Batch.Rejected without aborting the batch; only
// context cancellation stops it early.
func (c *Calculator) AnalyzeAll(ctx context.Context, obstructions []Obstruction, path *link.Path, profile *terrain.Profile) (*Batch, error) {
	type outcome struct {
		result   Result
		rejected *ValidationError
	}

	outcomes := make([]outcome, len(obstructions))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(c.workers, 1))

	for i, o := range obstructions {
		if err := ctx.Err(); err != nil {
			break
		}

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			r, err := c.Analyze(o, path, profile)
			if err == nil {
				outcomes[i].result = r
				return nil
			}

			var ve *ValidationError
			if !errors.As(err, &ve) {
				ve = &ValidationError{ObstructionID: o.ID, Reason: err.Error()}
			}
			outcomes[i].rejected = ve
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("analyzing obstructions: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("analyzing obstructions: %w", err)
	}

	batch := Batch{
		Results: make([]Result, 0, len(obstructions)),
		Total:   len(obstructions),
	}
	for _, out := range outcomes {
		if out.rejected != nil {
			c.logger.Warn("obstruction rejected",
				slog.String("obstruction", out.rejected.ObstructionID),
				slog.String("path", path.ID()),
				slog.String("error", out.rejected.Error()))
			batch.Rejected = append(batch.Rejected, out.rejected)
			continue
		}
		batch.Results = append(batch.Results, out.result)
	}

	if len(batch.Rejected) > 0 {
		c.logger.Warn(fmt.Sprintf("%d of %d turbines could not be analyzed due to invalid data", len(batch.Rejected), batch.Total),
			slog.String("path", path.ID()))
	}

	return &batch, nil
}
