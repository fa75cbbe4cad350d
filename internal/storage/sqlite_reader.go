package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"

	"github.com/roman-kulish/los-clearance/internal/clearance"
)

// ResultReader provides an iterator-based interface for reading stored
// clearance results with optional filtering.
type ResultReader interface {
	// Run returns the run this reader is accessing.
	Run() *Run

	// Next advances the iterator and returns true if there is another result
	// to read, false when the iteration is complete or if an error occurred.
	Next(context.Context) bool

	// Current returns the current result in the iteration.
	// If called after Next() returns false, the behavior is undefined.
	Current() *clearance.Result

	// Error returns any error that occurred during iteration.
	// If Next() returns false, Error() should be checked to distinguish between
	// end of data and an error condition.
	Error() error

	// Close releases any resources associated with the reader.
	// After Close is called, the reader should not be used.
	Close() error
}

// ReaderOption configures a ResultReader with specific filtering criteria.
type ReaderOption func(*SqliteResultReader)

// WithMaxOffset excludes results farther than maxFt from the path line.
func WithMaxOffset(maxFt float64) ReaderOption {
	return func(r *SqliteResultReader) {
		r.maxOffset = &maxFt
	}
}

// WithDistanceRange keeps results whose distance along the path lies
// within [minFt, maxFt].
func WithDistanceRange(minFt, maxFt float64) ReaderOption {
	return func(r *SqliteResultReader) {
		r.minDistance = &minFt
		r.maxDistance = &maxFt
	}
}

var _ ResultReader = (*SqliteResultReader)(nil)

// SqliteResultReader implements ResultReader for SQLite database backend.
type SqliteResultReader struct {
	db *sql.DB

	runID int64
	run   *Run

	maxOffset   *float64 // Optional maximum perpendicular offset filter
	minDistance *float64 // Optional start of distance along path filter
	maxDistance *float64 // Optional end of distance along path filter

	current *clearance.Result
	rows    *sql.Rows
	err     error
}

// newSqliteResultReader creates a new ResultReader instance for reading results from a database,
// applying optional filters.
func newSqliteResultReader(ctx context.Context, db *sql.DB, runID int64, opts ...ReaderOption) (*SqliteResultReader, error) {
	rr := &SqliteResultReader{
		db:    db,
		runID: runID,
	}
	for _, opt := range opts {
		opt(rr)
	}
	if err := rr.init(ctx); err != nil {
		return nil, fmt.Errorf("initializing reader: %w", err)
	}
	return rr, nil
}

func (rr *SqliteResultReader) init(ctx context.Context) error {
	if rr.db == nil {
		return errors.New("database connection required")
	}
	if rr.runID <= 0 {
		return errors.New("run ID required")
	}

	steps := []struct {
		msg string
		fn  func(context.Context) error
	}{
		{msg: "loading run", fn: rr.loadRun},
		{msg: "initializing filters", fn: rr.initFilters},
		{msg: "initializing query", fn: rr.initQuery},
	}
	for _, s := range steps {
		if err := s.fn(ctx); err != nil {
			return fmt.Errorf("%s: %w", s.msg, err)
		}
	}
	return nil
}

func (rr *SqliteResultReader) loadRun(ctx context.Context) (err error) {
	stmt, err := rr.db.PrepareContext(ctx, selectRunSQL)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer closeWithError(stmt, &err)

	rr.run, err = scanRun(stmt.QueryRowContext(ctx, rr.runID))
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("run %d: %w", rr.runID, ErrRunNotFound)
	}
	return err
}

func (rr *SqliteResultReader) initFilters(context.Context) error {
	if rr.minDistance != nil && rr.maxDistance != nil && *rr.minDistance > *rr.maxDistance {
		return fmt.Errorf("min distance %f is greater than max distance %f", *rr.minDistance, *rr.maxDistance)
	}
	if rr.maxOffset != nil && *rr.maxOffset < 0 {
		return fmt.Errorf("max offset %f is negative", *rr.maxOffset)
	}

	if rr.maxOffset == nil {
		v := math.MaxFloat64
		rr.maxOffset = &v
	}
	if rr.minDistance == nil {
		v := 0.0
		rr.minDistance = &v
	}
	if rr.maxDistance == nil {
		v := math.MaxFloat64
		rr.maxDistance = &v
	}
	return nil
}

func (rr *SqliteResultReader) initQuery(ctx context.Context) (err error) {
	rr.rows, err = rr.db.QueryContext(ctx, selectResultsSQL, rr.runID, *rr.maxOffset, *rr.minDistance, *rr.maxDistance)
	return err
}

func (rr *SqliteResultReader) Run() *Run {
	return rr.run
}

func (rr *SqliteResultReader) Next(ctx context.Context) bool {
	if rr.err != nil || rr.rows == nil {
		return false
	}

	select {
	case <-ctx.Done():
		rr.err = ctx.Err()
		return false
	default:
	}

	if !rr.rows.Next() {
		rr.err = rr.rows.Err()
		return false
	}

	r, err := scanResult(rr.rows)
	if err != nil {
		rr.err = err
		return false
	}

	rr.current = &r
	return true
}

func (rr *SqliteResultReader) Current() *clearance.Result {
	return rr.current
}

func (rr *SqliteResultReader) Error() error {
	return rr.err
}

func (rr *SqliteResultReader) Close() error {
	if rr.rows == nil {
		return nil
	}
	err := rr.rows.Close()
	rr.rows = nil
	return err
}
