package storage

import (
	"context"

	_ "github.com/mattn/go-sqlite3"

	"github.com/roman-kulish/los-clearance/internal/clearance"
	"github.com/roman-kulish/los-clearance/internal/terrain"
)

// Store provides an interface for persisting clearance analysis runs.
// A run records the analysed path together with its per-obstruction results,
// rejected obstruction records, the terrain profile and the path summary.
// All operations that write to the database should be considered atomic.
type Store interface {
	// CreateRun records a new analysis run and returns its unique identifier.
	// A UUID is assigned when run.UUID is empty.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeouts
	//   - run: Run metadata; ID, CreatedAt and Summary are ignored
	//   - config: Optional analysis configuration. Can be string, []byte, or JSON-serializable object
	//
	// Returns:
	//   - runID: Unique identifier for the created run
	//   - error: If run creation fails or context is cancelled
	CreateRun(ctx context.Context, run *Run, config any) (runID int64, err error)

	// Run retrieves a specific analysis run by its ID.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeouts
	//   - id: Unique run identifier
	//
	// Returns:
	//   - run: Pointer to run data
	//   - error: ErrRunNotFound if there is no such run, or if retrieval fails
	Run(ctx context.Context, id int64) (run *Run, err error)

	// RunByUUID retrieves a specific analysis run by its UUID.
	RunByUUID(ctx context.Context, uuid string) (run *Run, err error)

	// Runs returns all analysis runs stored in the database.
	// Results are ordered by creation time in ascending order.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeouts
	//
	// Returns:
	//   - runs: Slice of pointers to run data
	//   - error: If retrieval fails or context is cancelled
	Runs(ctx context.Context) (runs []*Run, err error)

	// StoreResults saves clearance results for a run, preserving their order.
	// All results are stored in a single atomic transaction.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeouts
	//   - runID: ID of the run these results belong to
	//   - results: Per-obstruction clearance results
	//
	// Returns:
	//   - error: If storage fails or context is cancelled
	StoreResults(ctx context.Context, runID int64, results []clearance.Result) error

	// StoreRejections saves obstruction records that failed validation.
	StoreRejections(ctx context.Context, runID int64, rejected []*clearance.ValidationError) error

	// StoreProfile replaces the terrain profile stored for a run.
	StoreProfile(ctx context.Context, runID int64, profile *terrain.Profile) error

	// StoreSummary attaches the path level summary to a run.
	StoreSummary(ctx context.Context, runID int64, summary clearance.Summary) error

	// Results returns all clearance results of a run in analysis order.
	Results(ctx context.Context, runID int64) ([]clearance.Result, error)

	// Rejections returns the rejected obstruction records of a run.
	Rejections(ctx context.Context, runID int64) ([]*clearance.ValidationError, error)

	// Profile returns the terrain profile of a run. The profile is empty if
	// none was stored.
	Profile(ctx context.Context, runID int64) (*terrain.Profile, error)

	// Close releases all database connections and resources.
	// After Close is called, the store instance cannot be reused.
	// It is safe to call Close multiple times.
	//
	// Returns:
	//   - error: If closing fails or some resources cannot be released
	Close() error
}
