package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/roman-kulish/los-clearance/internal/clearance"
	"github.com/roman-kulish/los-clearance/internal/terrain"
)

// ErrRunNotFound is returned when a run does not exist.
var ErrRunNotFound = errors.New("run not found")

// maxBatchRows bounds the number of result rows in one INSERT statement.
const maxBatchRows = 500

var _ Store = (*SqliteStore)(nil)

// SqliteStore handles database operations
type SqliteStore struct {
	dbPath string

	writeDB     *sql.DB
	writeDBOnce sync.Once
	writeDBErr  error

	readDB     *sql.DB
	readDBOnce sync.Once
	readDBErr  error

	closeOnce sync.Once
	closeErr  error
}

// NewSqliteStore creates a new database connection and initializes the schema
// using the Sqlite database
func NewSqliteStore(dbPath string) *SqliteStore {
	return &SqliteStore{dbPath: dbPath}
}

func runSQLCommand(db *sql.DB, sql string) error {
	_, err := db.Exec(sql)
	return err
}

func (s *SqliteStore) getWriteDB() (*sql.DB, error) {
	s.writeDBOnce.Do(func() {
		db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?%s", s.dbPath, "_journal_mode=WAL&_synchronous=NORMAL&_foreign_keys=on"))
		if err != nil {
			s.writeDBErr = fmt.Errorf("opening write connection: %w", err)
			return
		}

		if err = runSQLCommand(db, initSchemaSQL); err != nil {
			_ = db.Close()
			s.writeDBErr = fmt.Errorf("initializing schema: %w", err)
			return
		}

		s.writeDB = db
	})

	return s.writeDB, s.writeDBErr
}

func (s *SqliteStore) getReadDB() (*sql.DB, error) {
	s.readDBOnce.Do(func() {
		db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?%s", s.dbPath, "mode=ro"))
		if err != nil {
			s.readDBErr = fmt.Errorf("opening read connection: %w", err)
			return
		}
		s.readDB = db
	})

	return s.readDB, s.readDBErr
}

func (s *SqliteStore) CreateRun(ctx context.Context, run *Run, config any) (runID int64, err error) {
	configData, err := toNullString(config)
	if err != nil {
		return
	}

	if run.UUID == "" {
		run.UUID = uuid.NewString()
	}

	db, err := s.getWriteDB()
	if err != nil {
		err = fmt.Errorf("getting write connection: %w", err)
		return
	}

	stmt, err := db.PrepareContext(ctx, insertRunSQL)
	if err != nil {
		err = fmt.Errorf("preparing statement: %w", err)
		return
	}
	defer closeWithError(stmt, &err)

	result, err := stmt.ExecContext(
		ctx,
		run.UUID,
		time.Now().UTC(),
		run.SiteA.ID,
		run.SiteA.Position.Latitude,
		run.SiteA.Position.Longitude,
		run.SiteA.GroundElevationFt,
		run.SiteA.AntennaCenterlineFt,
		run.SiteB.ID,
		run.SiteB.Position.Latitude,
		run.SiteB.Position.Longitude,
		run.SiteB.GroundElevationFt,
		run.SiteB.AntennaCenterlineFt,
		run.FrequencyGHz,
		run.TotalLengthFt,
		run.KFactor,
		configData,
	)
	if err != nil {
		err = fmt.Errorf("inserting run: %w", err)
		return
	}

	runID, err = result.LastInsertId()
	if err != nil {
		err = fmt.Errorf("getting run ID: %w", err)
	}
	return
}

func (s *SqliteStore) Run(ctx context.Context, id int64) (*Run, error) {
	return s.queryRun(ctx, selectRunSQL, id)
}

func (s *SqliteStore) RunByUUID(ctx context.Context, id string) (*Run, error) {
	return s.queryRun(ctx, selectRunByUUIDSQL, id)
}

func (s *SqliteStore) queryRun(ctx context.Context, query string, arg any) (run *Run, err error) {
	db, err := s.getReadDB()
	if err != nil {
		err = fmt.Errorf("getting read connection: %w", err)
		return
	}

	stmt, err := db.PrepareContext(ctx, query)
	if err != nil {
		err = fmt.Errorf("preparing statement: %w", err)
		return
	}
	defer closeWithError(stmt, &err)

	run, err = scanRun(stmt.QueryRowContext(ctx, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %v: %w", arg, ErrRunNotFound)
	}
	if err != nil {
		err = fmt.Errorf("scanning run: %w", err)
	}
	return
}

func (s *SqliteStore) Runs(ctx context.Context) (runs []*Run, err error) {
	db, err := s.getReadDB()
	if err != nil {
		err = fmt.Errorf("getting read connection: %w", err)
		return
	}

	rows, err := db.QueryContext(ctx, selectRunsSQL)
	if err != nil {
		err = fmt.Errorf("querying runs: %w", err)
		return
	}
	defer closeWithError(rows, &err)

	for rows.Next() {
		var run *Run
		if run, err = scanRun(rows); err != nil {
			err = fmt.Errorf("scanning run: %w", err)
			return
		}
		runs = append(runs, run)
	}
	err = rows.Err()
	return
}

func (s *SqliteStore) StoreResults(ctx context.Context, runID int64, results []clearance.Result) (err error) {
	if len(results) == 0 {
		return
	}

	db, err := s.getWriteDB()
	if err != nil {
		return fmt.Errorf("getting write connection: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer rollbackWithError(tx, &err)

	// results may be stored in several calls, continue the sequence
	var seq int
	if err = tx.QueryRowContext(ctx, selectNextResultSeqSQL, runID).Scan(&seq); err != nil {
		return fmt.Errorf("querying result sequence: %w", err)
	}

	for chunk := range slices.Chunk(results, maxBatchRows) {
		values := make([]any, 0, len(chunk)*20)

		var sb strings.Builder
		sb.WriteString(insertResultSQL)

		for i, r := range chunk {
			data := resultData{RunID: runID, Seq: seq, Result: r}
			values = append(values, data.values()...)
			seq++

			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(insertResultValuesSQL)
		}

		if _, err = tx.ExecContext(ctx, sb.String(), values...); err != nil {
			return fmt.Errorf("batch inserting results: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

func (s *SqliteStore) StoreRejections(ctx context.Context, runID int64, rejected []*clearance.ValidationError) (err error) {
	if len(rejected) == 0 {
		return
	}

	db, err := s.getWriteDB()
	if err != nil {
		return fmt.Errorf("getting write connection: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer rollbackWithError(tx, &err)

	stmt, err := tx.PrepareContext(ctx, insertRejectionSQL)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer closeWithError(stmt, &err)

	for _, r := range rejected {
		if _, err = stmt.ExecContext(ctx, runID, r.ObstructionID, r.Field, r.Reason); err != nil {
			return fmt.Errorf("inserting rejection: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

func (s *SqliteStore) StoreProfile(ctx context.Context, runID int64, profile *terrain.Profile) (err error) {
	db, err := s.getWriteDB()
	if err != nil {
		return fmt.Errorf("getting write connection: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer rollbackWithError(tx, &err)

	if _, err = tx.ExecContext(ctx, deleteProfileSQL, runID); err != nil {
		return fmt.Errorf("deleting profile: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, insertProfileSampleSQL)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer closeWithError(stmt, &err)

	for i, sample := range profile.Samples() {
		if _, err = stmt.ExecContext(ctx, runID, i, sample.DistanceFt, sample.GroundElevationFt, sample.VegetationHeightFt); err != nil {
			return fmt.Errorf("inserting profile sample: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

func (s *SqliteStore) StoreSummary(ctx context.Context, runID int64, summary clearance.Summary) (err error) {
	data, err := summary.MarshalJSON()
	if err != nil {
		return fmt.Errorf("marshaling summary: %w", err)
	}

	db, err := s.getWriteDB()
	if err != nil {
		return fmt.Errorf("getting write connection: %w", err)
	}

	result, err := db.ExecContext(ctx, updateRunSummarySQL, string(data), runID)
	if err != nil {
		return fmt.Errorf("updating run summary: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("run %d: %w", runID, ErrRunNotFound)
	}

	return nil
}

// ReadResults creates a new ResultReader over the results of a run. Results
// are returned in analysis order and may be narrowed down with reader options
// (WithMaxOffset, WithDistanceRange).
//
// The returned reader must be closed after use to release database resources.
// Each reader instance should only be used from a single goroutine.
func (s *SqliteStore) ReadResults(ctx context.Context, runID int64, opts ...ReaderOption) (*SqliteResultReader, error) {
	db, err := s.getReadDB()
	if err != nil {
		return nil, fmt.Errorf("getting read connection: %w", err)
	}
	return newSqliteResultReader(ctx, db, runID, opts...)
}

func (s *SqliteStore) Results(ctx context.Context, runID int64) (results []clearance.Result, err error) {
	reader, err := s.ReadResults(ctx, runID)
	if err != nil {
		return nil, err
	}
	defer closeWithError(reader, &err)

	for reader.Next(ctx) {
		results = append(results, *reader.Current())
	}
	if err = reader.Error(); err != nil {
		return nil, fmt.Errorf("reading results: %w", err)
	}

	return results, nil
}

func (s *SqliteStore) Rejections(ctx context.Context, runID int64) (rejected []*clearance.ValidationError, err error) {
	db, err := s.getReadDB()
	if err != nil {
		err = fmt.Errorf("getting read connection: %w", err)
		return
	}

	rows, err := db.QueryContext(ctx, selectRejectionsSQL, runID)
	if err != nil {
		err = fmt.Errorf("querying rejections: %w", err)
		return
	}
	defer closeWithError(rows, &err)

	for rows.Next() {
		var r clearance.ValidationError
		if err = rows.Scan(&r.ObstructionID, &r.Field, &r.Reason); err != nil {
			err = fmt.Errorf("scanning rejection: %w", err)
			return
		}
		rejected = append(rejected, &r)
	}
	err = rows.Err()
	return
}

func (s *SqliteStore) Profile(ctx context.Context, runID int64) (profile *terrain.Profile, err error) {
	db, err := s.getReadDB()
	if err != nil {
		err = fmt.Errorf("getting read connection: %w", err)
		return
	}

	rows, err := db.QueryContext(ctx, selectProfileSQL, runID)
	if err != nil {
		err = fmt.Errorf("querying profile: %w", err)
		return
	}
	defer closeWithError(rows, &err)

	var samples []terrain.Sample
	for rows.Next() {
		var sample terrain.Sample
		if err = rows.Scan(&sample.DistanceFt, &sample.GroundElevationFt, &sample.VegetationHeightFt); err != nil {
			err = fmt.Errorf("scanning profile sample: %w", err)
			return
		}
		samples = append(samples, sample)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("reading profile: %w", err)
	}

	return terrain.NewProfile(samples)
}

func (s *SqliteStore) Close() error {
	s.closeOnce.Do(func() {
		var writeErr, readErr error

		if s.writeDB != nil {
			_ = runSQLCommand(s.writeDB, initIndexesSQL)

			writeErr = s.writeDB.Close()
			s.writeDB = nil
		}

		if s.readDB != nil {
			readErr = s.readDB.Close()
			s.readDB = nil
		}

		s.closeErr = errors.Join(writeErr, readErr)
	})

	return s.closeErr
}
