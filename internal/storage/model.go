package storage

import (
	"database/sql"
	"time"

	"github.com/roman-kulish/los-clearance/internal/clearance"
	"github.com/roman-kulish/los-clearance/internal/link"
)

// Run is one stored analysis of a path.
type Run struct {
	ID        int64
	UUID      string
	CreatedAt time.Time

	SiteA         link.Site
	SiteB         link.Site
	FrequencyGHz  float64
	TotalLengthFt float64
	KFactor       float64

	// Config is the analysis configuration, typically JSON.
	Config *string
	// Summary is nil until StoreSummary has been called for the run.
	Summary *clearance.Summary
}

// Path rebuilds the analysed link.
func (r *Run) Path() (*link.Path, error) {
	return link.NewPath(r.SiteA, r.SiteB, r.FrequencyGHz)
}

type runData struct {
	ID            int64
	UUID          string
	CreatedAt     time.Time
	SiteA         link.Site
	SiteB         link.Site
	FrequencyGHz  float64
	TotalLengthFt float64
	KFactor       float64
	Config        sql.NullString
	Summary       sql.NullString
}

type resultData struct {
	RunID int64
	Seq   int
	clearance.Result
}
