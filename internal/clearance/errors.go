package clearance

import (
	"fmt"
)

// ValidationError reports a malformed obstruction record. It only affects
// that obstruction; batch analysis excludes it and carries on.
type ValidationError struct {
	ObstructionID string
	Field         string
	Reason        string
}

func (e *ValidationError) Error() string {
	id := e.ObstructionID
	if id == "" {
		id = "<unknown>"
	}
	if e.Field == "" {
		return fmt.Sprintf("invalid obstruction %s: %s", id, e.Reason)
	}
	return fmt.Sprintf("invalid obstruction %s: %s %s", id, e.Field, e.Reason)
}

// OutOfRangeWarning is logged when an obstruction projects outside the path
// and its distance along the path had to be clamped.
type OutOfRangeWarning struct {
	ObstructionID string
	PathID        string
	RawDistanceFt float64
	TotalLengthFt float64
}

func (w *OutOfRangeWarning) Error() string {
	return fmt.Sprintf("obstruction %s projects to %.1f ft, outside path %s of %.1f ft; clamped",
		w.ObstructionID, w.RawDistanceFt, w.PathID, w.TotalLengthFt)
}
