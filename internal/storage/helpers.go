package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/roman-kulish/los-clearance/internal/clearance"
)

func closeWithError(cl interface{ Close() error }, err *error) {
	if cErr := cl.Close(); cErr != nil && *err == nil {
		*err = cErr
	}
}

// rollbackWithError rolls back an unfinished transaction. Rolling back a
// committed transaction is a no-op.
func rollbackWithError(rb interface{ Rollback() error }, err *error) {
	if cErr := rb.Rollback(); cErr != nil && !errors.Is(cErr, sql.ErrTxDone) && *err == nil {
		*err = cErr
	}
}

func toNullString(v any) (ns sql.NullString, err error) {
	if v == nil {
		return
	}

	switch v := v.(type) {
	case string:
		ns.String = v
	case []byte:
		ns.String = string(v)
	default:
		var p []byte
		if p, err = json.Marshal(v); err != nil {
			return ns, fmt.Errorf("marshaling config: %w", err)
		}
		ns.String = string(p)
	}

	ns.Valid = true
	return
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func (d *resultData) values() []any {
	r := d.Result
	return []any{
		d.RunID,
		d.Seq,
		r.ObstructionID,
		r.DistanceAlongFt,
		r.PerpendicularOffsetFt,
		r.StraightClearanceFt,
		r.CurvedClearanceFt,
		r.FresnelClearanceFt,
		r.FresnelRadiusFt,
		r.GroundElevationFt,
		r.CenterHeightFt,
		r.RotorRadiusFt,
		r.StraightLOSFt,
		r.CurvedLOSFt,
		r.EarthBulgeFt,
		r.VerticalStraightClearanceFt,
		r.VerticalCurvedClearanceFt,
		r.PathSide,
		boolToInt(r.Clamped),
		boolToInt(r.InSearchArea),
	}
}

// scanResult reads a row produced by selectResultsSQL. Status flags are
// derived from the clearances rather than stored.
func scanResult(rows interface{ Scan(...any) error }) (r clearance.Result, err error) {
	var clamped, inSearchArea int
	err = rows.Scan(
		&r.ObstructionID,
		&r.DistanceAlongFt,
		&r.PerpendicularOffsetFt,
		&r.StraightClearanceFt,
		&r.CurvedClearanceFt,
		&r.FresnelClearanceFt,
		&r.FresnelRadiusFt,
		&r.GroundElevationFt,
		&r.CenterHeightFt,
		&r.RotorRadiusFt,
		&r.StraightLOSFt,
		&r.CurvedLOSFt,
		&r.EarthBulgeFt,
		&r.VerticalStraightClearanceFt,
		&r.VerticalCurvedClearanceFt,
		&r.PathSide,
		&clamped,
		&inSearchArea,
	)
	if err != nil {
		return r, fmt.Errorf("scanning result: %w", err)
	}

	r.Clamped = clamped != 0
	r.InSearchArea = inSearchArea != 0
	r.HasLOSClearance = r.StraightClearanceFt > 0
	r.HasEarthClearance = r.CurvedClearanceFt > 0
	r.HasFresnelClearance = r.FresnelClearanceFt > 0

	return r, nil
}

func scanRun(row interface{ Scan(...any) error }) (*Run, error) {
	var d runData
	err := row.Scan(
		&d.ID,
		&d.UUID,
		&d.CreatedAt,
		&d.SiteA.ID,
		&d.SiteA.Position.Latitude,
		&d.SiteA.Position.Longitude,
		&d.SiteA.GroundElevationFt,
		&d.SiteA.AntennaCenterlineFt,
		&d.SiteB.ID,
		&d.SiteB.Position.Latitude,
		&d.SiteB.Position.Longitude,
		&d.SiteB.GroundElevationFt,
		&d.SiteB.AntennaCenterlineFt,
		&d.FrequencyGHz,
		&d.TotalLengthFt,
		&d.KFactor,
		&d.Config,
		&d.Summary,
	)
	if err != nil {
		return nil, err
	}

	run := Run{
		ID:            d.ID,
		UUID:          d.UUID,
		CreatedAt:     d.CreatedAt,
		SiteA:         d.SiteA,
		SiteB:         d.SiteB,
		FrequencyGHz:  d.FrequencyGHz,
		TotalLengthFt: d.TotalLengthFt,
		KFactor:       d.KFactor,
	}
	if d.Config.Valid {
		run.Config = &d.Config.String
	}
	if d.Summary.Valid {
		var s clearance.Summary
		if err = json.Unmarshal([]byte(d.Summary.String), &s); err != nil {
			return nil, fmt.Errorf("decoding summary: %w", err)
		}
		run.Summary = &s
	}

	return &run, nil
}
