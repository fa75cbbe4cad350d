package storage

const (
	initSchemaSQL = `
CREATE TABLE IF NOT EXISTS runs (
    id                INTEGER PRIMARY KEY AUTOINCREMENT,
    uuid              TEXT     NOT NULL UNIQUE,
    created_at        DATETIME NOT NULL,
    site_a_id         TEXT     NOT NULL,
    site_a_latitude   REAL     NOT NULL,
    site_a_longitude  REAL     NOT NULL,
    site_a_ground_ft  REAL     NOT NULL,
    site_a_antenna_ft REAL     NOT NULL,
    site_b_id         TEXT     NOT NULL,
    site_b_latitude   REAL     NOT NULL,
    site_b_longitude  REAL     NOT NULL,
    site_b_ground_ft  REAL     NOT NULL,
    site_b_antenna_ft REAL     NOT NULL,
    frequency_ghz     REAL     NOT NULL,
    total_length_ft   REAL     NOT NULL,
    k_factor          REAL     NOT NULL,
    config            TEXT,
    summary           TEXT
);

CREATE TABLE IF NOT EXISTS results (
    id                             INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id                         INTEGER NOT NULL REFERENCES runs (id) ON DELETE CASCADE,
    seq                            INTEGER NOT NULL,
    obstruction_id                 TEXT    NOT NULL,
    distance_along_ft              REAL    NOT NULL,
    perpendicular_offset_ft        REAL    NOT NULL,
    straight_clearance_ft          REAL    NOT NULL,
    curved_clearance_ft            REAL    NOT NULL,
    fresnel_clearance_ft           REAL    NOT NULL,
    fresnel_radius_ft              REAL    NOT NULL,
    ground_elevation_ft            REAL    NOT NULL,
    center_height_ft               REAL    NOT NULL,
    rotor_radius_ft                REAL    NOT NULL,
    straight_los_ft                REAL    NOT NULL,
    curved_los_ft                  REAL    NOT NULL,
    earth_bulge_ft                 REAL    NOT NULL,
    vertical_straight_clearance_ft REAL    NOT NULL,
    vertical_curved_clearance_ft   REAL    NOT NULL,
    path_side                      INTEGER NOT NULL,
    clamped                        INTEGER NOT NULL,
    in_search_area                 INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS rejections (
    id             INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id         INTEGER NOT NULL REFERENCES runs (id) ON DELETE CASCADE,
    obstruction_id TEXT    NOT NULL,
    field          TEXT    NOT NULL,
    reason         TEXT    NOT NULL
);

CREATE TABLE IF NOT EXISTS profile_samples (
    run_id        INTEGER NOT NULL REFERENCES runs (id) ON DELETE CASCADE,
    seq           INTEGER NOT NULL,
    distance_ft   REAL    NOT NULL,
    ground_ft     REAL    NOT NULL,
    vegetation_ft REAL    NOT NULL,
    PRIMARY KEY (run_id, seq)
);`

	initIndexesSQL = `
CREATE INDEX IF NOT EXISTS idx_results_run_seq ON results (run_id, seq);
CREATE INDEX IF NOT EXISTS idx_rejections_run ON rejections (run_id);`

	insertRunSQL = `
INSERT INTO runs (uuid,
                  created_at,
                  site_a_id,
                  site_a_latitude,
                  site_a_longitude,
                  site_a_ground_ft,
                  site_a_antenna_ft,
                  site_b_id,
                  site_b_latitude,
                  site_b_longitude,
                  site_b_ground_ft,
                  site_b_antenna_ft,
                  frequency_ghz,
                  total_length_ft,
                  k_factor,
                  config)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	updateRunSummarySQL = `
UPDATE runs
SET summary = ?
WHERE id = ?`

	selectRunColumnsSQL = `
SELECT 
    id,
    uuid,
    created_at,
    site_a_id,
    site_a_latitude,
    site_a_longitude,
    site_a_ground_ft,
    site_a_antenna_ft,
    site_b_id,
    site_b_latitude,
    site_b_longitude,
    site_b_ground_ft,
    site_b_antenna_ft,
    frequency_ghz,
    total_length_ft,
    k_factor,
    config,
    summary
FROM runs`

	selectRunSQL = selectRunColumnsSQL + `
WHERE 
    id = ?`

	selectRunByUUIDSQL = selectRunColumnsSQL + `
WHERE 
    uuid = ?`

	selectRunsSQL = selectRunColumnsSQL + `
ORDER BY created_at, id`

	insertResultSQL = `
INSERT INTO results (run_id,
                     seq,
                     obstruction_id,
                     distance_along_ft,
                     perpendicular_offset_ft,
                     straight_clearance_ft,
                     curved_clearance_ft,
                     fresnel_clearance_ft,
                     fresnel_radius_ft,
                     ground_elevation_ft,
                     center_height_ft,
                     rotor_radius_ft,
                     straight_los_ft,
                     curved_los_ft,
                     earth_bulge_ft,
                     vertical_straight_clearance_ft,
                     vertical_curved_clearance_ft,
                     path_side,
                     clamped,
                     in_search_area)
VALUES `

	insertResultValuesSQL = "(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"

	selectNextResultSeqSQL = `
SELECT COALESCE(MAX(seq) + 1, 0)
FROM results
WHERE run_id = ?`

	selectResultsSQL = `
SELECT 
    obstruction_id,
    distance_along_ft,
    perpendicular_offset_ft,
    straight_clearance_ft,
    curved_clearance_ft,
    fresnel_clearance_ft,
    fresnel_radius_ft,
    ground_elevation_ft,
    center_height_ft,
    rotor_radius_ft,
    straight_los_ft,
    curved_los_ft,
    earth_bulge_ft,
    vertical_straight_clearance_ft,
    vertical_curved_clearance_ft,
    path_side,
    clamped,
    in_search_area
FROM results
WHERE 
    run_id = ?
    AND ABS(perpendicular_offset_ft) <= ?
    AND distance_along_ft BETWEEN ? AND ?
ORDER BY seq`

	insertRejectionSQL = `
INSERT INTO rejections (run_id,
                        obstruction_id,
                        field,
                        reason)
VALUES (?, ?, ?, ?)`

	selectRejectionsSQL = `
SELECT 
    obstruction_id,
    field,
    reason
FROM rejections
WHERE 
    run_id = ?
ORDER BY id`

	deleteProfileSQL = `
DELETE FROM profile_samples
WHERE run_id = ?`

	insertProfileSampleSQL = `
INSERT INTO profile_samples (run_id,
                             seq,
                             distance_ft,
                             ground_ft,
                             vegetation_ft)
VALUES (?, ?, ?, ?, ?)`

	selectProfileSQL = `
SELECT 
    distance_ft,
    ground_ft,
    vegetation_ft
FROM profile_samples
WHERE 
    run_id = ?
ORDER BY seq`
)
