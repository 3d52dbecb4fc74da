/*
NAME
  sqlite.go

DESCRIPTION
  sqlite.go implements SQLiteStore, an optional durable Store backed by
  modernc.org/sqlite (pure Go, no cgo), mirroring the original's
  SQLite-backed perf counters (original_source/framework/core/src/
  sqlite_db.cpp, perf_calculator.cpp) without pulling that concern into
  the hot encode path: callers only ever see the Store interface.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package perf

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const createSamplesTable = `
CREATE TABLE IF NOT EXISTS perf_samples (
	id        INTEGER PRIMARY KEY AUTOINCREMENT,
	key       TEXT    NOT NULL,
	start_us  INTEGER NOT NULL,
	end_us    INTEGER NOT NULL,
	thread_id TEXT    NOT NULL
)`

const createKeyIndex = `CREATE INDEX IF NOT EXISTS perf_samples_key ON perf_samples(key)`

// SQLiteStore is a Store backed by a SQLite database file, for perf
// counters that need to survive process restarts or be queried after
// the fact, the same role original_source/.../sqlite_db.cpp plays for
// the original module.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLiteStore opens (creating if necessary) a SQLite database at
// path and prepares its perf_samples table, matching the teacher's
// "PRAGMA synchronous = OFF" preference for a local counters database
// that can be rebuilt if lost.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("perf: open sqlite store: %w", err)
	}
	for _, stmt := range []string{
		"PRAGMA synchronous = OFF",
		"PRAGMA journal_mode = WAL",
		createSamplesTable,
		createKeyIndex,
	} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("perf: init sqlite store: %w", err)
		}
	}
	return &SQLiteStore{db: db}, nil
}

// Record inserts one sample row for key.
func (s *SQLiteStore) Record(key string, sample Sample) error {
	_, err := s.db.Exec(
		`INSERT INTO perf_samples (key, start_us, end_us, thread_id) VALUES (?, ?, ?, ?)`,
		key, sample.Start, sample.End, sample.ThreadID,
	)
	if err != nil {
		return fmt.Errorf("perf: record sample: %w", err)
	}
	return nil
}

// Stats aggregates every sample recorded for key using spec.md §6's
// latency/throughput formulas, computed in SQL rather than loading every
// row into memory.
func (s *SQLiteStore) Stats(key string) (Stats, error) {
	row := s.db.QueryRow(
		`SELECT
			COUNT(*),
			COALESCE(MIN(end_us - start_us), 0),
			COALESCE(MAX(end_us - start_us), 0),
			COALESCE(SUM(end_us - start_us), 0)
		FROM perf_samples WHERE key = ?`,
		key,
	)

	var frameCount, sum int64
	var min, max int64
	if err := row.Scan(&frameCount, &min, &max, &sum); err != nil {
		return Stats{}, fmt.Errorf("perf: query stats: %w", err)
	}

	stats := Stats{LatencyMin: min, LatencyMax: max, FrameCount: frameCount}
	if frameCount > 0 {
		stats.LatencyAvg = sum / frameCount
	}
	if sum > 0 {
		stats.FPS = ceilFPS(frameCount, sum)
	}
	return stats, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error { return s.db.Close() }
