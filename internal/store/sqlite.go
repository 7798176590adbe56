package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/HassanBassiouny/AQLLM/internal/env"
)

// SQLiteStore is a persistent implementation of env.Store backed by SQLite.
// It fills the warehouse role when the service needs readings to survive
// restarts.
type SQLiteStore struct {
	db *sql.DB

	maxHistory int
	maxAge     time.Duration
}

// NewSQLiteStore opens or creates a SQLite database at the given path and
// applies the schema. Retention limits mirror the memory store's.
func NewSQLiteStore(dbPath string, maxHistory int, maxAge time.Duration) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLiteStore{
		db:         db,
		maxHistory: maxHistory,
		maxAge:     maxAge,
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS snapshots (
		region      TEXT NOT NULL,
		ts          TEXT NOT NULL,
		temperature REAL NOT NULL,
		humidity    REAL NOT NULL,
		pm25        REAL NOT NULL,
		pm10        REAL NOT NULL,
		no2         REAL NOT NULL,
		co2         REAL NOT NULL,
		PRIMARY KEY (region, ts)
	);
	CREATE INDEX IF NOT EXISTS idx_snapshots_region_ts ON snapshots(region, ts DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveSnapshot inserts a snapshot and enforces retention for its region.
func (s *SQLiteStore) SaveSnapshot(region env.Region, snapshot env.Snapshot) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO snapshots (region, ts, temperature, humidity, pm25, pm10, no2, co2)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		string(region),
		snapshot.Timestamp.UTC().Format(time.RFC3339Nano),
		snapshot.TemperatureC,
		snapshot.HumidityPct,
		snapshot.PM25,
		snapshot.PM10,
		snapshot.NO2,
		snapshot.CO2,
	)
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}

	if s.maxHistory > 0 {
		_, err = s.db.Exec(
			`DELETE FROM snapshots WHERE region = ? AND ts NOT IN (
				SELECT ts FROM snapshots WHERE region = ? ORDER BY ts DESC LIMIT ?
			)`,
			string(region), string(region), s.maxHistory,
		)
		if err != nil {
			return fmt.Errorf("enforce history retention: %w", err)
		}
	}

	if s.maxAge > 0 {
		cutoff := time.Now().Add(-s.maxAge).UTC().Format(time.RFC3339Nano)
		_, err = s.db.Exec(`DELETE FROM snapshots WHERE region = ? AND ts < ?`, string(region), cutoff)
		if err != nil {
			return fmt.Errorf("enforce age retention: %w", err)
		}
	}

	return nil
}

// Latest returns the most recent snapshot for a region.
func (s *SQLiteStore) Latest(region env.Region) (env.Snapshot, error) {
	row := s.db.QueryRow(
		`SELECT region, ts, temperature, humidity, pm25, pm10, no2, co2
		 FROM snapshots WHERE region = ? ORDER BY ts DESC LIMIT 1`,
		string(region),
	)

	snap, err := scanSnapshot(row)
	if err == sql.ErrNoRows {
		return env.Snapshot{}, ErrNotFound
	}
	if err != nil {
		return env.Snapshot{}, fmt.Errorf("query latest: %w", err)
	}
	return snap, nil
}

// Range returns all snapshots for a region between from and to (inclusive).
func (s *SQLiteStore) Range(region env.Region, from, to time.Time) ([]env.Snapshot, error) {
	rows, err := s.db.Query(
		`SELECT region, ts, temperature, humidity, pm25, pm10, no2, co2
		 FROM snapshots WHERE region = ? AND ts >= ? AND ts <= ? ORDER BY ts ASC`,
		string(region),
		from.UTC().Format(time.RFC3339Nano),
		to.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("query range: %w", err)
	}
	defer rows.Close()

	var result []env.Snapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		result = append(result, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(result) == 0 {
		return nil, ErrNotFound
	}
	return result, nil
}

// LatestAll returns the newest snapshot for every region that has data.
func (s *SQLiteStore) LatestAll() ([]env.Snapshot, error) {
	rows, err := s.db.Query(
		`SELECT s.region, s.ts, s.temperature, s.humidity, s.pm25, s.pm10, s.no2, s.co2
		 FROM snapshots s
		 JOIN (SELECT region, MAX(ts) AS max_ts FROM snapshots GROUP BY region) t
		   ON s.region = t.region AND s.ts = t.max_ts`,
	)
	if err != nil {
		return nil, fmt.Errorf("query latest all: %w", err)
	}
	defer rows.Close()

	var result []env.Snapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		result = append(result, snap)
	}
	return result, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row scanner) (env.Snapshot, error) {
	var (
		snap env.Snapshot
		reg  string
		ts   string
	)
	err := row.Scan(&reg, &ts, &snap.TemperatureC, &snap.HumidityPct, &snap.PM25, &snap.PM10, &snap.NO2, &snap.CO2)
	if err != nil {
		return env.Snapshot{}, err
	}

	snap.Region = env.Region(reg)
	parsed, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return env.Snapshot{}, fmt.Errorf("parse timestamp %q: %w", ts, err)
	}
	snap.Timestamp = parsed.UTC()
	return snap, nil
}
