package database

import (
	"database/sql"
	"fmt"

	"acmi_stats/internal/models"

	_ "github.com/mattn/go-sqlite3"
)

// Logbook defines the interface for archived analysis run storage
type Logbook interface {
	SaveRun(meta RunMeta, profiles []*models.PilotProfile) (string, error)
	RecentRuns(limit int) ([]RunMeta, error)
	Close() error
}

// DB implements the Logbook interface using SQLite
type DB struct {
	db *sql.DB
}

// New creates and initializes a new logbook database connection
func New(dbPath string) (*DB, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := tuneSQLite(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to tune database: %w", err)
	}

	database := &DB{db: db}

	if err := database.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return database, nil
}

// tuneSQLite applies connection settings for a logbook that accumulates runs
// across many analyzer invocations
func tuneSQLite(db *sql.DB) error {
	// pilot_stats rows reference analysis_runs
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// WAL keeps the logbook readable while a run is being archived
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	if _, err := db.Exec("PRAGMA synchronous=NORMAL"); err != nil {
		return fmt.Errorf("failed to set synchronous mode: %w", err)
	}

	// Wait out a concurrent analyzer instead of failing immediately
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		return fmt.Errorf("failed to set busy timeout: %w", err)
	}

	return nil
}

// Close closes the database connection
func (d *DB) Close() error {
	return d.db.Close()
}

// initSchema creates the database schema if it doesn't exist
func (d *DB) initSchema() error {
	runsSchema := `CREATE TABLE IF NOT EXISTS analysis_runs (
		run_id TEXT PRIMARY KEY,
		mission_title TEXT,
		reference_time TEXT,
		source_path TEXT NOT NULL,
		hit_rate REAL NOT NULL,
		missiles_fired INTEGER NOT NULL,
		kills INTEGER NOT NULL,
		deaths INTEGER NOT NULL,
		analyzed_at TIMESTAMP NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);`

	pilotsSchema := `CREATE TABLE IF NOT EXISTS pilot_stats (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL REFERENCES analysis_runs(run_id),
		pilot TEXT NOT NULL,
		coalition TEXT,
		aircraft TEXT,
		country TEXT,
		group_name TEXT,
		missiles_fired INTEGER NOT NULL,
		missile_types TEXT,
		kills INTEGER NOT NULL,
		deaths INTEGER NOT NULL,
		survived INTEGER NOT NULL,
		kill_death_ratio REAL NOT NULL,
		hit_rate_estimate REAL NOT NULL,
		UNIQUE(run_id, pilot)
	);`

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_analysis_runs_analyzed_at ON analysis_runs(analyzed_at)`,
		`CREATE INDEX IF NOT EXISTS idx_pilot_stats_run_id ON pilot_stats(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_pilot_stats_pilot ON pilot_stats(pilot)`,
	}

	if _, err := d.db.Exec(runsSchema); err != nil {
		return fmt.Errorf("failed to create analysis_runs table: %w", err)
	}

	if _, err := d.db.Exec(pilotsSchema); err != nil {
		return fmt.Errorf("failed to create pilot_stats table: %w", err)
	}

	for _, idx := range indexes {
		if _, err := d.db.Exec(idx); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}
