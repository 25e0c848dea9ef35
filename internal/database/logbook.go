package database

import (
	"fmt"
	"strings"
	"time"

	"acmi_stats/internal/models"

	"github.com/google/uuid"
)

// RunMeta describes one archived analysis run
type RunMeta struct {
	RunID         string
	MissionTitle  string
	ReferenceTime string
	SourcePath    string
	HitRate       float64
	AnalyzedAt    time.Time
}

// SaveRun archives an analysis run and its per-pilot statistics in a single
// transaction. A fresh run identifier is minted when meta.RunID is empty, and
// the identifier used is returned.
func (d *DB) SaveRun(meta RunMeta, profiles []*models.PilotProfile) (string, error) {
	if meta.RunID == "" {
		meta.RunID = uuid.NewString()
	}
	if meta.AnalyzedAt.IsZero() {
		meta.AnalyzedAt = time.Now()
	}

	var fired, kills, deaths int
	for _, p := range profiles {
		fired += p.MissilesFired
		kills += p.Kills
		deaths += p.Deaths
	}

	tx, err := d.db.Begin()
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`INSERT INTO analysis_runs
		(run_id, mission_title, reference_time, source_path, hit_rate,
		 missiles_fired, kills, deaths, analyzed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		meta.RunID, meta.MissionTitle, meta.ReferenceTime, meta.SourcePath,
		meta.HitRate, fired, kills, deaths, meta.AnalyzedAt)
	if err != nil {
		return "", fmt.Errorf("failed to insert run: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO pilot_stats
		(run_id, pilot, coalition, aircraft, country, group_name,
		 missiles_fired, missile_types, kills, deaths, survived,
		 kill_death_ratio, hit_rate_estimate)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("failed to prepare pilot statement: %w", err)
	}
	defer stmt.Close()

	for _, p := range profiles {
		_, err = stmt.Exec(meta.RunID, p.Name, p.Coalition, p.Aircraft,
			p.Country, p.Group, p.MissilesFired,
			strings.Join(p.MunitionTypesUsed, ";"), p.Kills, p.Deaths,
			p.Survived, p.KillDeathRatio, p.HitRateEstimate)
		if err != nil {
			return "", fmt.Errorf("failed to insert pilot %s: %w", p.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit transaction: %w", err)
	}

	return meta.RunID, nil
}

// RecentRuns returns up to limit archived runs, newest first
func (d *DB) RecentRuns(limit int) ([]RunMeta, error) {
	rows, err := d.db.Query(`SELECT run_id, mission_title, reference_time,
		source_path, hit_rate, analyzed_at
		FROM analysis_runs ORDER BY analyzed_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunMeta
	for rows.Next() {
		var meta RunMeta
		err = rows.Scan(&meta.RunID, &meta.MissionTitle, &meta.ReferenceTime,
			&meta.SourcePath, &meta.HitRate, &meta.AnalyzedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, meta)
	}

	return runs, rows.Err()
}

// PilotHistory returns the archived statistics rows for a pilot across all
// runs, newest first
func (d *DB) PilotHistory(pilot string) ([]*models.PilotProfile, error) {
	rows, err := d.db.Query(`SELECT p.pilot, p.coalition, p.aircraft,
		p.country, p.group_name, p.missiles_fired, p.missile_types,
		p.kills, p.deaths, p.survived, p.kill_death_ratio, p.hit_rate_estimate
		FROM pilot_stats p
		JOIN analysis_runs r ON r.run_id = p.run_id
		WHERE p.pilot = ?
		ORDER BY r.analyzed_at DESC`, pilot)
	if err != nil {
		return nil, fmt.Errorf("failed to query pilot history: %w", err)
	}
	defer rows.Close()

	var history []*models.PilotProfile
	for rows.Next() {
		var p models.PilotProfile
		var types string
		err = rows.Scan(&p.Name, &p.Coalition, &p.Aircraft, &p.Country,
			&p.Group, &p.MissilesFired, &types, &p.Kills, &p.Deaths,
			&p.Survived, &p.KillDeathRatio, &p.HitRateEstimate)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pilot row: %w", err)
		}
		p.MunitionTypesUsed = []string{}
		if types != "" {
			p.MunitionTypesUsed = strings.Split(types, ";")
		}
		history = append(history, &p)
	}

	return history, rows.Err()
}
