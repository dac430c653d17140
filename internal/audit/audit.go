// internal/audit/audit.go
// Relational audit log of manual schedule edits: update_match, update_many,
// and CSV import rows, one row per mutation.

package audit

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Entry is one recorded mutation of a match's assignment.
type Entry struct {
	ID           int64
	TournamentID string
	MatchID      string
	Category     string
	Operator     string
	PrevTime     *string
	PrevCourt    *string
	NewTime      *string
	NewCourt     *string
	Source       string // "update_match", "update_many", "import_schedule_csv"
	RecordedAt   time.Time
}

// Log is the MySQL-backed audit writer/reader.
type Log struct {
	db *sql.DB
}

// New builds a Log around an already-connected database.
func New(db *sql.DB) *Log {
	return &Log{db: db}
}

// Schema is the DDL this package expects to already exist (migrated
// separately, the way the teacher's repositories assume their tables
// exist rather than creating them inline).
const Schema = `
CREATE TABLE IF NOT EXISTS schedule_audit (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	tournament_id VARCHAR(64) NOT NULL,
	match_id VARCHAR(128) NOT NULL,
	category VARCHAR(128) NOT NULL,
	operator VARCHAR(128) NOT NULL,
	prev_time VARCHAR(5),
	prev_court VARCHAR(128),
	new_time VARCHAR(5),
	new_court VARCHAR(128),
	source VARCHAR(32) NOT NULL,
	recorded_at DATETIME NOT NULL,
	INDEX idx_tournament_match (tournament_id, match_id)
)`

// Record inserts one audit row for a single assignment mutation.
func (l *Log) Record(ctx context.Context, e Entry) error {
	query := `
		INSERT INTO schedule_audit (
			tournament_id, match_id, category, operator,
			prev_time, prev_court, new_time, new_court, source, recorded_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := l.db.ExecContext(ctx, query,
		e.TournamentID, e.MatchID, e.Category, e.Operator,
		e.PrevTime, e.PrevCourt, e.NewTime, e.NewCourt, e.Source, e.RecordedAt,
	)
	if err != nil {
		return fmt.Errorf("audit: record: %w", err)
	}
	return nil
}

// RecordBatch inserts one audit row per mutation in an update_many /
// import_schedule_csv batch within a single transaction, matching the
// all-or-nothing semantics of the operation it logs.
func (l *Log) RecordBatch(ctx context.Context, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("audit: begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO schedule_audit (
			tournament_id, match_id, category, operator,
			prev_time, prev_court, new_time, new_court, source, recorded_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("audit: prepare: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err := stmt.ExecContext(ctx,
			e.TournamentID, e.MatchID, e.Category, e.Operator,
			e.PrevTime, e.PrevCourt, e.NewTime, e.NewCourt, e.Source, e.RecordedAt,
		); err != nil {
			return fmt.Errorf("audit: record batch row %s: %w", e.MatchID, err)
		}
	}
	return tx.Commit()
}

// History returns every recorded mutation for one match, most recent first.
func (l *Log) History(ctx context.Context, tournamentID, matchID string) ([]Entry, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT id, tournament_id, match_id, category, operator,
		       prev_time, prev_court, new_time, new_court, source, recorded_at
		FROM schedule_audit
		WHERE tournament_id = ? AND match_id = ?
		ORDER BY recorded_at DESC
	`, tournamentID, matchID)
	if err != nil {
		return nil, fmt.Errorf("audit: history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.TournamentID, &e.MatchID, &e.Category, &e.Operator,
			&e.PrevTime, &e.PrevCourt, &e.NewTime, &e.NewCourt, &e.Source, &e.RecordedAt); err != nil {
			return nil, fmt.Errorf("audit: scan: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
