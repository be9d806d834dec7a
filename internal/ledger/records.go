package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Run statuses. Job rows reuse the job framework's status strings.
const (
	RunRunning   = "RUNNING"
	RunCompleted = "COMPLETED"
	RunFailed    = "FAILED"
)

// Run is one pipeline invocation.
type Run struct {
	ID         string
	Project    string
	Preset     string
	Status     string
	Error      string
	StartedAt  time.Time
	FinishedAt *time.Time
}

// JobRecord is one executed job within a run.
type JobRecord struct {
	RunID      string
	Seq        int
	Name       string
	Status     string
	Renders    int
	Total      int
	Error      string
	StartedAt  time.Time
	FinishedAt *time.Time
}

// BeginRun inserts a RUNNING run row and returns its generated ID.
func (l *Ledger) BeginRun(ctx context.Context, project, preset string) (string, error) {
	id := uuid.NewString()
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := l.execWithRetry(ctx,
		`INSERT INTO runs (id, project, preset, status, started_at) VALUES (?, ?, ?, ?, ?)`,
		id, project, preset, RunRunning, now)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}
	return id, nil
}

// FinishRun marks a run terminal with its final status and error message.
func (l *Ledger) FinishRun(ctx context.Context, runID, status, errMsg string) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := l.execWithRetry(ctx,
		`UPDATE runs SET status = ?, error = ?, finished_at = ? WHERE id = ?`,
		status, errMsg, now, runID)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("finish run: run %s not found", runID)
	}
	return nil
}

// RecordJob inserts one executed job row under its run.
func (l *Ledger) RecordJob(ctx context.Context, record JobRecord) error {
	started := record.StartedAt.UTC().Format(time.RFC3339Nano)
	var finished any
	if record.FinishedAt != nil {
		finished = record.FinishedAt.UTC().Format(time.RFC3339Nano)
	}
	_, err := l.execWithRetry(ctx,
		`INSERT INTO run_jobs (run_id, seq, name, status, renders, total, error, started_at, finished_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.RunID, record.Seq, record.Name, record.Status,
		record.Renders, record.Total, record.Error, started, finished)
	if err != nil {
		return fmt.Errorf("insert run job: %w", err)
	}
	return nil
}

// RecentRuns returns the newest runs, most recent first.
func (l *Ledger) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := l.db.QueryContext(ensureContext(ctx),
		`SELECT id, project, preset, status, error, started_at, finished_at
         FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run      Run
			started  string
			finished sql.NullString
		)
		if err := rows.Scan(&run.ID, &run.Project, &run.Preset, &run.Status, &run.Error, &started, &finished); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if run.StartedAt, err = parseTimestamp(started); err != nil {
			return nil, err
		}
		if finished.Valid {
			ts, err := parseTimestamp(finished.String)
			if err != nil {
				return nil, err
			}
			run.FinishedAt = &ts
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// RunJobs returns a run's job rows in execution order.
func (l *Ledger) RunJobs(ctx context.Context, runID string) ([]JobRecord, error) {
	rows, err := l.db.QueryContext(ensureContext(ctx),
		`SELECT run_id, seq, name, status, renders, total, error, started_at, finished_at
         FROM run_jobs WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("query run jobs: %w", err)
	}
	defer rows.Close()

	var records []JobRecord
	for rows.Next() {
		var (
			record   JobRecord
			started  string
			finished sql.NullString
		)
		if err := rows.Scan(&record.RunID, &record.Seq, &record.Name, &record.Status,
			&record.Renders, &record.Total, &record.Error, &started, &finished); err != nil {
			return nil, fmt.Errorf("scan run job: %w", err)
		}
		if record.StartedAt, err = parseTimestamp(started); err != nil {
			return nil, err
		}
		if finished.Valid {
			ts, err := parseTimestamp(finished.String)
			if err != nil {
				return nil, err
			}
			record.FinishedAt = &ts
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

func parseTimestamp(value string) (time.Time, error) {
	ts, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", value, err)
	}
	return ts, nil
}
