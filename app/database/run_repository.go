package database

import (
	"database/sql"
	"fmt"
	"time"
)

var _ RunRepository = (*runRepository)(nil)

type runRepository struct {
	db *DB
}

func NewRunRepository(db *DB) RunRepository {
	return &runRepository{db: db}
}

func (r *runRepository) CreateRun(id string, startedAt time.Time) error {
	_, err := r.db.Exec(`
		INSERT INTO sync_runs (id, started_at, status)
		VALUES (?, ?, 'running')
	`, id, startedAt.UTC())

	if err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}

	return nil
}

func (r *runRepository) FinishRun(id string, finishedAt time.Time, status string, newCount, updatedCount, removedCount int, runError string) error {
	_, err := r.db.Exec(`
		UPDATE sync_runs
		SET finished_at = ?, status = ?, new_count = ?, updated_count = ?, removed_count = ?, error = ?
		WHERE id = ?
	`, finishedAt.UTC(), status, newCount, updatedCount, removedCount, runError, id)

	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}

	return nil
}

func (r *runRepository) RecordChange(runID, kind, productID, category, fieldChanges string) error {
	_, err := r.db.Exec(`
		INSERT INTO sync_changes (run_id, kind, product_id, category, field_changes)
		VALUES (?, ?, ?, ?, ?)
	`, runID, kind, productID, category, fieldChanges)

	if err != nil {
		return fmt.Errorf("failed to record change: %w", err)
	}

	return nil
}

func (r *runRepository) GetRun(id string) (*Run, error) {
	var run Run
	err := r.db.QueryRow(`
		SELECT id, started_at, finished_at, status, new_count, updated_count, removed_count, error
		FROM sync_runs
		WHERE id = ?
	`, id).Scan(
		&run.ID, &run.StartedAt, &run.FinishedAt, &run.Status,
		&run.NewCount, &run.UpdatedCount, &run.RemovedCount, &run.Error,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	return &run, nil
}

func (r *runRepository) GetRunChanges(runID string) ([]Change, error) {
	rows, err := r.db.Query(`
		SELECT id, run_id, kind, product_id, category, field_changes, created_at
		FROM sync_changes
		WHERE run_id = ?
		ORDER BY id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get run changes: %w", err)
	}
	defer rows.Close()

	var changes []Change
	for rows.Next() {
		var change Change
		err := rows.Scan(
			&change.ID, &change.RunID, &change.Kind, &change.ProductID,
			&change.Category, &change.FieldChanges, &change.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan change row: %w", err)
		}
		changes = append(changes, change)
	}

	return changes, rows.Err()
}

func (r *runRepository) GetRecentRuns(limit int) ([]Run, error) {
	rows, err := r.db.Query(`
		SELECT id, started_at, finished_at, status, new_count, updated_count, removed_count, error
		FROM sync_runs
		ORDER BY started_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		err := rows.Scan(
			&run.ID, &run.StartedAt, &run.FinishedAt, &run.Status,
			&run.NewCount, &run.UpdatedCount, &run.RemovedCount, &run.Error,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run row: %w", err)
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

func (r *runRepository) GetRunCount() (int, error) {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM sync_runs`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count runs: %w", err)
	}
	return count, nil
}

func (r *runRepository) GetChangeStats() (*ChangeStats, error) {
	var stats ChangeStats
	err := r.db.QueryRow(`
		SELECT COUNT(*),
		       COALESCE(SUM(new_count), 0),
		       COALESCE(SUM(updated_count), 0),
		       COALESCE(SUM(removed_count), 0)
		FROM sync_runs
	`).Scan(&stats.TotalRuns, &stats.TotalNew, &stats.TotalUpdated, &stats.TotalRemoved)

	if err != nil {
		return nil, fmt.Errorf("failed to get change stats: %w", err)
	}

	return &stats, nil
}
