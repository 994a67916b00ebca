package database

import (
	"path/filepath"
	"testing"
	"time"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := NewConnection(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, _, err := RunMigrations(db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	return db
}

func TestRunRepository_CreateAndFinishRun(t *testing.T) {
	repo := NewRunRepository(newTestDB(t))
	startedAt := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	if err := repo.CreateRun("run-1", startedAt); err != nil {
		t.Fatalf("CreateRun failed: %v", err)
	}

	run, err := repo.GetRun("run-1")
	if err != nil {
		t.Fatalf("GetRun failed: %v", err)
	}
	if run == nil {
		t.Fatal("Expected run, got nil")
	}
	if run.Status != "running" {
		t.Errorf("Expected status 'running', got '%s'", run.Status)
	}

	finishedAt := startedAt.Add(5 * time.Second)
	if err := repo.FinishRun("run-1", finishedAt, "completed", 2, 1, 1, ""); err != nil {
		t.Fatalf("FinishRun failed: %v", err)
	}

	run, err = repo.GetRun("run-1")
	if err != nil {
		t.Fatalf("GetRun failed: %v", err)
	}
	if run.Status != "completed" {
		t.Errorf("Expected status 'completed', got '%s'", run.Status)
	}
	if run.NewCount != 2 || run.UpdatedCount != 1 || run.RemovedCount != 1 {
		t.Errorf("Unexpected counts: new=%d updated=%d removed=%d",
			run.NewCount, run.UpdatedCount, run.RemovedCount)
	}
	if run.FinishedAt == nil {
		t.Error("Expected finished_at to be set")
	}
}

func TestRunRepository_GetRun_NotFound(t *testing.T) {
	repo := NewRunRepository(newTestDB(t))

	run, err := repo.GetRun("missing")
	if err != nil {
		t.Fatalf("GetRun failed: %v", err)
	}
	if run != nil {
		t.Error("Expected nil for a missing run")
	}
}

func TestRunRepository_RecordChange(t *testing.T) {
	repo := NewRunRepository(newTestDB(t))

	if err := repo.CreateRun("run-1", time.Now()); err != nil {
		t.Fatalf("CreateRun failed: %v", err)
	}

	if err := repo.RecordChange("run-1", "updated", "soap-1", "cosmetics",
		`[{"Field":"price","OldValue":"100","NewValue":"120"}]`); err != nil {
		t.Fatalf("RecordChange failed: %v", err)
	}
	if err := repo.RecordChange("run-1", "new", "new-42", "cosmetics", "[]"); err != nil {
		t.Fatalf("RecordChange failed: %v", err)
	}

	changes, err := repo.GetRunChanges("run-1")
	if err != nil {
		t.Fatalf("GetRunChanges failed: %v", err)
	}
	if len(changes) != 2 {
		t.Fatalf("Expected 2 changes, got %d", len(changes))
	}
	if changes[0].ProductID != "soap-1" || changes[0].Kind != "updated" {
		t.Errorf("Unexpected first change: %+v", changes[0])
	}
	if changes[1].ProductID != "new-42" || changes[1].Kind != "new" {
		t.Errorf("Unexpected second change: %+v", changes[1])
	}
}

func TestRunRepository_GetRecentRuns(t *testing.T) {
	repo := NewRunRepository(newTestDB(t))
	base := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	for i, id := range []string{"run-1", "run-2", "run-3"} {
		if err := repo.CreateRun(id, base.Add(time.Duration(i)*time.Hour)); err != nil {
			t.Fatalf("CreateRun failed: %v", err)
		}
	}

	runs, err := repo.GetRecentRuns(2)
	if err != nil {
		t.Fatalf("GetRecentRuns failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("Expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != "run-3" {
		t.Errorf("Expected most recent run first, got '%s'", runs[0].ID)
	}

	count, err := repo.GetRunCount()
	if err != nil {
		t.Fatalf("GetRunCount failed: %v", err)
	}
	if count != 3 {
		t.Errorf("Expected 3 runs, got %d", count)
	}
}

func TestRunRepository_GetChangeStats(t *testing.T) {
	repo := NewRunRepository(newTestDB(t))
	now := time.Now()

	if err := repo.CreateRun("run-1", now); err != nil {
		t.Fatalf("CreateRun failed: %v", err)
	}
	if err := repo.FinishRun("run-1", now, "completed", 2, 3, 1, ""); err != nil {
		t.Fatalf("FinishRun failed: %v", err)
	}
	if err := repo.CreateRun("run-2", now); err != nil {
		t.Fatalf("CreateRun failed: %v", err)
	}
	if err := repo.FinishRun("run-2", now, "completed", 1, 0, 0, ""); err != nil {
		t.Fatalf("FinishRun failed: %v", err)
	}

	stats, err := repo.GetChangeStats()
	if err != nil {
		t.Fatalf("GetChangeStats failed: %v", err)
	}
	if stats.TotalRuns != 2 {
		t.Errorf("Expected 2 runs, got %d", stats.TotalRuns)
	}
	if stats.TotalNew != 3 || stats.TotalUpdated != 3 || stats.TotalRemoved != 1 {
		t.Errorf("Unexpected stats: %+v", stats)
	}
}
