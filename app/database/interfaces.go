package database

import (
	"time"
)

type RunRepository interface {
	CreateRun(id string, startedAt time.Time) error
	FinishRun(id string, finishedAt time.Time, status string, newCount, updatedCount, removedCount int, runError string) error
	RecordChange(runID, kind, productID, category, fieldChanges string) error

	GetRun(id string) (*Run, error)
	GetRunChanges(runID string) ([]Change, error)
	GetRecentRuns(limit int) ([]Run, error)
	GetRunCount() (int, error)
	GetChangeStats() (*ChangeStats, error)
}
