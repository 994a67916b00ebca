package database

import (
	"time"
)

type Run struct {
	ID           string
	StartedAt    time.Time
	FinishedAt   *time.Time
	Status       string // running, completed, failed
	NewCount     int
	UpdatedCount int
	RemovedCount int
	Error        string
}

type Change struct {
	ID           int64
	RunID        string
	Kind         string
	ProductID    string
	Category     string
	FieldChanges string // JSON-encoded list of {field, old, new}
	CreatedAt    time.Time
}

type ChangeStats struct {
	TotalRuns    int
	TotalNew     int
	TotalUpdated int
	TotalRemoved int
}
