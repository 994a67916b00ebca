package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lysyi3m/catalog-sync/app/catalog"
	"github.com/lysyi3m/catalog-sync/app/database"
	"github.com/lysyi3m/catalog-sync/app/sources"
)

// RunResult summarizes one completed sync pass.
type RunResult struct {
	RunID          string
	StartedAt      time.Time
	Duration       time.Duration
	NewCount       int
	UpdatedCount   int
	RemovedCount   int
	SkippedRecords int
	CategoryErrors map[string]string
	PersistErr     error
}

// Runner executes one full catalog sync pass: load the catalog, ingest and
// classify each enabled category strictly in sequence, fold the update log
// into a new snapshot once, and persist catalog, report and run history.
//
// The catalog index is owned by the run: it is built at the start of Run
// and never shared across runs. A failing category contributes zero
// updates and never aborts the pass.
type Runner struct {
	store       *catalog.Store
	normalizer  *catalog.Normalizer
	differ      *catalog.Differ
	reconciler  *catalog.Reconciler
	reportGen   *catalog.ReportGenerator
	writer      *catalog.Writer
	configCache *sources.ConfigCache
	srcs        map[string]sources.Source
	extractor   *sources.DescriptionExtractor
	runRepo     database.RunRepository // optional, history is best-effort
}

func NewRunner(store *catalog.Store, normalizer *catalog.Normalizer, writer *catalog.Writer,
	configCache *sources.ConfigCache, srcs []sources.Source,
	extractor *sources.DescriptionExtractor, runRepo database.RunRepository) *Runner {
	byName := make(map[string]sources.Source, len(srcs))
	for _, src := range srcs {
		byName[src.Name()] = src
	}

	return &Runner{
		store:       store,
		normalizer:  normalizer,
		differ:      catalog.NewDiffer(),
		reconciler:  catalog.NewReconciler(),
		reportGen:   catalog.NewReportGenerator(),
		writer:      writer,
		configCache: configCache,
		srcs:        byName,
		extractor:   extractor,
		runRepo:     runRepo,
	}
}

// Run executes one sync pass. The returned error is non-nil only for the
// fatal case (catalog load failure); persistence failures are reported via
// RunResult.PersistErr so the caller can surface them with a non-zero exit
// without losing the computed result.
func (r *Runner) Run(ctx context.Context) (*RunResult, error) {
	result := &RunResult{
		RunID:          uuid.NewString(),
		StartedAt:      time.Now(),
		CategoryErrors: make(map[string]string),
	}

	slog.Info("Sync run started", "run_id", result.RunID)

	index, err := r.store.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	r.recordRunStart(result)

	var updateLog []catalog.UpdateRecord

	configs := r.configCache.GetEnabledConfigs()
	names := make([]string, 0, len(configs))
	for name := range configs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		records, skipped, err := r.processCategory(ctx, configs[name], index)
		if err != nil {
			slog.Error("Category ingestion failed", "category", name, "error", err)
			result.CategoryErrors[name] = err.Error()
			continue
		}
		result.SkippedRecords += skipped
		updateLog = append(updateLog, records...)
	}

	for _, record := range updateLog {
		switch record.Kind {
		case catalog.UpdateNew:
			result.NewCount++
		case catalog.UpdateUpdated:
			result.UpdatedCount++
		case catalog.UpdateRemoved:
			result.RemovedCount++
		}
	}

	products := r.reconciler.Run(index, updateLog)
	report := r.reportGen.Run(updateLog, result.StartedAt)

	if err := r.writer.WriteCatalog(products); err != nil {
		slog.Error("Failed to persist catalog", "error", err)
		result.PersistErr = err
	}
	if err := r.writer.WriteReport(report); err != nil {
		slog.Error("Failed to persist report", "error", err)
		if result.PersistErr == nil {
			result.PersistErr = err
		}
	}

	result.Duration = time.Since(result.StartedAt)

	r.recordRunFinish(result, updateLog)

	slog.Info("Sync run completed",
		"run_id", result.RunID,
		"duration", result.Duration,
		"new", result.NewCount,
		"updated", result.UpdatedCount,
		"removed", result.RemovedCount,
		"skipped_records", result.SkippedRecords,
		"failed_categories", len(result.CategoryErrors))

	return result, nil
}

// processCategory ingests and classifies a single category. Returns the
// category's update records (new/updated first, removals appended) and the
// number of records skipped during normalization.
func (r *Runner) processCategory(ctx context.Context, config *sources.CategoryConfig,
	index map[string]catalog.Product) ([]catalog.UpdateRecord, int, error) {
	src, ok := r.srcs[config.Source]
	if !ok {
		return nil, 0, fmt.Errorf("no source registered for type '%s'", config.Source)
	}

	slog.Info("Processing category", "category", config.Name, "source", config.Source, "url", config.URL)

	raws, err := src.Fetch(ctx, config)
	if err != nil {
		return nil, 0, fmt.Errorf("fetch failed: %w", err)
	}

	seen := make(map[string]bool)
	skipped := 0
	var records []catalog.UpdateRecord

	// The cap limits classification work, not presence: records past it
	// were still returned by the adapter, so their ids must count as seen
	// or the removal sweep would flag live products.
	if len(raws) > config.Settings.MaxItems {
		slog.Warn("Reached max items limit", "category", config.Name,
			"max_items", config.Settings.MaxItems, "ingested", len(raws))
		for _, raw := range raws[config.Settings.MaxItems:] {
			if id := strings.TrimSpace(raw.ID); id != "" {
				seen[id] = true
			}
		}
		raws = raws[:config.Settings.MaxItems]
	}

	for i, raw := range raws {
		if config.Settings.ExtractDescriptions && raw.Description == "" && raw.DetailURL != "" && r.extractor != nil {
			description, err := r.extractor.Run(ctx, raw.DetailURL, config.Settings.Timeout)
			if err != nil {
				slog.Warn("Description extraction failed", "category", config.Name, "url", raw.DetailURL, "error", err)
			} else {
				raw.Description = description
			}
		}

		entry, err := r.normalizer.Run(raw, config.Name)
		if err != nil {
			slog.Warn("Skipping record", "category", config.Name, "index", i, "error", err)
			skipped++
			continue
		}

		if record := r.differ.Classify(entry, index, seen); record != nil {
			records = append(records, *record)
		}
	}

	removed := r.differ.SweepRemoved(config.Name, index, seen)
	records = append(records, removed...)

	slog.Info("Category processed",
		"category", config.Name,
		"ingested", len(raws),
		"skipped", skipped,
		"changes", len(records))

	return records, skipped, nil
}

func (r *Runner) recordRunStart(result *RunResult) {
	if r.runRepo == nil {
		return
	}
	if err := r.runRepo.CreateRun(result.RunID, result.StartedAt); err != nil {
		slog.Warn("Failed to record run start", "run_id", result.RunID, "error", err)
	}
}

func (r *Runner) recordRunFinish(result *RunResult, updateLog []catalog.UpdateRecord) {
	if r.runRepo == nil {
		return
	}

	for _, record := range updateLog {
		fieldChanges := "[]"
		if len(record.FieldChanges) > 0 {
			if data, err := json.Marshal(record.FieldChanges); err == nil {
				fieldChanges = string(data)
			}
		}
		if err := r.runRepo.RecordChange(result.RunID, string(record.Kind),
			record.Product.ID, record.Product.Category, fieldChanges); err != nil {
			slog.Warn("Failed to record change", "run_id", result.RunID, "product", record.Product.ID, "error", err)
		}
	}

	status := "completed"
	runError := ""
	if result.PersistErr != nil {
		status = "failed"
		runError = result.PersistErr.Error()
	}

	if err := r.runRepo.FinishRun(result.RunID, result.StartedAt.Add(result.Duration), status,
		result.NewCount, result.UpdatedCount, result.RemovedCount, runError); err != nil {
		slog.Warn("Failed to record run finish", "run_id", result.RunID, "error", err)
	}
}
