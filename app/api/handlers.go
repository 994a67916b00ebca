package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lysyi3m/catalog-sync/app/catalog"
	"github.com/lysyi3m/catalog-sync/app/database"
	"github.com/lysyi3m/catalog-sync/app/sources"
	"github.com/lysyi3m/catalog-sync/app/tasks"
)

func NewHandler(store *catalog.Store, reportPath string, configCache *sources.ConfigCache,
	runRepo database.RunRepository, scheduler tasks.SchedulerInterface) *Handler {
	return &Handler{
		store:       store,
		reportPath:  reportPath,
		configCache: configCache,
		runRepo:     runRepo,
		scheduler:   scheduler,
	}
}

func (h *Handler) GetCatalog(c *gin.Context) {
	products, err := h.loadSorted()
	if err != nil {
		slog.Error("Failed to load catalog", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load catalog"})
		return
	}

	c.Header("X-Catalog-Products", strconv.Itoa(len(products)))
	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"total":    len(products),
	})
}

func (h *Handler) GetCatalogByCategory(c *gin.Context) {
	category := c.Param("category")
	if category == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing category parameter"})
		return
	}

	products, err := h.loadSorted()
	if err != nil {
		slog.Error("Failed to load catalog", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load catalog"})
		return
	}

	filtered := make([]catalog.Product, 0)
	for _, p := range products {
		if p.Category == category {
			filtered = append(filtered, p)
		}
	}

	if len(filtered) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "No products in category", "category": category})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"category": category,
		"products": filtered,
		"total":    len(filtered),
	})
}

func (h *Handler) GetReport(c *gin.Context) {
	data, err := os.ReadFile(h.reportPath)
	if err != nil {
		if os.IsNotExist(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No report generated yet"})
			return
		}
		slog.Error("Failed to read report", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read report"})
		return
	}

	c.Header("Content-Type", "text/plain; charset=utf-8")
	c.String(http.StatusOK, string(data))
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	if h.runRepo != nil {
		if runCount, err := h.runRepo.GetRunCount(); err == nil {
			health["runs"] = runCount
		}
	}

	health["loaded_configurations"] = h.configCache.GetConfigCount()

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	stats := map[string]interface{}{
		"categories": h.configCache.GetConfigCount(),
	}

	if products, err := h.loadSorted(); err == nil {
		active := 0
		for _, p := range products {
			if p.Status == catalog.StatusActive {
				active++
			}
		}
		stats["products"] = map[string]interface{}{
			"total":        len(products),
			"active":       active,
			"discontinued": len(products) - active,
		}
	}

	if h.runRepo != nil {
		if changeStats, err := h.runRepo.GetChangeStats(); err == nil && changeStats != nil {
			stats["runs"] = map[string]interface{}{
				"total":         changeStats.TotalRuns,
				"total_new":     changeStats.TotalNew,
				"total_updated": changeStats.TotalUpdated,
				"total_removed": changeStats.TotalRemoved,
			}
		}
	}

	c.JSON(http.StatusOK, stats)
}

func (h *Handler) APIListRuns(c *gin.Context) {
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}

	runs, err := h.runRepo.GetRecentRuns(limit)
	if err != nil {
		slog.Error("Database error", "operation", "get_recent_runs", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	items := make([]map[string]interface{}, 0, len(runs))
	for _, run := range runs {
		items = append(items, runInfo(run))
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"runs":  items,
		"total": len(items),
	})
}

func (h *Handler) APIGetRunDetails(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing run id parameter"})
		return
	}

	run, err := h.runRepo.GetRun(id)
	if err != nil {
		slog.Error("Database error", "operation", "get_run", "run", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if run == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Run not found"})
		return
	}

	changes, err := h.runRepo.GetRunChanges(id)
	if err != nil {
		slog.Error("Database error", "operation", "get_run_changes", "run", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	changeItems := make([]map[string]interface{}, 0, len(changes))
	for _, change := range changes {
		item := map[string]interface{}{
			"kind":       change.Kind,
			"product_id": change.ProductID,
			"category":   change.Category,
			"created_at": change.CreatedAt,
		}

		var fieldChanges []catalog.FieldChange
		if err := json.Unmarshal([]byte(change.FieldChanges), &fieldChanges); err == nil && len(fieldChanges) > 0 {
			item["field_changes"] = fieldChanges
		}

		changeItems = append(changeItems, item)
	}

	details := runInfo(*run)
	details["changes"] = changeItems

	c.JSON(http.StatusOK, details)
}

func (h *Handler) APITriggerSync(c *gin.Context) {
	if h.scheduler.TriggerSync() {
		c.JSON(http.StatusAccepted, gin.H{
			"success": true,
			"message": "Synchronization started",
		})
		return
	}

	c.JSON(http.StatusConflict, gin.H{
		"success": false,
		"message": "A synchronization run is already in progress",
	})
}

func (h *Handler) loadSorted() ([]catalog.Product, error) {
	index, err := h.store.Load()
	if err != nil {
		return nil, err
	}

	products := make([]catalog.Product, 0, len(index))
	for _, p := range index {
		products = append(products, p)
	}
	sort.Slice(products, func(i, j int) bool {
		if products[i].Category != products[j].Category {
			return products[i].Category < products[j].Category
		}
		return products[i].ID < products[j].ID
	})

	return products, nil
}

func runInfo(run database.Run) map[string]interface{} {
	info := map[string]interface{}{
		"id":            run.ID,
		"status":        run.Status,
		"started_at":    run.StartedAt,
		"new_count":     run.NewCount,
		"updated_count": run.UpdatedCount,
		"removed_count": run.RemovedCount,
	}
	if run.FinishedAt != nil {
		info["finished_at"] = run.FinishedAt
	}
	if run.Error != "" {
		info["error"] = run.Error
	}
	return info
}
