package api

import (
	"github.com/lysyi3m/catalog-sync/app/catalog"
	"github.com/lysyi3m/catalog-sync/app/database"
	"github.com/lysyi3m/catalog-sync/app/sources"
	"github.com/lysyi3m/catalog-sync/app/tasks"
)

type Handler struct {
	store       *catalog.Store
	reportPath  string
	configCache *sources.ConfigCache
	runRepo     database.RunRepository
	scheduler   tasks.SchedulerInterface
}
