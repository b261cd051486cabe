package handler

import (
	"github.com/habitlog/internal/service"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db          *gorm.DB
	habits      *service.HabitService
	completions *service.CompletionService
	analytics   *service.AnalyticsService
	settings    *service.SettingsService
	snapshots   *service.SnapshotService
}

// NewAPI constructs a handler set with shared services.
func NewAPI(db *gorm.DB) *API {
	return &API{
		db:          db,
		habits:      service.NewHabitService(db),
		completions: service.NewCompletionService(db),
		analytics:   service.NewAnalyticsService(db),
		settings:    service.NewSettingsService(db),
		snapshots:   service.NewSnapshotService(db),
	}
}

// DB exposes the underlying gorm instance for legacy paths.
func (a *API) DB() *gorm.DB {
	return a.db
}
