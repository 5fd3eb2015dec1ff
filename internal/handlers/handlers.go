package handlers

import (
	"LinkKeeper/internal/middleware"
	"LinkKeeper/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Handler struct {
	Router chi.Router
}

// NewHandler разводящий для хендлеров
func NewHandler(
	syncService *service.SyncService,
	logger *zap.SugaredLogger,
) *Handler {
	r := chi.NewRouter()

	r.Use(middleware.WithLogging)
	r.Use(middleware.WithUser)

	syncHandler := NewSyncHandler(syncService, logger)

	// Collection routes
	r.Post("/api/collections/upsert", syncHandler.UpsertCollection)
	r.Post("/api/collections/delete", syncHandler.DeleteCollection)
	r.Get("/api/collections/changes", syncHandler.CollectionChanges)

	// Bookmark routes
	r.Post("/api/bookmarks/upsert", syncHandler.UpsertBookmark)
	r.Post("/api/bookmarks/delete", syncHandler.DeleteBookmark)
	r.Get("/api/bookmarks/changes", syncHandler.BookmarkChanges)

	return &Handler{Router: r}
}
