package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"LinkKeeper/internal/middleware"
	"LinkKeeper/internal/model"
	"LinkKeeper/internal/service"
)

// SyncHandler обрабатывает upsert/delete/changes для коллекций и закладок.
type SyncHandler struct {
	SyncService *service.SyncService
	Logger      *zap.SugaredLogger
}

// NewSyncHandler создаёт хендлер синхронизации
func NewSyncHandler(syncService *service.SyncService, logger *zap.SugaredLogger) *SyncHandler {
	return &SyncHandler{SyncService: syncService, Logger: logger}
}

// CollectionDTO — коллекция на проводе. Поля повторяют клиентский контракт.
type CollectionDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`
	Color       string `json:"color,omitempty"`
	Order       int    `json:"order,omitempty"`
	CreatedAt   int64  `json:"created_at"`
	UpdatedAt   int64  `json:"updated_at"`
	Deleted     bool   `json:"deleted,omitempty"`
	DeletedAt   int64  `json:"deleted_at,omitempty"`
}

// BookmarkDTO — закладка на проводе.
type BookmarkDTO struct {
	ID           string `json:"id"`
	URL          string `json:"url"`
	Title        string `json:"title"`
	Description  string `json:"description,omitempty"`
	Favicon      string `json:"favicon,omitempty"`
	Thumbnail    string `json:"thumbnail,omitempty"`
	CollectionID string `json:"collection_id"`
	CreatedAt    int64  `json:"created_at"`
	UpdatedAt    int64  `json:"updated_at"`
	Deleted      bool   `json:"deleted,omitempty"`
	DeletedAt    int64  `json:"deleted_at,omitempty"`
}

// DeleteRequest — тело запроса удаления.
type DeleteRequest struct {
	ID string `json:"id"`
}

// CollectionChangesResponse — страница ленты изменений коллекций.
type CollectionChangesResponse struct {
	Changes []CollectionDTO `json:"changes"`
	Cursor  int64           `json:"cursor"`
}

// BookmarkChangesResponse — страница ленты изменений закладок.
type BookmarkChangesResponse struct {
	Changes []BookmarkDTO `json:"changes"`
	Cursor  int64         `json:"cursor"`
}

// writeServiceError транслирует ошибку сервиса в HTTP-статус:
// ErrValidation — 422 (окончательный отказ), остальное — 500.
func (h *SyncHandler) writeServiceError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, service.ErrValidation) {
		h.Logger.Warnw(op+": record rejected", "error", err)
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	h.Logger.Errorw(op+": service error", "error", err)
	http.Error(w, "internal error", http.StatusInternalServerError)
}

func writeOK(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func sinceParam(r *http.Request) int64 {
	v, err := strconv.ParseInt(r.URL.Query().Get("since"), 10, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

// UpsertCollection принимает коллекцию от клиента
func (h *SyncHandler) UpsertCollection(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	var dto CollectionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Warnw("UpsertCollection: invalid request body", "error", err)
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	err := h.SyncService.UpsertCollection(r.Context(), userID, model.Collection{
		ID: dto.ID, Name: dto.Name, Description: dto.Description,
		Icon: dto.Icon, Color: dto.Color, Order: dto.Order,
		CreatedAt: dto.CreatedAt, UpdatedAt: dto.UpdatedAt,
		Deleted: dto.Deleted, DeletedAt: dto.DeletedAt,
	})
	if err != nil {
		h.writeServiceError(w, "UpsertCollection", err)
		return
	}
	writeOK(w)
}

// DeleteCollection убирает коллекцию из зеркала
func (h *SyncHandler) DeleteCollection(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	var req DeleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Warnw("DeleteCollection: invalid request body", "error", err)
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	if err := h.SyncService.DeleteCollection(r.Context(), userID, req.ID); err != nil {
		h.writeServiceError(w, "DeleteCollection", err)
		return
	}
	writeOK(w)
}

// CollectionChanges отдаёт изменения коллекций после курсора since
func (h *SyncHandler) CollectionChanges(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	changes, cursor, err := h.SyncService.CollectionChanges(r.Context(), userID, sinceParam(r))
	if err != nil {
		h.writeServiceError(w, "CollectionChanges", err)
		return
	}

	resp := CollectionChangesResponse{Changes: make([]CollectionDTO, 0, len(changes)), Cursor: cursor}
	for _, c := range changes {
		resp.Changes = append(resp.Changes, CollectionDTO{
			ID: c.ID, Name: c.Name, Description: c.Description,
			Icon: c.Icon, Color: c.Color, Order: c.Order,
			CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt,
			Deleted: c.Deleted, DeletedAt: c.DeletedAt,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(resp)
}

// UpsertBookmark принимает закладку от клиента
func (h *SyncHandler) UpsertBookmark(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	var dto BookmarkDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Warnw("UpsertBookmark: invalid request body", "error", err)
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	err := h.SyncService.UpsertBookmark(r.Context(), userID, model.Bookmark{
		ID: dto.ID, URL: dto.URL, Title: dto.Title, Description: dto.Description,
		Favicon: dto.Favicon, Thumbnail: dto.Thumbnail, CollectionID: dto.CollectionID,
		CreatedAt: dto.CreatedAt, UpdatedAt: dto.UpdatedAt,
		Deleted: dto.Deleted, DeletedAt: dto.DeletedAt,
	})
	if err != nil {
		h.writeServiceError(w, "UpsertBookmark", err)
		return
	}
	writeOK(w)
}

// DeleteBookmark убирает закладку из зеркала
func (h *SyncHandler) DeleteBookmark(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	var req DeleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Warnw("DeleteBookmark: invalid request body", "error", err)
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	if err := h.SyncService.DeleteBookmark(r.Context(), userID, req.ID); err != nil {
		h.writeServiceError(w, "DeleteBookmark", err)
		return
	}
	writeOK(w)
}

// BookmarkChanges отдаёт изменения закладок после курсора since
func (h *SyncHandler) BookmarkChanges(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	changes, cursor, err := h.SyncService.BookmarkChanges(r.Context(), userID, sinceParam(r))
	if err != nil {
		h.writeServiceError(w, "BookmarkChanges", err)
		return
	}

	resp := BookmarkChangesResponse{Changes: make([]BookmarkDTO, 0, len(changes)), Cursor: cursor}
	for _, b := range changes {
		resp.Changes = append(resp.Changes, BookmarkDTO{
			ID: b.ID, URL: b.URL, Title: b.Title, Description: b.Description,
			Favicon: b.Favicon, Thumbnail: b.Thumbnail, CollectionID: b.CollectionID,
			CreatedAt: b.CreatedAt, UpdatedAt: b.UpdatedAt,
			Deleted: b.Deleted, DeletedAt: b.DeletedAt,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(resp)
}
