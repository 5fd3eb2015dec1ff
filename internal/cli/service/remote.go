package service

import (
	"context"

	"LinkKeeper/internal/cli/model"
)

// RemoteStore — порт облачного зеркала (per-user). Реализация живёт в
// internal/cli/api; движок синхронизации знает только этот контракт.
//
// Ошибки: транзиентные сбои оборачивают ErrSyncUnavailable, отказ по
// конкретной записи приходит как *RejectedError.
type RemoteStore interface {
	UpsertCollection(ctx context.Context, userID string, c model.Collection) error
	DeleteCollection(ctx context.Context, userID, id string) error
	// CollectionsSince возвращает изменения после курсора и новый курсор.
	CollectionsSince(ctx context.Context, userID string, cursor int64) ([]model.Collection, int64, error)

	UpsertBookmark(ctx context.Context, userID string, b model.Bookmark) error
	DeleteBookmark(ctx context.Context, userID, id string) error
	BookmarksSince(ctx context.Context, userID string, cursor int64) ([]model.Bookmark, int64, error)
}

// SyncState — порт хранилища курсоров pull-синхронизации.
type SyncState interface {
	SaveCursor(login, entity string, cursor int64) error
	LoadCursor(login, entity string) (int64, error)
}
