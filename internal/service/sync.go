package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"LinkKeeper/internal/model"
	"LinkKeeper/internal/repo"
)

// ErrValidation помечает окончательный отказ: запись не будет принята и при
// повторе. Хендлер транслирует его в 422.
var ErrValidation = errors.New("validation failed")

// SyncService — бизнес-логика зеркала: валидация входящих записей и доступ
// к пер-пользовательской ленте изменений.
type SyncService struct {
	cols  repo.CollectionRepository
	books repo.BookmarkRepository
}

func NewSyncService(cols repo.CollectionRepository, books repo.BookmarkRepository) *SyncService {
	return &SyncService{cols: cols, books: books}
}

// UpsertCollection валидирует и сохраняет коллекцию пользователя.
func (s *SyncService) UpsertCollection(ctx context.Context, userID string, c model.Collection) error {
	if c.ID == "" {
		return fmt.Errorf("%w: collection id is required", ErrValidation)
	}
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: collection name is required", ErrValidation)
	}
	return s.cols.Upsert(ctx, userID, c)
}

// DeleteCollection убирает коллекцию из зеркала. Идемпотентна.
func (s *SyncService) DeleteCollection(ctx context.Context, userID, id string) error {
	if id == "" {
		return fmt.Errorf("%w: collection id is required", ErrValidation)
	}
	return s.cols.Delete(ctx, userID, id)
}

// CollectionChanges возвращает изменения после курсора since.
func (s *SyncService) CollectionChanges(ctx context.Context, userID string, since int64) ([]model.Collection, int64, error) {
	return s.cols.ListSince(ctx, userID, since)
}

// UpsertBookmark валидирует и сохраняет закладку пользователя.
func (s *SyncService) UpsertBookmark(ctx context.Context, userID string, b model.Bookmark) error {
	if b.ID == "" {
		return fmt.Errorf("%w: bookmark id is required", ErrValidation)
	}
	if strings.TrimSpace(b.URL) == "" {
		return fmt.Errorf("%w: bookmark url is required", ErrValidation)
	}
	if strings.TrimSpace(b.Title) == "" {
		return fmt.Errorf("%w: bookmark title is required", ErrValidation)
	}
	return s.books.Upsert(ctx, userID, b)
}

// DeleteBookmark убирает закладку из зеркала. Идемпотентна.
func (s *SyncService) DeleteBookmark(ctx context.Context, userID, id string) error {
	if id == "" {
		return fmt.Errorf("%w: bookmark id is required", ErrValidation)
	}
	return s.books.Delete(ctx, userID, id)
}

// BookmarkChanges возвращает изменения после курсора since.
func (s *SyncService) BookmarkChanges(ctx context.Context, userID string, since int64) ([]model.Bookmark, int64, error) {
	return s.books.ListSince(ctx, userID, since)
}
