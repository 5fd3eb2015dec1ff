package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"LinkKeeper/internal/cli/metadata"
	"LinkKeeper/internal/cli/model"
	"LinkKeeper/internal/cli/repo"
)

// BookmarkService — операции презентационного слоя над закладками.
// Вся работа идёт через публичный контракт репозитория, чтобы dirty-пометки
// и инварианты хранилища нельзя было обойти.
type BookmarkService struct {
	books repo.BookmarkRepository
	cols  repo.CollectionRepository
	meta  metadata.Fetcher // nil: обогащение метаданными выключено
}

func NewBookmarkService(books repo.BookmarkRepository, cols repo.CollectionRepository, meta metadata.Fetcher) *BookmarkService {
	return &BookmarkService{books: books, cols: cols, meta: meta}
}

// Add создаёт закладку. collectionName пустое — используется Miscellaneous.
// Если title не задан, пробуем получить его из метаданных страницы; сбой или
// таймаут фетчера не фатален — остаёмся с пользовательским вводом.
func (s *BookmarkService) Add(ctx context.Context, rawURL, title, description, collectionName string) (*model.Bookmark, error) {
	var col *model.Collection
	var err error
	if collectionName == "" {
		col, err = s.cols.EnsureDefault()
	} else {
		col, err = s.cols.GetByName(collectionName)
	}
	if err != nil {
		return nil, err
	}

	b := model.Bookmark{
		URL:          strings.TrimSpace(rawURL),
		Title:        strings.TrimSpace(title),
		Description:  description,
		CollectionID: col.ID,
	}

	if s.meta != nil {
		fctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if res, ferr := s.meta.Fetch(fctx, b.URL); ferr == nil {
			if b.Title == "" {
				b.Title = res.Title
			}
			if b.Description == "" {
				b.Description = res.Description
			}
			b.Favicon = res.Favicon
			b.Thumbnail = res.Thumbnail
		}
	}

	return s.books.Add(b)
}

// Get возвращает закладку по id.
func (s *BookmarkService) Get(id string) (*model.Bookmark, error) {
	return s.books.Get(id)
}

// List возвращает активные закладки, опционально в одной коллекции.
func (s *BookmarkService) List(collectionName string) ([]model.Bookmark, error) {
	f := repo.ListFilter{Deleted: repo.Active()}
	if collectionName != "" {
		col, err := s.cols.GetByName(collectionName)
		if err != nil {
			return nil, err
		}
		f.CollectionID = col.ID
	}
	return s.books.List(f)
}

// Search — регистронезависимый substring-поиск по title/description/url
// среди активных закладок.
func (s *BookmarkService) Search(query string) ([]model.Bookmark, error) {
	return s.books.List(repo.ListFilter{Deleted: repo.Active(), Query: query})
}

// Update применяет patch. Новая коллекция должна существовать.
func (s *BookmarkService) Update(id string, p repo.BookmarkPatch) (*model.Bookmark, error) {
	if p.CollectionID != nil {
		if _, err := s.cols.Get(*p.CollectionID); err != nil {
			return nil, err
		}
	}
	return s.books.Update(id, p)
}

// Move переносит закладку в коллекцию по имени.
func (s *BookmarkService) Move(id, collectionName string) (*model.Bookmark, error) {
	col, err := s.cols.GetByName(collectionName)
	if err != nil {
		return nil, err
	}
	return s.books.Update(id, repo.BookmarkPatch{CollectionID: &col.ID})
}

// SoftDelete отправляет закладку в корзину.
func (s *BookmarkService) SoftDelete(id string) error {
	return s.books.SoftDelete(id)
}

// IsNotFound — удобный предикат для презентационного слоя.
func IsNotFound(err error) bool {
	return errors.Is(err, repo.ErrNotFound)
}
