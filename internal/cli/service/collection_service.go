package service

import (
	"fmt"

	"LinkKeeper/internal/cli/model"
	"LinkKeeper/internal/cli/repo"
)

// CollectionService — операции презентационного слоя над коллекциями.
type CollectionService struct {
	cols  repo.CollectionRepository
	books repo.BookmarkRepository
}

func NewCollectionService(cols repo.CollectionRepository, books repo.BookmarkRepository) *CollectionService {
	return &CollectionService{cols: cols, books: books}
}

// Add создаёт коллекцию; порядок отображения — в конец списка.
func (s *CollectionService) Add(name, description, icon, color string) (*model.Collection, error) {
	active, err := s.cols.List(repo.ListFilter{Deleted: repo.Active()})
	if err != nil {
		return nil, err
	}
	return s.cols.Add(model.Collection{
		Name:        name,
		Description: description,
		Icon:        icon,
		Color:       color,
		Order:       len(active),
	})
}

// List возвращает активные коллекции с числом активных закладок в каждой.
func (s *CollectionService) List() ([]CollectionInfo, error) {
	cols, err := s.cols.List(repo.ListFilter{Deleted: repo.Active()})
	if err != nil {
		return nil, err
	}
	infos := make([]CollectionInfo, 0, len(cols))
	for _, c := range cols {
		books, err := s.books.List(repo.ListFilter{CollectionID: c.ID, Deleted: repo.Active()})
		if err != nil {
			return nil, err
		}
		infos = append(infos, CollectionInfo{Collection: c, BookmarkCount: len(books)})
	}
	return infos, nil
}

// CollectionInfo — коллекция с агрегатами для списка.
type CollectionInfo struct {
	model.Collection
	BookmarkCount int
}

// Update применяет patch к коллекции. Переименовать Miscellaneous нельзя:
// на её точном имени держатся фолбэк осиротевших закладок и защита от
// удаления.
func (s *CollectionService) Update(id string, p repo.CollectionPatch) (*model.Collection, error) {
	if p.Name != nil {
		c, err := s.cols.Get(id)
		if err != nil {
			return nil, err
		}
		if c.IsDefault() && *p.Name != c.Name {
			return nil, fmt.Errorf("%w: default collection cannot be renamed", repo.ErrInvalidState)
		}
	}
	return s.cols.Update(id, p)
}

// SoftDelete отправляет коллекцию в корзину. Miscellaneous удалить нельзя:
// она всегда существует как фолбэк для осиротевших закладок.
func (s *CollectionService) SoftDelete(id string) error {
	c, err := s.cols.Get(id)
	if err != nil {
		return err
	}
	if c.IsDefault() {
		return fmt.Errorf("%w: default collection cannot be deleted", repo.ErrInvalidState)
	}
	return s.cols.SoftDelete(id)
}

// GetByName находит активную коллекцию по имени.
func (s *CollectionService) GetByName(name string) (*model.Collection, error) {
	return s.cols.GetByName(name)
}
