package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"LinkKeeper/internal/cli/model"
	"LinkKeeper/internal/cli/repo"
)

// Версия переносимого документа экспорта.
const DocumentVersion = "1.0.0"

// TypeCollectionShare — дискриминатор документа «поделиться коллекцией».
const TypeCollectionShare = "collection-share"

// PortableCollection — коллекция в переносимом документе.
// JSON-поля повторяют формат мобильного клиента.
type PortableCollection struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`
	Color       string `json:"color,omitempty"`
	Order       int    `json:"order,omitempty"`
	IsDeleted   bool   `json:"isDeleted,omitempty"`
}

// PortableBookmark — закладка в переносимом документе.
type PortableBookmark struct {
	ID           string `json:"id,omitempty"`
	URL          string `json:"url"`
	Title        string `json:"title"`
	Description  string `json:"description,omitempty"`
	Favicon      string `json:"favicon,omitempty"`
	Thumbnail    string `json:"thumbnail,omitempty"`
	CollectionID string `json:"collectionId,omitempty"`
	IsDeleted    bool   `json:"isDeleted,omitempty"`
}

// DocumentStats — счётчики в конверте документа.
type DocumentStats struct {
	TotalBookmarks   int  `json:"totalBookmarks"`
	TotalCollections *int `json:"totalCollections,omitempty"`
}

// Document — версионированный конверт: полный бэкап (collections+bookmarks)
// либо одна расшаренная коллекция (type=collection-share, collection).
type Document struct {
	Version     string               `json:"version"`
	Type        string               `json:"type,omitempty"`
	ExportedAt  string               `json:"exportedAt"`
	ExportedBy  string               `json:"exportedBy,omitempty"`
	SharedBy    string               `json:"sharedBy,omitempty"`
	Collection  *PortableCollection  `json:"collection,omitempty"`
	Collections []PortableCollection `json:"collections,omitempty"`
	Bookmarks   []PortableBookmark   `json:"bookmarks"`
	Stats       DocumentStats        `json:"stats"`
}

// IsShare — это документ одной расшаренной коллекции.
func (d *Document) IsShare() bool {
	return d.Type == TypeCollectionShare && d.Collection != nil
}

// ImportResult — агрегированный итог импорта. Ошибки отдельных записей
// накапливаются и не прерывают пакет.
type ImportResult struct {
	ImportedCollections int
	ImportedBookmarks   int
	SkippedCollections  int
	SkippedBookmarks    int
	Errors              []string
}

// PortableEngine сериализует активные записи в переносимый документ и
// вливает такой документ обратно, ремапя ссылки на коллекции.
// Пишет только через контракт Entity Store — импортированные строки
// помечаются dirty и уезжают на сервер следующим sync-проходом.
type PortableEngine struct {
	cols  repo.CollectionRepository
	books repo.BookmarkRepository
}

func NewPortableEngine(cols repo.CollectionRepository, books repo.BookmarkRepository) *PortableEngine {
	return &PortableEngine{cols: cols, books: books}
}

// ExportAll собирает полный бэкап активных записей.
func (e *PortableEngine) ExportAll(exportedBy string) (*Document, error) {
	cols, err := e.cols.List(repo.ListFilter{Deleted: repo.Active()})
	if err != nil {
		return nil, err
	}
	books, err := e.books.List(repo.ListFilter{Deleted: repo.Active()})
	if err != nil {
		return nil, err
	}

	doc := &Document{
		Version:    DocumentVersion,
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		ExportedBy: exportedBy,
	}
	for _, c := range cols {
		doc.Collections = append(doc.Collections, PortableCollection{
			ID: c.ID, Name: c.Name, Description: c.Description,
			Icon: c.Icon, Color: c.Color, Order: c.Order,
		})
	}
	for _, b := range books {
		doc.Bookmarks = append(doc.Bookmarks, PortableBookmark{
			ID: b.ID, URL: b.URL, Title: b.Title, Description: b.Description,
			Favicon: b.Favicon, Thumbnail: b.Thumbnail, CollectionID: b.CollectionID,
		})
	}
	total := len(doc.Collections)
	doc.Stats = DocumentStats{TotalBookmarks: len(doc.Bookmarks), TotalCollections: &total}
	return doc, nil
}

// ExportCollection собирает документ-шеринг одной коллекции с её активными
// закладками.
func (e *PortableEngine) ExportCollection(collectionID, sharedBy string) (*Document, error) {
	c, err := e.cols.Get(collectionID)
	if err != nil {
		return nil, err
	}
	books, err := e.books.List(repo.ListFilter{CollectionID: c.ID, Deleted: repo.Active()})
	if err != nil {
		return nil, err
	}

	doc := &Document{
		Version:    DocumentVersion,
		Type:       TypeCollectionShare,
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		SharedBy:   sharedBy,
		Collection: &PortableCollection{
			Name: c.Name, Description: c.Description, Icon: c.Icon, Color: c.Color,
		},
	}
	for _, b := range books {
		doc.Bookmarks = append(doc.Bookmarks, PortableBookmark{
			URL: b.URL, Title: b.Title, Description: b.Description,
			Favicon: b.Favicon, Thumbnail: b.Thumbnail,
		})
	}
	doc.Stats = DocumentStats{TotalBookmarks: len(doc.Bookmarks)}
	return doc, nil
}

// Parse разбирает JSON переносимого документа.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid export document: %w", err)
	}
	return &doc, nil
}

// Import вливает документ в хранилище одним проходом. Ошибка отдельной
// записи попадает в результат и не прерывает остальных.
func (e *PortableEngine) Import(doc *Document) (*ImportResult, error) {
	res := &ImportResult{}

	def, err := e.cols.EnsureDefault()
	if err != nil {
		return nil, err
	}

	// ремап: id коллекции в документе -> локальный id
	remap := map[string]string{}
	// shareID: куда складывать закладки документа-шеринга
	var shareID string

	if doc.IsShare() {
		shareID = e.importSharedCollection(doc.Collection, res)
	} else {
		e.importCollections(doc.Collections, def.ID, remap, res)
	}

	for _, pb := range doc.Bookmarks {
		if pb.IsDeleted {
			res.SkippedBookmarks++
			continue
		}
		target := e.resolveTarget(pb.CollectionID, shareID, remap, def.ID)
		title := pb.Title
		if title == "" {
			title = "Imported Bookmark"
		}
		_, err := e.books.Add(model.Bookmark{
			URL:          pb.URL,
			Title:        title,
			Description:  pb.Description,
			Favicon:      pb.Favicon,
			Thumbnail:    pb.Thumbnail,
			CollectionID: target,
		})
		if err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("Bookmark %q: %v", pb.Title, err))
			continue
		}
		res.ImportedBookmarks++
	}

	return res, nil
}

// importSharedCollection создаёт коллекцию из шеринга; коллизия имени не
// ошибка — переиспользуем существующую и считаем skip.
func (e *PortableEngine) importSharedCollection(pc *PortableCollection, res *ImportResult) string {
	created, err := e.cols.Add(model.Collection{
		Name:        pc.Name,
		Description: pc.Description,
		Icon:        pc.Icon,
		Color:       pc.Color,
	})
	if err == nil {
		res.ImportedCollections++
		return created.ID
	}
	if errors.Is(err, repo.ErrAlreadyExists) {
		existing, gerr := e.cols.GetByName(pc.Name)
		if gerr == nil {
			res.SkippedCollections++
			return existing.ID
		}
		err = gerr
	}
	res.Errors = append(res.Errors, fmt.Sprintf("Collection %q: %v", pc.Name, err))
	return ""
}

// importCollections создаёт коллекции полного бэкапа, заполняя remap
// соответствием id документа локальным id.
func (e *PortableEngine) importCollections(cols []PortableCollection, defaultID string, remap map[string]string, res *ImportResult) {
	for _, pc := range cols {
		// системная коллекция не дублируется; её закладки уйдут в локальную
		if pc.Name == model.DefaultCollectionName {
			res.SkippedCollections++
			if pc.ID != "" {
				remap[pc.ID] = defaultID
			}
			continue
		}
		if pc.IsDeleted {
			res.SkippedCollections++
			continue
		}
		created, err := e.cols.Add(model.Collection{
			Name:        pc.Name,
			Description: pc.Description,
			Icon:        pc.Icon,
			Color:       pc.Color,
			Order:       pc.Order,
		})
		if err == nil {
			res.ImportedCollections++
			if pc.ID != "" {
				remap[pc.ID] = created.ID
			}
			continue
		}
		if errors.Is(err, repo.ErrAlreadyExists) {
			res.SkippedCollections++
			if existing, gerr := e.cols.GetByName(pc.Name); gerr == nil && pc.ID != "" {
				remap[pc.ID] = existing.ID
			}
			continue
		}
		res.Errors = append(res.Errors, fmt.Sprintf("Collection %q: %v", pc.Name, err))
	}
}

// resolveTarget выбирает коллекцию для импортируемой закладки:
// коллекция шеринга -> ремап по документу -> её собственный id, если он
// разрешим локально -> коллекция по умолчанию.
func (e *PortableEngine) resolveTarget(docCollectionID, shareID string, remap map[string]string, defaultID string) string {
	if shareID != "" {
		return shareID
	}
	if docCollectionID != "" {
		if local, ok := remap[docCollectionID]; ok {
			return local
		}
		if _, err := e.cols.Get(docCollectionID); err == nil {
			return docCollectionID
		}
	}
	return defaultID
}

// Summary — человекочитаемый итог импорта для CLI.
func (r *ImportResult) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Collections imported: %d\n", r.ImportedCollections)
	fmt.Fprintf(&b, "Bookmarks imported: %d\n", r.ImportedBookmarks)
	if r.SkippedCollections > 0 {
		fmt.Fprintf(&b, "Collections skipped: %d\n", r.SkippedCollections)
	}
	if r.SkippedBookmarks > 0 {
		fmt.Fprintf(&b, "Bookmarks skipped: %d\n", r.SkippedBookmarks)
	}
	if len(r.Errors) > 0 {
		fmt.Fprintf(&b, "Errors (%d):\n", len(r.Errors))
		show := r.Errors
		if len(show) > 5 {
			show = show[:5]
		}
		for _, e := range show {
			fmt.Fprintf(&b, "  %s\n", e)
		}
		if len(r.Errors) > 5 {
			fmt.Fprintf(&b, "  ... and %d more\n", len(r.Errors)-5)
		}
	}
	return b.String()
}
