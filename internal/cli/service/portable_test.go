package service

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"LinkKeeper/internal/cli/model"
	"LinkKeeper/internal/cli/repo"
)

func TestPortable_ExportAll_ActiveOnly(t *testing.T) {
	cols, books, _ := setupSyncEnv(t, "exp")
	def, _ := cols.EnsureDefault()

	b1, _ := books.Add(model.Bookmark{URL: "https://a", Title: "A", CollectionID: def.ID})
	b2, _ := books.Add(model.Bookmark{URL: "https://b", Title: "B", CollectionID: def.ID})
	_ = books.SoftDelete(b2.ID)
	work, _ := cols.Add(model.Collection{Name: "Work"})
	_ = cols.SoftDelete(work.ID)

	engine := NewPortableEngine(cols, books)
	doc, err := engine.ExportAll("exp")
	assert.NoError(t, err)

	assert.Equal(t, DocumentVersion, doc.Version)
	assert.Equal(t, "exp", doc.ExportedBy)
	assert.NotEmpty(t, doc.ExportedAt)
	assert.False(t, doc.IsShare())

	// удалённые записи не экспортируются
	assert.Len(t, doc.Bookmarks, 1)
	assert.Equal(t, b1.ID, doc.Bookmarks[0].ID)
	assert.Len(t, doc.Collections, 1)
	assert.Equal(t, def.ID, doc.Collections[0].ID)

	assert.Equal(t, 1, doc.Stats.TotalBookmarks)
	if assert.NotNil(t, doc.Stats.TotalCollections) {
		assert.Equal(t, 1, *doc.Stats.TotalCollections)
	}
}

func TestPortable_ExportCollection_ShareDoc(t *testing.T) {
	cols, books, _ := setupSyncEnv(t, "share")
	work, _ := cols.Add(model.Collection{Name: "Work", Description: "office stuff"})
	_, _ = books.Add(model.Bookmark{URL: "https://a", Title: "A", CollectionID: work.ID})

	engine := NewPortableEngine(cols, books)
	doc, err := engine.ExportCollection(work.ID, "share")
	assert.NoError(t, err)

	assert.True(t, doc.IsShare())
	assert.Equal(t, TypeCollectionShare, doc.Type)
	assert.Equal(t, "share", doc.SharedBy)
	// идентификаторы не утекают в шеринг
	assert.Empty(t, doc.Collection.ID)
	assert.Len(t, doc.Bookmarks, 1)
	assert.Empty(t, doc.Bookmarks[0].ID)
	assert.Nil(t, doc.Stats.TotalCollections)

	// camelCase на проводе
	raw, err := json.Marshal(doc)
	assert.NoError(t, err)
	assert.Contains(t, string(raw), `"exportedAt"`)
	assert.Contains(t, string(raw), `"sharedBy"`)
}

func TestPortable_Import_FullBackup_Remap(t *testing.T) {
	cols, books, _ := setupSyncEnv(t, "imp")
	def, _ := cols.EnsureDefault()

	doc := &Document{
		Version: DocumentVersion,
		Collections: []PortableCollection{
			{ID: "doc-misc", Name: model.DefaultCollectionName},
			{ID: "doc-work", Name: "Work"},
			{ID: "doc-gone", Name: "Old", IsDeleted: true},
		},
		Bookmarks: []PortableBookmark{
			{URL: "https://a", Title: "A", CollectionID: "doc-work"},
			{URL: "https://b", Title: "B", CollectionID: "doc-misc"},
			{URL: "https://c", Title: "C", CollectionID: "unknown-id"},
			{URL: "https://d", CollectionID: "doc-work"}, // без заголовка
			{URL: "https://e", Title: "E", IsDeleted: true},
		},
	}

	engine := NewPortableEngine(cols, books)
	res, err := engine.Import(doc)
	assert.NoError(t, err)

	assert.Equal(t, 1, res.ImportedCollections) // только Work
	assert.Equal(t, 2, res.SkippedCollections)  // Miscellaneous + удалённая
	assert.Equal(t, 4, res.ImportedBookmarks)
	assert.Equal(t, 1, res.SkippedBookmarks)
	assert.Empty(t, res.Errors)

	work, err := cols.GetByName("Work")
	assert.NoError(t, err)

	all, _ := books.List(repo.ListFilter{Deleted: repo.Active()})
	byTitle := map[string]model.Bookmark{}
	for _, b := range all {
		byTitle[b.Title] = b
	}
	assert.Equal(t, work.ID, byTitle["A"].CollectionID)
	assert.Equal(t, def.ID, byTitle["B"].CollectionID)
	// неразрешимая ссылка уходит в коллекцию по умолчанию
	assert.Equal(t, def.ID, byTitle["C"].CollectionID)
	// заголовок-заглушка
	assert.Equal(t, work.ID, byTitle["Imported Bookmark"].CollectionID)
}

func TestPortable_Import_Share_ReusesExisting(t *testing.T) {
	cols, books, _ := setupSyncEnv(t, "impshare")
	existing, _ := cols.Add(model.Collection{Name: "Work"})

	doc := &Document{
		Version: DocumentVersion,
		Type:    TypeCollectionShare,
		Collection: &PortableCollection{
			Name: "Work",
		},
		Bookmarks: []PortableBookmark{
			{URL: "https://a", Title: "A"},
		},
	}

	engine := NewPortableEngine(cols, books)
	res, err := engine.Import(doc)
	assert.NoError(t, err)

	// коллизия имени — переиспользуем существующую коллекцию
	assert.Equal(t, 0, res.ImportedCollections)
	assert.Equal(t, 1, res.SkippedCollections)
	assert.Equal(t, 1, res.ImportedBookmarks)

	list, _ := books.List(repo.ListFilter{CollectionID: existing.ID, Deleted: repo.Active()})
	assert.Len(t, list, 1)
}

func TestPortable_Import_BadRecordDoesNotAbort(t *testing.T) {
	cols, books, _ := setupSyncEnv(t, "imperr")
	_, _ = cols.EnsureDefault()

	doc := &Document{
		Version: DocumentVersion,
		Bookmarks: []PortableBookmark{
			{URL: "", Title: "broken"}, // без URL — отказ валидатора
			{URL: "https://ok", Title: "OK"},
		},
	}

	engine := NewPortableEngine(cols, books)
	res, err := engine.Import(doc)
	assert.NoError(t, err)
	assert.Equal(t, 1, res.ImportedBookmarks)
	assert.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "broken")
}

func TestPortable_Parse_Invalid(t *testing.T) {
	_, err := Parse([]byte("{not json"))
	assert.Error(t, err)

	doc, err := Parse([]byte(`{"version":"1.0.0","bookmarks":[]}`))
	assert.NoError(t, err)
	assert.Equal(t, "1.0.0", doc.Version)
}

func TestPortable_RoundTrip(t *testing.T) {
	cols, books, _ := setupSyncEnv(t, "rt1")
	def, _ := cols.EnsureDefault()
	work, _ := cols.Add(model.Collection{Name: "Work"})
	_, _ = books.Add(model.Bookmark{URL: "https://a", Title: "A", CollectionID: work.ID})
	_, _ = books.Add(model.Bookmark{URL: "https://b", Title: "B", CollectionID: def.ID})

	doc, err := NewPortableEngine(cols, books).ExportAll("rt1")
	assert.NoError(t, err)
	raw, err := json.Marshal(doc)
	assert.NoError(t, err)

	// вливаем в чистое хранилище второго пользователя
	cols2, books2, _ := setupSyncEnv(t, "rt2")
	_, _ = cols2.EnsureDefault()
	parsed, err := Parse(raw)
	assert.NoError(t, err)
	res, err := NewPortableEngine(cols2, books2).Import(parsed)
	assert.NoError(t, err)
	assert.Equal(t, 2, res.ImportedBookmarks)

	work2, err := cols2.GetByName("Work")
	assert.NoError(t, err)
	inWork, _ := books2.List(repo.ListFilter{CollectionID: work2.ID, Deleted: repo.Active()})
	assert.Len(t, inWork, 1)
	assert.Equal(t, "A", inWork[0].Title)
}
