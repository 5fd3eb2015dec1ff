package repo

import "LinkKeeper/internal/cli/model"

// ListFilter — предикаты выборки записей.
// Пустое поле означает «без ограничения».
type ListFilter struct {
	CollectionID string
	Deleted      *bool  // nil: и активные, и удалённые
	Query        string // регистронезависимый substring по title/description/url
}

// Active и DeletedOnly — готовые фильтры по состоянию удаления.
func Active() *bool      { v := false; return &v }
func DeletedOnly() *bool { v := true; return &v }

// BookmarkPatch — частичное обновление закладки. nil-поле не трогается.
// ID и CreatedAt изменению не подлежат.
type BookmarkPatch struct {
	URL          *string
	Title        *string
	Description  *string
	Favicon      *string
	Thumbnail    *string
	CollectionID *string
}

// CollectionPatch — частичное обновление коллекции.
type CollectionPatch struct {
	Name        *string
	Description *string
	Icon        *string
	Color       *string
	Order       *int
}

// BookmarkRepository определяет порт доступа к локальному хранилищу закладок.
// Каждая мутация помечает запись dirty для движка синхронизации; исключение —
// ApplyRemote, который применяет данные, пришедшие с сервера, без пометки.
type BookmarkRepository interface {
	// Add сохраняет новую закладку: назначает ID и CreatedAt/UpdatedAt.
	Add(b model.Bookmark) (*model.Bookmark, error)

	// Get возвращает закладку по id (включая мягко удалённые).
	Get(id string) (*model.Bookmark, error)

	// List возвращает закладки по фильтру, новые первыми.
	List(f ListFilter) ([]model.Bookmark, error)

	// Update применяет patch; ErrNotFound, если записи нет.
	Update(id string, p BookmarkPatch) (*model.Bookmark, error)

	// SoftDelete помечает запись удалённой. Повторный вызов — no-op
	// (DeletedAt не сбрасывается).
	SoftDelete(id string) error

	// Restore снимает пометку удаления; ErrInvalidState, если запись не удалена.
	Restore(id string) error

	// HardDelete убирает строку насовсем; отсутствие строки — no-op.
	HardDelete(id string) error

	// ReassignCollection переводит все закладки коллекции from в коллекцию to.
	// Затронутые записи помечаются dirty. Возвращает число перенесённых строк.
	ReassignCollection(fromID, toID string) (int, error)

	// Dirty возвращает несинхронизированные записи в порядке пометки.
	Dirty() ([]model.Bookmark, error)

	// MarkClean снимает dirty после успешного push.
	MarkClean(id string) error

	// ApplyRemote применяет серверную версию записи без пометки dirty.
	ApplyRemote(b model.Bookmark) error
}

// CollectionRepository — порт доступа к локальному хранилищу коллекций.
type CollectionRepository interface {
	// Add сохраняет новую коллекцию. Если активная коллекция с тем же именем
	// (без учёта регистра) уже есть — ErrAlreadyExists.
	Add(c model.Collection) (*model.Collection, error)

	// EnsureDefault гарантирует существование коллекции Miscellaneous
	// и возвращает её.
	EnsureDefault() (*model.Collection, error)

	Get(id string) (*model.Collection, error)

	// GetByName находит активную коллекцию по имени без учёта регистра.
	GetByName(name string) (*model.Collection, error)

	// List возвращает коллекции по фильтру в порядке поля Order.
	List(f ListFilter) ([]model.Collection, error)

	// Update применяет patch. Переименование в занятое активное имя
	// (без учёта регистра) — ErrAlreadyExists.
	Update(id string, p CollectionPatch) (*model.Collection, error)
	SoftDelete(id string) error
	Restore(id string) error
	HardDelete(id string) error

	Dirty() ([]model.Collection, error)
	MarkClean(id string) error
	ApplyRemote(c model.Collection) error
}
