package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"LinkKeeper/internal/cli/model"
	"LinkKeeper/internal/cli/repo"

	"github.com/google/uuid"
)

// BookmarkRepositorySQLite — репозиторий закладок (локальная БД SQLite).
type BookmarkRepositorySQLite struct {
	store *Store
}

var _ repo.BookmarkRepository = (*BookmarkRepositorySQLite)(nil)

const bookmarkCols = `id, url, title, description, favicon, thumbnail, collection_id,
  created_at, updated_at, deleted, deleted_at`

// Выражение пометки dirty: уже помеченная запись сохраняет свой номер,
// чтобы порядок push соответствовал порядку первой пометки.
const bookmarkMarkDirty = `dirty = 1,
  dirty_seq = CASE WHEN dirty = 1 THEN dirty_seq
    ELSE (SELECT IFNULL(MAX(dirty_seq), 0) + 1 FROM bookmarks) END`

func scanBookmark(row interface{ Scan(...any) error }) (*model.Bookmark, error) {
	var b model.Bookmark
	var delInt int
	err := row.Scan(&b.ID, &b.URL, &b.Title, &b.Description, &b.Favicon, &b.Thumbnail,
		&b.CollectionID, &b.CreatedAt, &b.UpdatedAt, &delInt, &b.DeletedAt)
	if err != nil {
		return nil, err
	}
	b.Deleted = delInt != 0
	return &b, nil
}

func validateBookmark(b model.Bookmark) error {
	if strings.TrimSpace(b.URL) == "" {
		return &repo.ValidationError{Field: "url", Reason: "is required"}
	}
	if strings.TrimSpace(b.Title) == "" {
		return &repo.ValidationError{Field: "title", Reason: "is required"}
	}
	if b.CollectionID == "" {
		return &repo.ValidationError{Field: "collectionId", Reason: "is required"}
	}
	return nil
}

// Add сохраняет новую закладку, назначая ID и метки времени.
func (r *BookmarkRepositorySQLite) Add(b model.Bookmark) (*model.Bookmark, error) {
	if err := validateBookmark(b); err != nil {
		return nil, err
	}
	b.ID = uuid.NewString()
	b.CreatedAt = r.store.now()
	b.UpdatedAt = b.CreatedAt
	b.Deleted = false
	b.DeletedAt = 0
	_, err := r.store.db.Exec(`INSERT INTO bookmarks(
        id, url, title, description, favicon, thumbnail, collection_id,
        created_at, updated_at, deleted, deleted_at,
        dirty, dirty_seq
    ) VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, 0, 0,
        1, (SELECT IFNULL(MAX(dirty_seq), 0) + 1 FROM bookmarks))`,
		b.ID, b.URL, b.Title, b.Description, b.Favicon, b.Thumbnail, b.CollectionID,
		b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Get возвращает закладку по id, включая мягко удалённые.
func (r *BookmarkRepositorySQLite) Get(id string) (*model.Bookmark, error) {
	row := r.store.db.QueryRow(`SELECT `+bookmarkCols+` FROM bookmarks WHERE id = ?`, id)
	b, err := scanBookmark(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repo.ErrNotFound
	}
	return b, err
}

// List возвращает закладки по фильтру, новые первыми.
func (r *BookmarkRepositorySQLite) List(f repo.ListFilter) ([]model.Bookmark, error) {
	q := `SELECT ` + bookmarkCols + ` FROM bookmarks`
	var conds []string
	var args []any
	if f.CollectionID != "" {
		conds = append(conds, "collection_id = ?")
		args = append(args, f.CollectionID)
	}
	if f.Deleted != nil {
		conds = append(conds, "deleted = ?")
		args = append(args, boolToInt(*f.Deleted))
	}
	if f.Query != "" {
		needle := "%" + strings.ToLower(f.Query) + "%"
		conds = append(conds, "(LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR LOWER(url) LIKE ?)")
		args = append(args, needle, needle, needle)
	}
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY updated_at DESC, id"

	rows, err := r.store.db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []model.Bookmark
	for rows.Next() {
		b, err := scanBookmark(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, *b)
	}
	return res, rows.Err()
}

// Update применяет patch и обновляет updated_at. ID/CreatedAt неизменяемы.
func (r *BookmarkRepositorySQLite) Update(id string, p repo.BookmarkPatch) (*model.Bookmark, error) {
	cols := map[string]any{}
	if p.URL != nil {
		if strings.TrimSpace(*p.URL) == "" {
			return nil, &repo.ValidationError{Field: "url", Reason: "is required"}
		}
		cols["url"] = *p.URL
	}
	if p.Title != nil {
		if strings.TrimSpace(*p.Title) == "" {
			return nil, &repo.ValidationError{Field: "title", Reason: "is required"}
		}
		cols["title"] = *p.Title
	}
	if p.Description != nil {
		cols["description"] = *p.Description
	}
	if p.Favicon != nil {
		cols["favicon"] = *p.Favicon
	}
	if p.Thumbnail != nil {
		cols["thumbnail"] = *p.Thumbnail
	}
	if p.CollectionID != nil {
		if *p.CollectionID == "" {
			return nil, &repo.ValidationError{Field: "collectionId", Reason: "is required"}
		}
		cols["collection_id"] = *p.CollectionID
	}
	if err := r.updateCols(id, cols); err != nil {
		return nil, err
	}
	return r.Get(id)
}

func (r *BookmarkRepositorySQLite) updateCols(id string, cols map[string]any) error {
	setParts := make([]string, 0, len(cols))
	args := make([]any, 0, len(cols)+2)
	for col, val := range cols {
		setParts = append(setParts, col+" = ?")
		args = append(args, val)
	}
	setParts = append(setParts, "updated_at = ?", bookmarkMarkDirty)
	args = append(args, r.store.now(), id)
	q := fmt.Sprintf("UPDATE bookmarks SET %s WHERE id = ?", strings.Join(setParts, ", "))
	res, err := r.store.db.Exec(q, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// SoftDelete помечает закладку удалённой. Повторный вызов — no-op,
// deleted_at при этом не сбрасывается.
func (r *BookmarkRepositorySQLite) SoftDelete(id string) error {
	now := r.store.now()
	res, err := r.store.db.Exec(`UPDATE bookmarks
        SET deleted = 1, deleted_at = ?, updated_at = ?, `+bookmarkMarkDirty+`
        WHERE id = ? AND deleted = 0`, now, now, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// либо запись уже удалена (no-op), либо её нет
		if _, err := r.Get(id); err != nil {
			return err
		}
	}
	return nil
}

// Restore снимает пометку удаления.
func (r *BookmarkRepositorySQLite) Restore(id string) error {
	now := r.store.now()
	res, err := r.store.db.Exec(`UPDATE bookmarks
        SET deleted = 0, deleted_at = 0, updated_at = ?, `+bookmarkMarkDirty+`
        WHERE id = ? AND deleted = 1`, now, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		if _, err := r.Get(id); err != nil {
			return err
		}
		return repo.ErrInvalidState
	}
	return nil
}

// HardDelete удаляет строку насовсем. Отсутствие строки — no-op,
// чтобы спокойно переживать повторы.
func (r *BookmarkRepositorySQLite) HardDelete(id string) error {
	_, err := r.store.db.Exec(`DELETE FROM bookmarks WHERE id = ?`, id)
	return err
}

// ReassignCollection переводит закладки коллекции from в коллекцию to.
func (r *BookmarkRepositorySQLite) ReassignCollection(fromID, toID string) (int, error) {
	res, err := r.store.db.Exec(`UPDATE bookmarks
        SET collection_id = ?, updated_at = ?, `+bookmarkMarkDirty+`
        WHERE collection_id = ?`, toID, r.store.now(), fromID)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

// Dirty возвращает несинхронизированные закладки в порядке пометки.
func (r *BookmarkRepositorySQLite) Dirty() ([]model.Bookmark, error) {
	rows, err := r.store.db.Query(`SELECT ` + bookmarkCols + ` FROM bookmarks
        WHERE dirty = 1 ORDER BY dirty_seq ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []model.Bookmark
	for rows.Next() {
		b, err := scanBookmark(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, *b)
	}
	return res, rows.Err()
}

// MarkClean снимает dirty после подтверждённого push.
func (r *BookmarkRepositorySQLite) MarkClean(id string) error {
	_, err := r.store.db.Exec(`UPDATE bookmarks SET dirty = 0, dirty_seq = 0 WHERE id = ?`, id)
	return err
}

// ApplyRemote применяет серверную версию записи без пометки dirty.
func (r *BookmarkRepositorySQLite) ApplyRemote(b model.Bookmark) error {
	if b.ID == "" {
		return errors.New("empty id in remote bookmark")
	}
	_, err := r.store.db.Exec(`INSERT INTO bookmarks(
        id, url, title, description, favicon, thumbnail, collection_id,
        created_at, updated_at, deleted, deleted_at, dirty, dirty_seq
    ) VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0, 0)
    ON CONFLICT(id) DO UPDATE SET
        url = excluded.url,
        title = excluded.title,
        description = excluded.description,
        favicon = excluded.favicon,
        thumbnail = excluded.thumbnail,
        collection_id = excluded.collection_id,
        created_at = excluded.created_at,
        updated_at = excluded.updated_at,
        deleted = excluded.deleted,
        deleted_at = excluded.deleted_at`,
		b.ID, b.URL, b.Title, b.Description, b.Favicon, b.Thumbnail, b.CollectionID,
		b.CreatedAt, b.UpdatedAt, boolToInt(b.Deleted), b.DeletedAt,
	)
	return err
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
