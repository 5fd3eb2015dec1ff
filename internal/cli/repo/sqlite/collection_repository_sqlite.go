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

// CollectionRepositorySQLite — репозиторий коллекций (локальная БД SQLite).
type CollectionRepositorySQLite struct {
	store *Store
}

var _ repo.CollectionRepository = (*CollectionRepositorySQLite)(nil)

const collectionCols = `id, name, description, icon, color, ord,
  created_at, updated_at, deleted, deleted_at`

const collectionMarkDirty = `dirty = 1,
  dirty_seq = CASE WHEN dirty = 1 THEN dirty_seq
    ELSE (SELECT IFNULL(MAX(dirty_seq), 0) + 1 FROM collections) END`

func scanCollection(row interface{ Scan(...any) error }) (*model.Collection, error) {
	var c model.Collection
	var delInt int
	err := row.Scan(&c.ID, &c.Name, &c.Description, &c.Icon, &c.Color, &c.Order,
		&c.CreatedAt, &c.UpdatedAt, &delInt, &c.DeletedAt)
	if err != nil {
		return nil, err
	}
	c.Deleted = delInt != 0
	return &c, nil
}

// Add сохраняет новую коллекцию. Имя должно быть уникально среди активных
// коллекций без учёта регистра; иначе ErrAlreadyExists.
func (r *CollectionRepositorySQLite) Add(c model.Collection) (*model.Collection, error) {
	if strings.TrimSpace(c.Name) == "" {
		return nil, &repo.ValidationError{Field: "name", Reason: "is required"}
	}
	if existing, err := r.GetByName(c.Name); err == nil && existing != nil {
		return nil, repo.ErrAlreadyExists
	} else if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}
	if c.Icon == "" {
		c.Icon = model.DefaultCollectionIcon
	}
	if c.Color == "" {
		c.Color = model.DefaultCollectionColor
	}
	c.ID = uuid.NewString()
	c.CreatedAt = r.store.now()
	c.UpdatedAt = c.CreatedAt
	c.Deleted = false
	c.DeletedAt = 0
	_, err := r.store.db.Exec(`INSERT INTO collections(
        id, name, description, icon, color, ord,
        created_at, updated_at, deleted, deleted_at,
        dirty, dirty_seq
    ) VALUES(?, ?, ?, ?, ?, ?, ?, ?, 0, 0,
        1, (SELECT IFNULL(MAX(dirty_seq), 0) + 1 FROM collections))`,
		c.ID, c.Name, c.Description, c.Icon, c.Color, c.Order,
		c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// EnsureDefault гарантирует существование коллекции Miscellaneous.
func (r *CollectionRepositorySQLite) EnsureDefault() (*model.Collection, error) {
	c, err := r.GetByName(model.DefaultCollectionName)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}
	return r.Add(model.Collection{
		Name:  model.DefaultCollectionName,
		Icon:  model.DefaultCollectionIcon,
		Color: model.DefaultCollectionColor,
	})
}

// Get возвращает коллекцию по id, включая мягко удалённые.
func (r *CollectionRepositorySQLite) Get(id string) (*model.Collection, error) {
	row := r.store.db.QueryRow(`SELECT `+collectionCols+` FROM collections WHERE id = ?`, id)
	c, err := scanCollection(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repo.ErrNotFound
	}
	return c, err
}

// GetByName находит активную коллекцию по имени без учёта регистра.
func (r *CollectionRepositorySQLite) GetByName(name string) (*model.Collection, error) {
	row := r.store.db.QueryRow(`SELECT `+collectionCols+` FROM collections
        WHERE LOWER(name) = LOWER(?) AND deleted = 0
        ORDER BY created_at ASC, id LIMIT 1`, name)
	c, err := scanCollection(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repo.ErrNotFound
	}
	return c, err
}

// List возвращает коллекции по фильтру в порядке поля ord.
func (r *CollectionRepositorySQLite) List(f repo.ListFilter) ([]model.Collection, error) {
	q := `SELECT ` + collectionCols + ` FROM collections`
	var conds []string
	var args []any
	if f.Deleted != nil {
		conds = append(conds, "deleted = ?")
		args = append(args, boolToInt(*f.Deleted))
	}
	if f.Query != "" {
		needle := "%" + strings.ToLower(f.Query) + "%"
		conds = append(conds, "(LOWER(name) LIKE ? OR LOWER(description) LIKE ?)")
		args = append(args, needle, needle)
	}
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY ord ASC, name ASC"

	rows, err := r.store.db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []model.Collection
	for rows.Next() {
		c, err := scanCollection(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, *c)
	}
	return res, rows.Err()
}

// Update применяет patch и обновляет updated_at. Переименование подчиняется
// тому же правилу уникальности, что и Add: активное имя занято (без учёта
// регистра) другой коллекцией — ErrAlreadyExists.
func (r *CollectionRepositorySQLite) Update(id string, p repo.CollectionPatch) (*model.Collection, error) {
	cols := map[string]any{}
	if p.Name != nil {
		if strings.TrimSpace(*p.Name) == "" {
			return nil, &repo.ValidationError{Field: "name", Reason: "is required"}
		}
		if existing, err := r.GetByName(*p.Name); err == nil && existing.ID != id {
			return nil, repo.ErrAlreadyExists
		} else if err != nil && !errors.Is(err, repo.ErrNotFound) {
			return nil, err
		}
		cols["name"] = *p.Name
	}
	if p.Description != nil {
		cols["description"] = *p.Description
	}
	if p.Icon != nil {
		cols["icon"] = *p.Icon
	}
	if p.Color != nil {
		cols["color"] = *p.Color
	}
	if p.Order != nil {
		cols["ord"] = *p.Order
	}
	setParts := make([]string, 0, len(cols)+2)
	args := make([]any, 0, len(cols)+2)
	for col, val := range cols {
		setParts = append(setParts, col+" = ?")
		args = append(args, val)
	}
	setParts = append(setParts, "updated_at = ?", collectionMarkDirty)
	args = append(args, r.store.now(), id)
	q := fmt.Sprintf("UPDATE collections SET %s WHERE id = ?", strings.Join(setParts, ", "))
	res, err := r.store.db.Exec(q, args...)
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, repo.ErrNotFound
	}
	return r.Get(id)
}

// SoftDelete помечает коллекцию удалённой. Повторный вызов — no-op.
// Закладки коллекции при этом не каскадируются.
func (r *CollectionRepositorySQLite) SoftDelete(id string) error {
	now := r.store.now()
	res, err := r.store.db.Exec(`UPDATE collections
        SET deleted = 1, deleted_at = ?, updated_at = ?, `+collectionMarkDirty+`
        WHERE id = ? AND deleted = 0`, now, now, id)
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
	}
	return nil
}

// Restore снимает пометку удаления.
func (r *CollectionRepositorySQLite) Restore(id string) error {
	now := r.store.now()
	res, err := r.store.db.Exec(`UPDATE collections
        SET deleted = 0, deleted_at = 0, updated_at = ?, `+collectionMarkDirty+`
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

// HardDelete удаляет строку насовсем; отсутствие строки — no-op.
func (r *CollectionRepositorySQLite) HardDelete(id string) error {
	_, err := r.store.db.Exec(`DELETE FROM collections WHERE id = ?`, id)
	return err
}

// Dirty возвращает несинхронизированные коллекции в порядке пометки.
func (r *CollectionRepositorySQLite) Dirty() ([]model.Collection, error) {
	rows, err := r.store.db.Query(`SELECT ` + collectionCols + ` FROM collections
        WHERE dirty = 1 ORDER BY dirty_seq ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []model.Collection
	for rows.Next() {
		c, err := scanCollection(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, *c)
	}
	return res, rows.Err()
}

// MarkClean снимает dirty после подтверждённого push.
func (r *CollectionRepositorySQLite) MarkClean(id string) error {
	_, err := r.store.db.Exec(`UPDATE collections SET dirty = 0, dirty_seq = 0 WHERE id = ?`, id)
	return err
}

// ApplyRemote применяет серверную версию коллекции без пометки dirty.
func (r *CollectionRepositorySQLite) ApplyRemote(c model.Collection) error {
	if c.ID == "" {
		return errors.New("empty id in remote collection")
	}
	_, err := r.store.db.Exec(`INSERT INTO collections(
        id, name, description, icon, color, ord,
        created_at, updated_at, deleted, deleted_at, dirty, dirty_seq
    ) VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0, 0)
    ON CONFLICT(id) DO UPDATE SET
        name = excluded.name,
        description = excluded.description,
        icon = excluded.icon,
        color = excluded.color,
        ord = excluded.ord,
        created_at = excluded.created_at,
        updated_at = excluded.updated_at,
        deleted = excluded.deleted,
        deleted_at = excluded.deleted_at`,
		c.ID, c.Name, c.Description, c.Icon, c.Color, c.Order,
		c.CreatedAt, c.UpdatedAt, boolToInt(c.Deleted), c.DeletedAt,
	)
	return err
}
