package repo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"LinkKeeper/internal/model"
)

func TestCollectionRepo_Upsert_AssignsSeq(t *testing.T) {
	db := newTestDB(t)
	r := NewCollectionRepository(db)
	ctx := context.Background()

	assert.NoError(t, r.Upsert(ctx, "seq-user", model.Collection{ID: "c1", Name: "A", CreatedAt: 1, UpdatedAt: 1}))
	assert.NoError(t, r.Upsert(ctx, "seq-user", model.Collection{ID: "c2", Name: "B", CreatedAt: 2, UpdatedAt: 2}))
	// повторный upsert той же записи двигает её в конец ленты
	assert.NoError(t, r.Upsert(ctx, "seq-user", model.Collection{ID: "c1", Name: "A2", CreatedAt: 1, UpdatedAt: 3}))

	list, cursor, err := r.ListSince(ctx, "seq-user", 0)
	assert.NoError(t, err)
	assert.Len(t, list, 2)
	assert.Equal(t, "c2", list[0].ID)
	assert.Equal(t, "c1", list[1].ID)
	assert.Equal(t, "A2", list[1].Name)
	assert.Equal(t, list[1].ServerSeq, cursor)
}

func TestCollectionRepo_ListSince_Pagination(t *testing.T) {
	db := newTestDB(t)
	r := NewCollectionRepository(db)
	ctx := context.Background()

	for _, id := range []string{"p1", "p2", "p3"} {
		assert.NoError(t, r.Upsert(ctx, "page-user", model.Collection{ID: id, Name: id, CreatedAt: 1, UpdatedAt: 1}))
	}

	first, cursor, err := r.ListSince(ctx, "page-user", 0)
	assert.NoError(t, err)
	assert.Len(t, first, 3)

	// после курсора изменений нет, курсор не откатывается
	rest, next, err := r.ListSince(ctx, "page-user", cursor)
	assert.NoError(t, err)
	assert.Empty(t, rest)
	assert.Equal(t, cursor, next)

	assert.NoError(t, r.Upsert(ctx, "page-user", model.Collection{ID: "p4", Name: "p4", CreatedAt: 2, UpdatedAt: 2}))
	rest, _, err = r.ListSince(ctx, "page-user", cursor)
	assert.NoError(t, err)
	assert.Len(t, rest, 1)
	assert.Equal(t, "p4", rest[0].ID)
}

func TestCollectionRepo_UserIsolation(t *testing.T) {
	db := newTestDB(t)
	r := NewCollectionRepository(db)
	ctx := context.Background()

	assert.NoError(t, r.Upsert(ctx, "iso-a", model.Collection{ID: "shared-id", Name: "A side", CreatedAt: 1, UpdatedAt: 1}))
	assert.NoError(t, r.Upsert(ctx, "iso-b", model.Collection{ID: "shared-id", Name: "B side", CreatedAt: 1, UpdatedAt: 1}))

	la, _, err := r.ListSince(ctx, "iso-a", 0)
	assert.NoError(t, err)
	assert.Len(t, la, 1)
	assert.Equal(t, "A side", la[0].Name)

	// удаление у одного пользователя не трогает другого
	assert.NoError(t, r.Delete(ctx, "iso-a", "shared-id"))
	la, _, _ = r.ListSince(ctx, "iso-a", 0)
	assert.Empty(t, la)
	lb, _, _ := r.ListSince(ctx, "iso-b", 0)
	assert.Len(t, lb, 1)
}

func TestBookmarkRepo_Upsert_Delete(t *testing.T) {
	db := newTestDB(t)
	r := NewBookmarkRepository(db)
	ctx := context.Background()

	b := model.Bookmark{ID: "b1", URL: "https://x", Title: "X", CollectionID: "c1", CreatedAt: 1, UpdatedAt: 1}
	assert.NoError(t, r.Upsert(ctx, "bm-user", b))

	list, cursor, err := r.ListSince(ctx, "bm-user", 0)
	assert.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, "https://x", list[0].URL)
	assert.Greater(t, cursor, int64(0))

	assert.NoError(t, r.Delete(ctx, "bm-user", "b1"))
	list, _, _ = r.ListSince(ctx, "bm-user", 0)
	assert.Empty(t, list)

	// удаление отсутствующей записи — no-op
	assert.NoError(t, r.Delete(ctx, "bm-user", "missing"))
}
