package sqlite

import (
	"errors"
	"testing"

	"LinkKeeper/internal/cli/model"
	"LinkKeeper/internal/cli/repo"
)

// newTestRepos — хранилище с управляемыми часами и готовой коллекцией.
func newTestRepos(t *testing.T, login string) (*Store, *BookmarkRepositorySQLite, *model.Collection, *int64) {
	t.Helper()
	setTempUserEnv(t)
	st := openTestStore(t, login)
	clock := int64(1000)
	st.SetNowFunc(func() int64 { return clock })

	col, err := st.Collections().EnsureDefault()
	if err != nil {
		t.Fatalf("EnsureDefault: %v", err)
	}
	return st, st.Bookmarks(), col, &clock
}

func TestBookmark_Add_Get(t *testing.T) {
	_, r, col, _ := newTestRepos(t, "ann")

	b, err := r.Add(model.Bookmark{URL: "https://go.dev", Title: "Go", CollectionID: col.ID})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if b.ID == "" || b.CreatedAt != 1000 || b.UpdatedAt != 1000 {
		t.Fatalf("unexpected bookmark: %+v", b)
	}

	got, err := r.Get(b.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.URL != "https://go.dev" || got.Title != "Go" || got.Deleted {
		t.Fatalf("unexpected bookmark: %+v", got)
	}
}

func TestBookmark_Add_Validation(t *testing.T) {
	_, r, col, _ := newTestRepos(t, "bob")

	cases := []model.Bookmark{
		{Title: "no url", CollectionID: col.ID},
		{URL: "https://x", CollectionID: col.ID},
		{URL: "https://x", Title: "no collection"},
	}
	for _, c := range cases {
		_, err := r.Add(c)
		var verr *repo.ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("expected ValidationError for %+v, got %v", c, err)
		}
	}
}

func TestBookmark_SoftDelete_Idempotent(t *testing.T) {
	_, r, col, clock := newTestRepos(t, "kate")

	b, err := r.Add(model.Bookmark{URL: "https://x", Title: "X", CollectionID: col.ID})
	if err != nil {
		t.Fatal(err)
	}

	*clock = 2000
	if err := r.SoftDelete(b.ID); err != nil {
		t.Fatalf("SoftDelete: %v", err)
	}
	got, _ := r.Get(b.ID)
	if !got.Deleted || got.DeletedAt != 2000 {
		t.Fatalf("unexpected state: %+v", got)
	}

	// повтор — no-op, deleted_at не сдвигается
	*clock = 3000
	if err := r.SoftDelete(b.ID); err != nil {
		t.Fatalf("second SoftDelete: %v", err)
	}
	got, _ = r.Get(b.ID)
	if got.DeletedAt != 2000 {
		t.Fatalf("deleted_at moved on repeated delete: %+v", got)
	}

	if err := r.SoftDelete("missing"); !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestBookmark_Restore(t *testing.T) {
	_, r, col, _ := newTestRepos(t, "mike")

	b, err := r.Add(model.Bookmark{URL: "https://x", Title: "X", CollectionID: col.ID})
	if err != nil {
		t.Fatal(err)
	}

	// restore не удалённой записи — ошибка состояния
	if err := r.Restore(b.ID); !errors.Is(err, repo.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}

	if err := r.SoftDelete(b.ID); err != nil {
		t.Fatal(err)
	}
	if err := r.Restore(b.ID); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	got, _ := r.Get(b.ID)
	if got.Deleted || got.DeletedAt != 0 {
		t.Fatalf("not restored: %+v", got)
	}

	if err := r.Restore("missing"); !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestBookmark_HardDelete_NoError(t *testing.T) {
	_, r, col, _ := newTestRepos(t, "olga")

	b, _ := r.Add(model.Bookmark{URL: "https://x", Title: "X", CollectionID: col.ID})
	if err := r.HardDelete(b.ID); err != nil {
		t.Fatalf("HardDelete: %v", err)
	}
	if _, err := r.Get(b.ID); !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("row survived hard delete")
	}
	// повтор и незнакомый id — no-op
	if err := r.HardDelete(b.ID); err != nil {
		t.Fatalf("repeated HardDelete: %v", err)
	}
}

func TestBookmark_List_Filters_And_Search(t *testing.T) {
	st, r, col, clock := newTestRepos(t, "ivan")

	other, err := st.Collections().Add(model.Collection{Name: "Work"})
	if err != nil {
		t.Fatal(err)
	}

	b1, _ := r.Add(model.Bookmark{URL: "https://go.dev", Title: "Go homepage", CollectionID: col.ID})
	*clock = 1100
	b2, _ := r.Add(model.Bookmark{URL: "https://example.com", Title: "Example", Description: "golang notes", CollectionID: other.ID})
	*clock = 1200
	b3, _ := r.Add(model.Bookmark{URL: "https://news.site", Title: "News", CollectionID: col.ID})
	if err := r.SoftDelete(b3.ID); err != nil {
		t.Fatal(err)
	}

	active, err := r.List(repo.ListFilter{Deleted: repo.Active()})
	if err != nil {
		t.Fatal(err)
	}
	if len(active) != 2 {
		t.Fatalf("expected 2 active, got %d", len(active))
	}

	inCol, err := r.List(repo.ListFilter{CollectionID: col.ID, Deleted: repo.Active()})
	if err != nil {
		t.Fatal(err)
	}
	if len(inCol) != 1 || inCol[0].ID != b1.ID {
		t.Fatalf("unexpected collection filter result: %+v", inCol)
	}

	// поиск без учёта регистра по title/description/url
	found, err := r.List(repo.ListFilter{Deleted: repo.Active(), Query: "GOLANG"})
	if err != nil {
		t.Fatal(err)
	}
	if len(found) != 1 || found[0].ID != b2.ID {
		t.Fatalf("unexpected search result: %+v", found)
	}

	binned, err := r.List(repo.ListFilter{Deleted: repo.DeletedOnly()})
	if err != nil {
		t.Fatal(err)
	}
	if len(binned) != 1 || binned[0].ID != b3.ID {
		t.Fatalf("unexpected bin content: %+v", binned)
	}
}

func TestBookmark_Dirty_Order_Preserved(t *testing.T) {
	_, r, col, clock := newTestRepos(t, "dirtyuser")

	b1, _ := r.Add(model.Bookmark{URL: "https://a", Title: "A", CollectionID: col.ID})
	b2, _ := r.Add(model.Bookmark{URL: "https://b", Title: "B", CollectionID: col.ID})

	// повторное изменение b1 не двигает его в конец очереди
	*clock = 2000
	title := "A2"
	if _, err := r.Update(b1.ID, repo.BookmarkPatch{Title: &title}); err != nil {
		t.Fatal(err)
	}

	dirty, err := r.Dirty()
	if err != nil {
		t.Fatal(err)
	}
	if len(dirty) != 2 || dirty[0].ID != b1.ID || dirty[1].ID != b2.ID {
		ids := make([]string, 0, len(dirty))
		for _, d := range dirty {
			ids = append(ids, d.ID)
		}
		t.Fatalf("unexpected dirty order: %v (want [%s %s])", ids, b1.ID, b2.ID)
	}

	if err := r.MarkClean(b1.ID); err != nil {
		t.Fatal(err)
	}
	dirty, _ = r.Dirty()
	if len(dirty) != 1 || dirty[0].ID != b2.ID {
		t.Fatalf("unexpected dirty set after MarkClean: %+v", dirty)
	}
}

func TestBookmark_ApplyRemote_NoDirty(t *testing.T) {
	_, r, col, _ := newTestRepos(t, "pull")

	remote := model.Bookmark{
		ID: "srv-1", URL: "https://srv", Title: "Server copy",
		CollectionID: col.ID, CreatedAt: 500, UpdatedAt: 900,
	}
	if err := r.ApplyRemote(remote); err != nil {
		t.Fatalf("ApplyRemote insert: %v", err)
	}
	got, err := r.Get("srv-1")
	if err != nil {
		t.Fatal(err)
	}
	if got.UpdatedAt != 900 {
		t.Fatalf("unexpected row: %+v", got)
	}

	// повторное применение обновляет строку и по-прежнему не делает её dirty
	remote.Title = "Server copy v2"
	remote.UpdatedAt = 950
	if err := r.ApplyRemote(remote); err != nil {
		t.Fatalf("ApplyRemote update: %v", err)
	}

	dirty, err := r.Dirty()
	if err != nil {
		t.Fatal(err)
	}
	for _, d := range dirty {
		if d.ID == "srv-1" {
			t.Fatalf("remote apply marked row dirty")
		}
	}
}

func TestBookmark_ReassignCollection(t *testing.T) {
	st, r, col, _ := newTestRepos(t, "moveuser")

	work, err := st.Collections().Add(model.Collection{Name: "Work"})
	if err != nil {
		t.Fatal(err)
	}
	b1, _ := r.Add(model.Bookmark{URL: "https://a", Title: "A", CollectionID: work.ID})
	b2, _ := r.Add(model.Bookmark{URL: "https://b", Title: "B", CollectionID: work.ID})

	moved, err := r.ReassignCollection(work.ID, col.ID)
	if err != nil {
		t.Fatalf("ReassignCollection: %v", err)
	}
	if moved != 2 {
		t.Fatalf("expected 2 moved, got %d", moved)
	}
	for _, id := range []string{b1.ID, b2.ID} {
		got, _ := r.Get(id)
		if got.CollectionID != col.ID {
			t.Fatalf("bookmark %s not reassigned: %+v", id, got)
		}
	}
}
