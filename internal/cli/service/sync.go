package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"LinkKeeper/internal/cli/model"
	"LinkKeeper/internal/cli/repo"

	"go.uber.org/zap"
)

// Имена типов записей для курсоров pull-синхронизации.
const (
	entityCollections = "collections"
	entityBookmarks   = "bookmarks"
)

// SyncReport — сводка одного прохода синхронизации.
type SyncReport struct {
	// Coalesced: триггер пришёл во время уже идущего прохода и был
	// схлопнут в отложенный повтор.
	Coalesced bool

	MergedDuplicates  int
	PushedCollections int
	PushedBookmarks   int
	PulledCollections int
	PulledBookmarks   int

	// Rejected — записи, окончательно отвергнутые сервером в этом проходе.
	// Они остаются dirty и будут предложены снова.
	Rejected []RejectedError
}

// SyncEngine поддерживает согласованность локального хранилища и облачного
// зеркала. Коллекции синхронизируются раньше закладок, чтобы ссылки на
// коллекции были разрешимы при применении закладок.
type SyncEngine struct {
	cols   repo.CollectionRepository
	books  repo.BookmarkRepository
	remote RemoteStore
	state  SyncState
	log    *zap.SugaredLogger

	mu      sync.Mutex
	running bool
	pending bool
}

// NewSyncEngine создаёт движок. logger может быть nil.
func NewSyncEngine(cols repo.CollectionRepository, books repo.BookmarkRepository,
	remote RemoteStore, state SyncState, logger *zap.SugaredLogger) *SyncEngine {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &SyncEngine{cols: cols, books: books, remote: remote, state: state, log: logger}
}

// Sync выполняет полный проход push/pull для пользователя userID.
// Не более одного прохода одновременно: параллельный вызов не запускает
// второй проход, а планирует один отложенный повтор после текущего.
func (e *SyncEngine) Sync(ctx context.Context, userID string) (*SyncReport, error) {
	e.mu.Lock()
	if e.running {
		e.pending = true
		e.mu.Unlock()
		return &SyncReport{Coalesced: true}, nil
	}
	e.running = true
	e.mu.Unlock()
	defer func() {
		e.mu.Lock()
		e.running = false
		e.mu.Unlock()
	}()

	for {
		report, err := e.pass(ctx, userID)

		e.mu.Lock()
		again := e.pending
		e.pending = false
		e.mu.Unlock()

		if err != nil || !again {
			return report, err
		}
		// был отложенный триггер — повторяем проход
	}
}

// pass — один проход: слияние дублей, затем push/pull коллекций, затем
// push/pull закладок.
func (e *SyncEngine) pass(ctx context.Context, userID string) (*SyncReport, error) {
	report := &SyncReport{}

	// remap: id влитых коллекций-дублей -> id канонической
	remap, err := e.mergeDuplicateCollections(ctx, userID, report)
	if err != nil {
		return report, err
	}

	if err := e.pushCollections(ctx, userID, report); err != nil {
		return report, err
	}
	if err := e.pullCollections(ctx, userID, report); err != nil {
		return report, err
	}
	if err := e.pushBookmarks(ctx, userID, report); err != nil {
		return report, err
	}
	if err := e.pullBookmarks(ctx, userID, remap, report); err != nil {
		return report, err
	}

	e.log.Infow("sync pass completed",
		"user", userID,
		"merged", report.MergedDuplicates,
		"pushed_collections", report.PushedCollections,
		"pushed_bookmarks", report.PushedBookmarks,
		"pulled_collections", report.PulledCollections,
		"pulled_bookmarks", report.PulledBookmarks,
		"rejected", len(report.Rejected),
	)
	return report, nil
}

// mergeDuplicateCollections сливает активные коллекции с одинаковым именем
// (без учёта регистра): канонической остаётся самая ранняя по CreatedAt,
// закладки дублей переводятся на неё, дубли удаляются локально и на сервере.
// Системная Miscellaneous не может быть целью dedupe-удаления: если она в
// группе, каноническая — она, независимо от CreatedAt. Проход идемпотентен.
func (e *SyncEngine) mergeDuplicateCollections(ctx context.Context, userID string, report *SyncReport) (map[string]string, error) {
	active, err := e.cols.List(repo.ListFilter{Deleted: repo.Active()})
	if err != nil {
		return nil, err
	}
	byName := make(map[string][]model.Collection)
	for _, c := range active {
		key := strings.ToLower(c.Name)
		byName[key] = append(byName[key], c)
	}

	remap := make(map[string]string)
	for _, group := range byName {
		if len(group) < 2 {
			continue
		}
		// каноническая — самая ранняя; при равенстве времени меньший id
		sort.Slice(group, func(i, j int) bool {
			if group[i].CreatedAt != group[j].CreatedAt {
				return group[i].CreatedAt < group[j].CreatedAt
			}
			return group[i].ID < group[j].ID
		})
		canonical := group[0]
		for _, c := range group {
			if c.IsDefault() {
				canonical = c
				break
			}
		}
		for _, dup := range group {
			if dup.ID == canonical.ID {
				continue
			}
			moved, err := e.books.ReassignCollection(dup.ID, canonical.ID)
			if err != nil {
				return nil, err
			}
			// сервер первым: если зеркало недоступно, локальный дубль
			// остаётся и будет слит следующим проходом
			if err := e.remote.DeleteCollection(ctx, userID, dup.ID); err != nil {
				var rej *RejectedError
				if !errors.As(err, &rej) {
					return nil, fmt.Errorf("%w: delete duplicate collection: %v", ErrSyncUnavailable, err)
				}
			}
			if err := e.cols.HardDelete(dup.ID); err != nil {
				return nil, err
			}
			remap[dup.ID] = canonical.ID
			report.MergedDuplicates++
			e.log.Infow("merged duplicate collection",
				"name", canonical.Name, "kept", canonical.ID, "dropped", dup.ID, "bookmarks_moved", moved)
		}
	}
	return remap, nil
}

func (e *SyncEngine) pushCollections(ctx context.Context, userID string, report *SyncReport) error {
	dirty, err := e.cols.Dirty()
	if err != nil {
		return err
	}
	for _, c := range dirty {
		if err := e.remote.UpsertCollection(ctx, userID, c); err != nil {
			var rej *RejectedError
			if errors.As(err, &rej) {
				// запись пропускаем, остаётся dirty для повтора
				report.Rejected = append(report.Rejected, *rej)
				e.log.Warnw("collection rejected by server", "id", c.ID, "reason", rej.Reason)
				continue
			}
			return fmt.Errorf("%w: push collection %s: %v", ErrSyncUnavailable, c.ID, err)
		}
		if err := e.cols.MarkClean(c.ID); err != nil {
			return err
		}
		report.PushedCollections++
	}
	return nil
}

func (e *SyncEngine) pushBookmarks(ctx context.Context, userID string, report *SyncReport) error {
	dirty, err := e.books.Dirty()
	if err != nil {
		return err
	}
	for _, b := range dirty {
		if err := e.remote.UpsertBookmark(ctx, userID, b); err != nil {
			var rej *RejectedError
			if errors.As(err, &rej) {
				report.Rejected = append(report.Rejected, *rej)
				e.log.Warnw("bookmark rejected by server", "id", b.ID, "reason", rej.Reason)
				continue
			}
			return fmt.Errorf("%w: push bookmark %s: %v", ErrSyncUnavailable, b.ID, err)
		}
		if err := e.books.MarkClean(b.ID); err != nil {
			return err
		}
		report.PushedBookmarks++
	}
	return nil
}

func (e *SyncEngine) pullCollections(ctx context.Context, userID string, report *SyncReport) error {
	cursor, err := e.state.LoadCursor(userID, entityCollections)
	if err != nil {
		return err
	}
	changes, next, err := e.remote.CollectionsSince(ctx, userID, cursor)
	if err != nil {
		return fmt.Errorf("%w: pull collections: %v", ErrSyncUnavailable, err)
	}
	for _, remote := range changes {
		apply, err := e.shouldApplyCollection(remote)
		if err != nil {
			return err
		}
		if !apply {
			continue
		}
		if err := e.cols.ApplyRemote(remote); err != nil {
			return err
		}
		report.PulledCollections++
	}
	if next > cursor {
		if err := e.state.SaveCursor(userID, entityCollections, next); err != nil {
			return err
		}
	}
	return nil
}

// shouldApplyCollection — last-writer-wins по UpdatedAt, при равенстве
// побеждает локальная копия. Надгробие незнакомой записи игнорируется:
// локальная строка уже вычищена.
func (e *SyncEngine) shouldApplyCollection(remote model.Collection) (bool, error) {
	local, err := e.cols.Get(remote.ID)
	if errors.Is(err, repo.ErrNotFound) {
		return !remote.Deleted, nil
	}
	if err != nil {
		return false, err
	}
	return remote.UpdatedAt > local.UpdatedAt, nil
}

func (e *SyncEngine) pullBookmarks(ctx context.Context, userID string, remap map[string]string, report *SyncReport) error {
	cursor, err := e.state.LoadCursor(userID, entityBookmarks)
	if err != nil {
		return err
	}
	changes, next, err := e.remote.BookmarksSince(ctx, userID, cursor)
	if err != nil {
		return fmt.Errorf("%w: pull bookmarks: %v", ErrSyncUnavailable, err)
	}
	for _, remote := range changes {
		local, err := e.books.Get(remote.ID)
		switch {
		case errors.Is(err, repo.ErrNotFound):
			if remote.Deleted {
				continue
			}
		case err != nil:
			return err
		default:
			if remote.UpdatedAt <= local.UpdatedAt {
				continue
			}
		}
		if err := e.remapBookmarkCollection(&remote, remap); err != nil {
			return err
		}
		if err := e.books.ApplyRemote(remote); err != nil {
			return err
		}
		report.PulledBookmarks++
	}
	if next > cursor {
		if err := e.state.SaveCursor(userID, entityBookmarks, next); err != nil {
			return err
		}
	}
	return nil
}

// remapBookmarkCollection чинит ссылку закладки: влитые дубли заменяются
// канонической коллекцией, неразрешимая ссылка — коллекцией по умолчанию.
func (e *SyncEngine) remapBookmarkCollection(b *model.Bookmark, remap map[string]string) error {
	if canonical, ok := remap[b.CollectionID]; ok {
		b.CollectionID = canonical
		return nil
	}
	if b.CollectionID != "" {
		_, err := e.cols.Get(b.CollectionID)
		if err == nil {
			return nil
		}
		if !errors.Is(err, repo.ErrNotFound) {
			return err
		}
	}
	def, err := e.cols.EnsureDefault()
	if err != nil {
		return err
	}
	b.CollectionID = def.ID
	return nil
}
