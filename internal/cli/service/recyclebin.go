package service

import (
	"context"
	"fmt"
	"time"

	"LinkKeeper/internal/cli/repo"

	"go.uber.org/zap"
)

// RetentionDays — окно хранения мягко удалённых записей до авто-очистки.
const RetentionDays = 7

const secondsPerDay = 24 * 60 * 60

// DaysRemaining возвращает целые дни до авто-очистки записи, удалённой в
// deletedAt. Ноль означает «подлежит очистке следующим проходом», а не
// немедленное удаление. Чистая функция — без зависимости от часов.
func DaysRemaining(deletedAt, now int64) int {
	if deletedAt <= 0 {
		return RetentionDays
	}
	elapsed := int((now - deletedAt) / secondsPerDay)
	if elapsed >= RetentionDays {
		return 0
	}
	return RetentionDays - elapsed
}

// purgeEligible — удалена ли запись достаточно давно для очистки.
func purgeEligible(deletedAt, now int64) bool {
	return deletedAt > 0 && now-deletedAt >= RetentionDays*secondsPerDay
}

// RecycleBin управляет жизненным циклом мягко удалённых записей: restore,
// окончательное удаление, очистка по ретеншену. remote может быть nil —
// тогда облачные операции пропускаются (пользователь офлайн/не авторизован).
type RecycleBin struct {
	books  repo.BookmarkRepository
	cols   repo.CollectionRepository
	remote RemoteStore
	userID string
	log    *zap.SugaredLogger
}

func NewRecycleBin(cols repo.CollectionRepository, books repo.BookmarkRepository,
	remote RemoteStore, userID string, logger *zap.SugaredLogger) *RecycleBin {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &RecycleBin{books: books, cols: cols, remote: remote, userID: userID, log: logger}
}

// DeletedItem — строка корзины для отображения.
type DeletedItem struct {
	Kind          string // "bookmark" | "collection"
	ID            string
	Title         string
	DeletedAt     int64
	DaysRemaining int
}

// List возвращает содержимое корзины с остатком дней до очистки.
func (r *RecycleBin) List(now int64) ([]DeletedItem, error) {
	var items []DeletedItem
	cols, err := r.cols.List(repo.ListFilter{Deleted: repo.DeletedOnly()})
	if err != nil {
		return nil, err
	}
	for _, c := range cols {
		items = append(items, DeletedItem{
			Kind: "collection", ID: c.ID, Title: c.Name,
			DeletedAt: c.DeletedAt, DaysRemaining: DaysRemaining(c.DeletedAt, now),
		})
	}
	books, err := r.books.List(repo.ListFilter{Deleted: repo.DeletedOnly()})
	if err != nil {
		return nil, err
	}
	for _, b := range books {
		items = append(items, DeletedItem{
			Kind: "bookmark", ID: b.ID, Title: b.Title,
			DeletedAt: b.DeletedAt, DaysRemaining: DaysRemaining(b.DeletedAt, now),
		})
	}
	return items, nil
}

// PurgeExpired вычищает записи, чьё окно хранения истекло. Идемпотентна и
// безопасна для повторного запуска. Запись, чьё мягкое удаление ещё не
// подтверждено сервером (dirty при настроенном remote), откладывается,
// чтобы зеркало гарантированно увидело удаление.
func (r *RecycleBin) PurgeExpired(now int64) (int, error) {
	deferIDs, err := r.unackedDeletes()
	if err != nil {
		return 0, err
	}

	purged := 0

	cols, err := r.cols.List(repo.ListFilter{Deleted: repo.DeletedOnly()})
	if err != nil {
		return purged, err
	}
	for _, c := range cols {
		if !purgeEligible(c.DeletedAt, now) || deferIDs[c.ID] {
			continue
		}
		// осиротевшие закладки уходят в Miscellaneous до удаления коллекции
		if err := r.reassignOrphans(c.ID); err != nil {
			return purged, err
		}
		if err := r.cols.HardDelete(c.ID); err != nil {
			return purged, err
		}
		purged++
	}

	books, err := r.books.List(repo.ListFilter{Deleted: repo.DeletedOnly()})
	if err != nil {
		return purged, err
	}
	for _, b := range books {
		if !purgeEligible(b.DeletedAt, now) || deferIDs[b.ID] {
			continue
		}
		if err := r.books.HardDelete(b.ID); err != nil {
			return purged, err
		}
		purged++
	}

	if purged > 0 {
		r.log.Infow("recycle bin purge completed", "purged", purged)
	}
	return purged, nil
}

// unackedDeletes — id записей, чьё удаление ещё не дошло до сервера.
func (r *RecycleBin) unackedDeletes() (map[string]bool, error) {
	ids := map[string]bool{}
	if r.remote == nil {
		return ids, nil
	}
	dirtyCols, err := r.cols.Dirty()
	if err != nil {
		return nil, err
	}
	for _, c := range dirtyCols {
		if c.Deleted {
			ids[c.ID] = true
		}
	}
	dirtyBooks, err := r.books.Dirty()
	if err != nil {
		return nil, err
	}
	for _, b := range dirtyBooks {
		if b.Deleted {
			ids[b.ID] = true
		}
	}
	return ids, nil
}

func (r *RecycleBin) reassignOrphans(collectionID string) error {
	def, err := r.cols.EnsureDefault()
	if err != nil {
		return err
	}
	if def.ID == collectionID {
		return nil
	}
	_, err = r.books.ReassignCollection(collectionID, def.ID)
	return err
}

// RestoreBookmark возвращает закладку из корзины и, при наличии remote,
// сразу переотправляет её на сервер.
func (r *RecycleBin) RestoreBookmark(ctx context.Context, id string) error {
	if err := r.books.Restore(id); err != nil {
		return err
	}
	if r.remote == nil {
		return nil
	}
	b, err := r.books.Get(id)
	if err != nil {
		return err
	}
	if err := r.remote.UpsertBookmark(ctx, r.userID, *b); err != nil {
		// запись остаётся dirty, доедет следующим sync-проходом
		r.log.Warnw("restore push failed, will retry on next sync", "id", id, "error", err)
		return nil
	}
	return r.books.MarkClean(id)
}

// RestoreCollection возвращает коллекцию из корзины.
func (r *RecycleBin) RestoreCollection(ctx context.Context, id string) error {
	if err := r.cols.Restore(id); err != nil {
		return err
	}
	if r.remote == nil {
		return nil
	}
	c, err := r.cols.Get(id)
	if err != nil {
		return err
	}
	if err := r.remote.UpsertCollection(ctx, r.userID, *c); err != nil {
		r.log.Warnw("restore push failed, will retry on next sync", "id", id, "error", err)
		return nil
	}
	return r.cols.MarkClean(id)
}

// PermanentDeleteBookmark удаляет закладку насовсем, включая облачную копию.
func (r *RecycleBin) PermanentDeleteBookmark(ctx context.Context, id string) error {
	if err := r.books.HardDelete(id); err != nil {
		return err
	}
	if r.remote == nil {
		return nil
	}
	if err := r.remote.DeleteBookmark(ctx, r.userID, id); err != nil {
		return fmt.Errorf("bookmark removed locally, cloud delete failed: %w", err)
	}
	return nil
}

// PermanentDeleteCollection удаляет коллекцию насовсем. Осиротевшие закладки
// предварительно переводятся в Miscellaneous.
func (r *RecycleBin) PermanentDeleteCollection(ctx context.Context, id string) error {
	if err := r.reassignOrphans(id); err != nil {
		return err
	}
	if err := r.cols.HardDelete(id); err != nil {
		return err
	}
	if r.remote == nil {
		return nil
	}
	if err := r.remote.DeleteCollection(ctx, r.userID, id); err != nil {
		return fmt.Errorf("collection removed locally, cloud delete failed: %w", err)
	}
	return nil
}

// EmptyAll окончательно удаляет всё содержимое корзины одной пачкой.
// Последовательность идемпотентных одиночных удалений: повтор после сбоя
// безопасен и доводит корзину до пустого состояния.
func (r *RecycleBin) EmptyAll(ctx context.Context) (int, error) {
	removed := 0
	cols, err := r.cols.List(repo.ListFilter{Deleted: repo.DeletedOnly()})
	if err != nil {
		return removed, err
	}
	for _, c := range cols {
		if err := r.PermanentDeleteCollection(ctx, c.ID); err != nil {
			return removed, err
		}
		removed++
	}
	books, err := r.books.List(repo.ListFilter{Deleted: repo.DeletedOnly()})
	if err != nil {
		return removed, err
	}
	for _, b := range books {
		if err := r.PermanentDeleteBookmark(ctx, b.ID); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

// PurgeNow — обёртка для вызова при старте процесса.
func (r *RecycleBin) PurgeNow() (int, error) {
	return r.PurgeExpired(time.Now().Unix())
}
