package commands

import (
	"context"
	"errors"
	"fmt"

	"LinkKeeper/internal/cli/bootstrap"
	"LinkKeeper/internal/cli/service"
	"LinkKeeper/internal/config"
)

type syncCmd struct{}

func (syncCmd) Name() string { return "sync" }
func (syncCmd) Description() string {
	return "Синхронизировать локальное хранилище с сервером"
}
func (syncCmd) Usage() string { return "sync" }

func (syncCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}

	s, done, err := bootstrap.Open(cfg)
	if err != nil {
		return err
	}
	defer done()

	if s.Remote == nil {
		return errors.New("server URL is not configured")
	}

	fmt.Fprintln(Out, "→ Запуск синхронизации…")

	report, err := s.Engine(nil).Sync(ctx, s.Login)
	if err != nil {
		if errors.Is(err, service.ErrSyncUnavailable) {
			fmt.Fprintf(Out, "× Сервер недоступен, изменения остаются локальными: %v\n", err)
			return nil
		}
		return err
	}

	printSyncReport(report)
	return nil
}

func printSyncReport(r *service.SyncReport) {
	if r.MergedDuplicates > 0 {
		fmt.Fprintf(Out, "• Слито дублей коллекций: %d\n", r.MergedDuplicates)
	}
	if r.PushedCollections+r.PushedBookmarks > 0 {
		fmt.Fprintf(Out, "✓ Отправлено: %d коллекций, %d закладок\n", r.PushedCollections, r.PushedBookmarks)
	}
	if r.PulledCollections+r.PulledBookmarks > 0 {
		fmt.Fprintf(Out, "✓ Получено: %d коллекций, %d закладок\n", r.PulledCollections, r.PulledBookmarks)
	}
	for _, rej := range r.Rejected {
		fmt.Fprintf(Out, "! Отклонено сервером %s: %s\n", rej.EntityID, rej.Reason)
	}
	if r.MergedDuplicates == 0 && r.PushedCollections+r.PushedBookmarks == 0 &&
		r.PulledCollections+r.PulledBookmarks == 0 && len(r.Rejected) == 0 {
		fmt.Fprintln(Out, "• Изменений нет")
	}
}

func init() { RegisterCmd(syncCmd{}) }
