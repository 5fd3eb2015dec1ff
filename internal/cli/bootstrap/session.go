package bootstrap

import (
	"fmt"

	"go.uber.org/zap"

	"LinkKeeper/internal/cli/api"
	"LinkKeeper/internal/cli/repo"
	fsrepo "LinkKeeper/internal/cli/repo/fs"
	reposqlite "LinkKeeper/internal/cli/repo/sqlite"
	"LinkKeeper/internal/cli/service"
	"LinkKeeper/internal/config"
)

// Session — рабочее окружение одной CLI-команды: хранилище текущего
// пользователя и клиент облачного зеркала.
type Session struct {
	Login  string
	Store  *reposqlite.Store
	Books  repo.BookmarkRepository
	Cols   repo.CollectionRepository
	Remote service.RemoteStore
	State  fsrepo.StateFSStore
}

// Open открывает БД текущего пользователя, выполняет миграции, гарантирует
// коллекцию по умолчанию и прогоняет ретеншен-очистку корзины.
// Возвращает (session, cleanup, error); cleanup закрывает соединение с БД.
func Open(cfg *config.Config) (*Session, func() error, error) {
	login, err := (fsrepo.StateFSStore{}).LoadLogin()
	if err != nil {
		return nil, nil, fmt.Errorf("нет активного пользователя: выполните login: %w", err)
	}
	st, _, err := reposqlite.OpenForUser(login)
	if err != nil {
		return nil, nil, fmt.Errorf("open user db: %w", err)
	}
	if err := st.Migrate(); err != nil {
		_ = st.Close()
		return nil, nil, fmt.Errorf("migrate user db: %w", err)
	}

	s := &Session{
		Login: login,
		Store: st,
		Books: st.Bookmarks(),
		Cols:  st.Collections(),
	}
	if cfg != nil && cfg.ServerURL != "" {
		s.Remote = api.New(cfg.ServerURL)
	}

	if _, err := s.Cols.EnsureDefault(); err != nil {
		_ = st.Close()
		return nil, nil, fmt.Errorf("ensure default collection: %w", err)
	}

	// очистка корзины при старте процесса; сбой не блокирует команду
	_, _ = s.Bin(nil).PurgeNow()

	cleanup := func() error { return st.Close() }
	return s, cleanup, nil
}

// Bin собирает корзину поверх сессии. logger может быть nil.
func (s *Session) Bin(logger *zap.SugaredLogger) *service.RecycleBin {
	return service.NewRecycleBin(s.Cols, s.Books, s.Remote, s.Login, logger)
}

// Engine собирает sync-движок поверх сессии. logger может быть nil.
func (s *Session) Engine(logger *zap.SugaredLogger) *service.SyncEngine {
	return service.NewSyncEngine(s.Cols, s.Books, s.Remote, s.State, logger)
}
