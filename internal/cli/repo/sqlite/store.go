package sqlite

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Store — локальная БД SQLite одного пользователя. Служит фабрикой
// репозиториев закладок и коллекций, которые разделяют соединение и часы.
type Store struct {
	db    *sql.DB
	login string
	now   func() int64
}

// OpenForUser открывает (и создаёт при необходимости) файл БД для указанного
// логина и возвращает хранилище. Вторым значением возвращается путь к БД.
// Базовый каталог переопределяется переменной окружения CLIENT_DB_PATH.
func OpenForUser(login string) (*Store, string, error) {
	if login == "" {
		return nil, "", errors.New("empty login for user store")
	}
	base := os.Getenv("CLIENT_DB_PATH")
	if base == "" {
		cfgDir, err := os.UserConfigDir()
		if err != nil {
			return nil, "", err
		}
		base = filepath.Join(cfgDir, "LinkKeeper", "users")
	}
	dir := filepath.Join(base, login)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, "", err
	}
	dbPath := filepath.Join(dir, "client.sqlite")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, "", err
	}
	s := &Store{db: db, login: login, now: func() int64 { return time.Now().Unix() }}
	return s, dbPath, nil
}

// Close закрывает соединение с БД.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Migrate гарантирует наличие необходимых таблиц/индексов.
func (s *Store) Migrate() error {
	_, err := s.db.Exec(initialDDL())
	return err
}

// SetNowFunc подменяет источник времени (нужен тестам ретеншена).
func (s *Store) SetNowFunc(now func() int64) {
	s.now = now
}

// Bookmarks возвращает репозиторий закладок поверх этого хранилища.
func (s *Store) Bookmarks() *BookmarkRepositorySQLite {
	return &BookmarkRepositorySQLite{store: s}
}

// Collections возвращает репозиторий коллекций поверх этого хранилища.
func (s *Store) Collections() *CollectionRepositorySQLite {
	return &CollectionRepositorySQLite{store: s}
}
