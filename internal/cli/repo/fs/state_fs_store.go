package fs

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// StateFSStore — файловое хранилище контекста пользователя для CLI:
// текущий логин и курсоры pull-синхронизации по типам записей.
type StateFSStore struct{}

func configDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	p := filepath.Join(dir, "LinkKeeper")
	if err := os.MkdirAll(p, 0o700); err != nil {
		return "", err
	}
	return p, nil
}

func lastLoginPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "last_login"), nil
}

func cursorPath(login, entity string) (string, error) {
	if login == "" {
		return "", errors.New("empty login for sync cursor")
	}
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	// Храним per-user, чтобы поддерживать несколько аккаунтов
	return filepath.Join(dir, "cursor_"+entity+"_"+login), nil
}

// SaveLogin запоминает активного пользователя.
func (StateFSStore) SaveLogin(login string) error {
	p, err := lastLoginPath()
	if err != nil {
		return err
	}
	return os.WriteFile(p, []byte(login), 0o600)
}

// LoadLogin возвращает активного пользователя или ошибку, если login не задан.
func (StateFSStore) LoadLogin() (string, error) {
	p, err := lastLoginPath()
	if err != nil {
		return "", err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		return "", err
	}
	login := strings.TrimSpace(string(b))
	if login == "" {
		return "", errors.New("no active login")
	}
	return login, nil
}

// ClearLogin сбрасывает активного пользователя.
func (StateFSStore) ClearLogin() error {
	p, err := lastLoginPath()
	if err != nil {
		return err
	}
	err = os.Remove(p)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// SaveCursor фиксирует курсор последнего успешного pull для типа записей.
func (StateFSStore) SaveCursor(login, entity string, cursor int64) error {
	p, err := cursorPath(login, entity)
	if err != nil {
		return err
	}
	return os.WriteFile(p, []byte(strconv.FormatInt(cursor, 10)), 0o600)
}

// LoadCursor возвращает сохранённый курсор; отсутствие файла — ноль.
func (StateFSStore) LoadCursor(login, entity string) (int64, error) {
	p, err := cursorPath(login, entity)
	if err != nil {
		return 0, err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}
	v, err := strconv.ParseInt(strings.TrimSpace(string(b)), 10, 64)
	if err != nil {
		return 0, err
	}
	return v, nil
}
