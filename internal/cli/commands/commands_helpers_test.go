package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	fsrepo "LinkKeeper/internal/cli/repo/fs"
	"LinkKeeper/internal/config"
)

// withTempConfig переопределяет пользовательские каталоги на время теста,
// чтобы артефакты (логин/курсоры/база) создавались в temp.
func withTempConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if runtime.GOOS == "windows" {
		t.Setenv("APPDATA", dir)
	} else {
		t.Setenv("XDG_CONFIG_HOME", dir)
	}
	db := filepath.Join(dir, "db")
	_ = os.MkdirAll(db, 0o700)
	t.Setenv("CLIENT_DB_PATH", db)
	return dir
}

// withActiveUser дополнительно логинит пользователя.
func withActiveUser(t *testing.T, login string) {
	t.Helper()
	withTempConfig(t)
	if err := (loginCmd{}).Run(context.Background(), &config.Config{}, []string{login}); err != nil {
		t.Fatalf("login: %v", err)
	}
	saved, err := (fsrepo.StateFSStore{}).LoadLogin()
	if err != nil || saved != login {
		t.Fatalf("login not saved: %q %v", saved, err)
	}
}

// перехват stdout на время теста
func withStdoutCapture(t *testing.T, fn func()) string {
	t.Helper()
	old := Out
	var buf bytes.Buffer
	Out = &buf
	defer func() { Out = old }()
	fn()
	return buf.String()
}
