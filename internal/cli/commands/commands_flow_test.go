package commands

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"LinkKeeper/internal/config"
)

// Сквозной сценарий работы CLI без сервера: коллекции, закладки, корзина,
// экспорт и импорт.
func TestCommands_LocalFlow(t *testing.T) {
	withActiveUser(t, "flow")
	ctx := context.Background()
	cfg := &config.Config{} // ServerURL пуст: remote не настроен

	if err := (colAddCmd{}).Run(ctx, cfg, []string{"Work"}); err != nil {
		t.Fatalf("col-add: %v", err)
	}

	if err := (addCmd{}).Run(ctx, cfg, []string{"https://go.dev", "--title", "Go", "--col", "Work", "--no-fetch"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := (addCmd{}).Run(ctx, cfg, []string{"https://example.com", "--title", "Example", "--no-fetch"}); err != nil {
		t.Fatalf("add second: %v", err)
	}

	out := withStdoutCapture(t, func() {
		if err := (listCmd{}).Run(ctx, cfg, []string{}); err != nil {
			t.Fatalf("list: %v", err)
		}
	})
	if !strings.Contains(out, "Go") || !strings.Contains(out, "Example") || !strings.Contains(out, "Всего: 2") {
		t.Fatalf("unexpected list output: %s", out)
	}

	out = withStdoutCapture(t, func() {
		if err := (listCmd{}).Run(ctx, cfg, []string{"--col", "Work"}); err != nil {
			t.Fatalf("list --col: %v", err)
		}
	})
	if !strings.Contains(out, "Go") || strings.Contains(out, "Example") {
		t.Fatalf("collection filter failed: %s", out)
	}

	out = withStdoutCapture(t, func() {
		if err := (searchCmd{}).Run(ctx, cfg, []string{"example"}); err != nil {
			t.Fatalf("search: %v", err)
		}
	})
	if !strings.Contains(out, "Example") || strings.Contains(out, "Go  https") {
		t.Fatalf("unexpected search output: %s", out)
	}

	// вытащим id закладки Go из вывода списка
	id := extractID(t, out, "Example")

	if err := (delCmd{}).Run(ctx, cfg, []string{id}); err != nil {
		t.Fatalf("del: %v", err)
	}
	out = withStdoutCapture(t, func() {
		if err := (binCmd{}).Run(ctx, cfg, []string{}); err != nil {
			t.Fatalf("bin: %v", err)
		}
	})
	if !strings.Contains(out, "Example") || !strings.Contains(out, "days left: 7") {
		t.Fatalf("unexpected bin output: %s", out)
	}

	if err := (restoreCmd{}).Run(ctx, cfg, []string{id}); err != nil {
		t.Fatalf("restore: %v", err)
	}
	out = withStdoutCapture(t, func() { _ = (binCmd{}).Run(ctx, cfg, []string{}) })
	if !strings.Contains(out, "Корзина пуста") {
		t.Fatalf("bin should be empty: %s", out)
	}
}

// extractID находит uuid в строке вывода, содержащей подстроку needle.
func extractID(t *testing.T, out, needle string) string {
	t.Helper()
	for _, line := range strings.Split(out, "\n") {
		if !strings.Contains(line, needle) || !strings.HasPrefix(line, "- ") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) >= 2 {
			return fields[1]
		}
	}
	t.Fatalf("id not found in output: %s", out)
	return ""
}

func TestCommands_ExportImport(t *testing.T) {
	withActiveUser(t, "exporter")
	ctx := context.Background()
	cfg := &config.Config{}

	if err := (colAddCmd{}).Run(ctx, cfg, []string{"Work"}); err != nil {
		t.Fatal(err)
	}
	if err := (addCmd{}).Run(ctx, cfg, []string{"https://go.dev", "--title", "Go", "--col", "Work", "--no-fetch"}); err != nil {
		t.Fatal(err)
	}

	file := filepath.Join(t.TempDir(), "backup.json")
	out := withStdoutCapture(t, func() {
		if err := (exportCmd{}).Run(ctx, cfg, []string{"--out", file}); err != nil {
			t.Fatalf("export: %v", err)
		}
	})
	if !strings.Contains(out, "Exported 1 bookmarks") {
		t.Fatalf("unexpected export output: %s", out)
	}

	// вливаем бэкап второму пользователю
	withActiveUser(t, "importer")
	out = withStdoutCapture(t, func() {
		if err := (importCmd{}).Run(ctx, cfg, []string{file}); err != nil {
			t.Fatalf("import: %v", err)
		}
	})
	if !strings.Contains(out, "Bookmarks imported: 1") {
		t.Fatalf("unexpected import output: %s", out)
	}

	out = withStdoutCapture(t, func() {
		if err := (listCmd{}).Run(ctx, cfg, []string{"--col", "Work"}); err != nil {
			t.Fatalf("list after import: %v", err)
		}
	})
	if !strings.Contains(out, "Go") {
		t.Fatalf("imported bookmark missing: %s", out)
	}
}

func TestCommands_UsageErrors(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{}

	if err := (loginCmd{}).Run(ctx, cfg, []string{}); err != ErrUsage {
		t.Fatalf("login usage expected, got %v", err)
	}
	if err := (addCmd{}).Run(ctx, cfg, []string{}); err != ErrUsage {
		t.Fatalf("add usage expected, got %v", err)
	}
	if err := (moveCmd{}).Run(ctx, cfg, []string{"one"}); err != ErrUsage {
		t.Fatalf("move usage expected, got %v", err)
	}
	if err := (importCmd{}).Run(ctx, cfg, []string{}); err != ErrUsage {
		t.Fatalf("import usage expected, got %v", err)
	}
}
