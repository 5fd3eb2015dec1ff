package commands

import (
	"context"
	"fmt"
	"strings"

	fsrepo "LinkKeeper/internal/cli/repo/fs"
	reposqlite "LinkKeeper/internal/cli/repo/sqlite"
	"LinkKeeper/internal/config"
)

type loginCmd struct{}

func (loginCmd) Name() string        { return "login" }
func (loginCmd) Description() string { return "Выбрать активного пользователя" }
func (loginCmd) Usage() string       { return "login <name>" }

func (loginCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	login := strings.TrimSpace(args[0])
	if login == "" {
		return ErrUsage
	}

	// создаём БД пользователя сразу, чтобы первая команда не спотыкалась
	st, dbPath, err := reposqlite.OpenForUser(login)
	if err != nil {
		return fmt.Errorf("open user db: %w", err)
	}
	defer st.Close()
	if err := st.Migrate(); err != nil {
		return fmt.Errorf("migrate user db: %w", err)
	}
	if _, err := st.Collections().EnsureDefault(); err != nil {
		return fmt.Errorf("ensure default collection: %w", err)
	}

	if err := (fsrepo.StateFSStore{}).SaveLogin(login); err != nil {
		return fmt.Errorf("saving login: %w", err)
	}
	fmt.Fprintf(Out, "Logged in as %s\n", login)
	fmt.Fprintf(Out, "Database: %s\n", dbPath)
	return nil
}

func init() { RegisterCmd(loginCmd{}) }
