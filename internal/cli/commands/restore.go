package commands

import (
	"context"
	"errors"
	"fmt"

	"LinkKeeper/internal/cli/bootstrap"
	"LinkKeeper/internal/cli/repo"
	"LinkKeeper/internal/config"
)

type restoreCmd struct{}

func (restoreCmd) Name() string        { return "restore" }
func (restoreCmd) Description() string { return "Вернуть запись из корзины" }
func (restoreCmd) Usage() string       { return "restore <id>" }

func (restoreCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	id := args[0]

	s, done, err := bootstrap.Open(cfg)
	if err != nil {
		return err
	}
	defer done()

	bin := s.Bin(nil)
	err = bin.RestoreBookmark(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		err = bin.RestoreCollection(ctx, id)
	}
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return fmt.Errorf("%s not found in recycle bin", id)
		}
		if errors.Is(err, repo.ErrInvalidState) {
			return fmt.Errorf("%s is not deleted", id)
		}
		return err
	}
	fmt.Fprintf(Out, "Restored: %s\n", id)
	return nil
}

func init() { RegisterCmd(restoreCmd{}) }
