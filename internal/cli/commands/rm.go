package commands

import (
	"context"
	"errors"
	"fmt"

	"LinkKeeper/internal/cli/bootstrap"
	"LinkKeeper/internal/cli/repo"
	"LinkKeeper/internal/config"
)

type rmCmd struct{}

func (rmCmd) Name() string        { return "rm" }
func (rmCmd) Description() string { return "Удалить запись насовсем, минуя корзину" }
func (rmCmd) Usage() string       { return "rm <id>" }

func (rmCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
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

	// запись может быть закладкой или коллекцией; пробуем по очереди
	if _, err := s.Books.Get(id); err == nil {
		if err := bin.PermanentDeleteBookmark(ctx, id); err != nil {
			return err
		}
		fmt.Fprintf(Out, "Removed permanently: %s\n", id)
		return nil
	} else if !errors.Is(err, repo.ErrNotFound) {
		return err
	}

	if _, err := s.Cols.Get(id); err == nil {
		if err := bin.PermanentDeleteCollection(ctx, id); err != nil {
			return err
		}
		fmt.Fprintf(Out, "Removed permanently: %s\n", id)
		return nil
	} else if !errors.Is(err, repo.ErrNotFound) {
		return err
	}

	return fmt.Errorf("%s not found", id)
}

func init() { RegisterCmd(rmCmd{}) }
