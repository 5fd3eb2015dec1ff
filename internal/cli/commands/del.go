package commands

import (
	"context"
	"errors"
	"fmt"

	"LinkKeeper/internal/cli/bootstrap"
	"LinkKeeper/internal/cli/repo"
	"LinkKeeper/internal/cli/service"
	"LinkKeeper/internal/config"
)

type delCmd struct{}

func (delCmd) Name() string        { return "del" }
func (delCmd) Description() string { return "Отправить закладку в корзину" }
func (delCmd) Usage() string       { return "del <id>" }

func (delCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	id := args[0]

	s, done, err := bootstrap.Open(cfg)
	if err != nil {
		return err
	}
	defer done()

	svc := service.NewBookmarkService(s.Books, s.Cols, nil)
	if err := svc.SoftDelete(id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return fmt.Errorf("bookmark %s not found", id)
		}
		return err
	}
	fmt.Fprintf(Out, "Moved to recycle bin: %s\n", id)
	return nil
}

func init() { RegisterCmd(delCmd{}) }
