package commands

import (
	"context"
	"fmt"

	"LinkKeeper/internal/cli/bootstrap"
	"LinkKeeper/internal/cli/service"
	"LinkKeeper/internal/config"
)

type moveCmd struct{}

func (moveCmd) Name() string        { return "move" }
func (moveCmd) Description() string { return "Перенести закладку в другую коллекцию" }
func (moveCmd) Usage() string       { return "move <id> <collection>" }

func (moveCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 2 {
		return ErrUsage
	}

	s, done, err := bootstrap.Open(cfg)
	if err != nil {
		return err
	}
	defer done()

	svc := service.NewBookmarkService(s.Books, s.Cols, nil)
	b, err := svc.Move(args[0], args[1])
	if err != nil {
		return err
	}
	fmt.Fprintf(Out, "Moved %s to %s\n", b.ID, args[1])
	return nil
}

func init() { RegisterCmd(moveCmd{}) }
