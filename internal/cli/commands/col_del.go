package commands

import (
	"context"
	"fmt"

	"LinkKeeper/internal/cli/bootstrap"
	"LinkKeeper/internal/cli/service"
	"LinkKeeper/internal/config"
)

type colDelCmd struct{}

func (colDelCmd) Name() string        { return "col-del" }
func (colDelCmd) Description() string { return "Отправить коллекцию в корзину" }
func (colDelCmd) Usage() string       { return "col-del <id>" }

func (colDelCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	id := args[0]

	s, done, err := bootstrap.Open(cfg)
	if err != nil {
		return err
	}
	defer done()

	svc := service.NewCollectionService(s.Cols, s.Books)
	if err := svc.SoftDelete(id); err != nil {
		return err
	}
	fmt.Fprintf(Out, "Moved to recycle bin: %s\n", id)
	return nil
}

func init() { RegisterCmd(colDelCmd{}) }
