package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"LinkKeeper/internal/cli/bootstrap"
	"LinkKeeper/internal/cli/service"
	"LinkKeeper/internal/config"
)

type colAddCmd struct{}

func (colAddCmd) Name() string        { return "col-add" }
func (colAddCmd) Description() string { return "Создать коллекцию" }
func (colAddCmd) Usage() string {
	return "col-add <name> [--desc <d>] [--icon <i>] [--color <c>]"
}

func (colAddCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 1 {
		return ErrUsage
	}
	name := args[0]

	fs := flag.NewFlagSet("col-add", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	desc := fs.String("desc", "", "описание")
	icon := fs.String("icon", "", "иконка")
	color := fs.String("color", "", "цвет в hex")
	if err := fs.Parse(args[1:]); err != nil {
		return ErrUsage
	}

	s, done, err := bootstrap.Open(cfg)
	if err != nil {
		return err
	}
	defer done()

	svc := service.NewCollectionService(s.Cols, s.Books)
	c, err := svc.Add(name, *desc, *icon, *color)
	if err != nil {
		return err
	}
	fmt.Fprintf(Out, "Created %s  %s\n", c.ID, c.Name)
	return nil
}

func init() { RegisterCmd(colAddCmd{}) }
