package commands

import (
	"context"
	"fmt"
	"os"

	"LinkKeeper/internal/cli/bootstrap"
	"LinkKeeper/internal/cli/service"
	"LinkKeeper/internal/config"
)

type importCmd struct{}

func (importCmd) Name() string        { return "import" }
func (importCmd) Description() string { return "Влить переносимый JSON в хранилище" }
func (importCmd) Usage() string       { return "import <file>" }

func (importCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	doc, err := service.Parse(data)
	if err != nil {
		return err
	}

	s, done, err := bootstrap.Open(cfg)
	if err != nil {
		return err
	}
	defer done()

	engine := service.NewPortableEngine(s.Cols, s.Books)
	res, err := engine.Import(doc)
	if err != nil {
		return err
	}
	fmt.Fprint(Out, res.Summary())
	return nil
}

func init() { RegisterCmd(importCmd{}) }
