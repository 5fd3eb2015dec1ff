package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"LinkKeeper/internal/cli/bootstrap"
	"LinkKeeper/internal/cli/model"
	"LinkKeeper/internal/cli/service"
	"LinkKeeper/internal/config"
)

type listCmd struct{}

func (listCmd) Name() string        { return "list" }
func (listCmd) Description() string { return "Показать активные закладки" }
func (listCmd) Usage() string       { return "list [--col <name>]" }

func (listCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	col := fs.String("col", "", "только закладки этой коллекции")
	if err := fs.Parse(args); err != nil {
		return ErrUsage
	}

	s, done, err := bootstrap.Open(cfg)
	if err != nil {
		return err
	}
	defer done()

	svc := service.NewBookmarkService(s.Books, s.Cols, nil)
	list, err := svc.List(*col)
	if err != nil {
		return err
	}
	printBookmarks(list)
	return nil
}

func printBookmarks(list []model.Bookmark) {
	if len(list) == 0 {
		fmt.Fprintln(Out, "Нет закладок")
		return
	}
	for _, b := range list {
		fmt.Fprintf(Out, "- %s  %s  %s\n", b.ID, b.Title, b.URL)
	}
	fmt.Fprintf(Out, "Всего: %d\n", len(list))
}

func init() { RegisterCmd(listCmd{}) }
