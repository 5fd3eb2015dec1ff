package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"LinkKeeper/internal/cli/bootstrap"
	"LinkKeeper/internal/cli/metadata"
	"LinkKeeper/internal/cli/service"
	"LinkKeeper/internal/config"
)

type addCmd struct{}

func (addCmd) Name() string        { return "add" }
func (addCmd) Description() string { return "Добавить закладку" }
func (addCmd) Usage() string {
	return "add <url> [--title <t>] [--desc <d>] [--col <name>] [--no-fetch]"
}

func (addCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 1 {
		return ErrUsage
	}
	rawURL := args[0]

	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	title := fs.String("title", "", "заголовок закладки")
	desc := fs.String("desc", "", "описание")
	col := fs.String("col", "", "имя коллекции (по умолчанию Miscellaneous)")
	noFetch := fs.Bool("no-fetch", false, "не обогащать метаданными страницы")
	if err := fs.Parse(args[1:]); err != nil {
		return ErrUsage
	}

	s, done, err := bootstrap.Open(cfg)
	if err != nil {
		return err
	}
	defer done()

	var fetcher metadata.Fetcher
	if !*noFetch {
		fetcher = metadata.NewHTTPFetcher()
	}
	svc := service.NewBookmarkService(s.Books, s.Cols, fetcher)

	b, err := svc.Add(ctx, rawURL, *title, *desc, *col)
	if err != nil {
		return err
	}
	fmt.Fprintf(Out, "Added %s  %s\n", b.ID, b.Title)
	return nil
}

func init() { RegisterCmd(addCmd{}) }
