package commands

import (
	"context"
	"strings"

	"LinkKeeper/internal/cli/bootstrap"
	"LinkKeeper/internal/cli/service"
	"LinkKeeper/internal/config"
)

type searchCmd struct{}

func (searchCmd) Name() string        { return "search" }
func (searchCmd) Description() string { return "Поиск по заголовку, описанию и URL" }
func (searchCmd) Usage() string       { return "search <query>" }

func (searchCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) == 0 {
		return ErrUsage
	}
	query := strings.Join(args, " ")

	s, done, err := bootstrap.Open(cfg)
	if err != nil {
		return err
	}
	defer done()

	svc := service.NewBookmarkService(s.Books, s.Cols, nil)
	list, err := svc.Search(query)
	if err != nil {
		return err
	}
	printBookmarks(list)
	return nil
}

func init() { RegisterCmd(searchCmd{}) }
