package commands

import (
	"context"
	"fmt"

	"LinkKeeper/internal/cli/bootstrap"
	"LinkKeeper/internal/cli/service"
	"LinkKeeper/internal/config"
)

type colListCmd struct{}

func (colListCmd) Name() string        { return "col-list" }
func (colListCmd) Description() string { return "Показать коллекции" }
func (colListCmd) Usage() string       { return "col-list" }

func (colListCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	s, done, err := bootstrap.Open(cfg)
	if err != nil {
		return err
	}
	defer done()

	svc := service.NewCollectionService(s.Cols, s.Books)
	list, err := svc.List()
	if err != nil {
		return err
	}
	for _, c := range list {
		fmt.Fprintf(Out, "- %s  %s  (%d bookmarks)\n", c.ID, c.Name, c.BookmarkCount)
	}
	fmt.Fprintf(Out, "Всего: %d\n", len(list))
	return nil
}

func init() { RegisterCmd(colListCmd{}) }
