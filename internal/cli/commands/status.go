package commands

import (
	"context"
	"fmt"
	"time"

	"LinkKeeper/internal/cli/bootstrap"
	"LinkKeeper/internal/cli/repo"
	"LinkKeeper/internal/config"
)

type statusCmd struct{}

func (statusCmd) Name() string        { return "status" }
func (statusCmd) Description() string { return "Показать состояние локального хранилища" }
func (statusCmd) Usage() string       { return "status" }

func (statusCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	s, done, err := bootstrap.Open(cfg)
	if err != nil {
		return err
	}
	defer done()

	cols, err := s.Cols.List(repo.ListFilter{Deleted: repo.Active()})
	if err != nil {
		return err
	}
	books, err := s.Books.List(repo.ListFilter{Deleted: repo.Active()})
	if err != nil {
		return err
	}
	dirtyCols, err := s.Cols.Dirty()
	if err != nil {
		return err
	}
	dirtyBooks, err := s.Books.Dirty()
	if err != nil {
		return err
	}
	binItems, err := s.Bin(nil).List(time.Now().Unix())
	if err != nil {
		return err
	}

	fmt.Fprintf(Out, "User: %s\n", s.Login)
	fmt.Fprintf(Out, "Server: %s\n", cfg.ServerURL)
	fmt.Fprintf(Out, "Collections: %d\n", len(cols))
	fmt.Fprintf(Out, "Bookmarks: %d\n", len(books))
	fmt.Fprintf(Out, "Pending sync: %d\n", len(dirtyCols)+len(dirtyBooks))
	fmt.Fprintf(Out, "Recycle bin: %d\n", len(binItems))
	return nil
}

func init() { RegisterCmd(statusCmd{}) }
