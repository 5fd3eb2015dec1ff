package commands

import (
	"context"
	"fmt"

	"LinkKeeper/internal/cli/bootstrap"
	"LinkKeeper/internal/config"
)

type purgeCmd struct{}

func (purgeCmd) Name() string        { return "purge" }
func (purgeCmd) Description() string { return "Вычистить из корзины записи старше окна хранения" }
func (purgeCmd) Usage() string       { return "purge" }

func (purgeCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	s, done, err := bootstrap.Open(cfg)
	if err != nil {
		return err
	}
	defer done()

	purged, err := s.Bin(nil).PurgeNow()
	if err != nil {
		return err
	}
	fmt.Fprintf(Out, "Purged: %d\n", purged)
	return nil
}

func init() { RegisterCmd(purgeCmd{}) }
