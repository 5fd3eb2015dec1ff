package commands

import (
	"context"
	"fmt"

	"LinkKeeper/internal/cli/bootstrap"
	"LinkKeeper/internal/config"
)

type emptyBinCmd struct{}

func (emptyBinCmd) Name() string        { return "empty-bin" }
func (emptyBinCmd) Description() string { return "Окончательно удалить всё из корзины" }
func (emptyBinCmd) Usage() string       { return "empty-bin" }

func (emptyBinCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	s, done, err := bootstrap.Open(cfg)
	if err != nil {
		return err
	}
	defer done()

	removed, err := s.Bin(nil).EmptyAll(ctx)
	if err != nil {
		// повтор команды безопасен и доведёт корзину до пустого состояния
		return fmt.Errorf("removed %d, then: %w", removed, err)
	}
	fmt.Fprintf(Out, "Removed permanently: %d\n", removed)
	return nil
}

func init() { RegisterCmd(emptyBinCmd{}) }
