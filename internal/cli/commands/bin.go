package commands

import (
	"context"
	"fmt"
	"time"

	"LinkKeeper/internal/cli/bootstrap"
	"LinkKeeper/internal/config"
)

type binCmd struct{}

func (binCmd) Name() string        { return "bin" }
func (binCmd) Description() string { return "Показать содержимое корзины" }
func (binCmd) Usage() string       { return "bin" }

func (binCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	s, done, err := bootstrap.Open(cfg)
	if err != nil {
		return err
	}
	defer done()

	items, err := s.Bin(nil).List(time.Now().Unix())
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Fprintln(Out, "Корзина пуста")
		return nil
	}
	for _, it := range items {
		fmt.Fprintf(Out, "- [%s] %s  %s  (days left: %d)\n", it.Kind, it.ID, it.Title, it.DaysRemaining)
	}
	fmt.Fprintf(Out, "Всего: %d\n", len(items))
	return nil
}

func init() { RegisterCmd(binCmd{}) }
