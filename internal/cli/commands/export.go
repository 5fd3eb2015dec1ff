package commands

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"LinkKeeper/internal/cli/bootstrap"
	"LinkKeeper/internal/cli/service"
	"LinkKeeper/internal/config"
)

type exportCmd struct{}

func (exportCmd) Name() string        { return "export" }
func (exportCmd) Description() string { return "Выгрузить закладки в переносимый JSON" }
func (exportCmd) Usage() string       { return "export [--col <name>] [--out <file>]" }

func (exportCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	col := fs.String("col", "", "выгрузить одну коллекцию как шеринг")
	outPath := fs.String("out", "", "файл вывода (по умолчанию stdout)")
	if err := fs.Parse(args); err != nil {
		return ErrUsage
	}

	s, done, err := bootstrap.Open(cfg)
	if err != nil {
		return err
	}
	defer done()

	engine := service.NewPortableEngine(s.Cols, s.Books)

	var doc *service.Document
	if *col != "" {
		c, err := s.Cols.GetByName(*col)
		if err != nil {
			return err
		}
		doc, err = engine.ExportCollection(c.ID, s.Login)
		if err != nil {
			return err
		}
	} else {
		doc, err = engine.ExportAll(s.Login)
		if err != nil {
			return err
		}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}

	if *outPath == "" {
		fmt.Fprintln(Out, string(data))
		return nil
	}
	if err := os.WriteFile(*outPath, data, 0o600); err != nil {
		return err
	}
	fmt.Fprintf(Out, "Exported %d bookmarks to %s\n", doc.Stats.TotalBookmarks, *outPath)
	return nil
}

func init() { RegisterCmd(exportCmd{}) }
