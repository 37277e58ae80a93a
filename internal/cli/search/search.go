package search

import (
	"fmt"
	"strings"

	"github.com/julianstephens/questlog/internal/cli"
	fts "github.com/julianstephens/questlog/internal/search"
)

type SearchCmd struct {
	Query string   `arg:"" help:"Words to look for in names, titles and diary text."`
	Type  []string `short:"t" enum:"campaign,character,diary" help:"Only return these record types (campaign, character, diary)."`
	Limit int      `short:"n" default:"20" help:"Maximum number of results."`
}

func (c *SearchCmd) Run(ctx *cli.Context) error {
	out := ctx.Stdout()
	agg := ctx.Store.GetAggregate(ctx.Ctx())

	idx, err := fts.Build(agg)
	if err != nil {
		return fmt.Errorf("failed to build search index: %w", err)
	}
	defer idx.Close()

	types := make([]fts.DocType, 0, len(c.Type))
	for _, t := range c.Type {
		types = append(types, fts.DocType(strings.ToLower(t)))
	}

	hits, err := idx.Search(ctx.Ctx(), fts.Params{Query: c.Query, Types: types, Limit: c.Limit})
	if err != nil {
		return err
	}
	if len(hits) == 0 {
		fmt.Fprintf(out, "No records match %q.\n", c.Query)
		return nil
	}

	fmt.Fprintf(out, "Results for %q:\n", c.Query)
	for _, h := range hits {
		fmt.Fprintf(out, "  %-9s %s - %s\n", h.Type, h.ID, h.Title)
	}
	return nil
}
