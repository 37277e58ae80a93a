package system

import (
	"fmt"

	"github.com/julianstephens/questlog/internal/cli"
	"github.com/julianstephens/questlog/internal/validation"
)

// ValidateCmd reports integrity problems without repairing them.
type ValidateCmd struct {
	Strict bool `help:"Exit with an error when conflicts are found."`
}

func (c *ValidateCmd) Run(ctx *cli.Context) error {
	agg := ctx.Store.GetAggregate(ctx.Ctx())
	result := validation.New().ValidateAggregate(agg)

	fmt.Fprintln(ctx.Stdout(), result.FormatReport())
	if c.Strict && result.HasConflicts() {
		return fmt.Errorf("validation found %d conflicts", len(result.Conflicts))
	}
	return nil
}
