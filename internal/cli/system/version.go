package system

import (
	"fmt"

	"github.com/julianstephens/questlog/internal/cli"
	"github.com/julianstephens/questlog/internal/constants"
)

type VersionCmd struct{}

func (c *VersionCmd) Run(ctx *cli.Context) error {
	fmt.Fprintf(ctx.Stdout(), "%s %s\n", constants.AppName, constants.Version)
	return nil
}
