package system

import (
	"encoding/json"
	"fmt"

	"github.com/julianstephens/questlog/internal/cli"
	"github.com/julianstephens/questlog/internal/storage/backend"
)

type DebugCmd struct {
	Path          *DebugPathCmd          `cmd:"" help:"Show storage location and data directory."`
	DumpAggregate *DebugDumpAggregateCmd `cmd:"" help:"Dump every record as JSON."`
	DumpCampaign  *DebugDumpCampaignCmd  `cmd:"" help:"Dump campaign data as JSON."`
	DumpCharacter *DebugDumpCharacterCmd `cmd:"" help:"Dump character data as JSON."`
	DumpDiary     *DebugDumpDiaryCmd     `cmd:"" help:"Dump diary entry data as JSON."`
}

func printJSON(ctx *cli.Context, what string, v any) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", what, err)
	}
	fmt.Fprintln(ctx.Stdout(), string(jsonBytes))
	return nil
}

type DebugPathCmd struct{}

func (cmd *DebugPathCmd) Run(ctx *cli.Context) error {
	kind, _ := backend.Resolve(ctx.Location)

	// Output in machine-readable format
	return printJSON(ctx, "output", map[string]string{
		"backend":  string(kind),
		"path":     ctx.Slot.GetConfigPath(),
		"dataDir":  backend.DataDir(ctx.Location),
		"backups":  ctx.Backups.GetBackupDir(),
		"exportTo": exportTarget(ctx),
	})
}

func exportTarget(ctx *cli.Context) string {
	if sink := ctx.Store.Sink(); sink != nil {
		return sink.Target()
	}
	return "none"
}

type DebugDumpAggregateCmd struct{}

func (cmd *DebugDumpAggregateCmd) Run(ctx *cli.Context) error {
	return printJSON(ctx, "records", ctx.Store.GetAggregate(ctx.Ctx()))
}

type DebugDumpCampaignCmd struct {
	ID string `arg:"" help:"ID of the campaign to dump."`
}

func (cmd *DebugDumpCampaignCmd) Run(ctx *cli.Context) error {
	campaign, err := ctx.Store.FindCampaign(ctx.Ctx(), cmd.ID)
	if err != nil {
		return err
	}
	return printJSON(ctx, "campaign", campaign)
}

type DebugDumpCharacterCmd struct {
	ID string `arg:"" help:"ID of the character to dump."`
}

func (cmd *DebugDumpCharacterCmd) Run(ctx *cli.Context) error {
	character, err := ctx.Store.FindCharacter(ctx.Ctx(), cmd.ID)
	if err != nil {
		return err
	}
	return printJSON(ctx, "character", character)
}

type DebugDumpDiaryCmd struct {
	ID string `arg:"" help:"ID of the diary entry to dump."`
}

func (cmd *DebugDumpDiaryCmd) Run(ctx *cli.Context) error {
	entry, err := ctx.Store.FindDiaryEntry(ctx.Ctx(), cmd.ID)
	if err != nil {
		return err
	}
	return printJSON(ctx, "diary entry", entry)
}
