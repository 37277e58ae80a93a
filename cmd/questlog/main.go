package main

import (
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/questlog/internal/cli"
	"github.com/julianstephens/questlog/internal/cli/backups"
	"github.com/julianstephens/questlog/internal/cli/campaigns"
	"github.com/julianstephens/questlog/internal/cli/characters"
	"github.com/julianstephens/questlog/internal/cli/diary"
	"github.com/julianstephens/questlog/internal/cli/search"
	"github.com/julianstephens/questlog/internal/cli/system"
	"github.com/julianstephens/questlog/internal/cli/transfer"
	"github.com/julianstephens/questlog/internal/constants"
	"github.com/julianstephens/questlog/internal/di"
	"github.com/julianstephens/questlog/internal/errors"
	"github.com/julianstephens/questlog/internal/logger"
	"github.com/julianstephens/questlog/internal/storage/backend"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"SQLite path, PostgreSQL connection string, badger:// or file:// directory, memory://, or 'keyring'. PostgreSQL credentials must not be embedded in the connection string." type:"string" default:"~/.config/questlog/questlog.db" env:"QUESTLOG_CONFIG"`
	Verbose bool   `name:"debug" help:"Log at debug level and mirror logs to stderr."`

	Init     system.InitCmd     `cmd:"" help:"Initialize questlog storage."`
	Doctor   system.DoctorCmd   `cmd:"" help:"Run health checks and diagnostics."`
	Tui      system.TuiCmd      `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Validate system.ValidateCmd `cmd:"" help:"Check records for integrity conflicts."`
	Debug    system.DebugCmd    `cmd:"" help:"Debug commands for troubleshooting."`
	Release  system.VersionCmd  `cmd:"" name:"version" help:"Print the version."`

	Campaign struct {
		List   campaigns.CampaignListCmd   `cmd:"" help:"List campaigns." default:"1"`
		Show   campaigns.CampaignShowCmd   `cmd:"" help:"Show a campaign with its party and sessions."`
		Add    campaigns.CampaignAddCmd    `cmd:"" help:"Add a campaign."`
		Edit   campaigns.CampaignEditCmd   `cmd:"" help:"Edit a campaign."`
		Delete campaigns.CampaignDeleteCmd `cmd:"" help:"Delete a campaign."`
	} `cmd:"" help:"Manage campaigns."`
	Character struct {
		List   characters.CharacterListCmd   `cmd:"" help:"List characters." default:"1"`
		Show   characters.CharacterShowCmd   `cmd:"" help:"Show a character sheet."`
		Add    characters.CharacterAddCmd    `cmd:"" help:"Add a character."`
		Edit   characters.CharacterEditCmd   `cmd:"" help:"Edit a character."`
		Delete characters.CharacterDeleteCmd `cmd:"" help:"Delete a character."`
		Join   characters.CharacterJoinCmd   `cmd:"" help:"Add a character to a campaign."`
		Leave  characters.CharacterLeaveCmd  `cmd:"" help:"Remove a character from a campaign."`
	} `cmd:"" help:"Manage characters."`
	Diary struct {
		List diary.DiaryListCmd `cmd:"" help:"List diary entries." default:"1"`
		Show diary.DiaryShowCmd `cmd:"" help:"Show a diary entry."`
		Add  diary.DiaryAddCmd  `cmd:"" help:"Write a session diary entry."`
		Edit diary.DiaryEditCmd `cmd:"" help:"Edit a diary entry."`
	} `cmd:"" help:"Manage session diary entries."`

	Export transfer.ExportCmd `cmd:"" help:"Export every record as JSON."`
	Import transfer.ImportCmd `cmd:"" help:"Replace every record with an exported JSON file."`
	Search search.SearchCmd   `cmd:"" help:"Search campaigns, characters and diary entries."`

	Backup struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
		Undo    backups.BackupUndoCmd    `cmd:"" help:"Revert the last save."`
	} `cmd:"" help:"Manage backups."`
	Keyring struct {
		Set    system.KeyringSetCmd    `cmd:"" help:"Store a secret in the OS keyring."`
		Get    system.KeyringGetCmd    `cmd:"" help:"Show a masked keyring secret."`
		Delete system.KeyringDeleteCmd `cmd:"" help:"Remove a secret from the OS keyring."`
		Status system.KeyringStatusCmd `cmd:"" help:"Show which secrets are stored." default:"1"`
	} `cmd:"" help:"Manage secrets in the OS keyring."`
}

// standalone reports whether the selected command runs without storage.
func standalone(command string) bool {
	return command == "version" || strings.HasPrefix(command, "keyring")
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Campaign, character and session diary keeper for tabletop RPGs"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)

	if err := logger.Init(logger.Config{Debug: CLI.Verbose, ConfigDir: backend.DataDir(CLI.Config)}); err != nil {
		logger.InitWithWriter(os.Stderr, CLI.Verbose)
		logger.Warn("Falling back to stderr logging", "error", err)
	}

	if standalone(ctx.Command()) {
		errors.Fatal(ctx.Run(&cli.Context{Location: CLI.Config}))
		return
	}

	container := di.NewContainer(di.Options{Location: CLI.Config})
	services, err := di.Resolve(container)
	if err != nil {
		_ = di.Shutdown(container)
		errors.Fatal(err)
	}

	appCtx := &cli.Context{
		Store:    services.Store,
		Backups:  services.Backups,
		Config:   services.Config,
		Slot:     services.Slot.Slot,
		Location: CLI.Config,
	}

	// Load the slot before running the command (init handles its own loading)
	if ctx.Selected() != nil && ctx.Selected().Name != "init" {
		if err := services.Slot.Load(appCtx.Ctx()); err != nil {
			_ = di.Shutdown(container)
			errors.Fatal(err)
		}
	}

	err = ctx.Run(appCtx)
	if shutdownErr := di.Shutdown(container); shutdownErr != nil {
		logger.Warn("Shutdown failed", "error", shutdownErr)
	}
	errors.Fatal(err)
}
