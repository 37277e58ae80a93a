package characters

import (
	"fmt"
	"slices"
	"strings"

	"github.com/julianstephens/questlog/internal/cli"
	"github.com/julianstephens/questlog/internal/models"
	"github.com/julianstephens/questlog/internal/records"
)

// setAbility applies one --ability entry such as str=14.
func setAbility(ch *models.Character, name string, score int) error {
	switch strings.ToLower(name) {
	case "str", "strength":
		ch.Strength = score
	case "dex", "dexterity":
		ch.Dexterity = score
	case "con", "constitution":
		ch.Constitution = score
	case "int", "intelligence":
		ch.Intelligence = score
	case "wis", "wisdom":
		ch.Wisdom = score
	case "cha", "charisma":
		ch.Charisma = score
	default:
		return fmt.Errorf("unknown ability %q", name)
	}
	return nil
}

// savingThrows maps --save values onto the saving throw names, ignoring case
// and duplicates.
func savingThrows(names []string) ([]string, error) {
	saves := make([]string, 0, len(names))
	for _, name := range names {
		idx := slices.IndexFunc(models.SavingThrowOptions, func(opt string) bool {
			return strings.EqualFold(opt, strings.TrimSpace(name))
		})
		if idx < 0 {
			return nil, fmt.Errorf("unknown saving throw %q (choose from %s)", name, strings.Join(models.SavingThrowOptions, ", "))
		}
		if !slices.Contains(saves, models.SavingThrowOptions[idx]) {
			saves = append(saves, models.SavingThrowOptions[idx])
		}
	}
	return saves, nil
}

// requireCampaigns fails when any id is not a known campaign.
func requireCampaigns(ctx *cli.Context, ids []string) error {
	for _, id := range ids {
		if _, err := ctx.Store.FindCampaign(ctx.Ctx(), id); err != nil {
			return err
		}
	}
	return nil
}

type CharacterListCmd struct {
	Campaign string `short:"c" help:"Only show characters in this campaign."`
}

func (c *CharacterListCmd) Run(ctx *cli.Context) error {
	out := ctx.Stdout()
	agg := ctx.Store.GetAggregate(ctx.Ctx())

	chars := agg.Characters
	if c.Campaign != "" {
		chars = records.CharactersInCampaign(agg, c.Campaign)
	}
	if len(chars) == 0 {
		fmt.Fprintln(out, "No characters found")
		return nil
	}
	records.SortByName(chars, records.CharacterNameOf, ctx.Config.Language())

	fmt.Fprintln(out, "Characters:")
	for _, ch := range chars {
		fmt.Fprintf(out, "  %s - %s, level %d %s %s (HP %d/%d, AC %d)\n",
			ch.ID, ch.Name, ch.Level, ch.Race, ch.Class, ch.HPCurrent, ch.HPMax, ch.AC)
	}
	return nil
}

type CharacterShowCmd struct {
	ID string `arg:"" help:"Character ID."`
}

func (c *CharacterShowCmd) Run(ctx *cli.Context) error {
	out := ctx.Stdout()
	ch, err := ctx.Store.FindCharacter(ctx.Ctx(), c.ID)
	if err != nil {
		return err
	}
	agg := ctx.Store.GetAggregate(ctx.Ctx())

	fmt.Fprintln(out, cli.Breadcrumb("Characters", ch.Name))
	fmt.Fprintln(out)
	fmt.Fprintf(out, "%s, level %d %s %s\n", ch.Name, ch.Level, ch.Race, ch.Class)
	if ch.Background != "" || ch.Alignment != "" {
		fmt.Fprintf(out, "%s %s\n", ch.Background, ch.Alignment)
	}
	fmt.Fprintf(out, "HP %d/%d  AC %d  Speed %d  XP %d  Proficiency %s\n",
		ch.HPCurrent, ch.HPMax, ch.AC, ch.Speed, ch.XP, models.FormatModifier(ch.ProficiencyBonus))

	fmt.Fprintln(out)
	for _, a := range ch.Abilities() {
		fmt.Fprintf(out, "  %s %2d (%s)\n", a.Short, a.Score, models.FormatModifier(models.AbilityModifier(a.Score)))
	}
	if len(ch.SavingThrows) > 0 {
		fmt.Fprintf(out, "\nSaving throws: %s\n", strings.Join(ch.SavingThrows, ", "))
	}

	if len(ch.CampaignIDs) > 0 {
		fmt.Fprintln(out, "\nCampaigns:")
		for _, id := range ch.CampaignIDs {
			fmt.Fprintf(out, "  %s - %s\n", id, records.CampaignName(agg, id))
		}
	}
	if ch.Backstory != "" {
		fmt.Fprintf(out, "\n%s\n", ch.Backstory)
	}
	return nil
}

type CharacterAddCmd struct {
	Name        string         `arg:"" help:"Character name."`
	Class       string         `help:"Class."`
	Race        string         `help:"Race."`
	Level       int            `short:"l" help:"Level." default:"1"`
	Background  string         `help:"Background."`
	Alignment   string         `help:"Alignment."`
	HP          int            `help:"Maximum (and current) hit points." default:"1"`
	AC          int            `help:"Armor class." default:"10"`
	XP          int            `help:"Experience points." default:"0"`
	Speed       int            `help:"Speed." default:"30"`
	Proficiency int            `help:"Proficiency bonus." default:"2"`
	Ability     map[string]int `short:"a" help:"Ability score, e.g. --ability str=14."`
	Save        []string       `help:"Proficient saving throw (repeatable)."`
	Campaign    []string       `short:"c" help:"Campaign ID to join (repeatable)."`
	Backstory   string         `help:"Backstory."`
}

func (c *CharacterAddCmd) Run(ctx *cli.Context) error {
	if err := requireCampaigns(ctx, c.Campaign); err != nil {
		return err
	}

	ch := models.NewCharacter(strings.TrimSpace(c.Name), ctx.Store.Now())
	ch.Class = c.Class
	ch.Race = c.Race
	ch.Level = c.Level
	ch.Background = c.Background
	ch.Alignment = c.Alignment
	ch.HPMax = c.HP
	ch.HPCurrent = c.HP
	ch.AC = c.AC
	ch.XP = c.XP
	ch.Speed = c.Speed
	ch.ProficiencyBonus = c.Proficiency
	ch.Backstory = c.Backstory
	for name, score := range c.Ability {
		if err := setAbility(&ch, name, score); err != nil {
			return err
		}
	}
	if len(c.Save) > 0 {
		saves, err := savingThrows(c.Save)
		if err != nil {
			return err
		}
		ch.SavingThrows = saves
	}
	for _, id := range c.Campaign {
		if !ch.InCampaign(id) {
			ch.ToggleCampaign(id)
		}
	}

	if err := ch.Validate(); err != nil {
		return err
	}
	if err := ctx.Store.UpsertCharacter(ctx.Ctx(), ch); err != nil {
		return fmt.Errorf("failed to save character: %w", err)
	}

	fmt.Fprintf(ctx.Stdout(), "Added character: %s (ID: %s)\n", ch.Name, ch.ID)
	return nil
}

type CharacterEditCmd struct {
	ID          string         `arg:"" help:"Character ID."`
	Name        *string        `help:"New name."`
	Class       *string        `help:"New class."`
	Race        *string        `help:"New race."`
	Level       *int           `short:"l" help:"New level."`
	Background  *string        `help:"New background."`
	Alignment   *string        `help:"New alignment."`
	HPCurrent   *int           `name:"hp" help:"Current hit points."`
	HPMax       *int           `name:"hp-max" help:"Maximum hit points."`
	AC          *int           `help:"Armor class."`
	XP          *int           `help:"Experience points."`
	Speed       *int           `help:"Speed."`
	Proficiency *int           `help:"Proficiency bonus."`
	Ability     map[string]int `short:"a" help:"Ability score, e.g. --ability str=14."`
	Save        []string       `help:"Proficient saving throw (repeatable). Replaces the current list." xor:"saves"`
	NoSaves     bool           `help:"Clear every saving throw proficiency." xor:"saves"`
	Backstory   *string        `help:"New backstory."`
}

func (c *CharacterEditCmd) Run(ctx *cli.Context) error {
	ch, err := ctx.Store.FindCharacter(ctx.Ctx(), c.ID)
	if err != nil {
		return err
	}

	setString := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	setInt := func(dst *int, src *int) {
		if src != nil {
			*dst = *src
		}
	}

	setString(&ch.Name, c.Name)
	ch.Name = strings.TrimSpace(ch.Name)
	setString(&ch.Class, c.Class)
	setString(&ch.Race, c.Race)
	setString(&ch.Background, c.Background)
	setString(&ch.Alignment, c.Alignment)
	setString(&ch.Backstory, c.Backstory)
	setInt(&ch.Level, c.Level)
	setInt(&ch.HPCurrent, c.HPCurrent)
	setInt(&ch.HPMax, c.HPMax)
	setInt(&ch.AC, c.AC)
	setInt(&ch.XP, c.XP)
	setInt(&ch.Speed, c.Speed)
	setInt(&ch.ProficiencyBonus, c.Proficiency)
	for name, score := range c.Ability {
		if err := setAbility(&ch, name, score); err != nil {
			return err
		}
	}
	switch {
	case c.NoSaves:
		ch.SavingThrows = []string{}
	case len(c.Save) > 0:
		saves, err := savingThrows(c.Save)
		if err != nil {
			return err
		}
		ch.SavingThrows = saves
	}

	if err := ch.Validate(); err != nil {
		return err
	}
	if err := ctx.Store.UpsertCharacter(ctx.Ctx(), ch); err != nil {
		return fmt.Errorf("failed to save character: %w", err)
	}

	fmt.Fprintf(ctx.Stdout(), "Updated character: %s (ID: %s)\n", ch.Name, ch.ID)
	return nil
}

type CharacterDeleteCmd struct {
	ID  string `arg:"" help:"Character ID to delete."`
	Yes bool   `short:"y" help:"Delete without asking."`
}

func (c *CharacterDeleteCmd) Run(ctx *cli.Context) error {
	ch, err := ctx.Store.FindCharacter(ctx.Ctx(), c.ID)
	if err != nil {
		return err
	}

	deleted, err := ctx.Store.DeleteCharacter(ctx.Ctx(), c.ID, ctx.Confirmer(c.Yes))
	if err != nil {
		return fmt.Errorf("failed to delete character: %w", err)
	}
	if !deleted {
		fmt.Fprintln(ctx.Stdout(), "Delete cancelled.")
		return nil
	}

	fmt.Fprintf(ctx.Stdout(), "Deleted character: %s (ID: %s)\n", ch.Name, c.ID)
	return nil
}

type CharacterJoinCmd struct {
	ID       string `arg:"" help:"Character ID."`
	Campaign string `arg:"" help:"Campaign ID to join."`
}

func (c *CharacterJoinCmd) Run(ctx *cli.Context) error {
	campaign, err := ctx.Store.FindCampaign(ctx.Ctx(), c.Campaign)
	if err != nil {
		return err
	}
	if err := ctx.Store.JoinCampaign(ctx.Ctx(), c.ID, c.Campaign); err != nil {
		return err
	}
	fmt.Fprintf(ctx.Stdout(), "%s joined %s\n", c.ID, campaign.Name)
	return nil
}

// CharacterLeaveCmd accepts campaign ids that no longer resolve so stale
// memberships can be cleaned up.
type CharacterLeaveCmd struct {
	ID       string `arg:"" help:"Character ID."`
	Campaign string `arg:"" help:"Campaign ID to leave."`
}

func (c *CharacterLeaveCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.LeaveCampaign(ctx.Ctx(), c.ID, c.Campaign); err != nil {
		return err
	}
	fmt.Fprintf(ctx.Stdout(), "%s left %s\n", c.ID, c.Campaign)
	return nil
}
