package diary

import (
	"fmt"
	"os"
	"strings"

	"github.com/julianstephens/questlog/internal/cli"
	"github.com/julianstephens/questlog/internal/constants"
	"github.com/julianstephens/questlog/internal/models"
	"github.com/julianstephens/questlog/internal/records"
)

// checkParticipants requires every character to belong to the campaign.
func checkParticipants(agg models.Aggregate, campaignID string, characterIDs []string) error {
	members := records.CharactersInCampaign(agg, campaignID)
	for _, id := range characterIDs {
		found := false
		for _, ch := range members {
			if ch.ID == id {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("character %s is not part of campaign %s", id, campaignID)
		}
	}
	return nil
}

func readText(text, file string) (string, error) {
	if file == "" {
		return text, nil
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return "", fmt.Errorf("failed to read text file: %w", err)
	}
	return string(data), nil
}

type DiaryListCmd struct {
	Campaign string `short:"c" help:"Only show entries of this campaign."`
}

func (c *DiaryListCmd) Run(ctx *cli.Context) error {
	out := ctx.Stdout()
	agg := ctx.Store.GetAggregate(ctx.Ctx())

	entries := records.EntriesForCampaign(agg, c.Campaign)
	if len(entries) == 0 {
		fmt.Fprintln(out, "No diary entries found")
		return nil
	}

	fmt.Fprintln(out, "Diary:")
	for _, e := range entries {
		fmt.Fprintf(out, "  %s  %s - %s [%s]\n",
			e.Session().Format(constants.DateFormat), e.ID, e.DisplayTitle(), records.CampaignName(agg, e.CampaignID))
	}
	return nil
}

type DiaryShowCmd struct {
	ID string `arg:"" help:"Diary entry ID."`
}

func (c *DiaryShowCmd) Run(ctx *cli.Context) error {
	out := ctx.Stdout()
	entry, err := ctx.Store.FindDiaryEntry(ctx.Ctx(), c.ID)
	if err != nil {
		return err
	}
	agg := ctx.Store.GetAggregate(ctx.Ctx())
	campaign := records.CampaignName(agg, entry.CampaignID)

	fmt.Fprintln(out, cli.Breadcrumb("Diary", campaign, entry.DisplayTitle()))
	fmt.Fprintln(out)
	if s := entry.Session(); !s.IsZero() {
		fmt.Fprintln(out, s.Format(constants.DisplayDateFormat))
	}

	var names []string
	for _, id := range entry.CharacterIDs {
		for _, ch := range agg.Characters {
			if ch.ID == id {
				names = append(names, ch.Name)
			}
		}
	}
	if len(names) > 0 {
		fmt.Fprintf(out, "With: %s\n", strings.Join(names, ", "))
	}
	if entry.Text != "" {
		fmt.Fprintf(out, "\n%s\n", entry.Text)
	}
	return nil
}

type DiaryAddCmd struct {
	Campaign  string   `short:"c" help:"Campaign ID." required:""`
	Date      string   `short:"d" help:"Session date (YYYY-MM-DD). Defaults to today."`
	Title     string   `short:"t" help:"Entry title."`
	Text      string   `help:"Entry text."`
	TextFile  string   `name:"file" short:"f" help:"Read the entry text from a file." type:"existingfile"`
	Character []string `name:"character" help:"Character ID that took part (repeatable)."`
}

func (c *DiaryAddCmd) Run(ctx *cli.Context) error {
	if _, err := ctx.Store.FindCampaign(ctx.Ctx(), c.Campaign); err != nil {
		return err
	}
	if err := checkParticipants(ctx.Store.GetAggregate(ctx.Ctx()), c.Campaign, c.Character); err != nil {
		return err
	}
	text, err := readText(c.Text, c.TextFile)
	if err != nil {
		return err
	}

	now := ctx.Store.Now()
	entry := models.NewDiaryEntry(c.Campaign, now, now)
	if c.Date != "" {
		day, err := models.ParseSessionDay(c.Date)
		if err != nil {
			return fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", c.Date)
		}
		entry.SessionDate = day
	}
	entry.Title = strings.TrimSpace(c.Title)
	entry.Text = text
	if len(c.Character) > 0 {
		entry.CharacterIDs = c.Character
	}

	if err := entry.Validate(); err != nil {
		return err
	}
	if err := ctx.Store.UpsertDiaryEntry(ctx.Ctx(), entry); err != nil {
		return fmt.Errorf("failed to save diary entry: %w", err)
	}

	fmt.Fprintf(ctx.Stdout(), "Added diary entry: %s (ID: %s)\n", entry.DisplayTitle(), entry.ID)
	return nil
}

type DiaryEditCmd struct {
	ID        string   `arg:"" help:"Diary entry ID."`
	Date      *string  `short:"d" help:"New session date (YYYY-MM-DD)."`
	Title     *string  `short:"t" help:"New title."`
	Text      *string  `help:"New text."`
	TextFile  string   `name:"file" short:"f" help:"Read the new text from a file." type:"existingfile"`
	Character []string `name:"character" help:"Replace the participating characters (repeatable)."`
}

func (c *DiaryEditCmd) Run(ctx *cli.Context) error {
	entry, err := ctx.Store.FindDiaryEntry(ctx.Ctx(), c.ID)
	if err != nil {
		return err
	}

	if c.Date != nil {
		day, err := models.ParseSessionDay(*c.Date)
		if err != nil {
			return fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", *c.Date)
		}
		entry.SessionDate = day
	}
	if c.Title != nil {
		entry.Title = strings.TrimSpace(*c.Title)
	}
	if c.Text != nil {
		entry.Text = *c.Text
	}
	if c.TextFile != "" {
		if entry.Text, err = readText("", c.TextFile); err != nil {
			return err
		}
	}
	if c.Character != nil {
		if err := checkParticipants(ctx.Store.GetAggregate(ctx.Ctx()), entry.CampaignID, c.Character); err != nil {
			return err
		}
		entry.CharacterIDs = c.Character
	}
	entry.Touch(ctx.Store.Now())

	if err := entry.Validate(); err != nil {
		return err
	}
	if err := ctx.Store.UpsertDiaryEntry(ctx.Ctx(), entry); err != nil {
		return fmt.Errorf("failed to save diary entry: %w", err)
	}

	fmt.Fprintf(ctx.Stdout(), "Updated diary entry: %s (ID: %s)\n", entry.DisplayTitle(), entry.ID)
	return nil
}
