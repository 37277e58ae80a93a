package campaigns

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/julianstephens/questlog/internal/cli"
	"github.com/julianstephens/questlog/internal/models"
	"github.com/julianstephens/questlog/internal/records"
)

func parseStatus(s string) (models.CampaignStatus, error) {
	status := models.CampaignStatus(strings.TrimSpace(strings.ToLower(s)))
	if status == "" || status.Label() != "" {
		return status, nil
	}
	return "", fmt.Errorf("invalid status %q (expected new, in-progress or concluded)", s)
}

type CampaignListCmd struct {
	Status string `short:"s" help:"Only show campaigns with this status (new|in-progress|concluded)."`
}

func (c *CampaignListCmd) Validate() error {
	_, err := parseStatus(c.Status)
	return err
}

func (c *CampaignListCmd) Run(ctx *cli.Context) error {
	out := ctx.Stdout()
	agg := ctx.Store.GetAggregate(ctx.Ctx())
	status, _ := parseStatus(c.Status)

	campaigns := agg.Campaigns
	records.SortByName(campaigns, records.CampaignNameOf, ctx.Config.Language())

	shown := 0
	for _, campaign := range campaigns {
		if status != "" && campaign.Status != status {
			continue
		}
		if shown == 0 {
			fmt.Fprintln(out, "Campaigns:")
		}
		shown++

		label := campaign.Status.Label()
		if label == "" {
			label = "No status"
		}
		fmt.Fprintf(out, "  %s - %s (master %s, %s)\n", campaign.ID, campaign.Name, campaign.Master, label)
		fmt.Fprintf(out, "      %d characters, %d diary entries\n",
			len(records.CharactersInCampaign(agg, campaign.ID)),
			len(records.EntriesForCampaign(agg, campaign.ID)))
	}

	if shown == 0 {
		fmt.Fprintln(out, "No campaigns found")
	}
	return nil
}

type CampaignShowCmd struct {
	ID string `arg:"" help:"Campaign ID."`
}

func (c *CampaignShowCmd) Run(ctx *cli.Context) error {
	out := ctx.Stdout()
	campaign, err := ctx.Store.FindCampaign(ctx.Ctx(), c.ID)
	if err != nil {
		return err
	}
	agg := ctx.Store.GetAggregate(ctx.Ctx())

	fmt.Fprintln(out, cli.Breadcrumb("Campaigns", campaign.Name))
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Name:    %s\n", campaign.Name)
	fmt.Fprintf(out, "Master:  %s\n", campaign.Master)
	if label := campaign.Status.Label(); label != "" {
		fmt.Fprintf(out, "Status:  %s\n", label)
	}
	if updated, err := models.ParseTimestamp(campaign.UpdatedAt); err == nil {
		fmt.Fprintf(out, "Updated: %s\n", humanize.Time(updated))
	}
	if campaign.Description != "" {
		fmt.Fprintf(out, "\n%s\n", campaign.Description)
	}

	characters := records.CharactersInCampaign(agg, campaign.ID)
	records.SortByName(characters, records.CharacterNameOf, ctx.Config.Language())
	fmt.Fprintf(out, "\nCharacters (%d):\n", len(characters))
	for _, ch := range characters {
		fmt.Fprintf(out, "  %s - %s, level %d %s %s\n", ch.ID, ch.Name, ch.Level, ch.Race, ch.Class)
	}

	entries := records.EntriesForCampaign(agg, campaign.ID)
	fmt.Fprintf(out, "\nDiary (%d):\n", len(entries))
	for _, e := range entries {
		fmt.Fprintf(out, "  %s - %s\n", e.Session().Format("2006-01-02"), e.DisplayTitle())
	}
	return nil
}

type CampaignAddCmd struct {
	Name        string `arg:"" help:"Campaign name."`
	Master      string `short:"m" help:"Game master." required:""`
	Description string `short:"d" help:"Campaign description."`
	Status      string `short:"s" help:"Status (new|in-progress|concluded)." default:"new"`
}

func (c *CampaignAddCmd) Validate() error {
	_, err := parseStatus(c.Status)
	return err
}

func (c *CampaignAddCmd) Run(ctx *cli.Context) error {
	status, err := parseStatus(c.Status)
	if err != nil {
		return err
	}

	campaign := models.NewCampaign(strings.TrimSpace(c.Name), strings.TrimSpace(c.Master), ctx.Store.Now())
	campaign.Description = c.Description
	campaign.Status = status
	if err := campaign.Validate(); err != nil {
		return err
	}

	if err := ctx.Store.UpsertCampaign(ctx.Ctx(), campaign); err != nil {
		return fmt.Errorf("failed to save campaign: %w", err)
	}

	fmt.Fprintf(ctx.Stdout(), "Added campaign: %s (ID: %s)\n", campaign.Name, campaign.ID)
	return nil
}

type CampaignEditCmd struct {
	ID          string  `arg:"" help:"Campaign ID."`
	Name        *string `help:"New name."`
	Master      *string `short:"m" help:"New game master."`
	Description *string `short:"d" help:"New description."`
	Status      *string `short:"s" help:"New status (new|in-progress|concluded, empty to clear)."`
}

func (c *CampaignEditCmd) Validate() error {
	if c.Status == nil {
		return nil
	}
	_, err := parseStatus(*c.Status)
	return err
}

func (c *CampaignEditCmd) Run(ctx *cli.Context) error {
	campaign, err := ctx.Store.FindCampaign(ctx.Ctx(), c.ID)
	if err != nil {
		return err
	}

	if c.Name != nil {
		campaign.Name = strings.TrimSpace(*c.Name)
	}
	if c.Master != nil {
		campaign.Master = strings.TrimSpace(*c.Master)
	}
	if c.Description != nil {
		campaign.Description = *c.Description
	}
	if c.Status != nil {
		status, err := parseStatus(*c.Status)
		if err != nil {
			return err
		}
		campaign.Status = status
	}
	campaign.Touch(ctx.Store.Now())

	if err := campaign.Validate(); err != nil {
		return err
	}
	if err := ctx.Store.UpsertCampaign(ctx.Ctx(), campaign); err != nil {
		return fmt.Errorf("failed to save campaign: %w", err)
	}

	fmt.Fprintf(ctx.Stdout(), "Updated campaign: %s (ID: %s)\n", campaign.Name, campaign.ID)
	return nil
}

type CampaignDeleteCmd struct {
	ID  string `arg:"" help:"Campaign ID to delete."`
	Yes bool   `short:"y" help:"Delete without asking."`
}

// Run removes only the campaign. Characters and diary entries that reference
// it keep the id and show it as an unknown campaign.
func (c *CampaignDeleteCmd) Run(ctx *cli.Context) error {
	campaign, err := ctx.Store.FindCampaign(ctx.Ctx(), c.ID)
	if err != nil {
		return err
	}

	deleted, err := ctx.Store.DeleteCampaign(ctx.Ctx(), c.ID, ctx.Confirmer(c.Yes))
	if err != nil {
		return fmt.Errorf("failed to delete campaign: %w", err)
	}
	if !deleted {
		fmt.Fprintln(ctx.Stdout(), "Delete cancelled.")
		return nil
	}

	fmt.Fprintf(ctx.Stdout(), "Deleted campaign: %s (ID: %s)\n", campaign.Name, c.ID)
	return nil
}
