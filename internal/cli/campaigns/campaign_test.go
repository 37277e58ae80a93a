package campaigns

import (
	"errors"
	"strings"
	"testing"

	"github.com/julianstephens/questlog/internal/cli/clitest"
	"github.com/julianstephens/questlog/internal/models"
	"github.com/julianstephens/questlog/internal/records"
)

func strPtr(s string) *string { return &s }

func TestCampaignAddCmd(t *testing.T) {
	env := clitest.New(t, true)

	cmd := &CampaignAddCmd{Name: "  Curse of Strahd ", Master: "Ada", Status: "in-progress"}
	if err := cmd.Validate(); err != nil {
		t.Fatalf("Validate() error: %v", err)
	}
	if err := cmd.Run(env.Ctx); err != nil {
		t.Fatalf("campaign add failed: %v", err)
	}

	agg := env.Aggregate()
	if len(agg.Campaigns) != 1 {
		t.Fatalf("expected 1 campaign, got %d", len(agg.Campaigns))
	}
	got := agg.Campaigns[0]
	if got.Name != "Curse of Strahd" || got.Master != "Ada" || got.Status != models.CampaignStatusInProgress {
		t.Errorf("unexpected campaign: %+v", got)
	}
	if !strings.HasPrefix(got.ID, models.CampaignPrefix) {
		t.Errorf("unexpected id %q", got.ID)
	}
}

func TestCampaignAddCmdRequiresMaster(t *testing.T) {
	env := clitest.New(t, true)

	err := (&CampaignAddCmd{Name: "Nameless", Master: "  ", Status: "new"}).Run(env.Ctx)
	var verr models.ValidationErrors
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(env.Aggregate().Campaigns) != 0 {
		t.Error("invalid campaign should not be saved")
	}
}

func TestCampaignStatusValidation(t *testing.T) {
	if err := (&CampaignAddCmd{Status: "finished"}).Validate(); err == nil {
		t.Error("expected error for unknown status")
	}
	if err := (&CampaignListCmd{Status: "Concluded"}).Validate(); err != nil {
		t.Errorf("status should be case-insensitive: %v", err)
	}
	if err := (&CampaignEditCmd{Status: strPtr("")}).Validate(); err != nil {
		t.Errorf("empty status clears it: %v", err)
	}
}

func TestCampaignEditCmd(t *testing.T) {
	env := clitest.New(t, true)
	original := models.NewCampaign("Strahd", "Ada", clitest.Start)
	env.Seed(t, models.Aggregate{Campaigns: []models.Campaign{original}})

	cmd := &CampaignEditCmd{ID: original.ID, Name: strPtr("Curse of Strahd"), Status: strPtr("concluded")}
	if err := cmd.Run(env.Ctx); err != nil {
		t.Fatalf("campaign edit failed: %v", err)
	}

	got := env.Aggregate().Campaigns[0]
	if got.Name != "Curse of Strahd" || got.Master != "Ada" || got.Status != models.CampaignStatusConcluded {
		t.Errorf("unexpected campaign after edit: %+v", got)
	}
	if got.UpdatedAt == original.UpdatedAt {
		t.Error("edit should touch updatedAt")
	}
	if got.CreatedAt != original.CreatedAt {
		t.Error("edit must keep createdAt")
	}
}

func TestCampaignEditCmdNotFound(t *testing.T) {
	env := clitest.New(t, true)
	err := (&CampaignEditCmd{ID: "campaign-404"}).Run(env.Ctx)
	if !errors.Is(err, records.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCampaignDeleteCmd(t *testing.T) {
	campaign := models.NewCampaign("Strahd", "Ada", clitest.Start)
	character := models.NewCharacter("Ireena", clitest.Start)
	character.CampaignIDs = []string{campaign.ID}
	seed := models.Aggregate{Campaigns: []models.Campaign{campaign}, Characters: []models.Character{character}}

	t.Run("declined", func(t *testing.T) {
		env := clitest.New(t, false)
		env.Seed(t, seed)

		if err := (&CampaignDeleteCmd{ID: campaign.ID}).Run(env.Ctx); err != nil {
			t.Fatalf("delete failed: %v", err)
		}
		if len(env.Aggregate().Campaigns) != 1 {
			t.Error("declined delete removed the campaign")
		}
		if len(env.Prompts) != 1 || !strings.Contains(env.Prompts[0], `"Strahd"`) {
			t.Errorf("unexpected prompts: %v", env.Prompts)
		}
	})

	t.Run("confirmed", func(t *testing.T) {
		env := clitest.New(t, true)
		env.Seed(t, seed)

		if err := (&CampaignDeleteCmd{ID: campaign.ID}).Run(env.Ctx); err != nil {
			t.Fatalf("delete failed: %v", err)
		}
		agg := env.Aggregate()
		if len(agg.Campaigns) != 0 {
			t.Error("campaign was not deleted")
		}
		if len(agg.Characters) != 1 || !agg.Characters[0].InCampaign(campaign.ID) {
			t.Error("delete must not cascade to characters")
		}
	})

	t.Run("yes flag", func(t *testing.T) {
		env := clitest.New(t, false)
		env.Seed(t, seed)

		if err := (&CampaignDeleteCmd{ID: campaign.ID, Yes: true}).Run(env.Ctx); err != nil {
			t.Fatalf("delete failed: %v", err)
		}
		if len(env.Prompts) != 0 {
			t.Error("--yes should skip the prompt")
		}
		if len(env.Aggregate().Campaigns) != 0 {
			t.Error("campaign was not deleted")
		}
	})
}

func TestCampaignListAndShow(t *testing.T) {
	env := clitest.New(t, true)
	zeta := models.NewCampaign("zeta", "Bo", clitest.Start)
	alpha := models.NewCampaign("Alpha", "Ada", clitest.Start.AddDate(0, 0, 1))
	alpha.Status = models.CampaignStatusConcluded
	entry := models.NewDiaryEntry(alpha.ID, clitest.Start, clitest.Start)
	entry.Title = "The gates of Barovia"
	env.Seed(t, models.Aggregate{Campaigns: []models.Campaign{zeta, alpha}, DiaryEntries: []models.DiaryEntry{entry}})

	if err := (&CampaignListCmd{}).Run(env.Ctx); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	out := env.Out.String()
	if strings.Index(out, "Alpha") > strings.Index(out, "zeta") {
		t.Errorf("campaigns should be sorted by name ignoring case:\n%s", out)
	}

	env.Out.Reset()
	if err := (&CampaignListCmd{Status: "new"}).Run(env.Ctx); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if strings.Contains(env.Out.String(), "Alpha") {
		t.Error("status filter should exclude concluded campaigns")
	}

	env.Out.Reset()
	if err := (&CampaignShowCmd{ID: alpha.ID}).Run(env.Ctx); err != nil {
		t.Fatalf("show failed: %v", err)
	}
	out = env.Out.String()
	if !strings.HasPrefix(out, "Home › Campaigns › Alpha") {
		t.Errorf("show should start with a breadcrumb:\n%s", out)
	}
	if !strings.Contains(out, "The gates of Barovia") {
		t.Errorf("show should list diary entries:\n%s", out)
	}
}
