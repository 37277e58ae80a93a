package characters

import (
	"errors"
	"strings"
	"testing"

	"github.com/julianstephens/questlog/internal/cli/clitest"
	"github.com/julianstephens/questlog/internal/models"
	"github.com/julianstephens/questlog/internal/records"
)

func intPtr(i int) *int { return &i }

func seedCampaign(t *testing.T, env *clitest.Env) models.Campaign {
	t.Helper()
	campaign := models.NewCampaign("Curse of Strahd", "Ada", clitest.Start)
	env.Seed(t, models.Aggregate{Campaigns: []models.Campaign{campaign}})
	return campaign
}

func TestCharacterAddCmd(t *testing.T) {
	env := clitest.New(t, true)
	campaign := seedCampaign(t, env)

	cmd := &CharacterAddCmd{
		Name:     "Ireena",
		Class:    "Fighter",
		Race:     "Human",
		Level:    3,
		HP:       24,
		AC:       16,
		Ability:  map[string]int{"str": 16, "Wisdom": 12},
		Save:     []string{"Strength", "Constitution"},
		Campaign: []string{campaign.ID, campaign.ID},
	}
	if err := cmd.Run(env.Ctx); err != nil {
		t.Fatalf("character add failed: %v", err)
	}

	chars := env.Aggregate().Characters
	if len(chars) != 1 {
		t.Fatalf("expected 1 character, got %d", len(chars))
	}
	ch := chars[0]
	if ch.Level != 3 || ch.HPCurrent != 24 || ch.HPMax != 24 || ch.AC != 16 {
		t.Errorf("unexpected stats: %+v", ch)
	}
	if ch.Strength != 16 || ch.Wisdom != 12 || ch.Dexterity != models.DefaultAbilityScore {
		t.Errorf("unexpected abilities: %+v", ch.Abilities())
	}
	if len(ch.CampaignIDs) != 1 || ch.CampaignIDs[0] != campaign.ID {
		t.Errorf("campaign ids = %v", ch.CampaignIDs)
	}
}

func TestCharacterAddCmdErrors(t *testing.T) {
	env := clitest.New(t, true)

	tests := []struct {
		name string
		cmd  CharacterAddCmd
	}{
		{"unknown campaign", CharacterAddCmd{Name: "A", Level: 1, Campaign: []string{"campaign-404"}}},
		{"unknown ability", CharacterAddCmd{Name: "A", Level: 1, Ability: map[string]int{"luck": 3}}},
		{"level zero", CharacterAddCmd{Name: "A", Level: 0}},
		{"empty name", CharacterAddCmd{Name: " ", Level: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cmd.Run(env.Ctx); err == nil {
				t.Error("expected error")
			}
		})
	}
	if len(env.Aggregate().Characters) != 0 {
		t.Error("failed adds must not save")
	}
}

func TestCharacterAddAllowsUnboundedStats(t *testing.T) {
	env := clitest.New(t, true)
	cmd := &CharacterAddCmd{Name: "Strahd", Level: 1, HP: -5, Ability: map[string]int{"cha": 40}}
	if err := cmd.Run(env.Ctx); err != nil {
		t.Fatalf("hit points and ability scores are not bounded: %v", err)
	}
}

func TestCharacterEditCmd(t *testing.T) {
	env := clitest.New(t, true)
	ch := models.NewCharacter("Ireena", clitest.Start)
	env.Seed(t, models.Aggregate{Characters: []models.Character{ch}})

	cmd := &CharacterEditCmd{ID: ch.ID, Level: intPtr(5), HPCurrent: intPtr(7), Ability: map[string]int{"dex": 18}}
	if err := cmd.Run(env.Ctx); err != nil {
		t.Fatalf("character edit failed: %v", err)
	}

	got := env.Aggregate().Characters[0]
	if got.Level != 5 || got.HPCurrent != 7 || got.Dexterity != 18 || got.Name != "Ireena" {
		t.Errorf("unexpected character after edit: %+v", got)
	}

	if err := (&CharacterEditCmd{ID: ch.ID, Level: intPtr(0)}).Run(env.Ctx); err == nil {
		t.Error("level below 1 should be rejected")
	}
}

func TestCharacterAddSetsStatBlock(t *testing.T) {
	env := clitest.New(t, true)

	cmd := &CharacterAddCmd{
		Name:        "Ismark",
		Level:       5,
		XP:          6500,
		Speed:       25,
		Proficiency: 3,
		Save:        []string{"wisdom", "Charisma", "WISDOM"},
	}
	if err := cmd.Run(env.Ctx); err != nil {
		t.Fatalf("character add failed: %v", err)
	}

	ch := env.Aggregate().Characters[0]
	if ch.XP != 6500 || ch.Speed != 25 || ch.ProficiencyBonus != 3 {
		t.Errorf("unexpected stat block: xp=%d speed=%d proficiency=%d", ch.XP, ch.Speed, ch.ProficiencyBonus)
	}
	if strings.Join(ch.SavingThrows, ",") != "Wisdom,Charisma" {
		t.Errorf("saving throws = %v", ch.SavingThrows)
	}

	if err := (&CharacterAddCmd{Name: "Rahadin", Level: 1, Save: []string{"Luck"}}).Run(env.Ctx); err == nil {
		t.Error("unknown saving throw should be rejected")
	}
}

func TestCharacterEditStatBlock(t *testing.T) {
	env := clitest.New(t, true)
	ch := models.NewCharacter("Ireena", clitest.Start)
	ch.SavingThrows = []string{"Strength"}
	env.Seed(t, models.Aggregate{Characters: []models.Character{ch}})

	cmd := &CharacterEditCmd{
		ID:          ch.ID,
		XP:          intPtr(900),
		Speed:       intPtr(35),
		Proficiency: intPtr(4),
		Save:        []string{"dexterity", "Intelligence"},
	}
	if err := cmd.Run(env.Ctx); err != nil {
		t.Fatalf("character edit failed: %v", err)
	}

	got := env.Aggregate().Characters[0]
	if got.XP != 900 || got.Speed != 35 || got.ProficiencyBonus != 4 {
		t.Errorf("unexpected stat block: xp=%d speed=%d proficiency=%d", got.XP, got.Speed, got.ProficiencyBonus)
	}
	if strings.Join(got.SavingThrows, ",") != "Dexterity,Intelligence" {
		t.Errorf("saving throws = %v", got.SavingThrows)
	}

	if err := (&CharacterEditCmd{ID: ch.ID, Level: intPtr(2)}).Run(env.Ctx); err != nil {
		t.Fatalf("character edit failed: %v", err)
	}
	if got := env.Aggregate().Characters[0]; len(got.SavingThrows) != 2 || got.ProficiencyBonus != 4 {
		t.Errorf("edit without stat flags must keep them: %+v", got)
	}

	if err := (&CharacterEditCmd{ID: ch.ID, NoSaves: true}).Run(env.Ctx); err != nil {
		t.Fatalf("character edit failed: %v", err)
	}
	if got := env.Aggregate().Characters[0]; len(got.SavingThrows) != 0 {
		t.Errorf("--no-saves should clear saving throws, got %v", got.SavingThrows)
	}
}

func TestCharacterJoinLeave(t *testing.T) {
	env := clitest.New(t, true)
	campaign := models.NewCampaign("Curse of Strahd", "Ada", clitest.Start)
	ch := models.NewCharacter("Ireena", clitest.Start)
	env.Seed(t, models.Aggregate{Campaigns: []models.Campaign{campaign}, Characters: []models.Character{ch}})

	if err := (&CharacterJoinCmd{ID: ch.ID, Campaign: "campaign-404"}).Run(env.Ctx); !errors.Is(err, records.ErrNotFound) {
		t.Errorf("joining an unknown campaign: got %v", err)
	}

	if err := (&CharacterJoinCmd{ID: ch.ID, Campaign: campaign.ID}).Run(env.Ctx); err != nil {
		t.Fatalf("join failed: %v", err)
	}
	if !env.Aggregate().Characters[0].InCampaign(campaign.ID) {
		t.Error("character should be in the campaign")
	}

	env.Out.Reset()
	if err := (&CharacterListCmd{Campaign: campaign.ID}).Run(env.Ctx); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(env.Out.String(), "Ireena") {
		t.Errorf("campaign filter should include members:\n%s", env.Out.String())
	}

	if err := (&CharacterLeaveCmd{ID: ch.ID, Campaign: campaign.ID}).Run(env.Ctx); err != nil {
		t.Fatalf("leave failed: %v", err)
	}
	if env.Aggregate().Characters[0].InCampaign(campaign.ID) {
		t.Error("character should have left the campaign")
	}
}

func TestCharacterShowResolvesDeletedCampaign(t *testing.T) {
	env := clitest.New(t, true)
	ch := models.NewCharacter("Ireena", clitest.Start)
	ch.CampaignIDs = []string{"campaign-1"}
	env.Seed(t, models.Aggregate{Characters: []models.Character{ch}})

	if err := (&CharacterShowCmd{ID: ch.ID}).Run(env.Ctx); err != nil {
		t.Fatalf("show failed: %v", err)
	}
	out := env.Out.String()
	if !strings.HasPrefix(out, "Home › Characters › Ireena") {
		t.Errorf("missing breadcrumb:\n%s", out)
	}
	if !strings.Contains(out, "Unknown campaign") {
		t.Errorf("deleted campaign should render as unknown:\n%s", out)
	}
	if !strings.Contains(out, "STR 10 (+0)") {
		t.Errorf("ability block missing:\n%s", out)
	}
}

func TestCharacterDeleteCmd(t *testing.T) {
	env := clitest.New(t, true)
	ch := models.NewCharacter("Ireena", clitest.Start)
	entry := models.NewDiaryEntry("campaign-1", clitest.Start, clitest.Start)
	entry.CharacterIDs = []string{ch.ID}
	env.Seed(t, models.Aggregate{Characters: []models.Character{ch}, DiaryEntries: []models.DiaryEntry{entry}})

	if err := (&CharacterDeleteCmd{ID: ch.ID}).Run(env.Ctx); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	agg := env.Aggregate()
	if len(agg.Characters) != 0 {
		t.Error("character was not deleted")
	}
	if !agg.DiaryEntries[0].HasCharacter(ch.ID) {
		t.Error("delete must not touch diary entries")
	}
}
