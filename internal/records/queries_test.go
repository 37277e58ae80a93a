package records

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"

	"github.com/julianstephens/questlog/internal/models"
)

func TestCharactersInCampaign(t *testing.T) {
	agg := models.Aggregate{Characters: []models.Character{
		{ID: "a", CampaignIDs: []string{"c1"}},
		{ID: "b", CampaignIDs: []string{"c2"}},
		{ID: "c", CampaignIDs: []string{"c2", "c1"}},
	}}

	var ids []string
	for _, ch := range CharactersInCampaign(agg, "c1") {
		ids = append(ids, ch.ID)
	}
	assert.Equal(t, []string{"a", "c"}, ids)
	assert.Empty(t, CharactersInCampaign(agg, "c9"))
}

func TestEntriesForCampaignNewestFirst(t *testing.T) {
	agg := models.Aggregate{DiaryEntries: []models.DiaryEntry{
		{ID: "old", CampaignID: "c1", SessionDate: "2024-01-05T00:00:00.000Z"},
		{ID: "other", CampaignID: "c2", SessionDate: "2024-03-01T00:00:00.000Z"},
		{ID: "new", CampaignID: "c1", SessionDate: "2024-02-10T00:00:00.000Z"},
		{ID: "mid", CampaignID: "c1", SessionDate: "2024-01-20T00:00:00.000Z"},
	}}

	ids := func(entries []models.DiaryEntry) []string {
		var out []string
		for _, e := range entries {
			out = append(out, e.ID)
		}
		return out
	}

	assert.Equal(t, []string{"new", "mid", "old"}, ids(EntriesForCampaign(agg, "c1")))
	assert.Equal(t, []string{"other", "new", "mid", "old"}, ids(EntriesForCampaign(agg, "")))
}

func TestCampaignName(t *testing.T) {
	agg := models.Aggregate{Campaigns: []models.Campaign{{ID: "c1", Name: "Eberron"}}}
	assert.Equal(t, "Eberron", CampaignName(agg, "c1"))
	assert.Equal(t, "Unknown campaign", CampaignName(agg, "gone"))
}

func TestLiveCampaignIDs(t *testing.T) {
	agg := models.Aggregate{Campaigns: []models.Campaign{{ID: "c1"}, {ID: "c3"}}}
	assert.Equal(t, []string{"c1", "c3"}, LiveCampaignIDs(agg, []string{"c1", "c2", "c3"}))
	assert.Empty(t, LiveCampaignIDs(agg, []string{"c2"}))
}

func TestDanglingReferences(t *testing.T) {
	agg := models.Aggregate{
		Campaigns:  []models.Campaign{{ID: "c1"}},
		Characters: []models.Character{{ID: "ch1", CampaignIDs: []string{"c1", "gone"}}},
		DiaryEntries: []models.DiaryEntry{
			{ID: "d1", CampaignID: "lost", CharacterIDs: []string{"ch1", "ghost"}},
		},
	}

	assert.Equal(t, []DanglingRef{
		{Kind: RefCampaign, OwnerID: "ch1", MissingID: "gone"},
		{Kind: RefCampaign, OwnerID: "d1", MissingID: "lost"},
		{Kind: RefCharacter, OwnerID: "d1", MissingID: "ghost"},
	}, DanglingReferences(agg))

	assert.Empty(t, DanglingReferences(models.EmptyAggregate()))
}

func TestSortByName(t *testing.T) {
	campaigns := []models.Campaign{{Name: "zephyr"}, {Name: "Éclair"}, {Name: "alpha"}, {Name: "Echo"}}
	SortByName(campaigns, CampaignNameOf, language.English)

	var names []string
	for _, c := range campaigns {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"alpha", "Echo", "Éclair", "zephyr"}, names)
}
