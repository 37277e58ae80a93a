package records

import (
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/julianstephens/questlog/internal/constants"
	"github.com/julianstephens/questlog/internal/models"
)

// CharactersInCampaign returns the characters that belong to campaignID. These
// are also the characters selectable for a diary entry of that campaign.
func CharactersInCampaign(agg models.Aggregate, campaignID string) []models.Character {
	var out []models.Character
	for _, ch := range agg.Characters {
		if ch.InCampaign(campaignID) {
			out = append(out, ch)
		}
	}
	return out
}

// EntriesForCampaign returns the diary entries of campaignID, newest session
// first. An empty id selects every entry.
func EntriesForCampaign(agg models.Aggregate, campaignID string) []models.DiaryEntry {
	var out []models.DiaryEntry
	for _, e := range agg.DiaryEntries {
		if campaignID == "" || e.CampaignID == campaignID {
			out = append(out, e)
		}
	}
	slices.SortStableFunc(out, func(a, b models.DiaryEntry) int {
		return b.Session().Compare(a.Session())
	})
	return out
}

// CampaignName resolves a campaign id for display.
func CampaignName(agg models.Aggregate, id string) string {
	for _, c := range agg.Campaigns {
		if c.ID == id {
			return c.Name
		}
	}
	return constants.UnknownCampaignName
}

// LiveCampaignIDs drops ids that no longer resolve to a campaign.
func LiveCampaignIDs(agg models.Aggregate, ids []string) []string {
	var out []string
	for _, id := range ids {
		if slices.ContainsFunc(agg.Campaigns, func(c models.Campaign) bool { return c.ID == id }) {
			out = append(out, id)
		}
	}
	return out
}

// RefKind tells which collection a dangling reference points into.
type RefKind string

const (
	RefCampaign  RefKind = "campaign"
	RefCharacter RefKind = "character"
)

// DanglingRef is a reference to a record that does not exist.
type DanglingRef struct {
	Kind      RefKind
	OwnerID   string // record holding the reference
	MissingID string
}

// DanglingReferences lists stale campaign ids on characters and entries and
// stale character ids on entries. Nothing is repaired.
func DanglingReferences(agg models.Aggregate) []DanglingRef {
	campaigns := make(map[string]bool, len(agg.Campaigns))
	for _, c := range agg.Campaigns {
		campaigns[c.ID] = true
	}
	characters := make(map[string]bool, len(agg.Characters))
	for _, ch := range agg.Characters {
		characters[ch.ID] = true
	}

	var out []DanglingRef
	for _, ch := range agg.Characters {
		for _, id := range ch.CampaignIDs {
			if !campaigns[id] {
				out = append(out, DanglingRef{Kind: RefCampaign, OwnerID: ch.ID, MissingID: id})
			}
		}
	}
	for _, e := range agg.DiaryEntries {
		if !campaigns[e.CampaignID] {
			out = append(out, DanglingRef{Kind: RefCampaign, OwnerID: e.ID, MissingID: e.CampaignID})
		}
		for _, id := range e.CharacterIDs {
			if !characters[id] {
				out = append(out, DanglingRef{Kind: RefCharacter, OwnerID: e.ID, MissingID: id})
			}
		}
	}
	return out
}

// SortByName orders records by name using locale-aware collation.
func SortByName[T any](items []T, name func(T) string, tag language.Tag) {
	c := collate.New(tag, collate.IgnoreCase)
	slices.SortStableFunc(items, func(a, b T) int {
		return c.CompareString(strings.TrimSpace(name(a)), strings.TrimSpace(name(b)))
	})
}

func CampaignNameOf(c models.Campaign) string   { return c.Name }
func CharacterNameOf(c models.Character) string { return c.Name }
