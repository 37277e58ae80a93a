package validation

import (
	"fmt"
	"sort"

	"github.com/julianstephens/questlog/internal/models"
	"github.com/julianstephens/questlog/internal/records"
)

// ConflictType represents the type of integrity conflict
type ConflictType string

const (
	ConflictDuplicateID            ConflictType = "duplicate_id"
	ConflictDanglingCampaign       ConflictType = "dangling_campaign"
	ConflictDanglingCharacter      ConflictType = "dangling_character"
	ConflictCharacterNotInCampaign ConflictType = "character_not_in_campaign"
	ConflictInvalidTimestamp       ConflictType = "invalid_timestamp"
	ConflictTimestampOrder         ConflictType = "timestamp_order"
	ConflictInvalidLevel           ConflictType = "invalid_level"
)

// Conflict represents a detected integrity problem in the aggregate.
// Conflicts are reported, never repaired: dangling references are tolerated
// by the store and filtered at render time.
type Conflict struct {
	Type        ConflictType
	Description string
	RecordIDs   []string // IDs of records involved
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// Count returns the number of conflicts of the given type
func (vr *ValidationResult) Count(t ConflictType) int {
	n := 0
	for _, c := range vr.Conflicts {
		if c.Type == t {
			n++
		}
	}
	return n
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	report := "Conflicts detected:\n"
	for _, conflict := range vr.Conflicts {
		report += fmt.Sprintf("- %s\n", conflict.Description)
	}
	return report
}

// Validator checks an aggregate for cross-record integrity problems
type Validator struct{}

// New creates a new Validator
func New() *Validator {
	return &Validator{}
}

// ValidateAggregate runs every integrity check over agg.
func (v *Validator) ValidateAggregate(agg models.Aggregate) ValidationResult {
	var result ValidationResult
	add := func(c Conflict) { result.Conflicts = append(result.Conflicts, c) }

	campaignIDs := make(map[string]bool, len(agg.Campaigns))
	for _, c := range agg.Campaigns {
		if campaignIDs[c.ID] {
			add(Conflict{
				Type:        ConflictDuplicateID,
				Description: fmt.Sprintf("Campaign id %s is used more than once", c.ID),
				RecordIDs:   []string{c.ID},
			})
		}
		campaignIDs[c.ID] = true
		v.checkTimestamps("Campaign", c.ID, c.CreatedAt, c.UpdatedAt, add)
	}

	characters := make(map[string]models.Character, len(agg.Characters))
	for _, ch := range agg.Characters {
		if _, dup := characters[ch.ID]; dup {
			add(Conflict{
				Type:        ConflictDuplicateID,
				Description: fmt.Sprintf("Character id %s is used more than once", ch.ID),
				RecordIDs:   []string{ch.ID},
			})
		}
		characters[ch.ID] = ch

		if ch.Level < 1 {
			add(Conflict{
				Type:        ConflictInvalidLevel,
				Description: fmt.Sprintf("Character %q has level %d", ch.Name, ch.Level),
				RecordIDs:   []string{ch.ID},
			})
		}
	}

	entryIDs := make(map[string]bool, len(agg.DiaryEntries))
	for _, e := range agg.DiaryEntries {
		if entryIDs[e.ID] {
			add(Conflict{
				Type:        ConflictDuplicateID,
				Description: fmt.Sprintf("Diary entry id %s is used more than once", e.ID),
				RecordIDs:   []string{e.ID},
			})
		}
		entryIDs[e.ID] = true
		v.checkTimestamps("Diary entry", e.ID, e.CreatedAt, e.UpdatedAt, add)

		if _, err := models.ParseTimestamp(e.SessionDate); err != nil {
			add(Conflict{
				Type:        ConflictInvalidTimestamp,
				Description: fmt.Sprintf("Diary entry %s has an invalid session date %q", e.ID, e.SessionDate),
				RecordIDs:   []string{e.ID},
			})
		}

		for _, chID := range e.CharacterIDs {
			ch, ok := characters[chID]
			if ok && campaignIDs[e.CampaignID] && !ch.InCampaign(e.CampaignID) {
				add(Conflict{
					Type:        ConflictCharacterNotInCampaign,
					Description: fmt.Sprintf("Character %q in diary entry %s is not part of campaign %s", ch.Name, e.ID, e.CampaignID),
					RecordIDs:   []string{e.ID, chID},
				})
			}
		}
	}

	for _, ref := range records.DanglingReferences(agg) {
		conflictType := ConflictDanglingCampaign
		if ref.Kind == records.RefCharacter {
			conflictType = ConflictDanglingCharacter
		}
		add(Conflict{
			Type:        conflictType,
			Description: fmt.Sprintf("Record %s references missing %s %s", ref.OwnerID, ref.Kind, ref.MissingID),
			RecordIDs:   []string{ref.OwnerID, ref.MissingID},
		})
	}

	sort.SliceStable(result.Conflicts, func(i, j int) bool {
		return result.Conflicts[i].Type < result.Conflicts[j].Type
	})
	return result
}

func (v *Validator) checkTimestamps(kind, id, createdAt, updatedAt string, add func(Conflict)) {
	created, err := models.ParseTimestamp(createdAt)
	if err != nil {
		add(Conflict{
			Type:        ConflictInvalidTimestamp,
			Description: fmt.Sprintf("%s %s has an invalid creation timestamp %q", kind, id, createdAt),
			RecordIDs:   []string{id},
		})
		return
	}
	updated, err := models.ParseTimestamp(updatedAt)
	if err != nil {
		add(Conflict{
			Type:        ConflictInvalidTimestamp,
			Description: fmt.Sprintf("%s %s has an invalid modification timestamp %q", kind, id, updatedAt),
			RecordIDs:   []string{id},
		})
		return
	}
	if updated.Before(created) {
		add(Conflict{
			Type:        ConflictTimestampOrder,
			Description: fmt.Sprintf("%s %s was modified before it was created", kind, id),
			RecordIDs:   []string{id},
		})
	}
}
