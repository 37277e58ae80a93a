// Package search provides full-text search over the aggregate using Bleve.
package search

import (
	"strings"

	"github.com/julianstephens/questlog/internal/models"
	"github.com/julianstephens/questlog/internal/records"
)

// DocType represents the type of record a document was built from.
type DocType string

const (
	DocTypeCampaign   DocType = "campaign"
	DocTypeCharacter  DocType = "character"
	DocTypeDiaryEntry DocType = "diary"
)

// Document is the flattened, searchable form of one record.
type Document struct {
	ID    string  `json:"id"`
	Type  DocType `json:"type"`
	Title string  `json:"title"`
	Body  string  `json:"body"`
	// Campaigns holds the names of the campaigns the record belongs to
	Campaigns []string `json:"campaigns"`
}

// key is unique across record types.
func (d Document) key() string {
	return string(d.Type) + ":" + d.ID
}

func (d Document) ToMap() map[string]any {
	return map[string]any{
		"id":        d.ID,
		"type":      string(d.Type),
		"title":     d.Title,
		"body":      d.Body,
		"campaigns": d.Campaigns,
	}
}

// Documents flattens every record of agg. Campaign names are resolved so a
// search for a campaign also finds its characters and sessions.
func Documents(agg models.Aggregate) []Document {
	docs := make([]Document, 0, len(agg.Campaigns)+len(agg.Characters)+len(agg.DiaryEntries))

	for _, c := range agg.Campaigns {
		docs = append(docs, Document{
			ID:        c.ID,
			Type:      DocTypeCampaign,
			Title:     c.Name,
			Body:      join(c.Description, c.Master),
			Campaigns: []string{c.Name},
		})
	}

	for _, ch := range agg.Characters {
		var names []string
		for _, id := range records.LiveCampaignIDs(agg, ch.CampaignIDs) {
			names = append(names, records.CampaignName(agg, id))
		}
		docs = append(docs, Document{
			ID:        ch.ID,
			Type:      DocTypeCharacter,
			Title:     ch.Name,
			Body:      join(ch.Class, ch.Race, ch.Background, ch.Alignment, ch.Backstory),
			Campaigns: names,
		})
	}

	for _, e := range agg.DiaryEntries {
		docs = append(docs, Document{
			ID:        e.ID,
			Type:      DocTypeDiaryEntry,
			Title:     e.DisplayTitle(),
			Body:      e.Text,
			Campaigns: []string{records.CampaignName(agg, e.CampaignID)},
		})
	}
	return docs
}

func join(parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "\n")
}
