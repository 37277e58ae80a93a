package models

import (
	"fmt"
	"slices"
	"time"
)

// DiaryEntry records one play session of a campaign. Entries can be created and
// edited but never deleted.
type DiaryEntry struct {
	ID           string   `json:"id" validate:"required"`
	Title        string   `json:"title,omitempty"`
	SessionDate  string   `json:"sessionDate" validate:"required"` // ISO-8601
	CampaignID   string   `json:"campaignId" validate:"required"`
	CharacterIDs []string `json:"characterIds"`
	Text         string   `json:"text"`
	CreatedAt    string   `json:"createdAt" validate:"required"`
	UpdatedAt    string   `json:"updatedAt" validate:"required"`
}

// NewDiaryEntry returns an entry for the given campaign and session day.
func NewDiaryEntry(campaignID string, sessionDay time.Time, now time.Time) DiaryEntry {
	ts := FormatTimestamp(now)
	return DiaryEntry{
		ID:           NewID(DiaryEntryPrefix, now),
		SessionDate:  SessionDate(sessionDay),
		CampaignID:   campaignID,
		CharacterIDs: []string{},
		CreatedAt:    ts,
		UpdatedAt:    ts,
	}
}

// Validate checks the fields a diary form requires.
func (e DiaryEntry) Validate() error {
	if err := validate(e); err != nil {
		return err
	}
	if _, err := ParseTimestamp(e.SessionDate); err != nil {
		return ValidationErrors{{Field: "sessionDate", Message: fmt.Sprintf("is not a valid date: %v", err)}}
	}
	return checkTimestamps(e.CreatedAt, e.UpdatedAt)
}

// Touch sets the last-modified timestamp.
func (e *DiaryEntry) Touch(now time.Time) {
	e.UpdatedAt = FormatTimestamp(now)
}

// Session parses the session date. Unparsable dates sort as the zero time.
func (e DiaryEntry) Session() time.Time {
	t, err := ParseTimestamp(e.SessionDate)
	if err != nil {
		return time.Time{}
	}
	return t
}

// DisplayTitle falls back to the session day when no title was given.
func (e DiaryEntry) DisplayTitle() string {
	if e.Title != "" {
		return e.Title
	}
	if s := e.Session(); !s.IsZero() {
		return "Session of " + s.Format("2 Jan 2006")
	}
	return e.ID
}

// HasCharacter reports whether the character took part in the session.
func (e DiaryEntry) HasCharacter(characterID string) bool {
	return slices.Contains(e.CharacterIDs, characterID)
}
