package models

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 3, 9, 18, 30, 15, 123_000_000, time.UTC)

func TestNewID(t *testing.T) {
	assert.Equal(t, "campaign-1710009015123", NewID(CampaignPrefix, fixedNow))
	assert.Equal(t, "character-1710009015123", NewID(CharacterPrefix, fixedNow))
	assert.Equal(t, "diary-1710009015123", NewID(DiaryEntryPrefix, fixedNow))
}

func TestFormatTimestamp(t *testing.T) {
	assert.Equal(t, "2024-03-09T18:30:15.123Z", FormatTimestamp(fixedNow))

	rome := time.FixedZone("CET", 3600)
	assert.Equal(t, "2024-03-09T17:30:15.123Z", FormatTimestamp(fixedNow.In(rome).Add(-time.Hour)))
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{in: "2024-03-09T18:30:15.123Z"},
		{in: "2024-03-09T18:30:15Z"},
		{in: "2024-03-09T18:30:15+02:00"},
		{in: "2024-03-09", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			_, err := ParseTimestamp(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParseSessionDay(t *testing.T) {
	got, err := ParseSessionDay("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, "2024-02-29T00:00:00.000Z", got)

	_, err = ParseSessionDay("29/02/2024")
	assert.Error(t, err)
}

func TestAbilityModifier(t *testing.T) {
	tests := []struct {
		score int
		want  int
		str   string
	}{
		{score: 1, want: -5, str: "-5"},
		{score: 8, want: -1, str: "-1"},
		{score: 9, want: -1, str: "-1"},
		{score: 10, want: 0, str: "+0"},
		{score: 11, want: 0, str: "+0"},
		{score: 15, want: 2, str: "+2"},
		{score: 30, want: 10, str: "+10"},
	}
	for _, tt := range tests {
		got := AbilityModifier(tt.score)
		assert.Equal(t, tt.want, got, "score %d", tt.score)
		assert.Equal(t, tt.str, FormatModifier(got), "score %d", tt.score)
	}
}

func TestNewCharacterDefaults(t *testing.T) {
	c := NewCharacter("Tordek", fixedNow)

	assert.Equal(t, 1, c.Level)
	assert.Equal(t, 1, c.HPCurrent)
	assert.Equal(t, 1, c.HPMax)
	assert.Equal(t, 10, c.AC)
	assert.Equal(t, 30, c.Speed)
	assert.Equal(t, 2, c.ProficiencyBonus)
	for _, a := range c.Abilities() {
		assert.Equal(t, 10, a.Score, a.Ability)
	}
	assert.NotNil(t, c.SavingThrows)
	assert.NotNil(t, c.CampaignIDs)
	assert.NoError(t, c.Validate())
}

func TestToggleCampaign(t *testing.T) {
	c := NewCharacter("Lidda", fixedNow)
	original := c.CampaignIDs

	assert.True(t, c.ToggleCampaign("c1"))
	assert.True(t, c.InCampaign("c1"))
	assert.True(t, c.ToggleCampaign("c2"))
	assert.Equal(t, []string{"c1", "c2"}, c.CampaignIDs)

	assert.False(t, c.ToggleCampaign("c1"))
	assert.Equal(t, []string{"c2"}, c.CampaignIDs)
	assert.Empty(t, original, "toggling must not alias the previous slice")
}

func TestCampaignValidate(t *testing.T) {
	valid := NewCampaign("Curse of Strahd", "Alice", fixedNow)
	require.NoError(t, valid.Validate())

	tests := []struct {
		name  string
		edit  func(c *Campaign)
		field string
	}{
		{name: "missing name", edit: func(c *Campaign) { c.Name = "" }, field: "name"},
		{name: "missing master", edit: func(c *Campaign) { c.Master = "" }, field: "master"},
		{name: "unknown status", edit: func(c *Campaign) { c.Status = "paused" }, field: "status"},
		{name: "updated before created", edit: func(c *Campaign) {
			c.UpdatedAt = FormatTimestamp(fixedNow.Add(-time.Minute))
		}, field: "updatedAt"},
		{name: "bad timestamp", edit: func(c *Campaign) { c.CreatedAt = "yesterday" }, field: "createdAt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.edit(&c)

			err := c.Validate()
			var ve ValidationErrors
			require.True(t, errors.As(err, &ve), "want ValidationErrors, got %v", err)
			assert.Equal(t, tt.field, ve[0].Field)
		})
	}

	noStatus := valid
	noStatus.Status = ""
	assert.NoError(t, noStatus.Validate(), "status is optional")
}

func TestCharacterValidateAllowsUnboundedStats(t *testing.T) {
	c := NewCharacter("Mialee", fixedNow)
	c.HPCurrent = 250
	c.HPMax = 12
	c.Strength = -4
	c.Charisma = 45
	assert.NoError(t, c.Validate())

	c.Level = 0
	err := c.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "level must be greater than or equal to 1")
}

func TestDiaryEntryValidate(t *testing.T) {
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	e := NewDiaryEntry("campaign-1", day, fixedNow)
	require.NoError(t, e.Validate())
	assert.Equal(t, "2024-03-01T00:00:00.000Z", e.SessionDate)
	assert.Equal(t, "Session of 1 Mar 2024", e.DisplayTitle())

	e.CampaignID = ""
	assert.Error(t, e.Validate())
}

func TestAggregateNormalize(t *testing.T) {
	var agg Aggregate
	assert.True(t, agg.IsEmpty())

	n := agg.Normalize()
	assert.Equal(t, EmptyAggregate(), n)
	assert.Equal(t, Counts{}, n.Counts())
}
