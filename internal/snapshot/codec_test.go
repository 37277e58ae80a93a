package snapshot

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/questlog/internal/errors"
	"github.com/julianstephens/questlog/internal/models"
)

func sampleAggregate() models.Aggregate {
	return models.Aggregate{
		Campaigns: []models.Campaign{{
			ID:          "c1",
			Name:        "Curse of Strahd",
			Description: "Gothic horror",
			Master:      "Ada",
			CreatedAt:   "2024-06-01T18:00:00.000Z",
			UpdatedAt:   "2024-06-02T18:00:00.000Z",
			Status:      models.CampaignStatusInProgress,
		}},
		Characters: []models.Character{{
			ID:           "ch1",
			Name:         "Ireena",
			Class:        "Fighter",
			Level:        3,
			HPCurrent:    12,
			HPMax:        28,
			SavingThrows: []string{"Strength"},
			CampaignIDs:  []string{"c1"},
		}},
		DiaryEntries: []models.DiaryEntry{{
			ID:           "d1",
			SessionDate:  "2024-06-01T00:00:00.000Z",
			CampaignID:   "c1",
			CharacterIDs: []string{"ch1"},
			Text:         "Arrived in Barovia.",
			CreatedAt:    "2024-06-01T22:00:00.000Z",
			UpdatedAt:    "2024-06-01T22:00:00.000Z",
		}},
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	agg := sampleAggregate()

	data, err := Encode(agg)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  \"schemaVersion\": 2")

	got, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, agg, got)
}

func TestEncodeEmptyAggregate(t *testing.T) {
	data, err := Encode(models.Aggregate{})
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	for _, key := range []string{"campaigns", "characters", "diaryEntries"} {
		assert.Equal(t, "[]", string(raw[key]), key)
	}
}

func TestDecodeBareArray(t *testing.T) {
	got, err := Decode([]byte(`[{"id":"c1","name":"Lost Mine","master":"Bo"}]`))
	require.NoError(t, err)

	require.Len(t, got.Campaigns, 1)
	assert.Equal(t, "Lost Mine", got.Campaigns[0].Name)
	assert.Equal(t, []models.Character{}, got.Characters)
	assert.Equal(t, []models.DiaryEntry{}, got.DiaryEntries)
}

func TestDecodeObjectShapes(t *testing.T) {
	agg := sampleAggregate()
	pair, err := json.Marshal(map[string]any{
		"campaigns":  agg.Campaigns,
		"characters": agg.Characters,
	})
	require.NoError(t, err)

	got, err := Decode(pair)
	require.NoError(t, err)
	assert.Equal(t, agg.Campaigns, got.Campaigns)
	assert.Equal(t, agg.Characters, got.Characters)
	assert.Empty(t, got.DiaryEntries)
	assert.NotNil(t, got.DiaryEntries)

	got, err = Decode([]byte(`{"characters":[]}`))
	require.NoError(t, err)
	assert.True(t, got.IsEmpty())
	assert.NotNil(t, got.Campaigns)

	got, err = Decode([]byte(`{"diary":[{"id":"d1","campaignId":"c1","titolo":"Prologue"}]}`))
	require.NoError(t, err)
	require.Len(t, got.DiaryEntries, 1)
	assert.Equal(t, "Prologue", got.DiaryEntries[0].Title)
}

func TestDecodeLegacyFieldNames(t *testing.T) {
	doc := `[
		{"id":"campaign-1","nome":"La Torre","descrizione":"Una torre","master":"Gio",
		 "dataCreazione":"2023-01-01T10:00:00.000Z","dataUltimaModifica":"2023-01-02T10:00:00.000Z","stato":"in corso"},
		{"id":"campaign-2","nome":"Finita","master":"Gio","stato":"conclusa"},
		{"id":"campaign-3","nome":"Nuova","name":"Kept","master":"Gio","stato":"nuova"}
	]`

	got, err := Decode([]byte(doc))
	require.NoError(t, err)
	require.Len(t, got.Campaigns, 3)

	c := got.Campaigns[0]
	assert.Equal(t, "La Torre", c.Name)
	assert.Equal(t, "Una torre", c.Description)
	assert.Equal(t, "2023-01-01T10:00:00.000Z", c.CreatedAt)
	assert.Equal(t, "2023-01-02T10:00:00.000Z", c.UpdatedAt)
	assert.Equal(t, models.CampaignStatusInProgress, c.Status)

	assert.Equal(t, models.CampaignStatusConcluded, got.Campaigns[1].Status)
	// the current name wins over its alias
	assert.Equal(t, "Kept", got.Campaigns[2].Name)
	assert.Equal(t, models.CampaignStatusNew, got.Campaigns[2].Status)
}

func TestDecodeLegacyCharacter(t *testing.T) {
	doc := `{"campaigns":[],"characters":[{"id":"character-1","nome":"Aria","classe":"Mago","razza":"Elfo",
		"livello":4,"hpAttuali":9,"hpMassimi":22,"ac":12,"forza":8,"destrezza":14,"costituzione":12,
		"intelligenza":17,"saggezza":11,"carisma":10,"background":"Sage","allineamento":"Neutral Good",
		"xp":2700,"velocita":30,"proficiencyBonus":2,"savingThrows":["Intelligence"],"campaignIds":["campaign-1"],
		"storia":"Raised in a library."}]}`

	got, err := Decode([]byte(doc))
	require.NoError(t, err)
	require.Len(t, got.Characters, 1)

	assert.Equal(t, models.Character{
		ID:               "character-1",
		Name:             "Aria",
		Class:            "Mago",
		Race:             "Elfo",
		Level:            4,
		HPCurrent:        9,
		HPMax:            22,
		AC:               12,
		Strength:         8,
		Dexterity:        14,
		Constitution:     12,
		Intelligence:     17,
		Wisdom:           11,
		Charisma:         10,
		Background:       "Sage",
		Alignment:        "Neutral Good",
		XP:               2700,
		Speed:            30,
		ProficiencyBonus: 2,
		SavingThrows:     []string{"Intelligence"},
		CampaignIDs:      []string{"campaign-1"},
		Backstory:        "Raised in a library.",
	}, got.Characters[0])
}

func TestDecodeCurrentVersionSkipsAliases(t *testing.T) {
	got, err := Decode([]byte(`{"schemaVersion":2,"campaigns":[{"id":"c1","nome":"ignored","name":"Real"}]}`))
	require.NoError(t, err)
	assert.Equal(t, "Real", got.Campaigns[0].Name)
}

func TestDecodeFormatErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"empty object", `{}`, "none of campaigns"},
		{"unrelated object", `{"tasks":[]}`, "none of campaigns"},
		{"null", `null`, "neither an array nor an object"},
		{"number", `42`, "neither an array nor an object"},
		{"string", `"campaigns"`, "neither an array nor an object"},
		{"empty input", `   `, "empty"},
		{"invalid json", `{"campaigns": [`, "not valid JSON"},
		{"newer version", `{"schemaVersion":3,"campaigns":[]}`, "newer than supported"},
		{"bad version", `{"schemaVersion":"two","campaigns":[]}`, "not an integer"},
		{"zero version object", `{"schemaVersion":0,"campaigns":[]}`, "not valid"},
		{"campaigns not array", `{"campaigns":{"id":"c1"}}`, "array of objects"},
		{"array of scalars", `[1,2,3]`, "array of objects"},
		{"null element", `[null]`, "is not an object"},
		{"wrong field type", `{"schemaVersion":2,"characters":[{"id":"x","level":"high"}]}`, "unexpected field types"},
		{"bad legacy status", `[{"id":"c1","stato":7}]`, "status is not a string"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.doc))
			require.Error(t, err)
			assert.True(t, errors.IsFormatError(err), "expected FormatError, got %T: %v", err, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestRead(t *testing.T) {
	got, err := Read(strings.NewReader(`{"campaigns":[{"id":"c1","name":"A"}]}`))
	require.NoError(t, err)
	assert.Len(t, got.Campaigns, 1)
}
