package models

import (
	"fmt"
	"math"
	"slices"
	"time"
)

type Character struct {
	ID               string   `json:"id" validate:"required"`
	Name             string   `json:"name" validate:"required"`
	Class            string   `json:"class"`
	Race             string   `json:"race"`
	Level            int      `json:"level" validate:"gte=1"`
	HPCurrent        int      `json:"hpCurrent"`
	HPMax            int      `json:"hpMax"`
	AC               int      `json:"ac"`
	Strength         int      `json:"strength"`
	Dexterity        int      `json:"dexterity"`
	Constitution     int      `json:"constitution"`
	Intelligence     int      `json:"intelligence"`
	Wisdom           int      `json:"wisdom"`
	Charisma         int      `json:"charisma"`
	Background       string   `json:"background"`
	Alignment        string   `json:"alignment"`
	XP               int      `json:"xp"`
	Speed            int      `json:"speed"`
	ProficiencyBonus int      `json:"proficiencyBonus"`
	SavingThrows     []string `json:"savingThrows"`
	CampaignIDs      []string `json:"campaignIds"`
	Backstory        string   `json:"backstory,omitempty"`
}

// Defaults applied to a freshly created character.
const (
	DefaultLevel            = 1
	DefaultHP               = 1
	DefaultAC               = 10
	DefaultAbilityScore     = 10
	DefaultSpeed            = 30
	DefaultProficiencyBonus = 2
)

// NewCharacter returns a character with the default stat block.
// HP and ability scores are deliberately left unbounded.
func NewCharacter(name string, now time.Time) Character {
	return Character{
		ID:               NewID(CharacterPrefix, now),
		Name:             name,
		Level:            DefaultLevel,
		HPCurrent:        DefaultHP,
		HPMax:            DefaultHP,
		AC:               DefaultAC,
		Strength:         DefaultAbilityScore,
		Dexterity:        DefaultAbilityScore,
		Constitution:     DefaultAbilityScore,
		Intelligence:     DefaultAbilityScore,
		Wisdom:           DefaultAbilityScore,
		Charisma:         DefaultAbilityScore,
		Speed:            DefaultSpeed,
		ProficiencyBonus: DefaultProficiencyBonus,
		SavingThrows:     []string{},
		CampaignIDs:      []string{},
	}
}

// Validate checks the fields a character form requires.
func (c Character) Validate() error {
	return validate(c)
}

// InCampaign reports whether the character belongs to the campaign.
func (c Character) InCampaign(campaignID string) bool {
	return slices.Contains(c.CampaignIDs, campaignID)
}

// ToggleCampaign adds the campaign id when absent and removes it otherwise.
// It returns true when the character is now a member.
func (c *Character) ToggleCampaign(campaignID string) bool {
	if i := slices.Index(c.CampaignIDs, campaignID); i >= 0 {
		c.CampaignIDs = slices.Delete(slices.Clone(c.CampaignIDs), i, i+1)
		return false
	}
	c.CampaignIDs = append(slices.Clone(c.CampaignIDs), campaignID)
	return true
}

// AbilityScore pairs an ability with its score for display.
type AbilityScore struct {
	Ability string
	Short   string
	Score   int
}

// Abilities returns the six ability scores in sheet order.
func (c Character) Abilities() []AbilityScore {
	return []AbilityScore{
		{Ability: "Strength", Short: "STR", Score: c.Strength},
		{Ability: "Dexterity", Short: "DEX", Score: c.Dexterity},
		{Ability: "Constitution", Short: "CON", Score: c.Constitution},
		{Ability: "Intelligence", Short: "INT", Score: c.Intelligence},
		{Ability: "Wisdom", Short: "WIS", Score: c.Wisdom},
		{Ability: "Charisma", Short: "CHA", Score: c.Charisma},
	}
}

// AbilityModifier returns floor((score-10)/2).
func AbilityModifier(score int) int {
	return int(math.Floor(float64(score-10) / 2))
}

// FormatModifier renders a modifier with an explicit sign.
func FormatModifier(mod int) string {
	if mod >= 0 {
		return fmt.Sprintf("+%d", mod)
	}
	return fmt.Sprintf("%d", mod)
}
