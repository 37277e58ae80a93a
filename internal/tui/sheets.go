package tui

import (
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"

	"github.com/julianstephens/questlog/internal/constants"
	"github.com/julianstephens/questlog/internal/models"
	"github.com/julianstephens/questlog/internal/records"
	"github.com/julianstephens/questlog/internal/tui/components/detail"
	"github.com/julianstephens/questlog/internal/tui/components/recordlist"
)

// open shows the record sheet for t. Opening a campaign also selects it, so
// the diary tab and new entries follow it.
func (m *Model) open(t target) {
	var (
		title    string
		fields   []detail.Field
		sections []detail.Section
		err      error
	)

	switch t.Kind {
	case recordlist.KindCampaign:
		var c models.Campaign
		if c, err = m.store.FindCampaign(m.ctx(), t.ID); err == nil {
			m.selectedCampaignID = c.ID
			m.refresh()
			title = c.Name
			fields, sections = m.campaignSheet(c)
			m.crumbs = []string{"Campaigns", c.Name}
		}
	case recordlist.KindCharacter:
		var ch models.Character
		if ch, err = m.store.FindCharacter(m.ctx(), t.ID); err == nil {
			title = ch.Name
			fields, sections = m.characterSheet(ch)
			m.crumbs = []string{"Characters", ch.Name}
		}
	case recordlist.KindDiaryEntry:
		var e models.DiaryEntry
		if e, err = m.store.FindDiaryEntry(m.ctx(), t.ID); err == nil {
			title = e.DisplayTitle()
			fields, sections = m.entrySheet(e)
			m.crumbs = []string{"Diary", records.CampaignName(m.agg, e.CampaignID), title}
		}
	}
	if err != nil {
		m.statusMessage = err.Error()
		return
	}

	m.detail.Show(title, fields, sections)
	m.viewing = t
	m.previousState = m.activeTab()
	m.state = constants.StateDetail
}

func (m Model) campaignSheet(c models.Campaign) ([]detail.Field, []detail.Section) {
	fields := []detail.Field{
		{Label: "Master", Value: c.Master},
		{Label: "Status", Value: c.Status.Label()},
		{Label: "Description", Value: c.Description},
	}
	if updated, err := models.ParseTimestamp(c.UpdatedAt); err == nil {
		fields = append(fields, detail.Field{Label: "Updated", Value: humanize.RelTime(updated, m.store.Now(), "ago", "from now")})
	}

	var party []string
	for _, ch := range records.CharactersInCampaign(m.agg, c.ID) {
		party = append(party, fmt.Sprintf("%s (%s)", ch.Name, characterSummary(ch)))
	}
	var sessions []string
	for _, e := range records.EntriesForCampaign(m.agg, c.ID) {
		sessions = append(sessions, e.Session().Format(constants.DateFormat)+"  "+e.DisplayTitle())
	}
	return fields, []detail.Section{
		{Heading: "Party", Lines: party},
		{Heading: "Sessions", Lines: sessions},
	}
}

func (m Model) characterSheet(ch models.Character) ([]detail.Field, []detail.Section) {
	fields := []detail.Field{
		{Label: "Class", Value: ch.Class},
		{Label: "Race", Value: ch.Race},
		{Label: "Level", Value: strconv.Itoa(ch.Level)},
		{Label: "HP", Value: fmt.Sprintf("%d/%d", ch.HPCurrent, ch.HPMax)},
		{Label: "AC", Value: strconv.Itoa(ch.AC)},
		{Label: "Speed", Value: strconv.Itoa(ch.Speed)},
		{Label: "Proficiency", Value: models.FormatModifier(ch.ProficiencyBonus)},
		{Label: "Background", Value: ch.Background},
		{Label: "Alignment", Value: ch.Alignment},
	}

	var abilities []string
	for _, a := range ch.Abilities() {
		abilities = append(abilities, fmt.Sprintf("%s %2d (%s)", a.Short, a.Score, models.FormatModifier(models.AbilityModifier(a.Score))))
	}
	var campaigns []string
	for _, id := range records.LiveCampaignIDs(m.agg, ch.CampaignIDs) {
		campaigns = append(campaigns, records.CampaignName(m.agg, id))
	}
	sections := []detail.Section{
		{Heading: "Abilities", Lines: abilities},
		{Heading: "Saving throws", Lines: ch.SavingThrows},
		{Heading: "Campaigns", Lines: campaigns},
	}
	if ch.Backstory != "" {
		sections = append(sections, detail.Section{Heading: "Backstory", Lines: []string{ch.Backstory}})
	}
	return fields, sections
}

func (m Model) entrySheet(e models.DiaryEntry) ([]detail.Field, []detail.Section) {
	fields := []detail.Field{
		{Label: "Campaign", Value: records.CampaignName(m.agg, e.CampaignID)},
		{Label: "Session", Value: e.Session().Format(constants.DisplayDateFormat)},
	}

	var present []string
	for _, ch := range m.agg.Characters {
		if e.HasCharacter(ch.ID) {
			present = append(present, ch.Name)
		}
	}
	return fields, []detail.Section{
		{Heading: "With", Lines: present},
		{Heading: "Notes", Lines: []string{e.Text}},
	}
}
