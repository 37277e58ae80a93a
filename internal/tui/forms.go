package tui

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/questlog/internal/constants"
	"github.com/julianstephens/questlog/internal/models"
	"github.com/julianstephens/questlog/internal/records"
	"github.com/julianstephens/questlog/internal/tui/components/recordlist"
)

type CampaignFormModel struct {
	Name        string
	Master      string
	Description string
	Status      string
}

type CharacterFormModel struct {
	Name        string
	Class       string
	Race        string
	Level       string
	HPCurrent   string
	HPMax       string
	AC          string
	XP          string
	Speed       string
	Proficiency string

	Strength     string
	Dexterity    string
	Constitution string
	Intelligence string
	Wisdom       string
	Charisma     string
	SavingThrows []string

	Background  string
	Alignment   string
	CampaignIDs []string
	Backstory   string
}

type DiaryFormModel struct {
	Date         string
	Title        string
	Text         string
	CharacterIDs []string
}

func validateInt(lowest int) func(string) error {
	return func(s string) error {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return fmt.Errorf("must be a whole number")
		}
		if n < lowest {
			return fmt.Errorf("must be at least %d", lowest)
		}
		return nil
	}
}

func validateAnyInt(s string) error {
	if _, err := strconv.Atoi(strings.TrimSpace(s)); err != nil {
		return fmt.Errorf("must be a whole number")
	}
	return nil
}

func validateDay(s string) error {
	if _, err := models.ParseSessionDay(strings.TrimSpace(s)); err != nil {
		return fmt.Errorf("use YYYY-MM-DD")
	}
	return nil
}

func NewCampaignForm(f *CampaignFormModel) *huh.Form {
	statuses := []huh.Option[string]{huh.NewOption("(none)", "")}
	for _, s := range models.CampaignStatuses {
		statuses = append(statuses, huh.NewOption(s.Label(), string(s)))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Name").Value(&f.Name),
			huh.NewInput().Title("Master").Value(&f.Master),
			huh.NewSelect[string]().Title("Status").Options(statuses...).Value(&f.Status),
			huh.NewText().Title("Description").Value(&f.Description),
		),
	).WithTheme(huh.ThemeDracula())
}

func NewCharacterForm(f *CharacterFormModel, campaigns []models.Campaign) *huh.Form {
	fields := []huh.Field{
		huh.NewInput().Title("Name").Value(&f.Name),
		huh.NewInput().Title("Class").Suggestions(models.ClassOptions).Value(&f.Class),
		huh.NewInput().Title("Race").Suggestions(models.RaceOptions).Value(&f.Race),
		huh.NewInput().Title("Level").Value(&f.Level).Validate(validateInt(1)),
		huh.NewInput().Title("Current HP").Value(&f.HPCurrent).Validate(validateAnyInt),
		huh.NewInput().Title("Max HP").Value(&f.HPMax).Validate(validateAnyInt),
		huh.NewInput().Title("Armor Class").Value(&f.AC).Validate(validateAnyInt),
	}
	abilities := []huh.Field{
		huh.NewInput().Title("Strength").Value(&f.Strength).Validate(validateAnyInt),
		huh.NewInput().Title("Dexterity").Value(&f.Dexterity).Validate(validateAnyInt),
		huh.NewInput().Title("Constitution").Value(&f.Constitution).Validate(validateAnyInt),
		huh.NewInput().Title("Intelligence").Value(&f.Intelligence).Validate(validateAnyInt),
		huh.NewInput().Title("Wisdom").Value(&f.Wisdom).Validate(validateAnyInt),
		huh.NewInput().Title("Charisma").Value(&f.Charisma).Validate(validateAnyInt),
		huh.NewInput().Title("Experience").Value(&f.XP).Validate(validateAnyInt),
		huh.NewInput().Title("Speed").Value(&f.Speed).Validate(validateAnyInt),
		huh.NewInput().Title("Proficiency bonus").Value(&f.Proficiency).Validate(validateAnyInt),
	}
	saves := make([]huh.Option[string], len(models.SavingThrowOptions))
	for i, name := range models.SavingThrowOptions {
		saves[i] = huh.NewOption(name, name).Selected(slices.Contains(f.SavingThrows, name))
	}
	abilities = append(abilities, huh.NewMultiSelect[string]().Title("Saving throws").Options(saves...).Value(&f.SavingThrows))

	details := []huh.Field{
		huh.NewInput().Title("Background").Suggestions(models.BackgroundOptions).Value(&f.Background),
		huh.NewInput().Title("Alignment").Suggestions(models.AlignmentOptions).Value(&f.Alignment),
		huh.NewText().Title("Backstory").Value(&f.Backstory),
	}
	if len(campaigns) > 0 {
		options := make([]huh.Option[string], len(campaigns))
		for i, c := range campaigns {
			options[i] = huh.NewOption(c.Name, c.ID).Selected(slices.Contains(f.CampaignIDs, c.ID))
		}
		details = append(details, huh.NewMultiSelect[string]().Title("Campaigns").Options(options...).Value(&f.CampaignIDs))
	}

	return huh.NewForm(
		huh.NewGroup(fields...),
		huh.NewGroup(abilities...),
		huh.NewGroup(details...),
	).WithTheme(huh.ThemeDracula())
}

func NewDiaryForm(f *DiaryFormModel, participants []models.Character) *huh.Form {
	fields := []huh.Field{
		huh.NewInput().Title("Session date").Placeholder(constants.DateFormat).Value(&f.Date).Validate(validateDay),
		huh.NewInput().Title("Title").Value(&f.Title),
		huh.NewText().Title("Text").Value(&f.Text),
	}
	if len(participants) > 0 {
		options := make([]huh.Option[string], len(participants))
		for i, ch := range participants {
			options[i] = huh.NewOption(ch.Name, ch.ID).Selected(slices.Contains(f.CharacterIDs, ch.ID))
		}
		fields = append(fields, huh.NewMultiSelect[string]().Title("Characters present").Options(options...).Value(&f.CharacterIDs))
	}
	return huh.NewForm(huh.NewGroup(fields...)).WithTheme(huh.ThemeDracula())
}

// startForm opens the create or edit form for t.
func (m *Model) startForm(t target) tea.Cmd {
	m.formError = ""
	switch t.Kind {
	case recordlist.KindCampaign:
		f := &CampaignFormModel{Status: string(models.CampaignStatusNew)}
		if t.ID != "" {
			c, err := m.store.FindCampaign(m.ctx(), t.ID)
			if err != nil {
				m.statusMessage = err.Error()
				return nil
			}
			f = &CampaignFormModel{Name: c.Name, Master: c.Master, Description: c.Description, Status: string(c.Status)}
		}
		m.campaignForm = f
		m.form = NewCampaignForm(f)

	case recordlist.KindCharacter:
		ch := models.NewCharacter("", m.store.Now())
		if t.ID != "" {
			var err error
			if ch, err = m.store.FindCharacter(m.ctx(), t.ID); err != nil {
				m.statusMessage = err.Error()
				return nil
			}
		}
		f := &CharacterFormModel{
			Name:        ch.Name,
			Class:       ch.Class,
			Race:        ch.Race,
			Level:       strconv.Itoa(ch.Level),
			HPCurrent:   strconv.Itoa(ch.HPCurrent),
			HPMax:       strconv.Itoa(ch.HPMax),
			AC:          strconv.Itoa(ch.AC),
			XP:          strconv.Itoa(ch.XP),
			Speed:       strconv.Itoa(ch.Speed),
			Proficiency: strconv.Itoa(ch.ProficiencyBonus),

			Strength:     strconv.Itoa(ch.Strength),
			Dexterity:    strconv.Itoa(ch.Dexterity),
			Constitution: strconv.Itoa(ch.Constitution),
			Intelligence: strconv.Itoa(ch.Intelligence),
			Wisdom:       strconv.Itoa(ch.Wisdom),
			Charisma:     strconv.Itoa(ch.Charisma),
			SavingThrows: append([]string{}, ch.SavingThrows...),

			Background:  ch.Background,
			Alignment:   ch.Alignment,
			CampaignIDs: records.LiveCampaignIDs(m.agg, ch.CampaignIDs),
			Backstory:   ch.Backstory,
		}
		if t.ID == "" && m.selectedCampaignID != "" {
			f.CampaignIDs = []string{m.selectedCampaignID}
		}
		m.characterForm = f
		m.form = NewCharacterForm(f, m.agg.Campaigns)

	case recordlist.KindDiaryEntry:
		campaignID := m.selectedCampaignID
		f := &DiaryFormModel{Date: m.store.Now().Format(constants.DateFormat)}
		if t.ID != "" {
			e, err := m.store.FindDiaryEntry(m.ctx(), t.ID)
			if err != nil {
				m.statusMessage = err.Error()
				return nil
			}
			campaignID = e.CampaignID
			f = &DiaryFormModel{
				Date:         e.Session().Format(constants.DateFormat),
				Title:        e.Title,
				Text:         e.Text,
				CharacterIDs: e.CharacterIDs,
			}
		}
		if campaignID == "" {
			m.statusMessage = "Select a campaign first: open one from the Campaigns tab"
			return nil
		}
		m.diaryForm = f
		m.form = NewDiaryForm(f, records.CharactersInCampaign(m.agg, campaignID))
	}

	m.editing = t
	m.statusMessage = ""
	if m.state != constants.StateEditing {
		m.previousState = m.activeTab()
	}
	m.state = constants.StateEditing
	return m.form.Init()
}

// saveForm applies the completed form to the store.
func (m *Model) saveForm() error {
	switch m.editing.Kind {
	case recordlist.KindCampaign:
		return m.saveCampaign()
	case recordlist.KindCharacter:
		return m.saveCharacter()
	case recordlist.KindDiaryEntry:
		return m.saveDiaryEntry()
	}
	return fmt.Errorf("nothing to save")
}

func (m *Model) saveCampaign() error {
	f := m.campaignForm
	now := m.store.Now()

	c := models.NewCampaign("", "", now)
	if m.editing.ID != "" {
		var err error
		if c, err = m.store.FindCampaign(m.ctx(), m.editing.ID); err != nil {
			return err
		}
		c.Touch(now)
	}
	c.Name = strings.TrimSpace(f.Name)
	c.Master = strings.TrimSpace(f.Master)
	c.Description = strings.TrimSpace(f.Description)
	c.Status = models.CampaignStatus(f.Status)

	if err := c.Validate(); err != nil {
		return err
	}
	return m.store.UpsertCampaign(m.ctx(), c)
}

func (m *Model) saveCharacter() error {
	f := m.characterForm
	now := m.store.Now()

	ch := models.NewCharacter("", now)
	if m.editing.ID != "" {
		var err error
		if ch, err = m.store.FindCharacter(m.ctx(), m.editing.ID); err != nil {
			return err
		}
	}
	ch.Name = strings.TrimSpace(f.Name)
	ch.Class = strings.TrimSpace(f.Class)
	ch.Race = strings.TrimSpace(f.Race)
	ch.Background = strings.TrimSpace(f.Background)
	ch.Alignment = strings.TrimSpace(f.Alignment)
	ch.Backstory = strings.TrimSpace(f.Backstory)

	for _, field := range []struct {
		name  string
		value string
		dst   *int
	}{
		{"level", f.Level, &ch.Level},
		{"hpCurrent", f.HPCurrent, &ch.HPCurrent},
		{"hpMax", f.HPMax, &ch.HPMax},
		{"ac", f.AC, &ch.AC},
		{"xp", f.XP, &ch.XP},
		{"speed", f.Speed, &ch.Speed},
		{"proficiencyBonus", f.Proficiency, &ch.ProficiencyBonus},
		{"strength", f.Strength, &ch.Strength},
		{"dexterity", f.Dexterity, &ch.Dexterity},
		{"constitution", f.Constitution, &ch.Constitution},
		{"intelligence", f.Intelligence, &ch.Intelligence},
		{"wisdom", f.Wisdom, &ch.Wisdom},
		{"charisma", f.Charisma, &ch.Charisma},
	} {
		n, err := strconv.Atoi(strings.TrimSpace(field.value))
		if err != nil {
			return models.ValidationErrors{{Field: field.name, Message: "must be a whole number"}}
		}
		*field.dst = n
	}

	// free-text saving throws the form cannot show are kept as well
	saves := make([]string, 0, len(f.SavingThrows))
	for _, name := range ch.SavingThrows {
		if !slices.Contains(models.SavingThrowOptions, name) {
			saves = append(saves, name)
		}
	}
	ch.SavingThrows = append(saves, f.SavingThrows...)

	// stale memberships survive an edit; the form only lists live campaigns
	stale := make([]string, 0)
	for _, id := range ch.CampaignIDs {
		if records.CampaignName(m.agg, id) == constants.UnknownCampaignName {
			stale = append(stale, id)
		}
	}
	ch.CampaignIDs = append(stale, f.CampaignIDs...)

	if err := ch.Validate(); err != nil {
		return err
	}
	return m.store.UpsertCharacter(m.ctx(), ch)
}

func (m *Model) saveDiaryEntry() error {
	f := m.diaryForm
	now := m.store.Now()

	day, err := models.ParseSessionDay(strings.TrimSpace(f.Date))
	if err != nil {
		return models.ValidationErrors{{Field: "sessionDate", Message: "use YYYY-MM-DD"}}
	}

	e := models.NewDiaryEntry(m.selectedCampaignID, now, now)
	if m.editing.ID != "" {
		if e, err = m.store.FindDiaryEntry(m.ctx(), m.editing.ID); err != nil {
			return err
		}
		e.Touch(now)
	}
	e.SessionDate = day
	e.Title = strings.TrimSpace(f.Title)
	e.Text = f.Text
	e.CharacterIDs = append([]string{}, f.CharacterIDs...)

	if err := e.Validate(); err != nil {
		return err
	}
	return m.store.UpsertDiaryEntry(m.ctx(), e)
}
