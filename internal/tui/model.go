package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"golang.org/x/text/language"

	"github.com/julianstephens/questlog/internal/constants"
	"github.com/julianstephens/questlog/internal/models"
	"github.com/julianstephens/questlog/internal/records"
	"github.com/julianstephens/questlog/internal/tui/components/detail"
	"github.com/julianstephens/questlog/internal/tui/components/recordlist"
	"github.com/julianstephens/questlog/internal/validation"
)

// target identifies the record a form or confirmation acts on. An empty ID
// means a new record.
type target struct {
	Kind recordlist.Kind
	ID   string
	Name string
}

type Model struct {
	store         *records.Store
	lang          language.Tag
	agg           models.Aggregate
	state         constants.SessionState
	previousState constants.SessionState
	keys          KeyMap
	help          help.Model

	campaigns  recordlist.Model
	characters recordlist.Model
	diary      recordlist.Model
	detail     detail.Model

	form          *huh.Form
	campaignForm  *CampaignFormModel
	characterForm *CharacterFormModel
	diaryForm     *DiaryFormModel
	editing       target
	viewing       target
	toDelete      target

	// selectedCampaignID filters the diary tab; empty shows every entry
	selectedCampaignID string
	crumbs             []string

	validationWarning string
	formError         string
	statusMessage     string
	quitting          bool
	width             int
	height            int
}

func NewModel(store *records.Store, lang language.Tag) Model {
	m := Model{
		store:      store,
		lang:       lang,
		state:      constants.StateHome,
		keys:       DefaultKeyMap(),
		help:       help.New(),
		campaigns:  recordlist.New(recordlist.KindCampaign, "No campaigns yet.", true, 0, 0),
		characters: recordlist.New(recordlist.KindCharacter, "No characters yet.", true, 0, 0),
		diary:      recordlist.New(recordlist.KindDiaryEntry, "No diary entries yet.", false, 0, 0),
		detail:     detail.New(0, 0),
	}
	m.refresh()
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) ctx() context.Context {
	return context.Background()
}

// refresh reloads the aggregate and rebuilds every list from it.
func (m *Model) refresh() {
	m.agg = m.store.GetAggregate(m.ctx())

	if m.selectedCampaignID != "" && records.CampaignName(m.agg, m.selectedCampaignID) == constants.UnknownCampaignName {
		m.selectedCampaignID = ""
	}

	campaigns := append([]models.Campaign(nil), m.agg.Campaigns...)
	records.SortByName(campaigns, records.CampaignNameOf, m.lang)
	items := make([]recordlist.Item, len(campaigns))
	for i, c := range campaigns {
		items[i] = recordlist.Item{ID: c.ID, Name: c.Name, Detail: campaignSummary(m.agg, c)}
	}
	m.campaigns.SetItems(items)

	characters := append([]models.Character(nil), m.agg.Characters...)
	records.SortByName(characters, records.CharacterNameOf, m.lang)
	items = make([]recordlist.Item, len(characters))
	for i, ch := range characters {
		items[i] = recordlist.Item{ID: ch.ID, Name: ch.Name, Detail: characterSummary(ch)}
	}
	m.characters.SetItems(items)

	entries := records.EntriesForCampaign(m.agg, m.selectedCampaignID)
	items = make([]recordlist.Item, len(entries))
	for i, e := range entries {
		items[i] = recordlist.Item{ID: e.ID, Name: e.DisplayTitle(), Detail: m.entrySummary(e)}
	}
	m.diary.SetItems(items)

	m.updateValidationStatus()
}

func campaignSummary(agg models.Aggregate, c models.Campaign) string {
	desc := "Master: " + c.Master
	if label := c.Status.Label(); label != "" {
		desc += " | " + label
	}
	return fmt.Sprintf("%s | %d characters", desc, len(records.CharactersInCampaign(agg, c.ID)))
}

func characterSummary(ch models.Character) string {
	desc := fmt.Sprintf("Level %d", ch.Level)
	if ch.Race != "" {
		desc += " " + ch.Race
	}
	if ch.Class != "" {
		desc += " " + ch.Class
	}
	return fmt.Sprintf("%s | HP %d/%d | AC %d", desc, ch.HPCurrent, ch.HPMax, ch.AC)
}

func (m Model) entrySummary(e models.DiaryEntry) string {
	day := e.Session().Format(constants.DisplayDateFormat)
	if m.selectedCampaignID != "" {
		return day
	}
	return day + " | " + records.CampaignName(m.agg, e.CampaignID)
}

// updateValidationStatus runs validation and updates the warning message
func (m *Model) updateValidationStatus() {
	result := validation.New().ValidateAggregate(m.agg)
	if result.HasConflicts() {
		m.validationWarning = fmt.Sprintf("⚠ %d validation warning(s), run 'questlog validate'", len(result.Conflicts))
	} else {
		m.validationWarning = ""
	}
}

func (m *Model) setSize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width

	h, v := docStyle.GetFrameSize()
	// tabs, breadcrumb, status and help lines
	listHeight := max(height-v-5, 1)
	listWidth := max(width-h, 1)
	m.campaigns.SetSize(listWidth, listHeight)
	m.characters.SetSize(listWidth, listHeight)
	m.diary.SetSize(listWidth, listHeight)
	m.detail.SetSize(listWidth, listHeight)
}

// activeTab is the tab highlighted in the tab bar. Overlay states keep the
// tab they were opened from.
func (m Model) activeTab() constants.SessionState {
	for _, t := range constants.Tabs {
		if t == m.state {
			return t
		}
	}
	return m.previousState
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	switch m.state {
	case constants.StateDetail:
		keys = append(keys, m.keys.Back)
	case constants.StateDiary:
		keys = append(keys, m.keys.ClearFilter)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	return m.keys.FullHelp()
}

// State exposes the current session state.
func (m Model) State() constants.SessionState {
	return m.state
}
