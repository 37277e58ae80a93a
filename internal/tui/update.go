package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/questlog/internal/constants"
	"github.com/julianstephens/questlog/internal/records"
	"github.com/julianstephens/questlog/internal/tui/components/recordlist"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		m.setSize(msg.Width, msg.Height)
		return m, nil
	}

	switch m.state {
	case constants.StateEditing:
		return m, m.updateForm(msg)
	case constants.StateConfirmDelete:
		m.updateConfirmDelete(msg)
		return m, nil
	}

	switch msg := msg.(type) {
	case recordlist.AddMsg:
		return m, m.startForm(target{Kind: msg.Kind})
	case recordlist.EditMsg:
		return m, m.startForm(target{Kind: msg.Kind, ID: msg.ID})
	case recordlist.DeleteMsg:
		m.askDelete(msg.Kind, msg.ID)
		return m, nil
	case recordlist.SelectMsg:
		m.open(target{Kind: msg.Kind, ID: msg.ID})
		return m, nil

	case tea.KeyMsg:
		if m.filtering() {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Tab), key.Matches(msg, m.keys.Right):
			m.switchTab(1)
			return m, nil
		case key.Matches(msg, m.keys.ShiftTab), key.Matches(msg, m.keys.Left):
			m.switchTab(-1)
			return m, nil
		}

		switch m.state {
		case constants.StateDetail:
			switch {
			case key.Matches(msg, m.keys.Back):
				m.state = m.previousState
				m.crumbs = nil
				return m, nil
			case key.Matches(msg, m.keys.Edit):
				return m, m.startForm(m.viewing)
			}
		case constants.StateDiary:
			if key.Matches(msg, m.keys.ClearFilter) && m.selectedCampaignID != "" {
				m.selectedCampaignID = ""
				m.refresh()
				return m, nil
			}
		}
	}

	var cmd tea.Cmd
	switch m.state {
	case constants.StateCampaigns:
		m.campaigns, cmd = m.campaigns.Update(msg)
	case constants.StateCharacters:
		m.characters, cmd = m.characters.Update(msg)
	case constants.StateDiary:
		m.diary, cmd = m.diary.Update(msg)
	case constants.StateDetail:
		m.detail, cmd = m.detail.Update(msg)
	}
	return m, cmd
}

func (m Model) filtering() bool {
	switch m.state {
	case constants.StateCampaigns:
		return m.campaigns.Filtering()
	case constants.StateCharacters:
		return m.characters.Filtering()
	case constants.StateDiary:
		return m.diary.Filtering()
	}
	return false
}

// switchTab moves through the tabs, leaving any detail view.
func (m *Model) switchTab(step int) {
	current := m.activeTab()
	idx := 0
	for i, t := range constants.Tabs {
		if t == current {
			idx = i
		}
	}
	n := len(constants.Tabs)
	m.state = constants.Tabs[(idx+step+n)%n]
	m.crumbs = nil
	m.statusMessage = ""
}

func (m *Model) updateForm(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.closeForm()
		return nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		if err := m.saveForm(); err != nil {
			// Reopen the form with the entered values so the user can fix them
			m.formError = err.Error()
			return m.reopenForm()
		}
		m.statusMessage = fmt.Sprintf("Saved %s", m.editing.Kind)
		m.closeForm()
		m.refresh()
	case huh.StateAborted:
		m.closeForm()
	}
	return cmd
}

func (m *Model) reopenForm() tea.Cmd {
	switch m.editing.Kind {
	case recordlist.KindCampaign:
		m.form = NewCampaignForm(m.campaignForm)
	case recordlist.KindCharacter:
		m.form = NewCharacterForm(m.characterForm, m.agg.Campaigns)
	case recordlist.KindDiaryEntry:
		campaignID := m.selectedCampaignID
		if e, err := m.store.FindDiaryEntry(m.ctx(), m.editing.ID); err == nil {
			campaignID = e.CampaignID
		}
		m.form = NewDiaryForm(m.diaryForm, records.CharactersInCampaign(m.agg, campaignID))
	}
	return m.form.Init()
}

func (m *Model) closeForm() {
	m.form = nil
	m.campaignForm = nil
	m.characterForm = nil
	m.diaryForm = nil
	m.editing = target{}
	m.formError = ""
	m.crumbs = nil
	m.state = m.previousState
}

func (m *Model) askDelete(kind recordlist.Kind, id string) {
	t := target{Kind: kind, ID: id}
	switch kind {
	case recordlist.KindCampaign:
		c, err := m.store.FindCampaign(m.ctx(), id)
		if err != nil {
			m.statusMessage = err.Error()
			return
		}
		t.Name = c.Name
	case recordlist.KindCharacter:
		ch, err := m.store.FindCharacter(m.ctx(), id)
		if err != nil {
			m.statusMessage = err.Error()
			return
		}
		t.Name = ch.Name
	default:
		m.statusMessage = fmt.Sprintf("A %s cannot be deleted", kind)
		return
	}

	m.toDelete = t
	m.previousState = m.activeTab()
	m.state = constants.StateConfirmDelete
}

// updateConfirmDelete handles y/n. The y key is the confirmation, so the
// store is asked to delete without prompting again.
func (m *Model) updateConfirmDelete(msg tea.Msg) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return
	}

	switch {
	case key.Matches(km, m.keys.Confirm):
		var err error
		switch m.toDelete.Kind {
		case recordlist.KindCampaign:
			_, err = m.store.DeleteCampaign(m.ctx(), m.toDelete.ID, records.AlwaysConfirm)
		case recordlist.KindCharacter:
			_, err = m.store.DeleteCharacter(m.ctx(), m.toDelete.ID, records.AlwaysConfirm)
		}
		if err != nil {
			m.statusMessage = "Delete failed: " + err.Error()
		} else {
			m.statusMessage = fmt.Sprintf("Deleted %s %q", m.toDelete.Kind, m.toDelete.Name)
		}
		m.toDelete = target{}
		m.state = m.previousState
		m.refresh()
	case key.Matches(km, m.keys.Cancel):
		m.toDelete = target{}
		m.state = m.previousState
	}
}
