package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/questlog/internal/cli"
	"github.com/julianstephens/questlog/internal/constants"
	"github.com/julianstephens/questlog/internal/records"
	"github.com/julianstephens/questlog/internal/tui/components/recordlist"
)

var tabTitles = map[constants.SessionState]string{
	constants.StateHome:       "Home",
	constants.StateCampaigns:  "Campaigns",
	constants.StateCharacters: "Characters",
	constants.StateDiary:      "Diary",
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case constants.StateHome:
		content = docStyle.Render(m.viewHome())
	case constants.StateCampaigns:
		content = docStyle.Render(m.campaigns.View())
	case constants.StateCharacters:
		content = docStyle.Render(m.characters.View())
	case constants.StateDiary:
		content = docStyle.Render(m.diary.View())
	case constants.StateDetail:
		content = docStyle.Render(m.detail.View())
	case constants.StateEditing:
		content = docStyle.Render(m.form.View())
	case constants.StateConfirmDelete:
		content = m.viewConfirmDelete()
	}

	sections := []string{m.viewTabs(), breadcrumbStyle.Render(m.Breadcrumb()), content}
	if m.formError != "" {
		sections = append(sections, errorStyle.Render(m.formError))
	}
	if m.statusMessage != "" {
		sections = append(sections, mutedStyle.Render(m.statusMessage))
	}
	if m.validationWarning != "" {
		sections = append(sections, warningStyle.Render(m.validationWarning))
	}
	sections = append(sections, m.help.View(m))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// Breadcrumb is the navigation trail shown under the tabs.
func (m Model) Breadcrumb() string {
	switch m.state {
	case constants.StateHome:
		return cli.Breadcrumb()
	case constants.StateDetail:
		return cli.Breadcrumb(m.crumbs...)
	case constants.StateEditing:
		action := "New " + string(m.editing.Kind)
		if m.editing.ID != "" {
			action = "Edit " + string(m.editing.Kind)
		}
		return cli.Breadcrumb(tabTitles[m.previousState], action)
	case constants.StateDiary:
		if m.selectedCampaignID != "" {
			return cli.Breadcrumb("Diary", records.CampaignName(m.agg, m.selectedCampaignID))
		}
	}
	return cli.Breadcrumb(tabTitles[m.activeTab()])
}

func (m Model) viewTabs() string {
	var tabs []string
	active := m.activeTab()
	for _, state := range constants.Tabs {
		if state == active {
			tabs = append(tabs, activeTabStyle.Render(tabTitles[state]))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(tabTitles[state]))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewHome() string {
	counts := m.agg.Counts()
	var b strings.Builder
	fmt.Fprintf(&b, "%d campaigns, %d characters, %d diary entries\n\n",
		counts.Campaigns, counts.Characters, counts.DiaryEntries)

	if m.selectedCampaignID != "" {
		fmt.Fprintf(&b, "Current campaign: %s\n\n", records.CampaignName(m.agg, m.selectedCampaignID))
	}

	entries := records.EntriesForCampaign(m.agg, m.selectedCampaignID)
	if len(entries) == 0 {
		b.WriteString(mutedStyle.Render("No sessions recorded yet."))
		return b.String()
	}
	b.WriteString("Latest sessions:\n")
	for _, e := range entries[:min(len(entries), 5)] {
		fmt.Fprintf(&b, "  %s  %s  %s\n",
			e.Session().Format(constants.DateFormat), e.DisplayTitle(),
			mutedStyle.Render(records.CampaignName(m.agg, e.CampaignID)))
	}
	return b.String()
}

func (m Model) viewConfirmDelete() string {
	question := fmt.Sprintf("Delete %s %q?", m.toDelete.Kind, m.toDelete.Name)
	if m.toDelete.Kind == recordlist.KindCampaign {
		question += "\nCharacters and diary entries keep their reference to it."
	}
	return lipgloss.Place(m.width, max(m.height-4, 0),
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render(question),
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}
