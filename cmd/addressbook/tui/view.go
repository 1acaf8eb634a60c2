package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"addressbook/cmd/addressbook/ui"
	"addressbook/internal/contacts"
)

// View implements tea.Model.
func (m Model) View() string {
	var sb strings.Builder

	sb.WriteString(m.headerView())
	sb.WriteString("\n")

	switch m.mode {
	case ModeEditor:
		sb.WriteString(m.editor.view(m.styles))
	case ModeConfirmDelete:
		sb.WriteString(m.confirmView())
	case ModeImport:
		sb.WriteString(m.styles.Title.Render("Import contacts"))
		sb.WriteString("\n")
		sb.WriteString(m.styles.Muted.Render("Pick an .xlsx, .xls or .csv file"))
		sb.WriteString("\n\n")
		sb.WriteString(m.picker.View())
	default:
		sb.WriteString(m.search.View())
		sb.WriteString("\n")
		sb.WriteString(m.viewport.View())
	}
	sb.WriteString("\n")

	if t, ok := m.Toast(); ok {
		sb.WriteString(ui.RenderToast(t, m.styles))
	}
	sb.WriteString("\n")
	sb.WriteString(m.footerView())
	return sb.String()
}

func (m Model) headerView() string {
	title := m.styles.Header.Render("Address Book")

	tabs := make([]string, 0, 2)
	for _, mode := range []contacts.ViewMode{contacts.ViewAll, contacts.ViewFavorites} {
		label := "All"
		if mode == contacts.ViewFavorites {
			label = "Favorites"
		}
		if m.filter.Mode == mode {
			tabs = append(tabs, m.styles.ActiveTab.Render(label))
		} else {
			tabs = append(tabs, m.styles.Tab.Render(label))
		}
	}

	status := ""
	if m.busy > 0 {
		status = " " + m.spinner.View()
	}

	top := lipgloss.JoinHorizontal(lipgloss.Center, title, " ", lipgloss.JoinHorizontal(lipgloss.Top, tabs...), status)
	return top + "\n" + ui.RenderStats(m.stats, m.styles)
}

func (m Model) confirmView() string {
	c := m.pendingDelete
	var sb strings.Builder
	sb.WriteString(m.styles.Error.Render("Delete this contact?"))
	sb.WriteString("\n\n")
	sb.WriteString(ui.RenderCard(c, m.styles, true, min(m.width, 60)))
	sb.WriteString("\n\n")
	sb.WriteString(m.styles.Prompt.Render("y") + m.styles.Muted.Render(" delete  ") +
		m.styles.Prompt.Render("n") + m.styles.Muted.Render(" keep"))
	return sb.String()
}

func (m Model) footerView() string {
	var view string
	switch m.mode {
	case ModeEditor:
		view = m.help.View(m.editorKeys)
	case ModeConfirmDelete:
		view = m.help.View(m.confirm)
	case ModeSearch:
		view = m.styles.Muted.Render("enter: search now  esc: done")
	case ModeImport:
		view = m.styles.Muted.Render("enter: import  esc: cancel")
	default:
		view = m.help.View(m.listKeys)
	}
	return m.styles.Footer.Render(view)
}
