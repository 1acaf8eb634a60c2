package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"addressbook/cmd/addressbook/ui"
	"addressbook/internal/contacts"
)

// Fixed focus slots before the method rows. Each row then takes two slots:
// value and label.
const (
	focusName = iota
	focusNotes
	focusFavorite
	focusRows
)

// editor is the create/edit form. The contacts.Form holds the id, the
// favorite flag and the row types; the text lives in the inputs until Form()
// collects it.
type editor struct {
	form   contacts.Form
	name   textinput.Model
	notes  textinput.Model
	values []textinput.Model
	labels []textinput.Model
	focus  int
	width  int
}

func newInput(placeholder, value string, limit int) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	ti.Prompt = ""
	ti.SetValue(value)
	return ti
}

func newEditor(form contacts.Form, width int) editor {
	e := editor{
		form:  form,
		name:  newInput("Name (required)", form.Name, 100),
		notes: newInput("Notes", form.Notes, 1000),
	}
	e.setWidth(width)
	e.rebuildRows()
	e.applyFocus()
	return e
}

func (e *editor) rebuildRows() {
	e.values = make([]textinput.Model, len(e.form.Rows))
	e.labels = make([]textinput.Model, len(e.form.Rows))
	for i, row := range e.form.Rows {
		e.values[i] = newInput("value", row.Value, 200)
		e.labels[i] = newInput(contacts.DefaultLabel, row.Label, 50)
	}
	e.setWidth(e.width)
}

func (e *editor) setWidth(width int) {
	e.width = width
	fieldWidth := max(width-16, 20)
	e.name.Width = fieldWidth
	e.notes.Width = fieldWidth
	for i := range e.values {
		e.values[i].Width = max(fieldWidth-20, 16)
		e.labels[i].Width = 12
	}
}

func (e *editor) slots() int {
	return focusRows + 2*len(e.form.Rows)
}

// row returns the method row under focus, or -1.
func (e *editor) row() int {
	if e.focus < focusRows {
		return -1
	}
	return (e.focus - focusRows) / 2
}

// input returns the text input under focus, or nil on the favorite toggle.
func (e *editor) input() *textinput.Model {
	switch {
	case e.focus == focusName:
		return &e.name
	case e.focus == focusNotes:
		return &e.notes
	case e.focus == focusFavorite:
		return nil
	}
	r := e.row()
	if (e.focus-focusRows)%2 == 0 {
		return &e.values[r]
	}
	return &e.labels[r]
}

func (e *editor) applyFocus() {
	e.name.Blur()
	e.notes.Blur()
	for i := range e.values {
		e.values[i].Blur()
		e.labels[i].Blur()
	}
	if in := e.input(); in != nil {
		in.Focus()
	}
}

func (e *editor) move(delta int) {
	n := e.slots()
	e.focus = ((e.focus+delta)%n + n) % n
	e.applyFocus()
}

// sync copies the inputs back into the form rows.
func (e *editor) sync() {
	e.form.Name = e.name.Value()
	e.form.Notes = e.notes.Value()
	for i := range e.form.Rows {
		e.form.Rows[i].Value = e.values[i].Value()
		e.form.Rows[i].Label = e.labels[i].Value()
	}
}

// Form returns the edited form.
func (e editor) Form() contacts.Form {
	e.sync()
	out := e.form
	out.Rows = append([]contacts.MethodRow(nil), e.form.Rows...)
	return out
}

func (e *editor) toggleFavorite() {
	e.form.Favorite = !e.form.Favorite
}

// cycleType advances the type of the focused row.
func (e *editor) cycleType() {
	if r := e.row(); r >= 0 {
		e.form.Rows[r].Type = e.form.Rows[r].Type.Next()
	}
}

// addRow appends a blank phone row and focuses its value.
func (e *editor) addRow() {
	e.sync()
	e.form.AddRow()
	e.rebuildRows()
	e.focus = focusRows + 2*(len(e.form.Rows)-1)
	e.applyFocus()
}

// removeRow deletes the focused row; the last remaining row is cleared.
func (e *editor) removeRow() {
	r := e.row()
	if r < 0 {
		return
	}
	e.sync()
	e.form.RemoveRow(r)
	e.rebuildRows()
	if e.focus >= e.slots() {
		e.focus = e.slots() - 2
	}
	e.applyFocus()
}

// update forwards a key to the focused input.
func (e editor) update(msg tea.Msg) (editor, tea.Cmd) {
	in := e.input()
	if in == nil {
		return e, nil
	}
	var cmd tea.Cmd
	*in, cmd = in.Update(msg)
	return e, cmd
}

func (e editor) view(s ui.Styles) string {
	var sb strings.Builder

	title := "New contact"
	if !e.form.IsNew() {
		title = fmt.Sprintf("Edit contact #%d", e.form.ID)
	}
	sb.WriteString(s.Title.Render(title))
	sb.WriteString("\n\n")

	field := func(slot int, label, body string) {
		marker := "  "
		labelStyle := s.Muted
		if e.focus == slot {
			marker = s.Focused.Render("> ")
			labelStyle = s.Focused
		}
		sb.WriteString(marker + labelStyle.Width(10).Render(label) + body + "\n")
	}

	field(focusName, "Name", e.name.View())
	field(focusNotes, "Notes", e.notes.View())
	field(focusFavorite, "Favorite", s.Favorite.Render(ui.Star(e.form.Favorite)))

	sb.WriteString("\n" + s.Bold.Render("Contact methods") + "\n")
	for i, row := range e.form.Rows {
		valueSlot := focusRows + 2*i
		field(valueSlot, row.Type.Title(), e.values[i].View())
		field(valueSlot+1, "  label", e.labels[i].View())
	}
	return sb.String()
}
