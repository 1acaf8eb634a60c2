package tui

import (
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"addressbook/internal/contacts"
	"addressbook/internal/engine"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case loadedMsg:
		m.busy = max(m.busy-1, 0)
		if msg.err != nil {
			m.logger.Debug("load failed", zap.Error(msg.err))
			m.loadErr = msg.err
		}
		m.applyState(msg.state)
		m.renderCards()
		return m, nil

	case formLoadedMsg:
		m.busy = max(m.busy-1, 0)
		if msg.err != nil {
			return m, nil
		}
		m.editor = newEditor(msg.form, m.width)
		m.mode = ModeEditor
		return m, nil

	case savedMsg:
		m.busy = max(m.busy-1, 0)
		m.applyState(msg.state)
		if msg.err == nil && m.mode == ModeEditor {
			m.mode = ModeList
		}
		return m, nil

	case deletedMsg:
		m.busy = max(m.busy-1, 0)
		m.applyState(msg.state)
		return m, nil

	case favoriteMsg:
		m.busy = max(m.busy-1, 0)
		m.applyState(msg.state)
		return m, nil

	case importedMsg:
		m.busy = max(m.busy-1, 0)
		m.applyState(msg.state)
		return m, nil

	case exportedMsg:
		return m, nil

	case toastMsg:
		t := engine.Toast(msg)
		m.toast = &t
		m.toastID++
		d := m.toastDuration
		if t.Level == engine.LevelError {
			d = m.errorToastDuration
		}
		return m, tea.Batch(expireToast(m.toastID, d), waitForToast(m.notifier.ch))

	case toastExpiredMsg:
		if msg.id == m.toastID {
			m.toast = nil
		}
		return m, nil

	case searchSettledMsg:
		// A settle that raced with a newer keystroke is dropped; the newer
		// one settles on its own.
		if m.debounce.IsLatest(msg.Seq) {
			m.filter.Search = msg.Term
			m.selected = 0
			m.refresh()
		}
		return m, waitForSearch(m.debounce.Settled())

	case configChangedMsg:
		m.applyConfig(msg.cfg)
		m.renderCards()
		m.logger.Info("config applied")
		return m, waitForConfig(m.configUpdates)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.mode == ModeImport {
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	m.help.Width = width
	m.search.Width = max(width-6, 10)
	m.viewport.Width = width
	// header, stats, search, tabs, toast, footer
	m.viewport.Height = max(height-7, 3)
	m.picker.Height = max(height-8, 3)
	m.editor.setWidth(width)
	m.renderCards()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.debounce.Cancel()
		return m, tea.Quit
	}

	switch m.mode {
	case ModeSearch:
		return m.handleSearchKey(msg)
	case ModeEditor:
		return m.handleEditorKey(msg)
	case ModeConfirmDelete:
		return m.handleConfirmKey(msg)
	case ModeImport:
		return m.handleImportKey(msg)
	}
	return m.handleListKey(msg)
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.listKeys
	switch {
	case key.Matches(msg, k.Quit):
		m.debounce.Cancel()
		return m, tea.Quit

	case key.Matches(msg, k.Search):
		m.mode = ModeSearch
		return m, m.search.Focus()

	case key.Matches(msg, k.Toggle):
		m.filter.Mode = m.filter.Mode.Toggle()
		m.selected = 0
		m.refresh()

	case key.Matches(msg, k.Up):
		if m.selected > 0 {
			m.selected--
			m.renderCards()
		}

	case key.Matches(msg, k.Down):
		if m.selected < len(m.view.Contacts)-1 {
			m.selected++
			m.renderCards()
		}

	case key.Matches(msg, k.New):
		m.editor = newEditor(contacts.NewForm(), m.width)
		m.mode = ModeEditor

	case key.Matches(msg, k.Edit):
		if c, ok := m.Selected(); ok {
			m.busy++
			return m, m.fetchCmd(c.ID)
		}

	case key.Matches(msg, k.Favorite):
		if c, ok := m.Selected(); ok {
			m.busy++
			return m, m.favoriteCmd(c.ID)
		}

	case key.Matches(msg, k.Delete):
		if c, ok := m.Selected(); ok {
			m.pendingDelete = c
			m.mode = ModeConfirmDelete
		}

	case key.Matches(msg, k.Import):
		m.picker = m.newPicker()
		m.mode = ModeImport
		return m, m.picker.Init()

	case key.Matches(msg, k.Export):
		return m, m.exportCmd()

	case key.Matches(msg, k.Reload):
		m.busy++
		m.renderCards()
		return m, m.loadCmd()
	}
	return m, nil
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.search.Blur()
		m.mode = ModeList
		return m, nil
	case tea.KeyEnter:
		m.search.Blur()
		m.mode = ModeList
		ev := m.debounce.Immediate(m.search.Value())
		if ev.Term != m.filter.Search {
			m.filter.Search = ev.Term
			m.selected = 0
			m.refresh()
		}
		return m, nil
	}

	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() != before {
		m.debounce.Schedule(m.search.Value())
	}
	return m, cmd
}

func (m Model) handleEditorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.editorKeys
	switch {
	case key.Matches(msg, k.Cancel):
		m.mode = ModeList
		return m, nil
	case key.Matches(msg, k.Save):
		m.busy++
		return m, m.saveCmd(m.editor.Form())
	case key.Matches(msg, k.Next):
		m.editor.move(1)
		return m, nil
	case key.Matches(msg, k.Prev):
		m.editor.move(-1)
		return m, nil
	case key.Matches(msg, k.CycleType):
		m.editor.cycleType()
		return m, nil
	case key.Matches(msg, k.AddRow):
		m.editor.addRow()
		return m, nil
	case key.Matches(msg, k.RemoveRow):
		m.editor.removeRow()
		return m, nil
	case key.Matches(msg, k.Favorite) && m.editor.focus == focusFavorite:
		m.editor.toggleFavorite()
		return m, nil
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.update(msg)
	return m, cmd
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.confirm.Yes):
		id := m.pendingDelete.ID
		m.pendingDelete = contacts.Contact{}
		m.mode = ModeList
		m.busy++
		return m, m.deleteCmd(id)
	case key.Matches(msg, m.confirm.No):
		m.logger.Debug("delete declined", zap.Int64("id", m.pendingDelete.ID))
		m.pendingDelete = contacts.Contact{}
		m.mode = ModeList
	}
	return m, nil
}

func (m Model) handleImportKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEsc {
		m.mode = ModeList
		return m, nil
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	if didSelect, path := m.picker.DidSelectFile(msg); didSelect {
		m.mode = ModeList
		m.busy++
		return m, tea.Batch(cmd, m.importCmd(path))
	}
	if didSelect, _ := m.picker.DidSelectDisabledFile(msg); didSelect {
		m.notifier.Notify(engine.Toast{Level: engine.LevelError, Text: "Import failed: " + contacts.ErrUnsupportedFile.Error()})
		return m, cmd
	}
	return m, cmd
}

func (m Model) newPicker() filepicker.Model {
	fp := filepicker.New()
	for _, ext := range contacts.ImportExtensions {
		fp.AllowedTypes = append(fp.AllowedTypes, ext, strings.ToUpper(ext))
	}
	fp.CurrentDirectory = m.startDir
	if fp.CurrentDirectory == "" {
		if wd, err := os.Getwd(); err == nil {
			fp.CurrentDirectory = wd
		}
	}
	fp.Height = max(m.height-8, 3)
	return fp
}
