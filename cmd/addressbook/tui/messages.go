package tui

import (
	"context"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"addressbook/cmd/addressbook/ui"
	"addressbook/internal/config"
	"addressbook/internal/contacts"
	"addressbook/internal/engine"
)

// stateMsg carries the engine's list after an operation finished.
type stateMsg struct {
	contacts []contacts.Contact
	ticket   uint64
	loaded   bool
}

type loadedMsg struct {
	state stateMsg
	err   error
}

type formLoadedMsg struct {
	form contacts.Form
	err  error
}

type savedMsg struct {
	state stateMsg
	err   error
}

type deletedMsg struct {
	state stateMsg
	err   error
}

type favoriteMsg struct {
	state stateMsg
	err   error
}

type importedMsg struct {
	state stateMsg
	err   error
}

type exportedMsg struct {
	err error
}

type toastMsg engine.Toast

type toastExpiredMsg struct {
	id int
}

type searchSettledMsg ui.SearchSettled

type configChangedMsg struct {
	cfg *config.Config
}

func (m Model) state() stateMsg {
	list, ticket := m.engine.State()
	return stateMsg{contacts: list, ticket: ticket, loaded: m.engine.Loaded()}
}

func (m Model) loadCmd() tea.Cmd {
	return func() tea.Msg {
		_, err := m.engine.Load(context.Background())
		return loadedMsg{state: m.state(), err: err}
	}
}

func (m Model) fetchCmd(id int64) tea.Cmd {
	return func() tea.Msg {
		form, err := m.engine.Fetch(context.Background(), id)
		return formLoadedMsg{form: form, err: err}
	}
}

func (m Model) saveCmd(form contacts.Form) tea.Cmd {
	return func() tea.Msg {
		_, err := m.engine.Save(context.Background(), form)
		return savedMsg{state: m.state(), err: err}
	}
}

func (m Model) deleteCmd(id int64) tea.Cmd {
	return func() tea.Msg {
		_, err := m.engine.Delete(context.Background(), id, engine.Confirmed)
		return deletedMsg{state: m.state(), err: err}
	}
}

func (m Model) favoriteCmd(id int64) tea.Cmd {
	return func() tea.Msg {
		err := m.engine.ToggleFavorite(context.Background(), id)
		return favoriteMsg{state: m.state(), err: err}
	}
}

func (m Model) importCmd(path string) tea.Cmd {
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			m.notifier.Notify(engine.Toast{Level: engine.LevelError, Text: "Cannot read " + filepath.Base(path) + ": " + err.Error()})
			return importedMsg{state: m.state(), err: err}
		}
		defer f.Close()
		_, err = m.engine.Import(context.Background(), filepath.Base(path), f)
		return importedMsg{state: m.state(), err: err}
	}
}

func (m Model) exportCmd() tea.Cmd {
	return func() tea.Msg {
		err := m.openURL(m.exportURL)
		if err != nil {
			m.notifier.Notify(engine.Toast{Level: engine.LevelError, Text: "Could not open browser: " + err.Error()})
		} else {
			m.notifier.Notify(engine.Toast{Level: engine.LevelInfo, Text: "Export opened in your browser"})
		}
		return exportedMsg{err: err}
	}
}

func waitForToast(ch <-chan engine.Toast) tea.Cmd {
	return func() tea.Msg {
		t, ok := <-ch
		if !ok {
			return nil
		}
		return toastMsg(t)
	}
}

func waitForSearch(ch <-chan ui.SearchSettled) tea.Cmd {
	return func() tea.Msg {
		return searchSettledMsg(<-ch)
	}
}

func waitForConfig(ch <-chan *config.Config) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		cfg, ok := <-ch
		if !ok {
			return nil
		}
		return configChangedMsg{cfg: cfg}
	}
}

func expireToast(id int, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return toastExpiredMsg{id: id}
	})
}
