// Package tui is the interactive address book: a card list with search,
// favorites filter, an editor, import and export, built on bubbletea.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"addressbook/cmd/addressbook/ui"
	"addressbook/internal/config"
	"addressbook/internal/contacts"
	"addressbook/internal/engine"
)

// Mode determines which component has the keyboard.
type Mode int

const (
	ModeList Mode = iota
	ModeSearch
	ModeEditor
	ModeConfirmDelete
	ModeImport
)

// Notifier forwards engine toasts into the event loop. A full buffer drops
// the toast rather than blocking a backend call.
type Notifier struct {
	ch chan engine.Toast
}

// NewNotifier creates a notifier with a small buffer.
func NewNotifier() *Notifier {
	return &Notifier{ch: make(chan engine.Toast, 16)}
}

// Notify implements engine.Notifier.
func (n *Notifier) Notify(t engine.Toast) {
	select {
	case n.ch <- t:
	default:
	}
}

// Options wires the model to its collaborators.
type Options struct {
	Engine        *engine.Engine
	Notifier      *Notifier
	Config        *config.Config
	ConfigUpdates <-chan *config.Config
	ExportURL     string
	OpenURL       func(string) error
	StartDir      string
	Logger        *zap.Logger
}

// Model is the bubbletea model of the interactive mode.
type Model struct {
	engine        *engine.Engine
	notifier      *Notifier
	configUpdates <-chan *config.Config
	exportURL     string
	openURL       func(string) error
	startDir      string
	logger        *zap.Logger

	styles     ui.Styles
	listKeys   listKeys
	editorKeys editorKeys
	confirm    confirmKeys
	help       help.Model

	mode     Mode
	filter   contacts.Filter
	search   textinput.Model
	debounce *ui.SearchDebouncer

	contacts []contacts.Contact
	ticket   uint64
	loaded   bool
	loadErr  error
	view     contacts.View
	stats    contacts.Stats
	selected int

	viewport viewport.Model
	cards    *ui.CardCache
	spinner  spinner.Model
	busy     int

	editor        editor
	picker        filepicker.Model
	pendingDelete contacts.Contact

	toast              *engine.Toast
	toastID            int
	toastDuration      time.Duration
	errorToastDuration time.Duration

	width  int
	height int
}

// New creates the model. Options.Engine and Options.Notifier are required;
// the notifier must be the one the engine reports to.
func New(opts Options) Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	openURL := opts.OpenURL
	if openURL == nil {
		openURL = func(string) error { return nil }
	}

	search := textinput.New()
	search.Placeholder = "Search name, notes, phone, email…"
	search.Prompt = "/ "
	search.CharLimit = 100

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		engine:        opts.Engine,
		notifier:      opts.Notifier,
		configUpdates: opts.ConfigUpdates,
		exportURL:     opts.ExportURL,
		openURL:       openURL,
		startDir:      opts.StartDir,
		logger:        logger,

		listKeys:   newListKeys(),
		editorKeys: newEditorKeys(),
		confirm:    newConfirmKeys(),
		help:       help.New(),

		filter:   contacts.Filter{Mode: contacts.ViewAll},
		search:   search,
		debounce: ui.NewSearchDebouncer(ui.DefaultSearchDebounce),

		viewport: viewport.New(80, 20),
		cards:    ui.NewCardCache(ui.DefaultCardCacheSize),
		spinner:  sp,
		busy:     1,
		width:    80,
		height:   24,
	}
	m.applyConfig(cfg)
	m.refresh()
	return m
}

func (m *Model) applyConfig(cfg *config.Config) {
	m.styles = ui.NewStyles(ui.ThemeFor(cfg.UI.Theme))
	m.cards.Clear()
	m.spinner.Style = m.styles.Spinner
	m.debounce.SetDuration(cfg.GetSearchDebounce())
	m.toastDuration = cfg.GetToastDuration()
	m.errorToastDuration = cfg.GetErrorToastDuration()
}

// Init starts the first load and the background listeners.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.loadCmd(),
		m.spinner.Tick,
		waitForToast(m.notifier.ch),
		waitForSearch(m.debounce.Settled()),
		waitForConfig(m.configUpdates),
	)
}

// Mode returns the active mode.
func (m Model) Mode() Mode { return m.mode }

// Filter returns the applied filter.
func (m Model) Filter() contacts.Filter { return m.filter }

// Visible returns the contacts currently shown.
func (m Model) Visible() []contacts.Contact { return m.view.Contacts }

// Selected returns the highlighted contact.
func (m Model) Selected() (contacts.Contact, bool) {
	if m.selected < 0 || m.selected >= len(m.view.Contacts) {
		return contacts.Contact{}, false
	}
	return m.view.Contacts[m.selected], true
}

// Toast returns the toast on screen, if any.
func (m Model) Toast() (engine.Toast, bool) {
	if m.toast == nil {
		return engine.Toast{}, false
	}
	return *m.toast, true
}

// refresh derives the visible list from the mirrored contacts and the filter
// and repaints the card viewport.
func (m *Model) refresh() {
	m.view = contacts.Derive(m.contacts, m.filter)
	m.stats = contacts.Summarize(m.contacts)
	if m.selected >= len(m.view.Contacts) {
		m.selected = len(m.view.Contacts) - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
	m.renderCards()
}

func (m *Model) renderCards() {
	if !m.loaded {
		if m.loadErr != nil && m.busy == 0 {
			m.viewport.SetContent(m.styles.Error.Render("Could not load contacts.") + "\n" +
				m.styles.Muted.Render("Press r to try again."))
			return
		}
		m.viewport.SetContent(m.styles.Muted.Render("Loading contacts…"))
		return
	}
	m.viewport.SetContent(m.cards.RenderCards(m.view, m.styles, m.selected, m.viewport.Width))
	m.scrollToSelected()
}

// scrollToSelected keeps the highlighted card inside the viewport.
func (m *Model) scrollToSelected() {
	if m.view.Outcome != contacts.OutcomeList {
		m.viewport.GotoTop()
		return
	}
	top := 0
	for i := 0; i < m.selected; i++ {
		top += m.cards.Height(m.view.Contacts[i], m.styles, false, m.viewport.Width)
	}
	bottom := top + m.cards.Height(m.view.Contacts[m.selected], m.styles, true, m.viewport.Width)
	switch {
	case top < m.viewport.YOffset:
		m.viewport.SetYOffset(top)
	case bottom > m.viewport.YOffset+m.viewport.Height:
		m.viewport.SetYOffset(bottom - m.viewport.Height)
	}
}

// applyState adopts an engine state unless a newer one was already shown.
func (m *Model) applyState(s stateMsg) {
	if !s.loaded || s.ticket < m.ticket {
		return
	}
	m.contacts = s.contacts
	m.ticket = s.ticket
	m.loaded = true
	m.loadErr = nil
	m.refresh()
}
