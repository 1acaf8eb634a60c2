package tui

import "github.com/charmbracelet/bubbles/key"

// listKeys are active while browsing cards.
type listKeys struct {
	Search   key.Binding
	Toggle   key.Binding
	Up       key.Binding
	Down     key.Binding
	New      key.Binding
	Edit     key.Binding
	Favorite key.Binding
	Delete   key.Binding
	Import   key.Binding
	Export   key.Binding
	Reload   key.Binding
	Quit     key.Binding
}

func newListKeys() listKeys {
	return listKeys{
		Search:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Toggle:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "all/favorites")),
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		New:      key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new")),
		Edit:     key.NewBinding(key.WithKeys("e", "enter"), key.WithHelp("e", "edit")),
		Favorite: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "favorite")),
		Delete:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Import:   key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "import")),
		Export:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "export")),
		Reload:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k listKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.Toggle, k.New, k.Edit, k.Favorite, k.Delete, k.Import, k.Export, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k listKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Search, k.Toggle},
		{k.New, k.Edit, k.Favorite, k.Delete},
		{k.Import, k.Export, k.Reload, k.Quit},
	}
}

// editorKeys are active in the contact editor.
type editorKeys struct {
	Next      key.Binding
	Prev      key.Binding
	CycleType key.Binding
	AddRow    key.Binding
	RemoveRow key.Binding
	Favorite  key.Binding
	Save      key.Binding
	Cancel    key.Binding
}

func newEditorKeys() editorKeys {
	return editorKeys{
		Next:      key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next")),
		Prev:      key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "prev")),
		CycleType: key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "type")),
		AddRow:    key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "add method")),
		RemoveRow: key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "remove method")),
		Favorite:  key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "favorite")),
		Save:      key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		Cancel:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}

// ShortHelp implements help.KeyMap.
func (k editorKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.CycleType, k.AddRow, k.RemoveRow, k.Save, k.Cancel}
}

// FullHelp implements help.KeyMap.
func (k editorKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev, k.Favorite},
		{k.CycleType, k.AddRow, k.RemoveRow},
		{k.Save, k.Cancel},
	}
}

// confirmKeys answer the delete prompt.
type confirmKeys struct {
	Yes key.Binding
	No  key.Binding
}

func newConfirmKeys() confirmKeys {
	return confirmKeys{
		Yes: key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "delete")),
		No:  key.NewBinding(key.WithKeys("n", "N", "esc"), key.WithHelp("n", "keep")),
	}
}

// ShortHelp implements help.KeyMap.
func (k confirmKeys) ShortHelp() []key.Binding { return []key.Binding{k.Yes, k.No} }

// FullHelp implements help.KeyMap.
func (k confirmKeys) FullHelp() [][]key.Binding { return [][]key.Binding{k.ShortHelp()} }
