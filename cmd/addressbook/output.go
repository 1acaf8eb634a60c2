package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"addressbook/cmd/addressbook/ui"
	"addressbook/internal/contacts"
	"addressbook/internal/engine"
)

// cliNotifier prints engine toasts as status lines on stderr so stdout stays
// parseable.
type cliNotifier struct {
	w      io.Writer
	styles ui.Styles
}

func newCLINotifier(cmd *cobra.Command) *cliNotifier {
	return &cliNotifier{w: cmd.ErrOrStderr(), styles: cliStyles()}
}

// Notify implements engine.Notifier.
func (n *cliNotifier) Notify(t engine.Toast) {
	fmt.Fprintln(n.w, ui.RenderToast(t, n.styles))
}

func cliStyles() ui.Styles {
	if cfg == nil {
		return ui.DefaultStyles()
	}
	return ui.NewStyles(ui.ThemeFor(cfg.UI.Theme))
}

// contactTable renders contacts as one row each: the first value of every
// method type, in the fixed phone, email, social, address order.
func contactTable(title string, list []contacts.Contact) *ui.SimpleTable {
	headers := []string{"ID", "★", "Name"}
	for _, t := range contacts.MethodTypes {
		headers = append(headers, t.Title())
	}
	table := ui.NewSimpleTable(title, headers...)

	for _, c := range list {
		byType := make(map[contacts.MethodType][]contacts.Method, len(contacts.MethodTypes))
		for _, g := range c.GroupByType() {
			byType[g.Type] = g.Methods
		}
		row := []string{fmt.Sprintf("%d", c.ID), ui.Star(c.IsFavorite), c.Name}
		for _, t := range contacts.MethodTypes {
			row = append(row, firstValue(byType[t]))
		}
		table.AddRow(row...)
	}
	return table
}

func firstValue(ms []contacts.Method) string {
	if len(ms) == 0 {
		return ""
	}
	if len(ms) == 1 {
		return ms[0].Value
	}
	return fmt.Sprintf("%s (+%d)", ms[0].Value, len(ms)-1)
}

// writeView prints a derived view, or its empty-state message.
func writeView(w io.Writer, title string, view contacts.View) {
	if view.Outcome != contacts.OutcomeList {
		fmt.Fprintln(w, view.Outcome.Message())
		return
	}
	fmt.Fprint(w, contactTable(title, view.Contacts).View(cliStyles()))
}
