package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"addressbook/internal/contacts"
)

const (
	starOn  = "★"
	starOff = "☆"
)

// Star returns the favorite marker for a contact.
func Star(favorite bool) string {
	if favorite {
		return starOn
	}
	return starOff
}

// CardLines renders the body of a contact card without its border: the name
// line, one line per method grouped phone, email, social, address, then the
// notes and creation time.
func CardLines(c contacts.Contact, s Styles) []string {
	star := s.Muted.Render(starOff)
	if c.IsFavorite {
		star = s.Favorite.Render(starOn)
	}
	lines := []string{star + " " + s.Bold.Render(c.Name)}

	for _, g := range c.GroupByType() {
		for i, m := range g.Methods {
			typ := ""
			if i == 0 {
				typ = g.Type.Title()
			}
			line := s.MethodType.Render(typ) + " " + s.Body.Render(m.Value)
			if m.Label != "" {
				line += " " + s.Label.Render("("+m.Label+")")
			}
			lines = append(lines, line)
		}
	}

	if notes := strings.TrimSpace(c.Notes); notes != "" {
		lines = append(lines, s.Subtitle.Render(notes))
	}
	if c.CreatedAt != "" {
		lines = append(lines, s.Muted.Render("Created "+c.CreatedAt))
	}
	return lines
}

// RenderCard renders a bordered contact card of the given outer width.
func RenderCard(c contacts.Contact, s Styles, selected bool, width int) string {
	style := s.Card
	if selected {
		style = s.SelectedCard
	}
	if width > 0 {
		style = style.Width(max(width-style.GetHorizontalBorderSize(), 10))
	}
	return style.Render(strings.Join(CardLines(c, s), "\n"))
}

// RenderCards stacks the cards of a derived view, or the empty-state message
// when there is nothing to show.
func RenderCards(view contacts.View, s Styles, selected int, width int) string {
	if view.Outcome != contacts.OutcomeList {
		return s.Muted.Render(view.Outcome.Message())
	}
	cards := make([]string, 0, len(view.Contacts))
	for i, c := range view.Contacts {
		cards = append(cards, RenderCard(c, s, i == selected, width))
	}
	return lipgloss.JoinVertical(lipgloss.Left, cards...)
}

// RenderStats renders the counters shown above the list.
func RenderStats(st contacts.Stats, s Styles) string {
	parts := []string{
		fmt.Sprintf("%d contacts", st.TotalContacts),
		fmt.Sprintf("%s %d", starOn, st.FavoriteContacts),
	}
	for _, t := range contacts.MethodTypes {
		parts = append(parts, fmt.Sprintf("%s %d", t.Title(), st.MethodCount(t)))
	}
	return s.Badge.Render(strings.Join(parts, " · "))
}

// ContactMarkdown renders a contact as markdown; notes are taken as markdown
// themselves.
func ContactMarkdown(c contacts.Contact) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s %s\n\n", c.Name, Star(c.IsFavorite))
	for _, g := range c.GroupByType() {
		fmt.Fprintf(&sb, "**%s**\n\n", g.Type.Title())
		for _, m := range g.Methods {
			if m.Label != "" {
				fmt.Fprintf(&sb, "- %s _(%s)_\n", m.Value, m.Label)
			} else {
				fmt.Fprintf(&sb, "- %s\n", m.Value)
			}
		}
		sb.WriteString("\n")
	}
	if notes := strings.TrimSpace(c.Notes); notes != "" {
		sb.WriteString("## Notes\n\n")
		sb.WriteString(notes)
		sb.WriteString("\n\n")
	}
	fmt.Fprintf(&sb, "---\n\nID %d", c.ID)
	if c.CreatedAt != "" {
		fmt.Fprintf(&sb, " · created %s", c.CreatedAt)
	}
	if c.UpdatedAt != "" {
		fmt.Fprintf(&sb, " · updated %s", c.UpdatedAt)
	}
	sb.WriteString("\n")
	return sb.String()
}

// RenderMarkdown renders md for the terminal. style is a glamour standard
// style name ("dark", "light", "notty") or "auto".
func RenderMarkdown(md string, style string, width int) (string, error) {
	if width <= 0 {
		width = 80
	}
	styleOpt := glamour.WithAutoStyle()
	if style != "" && style != "auto" {
		styleOpt = glamour.WithStylePath(style)
	}
	renderer, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(width))
	if err != nil {
		return "", fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	out, err := renderer.Render(md)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return out, nil
}
