package ui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"addressbook/internal/contacts"
	"addressbook/internal/engine"
)

func sampleContact() contacts.Contact {
	return contacts.Contact{
		ID:         3,
		Name:       "Carol",
		Notes:      "Plays *cello*",
		IsFavorite: true,
		CreatedAt:  "2024-03-01 10:00:00",
		Methods: []contacts.Method{
			{Type: contacts.MethodAddress, Value: "1 Main St", Label: "home"},
			{Type: contacts.MethodEmail, Value: "carol@example.com", Label: "work"},
			{Type: contacts.MethodPhone, Value: "555-0100", Label: "mobile"},
			{Type: contacts.MethodEmail, Value: "c@example.org"},
		},
	}
}

func TestCardLines_GroupOrder(t *testing.T) {
	lines := CardLines(sampleContact(), NewStyles(LightTheme()))

	require.GreaterOrEqual(t, len(lines), 5)
	assert.Contains(t, lines[0], "★")
	assert.Contains(t, lines[0], "Carol")
	assert.Contains(t, lines[1], "Phone")
	assert.Contains(t, lines[2], "Email")
	assert.Contains(t, lines[2], "carol@example.com")
	assert.Contains(t, lines[3], "c@example.org")
	assert.NotContains(t, lines[3], "Email")
	assert.Contains(t, lines[4], "Address")
	assert.Contains(t, lines[len(lines)-1], "2024-03-01")
}

func TestRenderCards_EmptyStates(t *testing.T) {
	s := NewStyles(LightTheme())

	none := RenderCards(contacts.Derive(nil, contacts.Filter{}), s, 0, 40)
	assert.Contains(t, none, "No contacts yet")

	list := []contacts.Contact{{ID: 1, Name: "Alice"}}
	noMatch := RenderCards(contacts.Derive(list, contacts.Filter{Search: "zzz"}), s, 0, 40)
	assert.Contains(t, noMatch, "No matching contacts")

	some := RenderCards(contacts.Derive(list, contacts.Filter{}), s, 0, 40)
	assert.Contains(t, some, "Alice")
}

func TestRenderStats(t *testing.T) {
	out := RenderStats(contacts.Summarize([]contacts.Contact{sampleContact()}), NewStyles(LightTheme()))
	assert.Contains(t, out, "1 contacts")
	assert.Contains(t, out, "Email 2")
	assert.Contains(t, out, "Social 0")
}

func TestContactMarkdown(t *testing.T) {
	md := ContactMarkdown(sampleContact())

	assert.True(t, strings.HasPrefix(md, "# Carol ★"))
	phone := strings.Index(md, "**Phone**")
	email := strings.Index(md, "**Email**")
	address := strings.Index(md, "**Address**")
	assert.True(t, phone < email && email < address, md)
	assert.Contains(t, md, "- 555-0100 _(mobile)_")
	assert.Contains(t, md, "- c@example.org\n")
	assert.Contains(t, md, "## Notes")
}

func TestRenderMarkdown_NoTTY(t *testing.T) {
	out, err := RenderMarkdown(ContactMarkdown(sampleContact()), "notty", 60)
	require.NoError(t, err)
	assert.Contains(t, out, "Carol")
	assert.Contains(t, out, "carol@example.com")
}

func TestRenderToast(t *testing.T) {
	s := NewStyles(LightTheme())
	assert.Contains(t, RenderToast(engine.Toast{Level: engine.LevelSuccess, Text: "Contact created"}, s), "✓ Contact created")
	assert.Contains(t, RenderToast(engine.Toast{Level: engine.LevelError, Text: "Save failed: x"}, s), "✗ Save failed: x")
	assert.Contains(t, RenderToast(engine.Toast{Text: "Export opened"}, s), "• Export opened")
}
