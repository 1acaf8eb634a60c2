package ui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimpleTable_Empty(t *testing.T) {
	table := NewSimpleTable("Rejected rows", "Row", "Error")
	assert.Empty(t, table.View(DefaultStyles()))
}

func TestSimpleTable_View(t *testing.T) {
	table := NewSimpleTable("Contacts", "ID", "Name", "Phone")
	table.AddRow("1", "Alice", "555-0100")
	table.AddRow("2", "Bob") // short row

	out := table.View(NewStyles(LightTheme()))
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	assert.Len(t, lines, 5)
	assert.Contains(t, lines[0], "Contacts")
	assert.Contains(t, lines[1], "Name")
	assert.Contains(t, lines[3], "Alice")
	assert.Contains(t, lines[3], "555-0100")
	assert.Contains(t, lines[4], "Bob")
}
