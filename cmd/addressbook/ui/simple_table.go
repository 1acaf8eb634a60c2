package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// SimpleTable renders static rows such as the contact list of `addressbook
// list` or the rejected rows of an import.
type SimpleTable struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// NewSimpleTable creates a new SimpleTable with the given title and headers.
func NewSimpleTable(title string, headers ...string) *SimpleTable {
	return &SimpleTable{
		Title:   title,
		Headers: headers,
		Rows:    make([][]string, 0),
	}
}

// AddRow adds a row to the table. Missing cells render empty.
func (t *SimpleTable) AddRow(row ...string) {
	t.Rows = append(t.Rows, row)
}

// View renders the table using the provided styles. An empty table renders
// nothing.
func (t *SimpleTable) View(styles Styles) string {
	if len(t.Rows) == 0 {
		return ""
	}

	var sb strings.Builder
	if t.Title != "" {
		sb.WriteString(styles.Title.Render(t.Title))
		sb.WriteString("\n")
	}

	widths := t.columnWidths()
	headerStyle := styles.Bold.Padding(0, 1)
	rowStyle := styles.Body.Padding(0, 1)
	sep := styles.Muted.Render("│")

	cells := make([]string, len(widths))
	for i := range widths {
		cells[i] = headerStyle.Width(widths[i]).Render(cell(t.Headers, i))
	}
	sb.WriteString(strings.Join(cells, sep))
	sb.WriteString("\n")

	total := len(widths) - 1
	for _, w := range widths {
		total += w
	}
	sb.WriteString(styles.RenderDivider(total))
	sb.WriteString("\n")

	for _, row := range t.Rows {
		for i := range widths {
			cells[i] = rowStyle.Width(widths[i]).Render(cell(row, i))
		}
		sb.WriteString(strings.Join(cells, sep))
		sb.WriteString("\n")
	}
	return sb.String()
}

// columnWidths includes the one-cell padding on each side.
func (t *SimpleTable) columnWidths() []int {
	widths := make([]int, len(t.Headers))
	for i, h := range t.Headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.Rows {
		for i := range widths {
			if w := lipgloss.Width(cell(row, i)); w > widths[i] {
				widths[i] = w
			}
		}
	}
	for i := range widths {
		widths[i] += 2
	}
	return widths
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}
