package display

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// RowStyle selects how a table row is rendered.
type RowStyle int

const (
	StylePlain RowStyle = iota
	// StyleAccent marks the current row, such as today or the next prayer.
	StyleAccent
	// StyleChanged marks a row whose Iqama times differ from the row above.
	StyleChanged
)

// Table renders an aligned text table with optional color support.
type Table struct {
	headers []string
	rows    [][]string
	styles  []RowStyle
}

// NewTable creates a new table with the given column headers.
func NewTable(headers []string) *Table {
	return &Table{headers: headers}
}

// AddRow appends a plain row. The number of values should match the number
// of headers.
func (t *Table) AddRow(values []string) {
	t.AddStyledRow(values, StylePlain)
}

// AddStyledRow appends a row rendered with style.
func (t *Table) AddStyledRow(values []string, style RowStyle) {
	t.rows = append(t.rows, values)
	t.styles = append(t.styles, style)
}

// SetHighlightRow marks the row at idx (0-based) with the accent style.
func (t *Table) SetHighlightRow(idx int) {
	if idx >= 0 && idx < len(t.styles) {
		t.styles[idx] = StyleAccent
	}
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Render produces the formatted table string with leading indent.
func (t *Table) Render() string {
	if len(t.headers) == 0 {
		return ""
	}

	// Widths count runes so Arabic-Indic digits line up.
	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = utf8.RuneCountInString(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if n := utf8.RuneCountInString(cell); i < len(widths) && n > widths[i] {
				widths[i] = n
			}
		}
	}

	var sb strings.Builder

	sb.WriteString("  " + Bold(formatRow(t.headers, widths)) + "\n")

	sepParts := make([]string, len(widths))
	for i, w := range widths {
		sepParts[i] = strings.Repeat("─", w)
	}
	sb.WriteString(Dim("  "+strings.Join(sepParts, "  ")) + "\n")

	for i, row := range t.rows {
		line := formatRow(row, widths)
		switch t.styles[i] {
		case StyleAccent:
			line = Accent(line)
		case StyleChanged:
			line = Changed(line)
		}
		sb.WriteString("  " + line + "\n")
	}

	return sb.String()
}

// formatRow formats a row of cells using the given column widths. fmt pads
// by rune count, matching the widths computed in Render.
func formatRow(cells []string, widths []int) string {
	parts := make([]string, len(widths))
	for i, w := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		parts[i] = fmt.Sprintf("%-*s", w, cell)
	}
	return strings.Join(parts, "  ")
}
