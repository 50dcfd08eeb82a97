package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	colGap    = 2
	emptyCell = "--"
)

// Column describes one table column.
type Column struct {
	Header string
	// ID columns hold raw identifiers. They are dimmed and, when Width is
	// set, cut to Width characters.
	ID    bool
	Width int
}

// Cols builds plain columns from header titles.
func Cols(headers ...string) []Column {
	cols := make([]Column, len(headers))
	for i, h := range headers {
		cols[i] = Column{Header: h}
	}
	return cols
}

// RenderTable renders an aligned table with a header separator line. Blank
// cells show a dimmed "--". Widths are measured on visible text so styled
// cells line up.
func RenderTable(cols []Column, rows [][]string) string {
	if len(cols) == 0 {
		return ""
	}

	cells := make([][]string, len(rows))
	for r, row := range rows {
		cells[r] = make([]string, len(cols))
		for i, col := range cols {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			cells[r][i] = col.render(cell)
		}
	}

	widths := make([]int, len(cols))
	for i, col := range cols {
		widths[i] = lipgloss.Width(col.Header)
	}
	for _, row := range cells {
		for i, cell := range row {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}

	var b strings.Builder
	writeRow := func(row []string) {
		for i, cell := range row {
			b.WriteString(cell)
			if i < len(row)-1 {
				b.WriteString(strings.Repeat(" ", max(widths[i]-lipgloss.Width(cell), 0)+colGap))
			}
		}
		b.WriteString("\n")
	}

	header := make([]string, len(cols))
	rule := make([]string, len(cols))
	for i, col := range cols {
		header[i] = StyleHeader.Render(col.Header)
		rule[i] = StyleDim.Render(strings.Repeat("─", widths[i]))
	}
	writeRow(header)
	writeRow(rule)
	for _, row := range cells {
		writeRow(row)
	}
	return b.String()
}

func (c Column) render(cell string) string {
	if strings.TrimSpace(cell) == "" {
		return StyleDim.Render(emptyCell)
	}
	if !c.ID {
		return cell
	}
	if c.Width > 0 && len(cell) > c.Width {
		cell = cell[:c.Width]
	}
	return StyleDim.Render(cell)
}
