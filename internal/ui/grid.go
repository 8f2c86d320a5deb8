package ui

import (
	"slices"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/linelist/internal/metadata"
	"github.com/five82/linelist/internal/state"
)

// column is one rendered grid column. The first column always holds the
// sample identifier.
type column struct {
	field string
	title string
	width int
}

func (c column) isSample() bool {
	return c.field == metadata.SampleIDKey
}

// gridColumns sizes the sample column plus one column per field to fit the
// widest of the label and the values.
func gridColumns(entries []metadata.Entry, fields []string) []column {
	cols := make([]column, 0, len(fields)+1)
	cols = append(cols, column{
		field: metadata.SampleIDKey,
		title: metadata.FieldLabel(metadata.SampleIDKey),
		width: sampleColumnWidth,
	})
	for _, field := range fields {
		title := metadata.FieldLabel(field)
		width := utf8.RuneCountInString(title) + 2 // room for the selection marker
		for _, e := range entries {
			if v, ok := e.Value(field); ok {
				width = max(width, utf8.RuneCountInString(metadata.FormatValue(v)))
			}
		}
		cols = append(cols, column{field: field, title: title, width: clamp(width, minColumnWidth, maxColumnWidth)})
	}
	return cols
}

// visibleFields returns the snapshot's fields minus hidden columns.
func (m Model) visibleFields() []string {
	return slices.DeleteFunc(slices.Clone(m.snapshot.Fields), m.prefs.IsHidden)
}

// columnWindow returns the half-open range of field columns (indices into
// m.columns, never 0) that fit beside the sample column.
func (m Model) columnWindow() (int, int) {
	if len(m.columns) <= 1 {
		return 1, 1
	}
	start := clamp(m.colOffset, 1, len(m.columns)-1)
	used := m.columns[0].width + 2
	end := start
	for end < len(m.columns) {
		next := used + m.columns[end].width + 2
		if next > m.width && end > start {
			break
		}
		used = next
		end++
	}
	return start, end
}

// ensureColumnVisible shifts the window so the selected column is on screen.
func (m *Model) ensureColumnVisible() {
	if m.col <= 0 {
		return
	}
	if m.col < m.colOffset {
		m.colOffset = m.col
		return
	}
	for {
		start, end := m.columnWindow()
		if m.col < end || start >= len(m.columns)-1 {
			return
		}
		m.colOffset = start + 1
	}
}

// updateGrid rebuilds the table from the current snapshot, preserving the
// row cursor.
func (m *Model) updateGrid() {
	m.columns = gridColumns(m.snapshot.Entries, m.visibleFields())
	m.col = clamp(m.col, 0, len(m.columns)-1)
	if m.colOffset < 1 {
		m.colOffset = 1
	}
	m.ensureColumnVisible()
	start, end := m.columnWindow()

	shown := append([]column{m.columns[0]}, m.columns[start:end]...)
	tcols := make([]table.Column, len(shown))
	for i, c := range shown {
		title := c.title
		idx := i
		if i > 0 {
			idx = start + i - 1
		}
		if idx == m.col {
			title = "▸" + title
		}
		tcols[i] = table.Column{Title: truncate(title, c.width), Width: c.width}
	}

	rows := make([]table.Row, len(m.snapshot.Entries))
	for r, e := range m.snapshot.Entries {
		row := make(table.Row, len(shown))
		for i, c := range shown {
			if c.isSample() {
				row[i] = truncate(e.SampleID, c.width)
				continue
			}
			if v, ok := e.Value(c.field); ok {
				row[i] = truncate(metadata.FormatValue(v), c.width)
			}
		}
		rows[r] = row
	}

	cursor := m.grid.Cursor()
	m.grid.SetRows(nil)
	m.grid.SetColumns(tcols)
	m.grid.SetRows(rows)
	m.grid.SetWidth(m.width)
	m.grid.SetHeight(m.gridHeight())
	if len(rows) > 0 {
		m.grid.SetCursor(clamp(cursor, 0, len(rows)-1))
	}
}

func (m Model) gridHeight() int {
	h := m.height - chromeHeight
	if m.showActivity {
		h -= activityHeight + 1
	}
	return max(h, 3)
}

// selectedCell returns the sample and field under the cursor.
func (m Model) selectedCell() (metadata.Entry, column, bool) {
	row := m.grid.Cursor()
	if row < 0 || row >= len(m.snapshot.Entries) || m.col < 0 || m.col >= len(m.columns) {
		return metadata.Entry{}, column{}, false
	}
	return m.snapshot.Entries[row], m.columns[m.col], true
}

func tableStyles(t Theme) table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color(t.Border)).
		BorderBottom(true).
		Foreground(lipgloss.Color(t.Accent)).
		Bold(true)
	s.Cell = s.Cell.Foreground(lipgloss.Color(t.Text))
	s.Selected = s.Selected.
		Foreground(lipgloss.Color(t.SelectionText)).
		Background(lipgloss.Color(t.SelectionBg)).
		Bold(false)
	return s
}

func (m Model) renderGrid() string {
	if len(m.snapshot.Entries) == 0 {
		styles := m.theme.Styles()
		msg := "No samples in this project"
		switch m.snapshot.Status {
		case state.StatusUninitialized, state.StatusLoading:
			msg = "Loading linelist..."
		case state.StatusFailed:
			msg = "Linelist unavailable. Press r to retry."
		}
		return lipgloss.Place(m.width, m.gridHeight(), lipgloss.Center, lipgloss.Center, styles.MutedText.Render(msg))
	}
	return m.grid.View()
}
