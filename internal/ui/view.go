package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/nconklindev/sweeper/internal/converter"
	"github.com/nconklindev/sweeper/internal/types"
)

const (
	maxCellWidth    = 24
	maxPreviewLines = 12
)

func (m Model) View() string {
	switch m.state {
	case stateFilePicker:
		return m.viewFilePicker()
	case statePreview:
		return m.viewPreview()
	case stateColumnSelection:
		return m.viewColumnSelection()
	case stateFormatSelection:
		return m.viewFormatSelection()
	case stateExporting:
		return m.viewExporting()
	case stateComplete:
		return m.viewComplete()
	case stateError:
		return m.viewError()
	}
	return ""
}

func (m Model) viewFilePicker() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("💿 Sweeper - Convert & Clean Tabular Files"))
	s.WriteString("\n")
	s.WriteString(SubtitleStyle.Render("Select a CSV, Excel, Word, PowerPoint, PDF or JSON file"))
	s.WriteString("\n\n")
	s.WriteString(m.filepicker.View())
	s.WriteString("\n\n")
	s.WriteString(HelpStyle.Render("Press q to quit"))

	return s.String()
}

func (m Model) viewPreview() string {
	var s strings.Builder
	name := filepath.Base(m.selectedFile)

	s.WriteString(TitleStyle.Render("🔍 " + name))
	s.WriteString("\n")
	s.WriteString(SubtitleStyle.Render(fmt.Sprintf("File loaded: %s (%s) • %d rows × %d columns",
		name, humanize.Bytes(uint64(m.fileSize)), m.table.NumRows(), len(m.table.Columns))))
	s.WriteString("\n")

	s.WriteString(renderTable(m.table.Head(m.opts.PreviewRows)))
	s.WriteString("\n")

	if m.preview != "" {
		s.WriteString("\n")
		s.WriteString(SubtitleStyle.Render("Content preview"))
		s.WriteString("\n")
		s.WriteString(truncateLines(m.preview, maxPreviewLines))
		s.WriteString("\n")
	}

	if m.showChart {
		s.WriteString("\n")
		s.WriteString(renderChart(m.table, name, m.opts.PreviewRows*2, 30))
		s.WriteString("\n")
	}

	if m.confirmed[confirmKey(actionDedup, name)] {
		s.WriteString(SuccessStyle.Render("✓ Duplicates removed"))
		s.WriteString("\n")
	}
	if m.confirmed[confirmKey(actionFill, name)] {
		s.WriteString(SuccessStyle.Render("✓ Missing values filled"))
		s.WriteString("\n")
	}
	if m.status != "" {
		s.WriteString(m.status)
		s.WriteString("\n")
	}

	s.WriteString(HelpStyle.Render("d: remove duplicates • f: fill missing • c: choose columns • g: chart • e: export • esc: back • q: quit"))

	return BoxStyle.Render(s.String())
}

func (m Model) viewColumnSelection() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("🎯 Choose Columns"))
	s.WriteString("\n")
	s.WriteString(SubtitleStyle.Render(fmt.Sprintf("File: %s", filepath.Base(m.selectedFile))))
	s.WriteString("\n\n")

	numeric := make(map[int]bool)
	for _, idx := range converter.NumericColumns(m.table) {
		numeric[idx] = true
	}

	for i, header := range m.table.Columns {
		cursor := " "
		if m.cursor == i {
			cursor = ">"
		}

		checked := " "
		if m.selectedCols[i] {
			checked = "✓"
		}

		line := fmt.Sprintf("%s [%s] %s", cursor, checked, header)

		if m.cursor == i {
			line = SelectedStyle.Render(line)
		} else if m.selectedCols[i] {
			line = CheckedStyle.Render(line)
		} else if numeric[i] {
			line = UnselectedStyle.Render(line + " (numeric)")
		}

		s.WriteString(line)
		s.WriteString("\n")
	}

	s.WriteString("\n")
	s.WriteString(HelpStyle.Render("↑/↓: navigate • space: toggle • a: select all • enter: apply • esc: cancel"))

	return BoxStyle.Render(s.String())
}

func (m Model) viewFormatSelection() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("🔁 Convert File Format"))
	s.WriteString("\n")
	s.WriteString(SubtitleStyle.Render(fmt.Sprintf("Convert %s to:", filepath.Base(m.selectedFile))))
	s.WriteString("\n\n")

	for i, f := range types.Formats {
		line := fmt.Sprintf("  %s", converter.Label(f))
		if m.formatCursor == i {
			line = SelectedStyle.Render(fmt.Sprintf("> %s", converter.Label(f)))
		}
		s.WriteString(line)
		s.WriteString("\n")
	}

	s.WriteString("\n")
	s.WriteString(HelpStyle.Render("↑/↓: navigate • enter: convert • esc: back"))

	return BoxStyle.Render(s.String())
}

func (m Model) viewExporting() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("📥 Converting..."))
	s.WriteString("\n\n")
	s.WriteString(m.spinner.View())
	s.WriteString(fmt.Sprintf(" Writing %s as %s", filepath.Base(m.selectedFile), converter.Label(types.Formats[m.formatCursor])))

	return BoxStyle.Render(s.String())
}

func (m Model) viewComplete() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("✓ Conversion Complete!"))
	s.WriteString("\n\n")

	// Truncate paths if they're too long
	maxPathLen := m.width - 20
	if maxPathLen < 30 {
		maxPathLen = 30
	}

	s.WriteString(fmt.Sprintf("Input:  %s\n", truncatePath(m.result.InputFile, maxPathLen)))
	s.WriteString(SuccessStyle.Render(fmt.Sprintf("Output: %s\n", truncatePath(m.outputPath, maxPathLen))))
	s.WriteString("\n")
	s.WriteString(fmt.Sprintf("Type: %s\n", m.result.MIME))
	s.WriteString(fmt.Sprintf("Columns: %s\n", strings.Join(m.result.Columns, ", ")))
	s.WriteString(fmt.Sprintf("Rows written: %d\n", m.result.RowsProcessed))
	if m.result.Substitutions > 0 {
		s.WriteString(WarningStyle.Render(fmt.Sprintf("%d character(s) replaced to fit the PDF font", m.result.Substitutions)))
		s.WriteString("\n")
	}
	s.WriteString("\n")
	s.WriteString(HelpStyle.Render("enter: convert another file • q: quit"))

	return BoxStyle.Render(s.String())
}

func (m Model) viewError() string {
	var s strings.Builder

	s.WriteString(ErrorStyle.Render("✗ Error"))
	s.WriteString("\n\n")
	if m.selectedFile != "" {
		s.WriteString(filepath.Base(m.selectedFile))
		s.WriteString(": ")
	}
	s.WriteString(m.err.Error())
	s.WriteString("\n\n")
	s.WriteString(HelpStyle.Render("enter: pick another file • q: quit"))

	return BoxStyle.Render(s.String())
}

func renderTable(t *types.Table) string {
	if len(t.Columns) == 0 {
		return UnselectedStyle.Render("(no columns)")
	}

	rows := t.StringRows()
	for _, row := range rows {
		for i, v := range row {
			row[i] = truncateCell(v)
		}
	}
	headers := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		headers[i] = truncateCell(c)
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50"))).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return HeaderCellStyle
			}
			return CellStyle
		}).
		Headers(headers...).
		Rows(rows...).
		Render()
}

func truncateCell(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) > maxCellWidth {
		return string(r[:maxCellWidth-1]) + "…"
	}
	return s
}

func truncateLines(s string, n int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= n {
		return s
	}
	return strings.Join(lines[:n], "\n") + "\n" + HelpStyle.Render(fmt.Sprintf("… %d more line(s)", len(lines)-n))
}

func truncatePath(p string, max int) string {
	if len(p) > max {
		return "..." + p[len(p)-max+3:]
	}
	return p
}
