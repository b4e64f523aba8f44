package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nconklindev/sweeper/internal/converter"
	"github.com/nconklindev/sweeper/internal/types"
)

var barColors = []lipgloss.Color{"#4CAF50", "#F8B501"}

// renderChart draws horizontal bars for the first two numeric columns over
// at most maxRows rows, scaled so the largest magnitude fills width.
func renderChart(t *types.Table, fileName string, maxRows, width int) string {
	numeric := converter.NumericColumns(t)
	if len(numeric) == 0 {
		return WarningStyle.Render(fmt.Sprintf("⚠ No numeric data found in %s. Graphs cannot be generated.", fileName))
	}
	if len(numeric) > 2 {
		numeric = numeric[:2]
	}

	head := t.Head(maxRows)
	var s strings.Builder
	s.WriteString(SubtitleStyle.Render("📊 Data Visualization"))
	s.WriteString("\n")
	if head.NumRows() < t.NumRows() {
		s.WriteString(HelpStyle.UnsetMarginTop().Render(fmt.Sprintf("first %d of %d rows", head.NumRows(), t.NumRows())))
		s.WriteString("\n")
	}

	for n, col := range numeric {
		maxAbs := 0.0
		for _, row := range head.Rows {
			if v, ok := finite(row[col]); ok {
				maxAbs = math.Max(maxAbs, math.Abs(v))
			}
		}

		style := lipgloss.NewStyle().Foreground(barColors[n%len(barColors)])
		s.WriteString(CheckedStyle.Render(t.Columns[col]))
		s.WriteString("\n")

		for i, row := range head.Rows {
			length := 0
			if v, ok := finite(row[col]); ok && maxAbs > 0 {
				length = int(math.Round(math.Abs(v) / maxAbs * float64(width)))
				length = max(0, min(length, width))
			}
			fmt.Fprintf(&s, "%4d │%s %s\n", i, style.Render(strings.Repeat("█", length)), row[col].String())
		}
	}

	return strings.TrimRight(s.String(), "\n")
}

// finite returns the cell's value when it is a number that can be drawn.
func finite(c types.Cell) (float64, bool) {
	if c.Kind != types.CellNumber || math.IsInf(c.Num, 0) || math.IsNaN(c.Num) {
		return 0, false
	}
	return c.Num, true
}
