package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"gopix/internal/grid"
)

// sample is one half-row screen position resolved to world state.
type sample struct {
	x, y    int64
	present bool
	color   grid.Color
}

func (m Model) sampleAt(col, half int) sample {
	x, y := m.cam.CellAt(float64(col), float64(half))
	s := sample{x: x, y: y}
	if !grid.InBounds(x, y) {
		return s
	}
	if m.selectedHere(x, y) {
		s.present = true
		s.color = m.sel.Color
		if m.onSelectionEdge(col, half) {
			s.color = invert(s.color)
		}
		return s
	}
	if cell, ok := m.store.Get(x, y); ok {
		s.present = true
		s.color = cell.Color
	}
	return s
}

// onSelectionEdge reports whether a neighboring sample falls outside the
// selected cell, which marks this sample as part of the selection outline.
func (m Model) onSelectionEdge(col, half int) bool {
	for _, d := range [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
		nx, ny := m.cam.CellAt(float64(col+d[0]), float64(half+d[1]))
		if !m.selectedHere(nx, ny) {
			return true
		}
	}
	return false
}

func invert(c grid.Color) grid.Color {
	return grid.Color{1 - c[0], 1 - c[1], 1 - c[2]}
}

// renderMap draws the viewport with half blocks: each terminal cell carries
// two vertical samples, the top in the foreground color and the bottom in the
// background color. Cells whose chunk has not arrived render blank.
func (m Model) renderMap() string {
	var b strings.Builder
	for row := 0; row < m.mapH; row++ {
		if row > 0 {
			b.WriteByte('\n')
		}
		for col := 0; col < m.mapW; col++ {
			top := m.sampleAt(col, row*2)
			bot := m.sampleAt(col, row*2+1)
			switch {
			case top.present && bot.present:
				st := lipgloss.NewStyle().
					Foreground(hexColor(top.color)).
					Background(hexColor(bot.color))
				b.WriteString(st.Render("▀"))
			case top.present:
				b.WriteString(lipgloss.NewStyle().Foreground(hexColor(top.color)).Render("▀"))
			case bot.present:
				b.WriteString(lipgloss.NewStyle().Foreground(hexColor(bot.color)).Render("▄"))
			default:
				b.WriteByte(' ')
			}
		}
	}
	return b.String()
}
