package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"gopix/internal/grid"
)

func hexString(c grid.Color) string {
	b := c.Bytes()
	return fmt.Sprintf("#%02X%02X%02X", b[0], b[1], b[2])
}

func hexColor(c grid.Color) lipgloss.Color {
	return lipgloss.Color(hexString(c))
}

// parseColor accepts "#RRGGBB", "RRGGBB" or "r,g,b" with 0-255 channels.
func parseColor(raw string) (grid.Color, error) {
	raw = strings.TrimSpace(raw)
	if parts := strings.Split(raw, ","); len(parts) == 3 {
		var b [3]uint8
		for i, p := range parts {
			n, err := strconv.ParseUint(strings.TrimSpace(p), 10, 8)
			if err != nil {
				return grid.Color{}, fmt.Errorf("color: bad channel %q", p)
			}
			b[i] = uint8(n)
		}
		return grid.ColorFromBytes(b), nil
	}
	hex := strings.TrimPrefix(raw, "#")
	if len(hex) != 6 {
		return grid.Color{}, fmt.Errorf("color: want #RRGGBB or r,g,b, got %q", raw)
	}
	var b [3]uint8
	for i := 0; i < 3; i++ {
		n, err := strconv.ParseUint(hex[i*2:i*2+2], 16, 8)
		if err != nil {
			return grid.Color{}, fmt.Errorf("color: want #RRGGBB or r,g,b, got %q", raw)
		}
		b[i] = uint8(n)
	}
	return grid.ColorFromBytes(b), nil
}
