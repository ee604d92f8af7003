package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"gopix/internal/grid"
)

func (m Model) View() string {
	if m.termW == 0 || m.termH == 0 {
		return ""
	}

	header := titleStyle.Render(" gopix ─ ledger pixel grid ")
	pos := dimStyle.Render(fmt.Sprintf(" x=%.1f y=%.1f width=%.0f ", m.cam.X, m.cam.Y, m.cam.Width))
	spacer := max(0, m.termW-lipgloss.Width(header)-lipgloss.Width(pos))
	headerRow := header + strings.Repeat(" ", spacer) + pos

	mapView := lipgloss.NewStyle().Width(m.mapW).Height(m.mapH).MaxHeight(m.mapH).Render(m.renderMap())
	panel := m.renderPanel()
	body := lipgloss.JoinHorizontal(lipgloss.Top, mapView, " ", panel)

	footer := m.renderFooter()

	ui := lipgloss.JoinVertical(lipgloss.Left, headerRow, body, footer)
	return appStyle.Width(m.termW).Height(m.termH).Render(ui)
}

func (m Model) renderPanel() string {
	w := panelWidth - 4 // border and padding
	var lines []string

	if !m.sel.Active {
		lines = append(lines,
			titleStyle.Render("no selection"),
			"",
			dimStyle.Render("click a cell to select it"))
	} else {
		auth := m.authoritative(m.sel.X, m.sel.Y)
		owner := auth.Owner
		switch {
		case owner == "":
			owner = dimStyle.Render("unminted")
		case auth.OwnedBy(m.cfg.Wallet):
			owner = accentLine("you")
		default:
			owner = truncate(owner, w-10)
		}

		lines = append(lines,
			titleStyle.Render(fmt.Sprintf("cell (%d,%d)", m.sel.X, m.sel.Y)),
			"",
			labelStyle.Render("owner")+owner,
			labelStyle.Render("color")+swatch(m.sel.Color)+" "+hexString(m.sel.Color),
			labelStyle.Render("term")+fmt.Sprintf("%d days", m.sel.TermDays),
			labelStyle.Render("price")+formatAmount(m.sel.Price),
			labelStyle.Render("deposit")+formatAmount(m.sel.Deposit(m.params.TaxPerDay)),
		)

		if c, ok := m.sel.PlanCommit(auth, m.cfg.Wallet, m.params); ok {
			lines = append(lines, "",
				labelStyle.Render("action")+c.Action.String(),
				labelStyle.Render("payment")+formatAmount(c.Intent.Payment))
		} else if m.cfg.Wallet != "" {
			lines = append(lines, "", dimStyle.Render("draft matches ledger state"))
		}
		if !auth.Unowned() && !auth.OwnedBy(m.cfg.Wallet) {
			lines = append(lines,
				labelStyle.Render("total")+formatAmount(m.sel.TotalCost(auth, m.params.TaxPerDay)))
		}

		if m.editing != editNone {
			label := map[editField]string{
				editColor:    "color",
				editTermDays: "term days",
				editPrice:    "price",
			}[m.editing]
			lines = append(lines, "", warnStyle.Render("edit "+label), m.input.View())
		}
	}

	if m.commitBusy {
		lines = append(lines, "", m.spin.View()+" committing")
	}

	content := lipgloss.NewStyle().Width(w).Render(strings.Join(lines, "\n"))
	return panelStyle.Width(panelWidth - 2).Height(m.mapH - 2).Render(content)
}

func (m Model) renderFooter() string {
	status := dimStyle.Render(" " + m.status + " ")
	if m.inFlight > 0 {
		status += dimStyle.Render(fmt.Sprintf("%s %d chunks ", m.spin.View(), m.inFlight))
	}

	feedState := accentLine("feed up")
	if !m.feedUp {
		feedState = warnStyle.Render("feed down")
	}
	right := dimStyle.Render(fmt.Sprintf(" %d chunks cached  ", m.store.ChunkCount())) + feedState + " "
	spacer := max(0, m.termW-lipgloss.Width(status)-lipgloss.Width(right))
	top := status + strings.Repeat(" ", spacer) + right

	return top + "\n" + m.renderHelp()
}

func (m Model) renderHelp() string {
	if !m.helpVisible {
		return dimStyle.Render("  h help")
	}
	keys := []string{
		"↑↓←→/wasd pan",
		"+/- zoom",
		"click select",
		"c color",
		"t term",
		"p price",
		"y commit",
		"x burn",
		"esc clear",
		"h help",
		"q quit",
	}
	return dimStyle.Render("  " + strings.Join(keys, "  "))
}

func accentLine(s string) string {
	return lipgloss.NewStyle().Foreground(accentFg).Render(s)
}

func swatch(c grid.Color) string {
	return lipgloss.NewStyle().Foreground(hexColor(c)).Render("██")
}

func truncate(s string, n int) string {
	if n < 4 || len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}

func formatAmount(v uint64) string {
	s := fmt.Sprintf("%d", v)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
