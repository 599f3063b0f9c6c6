package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/kattitatu/riot-account-manager/internal/models"
	"github.com/kattitatu/riot-account-manager/internal/stats"
)

type styles struct {
	title  lipgloss.Style
	header lipgloss.Style
	ok     lipgloss.Style
	warn   lipgloss.Style
	fail   lipgloss.Style
	muted  lipgloss.Style
	border lipgloss.Color
	tiers  []lipgloss.Color
}

// tier colours from IRON to CHALLENGER.
var (
	darkTiers  = []lipgloss.Color{"#8c8c8c", "#cd7f32", "#c0c0c0", "#ffd700", "#4fd1c5", "#50c878", "#b9f2ff", "#c77dff", "#ff4d4d", "#f4c874"}
	lightTiers = []lipgloss.Color{"#5c5c5c", "#8b4513", "#707070", "#b8860b", "#2c7a7b", "#2e8b57", "#1e6fa8", "#7b2cbf", "#c53030", "#b7791f"}
)

func newStyles(theme string) styles {
	s := styles{
		title: lipgloss.NewStyle().Bold(true),
		ok:    lipgloss.NewStyle().Foreground(lipgloss.Color("#38a169")),
		warn:  lipgloss.NewStyle().Foreground(lipgloss.Color("#d69e2e")),
		fail:  lipgloss.NewStyle().Foreground(lipgloss.Color("#e53e3e")),
	}
	if theme == "light" {
		s.header = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#1a202c"))
		s.muted = lipgloss.NewStyle().Foreground(lipgloss.Color("#718096"))
		s.border = lipgloss.Color("#a0aec0")
		s.tiers = lightTiers
	} else {
		s.header = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#e2e8f0"))
		s.muted = lipgloss.NewStyle().Foreground(lipgloss.Color("#a0aec0"))
		s.border = lipgloss.Color("#4a5568")
		s.tiers = darkTiers
	}
	return s
}

// rank colours a rank label by its tier.
func (s styles) rank(label string) string {
	idx := models.TierIndex(label)
	if idx < 0 || idx >= len(s.tiers) {
		return s.muted.Render(label)
	}
	return lipgloss.NewStyle().Bold(true).Foreground(s.tiers[idx]).Render(label)
}

func (s styles) status(level stats.StatusLevel) string {
	switch level {
	case stats.StatusOnline:
		return s.ok.Render("Online")
	case stats.StatusDegraded:
		return s.warn.Render("Issues")
	case stats.StatusOffline:
		return s.fail.Render("Offline")
	default:
		return s.muted.Render("Unknown")
	}
}

func (s styles) table(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(s.border)).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return s.header.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Headers(headers...).
		Rows(rows...).
		String()
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func intOrDash(v *int) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprint(*v)
}
