package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/seancedev/seance/internal/domain"
)

// Theme is the immutable style set for terminal output. Built once from
// configuration; never mutated afterwards.
type Theme struct {
	Accent    lipgloss.Style
	Secondary lipgloss.Style
	Success   lipgloss.Style
	Warning   lipgloss.Style
	Danger    lipgloss.Style
	Dim       lipgloss.Style
	Command   lipgloss.Style
}

// NewTheme materializes lipgloss styles from the configured palette.
func NewTheme(cfg domain.ThemeConfig) Theme {
	color := func(v, fallback string) lipgloss.Color {
		if v == "" {
			v = fallback
		}
		return lipgloss.Color(v)
	}
	accent := color(cfg.Accent, "99")
	return Theme{
		Accent:    lipgloss.NewStyle().Foreground(accent).Bold(true),
		Secondary: lipgloss.NewStyle().Foreground(color(cfg.Secondary, "141")),
		Success:   lipgloss.NewStyle().Foreground(color(cfg.Success, "42")),
		Warning:   lipgloss.NewStyle().Foreground(color(cfg.Warning, "214")),
		Danger:    lipgloss.NewStyle().Foreground(color(cfg.Danger, "196")).Bold(true),
		Dim:       lipgloss.NewStyle().Foreground(color(cfg.Dim, "241")),
		Command:   lipgloss.NewStyle().Foreground(accent).PaddingLeft(2),
	}
}

// RiskStyle returns the style matching a risk tier.
func (t Theme) RiskStyle(level domain.RiskLevel) lipgloss.Style {
	switch level {
	case domain.RiskDestructive:
		return t.Danger
	case domain.RiskModerate:
		return t.Warning
	default:
		return t.Success
	}
}
