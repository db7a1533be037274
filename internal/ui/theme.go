package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/bamsammich/sieve/internal/config"
	"github.com/bamsammich/sieve/internal/event"
)

// Catppuccin Mocha defaults.
const (
	defaultProgress = "#cdd6f4"
	defaultError    = "#f38ba8"
	defaultDone     = "#a6e3a1"
	defaultMuted    = "#5a6278"
)

// Theme holds the styles used for progress lines and reports.
type Theme struct {
	Progress lipgloss.Style
	Error    lipgloss.Style
	Done     lipgloss.Style
	Muted    lipgloss.Style
	Header   lipgloss.Style
}

// DefaultTheme returns the built-in palette.
func DefaultTheme() *Theme {
	return NewTheme(config.ThemeConfig{})
}

// NewTheme builds a Theme, overriding the defaults with any colors set
// in tc.
func NewTheme(tc config.ThemeConfig) *Theme {
	pick := func(v *string, def string) lipgloss.Color {
		if v != nil && *v != "" {
			return lipgloss.Color(*v)
		}
		return lipgloss.Color(def)
	}
	progress := pick(tc.Progress, defaultProgress)
	return &Theme{
		Progress: lipgloss.NewStyle().Foreground(progress),
		Error:    lipgloss.NewStyle().Foreground(pick(tc.Error, defaultError)),
		Done:     lipgloss.NewStyle().Foreground(pick(tc.Done, defaultDone)).Bold(true),
		Muted:    lipgloss.NewStyle().Foreground(pick(tc.Muted, defaultMuted)),
		Header:   lipgloss.NewStyle().Foreground(progress).Bold(true),
	}
}

// Render styles line according to the kind of event it describes.
func (t *Theme) Render(ev event.Event, line string) string {
	switch {
	case ev.IsError():
		return t.Error.Render(line)
	case ev.Type == event.Done:
		return t.Done.Render(line)
	case ev.Type == event.DirCreated || ev.Type == event.SieveStarted:
		return t.Muted.Render(line)
	default:
		return t.Progress.Render(line)
	}
}
