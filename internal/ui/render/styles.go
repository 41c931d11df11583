package render

import (
	"github.com/charmbracelet/lipgloss"

	"moodtray/internal/core/model"
)

type styles struct {
	title   lipgloss.Style
	header  lipgloss.Style
	day     lipgloss.Style
	clock   lipgloss.Style
	note    lipgloss.Style
	raw     lipgloss.Style
	section lipgloss.Style
	empty   lipgloss.Style
	moods   map[model.Mood]lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:   lipgloss.NewStyle().Bold(true),
		header:  lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		day:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		clock:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		note:    lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		raw:     lipgloss.NewStyle().Faint(true),
		section: lipgloss.NewStyle().MarginTop(1),
		empty:   lipgloss.NewStyle().Faint(true),
		moods: map[model.Mood]lipgloss.Style{
			model.MoodGreat: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
			model.MoodGood:  lipgloss.NewStyle().Foreground(lipgloss.Color("114")),
			model.MoodOk:    lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
			model.MoodBad:   lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
			model.MoodAwful: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
		},
	}
}

func (s styles) mood(mood model.Mood) lipgloss.Style {
	if style, ok := s.moods[mood]; ok {
		return style
	}
	return s.note
}
