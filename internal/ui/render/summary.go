// Package render formats mood summaries for the terminal.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"moodtray/internal/core/model"
)

// Summary renders every day of summary, newest first.
func Summary(summary model.Summary) string {
	return renderDays(summary.Days(), newStyles())
}

func renderDays(days []model.DaySummary, s styles) string {
	lines := []string{
		s.title.Render("Mood summary"),
		s.header.Render(fmt.Sprintf("days: %d", len(days))),
	}

	if len(days) == 0 {
		lines = append(lines, s.empty.Render("No moods recorded yet."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for _, day := range days {
		lines = append(lines, s.section.Render(renderDay(day, s)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderDay(day model.DaySummary, s styles) string {
	title := day.Day
	if average := day.Average(); average > 0 {
		title = fmt.Sprintf("%s  average %.1f/5", day.Day, average)
	}
	parts := []string{s.day.Render(title)}

	for _, record := range day.Records {
		parts = append(parts, renderRecord(record, s))
	}
	for _, raw := range day.Raw {
		parts = append(parts, "  "+s.raw.Render(string(raw)))
	}
	if len(parts) == 1 {
		parts = append(parts, "  "+s.empty.Render("No entries."))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func renderRecord(record model.MoodRecord, s styles) string {
	clock := "--:--"
	if !record.RecordedAt.IsZero() {
		clock = record.RecordedAt.Local().Format("15:04")
	}

	mood := string(record.Mood)
	if mood == "" {
		mood = "?"
	}

	segments := []string{
		"  " + s.clock.Render(clock),
		s.mood(record.Mood).Render(fmt.Sprintf("%-5s", mood)),
	}
	if note := strings.TrimSpace(record.Note); note != "" {
		segments = append(segments, s.note.Render(note))
	}
	return strings.Join(segments, "  ")
}
