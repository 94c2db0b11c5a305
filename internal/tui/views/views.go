// Package views provides the individual screens of the flashcard UI.
package views

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/chaichat/flashi/internal/flashi"
)

// Speaker is the slice of the speech adapter the views use.
type Speaker interface {
	Speak(text, langTag string)
	Cancel()
	IsSpeaking() bool
}

// Message types shared across screens

// BackMsg requests navigation to the previous screen.
type BackMsg struct{}

// LanguageChosenMsg is sent when a language is selected.
type LanguageChosenMsg struct {
	Lang flashi.Language
}

// CategoryChosenMsg is sent when a category is selected.
type CategoryChosenMsg struct {
	Name string
}

// LessonChosenMsg is sent when a lesson is selected.
type LessonChosenMsg struct {
	Ref flashi.LessonRef
}

// LessonCompletedMsg is sent the moment a deck runs out of cards.
type LessonCompletedMsg struct {
	Ref flashi.LessonRef
}

// Shared styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			Background(lipgloss.Color("#1a1a2e")).
			Padding(0, 1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ecdc4"))

	thaiStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#a8dadc"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	listItemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f1faee")).
			Padding(0, 2)

	listSelectedStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#ffe66d")).
				Background(lipgloss.Color("#2d3436")).
				Padding(0, 2)

	reviewIconStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#a8e6cf")).
			Bold(true)
)

// moveCursor clamps list navigation to [0, n).
func moveCursor(cursor, delta, n int) int {
	cursor += delta
	if cursor < 0 {
		return 0
	}
	if cursor >= n {
		return n - 1
	}
	return cursor
}
