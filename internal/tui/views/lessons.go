package views

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/chaichat/flashi/internal/flashi"
	"github.com/chaichat/flashi/internal/store"
)

// LessonsModel is the lesson selection screen for the current category.
type LessonsModel struct {
	store  *store.Store
	cursor int
	width  int
	height int
}

// NewLessonsModel creates the lesson picker.
func NewLessonsModel(st *store.Store) LessonsModel {
	return LessonsModel{store: st}
}

// SetSize updates the view dimensions.
func (m *LessonsModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Refresh resets the cursor when the screen is shown.
func (m *LessonsModel) Refresh() {
	m.cursor = 0
}

func (m LessonsModel) lessons() []flashi.LessonRef {
	return m.store.CategoryLessons()
}

// Update handles messages.
func (m LessonsModel) Update(msg tea.Msg) (LessonsModel, tea.Cmd) {
	refs := m.lessons()
	if len(refs) == 0 {
		return m, nil
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "j", "down":
			m.cursor = moveCursor(m.cursor, 1, len(refs))
		case "k", "up":
			m.cursor = moveCursor(m.cursor, -1, len(refs))
		case "enter", " ", "l", "right":
			ref := refs[m.cursor]
			return m, func() tea.Msg { return LessonChosenMsg{Ref: ref} }
		}
	}
	return m, nil
}

// View renders the lesson list in manifest order. Review lessons get an
// icon but behave like any other lesson.
func (m LessonsModel) View() string {
	var b strings.Builder

	title := m.store.Category()
	if title == "" {
		title = "Lessons"
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render("บทเรียน"))
	b.WriteString("\n\n")

	refs := m.lessons()
	if len(refs) == 0 {
		b.WriteString(helpStyle.Render("No lessons in this category"))
		return b.String()
	}

	for i, ref := range refs {
		label := ref.DisplayName()
		if ref.IsReview {
			label = reviewIconStyle.Render("⟳ ") + label
		}
		style := listItemStyle
		if i == m.cursor {
			style = listSelectedStyle
		}
		b.WriteString(style.Render(label))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("j/k: move • enter: study • esc: back • q: quit"))
	return b.String()
}
