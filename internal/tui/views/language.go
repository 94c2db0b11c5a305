package views

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/chaichat/flashi/internal/flashi"
	"github.com/chaichat/flashi/internal/store"
)

// LanguageModel is the language selection screen.
type LanguageModel struct {
	store  *store.Store
	cursor int
	width  int
	height int
}

// NewLanguageModel creates the language picker.
func NewLanguageModel(st *store.Store) LanguageModel {
	return LanguageModel{store: st}
}

// SetSize updates the view dimensions.
func (m *LanguageModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Refresh resets the cursor when the screen is shown.
func (m *LanguageModel) Refresh() {
	m.cursor = 0
}

func (m LanguageModel) languages() []flashi.Language {
	manifest := m.store.Manifest()
	if manifest == nil {
		return nil
	}
	return manifest.Languages()
}

// Update handles messages.
func (m LanguageModel) Update(msg tea.Msg) (LanguageModel, tea.Cmd) {
	langs := m.languages()
	if len(langs) == 0 {
		return m, nil
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "j", "down":
			m.cursor = moveCursor(m.cursor, 1, len(langs))
		case "k", "up":
			m.cursor = moveCursor(m.cursor, -1, len(langs))
		case "enter", " ", "l", "right":
			lang := langs[m.cursor]
			return m, func() tea.Msg { return LanguageChosenMsg{Lang: lang} }
		}
	}
	return m, nil
}

// View renders the language list.
func (m LanguageModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Flashi"))
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render("เลือกภาษา · Choose a language"))
	b.WriteString("\n\n")

	langs := m.languages()
	if len(langs) == 0 {
		b.WriteString(helpStyle.Render("No languages in manifest"))
		return b.String()
	}

	for i, lang := range langs {
		style := listItemStyle
		if i == m.cursor {
			style = listSelectedStyle
		}
		b.WriteString(style.Render(languageLabel(lang)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("j/k: move • enter: select • q: quit"))
	return b.String()
}

func languageLabel(lang flashi.Language) string {
	switch lang {
	case flashi.LanguageEnglish:
		return "English · ภาษาอังกฤษ"
	case flashi.LanguageChinese:
		return "中文 · ภาษาจีน"
	default:
		return string(lang)
	}
}
