package views

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/chaichat/flashi/internal/store"
)

// CategoriesModel is the category selection screen. Categories appear
// in manifest order.
type CategoriesModel struct {
	store  *store.Store
	cursor int
	width  int
	height int
}

// NewCategoriesModel creates the category picker.
func NewCategoriesModel(st *store.Store) CategoriesModel {
	return CategoriesModel{store: st}
}

// SetSize updates the view dimensions.
func (m *CategoriesModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Refresh resets the cursor when the screen is shown.
func (m *CategoriesModel) Refresh() {
	m.cursor = 0
}

func (m CategoriesModel) categories() []string {
	manifest := m.store.Manifest()
	if manifest == nil {
		return nil
	}
	return manifest.Categories(m.store.Language())
}

// Update handles messages.
func (m CategoriesModel) Update(msg tea.Msg) (CategoriesModel, tea.Cmd) {
	cats := m.categories()
	if len(cats) == 0 {
		return m, nil
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "j", "down":
			m.cursor = moveCursor(m.cursor, 1, len(cats))
		case "k", "up":
			m.cursor = moveCursor(m.cursor, -1, len(cats))
		case "enter", " ", "l", "right":
			name := cats[m.cursor]
			return m, func() tea.Msg { return CategoryChosenMsg{Name: name} }
		}
	}
	return m, nil
}

// View renders the category list.
func (m CategoriesModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Categories"))
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render("หมวดหมู่"))
	b.WriteString("\n\n")

	cats := m.categories()
	if len(cats) == 0 {
		b.WriteString(helpStyle.Render("No categories for this language"))
		return b.String()
	}

	manifest := m.store.Manifest()
	lang := m.store.Language()
	for i, name := range cats {
		label := name
		if cat := manifest.Category(lang, name); cat != nil && cat.NameTh != "" {
			label += "  " + thaiStyle.Render(cat.NameTh)
		}
		style := listItemStyle
		if i == m.cursor {
			style = listSelectedStyle
		}
		b.WriteString(style.Render(label))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("j/k: move • enter: select • esc: back • q: quit"))
	return b.String()
}
