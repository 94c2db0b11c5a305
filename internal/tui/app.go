package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/chaichat/flashi/internal/data"
	"github.com/chaichat/flashi/internal/flashi"
	"github.com/chaichat/flashi/internal/store"
	"github.com/chaichat/flashi/internal/tui/views"
)

// Screen identifies the active screen. The four screens are mutually
// exclusive; showing one hides the others.
type Screen int

const (
	ScreenLanguage Screen = iota
	ScreenCategory
	ScreenLesson
	ScreenDeck
	ScreenError
)

// ManifestLoadedMsg carries the result of the startup manifest fetch.
type ManifestLoadedMsg struct {
	Manifest *flashi.Manifest
	Err      error
}

// DeckLoadedMsg carries a loaded lesson ready for study.
type DeckLoadedMsg struct {
	Ref   flashi.LessonRef
	Cards []flashi.Card
}

// Progress persists the user's language choice and lesson completions.
type Progress interface {
	Language() (flashi.Language, error)
	SetLanguage(lang flashi.Language) error
	RecordCompletion(file string) error
}

// AppModel is the root bubbletea model routing between screens.
type AppModel struct {
	store    *store.Store
	loader   *data.Loader
	speaker  views.Speaker
	progress Progress

	currentScreen Screen
	manifestErr   error
	loading       bool
	spinner       spinner.Model

	languageView views.LanguageModel
	categoryView views.CategoriesModel
	lessonView   views.LessonsModel
	deckView     views.DeckModel

	width  int
	height int
	ready  bool
}

// NewApp wires the screens to their shared dependencies.
func NewApp(st *store.Store, loader *data.Loader, speaker views.Speaker, progress Progress) AppModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = LoadingStyle

	return AppModel{
		store:    st,
		loader:   loader,
		speaker:  speaker,
		progress: progress,

		currentScreen: ScreenLanguage,
		loading:       true,
		spinner:       sp,

		languageView: views.NewLanguageModel(st),
		categoryView: views.NewCategoriesModel(st),
		lessonView:   views.NewLessonsModel(st),
		deckView:     views.NewDeckModel(st, speaker),
	}
}

// Init starts the manifest load.
func (m AppModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadManifest())
}

func (m AppModel) loadManifest() tea.Cmd {
	return func() tea.Msg {
		manifest, err := m.loader.LoadManifest(context.Background())
		return ManifestLoadedMsg{Manifest: manifest, Err: err}
	}
}

func (m AppModel) loadLesson(ref flashi.LessonRef) tea.Cmd {
	return func() tea.Msg {
		cards := m.loader.LoadLesson(context.Background(), ref.File)
		return DeckLoadedMsg{Ref: ref, Cards: cards}
	}
}

// Update handles messages.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.speaker.Cancel()
			return m, tea.Quit
		case "esc":
			return m.navigateBack()
		case "r":
			if m.currentScreen == ScreenError {
				m.loading = true
				m.manifestErr = nil
				return m, tea.Batch(m.spinner.Tick, m.loadManifest())
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		contentWidth := m.width - 4
		contentHeight := m.height - 2
		m.languageView.SetSize(contentWidth, contentHeight)
		m.categoryView.SetSize(contentWidth, contentHeight)
		m.lessonView.SetSize(contentWidth, contentHeight)
		m.deckView.SetSize(contentWidth, contentHeight)
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case ManifestLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.manifestErr = msg.Err
			m.currentScreen = ScreenError
			return m, nil
		}
		m.store.SetManifest(msg.Manifest)
		return m.navigateAfterManifest(msg.Manifest), nil

	case views.LanguageChosenMsg:
		m.store.SetLanguage(msg.Lang)
		if m.progress != nil {
			m.progress.SetLanguage(msg.Lang)
		}
		return m.navigateToCategories(), nil

	case views.CategoryChosenMsg:
		manifest := m.store.Manifest()
		lang := m.store.Language()
		if manifest == nil || lang == "" {
			return m.navigateToLanguage(), nil
		}
		m.store.SetCategory(msg.Name)
		m.store.SetCategoryLessons(manifest.Lessons(lang, msg.Name))
		return m.navigateToLessons(), nil

	case views.LessonChosenMsg:
		ref := msg.Ref
		m.store.SetLesson(&ref)
		m.store.ResetForNewLesson()
		m.loading = true
		return m, tea.Batch(m.spinner.Tick, m.loadLesson(ref))

	case DeckLoadedMsg:
		m.loading = false
		m.store.SetDeck(msg.Cards)
		return m.navigateToDeck(), nil

	case views.LessonCompletedMsg:
		if m.progress != nil {
			m.progress.RecordCompletion(msg.Ref.File)
		}
		return m, nil

	case views.BackMsg:
		return m.navigateBack()
	}

	// Delegate everything else to the active screen.
	var cmd tea.Cmd
	switch m.currentScreen {
	case ScreenLanguage:
		m.languageView, cmd = m.languageView.Update(msg)
	case ScreenCategory:
		m.categoryView, cmd = m.categoryView.Update(msg)
	case ScreenLesson:
		m.lessonView, cmd = m.lessonView.Update(msg)
	case ScreenDeck:
		m.deckView, cmd = m.deckView.Update(msg)
	}
	return m, cmd
}

// navigateAfterManifest applies the startup rule: a persisted language
// that is still present in the manifest skips straight to the category
// screen.
func (m AppModel) navigateAfterManifest(manifest *flashi.Manifest) AppModel {
	if m.progress != nil {
		if lang, err := m.progress.Language(); err == nil && lang.Valid() && manifest.HasLanguage(lang) {
			m.store.SetLanguage(lang)
			return m.navigateToCategories()
		}
	}
	return m.navigateToLanguage()
}

func (m AppModel) navigateToLanguage() AppModel {
	m.currentScreen = ScreenLanguage
	m.languageView.Refresh()
	return m
}

func (m AppModel) navigateToCategories() AppModel {
	if m.store.Language() == "" {
		return m.navigateToLanguage()
	}
	m.currentScreen = ScreenCategory
	m.categoryView.Refresh()
	return m
}

func (m AppModel) navigateToLessons() AppModel {
	if m.store.Language() == "" {
		return m.navigateToLanguage()
	}
	m.currentScreen = ScreenLesson
	m.lessonView.Refresh()
	return m
}

func (m AppModel) navigateToDeck() AppModel {
	if m.store.Language() == "" {
		return m.navigateToLanguage()
	}
	m.currentScreen = ScreenDeck
	m.deckView.Refresh()
	return m
}

// navigateBack follows the fixed back mapping: deck to lessons, lessons
// to categories, categories to language.
func (m AppModel) navigateBack() (tea.Model, tea.Cmd) {
	switch m.currentScreen {
	case ScreenDeck:
		m.speaker.Cancel()
		return m.navigateToLessons(), nil
	case ScreenLesson:
		return m.navigateToCategories(), nil
	case ScreenCategory:
		return m.navigateToLanguage(), nil
	default:
		return m, tea.Quit
	}
}

// View renders the active screen.
func (m AppModel) View() string {
	if !m.ready && m.width == 0 {
		m.width = 80
		m.height = 24
	}

	if m.loading {
		return ContentStyle.Render(m.spinner.View() + " " + LoadingStyle.Render("Loading..."))
	}

	var content string
	switch m.currentScreen {
	case ScreenError:
		content = m.renderManifestError()
	case ScreenLanguage:
		content = m.languageView.View()
	case ScreenCategory:
		content = m.categoryView.View()
	case ScreenLesson:
		content = m.lessonView.View()
	case ScreenDeck:
		content = m.deckView.View()
	}
	return ContentStyle.Render(content)
}

func (m AppModel) renderManifestError() string {
	var b strings.Builder
	b.WriteString(ErrorStyle.Render("Could not load lesson data"))
	b.WriteString("\n\n")
	if m.manifestErr != nil {
		b.WriteString(HelpStyle.Render(m.manifestErr.Error()))
		b.WriteString("\n\n")
	}
	b.WriteString(HelpStyle.Render("r: retry • q: quit"))

	box := ErrorBoxStyle.Render(b.String())
	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
	}
	return box
}
