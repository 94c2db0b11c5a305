package views

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/chaichat/flashi/internal/flashi"
	"github.com/chaichat/flashi/internal/gesture"
	"github.com/chaichat/flashi/internal/pinyin"
	"github.com/chaichat/flashi/internal/store"
	"github.com/chaichat/flashi/internal/tui/bigchar"
)

// gestureScale converts terminal cell deltas into gesture units, so the
// published pixel thresholds keep their feel in a character grid.
const gestureScale = 10

// previewCount is how many upcoming cards show beneath the current one.
const previewCount = 2

// Deck view styles
var (
	deckCardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(2, 6).
			Align(lipgloss.Center)

	deckCardTestStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				Padding(1, 6).
				Align(lipgloss.Center)

	deckFaceStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#1a1a2e"))

	deckHintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#2d3436")).
			Italic(true)

	deckThaiStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#2d3436")).
			Bold(true)

	// Mandarin tone colors for pinyin syllables, dark enough to read
	// against the pastel card backgrounds.
	deckToneStyles = map[pinyin.Tone]lipgloss.Style{
		pinyin.Tone1: lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("#c1121f")),
		pinyin.Tone2: lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("#9c6611")),
		pinyin.Tone3: lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("#2d6a4f")),
		pinyin.Tone4: lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("#1d3557")),
	}

	deckPreviewStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("#3d5a80")).
				Foreground(lipgloss.Color("#666666")).
				Padding(0, 2)

	deckProgressStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#888888"))

	deckModeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			Padding(0, 1)

	deckModeActiveStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#ffe66d")).
				Background(lipgloss.Color("#2d3436")).
				Padding(0, 1)

	deckRevealHintStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#4ecdc4")).
				Bold(true).
				Align(lipgloss.Center)

	deckCompleteStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#a8e6cf")).
				Bold(true).
				Align(lipgloss.Center)
)

// DeckModel is the flashcard deck screen. Gesture handling mirrors a
// touch interface: drag to swipe cards, tap to hear them.
type DeckModel struct {
	store   *store.Store
	speaker Speaker

	tracker *gesture.Tracker
	dragDX  float64

	// revealed is sticky per card until the deck restarts.
	revealed map[int]bool

	completionSent bool

	width  int
	height int
}

// NewDeckModel creates the deck screen.
func NewDeckModel(st *store.Store, speaker Speaker) DeckModel {
	return DeckModel{
		store:    st,
		speaker:  speaker,
		tracker:  gesture.NewTracker(gesture.DefaultConfig()),
		revealed: make(map[int]bool),
	}
}

// SetSize updates the view dimensions.
func (m *DeckModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Refresh starts a freshly loaded deck from the top.
func (m *DeckModel) Refresh() {
	m.revealed = make(map[int]bool)
	m.dragDX = 0
	m.completionSent = false
	if m.store.LearnMode() {
		m.speakCurrent()
	}
}

// Update handles messages.
func (m DeckModel) Update(msg tea.Msg) (DeckModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		return m.handleMouse(msg)
	}
	return m, nil
}

func (m DeckModel) handleKey(msg tea.KeyMsg) (DeckModel, tea.Cmd) {
	if m.store.IsComplete() {
		switch msg.String() {
		case "r", "enter", " ":
			m.restart()
		}
		return m, nil
	}

	switch msg.String() {
	case "right", "l":
		return m.advance()
	case "left", "h":
		if m.store.PreviousCard() {
			m.onCardShown()
		}
		return m, nil
	case " ", "enter":
		m.revealOrSpeak()
		return m, nil
	case "1":
		m.switchMode(true)
		return m, nil
	case "2":
		m.switchMode(false)
		return m, nil
	}
	return m, nil
}

func (m DeckModel) handleMouse(msg tea.MouseMsg) (DeckModel, tea.Cmd) {
	if m.store.IsComplete() {
		return m, nil
	}

	x := float64(msg.X) * gestureScale
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			m.tracker.Start(x, time.Now())
			m.dragDX = 0
		}
	case tea.MouseActionMotion:
		m.dragDX = m.tracker.Move(x)
	case tea.MouseActionRelease:
		if !m.tracker.Dragging() {
			return m, nil
		}
		res := m.tracker.End(x, time.Now(), m.store.LearnMode())
		m.dragDX = 0
		return m.applyGesture(res)
	}
	return m, nil
}

func (m DeckModel) applyGesture(res gesture.Result) (DeckModel, tea.Cmd) {
	switch res.Action {
	case gesture.ActionTap:
		m.speakCurrent()
	case gesture.ActionSwipeLeft:
		return m.advance()
	case gesture.ActionSwipeRight:
		if m.store.PreviousCard() {
			m.onCardShown()
		}
	}
	// Snap-back leaves everything in place.
	return m, nil
}

// advance moves to the next card, or past the last one into the
// completion screen.
func (m DeckModel) advance() (DeckModel, tea.Cmd) {
	if m.store.NextCard() {
		m.onCardShown()
		return m, nil
	}
	m.store.CompleteLesson()
	m.speaker.Cancel()
	if m.completionSent {
		return m, nil
	}
	m.completionSent = true
	ref := m.store.Lesson()
	if ref == nil {
		return m, nil
	}
	completed := *ref
	return m, func() tea.Msg { return LessonCompletedMsg{Ref: completed} }
}

// onCardShown fires after the cursor lands on a card. Learn mode speaks
// every card as it appears.
func (m *DeckModel) onCardShown() {
	if m.store.LearnMode() {
		m.speakCurrent()
	}
}

// revealOrSpeak is the space/enter/tap-equivalent action. Learn mode
// speaks. Test mode reveals the answer; the reveal sticks for this
// card, and pressing again only re-speaks.
func (m *DeckModel) revealOrSpeak() {
	if m.store.LearnMode() {
		m.speakCurrent()
		return
	}
	i := m.store.CardIndex()
	if m.revealed[i] {
		m.speakCurrent()
		return
	}
	m.revealed[i] = true
	m.speakCurrent()
}

func (m *DeckModel) speakCurrent() {
	card := m.store.CurrentCard()
	if card == nil {
		return
	}
	lang := m.store.Language()
	m.speaker.Speak(card.TargetText(lang), lang.SpeechTag())
}

// switchMode selects learn or test mode. Either way the deck restarts,
// so re-selecting the active mode is just a restart.
func (m *DeckModel) switchMode(learn bool) {
	m.store.SetLearnMode(learn)
	m.restart()
}

func (m *DeckModel) restart() {
	m.store.ResetCardIndex()
	m.revealed = make(map[int]bool)
	m.completionSent = false
	if m.store.LearnMode() {
		m.speakCurrent()
	}
}

// View renders the deck: the current card on top, the next two queued
// beneath it, or the completion screen once the deck is exhausted.
func (m DeckModel) View() string {
	deck := m.store.Deck()
	if m.store.IsComplete() {
		return m.renderCompletion(len(deck))
	}

	var b strings.Builder

	lesson := "Deck"
	if ref := m.store.Lesson(); ref != nil {
		lesson = ref.DisplayName()
	}
	b.WriteString(titleStyle.Render(lesson))
	b.WriteString("  ")
	b.WriteString(m.renderModeTabs())
	b.WriteString("\n")
	b.WriteString(deckProgressStyle.Render(
		fmt.Sprintf("Card %d of %d", m.store.CardIndex()+1, len(deck))))
	b.WriteString("\n\n")

	b.WriteString(m.renderCurrentCard())
	b.WriteString("\n")

	for _, preview := range m.previewCards() {
		b.WriteString(deckPreviewStyle.Render(preview))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.store.LearnMode() {
		b.WriteString(helpStyle.Render("←/→: cards • space: speak • 1/2: learn/test • esc: back"))
	} else {
		b.WriteString(helpStyle.Render("←/→: cards • space: reveal • 1/2: learn/test • esc: back"))
	}
	return b.String()
}

func (m DeckModel) renderModeTabs() string {
	learnTab := deckModeStyle
	testTab := deckModeStyle
	if m.store.LearnMode() {
		learnTab = deckModeActiveStyle
	} else {
		testTab = deckModeActiveStyle
	}
	return learnTab.Render("1 Learn") + " " + testTab.Render("2 Test")
}

func (m DeckModel) renderCurrentCard() string {
	card := m.store.CurrentCard()
	if card == nil {
		return ""
	}

	lang := m.store.Language()
	i := m.store.CardIndex()
	revealed := m.store.LearnMode() || m.revealed[i]

	var lines []string

	face := card.TargetText(lang)
	if lang == flashi.LanguageChinese {
		if art := bigchar.Render(face, 14, 7); art != "" {
			lines = append(lines, art)
		}
	}
	lines = append(lines, deckFaceStyle.Render(face))

	if revealed {
		if hint := card.Hint(lang); hint != "" {
			if lang == flashi.LanguageChinese {
				lines = append(lines, renderPinyinHint(hint))
			} else {
				lines = append(lines, deckHintStyle.Render(hint))
			}
		}
		if card.Thai != "" {
			lines = append(lines, deckThaiStyle.Render(card.Thai))
		}
	} else {
		lines = append(lines, deckRevealHintStyle.Render("space: reveal"))
	}

	style := deckCardStyle
	if !m.store.LearnMode() {
		// Test cards are shorter so the hidden answer leaves no gap.
		style = deckCardTestStyle
	}
	style = style.Background(m.cardColor(i)).BorderForeground(m.cardColor(i))

	rendered := style.Render(strings.Join(lines, "\n"))

	// Direct-manipulation feedback: shift the card while dragging. Cell
	// grids cannot rotate, so rotation shows as a degree readout.
	if m.tracker.Dragging() && m.dragDX != 0 {
		shift := int(m.dragDX / gestureScale)
		if shift > 0 {
			rendered = lipgloss.NewStyle().MarginLeft(shift).Render(rendered)
		}
		rendered += "\n" + deckProgressStyle.Render(
			fmt.Sprintf("↻ %.1f°", m.tracker.Rotation()))
	}
	return rendered
}

// renderPinyinHint colors each syllable by its Mandarin tone. Neutral
// and unmarked syllables keep the plain hint style.
func renderPinyinHint(hint string) string {
	fields := strings.Fields(hint)
	for i, f := range fields {
		if style, ok := deckToneStyles[pinyin.SyllableTone(f)]; ok {
			fields[i] = style.Render(f)
		} else {
			fields[i] = deckHintStyle.Render(f)
		}
	}
	return strings.Join(fields, " ")
}

// previewCards returns one-line summaries of the next cards in line.
func (m DeckModel) previewCards() []string {
	deck := m.store.Deck()
	lang := m.store.Language()

	var previews []string
	for i := m.store.CardIndex() + 1; i <= m.store.CardIndex()+previewCount && i < len(deck); i++ {
		text := deck[i].TargetText(lang)
		previews = append(previews, runewidth.Truncate(text, 24, "…"))
	}
	return previews
}

func (m DeckModel) cardColor(index int) lipgloss.Color {
	palette := m.store.ColorPalette()
	if len(palette) == 0 {
		return lipgloss.Color("#ffe66d")
	}
	return lipgloss.Color(palette[index%len(palette)])
}

func (m DeckModel) renderCompletion(total int) string {
	var b strings.Builder

	b.WriteString("\n\n")
	b.WriteString(deckCompleteStyle.Render("🎉 เก่งมาก! Lesson complete"))
	b.WriteString("\n\n")
	b.WriteString(deckProgressStyle.Render(fmt.Sprintf("%d cards studied", total)))
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("r: study again • esc: back to lessons"))
	return b.String()
}
