package store

import (
	"testing"

	"github.com/chaichat/flashi/internal/flashi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetStateNotifiesOnDistinctTransitionsOnly(t *testing.T) {
	s := New()

	var got []any
	s.Subscribe(KeyCardIndex, func(v any, _ map[Key]any) {
		got = append(got, v)
	})

	s.SetCardIndex(1)
	s.SetCardIndex(1) // no transition
	s.SetCardIndex(2)
	s.SetCardIndex(0)

	assert.Equal(t, []any{1, 2, 0}, got)
}

func TestSubscriberNotInvokedForOtherKeys(t *testing.T) {
	s := New()

	calls := 0
	s.Subscribe(KeyLanguage, func(any, map[Key]any) { calls++ })

	s.SetCardIndex(3)
	s.SetCategory("Everyday")
	s.SetLearnMode(false)

	assert.Zero(t, calls)

	s.SetLanguage(flashi.LanguageEnglish)
	assert.Equal(t, 1, calls)
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	s := New()

	calls := 0
	unsub := s.Subscribe(KeyCategory, func(any, map[Key]any) { calls++ })

	s.SetCategory("Everyday")
	unsub()
	unsub() // second call is harmless
	s.SetCategory("IELTS")

	assert.Equal(t, 1, calls)
}

func TestCallbackReceivesFullStateSnapshot(t *testing.T) {
	s := New()
	s.SetLanguage(flashi.LanguageChinese)

	var seen map[Key]any
	s.Subscribe(KeyCategory, func(_ any, state map[Key]any) {
		seen = state
	})
	s.SetCategory("Everyday")

	require.NotNil(t, seen)
	assert.Equal(t, flashi.LanguageChinese, seen[KeyLanguage])
	assert.Equal(t, "Everyday", seen[KeyCategory])
}

func TestReentrantSetStateFromCallback(t *testing.T) {
	s := New()

	// A learn-mode listener that restarts the deck: the classic re-entrant
	// fan-out. Converges because the rewritten value stabilizes.
	s.Subscribe(KeyLearnMode, func(any, map[Key]any) {
		s.SetCardIndex(0)
	})

	s.SetCardIndex(5)
	s.SetLearnMode(false)

	assert.Equal(t, 0, s.CardIndex())
	assert.False(t, s.LearnMode())
}

func TestCursorBoundaries(t *testing.T) {
	s := New()
	s.SetDeck([]flashi.Card{{English: "cat"}, {English: "dog"}, {English: "fish"}})

	assert.False(t, s.PreviousCard(), "previous at index 0 is a no-op")
	assert.Equal(t, 0, s.CardIndex())

	assert.True(t, s.NextCard())
	assert.True(t, s.NextCard())
	assert.False(t, s.NextCard(), "next at the last card is a no-op")
	assert.Equal(t, 2, s.CardIndex())

	s.CompleteLesson()
	assert.Equal(t, 3, s.CardIndex())
	assert.True(t, s.IsComplete())
	assert.Nil(t, s.CurrentCard())

	s.ResetCardIndex()
	require.NotNil(t, s.CurrentCard())
	assert.Equal(t, "cat", s.CurrentCard().English)
}

func TestResetKeepsPaletteAndNotifiesEverySlot(t *testing.T) {
	s := New()
	palette := s.ColorPalette()
	require.NotEmpty(t, palette)

	s.SetLanguage(flashi.LanguageEnglish)
	s.SetCategory("Everyday")
	s.SetCardIndex(4)

	notified := make(map[Key]bool)
	for _, k := range []Key{KeyLanguage, KeyCategory, KeyCardIndex, KeyColorPalette} {
		key := k
		s.Subscribe(key, func(any, map[Key]any) { notified[key] = true })
	}

	s.Reset()

	assert.Equal(t, flashi.Language(""), s.Language())
	assert.Equal(t, "", s.Category())
	assert.Equal(t, 0, s.CardIndex())
	assert.Equal(t, palette, s.ColorPalette())
	for _, k := range []Key{KeyLanguage, KeyCategory, KeyCardIndex, KeyColorPalette} {
		assert.True(t, notified[k], "slot %s not notified on reset", k)
	}
}

func TestResetForNewLesson(t *testing.T) {
	s := New()
	s.SetDeck([]flashi.Card{{English: "cat"}})
	s.SetCardIndex(1)

	s.ResetForNewLesson()

	assert.Empty(t, s.Deck())
	assert.Zero(t, s.CardIndex())
}
