// Package store holds the app's session state and notifies subscribers on
// change. It replaces ambient globals: the store is constructed once and
// passed to every collaborator.
//
// The store is confined to the UI update loop. Delivery is synchronous and
// re-entrant: a callback may call SetState itself, so callbacks must not
// blindly rewrite the key they are subscribed to with a fresh value each
// time, or the fan-out never terminates.
package store

import (
	"reflect"

	"github.com/chaichat/flashi/internal/flashi"
)

// Key names one state slot.
type Key string

const (
	KeyManifest        Key = "manifest"
	KeyLanguage        Key = "currentLanguage"
	KeyCategory        Key = "currentCategory"
	KeyCategoryLessons Key = "currentCategoryLessons"
	KeyLesson          Key = "currentLesson"
	KeyDeck            Key = "currentDeck"
	KeyCardIndex       Key = "cardIndex"
	KeyLearnMode       Key = "isLearnMode"
	KeyColorPalette    Key = "colorPalette"
)

// Callback receives the new value of the subscribed key plus a snapshot of
// the full state at notification time.
type Callback func(value any, state map[Key]any)

// Store is a keyed reactive state container.
type Store struct {
	slots   map[Key]any
	subs    map[Key]map[int]Callback
	nextSub int
	palette []string
}

// New creates a store with empty session defaults and the card color palette.
func New() *Store {
	s := &Store{
		subs: make(map[Key]map[int]Callback),
		palette: []string{
			"#bfdbfe", "#bbf7d0", "#fef08a",
			"#fecaca", "#e9d5ff", "#fbcfe8", "#c7d2fe",
		},
	}
	s.slots = s.defaults()
	return s
}

func (s *Store) defaults() map[Key]any {
	return map[Key]any{
		KeyManifest:        (*flashi.Manifest)(nil),
		KeyLanguage:        flashi.Language(""),
		KeyCategory:        "",
		KeyCategoryLessons: []flashi.LessonRef(nil),
		KeyLesson:          (*flashi.LessonRef)(nil),
		KeyDeck:            []flashi.Card(nil),
		KeyCardIndex:       0,
		KeyLearnMode:       true,
		KeyColorPalette:    s.palette,
	}
}

// Subscribe registers a callback for one key and returns an unsubscribe
// closure. Unsubscribing twice is harmless.
func (s *Store) Subscribe(key Key, cb Callback) func() {
	if s.subs[key] == nil {
		s.subs[key] = make(map[int]Callback)
	}
	id := s.nextSub
	s.nextSub++
	s.subs[key][id] = cb
	return func() {
		delete(s.subs[key], id)
	}
}

// SetState updates one slot and notifies that key's subscribers, but only
// when the value actually changed.
func (s *Store) SetState(key Key, value any) {
	if reflect.DeepEqual(s.slots[key], value) {
		return
	}
	s.slots[key] = value
	s.notify(key, value)
}

func (s *Store) notify(key Key, value any) {
	subs := s.subs[key]
	if len(subs) == 0 {
		return
	}
	// Snapshot so callbacks can unsubscribe (or subscribe) mid-delivery.
	cbs := make([]Callback, 0, len(subs))
	for _, cb := range subs {
		cbs = append(cbs, cb)
	}
	state := s.Snapshot()
	for _, cb := range cbs {
		cb(value, state)
	}
}

// GetState returns the raw value of one slot.
func (s *Store) GetState(key Key) any {
	return s.slots[key]
}

// Snapshot returns a shallow copy of the full state.
func (s *Store) Snapshot() map[Key]any {
	out := make(map[Key]any, len(s.slots))
	for k, v := range s.slots {
		out[k] = v
	}
	return out
}

// Reset restores every slot to its initial default except the precomputed
// color palette, then notifies all subscribers.
func (s *Store) Reset() {
	s.slots = s.defaults()
	for key, value := range s.slots {
		s.notify(key, value)
	}
}

// Typed accessors.

func (s *Store) Manifest() *flashi.Manifest {
	m, _ := s.slots[KeyManifest].(*flashi.Manifest)
	return m
}

func (s *Store) SetManifest(m *flashi.Manifest) { s.SetState(KeyManifest, m) }

func (s *Store) Language() flashi.Language {
	l, _ := s.slots[KeyLanguage].(flashi.Language)
	return l
}

func (s *Store) SetLanguage(l flashi.Language) { s.SetState(KeyLanguage, l) }

func (s *Store) Category() string {
	c, _ := s.slots[KeyCategory].(string)
	return c
}

func (s *Store) SetCategory(name string) { s.SetState(KeyCategory, name) }

func (s *Store) CategoryLessons() []flashi.LessonRef {
	l, _ := s.slots[KeyCategoryLessons].([]flashi.LessonRef)
	return l
}

func (s *Store) SetCategoryLessons(l []flashi.LessonRef) { s.SetState(KeyCategoryLessons, l) }

func (s *Store) Lesson() *flashi.LessonRef {
	l, _ := s.slots[KeyLesson].(*flashi.LessonRef)
	return l
}

func (s *Store) SetLesson(l *flashi.LessonRef) { s.SetState(KeyLesson, l) }

func (s *Store) Deck() []flashi.Card {
	d, _ := s.slots[KeyDeck].([]flashi.Card)
	return d
}

func (s *Store) SetDeck(d []flashi.Card) { s.SetState(KeyDeck, d) }

func (s *Store) CardIndex() int {
	i, _ := s.slots[KeyCardIndex].(int)
	return i
}

func (s *Store) SetCardIndex(i int) { s.SetState(KeyCardIndex, i) }

func (s *Store) LearnMode() bool {
	b, _ := s.slots[KeyLearnMode].(bool)
	return b
}

func (s *Store) SetLearnMode(learn bool) { s.SetState(KeyLearnMode, learn) }

// ColorPalette returns the card background palette. It survives Reset.
func (s *Store) ColorPalette() []string {
	p, _ := s.slots[KeyColorPalette].([]string)
	return p
}

// Cursor helpers. The invariant 0 <= cardIndex <= len(deck) holds after any
// sequence of calls; cardIndex == len(deck) means the lesson is complete.

// NextCard advances the cursor, or reports false at the last card.
func (s *Store) NextCard() bool {
	if s.CardIndex() < len(s.Deck())-1 {
		s.SetCardIndex(s.CardIndex() + 1)
		return true
	}
	return false
}

// PreviousCard retreats the cursor, or reports false at the first card.
func (s *Store) PreviousCard() bool {
	if s.CardIndex() > 0 {
		s.SetCardIndex(s.CardIndex() - 1)
		return true
	}
	return false
}

// CompleteLesson moves the cursor past the last card.
func (s *Store) CompleteLesson() { s.SetCardIndex(len(s.Deck())) }

// ResetCardIndex rewinds to the first card.
func (s *Store) ResetCardIndex() { s.SetCardIndex(0) }

// IsLastCard reports whether the cursor sits on the final card (or beyond).
func (s *Store) IsLastCard() bool {
	return s.CardIndex() >= len(s.Deck())-1
}

// IsComplete reports whether the cursor has moved past the deck.
func (s *Store) IsComplete() bool {
	return s.CardIndex() >= len(s.Deck())
}

// CurrentCard returns the card under the cursor, or nil when complete or the
// deck is empty.
func (s *Store) CurrentCard() *flashi.Card {
	deck := s.Deck()
	i := s.CardIndex()
	if i < 0 || i >= len(deck) {
		return nil
	}
	card := deck[i]
	return &card
}

// ResetForNewLesson clears the deck and cursor before a lesson loads.
func (s *Store) ResetForNewLesson() {
	s.SetCardIndex(0)
	s.SetDeck(nil)
}
