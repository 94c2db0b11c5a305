// Package speech converts card text into audible utterances through a
// pluggable text-to-speech engine.
package speech

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"
)

const (
	// voiceRetryCount bounds the retries when Speak runs before the voice
	// list has loaded.
	voiceRetryCount = 3
	voiceRetryDelay = 100 * time.Millisecond
)

// Voice is one voice the engine can synthesize with.
type Voice struct {
	Name string
	Lang string // BCP-47-ish tag, e.g. "en-US"; may be empty for
	// engines whose voices are not language-bound
}

// Engine is the platform text-to-speech boundary.
type Engine interface {
	// Voices lists the currently available voices.
	Voices(ctx context.Context) ([]Voice, error)
	// Speak synthesizes text, blocking until playback finishes or ctx is
	// cancelled. A nil voice means the engine default.
	Speak(ctx context.Context, text string, voice *Voice, langTag string) error
	// Name identifies the engine for logs.
	Name() string
}

// Preferences maps a language prefix ("en", "zh") to voice names tried in
// order before falling back to tag matching.
type Preferences map[string][]string

// DefaultPreferences returns the known high-quality voices per language.
func DefaultPreferences() Preferences {
	return Preferences{
		"en": {"Samantha", "Google US English"},
		"zh": {"Tingting", "Ting-Ting"},
	}
}

// SelectVoice walks the priority ladder: preferred named voices, exact tag
// match, then language-prefix match. It returns nil when nothing matches
// (callers fall back to the engine default).
func SelectVoice(voices []Voice, langTag string, prefs Preferences) *Voice {
	prefix := langPrefix(langTag)

	for _, name := range prefs[prefix] {
		for i, v := range voices {
			if strings.EqualFold(v.Name, name) &&
				(v.Lang == "" || strings.EqualFold(langPrefix(v.Lang), prefix)) {
				return &voices[i]
			}
		}
	}
	for i, v := range voices {
		if strings.EqualFold(v.Lang, langTag) {
			return &voices[i]
		}
	}
	for i, v := range voices {
		if strings.EqualFold(langPrefix(v.Lang), prefix) {
			return &voices[i]
		}
	}
	return nil
}

func langPrefix(tag string) string {
	if i := strings.IndexAny(tag, "-_"); i > 0 {
		return tag[:i]
	}
	return tag
}

// Speaker serializes utterances over one engine: at most one utterance is in
// flight, and a new request cancels the previous one (last request wins).
type Speaker struct {
	engine Engine
	prefs  Preferences
	log    *slog.Logger

	mu       sync.Mutex
	voices   []Voice
	cancel   context.CancelFunc
	speaking bool
	gen      int
}

// NewSpeaker creates a speaker. Call RefreshVoices once at startup and again
// whenever the engine signals its voice list changed.
func NewSpeaker(engine Engine, prefs Preferences, log *slog.Logger) *Speaker {
	if prefs == nil {
		prefs = DefaultPreferences()
	}
	if log == nil {
		log = slog.Default()
	}
	return &Speaker{engine: engine, prefs: prefs, log: log}
}

// RefreshVoices reloads the cached voice list from the engine.
func (s *Speaker) RefreshVoices(ctx context.Context) {
	voices, err := s.engine.Voices(ctx)
	if err != nil {
		s.log.Warn("listing voices failed", "engine", s.engine.Name(), "err", err)
		return
	}
	s.mu.Lock()
	s.voices = voices
	s.mu.Unlock()
}

// Voices returns the cached voice list.
func (s *Speaker) Voices() []Voice {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Voice(nil), s.voices...)
}

// Speak utters text in the given language. Empty or whitespace-only text is
// a no-op. If the voice list has not loaded yet, the request is retried a
// bounded number of times instead of being dropped. Errors are logged and
// swallowed; the user retries by tapping again.
func (s *Speaker) Speak(text, langTag string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.mu.Unlock()
	s.speak(text, langTag, gen, voiceRetryCount)
}

func (s *Speaker) speak(text, langTag string, gen, retriesLeft int) {
	s.mu.Lock()
	if gen != s.gen {
		// A newer request arrived while this one waited for the voice
		// list; the newer one wins.
		s.mu.Unlock()
		return
	}
	voices := s.voices
	s.mu.Unlock()

	s.cancelInFlight()

	if len(voices) == 0 && retriesLeft > 0 {
		time.AfterFunc(voiceRetryDelay, func() {
			s.RefreshVoices(context.Background())
			s.speak(text, langTag, gen, retriesLeft-1)
		})
		return
	}

	voice := SelectVoice(voices, langTag, s.prefs)
	if voice == nil {
		s.log.Warn("no voice matched, using engine default", "lang", langTag, "engine", s.engine.Name())
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		cancel()
		return
	}
	s.cancel = cancel
	s.speaking = true
	s.mu.Unlock()

	go func() {
		err := s.engine.Speak(ctx, text, voice, langTag)
		if err != nil && !errors.Is(err, context.Canceled) {
			s.log.Warn("speech failed", "engine", s.engine.Name(), "err", err)
		}
		s.mu.Lock()
		if s.gen == gen {
			s.speaking = false
			s.cancel = nil
		}
		s.mu.Unlock()
	}()
}

func (s *Speaker) cancelInFlight() {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.speaking = false
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// IsSpeaking reports whether an utterance is in flight.
func (s *Speaker) IsSpeaking() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.speaking
}

// Cancel pre-empts any in-flight utterance.
func (s *Speaker) Cancel() {
	s.cancelInFlight()
}
