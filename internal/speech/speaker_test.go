package speech

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type spokenCall struct {
	text  string
	lang  string
	voice *Voice
}

type fakeEngine struct {
	mu     sync.Mutex
	voices []Voice
	spoken []spokenCall
	block  chan struct{} // when set, Speak waits for close or cancellation
}

func (f *fakeEngine) Name() string { return "fake" }

func (f *fakeEngine) Voices(context.Context) ([]Voice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Voice(nil), f.voices...), nil
}

func (f *fakeEngine) setVoices(v []Voice) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.voices = v
}

func (f *fakeEngine) Speak(ctx context.Context, text string, voice *Voice, lang string) error {
	f.mu.Lock()
	f.spoken = append(f.spoken, spokenCall{text: text, lang: lang, voice: voice})
	block := f.block
	f.mu.Unlock()
	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (f *fakeEngine) calls() []spokenCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]spokenCall(nil), f.spoken...)
}

var testVoices = []Voice{
	{Name: "Daniel", Lang: "en-GB"},
	{Name: "Samantha", Lang: "en-US"},
	{Name: "Tingting", Lang: "zh-CN"},
	{Name: "Kanya", Lang: "th-TH"},
	{Name: "Meijia", Lang: "zh-TW"},
}

func TestSelectVoicePriorityLadder(t *testing.T) {
	prefs := DefaultPreferences()

	tests := []struct {
		name    string
		voices  []Voice
		langTag string
		want    string // expected voice name, "" for engine default
	}{
		{"preferred named voice wins", testVoices, "en-US", "Samantha"},
		{"second preferred name when first is missing",
			[]Voice{{Name: "Google US English", Lang: "en-US"}, {Name: "Daniel", Lang: "en-GB"}},
			"en-US", "Google US English"},
		{"exact tag match when no preferred name present",
			[]Voice{{Name: "Daniel", Lang: "en-GB"}, {Name: "Karen", Lang: "en-AU"}},
			"en-AU", "Karen"},
		{"language prefix fallback",
			[]Voice{{Name: "Daniel", Lang: "en-GB"}},
			"en-US", "Daniel"},
		{"no match yields engine default", testVoices, "ja-JP", ""},
		{"chinese preferred voice", testVoices, "zh-CN", "Tingting"},
		{"untagged voice matches by preferred name",
			[]Voice{{Name: "alloy"}, {Name: "Samantha"}},
			"en-US", "Samantha"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SelectVoice(tt.voices, tt.langTag, prefs)
			if tt.want == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Name)
		})
	}
}

func TestSpeakIgnoresBlankText(t *testing.T) {
	eng := &fakeEngine{voices: testVoices}
	s := NewSpeaker(eng, nil, nil)
	s.RefreshVoices(context.Background())

	s.Speak("", "en-US")
	s.Speak("   \t", "en-US")

	time.Sleep(20 * time.Millisecond)
	assert.Empty(t, eng.calls())
}

func TestSpeakUsesSelectedVoice(t *testing.T) {
	eng := &fakeEngine{voices: testVoices}
	s := NewSpeaker(eng, nil, nil)
	s.RefreshVoices(context.Background())

	s.Speak("hello", "en-US")

	require.Eventually(t, func() bool { return len(eng.calls()) == 1 }, time.Second, 5*time.Millisecond)
	call := eng.calls()[0]
	assert.Equal(t, "hello", call.text)
	assert.Equal(t, "en-US", call.lang)
	require.NotNil(t, call.voice)
	assert.Equal(t, "Samantha", call.voice.Name)
}

func TestNewUtteranceCancelsInFlightOne(t *testing.T) {
	eng := &fakeEngine{voices: testVoices, block: make(chan struct{})}
	s := NewSpeaker(eng, nil, nil)
	s.RefreshVoices(context.Background())

	s.Speak("first", "en-US")
	require.Eventually(t, func() bool { return s.IsSpeaking() }, time.Second, time.Millisecond)

	s.Speak("second", "en-US")
	require.Eventually(t, func() bool { return len(eng.calls()) == 2 }, time.Second, time.Millisecond)

	// The first engine call must have been released by cancellation, not by
	// the block channel (which never closes in this test).
	assert.Equal(t, "first", eng.calls()[0].text)
	assert.Equal(t, "second", eng.calls()[1].text)
}

func TestCancelStopsSpeaking(t *testing.T) {
	eng := &fakeEngine{voices: testVoices, block: make(chan struct{})}
	s := NewSpeaker(eng, nil, nil)
	s.RefreshVoices(context.Background())

	s.Speak("hello", "en-US")
	require.Eventually(t, func() bool { return s.IsSpeaking() }, time.Second, time.Millisecond)

	s.Cancel()
	assert.False(t, s.IsSpeaking())
}

func TestSpeakRetriesUntilVoicesLoad(t *testing.T) {
	eng := &fakeEngine{} // no voices yet
	s := NewSpeaker(eng, nil, nil)

	s.Speak("hello", "en-US")
	// Voices arrive while the bounded retry is pending.
	eng.setVoices(testVoices)

	require.Eventually(t, func() bool { return len(eng.calls()) == 1 }, time.Second, 5*time.Millisecond)
	require.NotNil(t, eng.calls()[0].voice)
	assert.Equal(t, "Samantha", eng.calls()[0].voice.Name)
}

func TestSpeakGivesUpAfterBoundedRetries(t *testing.T) {
	eng := &fakeEngine{} // voices never load
	s := NewSpeaker(eng, nil, nil)

	s.Speak("hello", "en-US")

	// Once the retry budget is spent the utterance is still issued, with the
	// engine default voice, rather than dropped.
	require.Eventually(t, func() bool { return len(eng.calls()) == 1 }, 2*time.Second, 10*time.Millisecond)
	assert.Nil(t, eng.calls()[0].voice)
}

func TestStaleRetryDoesNotPreemptNewerUtterance(t *testing.T) {
	eng := &fakeEngine{block: make(chan struct{})} // no voices yet
	s := NewSpeaker(eng, nil, nil)

	// The first request parks in the bounded retry, then voices arrive
	// and a second request goes straight through.
	s.Speak("old", "en-US")
	eng.setVoices(testVoices)
	s.Speak("new", "en-US")
	require.Eventually(t, func() bool { return len(eng.calls()) == 1 }, time.Second, time.Millisecond)

	// Wait out the retry window: the superseded request must stay
	// dropped instead of cancelling the utterance in flight.
	time.Sleep(3 * voiceRetryDelay)
	calls := eng.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "new", calls[0].text)
	assert.True(t, s.IsSpeaking())
}

func TestParseESpeakVoices(t *testing.T) {
	out := []byte(`Pty Language       Age/Gender VoiceName          File                 Other Languages
 5  af              --/M      afrikaans            gmw/af
 5  en-us           --/M      english-us           gmw/en-US
 5  zh              --/M      chinese-mandarin     sit/cmn
bogus line
`)
	voices := parseESpeakVoices(out)
	require.Len(t, voices, 3)
	assert.Equal(t, Voice{Name: "english-us", Lang: "en-us"}, voices[1])
	assert.Equal(t, "zh", voices[2].Lang)
}
