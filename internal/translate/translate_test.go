package translate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chaichat/flashi/internal/flashi"
)

type fakeChat struct {
	mu        sync.Mutex
	calls     int
	inFlight  int
	maxFlight int
	reply     func(prompt string) (string, error)
}

func (f *fakeChat) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.mu.Lock()
	f.calls++
	f.inFlight++
	if f.inFlight > f.maxFlight {
		f.maxFlight = f.inFlight
	}
	f.mu.Unlock()
	defer func() {
		f.mu.Lock()
		f.inFlight--
		f.mu.Unlock()
	}()

	content, err := f.reply(req.Messages[0].Content)
	if err != nil {
		return openai.ChatCompletionResponse{}, err
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: content}},
		},
	}, nil
}

var thaiByPrompt = map[string]string{
	"cat":  "แมว",
	"dog":  "สุนัข",
	"水":    "น้ำ",
	"book": "หนังสือ",
}

func lookupReply(prompt string) (string, error) {
	for key, th := range thaiByPrompt {
		if strings.Contains(prompt, fmt.Sprintf("'%s'", key)) {
			return " " + th + "\n", nil
		}
	}
	return "", errors.New("unknown word")
}

func TestTranslateTrimsResponse(t *testing.T) {
	chat := &fakeChat{reply: lookupReply}
	tr := New(chat, nil)

	th, err := tr.Translate(context.Background(), "cat", flashi.LanguageEnglish)
	require.NoError(t, err)
	assert.Equal(t, "แมว", th)
}

func TestTranslateSourceLanguageInPrompt(t *testing.T) {
	var prompt string
	chat := &fakeChat{reply: func(p string) (string, error) {
		prompt = p
		return "น้ำ", nil
	}}
	tr := New(chat, nil)

	_, err := tr.Translate(context.Background(), "水", flashi.LanguageChinese)
	require.NoError(t, err)
	assert.Contains(t, prompt, "Chinese")
	assert.Contains(t, prompt, "水")
}

func TestFillCardsSkipsTranslated(t *testing.T) {
	chat := &fakeChat{reply: lookupReply}
	tr := New(chat, nil)

	cards := []flashi.Card{
		{English: "cat"},
		{English: "fish", Thai: "ปลา"},
		{English: "dog"},
	}
	n, err := tr.FillCards(context.Background(), cards, flashi.LanguageEnglish)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, "แมว", cards[0].Thai)
	assert.Equal(t, "ปลา", cards[1].Thai, "existing translation untouched")
	assert.Equal(t, "สุนัข", cards[2].Thai)
	assert.Equal(t, 2, chat.calls)
}

func TestFillCardsBoundsConcurrency(t *testing.T) {
	block := make(chan struct{})
	started := make(chan struct{}, 16)
	chat := &fakeChat{reply: func(string) (string, error) {
		started <- struct{}{}
		<-block
		return "แมว", nil
	}}
	tr := New(chat, nil, WithConcurrency(2))

	cards := make([]flashi.Card, 8)
	for i := range cards {
		cards[i].English = "cat"
	}

	done := make(chan error, 1)
	go func() {
		_, err := tr.FillCards(context.Background(), cards, flashi.LanguageEnglish)
		done <- err
	}()

	<-started
	<-started
	close(block)
	require.NoError(t, <-done)

	chat.mu.Lock()
	defer chat.mu.Unlock()
	assert.LessOrEqual(t, chat.maxFlight, 2)
	assert.Equal(t, 8, chat.calls)
}

func TestFillCardsPropagatesError(t *testing.T) {
	chat := &fakeChat{reply: func(string) (string, error) {
		return "", errors.New("rate limited")
	}}
	tr := New(chat, nil)

	cards := []flashi.Card{{English: "cat"}}
	_, err := tr.FillCards(context.Background(), cards, flashi.LanguageEnglish)
	require.Error(t, err)
	assert.Empty(t, cards[0].Thai)
}

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	chat := &fakeChat{reply: func(string) (string, error) {
		return "", errors.New("boom")
	}}
	tr := New(chat, nil)

	for i := 0; i < 5; i++ {
		_, err := tr.Translate(context.Background(), "cat", flashi.LanguageEnglish)
		require.Error(t, err)
	}
	callsBefore := chat.calls

	_, err := tr.Translate(context.Background(), "cat", flashi.LanguageEnglish)
	require.Error(t, err)
	assert.Equal(t, callsBefore, chat.calls, "open circuit short-circuits the API call")
}

func TestNewOpenAIRequiresKey(t *testing.T) {
	_, err := NewOpenAI("  ", nil)
	assert.Error(t, err)

	tr, err := NewOpenAI("sk-test", nil)
	require.NoError(t, err)
	assert.NotNil(t, tr)
}
