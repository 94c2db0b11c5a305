// Package translate fills in missing Thai translations on lesson cards
// using the OpenAI chat API.
package translate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"
	"golang.org/x/sync/errgroup"

	"github.com/chaichat/flashi/internal/flashi"
)

const defaultConcurrency = 4

// ChatClient is the slice of the OpenAI client the translator needs.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Translator translates card text into Thai.
type Translator struct {
	client      ChatClient
	model       string
	breaker     *gobreaker.CircuitBreaker
	concurrency int
	log         *slog.Logger
}

// Option configures a Translator.
type Option func(*Translator)

// WithModel overrides the chat model.
func WithModel(model string) Option {
	return func(t *Translator) { t.model = model }
}

// WithConcurrency bounds the number of in-flight API calls.
func WithConcurrency(n int) Option {
	return func(t *Translator) {
		if n > 0 {
			t.concurrency = n
		}
	}
}

// New creates a translator backed by the given chat client. A nil logger
// falls back to slog.Default.
func New(client ChatClient, log *slog.Logger, opts ...Option) *Translator {
	if log == nil {
		log = slog.Default()
	}
	t := &Translator{
		client:      client,
		model:       openai.GPT4oMini,
		concurrency: defaultConcurrency,
		log:         log,
	}
	t.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "openai-translate",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("translation circuit state changed",
				"breaker", name, "from", from.String(), "to", to.String())
		},
	})
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// NewOpenAI creates a translator using the real OpenAI API.
func NewOpenAI(apiKey string, log *slog.Logger, opts ...Option) (*Translator, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("OpenAI API key not set")
	}
	return New(openai.NewClient(apiKey), log, opts...), nil
}

// Translate returns the Thai translation of text. The source language
// names the language of text for the prompt.
func (t *Translator) Translate(ctx context.Context, text string, source flashi.Language) (string, error) {
	result, err := t.breaker.Execute(func() (any, error) {
		req := openai.ChatCompletionRequest{
			Model: t.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role: openai.ChatMessageRoleUser,
					Content: fmt.Sprintf(
						"Translate the %s word or phrase '%s' to Thai. Respond with only the Thai translation, nothing else.",
						sourceName(source), text),
				},
			},
			MaxTokens:   60,
			Temperature: 0.3,
		}
		resp, err := t.client.CreateChatCompletion(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("OpenAI API error: %w", err)
		}
		if len(resp.Choices) == 0 {
			return nil, fmt.Errorf("no translation returned for %q", text)
		}
		return strings.TrimSpace(resp.Choices[0].Message.Content), nil
	})
	if err != nil {
		return "", err
	}
	return result.(string), nil
}

// FillCards translates every card whose Thai field is empty, in place.
// Cards that already carry a translation are left alone. Returns the
// number of cards translated.
func (t *Translator) FillCards(ctx context.Context, cards []flashi.Card, source flashi.Language) (int, error) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(t.concurrency)

	filled := 0
	results := make([]string, len(cards))
	for i, card := range cards {
		if card.Thai != "" {
			continue
		}
		text := card.TargetText(source)
		if text == "" {
			continue
		}
		g.Go(func() error {
			th, err := t.Translate(ctx, text, source)
			if err != nil {
				return fmt.Errorf("translating %q: %w", text, err)
			}
			t.log.Debug("translated card", "text", text, "thai", th)
			results[i] = th
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	for i := range cards {
		if results[i] != "" {
			cards[i].Thai = results[i]
			filled++
		}
	}
	return filled, nil
}

func sourceName(lang flashi.Language) string {
	switch lang {
	case flashi.LanguageChinese:
		return "Chinese"
	default:
		return "English"
	}
}
