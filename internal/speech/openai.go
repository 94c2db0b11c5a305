package speech

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIConfig holds settings for the OpenAI TTS engine.
type OpenAIConfig struct {
	APIKey string
	Model  string  // e.g. "tts-1"
	Voice  string  // e.g. "alloy"; used when no preferred voice matches
	Speed  float64 // 0.25 to 4.0
}

// DefaultOpenAIConfig returns settings tuned for vocabulary playback.
func DefaultOpenAIConfig(apiKey string) OpenAIConfig {
	return OpenAIConfig{
		APIKey: apiKey,
		Model:  string(openai.TTSModel1),
		Voice:  string(openai.VoiceAlloy),
		Speed:  0.9,
	}
}

// OpenAI synthesizes speech through the OpenAI audio API and plays it with
// the first local player found. Its voices are multilingual, so they carry
// no language tag; selection falls through to the configured default unless
// the user names one in their preferences.
type OpenAI struct {
	client *openai.Client
	cfg    OpenAIConfig
	player string
}

// NewOpenAI creates the engine, locating a local audio player up front.
func NewOpenAI(cfg OpenAIConfig) (*OpenAI, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	player, err := findPlayer()
	if err != nil {
		return nil, err
	}
	return &OpenAI{
		client: openai.NewClient(cfg.APIKey),
		cfg:    cfg,
		player: player,
	}, nil
}

func findPlayer() (string, error) {
	for _, candidate := range []string{"afplay", "mpv", "ffplay", "mpg123"} {
		if path, err := exec.LookPath(candidate); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("no audio player found (tried afplay, mpv, ffplay, mpg123)")
}

func (o *OpenAI) Name() string { return "openai" }

// Voices lists the fixed OpenAI voice set.
func (o *OpenAI) Voices(context.Context) ([]Voice, error) {
	names := []openai.SpeechVoice{
		openai.VoiceAlloy, openai.VoiceEcho, openai.VoiceFable,
		openai.VoiceOnyx, openai.VoiceNova, openai.VoiceShimmer,
	}
	voices := make([]Voice, len(names))
	for i, n := range names {
		voices[i] = Voice{Name: string(n)}
	}
	return voices, nil
}

// Speak synthesizes text to a temp file and plays it. Cancelling ctx aborts
// either phase.
func (o *OpenAI) Speak(ctx context.Context, text string, voice *Voice, langTag string) error {
	voiceName := o.cfg.Voice
	if voice != nil {
		voiceName = voice.Name
	}

	resp, err := o.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(o.cfg.Model),
		Input:          text,
		Voice:          openai.SpeechVoice(voiceName),
		Speed:          o.cfg.Speed,
		ResponseFormat: openai.SpeechResponseFormatMp3,
	})
	if err != nil {
		return fmt.Errorf("OpenAI TTS: %w", err)
	}
	defer resp.Close()

	tmp, err := os.CreateTemp("", "flashi-tts-*.mp3")
	if err != nil {
		return fmt.Errorf("creating temp audio file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, resp); err != nil {
		tmp.Close()
		return fmt.Errorf("writing audio: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	args := []string{tmp.Name()}
	if filepath.Base(o.player) == "ffplay" {
		args = []string{"-nodisp", "-autoexit", "-loglevel", "quiet", tmp.Name()}
	}
	cmd := exec.CommandContext(ctx, o.player, args...)
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("playing audio: %w", err)
	}
	return nil
}
