package speech

import (
	"bufio"
	"bytes"
	"fmt"
	"os/exec"
	"strings"

	"context"
)

// ESpeakConfig tunes the espeak-ng subprocess.
type ESpeakConfig struct {
	Binary    string // defaults to "espeak-ng"
	Speed     int    // words per minute
	Pitch     int    // 0-99
	Amplitude int    // 0-200
}

// DefaultESpeakConfig returns settings tuned for language learners: a bit
// slower than espeak's default.
func DefaultESpeakConfig() ESpeakConfig {
	return ESpeakConfig{
		Binary:    "espeak-ng",
		Speed:     140,
		Pitch:     50,
		Amplitude: 100,
	}
}

// ESpeak drives the espeak-ng text-to-speech engine through its CLI.
type ESpeak struct {
	cfg ESpeakConfig
}

// NewESpeak verifies espeak-ng is installed and returns the engine.
func NewESpeak(cfg ESpeakConfig) (*ESpeak, error) {
	if cfg.Binary == "" {
		cfg.Binary = "espeak-ng"
	}
	if err := exec.Command(cfg.Binary, "--version").Run(); err != nil {
		return nil, fmt.Errorf("%s is not installed or not in PATH: %w", cfg.Binary, err)
	}
	return &ESpeak{cfg: cfg}, nil
}

func (e *ESpeak) Name() string { return "espeak-ng" }

// Voices parses `espeak-ng --voices` output. Columns:
//
//	Pty Language Age/Gender VoiceName          File          Other Languages
//	 5  en-us          M    english-us         en-us
func (e *ESpeak) Voices(ctx context.Context) ([]Voice, error) {
	out, err := exec.CommandContext(ctx, e.cfg.Binary, "--voices").Output()
	if err != nil {
		return nil, fmt.Errorf("listing espeak voices: %w", err)
	}
	return parseESpeakVoices(out), nil
}

func parseESpeakVoices(out []byte) []Voice {
	var voices []Voice
	sc := bufio.NewScanner(bytes.NewReader(out))
	first := true
	for sc.Scan() {
		if first { // header row
			first = false
			continue
		}
		fields := strings.Fields(sc.Text())
		if len(fields) < 4 {
			continue
		}
		voices = append(voices, Voice{
			Name: fields[3],
			Lang: fields[1],
		})
	}
	return voices
}

// Speak runs espeak-ng, speaking directly to the default audio device.
// Cancelling ctx kills the subprocess, cutting the utterance off.
func (e *ESpeak) Speak(ctx context.Context, text string, voice *Voice, langTag string) error {
	selector := strings.ToLower(langTag)
	if voice != nil {
		selector = voice.Name
	}
	args := []string{
		"-v", selector,
		"-s", fmt.Sprintf("%d", e.cfg.Speed),
		"-p", fmt.Sprintf("%d", e.cfg.Pitch),
		"-a", fmt.Sprintf("%d", e.cfg.Amplitude),
		text,
	}
	cmd := exec.CommandContext(ctx, e.cfg.Binary, args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("espeak-ng failed: %w (output: %s)", err, strings.TrimSpace(string(out)))
	}
	return nil
}
