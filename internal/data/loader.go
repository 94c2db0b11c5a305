// Package data loads the lesson manifest and individual lesson files.
package data

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/chaichat/flashi/internal/flashi"
)

// Source fetches one named data file, e.g. "manifest.json" or
// "english/everyday/lesson1.json".
type Source interface {
	Fetch(ctx context.Context, name string) ([]byte, error)
}

// DirSource reads data files from a directory on disk.
type DirSource struct {
	Root string
}

func (d DirSource) Fetch(_ context.Context, name string) ([]byte, error) {
	b, err := os.ReadFile(filepath.Join(d.Root, filepath.FromSlash(name)))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	return b, nil
}

// HTTPSource fetches data files from a base URL with plain GETs.
type HTTPSource struct {
	BaseURL string
	Client  *http.Client
}

func (h HTTPSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	client := h.Client
	if client == nil {
		client = http.DefaultClient
	}
	url := strings.TrimRight(h.BaseURL, "/") + "/" + name
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", name, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", name, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: unexpected status %d", name, resp.StatusCode)
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	return b, nil
}

// ManifestLoadError is fatal: the app surfaces it as a full-screen error and
// the user must reload. No automatic retry.
type ManifestLoadError struct {
	Err error
}

func (e *ManifestLoadError) Error() string {
	return fmt.Sprintf("loading lesson manifest: %v", e.Err)
}

func (e *ManifestLoadError) Unwrap() error { return e.Err }

// Loader fetches the manifest once and lesson files on demand, caching
// lesson payloads by file key for the whole session.
type Loader struct {
	src    Source
	log    *slog.Logger
	lesson map[string][]flashi.Card
}

// NewLoader creates a loader over the given source.
func NewLoader(src Source, log *slog.Logger) *Loader {
	if log == nil {
		log = slog.Default()
	}
	return &Loader{
		src:    src,
		log:    log,
		lesson: make(map[string][]flashi.Card),
	}
}

// LoadManifest fetches and parses the manifest. Any failure is wrapped in a
// *ManifestLoadError.
func (l *Loader) LoadManifest(ctx context.Context) (*flashi.Manifest, error) {
	raw, err := l.src.Fetch(ctx, "manifest.json")
	if err != nil {
		return nil, &ManifestLoadError{Err: err}
	}
	var m flashi.Manifest
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, &ManifestLoadError{Err: err}
	}
	return &m, nil
}

// LoadLesson returns the cards of one lesson file, from cache when the file
// was fetched before. Failures degrade soft: the error is logged and an
// empty deck is returned, so the deck view falls through to its completion
// screen instead of blocking navigation.
func (l *Loader) LoadLesson(ctx context.Context, file string) []flashi.Card {
	if cards, ok := l.lesson[file]; ok {
		return cards
	}
	raw, err := l.src.Fetch(ctx, file)
	if err != nil {
		l.log.Warn("lesson load failed", "file", file, "err", err)
		return []flashi.Card{}
	}
	var cards []flashi.Card
	if err := json.Unmarshal(raw, &cards); err != nil {
		l.log.Warn("lesson parse failed", "file", file, "err", err)
		return []flashi.Card{}
	}
	l.lesson[file] = cards
	return cards
}

// ClearCache drops all cached lesson payloads.
func (l *Loader) ClearCache() {
	l.lesson = make(map[string][]flashi.Card)
}
