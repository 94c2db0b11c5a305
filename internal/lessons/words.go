package lessons

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/chaichat/flashi/internal/flashi"
)

// wordEntry is one item in a curated word-list YAML file.
type wordEntry struct {
	English  string `yaml:"english,omitempty"`
	Chinese  string `yaml:"chinese,omitempty"`
	Thai     string `yaml:"thai,omitempty"`
	Phonetic string `yaml:"phonetic,omitempty"`
	Pinyin   string `yaml:"pinyin,omitempty"`
}

// LoadWordList reads a YAML word list into cards.
func LoadWordList(path string) ([]flashi.Card, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading word list: %w", err)
	}
	var entries []wordEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing word list %s: %w", path, err)
	}
	cards := make([]flashi.Card, len(entries))
	for i, e := range entries {
		cards[i] = flashi.Card{
			English:  e.English,
			Chinese:  e.Chinese,
			Thai:     e.Thai,
			Phonetic: e.Phonetic,
			Pinyin:   e.Pinyin,
		}
	}
	return cards, nil
}

// Merge returns the incoming cards that are new with respect to the
// existing corpus, comparing target text case-insensitively. Duplicates
// within the incoming list itself are also dropped, first one wins.
func Merge(existing, incoming []flashi.Card, lang flashi.Language) []flashi.Card {
	seen := make(map[string]bool, len(existing))
	for _, c := range existing {
		seen[mergeKey(c, lang)] = true
	}

	var merged []flashi.Card
	for _, c := range incoming {
		key := mergeKey(c, lang)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		merged = append(merged, c)
	}
	return merged
}

func mergeKey(c flashi.Card, lang flashi.Language) string {
	return strings.ToLower(strings.TrimSpace(c.TargetText(lang)))
}

// Chunk splits cards into lessons of at most size cards each.
func Chunk(cards []flashi.Card, size int) [][]flashi.Card {
	if size <= 0 || len(cards) == 0 {
		return nil
	}
	var chunks [][]flashi.Card
	for start := 0; start < len(cards); start += size {
		end := min(start+size, len(cards))
		chunks = append(chunks, cards[start:end:end])
	}
	return chunks
}

// NextLessonNumber returns one past the highest numbered lesson file in
// the category, starting at 1 for an empty category.
func NextLessonNumber(cat *flashi.Category) int {
	next := 1
	if cat == nil {
		return next
	}
	for _, ref := range cat.Lessons {
		if ref.IsReview {
			continue
		}
		if n, ok := lessonNumber(ref.File); ok && n >= next {
			next = n + 1
		}
	}
	return next
}
