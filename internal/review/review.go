// Package review builds aggregated review lessons from blocks of prior
// lessons. This is a data-build concern: review decks are generated by the
// CLI and consumed at runtime like any other lesson file.
package review

import (
	"fmt"
	"math/rand/v2"

	"github.com/chaichat/flashi/internal/flashi"
)

const (
	// BlockSize is the number of consecutive lessons one review covers.
	BlockSize = 5
	// MaxCards caps a review deck after shuffling.
	MaxCards = 50
)

// Source is one authored lesson, in category order.
type Source struct {
	Ref   flashi.LessonRef
	Cards []flashi.Card
}

// Deck is a generated review lesson covering lessons First..Last (1-based
// positions among the category's authored lessons).
type Deck struct {
	First int
	Last  int
	Cards []flashi.Card
}

// Name returns the lesson name for the manifest, e.g. "Everyday: Review 1-5".
func (d Deck) Name(category string) string {
	return fmt.Sprintf("%s: Review %d-%d", category, d.First, d.Last)
}

// NameTh returns the Thai display name.
func (d Deck) NameTh() string {
	return fmt.Sprintf("ทบทวน: บทที่ %d-%d", d.First, d.Last)
}

// Shuffle permutes cards in place with an unbiased Fisher-Yates shuffle.
func Shuffle(rng *rand.Rand, cards []flashi.Card) {
	for i := len(cards) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		cards[i], cards[j] = cards[j], cards[i]
	}
}

// Build aggregates each contiguous block of BlockSize authored (non-review)
// lessons into one shuffled deck, capped at MaxCards. Trailing lessons that
// do not fill a block produce no review.
func Build(sources []Source, rng *rand.Rand) []Deck {
	var authored []Source
	for _, s := range sources {
		if !s.Ref.IsReview {
			authored = append(authored, s)
		}
	}

	var decks []Deck
	for start := 0; start+BlockSize <= len(authored); start += BlockSize {
		var cards []flashi.Card
		for _, s := range authored[start : start+BlockSize] {
			cards = append(cards, s.Cards...)
		}
		Shuffle(rng, cards)
		if len(cards) > MaxCards {
			cards = cards[:MaxCards]
		}
		decks = append(decks, Deck{
			First: start + 1,
			Last:  start + BlockSize,
			Cards: cards,
		})
	}
	return decks
}
