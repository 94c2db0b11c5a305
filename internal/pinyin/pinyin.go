// Package pinyin renders tone-marked pinyin for Chinese card text.
package pinyin

import (
	"strings"
	"unicode"

	gopinyin "github.com/mozillazg/go-pinyin"
)

// Tone is the Mandarin tone number of a syllable. Tone 5 is the neutral tone.
type Tone int

const (
	ToneUnknown Tone = 0
	Tone1       Tone = 1
	Tone2       Tone = 2
	Tone3       Tone = 3
	Tone4       Tone = 4
	Tone5       Tone = 5
)

// Annotator converts Chinese text into tone-marked pinyin.
type Annotator struct {
	args gopinyin.Args
}

// NewAnnotator creates an annotator producing tone marks (zhōng, hǎo).
func NewAnnotator() *Annotator {
	args := gopinyin.NewArgs()
	args.Style = gopinyin.Tone
	return &Annotator{args: args}
}

// Annotate returns the space-joined pinyin for text. Runes without a
// reading (latin letters, punctuation) pass through unchanged and
// attach to the preceding syllable.
func (a *Annotator) Annotate(text string) string {
	var parts []string
	for _, r := range text {
		char := string(r)
		readings := gopinyin.Pinyin(char, a.args)
		if len(readings) == 0 || len(readings[0]) == 0 {
			if unicode.IsSpace(r) {
				continue
			}
			if len(parts) > 0 {
				parts[len(parts)-1] += char
			} else {
				parts = append(parts, char)
			}
			continue
		}
		parts = append(parts, readings[0][0])
	}
	return strings.Join(parts, " ")
}

var toneMarks = map[rune]Tone{
	'ā': Tone1, 'á': Tone2, 'ǎ': Tone3, 'à': Tone4,
	'ē': Tone1, 'é': Tone2, 'ě': Tone3, 'è': Tone4,
	'ī': Tone1, 'í': Tone2, 'ǐ': Tone3, 'ì': Tone4,
	'ō': Tone1, 'ó': Tone2, 'ǒ': Tone3, 'ò': Tone4,
	'ū': Tone1, 'ú': Tone2, 'ǔ': Tone3, 'ù': Tone4,
	'ǖ': Tone1, 'ǘ': Tone2, 'ǚ': Tone3, 'ǜ': Tone4,
}

// SyllableTone reads the tone number off a tone-marked syllable. A
// syllable without a mark is neutral tone.
func SyllableTone(syllable string) Tone {
	if syllable == "" {
		return ToneUnknown
	}
	for _, r := range syllable {
		if tone, ok := toneMarks[r]; ok {
			return tone
		}
	}
	return Tone5
}
