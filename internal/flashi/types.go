// Package flashi provides the core data model for the Flashi flashcard app.
package flashi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Language identifies a target language a user can study.
type Language string

const (
	LanguageEnglish Language = "english"
	LanguageChinese Language = "chinese"
)

// SpeechTag returns the BCP-47 tag used when speaking this language.
func (l Language) SpeechTag() string {
	if l == LanguageChinese {
		return "zh-CN"
	}
	return "en-US"
}

// Valid reports whether l is a language Flashi knows about.
func (l Language) Valid() bool {
	return l == LanguageEnglish || l == LanguageChinese
}

// Card is one vocabulary entry. The target-language text lives in English or
// Chinese depending on the lesson's language; Thai holds the translation.
// Cards are immutable once loaded.
type Card struct {
	English  string `json:"english,omitempty"`
	Chinese  string `json:"chinese,omitempty"`
	Thai     string `json:"thai"`
	Phonetic string `json:"phonetic,omitempty"`
	Pinyin   string `json:"pinyin,omitempty"`
}

// TargetText returns the text the learner is studying for the given language.
func (c Card) TargetText(lang Language) string {
	if lang == LanguageChinese {
		return c.Chinese
	}
	return c.English
}

// Hint returns the pronunciation hint for the given language, if any.
func (c Card) Hint(lang Language) string {
	if lang == LanguageChinese {
		return c.Pinyin
	}
	return c.Phonetic
}

// LessonRef points at one lazily-loaded lesson file.
type LessonRef struct {
	Name     string `json:"name"`
	NameTh   string `json:"name_th,omitempty"`
	File     string `json:"file"`
	IsReview bool   `json:"isReview"`
}

// DisplayName prefers the Thai display name when present.
func (r LessonRef) DisplayName() string {
	if r.NameTh != "" {
		return r.NameTh
	}
	return r.Name
}

// Category groups the lessons shown on one picker screen.
type Category struct {
	NameTh  string      `json:"name_th,omitempty"`
	Lessons []LessonRef `json:"lessons"`
}

// Manifest is the top-level index: language -> category -> lessons.
// Category order within a language is the display order, so the manifest
// keeps explicit order slices rebuilt from the raw JSON key order.
type Manifest struct {
	byLanguage map[Language]*categoryIndex
	order      []Language
}

type categoryIndex struct {
	byName map[string]*Category
	order  []string
}

// NewManifest returns an empty manifest, used by the build commands.
func NewManifest() *Manifest {
	return &Manifest{byLanguage: make(map[Language]*categoryIndex)}
}

// Add appends a category for a language, preserving insertion order.
// Adding an existing category replaces its contents in place.
func (m *Manifest) Add(lang Language, name string, cat *Category) {
	idx, ok := m.byLanguage[lang]
	if !ok {
		idx = &categoryIndex{byName: make(map[string]*Category)}
		m.byLanguage[lang] = idx
		m.order = append(m.order, lang)
	}
	if _, exists := idx.byName[name]; !exists {
		idx.order = append(idx.order, name)
	}
	idx.byName[name] = cat
}

// Languages returns the languages in manifest order.
func (m *Manifest) Languages() []Language {
	return append([]Language(nil), m.order...)
}

// HasLanguage reports whether the manifest contains lang.
func (m *Manifest) HasLanguage(lang Language) bool {
	_, ok := m.byLanguage[lang]
	return ok
}

// Categories returns the category names for lang in manifest order.
func (m *Manifest) Categories(lang Language) []string {
	idx, ok := m.byLanguage[lang]
	if !ok {
		return nil
	}
	return append([]string(nil), idx.order...)
}

// Category returns the named category for lang, or nil.
func (m *Manifest) Category(lang Language, name string) *Category {
	idx, ok := m.byLanguage[lang]
	if !ok {
		return nil
	}
	return idx.byName[name]
}

// Lessons returns the lesson list for a category in manifest order.
func (m *Manifest) Lessons(lang Language, category string) []LessonRef {
	cat := m.Category(lang, category)
	if cat == nil {
		return nil
	}
	return cat.Lessons
}

// UnmarshalJSON decodes the manifest while recording the key order of both
// the language and category objects.
func (m *Manifest) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := expectDelim(dec, '{'); err != nil {
		return fmt.Errorf("manifest: %w", err)
	}
	m.byLanguage = make(map[Language]*categoryIndex)
	m.order = nil
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("manifest: %w", err)
		}
		lang := Language(tok.(string))
		idx := &categoryIndex{byName: make(map[string]*Category)}
		if err := idx.decode(dec); err != nil {
			return fmt.Errorf("manifest: language %q: %w", lang, err)
		}
		m.byLanguage[lang] = idx
		m.order = append(m.order, lang)
	}
	_, err := dec.Token() // closing brace
	return err
}

func (idx *categoryIndex) decode(dec *json.Decoder) error {
	if err := expectDelim(dec, '{'); err != nil {
		return err
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name := tok.(string)
		var cat Category
		if err := dec.Decode(&cat); err != nil {
			return fmt.Errorf("category %q: %w", name, err)
		}
		idx.byName[name] = &cat
		idx.order = append(idx.order, name)
	}
	_, err := dec.Token()
	return err
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}

// MarshalJSON writes the manifest with languages and categories in their
// stored order.
func (m *Manifest) MarshalJSON() ([]byte, error) {
	var b strings.Builder
	b.WriteByte('{')
	for i, lang := range m.order {
		if i > 0 {
			b.WriteByte(',')
		}
		key, _ := json.Marshal(string(lang))
		b.Write(key)
		b.WriteByte(':')
		idx := m.byLanguage[lang]
		b.WriteByte('{')
		for j, name := range idx.order {
			if j > 0 {
				b.WriteByte(',')
			}
			catKey, _ := json.Marshal(name)
			b.Write(catKey)
			b.WriteByte(':')
			catVal, err := json.Marshal(idx.byName[name])
			if err != nil {
				return nil, err
			}
			b.Write(catVal)
		}
		b.WriteByte('}')
	}
	b.WriteByte('}')
	return []byte(b.String()), nil
}
