package lessons

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chaichat/flashi/internal/flashi"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func seedDataDir(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "english", "everyday", "lesson1.json"), "[]")
	writeFile(t, filepath.Join(root, "english", "everyday", "lesson2.json"), "[]")
	writeFile(t, filepath.Join(root, "english", "everyday", "lesson10.json"), "[]")
	writeFile(t, filepath.Join(root, "english", "everyday", "review-1-5.json"), "[]")
	writeFile(t, filepath.Join(root, "english", "everyday", "_category.yaml"), "name_th: ชีวิตประจำวัน\n")
	writeFile(t, filepath.Join(root, "english", "food-and-drink", "lesson1.json"), "[]")
	writeFile(t, filepath.Join(root, "chinese", "everyday", "lesson1.json"), "[]")
	writeFile(t, filepath.Join(root, "notes", "readme.txt"), "ignored")
	return root
}

func TestGenerate(t *testing.T) {
	root := seedDataDir(t)

	m, err := Generate(root)
	require.NoError(t, err)

	assert.Equal(t, []flashi.Language{flashi.LanguageChinese, flashi.LanguageEnglish}, m.Languages())
	assert.Equal(t, []string{"Everyday", "Food And Drink"}, m.Categories(flashi.LanguageEnglish))

	cat := m.Category(flashi.LanguageEnglish, "Everyday")
	require.NotNil(t, cat)
	assert.Equal(t, "ชีวิตประจำวัน", cat.NameTh)

	files := make([]string, len(cat.Lessons))
	for i, ref := range cat.Lessons {
		files[i] = ref.File
	}
	assert.Equal(t, []string{
		"english/everyday/lesson1.json",
		"english/everyday/lesson2.json",
		"english/everyday/lesson10.json",
		"english/everyday/review-1-5.json",
	}, files, "numeric ordering, reviews after regular lessons")

	review := cat.Lessons[3]
	assert.True(t, review.IsReview)
	assert.Equal(t, "Review 1-5", review.Name)
	assert.Equal(t, "ทบทวน: บทที่ 1-5", review.NameTh)

	lesson := cat.Lessons[0]
	assert.False(t, lesson.IsReview)
	assert.Equal(t, "Lesson 1", lesson.Name)
	assert.Equal(t, "บทที่ 1", lesson.NameTh)
}

func TestGenerateSkipsUnknownLanguageDirs(t *testing.T) {
	root := seedDataDir(t)

	m, err := Generate(root)
	require.NoError(t, err)
	assert.False(t, m.HasLanguage(flashi.Language("notes")))
}

func TestWriteManifestRoundTrip(t *testing.T) {
	root := seedDataDir(t)
	m, err := Generate(root)
	require.NoError(t, err)

	require.NoError(t, WriteManifest(root, m))

	data, err := os.ReadFile(filepath.Join(root, "manifest.json"))
	require.NoError(t, err)

	decoded := flashi.NewManifest()
	require.NoError(t, json.Unmarshal(data, decoded))
	assert.Equal(t, m.Languages(), decoded.Languages())
	assert.Equal(t, m.Categories(flashi.LanguageEnglish), decoded.Categories(flashi.LanguageEnglish))
	assert.Equal(t, m.Lessons(flashi.LanguageEnglish, "Everyday"), decoded.Lessons(flashi.LanguageEnglish, "Everyday"))
}

func TestWriteLesson(t *testing.T) {
	root := t.TempDir()
	cards := []flashi.Card{{English: "cat", Thai: "แมว", Phonetic: "kat"}}

	require.NoError(t, WriteLesson(root, "english/animals/lesson1.json", cards))

	data, err := os.ReadFile(filepath.Join(root, "english", "animals", "lesson1.json"))
	require.NoError(t, err)
	var got []flashi.Card
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, cards, got)
}

func TestHumanize(t *testing.T) {
	assert.Equal(t, "Everyday", humanize("everyday"))
	assert.Equal(t, "Food And Drink", humanize("food-and-drink"))
	assert.Equal(t, "Body Parts", humanize("body_parts"))
}

func TestHumanizeKeepsMultibyteSlugsIntact(t *testing.T) {
	// Thai has no letter case; the first rune must pass through
	// undamaged rather than being upcased byte by byte.
	assert.Equal(t, "อาหาร", humanize("อาหาร"))
	assert.Equal(t, "Éclair Du Jour", humanize("éclair-du-jour"))
}
