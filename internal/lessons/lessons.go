// Package lessons builds the lesson data tree: manifest regeneration
// from the files on disk and merging curated word lists into new
// lesson files.
package lessons

import (
	"encoding/json"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/chaichat/flashi/internal/flashi"
)

// ChunkSize is how many cards go into each generated lesson.
const ChunkSize = 10

var (
	lessonFilePattern = regexp.MustCompile(`^lesson(\d+)\.json$`)
	reviewFilePattern = regexp.MustCompile(`^review-(\d+)-(\d+)\.json$`)
)

// categoryMeta is the optional _category.yaml sitting inside a category
// directory, carrying names the directory name cannot express.
type categoryMeta struct {
	NameTh string `yaml:"name_th"`
}

// Generate walks root (data/<language>/<category>/*.json) and builds a
// fresh manifest in directory order.
func Generate(root string) (*flashi.Manifest, error) {
	m := flashi.NewManifest()

	langDirs, err := sortedSubdirs(root)
	if err != nil {
		return nil, fmt.Errorf("reading data directory: %w", err)
	}
	for _, langDir := range langDirs {
		lang := flashi.Language(langDir)
		if !lang.Valid() {
			continue
		}
		catDirs, err := sortedSubdirs(filepath.Join(root, langDir))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", langDir, err)
		}
		for _, catDir := range catDirs {
			cat, err := buildCategory(root, langDir, catDir)
			if err != nil {
				return nil, err
			}
			if len(cat.Lessons) > 0 {
				m.Add(lang, humanize(catDir), cat)
			}
		}
	}
	return m, nil
}

func buildCategory(root, langDir, catDir string) (*flashi.Category, error) {
	dir := filepath.Join(root, langDir, catDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading %s/%s: %w", langDir, catDir, err)
	}

	cat := &flashi.Category{}
	if meta, err := os.ReadFile(filepath.Join(dir, "_category.yaml")); err == nil {
		var cm categoryMeta
		if err := yaml.Unmarshal(meta, &cm); err != nil {
			return nil, fmt.Errorf("parsing %s/%s/_category.yaml: %w", langDir, catDir, err)
		}
		cat.NameTh = cm.NameTh
	}

	var regular, reviews []flashi.LessonRef
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		ref := lessonRef(langDir, catDir, e.Name())
		if ref.IsReview {
			reviews = append(reviews, ref)
		} else {
			regular = append(regular, ref)
		}
	}
	sortLessons(regular)
	sortLessons(reviews)
	cat.Lessons = append(regular, reviews...)
	return cat, nil
}

func lessonRef(langDir, catDir, file string) flashi.LessonRef {
	ref := flashi.LessonRef{File: path.Join(langDir, catDir, file)}
	if m := reviewFilePattern.FindStringSubmatch(file); m != nil {
		ref.IsReview = true
		ref.Name = fmt.Sprintf("Review %s-%s", m[1], m[2])
		ref.NameTh = fmt.Sprintf("ทบทวน: บทที่ %s-%s", m[1], m[2])
		return ref
	}
	if m := lessonFilePattern.FindStringSubmatch(file); m != nil {
		ref.Name = "Lesson " + m[1]
		ref.NameTh = "บทที่ " + m[1]
		return ref
	}
	ref.Name = humanize(strings.TrimSuffix(file, ".json"))
	return ref
}

// sortLessons orders refs numerically where the file names carry a
// number, so lesson10 follows lesson9 rather than lesson1.
func sortLessons(refs []flashi.LessonRef) {
	sort.SliceStable(refs, func(i, j int) bool {
		ni, iok := lessonNumber(refs[i].File)
		nj, jok := lessonNumber(refs[j].File)
		if iok && jok {
			return ni < nj
		}
		return refs[i].File < refs[j].File
	})
}

func lessonNumber(file string) (int, bool) {
	base := path.Base(file)
	var n int
	if m := lessonFilePattern.FindStringSubmatch(base); m != nil {
		fmt.Sscanf(m[1], "%d", &n)
		return n, true
	}
	if m := reviewFilePattern.FindStringSubmatch(base); m != nil {
		fmt.Sscanf(m[1], "%d", &n)
		return n, true
	}
	return 0, false
}

// CategoryDisplayName maps a category directory slug to the display
// name the manifest uses for it.
func CategoryDisplayName(slug string) string {
	return humanize(slug)
}

// humanize turns a directory or file slug into a display name:
// "everyday-life" becomes "Everyday Life".
func humanize(slug string) string {
	words := strings.FieldsFunc(slug, func(r rune) bool {
		return r == '-' || r == '_'
	})
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

// WriteManifest writes the manifest to root/manifest.json.
func WriteManifest(root string, m *flashi.Manifest) error {
	out, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}
	out = append(out, '\n')
	if err := os.WriteFile(filepath.Join(root, "manifest.json"), out, 0o644); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	return nil
}

// WriteLesson writes cards to root/file, creating directories as needed.
// The file path uses forward slashes, as stored in the manifest.
func WriteLesson(root, file string, cards []flashi.Card) error {
	full := filepath.Join(root, filepath.FromSlash(file))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("creating lesson directory: %w", err)
	}
	out, err := json.MarshalIndent(cards, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling lesson %s: %w", file, err)
	}
	out = append(out, '\n')
	if err := os.WriteFile(full, out, 0o644); err != nil {
		return fmt.Errorf("writing lesson %s: %w", file, err)
	}
	return nil
}

func sortedSubdirs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}
