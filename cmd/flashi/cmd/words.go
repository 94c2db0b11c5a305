package cmd

import (
	"context"
	"fmt"
	"path"

	"github.com/spf13/cobra"

	"github.com/chaichat/flashi/internal/flashi"
	"github.com/chaichat/flashi/internal/lessons"
)

var (
	wordsLang     string
	wordsCategory string
)

var wordsCmd = &cobra.Command{
	Use:   "words",
	Short: "Manage curated word lists",
}

var wordsMergeCmd = &cobra.Command{
	Use:   "merge <word-list.yaml>...",
	Short: "Merge word lists into a category as new lessons",
	Long: `Read curated YAML word lists, drop every word the category already
teaches (compared case-insensitively on the target text), and write
the remainder as new lessons of ten cards each. The manifest is
regenerated afterwards.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWordsMerge,
}

func init() {
	rootCmd.AddCommand(wordsCmd)
	wordsCmd.AddCommand(wordsMergeCmd)

	wordsMergeCmd.Flags().StringVar(&wordsLang, "lang", "english", "target language (english or chinese)")
	wordsMergeCmd.Flags().StringVar(&wordsCategory, "category", "", "category directory to merge into")
	wordsMergeCmd.MarkFlagRequired("category")
}

func runWordsMerge(cmd *cobra.Command, args []string) error {
	log := newLogger()
	lang := flashi.Language(wordsLang)
	if !lang.Valid() {
		return fmt.Errorf("unknown language %q", wordsLang)
	}

	cfg, err := loadUserConfig()
	if err != nil {
		return err
	}
	root := cfg.Data.Dir
	loader := newLoader(cfg, log)

	var incoming []flashi.Card
	for _, arg := range args {
		cards, err := lessons.LoadWordList(arg)
		if err != nil {
			return err
		}
		incoming = append(incoming, cards...)
	}

	m, err := lessons.Generate(root)
	if err != nil {
		return fmt.Errorf("scanning data directory: %w", err)
	}

	// The existing corpus is every card the category already teaches.
	catName := lessons.CategoryDisplayName(wordsCategory)
	cat := m.Category(lang, catName)
	ctx := context.Background()
	var existing []flashi.Card
	if cat != nil {
		for _, ref := range cat.Lessons {
			existing = append(existing, loader.LoadLesson(ctx, ref.File)...)
		}
	}

	merged := lessons.Merge(existing, incoming, lang)
	if len(merged) == 0 {
		fmt.Println("nothing new to merge")
		return nil
	}

	next := lessons.NextLessonNumber(cat)
	for i, chunk := range lessons.Chunk(merged, lessons.ChunkSize) {
		file := path.Join(string(lang), wordsCategory, fmt.Sprintf("lesson%d.json", next+i))
		if err := lessons.WriteLesson(root, file, chunk); err != nil {
			return err
		}
		log.Info("wrote lesson", "file", file, "cards", len(chunk))
	}

	regenerated, err := lessons.Generate(root)
	if err != nil {
		return fmt.Errorf("regenerating manifest: %w", err)
	}
	if err := lessons.WriteManifest(root, regenerated); err != nil {
		return err
	}

	fmt.Printf("merged %d new cards\n", len(merged))
	return nil
}
