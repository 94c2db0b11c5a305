package cmd

import (
	"context"
	"fmt"
	"math/rand/v2"
	"path"

	"github.com/spf13/cobra"

	"github.com/chaichat/flashi/internal/lessons"
	"github.com/chaichat/flashi/internal/review"
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Build review lessons from existing lesson files",
	Long: `Generate one shuffled review deck for every block of five lessons in
each category, written as <category>/review-N-M.json. Existing review
files are rebuilt. The manifest is regenerated afterwards so the new
decks show up.`,
	RunE: runReview,
}

func init() {
	rootCmd.AddCommand(reviewCmd)
}

func runReview(cmd *cobra.Command, args []string) error {
	log := newLogger()
	cfg, err := loadUserConfig()
	if err != nil {
		return err
	}
	root := cfg.Data.Dir
	loader := newLoader(cfg, log)

	m, err := lessons.Generate(root)
	if err != nil {
		return fmt.Errorf("scanning data directory: %w", err)
	}

	ctx := context.Background()
	rng := rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))

	written := 0
	for _, lang := range m.Languages() {
		for _, catName := range m.Categories(lang) {
			refs := m.Lessons(lang, catName)

			var sources []review.Source
			for _, ref := range refs {
				sources = append(sources, review.Source{
					Ref:   ref,
					Cards: loader.LoadLesson(ctx, ref.File),
				})
			}

			var catDir string
			for _, ref := range refs {
				if !ref.IsReview {
					catDir = path.Dir(ref.File)
					break
				}
			}
			if catDir == "" {
				continue
			}

			for _, deck := range review.Build(sources, rng) {
				file := path.Join(catDir, fmt.Sprintf("review-%d-%d.json", deck.First, deck.Last))
				if err := lessons.WriteLesson(root, file, deck.Cards); err != nil {
					return err
				}
				log.Info("wrote review deck", "file", file, "cards", len(deck.Cards))
				written++
			}
		}
	}

	regenerated, err := lessons.Generate(root)
	if err != nil {
		return fmt.Errorf("regenerating manifest: %w", err)
	}
	if err := lessons.WriteManifest(root, regenerated); err != nil {
		return err
	}

	fmt.Printf("wrote %d review decks\n", written)
	return nil
}
