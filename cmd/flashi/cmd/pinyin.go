package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chaichat/flashi/internal/flashi"
	"github.com/chaichat/flashi/internal/lessons"
	"github.com/chaichat/flashi/internal/pinyin"
)

var pinyinCmd = &cobra.Command{
	Use:   "pinyin",
	Short: "Fill in missing pinyin hints for Chinese lessons",
	Long: `Scan the Chinese lesson files for cards without a pinyin hint and
derive tone-marked pinyin from the characters.`,
	RunE: runPinyin,
}

func init() {
	rootCmd.AddCommand(pinyinCmd)
}

func runPinyin(cmd *cobra.Command, args []string) error {
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

	annotator := pinyin.NewAnnotator()
	ctx := context.Background()
	total := 0
	for _, catName := range m.Categories(flashi.LanguageChinese) {
		for _, ref := range m.Lessons(flashi.LanguageChinese, catName) {
			cards := loader.LoadLesson(ctx, ref.File)
			if len(cards) == 0 {
				continue
			}
			deck := append([]flashi.Card(nil), cards...)
			filled := 0
			for i, card := range deck {
				if card.Pinyin != "" || card.Chinese == "" {
					continue
				}
				deck[i].Pinyin = annotator.Annotate(card.Chinese)
				filled++
			}
			if filled == 0 {
				continue
			}
			if err := lessons.WriteLesson(root, ref.File, deck); err != nil {
				return err
			}
			log.Info("annotated cards", "file", ref.File, "count", filled)
			total += filled
		}
	}

	fmt.Printf("annotated %d cards\n", total)
	return nil
}
