package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/chaichat/flashi/internal/flashi"
	"github.com/chaichat/flashi/internal/lessons"
	"github.com/chaichat/flashi/internal/translate"
)

var translateModel string

var translateCmd = &cobra.Command{
	Use:   "translate",
	Short: "Fill in missing Thai translations via the OpenAI API",
	Long: `Scan every lesson file for cards without a Thai translation and fill
them in with the OpenAI chat API. Requires FLASHI_OPENAI_API_KEY.

Files already fully translated are left untouched.`,
	RunE: runTranslate,
}

func init() {
	rootCmd.AddCommand(translateCmd)
	translateCmd.Flags().StringVar(&translateModel, "model", "", "chat model to use")
}

func runTranslate(cmd *cobra.Command, args []string) error {
	log := newLogger()
	cfg, err := loadUserConfig()
	if err != nil {
		return err
	}
	root := cfg.Data.Dir
	loader := newLoader(cfg, log)

	var opts []translate.Option
	if translateModel != "" {
		opts = append(opts, translate.WithModel(translateModel))
	}
	tr, err := translate.NewOpenAI(viper.GetString("openai_api_key"), log, opts...)
	if err != nil {
		return fmt.Errorf("set FLASHI_OPENAI_API_KEY to use translate: %w", err)
	}

	m, err := lessons.Generate(root)
	if err != nil {
		return fmt.Errorf("scanning data directory: %w", err)
	}

	ctx := context.Background()
	total := 0
	for _, lang := range m.Languages() {
		for _, catName := range m.Categories(lang) {
			for _, ref := range m.Lessons(lang, catName) {
				cards := loader.LoadLesson(ctx, ref.File)
				if len(cards) == 0 {
					continue
				}
				// FillCards mutates in place, so work on a copy.
				deck := append([]flashi.Card(nil), cards...)
				n, err := tr.FillCards(ctx, deck, lang)
				if err != nil {
					return fmt.Errorf("translating %s: %w", ref.File, err)
				}
				if n == 0 {
					continue
				}
				if err := lessons.WriteLesson(root, ref.File, deck); err != nil {
					return err
				}
				log.Info("translated cards", "file", ref.File, "count", n)
				total += n
			}
		}
	}

	fmt.Printf("translated %d cards\n", total)
	return nil
}
