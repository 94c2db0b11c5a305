package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chaichat/flashi/internal/lessons"
)

var manifestCmd = &cobra.Command{
	Use:   "manifest",
	Short: "Regenerate manifest.json from the data directory",
	Long: `Walk the data directory (data/<language>/<category>/*.json) and
rebuild manifest.json from what is actually on disk.

Lesson files named lessonN.json get numbered display names, files
named review-N-M.json are marked as review lessons, and an optional
_category.yaml inside a category directory supplies its Thai name.`,
	RunE: runManifest,
}

func init() {
	rootCmd.AddCommand(manifestCmd)
}

func runManifest(cmd *cobra.Command, args []string) error {
	cfg, err := loadUserConfig()
	if err != nil {
		return err
	}
	root := cfg.Data.Dir

	m, err := lessons.Generate(root)
	if err != nil {
		return fmt.Errorf("generating manifest: %w", err)
	}
	if err := lessons.WriteManifest(root, m); err != nil {
		return err
	}

	for _, lang := range m.Languages() {
		fmt.Printf("%s: %d categories\n", lang, len(m.Categories(lang)))
	}
	return nil
}
