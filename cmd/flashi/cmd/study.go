package cmd

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/chaichat/flashi/internal/store"
	"github.com/chaichat/flashi/internal/tui"
)

var studyCmd = &cobra.Command{
	Use:   "study",
	Short: "Launch the flashcard study TUI",
	Long: `Open the interactive study interface: pick a language, a category
and a lesson, then work through the deck.

Learn mode shows the answer and speaks each card; test mode hides the
answer until you reveal it. Swipe cards with the mouse or use the
arrow keys.`,
	RunE: runStudy,
}

func init() {
	rootCmd.AddCommand(studyCmd)
}

func runStudy(cmd *cobra.Command, args []string) error {
	log := newLogger()

	cfg, err := loadUserConfig()
	if err != nil {
		return err
	}

	speaker, err := newSpeaker(cfg, log)
	if err != nil {
		return err
	}
	speaker.RefreshVoices(context.Background())

	progress, err := openProgress()
	if err != nil {
		return fmt.Errorf("opening progress database: %w", err)
	}
	defer progress.Close()

	app := tui.NewApp(store.New(), newLoader(cfg, log), speaker, progress)
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}
