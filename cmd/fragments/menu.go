package main

import (
	"github.com/spf13/cobra"

	"github.com/vovakirdan/fragments/internal/platform/tui"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start with a game picker menu",
	Long: `Start in interactive menu mode.

Use arrow keys or j/k to pick a game, left/right to pick the difficulty and
Enter to play. After a session you return to the menu to play again.

Controls:
  Up/Down/j/k     - Navigate games
  Left/Right/h/l  - Change difficulty
  Enter/Space     - Play
  Tab             - Progress and best sessions
  Q               - Quit

Examples:
  fragments menu
  fragments menu --fps 30
  fragments menu --backend gdata`,
	RunE: runMenu,
}

func init() {
	menuCmd.Flags().StringVarP(&flagDifficulty, "difficulty", "d", "easy", "Preselected difficulty")
}

func runMenu(_ *cobra.Command, _ []string) error {
	tier, err := parseDifficulty(flagDifficulty)
	if err != nil {
		return err
	}

	env, b, err := newEnv(newLogger(true))
	if err != nil {
		return err
	}
	defer b.Close()

	width, height := terminalSize()
	return tui.RunMenu(env, tier, width, height)
}
