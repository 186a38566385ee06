package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/fragments/internal/platform/tui"
)

var flagDifficulty string

var playCmd = &cobra.Command{
	Use:   "play <game>",
	Short: "Play a game",
	Long: `Start a session of the specified game.

Controls:
  catch     1-9 tap the numbered sphere, Space taps the oldest, or click
  sequence  1-9 tap the points in order, R resets the path, or click
  dodge     Left/Right (A/D) step aside, or click a screen half
  Enter     Play again (after the session ends)
  Esc/Q     Quit

Difficulty options:
  easy, medium, hard

Examples:
  fragments play catch
  fragments play sequence --difficulty hard
  fragments play dodge --seed 42`,
	Args: cobra.ExactArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVarP(&flagDifficulty, "difficulty", "d", "easy", "Difficulty: easy, medium, hard")
}

func runPlay(_ *cobra.Command, args []string) error {
	gameID := args[0]
	if err := checkGame(gameID); err != nil {
		return err
	}
	tier, err := parseDifficulty(flagDifficulty)
	if err != nil {
		return err
	}

	logger := newLogger(true)
	env, b, err := newEnv(logger)
	if err != nil {
		return err
	}
	defer b.Close()

	width, height := terminalSize()
	ev, err := tui.Play(env, gameID, tier, width, height)
	if err != nil {
		return fmt.Errorf("running game: %w", err)
	}

	if ev != nil {
		fmt.Printf("Score %d, earned %d fragments.\n", ev.Score, ev.Fragments)
	}
	if p, loadErr := b.store.Load(); loadErr == nil {
		fmt.Printf("Total: %d fragments over %d games.\n", p.TotalFragments, p.TotalGamesPlayed)
	}
	return nil
}
