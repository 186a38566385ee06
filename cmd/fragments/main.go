// fragments is a terminal collection of short reflex games that reward every
// finished session with fragments.
//
// Usage:
//
//	fragments list              - List available games
//	fragments play <game>       - Play a game
//	fragments menu              - Pick games interactively
//	fragments sim <game>        - Run headless sessions with a scripted player
//	fragments stats [game]      - Show progress and best sessions
//	fragments reset             - Reset fragment progress
//	fragments serve             - Start SSH server for remote play
//
// Global flags:
//
//	--fps <rate>        - Set tick rate (default: 60)
//	--seed <value>      - Set RNG seed for reproducible sessions
//	--db <path>         - Set database path (default: ~/.fragments/fragments.db)
//	--backend <name>    - Progress backend: sqlite, gdata or memory
//	--tuning <path>     - Difficulty tuning YAML file
//	--verbose           - Enable debug logging
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Import games to register them
	_ "github.com/vovakirdan/fragments/internal/games/catch"
	_ "github.com/vovakirdan/fragments/internal/games/dodge"
	_ "github.com/vovakirdan/fragments/internal/games/sequence"
)

var (
	// Global flags
	flagFPS     int
	flagSeed    int64
	flagDBPath  string
	flagBackend string
	flagTuning  string
	flagVerbose bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "fragments",
	Short: "Fragments - quick reflex games in your terminal",
	Long: `Fragments is a small collection of reflex games. Every finished
session earns 1 to 3 fragments that add up across sessions.

Available commands:
  list     - Show all available games
  play     - Play a specific game directly
  menu     - Interactive game picker menu
  sim      - Run headless sessions with a scripted player
  stats    - Show progress and best sessions
  reset    - Reset fragment progress
  serve    - Start SSH server for remote play

Examples:
  fragments list
  fragments play catch --difficulty hard
  fragments menu
  fragments sim dodge --runs 10 --skill 0.5
  fragments serve --ssh :2222`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.fragments/fragments.db", "Path to the SQLite database")
	rootCmd.PersistentFlags().StringVar(&flagBackend, "backend", backendSQLite, "Progress backend: sqlite, gdata or memory")
	rootCmd.PersistentFlags().StringVar(&flagTuning, "tuning", "", "Path to a difficulty tuning YAML file")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(simCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(serveCmd)
}
