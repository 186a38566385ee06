package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/fragments/internal/platform/tui"
	"github.com/vovakirdan/fragments/internal/registry"
)

var flagStatsTUI bool

var statsCmd = &cobra.Command{
	Use:   "stats [game]",
	Short: "Show progress and best sessions",
	Long: `Display total fragments and games played. With the sqlite backend
also shows per-game statistics, or the top 10 sessions of one game.

Examples:
  fragments stats
  fragments stats catch
  fragments stats --tui`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStats,
}

func init() {
	statsCmd.Flags().BoolVar(&flagStatsTUI, "tui", false, "Browse progress and best sessions interactively")
}

func runStats(_ *cobra.Command, args []string) error {
	if len(args) == 1 {
		if err := checkGame(args[0]); err != nil {
			return err
		}
	}

	if flagStatsTUI {
		env, b, err := newEnv(newLogger(true))
		if err != nil {
			return err
		}
		defer b.Close()
		width, height := terminalSize()
		_, err = tui.RunScoreboard(env, width, height)
		return err
	}

	b, err := openStore()
	if err != nil {
		return err
	}
	defer b.Close()

	p, err := b.store.Load()
	if err != nil {
		return err
	}
	fmt.Printf("Fragments:    %d\n", p.TotalFragments)
	fmt.Printf("Games played: %d\n", p.TotalGamesPlayed)
	fmt.Println()

	if b.history == nil {
		fmt.Printf("Session history is not kept by the %s backend.\n", flagBackend)
		return nil
	}

	if len(args) == 1 {
		return printTopScores(b, args[0])
	}
	return printAllStats(b)
}

func printTopScores(b *backend, gameID string) error {
	info, _ := registry.Info(gameID)
	scores, err := b.history.TopScores(gameID, 10)
	if err != nil {
		return err
	}

	fmt.Printf("Best sessions - %s\n", info.Title)
	if st, err := b.history.GameStats(gameID); err == nil && st.GamesCount > 0 {
		fmt.Printf("%d sessions, avg score %.1f, %d fragments earned\n", st.GamesCount, st.AvgScore, st.TotalFragments)
	}
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No sessions recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'fragments play %s' to record the first one!\n", gameID)
		return nil
	}

	fmt.Printf("  %-4s  %-6s  %-6s  %-9s  %s\n", "Rank", "Score", "Tier", "Fragments", "Date")
	fmt.Printf("  %-4s  %-6s  %-6s  %-9s  %s\n", "----", "-----", "----", "---------", "----")
	for i, s := range scores {
		fmt.Printf("  %-4d  %-6d  %-6s  %-9d  %s\n",
			i+1, s.Score, s.Difficulty, s.Fragments, s.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func printAllStats(b *backend) error {
	all, err := b.history.AllGamesStats()
	if err != nil {
		return err
	}
	if len(all) == 0 {
		fmt.Println("No sessions recorded yet.")
		return nil
	}

	ids := make([]string, 0, len(all))
	for id := range all {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	fmt.Printf("  %-10s  %-8s  %-5s  %-7s  %-9s  %s\n", "Game", "Sessions", "Best", "Avg", "Fragments", "Last played")
	fmt.Printf("  %-10s  %-8s  %-5s  %-7s  %-9s  %s\n", "----", "--------", "----", "---", "---------", "-----------")
	for _, id := range ids {
		s := all[id]
		fmt.Printf("  %-10s  %-8d  %-5d  %-7.1f  %-9d  %s\n",
			id, s.GamesCount, s.HighScore, s.AvgScore, s.TotalFragments, s.LastPlayed.Format("2006-01-02 15:04"))
	}

	recent, err := b.history.RecentSessions(5)
	if err != nil {
		return err
	}
	fmt.Println()
	fmt.Println("Recent sessions")
	for _, r := range recent {
		fmt.Printf("  %s  %-10s  %-6s  score %-4d  +%d\n",
			r.CreatedAt.Format("2006-01-02 15:04"), r.GameID, r.Difficulty, r.Score, r.Fragments)
	}
	return nil
}
