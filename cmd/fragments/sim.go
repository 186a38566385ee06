package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/fragments/internal/autoplay"
	"github.com/vovakirdan/fragments/internal/core"
	"github.com/vovakirdan/fragments/internal/registry"
	"github.com/vovakirdan/fragments/internal/session"
)

var (
	flagSkill    float64
	flagRuns     int
	flagSave     bool
	flagMaxTime  time.Duration
	flagRealtime bool
)

var simCmd = &cobra.Command{
	Use:   "sim <game>",
	Short: "Run headless sessions with a scripted player",
	Long: `Run sessions of a game without a terminal UI. A scripted player
reacts to every snapshot; --skill trades its reaction rate and accuracy.
Sessions run in simulated time, as fast as the machine allows, unless
--realtime paces them on a wall-clock ticker at --fps.

Progress is only committed with --save.

Examples:
  fragments sim catch
  fragments sim sequence --difficulty hard --skill 0.3 --runs 20
  fragments sim dodge --seed 42 --save
  fragments sim catch --realtime --fps 30`,
	Args: cobra.ExactArgs(1),
	RunE: runSim,
}

func init() {
	simCmd.Flags().StringVarP(&flagDifficulty, "difficulty", "d", "easy", "Difficulty: easy, medium, hard")
	simCmd.Flags().Float64Var(&flagSkill, "skill", 0.8, "Scripted player skill in [0, 1]")
	simCmd.Flags().IntVar(&flagRuns, "runs", 1, "Number of sessions to run")
	simCmd.Flags().BoolVar(&flagSave, "save", false, "Commit earned fragments to the progress backend")
	simCmd.Flags().DurationVar(&flagMaxTime, "max-time", 10*time.Minute, "Time limit per session")
	simCmd.Flags().BoolVar(&flagRealtime, "realtime", false, "Run sessions in wall-clock time")
}

func runSim(_ *cobra.Command, args []string) error {
	gameID := args[0]
	if err := checkGame(gameID); err != nil {
		return err
	}
	tier, err := parseDifficulty(flagDifficulty)
	if err != nil {
		return err
	}
	if flagRuns <= 0 {
		return fmt.Errorf("--runs must be positive")
	}

	logger := newLogger(false)
	tuning, err := loadTuning()
	if err != nil {
		return err
	}

	var b *backend
	if flagSave {
		if b, err = openBackend(logger); err != nil {
			return err
		}
		defer b.Close()
	}

	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	fps := flagFPS
	if fps <= 0 {
		fps = 60
	}
	dt := time.Second / time.Duration(fps)
	maxSteps := max(int(flagMaxTime/dt), 1)

	var finished, totalScore, totalFragments int
	for i := range flagRuns {
		runSeed := seed + int64(i)

		game, err := registry.Create(gameID)
		if err != nil {
			return err
		}
		opts := session.Options{
			Tier:   tier,
			Seed:   runSeed,
			Tuning: tuning,
			Logger: logger,
		}
		if b != nil {
			opts.Store = b.store
			if b.history != nil {
				opts.History = b.history
			}
		}

		policy, err := autoplay.ForGame(gameID, rand.New(rand.NewSource(runSeed)), flagSkill)
		if err != nil {
			return err
		}

		var ev *core.RewardEvent
		if flagRealtime {
			ev, err = runRealtime(game, opts, policy, fps)
			if err != nil {
				return err
			}
		} else {
			r := session.New(game, opts)
			ev = autoplay.Drive(r, policy, dt, maxSteps)
			r.Close()
			if err := r.Err(); err != nil {
				return fmt.Errorf("saving run %d: %w", i+1, err)
			}
		}
		if ev == nil {
			fmt.Printf("run %3d  seed %-20d  no result after %s\n", i+1, runSeed, flagMaxTime)
			continue
		}

		finished++
		totalScore += ev.Score
		totalFragments += ev.Fragments
		fmt.Printf("run %3d  seed %-20d  score %4d  fragments %d  time %s\n",
			i+1, runSeed, ev.Score, ev.Fragments, ev.Elapsed.Round(time.Millisecond))
	}

	if finished > 0 {
		fmt.Println()
		fmt.Printf("%d/%d sessions finished, avg score %.1f, %d fragments earned\n",
			finished, flagRuns, float64(totalScore)/float64(finished), totalFragments)
	}
	if b != nil && b.history != nil {
		best, err := b.history.HighScore(gameID)
		if err != nil {
			return err
		}
		fmt.Printf("best recorded %s score: %d\n", gameID, best)
	}
	return nil
}

// runRealtime plays one session on the runner's own ticker loop. The policy
// reacts to each published snapshot; its inputs land on the next tick.
func runRealtime(game registry.Game, opts session.Options, policy autoplay.Policy, fps int) (*core.RewardEvent, error) {
	inputs := make(chan core.Input, 64)
	opts.Observer = session.ObserverFuncs{
		Snapshot: func(snap core.Snapshot) {
			for _, in := range policy.Next(snap) {
				select {
				case inputs <- in:
				default:
				}
			}
		},
	}
	r := session.New(game, opts)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, flagMaxTime)
	defer cancel()

	ev, err := r.Run(ctx, fps, inputs)
	if errors.Is(err, context.DeadlineExceeded) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("realtime session: %w", err)
	}
	return ev, nil
}
