package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/fragments/internal/registry"
)

var flagResetHistory bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset fragment progress",
	Long: `Zero the fragment and games-played counters. Onboarding stays
completed. With --history the recorded sessions are deleted as well.

Examples:
  fragments reset
  fragments reset --history`,
	Args: cobra.NoArgs,
	RunE: runReset,
}

func init() {
	resetCmd.Flags().BoolVar(&flagResetHistory, "history", false, "Also delete recorded sessions")
}

func runReset(_ *cobra.Command, _ []string) error {
	logger := newLogger(false)
	b, err := openStore()
	if err != nil {
		return err
	}
	defer b.Close()

	if err := b.store.Reset(); err != nil {
		return err
	}
	logger.Info("progress reset", "backend", flagBackend)

	if flagResetHistory && b.history != nil {
		for _, g := range registry.List() {
			if err := b.history.ClearHistory(g.ID); err != nil {
				return err
			}
		}
		logger.Info("session history cleared")
	}

	if strings.EqualFold(flagBackend, backendMemory) {
		fmt.Println("Progress reset (memory backend, nothing was stored).")
		return nil
	}
	fmt.Println("Progress reset.")
	return nil
}
