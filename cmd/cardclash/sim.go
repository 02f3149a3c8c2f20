package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/peterkuimelis/cardclash/internal/config"
	"github.com/peterkuimelis/cardclash/internal/session"
)

var (
	simDeckA int
	simDeckB int
	simSeed  uint64
	simGames int
	simQuiet bool
)

var simCmd = &cobra.Command{
	Use:   "sim",
	Short: "Run AI against AI and print the event log",
	Long: `Run one or more headless battles with both sides under the random policy.
The same seed and decks always replay the same battle.`,
	RunE: runSim,
}

func init() {
	simCmd.Flags().IntVar(&simDeckA, "deck-a", 1, "deck number for side A")
	simCmd.Flags().IntVar(&simDeckB, "deck-b", 2, "deck number for side B")
	simCmd.Flags().Uint64Var(&simSeed, "seed", 0, "RNG seed (0 picks one; with --games the seed of game N is seed+N-1)")
	simCmd.Flags().IntVar(&simGames, "games", 1, "number of battles to run")
	simCmd.Flags().BoolVarP(&simQuiet, "quiet", "q", false, "print only results")
}

func runSim(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	engine, err := config.LoadEngine()
	if err != nil {
		return err
	}
	lib, err := loadLibrary()
	if err != nil {
		return err
	}
	a, err := lib.Deck(simDeckA)
	if err != nil {
		return err
	}
	b, err := lib.Deck(simDeckB)
	if err != nil {
		return err
	}
	repo, err := openReplays()
	if err != nil {
		return err
	}

	var events io.Writer = os.Stdout
	if simQuiet || simGames > 1 {
		events = nil
	}

	var wins [3]int // A, B, no winner
	for i := 0; i < simGames; i++ {
		seed := simSeed
		if seed != 0 {
			seed += uint64(i)
		}
		sess, err := session.New(session.Config{
			DeckA:       a,
			DeckB:       b,
			AIOnly:      true,
			Engine:      engine,
			Seed:        seed,
			Replays:     repo,
			EventWriter: events,
		})
		if err != nil {
			return err
		}
		u, err := sess.FastForward(ctx)
		if err != nil {
			return fmt.Errorf("battle %d: %w", i+1, err)
		}

		switch u.Winner {
		case "A":
			wins[0]++
		case "B":
			wins[1]++
		default:
			wins[2]++
		}
		if !simQuiet || simGames == 1 {
			fmt.Printf("%s vs %s: %s after %d turns (seed %d, replay %s)\n",
				a.Name, b.Name, u.Result, u.State.Turn, sess.Seed(), sess.ID)
		}
	}

	if simGames > 1 {
		fmt.Printf("\n%d battles: %s %d, %s %d, no winner %d\n",
			simGames, a.Name, wins[0], b.Name, wins[1], wins[2])
	}
	return nil
}
