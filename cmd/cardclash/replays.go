package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/peterkuimelis/cardclash/internal/log"
)

var replaysLimit int

var replaysCmd = &cobra.Command{
	Use:   "replays",
	Short: "List or print saved battles",
	Long: `Saved battles live in Redis when --redis is set. Without it each process
keeps its own in-memory store, so there is nothing to list.`,
}

var replaysListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved battles, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, err := openReplays()
		if err != nil {
			return err
		}
		sums, err := repo.List(cmd.Context(), replaysLimit)
		if err != nil {
			return err
		}
		if len(sums) == 0 {
			fmt.Println("No saved battles.")
			return nil
		}
		for _, s := range sums {
			winner := s.Winner
			if winner == "" {
				winner = "-"
			}
			fmt.Printf("%s  %s  %-16s vs %-16s  winner %s  turns %d\n",
				s.ID, s.FinishedAt.Format("2006-01-02 15:04"), s.DeckA, s.DeckB, winner, s.Turns)
		}
		return nil
	},
}

var replaysShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print the event log of a saved battle",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, err := openReplays()
		if err != nil {
			return err
		}
		rec, err := repo.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Printf("%s vs %s, seed %d\n\n", rec.DeckA, rec.DeckB, rec.Seed)
		fmt.Print(log.FormatAll(rec.Events))
		if rec.Diagnostic != "" {
			fmt.Printf("\nAborted: %s\n", rec.Diagnostic)
		}
		return nil
	},
}

func init() {
	replaysListCmd.Flags().IntVarP(&replaysLimit, "limit", "n", 20, "maximum battles to list")
	replaysCmd.AddCommand(replaysListCmd)
	replaysCmd.AddCommand(replaysShowCmd)
}
