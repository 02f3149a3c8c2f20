package main

import (
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	battlenet "github.com/peterkuimelis/cardclash/internal/net"
)

var (
	joinAddr string
	joinDeck int
)

var joinCmd = &cobra.Command{
	Use:   "join",
	Short: "Join a hosted battle from the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		return battlenet.Connect(ctx, joinAddr, joinDeck)
	},
}

func init() {
	joinCmd.Flags().StringVarP(&joinAddr, "addr", "a", "localhost:9000", "host address")
	joinCmd.Flags().IntVarP(&joinDeck, "deck", "d", 1, "deck number to play")
}
