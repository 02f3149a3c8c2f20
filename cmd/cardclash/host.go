package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/peterkuimelis/cardclash/internal/config"
	battlenet "github.com/peterkuimelis/cardclash/internal/net"
)

var (
	hostPort   int
	hostAIDeck int
	hostEcho   bool
)

var hostCmd = &cobra.Command{
	Use:   "host",
	Short: "Host battles against the AI over TCP",
	Long: `Listen for players. Each connection picks a deck and battles the AI on
its own session. Stop with Ctrl-C.`,
	RunE: runHost,
}

func init() {
	hostCmd.Flags().IntVarP(&hostPort, "port", "p", 9000, "TCP port to listen on")
	hostCmd.Flags().IntVar(&hostAIDeck, "ai-deck", 2, "deck number the AI plays")
	hostCmd.Flags().BoolVar(&hostEcho, "echo", false, "print every battle's events on the host")
}

func runHost(cmd *cobra.Command, args []string) error {
	engine, err := config.LoadEngine()
	if err != nil {
		return err
	}
	lib, err := loadLibrary()
	if err != nil {
		return err
	}
	repo, err := openReplays()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &battlenet.Server{
		Library: lib,
		Addr:    fmt.Sprintf(":%d", hostPort),
		AIDeck:  hostAIDeck,
		Engine:  engine,
		Replays: repo,
	}
	if hostEcho {
		srv.EventWriter = os.Stdout
	}
	if err := srv.ListenAndServe(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
