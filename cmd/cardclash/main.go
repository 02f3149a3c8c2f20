// Package main is the cardclash command line: headless simulations, a TCP
// battle host and its terminal client.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/peterkuimelis/cardclash/internal/config"
	"github.com/peterkuimelis/cardclash/internal/replay"
	"github.com/peterkuimelis/cardclash/internal/session"
)

var (
	serverCfg config.Server
	verbose   bool
)

var rootCmd = &cobra.Command{
	Use:   "cardclash",
	Short: "Turn-based card battles",
	Long:  `cardclash runs card battles: AI against AI in the terminal, or a human against the AI over TCP.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cfg, err := config.LoadServer()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	serverCfg = cfg

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&serverCfg.CatalogDir, "catalog", serverCfg.CatalogDir, "card catalog directory")
	flags.StringVar(&serverCfg.DecksFile, "decks", serverCfg.DecksFile, "path to decks YAML file")
	flags.StringVar(&serverCfg.RedisAddr, "redis", serverCfg.RedisAddr, "Redis address for replays (empty keeps them in memory)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(simCmd)
	rootCmd.AddCommand(hostCmd)
	rootCmd.AddCommand(joinCmd)
	rootCmd.AddCommand(replaysCmd)
}

func loadLibrary() (*session.Library, error) {
	return session.LoadLibrary(serverCfg.CatalogDir, serverCfg.DecksFile)
}

func openReplays() (replay.Repository, error) {
	return replay.Open(serverCfg.RedisAddr, serverCfg.ReplayTTL)
}
