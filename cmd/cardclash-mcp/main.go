// Command cardclash-mcp serves cardclash battles to an agent over MCP stdio.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/peterkuimelis/cardclash/internal/config"
	"github.com/peterkuimelis/cardclash/internal/mcp"
	"github.com/peterkuimelis/cardclash/internal/replay"
	"github.com/peterkuimelis/cardclash/internal/session"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadServer()
	if err != nil {
		return err
	}
	engine, err := config.LoadEngine()
	if err != nil {
		return err
	}
	flag.StringVar(&cfg.CatalogDir, "catalog", cfg.CatalogDir, "card catalog directory")
	flag.StringVar(&cfg.DecksFile, "decks", cfg.DecksFile, "path to decks YAML file")
	flag.StringVar(&cfg.RedisAddr, "redis", cfg.RedisAddr, "Redis address for replays")
	flag.Parse()

	// stdout carries the protocol.
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	lib, err := session.LoadLibrary(cfg.CatalogDir, cfg.DecksFile)
	if err != nil {
		return err
	}
	repo, err := replay.Open(cfg.RedisAddr, cfg.ReplayTTL)
	if err != nil {
		return err
	}

	s := server.NewMCPServer(
		"cardclash",
		"1.0.0",
		server.WithToolCapabilities(true),
	)
	mcp.RegisterTools(s, mcp.NewController(lib, mcp.Options{
		Engine:  engine,
		Replays: repo,
		Slog:    logger,
	}))

	return server.ServeStdio(s)
}
