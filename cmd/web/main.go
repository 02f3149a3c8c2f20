package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/peterkuimelis/cardclash/internal/config"
	battlenet "github.com/peterkuimelis/cardclash/internal/net"
	"github.com/peterkuimelis/cardclash/internal/replay"
	"github.com/peterkuimelis/cardclash/internal/session"
	"github.com/peterkuimelis/cardclash/internal/web"
)

func main() {
	cfg, err := config.LoadServer()
	if err != nil {
		fail(err)
	}
	engine, err := config.LoadEngine()
	if err != nil {
		fail(err)
	}
	flag.StringVar(&cfg.Addr, "addr", cfg.Addr, "HTTP listen address")
	flag.StringVar(&cfg.CatalogDir, "catalog", cfg.CatalogDir, "card catalog directory (also served as /art/)")
	flag.StringVar(&cfg.DecksFile, "decks", cfg.DecksFile, "path to decks YAML file")
	flag.StringVar(&cfg.RedisAddr, "redis", cfg.RedisAddr, "Redis address for replays")
	aiDeck := flag.Int("ai-deck", 2, "deck number the AI plays")
	flag.Parse()

	lib, err := session.LoadLibrary(cfg.CatalogDir, cfg.DecksFile)
	if err != nil {
		fail(err)
	}
	repo, err := replay.Open(cfg.RedisAddr, cfg.ReplayTTL)
	if err != nil {
		fail(err)
	}

	srv, err := web.NewServer(web.Options{
		Library:    lib,
		CatalogDir: cfg.CatalogDir,
		Replays:    repo,
		Games: &battlenet.Server{
			Library: lib,
			AIDeck:  *aiDeck,
			Engine:  engine,
		},
	})
	if err != nil {
		fail(err)
	}

	slog.Info("cardclash web UI listening", "addr", cfg.Addr)
	if err := srv.ListenAndServe(cfg.Addr); err != nil {
		fail(err)
	}
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
