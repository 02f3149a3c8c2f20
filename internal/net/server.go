package net

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"

	"github.com/peterkuimelis/cardclash/internal/config"
	"github.com/peterkuimelis/cardclash/internal/game"
	"github.com/peterkuimelis/cardclash/internal/replay"
	"github.com/peterkuimelis/cardclash/internal/session"
)

// Server hosts battles between remote human players and the AI. Every
// connection gets its own session.
type Server struct {
	Library *session.Library
	Addr    string
	AIDeck  int // deck number the AI plays (1-indexed)

	Engine  config.Engine
	Replays replay.Repository // optional
	Slog    *slog.Logger      // nil means slog.Default()

	// EventWriter, when set, echoes every battle's events on the host.
	EventWriter io.Writer
}

func (s *Server) logger() *slog.Logger {
	if s.Slog == nil {
		return slog.Default()
	}
	return s.Slog
}

// ListenAndServe accepts connections until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done, then closes every open
// connection and waits for its battle goroutine to return.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	go func() {
		<-ctx.Done()
		ln.Close()
	}()
	s.logger().Info("waiting for players", "addr", ln.Addr().String())

	var wg sync.WaitGroup
	defer wg.Wait()
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("accept: %w", err)
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer conn.Close()
			// Unblocks the read loop when the host shuts down.
			stop := context.AfterFunc(ctx, func() { conn.Close() })
			defer stop()
			s.logger().Info("player connected", "remote", conn.RemoteAddr().String())
			if err := s.ServeConn(ctx, conn); err != nil {
				s.logger().Warn("battle ended early", "remote", conn.RemoteAddr().String(), "error", err)
			}
		}()
	}
}

// ServeConn reads the join handshake from conn, starts a session with the
// joiner on side A and plays it out.
func (s *Server) ServeConn(ctx context.Context, conn io.ReadWriter) error {
	dec := json.NewDecoder(conn)
	var join ClientMessage
	if err := dec.Decode(&join); err != nil {
		return fmt.Errorf("read join message: %w", err)
	}
	if join.Type != MsgJoin {
		return fmt.Errorf("expected %s message, got %q", MsgJoin, join.Type)
	}
	humanDeck := join.DeckNumber
	if humanDeck == 0 {
		humanDeck = 1
	}
	aiDeck := s.AIDeck
	if aiDeck == 0 {
		aiDeck = 2
	}

	sess, err := s.NewSession(humanDeck, aiDeck)
	if err != nil {
		nc := NewNetworkController(conn, nil)
		_ = nc.SendError(err)
		return err
	}
	s.logger().Info("battle started", "session", sess.ID, "human_deck", humanDeck, "ai_deck", aiDeck)

	// The handshake decoder may have buffered past the join message.
	rw := struct {
		io.Reader
		io.Writer
	}{io.MultiReader(dec.Buffered(), conn), conn}
	return NewNetworkController(rw, sess).Run(ctx)
}

// NewSession builds a human-vs-AI session with the human on side A.
func (s *Server) NewSession(humanDeck, aiDeck int) (*session.Session, error) {
	a, err := s.Library.Deck(humanDeck)
	if err != nil {
		return nil, err
	}
	b, err := s.Library.Deck(aiDeck)
	if err != nil {
		return nil, err
	}
	return session.New(session.Config{
		DeckA:       a,
		DeckB:       b,
		Human:       game.SideA,
		Engine:      s.Engine,
		Replays:     s.Replays,
		Slog:        s.logger(),
		EventWriter: s.EventWriter,
	})
}
