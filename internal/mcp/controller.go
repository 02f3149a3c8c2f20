package mcp

import (
	"context"
	"log/slog"
	"sync"

	"github.com/peterkuimelis/cardclash/internal/config"
	"github.com/peterkuimelis/cardclash/internal/errors"
	"github.com/peterkuimelis/cardclash/internal/game"
	"github.com/peterkuimelis/cardclash/internal/replay"
	"github.com/peterkuimelis/cardclash/internal/session"
)

// Controller owns the single battle an MCP stdio process runs. The agent
// plays side A; the AI plays side B.
type Controller struct {
	lib     *session.Library
	engine  config.Engine
	replays replay.Repository
	slog    *slog.Logger

	mu     sync.Mutex
	active *session.Session
}

// Options configures a Controller.
type Options struct {
	Engine  config.Engine
	Replays replay.Repository // optional
	Slog    *slog.Logger
}

// NewController creates a controller drawing decks from lib.
func NewController(lib *session.Library, opts Options) *Controller {
	if opts.Slog == nil {
		opts.Slog = slog.Default()
	}
	return &Controller{
		lib:     lib,
		engine:  opts.Engine,
		replays: opts.Replays,
		slog:    opts.Slog,
	}
}

// Start begins a new battle and runs it to the agent's first decision.
func (c *Controller) Start(ctx context.Context, deck, opponentDeck int, seed uint64) (*ToolResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active != nil && !c.active.Over() {
		return nil, errors.InvalidAction("a battle is already running")
	}

	a, err := c.lib.Deck(deck)
	if err != nil {
		return nil, err
	}
	b, err := c.lib.Deck(opponentDeck)
	if err != nil {
		return nil, err
	}
	sess, err := session.New(session.Config{
		DeckA:   a,
		DeckB:   b,
		Human:   game.SideA,
		Engine:  c.engine,
		Seed:    seed,
		Replays: c.replays,
		Slog:    c.slog,
	})
	if err != nil {
		return nil, err
	}
	u, err := sess.FastForward(ctx)
	if err != nil {
		return nil, err
	}
	c.active = sess
	c.slog.Info("battle started", "battle", sess.ID, "deck", a.Name, "opponent", b.Name)
	return buildResponse(sess, u), nil
}

func (c *Controller) current() (*session.Session, error) {
	if c.active == nil {
		return nil, errors.InvalidAction("no battle is running, use start_battle first")
	}
	return c.active, nil
}

// Play puts hand card handIndex into waiting slot slot.
func (c *Controller) Play(ctx context.Context, handIndex, slot int) (*ToolResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	sess, err := c.current()
	if err != nil {
		return nil, err
	}
	played, err := sess.Play(ctx, handIndex, slot)
	if err != nil {
		return nil, err
	}
	next, err := sess.FastForward(ctx)
	if err != nil {
		return nil, err
	}
	return buildResponse(sess, played, next), nil
}

// EndTurn ends the agent's turn and runs the battle to the next decision.
func (c *Controller) EndTurn(ctx context.Context) (*ToolResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	sess, err := c.current()
	if err != nil {
		return nil, err
	}
	ended, err := sess.EndTurn(ctx)
	if err != nil {
		return nil, err
	}
	next, err := sess.FastForward(ctx)
	if err != nil {
		return nil, err
	}
	return buildResponse(sess, ended, next), nil
}

// State returns the events since the last call and the current decision.
func (c *Controller) State(ctx context.Context) (*ToolResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	sess, err := c.current()
	if err != nil {
		return nil, err
	}
	u, err := sess.FastForward(ctx)
	if err != nil {
		return nil, err
	}
	return buildResponse(sess, u), nil
}
