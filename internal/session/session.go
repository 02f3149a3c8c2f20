// Package session drives one Battle on behalf of an out-of-process
// presentation layer: a terminal client, a browser or an MCP agent.
package session

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/peterkuimelis/cardclash/internal/anim"
	"github.com/peterkuimelis/cardclash/internal/clock"
	"github.com/peterkuimelis/cardclash/internal/config"
	"github.com/peterkuimelis/cardclash/internal/errors"
	"github.com/peterkuimelis/cardclash/internal/game"
	"github.com/peterkuimelis/cardclash/internal/log"
	"github.com/peterkuimelis/cardclash/internal/replay"
)

// maxSteps bounds FastForward. MaxTurns ends every battle long before this.
const maxSteps = 1 << 20

// Config describes a session.
type Config struct {
	DeckA *Deck
	DeckB *Deck

	// Human is the interactive side. The other side is driven by Policy.
	Human game.Side
	// AIOnly puts both sides under Policy; FastForward then runs to the end.
	AIOnly bool
	Policy game.Policy // nil means game.RandomPolicy

	Engine    config.Engine
	Seed      uint64
	NoShuffle bool

	Replays replay.Repository // optional
	Clock   clock.Clock       // nil means the real clock
	Slog    *slog.Logger      // nil means slog.Default()

	// EventWriter, when set, also receives every event as a text line.
	EventWriter io.Writer
}

// Update is everything a presentation layer needs after an operation.
type Update struct {
	Animations []anim.Envelope `json:"animations,omitempty"`
	Events     []log.GameEvent `json:"events,omitempty"`
	State      game.Snapshot   `json:"state"`
	Legal      []game.Play     `json:"legal,omitempty"`
	YourTurn   bool            `json:"your_turn"`
	GameOver   bool            `json:"game_over"`
	Winner     string          `json:"winner,omitempty"` // "A", "B" or empty
	Result     string          `json:"result,omitempty"`
}

type eventLog interface {
	log.EventLogger
	Since(seq int) []log.GameEvent
}

// Session is safe for concurrent use.
type Session struct {
	ID string

	mu      sync.Mutex
	cfg     Config
	battle  *game.Battle
	events  eventLog
	lastSeq int
	saved   bool
}

// New builds the battle and hands the non-human side to the policy.
func New(cfg Config) (*Session, error) {
	if cfg.DeckA == nil || cfg.DeckB == nil {
		return nil, errors.InvalidArgument("both decks are required")
	}
	if cfg.Human != game.SideA && cfg.Human != game.SideB {
		return nil, errors.InvalidArgumentf("invalid human side %d", cfg.Human)
	}
	if cfg.Policy == nil {
		cfg.Policy = game.RandomPolicy{}
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.New()
	}
	if cfg.Slog == nil {
		cfg.Slog = slog.Default()
	}

	var events eventLog = log.NewMemoryLogger()
	if cfg.EventWriter != nil {
		events = log.NewTextLogger(cfg.EventWriter)
	}
	for side, d := range []*Deck{cfg.DeckA, cfg.DeckB} {
		for _, miss := range d.Misses {
			id, rarity := missMeta(miss)
			events.Log(log.NewCatalogMissEvent(side, id, rarity))
		}
	}

	id := uuid.NewString()
	b := game.NewBattle(game.BattleConfig{
		DeckA:     cfg.DeckA.Cards,
		DeckB:     cfg.DeckB.Cards,
		Config:    cfg.Engine,
		Logger:    events,
		Seed:      cfg.Seed,
		NoShuffle: cfg.NoShuffle,
	}).WithSlog(cfg.Slog.With("session", id))

	if cfg.AIOnly {
		b.SetAIPolicy(game.SideA, cfg.Policy)
		b.SetAIPolicy(game.SideB, cfg.Policy)
	} else {
		b.SetAIPolicy(cfg.Human.Opponent(), cfg.Policy)
	}

	return &Session{ID: id, cfg: cfg, battle: b, events: events}, nil
}

func missMeta(err error) (id, rarity string) {
	var e *errors.Error
	if errors.As(err, &e) {
		id, _ = e.Meta["id"].(string)
		rarity, _ = e.Meta["rarity"].(string)
	}
	return id, rarity
}

// Human returns the interactive side.
func (s *Session) Human() game.Side {
	return s.cfg.Human
}

// Decks returns the two resolved decks.
func (s *Session) Decks() (*Deck, *Deck) {
	return s.cfg.DeckA, s.cfg.DeckB
}

// Seed returns the seed that reproduces this battle.
func (s *Session) Seed() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.battle.Seed
}

// Play submits a Hand→Waiting move for the human side.
func (s *Session) Play(ctx context.Context, handIndex, slot int) (*Update, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.battle.SubmitPlay(s.cfg.Human, handIndex, slot); err != nil {
		return nil, err
	}
	return s.update(ctx), nil
}

// EndTurn ends the human side's Playing phase.
func (s *Session) EndTurn(ctx context.Context) (*Update, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.battle.SubmitEndTurn(s.cfg.Human); err != nil {
		return nil, err
	}
	return s.update(ctx), nil
}

// Advance lets dt of simulated time pass.
func (s *Session) Advance(ctx context.Context, dt time.Duration) *Update {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.battle.Tick(dt)
	return s.update(ctx)
}

// FastForward ticks by the pending wait until the human side must act or
// the battle is over.
func (s *Session) FastForward(ctx context.Context) (*Update, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for steps := 0; !s.settled(); steps++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if steps >= maxSteps {
			return nil, errors.Internal("battle did not reach a decision")
		}
		s.battle.Tick(s.battle.PendingWait())
	}
	return s.update(ctx), nil
}

func (s *Session) settled() bool {
	if s.battle.Over() {
		return true
	}
	_, ok := s.battle.AwaitingInput()
	return ok
}

// State returns the current snapshot without draining anything.
func (s *Session) State() game.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.battle.ObserveState()
}

// Over reports whether the battle has ended.
func (s *Session) Over() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.battle.Over()
}

// Events returns the full event log.
func (s *Session) Events() []log.GameEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]log.GameEvent(nil), s.events.Events()...)
}

// update drains animations and new events. Callers hold mu.
func (s *Session) update(ctx context.Context) *Update {
	u := &Update{
		Animations: anim.Wrap(s.battle.DrainAnimations()),
		State:      s.battle.ObserveState(),
	}
	if evs := s.events.Since(s.lastSeq); len(evs) > 0 {
		u.Events = append([]log.GameEvent(nil), evs...)
		s.lastSeq = evs[len(evs)-1].Seq
	}
	if side, ok := s.battle.AwaitingInput(); ok && side == s.cfg.Human && !s.cfg.AIOnly {
		u.YourTurn = true
		u.Legal = s.battle.LegalPlays(side)
	}
	if s.battle.Over() {
		u.GameOver = true
		u.Winner = winnerName(s.battle)
		u.Result = resultText(s.battle)
		s.saveReplay(ctx)
	}
	return u
}

func winnerName(b *game.Battle) string {
	if w, ok := b.Winner(); ok {
		return w.String()
	}
	return ""
}

func resultText(b *game.Battle) string {
	if d := b.Diagnostic(); d != nil {
		return "Battle aborted: " + d.Message
	}
	if w, ok := b.Winner(); ok {
		return "Side " + w.String() + " wins"
	}
	return "Draw"
}

// Record builds the replay record for the battle as it stands.
func (s *Session) Record() *replay.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record()
}

func (s *Session) record() *replay.Record {
	b := s.battle
	rec := &replay.Record{
		ID:         s.ID,
		Seed:       b.Seed,
		DeckA:      s.cfg.DeckA.Name,
		DeckB:      s.cfg.DeckB.Name,
		Winner:     winnerName(b),
		Turns:      b.Turn,
		HP:         b.HP,
		FinishedAt: s.cfg.Clock.Now(),
		Events:     append([]log.GameEvent(nil), s.events.Events()...),
	}
	if d := b.Diagnostic(); d != nil {
		rec.Diagnostic = d.Error()
	}
	return rec
}

// saveReplay stores the record once. A failed save is only logged.
func (s *Session) saveReplay(ctx context.Context) {
	if s.saved || s.cfg.Replays == nil {
		return
	}
	s.saved = true
	if err := s.cfg.Replays.Save(ctx, s.record()); err != nil {
		s.cfg.Slog.Error("save replay", "session", s.ID, "error", err)
	}
}
