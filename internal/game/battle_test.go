package game

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/peterkuimelis/cardclash/internal/config"
	"github.com/peterkuimelis/cardclash/internal/errors"
	"github.com/peterkuimelis/cardclash/internal/log"
)

func TestInteractivePlayFlow(t *testing.T) {
	filler := card("Filler", 1, 3, 2)
	logger := log.NewMemoryLogger()
	b := NewBattle(BattleConfig{
		DeckA:     copies(filler, 6),
		DeckB:     copies(filler, 6),
		Logger:    logger,
		Seed:      7,
		NoShuffle: true,
	})
	b.SetAIPolicy(SideB, RandomPolicy{})

	if side, ok := b.AwaitingInput(); !ok || side != SideA {
		t.Fatalf("expected to await side A, got %v %v", side, ok)
	}
	if n := len(b.Board.Sides[SideA].Hand); n != 4 {
		t.Errorf("expected 3 dealt + 1 drawn, hand %d", n)
	}

	err := b.SubmitEndTurn(SideA)
	if !errors.HasCode(err, errors.CodeInvalidAction) {
		t.Errorf("ending before playing should be an invalid action, got %v", err)
	}
	if err := b.SubmitPlay(SideB, 0, 0); !errors.HasCode(err, errors.CodeInvalidAction) {
		t.Errorf("playing out of turn should be an invalid action, got %v", err)
	}
	if err := b.SubmitPlay(SideA, 0, WaitingSlots); err == nil {
		t.Error("expected out-of-range slot to be rejected")
	}
	if err := b.SubmitPlay(SideA, 9, 0); err == nil {
		t.Error("expected out-of-range hand index to be rejected")
	}

	if err := b.SubmitPlay(SideA, 0, 2); err != nil {
		t.Fatalf("play: %v", err)
	}
	if b.Board.Sides[SideA].Waiting[2] == nil {
		t.Fatal("expected the card in waiting slot 2")
	}
	if err := b.SubmitPlay(SideA, 0, 3); !errors.HasCode(err, errors.CodeInvalidAction) {
		t.Errorf("second play should exceed the quota, got %v", err)
	}
	if b.PendingWait() != config.DefaultTiming().Move {
		t.Errorf("expected to hold for the move animation, got %v", b.PendingWait())
	}

	if err := b.SubmitEndTurn(SideA); err != nil {
		t.Fatalf("end turn: %v", err)
	}
	if _, ok := b.AwaitingInput(); ok {
		t.Error("should not await input after ending the turn")
	}
	b.Tick(b.PendingWait())
	if b.Phase != PhaseAttacking {
		t.Fatalf("expected Attacking, got %s", b.Phase)
	}
	// Cooldown 2 ticked to 1: still waiting.
	if c := b.Board.Sides[SideA].Waiting[2]; c == nil || c.CD != 1 {
		t.Errorf("expected waiting card at cd 1, got %v", c)
	}

	// Run on to B's turn, which the policy plays by itself.
	for i := 0; i < 50 && !(b.Active == SideB && b.Phase == PhaseAttacking); i++ {
		b.Tick(b.PendingWait())
	}
	if b.Active != SideB || b.Phase != PhaseAttacking {
		t.Fatalf("expected B to reach Attacking, got %s %s", b.Active, b.Phase)
	}
	if len(logger.EventsOfType(log.EventPlay)) != 2 {
		t.Errorf("expected one play per side, got %d", len(logger.EventsOfType(log.EventPlay)))
	}
}

func TestAIWaitsThinkDelayBeforePlaying(t *testing.T) {
	filler := card("Filler", 1, 3, 2)
	b := NewBattle(BattleConfig{DeckA: copies(filler, 4), DeckB: copies(filler, 4), Seed: 3})
	b.SetAIPolicy(SideA, RandomPolicy{})

	b.Tick(b.PendingWait()) // starts thinking
	if b.PendingWait() != b.Config().ThinkDelay {
		t.Fatalf("expected think delay %v, got %v", b.Config().ThinkDelay, b.PendingWait())
	}
	if b.CardsPlayed != 0 {
		t.Fatal("AI should not play before the think delay")
	}
	b.Tick(b.Config().ThinkDelay / 2)
	if b.CardsPlayed != 0 {
		t.Fatal("AI played early")
	}
	b.Tick(b.Config().ThinkDelay / 2)
	if b.CardsPlayed != 1 {
		t.Fatalf("expected the AI to have played, played %d", b.CardsPlayed)
	}
}

func TestEmptyHandAutoAdvances(t *testing.T) {
	b := NewBattle(BattleConfig{Seed: 1})

	if _, ok := b.AwaitingInput(); ok {
		t.Error("an empty hand should not wait for input")
	}
	if b.CardsPlayed != b.Config().MaxPlaysPerTurn {
		t.Errorf("expected quota marked as met, got %d", b.CardsPlayed)
	}
	if b.PendingWait() != b.Config().EmptyHandDelay {
		t.Errorf("expected empty-hand delay, got %v", b.PendingWait())
	}

	runToEnd(t, b)
	if _, ok := b.Winner(); ok {
		t.Error("two empty sides should draw")
	}
	if b.Diagnostic() != nil {
		t.Errorf("unexpected diagnostic %v", b.Diagnostic())
	}
}

func TestTurnLimitEndsInDraw(t *testing.T) {
	pebble := card("Pebble", 0, 10, 1)
	cfg := config.DefaultEngine()
	cfg.MaxTurns = 2
	logger := log.NewMemoryLogger()
	b := NewBattle(BattleConfig{
		DeckA:  copies(pebble, 10),
		DeckB:  copies(pebble, 10),
		Config: cfg,
		Logger: logger,
		Seed:   11,
	})
	b.SetAIPolicy(SideA, RandomPolicy{})
	b.SetAIPolicy(SideB, RandomPolicy{})

	runToEnd(t, b)

	if _, ok := b.Winner(); ok {
		t.Error("expected no winner")
	}
	if b.Turn != 2 {
		t.Errorf("expected to stop after turn 2, at %d", b.Turn)
	}
	draws := logger.EventsOfType(log.EventDrawGame)
	if len(draws) != 1 || !strings.Contains(draws[0].Details, "turn limit reached") {
		t.Errorf("expected a turn-limit draw, got %+v", draws)
	}
}

// TestRandomBattlesHoldInvariants plays AI against AI with decks drawn from
// every skill family. The engine checks its invariants at every phase
// transition and aborts with a diagnostic on the first violation.
func TestRandomBattlesHoldInvariants(t *testing.T) {
	pool := mixedPool()
	for seed := uint64(1); seed <= 25; seed++ {
		deckRng := NewRand(seed * 97)
		b := NewBattle(BattleConfig{
			DeckA: randomDeck(deckRng, pool, 12),
			DeckB: randomDeck(deckRng, pool, 12),
			Seed:  seed,
		})
		b.SetAIPolicy(SideA, RandomPolicy{})
		b.SetAIPolicy(SideB, RandomPolicy{})

		runToEnd(t, b)

		if d := b.Diagnostic(); d != nil {
			t.Fatalf("seed %d: %v\n%s", seed, d, log.FormatAll(b.Logger().Events()))
		}
		moves, counted := b.PlayParity()
		if moves != counted {
			t.Errorf("seed %d: %d plays moved cards but %d were counted", seed, moves, counted)
		}
		if b.Turn > b.Config().MaxTurns {
			t.Errorf("seed %d: ran past the turn limit (%d)", seed, b.Turn)
		}
		w, ok := b.Winner()
		t.Logf("seed %d: turn %d winner %v (%v) hp %v", seed, b.Turn, w, ok, b.HP)
	}
}

func TestSameSeedReplaysIdentically(t *testing.T) {
	pool := mixedPool()
	deckRng := NewRand(5)
	deckA := randomDeck(deckRng, pool, 10)
	deckB := randomDeck(deckRng, pool, 10)

	run := func() (*Battle, []any) {
		b := NewBattle(BattleConfig{DeckA: deckA, DeckB: deckB, Seed: 42})
		b.SetAIPolicy(SideA, RandomPolicy{})
		b.SetAIPolicy(SideB, RandomPolicy{})
		var out []any
		for _, d := range runToEnd(t, b) {
			out = append(out, d)
		}
		return b, out
	}

	b1, anims1 := run()
	b2, anims2 := run()

	if !reflect.DeepEqual(anims1, anims2) {
		t.Fatalf("animation queues differ: %d vs %d descriptors", len(anims1), len(anims2))
	}
	w1, ok1 := b1.Winner()
	w2, ok2 := b2.Winner()
	if w1 != w2 || ok1 != ok2 || b1.Turn != b2.Turn || b1.HP != b2.HP {
		t.Errorf("outcomes differ: %v/%v turn %d hp %v vs %v/%v turn %d hp %v",
			w1, ok1, b1.Turn, b1.HP, w2, ok2, b2.Turn, b2.HP)
	}
	e1, e2 := b1.Logger().Events(), b2.Logger().Events()
	if len(e1) != len(e2) {
		t.Fatalf("event logs differ in length: %d vs %d", len(e1), len(e2))
	}
	for i := range e1 {
		if e1[i] != e2[i] {
			t.Fatalf("event %d differs: %s vs %s", i, log.FormatEvent(e1[i]), log.FormatEvent(e2[i]))
		}
	}
}

func TestPlayParityCountsOnlyRealPlays(t *testing.T) {
	filler := card("Filler", 0, 5, 3)
	b := NewBattle(BattleConfig{DeckA: copies(filler, 2), DeckB: copies(filler, 1), Seed: 9, StartingHandSize: 1})
	b.SetAIPolicy(SideA, RandomPolicy{})
	b.SetAIPolicy(SideB, RandomPolicy{})

	// B plays its only card on turn 1; its turn 2 auto-advances with the
	// quota marked as met but nothing moved.
	for i := 0; i < 200 && b.Turn < 3 && !b.Over(); i++ {
		b.Tick(b.PendingWait())
	}
	moves, counted := b.PlayParity()
	if moves != counted {
		t.Errorf("moves %d, counted %d", moves, counted)
	}
	if moves != 3 {
		t.Errorf("expected two plays by A and one by B, got %d", moves)
	}
}

func TestInvariantViolationAborts(t *testing.T) {
	s := newScenario(t)
	c := s.battle(SideA, 0, card("Twice", 1, 1, 0))
	s.b.baseline()
	z := s.b.Board.Sides[SideA]
	z.Hand = append(z.Hand, c)

	s.b.transition(PhaseCompact)

	if !s.b.Over() {
		t.Fatal("expected the battle to abort")
	}
	d := s.b.Diagnostic()
	if d == nil || d.Code != errors.CodeInvariantViolation {
		t.Fatalf("expected an invariant violation, got %v", d)
	}
	if _, ok := s.b.Winner(); ok {
		t.Error("an aborted battle has no winner")
	}
	if len(s.logger.EventsOfType(log.EventInvariantViolation)) != 1 {
		t.Error("expected the violation in the event log")
	}

	// GameOver is terminal.
	s.b.Tick(time.Hour)
	if s.b.Phase != PhaseGameOver {
		t.Errorf("expected to stay in GameOver, got %s", s.b.Phase)
	}
}

func TestInteractiveCallsRejectedDuringBattling(t *testing.T) {
	s := newScenario(t)
	s.battle(SideA, 0, card("Idle", 0, 5, 0))
	s.battle(SideB, 0, card("Idle", 0, 5, 0))
	s.attack(SideA)

	if err := s.b.SubmitPlay(SideA, 0, 0); !errors.HasCode(err, errors.CodeInvalidAction) {
		t.Errorf("expected invalid action during %s, got %v", s.b.Phase, err)
	}
	if plays := s.b.LegalPlays(SideA); plays != nil {
		t.Errorf("expected no legal plays outside Playing, got %v", plays)
	}
}

func TestObserveStateIsACopy(t *testing.T) {
	s := newScenario(t)
	s.battle(SideA, 0, card("Knight", 2, 5, 1, "防御1"))
	s.hand(SideB, card("Spare", 1, 1, 1))

	snap := s.b.ObserveState()
	if snap.Sides[SideA].Battle[0] == nil || snap.Sides[SideA].Battle[0].Name != "Knight" {
		t.Fatalf("expected Knight in the snapshot, got %+v", snap.Sides[SideA].Battle)
	}
	if len(snap.Sides[SideA].Waiting) != WaitingSlots || len(snap.Sides[SideA].Battle) != BattleSlots {
		t.Error("expected one entry per slot")
	}

	snap.Sides[SideA].Battle[0].ATK = 99
	snap.Sides[SideA].Battle[0].Traits[0] = "changed"
	snap.Sides[SideB].Hand[0].HP = 99
	c := s.b.Board.Sides[SideA].Battle[0]
	if c.ATK != 2 || c.Def.Traits[0] != "防御1" {
		t.Error("mutating the snapshot changed the engine")
	}
	if s.b.Board.Sides[SideB].Hand[0].HP != 1 {
		t.Error("mutating the snapshot hand changed the engine")
	}
}

func TestRandomPolicyUsesLeftmostSlot(t *testing.T) {
	legal := []Play{{0, 1}, {0, 4}, {1, 1}, {1, 4}, {2, 1}, {2, 4}}
	rng := &scriptedRand{ints: []int{2}}

	p, ok := RandomPolicy{}.ChoosePlay(Snapshot{}, legal, rng)
	if !ok || p != (Play{HandIndex: 2, Slot: 1}) {
		t.Errorf("expected hand 2 into slot 1, got %v %v", p, ok)
	}
	if _, ok := (RandomPolicy{}).ChoosePlay(Snapshot{}, nil, rng); ok {
		t.Error("expected no play from an empty list")
	}
}

func TestIllegalPolicyChoiceFallsBack(t *testing.T) {
	filler := card("Filler", 1, 3, 2)
	b := NewBattle(BattleConfig{DeckA: copies(filler, 4), DeckB: copies(filler, 4), Seed: 2})
	b.SetAIPolicy(SideA, PolicyFunc(func(Snapshot, []Play, Rand) (Play, bool) {
		return Play{HandIndex: 99, Slot: 99}, true
	}))

	b.Tick(b.PendingWait())
	b.Tick(b.PendingWait())
	if b.CardsPlayed != 1 || b.Board.Sides[SideA].Waiting[0] == nil {
		t.Errorf("expected the first legal play to be used, waiting %v", b.Board.Sides[SideA].Waiting)
	}
}
