package game

import (
	"log/slog"
	"time"

	"github.com/peterkuimelis/cardclash/internal/anim"
	"github.com/peterkuimelis/cardclash/internal/config"
	"github.com/peterkuimelis/cardclash/internal/errors"
	"github.com/peterkuimelis/cardclash/internal/log"
)

// BattleConfig holds configuration for creating a new battle.
type BattleConfig struct {
	DeckA []*CardDef // side A's deck (card definitions)
	DeckB []*CardDef // side B's deck (card definitions)

	// StartingHandSize overrides Config.StartingHandSize when positive.
	StartingHandSize int

	Config    config.Engine // zero value means config.DefaultEngine()
	Logger    log.EventLogger
	Rand      Rand   // overrides Seed
	Seed      uint64 // RNG seed (0 falls back to Config.Seed, then the clock)
	NoShuffle bool   // skip deck shuffle (for deterministic tests)
}

// Battle is the turn engine. It is single-threaded: all state changes
// happen inside Tick, SubmitPlay and SubmitEndTurn.
type Battle struct {
	Board *Board

	HP          [2]int
	Turn        int
	Active      Side
	Phase       Phase
	CardsPlayed int

	// Seed the battle's RNG was built from, zero when a Rand was injected.
	Seed uint64

	cfg      config.Engine
	rng      Rand
	logger   log.EventLogger
	slog     *slog.Logger
	queue    *anim.Queue
	policies [2]Policy

	wait  time.Duration // time left before the next step
	delay time.Duration // extra hold requested by the current step

	// Playing state
	autoAdvance  bool
	endRequested bool
	aiThinking   bool
	aiDone       bool

	// Attacking state
	nextAttacker int

	// Finish state
	decided bool

	hasWinner  bool
	winner     Side
	diagnostic *errors.Error

	nextID      int
	initialDeck [2]int
	turnPlays   int // cards actually played this turn
	playsAtEnd  int // sum of turnPlays at each Playing exit
}

// NewBattle builds both decks, shuffles them, deals starting hands and
// enters side A's first Playing phase.
func NewBattle(cfg BattleConfig) *Battle {
	ec := cfg.Config
	if ec.MaxPlaysPerTurn == 0 {
		ec = config.DefaultEngine()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewMemoryLogger()
	}

	b := &Battle{
		cfg:    ec,
		logger: logger,
		slog:   slog.Default(),
		queue:  anim.NewQueue(),
		Turn:   1,
		Active: SideA,
		Phase:  PhasePlaying,
		HP:     [2]int{ec.StartingHP, ec.StartingHP},
	}
	b.Board = NewBoard(b.queue, ec.Timing)

	b.rng = cfg.Rand
	if b.rng == nil {
		seed := cfg.Seed
		if seed == 0 {
			seed = ec.Seed
		}
		if seed == 0 {
			seed = uint64(time.Now().UnixNano())
		}
		b.Seed = seed
		b.rng = NewRand(seed)
	}

	for side, deck := range [2][]*CardDef{cfg.DeckA, cfg.DeckB} {
		for _, def := range deck {
			ci := b.newInstance(def, Side(side))
			b.Board.Sides[side].Deck = append(b.Board.Sides[side].Deck, ci)
		}
	}
	if !cfg.NoShuffle {
		for _, side := range []Side{SideA, SideB} {
			b.Board.Shuffle(side, b.rng)
			b.log(log.NewShuffleEvent(int(side), len(b.Board.Sides[side].Deck)))
		}
	}
	b.baseline()

	hand := cfg.StartingHandSize
	if hand <= 0 {
		hand = ec.StartingHandSize
	}
	for range hand {
		for _, side := range []Side{SideA, SideB} {
			if c, ok := b.Board.Draw(side); ok {
				b.log(log.NewDrawEvent(0, "Setup", int(side), c.Name()))
			}
		}
	}

	b.transition(PhasePlaying)
	b.settle()
	return b
}

// WithSlog sets the operational logger.
func (b *Battle) WithSlog(l *slog.Logger) *Battle {
	b.slog = l
	return b
}

func (b *Battle) newInstance(def *CardDef, side Side) *CardInstance {
	b.nextID++
	return NewInstance(def, b.nextID, side)
}

func (b *Battle) log(e log.GameEvent) {
	b.logger.Log(e)
}

// Config returns the engine settings in effect.
func (b *Battle) Config() config.Engine {
	return b.cfg
}

// Logger returns the battle's event log.
func (b *Battle) Logger() log.EventLogger {
	return b.logger
}

// --- Presentation interface ---

// Tick advances the engine's timer by dt. When the current hold has elapsed
// the engine performs one step, which makes at most one phase transition.
func (b *Battle) Tick(dt time.Duration) {
	if b.Phase == PhaseGameOver {
		return
	}
	b.wait -= dt
	if b.wait > 0 {
		return
	}
	b.step()
	b.settle()
}

// PendingWait is how much simulated time must pass before the next step.
func (b *Battle) PendingWait() time.Duration {
	return max(0, b.wait)
}

func (b *Battle) settle() {
	b.wait = b.delay + b.queue.TakeWait()
	b.delay = 0
}

// SetAIPolicy marks side as AI-controlled, or interactive when p is nil.
func (b *Battle) SetAIPolicy(side Side, p Policy) {
	b.policies[side] = p
	if side == b.Active {
		b.aiThinking = false
		b.aiDone = false
	}
}

// IsAI reports whether side is driven by a policy.
func (b *Battle) IsAI(side Side) bool {
	return b.policies[side] != nil
}

// SubmitPlay moves a hand card into a waiting slot for the interactive
// active side.
func (b *Battle) SubmitPlay(side Side, handIndex, slot int) error {
	if err := b.checkInteractive(side); err != nil {
		return err
	}
	if b.CardsPlayed >= b.cfg.MaxPlaysPerTurn {
		return errors.InvalidActionf("already played %d card(s) this turn", b.CardsPlayed)
	}
	if _, err := b.play(side, handIndex, slot); err != nil {
		return err
	}
	b.settle()
	return nil
}

// SubmitEndTurn ends the interactive active side's Playing phase once it has
// played its quota.
func (b *Battle) SubmitEndTurn(side Side) error {
	if err := b.checkInteractive(side); err != nil {
		return err
	}
	if b.CardsPlayed < b.cfg.MaxPlaysPerTurn {
		return errors.InvalidActionf("must play %d card(s) before ending the turn", b.cfg.MaxPlaysPerTurn-b.CardsPlayed)
	}
	b.endRequested = true
	return nil
}

func (b *Battle) checkInteractive(side Side) error {
	switch {
	case b.Phase == PhaseGameOver:
		return errors.InvalidAction("battle is over")
	case b.Phase != PhasePlaying:
		return errors.InvalidActionf("cannot act during %s", b.Phase)
	case side != b.Active:
		return errors.InvalidActionf("it is side %s's turn", b.Active)
	case b.policies[side] != nil:
		return errors.InvalidActionf("side %s is AI controlled", side)
	case b.autoAdvance:
		return errors.InvalidAction("no play is possible this turn")
	case b.endRequested:
		return errors.InvalidAction("turn already ended")
	}
	return nil
}

// AwaitingInput reports whether the engine is blocked on the interactive
// active side.
func (b *Battle) AwaitingInput() (Side, bool) {
	if b.Phase != PhasePlaying || b.policies[b.Active] != nil || b.autoAdvance || b.endRequested {
		return 0, false
	}
	return b.Active, true
}

// LegalPlays lists every Hand→Waiting move side may make now.
func (b *Battle) LegalPlays(side Side) []Play {
	if b.Phase != PhasePlaying || side != b.Active || b.autoAdvance || b.CardsPlayed >= b.cfg.MaxPlaysPerTurn {
		return nil
	}
	z := b.Board.Sides[side]
	var plays []Play
	for h := range z.Hand {
		for s, c := range z.Waiting {
			if c == nil {
				plays = append(plays, Play{HandIndex: h, Slot: s})
			}
		}
	}
	return plays
}

// DrainAnimations returns every descriptor emitted since the last drain.
func (b *Battle) DrainAnimations() []anim.Descriptor {
	return b.queue.Drain()
}

// Winner returns the winning side once the battle is over. A draw or an
// aborted battle has no winner.
func (b *Battle) Winner() (Side, bool) {
	return b.winner, b.hasWinner
}

// Over reports whether the battle reached GameOver.
func (b *Battle) Over() bool {
	return b.Phase == PhaseGameOver
}

// Diagnostic returns the invariant violation that aborted the battle, if
// any.
func (b *Battle) Diagnostic() *errors.Error {
	return b.diagnostic
}

// --- Phase machine ---

func (b *Battle) step() {
	switch b.Phase {
	case PhasePlaying:
		b.stepPlaying()
	case PhaseAttacking:
		if !b.attackNext() {
			b.transition(PhaseCleanup)
		}
	case PhaseCleanup:
		b.transition(PhaseCompact)
	case PhaseCompact:
		b.transition(PhaseFinish)
	case PhaseFinish:
		b.stepFinish()
	}
}

// transition enters phase p and runs its entry action. Invariants are
// checked once the entry action is done.
func (b *Battle) transition(p Phase) {
	if b.Phase == PhasePlaying && p == PhaseAttacking {
		b.playsAtEnd += b.turnPlays
	}
	b.Phase = p
	b.log(log.NewPhaseChangeEvent(b.Turn, int(b.Active), p.String()))

	switch p {
	case PhasePlaying:
		b.enterPlaying()
	case PhaseAttacking:
		b.enterAttacking()
	case PhaseCleanup:
		b.cleanup()
	case PhaseCompact:
		b.Board.CompactBattle(b.Active)
		b.Board.CompactBattle(b.Active.Opponent())
	case PhaseFinish:
		b.enterFinish()
	case PhaseGameOver:
		return
	}

	if err := b.checkInvariants(); err != nil {
		b.abort(err)
	}
}

func (b *Battle) enterPlaying() {
	side := b.Active
	b.CardsPlayed = 0
	b.turnPlays = 0
	b.autoAdvance = false
	b.endRequested = false
	b.aiThinking = false
	b.aiDone = false
	b.log(log.NewTurnEvent(b.Turn, int(side)))

	// Cards that became ready off-cycle (rebirth, haste) deploy now.
	b.promote(side)
	b.runHooks(side, TriggerTurnStart)

	if c, ok := b.Board.Draw(side); ok {
		b.log(log.NewDrawEvent(b.Turn, b.Phase.String(), int(side), c.Name()))
	}
	if len(b.LegalPlays(side)) == 0 {
		b.CardsPlayed = b.cfg.MaxPlaysPerTurn
		b.autoAdvance = true
		b.delay = b.cfg.EmptyHandDelay
	}
}

func (b *Battle) stepPlaying() {
	side := b.Active
	switch {
	case b.autoAdvance, b.endRequested:
		b.transition(PhaseAttacking)
	case b.policies[side] == nil:
		// waiting on SubmitPlay / SubmitEndTurn
	case b.aiDone:
		b.transition(PhaseAttacking)
	case !b.aiThinking:
		b.aiThinking = true
		b.delay = b.cfg.ThinkDelay
	default:
		b.aiThinking = false
		legal := b.LegalPlays(side)
		choice, ok := b.policies[side].ChoosePlay(b.ObserveState(), legal, b.rng)
		if !ok || !containsPlay(legal, choice) {
			b.slog.Warn("policy returned no legal play", "side", side.String(), "ok", ok, "play", choice.String())
			if len(legal) == 0 {
				b.CardsPlayed = b.cfg.MaxPlaysPerTurn
				b.aiDone = true
				return
			}
			choice = legal[0]
		}
		if _, err := b.play(side, choice.HandIndex, choice.Slot); err != nil {
			b.slog.Error("AI play failed", "side", side.String(), "error", err)
			b.CardsPlayed = b.cfg.MaxPlaysPerTurn
		}
		if b.CardsPlayed >= b.cfg.MaxPlaysPerTurn {
			b.aiDone = true
		}
	}
}

func containsPlay(plays []Play, p Play) bool {
	for _, q := range plays {
		if q == p {
			return true
		}
	}
	return false
}

// play performs a Hand→Waiting move and counts it.
func (b *Battle) play(side Side, handIndex, slot int) (*CardInstance, error) {
	card, err := b.Board.Play(side, handIndex, slot)
	if err != nil {
		return nil, err
	}
	b.CardsPlayed++
	b.turnPlays++
	b.log(log.NewPlayEvent(b.Turn, int(side), card.Name(), slot, card.CD))
	// Nothing more can be played: treat the quota as met.
	if b.CardsPlayed < b.cfg.MaxPlaysPerTurn && len(b.LegalPlays(side)) == 0 {
		b.CardsPlayed = b.cfg.MaxPlaysPerTurn
	}
	return card, nil
}

func (b *Battle) enterAttacking() {
	b.Board.TickCD(b.Active)
	b.promote(b.Active)
	b.nextAttacker = 0
}

// promote deploys ready waiting cards and fires their OnDeploy effects.
// Deploy effects may put new ready cards into Waiting, so it repeats until
// nothing moves.
func (b *Battle) promote(side Side) {
	for {
		moved := b.Board.PromoteReady(side)
		if len(moved) == 0 {
			return
		}
		for _, p := range moved {
			b.log(log.NewPromoteEvent(b.Turn, b.Phase.String(), int(side), p.Card.Name(), p.From, p.To))
			bc := b.newContext(side)
			bc.AttackerSlot = p.To
			bc.DefenderSlot = Opposite(p.To)
			b.runEffects(bc, p.Card, side, TriggerOnDeploy)
		}
	}
}

// attackNext resolves the next living attacker. Returns false when every
// slot has been handled.
func (b *Battle) attackNext() bool {
	z := b.Board.Sides[b.Active]
	for b.nextAttacker < BattleSlots {
		slot := b.nextAttacker
		b.nextAttacker++
		if c := z.Battle[slot]; c != nil && c.Alive() {
			b.resolveAttack(slot)
			return true
		}
	}
	return false
}

func (b *Battle) enterFinish() {
	b.runHooks(b.Active, TriggerTurnEnd)

	var lost [2]bool
	for _, side := range []Side{SideA, SideB} {
		lost[side] = b.HP[side] <= 0 || b.Board.Sides[side].InPlay() == 0
	}
	switch {
	case lost[SideA] && lost[SideB]:
		b.decided = true
		b.log(log.NewDrawGameEvent(b.Turn, b.Phase.String(), "both sides defeated"))
	case lost[SideA]:
		b.finish(SideB)
	case lost[SideB]:
		b.finish(SideA)
	}
}

func (b *Battle) finish(winner Side) {
	b.decided = true
	b.hasWinner = true
	b.winner = winner
	reason := "opponent has no cards left"
	if b.HP[winner.Opponent()] <= 0 {
		reason = "opponent HP reached 0"
	}
	b.log(log.NewWinEvent(b.Turn, b.Phase.String(), int(winner), reason))
}

func (b *Battle) stepFinish() {
	if b.decided {
		b.transition(PhaseGameOver)
		return
	}
	next := b.Active.Opponent()
	if next == SideA {
		if b.Turn >= b.cfg.MaxTurns && b.cfg.MaxTurns > 0 {
			b.decided = true
			b.log(log.NewDrawGameEvent(b.Turn, b.Phase.String(), "turn limit reached"))
			b.transition(PhaseGameOver)
			return
		}
		b.Turn++
	}
	b.Active = next
	b.transition(PhasePlaying)
}

// runHooks fires a turn-level trigger for the side's living battle cards.
func (b *Battle) runHooks(side Side, trig Trigger) {
	for slot, c := range b.Board.Sides[side].Battle {
		if c == nil || !c.Alive() || b.silenced(c) {
			continue
		}
		bc := b.newContext(side)
		bc.AttackerSlot = slot
		bc.DefenderSlot = Opposite(slot)
		b.runEffects(bc, c, side, trig)
	}
}

// runEffects fires card's effects for trig in trait order.
func (b *Battle) runEffects(bc *BattleContext, card *CardInstance, side Side, trig Trigger) {
	for _, s := range card.Skills {
		for _, e := range s.Effects() {
			if e.Trigger != trig {
				continue
			}
			bc.Source = card
			bc.SourceSide = side
			if e.CanTrigger != nil && !e.CanTrigger(bc, s) {
				continue
			}
			if e.Animate != nil {
				for _, d := range e.Animate(bc, s) {
					b.queue.Push(d)
				}
			}
			e.Execute(bc, s)
		}
	}
}

// silenced reports whether ci sits in a battle slot facing a living card
// with Silence.
func (b *Battle) silenced(ci *CardInstance) bool {
	slot := b.Board.BattleSlot(ci)
	if slot < 0 {
		return false
	}
	opp := b.Board.OppositeCard(ci.Owner, slot)
	return opp != nil && opp.HasSkill(SkillSilence)
}

// abort ends the battle with no winner after an invariant violation.
func (b *Battle) abort(err *errors.Error) {
	b.diagnostic = err.WithMeta("turn", b.Turn).WithMeta("phase", b.Phase.String())
	b.slog.Error("battle aborted", "error", err, "turn", b.Turn, "phase", b.Phase.String())
	b.log(log.NewInvariantViolationEvent(b.Turn, b.Phase.String(), int(b.Active), err.Message))
	b.hasWinner = false
	b.decided = true
	b.Phase = PhaseGameOver
}
