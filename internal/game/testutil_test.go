package game

import (
	"testing"

	"github.com/peterkuimelis/cardclash/internal/anim"
	"github.com/peterkuimelis/cardclash/internal/log"
)

// scriptedRand replays fixed values. IntN falls back to 0 and Float64 to
// 0.99 (every dodge fails) once the script runs out. Shuffle is a no-op.
type scriptedRand struct {
	ints   []int
	floats []float64
}

func (r *scriptedRand) IntN(n int) int {
	if len(r.ints) == 0 {
		return 0
	}
	v := r.ints[0]
	r.ints = r.ints[1:]
	return v % n
}

func (r *scriptedRand) Float64() float64 {
	if len(r.floats) == 0 {
		return 0.99
	}
	v := r.floats[0]
	r.floats = r.floats[1:]
	return v
}

func (r *scriptedRand) Shuffle(n int, swap func(i, j int)) {}

var testSkills = NewSkillCatalog()

// card builds a definition with its traits resolved.
func card(name string, atk, hp, cd int, traits ...string) *CardDef {
	return &CardDef{
		ID:     name,
		Name:   name,
		ATK:    atk,
		HP:     hp,
		CD:     cd,
		Traits: traits,
		Skills: testSkills.Resolve(traits),
	}
}

func copies(def *CardDef, n int) []*CardDef {
	out := make([]*CardDef, n)
	for i := range out {
		out[i] = def
	}
	return out
}

// scenario is a battle with empty decks whose zones a test fills by hand.
type scenario struct {
	t      *testing.T
	b      *Battle
	rng    *scriptedRand
	logger *log.MemoryLogger
	anims  []anim.Descriptor
}

func newScenario(t *testing.T) *scenario {
	t.Helper()
	rng := &scriptedRand{}
	logger := log.NewMemoryLogger()
	b := NewBattle(BattleConfig{Rand: rng, Logger: logger, NoShuffle: true})
	b.DrainAnimations()
	return &scenario{t: t, b: b, rng: rng, logger: logger}
}

func (s *scenario) battle(side Side, slot int, def *CardDef) *CardInstance {
	ci := s.b.newInstance(def, side)
	s.b.Board.Sides[side].Battle[slot] = ci
	return ci
}

func (s *scenario) waiting(side Side, slot int, def *CardDef) *CardInstance {
	ci := s.b.newInstance(def, side)
	s.b.Board.Sides[side].Waiting[slot] = ci
	return ci
}

func (s *scenario) hand(side Side, def *CardDef) *CardInstance {
	ci := s.b.newInstance(def, side)
	z := s.b.Board.Sides[side]
	z.Hand = append(z.Hand, ci)
	return ci
}

func (s *scenario) deck(side Side, def *CardDef) *CardInstance {
	ci := s.b.newInstance(def, side)
	z := s.b.Board.Sides[side]
	z.Deck = append(z.Deck, ci)
	return ci
}

func (s *scenario) discard(side Side, def *CardDef) *CardInstance {
	ci := s.b.newInstance(def, side)
	z := s.b.Board.Sides[side]
	z.Discard = append(z.Discard, ci)
	return ci
}

// attack runs side's Attacking phase over the hand-built board and stops
// once Cleanup has buried the dead. Descriptors emitted along the way are
// collected in s.anims.
func (s *scenario) attack(side Side) {
	s.t.Helper()
	b := s.b
	b.Active = side
	b.Phase = PhasePlaying
	b.CardsPlayed = b.cfg.MaxPlaysPerTurn
	b.baseline()
	b.DrainAnimations()
	b.queue.TakeWait()

	b.transition(PhaseAttacking)
	for b.Phase == PhaseAttacking {
		b.step()
	}
	s.anims = b.DrainAnimations()
	if d := b.Diagnostic(); d != nil {
		s.t.Fatalf("battle aborted: %v", d)
	}
}

// finishTurn steps from Cleanup through Compact into Finish and past it.
func (s *scenario) finishTurn() {
	s.t.Helper()
	for i := 0; i < 3 && !s.b.Over(); i++ {
		s.b.step()
	}
}

// kinds filters the collected descriptors to the given kinds, in order.
func (s *scenario) kinds(want ...anim.Kind) []anim.Descriptor {
	var out []anim.Descriptor
	for _, d := range s.anims {
		for _, k := range want {
			if d.Kind() == k {
				out = append(out, d)
				break
			}
		}
	}
	return out
}

func (s *scenario) dump() {
	s.t.Logf("Battle log:\n%s", log.FormatAll(s.logger.Events()))
}

// runToEnd ticks b until GameOver.
func runToEnd(t *testing.T, b *Battle) []anim.Descriptor {
	t.Helper()
	var out []anim.Descriptor
	for i := 0; !b.Over(); i++ {
		if i > 200000 {
			t.Fatalf("battle did not finish: turn %d phase %s", b.Turn, b.Phase)
		}
		b.Tick(b.PendingWait())
		out = append(out, b.DrainAnimations()...)
	}
	return out
}

// mixedPool covers every skill family.
func mixedPool() []*CardDef {
	return []*CardDef{
		card("Grunt", 2, 4, 1),
		card("Pyro", 2, 3, 2, "火球2"),
		card("Frost", 1, 4, 2, "群体冰封1"),
		card("Spark", 1, 3, 1, "闪电1", "闪避1"),
		card("Cannon", 2, 4, 3, "炮击3"),
		card("Blaster", 1, 4, 3, "群体爆破1"),
		card("Knight", 2, 6, 2, "防御1", "反击1"),
		card("Breaker", 3, 3, 1, "破甲2"),
		card("Medic", 1, 5, 2, "治愈2", "群体治愈1"),
		card("Troll", 2, 5, 2, "恢复1", "狂暴"),
		card("Bat", 2, 3, 1, "吸血1"),
		card("Zealot", 4, 4, 1, "受伤1"),
		card("Sage", 1, 3, 2, "抽卡1"),
		card("Shaman", 1, 4, 3, "还魂1"),
		card("Herald", 1, 3, 1, "加速1", "延迟1"),
		card("Cleric", 1, 4, 2, "祝福1", "群体祝福1"),
		card("Bard", 1, 3, 1, "振奋1", "群体振奋1"),
		card("Witch", 1, 4, 2, "诅咒1"),
		card("Bomb", 3, 2, 0, "自毁", "爆裂"),
		card("Mute", 1, 5, 2, "沉默"),
		card("Golem", 1, 6, 2, "免疫"),
		card("Lich", 2, 3, 2, "不死"),
		card("Phoenix", 2, 3, 2, "复活"),
		card("Twin", 1, 2, 1, "分身"),
		card("Mimic", 0, 1, 1, "复制"),
	}
}

func randomDeck(rng Rand, pool []*CardDef, n int) []*CardDef {
	deck := make([]*CardDef, n)
	for i := range deck {
		deck[i] = pool[rng.IntN(len(pool))]
	}
	return deck
}
