package game

import (
	"testing"

	"github.com/peterkuimelis/cardclash/internal/anim"
	"github.com/peterkuimelis/cardclash/internal/config"
	"github.com/peterkuimelis/cardclash/internal/errors"
)

func newTestBoard() (*Board, *anim.Queue) {
	q := anim.NewQueue()
	return NewBoard(q, config.DefaultTiming()), q
}

func inst(def *CardDef, id int, side Side) *CardInstance {
	return NewInstance(def, id, side)
}

func TestBoardPlayValidates(t *testing.T) {
	bd, q := newTestBoard()
	z := bd.Sides[SideA]
	a := inst(card("A", 1, 1, 2), 1, SideA)
	b := inst(card("B", 1, 1, 2), 2, SideA)
	z.Hand = []*CardInstance{a, b}
	z.Waiting[1] = inst(card("Blocker", 1, 1, 2), 3, SideA)

	for _, tc := range []struct{ hand, slot int }{{-1, 0}, {2, 0}, {0, -1}, {0, WaitingSlots}, {0, 1}} {
		if _, err := bd.Play(SideA, tc.hand, tc.slot); !errors.HasCode(err, errors.CodeInvalidAction) {
			t.Errorf("Play(%d, %d): expected invalid action, got %v", tc.hand, tc.slot, err)
		}
	}
	if bd.Moves() != 0 || q.Len() != 0 {
		t.Fatal("rejected plays must not move anything")
	}

	got, err := bd.Play(SideA, 1, 4)
	if err != nil {
		t.Fatal(err)
	}
	if got != b || z.Waiting[4] != b || len(z.Hand) != 1 || z.Hand[0] != a {
		t.Errorf("unexpected zones after play: hand %v waiting %v", z.Hand, z.Waiting)
	}
	if bd.Moves() != 1 {
		t.Errorf("expected 1 move, got %d", bd.Moves())
	}
	ds := q.Drain()
	if len(ds) != 1 {
		t.Fatalf("expected one descriptor, got %d", len(ds))
	}
	mv := ds[0].(anim.CardMove)
	if mv.From != anim.Hand(0, 1) || mv.To != anim.Waiting(0, 4) {
		t.Errorf("unexpected move %+v", mv)
	}
}

func TestPromoteReadyFillsLeftmostFreeSlots(t *testing.T) {
	bd, _ := newTestBoard()
	z := bd.Sides[SideB]
	z.Battle[0] = inst(card("Front", 1, 1, 0), 1, SideB)
	z.Battle[2] = inst(card("Mid", 1, 1, 0), 2, SideB)
	r1 := inst(card("R1", 1, 1, 0), 3, SideB)
	slow := inst(card("Slow", 1, 1, 2), 4, SideB)
	r2 := inst(card("R2", 1, 1, 0), 5, SideB)
	z.Waiting[1], z.Waiting[3], z.Waiting[6] = r1, slow, r2

	moved := bd.PromoteReady(SideB)

	if len(moved) != 2 {
		t.Fatalf("expected 2 promotions, got %d", len(moved))
	}
	if z.Battle[1] != r1 || z.Battle[3] != r2 {
		t.Errorf("expected R1 in slot 1 and R2 in slot 3, got %v", z.Battle)
	}
	if z.Waiting[3] != slow || z.Waiting[1] != nil || z.Waiting[6] != nil {
		t.Errorf("unexpected waiting row %v", z.Waiting)
	}
	if moved[0].From != 1 || moved[0].To != 1 || moved[1].From != 6 || moved[1].To != 3 {
		t.Errorf("unexpected promotions %+v", moved)
	}
}

func TestPromoteReadyStopsWhenBattleFull(t *testing.T) {
	bd, _ := newTestBoard()
	z := bd.Sides[SideA]
	for i := range BattleSlots - 1 {
		z.Battle[i] = inst(card("F", 1, 1, 0), i+1, SideA)
	}
	first := inst(card("First", 1, 1, 0), 10, SideA)
	second := inst(card("Second", 1, 1, 0), 11, SideA)
	z.Waiting[0], z.Waiting[1] = first, second

	bd.PromoteReady(SideA)

	if z.Battle[BattleSlots-1] != first || z.Waiting[1] != second {
		t.Errorf("expected only the leftmost ready card promoted, battle %v waiting %v", z.Battle, z.Waiting)
	}
}

func TestCompactBattleKeepsOrder(t *testing.T) {
	bd, q := newTestBoard()
	z := bd.Sides[SideA]
	a := inst(card("A", 1, 1, 0), 1, SideA)
	b := inst(card("B", 1, 1, 0), 2, SideA)
	c := inst(card("C", 1, 1, 0), 3, SideA)
	z.Battle = [BattleSlots]*CardInstance{a, nil, b, nil, c}

	if n := bd.CompactBattle(SideA); n != 2 {
		t.Errorf("expected 2 cards moved, got %d", n)
	}
	if z.Battle != [BattleSlots]*CardInstance{a, b, c, nil, nil} {
		t.Errorf("unexpected battle row %v", z.Battle)
	}
	slides := q.Drain()
	if len(slides) != 2 || slides[0].(anim.Slide).From != 2 || slides[1].(anim.Slide).To != 2 {
		t.Errorf("unexpected slides %+v", slides)
	}
}

func TestTickCDFloorsAtZero(t *testing.T) {
	bd, _ := newTestBoard()
	z := bd.Sides[SideA]
	z.Waiting[0] = inst(card("Zero", 1, 1, 0), 1, SideA)
	z.Waiting[5] = inst(card("Two", 1, 1, 2), 2, SideA)

	bd.TickCD(SideA)

	if z.Waiting[0].CD != 0 || z.Waiting[5].CD != 1 {
		t.Errorf("expected cds 0 and 1, got %d and %d", z.Waiting[0].CD, z.Waiting[5].CD)
	}
}

func TestReviveIsAllOrNothing(t *testing.T) {
	bd, _ := newTestBoard()
	z := bd.Sides[SideA]
	dead := inst(card("Dead", 1, 2, 1), 1, SideA)
	dead.HP = 0
	z.Discard = []*CardInstance{dead}

	if _, ok := bd.Revive(SideA, 2); ok {
		t.Fatal("revive should fail with too few discards")
	}
	if len(z.Discard) != 1 || bd.FirstWaiting(SideA) != -1 {
		t.Fatal("a failed revive must not move anything")
	}

	for i := range WaitingSlots {
		z.Waiting[i] = inst(card("W", 1, 1, 3), 10+i, SideA)
	}
	if _, ok := bd.Revive(SideA, 1); ok {
		t.Fatal("revive should fail with a full waiting row")
	}

	z.Waiting[3] = nil
	revived, ok := bd.Revive(SideA, 1)
	if !ok || len(revived) != 1 || z.Waiting[3] != dead {
		t.Fatalf("expected dead card revived into slot 3, got %v", z.Waiting)
	}
	if dead.HP != 2 || dead.CD != 1 || len(z.Discard) != 0 {
		t.Errorf("expected reset stats and empty discard, got hp %d cd %d discard %d", dead.HP, dead.CD, len(z.Discard))
	}
}

func TestDrawFromEmptyDeck(t *testing.T) {
	bd, q := newTestBoard()
	if _, ok := bd.Draw(SideB); ok {
		t.Error("drawing from an empty deck should fail")
	}
	if q.Len() != 0 {
		t.Error("a failed draw should emit nothing")
	}

	c := inst(card("Top", 1, 1, 1), 1, SideB)
	bd.Sides[SideB].Deck = []*CardInstance{c, inst(card("Next", 1, 1, 1), 2, SideB)}
	got, ok := bd.Draw(SideB)
	if !ok || got != c || len(bd.Sides[SideB].Hand) != 1 || len(bd.Sides[SideB].Deck) != 1 {
		t.Error("expected the top card drawn into the hand")
	}
}

func TestLocateAndMoves(t *testing.T) {
	bd, q := newTestBoard()
	c := inst(card("Mover", 2, 3, 1), 1, SideA)
	c.ATK = 9
	bd.Sides[SideA].Battle[2] = c

	if loc, ok := bd.Locate(c); !ok || loc != anim.Battle(0, 2) {
		t.Errorf("expected battle 2, got %+v", loc)
	}

	bd.MoveToDiscard(SideA, c)
	if loc, _ := bd.Locate(c); loc != anim.Discard(0) {
		t.Errorf("expected discard, got %+v", loc)
	}
	if c.ATK != 9 {
		t.Error("the discard keeps stats as they were")
	}

	bd.ReturnToHand(SideA, c)
	if loc, _ := bd.Locate(c); loc != anim.Hand(0, 0) {
		t.Errorf("expected hand 0, got %+v", loc)
	}
	if c.ATK != 2 {
		t.Errorf("returning to hand restores printed stats, atk %d", c.ATK)
	}
	if len(bd.Sides[SideA].Discard) != 0 {
		t.Error("card still in the discard")
	}
	if n := q.Len(); n != 2 {
		t.Errorf("expected one descriptor per movement, got %d", n)
	}
}
