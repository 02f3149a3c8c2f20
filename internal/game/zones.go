package game

import (
	"github.com/peterkuimelis/cardclash/internal/anim"
	"github.com/peterkuimelis/cardclash/internal/config"
	"github.com/peterkuimelis/cardclash/internal/errors"
)

// Zones holds one side's cards.
type Zones struct {
	Deck    []*CardInstance // front of deck is index 0
	Hand    []*CardInstance
	Waiting [WaitingSlots]*CardInstance
	Battle  [BattleSlots]*CardInstance
	Discard []*CardInstance // oldest first
}

// InPlay counts cards in Hand, Waiting and Battle.
func (z *Zones) InPlay() int {
	n := len(z.Hand)
	for _, c := range z.Waiting {
		if c != nil {
			n++
		}
	}
	for _, c := range z.Battle {
		if c != nil {
			n++
		}
	}
	return n
}

// All returns every instance in the side's zones.
func (z *Zones) All() []*CardInstance {
	out := make([]*CardInstance, 0, len(z.Deck)+len(z.Hand)+len(z.Discard)+WaitingSlots+BattleSlots)
	out = append(out, z.Deck...)
	out = append(out, z.Hand...)
	for _, c := range z.Waiting {
		if c != nil {
			out = append(out, c)
		}
	}
	for _, c := range z.Battle {
		if c != nil {
			out = append(out, c)
		}
	}
	return append(out, z.Discard...)
}

// Board owns both sides' zones and is the only authority on where a card
// is. Every movement pushes at most one descriptor onto the queue.
type Board struct {
	Sides  [2]*Zones
	queue  *anim.Queue
	timing config.Timing
	moves  int // Hand→Waiting plays
}

func NewBoard(queue *anim.Queue, timing config.Timing) *Board {
	return &Board{
		Sides:  [2]*Zones{{}, {}},
		queue:  queue,
		timing: timing,
	}
}

func (bd *Board) push(d anim.Descriptor) {
	if bd.queue != nil {
		bd.queue.Push(d)
	}
}

// Moves counts every Hand→Waiting play so far.
func (bd *Board) Moves() int {
	return bd.moves
}

// --- Geometry ---

// Opposite returns the battle slot facing slot on the other side. Slot i
// faces slot i.
func Opposite(slot int) int {
	return slot
}

// FirstWaiting returns the leftmost occupied waiting slot, or -1.
func (bd *Board) FirstWaiting(side Side) int {
	for i, c := range bd.Sides[side].Waiting {
		if c != nil {
			return i
		}
	}
	return -1
}

// FirstFreeWaiting returns the leftmost empty waiting slot, or -1.
func (bd *Board) FirstFreeWaiting(side Side) int {
	for i, c := range bd.Sides[side].Waiting {
		if c == nil {
			return i
		}
	}
	return -1
}

// FreeWaitingSlots counts empty waiting slots.
func (bd *Board) FreeWaitingSlots(side Side) int {
	n := 0
	for _, c := range bd.Sides[side].Waiting {
		if c == nil {
			n++
		}
	}
	return n
}

// FirstFreeBattle returns the leftmost empty battle slot, or -1.
func (bd *Board) FirstFreeBattle(side Side) int {
	for i, c := range bd.Sides[side].Battle {
		if c == nil {
			return i
		}
	}
	return -1
}

// LivingBattle returns the side's living battle cards in slot order.
func (bd *Board) LivingBattle(side Side) []*CardInstance {
	var out []*CardInstance
	for _, c := range bd.Sides[side].Battle {
		if c != nil && c.Alive() {
			out = append(out, c)
		}
	}
	return out
}

// OppositeCard returns the living card facing the given battle slot, or nil.
func (bd *Board) OppositeCard(side Side, slot int) *CardInstance {
	if slot < 0 || slot >= BattleSlots {
		return nil
	}
	c := bd.Sides[side.Opponent()].Battle[Opposite(slot)]
	if c == nil || !c.Alive() {
		return nil
	}
	return c
}

// Locate finds where ci currently sits in its owner's zones.
func (bd *Board) Locate(ci *CardInstance) (anim.Loc, bool) {
	side := int(ci.Owner)
	z := bd.Sides[ci.Owner]
	for i, c := range z.Battle {
		if c == ci {
			return anim.Battle(side, i), true
		}
	}
	for i, c := range z.Waiting {
		if c == ci {
			return anim.Waiting(side, i), true
		}
	}
	for i, c := range z.Hand {
		if c == ci {
			return anim.Hand(side, i), true
		}
	}
	for _, c := range z.Deck {
		if c == ci {
			return anim.Deck(side), true
		}
	}
	for _, c := range z.Discard {
		if c == ci {
			return anim.Discard(side), true
		}
	}
	return anim.Loc{}, false
}

// BattleSlot returns ci's battle slot, or -1.
func (bd *Board) BattleSlot(ci *CardInstance) int {
	for i, c := range bd.Sides[ci.Owner].Battle {
		if c == ci {
			return i
		}
	}
	return -1
}

// --- Primitive operations ---

// Draw moves the front of the deck to the hand. Returns false when the deck
// is empty.
func (bd *Board) Draw(side Side) (*CardInstance, bool) {
	z := bd.Sides[side]
	if len(z.Deck) == 0 {
		return nil, false
	}
	card := z.Deck[0]
	z.Deck = z.Deck[1:]
	z.Hand = append(z.Hand, card)
	bd.push(anim.CardDraw{Card: card.Def.Name, Side: int(side), HandSlot: len(z.Hand) - 1, Duration: bd.timing.Draw})
	return card, true
}

// Play moves a hand card into an empty waiting slot.
func (bd *Board) Play(side Side, handIndex, slot int) (*CardInstance, error) {
	z := bd.Sides[side]
	if handIndex < 0 || handIndex >= len(z.Hand) {
		return nil, errors.InvalidActionf("hand index %d out of range (hand has %d)", handIndex, len(z.Hand))
	}
	if slot < 0 || slot >= WaitingSlots {
		return nil, errors.InvalidActionf("waiting slot %d out of range", slot)
	}
	if z.Waiting[slot] != nil {
		return nil, errors.InvalidActionf("waiting slot %d is occupied", slot)
	}
	card := z.Hand[handIndex]
	z.Hand = append(z.Hand[:handIndex], z.Hand[handIndex+1:]...)
	z.Waiting[slot] = card
	bd.moves++
	bd.push(anim.CardMove{
		Card:     card.Def.Name,
		From:     anim.Hand(int(side), handIndex),
		To:       anim.Waiting(int(side), slot),
		Duration: bd.timing.Move,
	})
	return card, nil
}

// TickCD lowers every waiting card's cooldown by one, never below zero.
func (bd *Board) TickCD(side Side) {
	for _, c := range bd.Sides[side].Waiting {
		if c != nil && c.CD > 0 {
			c.CD--
		}
	}
}

// Promotion records one Waiting→Battle move.
type Promotion struct {
	Card *CardInstance
	From int
	To   int
}

// PromoteReady moves every ready waiting card, left to right, into the
// first empty battle slot. Stops once Battle is full.
func (bd *Board) PromoteReady(side Side) []Promotion {
	z := bd.Sides[side]
	var moved []Promotion
	for i, c := range z.Waiting {
		if c == nil || c.CD > 0 {
			continue
		}
		to := bd.FirstFreeBattle(side)
		if to < 0 {
			break
		}
		z.Waiting[i] = nil
		z.Battle[to] = c
		bd.push(anim.CardMove{
			Card:     c.Def.Name,
			From:     anim.Waiting(int(side), i),
			To:       anim.Battle(int(side), to),
			Duration: bd.timing.Move,
		})
		moved = append(moved, Promotion{Card: c, From: i, To: to})
	}
	return moved
}

// CompactBattle shifts battle cards left over any holes, keeping order.
// Returns the number of cards moved.
func (bd *Board) CompactBattle(side Side) int {
	z := bd.Sides[side]
	next, moved := 0, 0
	for i, c := range z.Battle {
		if c == nil {
			continue
		}
		if i != next {
			z.Battle[next] = c
			z.Battle[i] = nil
			bd.push(anim.Slide{Side: int(side), From: i, To: next, Duration: bd.timing.Slide})
			moved++
		}
		next++
	}
	return moved
}

// remove takes ci out of whichever zone holds it.
func (bd *Board) remove(ci *CardInstance) (anim.Loc, bool) {
	loc, ok := bd.Locate(ci)
	if !ok {
		return loc, false
	}
	z := bd.Sides[ci.Owner]
	switch loc.Zone {
	case anim.ZoneBattle:
		z.Battle[loc.Slot] = nil
	case anim.ZoneWaiting:
		z.Waiting[loc.Slot] = nil
	case anim.ZoneHand:
		z.Hand = deleteCard(z.Hand, ci)
	case anim.ZoneDeck:
		z.Deck = deleteCard(z.Deck, ci)
	case anim.ZoneDiscard:
		z.Discard = deleteCard(z.Discard, ci)
	}
	return loc, true
}

func deleteCard(cards []*CardInstance, ci *CardInstance) []*CardInstance {
	for i, c := range cards {
		if c == ci {
			return append(cards[:i], cards[i+1:]...)
		}
	}
	return cards
}

// MoveToDiscard sends ci to the back of its owner's discard.
func (bd *Board) MoveToDiscard(side Side, ci *CardInstance) {
	from, _ := bd.remove(ci)
	bd.Sides[side].Discard = append(bd.Sides[side].Discard, ci)
	bd.push(anim.CardMove{Card: ci.Def.Name, From: from, To: anim.Discard(int(side)), Duration: bd.timing.Move, Fade: true})
}

// ReturnToHand moves ci to the end of the hand with printed stats.
func (bd *Board) ReturnToHand(side Side, ci *CardInstance) {
	from, _ := bd.remove(ci)
	ci.resetStats()
	z := bd.Sides[side]
	z.Hand = append(z.Hand, ci)
	bd.push(anim.CardMove{Card: ci.Def.Name, From: from, To: anim.Hand(int(side), len(z.Hand)-1), Duration: bd.timing.Move})
}

// PlaceWaiting moves ci into the first empty waiting slot with printed
// stats and a full cooldown. Returns false, leaving ci where it was, when
// Waiting is full.
func (bd *Board) PlaceWaiting(side Side, ci *CardInstance) (int, bool) {
	slot := bd.FirstFreeWaiting(side)
	if slot < 0 {
		return -1, false
	}
	from, _ := bd.remove(ci)
	ci.resetStats()
	bd.Sides[side].Waiting[slot] = ci
	bd.push(anim.CardMove{Card: ci.Def.Name, From: from, To: anim.Waiting(int(side), slot), Duration: bd.timing.Move})
	return slot, true
}

// Spawn puts a fresh instance that belongs to no zone yet into the first
// empty waiting slot, animating it out of source.
func (bd *Board) Spawn(side Side, ci *CardInstance, source anim.Loc) (int, bool) {
	slot := bd.FirstFreeWaiting(side)
	if slot < 0 {
		return -1, false
	}
	bd.Sides[side].Waiting[slot] = ci
	bd.push(anim.CardMove{Card: ci.Def.Name, From: source, To: anim.Waiting(int(side), slot), Duration: bd.timing.Move})
	return slot, true
}

// Vanish removes ci from the board entirely.
func (bd *Board) Vanish(ci *CardInstance) {
	from, ok := bd.remove(ci)
	if !ok {
		return
	}
	bd.push(anim.CardMove{Card: ci.Def.Name, From: from, To: from, Duration: bd.timing.Move, Fade: true})
}

// Revive moves the n oldest discard cards into Waiting with a full
// cooldown. Fails without moving anything when the discard holds fewer
// than n cards or Waiting lacks n empty slots.
func (bd *Board) Revive(side Side, n int) ([]*CardInstance, bool) {
	z := bd.Sides[side]
	if n <= 0 || len(z.Discard) < n || bd.FreeWaitingSlots(side) < n {
		return nil, false
	}
	revived := append([]*CardInstance(nil), z.Discard[:n]...)
	for _, c := range revived {
		bd.PlaceWaiting(side, c)
	}
	return revived, true
}

// Shuffle randomizes the side's deck.
func (bd *Board) Shuffle(side Side, rng Rand) {
	deck := bd.Sides[side].Deck
	rng.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})
}
