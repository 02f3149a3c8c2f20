package game

import "github.com/peterkuimelis/cardclash/internal/log"

// cleanup buries every dead battle card, active side first. Death effects
// can kill more cards, so it repeats until a pass finds no corpse.
func (b *Battle) cleanup() {
	for {
		found := false
		for _, side := range []Side{b.Active, b.Active.Opponent()} {
			for slot := range BattleSlots {
				c := b.Board.Sides[side].Battle[slot]
				if c == nil || c.Alive() {
					continue
				}
				found = true
				b.bury(side, slot, c)
			}
		}
		if !found {
			return
		}
	}
}

// bury routes a dead card through its OnDeath effects: Undying returns it
// to the hand, Rebirth to Waiting once, anything else goes to the discard.
// Tokens vanish.
func (b *Battle) bury(side Side, slot int, c *CardInstance) {
	phase := b.Phase.String()
	if !c.selfDestructed {
		b.log(log.NewDeathEvent(b.Turn, phase, int(side), c.Name()))
	}

	bc := b.newContext(side)
	bc.AttackerSlot = slot
	bc.DefenderSlot = Opposite(slot)
	b.runEffects(bc, c, side, TriggerOnDeath)

	if c.Token {
		b.Board.Vanish(c)
		return
	}
	switch bc.route {
	case routeHand:
		b.Board.ReturnToHand(side, c)
		b.log(log.NewReturnToHandEvent(b.Turn, phase, int(side), c.Name()))
		return
	case routeWaiting:
		if to, ok := b.Board.PlaceWaiting(side, c); ok {
			c.rebirthUsed = true
			b.log(log.NewRebirthEvent(b.Turn, phase, int(side), c.Name(), to, c.CD))
			return
		}
	}
	b.Board.MoveToDiscard(side, c)
	b.log(log.NewDiscardEvent(b.Turn, phase, int(side), c.Name()))
}
