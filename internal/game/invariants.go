package game

import "github.com/peterkuimelis/cardclash/internal/errors"

// baseline records each side's non-token card count. No card ever leaves a
// battle, so the count must not change.
func (b *Battle) baseline() {
	for side, z := range b.Board.Sides {
		b.initialDeck[side] = countCards(z)
	}
}

func countCards(z *Zones) int {
	n := 0
	for _, c := range z.All() {
		if !c.Token {
			n++
		}
	}
	return n
}

// checkInvariants verifies the zone rules that must hold between phase
// transitions.
func (b *Battle) checkInvariants() *errors.Error {
	seen := make(map[*CardInstance]bool)
	for s, z := range b.Board.Sides {
		side := Side(s)

		for _, c := range z.All() {
			if seen[c] {
				return errors.InvariantViolationf("%s held in two places", c.Name()).WithMeta("side", side.String())
			}
			seen[c] = true
			if c.Owner != side {
				return errors.InvariantViolationf("%s owned by %s sits in side %s's zones", c.Name(), c.Owner, side)
			}
		}

		if n := countCards(z); n != b.initialDeck[side] {
			return errors.InvariantViolationf("side %s holds %d cards, started with %d", side, n, b.initialDeck[side])
		}

		// Holes are expected until Compact runs.
		if b.Phase != PhaseAttacking && b.Phase != PhaseCleanup {
			for i := 1; i < BattleSlots; i++ {
				if z.Battle[i] != nil && z.Battle[i-1] == nil {
					return errors.InvariantViolationf("side %s battle slot %d occupied after empty slot %d", side, i, i-1)
				}
			}
		}

		for i, c := range z.Waiting {
			if c == nil {
				continue
			}
			if c.CD < 0 {
				return errors.InvariantViolationf("side %s waiting slot %d has negative cooldown %d", side, i, c.CD)
			}
			if b.Phase == PhasePlaying && side == b.Active && c.CD == 0 && b.Board.FirstFreeBattle(side) >= 0 {
				return errors.InvariantViolationf("side %s waiting slot %d is ready but was not deployed", side, i)
			}
			if !c.Alive() {
				return errors.InvariantViolationf("side %s waiting slot %d holds dead %s", side, i, c.Name())
			}
		}
		for _, c := range z.Hand {
			if !c.Alive() {
				return errors.InvariantViolationf("side %s hand holds dead %s", side, c.Name())
			}
		}
		if b.Phase != PhaseAttacking {
			for i, c := range z.Battle {
				if c != nil && !c.Alive() {
					return errors.InvariantViolationf("side %s battle slot %d holds dead %s", side, i, c.Name())
				}
			}
		}
	}

	if b.Phase == PhasePlaying && b.CardsPlayed > b.cfg.MaxPlaysPerTurn {
		return errors.InvariantViolationf("%d cards played, limit %d", b.CardsPlayed, b.cfg.MaxPlaysPerTurn)
	}
	if b.Phase == PhaseAttacking && b.CardsPlayed != b.cfg.MaxPlaysPerTurn {
		return errors.InvariantViolationf("battling began after %d of %d plays", b.CardsPlayed, b.cfg.MaxPlaysPerTurn)
	}
	return nil
}

// PlayParity returns the number of Hand→Waiting moves the board made and
// the sum of cards played counted at each Playing exit. Outside Playing the
// two are equal.
func (b *Battle) PlayParity() (moves, counted int) {
	return b.Board.Moves(), b.playsAtEnd
}
