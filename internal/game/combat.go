package game

import (
	"github.com/peterkuimelis/cardclash/internal/anim"
	"github.com/peterkuimelis/cardclash/internal/log"
)

// resolveAttack runs one attacker's full resolution:
//
//  1. attacker BeforeAttack effects (skipped when silenced)
//  2. self-destruct ends the attack here
//  3. attacker OnAttack effects, then the strike on the facing slot or
//     the avatar when that slot is empty
//  4. defender OnDamaged effects mitigate, then damage lands
//  5. defender AfterDamaged effects
//  6. attacker AfterAttack effects (skipped when silenced)
//
// A Pacing descriptor closes every attack.
func (b *Battle) resolveAttack(slot int) {
	side := b.Active
	card := b.Board.Sides[side].Battle[slot]

	bc := b.newContext(side)
	bc.AttackerSlot = slot
	bc.DefenderSlot = Opposite(slot)

	silenced := b.silenced(card)
	if !silenced {
		b.runEffects(bc, card, side, TriggerBeforeAttack)
	}

	if card.selfDestructed {
		card.HP = 0
		b.queue.Push(anim.Explosion{At: anim.Battle(int(side), slot), Duration: b.cfg.Timing.Explosion})
		b.log(log.NewDeathEvent(b.Turn, b.Phase.String(), int(side), card.Name()))
		b.pace()
		return
	}
	if !card.Alive() {
		b.pace()
		return
	}

	bc.Damage = card.ATK
	bc.OriginalDamage = card.ATK
	if !silenced {
		b.runEffects(bc, card, side, TriggerOnAttack)
	}

	defender := b.Board.OppositeCard(side, slot)
	if defender == nil {
		b.strikeAvatar(bc, card)
	} else {
		b.strikeCard(bc, card, defender)
	}

	if !silenced && card.Alive() {
		b.runEffects(bc, card, side, TriggerAfterAttack)
	}
	b.pace()
}

func (b *Battle) strikeAvatar(bc *BattleContext, card *CardInstance) {
	side, foe := bc.AttackerSide, bc.DefenderSide
	dmg := max(0, bc.Damage)
	atk := anim.Attack{Side: int(side), AttackerSlot: bc.AttackerSlot, DefenderSlot: -1, Damage: dmg, Duration: b.cfg.Timing.Attack}
	bc.CurrentAttackAnimation = &atk
	b.queue.Push(atk)

	old := b.HP[foe]
	b.HP[foe] -= dmg
	bc.LastAttackDamage = dmg
	b.log(log.NewDirectAttackEvent(b.Turn, int(side), card.Name(), dmg))
	if dmg > 0 {
		b.queue.Push(anim.Shake{Target: anim.Avatar(int(foe)), Duration: b.cfg.Timing.Shake, Intensity: shakeIntensity(dmg)})
		b.log(log.NewHPChangeEvent(b.Turn, b.Phase.String(), int(foe), old, b.HP[foe], "attack by "+card.Name()))
	}
}

func (b *Battle) strikeCard(bc *BattleContext, card, defender *CardInstance) {
	side, foe := bc.AttackerSide, bc.DefenderSide
	atk := anim.Attack{Side: int(side), AttackerSlot: bc.AttackerSlot, DefenderSlot: bc.DefenderSlot, Damage: bc.Damage, Duration: b.cfg.Timing.Attack}
	bc.CurrentAttackAnimation = &atk
	b.queue.Push(atk)

	defSilenced := b.silenced(defender)
	if !defSilenced {
		b.runEffects(bc, defender, foe, TriggerOnDamaged)
	}

	dmg := max(0, bc.Damage)
	defender.HP -= dmg
	bc.LastDamageTaken = dmg
	bc.LastAttackDamage = dmg
	bc.LastAttackerSlot = bc.AttackerSlot
	b.log(log.NewAttackEvent(b.Turn, int(side), card.Name(), bc.DefenderSlot, defender.Name(), dmg))
	if dmg > 0 {
		b.queue.Push(anim.Shake{Target: anim.Battle(int(foe), bc.DefenderSlot), Duration: b.cfg.Timing.Shake, Intensity: shakeIntensity(dmg)})
		b.log(log.NewDamageEvent(b.Turn, b.Phase.String(), int(foe), defender.Name(), dmg, defender.HP))
	}

	if !defSilenced {
		b.runEffects(bc, defender, foe, TriggerAfterDamaged)
	}
}

func (b *Battle) pace() {
	b.queue.Push(anim.Pacing{Duration: b.cfg.Timing.Pacing})
}
