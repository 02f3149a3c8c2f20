package game

import (
	"github.com/peterkuimelis/cardclash/internal/anim"
	"github.com/peterkuimelis/cardclash/internal/log"
)

type deathRoute int

const (
	routeDiscard deathRoute = iota
	routeHand
	routeWaiting
)

// BattleContext is the transient state of one resolution: an attack, a
// deployment, a death or a turn hook. Effects read and write it; a fresh
// context is built for every resolution.
type BattleContext struct {
	Board *Board
	Rand  Rand

	AttackerSide Side
	AttackerSlot int
	DefenderSide Side
	DefenderSlot int

	Damage         int
	OriginalDamage int

	// Targets picked while animating, reused by Execute.
	SkillTarget  *CardInstance
	SkillTargets []*CardInstance

	ArmorBreakAmount        int
	PendingArmorBreakTarget *CardInstance

	LastDamageTaken  int
	LastAttackDamage int
	LastAttackerSlot int
	LastDodgeSuccess bool

	CurrentAttackAnimation *anim.Attack

	// Source is the card whose effect is running; SourceSide owns it.
	Source     *CardInstance
	SourceSide Side

	route deathRoute
	b     *Battle
}

func (b *Battle) newContext(side Side) *BattleContext {
	return &BattleContext{
		Board:            b.Board,
		Rand:             b.rng,
		AttackerSide:     side,
		AttackerSlot:     -1,
		DefenderSide:     side.Opponent(),
		DefenderSlot:     -1,
		LastAttackerSlot: -1,
		b:                b,
	}
}

func (bc *BattleContext) Enemy() Side {
	return bc.SourceSide.Opponent()
}

// SourceLoc is where the running effect's card sits.
func (bc *BattleContext) SourceLoc() anim.Loc {
	loc, _ := bc.Board.Locate(bc.Source)
	return loc
}

// Loc locates ci, for descriptors.
func (bc *BattleContext) Loc(ci *CardInstance) anim.Loc {
	loc, _ := bc.Board.Locate(ci)
	return loc
}

// Pick chooses uniformly among candidates, or nil when there are none.
func (bc *BattleContext) Pick(candidates []*CardInstance) *CardInstance {
	if len(candidates) == 0 {
		return nil
	}
	return candidates[bc.Rand.IntN(len(candidates))]
}

func (bc *BattleContext) push(d anim.Descriptor) {
	bc.b.queue.Push(d)
}

func (bc *BattleContext) event(e log.GameEvent) {
	bc.b.log(e)
}

// Silenced reports whether ci sits in a battle slot facing a living card
// with Silence.
func (bc *BattleContext) Silenced(ci *CardInstance) bool {
	return bc.b.silenced(ci)
}

// DealSkillDamage applies effect damage to target. Immunity zeroes it;
// physical damage is also reduced by the target's Defense. Returns the
// amount subtracted from hp.
func (bc *BattleContext) DealSkillDamage(target *CardInstance, amount int, physical bool) int {
	if target == nil || amount <= 0 {
		return 0
	}
	loc := bc.Loc(target)
	if target.HasSkill(SkillImmunity) && !bc.Silenced(target) {
		bc.push(anim.ShieldFlash{Target: loc})
		bc.event(log.NewStatChangeEvent(bc.b.Turn, bc.b.Phase.String(), int(target.Owner), target.Name(), "is immune"))
		return 0
	}
	if physical && !bc.Silenced(target) {
		amount -= target.SkillTotal(SkillDefense)
		if amount <= 0 {
			bc.push(anim.ShieldFlash{Target: loc})
			return 0
		}
	}
	target.HP -= amount
	bc.push(anim.Shake{Target: loc, Duration: bc.b.cfg.Timing.Shake, Intensity: shakeIntensity(amount)})
	bc.event(log.NewDamageEvent(bc.b.Turn, bc.b.Phase.String(), int(target.Owner), target.Name(), amount, target.HP))
	return amount
}

// HealCard restores up to amount hp, never above MaxHP. Returns the amount
// restored.
func (bc *BattleContext) HealCard(target *CardInstance, amount int) int {
	if target == nil || amount <= 0 {
		return 0
	}
	missing := target.MaxHP - target.HP
	if missing <= 0 {
		return 0
	}
	healed := min(amount, missing)
	target.HP += healed
	bc.event(log.NewHealEvent(bc.b.Turn, bc.b.Phase.String(), int(target.Owner), target.Name(), healed, target.HP))
	return healed
}

// Damaged returns the living battle cards on side that are below MaxHP.
func (bc *BattleContext) Damaged(side Side) []*CardInstance {
	var out []*CardInstance
	for _, c := range bc.Board.LivingBattle(side) {
		if c.HP < c.MaxHP {
			out = append(out, c)
		}
	}
	return out
}

func shakeIntensity(damage int) float64 {
	return min(1.0, 0.2+0.1*float64(damage))
}
