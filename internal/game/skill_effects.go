package game

import (
	"fmt"
	"math"

	"github.com/peterkuimelis/cardclash/internal/anim"
	"github.com/peterkuimelis/cardclash/internal/log"
)

// Effect is one triggered action of a skill. The engine runs an effect as
// CanTrigger, then Animate (which may pick and cache targets in the
// context), then pushes the descriptors, then Execute.
type Effect struct {
	Trigger Trigger
	Target  TargetType

	// CanTrigger gates the effect. Nil means always.
	CanTrigger func(bc *BattleContext, s Skill) bool

	// Animate returns the descriptors to show before Execute runs.
	Animate func(bc *BattleContext, s Skill) []anim.Descriptor

	Execute func(bc *BattleContext, s Skill)
}

var skillEffects [skillKindCount][]*Effect

func init() {
	skillEffects = [skillKindCount][]*Effect{
		SkillFireball:      {projectileEffect(anim.Fireball, false)},
		SkillIce:           {projectileEffect(anim.Ice, false)},
		SkillLightning:     {projectileEffect(anim.Lightning, false)},
		SkillMassFireball:  {areaEffect(anim.Fireball, false)},
		SkillMassIce:       {areaEffect(anim.Ice, false)},
		SkillMassLightning: {areaEffect(anim.Lightning, false)},
		SkillBombard:       {projectileEffect(anim.Bombard, true)},
		SkillMassBlast:     {areaEffect(anim.Bombard, true)},

		SkillDefense:    {defenseEffect},
		SkillArmorBreak: {armorBreakEffect},
		SkillDodge:      {dodgeEffect},
		SkillCounter:    {counterEffect},
		SkillBerserk:    {berserkEffect},

		SkillHeal:     {healEffect},
		SkillMassHeal: {massHealEffect},
		SkillRegen:    {regenEffect},
		SkillVampire:  {vampireEffect},
		SkillInjury:   {injuryEffect},

		SkillDraw:   {drawEffect},
		SkillRevive: {reviveEffect},
		SkillHaste:  {hasteEffect},
		SkillDelay:  {delayEffect},

		SkillBless:       {blessEffect(TriggerBeforeAttack, TargetAllyRandom, true)},
		SkillMassBless:   {blessEffect(TriggerBeforeAttack, TargetAllyAll, true)},
		SkillInspire:     {blessEffect(TriggerOnDeploy, TargetAllyRandom, false)},
		SkillMassInspire: {blessEffect(TriggerOnDeploy, TargetAllyAll, false)},
		SkillCurse:       {curseEffect},

		SkillSelfDestruct:   {selfDestructEffect},
		SkillUndying:        {undyingEffect},
		SkillRebirth:        {rebirthEffect},
		SkillExplodeOnDeath: {explodeEffect},
		SkillClone:          {cloneEffect},
		SkillCopy:           {copyEffect},

		// Silence and Immunity are passive and queried directly.
	}
}

func (bc *BattleContext) skillEvent(s Skill, details string) {
	bc.event(log.NewSkillEvent(bc.b.Turn, bc.b.Phase.String(), int(bc.SourceSide), bc.Source.Name(), s.String(), details))
}

// --- Damage ---

func projectileEffect(elem anim.Element, physical bool) *Effect {
	return &Effect{
		Trigger: TriggerBeforeAttack,
		Target:  TargetEnemyRandom,
		CanTrigger: func(bc *BattleContext, s Skill) bool {
			return len(bc.Board.LivingBattle(bc.Enemy())) > 0
		},
		Animate: func(bc *BattleContext, s Skill) []anim.Descriptor {
			bc.SkillTarget = bc.Pick(bc.Board.LivingBattle(bc.Enemy()))
			return []anim.Descriptor{anim.SkillProjectile{
				Element:  elem,
				Source:   bc.SourceLoc(),
				Target:   bc.Loc(bc.SkillTarget),
				Damage:   s.Magnitude,
				Duration: bc.b.cfg.Timing.Projectile,
			}}
		},
		Execute: func(bc *BattleContext, s Skill) {
			bc.skillEvent(s, "→ "+bc.SkillTarget.Name())
			bc.DealSkillDamage(bc.SkillTarget, s.Magnitude, physical)
		},
	}
}

func areaEffect(elem anim.Element, physical bool) *Effect {
	return &Effect{
		Trigger: TriggerBeforeAttack,
		Target:  TargetEnemyAll,
		CanTrigger: func(bc *BattleContext, s Skill) bool {
			return len(bc.Board.LivingBattle(bc.Enemy())) > 0
		},
		Animate: func(bc *BattleContext, s Skill) []anim.Descriptor {
			bc.SkillTargets = bc.Board.LivingBattle(bc.Enemy())
			locs := make([]anim.Loc, len(bc.SkillTargets))
			for i, t := range bc.SkillTargets {
				locs[i] = bc.Loc(t)
			}
			return []anim.Descriptor{anim.SkillArea{
				Element:  elem,
				Source:   bc.SourceLoc(),
				Targets:  locs,
				Damage:   s.Magnitude,
				Duration: bc.b.cfg.Timing.Projectile,
			}}
		},
		Execute: func(bc *BattleContext, s Skill) {
			bc.skillEvent(s, fmt.Sprintf("hits %d enemies", len(bc.SkillTargets)))
			for _, t := range bc.SkillTargets {
				bc.DealSkillDamage(t, s.Magnitude, physical)
			}
		},
	}
}

var explodeEffect = &Effect{
	Trigger: TriggerOnDeath,
	Target:  TargetEnemyAll,
	CanTrigger: func(bc *BattleContext, s Skill) bool {
		return bc.b.cfg.ExplodeDamage > 0 && len(bc.Board.LivingBattle(bc.Enemy())) > 0
	},
	Animate: func(bc *BattleContext, s Skill) []anim.Descriptor {
		bc.SkillTargets = bc.Board.LivingBattle(bc.Enemy())
		return []anim.Descriptor{anim.Explosion{At: bc.SourceLoc(), Duration: bc.b.cfg.Timing.Explosion}}
	},
	Execute: func(bc *BattleContext, s Skill) {
		bc.skillEvent(s, fmt.Sprintf("%d damage to every enemy", bc.b.cfg.ExplodeDamage))
		for _, t := range bc.SkillTargets {
			bc.DealSkillDamage(t, bc.b.cfg.ExplodeDamage, false)
		}
	},
}

// --- Mitigation and retaliation ---

var defenseEffect = &Effect{
	Trigger: TriggerOnDamaged,
	Target:  TargetSelf,
	CanTrigger: func(bc *BattleContext, s Skill) bool {
		return bc.Damage > 0 && !bc.LastDodgeSuccess
	},
	Animate: func(bc *BattleContext, s Skill) []anim.Descriptor {
		broken := bc.PendingArmorBreakTarget == bc.Source && bc.ArmorBreakAmount > 0
		return []anim.Descriptor{anim.ShieldFlash{Target: bc.SourceLoc(), WithTear: broken}}
	},
	Execute: func(bc *BattleContext, s Skill) {
		reduction := s.Magnitude
		if bc.PendingArmorBreakTarget == bc.Source {
			reduction = max(0, reduction-bc.ArmorBreakAmount)
			bc.PendingArmorBreakTarget = nil
			bc.ArmorBreakAmount = 0
		}
		bc.Damage = max(0, bc.Damage-reduction)
		bc.skillEvent(s, fmt.Sprintf("blocks %d", reduction))
	},
}

var armorBreakEffect = &Effect{
	Trigger: TriggerBeforeAttack,
	Target:  TargetOpposite,
	CanTrigger: func(bc *BattleContext, s Skill) bool {
		return bc.Board.OppositeCard(bc.SourceSide, bc.AttackerSlot) != nil
	},
	Animate: func(bc *BattleContext, s Skill) []anim.Descriptor {
		bc.SkillTarget = bc.Board.OppositeCard(bc.SourceSide, bc.AttackerSlot)
		return []anim.Descriptor{anim.Debuff{Target: bc.Loc(bc.SkillTarget), Stat: "armor", Amount: s.Magnitude}}
	},
	Execute: func(bc *BattleContext, s Skill) {
		bc.ArmorBreakAmount = s.Magnitude
		bc.PendingArmorBreakTarget = bc.SkillTarget
		bc.skillEvent(s, "marks "+bc.SkillTarget.Name())
	},
}

// DodgeChance is the probability that a dodge of the given level succeeds.
func DodgeChance(level int) float64 {
	if level < 1 {
		return 0
	}
	if level > 64 {
		return 0.9
	}
	return 0.9 - math.Ldexp(0.6, -(level-1))
}

var dodgeEffect = &Effect{
	Trigger: TriggerOnDamaged,
	Target:  TargetSelf,
	CanTrigger: func(bc *BattleContext, s Skill) bool {
		return bc.Damage > 0 && !bc.LastDodgeSuccess
	},
	Animate: func(bc *BattleContext, s Skill) []anim.Descriptor {
		bc.LastDodgeSuccess = bc.Rand.Float64() < DodgeChance(s.Magnitude)
		if !bc.LastDodgeSuccess {
			return nil
		}
		return []anim.Descriptor{anim.DodgeShake{Target: bc.SourceLoc(), Duration: bc.b.cfg.Timing.Shake}}
	},
	Execute: func(bc *BattleContext, s Skill) {
		if !bc.LastDodgeSuccess {
			return
		}
		bc.Damage = 0
		bc.event(log.NewDodgeEvent(bc.b.Turn, int(bc.SourceSide), bc.Source.Name()))
	},
}

func attacker(bc *BattleContext) *CardInstance {
	if bc.AttackerSlot < 0 {
		return nil
	}
	return bc.Board.Sides[bc.AttackerSide].Battle[bc.AttackerSlot]
}

var counterEffect = &Effect{
	Trigger: TriggerAfterDamaged,
	Target:  TargetLastAttacker,
	CanTrigger: func(bc *BattleContext, s Skill) bool {
		a := attacker(bc)
		return !bc.LastDodgeSuccess && a != nil && a.Alive()
	},
	Animate: func(bc *BattleContext, s Skill) []anim.Descriptor {
		bc.SkillTarget = attacker(bc)
		return []anim.Descriptor{anim.EnergyOrb{
			From:   bc.SourceLoc(),
			To:     bc.Loc(bc.SkillTarget),
			Color:  "crimson",
			Radius: 4 + s.Magnitude,
		}}
	},
	Execute: func(bc *BattleContext, s Skill) {
		bc.skillEvent(s, "→ "+bc.SkillTarget.Name())
		bc.DealSkillDamage(bc.SkillTarget, s.Magnitude, false)
	},
}

var berserkEffect = &Effect{
	Trigger: TriggerAfterDamaged,
	Target:  TargetSelf,
	CanTrigger: func(bc *BattleContext, s Skill) bool {
		return bc.LastDamageTaken > 0 && bc.Source.Alive() && bc.b.cfg.BerserkGain > 0
	},
	Animate: func(bc *BattleContext, s Skill) []anim.Descriptor {
		return []anim.Descriptor{anim.Buff{Target: bc.SourceLoc(), Stat: "atk", Amount: bc.b.cfg.BerserkGain}}
	},
	Execute: func(bc *BattleContext, s Skill) {
		bc.Source.ATK += bc.b.cfg.BerserkGain
		bc.skillEvent(s, fmt.Sprintf("ATK → %d", bc.Source.ATK))
	},
}

// --- Healing and self damage ---

func healAnim(bc *BattleContext, target *CardInstance, amount int) anim.Descriptor {
	return anim.Heal{Source: bc.SourceLoc(), Target: bc.Loc(target), Amount: min(amount, target.MaxHP-target.HP)}
}

var healEffect = &Effect{
	Trigger: TriggerBeforeAttack,
	Target:  TargetAllyRandom,
	CanTrigger: func(bc *BattleContext, s Skill) bool {
		return len(bc.Damaged(bc.SourceSide)) > 0
	},
	Animate: func(bc *BattleContext, s Skill) []anim.Descriptor {
		var others []*CardInstance
		for _, c := range bc.Damaged(bc.SourceSide) {
			if c != bc.Source {
				others = append(others, c)
			}
		}
		bc.SkillTarget = bc.Pick(others)
		if bc.SkillTarget == nil {
			bc.SkillTarget = bc.Source
		}
		return []anim.Descriptor{healAnim(bc, bc.SkillTarget, s.Magnitude)}
	},
	Execute: func(bc *BattleContext, s Skill) {
		bc.skillEvent(s, "→ "+bc.SkillTarget.Name())
		bc.HealCard(bc.SkillTarget, s.Magnitude)
	},
}

var massHealEffect = &Effect{
	Trigger: TriggerBeforeAttack,
	Target:  TargetAllyAll,
	CanTrigger: func(bc *BattleContext, s Skill) bool {
		return len(bc.Damaged(bc.SourceSide)) > 0
	},
	Animate: func(bc *BattleContext, s Skill) []anim.Descriptor {
		bc.SkillTargets = bc.Damaged(bc.SourceSide)
		out := make([]anim.Descriptor, len(bc.SkillTargets))
		for i, t := range bc.SkillTargets {
			out[i] = healAnim(bc, t, s.Magnitude)
		}
		return out
	},
	Execute: func(bc *BattleContext, s Skill) {
		bc.skillEvent(s, "")
		for _, t := range bc.SkillTargets {
			bc.HealCard(t, s.Magnitude)
		}
	},
}

var regenEffect = &Effect{
	Trigger: TriggerBeforeAttack,
	Target:  TargetSelf,
	CanTrigger: func(bc *BattleContext, s Skill) bool {
		return bc.Source.HP < bc.Source.MaxHP
	},
	Animate: func(bc *BattleContext, s Skill) []anim.Descriptor {
		return []anim.Descriptor{healAnim(bc, bc.Source, s.Magnitude)}
	},
	Execute: func(bc *BattleContext, s Skill) {
		bc.skillEvent(s, "")
		bc.HealCard(bc.Source, s.Magnitude)
	},
}

var vampireEffect = &Effect{
	Trigger: TriggerAfterAttack,
	Target:  TargetSelf,
	CanTrigger: func(bc *BattleContext, s Skill) bool {
		return bc.LastAttackDamage > 0 && bc.Source.Alive() && bc.Source.HP < bc.Source.MaxHP
	},
	Animate: func(bc *BattleContext, s Skill) []anim.Descriptor {
		return []anim.Descriptor{healAnim(bc, bc.Source, min(s.Magnitude, bc.LastAttackDamage))}
	},
	Execute: func(bc *BattleContext, s Skill) {
		bc.skillEvent(s, "")
		bc.HealCard(bc.Source, min(s.Magnitude, bc.LastAttackDamage))
	},
}

var injuryEffect = &Effect{
	Trigger: TriggerAfterAttack,
	Target:  TargetSelf,
	CanTrigger: func(bc *BattleContext, s Skill) bool {
		return bc.Source.Alive() && s.Magnitude > 0
	},
	Animate: func(bc *BattleContext, s Skill) []anim.Descriptor {
		return []anim.Descriptor{anim.Debuff{Target: bc.SourceLoc(), Stat: "hp", Amount: s.Magnitude}}
	},
	Execute: func(bc *BattleContext, s Skill) {
		bc.Source.HP -= s.Magnitude
		bc.event(log.NewDamageEvent(bc.b.Turn, bc.b.Phase.String(), int(bc.SourceSide), bc.Source.Name(), s.Magnitude, bc.Source.HP))
	},
}

// --- Zone manipulation ---

var drawEffect = &Effect{
	Trigger: TriggerBeforeAttack,
	Target:  TargetNone,
	CanTrigger: func(bc *BattleContext, s Skill) bool {
		return s.Magnitude > 0 && len(bc.Board.Sides[bc.SourceSide].Deck) >= s.Magnitude
	},
	Execute: func(bc *BattleContext, s Skill) {
		bc.skillEvent(s, "")
		for range s.Magnitude {
			c, _ := bc.Board.Draw(bc.SourceSide)
			bc.event(log.NewDrawEvent(bc.b.Turn, bc.b.Phase.String(), int(bc.SourceSide), c.Name()))
		}
	},
}

var reviveEffect = &Effect{
	Trigger: TriggerBeforeAttack,
	Target:  TargetNone,
	CanTrigger: func(bc *BattleContext, s Skill) bool {
		z := bc.Board.Sides[bc.SourceSide]
		return s.Magnitude > 0 && len(z.Discard) >= s.Magnitude && bc.Board.FreeWaitingSlots(bc.SourceSide) >= s.Magnitude
	},
	Execute: func(bc *BattleContext, s Skill) {
		bc.skillEvent(s, "")
		revived, _ := bc.Board.Revive(bc.SourceSide, s.Magnitude)
		for _, c := range revived {
			loc := bc.Loc(c)
			bc.event(log.NewReviveEvent(bc.b.Turn, bc.b.Phase.String(), int(bc.SourceSide), c.Name(), loc.Slot))
		}
	},
}

var hasteEffect = &Effect{
	Trigger: TriggerBeforeAttack,
	Target:  TargetAllyWaitingFirst,
	CanTrigger: func(bc *BattleContext, s Skill) bool {
		slot := bc.Board.FirstWaiting(bc.SourceSide)
		return slot >= 0 && bc.Board.Sides[bc.SourceSide].Waiting[slot].CD > 0
	},
	Animate: func(bc *BattleContext, s Skill) []anim.Descriptor {
		slot := bc.Board.FirstWaiting(bc.SourceSide)
		bc.SkillTarget = bc.Board.Sides[bc.SourceSide].Waiting[slot]
		return []anim.Descriptor{anim.Buff{Target: anim.Waiting(int(bc.SourceSide), slot), Stat: "cd", Amount: s.Magnitude}}
	},
	Execute: func(bc *BattleContext, s Skill) {
		bc.SkillTarget.CD = max(0, bc.SkillTarget.CD-s.Magnitude)
		bc.skillEvent(s, fmt.Sprintf("%s CD → %d", bc.SkillTarget.Name(), bc.SkillTarget.CD))
	},
}

var delayEffect = &Effect{
	Trigger: TriggerBeforeAttack,
	Target:  TargetEnemyWaitingFirst,
	CanTrigger: func(bc *BattleContext, s Skill) bool {
		return bc.Board.FirstWaiting(bc.Enemy()) >= 0
	},
	Animate: func(bc *BattleContext, s Skill) []anim.Descriptor {
		slot := bc.Board.FirstWaiting(bc.Enemy())
		bc.SkillTarget = bc.Board.Sides[bc.Enemy()].Waiting[slot]
		return []anim.Descriptor{anim.Debuff{Target: anim.Waiting(int(bc.Enemy()), slot), Stat: "cd", Amount: s.Magnitude}}
	},
	Execute: func(bc *BattleContext, s Skill) {
		bc.SkillTarget.CD += s.Magnitude
		bc.skillEvent(s, fmt.Sprintf("%s CD → %d", bc.SkillTarget.Name(), bc.SkillTarget.CD))
	},
}

// --- Stat changes ---

// blessEffect builds Bless (atk and hp) and Inspire (atk only) in their
// single and mass forms. Random targets include the source.
func blessEffect(trigger Trigger, target TargetType, withHP bool) *Effect {
	return &Effect{
		Trigger: trigger,
		Target:  target,
		CanTrigger: func(bc *BattleContext, s Skill) bool {
			return s.Magnitude > 0 && len(bc.Board.LivingBattle(bc.SourceSide)) > 0
		},
		Animate: func(bc *BattleContext, s Skill) []anim.Descriptor {
			allies := bc.Board.LivingBattle(bc.SourceSide)
			if target == TargetAllyAll {
				bc.SkillTargets = allies
			} else {
				bc.SkillTargets = []*CardInstance{bc.Pick(allies)}
			}
			out := make([]anim.Descriptor, len(bc.SkillTargets))
			for i, t := range bc.SkillTargets {
				out[i] = anim.Buff{Target: bc.Loc(t), Stat: "atk", Amount: s.Magnitude}
			}
			return out
		},
		Execute: func(bc *BattleContext, s Skill) {
			bc.skillEvent(s, "")
			for _, t := range bc.SkillTargets {
				t.ATK += s.Magnitude
				if withHP {
					t.HP += s.Magnitude
					t.MaxHP += s.Magnitude
				}
				bc.event(log.NewStatChangeEvent(bc.b.Turn, bc.b.Phase.String(), int(t.Owner), t.Name(),
					fmt.Sprintf("is now %d/%d", t.ATK, t.HP)))
			}
		},
	}
}

var curseEffect = &Effect{
	Trigger: TriggerBeforeAttack,
	Target:  TargetOpposite,
	CanTrigger: func(bc *BattleContext, s Skill) bool {
		return bc.Board.OppositeCard(bc.SourceSide, bc.AttackerSlot) != nil
	},
	Animate: func(bc *BattleContext, s Skill) []anim.Descriptor {
		bc.SkillTarget = bc.Board.OppositeCard(bc.SourceSide, bc.AttackerSlot)
		return []anim.Descriptor{anim.Debuff{Target: bc.Loc(bc.SkillTarget), Stat: "atk", Amount: s.Magnitude}}
	},
	Execute: func(bc *BattleContext, s Skill) {
		t := bc.SkillTarget
		t.ATK = max(0, t.ATK-s.Magnitude)
		bc.skillEvent(s, fmt.Sprintf("%s ATK → %d", t.Name(), t.ATK))
	},
}

// --- Life cycle ---

var selfDestructEffect = &Effect{
	Trigger: TriggerBeforeAttack,
	Target:  TargetSelf,
	Execute: func(bc *BattleContext, s Skill) {
		bc.Source.selfDestructed = true
		bc.skillEvent(s, "")
	},
}

var undyingEffect = &Effect{
	Trigger: TriggerOnDeath,
	Target:  TargetSelf,
	CanTrigger: func(bc *BattleContext, s Skill) bool {
		return !bc.Source.selfDestructed && bc.route == routeDiscard
	},
	Execute: func(bc *BattleContext, s Skill) {
		bc.route = routeHand
	},
}

var rebirthEffect = &Effect{
	Trigger: TriggerOnDeath,
	Target:  TargetSelf,
	CanTrigger: func(bc *BattleContext, s Skill) bool {
		return !bc.Source.selfDestructed && !bc.Source.rebirthUsed && bc.route == routeDiscard &&
			bc.Board.FreeWaitingSlots(bc.SourceSide) > 0
	},
	Execute: func(bc *BattleContext, s Skill) {
		bc.route = routeWaiting
	},
}

var cloneEffect = &Effect{
	Trigger: TriggerOnDeploy,
	Target:  TargetSelf,
	CanTrigger: func(bc *BattleContext, s Skill) bool {
		return !bc.Source.Token && bc.Board.FreeWaitingSlots(bc.SourceSide) > 0
	},
	Execute: func(bc *BattleContext, s Skill) {
		token := bc.b.newInstance(bc.Source.Def, bc.SourceSide)
		token.Token = true
		slot, ok := bc.Board.Spawn(bc.SourceSide, token, bc.SourceLoc())
		if !ok {
			return
		}
		bc.skillEvent(s, "")
		bc.event(log.NewSpawnEvent(bc.b.Turn, bc.b.Phase.String(), int(bc.SourceSide), bc.Source.Def.Name, slot))
	},
}

var copyEffect = &Effect{
	Trigger: TriggerOnDeploy,
	Target:  TargetOpposite,
	CanTrigger: func(bc *BattleContext, s Skill) bool {
		return bc.Board.OppositeCard(bc.SourceSide, bc.Board.BattleSlot(bc.Source)) != nil
	},
	Animate: func(bc *BattleContext, s Skill) []anim.Descriptor {
		bc.SkillTarget = bc.Board.OppositeCard(bc.SourceSide, bc.Board.BattleSlot(bc.Source))
		return []anim.Descriptor{anim.Buff{Target: bc.SourceLoc(), Stat: "copy", Amount: bc.SkillTarget.ATK}}
	},
	Execute: func(bc *BattleContext, s Skill) {
		t := bc.SkillTarget
		bc.Source.ATK, bc.Source.HP, bc.Source.MaxHP = t.ATK, t.HP, t.MaxHP
		bc.skillEvent(s, fmt.Sprintf("mirrors %s (%d/%d)", t.Name(), t.ATK, t.HP))
	},
}
