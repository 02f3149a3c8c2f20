package game

import (
	"testing"

	"github.com/peterkuimelis/cardclash/internal/anim"
	"github.com/peterkuimelis/cardclash/internal/log"
)

// TestAttackEmptyRowHitsAvatar: a lone attacker facing an empty lane hits
// the avatar and nothing moves.
func TestAttackEmptyRowHitsAvatar(t *testing.T) {
	s := newScenario(t)
	s.battle(SideA, 0, card("Striker", 3, 5, 0))
	s.b.HP[SideB] = 10

	s.attack(SideA)
	s.dump()

	if s.b.HP[SideB] != 7 {
		t.Errorf("expected B avatar hp 7, got %d", s.b.HP[SideB])
	}
	if moves := s.kinds(anim.KindCardMove, anim.KindSlide); len(moves) != 0 {
		t.Errorf("expected no card movement, got %d", len(moves))
	}
	attacks := s.kinds(anim.KindAttack)
	if len(attacks) != 1 || attacks[0].(anim.Attack).DefenderSlot != -1 {
		t.Fatalf("expected one avatar attack, got %+v", attacks)
	}

	// B has no cards at all, so A wins at Finish.
	s.finishTurn()
	if w, ok := s.b.Winner(); !ok || w != SideA {
		t.Errorf("expected side A to win, got %v (decided=%v)", w, ok)
	}
}

// TestFireballThenStrike: the projectile lands on the randomly chosen enemy
// before the physical strike on the facing card.
func TestFireballThenStrike(t *testing.T) {
	s := newScenario(t)
	s.battle(SideA, 0, card("Pyro", 2, 5, 0, "火球1"))
	left := s.battle(SideB, 0, card("Left", 0, 3, 0))
	right := s.battle(SideB, 2, card("Right", 0, 3, 0))
	s.rng.ints = []int{1} // second living enemy, slot 2

	s.attack(SideA)
	s.dump()

	if right.HP != 2 {
		t.Errorf("expected fireball target hp 2, got %d", right.HP)
	}
	if left.HP != 1 {
		t.Errorf("expected struck card hp 1, got %d", left.HP)
	}
	got := s.kinds(anim.KindSkillProjectile, anim.KindAttack)
	if len(got) != 2 {
		t.Fatalf("expected projectile and attack, got %d descriptors", len(got))
	}
	proj, ok := got[0].(anim.SkillProjectile)
	if !ok {
		t.Fatalf("expected projectile first, got %s", got[0].Kind())
	}
	if proj.Target != anim.Battle(1, 2) || proj.Element != anim.Fireball {
		t.Errorf("unexpected projectile %+v", proj)
	}
	if got[1].Kind() != anim.KindAttack {
		t.Errorf("expected attack second, got %s", got[1].Kind())
	}
}

// TestIceHitsOneEnemyIgnoringDefense: Ice is elemental, so the target's
// Defense does not reduce it.
func TestIceHitsOneEnemyIgnoringDefense(t *testing.T) {
	s := newScenario(t)
	s.battle(SideA, 0, card("Frost", 0, 5, 0, "冰封2"))
	guard := s.battle(SideB, 3, card("Guard", 0, 5, 0, "防御3"))

	s.attack(SideA)
	s.dump()

	if guard.HP != 3 {
		t.Errorf("expected guard hp 3, got %d", guard.HP)
	}
	got := s.kinds(anim.KindSkillProjectile)
	if len(got) != 1 {
		t.Fatalf("expected one projectile, got %d", len(got))
	}
	proj := got[0].(anim.SkillProjectile)
	if proj.Element != anim.Ice || proj.Target != anim.Battle(1, 3) || proj.Damage != 2 {
		t.Errorf("unexpected projectile %+v", proj)
	}
	if len(s.kinds(anim.KindSkillArea)) != 0 {
		t.Error("single-target Ice should not emit an area descriptor")
	}
}

// TestLightningStrikesChosenEnemy: the projectile carries the Lightning
// element and lands on the scripted pick while the strike goes to the
// empty lane's avatar.
func TestLightningStrikesChosenEnemy(t *testing.T) {
	s := newScenario(t)
	s.battle(SideA, 0, card("Caller", 1, 5, 0, "闪电3"))
	near := s.battle(SideB, 1, card("Near", 0, 4, 0))
	far := s.battle(SideB, 4, card("Far", 0, 4, 0))
	s.b.HP[SideB] = 10
	s.rng.ints = []int{1}

	s.attack(SideA)
	s.dump()

	if far.HP != 1 || near.HP != 4 {
		t.Errorf("expected far 1 and near 4, got far %d near %d", far.HP, near.HP)
	}
	if s.b.HP[SideB] != 9 {
		t.Errorf("expected B avatar hp 9, got %d", s.b.HP[SideB])
	}
	got := s.kinds(anim.KindSkillProjectile)
	if len(got) != 1 {
		t.Fatalf("expected one projectile, got %d", len(got))
	}
	proj := got[0].(anim.SkillProjectile)
	if proj.Element != anim.Lightning || proj.Target != anim.Battle(1, 4) {
		t.Errorf("unexpected projectile %+v", proj)
	}
	if skills := s.logger.EventsOfType(log.EventSkill); len(skills) != 1 {
		t.Errorf("expected one skill event, got %d", len(skills))
	}
}

// TestArmorBreakWeakensDefense: damage 3 against Defense 2 broken by 1.
func TestArmorBreakWeakensDefense(t *testing.T) {
	s := newScenario(t)
	s.battle(SideA, 0, card("Breaker", 3, 10, 0, "破甲1"))
	wall := s.battle(SideB, 0, card("Wall", 0, 10, 0, "防御2"))

	s.attack(SideA)

	if lost := 10 - wall.HP; lost != 2 {
		t.Errorf("expected defender to lose 2 hp, lost %d", lost)
	}
	flashes := s.kinds(anim.KindShieldFlash)
	if len(flashes) != 1 || !flashes[0].(anim.ShieldFlash).WithTear {
		t.Errorf("expected one torn shield flash, got %+v", flashes)
	}
}

func TestDefenseWithoutArmorBreak(t *testing.T) {
	s := newScenario(t)
	s.battle(SideA, 0, card("Brute", 3, 10, 0))
	wall := s.battle(SideB, 0, card("Wall", 0, 10, 0, "防御2"))

	s.attack(SideA)

	if wall.HP != 9 {
		t.Errorf("expected wall hp 9, got %d", wall.HP)
	}
}

// TestDodgeNullifiesAttack: level 3 dodges 75% of the time; a roll of 0.5
// succeeds.
func TestDodgeNullifiesAttack(t *testing.T) {
	s := newScenario(t)
	s.battle(SideA, 0, card("Brute", 3, 10, 0))
	dancer := s.battle(SideB, 0, card("Dancer", 0, 5, 0, "闪避3"))
	s.rng.floats = []float64{0.5}

	s.attack(SideA)

	if dancer.HP != 5 {
		t.Errorf("expected dodger hp unchanged at 5, got %d", dancer.HP)
	}
	if len(s.kinds(anim.KindDodgeShake)) != 1 {
		t.Error("expected a dodge shake descriptor")
	}
	if len(s.logger.EventsOfType(log.EventDodge)) != 1 {
		t.Error("expected a dodge event")
	}
}

func TestDodgeRollFails(t *testing.T) {
	s := newScenario(t)
	s.battle(SideA, 0, card("Brute", 3, 10, 0))
	dancer := s.battle(SideB, 0, card("Dancer", 0, 5, 0, "闪避3"))
	s.rng.floats = []float64{0.8}

	s.attack(SideA)

	if dancer.HP != 2 {
		t.Errorf("expected dodger hp 2, got %d", dancer.HP)
	}
	if len(s.kinds(anim.KindDodgeShake)) != 0 {
		t.Error("expected no dodge shake")
	}
}

// TestRebirthFiresOnce: the first death sends the card back to Waiting with
// a full cooldown; the second sends it to the discard.
func TestRebirthFiresOnce(t *testing.T) {
	s := newScenario(t)
	s.battle(SideA, 0, card("Hammer", 5, 10, 0))
	phoenix := s.battle(SideB, 0, card("Phoenix", 1, 2, 2, "复活"))

	s.attack(SideA)

	zb := s.b.Board.Sides[SideB]
	if zb.Waiting[0] != phoenix {
		t.Fatalf("expected phoenix in waiting slot 0, board: %v", zb.Waiting)
	}
	if phoenix.CD != 2 || phoenix.HP != 2 {
		t.Errorf("expected reset phoenix (hp 2, cd 2), got hp %d cd %d", phoenix.HP, phoenix.CD)
	}

	// Bring it back to the front line and kill it again.
	zb.Waiting[0] = nil
	zb.Battle[0] = phoenix
	s.attack(SideA)
	s.dump()

	if len(zb.Discard) != 1 || zb.Discard[0] != phoenix {
		t.Fatalf("expected phoenix in discard, got %v", zb.Discard)
	}
	if n := len(s.logger.EventsOfType(log.EventRebirth)); n != 1 {
		t.Errorf("expected exactly one rebirth, got %d", n)
	}
}

// TestSilenceBlocksAttackerSkills: a silencer opposite the attacker blocks
// its pre- and post-attack effects, but not the strike itself.
func TestSilenceBlocksAttackerSkills(t *testing.T) {
	s := newScenario(t)
	caster := s.battle(SideA, 1, card("Caster", 2, 5, 0, "火球3", "受伤1"))
	bystander := s.battle(SideB, 0, card("Bystander", 0, 5, 0))
	mute := s.battle(SideB, 1, card("Mute", 0, 5, 0, "沉默"))

	s.attack(SideA)
	s.dump()

	if len(s.kinds(anim.KindSkillProjectile)) != 0 {
		t.Error("expected no fireball from a silenced attacker")
	}
	if mute.HP != 3 {
		t.Errorf("expected silencer hp 3 after the strike, got %d", mute.HP)
	}
	if bystander.HP != 5 {
		t.Errorf("expected bystander untouched, got hp %d", bystander.HP)
	}
	if caster.HP != 5 {
		t.Errorf("expected injury skipped, caster hp %d", caster.HP)
	}
}

func TestSilenceOnlyFromLivingSilencer(t *testing.T) {
	s := newScenario(t)
	s.battle(SideA, 0, card("Caster", 2, 5, 0, "火球3"))
	mute := s.battle(SideB, 0, card("Mute", 0, 3, 0, "沉默"))
	mute.HP = 0 // dead but not yet buried

	if s.b.silenced(s.b.Board.Sides[SideA].Battle[0]) {
		t.Error("a dead silencer should not silence")
	}
}

func TestImmunityBlocksSkillDamage(t *testing.T) {
	s := newScenario(t)
	s.battle(SideA, 0, card("Pyro", 0, 5, 0, "火球3"))
	golem := s.battle(SideB, 0, card("Golem", 0, 5, 0, "免疫"))

	s.attack(SideA)

	if golem.HP != 5 {
		t.Errorf("expected immune golem hp 5, got %d", golem.HP)
	}
	if len(s.kinds(anim.KindShieldFlash)) == 0 {
		t.Error("expected a shield flash on the immune target")
	}
}

func TestCounterHitsAttacker(t *testing.T) {
	s := newScenario(t)
	brute := s.battle(SideA, 0, card("Brute", 1, 5, 0))
	s.battle(SideB, 0, card("Thorn", 0, 10, 0, "反击2"))

	s.attack(SideA)

	if brute.HP != 3 {
		t.Errorf("expected attacker hp 3 after counter, got %d", brute.HP)
	}
	if len(s.kinds(anim.KindEnergyOrb)) != 1 {
		t.Error("expected a counter orb")
	}
}

func TestCounterFiresEvenWhenDefenderDies(t *testing.T) {
	s := newScenario(t)
	brute := s.battle(SideA, 0, card("Brute", 5, 5, 0))
	thorn := s.battle(SideB, 0, card("Thorn", 0, 2, 0, "反击1"))

	s.attack(SideA)

	if brute.HP != 4 {
		t.Errorf("expected attacker hp 4, got %d", brute.HP)
	}
	if s.b.Board.Sides[SideB].Discard[0] != thorn {
		t.Error("expected thorn in the discard")
	}
}

func TestBerserkGainsAttackWhenHit(t *testing.T) {
	s := newScenario(t)
	s.battle(SideA, 0, card("Brute", 1, 5, 0))
	troll := s.battle(SideB, 0, card("Troll", 1, 10, 0, "狂暴"))

	s.attack(SideA)

	if troll.ATK != 2 {
		t.Errorf("expected berserk atk 2, got %d", troll.ATK)
	}
}

func TestVampireHealsByDamageDealt(t *testing.T) {
	s := newScenario(t)
	leech := s.battle(SideA, 0, card("Leech", 3, 10, 0, "吸血2"))
	leech.HP = 5
	target := s.battle(SideB, 0, card("Target", 0, 10, 0))

	s.attack(SideA)

	if target.HP != 7 {
		t.Errorf("expected target hp 7, got %d", target.HP)
	}
	if leech.HP != 7 {
		t.Errorf("expected leech hp 7, got %d", leech.HP)
	}
}

func TestHealPrefersOtherDamagedAlly(t *testing.T) {
	s := newScenario(t)
	medic := s.battle(SideA, 0, card("Medic", 0, 5, 0, "治愈3"))
	medic.HP = 4
	hurt := s.battle(SideA, 1, card("Hurt", 0, 10, 0))
	hurt.HP = 2

	s.attack(SideA)

	if hurt.HP != 5 {
		t.Errorf("expected ally healed to 5, got %d", hurt.HP)
	}
	if medic.HP != 4 {
		t.Errorf("expected medic unhealed, got %d", medic.HP)
	}
}

func TestBlessMayTargetSelf(t *testing.T) {
	s := newScenario(t)
	priest := s.battle(SideA, 0, card("Priest", 1, 5, 0, "祝福2"))
	s.b.HP[SideB] = 20

	s.attack(SideA)

	if priest.ATK != 3 || priest.HP != 7 || priest.MaxHP != 7 {
		t.Errorf("expected blessed priest 3/7 max 7, got %d/%d max %d", priest.ATK, priest.HP, priest.MaxHP)
	}
	if s.b.HP[SideB] != 17 {
		t.Errorf("expected blessed strike for 3, avatar hp %d", s.b.HP[SideB])
	}
}

func TestCurseLowersOppositeAttack(t *testing.T) {
	s := newScenario(t)
	s.battle(SideA, 0, card("Witch", 0, 5, 0, "诅咒5"))
	ogre := s.battle(SideB, 0, card("Ogre", 3, 10, 0))

	s.attack(SideA)

	if ogre.ATK != 0 {
		t.Errorf("expected curse to floor atk at 0, got %d", ogre.ATK)
	}
}

func TestBombardIsReducedByDefense(t *testing.T) {
	s := newScenario(t)
	s.battle(SideA, 0, card("Cannon", 0, 5, 0, "炮击3"))
	s.battle(SideA, 1, card("Blaster", 0, 5, 0, "群体爆破2"))
	wall := s.battle(SideB, 0, card("Wall", 0, 10, 0, "防御1"))

	s.attack(SideA)

	// 3-1 from the bombard, 2-1 from the blast.
	if wall.HP != 7 {
		t.Errorf("expected wall hp 7, got %d", wall.HP)
	}
}

func TestMassSkillHitsEveryEnemy(t *testing.T) {
	s := newScenario(t)
	s.battle(SideA, 0, card("Frost", 0, 5, 0, "群体冰封2"))
	a := s.battle(SideB, 0, card("A", 0, 5, 0))
	b := s.battle(SideB, 1, card("B", 0, 5, 0))
	c := s.battle(SideB, 2, card("C", 0, 1, 0))

	s.attack(SideA)

	if a.HP != 3 || b.HP != 3 {
		t.Errorf("expected survivors at hp 3, got %d and %d", a.HP, b.HP)
	}
	zb := s.b.Board.Sides[SideB]
	if len(zb.Discard) != 1 || zb.Discard[0] != c {
		t.Errorf("expected C in the discard, got %v", zb.Discard)
	}
	areas := s.kinds(anim.KindSkillArea)
	if len(areas) != 1 || len(areas[0].(anim.SkillArea).Targets) != 3 {
		t.Errorf("expected one area descriptor over 3 targets, got %+v", areas)
	}
}

func TestUndyingReturnsToHandWithPrintedStats(t *testing.T) {
	s := newScenario(t)
	s.battle(SideA, 0, card("Hammer", 5, 10, 0))
	lich := s.battle(SideB, 0, card("Lich", 1, 3, 2, "不死"))
	lich.ATK = 4

	s.attack(SideA)

	zb := s.b.Board.Sides[SideB]
	if len(zb.Hand) != 1 || zb.Hand[0] != lich {
		t.Fatalf("expected lich back in hand, hand %v", zb.Hand)
	}
	if lich.ATK != 1 || lich.HP != 3 || lich.CD != 2 {
		t.Errorf("expected printed stats 1/3 cd 2, got %d/%d cd %d", lich.ATK, lich.HP, lich.CD)
	}
}

func TestSelfDestructSkipsUndyingButExplodes(t *testing.T) {
	s := newScenario(t)
	bomber := s.battle(SideA, 0, card("Bomber", 3, 4, 0, "自毁", "不死", "爆裂"))
	target := s.battle(SideB, 0, card("Target", 0, 5, 0))
	other := s.battle(SideB, 1, card("Other", 0, 5, 0))

	s.attack(SideA)
	s.dump()

	za := s.b.Board.Sides[SideA]
	if len(za.Discard) != 1 || za.Discard[0] != bomber {
		t.Fatalf("expected bomber in discard, got hand %v discard %v", za.Hand, za.Discard)
	}
	if len(s.kinds(anim.KindAttack)) != 0 {
		t.Error("a self-destructing card should not strike")
	}
	if target.HP != 4 || other.HP != 4 {
		t.Errorf("expected explosion for 1 on each enemy, got %d and %d", target.HP, other.HP)
	}
}

func TestExplosionChainsAcrossCleanup(t *testing.T) {
	s := newScenario(t)
	s.battle(SideA, 0, card("Hammer", 5, 10, 0))
	s.battle(SideB, 0, card("Powder", 0, 1, 0, "爆裂"))
	fuse := s.battle(SideA, 1, card("Fuse", 0, 1, 0, "爆裂"))
	s.battle(SideB, 1, card("Keg", 0, 1, 0))

	s.attack(SideA)

	// Powder dies in combat and explodes, killing Fuse; Fuse's explosion
	// then kills Keg.
	za, zb := s.b.Board.Sides[SideA], s.b.Board.Sides[SideB]
	if len(za.Discard) != 1 || za.Discard[0] != fuse {
		t.Errorf("expected fuse in A discard, got %v", za.Discard)
	}
	if len(zb.Discard) != 2 {
		t.Errorf("expected both B cards in discard, got %v", zb.Discard)
	}
}

func TestHasteAndDelayAdjustCooldowns(t *testing.T) {
	s := newScenario(t)
	s.battle(SideA, 0, card("Herald", 0, 5, 0, "加速2"))
	s.battle(SideA, 1, card("Jinx", 0, 5, 0, "延迟2"))
	slow := s.waiting(SideA, 0, card("Slow", 1, 1, 5))
	late := s.waiting(SideB, 3, card("Late", 1, 1, 1))

	s.attack(SideA)

	// Ticked to 4 on entry, then hastened by 2.
	if slow.CD != 2 {
		t.Errorf("expected own cd 2, got %d", slow.CD)
	}
	if late.CD != 3 {
		t.Errorf("expected enemy cd 3, got %d", late.CD)
	}
}

func TestDrawSkillNeedsEnoughDeck(t *testing.T) {
	s := newScenario(t)
	s.battle(SideA, 0, card("Sage", 0, 5, 0, "抽卡2"))
	s.deck(SideA, card("One", 1, 1, 1))

	s.attack(SideA)
	if n := len(s.b.Board.Sides[SideA].Hand); n != 0 {
		t.Fatalf("expected no draw with a short deck, hand %d", n)
	}

	s.deck(SideA, card("Two", 1, 1, 1))
	s.attack(SideA)
	if n := len(s.b.Board.Sides[SideA].Hand); n != 2 {
		t.Errorf("expected 2 cards drawn, hand %d", n)
	}
}

func TestReviveOldestDiscards(t *testing.T) {
	s := newScenario(t)
	s.battle(SideA, 0, card("Shaman", 0, 5, 0, "还魂2"))
	first := s.discard(SideA, card("First", 1, 1, 3))
	second := s.discard(SideA, card("Second", 1, 1, 3))
	third := s.discard(SideA, card("Third", 1, 1, 3))
	first.HP = 0

	s.attack(SideA)

	za := s.b.Board.Sides[SideA]
	if za.Waiting[0] != first || za.Waiting[1] != second {
		t.Fatalf("expected the two oldest revived, waiting %v", za.Waiting)
	}
	if first.HP != 1 || first.CD != 3 {
		t.Errorf("expected revived card reset, got hp %d cd %d", first.HP, first.CD)
	}
	if len(za.Discard) != 1 || za.Discard[0] != third {
		t.Errorf("expected third left in discard, got %v", za.Discard)
	}
}

func TestCloneSpawnsTokenThatVanishes(t *testing.T) {
	s := newScenario(t)
	s.waiting(SideA, 0, card("Twin", 1, 2, 1, "分身"))

	s.attack(SideA)

	za := s.b.Board.Sides[SideA]
	token := za.Waiting[0]
	if token == nil || !token.Token {
		t.Fatalf("expected a token in waiting slot 0, got %v", za.Waiting)
	}
	if token.Name() != "Twin (copy)" {
		t.Errorf("unexpected token name %q", token.Name())
	}
	if len(s.logger.EventsOfType(log.EventSpawn)) != 1 {
		t.Error("expected one spawn event")
	}

	za.Waiting[0] = nil
	za.Battle[1] = token
	token.HP = 0
	s.b.cleanup()

	for _, c := range za.All() {
		if c == token {
			t.Fatal("token should vanish on death")
		}
	}
}

func TestCopyMirrorsOppositeOnDeploy(t *testing.T) {
	s := newScenario(t)
	mimic := s.waiting(SideA, 0, card("Mimic", 0, 1, 1, "复制"))
	giant := s.battle(SideB, 0, card("Giant", 7, 9, 0))

	s.attack(SideA)

	if mimic.ATK != 7 || mimic.MaxHP != 9 {
		t.Errorf("expected mimic 7 atk max 9, got %d max %d", mimic.ATK, mimic.MaxHP)
	}
	if giant.HP != 2 {
		t.Errorf("expected giant hit for 7, hp %d", giant.HP)
	}
}

func TestInjuryCanKillAttacker(t *testing.T) {
	s := newScenario(t)
	zealot := s.battle(SideA, 0, card("Zealot", 4, 1, 0, "受伤1"))

	s.attack(SideA)

	za := s.b.Board.Sides[SideA]
	if len(za.Discard) != 1 || za.Discard[0] != zealot {
		t.Errorf("expected zealot in discard, got %v", za.Discard)
	}
	if s.b.HP[SideB] != 16 {
		t.Errorf("expected the strike to land first, avatar hp %d", s.b.HP[SideB])
	}
}

func TestCompactClosesHolesInOrder(t *testing.T) {
	s := newScenario(t)
	s.battle(SideA, 0, card("Hammer", 5, 10, 0))
	s.battle(SideB, 0, card("Weak", 0, 1, 0))
	keep1 := s.battle(SideB, 1, card("Keep1", 0, 5, 0))
	keep2 := s.battle(SideB, 3, card("Keep2", 0, 5, 0))

	s.attack(SideA)
	s.finishTurn()

	zb := s.b.Board.Sides[SideB]
	if zb.Battle[0] != keep1 || zb.Battle[1] != keep2 || zb.Battle[2] != nil {
		t.Errorf("expected [Keep1 Keep2 _], got %v", zb.Battle)
	}
}

func TestBothSidesDefeatedIsDraw(t *testing.T) {
	s := newScenario(t)
	s.battle(SideA, 0, card("Titan", 30, 5, 0))
	s.battle(SideB, 1, card("Idle", 0, 5, 0))
	s.b.HP[SideA] = 0

	s.attack(SideA)
	s.finishTurn()

	if !s.b.Over() {
		t.Fatalf("expected game over, phase %s", s.b.Phase)
	}
	if _, ok := s.b.Winner(); ok {
		t.Error("expected no winner")
	}
	if len(s.logger.EventsOfType(log.EventDrawGame)) != 1 {
		t.Error("expected a draw event")
	}
}
