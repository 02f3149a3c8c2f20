// Package anim defines the animation descriptors the combat core emits for a
// presentation layer. Descriptors are plain data: abstract board locations,
// durations and magnitudes, never pixel geometry.
package anim

import "time"

// Kind tags a descriptor variant.
type Kind string

const (
	KindCardMove        Kind = "card_move"
	KindCardDraw        Kind = "card_draw"
	KindAttack          Kind = "attack"
	KindShake           Kind = "shake"
	KindDodgeShake      Kind = "dodge_shake"
	KindSlide           Kind = "slide"
	KindSkillProjectile Kind = "skill_projectile"
	KindSkillArea       Kind = "skill_area"
	KindHeal            Kind = "heal"
	KindShieldFlash     Kind = "shield_flash"
	KindBuff            Kind = "buff"
	KindDebuff          Kind = "debuff"
	KindExplosion       Kind = "explosion"
	KindEnergyOrb       Kind = "energy_orb"
	KindPacing          Kind = "pacing"
)

// Critical reports whether descriptors of this kind must finish before the
// engine takes its next step.
func (k Kind) Critical() bool {
	switch k {
	case KindPacing, KindAttack, KindCardMove, KindCardDraw, KindSlide,
		KindSkillProjectile, KindSkillArea, KindExplosion:
		return true
	}
	return false
}

// Zone names a board area in a Loc.
type Zone string

const (
	ZoneDeck    Zone = "deck"
	ZoneHand    Zone = "hand"
	ZoneWaiting Zone = "waiting"
	ZoneBattle  Zone = "battle"
	ZoneDiscard Zone = "discard"
	ZoneAvatar  Zone = "avatar"
)

// Loc is an abstract board position. Slot is -1 where the zone has no slots.
type Loc struct {
	Side int  `json:"side"`
	Zone Zone `json:"zone"`
	Slot int  `json:"slot"`
}

func Battle(side, slot int) Loc  { return Loc{Side: side, Zone: ZoneBattle, Slot: slot} }
func Waiting(side, slot int) Loc { return Loc{Side: side, Zone: ZoneWaiting, Slot: slot} }
func Hand(side, slot int) Loc    { return Loc{Side: side, Zone: ZoneHand, Slot: slot} }
func Deck(side int) Loc          { return Loc{Side: side, Zone: ZoneDeck, Slot: -1} }
func Discard(side int) Loc       { return Loc{Side: side, Zone: ZoneDiscard, Slot: -1} }
func Avatar(side int) Loc        { return Loc{Side: side, Zone: ZoneAvatar, Slot: -1} }

// Descriptor is one visual intent.
type Descriptor interface {
	Kind() Kind
	// Wait is how long the engine holds before its next step. Zero for
	// non-critical descriptors.
	Wait() time.Duration
}

// Element distinguishes projectile and area skills.
type Element string

const (
	Fireball  Element = "fireball"
	Ice       Element = "ice"
	Lightning Element = "lightning"
	Bombard   Element = "bombard"
)

type CardMove struct {
	Card     string        `json:"card"`
	From     Loc           `json:"from"`
	To       Loc           `json:"to"`
	Duration time.Duration `json:"duration"`
	Fade     bool          `json:"fade"`
}

type CardDraw struct {
	Card     string        `json:"card"`
	Side     int           `json:"side"`
	HandSlot int           `json:"hand_slot"`
	Duration time.Duration `json:"duration"`
}

// Attack is a physical strike. DefenderSlot is -1 when the avatar is hit.
type Attack struct {
	Side         int           `json:"side"`
	AttackerSlot int           `json:"attacker_slot"`
	DefenderSlot int           `json:"defender_slot"`
	Damage       int           `json:"damage"`
	Duration     time.Duration `json:"duration"`
}

type Shake struct {
	Target    Loc           `json:"target"`
	Duration  time.Duration `json:"duration"`
	Intensity float64       `json:"intensity"`
}

type DodgeShake struct {
	Target   Loc           `json:"target"`
	Duration time.Duration `json:"duration"`
}

type Slide struct {
	Side     int           `json:"side"`
	From     int           `json:"from"`
	To       int           `json:"to"`
	Duration time.Duration `json:"duration"`
}

type SkillProjectile struct {
	Element  Element       `json:"element"`
	Source   Loc           `json:"source"`
	Target   Loc           `json:"target"`
	Damage   int           `json:"damage"`
	Duration time.Duration `json:"duration"`
}

type SkillArea struct {
	Element  Element       `json:"element"`
	Source   Loc           `json:"source"`
	Targets  []Loc         `json:"targets"`
	Damage   int           `json:"damage"`
	Duration time.Duration `json:"duration"`
}

type Heal struct {
	Source Loc `json:"source"`
	Target Loc `json:"target"`
	Amount int `json:"amount"`
}

type ShieldFlash struct {
	Target   Loc  `json:"target"`
	WithTear bool `json:"with_tear"`
}

type Buff struct {
	Target Loc    `json:"target"`
	Stat   string `json:"stat"`
	Amount int    `json:"amount"`
}

type Debuff struct {
	Target Loc    `json:"target"`
	Stat   string `json:"stat"`
	Amount int    `json:"amount"`
}

type Explosion struct {
	At       Loc           `json:"at"`
	Duration time.Duration `json:"duration"`
}

type EnergyOrb struct {
	From   Loc    `json:"from"`
	To     Loc    `json:"to"`
	Color  string `json:"color"`
	Radius int    `json:"radius"`
}

// Pacing is the gap between two attacks.
type Pacing struct {
	Duration time.Duration `json:"duration"`
}

func (CardMove) Kind() Kind        { return KindCardMove }
func (CardDraw) Kind() Kind        { return KindCardDraw }
func (Attack) Kind() Kind          { return KindAttack }
func (Shake) Kind() Kind           { return KindShake }
func (DodgeShake) Kind() Kind      { return KindDodgeShake }
func (Slide) Kind() Kind           { return KindSlide }
func (SkillProjectile) Kind() Kind { return KindSkillProjectile }
func (SkillArea) Kind() Kind       { return KindSkillArea }
func (Heal) Kind() Kind            { return KindHeal }
func (ShieldFlash) Kind() Kind     { return KindShieldFlash }
func (Buff) Kind() Kind            { return KindBuff }
func (Debuff) Kind() Kind          { return KindDebuff }
func (Explosion) Kind() Kind       { return KindExplosion }
func (EnergyOrb) Kind() Kind       { return KindEnergyOrb }
func (Pacing) Kind() Kind          { return KindPacing }

func (d CardMove) Wait() time.Duration        { return d.Duration }
func (d CardDraw) Wait() time.Duration        { return d.Duration }
func (d Attack) Wait() time.Duration          { return d.Duration }
func (Shake) Wait() time.Duration             { return 0 }
func (DodgeShake) Wait() time.Duration        { return 0 }
func (d Slide) Wait() time.Duration           { return d.Duration }
func (d SkillProjectile) Wait() time.Duration { return d.Duration }
func (d SkillArea) Wait() time.Duration       { return d.Duration }
func (Heal) Wait() time.Duration              { return 0 }
func (ShieldFlash) Wait() time.Duration       { return 0 }
func (Buff) Wait() time.Duration              { return 0 }
func (Debuff) Wait() time.Duration            { return 0 }
func (d Explosion) Wait() time.Duration       { return d.Duration }
func (EnergyOrb) Wait() time.Duration         { return 0 }
func (d Pacing) Wait() time.Duration          { return d.Duration }
