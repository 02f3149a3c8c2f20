package game

import (
	"fmt"
	"log/slog"
	"regexp"
	"strconv"

	"github.com/peterkuimelis/cardclash/internal/errors"
)

// Trigger is the lifecycle moment at which an Effect may fire.
type Trigger int

const (
	TriggerBeforeAttack Trigger = iota
	TriggerOnAttack
	TriggerAfterAttack
	TriggerOnDamaged
	TriggerAfterDamaged
	TriggerOnDeploy
	TriggerOnDeath
	TriggerTurnStart
	TriggerTurnEnd
	TriggerPassive // always on; queried rather than fired
)

func (t Trigger) String() string {
	switch t {
	case TriggerBeforeAttack:
		return "BeforeAttack"
	case TriggerOnAttack:
		return "OnAttack"
	case TriggerAfterAttack:
		return "AfterAttack"
	case TriggerOnDamaged:
		return "OnDamaged"
	case TriggerAfterDamaged:
		return "AfterDamaged"
	case TriggerOnDeploy:
		return "OnDeploy"
	case TriggerOnDeath:
		return "OnDeath"
	case TriggerTurnStart:
		return "TurnStart"
	case TriggerTurnEnd:
		return "TurnEnd"
	case TriggerPassive:
		return "Passive"
	default:
		return "Unknown"
	}
}

type TargetType int

const (
	TargetNone TargetType = iota
	TargetSelf
	TargetEnemyRandom
	TargetEnemyAll
	TargetAllyRandom
	TargetAllyAll
	TargetOpposite
	TargetPlayerAvatar
	TargetLastAttacker
	TargetAllyWaitingFirst
	TargetEnemyWaitingFirst
)

// SkillKind enumerates every trait the catalog understands.
type SkillKind int

const (
	SkillNone SkillKind = iota

	// exact traits
	SkillSelfDestruct
	SkillSilence
	SkillImmunity
	SkillUndying
	SkillRebirth
	SkillBerserk
	SkillClone
	SkillCopy
	SkillExplodeOnDeath

	// parametric traits
	SkillFireball
	SkillIce
	SkillLightning
	SkillMassFireball
	SkillMassIce
	SkillMassLightning
	SkillDefense
	SkillArmorBreak
	SkillHeal
	SkillMassHeal
	SkillRegen
	SkillVampire
	SkillInjury
	SkillCounter
	SkillDodge
	SkillDraw
	SkillRevive
	SkillHaste
	SkillDelay
	SkillBless
	SkillMassBless
	SkillInspire
	SkillMassInspire
	SkillCurse
	SkillBombard
	SkillMassBlast

	skillKindCount
)

type skillName struct {
	trait string // authored form, the prefix for parametric kinds
	name  string
}

var skillNames = [skillKindCount]skillName{
	SkillSelfDestruct:   {"自毁", "SelfDestruct"},
	SkillSilence:        {"沉默", "Silence"},
	SkillImmunity:       {"免疫", "Immunity"},
	SkillUndying:        {"不死", "Undying"},
	SkillRebirth:        {"复活", "Rebirth"},
	SkillBerserk:        {"狂暴", "Berserk"},
	SkillClone:          {"分身", "Clone"},
	SkillCopy:           {"复制", "Copy"},
	SkillExplodeOnDeath: {"爆裂", "ExplodeOnDeath"},
	SkillFireball:       {"火球", "Fireball"},
	SkillIce:            {"冰封", "Ice"},
	SkillLightning:      {"闪电", "Lightning"},
	SkillMassFireball:   {"群体火球", "MassFireball"},
	SkillMassIce:        {"群体冰封", "MassIce"},
	SkillMassLightning:  {"群体闪电", "MassLightning"},
	SkillDefense:        {"防御", "Defense"},
	SkillArmorBreak:     {"破甲", "ArmorBreak"},
	SkillHeal:           {"治愈", "Heal"},
	SkillMassHeal:       {"群体治愈", "MassHeal"},
	SkillRegen:          {"恢复", "Regen"},
	SkillVampire:        {"吸血", "Vampire"},
	SkillInjury:         {"受伤", "Injury"},
	SkillCounter:        {"反击", "Counter"},
	SkillDodge:          {"闪避", "Dodge"},
	SkillDraw:           {"抽卡", "Draw"},
	SkillRevive:         {"还魂", "Revive"},
	SkillHaste:          {"加速", "Haste"},
	SkillDelay:          {"延迟", "Delay"},
	SkillBless:          {"祝福", "Bless"},
	SkillMassBless:      {"群体祝福", "MassBless"},
	SkillInspire:        {"振奋", "Inspire"},
	SkillMassInspire:    {"群体振奋", "MassInspire"},
	SkillCurse:          {"诅咒", "Curse"},
	SkillBombard:        {"炮击", "Bombard"},
	SkillMassBlast:      {"群体爆破", "MassBlast"},
}

func (k SkillKind) String() string {
	if k <= SkillNone || k >= skillKindCount {
		return "None"
	}
	return skillNames[k].name
}

// Parametric reports whether the kind carries a magnitude.
func (k SkillKind) Parametric() bool {
	return k >= SkillFireball && k < skillKindCount
}

// Skill is a parsed trait. Skills are plain values: parsing the same trait
// twice yields equal Skills.
type Skill struct {
	Kind      SkillKind
	Magnitude int
	Trait     string
}

func (s Skill) String() string {
	if s.Kind.Parametric() {
		return fmt.Sprintf("%s %d", s.Kind, s.Magnitude)
	}
	return s.Kind.String()
}

// Effects returns the effects this skill contributes.
func (s Skill) Effects() []*Effect {
	if s.Kind <= SkillNone || s.Kind >= skillKindCount {
		return nil
	}
	return skillEffects[s.Kind]
}

// --- Catalog ---

type skillPattern struct {
	re   *regexp.Regexp
	kind SkillKind
}

// MaxMagnitude bounds parametric trait values so stat and cooldown arithmetic
// cannot overflow.
const MaxMagnitude = 1 << 20

// SkillCatalog maps trait strings to Skills: exact names first, then one
// ^NAME(\d+)$ pattern per parametric family.
type SkillCatalog struct {
	exact    map[string]SkillKind
	patterns []skillPattern
	logger   *slog.Logger
}

func NewSkillCatalog() *SkillCatalog {
	c := &SkillCatalog{
		exact:  make(map[string]SkillKind),
		logger: slog.Default(),
	}
	for k := SkillNone + 1; k < skillKindCount; k++ {
		n := skillNames[k]
		if k.Parametric() {
			c.patterns = append(c.patterns, skillPattern{
				re:   regexp.MustCompile("^" + regexp.QuoteMeta(n.trait) + `(\d+)$`),
				kind: k,
			})
			continue
		}
		c.exact[n.trait] = k
	}
	return c
}

// WithLogger sets the logger used for dropped traits.
func (c *SkillCatalog) WithLogger(l *slog.Logger) *SkillCatalog {
	c.logger = l
	return c
}

// Parse resolves a single trait string.
func (c *SkillCatalog) Parse(trait string) (Skill, error) {
	if k, ok := c.exact[trait]; ok {
		return Skill{Kind: k, Trait: trait}, nil
	}
	for _, p := range c.patterns {
		m := p.re.FindStringSubmatch(trait)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil || n > MaxMagnitude {
			return Skill{}, errors.SkillParseFailuref("trait %q: magnitude %s out of range", trait, m[1])
		}
		return Skill{Kind: p.kind, Magnitude: n, Trait: trait}, nil
	}
	return Skill{}, errors.SkillParseFailuref("trait %q matches no skill", trait)
}

// Resolve parses traits in order, dropping the ones that fail.
func (c *SkillCatalog) Resolve(traits []string) []Skill {
	var skills []Skill
	for _, t := range traits {
		s, err := c.Parse(t)
		if err != nil {
			c.logger.Debug("dropping trait", "trait", t, "error", err)
			continue
		}
		skills = append(skills, s)
	}
	return skills
}
