package game

import "fmt"

// --- Card definition (static, from the catalog) ---

type CardDef struct {
	ID          string
	Name        string
	Rarity      Rarity
	ATK         int
	HP          int
	CD          int
	Traits      []string
	Description string

	// Skills are resolved from Traits once, when the definition enters a
	// catalog. Unparseable traits are absent.
	Skills []Skill

	// Synthetic marks a stand-in built for a deck entry the catalog lacks.
	Synthetic bool
}

func (c *CardDef) String() string {
	return c.Name
}

// --- CardInstance (runtime card in a battle) ---

type CardInstance struct {
	Def   *CardDef
	ID    int  // unique instance ID within a battle
	Owner Side // side whose zones hold this card

	ATK   int
	HP    int
	MaxHP int
	CD    int // cooldown remaining while in Waiting

	Skills []Skill

	// Token instances are spawned by Clone. They vanish instead of entering
	// the discard and are not counted against the deck.
	Token bool

	rebirthUsed    bool
	selfDestructed bool
}

// NewInstance creates an independent instance of def for one side.
func NewInstance(def *CardDef, id int, owner Side) *CardInstance {
	ci := &CardInstance{
		Def:    def,
		ID:     id,
		Owner:  owner,
		Skills: append([]Skill(nil), def.Skills...),
	}
	ci.resetStats()
	return ci
}

func (ci *CardInstance) String() string {
	if ci == nil {
		return "(empty)"
	}
	return fmt.Sprintf("%s (%d/%d CD %d)", ci.Def.Name, ci.ATK, ci.HP, ci.CD)
}

// Name returns the display name, marking tokens.
func (ci *CardInstance) Name() string {
	if ci.Token {
		return ci.Def.Name + " (copy)"
	}
	return ci.Def.Name
}

func (ci *CardInstance) Alive() bool {
	return ci.HP > 0
}

// HasSkill reports whether the instance carries a skill of the given kind.
func (ci *CardInstance) HasSkill(kind SkillKind) bool {
	for _, s := range ci.Skills {
		if s.Kind == kind {
			return true
		}
	}
	return false
}

// SkillTotal sums the magnitudes of every skill of the given kind.
func (ci *CardInstance) SkillTotal(kind SkillKind) int {
	total := 0
	for _, s := range ci.Skills {
		if s.Kind == kind {
			total += s.Magnitude
		}
	}
	return total
}

// resetStats restores printed stats, used whenever a card re-enters Hand or
// Waiting from the field or the discard.
func (ci *CardInstance) resetStats() {
	ci.ATK = ci.Def.ATK
	ci.HP = ci.Def.HP
	ci.MaxHP = ci.Def.HP
	ci.CD = ci.Def.CD
	ci.selfDestructed = false
}
