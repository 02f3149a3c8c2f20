package game

import (
	"fmt"
	"strings"
)

const (
	WaitingSlots = 8
	BattleSlots  = 5
)

// --- Enums ---

// Side identifies one of the two players.
type Side int

const (
	SideA Side = iota
	SideB
)

func (s Side) Opponent() Side {
	return 1 - s
}

func (s Side) String() string {
	if s == SideB {
		return "B"
	}
	return "A"
}

type Phase int

const (
	PhasePlaying Phase = iota
	PhaseAttacking
	PhaseCleanup
	PhaseCompact
	PhaseFinish
	PhaseGameOver
)

func (p Phase) String() string {
	switch p {
	case PhasePlaying:
		return "Playing"
	case PhaseAttacking:
		return "Attacking"
	case PhaseCleanup:
		return "Cleanup"
	case PhaseCompact:
		return "Compact"
	case PhaseFinish:
		return "Finish"
	case PhaseGameOver:
		return "GameOver"
	default:
		return "Unknown"
	}
}

// Battling reports whether p is one of the battling sub-phases.
func (p Phase) Battling() bool {
	return p >= PhaseAttacking && p <= PhaseFinish
}

type ZoneType int

const (
	ZoneDeck ZoneType = iota
	ZoneHand
	ZoneWaiting
	ZoneBattle
	ZoneDiscard
)

func (z ZoneType) String() string {
	switch z {
	case ZoneDeck:
		return "Deck"
	case ZoneHand:
		return "Hand"
	case ZoneWaiting:
		return "Waiting"
	case ZoneBattle:
		return "Battle"
	case ZoneDiscard:
		return "Discard"
	default:
		return "Unknown"
	}
}

// Rarity is the catalog tier of a card. Each tier is a directory in the
// card catalog.
type Rarity int

const (
	RarityCommon Rarity = iota
	RarityUncommon
	RarityRare
	RaritySuperRare
	RarityUltraRare
	RaritySecretRare
	RarityEpic
	RarityLegendary
	RarityMythic
	RarityAncient
	RarityDivine
	RarityCelestial
)

var rarityDirs = [...]string{
	"common",
	"uncommon",
	"rare",
	"super_rare",
	"ultra_rare",
	"secret_rare",
	"epic",
	"legendary",
	"mythic",
	"ancient",
	"divine",
	"celestial",
}

// Rarities lists every tier from lowest to highest.
func Rarities() []Rarity {
	out := make([]Rarity, len(rarityDirs))
	for i := range rarityDirs {
		out[i] = Rarity(i)
	}
	return out
}

func (r Rarity) String() string {
	if r < 0 || int(r) >= len(rarityDirs) {
		return "unknown"
	}
	return rarityDirs[r]
}

// ParseRarity accepts a directory name, case-insensitively, with spaces or
// dashes in place of underscores.
func ParseRarity(s string) (Rarity, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer(" ", "_", "-", "_").Replace(norm)
	for i, name := range rarityDirs {
		if name == norm {
			return Rarity(i), nil
		}
	}
	return RarityCommon, fmt.Errorf("unknown rarity %q", s)
}

// Play is one legal Hand→Waiting move.
type Play struct {
	HandIndex int `json:"hand_index"`
	Slot      int `json:"slot"`
}

func (p Play) String() string {
	return fmt.Sprintf("hand %d → waiting %d", p.HandIndex+1, p.Slot+1)
}
