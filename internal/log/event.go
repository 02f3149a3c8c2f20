package log

// EventType enumerates all observable battle events.
type EventType int

const (
	EventPhaseChange EventType = iota
	EventNewTurn
	EventShuffle
	EventDraw
	EventPlay
	EventPromote
	EventAttack
	EventDirectAttack
	EventSkill
	EventDamage
	EventHeal
	EventDodge
	EventStatChange
	EventDeath
	EventReturnToHand
	EventRebirth
	EventRevive
	EventDiscard
	EventSpawn
	EventHPChange
	EventCatalogMiss
	EventWin
	EventDrawGame
	EventInvariantViolation
)

func (e EventType) String() string {
	switch e {
	case EventPhaseChange:
		return "PhaseChange"
	case EventNewTurn:
		return "NewTurn"
	case EventShuffle:
		return "Shuffle"
	case EventDraw:
		return "Draw"
	case EventPlay:
		return "Play"
	case EventPromote:
		return "Promote"
	case EventAttack:
		return "Attack"
	case EventDirectAttack:
		return "DirectAttack"
	case EventSkill:
		return "Skill"
	case EventDamage:
		return "Damage"
	case EventHeal:
		return "Heal"
	case EventDodge:
		return "Dodge"
	case EventStatChange:
		return "StatChange"
	case EventDeath:
		return "Death"
	case EventReturnToHand:
		return "ReturnToHand"
	case EventRebirth:
		return "Rebirth"
	case EventRevive:
		return "Revive"
	case EventDiscard:
		return "Discard"
	case EventSpawn:
		return "Spawn"
	case EventHPChange:
		return "HPChange"
	case EventCatalogMiss:
		return "CatalogMiss"
	case EventWin:
		return "Win"
	case EventDrawGame:
		return "Draw(game)"
	case EventInvariantViolation:
		return "InvariantViolation"
	default:
		return "Unknown"
	}
}

// GameEvent represents a single observable event in a battle.
type GameEvent struct {
	Seq     int       `json:"seq"`            // monotonic sequence number
	Turn    int       `json:"turn"`           // which turn (1-based)
	Phase   string    `json:"phase"`          // current phase name (e.g. "Attacking")
	Player  int       `json:"player"`         // acting side (0 = A, 1 = B)
	Type    EventType `json:"type"`           // event type
	Card    string    `json:"card,omitempty"` // card name (if applicable)
	Details string    `json:"details"`        // human-readable detail string
}
