package log

import (
	"fmt"
	"io"
	"strings"
)

// EventLogger is the interface for logging battle events.
type EventLogger interface {
	Log(event GameEvent)
	Events() []GameEvent
}

// --- MemoryLogger: stores events in memory for test assertions ---

type MemoryLogger struct {
	events []GameEvent
	seq    int
}

func NewMemoryLogger() *MemoryLogger {
	return &MemoryLogger{}
}

func (l *MemoryLogger) Log(event GameEvent) {
	l.seq++
	event.Seq = l.seq
	l.events = append(l.events, event)
}

func (l *MemoryLogger) Events() []GameEvent {
	return l.events
}

// EventsOfType returns all events matching the given type.
func (l *MemoryLogger) EventsOfType(t EventType) []GameEvent {
	var result []GameEvent
	for _, e := range l.events {
		if e.Type == t {
			result = append(result, e)
		}
	}
	return result
}

// LastEvent returns the most recent event, or a zero event if none.
func (l *MemoryLogger) LastEvent() GameEvent {
	if len(l.events) == 0 {
		return GameEvent{}
	}
	return l.events[len(l.events)-1]
}

// Since returns the events logged after the given sequence number.
func (l *MemoryLogger) Since(seq int) []GameEvent {
	for i, e := range l.events {
		if e.Seq > seq {
			return l.events[i:]
		}
	}
	return nil
}

// --- TextLogger: writes human-readable lines to an io.Writer ---

type TextLogger struct {
	MemoryLogger
	w io.Writer
}

func NewTextLogger(w io.Writer) *TextLogger {
	return &TextLogger{w: w}
}

func (l *TextLogger) Log(event GameEvent) {
	l.MemoryLogger.Log(event)
	fmt.Fprintln(l.w, FormatEvent(event))
}

// --- Formatting ---

// SideName returns "A" or "B" for display.
func SideName(p int) string {
	if p == 1 {
		return "B"
	}
	return "A"
}

// FormatEvent formats a single event as a human-readable line.
func FormatEvent(e GameEvent) string {
	phase := e.Phase
	// Pad phase to 10 chars for alignment
	for len(phase) < 10 {
		phase += " "
	}
	return fmt.Sprintf("T%-3d %s| %s", e.Turn, phase, e.Details)
}

// FormatAll formats all events as a multi-line string.
func FormatAll(events []GameEvent) string {
	var sb strings.Builder
	for _, e := range events {
		sb.WriteString(FormatEvent(e))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// --- Helper constructors for common events ---

func NewPhaseChangeEvent(turn int, player int, phase string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventPhaseChange,
		Details: fmt.Sprintf("Phase → %s", phase),
	}
}

func NewTurnEvent(turn int, player int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   "Playing",
		Player:  player,
		Type:    EventNewTurn,
		Details: fmt.Sprintf("=== Turn %d (side %s) ===", turn, SideName(player)),
	}
}

func NewShuffleEvent(player int, size int) GameEvent {
	return GameEvent{
		Turn:    1,
		Player:  player,
		Type:    EventShuffle,
		Details: fmt.Sprintf("%s shuffles a %d-card deck", SideName(player), size),
	}
}

func NewDrawEvent(turn int, phase string, player int, cardName string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventDraw,
		Card:    cardName,
		Details: fmt.Sprintf("%s draws %s", SideName(player), cardName),
	}
}

func NewPlayEvent(turn int, player int, cardName string, slot int, cd int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   "Playing",
		Player:  player,
		Type:    EventPlay,
		Card:    cardName,
		Details: fmt.Sprintf("%s plays %s to waiting slot %d (CD %d)", SideName(player), cardName, slot+1, cd),
	}
}

func NewPromoteEvent(turn int, phase string, player int, cardName string, from, to int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventPromote,
		Card:    cardName,
		Details: fmt.Sprintf("%s deploys %s from waiting slot %d to battle slot %d", SideName(player), cardName, from+1, to+1),
	}
}

func NewAttackEvent(turn int, player int, attacker string, slot int, defender string, damage int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   "Attacking",
		Player:  player,
		Type:    EventAttack,
		Card:    attacker,
		Details: fmt.Sprintf("%s attacks %s in slot %d for %d", attacker, defender, slot+1, damage),
	}
}

func NewDirectAttackEvent(turn int, player int, attacker string, damage int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   "Attacking",
		Player:  player,
		Type:    EventDirectAttack,
		Card:    attacker,
		Details: fmt.Sprintf("%s attacks side %s directly for %d", attacker, SideName(1-player), damage),
	}
}

func NewSkillEvent(turn int, phase string, player int, cardName string, trait string, details string) GameEvent {
	d := fmt.Sprintf("%s uses %s", cardName, trait)
	if details != "" {
		d += ": " + details
	}
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventSkill,
		Card:    cardName,
		Details: d,
	}
}

func NewDamageEvent(turn int, phase string, player int, cardName string, amount int, hp int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventDamage,
		Card:    cardName,
		Details: fmt.Sprintf("%s takes %d damage (HP %d)", cardName, amount, hp),
	}
}

func NewHealEvent(turn int, phase string, player int, cardName string, amount int, hp int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventHeal,
		Card:    cardName,
		Details: fmt.Sprintf("%s heals %d (HP %d)", cardName, amount, hp),
	}
}

func NewDodgeEvent(turn int, player int, cardName string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   "Attacking",
		Player:  player,
		Type:    EventDodge,
		Card:    cardName,
		Details: fmt.Sprintf("%s dodges the attack", cardName),
	}
}

func NewStatChangeEvent(turn int, phase string, player int, cardName string, details string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventStatChange,
		Card:    cardName,
		Details: fmt.Sprintf("%s %s", cardName, details),
	}
}

func NewDeathEvent(turn int, phase string, player int, cardName string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventDeath,
		Card:    cardName,
		Details: fmt.Sprintf("%s is destroyed", cardName),
	}
}

func NewReturnToHandEvent(turn int, phase string, player int, cardName string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventReturnToHand,
		Card:    cardName,
		Details: fmt.Sprintf("%s returns to %s's hand", cardName, SideName(player)),
	}
}

func NewRebirthEvent(turn int, phase string, player int, cardName string, slot int, cd int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventRebirth,
		Card:    cardName,
		Details: fmt.Sprintf("%s is reborn into waiting slot %d (CD %d)", cardName, slot+1, cd),
	}
}

func NewReviveEvent(turn int, phase string, player int, cardName string, slot int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventRevive,
		Card:    cardName,
		Details: fmt.Sprintf("%s is revived from the discard into waiting slot %d", cardName, slot+1),
	}
}

func NewDiscardEvent(turn int, phase string, player int, cardName string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventDiscard,
		Card:    cardName,
		Details: fmt.Sprintf("%s is sent to %s's discard", cardName, SideName(player)),
	}
}

func NewSpawnEvent(turn int, phase string, player int, cardName string, slot int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventSpawn,
		Card:    cardName,
		Details: fmt.Sprintf("a copy of %s appears in waiting slot %d", cardName, slot+1),
	}
}

func NewHPChangeEvent(turn int, phase string, player int, oldHP, newHP int, reason string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventHPChange,
		Details: fmt.Sprintf("%s HP: %d → %d (%s)", SideName(player), oldHP, newHP, reason),
	}
}

func NewCatalogMissEvent(player int, id string, rarity string) GameEvent {
	return GameEvent{
		Player:  player,
		Type:    EventCatalogMiss,
		Card:    id,
		Details: fmt.Sprintf("%s deck entry %s/%s is not in the catalog", SideName(player), rarity, id),
	}
}

func NewWinEvent(turn int, phase string, winner int, reason string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  winner,
		Type:    EventWin,
		Details: fmt.Sprintf("Side %s wins! (%s)", SideName(winner), reason),
	}
}

func NewDrawGameEvent(turn int, phase string, reason string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Type:    EventDrawGame,
		Details: fmt.Sprintf("Battle ends with no winner (%s)", reason),
	}
}

func NewInvariantViolationEvent(turn int, phase string, player int, details string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventInvariantViolation,
		Details: "invariant violated: " + details,
	}
}
